package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"tonetags/internal/delivery"
	"tonetags/internal/platform/metrics"
	"tonetags/internal/platform/middleware"
	id "tonetags/pkg/domain"
	dErrors "tonetags/pkg/domain-errors"
	"tonetags/pkg/platform/httputil"
	"tonetags/pkg/requestcontext"
)

const maxBodyBytes = 64 << 10

// Service defines the tone-tag commands the handler exposes.
type Service interface {
	Explain(ctx context.Context, userID id.UserID, text string) (string, error)
	ListStandards(ctx context.Context, userID id.UserID, showDisabled bool) (string, error)
	SetStandards(ctx context.Context, userID id.UserID, raw string) (string, error)
	DeleteAllData(ctx context.Context, userID id.UserID) (string, error)
	Autocomplete(partial string) []string
}

// Handler maps the chat commands onto HTTP routes.
type Handler struct {
	service      Service
	logger       *slog.Logger
	metrics      *metrics.Metrics
	jwtValidator middleware.JWTValidator
	chunkLimit   int
}

// New creates a new command Handler. A non-positive chunkLimit selects delivery.DefaultLimit.
func New(
	service Service,
	logger *slog.Logger,
	metrics *metrics.Metrics,
	jwtValidator middleware.JWTValidator,
	chunkLimit int) *Handler {
	if chunkLimit <= 0 {
		chunkLimit = delivery.DefaultLimit
	}
	return &Handler{
		service:      service,
		logger:       logger,
		metrics:      metrics,
		jwtValidator: jwtValidator,
		chunkLimit:   chunkLimit,
	}
}

// Register registers the command routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	commands := chi.NewRouter()
	commands.Use(middleware.Recovery(h.logger))
	commands.Use(middleware.RequestID)
	commands.Use(middleware.RequestTime)
	commands.Use(middleware.Logger(h.logger))
	commands.Use(middleware.Timeout(30 * time.Second))
	commands.Use(middleware.ContentTypeJSON)
	commands.Use(middleware.LatencyMiddleware(h.metrics))
	commands.Use(middleware.RequireAuth(h.jwtValidator, h.logger))

	commands.Post("/explain/text", h.handleExplainText)
	commands.Post("/explain/message", h.handleExplainMessage)
	commands.Get("/standards", h.handleListStandards)
	commands.Put("/standards", h.handleSetStandards)
	commands.Get("/standards/autocomplete", h.handleAutocomplete)
	commands.Delete("/me", h.handleDeleteAllData)

	r.Mount("/", commands)
}

func (h *Handler) handleExplainText(w http.ResponseWriter, r *http.Request) {
	var req ExplainTextRequest
	if !h.decode(w, r, &req) {
		return
	}
	h.explain(w, r, req.Text, ephemeralOrDefault(req.Ephemeral))
}

func (h *Handler) handleExplainMessage(w http.ResponseWriter, r *http.Request) {
	var req ExplainMessageRequest
	if !h.decode(w, r, &req) {
		return
	}
	h.explain(w, r, req.Content, ephemeralOrDefault(req.Ephemeral))
}

func (h *Handler) explain(w http.ResponseWriter, r *http.Request, text string, ephemeral bool) {
	ctx := r.Context()
	userID, ok := h.userID(ctx, w)
	if !ok {
		return
	}

	report, err := h.service.Explain(ctx, userID, text)
	if err != nil {
		h.writeServiceError(ctx, w, "failed to explain tone tags", err)
		return
	}
	h.reply(w, report, ephemeral)
}

func (h *Handler) handleListStandards(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, ok := h.userID(ctx, w)
	if !ok {
		return
	}

	query := r.URL.Query()
	showDisabled, err := queryBool(query.Get("show_disabled"), false, "show_disabled")
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	ephemeral, err := queryBool(query.Get("ephemeral"), true, "ephemeral")
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	listing, err := h.service.ListStandards(ctx, userID, showDisabled)
	if err != nil {
		h.writeServiceError(ctx, w, "failed to list standards", err)
		return
	}
	h.reply(w, listing, ephemeral)
}

func (h *Handler) handleSetStandards(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req SetStandardsRequest
	if !h.decode(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		httputil.WriteError(w, err)
		return
	}
	userID, ok := h.userID(ctx, w)
	if !ok {
		return
	}

	confirmation, err := h.service.SetStandards(ctx, userID, *req.Standards)
	if err != nil {
		h.writeServiceError(ctx, w, "failed to set standards", err)
		return
	}
	h.reply(w, confirmation, true)
}

func (h *Handler) handleAutocomplete(w http.ResponseWriter, r *http.Request) {
	suggestions := h.service.Autocomplete(r.URL.Query().Get("partial"))
	httputil.WriteJSON(w, http.StatusOK, AutocompleteResponse{Suggestions: suggestions})
}

func (h *Handler) handleDeleteAllData(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, ok := h.userID(ctx, w)
	if !ok {
		return
	}

	confirmation, err := h.service.DeleteAllData(ctx, userID)
	if err != nil {
		h.writeServiceError(ctx, w, "failed to delete user data", err)
		return
	}
	h.reply(w, confirmation, true)
}

func (h *Handler) reply(w http.ResponseWriter, text string, ephemeral bool) {
	httputil.WriteJSON(w, http.StatusOK, delivery.NewMessage(text, h.chunkLimit, ephemeral))
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		h.logger.WarnContext(r.Context(), "invalid request body",
			"request_id", requestcontext.RequestID(r.Context()),
			"error", err.Error(),
		)
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return false
	}
	return true
}

// userID reads the authenticated user. RequireAuth guarantees it on mounted routes.
func (h *Handler) userID(ctx context.Context, w http.ResponseWriter) (id.UserID, bool) {
	userID := requestcontext.UserID(ctx)
	if userID.IsNil() {
		h.logger.ErrorContext(ctx, "userID missing from context despite auth middleware",
			"request_id", requestcontext.RequestID(ctx),
		)
		httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, "authentication context error"))
		return 0, false
	}
	return userID, true
}

func (h *Handler) writeServiceError(ctx context.Context, w http.ResponseWriter, msg string, err error) {
	h.logger.ErrorContext(ctx, msg,
		"request_id", requestcontext.RequestID(ctx),
		"user_id", requestcontext.UserID(ctx),
		"error", err,
	)
	httputil.WriteError(w, err)
}
