// Package service implements the tone-tag commands on top of the standard
// registry and the per-user preference cache.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"tonetags/internal/audit"
	"tonetags/internal/explain"
	"tonetags/internal/explain/metrics"
	"tonetags/internal/standard"
	id "tonetags/pkg/domain"
	dErrors "tonetags/pkg/domain-errors"
	platformstrings "tonetags/pkg/platform/strings"
)

const (
	NoStandardsEnabled = "*No standards are enabled*"
	AllDataDeleted     = "*Deleted all data.*"
	AllDisabled        = "*Disabled all standards. Bot is now effectively disabled*"
)

// Cache is the subset of preference.Cache the commands rely on.
type Cache interface {
	Get(ctx context.Context, userID id.UserID) ([]string, error)
	Update(ctx context.Context, userID id.UserID, ids []string) (int, error)
	Delete(ctx context.Context, userID id.UserID) error
}

// AuditPublisher records user-visible changes. Failures never fail the command.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Service runs the tone-tag commands for one authenticated user at a time.
type Service struct {
	registry *standard.Registry
	cache    Cache
	auditor  AuditPublisher
	logger   *slog.Logger
	metrics  *metrics.Metrics
	tracer   trace.Tracer
}

// Option configures the Service.
type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithAuditPublisher(p AuditPublisher) Option {
	return func(s *Service) {
		s.auditor = p
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func New(registry *standard.Registry, cache Cache, opts ...Option) (*Service, error) {
	if registry == nil {
		return nil, fmt.Errorf("registry is required")
	}
	if cache == nil {
		return nil, fmt.Errorf("preference cache is required")
	}
	s := &Service{
		registry: registry,
		cache:    cache,
		logger:   slog.Default(),
		tracer:   otel.Tracer("tonetags/internal/explain/service"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Explain reports the trailing tone tags of text using the user's enabled standards.
func (s *Service) Explain(ctx context.Context, userID id.UserID, text string) (string, error) {
	ctx, span := s.start(ctx, "explain", userID)
	defer span.End()

	enabled, err := s.enabled(ctx, span, "explain", userID)
	if err != nil {
		return "", err
	}

	report := explain.Resolve(text, enabled, s.registry)
	span.SetAttributes(attribute.Int("tags_resolved", len(report.Lines)))
	if s.metrics != nil {
		s.metrics.ObserveReport(len(report.Lines))
	}
	return report.String(), nil
}

// ListStandards describes the user's enabled standards, or every standard when showDisabled is set.
func (s *Service) ListStandards(ctx context.Context, userID id.UserID, showDisabled bool) (string, error) {
	ctx, span := s.start(ctx, "list_standards", userID)
	defer span.End()

	enabled, err := s.enabled(ctx, span, "list_standards", userID)
	if err != nil {
		return "", err
	}
	if len(enabled) == 0 && !showDisabled {
		return NoStandardsEnabled, nil
	}

	isEnabled := make(map[string]bool, len(enabled))
	for _, stdID := range enabled {
		isEnabled[stdID] = true
	}

	var sections []string
	for _, entry := range s.registry.Entries() {
		if !showDisabled && !isEnabled[entry.ID] {
			continue
		}
		var b strings.Builder
		b.WriteString("## ")
		b.WriteString(entry.Standard.Title)
		b.WriteString("\n`")
		b.WriteString(entry.ID)
		b.WriteString("`")
		if showDisabled && isEnabled[entry.ID] {
			b.WriteString(" *(enabled)*")
		}
		b.WriteString("\n")
		b.WriteString(strings.TrimSpace(entry.Standard.Description))
		sections = append(sections, b.String())
	}
	return strings.Join(sections, "\n"), nil
}

// SetStandards replaces the user's enabled standards with the known ids in a comma-separated list.
func (s *Service) SetStandards(ctx context.Context, userID id.UserID, raw string) (string, error) {
	ctx, span := s.start(ctx, "set_standards", userID)
	defer span.End()

	requested := platformstrings.SplitList(raw, ",")
	count, err := s.cache.Update(ctx, userID, requested)
	if err != nil {
		return "", s.fail(ctx, span, "set_standards", userID, err, "failed to save standards")
	}
	span.SetAttributes(attribute.Int("standards_enabled", count))

	s.emit(ctx, audit.Event{Action: audit.ActionStandardsSet, UserID: userID, Standards: s.registry.Filter(requested)})

	switch count {
	case 0:
		return AllDisabled, nil
	case 1:
		return "*Enabled 1 standard*", nil
	default:
		return fmt.Sprintf("*Enabled %d standards*", count), nil
	}
}

// DeleteAllData forgets everything stored about the user.
func (s *Service) DeleteAllData(ctx context.Context, userID id.UserID) (string, error) {
	ctx, span := s.start(ctx, "delete_all_data", userID)
	defer span.End()

	if err := s.cache.Delete(ctx, userID); err != nil {
		return "", s.fail(ctx, span, "delete_all_data", userID, err, "failed to delete data")
	}
	s.logger.InfoContext(ctx, "user data deleted", "user_id", userID)
	s.emit(ctx, audit.Event{Action: audit.ActionUserDataDeleted, UserID: userID})
	return AllDataDeleted, nil
}

// Autocomplete suggests completions for a comma-separated standards list.
//
// Every part but the last is kept when it names a known standard, without
// repeats. Each remaining standard whose id contains the last part as a
// subsequence is offered appended to that prefix.
func (s *Service) Autocomplete(partial string) []string {
	parts := strings.Split(partial, ",")
	search := strings.TrimSpace(parts[len(parts)-1])

	var chosen []string
	for _, part := range parts[:len(parts)-1] {
		chosen = append(chosen, strings.TrimSpace(part))
	}
	chosen = s.registry.Filter(chosen)

	prefix := strings.Join(chosen, ",")
	if prefix != "" {
		prefix += ","
	}

	taken := make(map[string]bool, len(chosen))
	for _, stdID := range chosen {
		taken[stdID] = true
	}

	suggestions := []string{}
	for _, stdID := range s.registry.IDs() {
		if taken[stdID] || !isSubsequence(search, stdID) {
			continue
		}
		suggestions = append(suggestions, prefix+stdID)
	}
	return suggestions
}

func isSubsequence(needle, haystack string) bool {
	rest := []rune(haystack)
	for _, want := range needle {
		i := 0
		for i < len(rest) && rest[i] != want {
			i++
		}
		if i == len(rest) {
			return false
		}
		rest = rest[i+1:]
	}
	return true
}

func (s *Service) start(ctx context.Context, command string, userID id.UserID) (context.Context, trace.Span) {
	if s.metrics != nil {
		s.metrics.IncrementCommand(command)
	}
	ctx, span := s.tracer.Start(ctx, "tonetags."+command)
	span.SetAttributes(attribute.String("user_id", userID.String()))
	return ctx, span
}

func (s *Service) enabled(ctx context.Context, span trace.Span, command string, userID id.UserID) ([]string, error) {
	enabled, err := s.cache.Get(ctx, userID)
	if err != nil {
		return nil, s.fail(ctx, span, command, userID, err, "failed to load standards")
	}
	return enabled, nil
}

func (s *Service) fail(ctx context.Context, span trace.Span, command string, userID id.UserID, err error, msg string) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, msg)
	if s.metrics != nil {
		s.metrics.IncrementCommandError(command)
	}
	s.logger.ErrorContext(ctx, msg,
		"command", command,
		"user_id", userID,
		"error", err,
	)
	return dErrors.Wrap(err, dErrors.CodeInternal, msg)
}

func (s *Service) emit(ctx context.Context, event audit.Event) {
	if s.auditor == nil {
		return
	}
	if err := s.auditor.Emit(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "failed to publish audit event",
			"action", event.Action,
			"user_id", event.UserID,
			"error", err,
		)
	}
}
