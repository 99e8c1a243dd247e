package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hashicorp/go-multierror"
	"github.com/prometheus/client_golang/prometheus"

	"tonetags/internal/audit"
	auditkafka "tonetags/internal/audit/kafka"
	auditpostgres "tonetags/internal/audit/store/postgres"
	"tonetags/internal/explain/handler"
	explainmetrics "tonetags/internal/explain/metrics"
	"tonetags/internal/explain/service"
	jwttoken "tonetags/internal/jwt_token"
	"tonetags/internal/platform/config"
	"tonetags/internal/platform/metrics"
	"tonetags/internal/platform/postgres"
	platformredis "tonetags/internal/platform/redis"
	"tonetags/internal/preference"
	prefmetrics "tonetags/internal/preference/metrics"
	"tonetags/internal/preference/store"
	"tonetags/internal/standard"
	"tonetags/pkg/platform/httputil"
)

const auditQueueSize = 1024

// app holds the wired components of a running server.
type app struct {
	cfg      *config.Config
	logger   *slog.Logger
	registry *standard.Registry
	metrics  *prometheus.Registry
	service  *service.Service
	worker   *audit.Worker
	db       *sql.DB
	health   []func(context.Context) error
	closers  []io.Closer
}

func loadRegistry(dir string) (*standard.Registry, error) {
	if dir == "" {
		return standard.LoadBundled()
	}
	return standard.LoadDir(dir)
}

func newApp(ctx context.Context, cfg *config.Config, log *slog.Logger) (*app, error) {
	a := &app{cfg: cfg, logger: log, metrics: metrics.NewRegistry()}
	if err := a.wire(ctx); err != nil {
		_ = a.Close()
		return nil, err
	}
	return a, nil
}

func (a *app) wire(ctx context.Context) error {
	var err error
	a.registry, err = loadRegistry(a.cfg.StandardsDir)
	if err != nil {
		return fmt.Errorf("load standards: %w", err)
	}
	a.logger.InfoContext(ctx, "standards loaded", "count", a.registry.Len(), "ids", a.registry.IDs())

	prefStore, err := a.openStore(ctx)
	if err != nil {
		return err
	}

	cache, err := preference.NewCache(prefStore, a.registry,
		preference.WithCapacity(a.cfg.CacheCapacity),
		preference.WithLogger(a.logger),
		preference.WithMetrics(prefmetrics.New(a.metrics)),
	)
	if err != nil {
		return err
	}

	opts := []service.Option{
		service.WithLogger(a.logger),
		service.WithMetrics(explainmetrics.New(a.metrics)),
	}
	publisher, err := a.openAudit(ctx)
	if err != nil {
		return err
	}
	if publisher != nil {
		opts = append(opts, service.WithAuditPublisher(publisher))
	}

	a.service, err = service.New(a.registry, cache, opts...)
	return err
}

func (a *app) openStore(ctx context.Context) (preference.Store, error) {
	switch a.cfg.Store {
	case config.StorePostgres:
		db, err := postgres.Open(ctx, a.cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		a.db = db
		a.closers = append(a.closers, db)
		a.health = append(a.health, db.PingContext)
		return store.NewPostgres(db), nil
	case config.StoreRedis:
		client, err := platformredis.New(ctx, a.cfg.Redis)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, client)
		a.health = append(a.health, client.Health)
		return store.NewRedis(client.Client), nil
	default:
		a.logger.WarnContext(ctx, "using in-memory preference store; preferences are lost on restart")
		return store.NewInMemory(), nil
	}
}

// openAudit picks the audit sink: Kafka when brokers are configured, else the
// postgres audit_events table when the postgres store is in use. Without
// either, audit events are not recorded.
func (a *app) openAudit(ctx context.Context) (*audit.Publisher, error) {
	var sink audit.Store
	switch {
	case len(a.cfg.Kafka.Brokers) > 0:
		kafkaSink, err := auditkafka.New(a.cfg.Kafka.Brokers, a.cfg.Kafka.AuditTopic)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, kafkaSink)
		if err := kafkaSink.EnsureTopic(ctx); err != nil {
			return nil, err
		}
		a.logger.InfoContext(ctx, "audit events go to kafka", "topic", kafkaSink.Topic())
		sink = kafkaSink
	case a.db != nil:
		a.logger.InfoContext(ctx, "audit events go to postgres")
		sink = auditpostgres.New(a.db)
	default:
		return nil, nil
	}

	queue := audit.NewQueue(auditQueueSize)
	a.worker = audit.NewWorker(sink, queue.Events(), a.logger)
	return audit.NewPublisher(queue), nil
}

// router mounts the unauthenticated operational routes next to the command routes.
func (a *app) router() http.Handler {
	validator := jwttoken.NewJWTServiceAdapter(jwttoken.NewJWTService(a.cfg.JWTSigningKey, a.cfg.JWTIssuer))
	h := handler.New(a.service, a.logger, metrics.New(a.metrics), validator, a.cfg.ChunkLimit)

	r := chi.NewRouter()
	r.Get("/healthz", a.handleHealth)
	r.Handle("/metrics", metrics.Handler(a.metrics))
	h.Register(r)
	return r
}

func (a *app) handleHealth(w http.ResponseWriter, r *http.Request) {
	for _, check := range a.health {
		if err := check(r.Context()); err != nil {
			a.logger.WarnContext(r.Context(), "health check failed", "error", err)
			httputil.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Close releases every opened resource in reverse order.
func (a *app) Close() error {
	var result *multierror.Error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			result = multierror.Append(result, err)
		}
	}
	a.closers = nil
	return result.ErrorOrNil()
}
