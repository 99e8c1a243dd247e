package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"tonetags/internal/platform/httpserver"
	"tonetags/internal/preference/store/migrations"
)

const shutdownGrace = 10 * time.Second

func newServeCmd(root *rootOptions) *cobra.Command {
	var migrate bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the tone-tag commands over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context(), root, migrate)
		},
	}
	cmd.Flags().BoolVar(&migrate, "migrate", false, "apply database migrations before serving (postgres store only)")
	return cmd
}

func serve(ctx context.Context, root *rootOptions, migrate bool) (err error) {
	cfg, err := root.load()
	if err != nil {
		return err
	}
	log, logCloser, err := setupLogger(cfg)
	if err != nil {
		return err
	}
	defer logCloser.Close()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if migrate && cfg.DatabaseURL != "" {
		if err := migrations.Up(cfg.DatabaseURL); err != nil {
			return err
		}
		log.InfoContext(ctx, "database migrations applied")
	}

	application, err := newApp(ctx, cfg, log)
	if err != nil {
		log.ErrorContext(ctx, "failed to start", "error", err)
		return err
	}
	defer func() {
		if closeErr := application.Close(); closeErr != nil {
			err = multierror.Append(err, closeErr).ErrorOrNil()
		}
	}()

	srv := httpserver.New(cfg.Addr, application.router())
	g, gctx := errgroup.WithContext(ctx)
	// The audit worker outlives the server so events from draining requests are kept.
	workerCtx, stopWorker := context.WithCancel(context.WithoutCancel(gctx))
	defer stopWorker()
	g.Go(func() error {
		defer stopWorker()
		log.InfoContext(gctx, "starting tonetags", "addr", cfg.Addr, "store", cfg.Store)
		return httpserver.Run(gctx, srv, shutdownGrace)
	})
	if application.worker != nil {
		g.Go(func() error {
			return application.worker.Run(workerCtx)
		})
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.ErrorContext(ctx, "server stopped with error", "error", err)
		return err
	}
	log.Info("server stopped")
	return nil
}
