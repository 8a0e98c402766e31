// File: cli/serve.go
package cli

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"car-showcase/config"
	"car-showcase/logger"
	"car-showcase/server"
	"car-showcase/sessionstore"
)

const shutdownTimeout = 10 * time.Second

func newServeCommand(cfg func() *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API, live-update hub and background jobs",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg())
		},
	}
}

// serve runs until ctx is cancelled or a component fails, then shuts everything down.
func serve(ctx context.Context, cfg *config.Config) error {
	a, err := buildApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(); err != nil {
			logger.Warn("close stores", zap.Error(err))
		}
	}()
	if err := a.prepare(ctx); err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           server.Handler(a.routes()),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("listening", zap.String("addr", cfg.Addr), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	g.Go(func() error { return a.hub.Run(gctx) })
	g.Go(func() error { return sessionstore.RunSweeper(gctx, a.sessions, cfg.Sessions.SweepInterval) })
	if a.cloudwatch != nil {
		g.Go(func() error { return a.cloudwatch.Run(gctx, cfg.Metrics.FlushInterval) })
	}
	return g.Wait()
}
