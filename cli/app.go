// File: cli/app.go
package cli

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"car-showcase/config"
	"car-showcase/logger"
	"car-showcase/metrics"
	"car-showcase/server"
	"car-showcase/services"
	"car-showcase/sessionstore"
	"car-showcase/storage"
	"car-showcase/websocket"
)

// app is the fully wired process: stores, services and the live-update hub.
type app struct {
	cfg        *config.Config
	store      storage.EntityStore
	sessions   sessionstore.Store
	prometheus *metrics.Prometheus
	cloudwatch *metrics.CloudWatch
	auth       *services.AuthService
	catalog    *services.CatalogService
	qr         *services.QRCodeService
	hub        *websocket.Hub
}

// openStore returns the configured entity store, plus its handle when it is SQL-backed.
func openStore(ctx context.Context, cfg *config.Config) (storage.EntityStore, *sql.DB, error) {
	switch cfg.Storage.Driver {
	case config.DriverMemory:
		logger.Warn("using in-memory storage; data is lost on restart")
		return storage.NewMemStorage(), nil, nil
	case config.DriverPostgres, config.DriverSQLite:
		s, err := storage.Open(ctx, cfg.Storage.Driver, cfg.Storage.DSN)
		if err != nil {
			return nil, nil, fmt.Errorf("open %s storage: %w", cfg.Storage.Driver, err)
		}
		return s, s.DB(), nil
	default:
		return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}

func openSessions(ctx context.Context, cfg *config.Config, db *sql.DB) (sessionstore.Store, error) {
	ttl := sessionstore.WithTTL(cfg.Sessions.TTL)
	switch cfg.Sessions.Backend {
	case config.BackendMemory:
		return sessionstore.NewMemory(ttl, sessionstore.WithMaxSessions(cfg.Sessions.Max)), nil
	case config.BackendSQL:
		if db == nil {
			return nil, errors.New("sql session backend needs a SQL storage driver")
		}
		return sessionstore.NewSQL(ctx, db, cfg.Storage.Driver, ttl)
	case config.BackendRedis:
		return sessionstore.NewRedisFromURL(ctx, cfg.Sessions.RedisURL, ttl)
	default:
		return nil, fmt.Errorf("unknown session backend %q", cfg.Sessions.Backend)
	}
}

func hubOrigins(cfg *config.Config) []string {
	if cfg.IsProduction() {
		return []string{cfg.ApplicationURL}
	}
	return nil
}

// buildApp opens every backing store named by cfg and wires the services.
func buildApp(ctx context.Context, cfg *config.Config) (*app, error) {
	store, db, err := openStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	sessions, err := openSessions(ctx, cfg, db)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("open %s session store: %w", cfg.Sessions.Backend, err)
	}

	a := &app{
		cfg:        cfg,
		store:      store,
		sessions:   sessions,
		prometheus: metrics.NewPrometheus(),
		qr:         services.NewQRCodeService(cfg.ApplicationURL),
		hub:        websocket.NewHub(hubOrigins(cfg)...),
	}

	var rec metrics.Recorder = a.prometheus
	if cfg.Metrics.CloudWatchEnabled {
		cw, err := metrics.NewCloudWatchForRegion(cfg.Metrics.Region, cfg.Metrics.Namespace)
		if err != nil {
			_ = a.Close()
			return nil, fmt.Errorf("cloudwatch: %w", err)
		}
		a.cloudwatch = cw
		rec = metrics.Multi{a.prometheus, cw}
	}

	a.auth = services.NewAuthService(store, sessions, rec)
	a.catalog = services.NewCatalogService(store, a.hub, rec)
	return a, nil
}

// seed loads the starter data into an empty store. It reports whether anything was written.
func (a *app) seed(ctx context.Context) (bool, error) {
	hashed, err := services.HashPassword(a.cfg.Seed.AdminPassword)
	if err != nil {
		return false, fmt.Errorf("hash admin password: %w", err)
	}
	seeded, err := storage.Seed(ctx, a.store, a.cfg.Seed.AdminUsername, hashed)
	if err != nil {
		return false, err
	}
	if seeded {
		logger.Info("seeded initial data", zap.String("admin", a.cfg.Seed.AdminUsername))
	}
	return seeded, nil
}

// prepare runs the startup data steps enabled in the configuration.
func (a *app) prepare(ctx context.Context) error {
	if a.cfg.Seed.Enabled {
		if _, err := a.seed(ctx); err != nil {
			return err
		}
	}
	if a.cfg.Seed.MigrateLegacyPasswords {
		n, err := a.auth.MigrateLegacyPasswords(ctx)
		if err != nil {
			return fmt.Errorf("migrate legacy passwords: %w", err)
		}
		if n > 0 {
			logger.Info("re-hashed legacy passwords", zap.Int("count", n))
		}
	}
	return nil
}

func (a *app) routes() server.Deps {
	return server.Deps{
		Config:  a.cfg,
		Auth:    a.auth,
		Catalog: a.catalog,
		QR:      a.qr,
		Hub:     a.hub,
		Metrics: a.prometheus.Handler(),
	}
}

// Close releases the session store and then the entity store.
func (a *app) Close() error {
	var errs []error
	if a.sessions != nil {
		errs = append(errs, a.sessions.Close())
	}
	if a.store != nil {
		errs = append(errs, a.store.Close())
	}
	return errors.Join(errs...)
}
