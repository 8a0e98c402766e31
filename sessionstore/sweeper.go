// File: sessionstore/sweeper.go
package sessionstore

import (
	"context"
	"time"

	"go.uber.org/zap"

	"car-showcase/logger"
)

// RunSweeper evicts expired sessions every interval until ctx is cancelled.
// A failed sweep is logged and retried on the next tick.
func RunSweeper(ctx context.Context, store Store, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	logger.Info("session sweeper started", zap.Duration("interval", interval))
	for {
		select {
		case <-ctx.Done():
			logger.Info("session sweeper stopped")
			return nil
		case <-ticker.C:
			removed, err := store.Sweep(ctx)
			if err != nil {
				logger.Error("session sweep failed", zap.Error(err))
				continue
			}
			if removed > 0 {
				logger.Info("expired sessions removed", zap.Int("count", removed))
			}
		}
	}
}
