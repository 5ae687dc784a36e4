// Package ticker drives the game's logical clock from wall time.
package ticker

import (
	"context"
	"log/slog"
	"time"
)

// TickFunc advances the game by one tick.
type TickFunc func(ctx context.Context) error

// Run calls fn once per interval until ctx is done. A non-positive interval
// returns immediately.
func Run(ctx context.Context, interval time.Duration, fn TickFunc, logger *slog.Logger) {
	if interval <= 0 {
		return
	}
	t := time.NewTicker(interval)
	defer t.Stop()
	Drive(ctx, t.C, fn, logger)
}

// Drive calls fn for every value received on ticks. Errors are logged and do
// not stop the loop.
func Drive(ctx context.Context, ticks <-chan time.Time, fn TickFunc, logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("ticker started")
	for {
		select {
		case <-ctx.Done():
			logger.Info("ticker stopped")
			return
		case _, ok := <-ticks:
			if !ok {
				logger.Info("ticker source closed")
				return
			}
			if err := fn(ctx); err != nil {
				logger.Warn("tick failed", "err", err)
			}
		}
	}
}
