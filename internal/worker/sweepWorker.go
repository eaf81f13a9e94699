// Package worker runs the expiry sweep in the background so that expired
// files are removed even when no requests arrive.
package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/atinyakov/go-file-relay/internal/storage"
)

type Sweeper interface {
	Sweep(context.Context) storage.SweepResult
}

type SweepWorker struct {
	sweeper  Sweeper
	logger   *zap.Logger
	interval time.Duration
	trigger  chan struct{}
}

func NewSweepWorker(logger *zap.Logger, sweeper Sweeper, interval time.Duration) *SweepWorker {
	return &SweepWorker{
		sweeper:  sweeper,
		logger:   logger,
		interval: interval,
		trigger:  make(chan struct{}, 1),
	}
}

// Trigger asks for a sweep before the next tick. Calls made while a request
// is already pending are merged into it.
func (w *SweepWorker) Trigger() {
	select {
	case w.trigger <- struct{}{}:
	default:
	}
}

// Run sweeps on every tick until ctx is done.
func (w *SweepWorker) Run(ctx context.Context) {
	w.logger.Info("sweep worker started", zap.Duration("interval", w.interval))
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("sweep worker stopped")
			return
		// внеочередной проход, например по SIGHUP
		case <-w.trigger:
			w.sweep(ctx)
		case <-ticker.C:
			w.sweep(ctx)
		}
	}
}

func (w *SweepWorker) sweep(ctx context.Context) {
	res := w.sweeper.Sweep(ctx)
	if len(res.Expired) == 0 {
		return
	}

	w.logger.Debug("background sweep",
		zap.Int("expired", len(res.Expired)),
		zap.Int("failed", res.Failed()),
		zap.Int("remaining", res.Remaining),
	)
}
