package app

import (
	"context"
	"time"

	"sheetdash/internal"
	"sheetdash/internal/config"
)

// RefreshScheduler re-derives the dashboard state on a fixed cadence. When
// a data file is configured it is re-read first, skipping the reload when
// the content hash is unchanged. Ticks run on a single goroutine so they
// never overlap, and Stop cancels the loop and waits for it to exit.
type RefreshScheduler struct {
	service  *DashboardService
	interval time.Duration
	watch    string
	logger   *internal.Logger

	cancel context.CancelFunc
	done   chan struct{}
}

// NewRefreshScheduler creates a scheduler from the data config
func NewRefreshScheduler(service *DashboardService, cfg config.DataConfig) *RefreshScheduler {
	return &RefreshScheduler{
		service:  service,
		interval: cfg.RefreshInterval,
		watch:    cfg.File,
		logger:   internal.DefaultLogger,
	}
}

// Start launches the refresh loop. Calling Start twice is a caller bug.
func (r *RefreshScheduler) Start(ctx context.Context) {
	ctx, r.cancel = context.WithCancel(ctx)
	r.done = make(chan struct{})
	go r.run(ctx)
	r.logger.Info("Refresh scheduler started (interval %s)", r.interval)
}

// Stop cancels the loop and waits for the in-flight tick to finish
func (r *RefreshScheduler) Stop() {
	if r.cancel == nil {
		return
	}
	r.cancel()
	<-r.done
	r.logger.Info("Refresh scheduler stopped")
}

func (r *RefreshScheduler) run(ctx context.Context) {
	defer close(r.done)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.tick(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (r *RefreshScheduler) tick(ctx context.Context) {
	if r.watch != "" {
		reloaded, err := r.service.LoadFileIfChanged(ctx, r.watch)
		if err != nil {
			r.logger.Warn("Refresh reload of %s failed: %v", r.watch, err)
		}
		if reloaded {
			// The install already re-derived everything.
			return
		}
	}

	if err := r.service.Rebuild(ctx); err != nil {
		r.logger.Warn("Refresh rebuild failed: %v", err)
	}
}
