package quota

import (
	"context"
	"log/slog"
	"time"
)

// Sweeper periodically removes expired counters. Expired counters already
// read as zero, so sweeping only reclaims space.
type Sweeper struct {
	store    Sweepable
	interval time.Duration
	now      func() time.Time
	done     chan struct{}
}

// NewSweeper creates a sweeper for store.
func NewSweeper(store Sweepable, interval time.Duration) *Sweeper {
	return &Sweeper{
		store:    store,
		interval: interval,
		now:      time.Now,
		done:     make(chan struct{}),
	}
}

// Start begins the sweep loop in a background goroutine.
func (s *Sweeper) Start(ctx context.Context) {
	slog.Info("counter sweeper started", "interval", s.interval)

	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		// Run once immediately on start
		s.runSweep(ctx)

		for {
			select {
			case <-ticker.C:
				s.runSweep(ctx)
			case <-ctx.Done():
				slog.Info("counter sweeper stopping")
				close(s.done)
				return
			}
		}
	}()
}

// Wait blocks until the sweeper has fully stopped.
func (s *Sweeper) Wait() {
	<-s.done
}

func (s *Sweeper) runSweep(ctx context.Context) {
	removed, err := s.store.Sweep(ctx, s.now())
	if err != nil {
		slog.Error("failed to sweep expired counters", "error", err)
		return
	}
	if removed > 0 {
		slog.Info("swept expired counters", "removed", removed)
	}
}
