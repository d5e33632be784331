package services

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"poll-service/internal/cache"
)

type OptionTallier interface {
	CountAllOptions(ctx context.Context) (map[uint]int64, error)
}

// CounterReconciler periodically overwrites the fast option counters with
// the authoritative tallies, bounding drift left by failed vote inserts.
type CounterReconciler struct {
	tallies  OptionTallier
	counter  cache.Counter
	interval time.Duration
}

func NewCounterReconciler(tallies OptionTallier, counter cache.Counter, interval time.Duration) *CounterReconciler {
	return &CounterReconciler{
		tallies:  tallies,
		counter:  counter,
		interval: interval,
	}
}

// Run reconciles on every tick until ctx is cancelled. A non-positive
// interval disables it.
func (r *CounterReconciler) Run(ctx context.Context) {
	if r.interval <= 0 {
		slog.Info("Counter reconciler disabled")
		return
	}

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	slog.Info("Counter reconciler started", "interval", r.interval)
	for {
		select {
		case <-ctx.Done():
			slog.Info("Counter reconciler stopped")
			return
		case <-ticker.C:
			if _, err := r.ReconcileOnce(ctx); err != nil {
				slog.Warn("Counter reconciliation failed", "error", err)
			}
		}
	}
}

// ReconcileOnce rewrites every option counter and returns how many it set.
func (r *CounterReconciler) ReconcileOnce(ctx context.Context) (int, error) {
	counts, err := r.tallies.CountAllOptions(ctx)
	if err != nil {
		return 0, storeError("reconcile counters", err)
	}

	updated := 0
	for optionID, votes := range counts {
		if err := r.counter.SetWithExpiry(ctx, cache.OptionCounterKey(optionID), strconv.FormatInt(votes, 10), optionCounterTTL); err != nil {
			return updated, fmt.Errorf("reconcile counters: %w: %w", ErrTransient, err)
		}
		updated++
	}

	slog.Debug("Option counters reconciled", "options", updated)
	return updated, nil
}
