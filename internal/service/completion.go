package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/newrelic/go-agent/v3/newrelic"
)

const sweepLockName = "completion-sweep"

// Locker provides a cluster-wide mutual exclusion lock.
type Locker interface {
	Acquire(ctx context.Context, name string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, name string) error
}

// CompletionSweeper periodically completes approved trips whose departure
// date has passed. Only the process holding the sweep lock does work.
type CompletionSweeper struct {
	trips    *TripService
	locker   Locker
	nrApp    *newrelic.Application
	interval time.Duration
}

// NewCompletionSweeper creates a new CompletionSweeper. locker and nrApp may be nil.
func NewCompletionSweeper(trips *TripService, locker Locker, nrApp *newrelic.Application, interval time.Duration) *CompletionSweeper {
	return &CompletionSweeper{
		trips:    trips,
		locker:   locker,
		nrApp:    nrApp,
		interval: interval,
	}
}

// Run sweeps on every tick until ctx is cancelled.
func (s *CompletionSweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.SweepOnce(ctx); err != nil {
				s.trips.logger.ErrorContext(ctx, "completion sweep failed", slog.Any("error", err))
			}
		}
	}
}

// SweepOnce completes every due trip and returns how many changed.
func (s *CompletionSweeper) SweepOnce(ctx context.Context) (int, error) {
	txn := s.nrApp.StartTransaction("completion-sweep")
	defer txn.End()
	ctx = newrelic.NewContext(ctx, txn)

	if s.locker != nil {
		ok, err := s.locker.Acquire(ctx, sweepLockName, s.interval)
		if err != nil {
			txn.NoticeError(err)
			return 0, err
		}
		if !ok {
			return 0, nil
		}
		defer func() { _ = s.locker.Release(context.WithoutCancel(ctx), sweepLockName) }()
	}

	due, err := s.trips.store.Repos().Trips.ListDepartedBefore(ctx, s.trips.now())
	if err != nil {
		txn.NoticeError(err)
		return 0, err
	}

	completed := 0
	for _, trip := range due {
		if _, err := s.trips.MarkCompleted(ctx, trip.ID); err != nil {
			txn.NoticeError(err)
			s.trips.logger.WarnContext(ctx, "complete trip failed",
				slog.String("trip_id", trip.ID),
				slog.Any("error", err),
			)
			continue
		}
		completed++
	}

	if completed > 0 {
		s.trips.logger.InfoContext(ctx, "trips completed", slog.Int("count", completed))
	}
	return completed, nil
}
