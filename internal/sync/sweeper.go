// Spotwire - Real-Time Activation Spot Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/spotwire

package sync

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tomtom215/spotwire/internal/logging"
	"github.com/tomtom215/spotwire/internal/metrics"
)

// ExpiredSpotDeleter is satisfied by *database.DB.
type ExpiredSpotDeleter interface {
	DeleteExpiredSpots(ctx context.Context) (int64, error)
}

// Sweeper physically removes expired spots on a fixed period. Reads already
// hide expired rows, so sweeping only reclaims space; it is safe alongside
// any poller and alongside itself.
type Sweeper struct {
	store    ExpiredSpotDeleter
	interval time.Duration
}

// NewSweeper creates a sweeper that runs every interval.
func NewSweeper(store ExpiredSpotDeleter, interval time.Duration) (*Sweeper, error) {
	if store == nil {
		return nil, errors.New("sweeper requires a store")
	}
	if interval <= 0 {
		return nil, fmt.Errorf("sweep interval must be positive, got %s", interval)
	}
	return &Sweeper{store: store, interval: interval}, nil
}

// Name identifies the sweeper in supervisor logs.
func (s *Sweeper) Name() string {
	return "spot-sweeper"
}

// RunWithContext sweeps on every tick until ctx is canceled.
func (s *Sweeper) RunWithContext(ctx context.Context) error {
	logging.Info().Dur("interval", s.interval).Msg("Starting spot sweeper")

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			_, _ = s.Sweep(ctx)
		}
	}
}

// Sweep runs one pass and returns the number of removed spots.
func (s *Sweeper) Sweep(ctx context.Context) (int64, error) {
	ctx = logging.ContextWithCycleID(ctx, logging.GenerateCycleID())
	start := time.Now()

	removed, err := s.store.DeleteExpiredSpots(ctx)
	metrics.RecordSweep(time.Since(start), removed, err)
	if err != nil {
		if ctx.Err() == nil {
			logging.Ctx(ctx).Error().Err(err).Msg("Spot sweep failed")
		}
		return 0, err
	}
	if removed > 0 {
		logging.Ctx(ctx).Debug().Int64("removed", removed).Msg("Swept expired spots")
	}
	return removed, nil
}
