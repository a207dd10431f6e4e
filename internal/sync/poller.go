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
	"github.com/tomtom215/spotwire/internal/models"
)

// SpotUpserter is the slice of the spot store a poller writes through.
// Satisfied by *database.DB.
type SpotUpserter interface {
	UpsertSpot(ctx context.Context, spot *models.Spot) (*models.Spot, error)
}

// PollerConfig configures one source's polling loop.
type PollerConfig struct {
	Source     models.SpotSource
	Interval   time.Duration
	DefaultTTL time.Duration
}

// CycleResult summarizes one fetch, normalize and upsert pass.
type CycleResult struct {
	Fetched       int
	Upserted      int
	ParseFailures int
	StoreFailures int

	// FetchErr is set when the fetch itself failed; no records were processed.
	FetchErr error
}

// Poller runs the ingest loop for one upstream source. A failure at any
// stage ends only the current cycle.
type Poller struct {
	cfg       PollerConfig
	fetcher   Fetcher
	store     SpotUpserter
	normalize NormalizeFunc
}

// NewPoller wires a fetcher, the matching normalizer and the store.
func NewPoller(fetcher Fetcher, store SpotUpserter, cfg PollerConfig) (*Poller, error) {
	if fetcher == nil || store == nil {
		return nil, errors.New("poller requires a fetcher and a store")
	}
	if cfg.Interval <= 0 {
		return nil, fmt.Errorf("%s poll interval must be positive, got %s", cfg.Source, cfg.Interval)
	}
	normalize, err := NormalizerFor(cfg.Source, cfg.DefaultTTL)
	if err != nil {
		return nil, err
	}
	return &Poller{cfg: cfg, fetcher: fetcher, store: store, normalize: normalize}, nil
}

// Name identifies the poller in supervisor logs.
func (p *Poller) Name() string {
	return string(p.cfg.Source) + "-poller"
}

// RunWithContext polls until ctx is canceled. The first cycle runs
// immediately. It returns ctx.Err().
func (p *Poller) RunWithContext(ctx context.Context) error {
	logging.Info().Str("source", string(p.cfg.Source)).Dur("interval", p.cfg.Interval).Msg("Starting poller")

	p.RunCycle(ctx)

	ticker := time.NewTicker(p.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logging.Info().Str("source", string(p.cfg.Source)).Msg("Poller stopped")
			return ctx.Err()
		case <-ticker.C:
			p.RunCycle(ctx)
		}
	}
}

// RunCycle performs one fetch, normalize and upsert pass. A record that
// fails to normalize or store is logged and skipped.
func (p *Poller) RunCycle(ctx context.Context) CycleResult {
	ctx = logging.ContextWithCycleID(ctx, logging.GenerateCycleID())
	log := logging.CtxWith(ctx).Str("source", string(p.cfg.Source)).Logger()
	source := string(p.cfg.Source)

	var result CycleResult
	records, err := p.fetcher.FetchRaw(ctx)
	if err != nil {
		result.FetchErr = err
		if ctx.Err() == nil {
			log.Warn().Err(err).Msg("Upstream fetch failed")
		}
		metrics.RecordIngestCycle(source, true, 0, 0, 0)
		return result
	}
	result.Fetched = len(records)

	for _, raw := range records {
		spot, err := p.normalize(raw)
		if err != nil {
			result.ParseFailures++
			log.Warn().Err(err).Msg("Skipping unparsable record")
			continue
		}
		if _, err := p.store.UpsertSpot(ctx, spot); err != nil {
			if ctx.Err() != nil {
				break
			}
			result.StoreFailures++
			log.Error().Err(err).Str("external_id", *spot.ExternalID).Msg("Failed to upsert spot")
			continue
		}
		result.Upserted++
	}

	metrics.RecordIngestCycle(source, false, result.Upserted, result.ParseFailures, result.StoreFailures)
	log.Debug().
		Int("fetched", result.Fetched).
		Int("upserted", result.Upserted).
		Int("parse_failures", result.ParseFailures).
		Int("store_failures", result.StoreFailures).
		Msg("Poll cycle complete")
	return result
}
