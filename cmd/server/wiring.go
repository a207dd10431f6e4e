// Spotwire - Real-Time Activation Spot Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/spotwire

package main

import (
	"fmt"

	"github.com/tomtom215/spotwire/internal/api"
	"github.com/tomtom215/spotwire/internal/config"
	"github.com/tomtom215/spotwire/internal/models"
	"github.com/tomtom215/spotwire/internal/supervisor/services"
	"github.com/tomtom215/spotwire/internal/sync"
)

// ingestStore is what pollers and the sweeper need from the store.
type ingestStore interface {
	sync.SpotUpserter
	sync.ExpiredSpotDeleter
}

// programsFromConfig converts the configured catalog into seedable rows.
// Seeded programs start active.
func programsFromConfig(cfgs []config.ProgramConfig) []models.Program {
	programs := make([]models.Program, 0, len(cfgs))
	for _, pc := range cfgs {
		p := models.Program{
			Slug:           pc.Slug,
			Name:           pc.Name,
			ShortName:      pc.ShortName,
			Icon:           pc.Icon,
			ReferenceLabel: pc.ReferenceLabel,
			Capabilities:   append([]string{}, pc.Capabilities...),
			SortOrder:      pc.SortOrder,
			IsActive:       true,
		}
		if pc.Website != "" {
			website := pc.Website
			p.Website = &website
		}
		programs = append(programs, p)
	}
	return programs
}

// chiMiddlewareConfig maps security settings onto the router middleware.
func chiMiddlewareConfig(sec *config.SecurityConfig) *api.ChiMiddlewareConfig {
	cfg := api.DefaultChiMiddlewareConfig()
	cfg.CORSAllowedOrigins = append([]string{}, sec.CORSOrigins...)
	cfg.RateLimitDisabled = sec.RateLimitDisabled
	if sec.RateLimitReqs > 0 {
		cfg.RateLimitRequests = sec.RateLimitReqs
	}
	if sec.RateLimitWindow > 0 {
		cfg.RateLimitWindow = sec.RateLimitWindow
	}
	return cfg
}

// feed pairs an upstream source with its configuration.
type feed struct {
	source models.SpotSource
	cfg    config.SourceConfig
}

// feeds lists every upstream in polling order.
func feeds(cfg *config.SourcesConfig) []feed {
	return []feed{
		{models.SourcePOTA, cfg.POTA},
		{models.SourceRBN, cfg.RBN},
		{models.SourceSOTA, cfg.SOTA},
	}
}

// ingestServices builds one supervised poller per enabled feed plus the
// expiry sweeper. All clients share one HTTP transport.
func ingestServices(cfg *config.Config, store ingestStore) ([]*services.RunnerService, error) {
	httpClient := sync.NewHTTPClient(&cfg.Upstream)

	var out []*services.RunnerService
	for _, s := range feeds(&cfg.Sources) {
		if !s.cfg.Enabled {
			continue
		}
		client, err := sync.NewClient(s.source, s.cfg.URL, httpClient, &cfg.Upstream)
		if err != nil {
			return nil, fmt.Errorf("%s client: %w", s.source, err)
		}
		poller, err := sync.NewPoller(client, store, sync.PollerConfig{
			Source:     s.source,
			Interval:   s.cfg.Interval,
			DefaultTTL: s.cfg.DefaultTTL,
		})
		if err != nil {
			return nil, fmt.Errorf("%s poller: %w", s.source, err)
		}
		out = append(out, services.NewRunnerService(poller))
	}

	sweeper, err := sync.NewSweeper(store, cfg.Spots.SweepInterval)
	if err != nil {
		return nil, fmt.Errorf("sweeper: %w", err)
	}
	out = append(out, services.NewRunnerService(sweeper))
	return out, nil
}
