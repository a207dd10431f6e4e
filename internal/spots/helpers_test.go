// Spotwire - Real-Time Activation Spot Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/spotwire

package spots

import (
	"context"
	"fmt"
	gosync "sync"
	"testing"
	"time"

	"github.com/tomtom215/spotwire/internal/config"
	"github.com/tomtom215/spotwire/internal/database"
	"github.com/tomtom215/spotwire/internal/models"
)

var baseTime = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

type testClock struct {
	mu  gosync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// newTestService builds a Service over an in-memory store seeded with a
// small catalog. Store and query engine share one clock.
func newTestService(t *testing.T) (*Service, *database.DB, *testClock) {
	t.Helper()

	db, err := database.New(&config.DatabaseConfig{
		Driver: config.DriverDuckDB, Path: ":memory:", MaxMemory: "256MB", Threads: 1, MaxOpenConns: 4,
	})
	if err != nil {
		t.Fatalf("database.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	clock := &testClock{now: baseTime}
	db.SetClock(clock.Now)

	catalog := []models.Program{
		{Slug: "pota", Name: "Parks on the Air", ShortName: "POTA", ReferenceLabel: "Park",
			Capabilities: []string{models.CapabilitySelfSpot}, SortOrder: 1, IsActive: true},
		{Slug: "sota", Name: "Summits on the Air", ShortName: "SOTA", ReferenceLabel: "Summit",
			Capabilities: []string{models.CapabilitySelfSpot}, SortOrder: 2, IsActive: true},
		{Slug: "wwff", Name: "World Wide Flora and Fauna", ShortName: "WWFF", ReferenceLabel: "Reference",
			Capabilities: []string{}, SortOrder: 3, IsActive: true},
		{Slug: "iota", Name: "Islands on the Air", ShortName: "IOTA", ReferenceLabel: "Island",
			Capabilities: []string{models.CapabilitySelfSpot}, SortOrder: 4, IsActive: false},
	}
	if _, err := db.SeedPrograms(context.Background(), catalog); err != nil {
		t.Fatalf("SeedPrograms: %v", err)
	}

	svc := NewService(db, &config.SpotsConfig{SelfSpotTTL: 30 * time.Minute})
	svc.Query().SetClock(clock.Now)
	return svc, db, clock
}

// seedUpstream inserts one POTA spot spotted at the given instant with a
// 30 minute window.
func seedUpstream(t *testing.T, db *database.DB, id int, spottedAt time.Time, mutate func(*models.Spot)) *models.Spot {
	t.Helper()
	program, ext := "pota", fmt.Sprintf("ext-%d", id)
	spot := &models.Spot{
		Callsign:     fmt.Sprintf("K%dXYZ", id%10),
		ProgramSlug:  &program,
		Source:       models.SourcePOTA,
		ExternalID:   &ext,
		FrequencyKHz: 14062,
		Mode:         "CW",
		SpottedAt:    spottedAt,
		ExpiresAt:    spottedAt.Add(30 * time.Minute),
	}
	if mutate != nil {
		mutate(spot)
	}
	stored, err := db.UpsertSpot(context.Background(), spot)
	if err != nil {
		t.Fatalf("UpsertSpot: %v", err)
	}
	return stored
}

func intPtr(v int) *int { return &v }

func strPtr(s string) *string { return &s }
