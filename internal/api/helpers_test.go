// Spotwire - Real-Time Activation Spot Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/spotwire

package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	gosync "sync"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/spotwire/internal/auth"
	"github.com/tomtom215/spotwire/internal/config"
	"github.com/tomtom215/spotwire/internal/database"
	"github.com/tomtom215/spotwire/internal/models"
	"github.com/tomtom215/spotwire/internal/spots"
)

const (
	testJWTSecret  = "api-test-secret-with-at-least-32-chars"
	testAdminToken = "api-test-admin-token"
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

// testEnv is a fully wired router over an in-memory store.
type testEnv struct {
	handler http.Handler
	db      *database.DB
	jwt     *auth.JWTManager
	clock   *testClock
}

type envOption func(*RouterOptions, *ChiMiddlewareConfig)

func withSpotsDisabled() envOption {
	return func(o *RouterOptions, _ *ChiMiddlewareConfig) { o.SpotsEnabled = false }
}

func withRateLimit(n int) envOption {
	return func(_ *RouterOptions, c *ChiMiddlewareConfig) {
		c.RateLimitDisabled = false
		c.RateLimitRequests = n
		c.RateLimitWindow = time.Minute
	}
}

func newTestEnv(t *testing.T, opts ...envOption) *testEnv {
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
		{Slug: "pota", Name: "Parks on the Air", ShortName: "POTA", Icon: "tree", ReferenceLabel: "Park",
			Capabilities: []string{models.CapabilitySelfSpot}, SortOrder: 1, IsActive: true},
		{Slug: "wwff", Name: "World Wide Flora and Fauna", ShortName: "WWFF", Icon: "leaf", ReferenceLabel: "Reference",
			SortOrder: 2, IsActive: true},
	}
	if _, err := db.SeedPrograms(context.Background(), catalog); err != nil {
		t.Fatalf("SeedPrograms: %v", err)
	}

	svc := spots.NewService(db, &config.SpotsConfig{SelfSpotTTL: 30 * time.Minute})
	svc.Query().SetClock(clock.Now)

	jm, err := auth.NewJWTManager(testJWTSecret, time.Hour)
	if err != nil {
		t.Fatalf("NewJWTManager: %v", err)
	}

	routerOpts := RouterOptions{SpotsEnabled: true}
	mwCfg := DefaultChiMiddlewareConfig()
	mwCfg.RateLimitDisabled = true
	for _, o := range opts {
		o(&routerOpts, mwCfg)
	}

	router := NewRouter(NewHandler(svc, db), auth.NewMiddleware(jm, testAdminToken), NewChiMiddleware(mwCfg), routerOpts)
	return &testEnv{handler: router.Setup(), db: db, jwt: jm, clock: clock}
}

func (e *testEnv) participantToken(t *testing.T, id, callsign string) string {
	t.Helper()
	token, err := e.jwt.GenerateToken(id, callsign, auth.RoleParticipant)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	return token
}

// do performs a request. token may be empty; body may be nil.
func (e *testEnv) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		data, err := json.Marshal(b)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

// seedUpstream stores a POTA spot with a 30 minute window.
func (e *testEnv) seedUpstream(t *testing.T, n int, spottedAt time.Time) *models.Spot {
	t.Helper()
	program, ext := "pota", fmt.Sprintf("pota-%d", n)
	spot, err := e.db.UpsertSpot(context.Background(), &models.Spot{
		Callsign:     fmt.Sprintf("K%dABC", n),
		ProgramSlug:  &program,
		Source:       models.SourcePOTA,
		ExternalID:   &ext,
		FrequencyKHz: 14062,
		Mode:         "CW",
		SpottedAt:    spottedAt,
		ExpiresAt:    spottedAt.Add(30 * time.Minute),
	})
	if err != nil {
		t.Fatalf("UpsertSpot: %v", err)
	}
	return spot
}

// envelope mirrors models.APIResponse with a raw data payload.
type envelope struct {
	Status   string           `json:"status"`
	Data     json.RawMessage  `json:"data"`
	Error    *models.APIError `json:"error"`
	Metadata models.Metadata  `json:"metadata"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder, data interface{}) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope %q: %v", rec.Body.String(), err)
	}
	if data != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, data); err != nil {
			t.Fatalf("decode data %s: %v", env.Data, err)
		}
	}
	return env
}

// expectError asserts status and error code.
func expectError(t *testing.T, rec *httptest.ResponseRecorder, status int, code string) {
	t.Helper()
	if rec.Code != status {
		t.Fatalf("status = %d, want %d (body %s)", rec.Code, status, rec.Body.String())
	}
	env := decodeEnvelope(t, rec, nil)
	if env.Status != "error" || env.Error == nil || env.Error.Code != code {
		t.Fatalf("envelope = %+v, want error %s", env, code)
	}
}
