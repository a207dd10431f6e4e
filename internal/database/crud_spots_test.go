// Spotwire - Real-Time Activation Spot Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/spotwire

package database

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/tomtom215/spotwire/internal/models"
)

func newSelfSpot(owner, program string) models.NewSelfSpot {
	return models.NewSelfSpot{
		Owner:        owner,
		Callsign:     "N0CALL",
		ProgramSlug:  program,
		FrequencyKHz: 7032,
		Mode:         "CW",
		Reference:    strPtr("US-1234"),
	}
}

func TestUpsertSpot_Idempotent(t *testing.T) {
	db, clock := setupTestDB(t)
	ctx := context.Background()

	first, err := db.UpsertSpot(ctx, newUpstreamSpot(models.SourcePOTA, "123", baseTime))
	if err != nil {
		t.Fatalf("first upsert: %v", err)
	}

	clock.Advance(time.Minute)
	again := newUpstreamSpot(models.SourcePOTA, "123", baseTime.Add(5*time.Minute))
	again.FrequencyKHz = 14064
	again.Mode = "SSB"
	again.Comments = strPtr("QRT soon")
	again.ExpiresAt = baseTime.Add(time.Hour)
	again.Callsign = "K9ZZZ"

	second, err := db.UpsertSpot(ctx, again)
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	if n := countSpots(t, db); n != 1 {
		t.Fatalf("row count = %d, want 1", n)
	}
	if second.ID != first.ID {
		t.Errorf("ID changed: %s -> %s", first.ID, second.ID)
	}
	if second.FrequencyKHz != 14064 || second.Mode != "SSB" {
		t.Errorf("mutable fields not updated: %v %s", second.FrequencyKHz, second.Mode)
	}
	if second.Comments == nil || *second.Comments != "QRT soon" {
		t.Errorf("comments = %v, want QRT soon", second.Comments)
	}
	if !second.SpottedAt.Equal(baseTime) {
		t.Errorf("spotted_at changed to %v", second.SpottedAt)
	}
	if !second.ExpiresAt.Equal(first.ExpiresAt) {
		t.Errorf("expires_at changed from %v to %v", first.ExpiresAt, second.ExpiresAt)
	}
	if second.Callsign != "K1ABC" {
		t.Errorf("callsign changed to %s", second.Callsign)
	}
	if !second.UpdatedAt.Equal(baseTime.Add(time.Minute)) {
		t.Errorf("updated_at = %v, want %v", second.UpdatedAt, baseTime.Add(time.Minute))
	}
	if !second.CreatedAt.Equal(baseTime) {
		t.Errorf("created_at = %v, want %v", second.CreatedAt, baseTime)
	}
}

func TestUpsertSpot_KeyedBySource(t *testing.T) {
	db, _ := setupTestDB(t)
	ctx := context.Background()

	if _, err := db.UpsertSpot(ctx, newUpstreamSpot(models.SourcePOTA, "42", baseTime)); err != nil {
		t.Fatalf("pota upsert: %v", err)
	}
	if _, err := db.UpsertSpot(ctx, newUpstreamSpot(models.SourceSOTA, "42", baseTime)); err != nil {
		t.Fatalf("sota upsert: %v", err)
	}

	if n := countSpots(t, db); n != 2 {
		t.Errorf("row count = %d, want 2 (same external id, different sources)", n)
	}
}

func TestUpsertSpot_RequiresExternalID(t *testing.T) {
	db, _ := setupTestDB(t)

	spot := newUpstreamSpot(models.SourceRBN, "", baseTime)
	if _, err := db.UpsertSpot(context.Background(), spot); !errors.Is(err, ErrMissingExternalID) {
		t.Errorf("err = %v, want ErrMissingExternalID", err)
	}

	spot.ExternalID = nil
	if _, err := db.UpsertSpot(context.Background(), spot); !errors.Is(err, ErrMissingExternalID) {
		t.Errorf("nil external id: err = %v, want ErrMissingExternalID", err)
	}
}

func TestUpsertSpot_RoundTripsOptionalFields(t *testing.T) {
	db, _ := setupTestDB(t)

	spot := &models.Spot{
		Callsign:     "DL1ABC",
		Source:       models.SourceRBN,
		ExternalID:   strPtr("rbn-1"),
		FrequencyKHz: 14025.1,
		Mode:         "CW",
		Spotter:      strPtr("W3LPL"),
		SNR:          int16Val(17),
		WPM:          int16Val(24),
		SpottedAt:    baseTime,
		ExpiresAt:    baseTime.Add(10 * time.Minute),
	}

	got, err := db.UpsertSpot(context.Background(), spot)
	if err != nil {
		t.Fatalf("UpsertSpot: %v", err)
	}
	if got.ProgramSlug != nil || got.Reference != nil || got.SubmittedBy != nil {
		t.Errorf("absent fields came back non-nil: %+v", got)
	}
	if got.SNR == nil || *got.SNR != 17 || got.WPM == nil || *got.WPM != 24 {
		t.Errorf("snr/wpm = %v/%v, want 17/24", got.SNR, got.WPM)
	}
	if got.FrequencyKHz != 14025.1 {
		t.Errorf("frequency = %v, want 14025.1", got.FrequencyKHz)
	}
}

func TestInsertSelfSpot_RejectsActiveDuplicate(t *testing.T) {
	db, _ := setupTestDB(t)
	ctx := context.Background()

	first, err := db.InsertSelfSpot(ctx, newSelfSpot("user-1", "pota"))
	if err != nil {
		t.Fatalf("first self-spot: %v", err)
	}
	if first.Source != models.SourceSelf {
		t.Errorf("source = %s, want self", first.Source)
	}
	if !first.ExpiresAt.Equal(baseTime.Add(models.DefaultSelfSpotTTL)) {
		t.Errorf("expires_at = %v, want spotted_at + 30m", first.ExpiresAt)
	}
	if first.SubmittedBy == nil || *first.SubmittedBy != "user-1" {
		t.Errorf("submitted_by = %v, want user-1", first.SubmittedBy)
	}

	if _, err := db.InsertSelfSpot(ctx, newSelfSpot("user-1", "pota")); !errors.Is(err, models.ErrDuplicateSelfSpot) {
		t.Fatalf("second self-spot err = %v, want ErrDuplicateSelfSpot", err)
	}

	if _, err := db.InsertSelfSpot(ctx, newSelfSpot("user-1", "sota")); err != nil {
		t.Errorf("different program should be allowed: %v", err)
	}
	if _, err := db.InsertSelfSpot(ctx, newSelfSpot("user-2", "pota")); err != nil {
		t.Errorf("different owner should be allowed: %v", err)
	}
}

func TestInsertSelfSpot_AllowedAfterExpiry(t *testing.T) {
	db, clock := setupTestDB(t)
	ctx := context.Background()

	req := newSelfSpot("user-1", "pota")
	req.TTL = 10 * time.Minute
	first, err := db.InsertSelfSpot(ctx, req)
	if err != nil {
		t.Fatalf("first self-spot: %v", err)
	}

	clock.Advance(9 * time.Minute)
	if _, err := db.InsertSelfSpot(ctx, req); !errors.Is(err, models.ErrDuplicateSelfSpot) {
		t.Fatalf("before expiry err = %v, want ErrDuplicateSelfSpot", err)
	}

	clock.Advance(time.Minute)
	second, err := db.InsertSelfSpot(ctx, req)
	if err != nil {
		t.Fatalf("after expiry: %v", err)
	}
	if second.ID == first.ID {
		t.Error("expected a new spot after expiry")
	}
	if n := countSpots(t, db); n != 1 {
		t.Errorf("row count = %d, want 1 (expired holder replaced)", n)
	}
}

func TestInsertSelfSpot_AllowedAfterDelete(t *testing.T) {
	db, _ := setupTestDB(t)
	ctx := context.Background()

	first, err := db.InsertSelfSpot(ctx, newSelfSpot("user-1", "pota"))
	if err != nil {
		t.Fatalf("first self-spot: %v", err)
	}

	removed, err := db.DeleteOwnSpot(ctx, first.ID, "user-1")
	if err != nil || !removed {
		t.Fatalf("DeleteOwnSpot = %v, %v; want true, nil", removed, err)
	}

	if _, err := db.InsertSelfSpot(ctx, newSelfSpot("user-1", "pota")); err != nil {
		t.Errorf("after delete: %v", err)
	}
}

func TestInsertSelfSpot_ConcurrentSubmissions(t *testing.T) {
	db, _ := setupTestDB(t)
	ctx := context.Background()

	const workers = 8
	var (
		wg         sync.WaitGroup
		mu         sync.Mutex
		created    int
		duplicates int
		other      []error
	)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := db.InsertSelfSpot(ctx, newSelfSpot("user-1", "pota"))
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				created++
			case errors.Is(err, models.ErrDuplicateSelfSpot):
				duplicates++
			default:
				other = append(other, err)
			}
		}()
	}
	wg.Wait()

	if len(other) > 0 {
		t.Fatalf("unexpected errors: %v", other)
	}
	if created != 1 || duplicates != workers-1 {
		t.Errorf("created=%d duplicates=%d, want 1 and %d", created, duplicates, workers-1)
	}
}

func TestGetSpot(t *testing.T) {
	db, clock := setupTestDB(t)
	ctx := context.Background()

	stored, err := db.UpsertSpot(ctx, newUpstreamSpot(models.SourcePOTA, "1", baseTime))
	if err != nil {
		t.Fatalf("UpsertSpot: %v", err)
	}

	got, err := db.GetSpot(ctx, stored.ID)
	if err != nil || got == nil {
		t.Fatalf("GetSpot = %v, %v", got, err)
	}
	if got.Reference == nil || *got.Reference != "US-0001" {
		t.Errorf("reference = %v", got.Reference)
	}

	missing, err := db.GetSpot(ctx, uuid.New())
	if err != nil || missing != nil {
		t.Errorf("unknown id: got %v, %v; want nil, nil", missing, err)
	}

	clock.Advance(30 * time.Minute)
	expired, err := db.GetSpot(ctx, stored.ID)
	if err != nil || expired != nil {
		t.Errorf("expired spot: got %v, %v; want nil, nil", expired, err)
	}
}

func TestDeleteOwnSpot(t *testing.T) {
	db, _ := setupTestDB(t)
	ctx := context.Background()

	spot, err := db.InsertSelfSpot(ctx, newSelfSpot("owner", "pota"))
	if err != nil {
		t.Fatalf("InsertSelfSpot: %v", err)
	}

	removed, err := db.DeleteOwnSpot(ctx, spot.ID, "intruder")
	if err != nil || removed {
		t.Errorf("other owner delete = %v, %v; want false, nil", removed, err)
	}

	removed, err = db.DeleteOwnSpot(ctx, spot.ID, "owner")
	if err != nil || !removed {
		t.Errorf("owner delete = %v, %v; want true, nil", removed, err)
	}

	removed, err = db.DeleteOwnSpot(ctx, spot.ID, "owner")
	if err != nil || removed {
		t.Errorf("repeat delete = %v, %v; want false, nil", removed, err)
	}
}

func TestDeleteOwnSpot_ExpiredNotYetSwept(t *testing.T) {
	db, clock := setupTestDB(t)
	ctx := context.Background()

	spot, err := db.InsertSelfSpot(ctx, newSelfSpot("owner", "pota"))
	if err != nil {
		t.Fatalf("InsertSelfSpot: %v", err)
	}
	clock.Advance(31 * time.Minute)

	removed, err := db.DeleteOwnSpot(ctx, spot.ID, "owner")
	if err != nil || !removed {
		t.Errorf("owner delete after expiry = %v, %v; want true, nil", removed, err)
	}
	if n := countSpots(t, db); n != 0 {
		t.Errorf("%d rows left, want 0", n)
	}
}

func TestAdminDeleteSpot(t *testing.T) {
	db, _ := setupTestDB(t)
	ctx := context.Background()

	spot, err := db.UpsertSpot(ctx, newUpstreamSpot(models.SourceSOTA, "9", baseTime))
	if err != nil {
		t.Fatalf("UpsertSpot: %v", err)
	}

	removed, err := db.AdminDeleteSpot(ctx, spot.ID)
	if err != nil || !removed {
		t.Fatalf("AdminDeleteSpot = %v, %v; want true, nil", removed, err)
	}
	removed, err = db.AdminDeleteSpot(ctx, spot.ID)
	if err != nil || removed {
		t.Errorf("second AdminDeleteSpot = %v, %v; want false, nil", removed, err)
	}
}

func TestDeleteExpiredSpots(t *testing.T) {
	db, clock := setupTestDB(t)
	ctx := context.Background()

	windows := []time.Duration{time.Minute, 5 * time.Minute, 10 * time.Minute}
	for i, w := range windows {
		s := newUpstreamSpot(models.SourceRBN, uuid.NewString(), baseTime)
		s.ExpiresAt = baseTime.Add(w)
		if _, err := db.UpsertSpot(ctx, s); err != nil {
			t.Fatalf("upsert %d: %v", i, err)
		}
	}

	n, err := db.DeleteExpiredSpots(ctx)
	if err != nil || n != 0 {
		t.Fatalf("sweep before expiry = %d, %v; want 0, nil", n, err)
	}

	clock.Advance(5 * time.Minute)
	n, err = db.DeleteExpiredSpots(ctx)
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if n != 2 {
		t.Errorf("swept %d, want 2 (expires_at <= now)", n)
	}

	n, err = db.DeleteExpiredSpots(ctx)
	if err != nil || n != 0 {
		t.Errorf("repeat sweep = %d, %v; want 0, nil", n, err)
	}
	if c := countSpots(t, db); c != 1 {
		t.Errorf("remaining rows = %d, want 1", c)
	}
}

func TestListSpots_ExcludesExpired(t *testing.T) {
	db, clock := setupTestDB(t)
	ctx := context.Background()

	short := newUpstreamSpot(models.SourceRBN, "short", baseTime)
	short.ExpiresAt = baseTime.Add(2 * time.Minute)
	if _, err := db.UpsertSpot(ctx, short); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if _, err := db.UpsertSpot(ctx, newUpstreamSpot(models.SourcePOTA, "long", baseTime)); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	clock.Advance(3 * time.Minute)
	spots, err := db.ListSpots(ctx, SpotQuery{Since: baseTime.Add(-time.Hour), Limit: 10})
	if err != nil {
		t.Fatalf("ListSpots: %v", err)
	}
	if len(spots) != 1 || *spots[0].ExternalID != "long" {
		t.Errorf("got %d spots, want only the unexpired one", len(spots))
	}
}

func TestListSpots_Filters(t *testing.T) {
	db, _ := setupTestDB(t)
	ctx := context.Background()

	seed := []*models.Spot{
		newUpstreamSpot(models.SourcePOTA, "p1", baseTime.Add(-1*time.Minute)),
		newUpstreamSpot(models.SourcePOTA, "p2", baseTime.Add(-2*time.Minute)),
		newUpstreamSpot(models.SourceSOTA, "s1", baseTime.Add(-3*time.Minute)),
		newUpstreamSpot(models.SourceRBN, "r1", baseTime.Add(-40*time.Minute)),
	}
	seed[1].Callsign = "W2XYZ"
	seed[1].Mode = "SSB"
	seed[1].StateAbbr = strPtr("NY")
	seed[2].ProgramSlug = strPtr("sota")
	seed[3].ExpiresAt = baseTime.Add(time.Hour)
	seed[3].ProgramSlug = nil

	for _, s := range seed {
		if _, err := db.UpsertSpot(ctx, s); err != nil {
			t.Fatalf("upsert %s: %v", *s.ExternalID, err)
		}
	}

	since := baseTime.Add(-30 * time.Minute)
	tests := []struct {
		name   string
		query  SpotQuery
		wantID []string
	}{
		{"no filter within max age", SpotQuery{Since: since}, []string{"p1", "p2", "s1"}},
		{"wider max age", SpotQuery{Since: baseTime.Add(-time.Hour)}, []string{"p1", "p2", "s1", "r1"}},
		{"program", SpotQuery{Since: since, Filter: models.SpotFilter{Program: "sota"}}, []string{"s1"}},
		{"callsign", SpotQuery{Since: since, Filter: models.SpotFilter{Callsign: "W2XYZ"}}, []string{"p2"}},
		{"source", SpotQuery{Since: since, Filter: models.SpotFilter{Source: models.SourcePOTA}}, []string{"p1", "p2"}},
		{"mode", SpotQuery{Since: since, Filter: models.SpotFilter{Mode: "SSB"}}, []string{"p2"}},
		{"state", SpotQuery{Since: since, Filter: models.SpotFilter{State: "ME"}}, []string{"p1", "s1"}},
		{"combined", SpotQuery{Since: since, Filter: models.SpotFilter{Source: models.SourcePOTA, Mode: "CW"}}, []string{"p1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.query.Limit = 50
			spots, err := db.ListSpots(ctx, tt.query)
			if err != nil {
				t.Fatalf("ListSpots: %v", err)
			}
			if len(spots) != len(tt.wantID) {
				t.Fatalf("got %d spots, want %d", len(spots), len(tt.wantID))
			}
			for i, s := range spots {
				if *s.ExternalID != tt.wantID[i] {
					t.Errorf("spots[%d] = %s, want %s", i, *s.ExternalID, tt.wantID[i])
				}
			}
		})
	}
}

func TestListSpots_CursorAndLimit(t *testing.T) {
	db, _ := setupTestDB(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		s := newUpstreamSpot(models.SourcePOTA, uuid.NewString(), baseTime.Add(-time.Duration(i)*time.Minute))
		if _, err := db.UpsertSpot(ctx, s); err != nil {
			t.Fatalf("upsert %d: %v", i, err)
		}
	}

	page, err := db.ListSpots(ctx, SpotQuery{Since: baseTime.Add(-time.Hour), Limit: 2})
	if err != nil {
		t.Fatalf("ListSpots: %v", err)
	}
	if len(page) != 2 {
		t.Fatalf("page size = %d, want 2", len(page))
	}
	if !page[0].SpottedAt.After(page[1].SpottedAt) {
		t.Error("rows not ordered newest first")
	}

	cursor := page[1].SpottedAt
	next, err := db.ListSpots(ctx, SpotQuery{Since: baseTime.Add(-time.Hour), Before: &cursor, Limit: 10})
	if err != nil {
		t.Fatalf("ListSpots with cursor: %v", err)
	}
	if len(next) != 3 {
		t.Fatalf("after cursor got %d, want 3", len(next))
	}
	for _, s := range next {
		if !s.SpottedAt.Before(cursor) {
			t.Errorf("spot at %v is not strictly before cursor %v", s.SpottedAt, cursor)
		}
	}
}
