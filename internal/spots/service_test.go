// Spotwire - Real-Time Activation Spot Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/spotwire

package spots

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/tomtom215/spotwire/internal/models"
	"github.com/tomtom215/spotwire/internal/validation"
)

func selfSpotRequest(program string) models.SelfSpotRequest {
	return models.SelfSpotRequest{
		ProgramSlug:  program,
		FrequencyKHz: 14285,
		Mode:         "ssb",
		Reference:    strPtr("US-0001"),
	}
}

func TestService_InsertSelfSpot(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	spot, err := svc.InsertSelfSpot(ctx, "participant-1", "k1abc", selfSpotRequest("pota"))
	if err != nil {
		t.Fatalf("InsertSelfSpot: %v", err)
	}
	if spot.Source != models.SourceSelf || spot.Callsign != "K1ABC" || spot.Mode != "SSB" {
		t.Errorf("spot = %s %s %s", spot.Source, spot.Callsign, spot.Mode)
	}
	if spot.SubmittedBy == nil || *spot.SubmittedBy != "participant-1" {
		t.Errorf("SubmittedBy = %v", spot.SubmittedBy)
	}
	if !spot.SpottedAt.Equal(baseTime) || !spot.ExpiresAt.Equal(baseTime.Add(30*time.Minute)) {
		t.Errorf("window = %v..%v", spot.SpottedAt, spot.ExpiresAt)
	}
}

func TestService_InsertSelfSpot_DuplicateLifecycle(t *testing.T) {
	svc, _, clock := newTestService(t)
	ctx := context.Background()

	first, err := svc.InsertSelfSpot(ctx, "p1", "K1ABC", selfSpotRequest("pota"))
	if err != nil {
		t.Fatalf("first: %v", err)
	}
	if _, err := svc.InsertSelfSpot(ctx, "p1", "K1ABC", selfSpotRequest("pota")); !errors.Is(err, models.ErrDuplicateSelfSpot) {
		t.Fatalf("second while active = %v, want ErrDuplicateSelfSpot", err)
	}

	// Another program is an independent slot.
	if _, err := svc.InsertSelfSpot(ctx, "p1", "K1ABC", selfSpotRequest("sota")); err != nil {
		t.Errorf("sota while pota active: %v", err)
	}

	removed, err := svc.DeleteOwnSpot(ctx, first.ID, "p1")
	if err != nil || !removed {
		t.Fatalf("DeleteOwnSpot = %v, %v", removed, err)
	}
	second, err := svc.InsertSelfSpot(ctx, "p1", "K1ABC", selfSpotRequest("pota"))
	if err != nil {
		t.Fatalf("after delete: %v", err)
	}

	clock.Advance(30 * time.Minute)
	third, err := svc.InsertSelfSpot(ctx, "p1", "K1ABC", selfSpotRequest("pota"))
	if err != nil {
		t.Fatalf("after expiry: %v", err)
	}
	if third.ID == second.ID {
		t.Error("expired self-spot was reused instead of replaced")
	}
}

func TestService_InsertSelfSpot_Rejections(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	t.Run("unknown program", func(t *testing.T) {
		var notFound *models.ProgramNotFoundError
		if _, err := svc.InsertSelfSpot(ctx, "p1", "K1ABC", selfSpotRequest("bota")); !errors.As(err, &notFound) {
			t.Errorf("err = %v, want ProgramNotFoundError", err)
		}
	})

	t.Run("inactive program", func(t *testing.T) {
		var notFound *models.ProgramNotFoundError
		if _, err := svc.InsertSelfSpot(ctx, "p1", "K1ABC", selfSpotRequest("iota")); !errors.As(err, &notFound) {
			t.Errorf("err = %v, want ProgramNotFoundError", err)
		}
	})

	t.Run("capability missing", func(t *testing.T) {
		var unsupported *models.CapabilityNotSupportedError
		if _, err := svc.InsertSelfSpot(ctx, "p1", "K1ABC", selfSpotRequest("wwff")); !errors.As(err, &unsupported) {
			t.Errorf("err = %v, want CapabilityNotSupportedError", err)
		}
	})

	t.Run("invalid body", func(t *testing.T) {
		req := selfSpotRequest("pota")
		req.FrequencyKHz = -1
		req.Mode = ""
		var verr *validation.RequestValidationError
		if _, err := svc.InsertSelfSpot(ctx, "p1", "K1ABC", req); !errors.As(err, &verr) {
			t.Fatalf("err = %v, want RequestValidationError", err)
		}
		if len(verr.Errors()) != 2 {
			t.Errorf("got %d field errors, want 2", len(verr.Errors()))
		}
	})

	t.Run("missing owner", func(t *testing.T) {
		var verr *models.ValidationError
		if _, err := svc.InsertSelfSpot(ctx, "", "K1ABC", selfSpotRequest("pota")); !errors.As(err, &verr) {
			t.Errorf("err = %v, want ValidationError", err)
		}
	})
}

func TestService_GetSpot(t *testing.T) {
	svc, db, clock := newTestService(t)
	ctx := context.Background()
	stored := seedUpstream(t, db, 1, baseTime.Add(-time.Minute), nil)

	got, err := svc.GetSpot(ctx, stored.ID)
	if err != nil || got.ID != stored.ID {
		t.Fatalf("GetSpot = %v, %v", got, err)
	}

	var notFound *models.SpotNotFoundError
	if _, err := svc.GetSpot(ctx, uuid.New()); !errors.As(err, &notFound) {
		t.Errorf("unknown id err = %v, want SpotNotFoundError", err)
	}

	clock.Advance(31 * time.Minute)
	if _, err := svc.GetSpot(ctx, stored.ID); !errors.As(err, &notFound) || notFound.SpotID != stored.ID {
		t.Errorf("expired spot err = %v, want SpotNotFoundError", err)
	}
}

func TestService_DeleteOwnSpot_NotOwned(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	spot, err := svc.InsertSelfSpot(ctx, "owner", "K1ABC", selfSpotRequest("pota"))
	if err != nil {
		t.Fatalf("InsertSelfSpot: %v", err)
	}

	removed, err := svc.DeleteOwnSpot(ctx, spot.ID, "intruder")
	if err != nil || removed {
		t.Errorf("DeleteOwnSpot by other = %v, %v; want false, nil", removed, err)
	}
	removed, err = svc.DeleteOwnSpot(ctx, uuid.New(), "owner")
	if err != nil || removed {
		t.Errorf("DeleteOwnSpot unknown = %v, %v; want false, nil", removed, err)
	}
	removed, err = svc.AdminDeleteSpot(ctx, spot.ID)
	if err != nil || !removed {
		t.Errorf("AdminDeleteSpot = %v, %v; want true, nil", removed, err)
	}
}

func TestService_DeleteExpiredSpots(t *testing.T) {
	svc, db, clock := newTestService(t)
	ctx := context.Background()
	seedUpstream(t, db, 1, baseTime.Add(-time.Minute), nil)
	seedUpstream(t, db, 2, baseTime.Add(-29*time.Minute), nil)

	clock.Advance(2 * time.Minute)
	n, err := svc.DeleteExpiredSpots(ctx)
	if err != nil || n != 1 {
		t.Errorf("DeleteExpiredSpots = %d, %v; want 1, nil", n, err)
	}
}

func TestService_Programs(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	programs, version, err := svc.ListPrograms(ctx)
	if err != nil {
		t.Fatalf("ListPrograms: %v", err)
	}
	if len(programs) != 3 || version != baseTime.Unix() {
		t.Errorf("ListPrograms = %d programs version %d", len(programs), version)
	}

	var notFound *models.ProgramNotFoundError
	if _, err := svc.GetProgram(ctx, "iota"); !errors.As(err, &notFound) {
		t.Errorf("inactive program err = %v, want ProgramNotFoundError", err)
	}

	p, err := svc.PatchProgram(ctx, "iota", &models.ProgramPatch{IsActive: models.Some(true)})
	if err != nil || !p.IsActive {
		t.Fatalf("PatchProgram = %v, %v", p, err)
	}
	if _, err := svc.GetProgram(ctx, "iota"); err != nil {
		t.Errorf("GetProgram after activation: %v", err)
	}
}
