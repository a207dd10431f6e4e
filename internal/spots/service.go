// Spotwire - Real-Time Activation Spot Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/spotwire

package spots

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tomtom215/spotwire/internal/config"
	"github.com/tomtom215/spotwire/internal/logging"
	"github.com/tomtom215/spotwire/internal/metrics"
	"github.com/tomtom215/spotwire/internal/models"
	"github.com/tomtom215/spotwire/internal/validation"
)

// Store is everything the service needs from persistence.
// Satisfied by *database.DB.
type Store interface {
	SpotLister
	ProgramReader
	InsertSelfSpot(ctx context.Context, req models.NewSelfSpot) (*models.Spot, error)
	GetSpot(ctx context.Context, id uuid.UUID) (*models.Spot, error)
	DeleteOwnSpot(ctx context.Context, id uuid.UUID, owner string) (bool, error)
	AdminDeleteSpot(ctx context.Context, id uuid.UUID) (bool, error)
	DeleteExpiredSpots(ctx context.Context) (int64, error)
	ListPrograms(ctx context.Context) ([]models.Program, int64, error)
	PatchProgram(ctx context.Context, slug string, patch *models.ProgramPatch) (*models.Program, error)
}

// Service is the entry point the HTTP layer uses for spots and programs.
type Service struct {
	store       Store
	query       *QueryEngine
	gate        *SelfSpotGate
	selfSpotTTL time.Duration
}

// NewService wires the query engine and gate over store.
func NewService(store Store, cfg *config.SpotsConfig) *Service {
	ttl := models.DefaultSelfSpotTTL
	if cfg != nil && cfg.SelfSpotTTL > 0 {
		ttl = cfg.SelfSpotTTL
	}
	return &Service{
		store:       store,
		query:       NewQueryEngine(store, BoundsFromConfig(cfg)),
		gate:        NewSelfSpotGate(store),
		selfSpotTTL: ttl,
	}
}

// Query exposes the query engine, mainly so tests can set its clock.
func (s *Service) Query() *QueryEngine {
	return s.query
}

// ListSpots returns one page of active spots.
func (s *Service) ListSpots(ctx context.Context, req ListRequest) (ListResult, error) {
	return s.query.List(ctx, req)
}

// InsertSelfSpot validates req, runs the gate and creates the self-spot.
// owner and callsign come from the authenticated participant.
func (s *Service) InsertSelfSpot(ctx context.Context, owner, callsign string, req models.SelfSpotRequest) (*models.Spot, error) {
	if verr := validation.ValidateStruct(&req); verr != nil {
		metrics.RecordSelfSpot("rejected")
		return nil, verr
	}
	if owner == "" {
		metrics.RecordSelfSpot("rejected")
		return nil, &models.ValidationError{Field: "owner", Message: "owner is required"}
	}

	program, err := s.gate.Check(ctx, req.ProgramSlug)
	if err != nil {
		metrics.RecordSelfSpot(gateResult(err))
		return nil, err
	}

	spot, err := s.store.InsertSelfSpot(ctx, models.NewSelfSpot{
		Owner:        owner,
		Callsign:     strings.ToUpper(strings.TrimSpace(callsign)),
		ProgramSlug:  program.Slug,
		FrequencyKHz: req.FrequencyKHz,
		Mode:         strings.ToUpper(strings.TrimSpace(req.Mode)),
		Reference:    req.Reference,
		Comments:     req.Comments,
		TTL:          s.selfSpotTTL,
	})
	switch {
	case errors.Is(err, models.ErrDuplicateSelfSpot):
		metrics.RecordSelfSpot("duplicate")
		logging.Ctx(ctx).Info().Str("owner", owner).Str("program", program.Slug).Msg("Rejected duplicate self-spot")
		return nil, err
	case err != nil:
		metrics.RecordSelfSpot("error")
		return nil, err
	}

	metrics.RecordSelfSpot("created")
	logging.Ctx(ctx).Debug().Str("spot_id", spot.ID.String()).Str("program", program.Slug).Msg("Self-spot created")
	return spot, nil
}

func gateResult(err error) string {
	var notFound *models.ProgramNotFoundError
	var unsupported *models.CapabilityNotSupportedError
	if errors.As(err, &notFound) || errors.As(err, &unsupported) {
		return "rejected"
	}
	return "error"
}

// GetSpot returns an active spot or *models.SpotNotFoundError.
func (s *Service) GetSpot(ctx context.Context, id uuid.UUID) (*models.Spot, error) {
	spot, err := s.store.GetSpot(ctx, id)
	if err != nil {
		return nil, err
	}
	if spot == nil {
		return nil, &models.SpotNotFoundError{SpotID: id}
	}
	return spot, nil
}

// DeleteOwnSpot removes the owner's spot. Missing and not-owned both
// report false.
func (s *Service) DeleteOwnSpot(ctx context.Context, id uuid.UUID, owner string) (bool, error) {
	return s.store.DeleteOwnSpot(ctx, id, owner)
}

// AdminDeleteSpot removes any spot.
func (s *Service) AdminDeleteSpot(ctx context.Context, id uuid.UUID) (bool, error) {
	removed, err := s.store.AdminDeleteSpot(ctx, id)
	if err == nil && removed {
		logging.Ctx(ctx).Info().Str("spot_id", id.String()).Msg("Spot deleted by admin")
	}
	return removed, err
}

// DeleteExpiredSpots runs one sweep.
func (s *Service) DeleteExpiredSpots(ctx context.Context) (int64, error) {
	return s.store.DeleteExpiredSpots(ctx)
}

// ListPrograms returns the active catalog and its version.
func (s *Service) ListPrograms(ctx context.Context) ([]models.Program, int64, error) {
	return s.store.ListPrograms(ctx)
}

// GetProgram returns an active program or *models.ProgramNotFoundError.
func (s *Service) GetProgram(ctx context.Context, slug string) (*models.Program, error) {
	program, err := s.store.GetProgram(ctx, slug)
	if err != nil {
		return nil, err
	}
	if program == nil || !program.IsActive {
		return nil, &models.ProgramNotFoundError{Slug: slug}
	}
	return program, nil
}

// PatchProgram applies an admin partial update.
func (s *Service) PatchProgram(ctx context.Context, slug string, patch *models.ProgramPatch) (*models.Program, error) {
	program, err := s.store.PatchProgram(ctx, slug, patch)
	if err != nil {
		return nil, err
	}
	logging.Ctx(ctx).Info().Str("program", slug).Msg("Program updated")
	return program, nil
}
