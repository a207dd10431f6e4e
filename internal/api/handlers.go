// Spotwire - Real-Time Activation Spot Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/spotwire

package api

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/tomtom215/spotwire/internal/models"
	"github.com/tomtom215/spotwire/internal/spots"
)

// SpotService is the core surface the handlers drive. Satisfied by
// *spots.Service.
type SpotService interface {
	ListSpots(ctx context.Context, req spots.ListRequest) (spots.ListResult, error)
	InsertSelfSpot(ctx context.Context, owner, callsign string, req models.SelfSpotRequest) (*models.Spot, error)
	GetSpot(ctx context.Context, id uuid.UUID) (*models.Spot, error)
	DeleteOwnSpot(ctx context.Context, id uuid.UUID, owner string) (bool, error)
	AdminDeleteSpot(ctx context.Context, id uuid.UUID) (bool, error)
	ListPrograms(ctx context.Context) ([]models.Program, int64, error)
	GetProgram(ctx context.Context, slug string) (*models.Program, error)
	PatchProgram(ctx context.Context, slug string, patch *models.ProgramPatch) (*models.Program, error)
}

// Pinger reports storage reachability for readiness checks.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler contains dependencies for API handlers.
//
//   - handlers_spots.go: spot list, read, self-spot create and delete
//   - handlers_programs.go: program catalog and admin patch
//   - handlers_health.go: liveness and readiness
type Handler struct {
	service   SpotService
	db        Pinger
	startTime time.Time
}

// NewHandler creates the handler set.
func NewHandler(service SpotService, db Pinger) *Handler {
	return &Handler{service: service, db: db, startTime: time.Now()}
}

func toSpotResponses(in []models.Spot) []models.SpotResponse {
	out := make([]models.SpotResponse, len(in))
	for i := range in {
		out[i] = in[i].ToResponse()
	}
	return out
}
