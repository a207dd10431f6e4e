// Spotwire - Real-Time Activation Spot Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/spotwire

package spots

import (
	"context"
	"strings"

	"github.com/tomtom215/spotwire/internal/models"
)

// ProgramReader is satisfied by *database.DB.
type ProgramReader interface {
	GetProgram(ctx context.Context, slug string) (*models.Program, error)
}

// SelfSpotGate checks a self-spot's program before it reaches the store.
// It is a precondition only; the store's unique key is what keeps
// concurrent submissions from both succeeding.
type SelfSpotGate struct {
	programs ProgramReader
}

// NewSelfSpotGate creates a gate reading from programs.
func NewSelfSpotGate(programs ProgramReader) *SelfSpotGate {
	return &SelfSpotGate{programs: programs}
}

// Check returns the program when it exists, is active and advertises the
// selfSpot capability.
func (g *SelfSpotGate) Check(ctx context.Context, programSlug string) (*models.Program, error) {
	slug := strings.ToLower(strings.TrimSpace(programSlug))
	program, err := g.programs.GetProgram(ctx, slug)
	if err != nil {
		return nil, err
	}
	if program == nil || !program.IsActive {
		return nil, &models.ProgramNotFoundError{Slug: slug}
	}
	if !program.HasCapability(models.CapabilitySelfSpot) {
		return nil, &models.CapabilityNotSupportedError{
			Capability:  models.CapabilitySelfSpot,
			ProgramSlug: slug,
		}
	}
	return program, nil
}
