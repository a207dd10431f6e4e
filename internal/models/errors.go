// Spotwire - Real-Time Activation Spot Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/spotwire

package models

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ErrDuplicateSelfSpot is returned when the participant already has an
// unexpired self-spot for the same program. It is an expected outcome.
var ErrDuplicateSelfSpot = errors.New("an active self-spot already exists for this program")

// ProgramNotFoundError reports an unknown or inactive program slug.
type ProgramNotFoundError struct {
	Slug string
}

func (e *ProgramNotFoundError) Error() string {
	return fmt.Sprintf("program not found: %s", e.Slug)
}

// CapabilityNotSupportedError reports a program that lacks a required capability.
type CapabilityNotSupportedError struct {
	Capability  string
	ProgramSlug string
}

func (e *CapabilityNotSupportedError) Error() string {
	return fmt.Sprintf("program %s does not support %s", e.ProgramSlug, e.Capability)
}

// SpotNotFoundError reports a missing, expired or not-owned spot.
type SpotNotFoundError struct {
	SpotID uuid.UUID
}

func (e *SpotNotFoundError) Error() string {
	return fmt.Sprintf("spot not found: %s", e.SpotID)
}

// ValidationError reports a malformed client request.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}
