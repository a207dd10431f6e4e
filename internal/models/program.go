// Spotwire - Real-Time Activation Spot Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/spotwire

package models

import (
	"slices"
	"time"
)

// CapabilitySelfSpot is the capability a program must advertise before
// participants may self-spot against it.
const CapabilitySelfSpot = "selfSpot"

// Program is an award program (park activations, summit activations, ...)
// that spots may reference.
type Program struct {
	Slug           string
	Name           string
	ShortName      string
	Icon           string
	Website        *string
	ReferenceLabel string
	Capabilities   []string
	SortOrder      int
	IsActive       bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// HasCapability reports whether the program advertises the named capability.
func (p *Program) HasCapability(capability string) bool {
	return slices.Contains(p.Capabilities, capability)
}

// ProgramResponse is the wire shape of a program.
type ProgramResponse struct {
	Slug           string   `json:"slug"`
	Name           string   `json:"name"`
	ShortName      string   `json:"shortName"`
	Icon           string   `json:"icon"`
	Website        *string  `json:"website"`
	ReferenceLabel string   `json:"referenceLabel"`
	Capabilities   []string `json:"capabilities"`
}

// ToResponse converts a program to its API representation.
func (p *Program) ToResponse() ProgramResponse {
	caps := p.Capabilities
	if caps == nil {
		caps = []string{}
	}
	return ProgramResponse{
		Slug:           p.Slug,
		Name:           p.Name,
		ShortName:      p.ShortName,
		Icon:           p.Icon,
		Website:        p.Website,
		ReferenceLabel: p.ReferenceLabel,
		Capabilities:   caps,
	}
}

// ProgramListResponse is the data payload for the program catalog.
// Version changes whenever any active program is modified.
type ProgramListResponse struct {
	Programs []ProgramResponse `json:"programs"`
	Version  int64             `json:"version"`
}

// ProgramPatch is an admin partial update. Each field distinguishes
// "leave alone", "clear" and "set".
type ProgramPatch struct {
	Name           Optional[string]   `json:"name"`
	ShortName      Optional[string]   `json:"shortName"`
	Icon           Optional[string]   `json:"icon"`
	Website        Optional[string]   `json:"website"`
	ReferenceLabel Optional[string]   `json:"referenceLabel"`
	Capabilities   Optional[[]string] `json:"capabilities"`
	SortOrder      Optional[int]      `json:"sortOrder"`
	IsActive       Optional[bool]     `json:"isActive"`
}

// Validate rejects clearing fields that cannot be null.
func (p *ProgramPatch) Validate() error {
	nonNullable := []struct {
		field  string
		isNull bool
	}{
		{"name", p.Name.IsNull()},
		{"shortName", p.ShortName.IsNull()},
		{"icon", p.Icon.IsNull()},
		{"referenceLabel", p.ReferenceLabel.IsNull()},
		{"sortOrder", p.SortOrder.IsNull()},
		{"isActive", p.IsActive.IsNull()},
	}
	for _, f := range nonNullable {
		if f.isNull {
			return &ValidationError{Field: f.field, Message: f.field + " cannot be null"}
		}
	}
	return nil
}

// Apply returns a copy of the program with the patch applied.
func (p *ProgramPatch) Apply(prog Program) Program {
	if v, ok := p.Name.Get(); ok {
		prog.Name = v
	}
	if v, ok := p.ShortName.Get(); ok {
		prog.ShortName = v
	}
	if v, ok := p.Icon.Get(); ok {
		prog.Icon = v
	}
	if p.Website.IsNull() {
		prog.Website = nil
	} else if v, ok := p.Website.Get(); ok {
		prog.Website = &v
	}
	if v, ok := p.ReferenceLabel.Get(); ok {
		prog.ReferenceLabel = v
	}
	if p.Capabilities.IsNull() {
		prog.Capabilities = []string{}
	} else if v, ok := p.Capabilities.Get(); ok {
		prog.Capabilities = slices.Clone(v)
	}
	if v, ok := p.SortOrder.Get(); ok {
		prog.SortOrder = v
	}
	if v, ok := p.IsActive.Get(); ok {
		prog.IsActive = v
	}
	return prog
}
