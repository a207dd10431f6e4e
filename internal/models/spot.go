// Spotwire - Real-Time Activation Spot Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/spotwire

package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// SpotSource identifies where a spot came from.
type SpotSource string

const (
	// SourcePOTA is the park-activation feed.
	SourcePOTA SpotSource = "pota"
	// SourceRBN is the beacon-network feed.
	SourceRBN SpotSource = "rbn"
	// SourceSOTA is the summit-activation feed.
	SourceSOTA SpotSource = "sota"
	// SourceSelf marks a spot submitted by a participant about their own activity.
	SourceSelf SpotSource = "self"
	// SourceOther covers spots that fit none of the above.
	SourceOther SpotSource = "other"
)

// UpstreamSources lists the sources that are ingested by polling.
var UpstreamSources = []SpotSource{SourcePOTA, SourceRBN, SourceSOTA}

// ParseSpotSource converts a string to a SpotSource, rejecting unknown values.
func ParseSpotSource(s string) (SpotSource, error) {
	switch src := SpotSource(strings.ToLower(strings.TrimSpace(s))); src {
	case SourcePOTA, SourceRBN, SourceSOTA, SourceSelf, SourceOther:
		return src, nil
	default:
		return "", fmt.Errorf("unknown spot source %q", s)
	}
}

// String implements fmt.Stringer.
func (s SpotSource) String() string {
	return string(s)
}

// IsUpstream reports whether spots of this source arrive through a polled feed.
func (s SpotSource) IsUpstream() bool {
	return s == SourcePOTA || s == SourceRBN || s == SourceSOTA
}

// Spot is the canonical record every upstream feed and every self-spot is
// normalized into. Frequencies are always kHz and times are always UTC.
//
// Optional content is nil when the source did not report it. SubmittedBy is
// set only for self-spots; ExternalID only for upstream spots.
type Spot struct {
	ID          uuid.UUID
	Callsign    string
	ProgramSlug *string
	Source      SpotSource
	ExternalID  *string

	FrequencyKHz  float64
	Mode          string
	Reference     *string
	ReferenceName *string
	Spotter       *string
	SpotterGrid   *string
	LocationDesc  *string
	CountryCode   *string
	StateAbbr     *string
	Comments      *string
	SNR           *int16
	WPM           *int16

	SubmittedBy *string

	SpottedAt time.Time
	ExpiresAt time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive reports whether the spot is still live at the given instant.
func (s *Spot) IsActive(now time.Time) bool {
	return s.ExpiresAt.After(now)
}

// SpotResponse is the wire shape of a spot. Absent optional fields are omitted.
type SpotResponse struct {
	ID            uuid.UUID  `json:"id"`
	Callsign      string     `json:"callsign"`
	ProgramSlug   *string    `json:"programSlug,omitempty"`
	Source        SpotSource `json:"source"`
	FrequencyKHz  float64    `json:"frequencyKhz"`
	Mode          string     `json:"mode"`
	Reference     *string    `json:"reference,omitempty"`
	ReferenceName *string    `json:"referenceName,omitempty"`
	Spotter       *string    `json:"spotter,omitempty"`
	SpotterGrid   *string    `json:"spotterGrid,omitempty"`
	LocationDesc  *string    `json:"locationDesc,omitempty"`
	CountryCode   *string    `json:"countryCode,omitempty"`
	StateAbbr     *string    `json:"stateAbbr,omitempty"`
	Comments      *string    `json:"comments,omitempty"`
	SNR           *int16     `json:"snr,omitempty"`
	WPM           *int16     `json:"wpm,omitempty"`
	SpottedAt     time.Time  `json:"spottedAt"`
	ExpiresAt     time.Time  `json:"expiresAt"`
}

// ToResponse converts a stored spot to its API representation.
func (s *Spot) ToResponse() SpotResponse {
	return SpotResponse{
		ID:            s.ID,
		Callsign:      s.Callsign,
		ProgramSlug:   s.ProgramSlug,
		Source:        s.Source,
		FrequencyKHz:  s.FrequencyKHz,
		Mode:          s.Mode,
		Reference:     s.Reference,
		ReferenceName: s.ReferenceName,
		Spotter:       s.Spotter,
		SpotterGrid:   s.SpotterGrid,
		LocationDesc:  s.LocationDesc,
		CountryCode:   s.CountryCode,
		StateAbbr:     s.StateAbbr,
		Comments:      s.Comments,
		SNR:           s.SNR,
		WPM:           s.WPM,
		SpottedAt:     s.SpottedAt.UTC(),
		ExpiresAt:     s.ExpiresAt.UTC(),
	}
}

// SpotFilter holds the equality filters a list request may carry.
// Empty strings mean "no filter".
type SpotFilter struct {
	Program  string
	Callsign string
	Source   SpotSource
	Mode     string
	State    string
}

// NewSelfSpot carries everything the store needs to create a self-spot.
// Owner and Callsign come from the authenticated participant, never the request body.
type NewSelfSpot struct {
	Owner        string
	Callsign     string
	ProgramSlug  string
	FrequencyKHz float64
	Mode         string
	Reference    *string
	Comments     *string

	// TTL is the liveness window; zero means DefaultSelfSpotTTL.
	TTL time.Duration
}

// DefaultSelfSpotTTL is how long a self-spot stays live when no TTL is configured.
const DefaultSelfSpotTTL = 30 * time.Minute

// SelfSpotRequest is the body of a self-spot submission.
type SelfSpotRequest struct {
	ProgramSlug  string  `json:"programSlug" validate:"required,slug,max=64"`
	FrequencyKHz float64 `json:"frequencyKhz" validate:"required,gt=0,lt=300000000"`
	Mode         string  `json:"mode" validate:"required,min=1,max=16"`
	Reference    *string `json:"reference,omitempty" validate:"omitempty,max=64"`
	Comments     *string `json:"comments,omitempty" validate:"omitempty,max=500"`
}

// SpotsPagination is the pagination block of a list response.
type SpotsPagination struct {
	HasMore    bool    `json:"hasMore"`
	NextCursor *string `json:"nextCursor"`
}

// SpotsListResponse is the data payload of a list response.
type SpotsListResponse struct {
	Spots      []SpotResponse  `json:"spots"`
	Pagination SpotsPagination `json:"pagination"`
}
