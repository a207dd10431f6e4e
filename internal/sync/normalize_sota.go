// Spotwire - Real-Time Activation Spot Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/spotwire

package sync

import (
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/spotwire/internal/models"
)

// sotaSpot is one record of the summit-activation feed. Callsign is the
// station that posted the spot; ActivatorCallsign is the one on the summit.
type sotaSpot struct {
	ID                *int64  `json:"id"`
	Callsign          string  `json:"callsign"`
	ActivatorCallsign string  `json:"activatorCallsign"`
	Frequency         string  `json:"frequency"` // MHz
	Mode              string  `json:"mode"`
	AssociationCode   string  `json:"associationCode"`
	SummitCode        string  `json:"summitCode"`
	SummitDetails     *string `json:"summitDetails"`
	TimeStamp         string  `json:"timeStamp"` // naive UTC
	Comments          *string `json:"comments"`
}

func normalizeSOTA(raw json.RawMessage, window time.Duration) (*models.Spot, error) {
	var rec sotaSpot
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, &ParseError{Source: models.SourceSOTA, Err: err}
	}
	externalID, err := recordID(rec.ID)
	if err != nil {
		return nil, &ParseError{Source: models.SourceSOTA, Field: "id", Err: err}
	}
	fail := func(field string, err error) error {
		return &ParseError{Source: models.SourceSOTA, ExternalID: externalID, Field: field, Err: err}
	}

	activator := cleanCallsign(rec.ActivatorCallsign)
	if activator == "" {
		return nil, fail("activatorCallsign", errEmpty)
	}
	frequency, err := parseFrequency(rec.Frequency, 1000)
	if err != nil {
		return nil, fail("frequency", err)
	}
	spottedAt, err := parseNaiveUTC(rec.TimeStamp)
	if err != nil {
		return nil, fail("timeStamp", err)
	}

	// A half-filled summit reference ("G/") matches nothing, so it is
	// left absent.
	var reference *string
	if rec.AssociationCode != "" && rec.SummitCode != "" {
		reference = strPtr(rec.AssociationCode + "/" + rec.SummitCode)
	}

	return &models.Spot{
		Callsign:      activator,
		ProgramSlug:   strPtr("sota"),
		Source:        models.SourceSOTA,
		ExternalID:    &externalID,
		FrequencyKHz:  frequency,
		Mode:          cleanCallsign(rec.Mode),
		Reference:     reference,
		ReferenceName: optionalString(rec.SummitDetails),
		Spotter:       optionalString(strPtr(cleanCallsign(rec.Callsign))),
		Comments:      optionalString(rec.Comments),
		SpottedAt:     spottedAt,
		ExpiresAt:     spottedAt.Add(window),
	}, nil
}
