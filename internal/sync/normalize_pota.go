// Spotwire - Real-Time Activation Spot Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/spotwire

package sync

import (
	"fmt"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/spotwire/internal/models"
)

// potaSpot is one record of the park-activation feed.
type potaSpot struct {
	SpotID       *int64  `json:"spotId"`
	Activator    string  `json:"activator"`
	Frequency    string  `json:"frequency"` // kHz
	Mode         string  `json:"mode"`
	Reference    string  `json:"reference"`
	ParkName     *string `json:"parkName"`
	SpotTime     string  `json:"spotTime"` // naive UTC
	Spotter      *string `json:"spotter"`
	Comments     *string `json:"comments"`
	LocationDesc *string `json:"locationDesc"`
	Expire       *int64  `json:"expire"` // seconds remaining
}

func normalizePOTA(raw json.RawMessage, window time.Duration) (*models.Spot, error) {
	var rec potaSpot
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, &ParseError{Source: models.SourcePOTA, Err: err}
	}
	externalID, err := recordID(rec.SpotID)
	if err != nil {
		return nil, &ParseError{Source: models.SourcePOTA, Field: "spotId", Err: err}
	}
	fail := func(field string, err error) error {
		return &ParseError{Source: models.SourcePOTA, ExternalID: externalID, Field: field, Err: err}
	}

	callsign := cleanCallsign(rec.Activator)
	if callsign == "" {
		return nil, fail("activator", errEmpty)
	}
	frequency, err := parseFrequency(rec.Frequency, 1)
	if err != nil {
		return nil, fail("frequency", err)
	}
	spottedAt, err := parseNaiveUTC(rec.SpotTime)
	if err != nil {
		return nil, fail("spotTime", err)
	}

	if rec.Expire != nil && *rec.Expire > 0 {
		if *rec.Expire > int64(MaxPOTAExpire/time.Second) {
			return nil, fail("expire", fmt.Errorf("%w: %d seconds exceeds %s", errOutOfRange, *rec.Expire, MaxPOTAExpire))
		}
		window = time.Duration(*rec.Expire) * time.Second
	}

	location := optionalString(rec.LocationDesc)
	country, state := splitLocation(location)

	return &models.Spot{
		Callsign:      callsign,
		ProgramSlug:   strPtr("pota"),
		Source:        models.SourcePOTA,
		ExternalID:    &externalID,
		FrequencyKHz:  frequency,
		Mode:          cleanCallsign(rec.Mode),
		Reference:     optionalString(&rec.Reference),
		ReferenceName: optionalString(rec.ParkName),
		Spotter:       optionalString(rec.Spotter),
		LocationDesc:  location,
		CountryCode:   country,
		StateAbbr:     state,
		Comments:      optionalString(rec.Comments),
		SpottedAt:     spottedAt,
		ExpiresAt:     spottedAt.Add(window),
	}, nil
}
