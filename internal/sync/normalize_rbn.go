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

// rbnEnvelope wraps the beacon-network record list.
type rbnEnvelope struct {
	Spots []json.RawMessage `json:"spots"`
}

// rbnSpot is one skimmer report.
type rbnSpot struct {
	ID        *int64   `json:"id"`
	Callsign  string   `json:"callsign"`
	Frequency float64  `json:"frequency"` // kHz
	Mode      string   `json:"mode"`
	Timestamp string   `json:"timestamp"` // RFC 3339
	SNR       *float64 `json:"snr"`
	Spotter   *string  `json:"spotter"`
	Speed     *float64 `json:"speed"` // WPM
}

// normalizeRBN always applies the fixed window; the feed reports none.
func normalizeRBN(raw json.RawMessage, window time.Duration) (*models.Spot, error) {
	var rec rbnSpot
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, &ParseError{Source: models.SourceRBN, Err: err}
	}
	externalID, err := recordID(rec.ID)
	if err != nil {
		return nil, &ParseError{Source: models.SourceRBN, Field: "id", Err: err}
	}
	fail := func(field string, err error) error {
		return &ParseError{Source: models.SourceRBN, ExternalID: externalID, Field: field, Err: err}
	}

	callsign := cleanCallsign(rec.Callsign)
	if callsign == "" {
		return nil, fail("callsign", errEmpty)
	}
	frequency, err := checkFrequency(rec.Frequency)
	if err != nil {
		return nil, fail("frequency", err)
	}
	ts, err := time.Parse(time.RFC3339Nano, rec.Timestamp)
	if err != nil {
		return nil, fail("timestamp", fmt.Errorf("%w: %q", errBadTimestamp, rec.Timestamp))
	}
	spottedAt := ts.UTC()

	return &models.Spot{
		Callsign:     callsign,
		Source:       models.SourceRBN,
		ExternalID:   &externalID,
		FrequencyKHz: frequency,
		Mode:         cleanCallsign(rec.Mode),
		Spotter:      optionalString(rec.Spotter),
		SNR:          telemetry(rec.SNR),
		WPM:          telemetry(rec.Speed),
		SpottedAt:    spottedAt,
		ExpiresAt:    spottedAt.Add(window),
	}, nil
}
