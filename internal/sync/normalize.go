// Spotwire - Real-Time Activation Spot Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/spotwire

package sync

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/spotwire/internal/models"
)

// Default liveness windows, applied when a feed reports none and the
// configuration does not override them.
const (
	DefaultPOTAWindow = 30 * time.Minute
	DefaultRBNWindow  = 10 * time.Minute
	DefaultSOTAWindow = 30 * time.Minute

	// MaxPOTAExpire bounds the feed-reported window. Larger values are
	// rejected rather than overflowing time.Duration.
	MaxPOTAExpire = 24 * time.Hour
)

// naiveUTCLayout is the offset-less timestamp format of the park and summit
// feeds. Parsing with time.Parse yields UTC and tolerates fractional seconds.
const naiveUTCLayout = "2006-01-02T15:04:05"

// NormalizeFunc converts one raw upstream record into a canonical spot or
// returns a *ParseError. Implementations are pure.
type NormalizeFunc func(raw json.RawMessage) (*models.Spot, error)

// NormalizerFor returns the normalizer for an upstream source. window is the
// default liveness window; zero selects the source's built-in default.
func NormalizerFor(source models.SpotSource, window time.Duration) (NormalizeFunc, error) {
	switch source {
	case models.SourcePOTA:
		return func(raw json.RawMessage) (*models.Spot, error) {
			return normalizePOTA(raw, orDefault(window, DefaultPOTAWindow))
		}, nil
	case models.SourceRBN:
		return func(raw json.RawMessage) (*models.Spot, error) {
			return normalizeRBN(raw, orDefault(window, DefaultRBNWindow))
		}, nil
	case models.SourceSOTA:
		return func(raw json.RawMessage) (*models.Spot, error) {
			return normalizeSOTA(raw, orDefault(window, DefaultSOTAWindow))
		}, nil
	default:
		return nil, fmt.Errorf("no normalizer for source %q", source)
	}
}

// Normalize converts one record from the given source using the default windows.
func Normalize(source models.SpotSource, raw json.RawMessage) (*models.Spot, error) {
	fn, err := NormalizerFor(source, 0)
	if err != nil {
		return nil, err
	}
	return fn(raw)
}

func orDefault(d, fallback time.Duration) time.Duration {
	if d <= 0 {
		return fallback
	}
	return d
}

var (
	errEmpty        = errors.New("must not be empty")
	errNonPositive  = errors.New("must be a positive number")
	errNotFinite    = errors.New("must be finite")
	errBadTimestamp = errors.New("unparsable timestamp")
	errMissing      = errors.New("is required")
	errOutOfRange   = errors.New("out of range")
)

// recordID formats a required upstream id. An absent id would collapse
// every such record onto one conflict key, so it is an error.
func recordID(id *int64) (string, error) {
	if id == nil {
		return "", errMissing
	}
	return strconv.FormatInt(*id, 10), nil
}

// telemetry narrows an optional reading to int16. Readings that do not
// fit are dropped; the spot itself is still valid.
func telemetry(v *float64) *int16 {
	if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) {
		return nil
	}
	r := math.Round(*v)
	if r < math.MinInt16 || r > math.MaxInt16 {
		return nil
	}
	n := int16(r)
	return &n
}

// parseFrequency parses a decimal frequency string and applies scale.
// Scaled values are rounded to the millihertz to drop binary float noise
// such as 7.0301 MHz becoming 7030.099999999999 kHz.
func parseFrequency(s string, scale float64) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, err
	}
	if scale != 1 {
		v = math.Round(v*scale*1e6) / 1e6
	}
	return checkFrequency(v)
}

func checkFrequency(khz float64) (float64, error) {
	if math.IsNaN(khz) || math.IsInf(khz, 0) {
		return 0, errNotFinite
	}
	if khz <= 0 {
		return 0, errNonPositive
	}
	return khz, nil
}

// parseNaiveUTC reads an offset-less timestamp as UTC, never local time.
// Values that do carry an offset are accepted and converted.
func parseNaiveUTC(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(naiveUTCLayout, s); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.UTC(), nil
	}
	return time.Time{}, fmt.Errorf("%w: %q", errBadTimestamp, s)
}

// splitLocation splits "US-ME" into country and subdivision on the first
// hyphen. A value without a hyphen yields the country only.
func splitLocation(desc *string) (country, state *string) {
	if desc == nil || *desc == "" {
		return nil, nil
	}
	c, s, found := strings.Cut(*desc, "-")
	if c != "" {
		country = &c
	}
	if found && s != "" {
		state = &s
	}
	return country, state
}

// cleanCallsign normalizes callsigns and modes so equality filters match.
func cleanCallsign(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// optionalString drops empty and whitespace-only values.
func optionalString(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

func strPtr(s string) *string {
	return &s
}
