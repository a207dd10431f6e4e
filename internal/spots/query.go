// Spotwire - Real-Time Activation Spot Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/spotwire

package spots

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/tomtom215/spotwire/internal/config"
	"github.com/tomtom215/spotwire/internal/database"
	"github.com/tomtom215/spotwire/internal/models"
)

// SpotLister is satisfied by *database.DB.
type SpotLister interface {
	ListSpots(ctx context.Context, q database.SpotQuery) ([]models.Spot, error)
}

// Bounds are the clamping ranges for list requests.
type Bounds struct {
	DefaultLimit         int
	MaxLimit             int
	DefaultMaxAgeMinutes int
	MaxMaxAgeMinutes     int
}

// DefaultBounds matches the public API contract: limit 1-250 (default 100)
// and max age 1-1440 minutes (default 30).
var DefaultBounds = Bounds{
	DefaultLimit:         100,
	MaxLimit:             250,
	DefaultMaxAgeMinutes: 30,
	MaxMaxAgeMinutes:     1440,
}

// BoundsFromConfig reads bounds from configuration, falling back to
// DefaultBounds for unset values.
func BoundsFromConfig(cfg *config.SpotsConfig) Bounds {
	b := DefaultBounds
	if cfg == nil {
		return b
	}
	if cfg.MaxLimit > 0 {
		b.MaxLimit = cfg.MaxLimit
	}
	if cfg.DefaultLimit > 0 {
		b.DefaultLimit = min(cfg.DefaultLimit, b.MaxLimit)
	}
	if cfg.MaxMaxAgeMinutes > 0 {
		b.MaxMaxAgeMinutes = cfg.MaxMaxAgeMinutes
	}
	if cfg.DefaultMaxAgeMinutes > 0 {
		b.DefaultMaxAgeMinutes = min(cfg.DefaultMaxAgeMinutes, b.MaxMaxAgeMinutes)
	}
	return b
}

// ListRequest is a client list request before clamping. Nil Limit and
// MaxAgeMinutes select the defaults; an empty Cursor starts at the newest spot.
type ListRequest struct {
	Filter        models.SpotFilter
	MaxAgeMinutes *int
	Limit         *int
	Cursor        string
}

// ListResult is one page of spots, newest first.
type ListResult struct {
	Spots      []models.Spot
	HasMore    bool
	NextCursor *string
}

// QueryEngine turns list requests into store reads and computes cursors.
//
// Pagination is a descending spotted_at watermark: the cursor is the event
// time of the last row served and the next page holds rows strictly older.
// New spots inserted ahead of the cursor never shift later pages. Rows that
// share the exact cursor timestamp have no tie-break and may be skipped at
// a page boundary.
type QueryEngine struct {
	store  SpotLister
	bounds Bounds
	now    func() time.Time
}

// NewQueryEngine creates a query engine over store.
func NewQueryEngine(store SpotLister, bounds Bounds) *QueryEngine {
	return &QueryEngine{store: store, bounds: bounds, now: time.Now}
}

// SetClock replaces the clock used for the max-age window.
func (q *QueryEngine) SetClock(now func() time.Time) {
	q.now = now
}

// List returns one page of active spots matching req.
func (q *QueryEngine) List(ctx context.Context, req ListRequest) (ListResult, error) {
	filter, err := normalizeFilter(req.Filter)
	if err != nil {
		return ListResult{}, err
	}

	var before *time.Time
	if req.Cursor != "" {
		c, err := ParseCursor(req.Cursor)
		if err != nil {
			return ListResult{}, err
		}
		before = &c
	}

	limit := clamp(req.Limit, q.bounds.DefaultLimit, q.bounds.MaxLimit)
	maxAge := clamp(req.MaxAgeMinutes, q.bounds.DefaultMaxAgeMinutes, q.bounds.MaxMaxAgeMinutes)

	rows, err := q.store.ListSpots(ctx, database.SpotQuery{
		Filter: filter,
		Since:  q.now().UTC().Add(-time.Duration(maxAge) * time.Minute),
		Before: before,
		Limit:  limit + 1,
	})
	if err != nil {
		return ListResult{}, err
	}

	result := ListResult{Spots: rows}
	if len(rows) > limit {
		result.HasMore = true
		result.Spots = rows[:limit]
		cursor := FormatCursor(result.Spots[limit-1].SpottedAt)
		result.NextCursor = &cursor
	}
	if result.Spots == nil {
		result.Spots = []models.Spot{}
	}
	return result, nil
}

// clamp applies the default for nil and bounds the value to [1, maxValue].
func clamp(v *int, def, maxValue int) int {
	n := def
	if v != nil {
		n = *v
	}
	return max(1, min(n, maxValue))
}

// normalizeFilter canonicalizes filter values the way normalizers store
// them: callsign, mode and state upper case, program lower case.
func normalizeFilter(f models.SpotFilter) (models.SpotFilter, error) {
	out := models.SpotFilter{
		Program:  strings.ToLower(strings.TrimSpace(f.Program)),
		Callsign: strings.ToUpper(strings.TrimSpace(f.Callsign)),
		Mode:     strings.ToUpper(strings.TrimSpace(f.Mode)),
		State:    strings.ToUpper(strings.TrimSpace(f.State)),
	}
	if f.Source != "" {
		src, err := models.ParseSpotSource(string(f.Source))
		if err != nil {
			return models.SpotFilter{}, &models.ValidationError{Field: "source", Message: err.Error()}
		}
		out.Source = src
	}
	return out, nil
}

// FormatCursor serializes a row's event time as an RFC 3339 cursor.
func FormatCursor(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// ParseCursor reads a cursor produced by FormatCursor. Any RFC 3339
// timestamp is accepted.
func ParseCursor(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, &models.ValidationError{
			Field:   "cursor",
			Message: fmt.Sprintf("cursor must be an RFC 3339 timestamp, got %q", s),
		}
	}
	return t.UTC(), nil
}
