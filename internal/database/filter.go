// Spotwire - Real-Time Activation Spot Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/spotwire

package database

import (
	"fmt"
	"strings"
	"time"

	"github.com/tomtom215/spotwire/internal/models"
)

// SpotQuery is a fully resolved list request. The query engine clamps and
// validates user input before building one.
//
// Rows come back ordered by spotted_at DESC. Before is an exclusive upper
// bound (the cursor); rows sharing the cursor timestamp are not revisited.
type SpotQuery struct {
	Filter models.SpotFilter
	Since  time.Time
	Before *time.Time
	Limit  int
}

// whereBuilder accumulates AND-ed conditions with $n placeholders.
type whereBuilder struct {
	clauses []string
	args    []interface{}
}

// add appends "column op $n" and binds value.
func (w *whereBuilder) add(column, op string, value interface{}) {
	w.args = append(w.args, value)
	w.clauses = append(w.clauses, fmt.Sprintf("%s %s $%d", column, op, len(w.args)))
}

// addIfSet adds an equality condition only when value is non-empty.
func (w *whereBuilder) addIfSet(column, value string) {
	if value != "" {
		w.add(column, "=", value)
	}
}

// placeholder binds value and returns its $n marker without adding a clause.
func (w *whereBuilder) placeholder(value interface{}) string {
	w.args = append(w.args, value)
	return fmt.Sprintf("$%d", len(w.args))
}

func (w *whereBuilder) String() string {
	if len(w.clauses) == 0 {
		return "1=1"
	}
	return strings.Join(w.clauses, " AND ")
}

// buildSpotConditions builds the WHERE clause for ListSpots. The active
// check is always present so no read path can return an expired spot.
func buildSpotConditions(q SpotQuery, now time.Time) *whereBuilder {
	w := &whereBuilder{}
	w.add("expires_at", ">", now)
	w.add("spotted_at", ">=", q.Since.UTC())
	if q.Before != nil {
		w.add("spotted_at", "<", q.Before.UTC())
	}

	w.addIfSet("program_slug", q.Filter.Program)
	w.addIfSet("callsign", q.Filter.Callsign)
	w.addIfSet("source", string(q.Filter.Source))
	w.addIfSet("mode", q.Filter.Mode)
	w.addIfSet("state_abbr", q.Filter.State)

	return w
}
