// Spotwire - Real-Time Activation Spot Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/spotwire

package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/tomtom215/spotwire/internal/models"
	"github.com/tomtom215/spotwire/internal/spots"
)

// parseListRequest reads the list query string. Bounds are applied later by
// the query engine; here only the types are checked.
func parseListRequest(r *http.Request) (spots.ListRequest, error) {
	q := r.URL.Query()

	req := spots.ListRequest{
		Filter: models.SpotFilter{
			Program:  q.Get("program"),
			Callsign: q.Get("callsign"),
			Source:   models.SpotSource(q.Get("source")),
			Mode:     q.Get("mode"),
			State:    q.Get("state"),
		},
		Cursor: strings.TrimSpace(q.Get("cursor")),
	}

	var err error
	if req.Limit, err = optionalIntParam(q.Get("limit"), "limit"); err != nil {
		return spots.ListRequest{}, err
	}
	if req.MaxAgeMinutes, err = optionalIntParam(q.Get("maxAgeMinutes"), "maxAgeMinutes"); err != nil {
		return spots.ListRequest{}, err
	}
	return req, nil
}

func optionalIntParam(raw, field string) (*int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil, &models.ValidationError{Field: field, Message: "must be an integer"}
	}
	return &n, nil
}

func spotIDParam(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return uuid.Nil, &models.ValidationError{Field: "id", Message: "spot id must be a UUID"}
	}
	return id, nil
}
