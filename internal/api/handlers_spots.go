// Spotwire - Real-Time Activation Spot Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/spotwire

package api

import (
	"net/http"

	"github.com/tomtom215/spotwire/internal/auth"
	"github.com/tomtom215/spotwire/internal/models"
)

// ListSpots handles GET /api/v1/spots.
//
// Query: program, callsign, source, mode, state, maxAgeMinutes (1-1440,
// default 30), limit (1-250, default 100), cursor (nextCursor of the
// previous page). Spots are newest first.
func (h *Handler) ListSpots(w http.ResponseWriter, r *http.Request) {
	req, err := parseListRequest(r)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	page, err := h.service.ListSpots(r.Context(), req)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondSuccess(w, r, http.StatusOK, models.SpotsListResponse{
		Spots: toSpotResponses(page.Spots),
		Pagination: models.SpotsPagination{
			HasMore:    page.HasMore,
			NextCursor: page.NextCursor,
		},
	})
}

// GetSpot handles GET /api/v1/spots/{id}. Expired spots are not found.
func (h *Handler) GetSpot(w http.ResponseWriter, r *http.Request) {
	id, err := spotIDParam(r)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	spot, err := h.service.GetSpot(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondSuccess(w, r, http.StatusOK, spot.ToResponse())
}

// CreateSelfSpot handles POST /api/v1/spots. The callsign and owner come
// from the participant token.
func (h *Handler) CreateSelfSpot(w http.ResponseWriter, r *http.Request) {
	subject := auth.SubjectFromContext(r.Context())
	if subject == nil {
		respondError(w, r, http.StatusUnauthorized, "AUTHENTICATION_ERROR", "Authentication required")
		return
	}

	var req models.SelfSpotRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		respondServiceError(w, r, err)
		return
	}

	spot, err := h.service.InsertSelfSpot(r.Context(), subject.ID, subject.Callsign, req)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondSuccess(w, r, http.StatusCreated, spot.ToResponse())
}

// DeleteOwnSpot handles DELETE /api/v1/spots/{id}. A spot owned by someone
// else is reported as not found.
func (h *Handler) DeleteOwnSpot(w http.ResponseWriter, r *http.Request) {
	subject := auth.SubjectFromContext(r.Context())
	if subject == nil {
		respondError(w, r, http.StatusUnauthorized, "AUTHENTICATION_ERROR", "Authentication required")
		return
	}

	id, err := spotIDParam(r)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	deleted, err := h.service.DeleteOwnSpot(r.Context(), id, subject.ID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	if !deleted {
		respondServiceError(w, r, &models.SpotNotFoundError{SpotID: id})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AdminDeleteSpot handles DELETE /api/v1/admin/spots/{id}.
func (h *Handler) AdminDeleteSpot(w http.ResponseWriter, r *http.Request) {
	id, err := spotIDParam(r)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	deleted, err := h.service.AdminDeleteSpot(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	if !deleted {
		respondServiceError(w, r, &models.SpotNotFoundError{SpotID: id})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
