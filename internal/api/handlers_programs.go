// Spotwire - Real-Time Activation Spot Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/spotwire

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/spotwire/internal/models"
)

// ListPrograms handles GET /api/v1/programs: active programs in display
// order, plus a version that changes on any edit.
func (h *Handler) ListPrograms(w http.ResponseWriter, r *http.Request) {
	programs, version, err := h.service.ListPrograms(r.Context())
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	out := make([]models.ProgramResponse, len(programs))
	for i := range programs {
		out[i] = programs[i].ToResponse()
	}
	respondSuccess(w, r, http.StatusOK, models.ProgramListResponse{Programs: out, Version: version})
}

// GetProgram handles GET /api/v1/programs/{slug}.
func (h *Handler) GetProgram(w http.ResponseWriter, r *http.Request) {
	program, err := h.service.GetProgram(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondSuccess(w, r, http.StatusOK, program.ToResponse())
}

// PatchProgram handles PATCH /api/v1/admin/programs/{slug}. Absent fields
// are left alone and null clears a nullable field.
func (h *Handler) PatchProgram(w http.ResponseWriter, r *http.Request) {
	var patch models.ProgramPatch
	if err := decodeJSONBody(w, r, &patch); err != nil {
		respondServiceError(w, r, err)
		return
	}

	program, err := h.service.PatchProgram(r.Context(), chi.URLParam(r, "slug"), &patch)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondSuccess(w, r, http.StatusOK, program.ToResponse())
}
