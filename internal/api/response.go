// Spotwire - Real-Time Activation Spot Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/spotwire

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/spotwire/internal/logging"
	"github.com/tomtom215/spotwire/internal/models"
	"github.com/tomtom215/spotwire/internal/validation"
)

// Error codes beyond the domain codes documented on models.APIError.
const (
	ErrCodeNotFound         = "NOT_FOUND"
	ErrCodeMethodNotAllowed = "METHOD_NOT_ALLOWED"
	ErrCodeRateLimited      = "RATE_LIMITED"
	ErrCodeServiceDown      = "SERVICE_UNAVAILABLE"
)

func respondJSON(w http.ResponseWriter, r *http.Request, status int, response *models.APIResponse) {
	response.Metadata.Timestamp = time.Now().UTC()
	response.Metadata.RequestID = logging.RequestIDFromContext(r.Context())

	data, err := json.Marshal(response)
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("Failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logging.Ctx(r.Context()).Debug().Err(err).Msg("Failed to write JSON response")
	}
}

func respondSuccess(w http.ResponseWriter, r *http.Request, status int, data interface{}) {
	respondJSON(w, r, status, &models.APIResponse{Status: "success", Data: data})
}

func respondError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	respondAPIError(w, r, status, &models.APIError{Code: code, Message: message})
}

func respondAPIError(w http.ResponseWriter, r *http.Request, status int, apiErr *models.APIError) {
	respondJSON(w, r, status, &models.APIResponse{Status: "error", Error: apiErr})
}

// respondServiceError maps a domain error to its status and code. Anything
// unrecognised is a storage failure: it is logged and its text withheld.
func respondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		reqInvalid  *validation.RequestValidationError
		invalid     *models.ValidationError
		noProgram   *models.ProgramNotFoundError
		unsupported *models.CapabilityNotSupportedError
		noSpot      *models.SpotNotFoundError
	)

	switch {
	case errors.As(err, &reqInvalid):
		v := reqInvalid.ToAPIError()
		respondAPIError(w, r, http.StatusBadRequest, &models.APIError{Code: v.Code, Message: v.Message, Details: v.Details})
	case errors.As(err, &invalid):
		apiErr := &models.APIError{Code: "VALIDATION_ERROR", Message: invalid.Error()}
		if invalid.Field != "" {
			apiErr.Details = map[string]interface{}{"field": invalid.Field}
		}
		respondAPIError(w, r, http.StatusBadRequest, apiErr)
	case errors.Is(err, models.ErrDuplicateSelfSpot):
		respondError(w, r, http.StatusConflict, "SELF_SPOT_EXISTS", err.Error())
	case errors.As(err, &noProgram):
		respondError(w, r, http.StatusNotFound, "PROGRAM_NOT_FOUND", err.Error())
	case errors.As(err, &unsupported):
		respondError(w, r, http.StatusUnprocessableEntity, "CAPABILITY_NOT_SUPPORTED", err.Error())
	case errors.As(err, &noSpot):
		respondError(w, r, http.StatusNotFound, "SPOT_NOT_FOUND", err.Error())
	default:
		logging.Ctx(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("Request failed")
		respondError(w, r, http.StatusInternalServerError, "DATABASE_ERROR", "Internal storage error")
	}
}

// decodeJSONBody decodes a bounded request body into dst. Unknown fields
// are ignored.
func decodeJSONBody(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return &models.ValidationError{Field: "body", Message: "invalid JSON body: " + err.Error()}
	}
	return nil
}

const maxBodyBytes = 64 << 10
