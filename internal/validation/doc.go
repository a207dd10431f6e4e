// Spotwire - Real-Time Activation Spot Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/spotwire

// Package validation provides struct validation using go-playground/validator v10.
//
// This package wraps the go-playground/validator library to provide a thread-safe
// singleton validator instance with domain validators and user-friendly error
// messages that drop straight into the VALIDATION_ERROR API response.
//
// # Overview
//
//   - Thread-safe singleton validator (initialized once, cached struct info)
//   - Field names reported by their json tag, or koanf tag for config structs
//   - Custom tags: slug (program slugs) and callsign (amateur callsigns)
//   - ValidateVar for single query parameters
//
// # Quick Start
//
//	type SelfSpotRequest struct {
//	    ProgramSlug  string  `json:"programSlug" validate:"required,slug"`
//	    FrequencyKHz float64 `json:"frequencyKhz" validate:"required,gt=0"`
//	}
//
//	if err := validation.ValidateStruct(&req); err != nil {
//	    apiErr := err.ToAPIError()
//	    respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
//	    return
//	}
//
// # Thread Safety
//
// GetValidator, ValidateStruct and ValidateVar are safe for concurrent use.
package validation
