// Spotwire - Real-Time Activation Spot Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/spotwire

package models

import (
	"time"
)

// APIResponse is the envelope used by every HTTP endpoint.
//
// Status is "success" or "error". On success Data holds the payload; on
// error Error holds a stable machine-readable code.
//
// Example list response:
//
//	{
//	  "status": "success",
//	  "data": {
//	    "spots": [{"id": "...", "callsign": "K1ABC", "source": "pota", ...}],
//	    "pagination": {"hasMore": true, "nextCursor": "2024-01-01T11:58:00Z"}
//	  },
//	  "metadata": {"timestamp": "2024-01-01T12:00:00Z"}
//	}
//
// Example error response:
//
//	{
//	  "status": "error",
//	  "data": null,
//	  "error": {"code": "SELF_SPOT_EXISTS", "message": "..."},
//	  "metadata": {"timestamp": "2024-01-01T12:00:00Z"}
//	}
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata carries response bookkeeping.
type Metadata struct {
	Timestamp   time.Time `json:"timestamp"`
	QueryTimeMS int64     `json:"query_time_ms,omitempty"`
	RequestID   string    `json:"request_id,omitempty"`
}

// APIError is the error block of an APIResponse.
//
// Codes:
//   - VALIDATION_ERROR: malformed parameters or body
//   - AUTHENTICATION_ERROR: missing or invalid credentials
//   - AUTHORIZATION_ERROR: authenticated but not allowed
//   - SELF_SPOT_EXISTS: an unexpired self-spot already exists for the program
//   - PROGRAM_NOT_FOUND: unknown or inactive program
//   - CAPABILITY_NOT_SUPPORTED: program does not allow the requested action
//   - SPOT_NOT_FOUND: spot missing, expired or not owned by the caller
//   - DATABASE_ERROR: storage failure
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}
