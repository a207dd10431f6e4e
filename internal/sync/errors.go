// Spotwire - Real-Time Activation Spot Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/spotwire

package sync

import (
	"fmt"

	"github.com/tomtom215/spotwire/internal/models"
)

// FetchErrorKind classifies an upstream fetch failure for logs and metrics.
type FetchErrorKind string

const (
	// FetchNetwork covers transport failures and timeouts.
	FetchNetwork FetchErrorKind = "network"
	// FetchStatus is a non-2xx HTTP response.
	FetchStatus FetchErrorKind = "status"
	// FetchDecode is a response whose envelope is not the expected JSON shape.
	FetchDecode FetchErrorKind = "decode"
	// FetchCircuitOpen means the breaker rejected the call without touching the network.
	FetchCircuitOpen FetchErrorKind = "circuit_open"
)

// FetchError is an upstream fetch failure. It is terminal for one poll
// cycle only.
type FetchError struct {
	Source     models.SpotSource
	Kind       FetchErrorKind
	StatusCode int
	Body       string
	Err        error
}

func (e *FetchError) Error() string {
	switch {
	case e.Kind == FetchStatus:
		return fmt.Sprintf("%s feed returned HTTP %d: %s", e.Source, e.StatusCode, e.Body)
	case e.Err != nil:
		return fmt.Sprintf("%s feed %s error: %v", e.Source, e.Kind, e.Err)
	default:
		return fmt.Sprintf("%s feed %s error", e.Source, e.Kind)
	}
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// ParseError reports one upstream record that could not be normalized.
// The rest of the batch is unaffected.
type ParseError struct {
	Source     models.SpotSource
	ExternalID string
	Field      string
	Err        error
}

func (e *ParseError) Error() string {
	id := e.ExternalID
	if id == "" {
		id = "?"
	}
	if e.Field == "" {
		return fmt.Sprintf("%s record %s: %v", e.Source, id, e.Err)
	}
	return fmt.Sprintf("%s record %s: field %s: %v", e.Source, id, e.Field, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
