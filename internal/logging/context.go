// Spotwire - Real-Time Activation Spot Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/spotwire

package logging

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type contextKey string

const (
	// requestIDKey carries the HTTP request ID.
	requestIDKey contextKey = "request_id"

	// cycleIDKey carries the ID of one poll or sweep cycle, so every record
	// logged while processing one upstream batch can be grouped.
	cycleIDKey contextKey = "cycle_id"
)

// GenerateRequestID creates a new unique request ID.
func GenerateRequestID() string {
	return uuid.New().String()
}

// GenerateCycleID creates a short ID for one ingest cycle.
// The first 8 characters of a UUID are enough to group one batch.
func GenerateCycleID() string {
	return uuid.New().String()[:8]
}

// ContextWithRequestID returns a new context with the given request ID.
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromContext retrieves the request ID from context.
// Returns empty string if not present.
func RequestIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey).(string); ok {
		return id
	}
	return ""
}

// ContextWithCycleID returns a new context with the given cycle ID.
func ContextWithCycleID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, cycleIDKey, id)
}

// CycleIDFromContext retrieves the cycle ID from context.
func CycleIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(cycleIDKey).(string); ok {
		return id
	}
	return ""
}

// Ctx returns the global logger with request_id and cycle_id attached when present.
//
//	logging.Ctx(ctx).Info().Msg("Self-spot created")
func Ctx(ctx context.Context) *zerolog.Logger {
	l := CtxWith(ctx).Logger()
	return &l
}

// CtxWith returns a logger context builder with context values pre-populated.
//
//	logger := logging.CtxWith(ctx).Str("source", "pota").Logger()
func CtxWith(ctx context.Context) zerolog.Context {
	logCtx := With()

	if requestID := RequestIDFromContext(ctx); requestID != "" {
		logCtx = logCtx.Str("request_id", requestID)
	}
	if cycleID := CycleIDFromContext(ctx); cycleID != "" {
		logCtx = logCtx.Str("cycle_id", cycleID)
	}

	return logCtx
}
