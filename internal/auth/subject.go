// Spotwire - Real-Time Activation Spot Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/spotwire

package auth

import (
	"context"
	"errors"
)

// Roles carried in the "role" claim.
const (
	RoleParticipant = "participant"
	RoleAdmin       = "admin"
)

// Authentication methods recorded on a Subject and in metrics.
const (
	MethodJWT        = "jwt"
	MethodAdminToken = "admin_token"
)

// Standard authentication errors
var (
	// ErrNoCredentials indicates no credentials were provided.
	ErrNoCredentials = errors.New("no credentials provided")

	// ErrInvalidCredentials indicates credentials were invalid.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

func validRole(role string) bool {
	return role == RoleParticipant || role == RoleAdmin
}

// Subject is the authenticated caller of a request.
type Subject struct {
	// ID is the participant id; self-spots are owned by it.
	ID string
	// Callsign is the operator callsign from the token. Empty for the
	// admin token.
	Callsign string
	Role     string
	Method   string
}

// IsAdmin reports whether the subject may use admin routes.
func (s *Subject) IsAdmin() bool {
	return s != nil && s.Role == RoleAdmin
}

type contextKey string

const subjectContextKey contextKey = "auth-subject"

// ContextWithSubject returns ctx carrying the subject.
func ContextWithSubject(ctx context.Context, s *Subject) context.Context {
	return context.WithValue(ctx, subjectContextKey, s)
}

// SubjectFromContext returns the subject set by the middleware, or nil.
func SubjectFromContext(ctx context.Context) *Subject {
	s, _ := ctx.Value(subjectContextKey).(*Subject)
	return s
}
