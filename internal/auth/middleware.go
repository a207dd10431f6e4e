// Spotwire - Real-Time Activation Spot Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/spotwire

package auth

import (
	"crypto/subtle"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/spotwire/internal/logging"
	"github.com/tomtom215/spotwire/internal/metrics"
	"github.com/tomtom215/spotwire/internal/models"
)

// Middleware guards participant and admin routes.
type Middleware struct {
	jwtManager *JWTManager
	adminToken []byte
}

// NewMiddleware creates the auth middleware. jwtManager may be nil, in
// which case only the admin token is accepted. An empty adminToken disables
// token-based admin access.
func NewMiddleware(jwtManager *JWTManager, adminToken string) *Middleware {
	m := &Middleware{jwtManager: jwtManager}
	if adminToken != "" {
		m.adminToken = []byte(adminToken)
	}
	return m
}

// RequireParticipant accepts any valid token and puts its Subject into the
// request context.
func (m *Middleware) RequireParticipant(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, err := bearerToken(r)
		if err != nil {
			metrics.RecordAuthAttempt(MethodJWT, "failure")
			writeAuthError(w, r, http.StatusUnauthorized, "AUTHENTICATION_ERROR", "Authentication required")
			return
		}

		subject, err := m.subjectFromJWT(token)
		if err != nil {
			metrics.RecordAuthAttempt(MethodJWT, "failure")
			logging.Ctx(r.Context()).Debug().Err(err).Msg("Token validation failed")
			writeAuthError(w, r, http.StatusUnauthorized, "AUTHENTICATION_ERROR", "Invalid or expired token")
			return
		}

		metrics.RecordAuthAttempt(MethodJWT, "success")
		next.ServeHTTP(w, r.WithContext(ContextWithSubject(r.Context(), subject)))
	})
}

// RequireAdmin accepts the configured admin token or a token whose role is
// admin. A valid participant token gets 403.
func (m *Middleware) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, err := bearerToken(r)
		if err != nil {
			metrics.RecordAuthAttempt(MethodAdminToken, "failure")
			writeAuthError(w, r, http.StatusUnauthorized, "AUTHENTICATION_ERROR", "Authentication required")
			return
		}

		if m.matchesAdminToken(token) {
			metrics.RecordAuthAttempt(MethodAdminToken, "success")
			subject := &Subject{ID: "admin", Role: RoleAdmin, Method: MethodAdminToken}
			next.ServeHTTP(w, r.WithContext(ContextWithSubject(r.Context(), subject)))
			return
		}

		subject, err := m.subjectFromJWT(token)
		if err != nil {
			metrics.RecordAuthAttempt(MethodAdminToken, "failure")
			logging.Ctx(r.Context()).Warn().Str("remote_addr", r.RemoteAddr).Msg("Rejected admin credentials")
			writeAuthError(w, r, http.StatusUnauthorized, "AUTHENTICATION_ERROR", "Invalid credentials")
			return
		}
		if !subject.IsAdmin() {
			metrics.RecordAuthAttempt(MethodJWT, "forbidden")
			writeAuthError(w, r, http.StatusForbidden, "AUTHORIZATION_ERROR", "Admin access required")
			return
		}

		metrics.RecordAuthAttempt(MethodJWT, "success")
		next.ServeHTTP(w, r.WithContext(ContextWithSubject(r.Context(), subject)))
	})
}

func (m *Middleware) matchesAdminToken(token string) bool {
	if len(m.adminToken) == 0 {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(token), m.adminToken) == 1
}

func (m *Middleware) subjectFromJWT(token string) (*Subject, error) {
	if m.jwtManager == nil {
		return nil, ErrInvalidCredentials
	}
	claims, err := m.jwtManager.ValidateToken(token)
	if err != nil {
		return nil, err
	}
	return &Subject{
		ID:       claims.Subject,
		Callsign: strings.ToUpper(strings.TrimSpace(claims.Callsign)),
		Role:     claims.Role,
		Method:   MethodJWT,
	}, nil
}

// bearerToken extracts the token from "Authorization: Bearer <token>".
func bearerToken(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", ErrNoCredentials
	}
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", ErrInvalidCredentials
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", ErrInvalidCredentials
	}
	return token, nil
}

func writeAuthError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	if status == http.StatusUnauthorized {
		w.Header().Set("WWW-Authenticate", `Bearer realm="spotwire"`)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	resp := models.APIResponse{
		Status: "error",
		Metadata: models.Metadata{
			Timestamp: time.Now().UTC(),
			RequestID: logging.RequestIDFromContext(r.Context()),
		},
		Error: &models.APIError{Code: code, Message: message},
	}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("Failed to encode auth error")
	}
}
