// Spotwire - Real-Time Activation Spot Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/spotwire

package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "test-secret-with-at-least-32-characters!!"

func newTestJWTManager(t *testing.T) *JWTManager {
	t.Helper()
	m, err := NewJWTManager(testSecret, time.Hour)
	if err != nil {
		t.Fatalf("NewJWTManager: %v", err)
	}
	return m
}

func TestNewJWTManager(t *testing.T) {
	if _, err := NewJWTManager("", time.Hour); err == nil {
		t.Error("expected error for empty secret")
	}

	m, err := NewJWTManager(testSecret, 0)
	if err != nil {
		t.Fatalf("NewJWTManager: %v", err)
	}
	if m.ttl != DefaultTokenTTL {
		t.Errorf("ttl = %v, want %v", m.ttl, DefaultTokenTTL)
	}
}

func TestGenerateAndValidateToken(t *testing.T) {
	m := newTestJWTManager(t)

	token, err := m.GenerateToken("participant-42", "K1ABC", RoleParticipant)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	claims, err := m.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if claims.Subject != "participant-42" {
		t.Errorf("sub = %q, want participant-42", claims.Subject)
	}
	if claims.Callsign != "K1ABC" || claims.Role != RoleParticipant {
		t.Errorf("claims = %+v", claims)
	}
}

func TestGenerateToken_Rejects(t *testing.T) {
	m := newTestJWTManager(t)

	if _, err := m.GenerateToken("", "K1ABC", RoleParticipant); err == nil {
		t.Error("expected error for empty subject")
	}
	if _, err := m.GenerateToken("p1", "K1ABC", "superuser"); err == nil {
		t.Error("expected error for unknown role")
	}
}

func TestValidateToken_Failures(t *testing.T) {
	m := newTestJWTManager(t)
	other, err := NewJWTManager("a-completely-different-secret-value!!", time.Hour)
	if err != nil {
		t.Fatalf("NewJWTManager: %v", err)
	}

	foreign, err := other.GenerateToken("p1", "K1ABC", RoleParticipant)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	expiredMgr := newTestJWTManager(t)
	expiredMgr.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expired, err := expiredMgr.GenerateToken("p1", "K1ABC", RoleParticipant)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	noneToken, err := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{
		Role:             RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{Subject: "p1", ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign none: %v", err)
	}

	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, &Claims{
		Role:             RoleParticipant,
		RegisteredClaims: jwt.RegisteredClaims{Subject: "p1", ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	}).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign hs512: %v", err)
	}

	noSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		Role:             RoleParticipant,
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	}).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign no subject: %v", err)
	}

	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		Role:             RoleParticipant,
		RegisteredClaims: jwt.RegisteredClaims{Subject: "p1"},
	}).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign no expiry: %v", err)
	}

	badRole, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		Role:             "root",
		RegisteredClaims: jwt.RegisteredClaims{Subject: "p1", ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	}).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign bad role: %v", err)
	}

	tests := []struct {
		name  string
		token string
	}{
		{"malformed", "not.a.jwt"},
		{"empty", ""},
		{"wrong secret", foreign},
		{"expired", expired},
		{"alg none", noneToken},
		{"alg HS512", hs512},
		{"missing subject", noSubject},
		{"missing expiry", noExpiry},
		{"unknown role", badRole},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := m.ValidateToken(tt.token); err == nil {
				t.Errorf("ValidateToken(%s) succeeded, want error", tt.name)
			}
		})
	}
}

func TestValidateToken_Tampered(t *testing.T) {
	m := newTestJWTManager(t)
	token, err := m.GenerateToken("p1", "K1ABC", RoleParticipant)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	parts := strings.Split(token, ".")
	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{Role: RoleAdmin}).SigningString()
	if err != nil {
		t.Fatalf("SigningString: %v", err)
	}
	tampered := strings.Split(forged, ".")[0] + "." + strings.Split(forged, ".")[1] + "." + parts[2]

	if _, err := m.ValidateToken(tampered); err == nil {
		t.Error("tampered token validated")
	}
}
