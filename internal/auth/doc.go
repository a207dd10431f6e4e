// Spotwire - Real-Time Activation Spot Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/spotwire

// Package auth authenticates participants and administrators.
//
// Participants present an HS256 JWT whose "sub" claim is their participant
// id and whose "callsign" claim is the operator callsign used for
// self-spots. Administrators present either a token with role "admin" or
// the static ADMIN_TOKEN; the static token is compared in constant time.
//
// Both middlewares answer failures with the standard JSON envelope:
// AUTHENTICATION_ERROR (401) for missing or invalid credentials and
// AUTHORIZATION_ERROR (403) for a valid participant on an admin route.
package auth
