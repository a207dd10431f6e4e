// Spotwire - Real-Time Activation Spot Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/spotwire

/*
Package api is Spotwire's HTTP surface, a thin chi router over the spots
service.

# Routes

	GET    /api/v1/health/live
	GET    /api/v1/health/ready          pings the database
	GET    /metrics                      Prometheus exposition
	GET    /api/v1/programs
	GET    /api/v1/programs/{slug}
	GET    /api/v1/spots                 filters, maxAgeMinutes, limit, cursor
	GET    /api/v1/spots/{id}
	POST   /api/v1/spots                 participant token
	DELETE /api/v1/spots/{id}            participant token, own spots only
	DELETE /api/v1/admin/spots/{id}      admin
	PATCH  /api/v1/admin/programs/{slug} admin

Spot routes are mounted only when SPOTS_ENABLED is true.

# Middleware

Applied to every route in order: request ID (into the logging context and
X-Request-ID), chi RealIP, chi Recoverer, go-chi/cors, Prometheus request
metrics, and a debug access log. Data routes add go-chi/httprate per-IP
limits.

# Responses

Every body is a models.APIResponse envelope. Errors carry a stable code:

	VALIDATION_ERROR          400
	AUTHENTICATION_ERROR      401
	AUTHORIZATION_ERROR       403
	PROGRAM_NOT_FOUND         404
	SPOT_NOT_FOUND            404
	SELF_SPOT_EXISTS          409
	CAPABILITY_NOT_SUPPORTED  422
	RATE_LIMITED              429
	DATABASE_ERROR            500
	SERVICE_UNAVAILABLE       503

Successful deletes answer 204 with no body.
*/
package api
