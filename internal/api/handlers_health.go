// Spotwire - Real-Time Activation Spot Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/spotwire

package api

import (
	"context"
	"net/http"
	"time"
)

// readyTimeout bounds the database ping of a readiness probe.
const readyTimeout = 2 * time.Second

// HealthStatus is the payload of the health endpoints.
type HealthStatus struct {
	Status            string  `json:"status"`
	DatabaseConnected bool    `json:"database_connected"`
	Uptime            float64 `json:"uptime"`
}

// HealthLive handles GET /api/v1/health/live. It never touches storage.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, r, http.StatusOK, HealthStatus{
		Status: "alive",
		Uptime: time.Since(h.startTime).Seconds(),
	})
}

// HealthReady handles GET /api/v1/health/ready: 200 when the database
// answers a ping, 503 otherwise.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
	defer cancel()

	if h.db == nil || h.db.Ping(ctx) != nil {
		respondError(w, r, http.StatusServiceUnavailable, ErrCodeServiceDown, "Database unavailable")
		return
	}
	respondSuccess(w, r, http.StatusOK, HealthStatus{
		Status:            "ready",
		DatabaseConnected: true,
		Uptime:            time.Since(h.startTime).Seconds(),
	})
}
