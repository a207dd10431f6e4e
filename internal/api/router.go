// Spotwire - Real-Time Activation Spot Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/spotwire

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/spotwire/internal/auth"
)

// RouterOptions selects optional route groups.
type RouterOptions struct {
	// SpotsEnabled mounts the spot routes. When false they answer 404 like
	// any unknown path; the program catalog stays available.
	SpotsEnabled bool
}

// Router wires handlers, auth and the Chi middleware stack.
type Router struct {
	handler       *Handler
	auth          *auth.Middleware
	chiMiddleware *ChiMiddleware
	opts          RouterOptions
}

// NewRouter creates a router.
func NewRouter(handler *Handler, authMiddleware *auth.Middleware, chiMiddleware *ChiMiddleware, opts RouterOptions) *Router {
	if chiMiddleware == nil {
		chiMiddleware = NewChiMiddleware(nil)
	}
	return &Router{
		handler:       handler,
		auth:          authMiddleware,
		chiMiddleware: chiMiddleware,
		opts:          opts,
	}
}

// Setup builds the HTTP handler.
func (router *Router) Setup() http.Handler {
	r := chi.NewRouter()

	r.Use(RequestIDWithLogging())
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.chiMiddleware.CORS())
	r.Use(PrometheusMetrics)
	r.Use(AccessLog)

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		respondError(w, req, http.StatusNotFound, ErrCodeNotFound, "Not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		respondError(w, req, http.StatusMethodNotAllowed, ErrCodeMethodNotAllowed, "Method not allowed")
	})

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1/health", func(r chi.Router) {
		r.Get("/live", router.handler.HealthLive)
		r.Get("/ready", router.handler.HealthReady)
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit("/api/v1"))

		r.Get("/programs", router.handler.ListPrograms)
		r.Get("/programs/{slug}", router.handler.GetProgram)

		if router.opts.SpotsEnabled {
			r.Get("/spots", router.handler.ListSpots)
			r.Get("/spots/{id}", router.handler.GetSpot)

			r.Group(func(r chi.Router) {
				r.Use(router.auth.RequireParticipant)
				r.Post("/spots", router.handler.CreateSelfSpot)
				r.Delete("/spots/{id}", router.handler.DeleteOwnSpot)
			})
		}

		r.Route("/admin", func(r chi.Router) {
			r.Use(router.auth.RequireAdmin)
			r.Patch("/programs/{slug}", router.handler.PatchProgram)
			if router.opts.SpotsEnabled {
				r.Delete("/spots/{id}", router.handler.AdminDeleteSpot)
			}
		})
	})

	return r
}
