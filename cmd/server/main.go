// Spotwire - Real-Time Activation Spot Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/spotwire

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomtom215/spotwire/internal/api"
	"github.com/tomtom215/spotwire/internal/auth"
	"github.com/tomtom215/spotwire/internal/config"
	"github.com/tomtom215/spotwire/internal/database"
	"github.com/tomtom215/spotwire/internal/logging"
	"github.com/tomtom215/spotwire/internal/spots"
	"github.com/tomtom215/spotwire/internal/supervisor"
	"github.com/tomtom215/spotwire/internal/supervisor/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Bool("spots_enabled", cfg.Spots.Enabled).
		Strs("sources", cfg.EnabledSources()).
		Str("db_driver", cfg.Database.Driver).
		Msg("Starting Spotwire with supervisor tree")

	if cfg.HasWildcardCORS() {
		logging.Warn().Msg("CORS_ORIGINS contains \"*\": any origin may call the API")
	}

	db, err := database.New(&cfg.Database)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing database")
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	seeded, err := db.SeedPrograms(ctx, programsFromConfig(cfg.Programs))
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to seed program catalog")
	}
	logging.Info().Int("inserted", seeded).Int("configured", len(cfg.Programs)).Msg("Program catalog seeded")

	authMiddleware, err := newAuthMiddleware(&cfg.Security)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize authentication")
	}

	svc := spots.NewService(db, &cfg.Spots)
	router := api.NewRouter(
		api.NewHandler(svc, db),
		authMiddleware,
		api.NewChiMiddleware(chiMiddlewareConfig(&cfg.Security)),
		api.RouterOptions{SpotsEnabled: cfg.Spots.Enabled},
	)

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router.Setup(),
		ReadTimeout:       cfg.Server.Timeout,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       60 * time.Second,
	}

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger("supervisor"), supervisor.DefaultTreeConfig())
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	if cfg.Spots.Enabled {
		ingest, err := ingestServices(cfg, db)
		if err != nil {
			logging.Fatal().Err(err).Msg("Failed to build ingest services")
		}
		for _, runner := range ingest {
			tree.AddIngestService(runner)
			logging.Info().Str("service", runner.String()).Msg("Ingest service added to supervisor tree")
		}
	} else {
		logging.Info().Msg("Spots disabled: no pollers or sweeper, spot routes not mounted")
	}

	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	logging.Info().Msg("Starting supervisor tree...")
	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logging.Error().Err(err).Msg("Supervisor tree error")
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	if len(unstopped) > 0 {
		logging.Warn().Int("count", len(unstopped)).Msg("Services failed to stop within timeout")
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop")
		}
	}

	logging.Info().Msg("Application stopped gracefully")
}

// newAuthMiddleware builds the participant/admin guards. Without a JWT
// secret only the admin token is accepted.
func newAuthMiddleware(cfg *config.SecurityConfig) (*auth.Middleware, error) {
	var jwtManager *auth.JWTManager
	if cfg.JWTSecret != "" {
		jm, err := auth.NewJWTManager(cfg.JWTSecret, auth.DefaultTokenTTL)
		if err != nil {
			return nil, err
		}
		jwtManager = jm
		logging.Info().Msg("JWT authentication enabled")
	} else {
		logging.Warn().Msg("JWT_SECRET not set: participant routes will reject every request")
	}
	return auth.NewMiddleware(jwtManager, cfg.AdminToken), nil
}
