// Spotwire - Real-Time Activation Spot Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/spotwire

/*
Package main is the entry point for the Spotwire server.

Spotwire polls the POTA, RBN and SOTA spot feeds, normalizes them into one
spot shape, keeps them until they expire and serves them over a JSON API
alongside self-spots posted by participants.

# Application Architecture

	RootSupervisor ("spotwire")
	├── IngestSupervisor ("ingest-layer")
	│   ├── pota-poller, rbn-poller, sota-poller (enabled feeds only)
	│   └── spot-sweeper
	└── APISupervisor ("api-layer")
	    └── http-server

Startup order:

 1. Configuration: koanf v2 (defaults, config file, .env, environment)
 2. Logging: zerolog, JSON or console
 3. Database: DuckDB, or PostgreSQL when DATABASE_URL is set
 4. Program catalog seed (existing rows are left alone)
 5. Authentication: JWT for participants, static token or admin JWT for admins
 6. Supervisor tree and HTTP server

With SPOTS_ENABLED=false nothing is polled and the spot routes are not
mounted; the program catalog and health endpoints stay up.

# Configuration

	# Server
	HTTP_PORT=8080
	LOG_LEVEL=info
	LOG_FORMAT=json

	# Spots
	SPOTS_ENABLED=true
	POTA_AGGREGATOR_ENABLED=true
	RBN_AGGREGATOR_ENABLED=false
	SOTA_AGGREGATOR_ENABLED=true
	SWEEP_INTERVAL=1m
	SELF_SPOT_TTL=30m

	# Security
	JWT_SECRET=<32+ chars>
	ADMIN_TOKEN=<16+ chars>
	CORS_ORIGINS=https://spots.example.org

	# Storage
	DUCKDB_PATH=/data/spotwire.duckdb
	DATABASE_URL=postgres://...

# Signals

SIGINT and SIGTERM cancel the root context. The HTTP server drains within
SHUTDOWN_TIMEOUT and pollers stop at their next select.
*/
package main
