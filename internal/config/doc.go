// Spotwire - Real-Time Activation Spot Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/spotwire

/*
Package config provides centralized configuration management for Spotwire.

Configuration is loaded with Koanf v2 from four layers, later layers winning:

 1. Built-in defaults (defaultConfig)
 2. Optional YAML file: CONFIG_PATH, ./config.yaml, /etc/spotwire/config.yaml
 3. Optional .env file (DOTENV_PATH or ./.env), never overriding the real environment
 4. Environment variables, through an explicit name map

Unknown environment variables are ignored.

# Environment Variables

Deployment:
  - DATABASE_URL: PostgreSQL connection string; selects the postgres driver when set
  - ADMIN_TOKEN: Static bearer token for admin routes (required, min 16 chars)
  - PORT / HTTP_PORT: Listen port (default: 8080)
  - SPOTS_ENABLED: Master switch for ingestion, sweeping and spot routes (default: true)

Upstream feeds (each disabled by default):
  - POTA_AGGREGATOR_ENABLED, POTA_URL, POTA_INTERVAL (default: 60s)
  - RBN_AGGREGATOR_ENABLED, RBN_URL, RBN_INTERVAL (default: 30s)
  - SOTA_AGGREGATOR_ENABLED, SOTA_URL, SOTA_INTERVAL (default: 90s)
  - UPSTREAM_TIMEOUT (default: 30s), UPSTREAM_USER_AGENT, UPSTREAM_RATE_LIMIT (req/s, default: 1)

Spot lifecycle:
  - SWEEP_INTERVAL: Expired-spot sweep period (default: 120s)
  - SELF_SPOT_TTL: Self-spot liveness window (default: 30m)

Database:
  - DB_DRIVER: duckdb or postgres (default: derived from DATABASE_URL)
  - DUCKDB_PATH (default: /data/spotwire.duckdb), DUCKDB_MAX_MEMORY (default: 512MB)

Security:
  - JWT_SECRET: HS256 signing secret (min 32 chars, required when SPOTS_ENABLED=true)
  - CORS_ORIGINS: Comma-separated origins (default: *)
  - RATE_LIMIT_REQUESTS, RATE_LIMIT_WINDOW, DISABLE_RATE_LIMIT

Logging:
  - LOG_LEVEL: trace, debug, info, warn, error (default: info)
  - LOG_FORMAT: json or console (default: json)
  - LOG_CALLER: Include file:line (default: false)

# Program Catalog

The programs list can only be set from the YAML file. When it is empty the
DefaultPrograms catalog is used. Entries are validated with struct tags.

# Thread Safety

Config is immutable after Load() returns and safe for concurrent reads.
*/
package config
