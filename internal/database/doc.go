// Spotwire - Real-Time Activation Spot Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/spotwire

// Package database is the spot store: persistence for spots and the program
// catalog over database/sql.
//
// # Drivers
//
// Two dialects share one set of queries ($n placeholders, ON CONFLICT,
// RETURNING):
//   - DuckDB (github.com/duckdb/duckdb-go/v2), the embedded default, also
//     used in-memory by the unit tests
//   - PostgreSQL (github.com/jackc/pgx/v5/stdlib), selected when DATABASE_URL is set
//
// # Files
//
//   - database.go: lifecycle, pool configuration and the injectable clock
//   - dialect.go: per-driver DDL types
//   - migrations.go: versioned schema, tracked in schema_migrations
//   - crud_spots.go: upsert, self-spot insert, get, delete, sweep and list
//   - crud_programs.go: catalog seed, read and admin patch
//   - filter.go: WHERE clause builder for list queries
//
// # Concurrency Rules
//
// The store holds no Go-side lock around spot state. Two constraints carry
// every guarantee:
//   - UNIQUE (source, external_id): re-ingesting an upstream spot updates
//     frequency, mode, reference, reference name and comments in place
//   - UNIQUE (self_spot_key): at most one self-spot row per owner and program;
//     expired holders are deleted before the conditional insert
//
// Every read path filters on expires_at > now, so an expired spot is
// invisible before the sweeper physically removes it.
//
// # Time
//
// All timestamps are stored in UTC and bound as parameters. DB.SetClock
// replaces the clock for tests.
package database
