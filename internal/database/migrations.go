// Spotwire - Real-Time Activation Spot Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/spotwire

package database

import (
	"context"
	"fmt"
	"time"

	"github.com/tomtom215/spotwire/internal/logging"
)

// Migration represents a versioned schema change.
//
// Migrations are append-only: never modify or remove one once it has
// shipped, add a new version instead.
type Migration struct {
	Version     int
	Name        string
	Description string
	Statements  []string
	AppliedAt   time.Time
}

const schemaMigrationsTable = `
CREATE TABLE IF NOT EXISTS schema_migrations (
	version INTEGER PRIMARY KEY,
	name TEXT NOT NULL,
	description TEXT,
	applied_at %s NOT NULL DEFAULT CURRENT_TIMESTAMP
)`

// getMigrations returns all versioned migrations in order.
func (db *DB) getMigrations() []Migration {
	d := db.dialect
	return []Migration{
		{
			Version:     1,
			Name:        "create_programs",
			Description: "Program catalog with capability list",
			Statements: []string{fmt.Sprintf(`
CREATE TABLE IF NOT EXISTS programs (
	slug TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	short_name TEXT NOT NULL,
	icon TEXT NOT NULL DEFAULT '',
	website TEXT,
	reference_label TEXT NOT NULL DEFAULT '',
	capabilities TEXT NOT NULL DEFAULT '[]',
	sort_order INTEGER NOT NULL DEFAULT 0,
	is_active BOOLEAN NOT NULL DEFAULT true,
	created_at %[1]s NOT NULL,
	updated_at %[1]s NOT NULL
)`, d.timestamp)},
		},
		{
			Version:     2,
			Name:        "create_spots",
			Description: "Spots with upstream and self-spot uniqueness",
			Statements: []string{
				fmt.Sprintf(`
CREATE TABLE IF NOT EXISTS spots (
	id TEXT PRIMARY KEY,
	callsign TEXT NOT NULL,
	program_slug TEXT,
	source TEXT NOT NULL,
	external_id TEXT,
	frequency_khz %[2]s NOT NULL,
	mode TEXT NOT NULL,
	reference TEXT,
	reference_name TEXT,
	spotter TEXT,
	spotter_grid TEXT,
	location_desc TEXT,
	country_code TEXT,
	state_abbr TEXT,
	comments TEXT,
	snr SMALLINT,
	wpm SMALLINT,
	submitted_by TEXT,
	self_spot_key TEXT,
	spotted_at %[1]s NOT NULL,
	expires_at %[1]s NOT NULL,
	created_at %[1]s NOT NULL,
	updated_at %[1]s NOT NULL,
	UNIQUE (source, external_id),
	UNIQUE (self_spot_key),
	CHECK (expires_at > spotted_at)
)`, d.timestamp, d.double),
				`CREATE INDEX IF NOT EXISTS idx_spots_spotted_at ON spots (spotted_at)`,
				`CREATE INDEX IF NOT EXISTS idx_spots_expires_at ON spots (expires_at)`,
			},
		},
	}
}

// createMigrationsTable creates the schema_migrations table if it doesn't exist.
func (db *DB) createMigrationsTable(ctx context.Context) error {
	_, err := db.conn.ExecContext(ctx, fmt.Sprintf(schemaMigrationsTable, db.dialect.timestamp))
	return err
}

// getAppliedMigrations returns a map of version -> Migration for all applied migrations.
func (db *DB) getAppliedMigrations(ctx context.Context) (map[int]Migration, error) {
	rows, err := db.conn.QueryContext(ctx, `SELECT version, name, description, applied_at FROM schema_migrations ORDER BY version`)
	if err != nil {
		return nil, fmt.Errorf("failed to query applied migrations: %w", err)
	}
	defer rows.Close()

	applied := make(map[int]Migration)
	for rows.Next() {
		var m Migration
		if err := rows.Scan(&m.Version, &m.Name, &m.Description, &m.AppliedAt); err != nil {
			return nil, fmt.Errorf("failed to scan migration row: %w", err)
		}
		applied[m.Version] = m
	}
	return applied, rows.Err()
}

// runVersionedMigrations executes only migrations that haven't been applied yet.
func (db *DB) runVersionedMigrations(ctx context.Context) error {
	if err := db.createMigrationsTable(ctx); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	applied, err := db.getAppliedMigrations(ctx)
	if err != nil {
		return fmt.Errorf("failed to get applied migrations: %w", err)
	}

	newMigrations := 0
	for _, m := range db.getMigrations() {
		if _, exists := applied[m.Version]; exists {
			continue
		}

		for _, stmt := range m.Statements {
			if _, err := db.conn.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("failed to execute migration v%d (%s): %w", m.Version, m.Name, err)
			}
		}

		_, err := db.conn.ExecContext(ctx,
			`INSERT INTO schema_migrations (version, name, description) VALUES ($1, $2, $3)`,
			m.Version, m.Name, m.Description)
		if err != nil {
			return fmt.Errorf("failed to record migration v%d: %w", m.Version, err)
		}

		newMigrations++
	}

	if newMigrations > 0 {
		logging.Info().Int("count", newMigrations).Msg("Applied database migrations")
	}
	return nil
}

// GetCurrentSchemaVersion returns the highest applied migration version.
func (db *DB) GetCurrentSchemaVersion(ctx context.Context) (int, error) {
	var version int
	err := db.conn.QueryRowContext(ctx, `SELECT COALESCE(MAX(version), 0) FROM schema_migrations`).Scan(&version)
	if err != nil {
		return 0, fmt.Errorf("failed to get schema version: %w", err)
	}
	return version, nil
}
