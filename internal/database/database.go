// Spotwire - Real-Time Activation Spot Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/spotwire

package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	_ "github.com/duckdb/duckdb-go/v2"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/tomtom215/spotwire/internal/config"
	"github.com/tomtom215/spotwire/internal/logging"
)

// DB is the spot store. It wraps one *sql.DB pool shared by every poller,
// the sweeper and the HTTP handlers.
//
// All atomicity lives in SQL constraints; DB holds no lock around spot state.
type DB struct {
	conn    *sql.DB
	cfg     *config.DatabaseConfig
	dialect dialect

	clockMu sync.RWMutex
	clock   func() time.Time
}

// New opens the configured database and brings the schema up to date.
func New(cfg *config.DatabaseConfig) (*DB, error) {
	d, err := dialectFor(cfg.Driver)
	if err != nil {
		return nil, err
	}

	dsn, err := connectionString(cfg, d)
	if err != nil {
		return nil, err
	}

	conn, err := sql.Open(d.driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db := &DB{
		conn:    conn,
		cfg:     cfg,
		dialect: d,
		clock:   time.Now,
	}

	db.configureConnectionPool()

	if err := db.initialize(); err != nil {
		closeQuietly(conn)
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	logging.Info().
		Str("driver", d.name).
		Msg("Database initialized")

	return db, nil
}

// connectionString builds the DSN for the selected driver.
func connectionString(cfg *config.DatabaseConfig, d dialect) (string, error) {
	if d.name == config.DriverPostgres {
		if cfg.URL == "" {
			return "", fmt.Errorf("DATABASE_URL is required for the postgres driver")
		}
		return cfg.URL, nil
	}

	// Ensure parent directory exists for database file.
	// Use 0750 permissions (owner: rwx, group: rx, other: none) per gosec G301
	if cfg.Path != ":memory:" {
		dbDir := filepath.Dir(cfg.Path)
		if dbDir != "" && dbDir != "." {
			if err := os.MkdirAll(dbDir, 0o750); err != nil {
				return "", fmt.Errorf("failed to create database directory %s: %w", dbDir, err)
			}
		}
	}

	threads := cfg.Threads
	if threads <= 0 {
		threads = runtime.NumCPU()
	}
	return fmt.Sprintf("%s?access_mode=read_write&threads=%d&max_memory=%s",
		cfg.Path, threads, cfg.MaxMemory), nil
}

// configureConnectionPool sets connection pool parameters.
func (db *DB) configureConnectionPool() {
	maxOpen := db.cfg.MaxOpenConns
	if maxOpen <= 0 {
		maxOpen = runtime.NumCPU()
	}
	db.conn.SetMaxOpenConns(maxOpen)
	db.conn.SetMaxIdleConns(2)
	db.conn.SetConnMaxLifetime(time.Hour)
	db.conn.SetConnMaxIdleTime(5 * time.Minute)
}

// initialize creates the schema and applies pending migrations.
func (db *DB) initialize() error {
	ctx, cancel := schemaContext()
	defer cancel()

	if err := db.conn.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}
	return db.runVersionedMigrations(ctx)
}

// schemaContext bounds schema work at startup.
func schemaContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 60*time.Second)
}

// SetClock replaces the clock used for every TTL decision. Tests use it to
// move time forward without sleeping.
func (db *DB) SetClock(clock func() time.Time) {
	db.clockMu.Lock()
	defer db.clockMu.Unlock()
	if clock == nil {
		clock = time.Now
	}
	db.clock = clock
}

// now returns the store's current time in UTC.
func (db *DB) now() time.Time {
	db.clockMu.RLock()
	defer db.clockMu.RUnlock()
	return db.clock().UTC()
}

// Driver returns the active dialect name ("duckdb" or "postgres").
func (db *DB) Driver() string {
	return db.dialect.name
}

// Ping checks connectivity. Used by the readiness probe.
func (db *DB) Ping(ctx context.Context) error {
	if db.conn == nil {
		return fmt.Errorf("database connection is nil")
	}
	return db.conn.PingContext(ctx)
}

// Close checkpoints DuckDB and closes the pool.
func (db *DB) Close() error {
	if db.conn == nil {
		return nil
	}
	if db.dialect.name == config.DriverDuckDB && db.cfg.Path != ":memory:" {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		if _, err := db.conn.ExecContext(ctx, "CHECKPOINT"); err != nil {
			logging.Warn().Err(err).Msg("Failed to checkpoint database before close")
		}
		cancel()
	}
	return db.conn.Close()
}
