// Spotwire - Real-Time Activation Spot Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/spotwire

package database

import (
	"fmt"

	"github.com/tomtom215/spotwire/internal/config"
)

// dialect captures the few places where DuckDB and PostgreSQL disagree.
// Both accept $n placeholders, ON CONFLICT ... RETURNING and CHECK
// constraints, so query text is shared and only DDL types differ.
type dialect struct {
	name       string
	driverName string
	timestamp  string
	double     string
}

var (
	duckdbDialect = dialect{
		name:       config.DriverDuckDB,
		driverName: "duckdb",
		timestamp:  "TIMESTAMP",
		double:     "DOUBLE",
	}
	postgresDialect = dialect{
		name:       config.DriverPostgres,
		driverName: "pgx",
		timestamp:  "TIMESTAMPTZ",
		double:     "DOUBLE PRECISION",
	}
)

func dialectFor(driver string) (dialect, error) {
	switch driver {
	case config.DriverDuckDB, "":
		return duckdbDialect, nil
	case config.DriverPostgres:
		return postgresDialect, nil
	default:
		return dialect{}, fmt.Errorf("unsupported database driver %q", driver)
	}
}
