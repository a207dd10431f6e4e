// Spotwire - Real-Time Activation Spot Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/spotwire

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/spotwire/internal/metrics"
	"github.com/tomtom215/spotwire/internal/models"
)

const programColumns = `slug, name, short_name, icon, website, reference_label,
	capabilities, sort_order, is_active, created_at, updated_at`

func scanProgram(row rowScanner) (*models.Program, error) {
	var (
		p        models.Program
		website  sql.NullString
		capsJSON string
	)
	err := row.Scan(&p.Slug, &p.Name, &p.ShortName, &p.Icon, &website, &p.ReferenceLabel,
		&capsJSON, &p.SortOrder, &p.IsActive, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	p.Website = stringPtr(website)
	p.CreatedAt = p.CreatedAt.UTC()
	p.UpdatedAt = p.UpdatedAt.UTC()
	if err := json.Unmarshal([]byte(capsJSON), &p.Capabilities); err != nil {
		return nil, fmt.Errorf("invalid capabilities for program %s: %w", p.Slug, err)
	}
	if p.Capabilities == nil {
		p.Capabilities = []string{}
	}
	return &p, nil
}

func encodeCapabilities(caps []string) (string, error) {
	if caps == nil {
		caps = []string{}
	}
	b, err := json.Marshal(caps)
	if err != nil {
		return "", fmt.Errorf("failed to encode capabilities: %w", err)
	}
	return string(b), nil
}

// SeedPrograms inserts catalog entries that are not yet stored. Existing
// rows are left untouched so admin edits survive restarts. It returns the
// number of programs inserted.
func (db *DB) SeedPrograms(ctx context.Context, programs []models.Program) (int, error) {
	inserted := 0
	for i := range programs {
		p := &programs[i]
		caps, err := encodeCapabilities(p.Capabilities)
		if err != nil {
			return inserted, err
		}
		now := db.now()
		res, err := db.conn.ExecContext(ctx, `
INSERT INTO programs (`+programColumns+`)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
ON CONFLICT (slug) DO NOTHING`,
			p.Slug, p.Name, p.ShortName, p.Icon, nullable(p.Website), p.ReferenceLabel,
			caps, p.SortOrder, p.IsActive, now, now)
		if err != nil {
			return inserted, fmt.Errorf("failed to seed program %s: %w", p.Slug, err)
		}
		if n, err := res.RowsAffected(); err == nil && n > 0 {
			inserted++
		}
	}
	return inserted, nil
}

// GetProgram returns a program by slug whether or not it is active, or
// (nil, nil) when no such program exists.
func (db *DB) GetProgram(ctx context.Context, slug string) (*models.Program, error) {
	start := time.Now()
	row := db.conn.QueryRowContext(ctx, `SELECT `+programColumns+` FROM programs WHERE slug = $1`, slug)
	p, err := scanProgram(row)
	if errors.Is(err, sql.ErrNoRows) {
		metrics.RecordDBQuery("get", "programs", time.Since(start), nil)
		return nil, nil
	}
	metrics.RecordDBQuery("get", "programs", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to get program %s: %w", slug, err)
	}
	return p, nil
}

// ListPrograms returns active programs in display order together with the
// catalog version: the newest updated_at as epoch seconds, 0 when empty.
func (db *DB) ListPrograms(ctx context.Context) ([]models.Program, int64, error) {
	start := time.Now()
	rows, err := db.conn.QueryContext(ctx,
		`SELECT `+programColumns+` FROM programs WHERE is_active = true ORDER BY sort_order, slug`)
	if err != nil {
		metrics.RecordDBQuery("list", "programs", time.Since(start), err)
		return nil, 0, fmt.Errorf("failed to list programs: %w", err)
	}
	defer rows.Close()

	var (
		programs []models.Program
		version  int64
	)
	for rows.Next() {
		p, err := scanProgram(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan program: %w", err)
		}
		if v := p.UpdatedAt.Unix(); v > version {
			version = v
		}
		programs = append(programs, *p)
	}
	err = rows.Err()
	metrics.RecordDBQuery("list", "programs", time.Since(start), err)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to iterate programs: %w", err)
	}
	return programs, version, nil
}

// PatchProgram applies an admin partial update and returns the result.
// A missing slug yields *models.ProgramNotFoundError.
func (db *DB) PatchProgram(ctx context.Context, slug string, patch *models.ProgramPatch) (*models.Program, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}

	current, err := db.GetProgram(ctx, slug)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, &models.ProgramNotFoundError{Slug: slug}
	}

	updated := patch.Apply(*current)
	caps, err := encodeCapabilities(updated.Capabilities)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	row := db.conn.QueryRowContext(ctx, `
UPDATE programs SET
	name = $2, short_name = $3, icon = $4, website = $5, reference_label = $6,
	capabilities = $7, sort_order = $8, is_active = $9, updated_at = $10
WHERE slug = $1
RETURNING `+programColumns,
		slug, updated.Name, updated.ShortName, updated.Icon, nullable(updated.Website),
		updated.ReferenceLabel, caps, updated.SortOrder, updated.IsActive, db.now())

	p, err := scanProgram(row)
	if errors.Is(err, sql.ErrNoRows) {
		metrics.RecordDBQuery("patch", "programs", time.Since(start), nil)
		return nil, &models.ProgramNotFoundError{Slug: slug}
	}
	metrics.RecordDBQuery("patch", "programs", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to patch program %s: %w", slug, err)
	}
	return p, nil
}
