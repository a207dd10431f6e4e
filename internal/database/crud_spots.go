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

	"github.com/google/uuid"

	"github.com/tomtom215/spotwire/internal/metrics"
	"github.com/tomtom215/spotwire/internal/models"
)

const spotColumns = `id, callsign, program_slug, source, external_id,
	frequency_khz, mode, reference, reference_name,
	spotter, spotter_grid, location_desc, country_code, state_abbr,
	comments, snr, wpm, submitted_by,
	spotted_at, expires_at, created_at, updated_at`

const upsertSpotSQL = `
INSERT INTO spots (
	id, callsign, program_slug, source, external_id,
	frequency_khz, mode, reference, reference_name,
	spotter, spotter_grid, location_desc, country_code, state_abbr,
	comments, snr, wpm,
	spotted_at, expires_at, created_at, updated_at
)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)
ON CONFLICT (source, external_id) DO UPDATE SET
	frequency_khz = EXCLUDED.frequency_khz,
	mode = EXCLUDED.mode,
	reference = EXCLUDED.reference,
	reference_name = EXCLUDED.reference_name,
	comments = EXCLUDED.comments,
	updated_at = EXCLUDED.updated_at
RETURNING ` + spotColumns

const insertSelfSpotSQL = `
INSERT INTO spots (
	id, callsign, program_slug, source,
	frequency_khz, mode, reference, comments,
	submitted_by, self_spot_key,
	spotted_at, expires_at, created_at, updated_at
)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
ON CONFLICT (self_spot_key) DO NOTHING
RETURNING ` + spotColumns

// selfSpotAttempts bounds InsertSelfSpot: the key holder may expire between
// the delete and the insert, so one retry is allowed.
const selfSpotAttempts = 2

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanSpot reads one row selected with spotColumns.
func scanSpot(row rowScanner) (*models.Spot, error) {
	var (
		s                                      models.Spot
		id, source                             string
		programSlug, externalID                sql.NullString
		reference, referenceName               sql.NullString
		spotter, spotterGrid                   sql.NullString
		locationDesc, countryCode, stateAbbr   sql.NullString
		comments, submittedBy                  sql.NullString
		snr, wpm                               sql.NullInt16
		spottedAt, expiresAt, createdAt, updAt time.Time
	)

	err := row.Scan(
		&id, &s.Callsign, &programSlug, &source, &externalID,
		&s.FrequencyKHz, &s.Mode, &reference, &referenceName,
		&spotter, &spotterGrid, &locationDesc, &countryCode, &stateAbbr,
		&comments, &snr, &wpm, &submittedBy,
		&spottedAt, &expiresAt, &createdAt, &updAt,
	)
	if err != nil {
		return nil, err
	}

	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid spot id %q: %w", id, err)
	}
	s.ID = parsed
	s.Source = models.SpotSource(source)
	s.ProgramSlug = stringPtr(programSlug)
	s.ExternalID = stringPtr(externalID)
	s.Reference = stringPtr(reference)
	s.ReferenceName = stringPtr(referenceName)
	s.Spotter = stringPtr(spotter)
	s.SpotterGrid = stringPtr(spotterGrid)
	s.LocationDesc = stringPtr(locationDesc)
	s.CountryCode = stringPtr(countryCode)
	s.StateAbbr = stringPtr(stateAbbr)
	s.Comments = stringPtr(comments)
	s.SubmittedBy = stringPtr(submittedBy)
	s.SNR = int16Ptr(snr)
	s.WPM = int16Ptr(wpm)
	s.SpottedAt = spottedAt.UTC()
	s.ExpiresAt = expiresAt.UTC()
	s.CreatedAt = createdAt.UTC()
	s.UpdatedAt = updAt.UTC()

	return &s, nil
}

func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	v := ns.String
	return &v
}

func int16Ptr(ni sql.NullInt16) *int16 {
	if !ni.Valid {
		return nil
	}
	v := ni.Int16
	return &v
}

// nullable converts an optional field to a driver value, nil when absent.
func nullable[T any](p *T) interface{} {
	if p == nil {
		return nil
	}
	return *p
}

// selfSpotKey is the value of the unique self_spot_key column.
func selfSpotKey(owner, programSlug string) string {
	return owner + "|" + programSlug
}

// UpsertSpot inserts an upstream spot or, when (source, external_id)
// already exists, refreshes its mutable fields. Identity, spotted_at and
// expires_at of an existing row are never changed.
func (db *DB) UpsertSpot(ctx context.Context, spot *models.Spot) (*models.Spot, error) {
	if spot.ExternalID == nil || *spot.ExternalID == "" {
		return nil, ErrMissingExternalID
	}

	start := time.Now()
	now := db.now()
	row := db.conn.QueryRowContext(ctx, upsertSpotSQL,
		uuid.New().String(), spot.Callsign, nullable(spot.ProgramSlug), string(spot.Source), *spot.ExternalID,
		spot.FrequencyKHz, spot.Mode, nullable(spot.Reference), nullable(spot.ReferenceName),
		nullable(spot.Spotter), nullable(spot.SpotterGrid), nullable(spot.LocationDesc),
		nullable(spot.CountryCode), nullable(spot.StateAbbr),
		nullable(spot.Comments), nullable(spot.SNR), nullable(spot.WPM),
		spot.SpottedAt.UTC(), spot.ExpiresAt.UTC(), now, now,
	)

	stored, err := scanSpot(row)
	metrics.RecordDBQuery("upsert", "spots", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert spot %s/%s: %w", spot.Source, *spot.ExternalID, err)
	}
	return stored, nil
}

// InsertSelfSpot creates a self-spot, returning models.ErrDuplicateSelfSpot
// when the owner already holds an unexpired one for the program.
//
// Uniqueness is enforced by the UNIQUE self_spot_key column: an expired
// holder is deleted first, then the insert is conditional on the key being
// free. Concurrent submissions race on the constraint, never on Go state.
func (db *DB) InsertSelfSpot(ctx context.Context, req models.NewSelfSpot) (*models.Spot, error) {
	ttl := req.TTL
	if ttl <= 0 {
		ttl = models.DefaultSelfSpotTTL
	}
	key := selfSpotKey(req.Owner, req.ProgramSlug)

	start := time.Now()
	var lastErr error
	for attempt := 0; attempt < selfSpotAttempts; attempt++ {
		now := db.now()

		if _, err := db.conn.ExecContext(ctx,
			`DELETE FROM spots WHERE self_spot_key = $1 AND expires_at <= $2`, key, now); err != nil {
			if isTransactionConflict(err) {
				lastErr = models.ErrDuplicateSelfSpot
				continue
			}
			metrics.RecordDBQuery("insert_self", "spots", time.Since(start), err)
			return nil, fmt.Errorf("failed to clear expired self-spot: %w", err)
		}

		row := db.conn.QueryRowContext(ctx, insertSelfSpotSQL,
			uuid.New().String(), req.Callsign, req.ProgramSlug, string(models.SourceSelf),
			req.FrequencyKHz, req.Mode, nullable(req.Reference), nullable(req.Comments),
			req.Owner, key,
			now, now.Add(ttl), now, now,
		)
		spot, err := scanSpot(row)
		switch {
		case err == nil:
			metrics.RecordDBQuery("insert_self", "spots", time.Since(start), nil)
			return spot, nil
		case errors.Is(err, sql.ErrNoRows), isUniqueViolation(err), isTransactionConflict(err):
			lastErr = models.ErrDuplicateSelfSpot
		default:
			metrics.RecordDBQuery("insert_self", "spots", time.Since(start), err)
			return nil, fmt.Errorf("failed to insert self-spot: %w", err)
		}
	}

	metrics.RecordDBQuery("insert_self", "spots", time.Since(start), nil)
	return nil, lastErr
}

// GetSpot returns an active spot by ID, or (nil, nil) when the spot is
// missing or expired.
func (db *DB) GetSpot(ctx context.Context, id uuid.UUID) (*models.Spot, error) {
	start := time.Now()
	row := db.conn.QueryRowContext(ctx,
		`SELECT `+spotColumns+` FROM spots WHERE id = $1 AND expires_at > $2`,
		id.String(), db.now())

	spot, err := scanSpot(row)
	if errors.Is(err, sql.ErrNoRows) {
		metrics.RecordDBQuery("get", "spots", time.Since(start), nil)
		return nil, nil
	}
	metrics.RecordDBQuery("get", "spots", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to get spot %s: %w", id, err)
	}
	return spot, nil
}

// DeleteOwnSpot removes a spot submitted by owner, expired or not. It
// reports whether a row was removed; a spot owned by someone else is left
// alone.
func (db *DB) DeleteOwnSpot(ctx context.Context, id uuid.UUID, owner string) (bool, error) {
	return db.deleteSpot(ctx, "delete_own",
		`DELETE FROM spots WHERE id = $1 AND submitted_by = $2`,
		id.String(), owner)
}

// AdminDeleteSpot removes any spot by ID.
func (db *DB) AdminDeleteSpot(ctx context.Context, id uuid.UUID) (bool, error) {
	return db.deleteSpot(ctx, "delete_admin", `DELETE FROM spots WHERE id = $1`, id.String())
}

func (db *DB) deleteSpot(ctx context.Context, op, query string, args ...interface{}) (bool, error) {
	start := time.Now()
	res, err := db.conn.ExecContext(ctx, query, args...)
	metrics.RecordDBQuery(op, "spots", time.Since(start), err)
	if err != nil {
		return false, fmt.Errorf("failed to delete spot: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return n > 0, nil
}

// DeleteExpiredSpots removes every spot whose expiry has passed and
// returns how many were removed. Safe to call repeatedly.
func (db *DB) DeleteExpiredSpots(ctx context.Context) (int64, error) {
	start := time.Now()
	res, err := db.conn.ExecContext(ctx, `DELETE FROM spots WHERE expires_at <= $1`, db.now())
	metrics.RecordDBQuery("sweep", "spots", time.Since(start), err)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired spots: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return n, nil
}

// ListSpots returns active spots matching q, newest first, at most q.Limit rows.
func (db *DB) ListSpots(ctx context.Context, q SpotQuery) ([]models.Spot, error) {
	start := time.Now()
	w := buildSpotConditions(q, db.now())
	limit := w.placeholder(q.Limit)
	query := `SELECT ` + spotColumns + ` FROM spots WHERE ` + w.String() +
		` ORDER BY spotted_at DESC LIMIT ` + limit

	rows, err := db.conn.QueryContext(ctx, query, w.args...)
	if err != nil {
		metrics.RecordDBQuery("list", "spots", time.Since(start), err)
		return nil, fmt.Errorf("failed to list spots: %w", err)
	}
	defer rows.Close()

	spots := make([]models.Spot, 0, q.Limit)
	for rows.Next() {
		s, err := scanSpot(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan spot: %w", err)
		}
		spots = append(spots, *s)
	}
	err = rows.Err()
	metrics.RecordDBQuery("list", "spots", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to iterate spots: %w", err)
	}
	return spots, nil
}
