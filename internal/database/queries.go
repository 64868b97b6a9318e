package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/zapponejosh/lunisolar-api/internal/almanac"
	"github.com/zapponejosh/lunisolar-api/internal/calendar"
)

// =============================================================================
// Helper Functions
// =============================================================================

// parseTimestamp parses a timestamp from SQLite TEXT format.
// Tries multiple formats and returns nil if parsing fails.
func parseTimestamp(ns sql.NullString) *time.Time {
	if !ns.Valid || ns.String == "" {
		return nil
	}

	for _, layout := range []string{
		time.RFC3339,
		"2006-01-02 15:04:05",
		"2006-01-02T15:04:05.999999",
	} {
		if t, err := time.Parse(layout, ns.String); err == nil {
			return &t
		}
	}
	return nil
}

// parseCivilTime reverses calendar.CivilTime.String. Years may be negative.
func parseCivilTime(s string) (calendar.CivilTime, error) {
	var c calendar.CivilTime
	_, err := fmt.Sscanf(s, "%d-%d-%d %d:%d:%d", &c.Year, &c.Month, &c.Day, &c.Hour, &c.Minute, &c.Second)
	if err != nil {
		return calendar.CivilTime{}, fmt.Errorf("parse civil time %q: %w", s, err)
	}
	return c, nil
}

// =============================================================================
// Almanac Cache
// =============================================================================

// LoadAlmanac returns the cached almanac payload for year written under
// version. A miss wraps both ErrNotFound and almanac.ErrNotCached.
func (db *DB) LoadAlmanac(ctx context.Context, year, version int) ([]byte, error) {
	var payload []byte
	err := db.QueryRowContext(ctx,
		`SELECT payload FROM almanac_years WHERE year = ? AND version = ?`,
		year, version,
	).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("almanac %d: %w: %w", year, ErrNotFound, almanac.ErrNotCached)
		}
		return nil, fmt.Errorf("query almanac %d: %w", year, err)
	}
	return payload, nil
}

// SaveAlmanac stores the almanac payload for year, replacing any entry
// written under the same version.
func (db *DB) SaveAlmanac(ctx context.Context, year, version int, payload []byte) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO almanac_years (year, version, payload, computed_at)
		VALUES (?, ?, ?, datetime('now'))
		ON CONFLICT (year, version) DO UPDATE SET
			payload = excluded.payload,
			computed_at = excluded.computed_at
	`, year, version, payload)
	if err != nil {
		return fmt.Errorf("save almanac %d: %w", year, err)
	}
	return nil
}

// PurgeAlmanac deletes cache rows written by any version other than keep
// and returns how many were removed.
func (db *DB) PurgeAlmanac(ctx context.Context, keep int) (int64, error) {
	result, err := db.ExecContext(ctx, `DELETE FROM almanac_years WHERE version != ?`, keep)
	if err != nil {
		return 0, fmt.Errorf("purge almanac cache: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("check rows affected: %w", err)
	}
	return n, nil
}

// AlmanacStats summarises the cache rows of version.
func (db *DB) AlmanacStats(ctx context.Context, version int) (*CacheStats, error) {
	var stats CacheStats
	var first, last sql.NullInt64

	err := db.QueryRowContext(ctx, `
		SELECT
			COUNT(*) FILTER (WHERE version = ?),
			MIN(year) FILTER (WHERE version = ?),
			MAX(year) FILTER (WHERE version = ?),
			COUNT(*) FILTER (WHERE version != ?)
		FROM almanac_years
	`, version, version, version, version).Scan(&stats.Years, &first, &last, &stats.Stale)
	if err != nil {
		return nil, fmt.Errorf("query almanac stats: %w", err)
	}

	if first.Valid {
		y := int(first.Int64)
		stats.FirstYear = &y
	}
	if last.Valid {
		y := int(last.Int64)
		stats.LastYear = &y
	}
	return &stats, nil
}

// =============================================================================
// Saved Charts
// =============================================================================

// CreateChart stores c, assigning a new UUID when c.ID is empty. ID and
// CreatedAt are filled in on success.
func (db *DB) CreateChart(ctx context.Context, c *SavedChart) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	} else if _, err := uuid.Parse(c.ID); err != nil {
		return fmt.Errorf("chart id %q: %w", c.ID, err)
	}

	chartJSON, err := json.Marshal(c.Chart)
	if err != nil {
		return fmt.Errorf("marshal chart: %w", err)
	}

	var createdAt sql.NullString
	err = db.QueryRowContext(ctx, `
		INSERT INTO charts (id, label, male, birth, bazi, chart_json)
		VALUES (?, ?, ?, ?, ?, ?)
		RETURNING created_at
	`, c.ID, c.Label, c.Male, c.Birth.String(), c.BaZi, string(chartJSON)).Scan(&createdAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("chart %s: %w", c.ID, ErrDuplicate)
		}
		return fmt.Errorf("insert chart: %w", err)
	}

	if t := parseTimestamp(createdAt); t != nil {
		c.CreatedAt = *t
	}
	return nil
}

// GetChart returns the chart stored under id, or ErrNotFound.
func (db *DB) GetChart(ctx context.Context, id string) (*SavedChart, error) {
	row := db.QueryRowContext(ctx, `
		SELECT id, label, male, birth, bazi, chart_json, created_at
		FROM charts
		WHERE id = ?
	`, id)

	c, err := scanChart(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("query chart %s: %w", id, err)
	}
	return c, nil
}

// ListCharts returns saved charts, newest first.
func (db *DB) ListCharts(ctx context.Context, limit, offset int) ([]SavedChart, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, label, male, birth, bazi, chart_json, created_at
		FROM charts
		ORDER BY created_at DESC, id
		LIMIT ? OFFSET ?
	`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("query charts: %w", err)
	}
	defer rows.Close()

	charts := []SavedChart{}
	for rows.Next() {
		c, err := scanChart(rows)
		if err != nil {
			return nil, fmt.Errorf("scan chart row: %w", err)
		}
		charts = append(charts, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate chart rows: %w", err)
	}
	return charts, nil
}

// DeleteChart removes the chart stored under id, or returns ErrNotFound.
func (db *DB) DeleteChart(ctx context.Context, id string) error {
	result, err := db.ExecContext(ctx, `DELETE FROM charts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete chart: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanChart(s scanner) (*SavedChart, error) {
	var c SavedChart
	var label, createdAt sql.NullString
	var birth, chartJSON string

	if err := s.Scan(&c.ID, &label, &c.Male, &birth, &c.BaZi, &chartJSON, &createdAt); err != nil {
		return nil, err
	}

	if label.Valid {
		c.Label = &label.String
	}
	var err error
	if c.Birth, err = parseCivilTime(birth); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(chartJSON), &c.Chart); err != nil {
		return nil, fmt.Errorf("unmarshal chart %s: %w", c.ID, err)
	}
	if t := parseTimestamp(createdAt); t != nil {
		c.CreatedAt = *t
	}
	return &c, nil
}
