// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package history persists metrics snapshots for trend display.
//
// Snapshots are appended once per poll, rate-limited to one row per
// minute so a fast poll loop does not flood the store. The monitor
// reads back the trailing hour to render a burn-rate sparkline, and
// the history command lists recent rows.
package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/jeranaias/tokenwatch/internal/engine"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	ErrClosed        = errors.New("history store closed")
	ErrDatabaseError = errors.New("database error")
)

// =============================================================================
// SNAPSHOT
// =============================================================================

// Snapshot is one persisted metrics observation.
type Snapshot struct {
	ID            string    `json:"id"`
	TakenAt       time.Time `json:"taken_at"`
	TokenBurnRate float64   `json:"token_burn_rate"`
	CostBurnRate  float64   `json:"cost_burn_rate"`
	DailyCost     float64   `json:"daily_cost"`
	TokensUsed    int       `json:"tokens_used"`
	TokenCeiling  int       `json:"token_ceiling"`
}

// FromMetrics builds a snapshot from an evaluation result.
func FromMetrics(m engine.Metrics, takenAt time.Time) Snapshot {
	return Snapshot{
		ID:            uuid.New().String(),
		TakenAt:       takenAt,
		TokenBurnRate: m.TokenBurnRate,
		CostBurnRate:  m.CostBurnRate,
		DailyCost:     m.DailyCost,
		TokensUsed:    m.TokensUsed,
		TokenCeiling:  m.TokenCeiling,
	}
}

// =============================================================================
// STORE
// =============================================================================

const schema = `
CREATE TABLE IF NOT EXISTS snapshots (
	id              TEXT PRIMARY KEY,
	taken_at        INTEGER NOT NULL,
	token_burn_rate REAL NOT NULL,
	cost_burn_rate  REAL NOT NULL,
	daily_cost      REAL NOT NULL,
	tokens_used     INTEGER NOT NULL,
	token_ceiling   INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_snapshots_taken_at ON snapshots(taken_at);
`

// Store is a sqlite-backed snapshot log.
type Store struct {
	db      *sql.DB
	limiter *rate.Limiter
}

// Open opens (creating if needed) the snapshot database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create history directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	// SQLite only supports one writer at a time.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: create schema: %v", ErrDatabaseError, err)
	}

	return &Store{
		db: db,
		// One snapshot per minute, with a burst of one so the first
		// poll after startup records immediately.
		limiter: rate.NewLimiter(rate.Every(time.Minute), 1),
	}, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	if s.db == nil {
		return ErrClosed
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// Append records a snapshot. Appends beyond the one-per-minute rate
// are dropped silently and reported as recorded=false.
func (s *Store) Append(ctx context.Context, snap Snapshot) (bool, error) {
	if s.db == nil {
		return false, ErrClosed
	}
	if !s.limiter.Allow() {
		return false, nil
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO snapshots (id, taken_at, token_burn_rate, cost_burn_rate, daily_cost, tokens_used, token_ceiling)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		snap.ID, snap.TakenAt.UTC().Unix(), snap.TokenBurnRate, snap.CostBurnRate,
		snap.DailyCost, snap.TokensUsed, snap.TokenCeiling,
	)
	if err != nil {
		return false, fmt.Errorf("%w: insert snapshot: %v", ErrDatabaseError, err)
	}
	return true, nil
}

// Recent returns up to limit snapshots, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Snapshot, error) {
	if s.db == nil {
		return nil, ErrClosed
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, taken_at, token_burn_rate, cost_burn_rate, daily_cost, tokens_used, token_ceiling
		FROM snapshots ORDER BY taken_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: query snapshots: %v", ErrDatabaseError, err)
	}
	defer rows.Close()
	return scanSnapshots(rows)
}

// Since returns snapshots taken at or after cutoff, oldest first.
func (s *Store) Since(ctx context.Context, cutoff time.Time) ([]Snapshot, error) {
	if s.db == nil {
		return nil, ErrClosed
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, taken_at, token_burn_rate, cost_burn_rate, daily_cost, tokens_used, token_ceiling
		FROM snapshots WHERE taken_at >= ? ORDER BY taken_at ASC`, cutoff.UTC().Unix())
	if err != nil {
		return nil, fmt.Errorf("%w: query snapshots: %v", ErrDatabaseError, err)
	}
	defer rows.Close()
	return scanSnapshots(rows)
}

// Prune deletes snapshots older than the retention window and returns
// the number of rows removed.
func (s *Store) Prune(ctx context.Context, retention time.Duration, now time.Time) (int64, error) {
	if s.db == nil {
		return 0, ErrClosed
	}
	cutoff := now.Add(-retention).UTC().Unix()
	res, err := s.db.ExecContext(ctx, `DELETE FROM snapshots WHERE taken_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("%w: prune snapshots: %v", ErrDatabaseError, err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

func scanSnapshots(rows *sql.Rows) ([]Snapshot, error) {
	var out []Snapshot
	for rows.Next() {
		var snap Snapshot
		var unix int64
		if err := rows.Scan(&snap.ID, &unix, &snap.TokenBurnRate, &snap.CostBurnRate,
			&snap.DailyCost, &snap.TokensUsed, &snap.TokenCeiling); err != nil {
			return nil, fmt.Errorf("%w: scan snapshot: %v", ErrDatabaseError, err)
		}
		snap.TakenAt = time.Unix(unix, 0).UTC()
		out = append(out, snap)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate snapshots: %v", ErrDatabaseError, err)
	}
	return out, nil
}
