package store

import (
	"context"
	"encoding/json"
	"fmt"

	"kabuscore/pkg/core/score"
)

// HistoryRepo stores the analysis log in Postgres.
//
// Schema assumption (managed outside this package):
//
//	CREATE TABLE IF NOT EXISTS analysis_history (
//	  id UUID PRIMARY KEY,
//	  code TEXT NOT NULL,
//	  company_name TEXT NOT NULL,
//	  score INT NOT NULL,
//	  breakdown JSONB NOT NULL,
//	  analyzed_at TIMESTAMPTZ NOT NULL
//	);
type HistoryRepo struct{}

// NewHistoryRepo creates a repository instance backed by the shared
// pool.
func NewHistoryRepo() *HistoryRepo {
	return &HistoryRepo{}
}

// Append inserts the entry, then evicts everything older than the
// MaxEntries most recent rows so the table behaves like the bounded
// file log.
func (r *HistoryRepo) Append(ctx context.Context, entry HistoryEntry) error {
	pool := GetPool()
	if pool == nil {
		return fmt.Errorf("database pool not initialized")
	}

	breakdownJSON, err := json.Marshal(entry.Breakdown)
	if err != nil {
		return fmt.Errorf("failed to marshal breakdown: %w", err)
	}

	insert := `
		INSERT INTO analysis_history (id, code, company_name, score, breakdown, analyzed_at)
		VALUES ($1, $2, $3, $4, $5, $6);
	`
	if _, err := pool.Exec(ctx, insert, entry.ID, entry.Code, entry.CompanyName, entry.Score, breakdownJSON, entry.AnalyzedAt); err != nil {
		return fmt.Errorf("failed to append history: %w", err)
	}

	trim := `
		DELETE FROM analysis_history
		WHERE id NOT IN (
			SELECT id FROM analysis_history ORDER BY analyzed_at DESC LIMIT $1
		);
	`
	if _, err := pool.Exec(ctx, trim, MaxEntries); err != nil {
		return fmt.Errorf("failed to trim history: %w", err)
	}
	return nil
}

// Recent returns up to n entries, newest first.
func (r *HistoryRepo) Recent(ctx context.Context, n int) ([]HistoryEntry, error) {
	pool := GetPool()
	if pool == nil {
		return nil, fmt.Errorf("database pool not initialized")
	}
	if n <= 0 || n > MaxEntries {
		n = MaxEntries
	}

	query := `
		SELECT id, code, company_name, score, breakdown, analyzed_at
		FROM analysis_history
		ORDER BY analyzed_at DESC
		LIMIT $1;
	`
	rows, err := pool.Query(ctx, query, n)
	if err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}
	defer rows.Close()

	var entries []HistoryEntry
	for rows.Next() {
		var e HistoryEntry
		var breakdownJSON []byte
		if err := rows.Scan(&e.ID, &e.Code, &e.CompanyName, &e.Score, &breakdownJSON, &e.AnalyzedAt); err != nil {
			return nil, fmt.Errorf("failed to scan history row: %w", err)
		}
		e.Breakdown = make(score.Breakdown)
		if err := json.Unmarshal(breakdownJSON, &e.Breakdown); err != nil {
			return nil, fmt.Errorf("failed to unmarshal breakdown: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
