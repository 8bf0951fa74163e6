package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore persists tallies in a single table, one row per file. Unlike
// GOBStore it writes through immediately, so Persist is a no-op.
type PostgresStore struct {
	pool *pgxpool.Pool
}

const createTallyTable = `
CREATE TABLE IF NOT EXISTS run_tallies (
	path        TEXT PRIMARY KEY,
	processed   INTEGER NOT NULL DEFAULT 0,
	valid       INTEGER NOT NULL DEFAULT 0,
	rejected    INTEGER NOT NULL DEFAULT 0,
	errors      INTEGER NOT NULL DEFAULT 0,
	skipped     INTEGER NOT NULL DEFAULT 0,
	tokens      INTEGER NOT NULL DEFAULT 0,
	reasons     JSONB NOT NULL DEFAULT '{}',
	characters  JSONB NOT NULL DEFAULT '{}',
	updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// NewPostgresStore connects to the database and ensures the tally table
// exists.
func NewPostgresStore(ctx context.Context, dsn string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}
	if _, err := pool.Exec(ctx, createTallyTable); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to create tally table: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) SaveFileTally(ctx context.Context, tally FileTally) error {
	reasons, err := json.Marshal(tally.Reasons)
	if err != nil {
		return fmt.Errorf("failed to encode reasons: %w", err)
	}
	characters, err := json.Marshal(tally.Characters)
	if err != nil {
		return fmt.Errorf("failed to encode characters: %w", err)
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO run_tallies (path, processed, valid, rejected, errors, skipped, tokens, reasons, characters, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (path) DO UPDATE SET
			processed = EXCLUDED.processed,
			valid = EXCLUDED.valid,
			rejected = EXCLUDED.rejected,
			errors = EXCLUDED.errors,
			skipped = EXCLUDED.skipped,
			tokens = EXCLUDED.tokens,
			reasons = EXCLUDED.reasons,
			characters = EXCLUDED.characters,
			updated_at = EXCLUDED.updated_at`,
		tally.Path, tally.Processed, tally.Valid, tally.Rejected,
		tally.Errors, tally.Skipped, tally.Tokens, reasons, characters, tally.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to save tally for %s: %w", tally.Path, err)
	}
	return nil
}

func (s *PostgresStore) DeleteByFile(ctx context.Context, path string) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM run_tallies WHERE path = $1`, path); err != nil {
		return fmt.Errorf("failed to delete tally for %s: %w", path, err)
	}
	return nil
}

func (s *PostgresStore) GetFileTally(ctx context.Context, path string) (*FileTally, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT path, processed, valid, rejected, errors, skipped, tokens, reasons, characters, updated_at
		FROM run_tallies WHERE path = $1`, path)

	tally, err := scanTally(row)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read tally for %s: %w", path, err)
	}
	return tally, nil
}

func (s *PostgresStore) ListFiles(ctx context.Context) ([]string, error) {
	rows, err := s.pool.Query(ctx, `SELECT path FROM run_tallies ORDER BY path`)
	if err != nil {
		return nil, fmt.Errorf("failed to list tallies: %w", err)
	}
	defer rows.Close()

	var paths []string
	for rows.Next() {
		var path string
		if err := rows.Scan(&path); err != nil {
			return nil, fmt.Errorf("failed to scan tally path: %w", err)
		}
		paths = append(paths, path)
	}
	return paths, rows.Err()
}

func (s *PostgresStore) Totals(ctx context.Context) (*Totals, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT path, processed, valid, rejected, errors, skipped, tokens, reasons, characters, updated_at
		FROM run_tallies`)
	if err != nil {
		return nil, fmt.Errorf("failed to query tallies: %w", err)
	}
	defer rows.Close()

	var totals Totals
	for rows.Next() {
		tally, err := scanTally(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan tally: %w", err)
		}
		totals.Add(*tally)
	}
	return &totals, rows.Err()
}

func scanTally(row pgx.Row) (*FileTally, error) {
	var tally FileTally
	var reasons, characters []byte
	if err := row.Scan(&tally.Path, &tally.Processed, &tally.Valid, &tally.Rejected,
		&tally.Errors, &tally.Skipped, &tally.Tokens, &reasons, &characters, &tally.UpdatedAt); err != nil {
		return nil, err
	}
	if len(reasons) > 0 {
		if err := json.Unmarshal(reasons, &tally.Reasons); err != nil {
			return nil, fmt.Errorf("failed to decode reasons: %w", err)
		}
	}
	if len(characters) > 0 {
		if err := json.Unmarshal(characters, &tally.Characters); err != nil {
			return nil, fmt.Errorf("failed to decode characters: %w", err)
		}
	}
	return &tally, nil
}

// Load is a no-op: rows are read on demand.
func (s *PostgresStore) Load(ctx context.Context) error { return nil }

// Persist is a no-op: every write goes straight to the database.
func (s *PostgresStore) Persist(ctx context.Context) error { return nil }

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
