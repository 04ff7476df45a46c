// Package sqlite implements the persistence repositories on SQLite via the
// pure-Go modernc.org/sqlite driver.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/example/study-scheduler/internal/persistence"
	_ "modernc.org/sqlite"
)

// Store wraps a SQLite handle and implements every repository interface in
// the persistence package.
type Store struct {
	db     *sql.DB
	mapper *errorMapper
}

// Open connects to the SQLite database identified by dsn.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open %q: %w", dsn, err)
	}
	return &Store{db: db, mapper: newErrorMapper()}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Ping verifies the database connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Migrate creates the schema when it does not yet exist. The CHECK
// constraints mirror the domain invariants: ISO weekday range, non-negative
// load multipliers, and ordered date ranges.
func (s *Store) Migrate(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("sqlite: migrate: %w", err)
		}
	}
	return nil
}

// WithTransaction runs fn inside a transaction, rolling back when fn fails.
func (s *Store) WithTransaction(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: begin transaction: %w", err)
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("sqlite: transaction failed (rollback error: %v): %w", rbErr, err)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: commit transaction: %w", err)
	}
	return nil
}

// requireAffected converts a zero-row update or delete into ErrNotFound.
func requireAffected(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: rows affected: %w", err)
	}
	if affected == 0 {
		return persistence.ErrNotFound
	}
	return nil
}

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS weekly_availability (
		id          TEXT PRIMARY KEY,
		user_id     TEXT NOT NULL,
		day_of_week INTEGER NOT NULL CHECK (day_of_week BETWEEN 1 AND 7),
		start_time  TEXT NOT NULL,
		end_time    TEXT NOT NULL CHECK (end_time > start_time),
		is_active   INTEGER NOT NULL DEFAULT 1,
		created_at  TEXT NOT NULL,
		updated_at  TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_weekly_availability_user
		ON weekly_availability (user_id, day_of_week)`,

	`CREATE TABLE IF NOT EXISTS schedule_overrides (
		id         TEXT PRIMARY KEY,
		user_id    TEXT NOT NULL,
		date       TEXT NOT NULL,
		start_time TEXT,
		end_time   TEXT,
		is_off     INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_schedule_overrides_user_date
		ON schedule_overrides (user_id, date)`,

	`CREATE TABLE IF NOT EXISTS schedule_contexts (
		id              TEXT PRIMARY KEY,
		user_id         TEXT NOT NULL,
		context_type    TEXT NOT NULL,
		start_date      TEXT NOT NULL,
		end_date        TEXT NOT NULL CHECK (end_date >= start_date),
		load_multiplier REAL NOT NULL CHECK (load_multiplier >= 0),
		created_at      TEXT NOT NULL,
		updated_at      TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_schedule_contexts_user
		ON schedule_contexts (user_id, start_date)`,

	`CREATE TABLE IF NOT EXISTS study_plans (
		id         TEXT PRIMARY KEY,
		user_id    TEXT NOT NULL,
		book_id    TEXT NOT NULL,
		title      TEXT NOT NULL,
		start_date TEXT NOT NULL,
		end_date   TEXT NOT NULL CHECK (end_date >= start_date),
		status     TEXT NOT NULL CHECK (status IN ('active', 'paused', 'completed', 'cancelled')),
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_study_plans_user
		ON study_plans (user_id, status)`,

	`CREATE TABLE IF NOT EXISTS recurrence_rules (
		id         TEXT PRIMARY KEY,
		plan_id    TEXT NOT NULL UNIQUE REFERENCES study_plans (id) ON DELETE CASCADE,
		rule_type  TEXT NOT NULL CHECK (rule_type IN ('daily', 'weekly', 'custom')),
		interval_value INTEGER NOT NULL CHECK (interval_value >= 1),
		weekdays   INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,
}
