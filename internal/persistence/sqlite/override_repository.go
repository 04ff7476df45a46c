package sqlite

import (
	"context"
	"database/sql"

	"github.com/example/study-scheduler/internal/persistence"
)

// CreateOverride stores a new per-date schedule override.
func (s *Store) CreateOverride(ctx context.Context, override persistence.ScheduleOverride) error {
	const query = `
		INSERT INTO schedule_overrides
			(id, user_id, date, start_time, end_time, is_off, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := s.db.ExecContext(ctx, query,
		override.ID,
		override.UserID,
		override.Date,
		nullableString(override.StartTime),
		nullableString(override.EndTime),
		boolToInt(override.IsOff),
		formatInstant(override.CreatedAt),
		formatInstant(override.UpdatedAt),
	)
	return s.mapper.mapError(err)
}

// UpdateOverride rewrites an existing override.
func (s *Store) UpdateOverride(ctx context.Context, override persistence.ScheduleOverride) error {
	const query = `
		UPDATE schedule_overrides
		SET date = ?, start_time = ?, end_time = ?, is_off = ?, updated_at = ?
		WHERE id = ?
	`
	result, err := s.db.ExecContext(ctx, query,
		override.Date,
		nullableString(override.StartTime),
		nullableString(override.EndTime),
		boolToInt(override.IsOff),
		formatInstant(override.UpdatedAt),
		override.ID,
	)
	if err != nil {
		return s.mapper.mapError(err)
	}
	return requireAffected(result)
}

// GetOverride retrieves one override by ID.
func (s *Store) GetOverride(ctx context.Context, id string) (persistence.ScheduleOverride, error) {
	const query = `
		SELECT id, user_id, date, start_time, end_time, is_off, created_at, updated_at
		FROM schedule_overrides
		WHERE id = ?
	`
	return s.scanOverride(s.db.QueryRowContext(ctx, query, id))
}

// ListOverridesForUser returns all of a user's overrides ordered by date.
func (s *Store) ListOverridesForUser(ctx context.Context, userID string) ([]persistence.ScheduleOverride, error) {
	const query = `
		SELECT id, user_id, date, start_time, end_time, is_off, created_at, updated_at
		FROM schedule_overrides
		WHERE user_id = ?
		ORDER BY date ASC, id ASC
	`
	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, s.mapper.mapError(err)
	}
	defer rows.Close()

	var overrides []persistence.ScheduleOverride
	for rows.Next() {
		override, err := s.scanOverride(rows)
		if err != nil {
			return nil, err
		}
		overrides = append(overrides, override)
	}
	if err := rows.Err(); err != nil {
		return nil, s.mapper.mapError(err)
	}
	return overrides, nil
}

// DeleteOverride removes one override by ID.
func (s *Store) DeleteOverride(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM schedule_overrides WHERE id = ?", id)
	if err != nil {
		return s.mapper.mapError(err)
	}
	return requireAffected(result)
}

// DeleteOverridesBefore removes every override dated strictly before date and
// reports how many rows went away. Dates compare lexicographically because
// they are stored as YYYY-MM-DD.
func (s *Store) DeleteOverridesBefore(ctx context.Context, date string) (int64, error) {
	result, err := s.db.ExecContext(ctx, "DELETE FROM schedule_overrides WHERE date < ?", date)
	if err != nil {
		return 0, s.mapper.mapError(err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, s.mapper.mapError(err)
	}
	return affected, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (s *Store) scanOverride(row rowScanner) (persistence.ScheduleOverride, error) {
	var override persistence.ScheduleOverride
	var start, end sql.NullString
	var off int
	var createdAt, updatedAt string

	err := row.Scan(&override.ID, &override.UserID, &override.Date, &start, &end, &off, &createdAt, &updatedAt)
	if err != nil {
		return persistence.ScheduleOverride{}, s.mapper.mapError(err)
	}

	if start.Valid {
		override.StartTime = &start.String
	}
	if end.Valid {
		override.EndTime = &end.String
	}
	override.IsOff = off != 0
	if override.CreatedAt, override.UpdatedAt, err = parseTimestamps(createdAt, updatedAt); err != nil {
		return persistence.ScheduleOverride{}, err
	}
	return override, nil
}

func nullableString(value *string) any {
	if value == nil {
		return nil
	}
	return *value
}
