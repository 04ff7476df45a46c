package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/example/study-scheduler/internal/persistence"
	"github.com/example/study-scheduler/internal/schedule"
)

// CreateAvailability stores a new weekly availability entry.
func (s *Store) CreateAvailability(ctx context.Context, entry persistence.WeeklyAvailability) error {
	const query = `
		INSERT INTO weekly_availability
			(id, user_id, day_of_week, start_time, end_time, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := s.db.ExecContext(ctx, query,
		entry.ID,
		entry.UserID,
		entry.DayOfWeek,
		entry.StartTime,
		entry.EndTime,
		boolToInt(entry.IsActive),
		formatInstant(entry.CreatedAt),
		formatInstant(entry.UpdatedAt),
	)
	return s.mapper.mapError(err)
}

// UpdateAvailability rewrites an existing entry.
func (s *Store) UpdateAvailability(ctx context.Context, entry persistence.WeeklyAvailability) error {
	const query = `
		UPDATE weekly_availability
		SET day_of_week = ?, start_time = ?, end_time = ?, is_active = ?, updated_at = ?
		WHERE id = ?
	`
	result, err := s.db.ExecContext(ctx, query,
		entry.DayOfWeek,
		entry.StartTime,
		entry.EndTime,
		boolToInt(entry.IsActive),
		formatInstant(entry.UpdatedAt),
		entry.ID,
	)
	if err != nil {
		return s.mapper.mapError(err)
	}
	return requireAffected(result)
}

// GetAvailability retrieves one entry by ID.
func (s *Store) GetAvailability(ctx context.Context, id string) (persistence.WeeklyAvailability, error) {
	const query = `
		SELECT id, user_id, day_of_week, start_time, end_time, is_active, created_at, updated_at
		FROM weekly_availability
		WHERE id = ?
	`
	row := s.db.QueryRowContext(ctx, query, id)

	var entry persistence.WeeklyAvailability
	var active int
	var createdAt, updatedAt string
	err := row.Scan(&entry.ID, &entry.UserID, &entry.DayOfWeek, &entry.StartTime, &entry.EndTime, &active, &createdAt, &updatedAt)
	if err != nil {
		return persistence.WeeklyAvailability{}, s.mapper.mapError(err)
	}
	entry.IsActive = active != 0
	if entry.CreatedAt, entry.UpdatedAt, err = parseTimestamps(createdAt, updatedAt); err != nil {
		return persistence.WeeklyAvailability{}, err
	}
	return entry, nil
}

// ListAvailabilityForUser returns all of a user's entries ordered by weekday
// and start time.
func (s *Store) ListAvailabilityForUser(ctx context.Context, userID string) ([]persistence.WeeklyAvailability, error) {
	const query = `
		SELECT id, user_id, day_of_week, start_time, end_time, is_active, created_at, updated_at
		FROM weekly_availability
		WHERE user_id = ?
		ORDER BY day_of_week ASC, start_time ASC, id ASC
	`
	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, s.mapper.mapError(err)
	}
	defer rows.Close()

	var entries []persistence.WeeklyAvailability
	for rows.Next() {
		var entry persistence.WeeklyAvailability
		var active int
		var createdAt, updatedAt string
		if err := rows.Scan(&entry.ID, &entry.UserID, &entry.DayOfWeek, &entry.StartTime, &entry.EndTime, &active, &createdAt, &updatedAt); err != nil {
			return nil, s.mapper.mapError(err)
		}
		entry.IsActive = active != 0
		if entry.CreatedAt, entry.UpdatedAt, err = parseTimestamps(createdAt, updatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, s.mapper.mapError(err)
	}
	return entries, nil
}

// DeleteAvailability removes one entry by ID.
func (s *Store) DeleteAvailability(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM weekly_availability WHERE id = ?", id)
	if err != nil {
		return s.mapper.mapError(err)
	}
	return requireAffected(result)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func formatInstant(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// parseTimestamps tolerates rows written without an offset by older tooling;
// naive text is read as UTC.
func parseTimestamps(createdAt, updatedAt string) (time.Time, time.Time, error) {
	created, err := schedule.ParseInstant(createdAt, time.UTC)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("sqlite: parse created_at: %w", err)
	}
	updated, err := schedule.ParseInstant(updatedAt, time.UTC)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("sqlite: parse updated_at: %w", err)
	}
	return created, updated, nil
}
