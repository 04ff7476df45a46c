package sqlite

import (
	"context"

	"github.com/example/study-scheduler/internal/persistence"
)

// CreateContext stores a new schedule load context.
func (s *Store) CreateContext(ctx context.Context, sc persistence.ScheduleContext) error {
	const query = `
		INSERT INTO schedule_contexts
			(id, user_id, context_type, start_date, end_date, load_multiplier, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := s.db.ExecContext(ctx, query,
		sc.ID,
		sc.UserID,
		sc.ContextType,
		sc.StartDate,
		sc.EndDate,
		sc.LoadMultiplier,
		formatInstant(sc.CreatedAt),
		formatInstant(sc.UpdatedAt),
	)
	return s.mapper.mapError(err)
}

// UpdateContext rewrites an existing context.
func (s *Store) UpdateContext(ctx context.Context, sc persistence.ScheduleContext) error {
	const query = `
		UPDATE schedule_contexts
		SET context_type = ?, start_date = ?, end_date = ?, load_multiplier = ?, updated_at = ?
		WHERE id = ?
	`
	result, err := s.db.ExecContext(ctx, query,
		sc.ContextType,
		sc.StartDate,
		sc.EndDate,
		sc.LoadMultiplier,
		formatInstant(sc.UpdatedAt),
		sc.ID,
	)
	if err != nil {
		return s.mapper.mapError(err)
	}
	return requireAffected(result)
}

// GetContext retrieves one context by ID.
func (s *Store) GetContext(ctx context.Context, id string) (persistence.ScheduleContext, error) {
	const query = `
		SELECT id, user_id, context_type, start_date, end_date, load_multiplier, created_at, updated_at
		FROM schedule_contexts
		WHERE id = ?
	`
	row := s.db.QueryRowContext(ctx, query, id)

	var sc persistence.ScheduleContext
	var createdAt, updatedAt string
	err := row.Scan(&sc.ID, &sc.UserID, &sc.ContextType, &sc.StartDate, &sc.EndDate, &sc.LoadMultiplier, &createdAt, &updatedAt)
	if err != nil {
		return persistence.ScheduleContext{}, s.mapper.mapError(err)
	}
	if sc.CreatedAt, sc.UpdatedAt, err = parseTimestamps(createdAt, updatedAt); err != nil {
		return persistence.ScheduleContext{}, err
	}
	return sc, nil
}

// ListContextsForUser returns all of a user's contexts ordered by start date.
func (s *Store) ListContextsForUser(ctx context.Context, userID string) ([]persistence.ScheduleContext, error) {
	const query = `
		SELECT id, user_id, context_type, start_date, end_date, load_multiplier, created_at, updated_at
		FROM schedule_contexts
		WHERE user_id = ?
		ORDER BY start_date ASC, id ASC
	`
	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, s.mapper.mapError(err)
	}
	defer rows.Close()

	var contexts []persistence.ScheduleContext
	for rows.Next() {
		var sc persistence.ScheduleContext
		var createdAt, updatedAt string
		if err := rows.Scan(&sc.ID, &sc.UserID, &sc.ContextType, &sc.StartDate, &sc.EndDate, &sc.LoadMultiplier, &createdAt, &updatedAt); err != nil {
			return nil, s.mapper.mapError(err)
		}
		if sc.CreatedAt, sc.UpdatedAt, err = parseTimestamps(createdAt, updatedAt); err != nil {
			return nil, err
		}
		contexts = append(contexts, sc)
	}
	if err := rows.Err(); err != nil {
		return nil, s.mapper.mapError(err)
	}
	return contexts, nil
}

// DeleteContext removes one context by ID.
func (s *Store) DeleteContext(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM schedule_contexts WHERE id = ?", id)
	if err != nil {
		return s.mapper.mapError(err)
	}
	return requireAffected(result)
}

// DeleteContextsEndingBefore removes every context whose end date falls
// strictly before date.
func (s *Store) DeleteContextsEndingBefore(ctx context.Context, date string) (int64, error) {
	result, err := s.db.ExecContext(ctx, "DELETE FROM schedule_contexts WHERE end_date < ?", date)
	if err != nil {
		return 0, s.mapper.mapError(err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, s.mapper.mapError(err)
	}
	return affected, nil
}
