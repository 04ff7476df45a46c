package sqlite

import (
	"context"
	"database/sql"

	"github.com/example/study-scheduler/internal/persistence"
)

// CreatePlan stores a new study plan.
func (s *Store) CreatePlan(ctx context.Context, plan persistence.StudyPlan) error {
	const query = `
		INSERT INTO study_plans
			(id, user_id, book_id, title, start_date, end_date, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := s.db.ExecContext(ctx, query,
		plan.ID,
		plan.UserID,
		plan.BookID,
		plan.Title,
		plan.StartDate,
		plan.EndDate,
		plan.Status,
		formatInstant(plan.CreatedAt),
		formatInstant(plan.UpdatedAt),
	)
	return s.mapper.mapError(err)
}

// UpdatePlan rewrites an existing plan.
func (s *Store) UpdatePlan(ctx context.Context, plan persistence.StudyPlan) error {
	const query = `
		UPDATE study_plans
		SET book_id = ?, title = ?, start_date = ?, end_date = ?, status = ?, updated_at = ?
		WHERE id = ?
	`
	result, err := s.db.ExecContext(ctx, query,
		plan.BookID,
		plan.Title,
		plan.StartDate,
		plan.EndDate,
		plan.Status,
		formatInstant(plan.UpdatedAt),
		plan.ID,
	)
	if err != nil {
		return s.mapper.mapError(err)
	}
	return requireAffected(result)
}

// GetPlan retrieves one plan by ID.
func (s *Store) GetPlan(ctx context.Context, id string) (persistence.StudyPlan, error) {
	const query = `
		SELECT id, user_id, book_id, title, start_date, end_date, status, created_at, updated_at
		FROM study_plans
		WHERE id = ?
	`
	row := s.db.QueryRowContext(ctx, query, id)

	var plan persistence.StudyPlan
	var createdAt, updatedAt string
	err := row.Scan(&plan.ID, &plan.UserID, &plan.BookID, &plan.Title, &plan.StartDate, &plan.EndDate, &plan.Status, &createdAt, &updatedAt)
	if err != nil {
		return persistence.StudyPlan{}, s.mapper.mapError(err)
	}
	if plan.CreatedAt, plan.UpdatedAt, err = parseTimestamps(createdAt, updatedAt); err != nil {
		return persistence.StudyPlan{}, err
	}
	return plan, nil
}

// ListPlansForUser returns all of a user's plans ordered by start date.
func (s *Store) ListPlansForUser(ctx context.Context, userID string) ([]persistence.StudyPlan, error) {
	const query = `
		SELECT id, user_id, book_id, title, start_date, end_date, status, created_at, updated_at
		FROM study_plans
		WHERE user_id = ?
		ORDER BY start_date ASC, id ASC
	`
	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, s.mapper.mapError(err)
	}
	defer rows.Close()

	var plans []persistence.StudyPlan
	for rows.Next() {
		var plan persistence.StudyPlan
		var createdAt, updatedAt string
		if err := rows.Scan(&plan.ID, &plan.UserID, &plan.BookID, &plan.Title, &plan.StartDate, &plan.EndDate, &plan.Status, &createdAt, &updatedAt); err != nil {
			return nil, s.mapper.mapError(err)
		}
		if plan.CreatedAt, plan.UpdatedAt, err = parseTimestamps(createdAt, updatedAt); err != nil {
			return nil, err
		}
		plans = append(plans, plan)
	}
	if err := rows.Err(); err != nil {
		return nil, s.mapper.mapError(err)
	}
	return plans, nil
}

// DeletePlan removes one plan by ID together with its recurrence rule. The
// rule is deleted explicitly so the behavior does not depend on the
// foreign_keys pragma being active on the connection.
func (s *Store) DeletePlan(ctx context.Context, id string) error {
	return s.WithTransaction(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM recurrence_rules WHERE plan_id = ?", id); err != nil {
			return s.mapper.mapError(err)
		}
		result, err := tx.ExecContext(ctx, "DELETE FROM study_plans WHERE id = ?", id)
		if err != nil {
			return s.mapper.mapError(err)
		}
		return requireAffected(result)
	})
}
