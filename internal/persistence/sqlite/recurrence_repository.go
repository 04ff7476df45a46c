package sqlite

import (
	"context"
	"database/sql"

	"github.com/example/study-scheduler/internal/persistence"
)

// UpsertRecurrence creates or replaces the recurrence rule for a plan. A plan
// holds at most one rule, so the upsert keys on plan_id.
func (s *Store) UpsertRecurrence(ctx context.Context, rule persistence.RecurrenceRule) error {
	return s.WithTransaction(ctx, func(tx *sql.Tx) error {
		var existingID string
		var existingCreatedAt string
		err := tx.QueryRowContext(ctx,
			"SELECT id, created_at FROM recurrence_rules WHERE plan_id = ?", rule.PlanID,
		).Scan(&existingID, &existingCreatedAt)
		if err != nil && err != sql.ErrNoRows {
			return s.mapper.mapError(err)
		}

		mask := encodeWeekdays(rule.Days)

		if err == sql.ErrNoRows {
			const insert = `
				INSERT INTO recurrence_rules
					(id, plan_id, rule_type, interval_value, weekdays, created_at, updated_at)
				VALUES (?, ?, ?, ?, ?, ?, ?)
			`
			_, err := tx.ExecContext(ctx, insert,
				rule.ID,
				rule.PlanID,
				rule.RuleType,
				rule.Interval,
				mask,
				formatInstant(rule.CreatedAt),
				formatInstant(rule.UpdatedAt),
			)
			return s.mapper.mapError(err)
		}

		// Keep the original identity and creation time on replacement.
		const update = `
			UPDATE recurrence_rules
			SET rule_type = ?, interval_value = ?, weekdays = ?, updated_at = ?
			WHERE id = ?
		`
		_, err = tx.ExecContext(ctx, update,
			rule.RuleType,
			rule.Interval,
			mask,
			formatInstant(rule.UpdatedAt),
			existingID,
		)
		return s.mapper.mapError(err)
	})
}

// GetRecurrenceForPlan retrieves the rule attached to a plan.
func (s *Store) GetRecurrenceForPlan(ctx context.Context, planID string) (persistence.RecurrenceRule, error) {
	const query = `
		SELECT id, plan_id, rule_type, interval_value, weekdays, created_at, updated_at
		FROM recurrence_rules
		WHERE plan_id = ?
	`
	row := s.db.QueryRowContext(ctx, query, planID)

	var rule persistence.RecurrenceRule
	var mask int64
	var createdAt, updatedAt string
	err := row.Scan(&rule.ID, &rule.PlanID, &rule.RuleType, &rule.Interval, &mask, &createdAt, &updatedAt)
	if err != nil {
		return persistence.RecurrenceRule{}, s.mapper.mapError(err)
	}
	rule.Days = decodeWeekdays(mask)
	if rule.CreatedAt, rule.UpdatedAt, err = parseTimestamps(createdAt, updatedAt); err != nil {
		return persistence.RecurrenceRule{}, err
	}
	return rule, nil
}

// DeleteRecurrenceForPlan removes a plan's rule. Deleting a rule that never
// existed is not an error.
func (s *Store) DeleteRecurrenceForPlan(ctx context.Context, planID string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM recurrence_rules WHERE plan_id = ?", planID)
	return s.mapper.mapError(err)
}

// encodeWeekdays packs ISO weekday numbers (1..7) into a bitmask for storage.
func encodeWeekdays(days []int) int64 {
	var mask int64
	for _, day := range days {
		if day >= 1 && day <= 7 {
			mask |= 1 << uint(day)
		}
	}
	return mask
}

// decodeWeekdays unpacks a stored bitmask into sorted ISO weekday numbers.
func decodeWeekdays(mask int64) []int {
	var days []int
	for day := 1; day <= 7; day++ {
		if mask&(1<<uint(day)) != 0 {
			days = append(days, day)
		}
	}
	return days
}
