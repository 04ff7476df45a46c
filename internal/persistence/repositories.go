package persistence

import "context"

// AvailabilityRepository stores weekly availability entries.
type AvailabilityRepository interface {
	CreateAvailability(ctx context.Context, entry WeeklyAvailability) error
	UpdateAvailability(ctx context.Context, entry WeeklyAvailability) error
	GetAvailability(ctx context.Context, id string) (WeeklyAvailability, error)
	ListAvailabilityForUser(ctx context.Context, userID string) ([]WeeklyAvailability, error)
	DeleteAvailability(ctx context.Context, id string) error
}

// OverrideRepository stores per-date schedule overrides.
type OverrideRepository interface {
	CreateOverride(ctx context.Context, override ScheduleOverride) error
	UpdateOverride(ctx context.Context, override ScheduleOverride) error
	GetOverride(ctx context.Context, id string) (ScheduleOverride, error)
	ListOverridesForUser(ctx context.Context, userID string) ([]ScheduleOverride, error)
	DeleteOverride(ctx context.Context, id string) error
	DeleteOverridesBefore(ctx context.Context, date string) (int64, error)
}

// ContextRepository stores schedule load contexts.
type ContextRepository interface {
	CreateContext(ctx context.Context, sc ScheduleContext) error
	UpdateContext(ctx context.Context, sc ScheduleContext) error
	GetContext(ctx context.Context, id string) (ScheduleContext, error)
	ListContextsForUser(ctx context.Context, userID string) ([]ScheduleContext, error)
	DeleteContext(ctx context.Context, id string) error
	DeleteContextsEndingBefore(ctx context.Context, date string) (int64, error)
}

// PlanRepository stores study plans.
type PlanRepository interface {
	CreatePlan(ctx context.Context, plan StudyPlan) error
	UpdatePlan(ctx context.Context, plan StudyPlan) error
	GetPlan(ctx context.Context, id string) (StudyPlan, error)
	ListPlansForUser(ctx context.Context, userID string) ([]StudyPlan, error)
	DeletePlan(ctx context.Context, id string) error
}

// RecurrenceRepository stores recurrence rules attached to study plans.
type RecurrenceRepository interface {
	UpsertRecurrence(ctx context.Context, rule RecurrenceRule) error
	GetRecurrenceForPlan(ctx context.Context, planID string) (RecurrenceRule, error)
	DeleteRecurrenceForPlan(ctx context.Context, planID string) error
}
