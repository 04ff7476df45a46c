package main

import (
	"context"
	"fmt"
	"time"

	"github.com/example/study-scheduler/internal/application"
	"github.com/example/study-scheduler/internal/persistence"
	"github.com/example/study-scheduler/internal/schedule"
)

const storedDateFormat = "2006-01-02"

// The adapters below translate between the application layer's typed models
// and the persistence layer's string encoded rows. Reads go back through the
// store so callers always observe what was actually persisted.

type availabilityRepositoryAdapter struct {
	repo persistence.AvailabilityRepository
}

func newAvailabilityRepositoryAdapter(repo persistence.AvailabilityRepository) *availabilityRepositoryAdapter {
	return &availabilityRepositoryAdapter{repo: repo}
}

func (a *availabilityRepositoryAdapter) CreateAvailability(ctx context.Context, entry application.Availability) (application.Availability, error) {
	if err := a.repo.CreateAvailability(ctx, toPersistenceAvailability(entry)); err != nil {
		return application.Availability{}, err
	}
	stored, err := a.repo.GetAvailability(ctx, entry.ID)
	if err != nil {
		return application.Availability{}, err
	}
	return toApplicationAvailability(stored)
}

func (a *availabilityRepositoryAdapter) UpdateAvailability(ctx context.Context, entry application.Availability) (application.Availability, error) {
	if err := a.repo.UpdateAvailability(ctx, toPersistenceAvailability(entry)); err != nil {
		return application.Availability{}, err
	}
	stored, err := a.repo.GetAvailability(ctx, entry.ID)
	if err != nil {
		return application.Availability{}, err
	}
	return toApplicationAvailability(stored)
}

func (a *availabilityRepositoryAdapter) GetAvailability(ctx context.Context, id string) (application.Availability, error) {
	stored, err := a.repo.GetAvailability(ctx, id)
	if err != nil {
		return application.Availability{}, err
	}
	return toApplicationAvailability(stored)
}

func (a *availabilityRepositoryAdapter) ListAvailabilityForUser(ctx context.Context, userID string) ([]application.Availability, error) {
	models, err := a.repo.ListAvailabilityForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(models) == 0 {
		return nil, nil
	}
	entries := make([]application.Availability, 0, len(models))
	for _, model := range models {
		entry, err := toApplicationAvailability(model)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func (a *availabilityRepositoryAdapter) DeleteAvailability(ctx context.Context, id string) error {
	return a.repo.DeleteAvailability(ctx, id)
}

type overrideRepositoryAdapter struct {
	repo     persistence.OverrideRepository
	location *time.Location
}

func newOverrideRepositoryAdapter(repo persistence.OverrideRepository, location *time.Location) *overrideRepositoryAdapter {
	if location == nil {
		location = time.Local
	}
	return &overrideRepositoryAdapter{repo: repo, location: location}
}

func (a *overrideRepositoryAdapter) CreateOverride(ctx context.Context, override application.Override) (application.Override, error) {
	if err := a.repo.CreateOverride(ctx, toPersistenceOverride(override)); err != nil {
		return application.Override{}, err
	}
	return a.GetOverride(ctx, override.ID)
}

func (a *overrideRepositoryAdapter) UpdateOverride(ctx context.Context, override application.Override) (application.Override, error) {
	if err := a.repo.UpdateOverride(ctx, toPersistenceOverride(override)); err != nil {
		return application.Override{}, err
	}
	return a.GetOverride(ctx, override.ID)
}

func (a *overrideRepositoryAdapter) GetOverride(ctx context.Context, id string) (application.Override, error) {
	stored, err := a.repo.GetOverride(ctx, id)
	if err != nil {
		return application.Override{}, err
	}
	return toApplicationOverride(stored, a.location)
}

func (a *overrideRepositoryAdapter) ListOverridesForUser(ctx context.Context, userID string) ([]application.Override, error) {
	models, err := a.repo.ListOverridesForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(models) == 0 {
		return nil, nil
	}
	overrides := make([]application.Override, 0, len(models))
	for _, model := range models {
		override, err := toApplicationOverride(model, a.location)
		if err != nil {
			return nil, err
		}
		overrides = append(overrides, override)
	}
	return overrides, nil
}

func (a *overrideRepositoryAdapter) DeleteOverride(ctx context.Context, id string) error {
	return a.repo.DeleteOverride(ctx, id)
}

func (a *overrideRepositoryAdapter) DeleteOverridesBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	return a.repo.DeleteOverridesBefore(ctx, cutoff.Format(storedDateFormat))
}

type contextRepositoryAdapter struct {
	repo     persistence.ContextRepository
	location *time.Location
}

func newContextRepositoryAdapter(repo persistence.ContextRepository, location *time.Location) *contextRepositoryAdapter {
	if location == nil {
		location = time.Local
	}
	return &contextRepositoryAdapter{repo: repo, location: location}
}

func (a *contextRepositoryAdapter) CreateContext(ctx context.Context, sc application.ScheduleContext) (application.ScheduleContext, error) {
	if err := a.repo.CreateContext(ctx, toPersistenceContext(sc)); err != nil {
		return application.ScheduleContext{}, err
	}
	return a.GetContext(ctx, sc.ID)
}

func (a *contextRepositoryAdapter) UpdateContext(ctx context.Context, sc application.ScheduleContext) (application.ScheduleContext, error) {
	if err := a.repo.UpdateContext(ctx, toPersistenceContext(sc)); err != nil {
		return application.ScheduleContext{}, err
	}
	return a.GetContext(ctx, sc.ID)
}

func (a *contextRepositoryAdapter) GetContext(ctx context.Context, id string) (application.ScheduleContext, error) {
	stored, err := a.repo.GetContext(ctx, id)
	if err != nil {
		return application.ScheduleContext{}, err
	}
	return toApplicationContext(stored, a.location)
}

func (a *contextRepositoryAdapter) ListContextsForUser(ctx context.Context, userID string) ([]application.ScheduleContext, error) {
	models, err := a.repo.ListContextsForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(models) == 0 {
		return nil, nil
	}
	contexts := make([]application.ScheduleContext, 0, len(models))
	for _, model := range models {
		sc, err := toApplicationContext(model, a.location)
		if err != nil {
			return nil, err
		}
		contexts = append(contexts, sc)
	}
	return contexts, nil
}

func (a *contextRepositoryAdapter) DeleteContext(ctx context.Context, id string) error {
	return a.repo.DeleteContext(ctx, id)
}

func (a *contextRepositoryAdapter) DeleteContextsEndingBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	return a.repo.DeleteContextsEndingBefore(ctx, cutoff.Format(storedDateFormat))
}

type planRepositoryAdapter struct {
	repo     persistence.PlanRepository
	location *time.Location
}

func newPlanRepositoryAdapter(repo persistence.PlanRepository, location *time.Location) *planRepositoryAdapter {
	if location == nil {
		location = time.Local
	}
	return &planRepositoryAdapter{repo: repo, location: location}
}

func (a *planRepositoryAdapter) CreatePlan(ctx context.Context, plan application.Plan) (application.Plan, error) {
	if err := a.repo.CreatePlan(ctx, toPersistencePlan(plan)); err != nil {
		return application.Plan{}, err
	}
	return a.GetPlan(ctx, plan.ID)
}

func (a *planRepositoryAdapter) UpdatePlan(ctx context.Context, plan application.Plan) (application.Plan, error) {
	if err := a.repo.UpdatePlan(ctx, toPersistencePlan(plan)); err != nil {
		return application.Plan{}, err
	}
	return a.GetPlan(ctx, plan.ID)
}

func (a *planRepositoryAdapter) GetPlan(ctx context.Context, id string) (application.Plan, error) {
	stored, err := a.repo.GetPlan(ctx, id)
	if err != nil {
		return application.Plan{}, err
	}
	return toApplicationPlan(stored, a.location)
}

func (a *planRepositoryAdapter) ListPlansForUser(ctx context.Context, userID string) ([]application.Plan, error) {
	models, err := a.repo.ListPlansForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(models) == 0 {
		return nil, nil
	}
	plans := make([]application.Plan, 0, len(models))
	for _, model := range models {
		plan, err := toApplicationPlan(model, a.location)
		if err != nil {
			return nil, err
		}
		plans = append(plans, plan)
	}
	return plans, nil
}

func (a *planRepositoryAdapter) DeletePlan(ctx context.Context, id string) error {
	return a.repo.DeletePlan(ctx, id)
}

type recurrenceRepositoryAdapter struct {
	repo persistence.RecurrenceRepository
}

func newRecurrenceRepositoryAdapter(repo persistence.RecurrenceRepository) *recurrenceRepositoryAdapter {
	return &recurrenceRepositoryAdapter{repo: repo}
}

func (a *recurrenceRepositoryAdapter) UpsertRecurrence(ctx context.Context, rule application.Recurrence) (application.Recurrence, error) {
	if err := a.repo.UpsertRecurrence(ctx, toPersistenceRecurrence(rule)); err != nil {
		return application.Recurrence{}, err
	}
	return a.GetRecurrenceForPlan(ctx, rule.PlanID)
}

func (a *recurrenceRepositoryAdapter) GetRecurrenceForPlan(ctx context.Context, planID string) (application.Recurrence, error) {
	stored, err := a.repo.GetRecurrenceForPlan(ctx, planID)
	if err != nil {
		return application.Recurrence{}, err
	}
	return toApplicationRecurrence(stored)
}

func (a *recurrenceRepositoryAdapter) DeleteRecurrenceForPlan(ctx context.Context, planID string) error {
	return a.repo.DeleteRecurrenceForPlan(ctx, planID)
}

func toPersistenceAvailability(entry application.Availability) persistence.WeeklyAvailability {
	return persistence.WeeklyAvailability{
		ID:        entry.ID,
		UserID:    entry.UserID,
		DayOfWeek: int(entry.Day),
		StartTime: entry.Start.String(),
		EndTime:   entry.End.String(),
		IsActive:  entry.IsActive,
		CreatedAt: entry.CreatedAt,
		UpdatedAt: entry.UpdatedAt,
	}
}

func toApplicationAvailability(model persistence.WeeklyAvailability) (application.Availability, error) {
	start, err := schedule.ParseTimeOfDay(model.StartTime)
	if err != nil {
		return application.Availability{}, fmt.Errorf("availability %s: %w", model.ID, err)
	}
	end, err := schedule.ParseTimeOfDay(model.EndTime)
	if err != nil {
		return application.Availability{}, fmt.Errorf("availability %s: %w", model.ID, err)
	}
	return application.Availability{
		ID:        model.ID,
		UserID:    model.UserID,
		Day:       schedule.ISODay(model.DayOfWeek),
		Start:     start,
		End:       end,
		IsActive:  model.IsActive,
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}, nil
}

func toPersistenceOverride(override application.Override) persistence.ScheduleOverride {
	model := persistence.ScheduleOverride{
		ID:        override.ID,
		UserID:    override.UserID,
		Date:      override.Date.Format(storedDateFormat),
		IsOff:     override.IsOff,
		CreatedAt: override.CreatedAt,
		UpdatedAt: override.UpdatedAt,
	}
	if override.Start != nil {
		start := override.Start.String()
		model.StartTime = &start
	}
	if override.End != nil {
		end := override.End.String()
		model.EndTime = &end
	}
	return model
}

func toApplicationOverride(model persistence.ScheduleOverride, location *time.Location) (application.Override, error) {
	date, err := time.ParseInLocation(storedDateFormat, model.Date, location)
	if err != nil {
		return application.Override{}, fmt.Errorf("override %s: %w", model.ID, err)
	}
	override := application.Override{
		ID:        model.ID,
		UserID:    model.UserID,
		Date:      date,
		IsOff:     model.IsOff,
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}
	if model.StartTime != nil {
		start, err := schedule.ParseTimeOfDay(*model.StartTime)
		if err != nil {
			return application.Override{}, fmt.Errorf("override %s: %w", model.ID, err)
		}
		override.Start = &start
	}
	if model.EndTime != nil {
		end, err := schedule.ParseTimeOfDay(*model.EndTime)
		if err != nil {
			return application.Override{}, fmt.Errorf("override %s: %w", model.ID, err)
		}
		override.End = &end
	}
	return override, nil
}

func toPersistenceContext(sc application.ScheduleContext) persistence.ScheduleContext {
	return persistence.ScheduleContext{
		ID:             sc.ID,
		UserID:         sc.UserID,
		ContextType:    string(sc.Type),
		StartDate:      sc.StartDate.Format(storedDateFormat),
		EndDate:        sc.EndDate.Format(storedDateFormat),
		LoadMultiplier: sc.LoadMultiplier,
		CreatedAt:      sc.CreatedAt,
		UpdatedAt:      sc.UpdatedAt,
	}
}

func toApplicationContext(model persistence.ScheduleContext, location *time.Location) (application.ScheduleContext, error) {
	start, err := time.ParseInLocation(storedDateFormat, model.StartDate, location)
	if err != nil {
		return application.ScheduleContext{}, fmt.Errorf("context %s: %w", model.ID, err)
	}
	end, err := time.ParseInLocation(storedDateFormat, model.EndDate, location)
	if err != nil {
		return application.ScheduleContext{}, fmt.Errorf("context %s: %w", model.ID, err)
	}
	return application.ScheduleContext{
		ID:             model.ID,
		UserID:         model.UserID,
		Type:           schedule.ContextType(model.ContextType),
		StartDate:      start,
		EndDate:        end,
		LoadMultiplier: model.LoadMultiplier,
		CreatedAt:      model.CreatedAt,
		UpdatedAt:      model.UpdatedAt,
	}, nil
}

func toPersistencePlan(plan application.Plan) persistence.StudyPlan {
	return persistence.StudyPlan{
		ID:        plan.ID,
		UserID:    plan.UserID,
		BookID:    plan.BookID,
		Title:     plan.Title,
		StartDate: plan.StartDate.Format(storedDateFormat),
		EndDate:   plan.EndDate.Format(storedDateFormat),
		Status:    string(plan.Status),
		CreatedAt: plan.CreatedAt,
		UpdatedAt: plan.UpdatedAt,
	}
}

func toApplicationPlan(model persistence.StudyPlan, location *time.Location) (application.Plan, error) {
	start, err := time.ParseInLocation(storedDateFormat, model.StartDate, location)
	if err != nil {
		return application.Plan{}, fmt.Errorf("plan %s: %w", model.ID, err)
	}
	end, err := time.ParseInLocation(storedDateFormat, model.EndDate, location)
	if err != nil {
		return application.Plan{}, fmt.Errorf("plan %s: %w", model.ID, err)
	}
	return application.Plan{
		ID:        model.ID,
		UserID:    model.UserID,
		BookID:    model.BookID,
		Title:     model.Title,
		StartDate: start,
		EndDate:   end,
		Status:    application.PlanStatus(model.Status),
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}, nil
}

func toPersistenceRecurrence(rule application.Recurrence) persistence.RecurrenceRule {
	days := make([]int, 0, len(rule.Days))
	for _, day := range rule.Days {
		days = append(days, int(day))
	}
	return persistence.RecurrenceRule{
		ID:        rule.ID,
		PlanID:    rule.PlanID,
		RuleType:  application.RuleTypeToString(rule.Type),
		Interval:  rule.Interval,
		Days:      days,
		CreatedAt: rule.CreatedAt,
		UpdatedAt: rule.UpdatedAt,
	}
}

func toApplicationRecurrence(model persistence.RecurrenceRule) (application.Recurrence, error) {
	ruleType := application.RuleTypeFromString(model.RuleType)
	if ruleType == schedule.RuleUnspecified {
		return application.Recurrence{}, fmt.Errorf("recurrence %s: unknown rule type %q", model.ID, model.RuleType)
	}
	days := make([]schedule.ISODay, 0, len(model.Days))
	for _, day := range model.Days {
		days = append(days, schedule.ISODay(day))
	}
	if len(days) == 0 {
		days = nil
	}
	return application.Recurrence{
		ID:        model.ID,
		PlanID:    model.PlanID,
		Type:      ruleType,
		Interval:  model.Interval,
		Days:      days,
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}, nil
}
