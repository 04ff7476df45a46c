package application

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/example/study-scheduler/internal/schedule"
)

// PlanRepository captures the persistence interactions needed by the plan
// service.
type PlanRepository interface {
	CreatePlan(ctx context.Context, plan Plan) (Plan, error)
	UpdatePlan(ctx context.Context, plan Plan) (Plan, error)
	GetPlan(ctx context.Context, id string) (Plan, error)
	ListPlansForUser(ctx context.Context, userID string) ([]Plan, error)
	DeletePlan(ctx context.Context, id string) error
}

// RecurrenceRepository stores recurrence rules attached to plans.
type RecurrenceRepository interface {
	UpsertRecurrence(ctx context.Context, rule Recurrence) (Recurrence, error)
	GetRecurrenceForPlan(ctx context.Context, planID string) (Recurrence, error)
	DeleteRecurrenceForPlan(ctx context.Context, planID string) error
}

// PlanService orchestrates validation and persistence for study plans and
// their recurrence rules.
type PlanService struct {
	plans       PlanRepository
	recurrences RecurrenceRepository
	location    *time.Location
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
}

// NewPlanService wires dependencies for plan operations.
func NewPlanService(plans PlanRepository, recurrences RecurrenceRepository, location *time.Location, idGenerator func() string, now func() time.Time, logger *slog.Logger) *PlanService {
	if location == nil {
		location = time.Local
	}
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &PlanService{
		plans:       plans,
		recurrences: recurrences,
		location:    location,
		idGenerator: idGenerator,
		now:         now,
		logger:      defaultLogger(logger),
	}
}

// CreatePlan validates the request before delegating to persistence. New
// plans always start in the active state.
func (s *PlanService) CreatePlan(ctx context.Context, input PlanInput) (Plan, error) {
	if s == nil || s.plans == nil {
		return Plan{}, fmt.Errorf("plan service not configured")
	}
	logger := serviceLogger(ctx, s.logger, "plan", "create", "user_id", input.UserID)

	plan, vErr := s.buildPlan(input)
	if vErr.HasErrors() {
		logger.Warn("plan rejected", "error_kind", ErrorKind(vErr))
		return Plan{}, vErr
	}

	createdAt := s.now()
	plan.ID = s.idGenerator()
	plan.Status = PlanActive
	plan.CreatedAt = createdAt
	plan.UpdatedAt = createdAt

	persisted, err := s.plans.CreatePlan(ctx, plan)
	if err != nil {
		err = mapRepoError(err)
		logger.Error("plan create failed", "error_kind", ErrorKind(err), "error", err)
		return Plan{}, err
	}

	logger.Info("plan created", "plan_id", persisted.ID)
	return persisted, nil
}

// UpdatePlan replaces the editable fields of an existing plan. Status moves
// only through ChangePlanStatus.
func (s *PlanService) UpdatePlan(ctx context.Context, id string, input PlanInput) (Plan, error) {
	if s == nil || s.plans == nil {
		return Plan{}, fmt.Errorf("plan service not configured")
	}
	logger := serviceLogger(ctx, s.logger, "plan", "update", "plan_id", id)

	existing, err := s.plans.GetPlan(ctx, id)
	if err != nil {
		return Plan{}, mapRepoError(err)
	}

	if input.UserID == "" {
		input.UserID = existing.UserID
	}
	plan, vErr := s.buildPlan(input)
	if input.UserID != existing.UserID {
		vErr.add("user_id", "owner cannot be changed")
	}
	if vErr.HasErrors() {
		logger.Warn("plan rejected", "error_kind", ErrorKind(vErr))
		return Plan{}, vErr
	}

	plan.ID = existing.ID
	plan.Status = existing.Status
	plan.CreatedAt = existing.CreatedAt
	plan.UpdatedAt = s.now()

	persisted, err := s.plans.UpdatePlan(ctx, plan)
	if err != nil {
		err = mapRepoError(err)
		logger.Error("plan update failed", "error_kind", ErrorKind(err), "error", err)
		return Plan{}, err
	}

	logger.Info("plan updated", "plan_id", persisted.ID)
	return persisted, nil
}

// ChangePlanStatus moves a plan through its lifecycle. Completed and
// cancelled are terminal.
func (s *PlanService) ChangePlanStatus(ctx context.Context, id string, status PlanStatus) (Plan, error) {
	if s == nil || s.plans == nil {
		return Plan{}, fmt.Errorf("plan service not configured")
	}
	logger := serviceLogger(ctx, s.logger, "plan", "change_status", "plan_id", id, "status", string(status))

	if !status.Valid() {
		vErr := &ValidationError{}
		vErr.add("status", "must be one of active, paused, completed, cancelled")
		return Plan{}, vErr
	}

	existing, err := s.plans.GetPlan(ctx, id)
	if err != nil {
		return Plan{}, mapRepoError(err)
	}

	if !statusTransitionAllowed(existing.Status, status) {
		vErr := &ValidationError{}
		vErr.add("status", fmt.Sprintf("cannot move a %s plan to %s", existing.Status, status))
		logger.Warn("status transition rejected", "from", string(existing.Status))
		return Plan{}, vErr
	}

	existing.Status = status
	existing.UpdatedAt = s.now()

	persisted, err := s.plans.UpdatePlan(ctx, existing)
	if err != nil {
		err = mapRepoError(err)
		logger.Error("status change failed", "error_kind", ErrorKind(err), "error", err)
		return Plan{}, err
	}

	logger.Info("plan status changed")
	return persisted, nil
}

// GetPlan returns a plan with its recurrence rule attached when one exists.
func (s *PlanService) GetPlan(ctx context.Context, id string) (Plan, error) {
	if s == nil || s.plans == nil {
		return Plan{}, fmt.Errorf("plan service not configured")
	}

	plan, err := s.plans.GetPlan(ctx, id)
	if err != nil {
		return Plan{}, mapRepoError(err)
	}
	return s.attachRecurrence(ctx, plan)
}

// ListPlans returns the user's plans ordered by start date, recurrence
// attached.
func (s *PlanService) ListPlans(ctx context.Context, userID string) ([]Plan, error) {
	if s == nil || s.plans == nil {
		return nil, fmt.Errorf("plan service not configured")
	}
	if strings.TrimSpace(userID) == "" {
		vErr := &ValidationError{}
		vErr.add("user_id", "user id is required")
		return nil, vErr
	}

	plans, err := s.plans.ListPlansForUser(ctx, userID)
	if err != nil {
		if isNotFoundError(err) {
			return nil, nil
		}
		return nil, mapRepoError(err)
	}

	ordered := make([]Plan, len(plans))
	copy(ordered, plans)
	sort.SliceStable(ordered, func(i, j int) bool {
		if !ordered[i].StartDate.Equal(ordered[j].StartDate) {
			return ordered[i].StartDate.Before(ordered[j].StartDate)
		}
		return ordered[i].ID < ordered[j].ID
	})

	for i := range ordered {
		ordered[i], err = s.attachRecurrence(ctx, ordered[i])
		if err != nil {
			return nil, err
		}
	}
	return ordered, nil
}

// DeletePlan removes a plan and its recurrence rule.
func (s *PlanService) DeletePlan(ctx context.Context, id string) error {
	if s == nil || s.plans == nil {
		return fmt.Errorf("plan service not configured")
	}
	logger := serviceLogger(ctx, s.logger, "plan", "delete", "plan_id", id)

	if err := s.plans.DeletePlan(ctx, id); err != nil {
		err = mapRepoError(err)
		logger.Warn("plan delete failed", "error_kind", ErrorKind(err))
		return err
	}
	if s.recurrences != nil {
		if err := s.recurrences.DeleteRecurrenceForPlan(ctx, id); err != nil && !isNotFoundError(err) {
			return mapRepoError(err)
		}
	}
	logger.Info("plan deleted")
	return nil
}

// SetRecurrence attaches or replaces the plan's recurrence rule.
func (s *PlanService) SetRecurrence(ctx context.Context, planID string, input RecurrenceInput) (Recurrence, error) {
	if s == nil || s.plans == nil || s.recurrences == nil {
		return Recurrence{}, fmt.Errorf("plan service not configured")
	}
	logger := serviceLogger(ctx, s.logger, "plan", "set_recurrence", "plan_id", planID, "rule_type", input.Type)

	plan, err := s.plans.GetPlan(ctx, planID)
	if err != nil {
		return Recurrence{}, mapRepoError(err)
	}

	rule, vErr := s.buildRecurrence(plan.ID, input)
	if vErr.HasErrors() {
		logger.Warn("recurrence rejected", "error_kind", ErrorKind(vErr))
		return Recurrence{}, vErr
	}

	now := s.now()
	rule.ID = s.idGenerator()
	rule.CreatedAt = now
	rule.UpdatedAt = now

	persisted, err := s.recurrences.UpsertRecurrence(ctx, rule)
	if err != nil {
		err = mapRepoError(err)
		logger.Error("recurrence upsert failed", "error_kind", ErrorKind(err), "error", err)
		return Recurrence{}, err
	}

	logger.Info("recurrence set", "recurrence_id", persisted.ID)
	return persisted, nil
}

// ClearRecurrence detaches the plan's recurrence rule, turning it back into
// an ad hoc plan. Clearing a plan that has no rule is a no-op.
func (s *PlanService) ClearRecurrence(ctx context.Context, planID string) error {
	if s == nil || s.plans == nil || s.recurrences == nil {
		return fmt.Errorf("plan service not configured")
	}
	logger := serviceLogger(ctx, s.logger, "plan", "clear_recurrence", "plan_id", planID)

	if _, err := s.plans.GetPlan(ctx, planID); err != nil {
		return mapRepoError(err)
	}
	if err := s.recurrences.DeleteRecurrenceForPlan(ctx, planID); err != nil && !isNotFoundError(err) {
		return mapRepoError(err)
	}
	logger.Info("recurrence cleared")
	return nil
}

func (s *PlanService) attachRecurrence(ctx context.Context, plan Plan) (Plan, error) {
	if s.recurrences == nil {
		return plan, nil
	}
	rule, err := s.recurrences.GetRecurrenceForPlan(ctx, plan.ID)
	if err != nil {
		if isNotFoundError(err) {
			plan.Recurrence = nil
			return plan, nil
		}
		return Plan{}, mapRepoError(err)
	}
	plan.Recurrence = &rule
	return plan, nil
}

func (s *PlanService) buildPlan(input PlanInput) (Plan, *ValidationError) {
	vErr := &ValidationError{}

	if strings.TrimSpace(input.UserID) == "" {
		vErr.add("user_id", "user id is required")
	}
	if strings.TrimSpace(input.BookID) == "" {
		vErr.add("book_id", "book id is required")
	}
	if strings.TrimSpace(input.Title) == "" {
		vErr.add("title", "title is required")
	}

	startDate, err := schedule.ParseDate(input.StartDate, s.location)
	if err != nil {
		vErr.add("start_date", "must be a valid YYYY-MM-DD date")
	}
	endDate, err := schedule.ParseDate(input.EndDate, s.location)
	if err != nil {
		vErr.add("end_date", "must be a valid YYYY-MM-DD date")
	}
	if !vErr.HasErrors() && endDate.Before(startDate) {
		vErr.add("date_range", "end date must not precede start date")
	}

	return Plan{
		UserID:    input.UserID,
		BookID:    input.BookID,
		Title:     strings.TrimSpace(input.Title),
		StartDate: startDate,
		EndDate:   endDate,
	}, vErr
}

func (s *PlanService) buildRecurrence(planID string, input RecurrenceInput) (Recurrence, *ValidationError) {
	vErr := &ValidationError{}

	ruleType := RuleTypeFromString(input.Type)
	if ruleType == schedule.RuleUnspecified {
		vErr.add("rule_type", "must be one of daily, weekly, custom")
	}
	if input.Interval < 1 {
		vErr.add("interval", "must be at least 1")
	}

	days := normalizeDays(input.Days)
	switch ruleType {
	case schedule.RuleWeekly, schedule.RuleCustom:
		if len(days) == 0 {
			vErr.add("days", "at least one weekday is required")
		}
		for _, day := range input.Days {
			if !day.Valid() {
				vErr.add("days", "weekdays must be between Monday and Sunday")
				break
			}
		}
	case schedule.RuleDaily:
		if len(input.Days) > 0 {
			vErr.add("days", "a daily rule cannot select weekdays")
		}
	}

	return Recurrence{
		PlanID:   planID,
		Type:     ruleType,
		Interval: input.Interval,
		Days:     days,
	}, vErr
}

// normalizeDays sorts the selection and drops duplicates and invalid values.
func normalizeDays(days []schedule.ISODay) []schedule.ISODay {
	out := make([]schedule.ISODay, 0, len(days))
	for _, day := range days {
		if !day.Valid() || slices.Contains(out, day) {
			continue
		}
		out = append(out, day)
	}
	slices.Sort(out)
	if len(out) == 0 {
		return nil
	}
	return out
}

func statusTransitionAllowed(from, to PlanStatus) bool {
	if from == to {
		return true
	}
	switch from {
	case PlanActive:
		return to == PlanPaused || to == PlanCompleted || to == PlanCancelled
	case PlanPaused:
		return to == PlanActive || to == PlanCompleted || to == PlanCancelled
	default:
		return false
	}
}

// IsTerminalStatus reports whether a plan in this status can no longer move.
func IsTerminalStatus(status PlanStatus) bool {
	return status == PlanCompleted || status == PlanCancelled
}
