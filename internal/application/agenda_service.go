package application

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/example/study-scheduler/internal/ics"
	"github.com/example/study-scheduler/internal/schedule"
)

// AgendaService computes effective study days and expands plan recurrences
// into concrete agenda sessions. It is read-only over persistence.
type AgendaService struct {
	plans        PlanRepository
	recurrences  RecurrenceRepository
	availability AvailabilityRepository
	overrides    OverrideRepository
	contexts     ContextRepository
	engine       *schedule.Engine
	resolver     *schedule.Resolver
	exporter     *ics.Exporter
	location     *time.Location
	logger       *slog.Logger
}

// NewAgendaService wires dependencies for agenda computation.
func NewAgendaService(
	plans PlanRepository,
	recurrences RecurrenceRepository,
	availability AvailabilityRepository,
	overrides OverrideRepository,
	contexts ContextRepository,
	location *time.Location,
	now func() time.Time,
	logger *slog.Logger,
) *AgendaService {
	if location == nil {
		location = time.Local
	}
	return &AgendaService{
		plans:        plans,
		recurrences:  recurrences,
		availability: availability,
		overrides:    overrides,
		contexts:     contexts,
		engine:       schedule.NewEngine(location),
		resolver:     schedule.NewResolver(location),
		exporter:     ics.NewExporter(now),
		location:     location,
		logger:       defaultLogger(logger),
	}
}

// Agenda expands every active recurring plan of the user into dated sessions
// between From and To inclusive. Due dates falling on unavailable days are
// reported with Available set to false so callers can show skipped sessions.
//
// Expansion always anchors at the plan's own start date, never at the query
// window, so interval rules keep their alignment no matter how the window is
// sliced.
func (s *AgendaService) Agenda(ctx context.Context, params AgendaParams) ([]AgendaSession, error) {
	if s == nil || s.plans == nil {
		return nil, fmt.Errorf("agenda service not configured")
	}
	logger := serviceLogger(ctx, s.logger, "agenda", "agenda", "user_id", params.UserID)

	vErr := &ValidationError{}
	if strings.TrimSpace(params.UserID) == "" {
		vErr.add("user_id", "user id is required")
	}
	from, err := schedule.ParseDate(params.From, s.location)
	if err != nil {
		vErr.add("from", "must be a valid YYYY-MM-DD date")
	}
	to, err := schedule.ParseDate(params.To, s.location)
	if err != nil {
		vErr.add("to", "must be a valid YYYY-MM-DD date")
	}
	if !vErr.HasErrors() && to.Before(from) {
		vErr.add("range", "to must not precede from")
	}
	if vErr.HasErrors() {
		logger.Warn("agenda rejected", "error_kind", ErrorKind(vErr))
		return nil, vErr
	}

	weekly, overrides, contexts, err := s.loadScheduleInputs(ctx, params.UserID)
	if err != nil {
		return nil, err
	}

	plans, err := s.plans.ListPlansForUser(ctx, params.UserID)
	if err != nil {
		if isNotFoundError(err) {
			return nil, nil
		}
		return nil, mapRepoError(err)
	}

	sessions := make([]AgendaSession, 0)
	for _, plan := range plans {
		if plan.Status != PlanActive {
			continue
		}
		rule, ok, err := s.ruleForPlan(ctx, plan)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}

		rangeEnd := plan.EndDate
		if to.Before(rangeEnd) {
			rangeEnd = to
		}
		if rangeEnd.Before(plan.StartDate) || plan.StartDate.After(to) {
			continue
		}

		dueDates, err := s.engine.DueDates(plan.StartDate, rangeEnd, rule)
		if err != nil {
			logger.Error("stored recurrence rejected by engine", "plan_id", plan.ID, "error", err)
			return nil, fmt.Errorf("expand plan %s: %w", plan.ID, err)
		}

		for due := range dueDates {
			if due.Before(from) {
				continue
			}
			day := s.resolver.Resolve(due, weekly, overrides, contexts)
			sessions = append(sessions, AgendaSession{
				Date:           day.Date,
				PlanID:         plan.ID,
				PlanTitle:      plan.Title,
				BookID:         plan.BookID,
				Available:      day.Available,
				Window:         day.Window,
				LoadMultiplier: day.LoadMultiplier,
			})
		}
	}

	sort.SliceStable(sessions, func(i, j int) bool {
		if !sessions[i].Date.Equal(sessions[j].Date) {
			return sessions[i].Date.Before(sessions[j].Date)
		}
		return sessions[i].PlanID < sessions[j].PlanID
	})

	logger.Info("agenda computed", "session_count", len(sessions))
	return sessions, nil
}

// ResolveDay computes the effective schedule for a single date.
func (s *AgendaService) ResolveDay(ctx context.Context, userID, date string) (schedule.EffectiveDay, error) {
	if s == nil {
		return schedule.EffectiveDay{}, fmt.Errorf("agenda service not configured")
	}

	vErr := &ValidationError{}
	if strings.TrimSpace(userID) == "" {
		vErr.add("user_id", "user id is required")
	}
	day, err := schedule.ParseDate(date, s.location)
	if err != nil {
		vErr.add("date", "must be a valid YYYY-MM-DD date")
	}
	if vErr.HasErrors() {
		return schedule.EffectiveDay{}, vErr
	}

	weekly, overrides, contexts, err := s.loadScheduleInputs(ctx, userID)
	if err != nil {
		return schedule.EffectiveDay{}, err
	}
	return s.resolver.Resolve(day, weekly, overrides, contexts), nil
}

// PlanCalendar renders one plan as an iCalendar document. Recurring plans
// carry an RRULE with exception dates; ad hoc plans collapse to a single
// all-day event spanning the plan range.
func (s *AgendaService) PlanCalendar(ctx context.Context, planID string) (string, error) {
	if s == nil || s.plans == nil {
		return "", fmt.Errorf("agenda service not configured")
	}
	logger := serviceLogger(ctx, s.logger, "agenda", "plan_calendar", "plan_id", planID)

	plan, err := s.plans.GetPlan(ctx, planID)
	if err != nil {
		return "", mapRepoError(err)
	}

	input := ics.PlanCalendarInput{
		PlanID:    plan.ID,
		Title:     plan.Title,
		PlanStart: schedule.StartOfDay(plan.StartDate, s.location),
		PlanEnd:   schedule.StartOfDay(plan.EndDate, s.location),
	}

	rule, hasRule, err := s.ruleForPlan(ctx, plan)
	if err != nil {
		return "", err
	}
	if hasRule {
		weekly, overrides, contexts, err := s.loadScheduleInputs(ctx, plan.UserID)
		if err != nil {
			return "", err
		}

		dueDates, err := s.engine.DueDates(plan.StartDate, plan.EndDate, rule)
		if err != nil {
			return "", fmt.Errorf("expand plan %s: %w", plan.ID, err)
		}

		input.Rule = rule
		input.Sessions = make(map[string]ics.Session)
		for due := range dueDates {
			input.DueDates = append(input.DueDates, due)
			day := s.resolver.Resolve(due, weekly, overrides, contexts)
			if !day.Available || day.Window == nil {
				continue
			}
			input.Sessions[due.Format("2006-01-02")] = ics.Session{
				Start: day.Window.Start.At(due, s.location),
				End:   day.Window.End.At(due, s.location),
			}
		}
	}

	document, err := s.exporter.PlanCalendar(input)
	if err != nil {
		logger.Error("calendar export failed", "error", err)
		return "", err
	}
	logger.Info("calendar exported", "due_count", len(input.DueDates))
	return document, nil
}

func (s *AgendaService) ruleForPlan(ctx context.Context, plan Plan) (schedule.Rule, bool, error) {
	if plan.Recurrence != nil {
		return plan.Recurrence.Rule(), true, nil
	}
	if s.recurrences == nil {
		return schedule.Rule{}, false, nil
	}
	rec, err := s.recurrences.GetRecurrenceForPlan(ctx, plan.ID)
	if err != nil {
		if isNotFoundError(err) {
			return schedule.Rule{}, false, nil
		}
		return schedule.Rule{}, false, mapRepoError(err)
	}
	return rec.Rule(), true, nil
}

func (s *AgendaService) loadScheduleInputs(ctx context.Context, userID string) ([]schedule.WeeklyAvailability, []schedule.Override, []schedule.LoadContext, error) {
	var weekly []schedule.WeeklyAvailability
	if s.availability != nil {
		entries, err := s.availability.ListAvailabilityForUser(ctx, userID)
		if err != nil && !isNotFoundError(err) {
			return nil, nil, nil, mapRepoError(err)
		}
		weekly = make([]schedule.WeeklyAvailability, 0, len(entries))
		for _, entry := range entries {
			weekly = append(weekly, schedule.WeeklyAvailability{
				ID:       entry.ID,
				UserID:   entry.UserID,
				Day:      entry.Day,
				Start:    entry.Start,
				End:      entry.End,
				IsActive: entry.IsActive,
			})
		}
	}

	var overrides []schedule.Override
	if s.overrides != nil {
		entries, err := s.overrides.ListOverridesForUser(ctx, userID)
		if err != nil && !isNotFoundError(err) {
			return nil, nil, nil, mapRepoError(err)
		}
		overrides = make([]schedule.Override, 0, len(entries))
		for _, entry := range entries {
			overrides = append(overrides, schedule.Override{
				ID:     entry.ID,
				UserID: entry.UserID,
				Date:   entry.Date,
				Start:  entry.Start,
				End:    entry.End,
				Off:    entry.IsOff,
			})
		}
	}

	var contexts []schedule.LoadContext
	if s.contexts != nil {
		entries, err := s.contexts.ListContextsForUser(ctx, userID)
		if err != nil && !isNotFoundError(err) {
			return nil, nil, nil, mapRepoError(err)
		}
		contexts = make([]schedule.LoadContext, 0, len(entries))
		for _, entry := range entries {
			contexts = append(contexts, schedule.LoadContext{
				ID:             entry.ID,
				UserID:         entry.UserID,
				Type:           entry.Type,
				StartDate:      entry.StartDate,
				EndDate:        entry.EndDate,
				LoadMultiplier: entry.LoadMultiplier,
			})
		}
	}

	return weekly, overrides, contexts, nil
}
