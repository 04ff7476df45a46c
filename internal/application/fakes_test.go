package application_test

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/example/study-scheduler/internal/application"
	"github.com/example/study-scheduler/internal/persistence"
)

// In-memory repositories backing the service tests. They return the
// persistence sentinels so the services exercise their error mapping.

type fakeAvailabilityRepo struct {
	mu      sync.Mutex
	entries map[string]application.Availability
}

func newFakeAvailabilityRepo() *fakeAvailabilityRepo {
	return &fakeAvailabilityRepo{entries: make(map[string]application.Availability)}
}

func (r *fakeAvailabilityRepo) CreateAvailability(_ context.Context, entry application.Availability) (application.Availability, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.entries[entry.ID]; ok {
		return application.Availability{}, persistence.ErrDuplicate
	}
	r.entries[entry.ID] = entry
	return entry, nil
}

func (r *fakeAvailabilityRepo) UpdateAvailability(_ context.Context, entry application.Availability) (application.Availability, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.entries[entry.ID]; !ok {
		return application.Availability{}, persistence.ErrNotFound
	}
	r.entries[entry.ID] = entry
	return entry, nil
}

func (r *fakeAvailabilityRepo) GetAvailability(_ context.Context, id string) (application.Availability, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.entries[id]
	if !ok {
		return application.Availability{}, persistence.ErrNotFound
	}
	return entry, nil
}

func (r *fakeAvailabilityRepo) ListAvailabilityForUser(_ context.Context, userID string) ([]application.Availability, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]application.Availability, 0)
	for _, entry := range r.entries {
		if entry.UserID == userID {
			out = append(out, entry)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeAvailabilityRepo) DeleteAvailability(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.entries[id]; !ok {
		return persistence.ErrNotFound
	}
	delete(r.entries, id)
	return nil
}

type fakeOverrideRepo struct {
	mu        sync.Mutex
	overrides map[string]application.Override
}

func newFakeOverrideRepo() *fakeOverrideRepo {
	return &fakeOverrideRepo{overrides: make(map[string]application.Override)}
}

func (r *fakeOverrideRepo) CreateOverride(_ context.Context, override application.Override) (application.Override, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.overrides[override.ID]; ok {
		return application.Override{}, persistence.ErrDuplicate
	}
	r.overrides[override.ID] = override
	return override, nil
}

func (r *fakeOverrideRepo) UpdateOverride(_ context.Context, override application.Override) (application.Override, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.overrides[override.ID]; !ok {
		return application.Override{}, persistence.ErrNotFound
	}
	r.overrides[override.ID] = override
	return override, nil
}

func (r *fakeOverrideRepo) GetOverride(_ context.Context, id string) (application.Override, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	override, ok := r.overrides[id]
	if !ok {
		return application.Override{}, persistence.ErrNotFound
	}
	return override, nil
}

func (r *fakeOverrideRepo) ListOverridesForUser(_ context.Context, userID string) ([]application.Override, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]application.Override, 0)
	for _, override := range r.overrides {
		if override.UserID == userID {
			out = append(out, override)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeOverrideRepo) DeleteOverride(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.overrides[id]; !ok {
		return persistence.ErrNotFound
	}
	delete(r.overrides, id)
	return nil
}

func (r *fakeOverrideRepo) DeleteOverridesBefore(_ context.Context, cutoff time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var removed int64
	for id, override := range r.overrides {
		if override.Date.Before(cutoff) {
			delete(r.overrides, id)
			removed++
		}
	}
	return removed, nil
}

type fakeContextRepo struct {
	mu       sync.Mutex
	contexts map[string]application.ScheduleContext
}

func newFakeContextRepo() *fakeContextRepo {
	return &fakeContextRepo{contexts: make(map[string]application.ScheduleContext)}
}

func (r *fakeContextRepo) CreateContext(_ context.Context, sc application.ScheduleContext) (application.ScheduleContext, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.contexts[sc.ID]; ok {
		return application.ScheduleContext{}, persistence.ErrDuplicate
	}
	r.contexts[sc.ID] = sc
	return sc, nil
}

func (r *fakeContextRepo) UpdateContext(_ context.Context, sc application.ScheduleContext) (application.ScheduleContext, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.contexts[sc.ID]; !ok {
		return application.ScheduleContext{}, persistence.ErrNotFound
	}
	r.contexts[sc.ID] = sc
	return sc, nil
}

func (r *fakeContextRepo) GetContext(_ context.Context, id string) (application.ScheduleContext, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sc, ok := r.contexts[id]
	if !ok {
		return application.ScheduleContext{}, persistence.ErrNotFound
	}
	return sc, nil
}

func (r *fakeContextRepo) ListContextsForUser(_ context.Context, userID string) ([]application.ScheduleContext, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]application.ScheduleContext, 0)
	for _, sc := range r.contexts {
		if sc.UserID == userID {
			out = append(out, sc)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeContextRepo) DeleteContext(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.contexts[id]; !ok {
		return persistence.ErrNotFound
	}
	delete(r.contexts, id)
	return nil
}

func (r *fakeContextRepo) DeleteContextsEndingBefore(_ context.Context, cutoff time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var removed int64
	for id, sc := range r.contexts {
		if sc.EndDate.Before(cutoff) {
			delete(r.contexts, id)
			removed++
		}
	}
	return removed, nil
}

type fakePlanRepo struct {
	mu    sync.Mutex
	plans map[string]application.Plan
}

func newFakePlanRepo() *fakePlanRepo {
	return &fakePlanRepo{plans: make(map[string]application.Plan)}
}

func (r *fakePlanRepo) CreatePlan(_ context.Context, plan application.Plan) (application.Plan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.plans[plan.ID]; ok {
		return application.Plan{}, persistence.ErrDuplicate
	}
	r.plans[plan.ID] = plan
	return plan, nil
}

func (r *fakePlanRepo) UpdatePlan(_ context.Context, plan application.Plan) (application.Plan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.plans[plan.ID]; !ok {
		return application.Plan{}, persistence.ErrNotFound
	}
	r.plans[plan.ID] = plan
	return plan, nil
}

func (r *fakePlanRepo) GetPlan(_ context.Context, id string) (application.Plan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	plan, ok := r.plans[id]
	if !ok {
		return application.Plan{}, persistence.ErrNotFound
	}
	return plan, nil
}

func (r *fakePlanRepo) ListPlansForUser(_ context.Context, userID string) ([]application.Plan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]application.Plan, 0)
	for _, plan := range r.plans {
		if plan.UserID == userID {
			out = append(out, plan)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakePlanRepo) DeletePlan(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.plans[id]; !ok {
		return persistence.ErrNotFound
	}
	delete(r.plans, id)
	return nil
}

type fakeRecurrenceRepo struct {
	mu    sync.Mutex
	rules map[string]application.Recurrence // keyed by plan ID
}

func newFakeRecurrenceRepo() *fakeRecurrenceRepo {
	return &fakeRecurrenceRepo{rules: make(map[string]application.Recurrence)}
}

func (r *fakeRecurrenceRepo) UpsertRecurrence(_ context.Context, rule application.Recurrence) (application.Recurrence, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.rules[rule.PlanID]; ok {
		rule.ID = existing.ID
		rule.CreatedAt = existing.CreatedAt
	}
	r.rules[rule.PlanID] = rule
	return rule, nil
}

func (r *fakeRecurrenceRepo) GetRecurrenceForPlan(_ context.Context, planID string) (application.Recurrence, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rule, ok := r.rules[planID]
	if !ok {
		return application.Recurrence{}, persistence.ErrNotFound
	}
	return rule, nil
}

func (r *fakeRecurrenceRepo) DeleteRecurrenceForPlan(_ context.Context, planID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.rules, planID)
	return nil
}
