// Package testfixtures provides deterministic clocks, identifier generators,
// and domain fixtures shared by service and handler tests.
package testfixtures

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/example/study-scheduler/internal/application"
	"github.com/example/study-scheduler/internal/schedule"
)

var (
	availabilityCounter uint64
	overrideCounter     uint64
	contextCounter      uint64
	planCounter         uint64
)

var referenceTime = time.Date(2024, time.January, 2, 15, 4, 5, 0, time.UTC)

// ReferenceTime returns the canonical baseline timestamp used by fixtures.
func ReferenceTime() time.Time {
	return referenceTime
}

// MustTimeOfDay parses a HH:MM[:SS] string and panics on failure. Intended
// for fixture literals only.
func MustTimeOfDay(text string) schedule.TimeOfDay {
	tod, err := schedule.ParseTimeOfDay(text)
	if err != nil {
		panic(fmt.Sprintf("testfixtures: bad time of day %q: %v", text, err))
	}
	return tod
}

// Date builds a UTC midnight for fixture literals.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// ------------------------- Availability fixtures -------------------------

// AvailabilityOption configures a generated availability fixture.
type AvailabilityOption func(*application.Availability)

// NewAvailabilityFixture returns a deterministic weekly availability entry.
func NewAvailabilityFixture(opts ...AvailabilityOption) application.Availability {
	idx := atomic.AddUint64(&availabilityCounter, 1)
	created := referenceTime.Add(time.Duration(idx) * time.Minute)
	fixture := application.Availability{
		ID:        fmt.Sprintf("avail-%03d", idx),
		UserID:    "user-001",
		Day:       schedule.ISOMonday,
		Start:     MustTimeOfDay("19:00"),
		End:       MustTimeOfDay("21:00"),
		IsActive:  true,
		CreatedAt: created,
		UpdatedAt: created,
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithAvailabilityDay overrides the weekday.
func WithAvailabilityDay(day schedule.ISODay) AvailabilityOption {
	return func(f *application.Availability) {
		f.Day = day
	}
}

// WithAvailabilityWindow overrides the start and end times.
func WithAvailabilityWindow(start, end string) AvailabilityOption {
	return func(f *application.Availability) {
		f.Start = MustTimeOfDay(start)
		f.End = MustTimeOfDay(end)
	}
}

// WithAvailabilityUser overrides the owner.
func WithAvailabilityUser(userID string) AvailabilityOption {
	return func(f *application.Availability) {
		f.UserID = userID
	}
}

// WithAvailabilityActive sets the active flag.
func WithAvailabilityActive(active bool) AvailabilityOption {
	return func(f *application.Availability) {
		f.IsActive = active
	}
}

// --------------------------- Override fixtures ---------------------------

// OverrideOption configures a generated override fixture.
type OverrideOption func(*application.Override)

// NewOverrideFixture returns a deterministic day-off override.
func NewOverrideFixture(opts ...OverrideOption) application.Override {
	idx := atomic.AddUint64(&overrideCounter, 1)
	created := referenceTime.Add(time.Duration(idx) * time.Minute)
	fixture := application.Override{
		ID:        fmt.Sprintf("override-%03d", idx),
		UserID:    "user-001",
		Date:      Date(2024, time.January, 8),
		IsOff:     true,
		CreatedAt: created,
		UpdatedAt: created,
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithOverrideDate overrides the date.
func WithOverrideDate(date time.Time) OverrideOption {
	return func(f *application.Override) {
		f.Date = date
	}
}

// WithOverrideWindow turns the override into a working one with the given
// window.
func WithOverrideWindow(start, end string) OverrideOption {
	return func(f *application.Override) {
		s := MustTimeOfDay(start)
		e := MustTimeOfDay(end)
		f.Start = &s
		f.End = &e
		f.IsOff = false
	}
}

// WithOverrideUser overrides the owner.
func WithOverrideUser(userID string) OverrideOption {
	return func(f *application.Override) {
		f.UserID = userID
	}
}

// ---------------------------- Context fixtures ---------------------------

// ContextOption configures a generated load context fixture.
type ContextOption func(*application.ScheduleContext)

// NewContextFixture returns a deterministic exam period context.
func NewContextFixture(opts ...ContextOption) application.ScheduleContext {
	idx := atomic.AddUint64(&contextCounter, 1)
	created := referenceTime.Add(time.Duration(idx) * time.Minute)
	fixture := application.ScheduleContext{
		ID:             fmt.Sprintf("context-%03d", idx),
		UserID:         "user-001",
		Type:           schedule.ContextExamPeriod,
		StartDate:      Date(2024, time.January, 10),
		EndDate:        Date(2024, time.January, 20),
		LoadMultiplier: 2.0,
		CreatedAt:      created,
		UpdatedAt:      created,
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithContextRange overrides the date range.
func WithContextRange(start, end time.Time) ContextOption {
	return func(f *application.ScheduleContext) {
		f.StartDate = start
		f.EndDate = end
	}
}

// WithContextMultiplier overrides the load multiplier.
func WithContextMultiplier(multiplier float64) ContextOption {
	return func(f *application.ScheduleContext) {
		f.LoadMultiplier = multiplier
	}
}

// WithContextType overrides the context type.
func WithContextType(contextType schedule.ContextType) ContextOption {
	return func(f *application.ScheduleContext) {
		f.Type = contextType
	}
}

// WithContextUser overrides the owner.
func WithContextUser(userID string) ContextOption {
	return func(f *application.ScheduleContext) {
		f.UserID = userID
	}
}

// ------------------------------ Plan fixtures ----------------------------

// PlanOption configures a generated plan fixture.
type PlanOption func(*application.Plan)

// NewPlanFixture returns a deterministic active study plan without a
// recurrence rule.
func NewPlanFixture(opts ...PlanOption) application.Plan {
	idx := atomic.AddUint64(&planCounter, 1)
	created := referenceTime.Add(time.Duration(idx) * time.Minute)
	fixture := application.Plan{
		ID:        fmt.Sprintf("plan-%03d", idx),
		UserID:    "user-001",
		BookID:    fmt.Sprintf("book-%03d", idx),
		Title:     fmt.Sprintf("Plan %03d", idx),
		StartDate: Date(2024, time.January, 1),
		EndDate:   Date(2024, time.January, 31),
		Status:    application.PlanActive,
		CreatedAt: created,
		UpdatedAt: created,
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithPlanRange overrides the plan date range.
func WithPlanRange(start, end time.Time) PlanOption {
	return func(f *application.Plan) {
		f.StartDate = start
		f.EndDate = end
	}
}

// WithPlanStatus overrides the status.
func WithPlanStatus(status application.PlanStatus) PlanOption {
	return func(f *application.Plan) {
		f.Status = status
	}
}

// WithPlanUser overrides the owner.
func WithPlanUser(userID string) PlanOption {
	return func(f *application.Plan) {
		f.UserID = userID
	}
}

// WithPlanRecurrence attaches a recurrence rule.
func WithPlanRecurrence(ruleType schedule.RuleType, interval int, days ...schedule.ISODay) PlanOption {
	return func(f *application.Plan) {
		f.Recurrence = &application.Recurrence{
			ID:        f.ID + "-rule",
			PlanID:    f.ID,
			Type:      ruleType,
			Interval:  interval,
			Days:      days,
			CreatedAt: f.CreatedAt,
			UpdatedAt: f.UpdatedAt,
		}
	}
}
