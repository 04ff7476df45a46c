package application

import (
	"time"

	"github.com/example/study-scheduler/internal/schedule"
)

// Availability represents a persisted weekly availability entry.
type Availability struct {
	ID        string
	UserID    string
	Day       schedule.ISODay
	Start     schedule.TimeOfDay
	End       schedule.TimeOfDay
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// AvailabilityInput captures caller provided weekly availability fields.
// Times arrive as HH:MM[:SS] strings straight off the wire.
type AvailabilityInput struct {
	UserID   string
	Day      schedule.ISODay
	Start    string
	End      string
	IsActive bool
}

// Override represents a persisted per-date schedule override.
type Override struct {
	ID        string
	UserID    string
	Date      time.Time
	Start     *schedule.TimeOfDay
	End       *schedule.TimeOfDay
	IsOff     bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// OverrideInput captures caller provided override fields. Date is a
// YYYY-MM-DD string; the window fields stay nil for day-off overrides.
type OverrideInput struct {
	UserID string
	Date   string
	Start  *string
	End    *string
	IsOff  bool
}

// ScheduleContext represents a persisted load context.
type ScheduleContext struct {
	ID             string
	UserID         string
	Type           schedule.ContextType
	StartDate      time.Time
	EndDate        time.Time
	LoadMultiplier float64
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// ContextInput captures caller provided load context fields.
type ContextInput struct {
	UserID         string
	Type           string
	StartDate      string
	EndDate        string
	LoadMultiplier float64
}

// PlanStatus is the lifecycle state of a study plan.
type PlanStatus string

const (
	PlanActive    PlanStatus = "active"
	PlanPaused    PlanStatus = "paused"
	PlanCompleted PlanStatus = "completed"
	PlanCancelled PlanStatus = "cancelled"
)

// Valid reports whether s is one of the known statuses.
func (s PlanStatus) Valid() bool {
	switch s {
	case PlanActive, PlanPaused, PlanCompleted, PlanCancelled:
		return true
	}
	return false
}

// Plan represents a persisted study plan. Recurrence is nil for ad hoc plans.
type Plan struct {
	ID         string
	UserID     string
	BookID     string
	Title      string
	StartDate  time.Time
	EndDate    time.Time
	Status     PlanStatus
	Recurrence *Recurrence
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// PlanInput captures caller provided plan fields. Dates are YYYY-MM-DD
// strings off the wire.
type PlanInput struct {
	UserID    string
	BookID    string
	Title     string
	StartDate string
	EndDate   string
}

// Recurrence represents a plan's persisted recurrence rule.
type Recurrence struct {
	ID        string
	PlanID    string
	Type      schedule.RuleType
	Interval  int
	Days      []schedule.ISODay
	CreatedAt time.Time
	UpdatedAt time.Time
}

// RecurrenceInput captures caller provided recurrence fields. Days arrive
// already translated into the ISO convention by the transport layer.
type RecurrenceInput struct {
	Type     string
	Interval int
	Days     []schedule.ISODay
}

// Rule converts the stored recurrence into the engine's rule shape.
func (r *Recurrence) Rule() schedule.Rule {
	if r == nil {
		return schedule.Rule{}
	}
	return schedule.Rule{
		ID:       r.ID,
		PlanID:   r.PlanID,
		Type:     r.Type,
		Interval: r.Interval,
		Days:     r.Days,
	}
}

// AgendaParams bounds an agenda computation. From and To are YYYY-MM-DD
// strings; both bounds are inclusive.
type AgendaParams struct {
	UserID string
	From   string
	To     string
}

// AgendaSession is one planned study session on a resolved date.
type AgendaSession struct {
	Date           time.Time
	PlanID         string
	PlanTitle      string
	BookID         string
	Available      bool
	Window         *schedule.TimeRange
	LoadMultiplier float64
}

// RuleTypeFromString maps the wire encoding of a rule type onto the engine
// enum. Unknown values map to schedule.RuleUnspecified.
func RuleTypeFromString(s string) schedule.RuleType {
	switch s {
	case "daily":
		return schedule.RuleDaily
	case "weekly":
		return schedule.RuleWeekly
	case "custom":
		return schedule.RuleCustom
	default:
		return schedule.RuleUnspecified
	}
}

// RuleTypeToString is the inverse of RuleTypeFromString.
func RuleTypeToString(t schedule.RuleType) string {
	switch t {
	case schedule.RuleDaily:
		return "daily"
	case schedule.RuleWeekly:
		return "weekly"
	case schedule.RuleCustom:
		return "custom"
	default:
		return ""
	}
}
