package schedule

import (
	"errors"
	"iter"
	"time"
)

// RuleType identifies how a recurrence rule repeats.
type RuleType int

const (
	// RuleUnspecified indicates the rule type is not set.
	RuleUnspecified RuleType = iota
	// RuleDaily repeats every Interval days from the plan start date.
	RuleDaily
	// RuleWeekly repeats on selected weekdays every Interval weeks.
	RuleWeekly
	// RuleCustom behaves like RuleWeekly; it exists so callers can label
	// user-built patterns separately from the weekly preset.
	RuleCustom
)

// Rule describes a recurrence configuration for a study plan.
type Rule struct {
	ID       string
	PlanID   string
	Type     RuleType
	Interval int
	Days     []ISODay
}

// ErrInvalidRuleType indicates the recurrence rule type is not supported.
var ErrInvalidRuleType = errors.New("schedule: invalid recurrence rule type")

// ErrInvalidInterval indicates a recurrence interval below 1.
var ErrInvalidInterval = errors.New("schedule: recurrence interval must be at least 1")

// ErrMissingWeekdays indicates a weekly rule without any selected weekday.
var ErrMissingWeekdays = errors.New("schedule: weekly recurrence requires at least one weekday")

// ErrInvalidRange indicates a plan range whose end precedes its start.
var ErrInvalidRange = errors.New("schedule: plan end date precedes start date")

// Engine expands recurrence rules into due dates.
type Engine struct {
	location *time.Location
}

// NewEngine constructs an Engine that evaluates dates in loc.
// If loc is nil, the process-local timezone is used.
func NewEngine(loc *time.Location) *Engine {
	if loc == nil {
		loc = time.Local
	}
	return &Engine{location: loc}
}

// DueDates returns the sequence of calendar dates on which rule indicates a
// study session between start and end inclusive. Each emitted value is a
// midnight in the engine's location.
//
// The sequence is lazy and restartable: ranging over it twice replays the
// same dates, and no cursor state survives between calls. Rule validation
// happens up front so an invalid rule never yields a partial sequence.
//
// Semantics by rule type:
//   - Daily: every Interval-th date starting at the start date.
//   - Weekly/Custom: dates whose ISO weekday is selected and whose
//     Monday-based week offset from the start date's week is a multiple of
//     Interval.
//
// Plan status gating is deliberately not handled here; callers decide which
// plans may produce due dates at all.
func (e *Engine) DueDates(start, end time.Time, rule Rule) (iter.Seq[time.Time], error) {
	loc := e.location
	if loc == nil {
		loc = time.Local
	}

	first := StartOfDay(start, loc)
	last := StartOfDay(end, loc)
	if last.Before(first) {
		return nil, ErrInvalidRange
	}
	if rule.Interval < 1 {
		return nil, ErrInvalidInterval
	}

	switch rule.Type {
	case RuleDaily:
		step := rule.Interval
		return func(yield func(time.Time) bool) {
			for d := first; !d.After(last); d = d.AddDate(0, 0, step) {
				if !yield(d) {
					return
				}
			}
		}, nil

	case RuleWeekly, RuleCustom:
		if len(rule.Days) == 0 {
			return nil, ErrMissingWeekdays
		}
		selected := make(map[ISODay]struct{}, len(rule.Days))
		for _, day := range rule.Days {
			if !day.Valid() {
				return nil, ErrInvalidDayOfWeek
			}
			selected[day] = struct{}{}
		}
		anchorWeek := civilDays(StartOfWeek(first, loc))
		interval := rule.Interval
		return func(yield func(time.Time) bool) {
			for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
				if _, ok := selected[ISODayOf(d)]; !ok {
					continue
				}
				weeks := (civilDays(StartOfWeek(d, loc)) - anchorWeek) / 7
				if weeks%interval != 0 {
					continue
				}
				if !yield(d) {
					return
				}
			}
		}, nil

	default:
		return nil, ErrInvalidRuleType
	}
}
