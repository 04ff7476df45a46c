package schedule

import "time"

// ContextType names the kind of period a load context represents.
type ContextType string

const (
	ContextExamPeriod ContextType = "exam_period"
	ContextVacation   ContextType = "vacation"
	ContextLightStudy ContextType = "light_study"
	ContextCustom     ContextType = "custom"
)

// DefaultLoadMultiplier applies when no context covers a date.
const DefaultLoadMultiplier = 1.0

// LoadContext scales expected study intensity over an inclusive date range.
// Ranges of different contexts may overlap.
type LoadContext struct {
	ID             string
	UserID         string
	Type           ContextType
	StartDate      time.Time
	EndDate        time.Time
	LoadMultiplier float64
}

// ActiveContext selects the single context governing date. Among overlapping
// contexts the one with the latest start date wins, so a period declared
// inside a broader one (an exam period inside a vacation) overrides it.
// Contexts starting on the same date break the tie on the greatest ID.
func ActiveContext(date time.Time, contexts []LoadContext) (LoadContext, bool) {
	day := civilDays(date)

	var active LoadContext
	found := false
	for _, c := range contexts {
		if day < civilDays(c.StartDate) || day > civilDays(c.EndDate) {
			continue
		}
		if !found || startsLater(c, active) {
			active = c
			found = true
		}
	}
	return active, found
}

// ActiveMultiplier returns the load multiplier of the context governing date,
// or DefaultLoadMultiplier when none covers it.
func ActiveMultiplier(date time.Time, contexts []LoadContext) float64 {
	if c, ok := ActiveContext(date, contexts); ok {
		return c.LoadMultiplier
	}
	return DefaultLoadMultiplier
}

func startsLater(a, b LoadContext) bool {
	as, bs := civilDays(a.StartDate), civilDays(b.StartDate)
	if as != bs {
		return as > bs
	}
	return a.ID > b.ID
}
