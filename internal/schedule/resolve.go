package schedule

import "time"

// WeeklyAvailability is one recurring study window on a fixed weekday.
// A user may hold several entries for the same day; Resolve breaks that tie
// deterministically.
type WeeklyAvailability struct {
	ID       string
	UserID   string
	Day      ISODay
	Start    TimeOfDay
	End      TimeOfDay
	IsActive bool
}

// Override replaces the weekly pattern on one specific date. Off marks the
// whole date unavailable regardless of the window fields.
type Override struct {
	ID     string
	UserID string
	Date   time.Time
	Start  *TimeOfDay
	End    *TimeOfDay
	Off    bool
}

// TimeRange is a study window within a single day.
type TimeRange struct {
	Start TimeOfDay
	End   TimeOfDay
}

// EffectiveDay is the resolved outcome for one calendar date: whether study
// is expected, inside which window, and at what intensity.
type EffectiveDay struct {
	Date           time.Time
	Available      bool
	Window         *TimeRange
	LoadMultiplier float64
}

// Resolver combines weekly availability, per-date overrides, and load
// contexts into effective days, normalized to a single location.
type Resolver struct {
	location *time.Location
}

// NewResolver constructs a Resolver that evaluates dates in loc.
// If loc is nil, the process-local timezone is used.
func NewResolver(loc *time.Location) *Resolver {
	if loc == nil {
		loc = time.Local
	}
	return &Resolver{location: loc}
}

// Resolve computes the effective day for date.
//
// Precedence:
//   - A matching override wins over the weekly pattern. Several overrides on
//     the same date collapse to the one with the greatest ID. Off overrides,
//     and overrides missing either window bound, make the date unavailable.
//   - Otherwise the active weekly entries for the date's weekday apply; with
//     several, the earliest start time wins.
//
// The load multiplier is resolved independently of availability, so a date
// can be unavailable yet still carry a context multiplier.
func (r *Resolver) Resolve(date time.Time, weekly []WeeklyAvailability, overrides []Override, contexts []LoadContext) EffectiveDay {
	loc := r.location
	if loc == nil {
		loc = time.Local
	}

	day := StartOfDay(date, loc)
	result := EffectiveDay{
		Date:           day,
		LoadMultiplier: ActiveMultiplier(day, contexts),
	}

	if ov, ok := overrideFor(day, overrides, loc); ok {
		if ov.Off || ov.Start == nil || ov.End == nil {
			return result
		}
		result.Available = true
		result.Window = &TimeRange{Start: *ov.Start, End: *ov.End}
		return result
	}

	if slot, ok := weeklySlotFor(ISODayOf(day), weekly); ok {
		result.Available = true
		result.Window = &TimeRange{Start: slot.Start, End: slot.End}
	}

	return result
}

// overrideFor picks the override matching day. Duplicates collapse to the
// lexicographically greatest ID so repeated resolution stays stable.
func overrideFor(day time.Time, overrides []Override, loc *time.Location) (Override, bool) {
	var match Override
	found := false
	for _, ov := range overrides {
		if !SameDate(ov.Date, day, loc) {
			continue
		}
		if !found || ov.ID > match.ID {
			match = ov
			found = true
		}
	}
	return match, found
}

// weeklySlotFor picks the active entry for day. Concurrent entries collapse
// to the earliest start time, then the smallest ID.
func weeklySlotFor(day ISODay, weekly []WeeklyAvailability) (WeeklyAvailability, bool) {
	var slot WeeklyAvailability
	found := false
	for _, w := range weekly {
		if !w.IsActive || w.Day != day {
			continue
		}
		if !found || earlierSlot(w, slot) {
			slot = w
			found = true
		}
	}
	return slot, found
}

func earlierSlot(a, b WeeklyAvailability) bool {
	as, bs := a.Start.SecondsFromMidnight(), b.Start.SecondsFromMidnight()
	if as != bs {
		return as < bs
	}
	return a.ID < b.ID
}
