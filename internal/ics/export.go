// Package ics renders study plans as iCalendar documents so users can
// subscribe to their plan from an external calendar client.
package ics

import (
	"fmt"
	"sort"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/teambition/rrule-go"

	"github.com/example/study-scheduler/internal/schedule"
)

const (
	productID  = "-//study-scheduler//plan calendar//EN"
	uidDomain  = "study-scheduler"
	dateKeyFmt = "2006-01-02"
	exdateFmt  = "20060102T150405Z"
)

// Session is one concrete study session with absolute bounds.
type Session struct {
	Start time.Time
	End   time.Time
}

// PlanCalendarInput carries everything needed to render one plan.
//
// DueDates are the nominal recurrence dates of the plan, as local midnights.
// Sessions maps YYYY-MM-DD keys to the session actually scheduled on that
// date; a due date with no session entry was skipped (day off or no
// availability).
type PlanCalendarInput struct {
	PlanID    string
	Title     string
	PlanStart time.Time
	PlanEnd   time.Time
	Rule      schedule.Rule
	DueDates  []time.Time
	Sessions  map[string]Session
}

// Exporter renders plan calendars. The clock is injectable for tests.
type Exporter struct {
	now func() time.Time
}

// NewExporter constructs an Exporter. A nil clock falls back to time.Now.
func NewExporter(now func() time.Time) *Exporter {
	if now == nil {
		now = time.Now
	}
	return &Exporter{now: now}
}

// PlanCalendar serializes the plan as a VCALENDAR document.
//
// Plans with a recurrence rule become one recurring VEVENT carrying an RRULE
// for the dominant session window, EXDATEs for skipped or overridden dates,
// and a standalone VEVENT per session whose window deviates from the
// dominant one. Ad hoc plans become a single all-day event spanning the plan
// range.
func (e *Exporter) PlanCalendar(in PlanCalendarInput) (string, error) {
	if in.PlanID == "" {
		return "", fmt.Errorf("ics: plan id is required")
	}

	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(productID)

	if in.Rule.Type == schedule.RuleUnspecified || len(in.DueDates) == 0 {
		e.addPlanSpanEvent(cal, in)
		return cal.Serialize(), nil
	}

	dominant, ok := dominantWindow(in.Sessions)
	if !ok {
		// Every due date was skipped. Emit the skeleton with EXDATEs so
		// the subscriber still sees nothing scheduled.
		dominant = window{start: "09:00:00", duration: time.Hour}
	}

	ruleString, err := buildRRule(in, dominant)
	if err != nil {
		return "", err
	}

	stamp := e.now().UTC()
	recurring := cal.AddEvent(fmt.Sprintf("%s@%s", in.PlanID, uidDomain))
	recurring.SetDtStampTime(stamp)
	recurring.SetSummary(in.Title)
	recurring.SetStartAt(dominant.at(in.DueDates[0]).UTC())
	recurring.SetEndAt(dominant.at(in.DueDates[0]).Add(dominant.duration).UTC())
	recurring.AddRrule(ruleString)

	for _, due := range in.DueDates {
		key := due.Format(dateKeyFmt)
		instance := dominant.at(due).UTC()

		sess, scheduled := in.Sessions[key]
		if scheduled && windowOf(sess) == dominant {
			continue
		}

		recurring.AddExdate(instance.Format(exdateFmt))
		if !scheduled {
			continue
		}

		moved := cal.AddEvent(fmt.Sprintf("%s-%s@%s", in.PlanID, key, uidDomain))
		moved.SetDtStampTime(stamp)
		moved.SetSummary(in.Title)
		moved.SetStartAt(sess.Start.UTC())
		moved.SetEndAt(sess.End.UTC())
	}

	return cal.Serialize(), nil
}

func (e *Exporter) addPlanSpanEvent(cal *ical.Calendar, in PlanCalendarInput) {
	event := cal.AddEvent(fmt.Sprintf("%s@%s", in.PlanID, uidDomain))
	event.SetDtStampTime(e.now().UTC())
	event.SetSummary(in.Title)
	event.SetAllDayStartAt(in.PlanStart)
	event.SetAllDayEndAt(in.PlanEnd.AddDate(0, 0, 1))
}

// window is a session's clock-time shape, independent of its date.
type window struct {
	start    string
	duration time.Duration
}

func windowOf(sess Session) window {
	return window{
		start:    sess.Start.Format("15:04:05"),
		duration: sess.End.Sub(sess.Start),
	}
}

// at places the window's start time onto the given local midnight.
func (w window) at(day time.Time) time.Time {
	start, err := schedule.ParseTimeOfDay(w.start)
	if err != nil {
		return day
	}
	return start.At(day, day.Location())
}

// dominantWindow picks the most common session shape; ties break toward the
// earliest start so output is deterministic.
func dominantWindow(sessions map[string]Session) (window, bool) {
	counts := make(map[window]int)
	for _, sess := range sessions {
		counts[windowOf(sess)]++
	}
	if len(counts) == 0 {
		return window{}, false
	}

	candidates := make([]window, 0, len(counts))
	for w := range counts {
		candidates = append(candidates, w)
	}
	sort.Slice(candidates, func(i, j int) bool {
		if counts[candidates[i]] != counts[candidates[j]] {
			return counts[candidates[i]] > counts[candidates[j]]
		}
		return candidates[i].start < candidates[j].start
	})
	return candidates[0], true
}

func buildRRule(in PlanCalendarInput, dominant window) (string, error) {
	until := dominant.at(in.DueDates[len(in.DueDates)-1]).UTC()

	opt := rrule.ROption{
		Interval: in.Rule.Interval,
		Wkst:     rrule.MO,
		Until:    until,
		Dtstart:  dominant.at(in.DueDates[0]).UTC(),
	}

	switch in.Rule.Type {
	case schedule.RuleDaily:
		opt.Freq = rrule.DAILY
	case schedule.RuleWeekly, schedule.RuleCustom:
		opt.Freq = rrule.WEEKLY
		byday, err := rruleWeekdays(in.Rule.Days)
		if err != nil {
			return "", err
		}
		opt.Byweekday = byday
	default:
		return "", fmt.Errorf("ics: unsupported rule type %d", in.Rule.Type)
	}

	r, err := rrule.NewRRule(opt)
	if err != nil {
		return "", fmt.Errorf("ics: build rrule: %w", err)
	}
	// RRuleString omits the DTSTART line; the event carries its own DTSTART.
	return r.OrigOptions.RRuleString(), nil
}

var isoToRRule = map[schedule.ISODay]rrule.Weekday{
	schedule.ISOMonday:    rrule.MO,
	schedule.ISOTuesday:   rrule.TU,
	schedule.ISOWednesday: rrule.WE,
	schedule.ISOThursday:  rrule.TH,
	schedule.ISOFriday:    rrule.FR,
	schedule.ISOSaturday:  rrule.SA,
	schedule.ISOSunday:    rrule.SU,
}

func rruleWeekdays(days []schedule.ISODay) ([]rrule.Weekday, error) {
	out := make([]rrule.Weekday, 0, len(days))
	for _, day := range days {
		wd, ok := isoToRRule[day]
		if !ok {
			return nil, fmt.Errorf("ics: %w", schedule.ErrInvalidDayOfWeek)
		}
		out = append(out, wd)
	}
	return out, nil
}
