package persistence

import "time"

// WeeklyAvailability represents one recurring study window stored for a user.
// DayOfWeek uses the ISO convention (1=Monday .. 7=Sunday); start and end
// times are HH:MM:SS strings.
type WeeklyAvailability struct {
	ID        string
	UserID    string
	DayOfWeek int
	StartTime string
	EndTime   string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ScheduleOverride replaces the weekly pattern on a single date. Date is a
// YYYY-MM-DD string; the time fields are nil when the override marks the
// date off.
type ScheduleOverride struct {
	ID        string
	UserID    string
	Date      string
	StartTime *string
	EndTime   *string
	IsOff     bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ScheduleContext is a named period scaling expected study intensity.
// StartDate and EndDate are inclusive YYYY-MM-DD strings.
type ScheduleContext struct {
	ID             string
	UserID         string
	ContextType    string
	StartDate      string
	EndDate        string
	LoadMultiplier float64
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// StudyPlan represents a book study plan. Status is one of active, paused,
// completed, cancelled.
type StudyPlan struct {
	ID        string
	UserID    string
	BookID    string
	Title     string
	StartDate string
	EndDate   string
	Status    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// RecurrenceRule configures how a study plan repeats. RuleType is one of
// daily, weekly, custom; Days holds ISO weekday numbers.
type RecurrenceRule struct {
	ID        string
	PlanID    string
	RuleType  string
	Interval  int
	Days      []int
	CreatedAt time.Time
	UpdatedAt time.Time
}
