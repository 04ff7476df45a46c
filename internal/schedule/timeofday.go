package schedule

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrUnparsableTime indicates date or time text in none of the accepted
// encodings. Callers decide the fallback; the parser never substitutes the
// current clock reading.
var ErrUnparsableTime = errors.New("schedule: unparsable date or time")

// TimeOfDay is a wall-clock time within a day, independent of any date or
// timezone.
type TimeOfDay struct {
	Hour   int
	Minute int
	Second int
}

// ParseTimeOfDay parses a 24-hour HH:MM or HH:MM:SS string. Any other shape,
// including 12-hour clock or out-of-range components, is an error.
func ParseTimeOfDay(text string) (TimeOfDay, error) {
	parts := strings.Split(strings.TrimSpace(text), ":")
	if len(parts) != 2 && len(parts) != 3 {
		return TimeOfDay{}, fmt.Errorf("%w: %q", ErrUnparsableTime, text)
	}

	values := make([]int, len(parts))
	for i, part := range parts {
		if len(part) != 2 {
			return TimeOfDay{}, fmt.Errorf("%w: %q", ErrUnparsableTime, text)
		}
		value := 0
		for _, r := range part {
			if r < '0' || r > '9' {
				return TimeOfDay{}, fmt.Errorf("%w: %q", ErrUnparsableTime, text)
			}
			value = value*10 + int(r-'0')
		}
		values[i] = value
	}

	t := TimeOfDay{Hour: values[0], Minute: values[1]}
	if len(values) == 3 {
		t.Second = values[2]
	}
	if !t.Valid() {
		return TimeOfDay{}, fmt.Errorf("%w: %q", ErrUnparsableTime, text)
	}
	return t, nil
}

// Valid reports whether t represents a real time of day.
func (t TimeOfDay) Valid() bool {
	return t.Hour >= 0 && t.Hour <= 23 &&
		t.Minute >= 0 && t.Minute <= 59 &&
		t.Second >= 0 && t.Second <= 59
}

// SecondsFromMidnight returns t's offset into the day.
func (t TimeOfDay) SecondsFromMidnight() int {
	return t.Hour*3600 + t.Minute*60 + t.Second
}

// Before reports whether t is earlier in the day than other.
func (t TimeOfDay) Before(other TimeOfDay) bool {
	return t.SecondsFromMidnight() < other.SecondsFromMidnight()
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", t.Hour, t.Minute, t.Second)
}

// MarshalJSON encodes t as an HH:MM:SS string.
func (t TimeOfDay) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// UnmarshalJSON accepts the same HH:MM[:SS] shapes as ParseTimeOfDay.
func (t *TimeOfDay) UnmarshalJSON(data []byte) error {
	var text string
	if err := json.Unmarshal(data, &text); err != nil {
		return err
	}
	parsed, err := ParseTimeOfDay(text)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// At places t onto the calendar date of day in loc. A nil loc keeps day's
// location.
func (t TimeOfDay) At(day time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = day.Location()
	}
	return time.Date(day.Year(), day.Month(), day.Day(), t.Hour, t.Minute, t.Second, 0, loc)
}
