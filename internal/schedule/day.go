package schedule

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidDayOfWeek indicates a day-of-week value outside its legal range.
var ErrInvalidDayOfWeek = errors.New("schedule: day of week out of range")

// ISODay is an ISO-8601 day of week: 1=Monday through 7=Sunday.
//
// The remote system encodes days as 0=Sunday through 6=Saturday. Every
// translation between the two conventions goes through ISOFromRemote and
// RemoteFromISO; nothing else in the codebase is allowed to hold an
// origin-zero value.
type ISODay int

const (
	ISOMonday ISODay = iota + 1
	ISOTuesday
	ISOWednesday
	ISOThursday
	ISOFriday
	ISOSaturday
	ISOSunday
)

// Valid reports whether d lies in the ISO range 1..7.
func (d ISODay) Valid() bool {
	return d >= ISOMonday && d <= ISOSunday
}

// Weekday converts d to the stdlib convention where Sunday is 0.
func (d ISODay) Weekday() time.Weekday {
	if d == ISOSunday {
		return time.Sunday
	}
	return time.Weekday(d)
}

func (d ISODay) String() string {
	if !d.Valid() {
		return fmt.Sprintf("ISODay(%d)", int(d))
	}
	return d.Weekday().String()
}

// ISODayOf returns the ISO day of week for t in t's own location.
func ISODayOf(t time.Time) ISODay {
	if t.Weekday() == time.Sunday {
		return ISOSunday
	}
	return ISODay(t.Weekday())
}

// ISOFromRemote translates a remote day-of-week value (0=Sunday..6=Saturday)
// into the ISO convention. Out-of-range input is an error, never a default.
func ISOFromRemote(remote int) (ISODay, error) {
	switch {
	case remote == 0:
		return ISOSunday, nil
	case remote >= 1 && remote <= 6:
		return ISODay(remote), nil
	default:
		return 0, fmt.Errorf("%w: remote value %d", ErrInvalidDayOfWeek, remote)
	}
}

// RemoteFromISO translates an ISO day of week into the remote convention.
// It is the exact inverse of ISOFromRemote.
func RemoteFromISO(day ISODay) (int, error) {
	switch {
	case day == ISOSunday:
		return 0, nil
	case day >= ISOMonday && day <= ISOSaturday:
		return int(day), nil
	default:
		return 0, fmt.Errorf("%w: iso value %d", ErrInvalidDayOfWeek, int(day))
	}
}
