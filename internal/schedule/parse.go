package schedule

import (
	"fmt"
	"strings"
	"time"
)

// Layouts for wall-clock values carrying no zone information, tried in order.
var naiveLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseInstant parses heterogeneous date-time text into an instant expressed
// in loc. Encodings are tried in a fixed priority order:
//
//  1. A trailing 'Z' marks a UTC instant, converted to loc.
//  2. An explicit numeric offset marks a zoned instant, converted to loc.
//  3. Text with neither is a naive wall-clock value already in loc. A bare
//     date parses as midnight.
//  4. As a last resort a trailing 'Z' is stripped and the remainder retried
//     as a naive value.
//
// Anything else returns ErrUnparsableTime; the current time is never used as
// a stand-in.
func ParseInstant(text string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}

	s := strings.TrimSpace(text)
	if s == "" {
		return time.Time{}, fmt.Errorf("%w: empty input", ErrUnparsableTime)
	}

	// RFC3339Nano accepts both the Z suffix and explicit offsets, with or
	// without fractional seconds.
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.In(loc), nil
	}

	if t, ok := parseNaive(s, loc); ok {
		return t, nil
	}

	if stripped, found := strings.CutSuffix(s, "Z"); found {
		if t, ok := parseNaive(stripped, loc); ok {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("%w: %q", ErrUnparsableTime, text)
}

// ParseDate parses a YYYY-MM-DD string as midnight in loc.
func ParseDate(text string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	t, err := time.ParseInLocation("2006-01-02", strings.TrimSpace(text), loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrUnparsableTime, text)
	}
	return t, nil
}

func parseNaive(s string, loc *time.Location) (time.Time, bool) {
	for _, layout := range naiveLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
