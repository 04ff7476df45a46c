package schedule

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func TestParseInstant(t *testing.T) {
	t.Parallel()

	berlin, err := time.LoadLocation("Europe/Berlin")
	if err != nil {
		t.Fatalf("failed to load location: %v", err)
	}

	t.Run("utc suffix converts to the target location", func(t *testing.T) {
		t.Parallel()

		got, err := ParseInstant("2024-03-01T10:00:00Z", berlin)
		if err != nil {
			t.Fatalf("ParseInstant returned error: %v", err)
		}
		// Berlin is UTC+1 in March before the DST switch.
		want := time.Date(2024, time.March, 1, 11, 0, 0, 0, berlin)
		if !got.Equal(want) || got.Location() != berlin {
			t.Fatalf("got %v, want %v in %v", got, want, berlin)
		}
	})

	t.Run("explicit offset converts to the target location", func(t *testing.T) {
		t.Parallel()

		got, err := ParseInstant("2024-03-01T10:00:00+02:00", berlin)
		if err != nil {
			t.Fatalf("ParseInstant returned error: %v", err)
		}
		want := time.Date(2024, time.March, 1, 9, 0, 0, 0, berlin)
		if !got.Equal(want) {
			t.Fatalf("got %v, want %v", got, want)
		}
	})

	t.Run("naive text is taken as local wall clock", func(t *testing.T) {
		t.Parallel()

		got, err := ParseInstant("2024-03-01T10:00:00", berlin)
		if err != nil {
			t.Fatalf("ParseInstant returned error: %v", err)
		}
		want := time.Date(2024, time.March, 1, 10, 0, 0, 0, berlin)
		if !got.Equal(want) {
			t.Fatalf("got %v, want %v", got, want)
		}
	})

	t.Run("bare date parses as local midnight", func(t *testing.T) {
		t.Parallel()

		got, err := ParseInstant("2024-03-01", berlin)
		if err != nil {
			t.Fatalf("ParseInstant returned error: %v", err)
		}
		want := time.Date(2024, time.March, 1, 0, 0, 0, 0, berlin)
		if !got.Equal(want) {
			t.Fatalf("got %v, want %v", got, want)
		}
	})

	t.Run("stray trailing z falls back to naive parsing", func(t *testing.T) {
		t.Parallel()

		// Not valid RFC3339 (no seconds), so the Z is stripped and the rest
		// parses as a naive local value.
		got, err := ParseInstant("2024-03-01T10:00Z", berlin)
		if err != nil {
			t.Fatalf("ParseInstant returned error: %v", err)
		}
		want := time.Date(2024, time.March, 1, 10, 0, 0, 0, berlin)
		if !got.Equal(want) {
			t.Fatalf("got %v, want %v", got, want)
		}
	})

	t.Run("garbage is an explicit failure", func(t *testing.T) {
		t.Parallel()

		before := time.Now()
		_, err := ParseInstant("not-a-date", berlin)
		if !errors.Is(err, ErrUnparsableTime) {
			t.Fatalf("expected ErrUnparsableTime, got %v", err)
		}
		// Guard against the silent fallback-to-now failure mode: the error
		// path must not take long enough to suggest any clock reads, and the
		// zero value must come back.
		if time.Since(before) > time.Second {
			t.Fatalf("parse failure took unexpectedly long")
		}
	})

	t.Run("empty input is an explicit failure", func(t *testing.T) {
		t.Parallel()

		if _, err := ParseInstant("   ", berlin); !errors.Is(err, ErrUnparsableTime) {
			t.Fatalf("expected ErrUnparsableTime, got %v", err)
		}
	})
}

func TestParseTimeOfDay(t *testing.T) {
	t.Parallel()

	t.Run("accepts hour minute", func(t *testing.T) {
		t.Parallel()

		got, err := ParseTimeOfDay("09:30")
		if err != nil {
			t.Fatalf("ParseTimeOfDay returned error: %v", err)
		}
		if got != (TimeOfDay{Hour: 9, Minute: 30}) {
			t.Fatalf("got %v", got)
		}
	})

	t.Run("accepts hour minute second", func(t *testing.T) {
		t.Parallel()

		got, err := ParseTimeOfDay("23:59:59")
		if err != nil {
			t.Fatalf("ParseTimeOfDay returned error: %v", err)
		}
		if got != (TimeOfDay{Hour: 23, Minute: 59, Second: 59}) {
			t.Fatalf("got %v", got)
		}
	})

	t.Run("rejects malformed shapes", func(t *testing.T) {
		t.Parallel()

		for _, text := range []string{"", "9:00", "09", "24:00", "09:60", "09:00:60", "09-00", "ab:cd", "09:00:00:00", "+9:00"} {
			if _, err := ParseTimeOfDay(text); !errors.Is(err, ErrUnparsableTime) {
				t.Fatalf("ParseTimeOfDay(%q): expected ErrUnparsableTime, got %v", text, err)
			}
		}
	})
}

func TestTimeOfDayOrdering(t *testing.T) {
	t.Parallel()

	early := TimeOfDay{Hour: 9}
	late := TimeOfDay{Hour: 14, Minute: 30}

	if !early.Before(late) {
		t.Fatalf("expected %v to come before %v", early, late)
	}
	if late.Before(early) {
		t.Fatalf("expected %v not to come before %v", late, early)
	}
	if early.String() != "09:00:00" {
		t.Fatalf("unexpected formatting: %s", early.String())
	}
}

func TestTimeOfDayJSON(t *testing.T) {
	t.Parallel()

	payload, err := json.Marshal(TimeOfDay{Hour: 19, Minute: 30})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(payload) != `"19:30:00"` {
		t.Fatalf("unexpected JSON: %s", payload)
	}

	var decoded TimeOfDay
	if err := json.Unmarshal([]byte(`"08:15"`), &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded != (TimeOfDay{Hour: 8, Minute: 15}) {
		t.Fatalf("unexpected value: %v", decoded)
	}
	if err := json.Unmarshal([]byte(`"25:00"`), &decoded); !errors.Is(err, ErrUnparsableTime) {
		t.Fatalf("expected ErrUnparsableTime, got %v", err)
	}
}
