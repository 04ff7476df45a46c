package schedule

import (
	"errors"
	"slices"
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func collectDates(t *testing.T, engine *Engine, start, end time.Time, rule Rule) []string {
	t.Helper()

	seq, err := engine.DueDates(start, end, rule)
	if err != nil {
		t.Fatalf("DueDates returned error: %v", err)
	}

	var out []string
	for d := range seq {
		out = append(out, d.Format("2006-01-02"))
	}
	return out
}

func TestEngine_DueDates(t *testing.T) {
	t.Parallel()

	engine := NewEngine(time.UTC)

	t.Run("daily rule emits one date per day", func(t *testing.T) {
		t.Parallel()

		got := collectDates(t, engine, date(2024, time.March, 1), date(2024, time.March, 10), Rule{
			Type:     RuleDaily,
			Interval: 1,
		})
		if len(got) != 10 {
			t.Fatalf("expected 10 dates over a 10-day range, got %d: %v", len(got), got)
		}
		if got[0] != "2024-03-01" || got[9] != "2024-03-10" {
			t.Fatalf("unexpected bounds: %v", got)
		}
	})

	t.Run("daily rule steps by interval days", func(t *testing.T) {
		t.Parallel()

		got := collectDates(t, engine, date(2024, time.March, 1), date(2024, time.March, 10), Rule{
			Type:     RuleDaily,
			Interval: 3,
		})
		want := []string{"2024-03-01", "2024-03-04", "2024-03-07", "2024-03-10"}
		if !slices.Equal(got, want) {
			t.Fatalf("got %v, want %v", got, want)
		}
	})

	t.Run("weekly rule selects the requested weekdays", func(t *testing.T) {
		t.Parallel()

		got := collectDates(t, engine, date(2024, time.January, 1), date(2024, time.January, 31), Rule{
			Type:     RuleWeekly,
			Interval: 1,
			Days:     []ISODay{ISOMonday, ISOWednesday},
		})
		want := []string{
			"2024-01-01", "2024-01-03",
			"2024-01-08", "2024-01-10",
			"2024-01-15", "2024-01-17",
			"2024-01-22", "2024-01-24",
			"2024-01-29", "2024-01-31",
		}
		if !slices.Equal(got, want) {
			t.Fatalf("got %v, want %v", got, want)
		}
	})

	t.Run("fortnightly rule skips alternating weeks", func(t *testing.T) {
		t.Parallel()

		got := collectDates(t, engine, date(2024, time.January, 1), date(2024, time.January, 31), Rule{
			Type:     RuleWeekly,
			Interval: 2,
			Days:     []ISODay{ISOMonday, ISOWednesday},
		})
		want := []string{
			"2024-01-01", "2024-01-03",
			"2024-01-15", "2024-01-17",
			"2024-01-29", "2024-01-31",
		}
		if !slices.Equal(got, want) {
			t.Fatalf("got %v, want %v", got, want)
		}
	})

	t.Run("weekly anchoring holds when the start is midweek", func(t *testing.T) {
		t.Parallel()

		// Thursday 2024-01-04: the Monday in the same ISO week is not in
		// range and must not be emitted, but the Monday of week two is.
		got := collectDates(t, engine, date(2024, time.January, 4), date(2024, time.January, 17), Rule{
			Type:     RuleWeekly,
			Interval: 2,
			Days:     []ISODay{ISOMonday, ISOThursday},
		})
		want := []string{"2024-01-04", "2024-01-15"}
		if !slices.Equal(got, want) {
			t.Fatalf("got %v, want %v", got, want)
		}
	})

	t.Run("custom rules behave like weekly rules", func(t *testing.T) {
		t.Parallel()

		weekly := collectDates(t, engine, date(2024, time.January, 1), date(2024, time.January, 31), Rule{
			Type: RuleWeekly, Interval: 1, Days: []ISODay{ISOFriday},
		})
		custom := collectDates(t, engine, date(2024, time.January, 1), date(2024, time.January, 31), Rule{
			Type: RuleCustom, Interval: 1, Days: []ISODay{ISOFriday},
		})
		if !slices.Equal(weekly, custom) {
			t.Fatalf("weekly %v differs from custom %v", weekly, custom)
		}
	})

	t.Run("sequence is restartable", func(t *testing.T) {
		t.Parallel()

		seq, err := engine.DueDates(date(2024, time.January, 1), date(2024, time.January, 7), Rule{
			Type: RuleDaily, Interval: 2,
		})
		if err != nil {
			t.Fatalf("DueDates returned error: %v", err)
		}

		first := slices.Collect(seq)
		second := slices.Collect(seq)
		if !slices.Equal(first, second) {
			t.Fatalf("second iteration %v differs from first %v", second, first)
		}
	})

	t.Run("early break stops iteration cleanly", func(t *testing.T) {
		t.Parallel()

		seq, err := engine.DueDates(date(2024, time.January, 1), date(2024, time.December, 31), Rule{
			Type: RuleDaily, Interval: 1,
		})
		if err != nil {
			t.Fatalf("DueDates returned error: %v", err)
		}

		count := 0
		for range seq {
			count++
			if count == 3 {
				break
			}
		}
		if count != 3 {
			t.Fatalf("expected to stop after 3 dates, saw %d", count)
		}
	})

	t.Run("validation rejects bad rules up front", func(t *testing.T) {
		t.Parallel()

		cases := []struct {
			name    string
			start   time.Time
			end     time.Time
			rule    Rule
			wantErr error
		}{
			{
				name:    "unspecified type",
				start:   date(2024, time.January, 1),
				end:     date(2024, time.January, 31),
				rule:    Rule{Interval: 1},
				wantErr: ErrInvalidRuleType,
			},
			{
				name:    "zero interval",
				start:   date(2024, time.January, 1),
				end:     date(2024, time.January, 31),
				rule:    Rule{Type: RuleDaily},
				wantErr: ErrInvalidInterval,
			},
			{
				name:    "weekly without weekdays",
				start:   date(2024, time.January, 1),
				end:     date(2024, time.January, 31),
				rule:    Rule{Type: RuleWeekly, Interval: 1},
				wantErr: ErrMissingWeekdays,
			},
			{
				name:    "weekday out of range",
				start:   date(2024, time.January, 1),
				end:     date(2024, time.January, 31),
				rule:    Rule{Type: RuleWeekly, Interval: 1, Days: []ISODay{8}},
				wantErr: ErrInvalidDayOfWeek,
			},
			{
				name:    "inverted range",
				start:   date(2024, time.January, 31),
				end:     date(2024, time.January, 1),
				rule:    Rule{Type: RuleDaily, Interval: 1},
				wantErr: ErrInvalidRange,
			},
		}

		for _, tc := range cases {
			if _, err := engine.DueDates(tc.start, tc.end, tc.rule); !errors.Is(err, tc.wantErr) {
				t.Fatalf("%s: expected %v, got %v", tc.name, tc.wantErr, err)
			}
		}
	})

	t.Run("single day range can emit its only date", func(t *testing.T) {
		t.Parallel()

		got := collectDates(t, engine, date(2024, time.January, 3), date(2024, time.January, 3), Rule{
			Type: RuleWeekly, Interval: 1, Days: []ISODay{ISOWednesday},
		})
		want := []string{"2024-01-03"}
		if !slices.Equal(got, want) {
			t.Fatalf("got %v, want %v", got, want)
		}
	})
}
