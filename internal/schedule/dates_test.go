package schedule

import (
	"testing"
	"time"
)

func TestStartOfWeek(t *testing.T) {
	t.Parallel()

	monday := date(2024, time.January, 1)

	cases := []time.Time{
		monday,
		date(2024, time.January, 3),
		date(2024, time.January, 7),
	}
	for _, d := range cases {
		if got := StartOfWeek(d, time.UTC); !got.Equal(monday) {
			t.Fatalf("StartOfWeek(%s) = %v, want %v", d.Format("2006-01-02"), got, monday)
		}
	}

	nextMonday := date(2024, time.January, 8)
	if got := StartOfWeek(nextMonday, time.UTC); !got.Equal(nextMonday) {
		t.Fatalf("a Monday should start its own week, got %v", got)
	}
}

func TestTimeOfDayAt(t *testing.T) {
	t.Parallel()

	day := date(2024, time.March, 1)
	got := TimeOfDay{Hour: 10, Minute: 30}.At(day, time.UTC)
	want := time.Date(2024, time.March, 1, 10, 30, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("got %v, want %v", got, want)
	}

	// A nil location keeps the day's own location.
	if got := (TimeOfDay{Hour: 7}).At(day, nil); got.Location() != day.Location() {
		t.Fatalf("expected day's location, got %v", got.Location())
	}
}

func TestSameDate(t *testing.T) {
	t.Parallel()

	morning := time.Date(2024, time.March, 1, 1, 0, 0, 0, time.UTC)
	night := time.Date(2024, time.March, 1, 23, 59, 0, 0, time.UTC)
	if !SameDate(morning, night, time.UTC) {
		t.Fatalf("expected both instants to share a date")
	}
	if SameDate(morning, morning.AddDate(0, 0, 1), time.UTC) {
		t.Fatalf("expected different dates to compare unequal")
	}
}
