package application_test

import (
	"context"
	"testing"
	"time"

	"github.com/example/study-scheduler/internal/application"
	"github.com/example/study-scheduler/internal/logging"
	"github.com/example/study-scheduler/internal/testfixtures"
)

func TestMaintenancePurgeExpired(t *testing.T) {
	t.Parallel()

	t.Run("removes records older than retention", func(t *testing.T) {
		t.Parallel()
		overrides := newFakeOverrideRepo()
		contexts := newFakeContextRepo()

		// Clock pinned to 2024-03-01; retention 30 days puts the cut-off
		// at 2024-01-31.
		clock := testfixtures.NewClock(time.Date(2024, time.March, 1, 9, 30, 0, 0, time.UTC))
		svc := application.NewMaintenanceService(overrides, contexts, 30, time.UTC, clock.NowFunc(), logging.Discard())

		stale := testfixtures.NewOverrideFixture(
			testfixtures.WithOverrideDate(testfixtures.Date(2024, time.January, 10)),
		)
		boundary := testfixtures.NewOverrideFixture(
			testfixtures.WithOverrideDate(testfixtures.Date(2024, time.January, 31)),
		)
		fresh := testfixtures.NewOverrideFixture(
			testfixtures.WithOverrideDate(testfixtures.Date(2024, time.February, 20)),
		)
		for _, override := range []application.Override{stale, boundary, fresh} {
			if _, err := overrides.CreateOverride(context.Background(), override); err != nil {
				t.Fatalf("seed override: %v", err)
			}
		}

		expired := testfixtures.NewContextFixture(
			testfixtures.WithContextRange(testfixtures.Date(2024, time.January, 1), testfixtures.Date(2024, time.January, 15)),
		)
		ongoing := testfixtures.NewContextFixture(
			testfixtures.WithContextRange(testfixtures.Date(2024, time.January, 1), testfixtures.Date(2024, time.June, 30)),
		)
		for _, sc := range []application.ScheduleContext{expired, ongoing} {
			if _, err := contexts.CreateContext(context.Background(), sc); err != nil {
				t.Fatalf("seed context: %v", err)
			}
		}

		report, err := svc.PurgeExpired(context.Background())
		if err != nil {
			t.Fatalf("PurgeExpired: %v", err)
		}
		if got := report.Cutoff.Format("2006-01-02"); got != "2024-01-31" {
			t.Fatalf("cutoff = %s, want 2024-01-31", got)
		}
		if report.OverridesRemoved != 1 {
			t.Fatalf("overrides removed = %d, want 1", report.OverridesRemoved)
		}
		if report.ContextsRemoved != 1 {
			t.Fatalf("contexts removed = %d, want 1", report.ContextsRemoved)
		}

		if _, err := overrides.GetOverride(context.Background(), boundary.ID); err != nil {
			t.Fatalf("boundary override should survive: %v", err)
		}
		if _, err := overrides.GetOverride(context.Background(), fresh.ID); err != nil {
			t.Fatalf("fresh override should survive: %v", err)
		}
		if _, err := contexts.GetContext(context.Background(), ongoing.ID); err != nil {
			t.Fatalf("ongoing context should survive: %v", err)
		}
	})

	t.Run("zero retention purges everything before today", func(t *testing.T) {
		t.Parallel()
		overrides := newFakeOverrideRepo()
		clock := testfixtures.NewClock(time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC))
		svc := application.NewMaintenanceService(overrides, nil, 0, time.UTC, clock.NowFunc(), logging.Discard())

		yesterday := testfixtures.NewOverrideFixture(
			testfixtures.WithOverrideDate(testfixtures.Date(2024, time.February, 29)),
		)
		today := testfixtures.NewOverrideFixture(
			testfixtures.WithOverrideDate(testfixtures.Date(2024, time.March, 1)),
		)
		for _, override := range []application.Override{yesterday, today} {
			if _, err := overrides.CreateOverride(context.Background(), override); err != nil {
				t.Fatalf("seed override: %v", err)
			}
		}

		report, err := svc.PurgeExpired(context.Background())
		if err != nil {
			t.Fatalf("PurgeExpired: %v", err)
		}
		if report.OverridesRemoved != 1 {
			t.Fatalf("overrides removed = %d, want 1", report.OverridesRemoved)
		}
		if _, err := overrides.GetOverride(context.Background(), today.ID); err != nil {
			t.Fatalf("today's override should survive: %v", err)
		}
	})

	t.Run("missing repositories are skipped", func(t *testing.T) {
		t.Parallel()
		svc := application.NewMaintenanceService(nil, nil, 30, time.UTC, nil, logging.Discard())

		report, err := svc.PurgeExpired(context.Background())
		if err != nil {
			t.Fatalf("PurgeExpired: %v", err)
		}
		if report.OverridesRemoved != 0 || report.ContextsRemoved != 0 {
			t.Fatalf("nothing should be removed: %+v", report)
		}
	})
}
