package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/example/study-scheduler/internal/persistence"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() {
		if cerr := store.Close(); cerr != nil {
			t.Errorf("failed to close store: %v", cerr)
		}
	})

	if err := store.Migrate(context.Background()); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return store
}

var testStamp = time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)

func TestAvailabilityRepository(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	entry := persistence.WeeklyAvailability{
		ID:        "wa-1",
		UserID:    "user-1",
		DayOfWeek: 2,
		StartTime: "09:00:00",
		EndTime:   "11:00:00",
		IsActive:  true,
		CreatedAt: testStamp,
		UpdatedAt: testStamp,
	}

	if err := store.CreateAvailability(ctx, entry); err != nil {
		t.Fatalf("CreateAvailability returned error: %v", err)
	}

	stored, err := store.GetAvailability(ctx, "wa-1")
	if err != nil {
		t.Fatalf("GetAvailability returned error: %v", err)
	}
	if !reflect.DeepEqual(stored, entry) {
		t.Fatalf("stored entry %+v differs from %+v", stored, entry)
	}

	t.Run("duplicate ids are rejected", func(t *testing.T) {
		if err := store.CreateAvailability(ctx, entry); !errors.Is(err, persistence.ErrDuplicate) {
			t.Fatalf("expected ErrDuplicate, got %v", err)
		}
	})

	t.Run("day range is enforced by the schema", func(t *testing.T) {
		bad := entry
		bad.ID = "wa-bad"
		bad.DayOfWeek = 0
		if err := store.CreateAvailability(ctx, bad); !errors.Is(err, persistence.ErrConstraintViolation) {
			t.Fatalf("expected ErrConstraintViolation, got %v", err)
		}
	})

	t.Run("updates rewrite the entry", func(t *testing.T) {
		updated := entry
		updated.IsActive = false
		updated.UpdatedAt = testStamp.Add(time.Hour)
		if err := store.UpdateAvailability(ctx, updated); err != nil {
			t.Fatalf("UpdateAvailability returned error: %v", err)
		}
		stored, err := store.GetAvailability(ctx, "wa-1")
		if err != nil {
			t.Fatalf("GetAvailability returned error: %v", err)
		}
		if stored.IsActive {
			t.Fatalf("expected the entry to be inactive")
		}
	})

	t.Run("missing records map to ErrNotFound", func(t *testing.T) {
		if _, err := store.GetAvailability(ctx, "missing"); !errors.Is(err, persistence.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
		if err := store.DeleteAvailability(ctx, "missing"); !errors.Is(err, persistence.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("listing is scoped to the user", func(t *testing.T) {
		other := entry
		other.ID = "wa-2"
		other.UserID = "user-2"
		if err := store.CreateAvailability(ctx, other); err != nil {
			t.Fatalf("CreateAvailability returned error: %v", err)
		}

		entries, err := store.ListAvailabilityForUser(ctx, "user-1")
		if err != nil {
			t.Fatalf("ListAvailabilityForUser returned error: %v", err)
		}
		if len(entries) != 1 || entries[0].ID != "wa-1" {
			t.Fatalf("unexpected entries: %+v", entries)
		}
	})
}

func TestOverrideRepository(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	start := "14:00:00"
	end := "16:00:00"
	override := persistence.ScheduleOverride{
		ID:        "ov-1",
		UserID:    "user-1",
		Date:      "2024-03-05",
		StartTime: &start,
		EndTime:   &end,
		CreatedAt: testStamp,
		UpdatedAt: testStamp,
	}

	if err := store.CreateOverride(ctx, override); err != nil {
		t.Fatalf("CreateOverride returned error: %v", err)
	}

	stored, err := store.GetOverride(ctx, "ov-1")
	if err != nil {
		t.Fatalf("GetOverride returned error: %v", err)
	}
	if stored.StartTime == nil || *stored.StartTime != start || stored.IsOff {
		t.Fatalf("unexpected stored override: %+v", stored)
	}

	t.Run("off overrides keep nil windows", func(t *testing.T) {
		off := persistence.ScheduleOverride{
			ID:        "ov-2",
			UserID:    "user-1",
			Date:      "2024-03-06",
			IsOff:     true,
			CreatedAt: testStamp,
			UpdatedAt: testStamp,
		}
		if err := store.CreateOverride(ctx, off); err != nil {
			t.Fatalf("CreateOverride returned error: %v", err)
		}
		stored, err := store.GetOverride(ctx, "ov-2")
		if err != nil {
			t.Fatalf("GetOverride returned error: %v", err)
		}
		if stored.StartTime != nil || stored.EndTime != nil || !stored.IsOff {
			t.Fatalf("unexpected stored override: %+v", stored)
		}
	})

	t.Run("purge removes overrides before the cut-off", func(t *testing.T) {
		deleted, err := store.DeleteOverridesBefore(ctx, "2024-03-06")
		if err != nil {
			t.Fatalf("DeleteOverridesBefore returned error: %v", err)
		}
		if deleted != 1 {
			t.Fatalf("expected 1 deleted override, got %d", deleted)
		}
		if _, err := store.GetOverride(ctx, "ov-1"); !errors.Is(err, persistence.ErrNotFound) {
			t.Fatalf("expected ov-1 to be purged, got %v", err)
		}
		if _, err := store.GetOverride(ctx, "ov-2"); err != nil {
			t.Fatalf("expected ov-2 to survive, got %v", err)
		}
	})
}

func TestContextRepository(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	sc := persistence.ScheduleContext{
		ID:             "ctx-1",
		UserID:         "user-1",
		ContextType:    "exam_period",
		StartDate:      "2024-03-01",
		EndDate:        "2024-03-15",
		LoadMultiplier: 2.0,
		CreatedAt:      testStamp,
		UpdatedAt:      testStamp,
	}

	if err := store.CreateContext(ctx, sc); err != nil {
		t.Fatalf("CreateContext returned error: %v", err)
	}

	t.Run("negative multipliers are rejected by the schema", func(t *testing.T) {
		bad := sc
		bad.ID = "ctx-bad"
		bad.LoadMultiplier = -0.5
		if err := store.CreateContext(ctx, bad); !errors.Is(err, persistence.ErrConstraintViolation) {
			t.Fatalf("expected ErrConstraintViolation, got %v", err)
		}
	})

	t.Run("inverted ranges are rejected by the schema", func(t *testing.T) {
		bad := sc
		bad.ID = "ctx-bad"
		bad.StartDate = "2024-03-20"
		if err := store.CreateContext(ctx, bad); !errors.Is(err, persistence.ErrConstraintViolation) {
			t.Fatalf("expected ErrConstraintViolation, got %v", err)
		}
	})

	t.Run("purge removes contexts ended before the cut-off", func(t *testing.T) {
		deleted, err := store.DeleteContextsEndingBefore(ctx, "2024-04-01")
		if err != nil {
			t.Fatalf("DeleteContextsEndingBefore returned error: %v", err)
		}
		if deleted != 1 {
			t.Fatalf("expected 1 deleted context, got %d", deleted)
		}
	})
}

func TestPlanAndRecurrenceRepositories(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	plan := persistence.StudyPlan{
		ID:        "plan-1",
		UserID:    "user-1",
		BookID:    "book-1",
		Title:     "Linear Algebra",
		StartDate: "2024-01-01",
		EndDate:   "2024-01-31",
		Status:    "active",
		CreatedAt: testStamp,
		UpdatedAt: testStamp,
	}

	if err := store.CreatePlan(ctx, plan); err != nil {
		t.Fatalf("CreatePlan returned error: %v", err)
	}

	t.Run("invalid status values are rejected by the schema", func(t *testing.T) {
		bad := plan
		bad.ID = "plan-bad"
		bad.Status = "archived"
		if err := store.CreatePlan(ctx, bad); !errors.Is(err, persistence.ErrConstraintViolation) {
			t.Fatalf("expected ErrConstraintViolation, got %v", err)
		}
	})

	rule := persistence.RecurrenceRule{
		ID:        "rule-1",
		PlanID:    "plan-1",
		RuleType:  "weekly",
		Interval:  2,
		Days:      []int{1, 3},
		CreatedAt: testStamp,
		UpdatedAt: testStamp,
	}

	t.Run("upsert inserts then replaces in place", func(t *testing.T) {
		if err := store.UpsertRecurrence(ctx, rule); err != nil {
			t.Fatalf("UpsertRecurrence returned error: %v", err)
		}

		replacement := rule
		replacement.ID = "rule-2"
		replacement.RuleType = "daily"
		replacement.Interval = 1
		replacement.Days = nil
		replacement.UpdatedAt = testStamp.Add(time.Hour)
		if err := store.UpsertRecurrence(ctx, replacement); err != nil {
			t.Fatalf("UpsertRecurrence returned error: %v", err)
		}

		stored, err := store.GetRecurrenceForPlan(ctx, "plan-1")
		if err != nil {
			t.Fatalf("GetRecurrenceForPlan returned error: %v", err)
		}
		if stored.ID != "rule-1" {
			t.Fatalf("expected the original rule identity to survive, got %q", stored.ID)
		}
		if stored.RuleType != "daily" || stored.Interval != 1 || stored.Days != nil {
			t.Fatalf("unexpected stored rule: %+v", stored)
		}
	})

	t.Run("weekday bitmask round trips", func(t *testing.T) {
		weekly := rule
		weekly.Days = []int{1, 3, 7}
		if err := store.UpsertRecurrence(ctx, weekly); err != nil {
			t.Fatalf("UpsertRecurrence returned error: %v", err)
		}
		stored, err := store.GetRecurrenceForPlan(ctx, "plan-1")
		if err != nil {
			t.Fatalf("GetRecurrenceForPlan returned error: %v", err)
		}
		if !reflect.DeepEqual(stored.Days, []int{1, 3, 7}) {
			t.Fatalf("unexpected weekdays: %v", stored.Days)
		}
	})

	t.Run("deleting the plan removes its rule", func(t *testing.T) {
		if err := store.DeletePlan(ctx, "plan-1"); err != nil {
			t.Fatalf("DeletePlan returned error: %v", err)
		}
		if _, err := store.GetRecurrenceForPlan(ctx, "plan-1"); !errors.Is(err, persistence.ErrNotFound) {
			t.Fatalf("expected ErrNotFound for the orphaned rule, got %v", err)
		}
	})
}
