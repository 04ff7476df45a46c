package application_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/example/study-scheduler/internal/application"
	"github.com/example/study-scheduler/internal/logging"
	"github.com/example/study-scheduler/internal/schedule"
	"github.com/example/study-scheduler/internal/testfixtures"
)

func newContextService(repo application.ContextRepository) *application.ContextService {
	gen := testfixtures.NewIDGenerator("context")
	clock := testfixtures.NewClock(testfixtures.ReferenceTime())
	return application.NewContextService(repo, time.UTC, gen.NextFunc(), clock.NowFunc(), logging.Discard())
}

func TestContextServiceCreate(t *testing.T) {
	t.Parallel()

	t.Run("persists a valid context", func(t *testing.T) {
		t.Parallel()
		svc := newContextService(newFakeContextRepo())

		created, err := svc.CreateContext(context.Background(), application.ContextInput{
			UserID:         "user-001",
			Type:           "exam_period",
			StartDate:      "2024-01-10",
			EndDate:        "2024-01-20",
			LoadMultiplier: 2.0,
		})
		if err != nil {
			t.Fatalf("CreateContext: %v", err)
		}
		if created.Type != schedule.ContextExamPeriod {
			t.Fatalf("type = %v", created.Type)
		}
		if created.LoadMultiplier != 2.0 {
			t.Fatalf("multiplier = %v", created.LoadMultiplier)
		}
	})

	t.Run("accepts a zero multiplier", func(t *testing.T) {
		t.Parallel()
		svc := newContextService(newFakeContextRepo())

		created, err := svc.CreateContext(context.Background(), application.ContextInput{
			UserID:    "user-001",
			Type:      "vacation",
			StartDate: "2024-02-01",
			EndDate:   "2024-02-14",
		})
		if err != nil {
			t.Fatalf("CreateContext: %v", err)
		}
		if created.LoadMultiplier != 0 {
			t.Fatalf("multiplier = %v, want 0", created.LoadMultiplier)
		}
	})

	t.Run("rejects unknown type", func(t *testing.T) {
		t.Parallel()
		svc := newContextService(newFakeContextRepo())

		_, err := svc.CreateContext(context.Background(), application.ContextInput{
			UserID:         "user-001",
			Type:           "crunch",
			StartDate:      "2024-01-10",
			EndDate:        "2024-01-20",
			LoadMultiplier: 1.5,
		})
		var vErr *application.ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected validation error, got %v", err)
		}
		if _, ok := vErr.FieldErrors["context_type"]; !ok {
			t.Fatalf("expected context_type field error, got %v", vErr.FieldErrors)
		}
	})

	t.Run("rejects inverted range and negative multiplier", func(t *testing.T) {
		t.Parallel()
		svc := newContextService(newFakeContextRepo())

		_, err := svc.CreateContext(context.Background(), application.ContextInput{
			UserID:         "user-001",
			Type:           "custom",
			StartDate:      "2024-01-20",
			EndDate:        "2024-01-10",
			LoadMultiplier: -0.5,
		})
		var vErr *application.ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected validation error, got %v", err)
		}
		for _, field := range []string{"date_range", "load_multiplier"} {
			if _, ok := vErr.FieldErrors[field]; !ok {
				t.Fatalf("expected %s field error, got %v", field, vErr.FieldErrors)
			}
		}
	})

	t.Run("allows a single day range", func(t *testing.T) {
		t.Parallel()
		svc := newContextService(newFakeContextRepo())

		if _, err := svc.CreateContext(context.Background(), application.ContextInput{
			UserID:         "user-001",
			Type:           "light_study",
			StartDate:      "2024-01-10",
			EndDate:        "2024-01-10",
			LoadMultiplier: 0.5,
		}); err != nil {
			t.Fatalf("CreateContext: %v", err)
		}
	})
}

func TestContextServiceUpdate(t *testing.T) {
	t.Parallel()

	repo := newFakeContextRepo()
	svc := newContextService(repo)

	created, err := svc.CreateContext(context.Background(), application.ContextInput{
		UserID: "user-001", Type: "vacation", StartDate: "2024-01-01", EndDate: "2024-01-07", LoadMultiplier: 0.25,
	})
	if err != nil {
		t.Fatalf("CreateContext: %v", err)
	}

	updated, err := svc.UpdateContext(context.Background(), created.ID, application.ContextInput{
		UserID: "user-001", Type: "exam_period", StartDate: "2024-01-01", EndDate: "2024-01-14", LoadMultiplier: 2.5,
	})
	if err != nil {
		t.Fatalf("UpdateContext: %v", err)
	}
	if updated.Type != schedule.ContextExamPeriod || updated.LoadMultiplier != 2.5 {
		t.Fatalf("fields not replaced: %+v", updated)
	}
	if updated.ID != created.ID || !updated.CreatedAt.Equal(created.CreatedAt) {
		t.Fatalf("identity changed on update")
	}

	if _, err := svc.UpdateContext(context.Background(), "missing", application.ContextInput{
		UserID: "user-001", Type: "vacation", StartDate: "2024-01-01", EndDate: "2024-01-07",
	}); !errors.Is(err, application.ErrNotFound) {
		t.Fatalf("expected application.ErrNotFound, got %v", err)
	}
}

func TestContextServiceList(t *testing.T) {
	t.Parallel()

	repo := newFakeContextRepo()
	svc := newContextService(repo)

	for _, dates := range [][2]string{
		{"2024-03-01", "2024-03-10"},
		{"2024-01-01", "2024-01-10"},
		{"2024-02-01", "2024-02-10"},
	} {
		if _, err := svc.CreateContext(context.Background(), application.ContextInput{
			UserID: "user-001", Type: "custom", StartDate: dates[0], EndDate: dates[1], LoadMultiplier: 1,
		}); err != nil {
			t.Fatalf("CreateContext: %v", err)
		}
	}

	contexts, err := svc.ListContexts(context.Background(), "user-001")
	if err != nil {
		t.Fatalf("ListContexts: %v", err)
	}
	if len(contexts) != 3 {
		t.Fatalf("len = %d, want 3", len(contexts))
	}
	for i := 1; i < len(contexts); i++ {
		if contexts[i].StartDate.Before(contexts[i-1].StartDate) {
			t.Fatalf("contexts out of order: %v before %v", contexts[i].StartDate, contexts[i-1].StartDate)
		}
	}
}
