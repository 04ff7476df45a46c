package application

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/example/study-scheduler/internal/schedule"
)

// ContextRepository captures the persistence interactions needed by the
// context service.
type ContextRepository interface {
	CreateContext(ctx context.Context, sc ScheduleContext) (ScheduleContext, error)
	UpdateContext(ctx context.Context, sc ScheduleContext) (ScheduleContext, error)
	GetContext(ctx context.Context, id string) (ScheduleContext, error)
	ListContextsForUser(ctx context.Context, userID string) ([]ScheduleContext, error)
	DeleteContext(ctx context.Context, id string) error
}

// ContextService orchestrates validation and persistence for schedule load
// contexts.
type ContextService struct {
	repo        ContextRepository
	location    *time.Location
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
}

// NewContextService wires dependencies for load context operations.
func NewContextService(repo ContextRepository, location *time.Location, idGenerator func() string, now func() time.Time, logger *slog.Logger) *ContextService {
	if location == nil {
		location = time.Local
	}
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &ContextService{
		repo:        repo,
		location:    location,
		idGenerator: idGenerator,
		now:         now,
		logger:      defaultLogger(logger),
	}
}

// CreateContext validates the request before delegating to persistence.
// Overlapping contexts are allowed; precedence is resolved at read time.
func (s *ContextService) CreateContext(ctx context.Context, input ContextInput) (ScheduleContext, error) {
	if s == nil || s.repo == nil {
		return ScheduleContext{}, fmt.Errorf("context service not configured")
	}
	logger := serviceLogger(ctx, s.logger, "context", "create", "user_id", input.UserID, "type", input.Type)

	sc, vErr := s.buildContext(input)
	if vErr.HasErrors() {
		logger.Warn("context rejected", "error_kind", ErrorKind(vErr))
		return ScheduleContext{}, vErr
	}

	createdAt := s.now()
	sc.ID = s.idGenerator()
	sc.CreatedAt = createdAt
	sc.UpdatedAt = createdAt

	persisted, err := s.repo.CreateContext(ctx, sc)
	if err != nil {
		err = mapRepoError(err)
		logger.Error("context create failed", "error_kind", ErrorKind(err), "error", err)
		return ScheduleContext{}, err
	}

	logger.Info("context created", "context_id", persisted.ID)
	return persisted, nil
}

// UpdateContext replaces an existing context after validation.
func (s *ContextService) UpdateContext(ctx context.Context, id string, input ContextInput) (ScheduleContext, error) {
	if s == nil || s.repo == nil {
		return ScheduleContext{}, fmt.Errorf("context service not configured")
	}
	logger := serviceLogger(ctx, s.logger, "context", "update", "context_id", id)

	existing, err := s.repo.GetContext(ctx, id)
	if err != nil {
		return ScheduleContext{}, mapRepoError(err)
	}

	if input.UserID == "" {
		input.UserID = existing.UserID
	}
	sc, vErr := s.buildContext(input)
	if input.UserID != existing.UserID {
		vErr.add("user_id", "owner cannot be changed")
	}
	if vErr.HasErrors() {
		logger.Warn("context rejected", "error_kind", ErrorKind(vErr))
		return ScheduleContext{}, vErr
	}

	sc.ID = existing.ID
	sc.CreatedAt = existing.CreatedAt
	sc.UpdatedAt = s.now()

	persisted, err := s.repo.UpdateContext(ctx, sc)
	if err != nil {
		err = mapRepoError(err)
		logger.Error("context update failed", "error_kind", ErrorKind(err), "error", err)
		return ScheduleContext{}, err
	}

	logger.Info("context updated", "context_id", persisted.ID)
	return persisted, nil
}

// DeleteContext removes a context by id.
func (s *ContextService) DeleteContext(ctx context.Context, id string) error {
	if s == nil || s.repo == nil {
		return fmt.Errorf("context service not configured")
	}
	logger := serviceLogger(ctx, s.logger, "context", "delete", "context_id", id)

	if err := s.repo.DeleteContext(ctx, id); err != nil {
		err = mapRepoError(err)
		logger.Warn("context delete failed", "error_kind", ErrorKind(err))
		return err
	}
	logger.Info("context deleted")
	return nil
}

// ListContexts returns the user's contexts ordered by start date.
func (s *ContextService) ListContexts(ctx context.Context, userID string) ([]ScheduleContext, error) {
	if s == nil || s.repo == nil {
		return nil, fmt.Errorf("context service not configured")
	}
	if strings.TrimSpace(userID) == "" {
		vErr := &ValidationError{}
		vErr.add("user_id", "user id is required")
		return nil, vErr
	}

	contexts, err := s.repo.ListContextsForUser(ctx, userID)
	if err != nil {
		if isNotFoundError(err) {
			return nil, nil
		}
		return nil, mapRepoError(err)
	}

	ordered := make([]ScheduleContext, len(contexts))
	copy(ordered, contexts)
	sort.SliceStable(ordered, func(i, j int) bool {
		if !ordered[i].StartDate.Equal(ordered[j].StartDate) {
			return ordered[i].StartDate.Before(ordered[j].StartDate)
		}
		return ordered[i].ID < ordered[j].ID
	})
	return ordered, nil
}

func (s *ContextService) buildContext(input ContextInput) (ScheduleContext, *ValidationError) {
	vErr := &ValidationError{}

	if strings.TrimSpace(input.UserID) == "" {
		vErr.add("user_id", "user id is required")
	}

	contextType := schedule.ContextType(input.Type)
	switch contextType {
	case schedule.ContextExamPeriod, schedule.ContextVacation, schedule.ContextLightStudy, schedule.ContextCustom:
	default:
		vErr.add("context_type", "must be one of exam_period, vacation, light_study, custom")
	}

	startDate, err := schedule.ParseDate(input.StartDate, s.location)
	if err != nil {
		vErr.add("start_date", "must be a valid YYYY-MM-DD date")
	}
	endDate, err := schedule.ParseDate(input.EndDate, s.location)
	if err != nil {
		vErr.add("end_date", "must be a valid YYYY-MM-DD date")
	}
	if !vErr.HasErrors() && endDate.Before(startDate) {
		vErr.add("date_range", "end date must not precede start date")
	}

	if input.LoadMultiplier < 0 {
		vErr.add("load_multiplier", "must be zero or greater")
	}

	return ScheduleContext{
		UserID:         input.UserID,
		Type:           contextType,
		StartDate:      startDate,
		EndDate:        endDate,
		LoadMultiplier: input.LoadMultiplier,
	}, vErr
}
