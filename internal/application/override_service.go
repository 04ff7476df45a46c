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

// OverrideRepository captures the persistence interactions needed by the
// override service.
type OverrideRepository interface {
	CreateOverride(ctx context.Context, override Override) (Override, error)
	UpdateOverride(ctx context.Context, override Override) (Override, error)
	GetOverride(ctx context.Context, id string) (Override, error)
	ListOverridesForUser(ctx context.Context, userID string) ([]Override, error)
	DeleteOverride(ctx context.Context, id string) error
}

// OverrideService orchestrates validation and persistence for per-date
// schedule overrides.
type OverrideService struct {
	repo        OverrideRepository
	location    *time.Location
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
}

// NewOverrideService wires dependencies for override operations.
func NewOverrideService(repo OverrideRepository, location *time.Location, idGenerator func() string, now func() time.Time, logger *slog.Logger) *OverrideService {
	if location == nil {
		location = time.Local
	}
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &OverrideService{
		repo:        repo,
		location:    location,
		idGenerator: idGenerator,
		now:         now,
		logger:      defaultLogger(logger),
	}
}

// CreateOverride validates the request before delegating to persistence.
// A day-off override must not carry a window, and a working override must
// carry a complete one.
func (s *OverrideService) CreateOverride(ctx context.Context, input OverrideInput) (Override, error) {
	if s == nil || s.repo == nil {
		return Override{}, fmt.Errorf("override service not configured")
	}
	logger := serviceLogger(ctx, s.logger, "override", "create", "user_id", input.UserID, "date", input.Date)

	override, vErr := s.buildOverride(input)
	if vErr.HasErrors() {
		logger.Warn("override rejected", "error_kind", ErrorKind(vErr))
		return Override{}, vErr
	}

	createdAt := s.now()
	override.ID = s.idGenerator()
	override.CreatedAt = createdAt
	override.UpdatedAt = createdAt

	persisted, err := s.repo.CreateOverride(ctx, override)
	if err != nil {
		err = mapRepoError(err)
		logger.Error("override create failed", "error_kind", ErrorKind(err), "error", err)
		return Override{}, err
	}

	logger.Info("override created", "override_id", persisted.ID, "is_off", persisted.IsOff)
	return persisted, nil
}

// UpdateOverride replaces an existing override after validation.
func (s *OverrideService) UpdateOverride(ctx context.Context, id string, input OverrideInput) (Override, error) {
	if s == nil || s.repo == nil {
		return Override{}, fmt.Errorf("override service not configured")
	}
	logger := serviceLogger(ctx, s.logger, "override", "update", "override_id", id)

	existing, err := s.repo.GetOverride(ctx, id)
	if err != nil {
		return Override{}, mapRepoError(err)
	}

	if input.UserID == "" {
		input.UserID = existing.UserID
	}
	override, vErr := s.buildOverride(input)
	if input.UserID != existing.UserID {
		vErr.add("user_id", "owner cannot be changed")
	}
	if vErr.HasErrors() {
		logger.Warn("override rejected", "error_kind", ErrorKind(vErr))
		return Override{}, vErr
	}

	override.ID = existing.ID
	override.CreatedAt = existing.CreatedAt
	override.UpdatedAt = s.now()

	persisted, err := s.repo.UpdateOverride(ctx, override)
	if err != nil {
		err = mapRepoError(err)
		logger.Error("override update failed", "error_kind", ErrorKind(err), "error", err)
		return Override{}, err
	}

	logger.Info("override updated", "override_id", persisted.ID)
	return persisted, nil
}

// DeleteOverride removes an override by id.
func (s *OverrideService) DeleteOverride(ctx context.Context, id string) error {
	if s == nil || s.repo == nil {
		return fmt.Errorf("override service not configured")
	}
	logger := serviceLogger(ctx, s.logger, "override", "delete", "override_id", id)

	if err := s.repo.DeleteOverride(ctx, id); err != nil {
		err = mapRepoError(err)
		logger.Warn("override delete failed", "error_kind", ErrorKind(err))
		return err
	}
	logger.Info("override deleted")
	return nil
}

// ListOverrides returns the user's overrides ordered by date.
func (s *OverrideService) ListOverrides(ctx context.Context, userID string) ([]Override, error) {
	if s == nil || s.repo == nil {
		return nil, fmt.Errorf("override service not configured")
	}
	if strings.TrimSpace(userID) == "" {
		vErr := &ValidationError{}
		vErr.add("user_id", "user id is required")
		return nil, vErr
	}

	overrides, err := s.repo.ListOverridesForUser(ctx, userID)
	if err != nil {
		if isNotFoundError(err) {
			return nil, nil
		}
		return nil, mapRepoError(err)
	}

	ordered := make([]Override, len(overrides))
	copy(ordered, overrides)
	sort.SliceStable(ordered, func(i, j int) bool {
		if !ordered[i].Date.Equal(ordered[j].Date) {
			return ordered[i].Date.Before(ordered[j].Date)
		}
		return ordered[i].ID < ordered[j].ID
	})
	return ordered, nil
}

func (s *OverrideService) buildOverride(input OverrideInput) (Override, *ValidationError) {
	vErr := &ValidationError{}

	if strings.TrimSpace(input.UserID) == "" {
		vErr.add("user_id", "user id is required")
	}

	date, err := schedule.ParseDate(input.Date, s.location)
	if err != nil {
		vErr.add("date", "must be a valid YYYY-MM-DD date")
	}

	override := Override{
		UserID: input.UserID,
		Date:   date,
		IsOff:  input.IsOff,
	}

	if input.IsOff {
		if input.Start != nil || input.End != nil {
			vErr.add("time", "a day off override cannot carry a time window")
		}
		return override, vErr
	}

	if input.Start == nil || input.End == nil {
		vErr.add("time", "a working override requires both start and end times")
		return override, vErr
	}

	start, err := schedule.ParseTimeOfDay(*input.Start)
	if err != nil {
		vErr.add("start_time", "must be a valid HH:MM or HH:MM:SS time")
	}
	end, err := schedule.ParseTimeOfDay(*input.End)
	if err != nil {
		vErr.add("end_time", "must be a valid HH:MM or HH:MM:SS time")
	}
	if !vErr.HasErrors() && !start.Before(end) {
		vErr.add("time", "start time must be before end time")
	}
	if vErr.HasErrors() {
		return override, vErr
	}

	override.Start = &start
	override.End = &end
	return override, vErr
}
