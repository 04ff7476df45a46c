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

// AvailabilityRepository captures the persistence interactions needed by the
// availability service.
type AvailabilityRepository interface {
	CreateAvailability(ctx context.Context, entry Availability) (Availability, error)
	UpdateAvailability(ctx context.Context, entry Availability) (Availability, error)
	GetAvailability(ctx context.Context, id string) (Availability, error)
	ListAvailabilityForUser(ctx context.Context, userID string) ([]Availability, error)
	DeleteAvailability(ctx context.Context, id string) error
}

// AvailabilityService orchestrates validation and persistence for weekly
// availability entries.
type AvailabilityService struct {
	repo        AvailabilityRepository
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
}

// NewAvailabilityService wires dependencies for availability operations.
func NewAvailabilityService(repo AvailabilityRepository, idGenerator func() string, now func() time.Time, logger *slog.Logger) *AvailabilityService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &AvailabilityService{
		repo:        repo,
		idGenerator: idGenerator,
		now:         now,
		logger:      defaultLogger(logger),
	}
}

// CreateAvailability validates the request before delegating to persistence.
func (s *AvailabilityService) CreateAvailability(ctx context.Context, input AvailabilityInput) (Availability, error) {
	if s == nil || s.repo == nil {
		return Availability{}, fmt.Errorf("availability service not configured")
	}
	logger := serviceLogger(ctx, s.logger, "availability", "create", "user_id", input.UserID)

	entry, vErr := s.buildEntry(input)
	if vErr.HasErrors() {
		logger.Warn("availability rejected", "error_kind", ErrorKind(vErr))
		return Availability{}, vErr
	}

	createdAt := s.now()
	entry.ID = s.idGenerator()
	entry.CreatedAt = createdAt
	entry.UpdatedAt = createdAt

	persisted, err := s.repo.CreateAvailability(ctx, entry)
	if err != nil {
		err = mapRepoError(err)
		logger.Error("availability create failed", "error_kind", ErrorKind(err), "error", err)
		return Availability{}, err
	}

	logger.Info("availability created", "availability_id", persisted.ID, "day", int(persisted.Day))
	return persisted, nil
}

// UpdateAvailability replaces an existing entry after validation.
func (s *AvailabilityService) UpdateAvailability(ctx context.Context, id string, input AvailabilityInput) (Availability, error) {
	if s == nil || s.repo == nil {
		return Availability{}, fmt.Errorf("availability service not configured")
	}
	logger := serviceLogger(ctx, s.logger, "availability", "update", "availability_id", id)

	existing, err := s.repo.GetAvailability(ctx, id)
	if err != nil {
		return Availability{}, mapRepoError(err)
	}

	if input.UserID == "" {
		input.UserID = existing.UserID
	}
	entry, vErr := s.buildEntry(input)
	if input.UserID != existing.UserID {
		vErr.add("user_id", "owner cannot be changed")
	}
	if vErr.HasErrors() {
		logger.Warn("availability rejected", "error_kind", ErrorKind(vErr))
		return Availability{}, vErr
	}

	entry.ID = existing.ID
	entry.CreatedAt = existing.CreatedAt
	entry.UpdatedAt = s.now()

	persisted, err := s.repo.UpdateAvailability(ctx, entry)
	if err != nil {
		err = mapRepoError(err)
		logger.Error("availability update failed", "error_kind", ErrorKind(err), "error", err)
		return Availability{}, err
	}

	logger.Info("availability updated", "availability_id", persisted.ID)
	return persisted, nil
}

// DeleteAvailability removes an entry by id.
func (s *AvailabilityService) DeleteAvailability(ctx context.Context, id string) error {
	if s == nil || s.repo == nil {
		return fmt.Errorf("availability service not configured")
	}
	logger := serviceLogger(ctx, s.logger, "availability", "delete", "availability_id", id)

	if err := s.repo.DeleteAvailability(ctx, id); err != nil {
		err = mapRepoError(err)
		logger.Warn("availability delete failed", "error_kind", ErrorKind(err))
		return err
	}
	logger.Info("availability deleted")
	return nil
}

// ListAvailability returns the user's weekly entries ordered by day then
// start time.
func (s *AvailabilityService) ListAvailability(ctx context.Context, userID string) ([]Availability, error) {
	if s == nil || s.repo == nil {
		return nil, fmt.Errorf("availability service not configured")
	}
	if strings.TrimSpace(userID) == "" {
		vErr := &ValidationError{}
		vErr.add("user_id", "user id is required")
		return nil, vErr
	}

	entries, err := s.repo.ListAvailabilityForUser(ctx, userID)
	if err != nil {
		if isNotFoundError(err) {
			return nil, nil
		}
		return nil, mapRepoError(err)
	}

	ordered := make([]Availability, len(entries))
	copy(ordered, entries)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Day != ordered[j].Day {
			return ordered[i].Day < ordered[j].Day
		}
		if ordered[i].Start != ordered[j].Start {
			return ordered[i].Start.Before(ordered[j].Start)
		}
		return ordered[i].ID < ordered[j].ID
	})
	return ordered, nil
}

func (s *AvailabilityService) buildEntry(input AvailabilityInput) (Availability, *ValidationError) {
	vErr := &ValidationError{}

	if strings.TrimSpace(input.UserID) == "" {
		vErr.add("user_id", "user id is required")
	}
	if !input.Day.Valid() {
		vErr.add("day_of_week", "day of week must be between Monday and Sunday")
	}

	start, err := schedule.ParseTimeOfDay(input.Start)
	if err != nil {
		vErr.add("start_time", "must be a valid HH:MM or HH:MM:SS time")
	}
	end, err := schedule.ParseTimeOfDay(input.End)
	if err != nil {
		vErr.add("end_time", "must be a valid HH:MM or HH:MM:SS time")
	}
	if !vErr.HasErrors() && !start.Before(end) {
		vErr.add("time", "start time must be before end time")
	}

	return Availability{
		UserID:   input.UserID,
		Day:      input.Day,
		Start:    start,
		End:      end,
		IsActive: input.IsActive,
	}, vErr
}
