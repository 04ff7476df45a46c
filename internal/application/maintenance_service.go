package application

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// OverridePurger removes overrides dated strictly before a cut-off.
type OverridePurger interface {
	DeleteOverridesBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// ContextPurger removes contexts whose range ended strictly before a cut-off.
type ContextPurger interface {
	DeleteContextsEndingBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// PurgeReport summarizes one maintenance run.
type PurgeReport struct {
	Cutoff           time.Time
	OverridesRemoved int64
	ContextsRemoved  int64
}

// MaintenanceService removes schedule records old enough to no longer affect
// any agenda. Weekly availability and plans are never purged; only dated
// overrides and expired load contexts age out.
type MaintenanceService struct {
	overrides     OverridePurger
	contexts      ContextPurger
	retentionDays int
	location      *time.Location
	now           func() time.Time
	logger        *slog.Logger
}

// NewMaintenanceService wires dependencies for the nightly purge.
func NewMaintenanceService(overrides OverridePurger, contexts ContextPurger, retentionDays int, location *time.Location, now func() time.Time, logger *slog.Logger) *MaintenanceService {
	if retentionDays < 0 {
		retentionDays = 0
	}
	if location == nil {
		location = time.Local
	}
	if now == nil {
		now = time.Now
	}
	return &MaintenanceService{
		overrides:     overrides,
		contexts:      contexts,
		retentionDays: retentionDays,
		location:      location,
		now:           now,
		logger:        defaultLogger(logger),
	}
}

// PurgeExpired deletes overrides and contexts older than the retention
// window, measured in whole days before today's date.
func (s *MaintenanceService) PurgeExpired(ctx context.Context) (PurgeReport, error) {
	if s == nil {
		return PurgeReport{}, fmt.Errorf("maintenance service not configured")
	}
	logger := serviceLogger(ctx, s.logger, "maintenance", "purge_expired")

	today := s.now().In(s.location)
	cutoff := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, s.location).
		AddDate(0, 0, -s.retentionDays)

	report := PurgeReport{Cutoff: cutoff}

	if s.overrides != nil {
		removed, err := s.overrides.DeleteOverridesBefore(ctx, cutoff)
		if err != nil {
			logger.Error("override purge failed", "error", err)
			return report, mapRepoError(err)
		}
		report.OverridesRemoved = removed
	}

	if s.contexts != nil {
		removed, err := s.contexts.DeleteContextsEndingBefore(ctx, cutoff)
		if err != nil {
			logger.Error("context purge failed", "error", err)
			return report, mapRepoError(err)
		}
		report.ContextsRemoved = removed
	}

	logger.Info("purge completed",
		"cutoff", report.Cutoff.Format("2006-01-02"),
		"overrides_removed", report.OverridesRemoved,
		"contexts_removed", report.ContextsRemoved,
	)
	return report, nil
}
