package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"github.com/example/study-scheduler/internal/application"
	"github.com/example/study-scheduler/internal/config"
	httptransport "github.com/example/study-scheduler/internal/http"
	"github.com/example/study-scheduler/internal/persistence/sqlite"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	location, err := cfg.Location()
	if err != nil {
		logger.Error("failed to resolve timezone", "error", err)
		os.Exit(1)
	}

	storage, err := sqlite.Open(cfg.SQLiteDSN)
	if err != nil {
		logger.Error("failed to open storage", "error", err)
		os.Exit(1)
	}
	defer func() {
		if cerr := storage.Close(); cerr != nil {
			logger.Error("failed to close storage", "error", cerr)
		}
	}()

	if err := storage.Migrate(context.Background()); err != nil {
		logger.Error("failed to apply migrations", "error", err)
		os.Exit(1)
	}

	idGenerator := uuid.NewString
	now := time.Now

	availabilityRepo := newAvailabilityRepositoryAdapter(storage)
	overrideRepo := newOverrideRepositoryAdapter(storage, location)
	contextRepo := newContextRepositoryAdapter(storage, location)
	planRepo := newPlanRepositoryAdapter(storage, location)
	recurrenceRepo := newRecurrenceRepositoryAdapter(storage)

	availabilityService := application.NewAvailabilityService(availabilityRepo, idGenerator, now, logger)
	overrideService := application.NewOverrideService(overrideRepo, location, idGenerator, now, logger)
	contextService := application.NewContextService(contextRepo, location, idGenerator, now, logger)
	planService := application.NewPlanService(planRepo, recurrenceRepo, location, idGenerator, now, logger)
	agendaService := application.NewAgendaService(planRepo, recurrenceRepo, availabilityRepo, overrideRepo, contextRepo, location, now, logger)
	maintenanceService := application.NewMaintenanceService(overrideRepo, contextRepo, cfg.RetentionDays, location, now, logger)

	router := httptransport.NewRouter(httptransport.RouterConfig{
		Availability: httptransport.NewAvailabilityHandler(availabilityService, logger),
		Overrides:    httptransport.NewOverrideHandler(overrideService, logger),
		Contexts:     httptransport.NewContextHandler(contextService, logger),
		Plans:        httptransport.NewPlanHandler(planService, logger),
		Agenda:       httptransport.NewAgendaHandler(agendaService, logger),
		Middleware: []func(http.Handler) http.Handler{
			httptransport.RequestLogger(logger),
		},
	})

	scheduler := cron.New(cron.WithLocation(location))
	if _, err := scheduler.AddFunc(cfg.MaintenanceCron, func() {
		if _, err := maintenanceService.PurgeExpired(context.Background()); err != nil {
			logger.Error("maintenance purge failed", "error", err)
		}
	}); err != nil {
		logger.Error("failed to schedule maintenance job", "error", err, "spec", cfg.MaintenanceCron)
		os.Exit(1)
	}
	scheduler.Start()
	defer scheduler.Stop()

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("failed to shutdown server", "error", err)
		}
	}()

	logger.Info("study planner API listening", "addr", server.Addr, "timezone", location.String())
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server encountered error", "error", err)
		os.Exit(1)
	}
}
