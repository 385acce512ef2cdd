package scheduler

import (
	"log/slog"
	"time"

	"campusgate/internal/config"
	"campusgate/internal/service"
)

// Scheduler owns the background jobs. It is created in main, started once,
// and stopped on shutdown; nothing starts implicitly at import time.
type Scheduler struct {
	gatePassService *service.GatePassService
	config          *config.CleanupConfig
	stopChan        chan struct{}
}

// NewScheduler creates a new scheduler
func NewScheduler(gatePassService *service.GatePassService, cfg *config.CleanupConfig) *Scheduler {
	return &Scheduler{
		gatePassService: gatePassService,
		config:          cfg,
		stopChan:        make(chan struct{}),
	}
}

// Start launches all enabled jobs
func (s *Scheduler) Start() {
	slog.Info("Starting scheduler",
		"cleanup_enabled", s.config.Enabled,
		"cleanup_interval", s.config.Interval)

	if s.config.Enabled {
		go s.runIntervalTask(s.config.Interval, "gatepass_cleanup", s.cleanupGatePasses)
	}

	slog.Info("Scheduler started")
}

// Stop signals all jobs to exit
func (s *Scheduler) Stop() {
	close(s.stopChan)
	slog.Info("Scheduler stopped")
}

// runIntervalTask runs the task immediately, then on every tick until Stop
func (s *Scheduler) runIntervalTask(interval time.Duration, taskName string, task func()) {
	slog.Info("Scheduled interval task", "task", taskName, "interval", interval)

	task()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			slog.Debug("Running scheduled task", "task", taskName)
			task()
		case <-s.stopChan:
			slog.Info("Stopping scheduled task", "task", taskName)
			return
		}
	}
}

// cleanupGatePasses purges pending gate passes past the configured age
func (s *Scheduler) cleanupGatePasses() {
	deleted, err := s.gatePassService.CleanupStalePending()
	if err != nil {
		slog.Error("Gate pass cleanup failed", "error", err)
		return
	}
	slog.Debug("Gate pass cleanup finished", "deleted", deleted)
}
