// Package jobs runs the background refresh that keeps the dashboard
// cache warm so interactive requests rarely pay the upstream round trip.
package jobs

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/mcordova/intake-dashboard-go/internal/dashboard"
	"github.com/mcordova/intake-dashboard-go/internal/models"
)

const refreshTimeout = 60 * time.Second

// Scheduler manages the periodic refresh job.
type Scheduler struct {
	cron *cron.Cron
	svc  *dashboard.Service
	log  *slog.Logger
}

func New(svc *dashboard.Service, log *slog.Logger) *Scheduler {
	return &Scheduler{cron: cron.New(), svc: svc, log: log}
}

// Start registers the refresh job on the given cron schedule and starts
// the scheduler.
func (s *Scheduler) Start(schedule string) error {
	if _, err := s.cron.AddFunc(schedule, s.refresh); err != nil {
		return err
	}
	s.cron.Start()
	s.log.Info("scheduler started", slog.String("schedule", schedule))
	return nil
}

// Stop halts the scheduler and waits for a running job to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.log.Info("scheduler stopped")
}

// refresh rebuilds the default dashboard and pacing views, replacing the
// cached copies other requests will hit.
func (s *Scheduler) refresh() {
	ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
	defer cancel()

	start := time.Now()
	data := s.svc.DashboardData(ctx, dashboard.Params{ForceRefresh: true})
	pacing := s.svc.PacingActuals(ctx, "", "", models.LeadFilters{}, true)
	s.log.Info("cache refreshed",
		slog.String("dashboard_source", string(data.DataSource)),
		slog.String("pacing_source", string(pacing.DataSource)),
		slog.Duration("took", time.Since(start)))
}
