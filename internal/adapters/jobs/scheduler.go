package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/atvirokodosprendimai/crewdesk/internal/core/domain"
)

const (
	purgeSchedule  = "@hourly"
	digestSchedule = "0 6 * * *"
	jobTimeout     = time.Minute
)

type outboxPurger interface {
	Purge(ctx context.Context, retention time.Duration) (int64, error)
}

type dashboardSource interface {
	Metrics(ctx context.Context) (domain.DashboardMetrics, error)
}

// Scheduler runs housekeeping on fixed UTC schedules: pruning delivered
// outbox rows and logging a daily dashboard digest.
type Scheduler struct {
	cron      *cron.Cron
	purger    outboxPurger
	dashboard dashboardSource
	retention time.Duration
	log       *zap.Logger
}

func NewScheduler(purger outboxPurger, dashboard dashboardSource, retention time.Duration, log *zap.Logger) *Scheduler {
	if log == nil {
		log = zap.NewNop()
	}
	if retention <= 0 {
		retention = 7 * 24 * time.Hour
	}
	cronLog := cron.PrintfLogger(zap.NewStdLog(log.Named("cron")))
	return &Scheduler{
		cron: cron.New(
			cron.WithLocation(time.UTC),
			cron.WithChain(cron.Recover(cronLog), cron.SkipIfStillRunning(cronLog)),
		),
		purger:    purger,
		dashboard: dashboard,
		retention: retention,
		log:       log,
	}
}

func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(purgeSchedule, s.purgeOutbox); err != nil {
		return fmt.Errorf("schedule outbox purge: %w", err)
	}
	if _, err := s.cron.AddFunc(digestSchedule, s.dashboardDigest); err != nil {
		return fmt.Errorf("schedule dashboard digest: %w", err)
	}
	s.cron.Start()
	s.log.Info("scheduler started", zap.Int("jobs", len(s.cron.Entries())))
	return nil
}

// Close stops scheduling and waits for running jobs to finish.
func (s *Scheduler) Close() error {
	<-s.cron.Stop().Done()
	s.log.Info("scheduler stopped")
	return nil
}

func (s *Scheduler) purgeOutbox() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	removed, err := s.purger.Purge(ctx, s.retention)
	if err != nil {
		s.log.Error("purge dispatched outbox events", zap.Error(err))
		return
	}
	s.log.Info("purged dispatched outbox events",
		zap.Int64("removed", removed),
		zap.Duration("retention", s.retention),
	)
}

func (s *Scheduler) dashboardDigest() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	m, err := s.dashboard.Metrics(ctx)
	if err != nil {
		s.log.Error("compute dashboard digest", zap.Error(err))
		return
	}
	s.log.Info("dashboard digest",
		zap.Int("active_projects", m.ActiveProjects),
		zap.Int("available_crew", m.AvailableCrew),
		zap.Int("crew_on_projects", m.CrewOnProjects),
		zap.Int("upcoming_departures", m.UpcomingDepartures),
		zap.Int("projects_needing_crew", m.ProjectsNeedingCrew),
	)
}
