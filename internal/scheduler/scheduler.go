package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/bitvavo/bootcamp-bot/internal/bootcamp"
)

// Engine is the part of the bootcamp service the scheduler drives.
type Engine interface {
	Reconcile(ctx context.Context, now time.Time) (bootcamp.ReconcileReport, error)
	PostPreviousMonth(ctx context.Context) error
}

// Default cron specs: reconcile at the top of every hour, post last month's
// leaderboard on the first of the month at 09:00.
const (
	DefaultTickSpec        = "0 * * * *"
	DefaultLeaderboardSpec = "0 9 1 * *"
)

// Scheduler fires the periodic jobs in the bootcamp timezone.
type Scheduler struct {
	engine Engine
	log    *zap.Logger
	now    func() time.Time
	cron   *cron.Cron
}

// New registers the jobs on a cron running in loc. An empty spec disables
// that job.
func New(engine Engine, log *zap.Logger, loc *time.Location, tickSpec, leaderboardSpec string) (*Scheduler, error) {
	if loc == nil {
		loc = time.Local
	}
	cronLog := cron.PrintfLogger(zap.NewStdLog(log.Named("cron")))
	s := &Scheduler{
		engine: engine,
		log:    log,
		now:    time.Now,
		cron: cron.New(
			cron.WithLocation(loc),
			cron.WithLogger(cronLog),
			cron.WithChain(cron.Recover(cronLog), cron.SkipIfStillRunning(cronLog)),
		),
	}
	if tickSpec != "" {
		if _, err := s.cron.AddFunc(tickSpec, func() { s.tick(context.Background()) }); err != nil {
			return nil, err
		}
	}
	if leaderboardSpec != "" {
		if _, err := s.cron.AddFunc(leaderboardSpec, func() { s.postLeaderboard(context.Background()) }); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Run starts the cron and blocks until ctx is canceled; running jobs are
// allowed to finish.
func (s *Scheduler) Run(ctx context.Context) {
	s.cron.Start()
	<-ctx.Done()
	s.log.Info("scheduler stopping")
	<-s.cron.Stop().Done()
}

// tick performs one reconcile cycle.
func (s *Scheduler) tick(ctx context.Context) {
	now := s.now()
	s.log.Debug("tick", zap.Time("now", now))

	report, err := s.engine.Reconcile(ctx, now)
	if err != nil {
		s.log.Error("reconcile failed", zap.Error(err), zap.Int("failed_slots", len(report.Failed)))
	}
	if len(report.Created) > 0 {
		s.log.Info("sessions created", zap.Int("count", len(report.Created)))
	}
}

func (s *Scheduler) postLeaderboard(ctx context.Context) {
	if err := s.engine.PostPreviousMonth(ctx); err != nil {
		s.log.Error("leaderboard post failed", zap.Error(err))
	}
}
