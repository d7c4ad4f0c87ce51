package scheduler

import (
	"context"
	"time"

	"joke_notification_bot/internal/app" // For NotifierService interface
	"joke_notification_bot/internal/domain/schedule"

	"github.com/sirupsen/logrus"
)

// JokeScheduler owns the run lifecycle: announce start, then fetch/deliver/sleep until
// the context is cancelled, then announce stop. Cancellation is the only exit.
type JokeScheduler struct {
	notifService app.NotifierService
	cfg          schedule.Config
	logger       *logrus.Logger
	now          func() time.Time

	// OnStarted runs once after the start announcement (e.g. systemd readiness).
	OnStarted func()
	// OnStopping runs once when cancellation is observed, before the stop announcement.
	OnStopping func()
}

func NewJokeScheduler(notifService app.NotifierService, cfg schedule.Config, logger *logrus.Logger) *JokeScheduler {
	return &JokeScheduler{
		notifService: notifService,
		cfg:          cfg,
		logger:       logger,
		now:          time.Now,
	}
}

// Run blocks until ctx is cancelled.
func (s *JokeScheduler) Run(ctx context.Context) {
	s.notifService.AnnounceStart(ctx)
	if s.OnStarted != nil {
		s.OnStarted()
	}

	for ctx.Err() == nil {
		if w := s.cfg.Window; w != nil {
			now := s.now()
			if !w.Contains(now) {
				wait := w.UntilNextStart(now)
				s.logger.Infof("Outside active hours %s, sleeping %s until %s.", w, wait, w.NextStart(now).Format("2006-01-02 15:04"))
				if !sleep(ctx, wait) {
					break
				}
				continue
			}
		}

		report := s.notifService.DeliverJoke(ctx)
		s.logger.WithFields(logrus.Fields{"delivered": report.Delivered, "failed": report.Failed}).Info("Joke round finished")

		if !sleep(ctx, s.cfg.Interval) {
			break
		}
	}

	if s.OnStopping != nil {
		s.OnStopping()
	}
	s.notifService.AnnounceStop(ctx)
	s.logger.Info("Scheduler stopped.")
}

// sleep waits for d or until ctx is done. It reports false on cancellation.
func sleep(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
