// internal/app/notifier_service.go
package app

import (
	"context"
	"fmt"
	"time"

	"joke_notification_bot/internal/domain/delivery"
	"joke_notification_bot/internal/domain/history"
	"joke_notification_bot/internal/domain/joke"

	"github.com/sirupsen/logrus"
)

const (
	DefaultIOTimeout = 10 * time.Second
	StoppedText      = "🛑 Bot blagues arrêté."
)

// NotifierService defines the steps of the notification loop.
// The loop itself (timing, active window, shutdown) lives in the scheduler.
type NotifierService interface {
	// AnnounceStart sends the one-time "started" message to every target.
	AnnounceStart(ctx context.Context) Report
	// DeliverJoke fetches one joke and sends it to every target. It never fails:
	// fetch errors become a fallback joke, send errors are logged per target.
	DeliverJoke(ctx context.Context) Report
	// AnnounceStop sends the best-effort "stopped" message, even if ctx is already cancelled.
	AnnounceStop(ctx context.Context) Report
}

// Report summarizes one fan-out.
type Report struct {
	Text      string
	Delivered int
	Failed    int
}

// NotifierServiceImpl implements the NotifierService interface.
type NotifierServiceImpl struct {
	source    joke.Source
	targets   []delivery.Target
	journal   history.Repository
	logger    *logrus.Logger
	interval  time.Duration
	ioTimeout time.Duration
}

func NewNotifierServiceImpl(
	src joke.Source,
	targets []delivery.Target,
	journal history.Repository,
	logger *logrus.Logger,
	interval time.Duration,
) *NotifierServiceImpl {
	if journal == nil {
		journal = history.NopRepository{}
	}
	return &NotifierServiceImpl{
		source:    src,
		targets:   targets,
		journal:   journal,
		logger:    logger,
		interval:  interval,
		ioTimeout: DefaultIOTimeout,
	}
}

// StartedText is the announcement sent before the first joke.
func StartedText(interval time.Duration) string {
	return fmt.Sprintf("🚀 Bot blagues démarré ! Je t'enverrai une blague toutes les %s 😉", describeInterval(interval))
}

func describeInterval(d time.Duration) string {
	switch {
	case d >= time.Minute && d%time.Minute == 0:
		if n := int(d / time.Minute); n > 1 {
			return fmt.Sprintf("%d minutes", n)
		}
		return "minute"
	default:
		if n := int(d / time.Second); n > 1 {
			return fmt.Sprintf("%d secondes", n)
		}
		return "seconde"
	}
}

// ioContext detaches network calls from cancellation so an in-flight call completes
// normally after a shutdown signal; the timeout still bounds it.
func (s *NotifierServiceImpl) ioContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), s.ioTimeout)
}

func (s *NotifierServiceImpl) AnnounceStart(ctx context.Context) Report {
	s.logger.Infof("Bot started. One joke every %s to %d target(s).", s.interval, len(s.targets))
	return s.broadcast(ctx, StartedText(s.interval), history.KindStarted, 0)
}

func (s *NotifierServiceImpl) AnnounceStop(ctx context.Context) Report {
	s.logger.Info("Shutdown requested, stopping cleanly...")
	return s.broadcast(ctx, StoppedText, history.KindStopped, 0)
}

func (s *NotifierServiceImpl) DeliverJoke(ctx context.Context) Report {
	j := s.fetch(ctx)
	kind := history.KindJoke
	if j.Fallback {
		kind = history.KindFallback
	}
	return s.broadcast(ctx, j.Format(), kind, j.ID)
}

func (s *NotifierServiceImpl) fetch(ctx context.Context) joke.Joke {
	ioCtx, cancel := s.ioContext(ctx)
	defer cancel()

	j, err := s.source.Fetch(ioCtx)
	if err != nil {
		s.logger.WithError(err).Warn("Could not fetch a joke, sending fallback text")
		return joke.FromFailure(err)
	}
	s.logger.WithFields(logrus.Fields{"joke_id": j.ID, "kind": j.Kind}).Debug("Joke fetched")
	return j
}

// broadcast sends text to every target independently; one failure never blocks the others.
func (s *NotifierServiceImpl) broadcast(ctx context.Context, text string, kind history.Kind, jokeID int) Report {
	report := Report{Text: text}
	for _, t := range s.targets {
		if err := s.sendOne(ctx, t, text); err != nil {
			report.Failed++
			s.logger.WithError(err).WithField("target", t.String()).Errorf("Failed to deliver %s message", kind)
			continue
		}
		report.Delivered++
		s.logger.WithField("target", t.String()).Debugf("Delivered %s message", kind)
		s.record(ctx, t, text, kind, jokeID)
	}
	return report
}

func (s *NotifierServiceImpl) sendOne(ctx context.Context, t delivery.Target, text string) error {
	ioCtx, cancel := s.ioContext(ctx)
	defer cancel()
	return t.Sender.Send(ioCtx, t.Destination, text)
}

func (s *NotifierServiceImpl) record(ctx context.Context, t delivery.Target, text string, kind history.Kind, jokeID int) {
	ioCtx, cancel := s.ioContext(ctx)
	defer cancel()

	rec := &history.Record{
		Kind:        kind,
		Channel:     t.Name,
		Destination: t.Destination,
		Text:        text,
		JokeID:      jokeID,
		SentAt:      time.Now(),
	}
	if err := s.journal.Save(ioCtx, rec); err != nil {
		s.logger.WithError(err).Warn("Failed to record delivery in journal")
	}
}
