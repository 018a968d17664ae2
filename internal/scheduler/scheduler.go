package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/ludorg/gamenight/internal/dependencies/clock"
)

// archiver is the slice of the event controller the scheduler needs
type archiver interface {
	AutoArchive(ctx context.Context, now time.Time, maxAge time.Duration) (int, error)
}

// sessionCleaner is the slice of the auth service the scheduler needs
type sessionCleaner interface {
	CleanExpiredSessions()
}

// Scheduler periodically archives stale events and drops expired sessions.
// It runs until its context is cancelled.
type Scheduler struct {
	events   archiver
	sessions sessionCleaner
	clock    clock.Clock
	interval time.Duration
	maxAge   time.Duration
	logger   *slog.Logger
}

// New creates a new scheduler
func New(
	events archiver,
	sessions sessionCleaner,
	clock clock.Clock,
	interval time.Duration,
	maxAge time.Duration,
	logger *slog.Logger,
) *Scheduler {
	return &Scheduler{
		events:   events,
		sessions: sessions,
		clock:    clock,
		interval: interval,
		maxAge:   maxAge,
		logger:   logger,
	}
}

// Start runs the scheduler loop. Blocks until ctx is cancelled.
func (s *Scheduler) Start(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.Info("scheduler started",
		slog.Duration("interval", s.interval),
		slog.Duration("max_event_age", s.maxAge),
	)

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("scheduler stopped")
			return
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

func (s *Scheduler) tick(ctx context.Context) {
	archived, err := s.events.AutoArchive(ctx, s.clock.Now(), s.maxAge)
	if err != nil {
		s.logger.Error("auto-archive run failed",
			slog.String("error", err.Error()),
		)
	} else if archived > 0 {
		s.logger.Info("auto-archive run complete",
			slog.Int("archived", archived),
		)
	}

	s.sessions.CleanExpiredSessions()
}
