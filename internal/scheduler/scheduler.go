// Package scheduler fires the daily check-in broadcast.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Deliverer sends a check-in invitation to one user. Delivery is the
// transport's concern; an invitation never opens a session by itself.
type Deliverer interface {
	DeliverCheckIn(ctx context.Context, userID int64) error
}

// UserSource lists the ids the broadcast fans out to.
type UserSource interface {
	ListUserIDs(ctx context.Context) ([]int64, error)
}

// Scheduler owns one recurring trigger firing daily at a fixed local
// time. The fire time and time zone are set at construction and
// immutable afterwards.
type Scheduler struct {
	cron      *cron.Cron
	hour      int
	minute    int
	users     UserSource
	deliverer Deliverer
}

// New creates a scheduler firing at hour:minute in the given location.
func New(hour, minute int, loc *time.Location, users UserSource, deliverer Deliverer) (*Scheduler, error) {
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return nil, fmt.Errorf("invalid fire time %02d:%02d", hour, minute)
	}
	return &Scheduler{
		cron:      cron.New(cron.WithLocation(loc)),
		hour:      hour,
		minute:    minute,
		users:     users,
		deliverer: deliverer,
	}, nil
}

// Start registers the daily trigger and starts the cron loop.
func (s *Scheduler) Start(ctx context.Context) error {
	spec := fmt.Sprintf("%d %d * * *", s.minute, s.hour)
	if _, err := s.cron.AddFunc(spec, func() {
		s.Broadcast(ctx)
	}); err != nil {
		return fmt.Errorf("register broadcast trigger: %w", err)
	}
	s.cron.Start()
	slog.Info("broadcast scheduler started", "fire_at", fmt.Sprintf("%02d:%02d", s.hour, s.minute))
	return nil
}

// Stop halts the trigger and waits for a running broadcast to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	slog.Info("broadcast scheduler stopped")
}

// Broadcast fans the check-in invitation out to every known user.
// A failed delivery (user blocked the bot, network hiccup) is logged
// and skipped; it never aborts the remaining recipients.
func (s *Scheduler) Broadcast(ctx context.Context) {
	ids, err := s.users.ListUserIDs(ctx)
	if err != nil {
		slog.Error("broadcast failed to list users", "error", err)
		return
	}

	slog.Info("starting check-in broadcast", "users", len(ids))
	var delivered int
	for _, userID := range ids {
		if err := s.deliverer.DeliverCheckIn(ctx, userID); err != nil {
			slog.Warn("failed to deliver check-in invitation", "user_id", userID, "error", err)
			continue
		}
		delivered++
	}
	slog.Info("check-in broadcast finished", "delivered", delivered, "skipped", len(ids)-delivered)
}
