// Package scheduler delivers due reminders in the background.
package scheduler

import (
	"context"
	"time"

	"github.com/remyhq/remy-bot/cmd/bot"
	"github.com/remyhq/remy-bot/internal/adapters/database/jsondb"
	"github.com/remyhq/remy-bot/internal/domain/entity"
	"github.com/remyhq/remy-bot/internal/domain/service"
	"github.com/remyhq/remy-bot/pkg/logger"
	"github.com/remyhq/remy-bot/pkg/logger/types"
)

const (
	pollInterval       = 10 * time.Second
	recurrenceInterval = 24 * time.Hour
)

type reminderStorage interface {
	GetDue(ctx context.Context, now time.Time) ([]entity.Reminder, error)
	Reschedule(ctx context.Context, id int, at time.Time) error
	Delete(ctx context.Context, id int) error
}

type deliverer interface {
	Deliver(chatID, ownerID int64, message string) error
}

// ReminderScheduler polls the store and fires every reminder whose time has
// come. All ticks run on a single goroutine, so a slow delivery delays the
// next scan instead of overlapping with it.
type ReminderScheduler struct {
	storage reminderStorage
	notify  deliverer
	logger  *types.Logger

	cancel context.CancelFunc
	done   chan struct{}
}

func NewReminderScheduler(b *bot.Bot) (*ReminderScheduler, error) {
	schedulerLogger, err := logger.Named("scheduler")
	if err != nil {
		return nil, err
	}
	notifyLogger, err := logger.Named("notify")
	if err != nil {
		return nil, err
	}

	return &ReminderScheduler{
		storage: jsondb.NewReminderStorage(b.Store),
		notify:  service.NewNotifyService(b.Bot, b.Layout, notifyLogger),
		logger:  schedulerLogger,
	}, nil
}

// Start launches the polling loop. Calling Start on a running scheduler is a
// no-op.
func (s *ReminderScheduler) Start() {
	if s.cancel != nil {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.done = make(chan struct{})

	s.logger.Infof("Reminder scheduler starting (interval: %s)", pollInterval)
	go s.run(ctx)
}

// Stop halts the loop and waits for an in-flight tick to finish.
func (s *ReminderScheduler) Stop() {
	if s.cancel == nil {
		return
	}

	s.cancel()
	<-s.done
	s.cancel = nil

	s.logger.Info("Reminder scheduler stopped")
}

func (s *ReminderScheduler) run(ctx context.Context) {
	defer close(s.done)

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.tick(ctx, time.Now().UTC())
		}
	}
}

// tick fires every reminder due at now. A reminder is consumed even when
// delivery fails, otherwise an unreachable chat would be retried on every
// scan forever.
func (s *ReminderScheduler) tick(ctx context.Context, now time.Time) {
	due, err := s.storage.GetDue(ctx, now)
	if err != nil {
		// GetDue still returns every readable reminder; the error only names
		// the records it had to skip.
		s.logger.Errorf("Skipping unreadable reminder records: %v", err)
	}

	for _, reminder := range due {
		if err = s.notify.Deliver(reminder.ChatID, reminder.OwnerID, reminder.Message); err != nil {
			s.logger.Errorf("Failed to deliver reminder (reminder: %d, user: %d): %v", reminder.ID, reminder.OwnerID, err)
		} else {
			s.logger.Infof("Delivered reminder (reminder: %d, user: %d)", reminder.ID, reminder.OwnerID)
		}

		if reminder.Recurring {
			if err = s.storage.Reschedule(ctx, reminder.ID, now.Add(recurrenceInterval)); err != nil {
				s.logger.Errorf("Failed to reschedule reminder (reminder: %d): %v", reminder.ID, err)
			}
		} else {
			if err = s.storage.Delete(ctx, reminder.ID); err != nil {
				s.logger.Errorf("Failed to delete fired reminder (reminder: %d): %v", reminder.ID, err)
			}
		}
	}
}
