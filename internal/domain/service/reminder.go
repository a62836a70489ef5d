package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/remyhq/remy-bot/internal/domain/common/errorz"
	"github.com/remyhq/remy-bot/internal/domain/dto"
	"github.com/remyhq/remy-bot/internal/domain/entity"
	"github.com/remyhq/remy-bot/internal/domain/utils/calendar"
	"github.com/remyhq/remy-bot/internal/domain/utils/timezone"
)

type ReminderStorage interface {
	Create(ctx context.Context, reminder *entity.Reminder) (*entity.Reminder, error)
	GetByOwner(ctx context.Context, ownerID int64) ([]entity.Reminder, error)
	Delete(ctx context.Context, id int) error
}

type TimezoneStorage interface {
	Get(ctx context.Context, ownerID int64) (*entity.TimezonePreference, error)
	Upsert(ctx context.Context, ownerID int64, code string) (*entity.TimezonePreference, error)
}

// ReminderService owns the reminder lifecycle: creation, listing, deletion
// and the per-user timezone preference the first two depend on.
type ReminderService struct {
	reminderStorage ReminderStorage
	timezoneStorage TimezoneStorage
}

func NewReminderService(reminderStorage ReminderStorage, timezoneStorage TimezoneStorage) *ReminderService {
	return &ReminderService{
		reminderStorage: reminderStorage,
		timezoneStorage: timezoneStorage,
	}
}

// Create schedules a reminder. The time text is interpreted in the owner's
// preferred timezone, which must be set beforehand: errorz.ErrNoTimezoneSet
// otherwise, errorz.ErrUnparseableTime when the text is not a date/time.
// Nothing is stored on any failure.
func (s *ReminderService) Create(ctx context.Context, ownerID, chatID int64, timeText, message string, recurring bool) (*entity.Reminder, error) {
	loc, err := s.ownerLocation(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	fireAt, err := timezone.ToUTC(timeText, loc)
	if err != nil {
		return nil, err
	}

	return s.reminderStorage.Create(ctx, &entity.Reminder{
		OwnerID:   ownerID,
		ChatID:    chatID,
		FireAt:    fireAt,
		Message:   message,
		Recurring: recurring,
	})
}

// ListForOwner returns the owner's reminders with fire times rendered in
// the owner's timezone. Storage stays UTC; only the display is localized.
func (s *ReminderService) ListForOwner(ctx context.Context, ownerID int64) ([]dto.ReminderItem, error) {
	loc, err := s.ownerLocation(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	reminders, err := s.reminderStorage.GetByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	items := make([]dto.ReminderItem, 0, len(reminders))
	for _, reminder := range reminders {
		items = append(items, dto.ReminderItem{
			ID:        reminder.ID,
			Recurring: reminder.Recurring,
			When:      timezone.FormatLocal(reminder.FireAt, loc),
			Message:   reminder.Message,
		})
	}
	return items, nil
}

// Delete removes a reminder. Deleting an id that does not exist is a no-op.
func (s *ReminderService) Delete(ctx context.Context, id int) error {
	return s.reminderStorage.Delete(ctx, id)
}

// SetTimezone upserts the owner's timezone preference.
func (s *ReminderService) SetTimezone(ctx context.Context, ownerID int64, code string) (*entity.TimezonePreference, error) {
	if !timezone.Supported(code) {
		return nil, fmt.Errorf("%w: %s", errorz.ErrUnknownTimezone, code)
	}
	return s.timezoneStorage.Upsert(ctx, ownerID, code)
}

// Export renders the owner's reminders as iCalendar data, or
// errorz.ErrNotFound when there are none.
func (s *ReminderService) Export(ctx context.Context, ownerID int64) ([]byte, error) {
	reminders, err := s.reminderStorage.GetByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if len(reminders) == 0 {
		return nil, errorz.ErrNotFound
	}
	return calendar.ExportRemindersToICS(reminders)
}

// DisplayTime renders an instant in the owner's timezone.
func (s *ReminderService) DisplayTime(ctx context.Context, ownerID int64, t time.Time) (string, error) {
	loc, err := s.ownerLocation(ctx, ownerID)
	if err != nil {
		return "", err
	}
	return timezone.FormatLocal(t, loc), nil
}

func (s *ReminderService) ownerLocation(ctx context.Context, ownerID int64) (*time.Location, error) {
	preference, err := s.timezoneStorage.Get(ctx, ownerID)
	if err != nil {
		if errors.Is(err, errorz.ErrNotFound) {
			return nil, errorz.ErrNoTimezoneSet
		}
		return nil, err
	}
	return timezone.Location(preference.Code)
}
