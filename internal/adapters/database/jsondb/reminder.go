package jsondb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/remyhq/remy-bot/internal/domain/common/errorz"
	"github.com/remyhq/remy-bot/internal/domain/entity"
)

const reminderTable = "reminders"

// timeLayout is the storage format for fire times: UTC RFC 3339. The format
// is fixed-width, so string comparison over stored values is chronological.
const timeLayout = time.RFC3339

type ReminderStorage struct {
	table *Table
}

func NewReminderStorage(db *DB) *ReminderStorage {
	return &ReminderStorage{
		table: db.Table(reminderTable),
	}
}

// Create is a function that stores a new reminder and fills in its id.
func (s *ReminderStorage) Create(_ context.Context, reminder *entity.Reminder) (*entity.Reminder, error) {
	id, err := s.table.Insert(Document{
		"user_id":    reminder.OwnerID,
		"channel_id": reminder.ChatID,
		"remind_at":  reminder.FireAt.UTC().Format(timeLayout),
		"message":    reminder.Message,
		"repeat":     reminder.Recurring,
	})
	if err != nil {
		return nil, err
	}
	reminder.ID = id
	return reminder, nil
}

// GetByOwner is a function that gets all reminders belonging to one user.
// Malformed records are reported in the error alongside the readable ones.
func (s *ReminderStorage) GetByOwner(_ context.Context, ownerID int64) ([]entity.Reminder, error) {
	records := s.table.Search(func(doc Document) bool {
		id, ok := asInt64(doc["user_id"])
		return ok && id == ownerID
	})
	return decodeReminders(records)
}

// GetDue is a function that gets all reminders with a fire time at or before
// the given instant.
func (s *ReminderStorage) GetDue(_ context.Context, now time.Time) ([]entity.Reminder, error) {
	bound := now.UTC().Format(timeLayout)
	records := s.table.Search(func(doc Document) bool {
		at, ok := doc["remind_at"].(string)
		return ok && at <= bound
	})
	return decodeReminders(records)
}

// Reschedule is a function that moves a reminder's fire time.
func (s *ReminderStorage) Reschedule(_ context.Context, id int, at time.Time) error {
	return s.table.Update(id, Document{
		"remind_at": at.UTC().Format(timeLayout),
	})
}

// Delete is a function that removes a reminder. Removing an id that does not
// exist is a no-op.
func (s *ReminderStorage) Delete(_ context.Context, id int) error {
	return s.table.Delete(id)
}

// decodeReminders decodes every readable record. Malformed records are
// skipped, not fatal: one corrupt document must never block the scan for the
// rest of the table. The joined error reports each skipped record by id.
func decodeReminders(records []Record) ([]entity.Reminder, error) {
	reminders := make([]entity.Reminder, 0, len(records))
	var errs []error
	for _, record := range records {
		reminder, err := decodeReminder(record)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		reminders = append(reminders, reminder)
	}
	return reminders, errors.Join(errs...)
}

func decodeReminder(record Record) (entity.Reminder, error) {
	ownerID, ok := asInt64(record.Fields["user_id"])
	if !ok {
		return entity.Reminder{}, fmt.Errorf("%w: reminder %d has no user_id", errorz.ErrMalformedRecord, record.ID)
	}
	chatID, ok := asInt64(record.Fields["channel_id"])
	if !ok {
		return entity.Reminder{}, fmt.Errorf("%w: reminder %d has no channel_id", errorz.ErrMalformedRecord, record.ID)
	}
	remindAt, ok := record.Fields["remind_at"].(string)
	if !ok {
		return entity.Reminder{}, fmt.Errorf("%w: reminder %d has no remind_at", errorz.ErrMalformedRecord, record.ID)
	}
	fireAt, err := time.Parse(timeLayout, remindAt)
	if err != nil {
		return entity.Reminder{}, fmt.Errorf("%w: reminder %d remind_at: %v", errorz.ErrMalformedRecord, record.ID, err)
	}
	message, ok := record.Fields["message"].(string)
	if !ok {
		return entity.Reminder{}, fmt.Errorf("%w: reminder %d has no message", errorz.ErrMalformedRecord, record.ID)
	}
	recurring, _ := record.Fields["repeat"].(bool)

	return entity.Reminder{
		ID:        record.ID,
		OwnerID:   ownerID,
		ChatID:    chatID,
		FireAt:    fireAt.UTC(),
		Message:   message,
		Recurring: recurring,
	}, nil
}

// asInt64 accepts the numeric forms a stored id can take: int64 straight
// from an insert in this process, float64 after a decode from disk.
func asInt64(value any) (int64, bool) {
	switch v := value.(type) {
	case int64:
		return v, true
	case int:
		return int64(v), true
	case float64:
		return int64(v), true
	default:
		return 0, false
	}
}
