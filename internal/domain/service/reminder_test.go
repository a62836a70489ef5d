package service

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	_ "time/tzdata"

	"github.com/remyhq/remy-bot/internal/adapters/database/jsondb"
	"github.com/remyhq/remy-bot/internal/domain/common/errorz"
)

func newTestReminderService(t *testing.T) *ReminderService {
	t.Helper()
	db, err := jsondb.Open(filepath.Join(t.TempDir(), "reminders.json"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	return NewReminderService(jsondb.NewReminderStorage(db), jsondb.NewTimezoneStorage(db))
}

func TestCreateWithoutTimezone(t *testing.T) {
	service := newTestReminderService(t)
	ctx := context.Background()

	_, err := service.Create(ctx, 1, 1, "01/15/26 09:00", "call mum", false)
	if !errors.Is(err, errorz.ErrNoTimezoneSet) {
		t.Fatalf("Create error = %v, want ErrNoTimezoneSet", err)
	}

	items, err := service.ListForOwner(ctx, 1)
	if err == nil && len(items) != 0 {
		t.Fatalf("rejected Create stored %d reminders", len(items))
	}
}

func TestCreateInterpretsTimeInOwnerTimezone(t *testing.T) {
	service := newTestReminderService(t)
	ctx := context.Background()

	if _, err := service.SetTimezone(ctx, 1, "CEST"); err != nil {
		t.Fatalf("SetTimezone: %v", err)
	}

	reminder, err := service.Create(ctx, 1, 42, "07/20/26 14:00", "lunch", false)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	// 14:00 Paris summer time is 12:00 UTC.
	want := time.Date(2026, 7, 20, 12, 0, 0, 0, time.UTC)
	if !reminder.FireAt.Equal(want) {
		t.Fatalf("FireAt = %v, want %v", reminder.FireAt, want)
	}
	if reminder.ChatID != 42 {
		t.Fatalf("ChatID = %d, want 42", reminder.ChatID)
	}
}

func TestCreateUnparseableTime(t *testing.T) {
	service := newTestReminderService(t)
	ctx := context.Background()

	if _, err := service.SetTimezone(ctx, 1, "GMT"); err != nil {
		t.Fatalf("SetTimezone: %v", err)
	}

	_, err := service.Create(ctx, 1, 1, "whenever feels right", "x", false)
	if !errors.Is(err, errorz.ErrUnparseableTime) {
		t.Fatalf("Create error = %v, want ErrUnparseableTime", err)
	}
}

func TestListForOwnerLocalizesTimes(t *testing.T) {
	service := newTestReminderService(t)
	ctx := context.Background()

	if _, err := service.SetTimezone(ctx, 1, "CET"); err != nil {
		t.Fatalf("SetTimezone: %v", err)
	}
	if _, err := service.Create(ctx, 1, 1, "01/10/26 13:00", "ski trip", true); err != nil {
		t.Fatalf("Create: %v", err)
	}

	items, err := service.ListForOwner(ctx, 1)
	if err != nil {
		t.Fatalf("ListForOwner: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("ListForOwner returned %d items, want 1", len(items))
	}
	if items[0].When != "10/01/26 13:00" {
		t.Fatalf("When = %q, want the wall clock it was created with", items[0].When)
	}
	if !items[0].Recurring {
		t.Fatal("Recurring flag lost")
	}
}

func TestSetTimezoneUnknownCode(t *testing.T) {
	service := newTestReminderService(t)

	_, err := service.SetTimezone(context.Background(), 1, "PST")
	if !errors.Is(err, errorz.ErrUnknownTimezone) {
		t.Fatalf("SetTimezone error = %v, want ErrUnknownTimezone", err)
	}
}

func TestSetTimezoneTwiceKeepsOnePreference(t *testing.T) {
	service := newTestReminderService(t)
	ctx := context.Background()

	first, err := service.SetTimezone(ctx, 1, "GMT")
	if err != nil {
		t.Fatalf("SetTimezone: %v", err)
	}
	second, err := service.SetTimezone(ctx, 1, "CET")
	if err != nil {
		t.Fatalf("second SetTimezone: %v", err)
	}
	if second.ID != first.ID {
		t.Fatalf("SetTimezone created a second record: ids %d and %d", first.ID, second.ID)
	}
	if second.Code != "CET" {
		t.Fatalf("Code = %q, want CET", second.Code)
	}
}

func TestDeleteIsIdempotent(t *testing.T) {
	service := newTestReminderService(t)
	ctx := context.Background()

	if _, err := service.SetTimezone(ctx, 1, "GMT"); err != nil {
		t.Fatalf("SetTimezone: %v", err)
	}
	reminder, err := service.Create(ctx, 1, 1, "01/15/26 09:00", "x", false)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err = service.Delete(ctx, reminder.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err = service.Delete(ctx, reminder.ID); err != nil {
		t.Fatalf("second Delete: %v", err)
	}

	items, err := service.ListForOwner(ctx, 1)
	if err != nil {
		t.Fatalf("ListForOwner: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("reminder survived deletion: %+v", items)
	}
}

func TestExportWithoutReminders(t *testing.T) {
	service := newTestReminderService(t)

	_, err := service.Export(context.Background(), 1)
	if !errors.Is(err, errorz.ErrNotFound) {
		t.Fatalf("Export error = %v, want ErrNotFound", err)
	}
}

func TestExportProducesCalendar(t *testing.T) {
	service := newTestReminderService(t)
	ctx := context.Background()

	if _, err := service.SetTimezone(ctx, 1, "GMT"); err != nil {
		t.Fatalf("SetTimezone: %v", err)
	}
	if _, err := service.Create(ctx, 1, 1, "01/15/26 09:00", "dentist", false); err != nil {
		t.Fatalf("Create: %v", err)
	}

	data, err := service.Export(ctx, 1)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("Export returned empty data")
	}
}
