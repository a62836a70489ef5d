package calendar

import (
	"strings"
	"testing"
	"time"

	"github.com/remyhq/remy-bot/internal/domain/entity"
)

func TestExportRemindersToICS(t *testing.T) {
	reminders := []entity.Reminder{
		{
			ID:      1,
			OwnerID: 10,
			ChatID:  10,
			FireAt:  time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC),
			Message: "dentist appointment",
		},
		{
			ID:        2,
			OwnerID:   10,
			ChatID:    10,
			FireAt:    time.Date(2026, 3, 15, 8, 0, 0, 0, time.UTC),
			Message:   "morning run",
			Recurring: true,
		},
	}

	data, err := ExportRemindersToICS(reminders)
	if err != nil {
		t.Fatalf("ExportRemindersToICS: %v", err)
	}
	ics := string(data)

	if !strings.Contains(ics, "BEGIN:VCALENDAR") || !strings.Contains(ics, "END:VCALENDAR") {
		t.Fatal("output is not a calendar")
	}
	if got := strings.Count(ics, "BEGIN:VEVENT"); got != 2 {
		t.Fatalf("calendar holds %d events, want 2", got)
	}
	if !strings.Contains(ics, "dentist appointment") || !strings.Contains(ics, "morning run") {
		t.Fatal("reminder messages missing from calendar")
	}
	if got := strings.Count(ics, "FREQ=DAILY"); got != 1 {
		t.Fatalf("calendar holds %d daily rules, want exactly 1", got)
	}
	if !strings.Contains(ics, "BEGIN:VALARM") {
		t.Fatal("events carry no alarm")
	}
	if !strings.Contains(ics, "reminder-1@remy-bot") {
		t.Fatal("event uid missing")
	}
}

func TestExportEmptyListYieldsEmptyCalendar(t *testing.T) {
	data, err := ExportRemindersToICS(nil)
	if err != nil {
		t.Fatalf("ExportRemindersToICS: %v", err)
	}
	if strings.Contains(string(data), "BEGIN:VEVENT") {
		t.Fatal("empty export contains events")
	}
}
