package calendar

import (
	"bytes"
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"

	"github.com/remyhq/remy-bot/internal/domain/entity"
)

// ExportRemindersToICS converts a user's reminders into iCalendar (.ics)
// data. Each reminder becomes an event at its fire time with a display alarm;
// recurring reminders carry a daily recurrence rule. Times are emitted in
// UTC, calendar clients localize on their side.
func ExportRemindersToICS(reminders []entity.Reminder) ([]byte, error) {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//remy-bot//EN")
	cal.SetVersion("2.0")
	cal.SetCalscale("GREGORIAN")

	now := time.Now()
	for _, reminder := range reminders {
		uid := fmt.Sprintf("reminder-%d@remy-bot", reminder.ID)
		e := cal.AddEvent(uid)

		e.SetDtStampTime(now)
		e.SetCreatedTime(now)
		e.SetModifiedAt(now)

		e.SetStartAt(reminder.FireAt)
		e.SetEndAt(reminder.FireAt.Add(15 * time.Minute))
		e.SetSummary(reminder.Message)
		e.SetStatus(ics.ObjectStatusConfirmed)
		e.SetSequence(0)

		if reminder.Recurring {
			e.AddRrule("FREQ=DAILY")
		}

		alarm := e.AddAlarm()
		alarm.SetAction(ics.ActionDisplay)
		alarm.AddProperty("TRIGGER;VALUE=DURATION", "-PT0M")
		alarm.SetDescription(reminder.Message)
	}

	var buf bytes.Buffer
	if err := cal.SerializeTo(&buf); err != nil {
		return nil, fmt.Errorf("error serializing calendar: %w", err)
	}
	return buf.Bytes(), nil
}
