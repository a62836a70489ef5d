// Package reminders wires the reminder lifecycle to Telegram commands.
package reminders

import (
	"bytes"
	"context"
	"errors"
	"strconv"

	"github.com/nlypage/intele"
	"github.com/nlypage/intele/collector"
	tele "gopkg.in/telebot.v3"
	"gopkg.in/telebot.v3/layout"

	"github.com/remyhq/remy-bot/cmd/bot"
	"github.com/remyhq/remy-bot/internal/adapters/database/jsondb"
	"github.com/remyhq/remy-bot/internal/domain/common/errorz"
	"github.com/remyhq/remy-bot/internal/domain/dto"
	"github.com/remyhq/remy-bot/internal/domain/service"
	"github.com/remyhq/remy-bot/internal/domain/utils/timezone"
	"github.com/remyhq/remy-bot/pkg/choice"
	"github.com/remyhq/remy-bot/pkg/logger/types"
)

const messagePreviewLimit = 50

type Handler struct {
	reminderService *service.ReminderService

	input  *intele.InputManager
	choice *choice.Manager
	layout *layout.Layout
	logger *types.Logger
}

func New(b *bot.Bot) *Handler {
	reminderStorage := jsondb.NewReminderStorage(b.Store)
	timezoneStorage := jsondb.NewTimezoneStorage(b.Store)

	return &Handler{
		reminderService: service.NewReminderService(reminderStorage, timezoneStorage),
		input:           b.Input,
		choice:          b.Choice,
		layout:          b.Layout,
		logger:          b.Logger,
	}
}

// RemindMe walks the user through creating a reminder: fire time, message
// text, then a one-off/daily choice.
func (h Handler) RemindMe(c tele.Context) error {
	h.logger.Infof("(user: %d) create reminder", c.Sender().ID)

	timeText, ok := h.collectInput(c, "time_request")
	if !ok {
		return nil
	}
	message, ok := h.collectInput(c, "message_request")
	if !ok {
		return nil
	}

	requestID := h.choice.NewRequest()
	repeatMessage, err := c.Bot().Send(c.Recipient(),
		h.layout.Text(c, "repeat_request"),
		h.choice.Markup(requestID, []choice.Option{
			{Label: h.layout.Text(c, "repeat_daily_option"), Value: "daily"},
			{Label: h.layout.Text(c, "repeat_once_option"), Value: "once"},
		}),
	)
	if err != nil {
		h.choice.Cancel(requestID)
		return err
	}

	value, err := h.choice.Await(context.Background(), requestID)
	if err != nil {
		if errors.Is(err, choice.ErrTimeout) {
			_, _ = c.Bot().EditReplyMarkup(repeatMessage, nil)
			return nil
		}
		return err
	}
	recurring := value == "daily"

	reminder, err := h.reminderService.Create(context.Background(), c.Sender().ID, c.Chat().ID, timeText, message, recurring)
	if err != nil {
		switch {
		case errors.Is(err, errorz.ErrNoTimezoneSet):
			return c.Send(h.layout.Text(c, "no_timezone_text"))
		case errors.Is(err, errorz.ErrUnparseableTime):
			return c.Send(h.layout.Text(c, "unparseable_time_text", timeText))
		default:
			h.logger.Errorf("(user: %d) error while creating reminder: %v", c.Sender().ID, err)
			return c.Send(h.layout.Text(c, "technical_issues", err.Error()))
		}
	}

	when, err := h.reminderService.DisplayTime(context.Background(), c.Sender().ID, reminder.FireAt)
	if err != nil {
		return err
	}
	h.logger.Infof("(user: %d) reminder created (reminder: %d, recurring: %t)", c.Sender().ID, reminder.ID, recurring)

	return c.Send(h.layout.Text(c, "reminder_set_text", struct {
		When      string
		Recurring bool
	}{
		When:      when,
		Recurring: recurring,
	}))
}

// ListReminders shows all pending reminders as buttons; picking one deletes
// it. The keyboard silently expires after the selection timeout.
func (h Handler) ListReminders(c tele.Context) error {
	h.logger.Infof("(user: %d) list reminders", c.Sender().ID)

	items, err := h.reminderService.ListForOwner(context.Background(), c.Sender().ID)
	if err != nil {
		if errors.Is(err, errorz.ErrNoTimezoneSet) {
			return c.Send(h.layout.Text(c, "no_timezone_text"))
		}
		h.logger.Errorf("(user: %d) error while listing reminders: %v", c.Sender().ID, err)
		return c.Send(h.layout.Text(c, "technical_issues", err.Error()))
	}
	if len(items) == 0 {
		return c.Send(h.layout.Text(c, "no_reminders_text"))
	}

	requestID := h.choice.NewRequest()
	options := make([]choice.Option, 0, len(items))
	for _, item := range items {
		options = append(options, choice.Option{
			Label: reminderLabel(item),
			Value: strconv.Itoa(item.ID),
		})
	}

	listMessage, err := c.Bot().Send(c.Recipient(),
		h.layout.Text(c, "select_reminder_text"),
		h.choice.Markup(requestID, options),
	)
	if err != nil {
		h.choice.Cancel(requestID)
		return err
	}

	value, err := h.choice.Await(context.Background(), requestID)
	if err != nil {
		if errors.Is(err, choice.ErrTimeout) {
			_, _ = c.Bot().EditReplyMarkup(listMessage, nil)
			return nil
		}
		return err
	}

	id, err := strconv.Atoi(value)
	if err != nil {
		return errorz.ErrInvalidCallbackData
	}
	if err = h.reminderService.Delete(context.Background(), id); err != nil {
		h.logger.Errorf("(user: %d) error while deleting reminder: %v", c.Sender().ID, err)
		return c.Send(h.layout.Text(c, "technical_issues", err.Error()))
	}

	h.logger.Infof("(user: %d) reminder deleted (reminder: %d)", c.Sender().ID, id)
	_, err = c.Bot().Edit(listMessage, h.layout.Text(c, "reminder_deleted_text"))
	return err
}

// SetTimezone lets the user pick one of the supported timezone codes.
func (h Handler) SetTimezone(c tele.Context) error {
	h.logger.Infof("(user: %d) set timezone", c.Sender().ID)

	requestID := h.choice.NewRequest()
	codes := timezone.Codes()
	options := make([]choice.Option, 0, len(codes))
	for _, code := range codes {
		options = append(options, choice.Option{Label: code, Value: code})
	}

	pickMessage, err := c.Bot().Send(c.Recipient(),
		h.layout.Text(c, "timezone_request"),
		h.choice.Markup(requestID, options),
	)
	if err != nil {
		h.choice.Cancel(requestID)
		return err
	}

	code, err := h.choice.Await(context.Background(), requestID)
	if err != nil {
		if errors.Is(err, choice.ErrTimeout) {
			_, _ = c.Bot().EditReplyMarkup(pickMessage, nil)
			return nil
		}
		return err
	}

	preference, err := h.reminderService.SetTimezone(context.Background(), c.Sender().ID, code)
	if err != nil {
		if errors.Is(err, errorz.ErrUnknownTimezone) {
			return c.Send(h.layout.Text(c, "unknown_timezone_text", code))
		}
		h.logger.Errorf("(user: %d) error while setting timezone: %v", c.Sender().ID, err)
		return c.Send(h.layout.Text(c, "technical_issues", err.Error()))
	}

	h.logger.Infof("(user: %d) timezone set: %s", c.Sender().ID, preference.Code)
	_, err = c.Bot().Edit(pickMessage, h.layout.Text(c, "timezone_set_text", preference.Code))
	return err
}

// Export sends the user's reminders as an iCalendar file.
func (h Handler) Export(c tele.Context) error {
	h.logger.Infof("(user: %d) export reminders", c.Sender().ID)

	data, err := h.reminderService.Export(context.Background(), c.Sender().ID)
	if err != nil {
		if errors.Is(err, errorz.ErrNotFound) {
			return c.Send(h.layout.Text(c, "no_reminders_text"))
		}
		h.logger.Errorf("(user: %d) error while exporting reminders: %v", c.Sender().ID, err)
		return c.Send(h.layout.Text(c, "technical_issues", err.Error()))
	}

	return c.Send(&tele.Document{
		File:     tele.FromReader(bytes.NewReader(data)),
		FileName: "reminders.ics",
		MIME:     "text/calendar",
	})
}

// collectInput prompts with the given layout key and waits for a text reply.
// Returns ok=false when the user cancels the input.
func (h Handler) collectInput(c tele.Context, promptKey string) (string, bool) {
	inputCollector := collector.New()
	_ = inputCollector.Send(c, h.layout.Text(c, promptKey))

	for {
		message, canceled, err := h.input.Get(context.Background(), c.Sender().ID, 0)
		if message != nil {
			inputCollector.Collect(message)
		}
		switch {
		case canceled:
			_ = inputCollector.Clear(c, collector.ClearOptions{IgnoreErrors: true, ExcludeLast: true})
			return "", false
		case err != nil:
			h.logger.Errorf("(user: %d) error while input: %v", c.Sender().ID, err)
			_ = inputCollector.Send(c,
				h.layout.Text(c, "input_error", h.layout.Text(c, promptKey)),
			)
		case message.Text == "":
			_ = inputCollector.Send(c,
				h.layout.Text(c, "empty_input_text", h.layout.Text(c, promptKey)),
			)
		default:
			_ = inputCollector.Clear(c, collector.ClearOptions{IgnoreErrors: true})
			return message.Text, true
		}
	}
}

// reminderLabel renders one dropdown row: recurrence glyph, localized fire
// time and a truncated message preview.
func reminderLabel(item dto.ReminderItem) string {
	glyph := "📅"
	if item.Recurring {
		glyph = "🔁"
	}

	preview := item.Message
	if runes := []rune(preview); len(runes) > messagePreviewLimit {
		preview = string(runes[:messagePreviewLimit])
	}

	return glyph + " " + item.When + " - " + preview
}
