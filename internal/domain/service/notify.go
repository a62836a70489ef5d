package service

import (
	"strings"

	"go.uber.org/zap/zapcore"
	tele "gopkg.in/telebot.v3"
	"gopkg.in/telebot.v3/layout"

	"github.com/remyhq/remy-bot/pkg/logger/types"
)

// NotifyService is the delivery primitive: best-effort sends into a chat.
// Failures are returned to the caller for logging, never retried here.
type NotifyService struct {
	bot    *tele.Bot
	layout *layout.Layout
	logger *types.Logger
}

func NewNotifyService(bot *tele.Bot, layout *layout.Layout, logger *types.Logger) *NotifyService {
	return &NotifyService{
		bot:    bot,
		layout: layout,
		logger: logger,
	}
}

// Deliver sends a fired reminder into its chat, mentioning the owner.
func (s *NotifyService) Deliver(chatID, ownerID int64, message string) error {
	chat, err := s.bot.ChatByID(chatID)
	if err != nil {
		return err
	}

	_, err = s.bot.Send(chat, s.layout.TextLocale("en", "reminder_fire", struct {
		OwnerID int64
		Message string
	}{
		OwnerID: ownerID,
		Message: message,
	}))
	return err
}

// LogHook returns a log hook for the specified channel
//
// Parameters:
//   - channelID is the channel to send the log to
//   - locale is the locale to use for the layout
//   - level is the minimum log level to send
func (s *NotifyService) LogHook(channelID int64, locale string, level zapcore.Level) (types.LogHook, error) {
	chat, err := s.bot.ChatByID(channelID)
	if err != nil {
		return nil, err
	}
	return func(log types.Log) {
		if log.Level >= level {
			_, err = s.bot.Send(chat, s.layout.TextLocale(locale, "log", log))
			if err != nil && !strings.Contains(log.Message, "failed to send log to channel") {
				s.logger.Errorf("failed to send log to channel %d: %v\n", channelID, err)
			}
		}
	}, nil
}
