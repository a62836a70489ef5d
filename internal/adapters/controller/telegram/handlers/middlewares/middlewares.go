package middlewares

import (
	"strings"

	"github.com/nlypage/intele"
	tele "gopkg.in/telebot.v3"
	"gopkg.in/telebot.v3/layout"

	"github.com/remyhq/remy-bot/cmd/bot"
	"github.com/remyhq/remy-bot/pkg/logger/types"
)

type Handler struct {
	bot    *tele.Bot
	layout *layout.Layout
	logger *types.Logger
	input  *intele.InputManager
}

func New(b *bot.Bot) *Handler {
	return &Handler{
		bot:    b.Bot,
		layout: b.Layout,
		logger: b.Logger,
		input:  b.Input,
	}
}

// ResetInputOnCommand clears any pending input prompt when the user presses a
// cancel button or starts a new command.
func (h Handler) ResetInputOnCommand(next tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		if c.Callback() != nil {
			if strings.Contains(c.Callback().Data, "cancel") || strings.Contains(c.Callback().Unique, "cancel") {
				h.input.Cancel(c.Sender().ID)
			}
		}
		if c.Message() != nil {
			if strings.HasPrefix(c.Message().Text, "/") {
				h.input.Cancel(c.Sender().ID)
			}
		}

		return next(c)
	}
}
