package misc

import (
	"math/rand"

	tele "gopkg.in/telebot.v3"
	"gopkg.in/telebot.v3/layout"

	"github.com/remyhq/remy-bot/cmd/bot"
	"github.com/remyhq/remy-bot/pkg/logger/types"
)

type Handler struct {
	layout *layout.Layout
	logger *types.Logger
}

func New(b *bot.Bot) *Handler {
	return &Handler{
		layout: b.Layout,
		logger: b.Logger,
	}
}

func (h Handler) Hello(c tele.Context) error {
	h.logger.Infof("(user: %d) hello", c.Sender().ID)
	return c.Send(
		h.layout.Text(c, "hello_text", c.Sender().Username),
	)
}

func (h Handler) Roll(c tele.Context) error {
	roll := rand.Intn(100) + 1
	h.logger.Infof("(user: %d) roll: %d", c.Sender().ID, roll)
	return c.Send(
		h.layout.Text(c, "roll_text", struct {
			Username string
			Roll     int
		}{
			Username: c.Sender().Username,
			Roll:     roll,
		}),
	)
}
