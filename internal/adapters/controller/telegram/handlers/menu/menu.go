package menu

import (
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
		logger: b.Logger,
		layout: b.Layout,
	}
}

func (h Handler) SendMenu(c tele.Context) error {
	h.logger.Infof("(user: %d) send main menu", c.Sender().ID)
	return c.Send(
		h.layout.Text(c, "main_menu_text", c.Sender().Username),
		h.layout.Markup(c, "mainMenu:menu"),
	)
}

func (h Handler) Hide(c tele.Context) error {
	return c.Delete()
}
