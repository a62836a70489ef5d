package meme

import (
	"bytes"
	"context"
	"errors"

	"github.com/nlypage/intele"
	"github.com/nlypage/intele/collector"
	tele "gopkg.in/telebot.v3"
	"gopkg.in/telebot.v3/layout"

	"github.com/remyhq/remy-bot/cmd/bot"
	"github.com/remyhq/remy-bot/internal/domain/service"
	"github.com/remyhq/remy-bot/pkg/choice"
	"github.com/remyhq/remy-bot/pkg/imgflip"
	"github.com/remyhq/remy-bot/pkg/logger/types"
)

// maxTemplateChoices caps the template keyboard at a sane height.
const maxTemplateChoices = 10

// skipCaption is what the user sends to leave a caption empty.
const skipCaption = "-"

type Handler struct {
	memeService *service.MemeService

	input  *intele.InputManager
	choice *choice.Manager
	layout *layout.Layout
	logger *types.Logger
}

func New(b *bot.Bot) *Handler {
	return &Handler{
		memeService: service.NewMemeService(b.Redis.Memes, b.Imgflip, b.Logger),
		input:       b.Input,
		choice:      b.Choice,
		layout:      b.Layout,
		logger:      b.Logger,
	}
}

// Meme lets the user pick a template and caption it.
func (h Handler) Meme(c tele.Context) error {
	h.logger.Infof("(user: %d) make meme", c.Sender().ID)

	templates, err := h.memeService.Templates(context.Background())
	if err != nil {
		h.logger.Errorf("(user: %d) error while loading meme templates: %v", c.Sender().ID, err)
		return c.Send(h.layout.Text(c, "technical_issues", err.Error()))
	}
	if len(templates) > maxTemplateChoices {
		templates = templates[:maxTemplateChoices]
	}

	requestID := h.choice.NewRequest()
	options := make([]choice.Option, 0, len(templates))
	for _, template := range templates {
		options = append(options, choice.Option{Label: template.Name, Value: template.ID})
	}

	pickMessage, err := c.Bot().Send(c.Recipient(),
		h.layout.Text(c, "meme_template_request"),
		h.choice.Markup(requestID, options),
	)
	if err != nil {
		h.choice.Cancel(requestID)
		return err
	}

	templateID, err := h.choice.Await(context.Background(), requestID)
	if err != nil {
		if errors.Is(err, choice.ErrTimeout) {
			_, _ = c.Bot().EditReplyMarkup(pickMessage, nil)
			return nil
		}
		return err
	}

	var template imgflip.Template
	for _, t := range templates {
		if t.ID == templateID {
			template = t
			break
		}
	}

	topText, ok := h.collectCaption(c, "meme_top_request")
	if !ok {
		return nil
	}
	bottomText, ok := h.collectCaption(c, "meme_bottom_request")
	if !ok {
		return nil
	}

	meme, err := h.memeService.Caption(context.Background(), template, topText, bottomText)
	if err != nil {
		h.logger.Errorf("(user: %d) error while captioning meme: %v", c.Sender().ID, err)
		return c.Send(h.layout.Text(c, "technical_issues", err.Error()))
	}
	h.logger.Infof("(user: %d) meme captioned (template: %s)", c.Sender().ID, template.ID)

	if meme.URL != "" {
		return c.Send(&tele.Photo{File: tele.FromURL(meme.URL)})
	}
	return c.Send(&tele.Photo{File: tele.FromReader(bytes.NewReader(meme.Image))})
}

// collectCaption asks for one caption line; "-" leaves it empty.
func (h Handler) collectCaption(c tele.Context, promptKey string) (string, bool) {
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
			h.logger.Errorf("(user: %d) error while input caption: %v", c.Sender().ID, err)
			_ = inputCollector.Send(c,
				h.layout.Text(c, "input_error", h.layout.Text(c, promptKey)),
			)
		default:
			_ = inputCollector.Clear(c, collector.ClearOptions{IgnoreErrors: true})
			if message.Text == skipCaption {
				return "", true
			}
			return message.Text, true
		}
	}
}
