package setup

import (
	"github.com/spf13/viper"
	tele "gopkg.in/telebot.v3"
	"gopkg.in/telebot.v3/middleware"

	"github.com/remyhq/remy-bot/cmd/bot"
	"github.com/remyhq/remy-bot/internal/adapters/controller/telegram/handlers/meme"
	"github.com/remyhq/remy-bot/internal/adapters/controller/telegram/handlers/menu"
	"github.com/remyhq/remy-bot/internal/adapters/controller/telegram/handlers/middlewares"
	"github.com/remyhq/remy-bot/internal/adapters/controller/telegram/handlers/misc"
	"github.com/remyhq/remy-bot/internal/adapters/controller/telegram/handlers/reminders"
	"github.com/remyhq/remy-bot/pkg/choice"
)

func Setup(b *bot.Bot) {
	// Pre-setup and global middlewares
	middle := middlewares.New(b)
	menuHandler := menu.New(b)
	miscHandler := misc.New(b)
	remindersHandler := reminders.New(b)
	memeHandler := meme.New(b)

	if viper.GetBool("settings.debug") {
		b.Use(middleware.Logger())
	}
	b.Use(b.Layout.Middleware("en"))
	b.Use(middleware.AutoRespond())
	b.Handle(tele.OnText, b.Input.Handler())
	b.Use(middle.ResetInputOnCommand)

	// Commands
	b.Handle("/start", menuHandler.SendMenu)
	b.Handle("/hello", miscHandler.Hello)
	b.Handle("/roll", miscHandler.Roll)
	b.Handle("/remindme", remindersHandler.RemindMe)
	b.Handle("/reminders", remindersHandler.ListReminders)
	b.Handle("/timezone", remindersHandler.SetTimezone)
	b.Handle("/export", remindersHandler.Export)
	b.Handle("/meme", memeHandler.Meme)

	// Callbacks
	b.Handle(&tele.Btn{Unique: choice.CallbackUnique}, b.Choice.Handler())
	b.Handle(b.Layout.Callback("mainMenu:hide"), menuHandler.Hide)
	b.Handle(b.Layout.Callback("mainMenu:remindme"), remindersHandler.RemindMe)
	b.Handle(b.Layout.Callback("mainMenu:reminders"), remindersHandler.ListReminders)
	b.Handle(b.Layout.Callback("mainMenu:timezone"), remindersHandler.SetTimezone)
	b.Handle(b.Layout.Callback("mainMenu:meme"), memeHandler.Meme)
}
