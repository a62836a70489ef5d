package main

import (
	"log"

	_ "time/tzdata"

	"github.com/remyhq/remy-bot/cmd/bot"
	"github.com/remyhq/remy-bot/internal/adapters/config"
	"github.com/remyhq/remy-bot/internal/adapters/controller/telegram/scheduler"
	setupBot "github.com/remyhq/remy-bot/internal/adapters/controller/telegram/setup"
)

func main() {
	cfg := config.Get()
	b, err := bot.New(cfg)
	if err != nil {
		log.Panic(err)
	}

	setupBot.Setup(b)

	reminderScheduler, err := scheduler.NewReminderScheduler(b)
	if err != nil {
		log.Panic(err)
	}
	reminderScheduler.Start()
	defer reminderScheduler.Stop()

	b.Start()
}
