package config

import (
	"os"
	"time"

	"github.com/spf13/viper"

	"github.com/remyhq/remy-bot/internal/adapters/database/jsondb"
	"github.com/remyhq/remy-bot/internal/adapters/database/redis"
	"github.com/remyhq/remy-bot/pkg/imgflip"
	"github.com/remyhq/remy-bot/pkg/logger"
)

type Config struct {
	Store   *jsondb.DB
	Redis   *redis.Client
	Imgflip *imgflip.Client
}

func initConfig() {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")

	viper.SetDefault("service.store.path", "reminders.json")
	viper.SetDefault("service.redis.host", "localhost")
	viper.SetDefault("service.redis.port", "6379")
	viper.SetDefault("service.imgflip.api-url", imgflip.DefaultBaseURL)

	if err := viper.ReadInConfig(); err != nil {
		panic(err)
	}

	if err := os.Setenv("BOT_TOKEN", viper.GetString("bot.token")); err != nil {
		panic(err)
	}
}

func Get() *Config {
	initConfig()

	var timeLocation *time.Location
	if tz := viper.GetString("settings.timezone"); tz != "" {
		loc, err := time.LoadLocation(tz)
		if err != nil {
			panic(err)
		}
		timeLocation = loc
	}

	err := logger.Init(logger.Config{
		Debug:        viper.GetBool("settings.debug"),
		TimeLocation: timeLocation,
		LogToFile:    viper.GetBool("settings.log-to-file"),
		LogsDir:      viper.GetString("settings.logs-dir"),
	})
	if err != nil {
		panic(err)
	}

	store, err := jsondb.Open(viper.GetString("service.store.path"))
	if err != nil {
		logger.Log.Panicf("Failed to open the reminder store: %v", err)
	} else {
		logger.Log.Infof("Successfully opened the reminder store at %s", viper.GetString("service.store.path"))
	}

	redisClient, err := redis.New(redis.Options{
		Host:     viper.GetString("service.redis.host"),
		Port:     viper.GetString("service.redis.port"),
		Password: viper.GetString("service.redis.password"),
	})
	if err != nil {
		logger.Log.Panicf("Failed to connect to redis: %v", err)
	} else {
		logger.Log.Info("Successfully connected to redis")
	}

	imgflipClient := imgflip.NewClient(
		viper.GetString("service.imgflip.api-url"),
		viper.GetString("service.imgflip.username"),
		viper.GetString("service.imgflip.password"),
	)

	return &Config{
		Store:   store,
		Redis:   redisClient,
		Imgflip: imgflipClient,
	}
}
