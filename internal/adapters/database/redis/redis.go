package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/remyhq/remy-bot/internal/adapters/database/redis/memes"
	"github.com/remyhq/remy-bot/internal/adapters/database/redis/states"
)

type Client struct {
	States *states.Storage
	Memes  *memes.Storage
}

type Options struct {
	Host     string
	Port     string
	Password string
}

func New(opts Options) (*Client, error) {
	stateStorage := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", opts.Host, opts.Port),
		Password: opts.Password,
		DB:       0,
	})
	if err := stateStorage.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping state storage: %w", err)
	}

	memeStorage := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", opts.Host, opts.Port),
		Password: opts.Password,
		DB:       1,
	})
	if err := memeStorage.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping meme storage: %w", err)
	}

	return &Client{
		States: states.NewStorage(stateStorage),
		Memes:  memes.NewStorage(memeStorage),
	}, nil
}
