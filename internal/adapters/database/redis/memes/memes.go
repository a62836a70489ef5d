// Package memes caches the captioning API's template list so that browsing
// does not hit the API on every /meme.
package memes

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/remyhq/remy-bot/internal/domain/common/errorz"
	"github.com/remyhq/remy-bot/pkg/imgflip"
)

const (
	templatesKey = "meme_templates"
	templatesTTL = 6 * time.Hour
)

type Storage struct {
	redis *redis.Client
}

func NewStorage(client *redis.Client) *Storage {
	return &Storage{
		redis: client,
	}
}

// Get returns the cached template list, or errorz.ErrNotFound when the cache
// is cold or expired.
func (s *Storage) Get(ctx context.Context) ([]imgflip.Template, error) {
	data, err := s.redis.Get(ctx, templatesKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, errorz.ErrNotFound
		}
		return nil, err
	}

	var templates []imgflip.Template
	if err = json.Unmarshal(data, &templates); err != nil {
		return nil, err
	}
	return templates, nil
}

// Set caches the template list with the cache TTL.
func (s *Storage) Set(ctx context.Context, templates []imgflip.Template) error {
	data, err := json.Marshal(templates)
	if err != nil {
		return err
	}
	return s.redis.Set(ctx, templatesKey, data, templatesTTL).Err()
}
