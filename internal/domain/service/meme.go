package service

import (
	"context"
	"errors"
	"fmt"
	"image"
	"net/http"
	"time"

	_ "image/jpeg"
	_ "image/png"

	"github.com/remyhq/remy-bot/internal/domain/common/errorz"
	"github.com/remyhq/remy-bot/internal/domain/dto"
	"github.com/remyhq/remy-bot/pkg/imgflip"
	"github.com/remyhq/remy-bot/pkg/logger/types"
	"github.com/remyhq/remy-bot/pkg/memegen"
)

type memeTemplateCache interface {
	Get(ctx context.Context) ([]imgflip.Template, error)
	Set(ctx context.Context, templates []imgflip.Template) error
}

type captionClient interface {
	HasCredentials() bool
	GetMemes(ctx context.Context) ([]imgflip.Template, error)
	CaptionImage(ctx context.Context, templateID, topText, bottomText string) (string, error)
}

// MemeService browses captioning templates (through a cache) and composes
// captioned images, remotely when API credentials are configured and locally
// otherwise.
type MemeService struct {
	cache  memeTemplateCache
	client captionClient
	http   *http.Client
	logger *types.Logger
}

func NewMemeService(cache memeTemplateCache, client captionClient, logger *types.Logger) *MemeService {
	return &MemeService{
		cache:  cache,
		client: client,
		http:   &http.Client{Timeout: 15 * time.Second},
		logger: logger,
	}
}

// Templates returns the template list, from cache when warm.
func (s *MemeService) Templates(ctx context.Context) ([]imgflip.Template, error) {
	templates, err := s.cache.Get(ctx)
	if err == nil {
		return templates, nil
	}
	if !errors.Is(err, errorz.ErrNotFound) {
		s.logger.Errorf("failed to read meme template cache: %v", err)
	}

	templates, err = s.client.GetMemes(ctx)
	if err != nil {
		return nil, err
	}

	if errSet := s.cache.Set(ctx, templates); errSet != nil {
		s.logger.Errorf("failed to cache meme templates: %v", errSet)
	}
	return templates, nil
}

// Caption renders the captions onto the template.
func (s *MemeService) Caption(ctx context.Context, template imgflip.Template, topText, bottomText string) (*dto.Meme, error) {
	if s.client.HasCredentials() {
		url, err := s.client.CaptionImage(ctx, template.ID, topText, bottomText)
		if err != nil {
			return nil, err
		}
		return &dto.Meme{URL: url}, nil
	}

	img, err := s.fetchTemplate(ctx, template.URL)
	if err != nil {
		return nil, err
	}
	data, err := memegen.Compose(img, topText, bottomText)
	if err != nil {
		return nil, err
	}
	return &dto.Meme{Image: data}, nil
}

func (s *MemeService) fetchTemplate(ctx context.Context, url string) (image.Image, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch template image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("template image returned status %d", resp.StatusCode)
	}

	img, _, err := image.Decode(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to decode template image: %w", err)
	}
	return img, nil
}
