package service

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/remyhq/remy-bot/internal/domain/common/errorz"
	"github.com/remyhq/remy-bot/pkg/imgflip"
	"github.com/remyhq/remy-bot/pkg/logger/types"
)

type fakeTemplateCache struct {
	templates []imgflip.Template
	setCalls  int
}

func (f *fakeTemplateCache) Get(context.Context) ([]imgflip.Template, error) {
	if f.templates == nil {
		return nil, errorz.ErrNotFound
	}
	return f.templates, nil
}

func (f *fakeTemplateCache) Set(_ context.Context, templates []imgflip.Template) error {
	f.templates = templates
	f.setCalls++
	return nil
}

type fakeCaptionClient struct {
	credentials  bool
	templates    []imgflip.Template
	getCalls     int
	captionURL   string
	captionCalls int
}

func (f *fakeCaptionClient) HasCredentials() bool { return f.credentials }

func (f *fakeCaptionClient) GetMemes(context.Context) ([]imgflip.Template, error) {
	f.getCalls++
	return f.templates, nil
}

func (f *fakeCaptionClient) CaptionImage(_ context.Context, _, _, _ string) (string, error) {
	f.captionCalls++
	return f.captionURL, nil
}

func nopLogger() *types.Logger {
	return &types.Logger{SugaredLogger: zap.NewNop().Sugar()}
}

func TestTemplatesFillsCacheOnMiss(t *testing.T) {
	cache := &fakeTemplateCache{}
	client := &fakeCaptionClient{templates: []imgflip.Template{{ID: "1", Name: "Drake"}}}
	service := NewMemeService(cache, client, nopLogger())

	templates, err := service.Templates(context.Background())
	if err != nil {
		t.Fatalf("Templates: %v", err)
	}
	if len(templates) != 1 || templates[0].Name != "Drake" {
		t.Fatalf("Templates = %+v", templates)
	}
	if client.getCalls != 1 || cache.setCalls != 1 {
		t.Fatalf("getCalls = %d, setCalls = %d, want 1 and 1", client.getCalls, cache.setCalls)
	}

	// Second call is served from the cache.
	if _, err = service.Templates(context.Background()); err != nil {
		t.Fatalf("second Templates: %v", err)
	}
	if client.getCalls != 1 {
		t.Fatalf("cache warm but getCalls = %d", client.getCalls)
	}
}

func TestCaptionRemoteWithCredentials(t *testing.T) {
	client := &fakeCaptionClient{credentials: true, captionURL: "https://i.example/captioned.jpg"}
	service := NewMemeService(&fakeTemplateCache{}, client, nopLogger())

	meme, err := service.Caption(context.Background(), imgflip.Template{ID: "1"}, "top", "bottom")
	if err != nil {
		t.Fatalf("Caption: %v", err)
	}
	if meme.URL != "https://i.example/captioned.jpg" || meme.Image != nil {
		t.Fatalf("meme = %+v, want hosted URL only", meme)
	}
	if client.captionCalls != 1 {
		t.Fatalf("captionCalls = %d, want 1", client.captionCalls)
	}
}

func TestCaptionLocalFallbackWithoutCredentials(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 100, 100))
	for x := 0; x < 100; x++ {
		for y := 0; y < 100; y++ {
			img.Set(x, y, color.RGBA{R: 200, G: 200, B: 200, A: 255})
		}
	}
	var templatePNG bytes.Buffer
	if err := png.Encode(&templatePNG, img); err != nil {
		t.Fatalf("png.Encode: %v", err)
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write(templatePNG.Bytes())
	}))
	defer server.Close()

	client := &fakeCaptionClient{credentials: false}
	service := NewMemeService(&fakeTemplateCache{}, client, nopLogger())

	meme, err := service.Caption(context.Background(), imgflip.Template{ID: "1", URL: server.URL}, "top", "bottom")
	if err != nil {
		t.Fatalf("Caption: %v", err)
	}
	if client.captionCalls != 0 {
		t.Fatal("local fallback still called the remote API")
	}
	if meme.URL != "" || len(meme.Image) == 0 {
		t.Fatalf("meme = %+v, want composed image bytes", meme)
	}
	if _, err = png.Decode(bytes.NewReader(meme.Image)); err != nil {
		t.Fatalf("composed meme is not a PNG: %v", err)
	}
}

func TestCaptionLocalFallbackTemplateFetchError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	service := NewMemeService(&fakeTemplateCache{}, &fakeCaptionClient{}, nopLogger())

	if _, err := service.Caption(context.Background(), imgflip.Template{URL: server.URL}, "a", "b"); err == nil {
		t.Fatal("Caption accepted a missing template image")
	}
}

