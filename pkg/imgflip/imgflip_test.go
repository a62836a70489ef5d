package imgflip

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestGetMemes(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/get_memes" {
			t.Errorf("path = %q, want /get_memes", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{
			"success": true,
			"data": {
				"memes": [
					{"id": "61579", "name": "One Does Not Simply", "url": "https://i.example/1.jpg", "width": 568, "height": 335, "box_count": 2}
				]
			}
		}`))
	}))
	defer server.Close()

	templates, err := NewClient(server.URL, "", "").GetMemes(context.Background())
	if err != nil {
		t.Fatalf("GetMemes: %v", err)
	}
	if len(templates) != 1 {
		t.Fatalf("GetMemes returned %d templates, want 1", len(templates))
	}
	got := templates[0]
	if got.ID != "61579" || got.Name != "One Does Not Simply" || got.BoxCount != 2 {
		t.Fatalf("template = %+v", got)
	}
}

func TestCaptionImageSendsForm(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/caption_image" {
			t.Errorf("%s %s, want POST /caption_image", r.Method, r.URL.Path)
		}
		if err := r.ParseForm(); err != nil {
			t.Errorf("ParseForm: %v", err)
		}
		for key, want := range map[string]string{
			"template_id": "61579",
			"username":    "user",
			"password":    "pass",
			"text0":       "top",
			"text1":       "bottom",
		} {
			if got := r.PostForm.Get(key); got != want {
				t.Errorf("form %s = %q, want %q", key, got, want)
			}
		}
		_, _ = w.Write([]byte(`{"success": true, "data": {"url": "https://i.example/captioned.jpg"}}`))
	}))
	defer server.Close()

	url, err := NewClient(server.URL, "user", "pass").CaptionImage(context.Background(), "61579", "top", "bottom")
	if err != nil {
		t.Fatalf("CaptionImage: %v", err)
	}
	if url != "https://i.example/captioned.jpg" {
		t.Fatalf("CaptionImage url = %q", url)
	}
}

func TestAPIErrorSurfaces(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"success": false, "error_message": "No template_id specified"}`))
	}))
	defer server.Close()

	_, err := NewClient(server.URL, "", "").GetMemes(context.Background())
	if err == nil || !strings.Contains(err.Error(), "No template_id specified") {
		t.Fatalf("GetMemes error = %v, want the API error message", err)
	}
}

func TestNon200Fails(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	if _, err := NewClient(server.URL, "", "").GetMemes(context.Background()); err == nil {
		t.Fatal("GetMemes accepted a 502 response")
	}
}

func TestHasCredentials(t *testing.T) {
	if NewClient("", "", "").HasCredentials() {
		t.Fatal("empty client claims credentials")
	}
	if !NewClient("", "user", "pass").HasCredentials() {
		t.Fatal("credentialed client denies credentials")
	}
}
