// Package imgflip is a client for the Imgflip meme-captioning API.
package imgflip

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const DefaultBaseURL = "https://api.imgflip.com"

// Template is one captionable meme template as returned by get_memes.
type Template struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	URL      string `json:"url"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	BoxCount int    `json:"box_count"`
}

type Client struct {
	baseURL  string
	username string
	password string
	client   *http.Client
}

// NewClient creates an Imgflip API client. Credentials are only required for
// caption_image; get_memes is public.
func NewClient(baseURL, username, password string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:  strings.TrimSuffix(baseURL, "/"),
		username: username,
		password: password,
		client:   &http.Client{Timeout: 15 * time.Second},
	}
}

// HasCredentials reports whether the client can call caption_image.
func (c *Client) HasCredentials() bool {
	return c.username != "" && c.password != ""
}

type apiResponse struct {
	Success      bool   `json:"success"`
	ErrorMessage string `json:"error_message"`
	Data         struct {
		Memes []Template `json:"memes"`
		URL   string     `json:"url"`
	} `json:"data"`
}

// GetMemes fetches the list of popular templates.
func (c *Client) GetMemes(ctx context.Context) ([]Template, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/get_memes", nil)
	if err != nil {
		return nil, err
	}

	response, err := c.do(req)
	if err != nil {
		return nil, err
	}
	return response.Data.Memes, nil
}

// CaptionImage renders top/bottom text onto a template and returns the
// hosted image URL.
func (c *Client) CaptionImage(ctx context.Context, templateID, topText, bottomText string) (string, error) {
	form := url.Values{}
	form.Set("template_id", templateID)
	form.Set("username", c.username)
	form.Set("password", c.password)
	form.Set("text0", topText)
	form.Set("text1", bottomText)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/caption_image", strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	response, err := c.do(req)
	if err != nil {
		return "", err
	}
	return response.Data.URL, nil
}

func (c *Client) do(req *http.Request) (*apiResponse, error) {
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("imgflip request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("imgflip returned status %d", resp.StatusCode)
	}

	var response apiResponse
	if err = json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("failed to decode imgflip response: %w", err)
	}
	if !response.Success {
		return nil, fmt.Errorf("imgflip error: %s", response.ErrorMessage)
	}
	return &response, nil
}
