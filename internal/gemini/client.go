// Package gemini is a thin REST client for the hosted video and speech
// generation API. It submits work and polls it; it holds no other state.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/jaki95/video-factory/internal/clock"
)

// Defaults for the hosted API.
const (
	DefaultBaseURL     = "https://generativelanguage.googleapis.com/v1beta"
	DefaultVideoModel  = "veo-3.1-fast-generate-preview"
	DefaultSpeechModel = "gemini-2.5-flash-preview-tts"
)

// Config configures a Client.
type Config struct {
	APIKey      string
	BaseURL     string
	VideoModel  string
	SpeechModel string
	Poll        PollPolicy
	HTTPClient  *http.Client
}

// Client talks to the generation API.
type Client struct {
	apiKey      string
	baseURL     string
	videoModel  string
	speechModel string
	poll        PollPolicy
	sleep       clock.Sleeper
	httpClient  *http.Client
}

// NewClient creates a client. An API key is mandatory.
func NewClient(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}

	c := &Client{
		apiKey:      cfg.APIKey,
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		videoModel:  cfg.VideoModel,
		speechModel: cfg.SpeechModel,
		poll:        cfg.Poll.withDefaults(),
		sleep:       clock.Sleep,
		httpClient:  cfg.HTTPClient,
	}
	if c.baseURL == "" {
		c.baseURL = DefaultBaseURL
	}
	if c.videoModel == "" {
		c.videoModel = DefaultVideoModel
	}
	if c.speechModel == "" {
		c.speechModel = DefaultSpeechModel
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: 60 * time.Second}
	}
	return c, nil
}

// SetSleeper replaces the wait used between polls.
func (c *Client) SetSleeper(s clock.Sleeper) {
	c.sleep = s
}

// DownloadURL returns uri with the API key attached, as required to fetch
// generated files.
func (c *Client) DownloadURL(uri string) string {
	sep := "?"
	if strings.Contains(uri, "?") {
		sep = "&"
	}
	return uri + sep + "key=" + url.QueryEscape(c.apiKey)
}

type apiError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// do sends a JSON request and decodes a JSON response into out.
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+"/"+strings.TrimLeft(path, "/"), body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("x-goog-api-key", c.apiKey)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusError(resp.StatusCode, data)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func statusError(code int, body []byte) error {
	var apiErr apiError
	msg := strings.TrimSpace(string(body))
	if json.Unmarshal(body, &apiErr) == nil && apiErr.Error.Message != "" {
		msg = apiErr.Error.Message
	}

	if code == http.StatusNotFound || strings.Contains(msg, "Requested entity was not found") {
		return fmt.Errorf("%w: %s", ErrEntityNotFound, msg)
	}
	return fmt.Errorf("unexpected status code %d: %s", code, msg)
}
