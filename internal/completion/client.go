// Package completion is a client for a remote text-completion API.
//
// The wire format is the classic completions endpoint:
//
//	POST {base_url}/completions
//	Authorization: Bearer <api key>
//	{"model": "...", "prompt": "...", "max_tokens": 500}
//
// and the response carries an ordered list of choices, each with a
// text field. The client makes exactly one round trip per call.
package completion

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// Errors returned by Complete.
var (
	ErrNoAPIKey    = errors.New("completion: api key not configured")
	ErrNoChoices   = errors.New("completion: response has no choices")
	ErrRateLimited = errors.New("completion: local rate limit exceeded")
)

// StatusError is returned for non-2xx responses.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("completion: status %d: %s", e.StatusCode, e.Body)
}

// Config configures a Client.
type Config struct {
	BaseURL   string        `koanf:"base_url" yaml:"base_url" json:"base_url"`
	APIKey    string        `koanf:"api_key" yaml:"api_key" json:"api_key"`
	Model     string        `koanf:"model" yaml:"model" json:"model"`
	MaxTokens int           `koanf:"max_tokens" yaml:"max_tokens" json:"max_tokens"`
	Timeout   time.Duration `koanf:"timeout" yaml:"timeout" json:"timeout"`

	// RatePerSecond limits outgoing requests. Zero disables limiting.
	RatePerSecond float64 `koanf:"rate_per_second" yaml:"rate_per_second" json:"rate_per_second"`
	Burst         int     `koanf:"burst" yaml:"burst" json:"burst"`

	// CAFile adds trusted roots for the endpoint, a PEM file or directory.
	CAFile string `koanf:"ca_file" yaml:"ca_file" json:"ca_file"`
}

// DefaultConfig returns defaults for an OpenAI-compatible endpoint.
func DefaultConfig() Config {
	return Config{
		BaseURL:       "https://api.openai.com/v1",
		Model:         "gpt-3.5-turbo-instruct",
		MaxTokens:     500,
		Timeout:       30 * time.Second,
		RatePerSecond: 1,
		Burst:         3,
	}
}

// Request is one completion request.
type Request struct {
	Model     string `json:"model,omitempty"`
	Prompt    string `json:"prompt"`
	MaxTokens int    `json:"max_tokens"`
}

// Choice is one generated candidate.
type Choice struct {
	Text         string `json:"text"`
	Index        int    `json:"index"`
	FinishReason string `json:"finish_reason,omitempty"`
}

// Response is the decoded completion response.
type Response struct {
	ID      string   `json:"id,omitempty"`
	Model   string   `json:"model,omitempty"`
	Choices []Choice `json:"choices"`
}

// FirstText returns the text of the first choice.
func (r *Response) FirstText() (string, error) {
	if r == nil || len(r.Choices) == 0 {
		return "", ErrNoChoices
	}
	return r.Choices[0].Text, nil
}

type errorEnvelope struct {
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// maxErrorBody caps how much of a failed response is kept in StatusError.
const maxErrorBody = 512

// Client calls the completion endpoint.
type Client struct {
	cfg        Config
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *slog.Logger
}

// New creates a Client. A nil httpClient gets one with cfg.Timeout.
func New(cfg Config, httpClient *http.Client, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	c := &Client{cfg: cfg, httpClient: httpClient, logger: logger}
	if cfg.RatePerSecond > 0 {
		burst := cfg.Burst
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RatePerSecond), burst)
	}
	return c
}

// Model returns the configured model name.
func (c *Client) Model() string {
	return c.cfg.Model
}

// Complete sends req and returns the decoded response.
//
// Empty Model and MaxTokens in req fall back to the client config. The
// call is not retried. A response with zero choices is an error.
func (c *Client) Complete(ctx context.Context, req Request) (*Response, error) {
	if c.cfg.APIKey == "" {
		return nil, ErrNoAPIKey
	}
	if req.Model == "" {
		req.Model = c.cfg.Model
	}
	if req.MaxTokens <= 0 {
		req.MaxTokens = c.cfg.MaxTokens
	}

	if c.limiter != nil && !c.limiter.Allow() {
		return nil, ErrRateLimited
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("completion: marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/completions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("completion: build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("completion: request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("completion: read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: errorMessage(respBody)}
	}

	var out Response
	if err := json.Unmarshal(respBody, &out); err != nil {
		return nil, fmt.Errorf("completion: decode response: %w", err)
	}
	if len(out.Choices) == 0 {
		return nil, ErrNoChoices
	}

	c.logger.Debug("completion finished",
		"model", req.Model,
		"prompt_len", len(req.Prompt),
		"choices", len(out.Choices),
		"elapsed", time.Since(start))

	return &out, nil
}

// errorMessage extracts the API error message, falling back to the
// truncated raw body.
func errorMessage(body []byte) string {
	var env errorEnvelope
	if json.Unmarshal(body, &env) == nil && env.Error != nil && env.Error.Message != "" {
		return env.Error.Message
	}
	s := strings.TrimSpace(string(body))
	if len(s) > maxErrorBody {
		s = s[:maxErrorBody] + "..."
	}
	return s
}
