// Package ai talks to an OpenAI-compatible chat completions endpoint.
package ai

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
)

var (
	ErrUpstreamUnauthorized    = errors.New("ai: unauthorized - invalid api key")
	ErrUpstreamRateLimited     = errors.New("ai: rate limited")
	ErrUpstreamServer          = errors.New("ai: server error")
	ErrUpstreamNetwork         = errors.New("ai: network error")
	ErrUpstreamInvalidResponse = errors.New("ai: invalid response")
)

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Store    bool          `json:"store"`
	Messages []chatMessage `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Client generates text through the chat completions API.
type Client struct {
	httpClient *http.Client
	apiKey     string
	model      string
	baseURL    string
	logger     *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL sets a custom API base URL (for testing or compatible providers).
func WithBaseURL(url string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(url, "/")
	}
}

// WithTimeout sets a custom request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithModel overrides the default model.
func WithModel(model string) Option {
	return func(c *Client) {
		c.model = model
	}
}

func NewClient(apiKey string, logger *slog.Logger, opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: 60 * time.Second},
		apiKey:     apiKey,
		model:      "gpt-4o-mini",
		baseURL:    "https://api.openai.com/v1",
		logger:     logger,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Generate sends prompt as a single user message and returns the first choice.
// Failures are not retried.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	payload, err := json.Marshal(chatRequest{
		Model:    c.model,
		Store:    false,
		Messages: []chatMessage{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return "", fmt.Errorf("ai: encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("ai: creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", fmt.Errorf("%w: %v", ErrUpstreamNetwork, err)
	}
	defer resp.Body.Close()

	c.logger.Debug("chat completion response received",
		"status", resp.StatusCode,
		"model", c.model,
		"duration", time.Since(start),
	)

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusUnauthorized, resp.StatusCode == http.StatusForbidden:
		return "", ErrUpstreamUnauthorized
	case resp.StatusCode == http.StatusTooManyRequests:
		return "", ErrUpstreamRateLimited
	case resp.StatusCode >= 500:
		return "", ErrUpstreamServer
	default:
		return "", fmt.Errorf("ai: unexpected status code %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("%w: reading body: %v", ErrUpstreamInvalidResponse, err)
	}

	var chat chatResponse
	if err := json.Unmarshal(body, &chat); err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpstreamInvalidResponse, err)
	}
	if len(chat.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices", ErrUpstreamInvalidResponse)
	}

	return chat.Choices[0].Message.Content, nil
}
