package prediction

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/sawdustofmind/nfe-predictor/internal/log"
)

var (
	ErrNoAPIKey          = errors.New("prediction API key not configured")
	ErrMalformedResponse = errors.New("invalid response format from prediction API")
)

// APIError is a non-2xx answer from the completion provider.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("prediction API error (status %d): %s", e.Status, e.Message)
}

type Options struct {
	BaseURL     string
	APIKey      string
	Model       string
	Temperature float64
	MaxTokens   int
	TopP        float64
	Timeout     time.Duration
	SiteName    string
	SiteURL     string
}

// Client calls an OpenAI-compatible chat completion endpoint.
type Client struct {
	httpClient *http.Client
	opts       Options
}

func NewClient(opts Options) *Client {
	return &Client{
		opts: opts,
		httpClient: &http.Client{
			Timeout: opts.Timeout,
		},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
	TopP        float64       `json:"top_p"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content *string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Complete sends one system and one user message and returns the text of
// the first choice. It never retries.
func (c *Client) Complete(ctx context.Context, system, user string) (string, error) {
	if c.opts.APIKey == "" {
		return "", ErrNoAPIKey
	}

	jsonData, err := json.Marshal(chatRequest{
		Model: c.opts.Model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Temperature: c.opts.Temperature,
		MaxTokens:   c.opts.MaxTokens,
		TopP:        c.opts.TopP,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal completion request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.opts.BaseURL+"/chat/completions", bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create completion request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.opts.APIKey)
	req.Header.Set("Content-Type", "application/json")
	if c.opts.SiteURL != "" {
		req.Header.Set("HTTP-Referer", c.opts.SiteURL)
	}
	if c.opts.SiteName != "" {
		req.Header.Set("X-Title", c.opts.SiteName)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send completion request: %w", err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			log.Error("Failed to close completion response body", zap.Error(closeErr))
		}
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read completion response: %w", err)
	}

	var payload chatResponse
	decodeErr := json.Unmarshal(body, &payload)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := "Unknown error"
		if decodeErr == nil && payload.Error != nil && payload.Error.Message != "" {
			msg = payload.Error.Message
		}
		return "", &APIError{Status: resp.StatusCode, Message: msg}
	}

	if decodeErr != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedResponse, decodeErr)
	}
	if len(payload.Choices) == 0 || payload.Choices[0].Message.Content == nil || *payload.Choices[0].Message.Content == "" {
		return "", ErrMalformedResponse
	}

	return *payload.Choices[0].Message.Content, nil
}
