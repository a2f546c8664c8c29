// Package gemini provides the HTTP client for the remote generative AI
// service: resilient request execution with retry and backoff, structured
// content generation, image synthesis, and speech synthesis.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/book-expert/logger"
)

const (
	// DefaultBaseURL is the production endpoint of the generative language API.
	DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	// DefaultMaxAttempts bounds the retry loop for transient failures.
	DefaultMaxAttempts = 3
	// DefaultInitialRetryDelay is the backoff before the first retry. The
	// delay doubles on every subsequent retry.
	DefaultInitialRetryDelay = 1000 * time.Millisecond
	// DefaultTimeoutSeconds bounds a single HTTP attempt.
	DefaultTimeoutSeconds = 120
)

// ErrAttemptsExhausted is returned when every retry attempt has failed.
var ErrAttemptsExhausted = errors.New("all request attempts exhausted")

// APIError is a non-success status response from the remote service, carrying
// the embedded error message when the body had one.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("remote service error: HTTP %d: %s", e.StatusCode, e.Message)
}

// Retryable reports whether the status indicates a transient condition.
// 429 and 5xx are resent after backoff; any other non-success status is fatal
// and surfaced immediately.
func (e *APIError) Retryable() bool {
	return e.StatusCode == http.StatusTooManyRequests ||
		e.StatusCode >= http.StatusInternalServerError
}

// Config holds the settings for the remote service client.
type Config struct {
	APIKey            string
	BaseURL           string
	TextModel         string
	ImageModel        string
	AudioModel        string
	MaxAttempts       int
	InitialRetryDelay time.Duration
	TimeoutSeconds    int
}

// Client talks to the remote generative service. It is stateless beyond its
// configuration and safe for concurrent use.
type Client struct {
	httpClient *http.Client
	logger     *logger.Logger
	cleaner    *Cleaner
	config     Config
}

// NewClient creates a Client, filling unset configuration fields with the
// package defaults.
func NewClient(config *Config, log *logger.Logger) *Client {
	resolved := *config
	if resolved.BaseURL == "" {
		resolved.BaseURL = DefaultBaseURL
	}

	if resolved.MaxAttempts <= 0 {
		resolved.MaxAttempts = DefaultMaxAttempts
	}

	if resolved.InitialRetryDelay <= 0 {
		resolved.InitialRetryDelay = DefaultInitialRetryDelay
	}

	if resolved.TimeoutSeconds <= 0 {
		resolved.TimeoutSeconds = DefaultTimeoutSeconds
	}

	return &Client{
		config:  resolved,
		cleaner: NewCleaner(),
		httpClient: &http.Client{
			Timeout: time.Duration(resolved.TimeoutSeconds) * time.Second,
		},
		logger: log,
	}
}

func (c *Client) endpointURL(model, verb string) string {
	return fmt.Sprintf(
		"%s/models/%s:%s?key=%s",
		c.config.BaseURL,
		model,
		verb,
		c.config.APIKey,
	)
}

// Execute sends one JSON POST request with retry and exponential backoff.
// Transport failures and retryable statuses consume attempts; a fatal status
// is surfaced immediately without consuming the remaining budget.
func (c *Client) Execute(ctx context.Context, url string, payload any) ([]byte, error) {
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	var lastErr error

	delay := c.config.InitialRetryDelay

	for attempt := 1; attempt <= c.config.MaxAttempts; attempt++ {
		body, attemptErr := c.attempt(ctx, url, jsonData)
		if attemptErr == nil {
			return body, nil
		}

		var apiErr *APIError
		if errors.As(attemptErr, &apiErr) && !apiErr.Retryable() {
			return nil, attemptErr
		}

		lastErr = attemptErr

		c.logger.Warnf(
			"Request attempt %d/%d failed: %v",
			attempt,
			c.config.MaxAttempts,
			attemptErr,
		)

		if attempt < c.config.MaxAttempts {
			select {
			case <-ctx.Done():
				return nil, fmt.Errorf("context done: %w", ctx.Err())
			case <-time.After(delay):
				delay *= 2
			}
		}
	}

	return nil, fmt.Errorf(
		"%w: %d attempts, last error: %v",
		ErrAttemptsExhausted,
		c.config.MaxAttempts,
		lastErr,
	)
}

func (c *Client) attempt(ctx context.Context, url string, jsonData []byte) ([]byte, error) {
	request, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		url,
		bytes.NewReader(jsonData),
	)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	request.Header.Set("Content-Type", "application/json")

	response, err := c.httpClient.Do(request)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}

	defer func() {
		closeErr := response.Body.Close()
		if closeErr != nil {
			c.logger.Errorf("failed to close response body: %v", closeErr)
		}
	}()

	body, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if response.StatusCode < http.StatusOK || response.StatusCode >= http.StatusMultipleChoices {
		return nil, &APIError{
			StatusCode: response.StatusCode,
			Message:    extractErrorMessage(body),
		}
	}

	return body, nil
}

type remoteErrorBody struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// extractErrorMessage pulls the embedded error message out of an error
// response body, falling back to the trimmed body text.
func extractErrorMessage(body []byte) string {
	var parsed remoteErrorBody

	err := json.Unmarshal(body, &parsed)
	if err == nil && parsed.Error.Message != "" {
		return parsed.Error.Message
	}

	return strings.TrimSpace(string(body))
}
