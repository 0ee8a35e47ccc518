// Package backend is the server-side client of the booking REST API. Every
// call carries the static API key and, when available, the caller's session
// token as a bearer credential.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/wanderly-dev/storefront/internal/config"
)

const apiKeyHeader = "apiKey"

var (
	ErrNotConfigured = errors.New("backend base URL or API key not configured")
	ErrNoToken       = errors.New("token was not returned by backend")
)

// APIError is returned for any non-2xx backend response
type APIError struct {
	Status  int
	Message string // backend "message" field, empty when absent
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("backend returned status %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("backend returned status %d", e.Status)
}

// IsNotFound reports whether err is a backend 404
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}

// UserMessage turns err into a short message fit for an inline notice:
// the backend's message when it sent one, else fallback
func UserMessage(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}

// Client calls the backend API. It is safe for concurrent use.
type Client struct {
	cfg        config.BackendConfig
	httpClient *http.Client
	logger     zerolog.Logger
}

// New creates a backend client. A nil httpClient gets a 30s timeout.
func New(cfg config.BackendConfig, httpClient *http.Client, log zerolog.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{
		cfg:        cfg,
		httpClient: httpClient,
		logger:     log,
	}
}

// Do sends one request and returns the raw body of a 2xx response.
// body, when non-nil, is JSON-encoded.
func (c *Client) Do(ctx context.Context, method, path, token string, body any) ([]byte, error) {
	if body == nil {
		return c.send(ctx, method, path, token, "", nil)
	}

	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}
	return c.send(ctx, method, path, token, "application/json", bytes.NewReader(data))
}

// send performs the call with body streamed as-is under contentType
func (c *Client) send(ctx context.Context, method, path, token, contentType string, body io.Reader) ([]byte, error) {
	if !c.cfg.Configured() {
		return nil, ErrNotConfigured
	}

	req, err := http.NewRequestWithContext(ctx, method, c.cfg.BaseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set(apiKeyHeader, c.cfg.APIKey)
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", token))
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode, Message: messageOf(data)}
		c.logger.Debug().
			Str("method", method).
			Str("path", path).
			Int("status", resp.StatusCode).
			Msg("Backend returned error status")
		return nil, apiErr
	}

	return data, nil
}

// Unwrap decodes raw into T, taking the "data" field of an envelope
// ({data, meta?, message?}) when present and the raw value otherwise
func Unwrap[T any](raw []byte) (T, error) {
	var out T

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(raw, &envelope); err == nil {
		if data, ok := envelope["data"]; ok {
			raw = data
		}
	}

	if len(bytes.TrimSpace(raw)) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, fmt.Errorf("failed to decode response: %w", err)
	}
	return out, nil
}

func get[T any](ctx context.Context, c *Client, path, token string) (T, error) {
	raw, err := c.Do(ctx, http.MethodGet, path, token, nil)
	if err != nil {
		var zero T
		return zero, err
	}
	return Unwrap[T](raw)
}

func post[T any](ctx context.Context, c *Client, path, token string, body any) (T, error) {
	raw, err := c.Do(ctx, http.MethodPost, path, token, body)
	if err != nil {
		var zero T
		return zero, err
	}
	return Unwrap[T](raw)
}

func (c *Client) remove(ctx context.Context, path, token string) error {
	_, err := c.Do(ctx, http.MethodDelete, path, token, nil)
	return err
}

func messageOf(body []byte) string {
	var parsed struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return ""
	}
	return parsed.Message
}
