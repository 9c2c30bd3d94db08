package apiclient

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

	"github.com/rs/zerolog/log"
)

// APIError is returned for every failed request against the LeafSide API.
// Status is the HTTP status code, or 0 when no response was received at
// all (transport failure). Payload carries the decoded JSON error body
// when the server sent one, or the raw body string otherwise.
type APIError struct {
	Status  int
	Message string
	Payload interface{}
}

func (e *APIError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("leafside api: network error: %s", e.Message)
	}
	return fmt.Sprintf("leafside api: status %d: %s", e.Status, e.Message)
}

// IsStatus reports whether err is an *APIError carrying the given
// HTTP status code.
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == status
}

// TokenSource supplies the current bearer token. An empty string means
// the request goes out unauthenticated.
type TokenSource interface {
	Token() string
}

// TokenFunc adapts a plain function to the TokenSource interface.
type TokenFunc func() string

func (f TokenFunc) Token() string { return f() }

// StaticToken is a TokenSource returning a fixed value. Empty value
// means anonymous.
type StaticToken string

func (t StaticToken) Token() string { return string(t) }

// Client is the shared JSON/HTTP client for the LeafSide API.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
}

// New creates a client rooted at baseURL. tokens may be nil for a
// client that only ever hits public endpoints.
func New(baseURL string, timeout time.Duration, tokens TokenSource) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		tokens:  tokens,
	}
}

func (c *Client) Get(ctx context.Context, path string, out interface{}) error {
	return c.Do(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) Post(ctx context.Context, path string, body, out interface{}) error {
	return c.Do(ctx, http.MethodPost, path, body, out)
}

func (c *Client) Put(ctx context.Context, path string, body, out interface{}) error {
	return c.Do(ctx, http.MethodPut, path, body, out)
}

func (c *Client) Delete(ctx context.Context, path string) error {
	return c.Do(ctx, http.MethodDelete, path, nil, nil)
}

// Do performs one JSON round trip. body and out may be nil. A non-2xx
// response or a transport failure always comes back as *APIError.
func (c *Client) Do(ctx context.Context, method, path string, body, out interface{}) error {
	url := c.buildURL(path)

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	log.Debug().Str("method", method).Str("url", url).Msg("api request")

	resp, err := c.http.Do(req)
	if err != nil {
		return &APIError{Status: 0, Message: err.Error()}
	}
	defer resp.Body.Close()

	text, err := io.ReadAll(resp.Body)
	if err != nil {
		return &APIError{Status: 0, Message: err.Error()}
	}

	// Error bodies may be structured JSON or plain text; keep whatever
	// the server sent so callers can inspect it.
	var payload interface{}
	if len(text) > 0 {
		if err := json.Unmarshal(text, &payload); err != nil {
			payload = string(text)
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		message := "LeafSide API request failed"
		if s, ok := payload.(string); ok && s != "" {
			message = s
		}
		log.Debug().Int("status", resp.StatusCode).Str("url", url).Msg("api request failed")
		return &APIError{Status: resp.StatusCode, Message: message, Payload: payload}
	}

	if out != nil && len(text) > 0 {
		if err := json.Unmarshal(text, out); err != nil {
			return fmt.Errorf("decode response body: %w", err)
		}
	}

	return nil
}

func (c *Client) buildURL(path string) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return c.baseURL + path
}
