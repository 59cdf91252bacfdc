// Package rest talks to the hosted notes backend: a PostgREST data API under
// /rest/v1 and a token auth API under /auth/v1.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

// Client holds the connection settings shared by the auth and data APIs.
type Client struct {
	baseURL *url.URL
	anonKey string
	http    *http.Client
	logger  *slog.Logger
	now     func() time.Time

	mu         sync.Mutex
	requests   int
	failures   int
	lastStatus int
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces http.DefaultClient.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithLogger sets the logger for request traces.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithClock sets the clock used to compute token expiry.
func WithClock(now func() time.Time) ClientOption {
	return func(c *Client) {
		if now != nil {
			c.now = now
		}
	}
}

// NewClient creates a client for the backend at baseURL.
func NewClient(baseURL, anonKey string, opts ...ClientOption) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("backend URL cannot be empty")
	}
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid backend URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid backend URL %q: scheme must be http or https", baseURL)
	}

	c := &Client{
		baseURL: u,
		anonKey: anonKey,
		http:    http.DefaultClient,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the backend root.
func (c *Client) BaseURL() string { return c.baseURL.String() }

type request struct {
	method string
	path   string
	query  url.Values
	token  string
	prefer string
	body   any
}

// do sends one request and decodes a JSON response into out when out is
// non-nil. Non-2xx responses become *APIError.
func (c *Client) do(ctx context.Context, r request, out any) error {
	u := *c.baseURL
	u.Path = u.Path + r.path
	if r.query != nil {
		u.RawQuery = r.query.Encode()
	}

	var body io.Reader
	if r.body != nil {
		data, err := json.Marshal(r.body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, u.String(), body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("apikey", c.anonKey)
	req.Header.Set("Accept", "application/json")
	token := r.token
	if token == "" {
		token = c.anonKey
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if r.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if r.prefer != "" {
		req.Header.Set("Prefer", r.prefer)
	}

	if c.logger != nil {
		c.logger.Debug("backend request", "method", r.method, "path", r.path)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.record(0)
		return fmt.Errorf("%s %s: %w", r.method, r.path, err)
	}
	defer resp.Body.Close()
	c.record(resp.StatusCode)

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp.StatusCode, data)
	}
	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *Client) record(status int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.requests++
	c.lastStatus = status
	if status < 200 || status > 299 {
		c.failures++
	}
}

// ClientState exposes request counters for observability.
type ClientState struct {
	BaseURL    string `json:"base_url"`
	Requests   int    `json:"requests"`
	Failures   int    `json:"failures"`
	LastStatus int    `json:"last_status,omitempty"`
}

// State implements introspection.Introspectable.
func (c *Client) State() any {
	c.mu.Lock()
	defer c.mu.Unlock()
	return ClientState{
		BaseURL:    c.baseURL.String(),
		Requests:   c.requests,
		Failures:   c.failures,
		LastStatus: c.lastStatus,
	}
}

// ComponentType implements introspection.Component.
func (c *Client) ComponentType() string {
	return "rest"
}
