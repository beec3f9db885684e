// Package api is the HTTP client for the remote Flowday domain API.
package api

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

	"golang.org/x/time/rate"

	"github.com/flowday/flowday/internal/constants"
	"github.com/flowday/flowday/internal/logger"
)

// TokenSource supplies the bearer token issued by the identity provider.
type TokenSource interface {
	Token() (string, error)
}

// StaticToken is a TokenSource for a fixed token.
type StaticToken string

func (t StaticToken) Token() (string, error) {
	if t == "" {
		return "", fmt.Errorf("no token configured")
	}
	return string(t), nil
}

// Client talks to the Flowday API. Requests are rate limited client-side and
// never retried.
type Client struct {
	baseURL    string
	tokens     TokenSource
	httpClient *http.Client
	limiter    *rate.Limiter
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithRateLimit sets the client-side request rate. A non-positive rps disables limiting.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = rate.NewLimiter(rate.Inf, 0)
			return
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// New creates a client for baseURL.
func New(baseURL string, tokens TokenSource, opts ...Option) (*Client, error) {
	baseURL = strings.TrimSuffix(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, fmt.Errorf("API base URL is required")
	}
	if !strings.HasPrefix(baseURL, "http://") && !strings.HasPrefix(baseURL, "https://") {
		baseURL = "https://" + baseURL
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}

	c := &Client{
		baseURL: baseURL,
		tokens:  tokens,
		httpClient: &http.Client{
			Timeout: constants.HTTPTimeout,
		},
		limiter: rate.NewLimiter(rate.Limit(constants.DefaultRateLimit), constants.DefaultRateBurst),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the normalized API base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// envelope is the wrapper around every API response body.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

type request struct {
	method    string
	path      string
	query     url.Values
	body      interface{}
	header    http.Header
	anonymous bool
}

// do performs a request and decodes the envelope's data into out (if non-nil).
func (c *Client) do(ctx context.Context, r request, out interface{}) error {
	endpoint := c.baseURL + r.path
	if len(r.query) > 0 {
		endpoint += "?" + r.query.Encode()
	}

	var body io.Reader
	if r.body != nil {
		data, err := json.Marshal(r.body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, endpoint, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if r.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, vs := range r.header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	if !r.anonymous {
		if c.tokens == nil {
			return fmt.Errorf("%w: no token source", ErrUnauthorized)
		}
		token, err := c.tokens.Token()
		if err != nil {
			return fmt.Errorf("%w: %v", ErrUnauthorized, err)
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return &NetworkError{Op: "rate limit", Err: err}
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.Warn("API request failed", "method", r.method, "path", r.path, "error", err)
		return &NetworkError{Op: r.method + " " + r.path, Err: err}
	}
	defer resp.Body.Close()
	logger.Debug("API request", "method", r.method, "path", r.path, "status", resp.StatusCode, "duration", time.Since(start))

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &NetworkError{Op: "read response", Err: err}
	}

	var env envelope
	decodeErr := json.Unmarshal(raw, &env)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := env.Message
		if decodeErr != nil || msg == "" {
			msg = strings.TrimSpace(string(raw))
		}
		return &RemoteError{StatusCode: resp.StatusCode, Message: msg}
	}

	if out == nil || resp.StatusCode == http.StatusNoContent || len(raw) == 0 {
		return nil
	}
	if decodeErr != nil {
		return fmt.Errorf("decode response: %w", decodeErr)
	}
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("decode response data: %w", err)
	}
	return nil
}

// Ping checks that the API is reachable. It does not require a token.
func (c *Client) Ping(ctx context.Context) error {
	return c.do(ctx, request{method: http.MethodGet, path: constants.PathHealth, anonymous: true}, nil)
}

func resourcePath(base, id string) string {
	return base + "/" + url.PathEscape(id)
}
