// Package transport provides the authenticated HTTP client shared by the
// management-plane clients. Retry and backoff policy lives here, not in the
// import pipeline: callers see either a decoded payload or a single error.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	defaultTimeout = 60 * time.Second

	// maxErrorBody caps how much of an error response is kept for messages.
	maxErrorBody = 512
)

// StatusError is returned for non-2xx responses.
type StatusError struct {
	Method     string
	URL        string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s %s returned %d", e.Method, e.URL, e.StatusCode)
	}
	return fmt.Sprintf("%s %s returned %d: %s", e.Method, e.URL, e.StatusCode, e.Body)
}

// Options configures a Client.
type Options struct {
	// Token is the default bearer credential attached to every request.
	// Individual requests can override it with WithBearer.
	Token string

	// Timeout bounds a single HTTP attempt. Defaults to 60s.
	Timeout time.Duration

	// MaxRetries is the number of retries after the initial attempt for
	// idempotent requests that fail transiently. Zero disables retries.
	MaxRetries uint64

	// HTTPClient overrides the underlying client. Timeout is ignored when
	// set.
	HTTPClient *http.Client

	Logger zerolog.Logger
}

// Client issues authenticated JSON requests against absolute URLs.
type Client struct {
	httpClient *http.Client
	token      string
	maxRetries uint64
	log        zerolog.Logger
}

// New creates a Client.
func New(opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	return &Client{
		httpClient: httpClient,
		token:      opts.Token,
		maxRetries: opts.MaxRetries,
		log:        opts.Logger,
	}
}

// RequestOption mutates a request before it is sent.
type RequestOption func(*http.Request)

// WithBearer replaces the client's default bearer credential for one request.
func WithBearer(token string) RequestOption {
	return func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+token)
	}
}

// Do sends one JSON request. A non-nil body is marshaled as JSON; a non-nil
// out receives the decoded JSON response. Transient failures (network
// errors and 5xx responses) of idempotent requests are retried with
// exponential backoff.
func (c *Client) Do(ctx context.Context, method, url string, body, out any, opts ...RequestOption) error {
	var payload []byte
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request: %w", err)
		}
		payload = data
	}

	attempt := func() error {
		retry, err := c.do(ctx, method, url, payload, out, opts)
		if err != nil && !retry {
			return backoff.Permanent(err)
		}
		return err
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), c.maxRetries), ctx)
	return backoff.Retry(attempt, policy)
}

// Get issues a GET request and decodes the response into out.
func (c *Client) Get(ctx context.Context, url string, out any, opts ...RequestOption) error {
	return c.Do(ctx, http.MethodGet, url, nil, out, opts...)
}

// Put issues a PUT request with the given body.
func (c *Client) Put(ctx context.Context, url string, body, out any, opts ...RequestOption) error {
	return c.Do(ctx, http.MethodPut, url, body, out, opts...)
}

// Post issues a POST request with the given body.
func (c *Client) Post(ctx context.Context, url string, body, out any, opts ...RequestOption) error {
	return c.Do(ctx, http.MethodPost, url, body, out, opts...)
}

func (c *Client) do(ctx context.Context, method, url string, payload []byte, out any, opts []RequestOption) (retry bool, err error) {
	var bodyReader io.Reader
	if payload != nil {
		bodyReader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return false, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", uuid.NewString())
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	for _, opt := range opts {
		opt(req)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return idempotent(method), fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	c.log.Debug().
		Str("method", method).
		Str("url", url).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("management request")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		serr := &StatusError{
			Method:     method,
			URL:        url,
			StatusCode: resp.StatusCode,
			Body:       errorBody(resp.Body),
		}
		return idempotent(method) && resp.StatusCode >= 500, serr
	}

	if out != nil && resp.StatusCode != http.StatusNoContent {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return false, fmt.Errorf("decoding response: %w", err)
		}
	}
	return false, nil
}

func idempotent(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodPut, http.MethodDelete:
		return true
	}
	return false
}

func errorBody(r io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(r, maxErrorBody))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}
