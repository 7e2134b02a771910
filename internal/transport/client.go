package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/carebridge/nutrimap/pkg/constants"
	"github.com/carebridge/nutrimap/pkg/errors"
	"github.com/carebridge/nutrimap/pkg/logging"
)

// DefaultHTTPTimeout is the default timeout for HTTP requests.
var DefaultHTTPTimeout = constants.DefaultHTTPTimeout

// Client provides HTTP client functionality with authentication and an
// optional bounded retry on transient failures.
type Client struct {
	http     *http.Client
	auth     Authenticator
	provider string
	apiKey   string
	retries  int
	backoff  time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithRetries sets how many times a transient failure is retried.
func WithRetries(n int) Option {
	return func(c *Client) {
		if n >= 0 {
			c.retries = n
		}
	}
}

// WithBackoff sets the pause before each retry.
func WithBackoff(d time.Duration) Option {
	return func(c *Client) {
		c.backoff = d
	}
}

// New creates a new transport client for provider. A nil auth sends
// requests without credentials.
func New(provider, apiKey string, auth Authenticator, opts ...Option) *Client {
	c := &Client{
		http:     &http.Client{Timeout: DefaultHTTPTimeout},
		auth:     auth,
		provider: provider,
		apiKey:   apiKey,
		backoff:  constants.RetryBackoff,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Provider returns the provider name used in errors and logs.
func (c *Client) Provider() string {
	return c.provider
}

// Do performs an HTTP request with authentication applied. Network errors,
// 429 and 5xx responses are retried up to the configured count; the last
// response or error is returned.
func (c *Client) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	if c.auth != nil && c.apiKey != "" {
		c.auth.Apply(req, c.apiKey)
	}
	req.Header.Set("Accept", "application/json")
	if req.Method == http.MethodPost || req.Method == http.MethodPut || req.Method == http.MethodPatch {
		req.Header.Set("Content-Type", "application/json")
	}

	logger := logging.FromContext(ctx)
	for attempt := 0; ; attempt++ {
		attemptReq, err := c.rewind(ctx, req, attempt)
		if err != nil {
			return nil, err
		}

		resp, err := c.http.Do(attemptReq)
		var failure error
		switch {
		case err != nil:
			failure = &errors.APIError{Provider: c.provider, Endpoint: req.URL.Path, Message: "request failed", Err: err}
		case retryableStatus(resp.StatusCode):
			failure = errors.NewAPIError(c.provider, resp.StatusCode, http.StatusText(resp.StatusCode))
		default:
			return resp, nil
		}

		if attempt >= c.retries || !errors.IsTransient(failure) || ctx.Err() != nil {
			if err != nil {
				return nil, failure
			}
			return resp, nil
		}
		if resp != nil {
			_ = resp.Body.Close()
		}

		logger.Debug().
			Err(failure).
			Str("provider_id", c.provider).
			Int("attempt", attempt+1).
			Msg("Retrying provider request")

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(c.backoff):
		}
	}
}

// rewind returns the request to send for attempt, restoring the body for retries.
func (c *Client) rewind(ctx context.Context, req *http.Request, attempt int) (*http.Request, error) {
	if attempt == 0 {
		return req, nil
	}
	clone := req.Clone(ctx)
	if req.GetBody != nil {
		body, err := req.GetBody()
		if err != nil {
			return nil, errors.WrapIO("read", "request body", err)
		}
		clone.Body = body
	}
	return clone, nil
}

func retryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

// Get performs a GET request.
func (c *Client) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.WrapResource("create", "request", "GET "+url, err)
	}
	return c.Do(ctx, req)
}

// PostJSON performs a POST request with body encoded as JSON.
func (c *Client) PostJSON(ctx context.Context, url string, body any) (*http.Response, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, errors.WrapParse("json", "request", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return nil, errors.WrapResource("create", "request", "POST "+url, err)
	}
	return c.Do(ctx, req)
}
