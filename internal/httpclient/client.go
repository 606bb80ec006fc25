// Package httpclient is a small JSON-over-HTTP client shared by the REST
// source and the CLI.
package httpclient

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"
)

const DefaultTimeout = 30 * time.Second

// Client wraps net/http.Client with convenience methods for JSON APIs.
type Client struct {
	http      *http.Client
	userAgent string
}

// New creates a Client with the given timeout. A zero or negative timeout
// falls back to DefaultTimeout.
func New(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{http: &http.Client{Timeout: timeout}, userAgent: "showcase"}
}

// RequestOption configures an http.Request before it is sent.
type RequestOption func(*http.Request)

// Do sends a request, applies options and reads the full body. A non-nil
// error means a network-level failure or context cancellation; HTTP error
// statuses are returned in Response.StatusCode.
func (c *Client) Do(ctx context.Context, method, rawURL string, body io.Reader, opts ...RequestOption) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, rawURL, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.userAgent)
	for _, opt := range opts {
		opt(req)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	return &Response{StatusCode: resp.StatusCode, Body: respBody}, nil
}

// GetJSON sends a GET and decodes the body into out when out is non-nil.
// Decode failures land in Response.JSONErr rather than the returned error.
func (c *Client) GetJSON(ctx context.Context, rawURL string, out any, opts ...RequestOption) (*Response, error) {
	opts = append([]RequestOption{WithHeader("Accept", "application/json")}, opts...)
	resp, err := c.Do(ctx, http.MethodGet, rawURL, nil, opts...)
	if err != nil {
		return nil, err
	}
	if out != nil && resp.OK() {
		resp.JSONErr = json.Unmarshal(resp.Body, out)
	}
	return resp, nil
}
