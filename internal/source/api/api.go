// Package api is the primary tier: a single GET against the configured REST
// endpoint.
package api

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mvps-vip/showcase/internal/httpclient"
)

// ErrSourceUnavailable wraps every non-2xx response.
var ErrSourceUnavailable = errors.New("source unavailable")

// Source fetches one dataset of type T from one fixed URL.
type Source[T any] struct {
	name   string
	url    string
	client *httpclient.Client
	opts   []httpclient.RequestOption
}

// New returns a source for url. An empty url yields an unavailable source.
// opts are applied to every request, e.g. httpclient.WithBearer.
func New[T any](name, url string, client *httpclient.Client, opts ...httpclient.RequestOption) *Source[T] {
	if client == nil {
		client = httpclient.New(0)
	}
	return &Source[T]{name: name, url: strings.TrimSpace(url), client: client, opts: opts}
}

func (s *Source[T]) Name() string      { return s.name }
func (s *Source[T]) IsAvailable() bool { return s.url != "" }

// Fetch performs the GET and decodes the body. No retries.
func (s *Source[T]) Fetch(ctx context.Context) (T, error) {
	var out T
	resp, err := s.client.GetJSON(ctx, s.url, &out, s.opts...)
	if err != nil {
		return out, fmt.Errorf("requesting %s: %w", s.url, err)
	}
	if !resp.OK() {
		return out, fmt.Errorf("%w: %w", ErrSourceUnavailable, resp.StatusError())
	}
	if resp.JSONErr != nil {
		return out, fmt.Errorf("decoding response from %s: %w", s.url, resp.JSONErr)
	}
	return out, nil
}
