package httpclient

import (
	"fmt"
	"strings"
)

// Response holds the status and body of a completed request. The underlying
// http.Response body is already closed.
type Response struct {
	StatusCode int
	Body       []byte
	JSONErr    error
}

// OK reports a 2xx status.
func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// StatusError describes a non-2xx response as "HTTP 503: <body summary>".
func (r *Response) StatusError() error {
	return fmt.Errorf("HTTP %d: %s", r.StatusCode, SummarizeBody(r.Body))
}

// SummarizeBody returns a short summary of an HTTP response body suitable for
// error messages. Empty bodies return "empty body"; bodies longer than 120
// characters are truncated with "...".
func SummarizeBody(body []byte) string {
	s := strings.TrimSpace(string(body))
	if s == "" {
		return "empty body"
	}
	if len(s) > 120 {
		return s[:120] + "..."
	}
	return s
}
