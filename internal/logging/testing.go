package logging

import (
	"bytes"
	"context"
)

// NewTestContext returns a context carrying a logger configured per flags,
// plus the buffer it writes to so tests can assert on log output.
func NewTestContext(flags Flags) (context.Context, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	l := NewLogger(buf)
	Configure(l, flags)
	return WithLogger(context.Background(), l), buf
}
