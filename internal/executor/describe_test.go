package executor

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
	"syscall"
	"testing"
)

func TestDescribe(t *testing.T) {
	refused := &url.Error{
		Op:  "Post",
		URL: "http://127.0.0.1:1/analyze",
		Err: &net.OpError{Op: "dial", Net: "tcp", Err: syscall.ECONNREFUSED},
	}

	tests := []struct {
		name     string
		err      error
		contains string
	}{
		{"nil", nil, ""},
		{"empty url", ErrEmptyURL, "Enter a URL"},
		{"cancelled", fmt.Errorf("wrapped: %w", context.Canceled), "cancelled"},
		{"deadline", context.DeadlineExceeded, "timeout"},
		{"refused", refused, "Connection refused"},
		{"dns by message", errors.New("dial tcp: lookup nope.invalid: no such host"), "DNS resolution failed"},
		{"tls by message", errors.New("x509: certificate has expired"), "TLS error"},
		{"bad json", fmt.Errorf("HTTP 502: %w", errors.New("invalid JSON response: x")), "not JSON"},
		{"unknown", errors.New("something odd"), "Request failed: something odd"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Describe(tt.err)
			if tt.contains == "" {
				if got != "" {
					t.Errorf("Describe() = %q, want empty", got)
				}
				return
			}
			if !strings.Contains(got, tt.contains) {
				t.Errorf("Describe() = %q, want it to contain %q", got, tt.contains)
			}
		})
	}
}
