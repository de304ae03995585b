package executor

import (
	"context"
	"crypto/x509"
	"errors"
	"net"
	"net/url"
	"strings"
	"syscall"
)

// Describe turns a failed analyze call into a short hint for the status bar.
// It returns "" for a nil error.
func Describe(err error) string {
	if err == nil {
		return ""
	}

	if errors.Is(err, ErrEmptyURL) {
		return "Enter a URL to analyze"
	}
	if errors.Is(err, context.Canceled) {
		return "Request cancelled"
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return "Request timeout - the analysis service did not answer in time (see --timeout)"
	}

	var unknownAuthority x509.UnknownAuthorityError
	if errors.As(err, &unknownAuthority) {
		return "TLS certificate signed by unknown authority - use --insecure for local servers"
	}
	var hostnameErr x509.HostnameError
	if errors.As(err, &hostnameErr) {
		return "TLS hostname mismatch - certificate doesn't match the server address"
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Timeout() {
		return "Request timeout - the analysis service did not answer in time (see --timeout)"
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		if hint := describeNetError(opErr); hint != "" {
			return hint
		}
	}

	return describeMessage(err.Error())
}

func describeNetError(e *net.OpError) string {
	if e.Timeout() {
		return "Connection timeout - the analysis service took too long to respond"
	}

	var errno syscall.Errno
	if errors.As(e.Err, &errno) {
		switch errno {
		case syscall.ECONNREFUSED:
			return "Connection refused - is the analysis service running? (try `pagescope mock`)"
		case syscall.ECONNRESET:
			return "Connection reset by server - the analysis service may have crashed"
		case syscall.ENETUNREACH:
			return "Network unreachable - check network connection and firewall settings"
		case syscall.EHOSTUNREACH:
			return "Host unreachable - check that the server is online"
		}
	}
	return ""
}

// describeMessage is the string-based fallback for wrapped or foreign errors
func describeMessage(errStr string) string {
	errLower := strings.ToLower(errStr)

	switch {
	case strings.Contains(errLower, "context canceled"):
		return "Request cancelled"
	case strings.Contains(errLower, "deadline exceeded"),
		strings.Contains(errLower, "timeout"),
		strings.Contains(errLower, "timed out"):
		return "Request timeout - the analysis service did not answer in time (see --timeout)"
	case strings.Contains(errLower, "connection refused"):
		return "Connection refused - is the analysis service running? (try `pagescope mock`)"
	case strings.Contains(errLower, "no such host"),
		strings.Contains(errLower, "dial tcp: lookup"):
		return "DNS resolution failed - verify the server hostname"
	case strings.Contains(errLower, "connection reset"):
		return "Connection reset by server - the analysis service may have crashed"
	case strings.Contains(errLower, "x509"),
		strings.Contains(errLower, "certificate"),
		strings.Contains(errLower, "tls"):
		return "TLS error - check the server certificate or use --insecure for local servers"
	case strings.Contains(errLower, "unsupported protocol"):
		return "Invalid server URL - use http:// or https://"
	case strings.Contains(errLower, "invalid json"),
		strings.Contains(errLower, "empty response body"):
		return "The analysis service returned a body that is not JSON"
	case strings.Contains(errLower, "eof"):
		return "Connection closed unexpectedly by the analysis service"
	}

	return "Request failed: " + errStr
}
