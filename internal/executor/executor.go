package executor

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/studiowebux/pagescope/internal/logger"
	"github.com/studiowebux/pagescope/internal/types"
)

// ErrEmptyURL is returned when the URL is blank after trimming
var ErrEmptyURL = errors.New("url must not be empty")

// maxResponseSize caps how much of a response body is read
const maxResponseSize = 32 << 20

// Options configure a Client
type Options struct {
	Server             string        // base URL of the analysis service
	Timeout            time.Duration // 0 means no timeout
	Version            string        // reported in the User-Agent
	InsecureSkipVerify bool
	Logger             *slog.Logger
	HTTPClient         *http.Client // overrides the built client when set
}

// Client talks to the analysis service
type Client struct {
	endpoint  string
	userAgent string
	http      *http.Client
	log       *slog.Logger
}

// Result is a decoded analyze exchange
type Result struct {
	Response  *types.AnalyzeResponse
	RequestID string
	Status    int
	Body      []byte
	Duration  int64 // milliseconds
}

// New creates a Client
func New(opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = buildHTTPClient(opts.Timeout, opts.InsecureSkipVerify)
	}

	log := opts.Logger
	if log == nil {
		log = logger.Discard()
	}

	version := opts.Version
	if version == "" {
		version = "dev"
	}

	return &Client{
		endpoint:  strings.TrimRight(opts.Server, "/") + "/analyze",
		userAgent: "pagescope/" + version,
		http:      httpClient,
		log:       log,
	}
}

// Endpoint returns the analyze URL the client posts to
func (c *Client) Endpoint() string {
	return c.endpoint
}

// NormalizeURL trims the input and rejects blank values
func NormalizeURL(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", ErrEmptyURL
	}
	return trimmed, nil
}

// Analyze posts the URL and decodes the service response.
// Any status code with a JSON body is returned as a Result.
func (c *Client) Analyze(ctx context.Context, rawURL string) (*Result, error) {
	target, err := NormalizeURL(rawURL)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(types.AnalyzeRequest{URL: target})
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	requestID := uuid.NewString()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-Id", requestID)

	c.log.Debug("analyze request", "url", target, "request_id", requestID)

	startTime := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn("analyze request failed", "url", target, "request_id", requestID, "err", err)
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	duration := time.Since(startTime).Milliseconds()
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	decoded, err := Decode(body)
	if err != nil {
		c.log.Warn("analyze response undecodable", "url", target, "status", resp.StatusCode, "err", err)
		return nil, fmt.Errorf("HTTP %d: %w", resp.StatusCode, err)
	}

	c.log.Info("analyze completed",
		"url", target,
		"request_id", requestID,
		"status", resp.StatusCode,
		"duration_ms", duration,
		"error", decoded.Error,
	)

	return &Result{
		Response:  decoded,
		RequestID: requestID,
		Status:    resp.StatusCode,
		Body:      body,
		Duration:  duration,
	}, nil
}

// Decode parses a response body
func Decode(body []byte) (*types.AnalyzeResponse, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, errors.New("empty response body")
	}

	var resp types.AnalyzeResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("invalid JSON response: %w", err)
	}
	return &resp, nil
}

// buildHTTPClient creates an HTTP client with the configured timeout
func buildHTTPClient(timeout time.Duration, insecure bool) *http.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	if insecure {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}

	return &http.Client{
		Timeout:   timeout,
		Transport: transport,
	}
}

// FormatDuration formats duration in milliseconds to human-readable string
func FormatDuration(ms int64) string {
	if ms < 1000 {
		return fmt.Sprintf("%dms", ms)
	}
	seconds := float64(ms) / 1000.0
	return fmt.Sprintf("%.2fs", seconds)
}
