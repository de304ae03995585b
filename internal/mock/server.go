package mock

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/tidwall/jsonc"

	"github.com/studiowebux/pagescope/internal/logger"
	"github.com/studiowebux/pagescope/internal/types"
)

const (
	maxLogs        = 1000
	emptyURLError  = "URL不能为空"
	maxRequestSize = 1 << 20
)

// Server represents the mock analysis server
type Server struct {
	config     *Config
	workdir    string
	log        *slog.Logger
	router     chi.Router
	httpServer *http.Server
	listener   net.Listener
	logs       []RequestLog
	logged     int // Requests recorded since start, including trimmed ones
	logsMutex  sync.RWMutex
	notifyCh   chan struct{} // Channel to notify when new log arrives
}

// NewServer creates a new mock server
func NewServer(config *Config, workdir string, log *slog.Logger) *Server {
	if config.Port == 0 {
		config.Port = 5000
	}
	if config.Host == "" {
		config.Host = "localhost"
	}
	if log == nil {
		log = logger.Discard()
	}

	s := &Server{
		config:   config,
		workdir:  workdir,
		log:      log,
		logs:     make([]RequestLog, 0),
		notifyCh: make(chan struct{}, 100),
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)
	r.Get("/health", s.handleHealth)
	r.Post("/analyze", s.handleAnalyze)
	r.Get("/logs", s.handleLogs)
	r.Delete("/logs", s.handleClearLogs)
	s.router = r

	return s
}

// Handler exposes the router, mainly for httptest
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start binds the listen address and serves in the background
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", fmt.Sprintf("%s:%d", s.config.Host, s.config.Port))
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}
	s.listener = ln

	s.httpServer = &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error("mock server stopped", "err", err)
		}
	}()

	s.log.Info("mock server listening", "addr", s.GetAddress(), "fixtures", len(s.config.Fixtures))
	return nil
}

// Stop stops the mock server
func (s *Server) Stop(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

// GetAddress returns the server base URL
func (s *Server) GetAddress() string {
	if s.listener != nil {
		return "http://" + s.listener.Addr().String()
	}
	return fmt.Sprintf("http://%s:%d", s.config.Host, s.config.Port)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleLogs returns the recorded analyze requests, oldest first
func (s *Server) handleLogs(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.GetLogs())
}

func (s *Server) handleClearLogs(w http.ResponseWriter, r *http.Request) {
	s.ClearLogs()
	w.WriteHeader(http.StatusNoContent)
}

// handleAnalyze answers POST /analyze from the fixtures
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req types.AnalyzeRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestSize)).Decode(&req); err != nil || strings.TrimSpace(req.URL) == "" {
		writeJSON(w, http.StatusBadRequest, types.AnalyzeResponse{Error: emptyURLError})
		s.record(r, req.URL, "none", http.StatusBadRequest, start)
		return
	}
	target := strings.TrimSpace(req.URL)

	fixture := s.findFixture(target)
	if fixture == nil {
		writeJSON(w, http.StatusNotFound, types.AnalyzeResponse{Error: "no fixture for " + target})
		s.record(r, target, "none", http.StatusNotFound, start)
		return
	}

	if fixture.Delay > 0 {
		select {
		case <-time.After(time.Duration(fixture.Delay) * time.Millisecond):
		case <-r.Context().Done():
			s.record(r, target, fixtureName(fixture), 499, start)
			return
		}
	}

	status := fixture.Status
	if status == 0 {
		status = http.StatusOK
	}

	body, err := s.fixtureBody(fixture, target)
	if err != nil {
		s.log.Error("fixture body", "fixture", fixtureName(fixture), "err", err)
		writeJSON(w, http.StatusInternalServerError, types.AnalyzeResponse{Error: err.Error()})
		s.record(r, target, fixtureName(fixture), http.StatusInternalServerError, start)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(body)

	s.record(r, target, fixtureName(fixture), status, start)
}

// fixtureBody resolves a fixture's JSON body for the analyzed URL
func (s *Server) fixtureBody(f *Fixture, target string) ([]byte, error) {
	raw := f.Body
	if f.BodyFile != "" {
		path := f.BodyFile
		if !filepath.IsAbs(path) {
			path = filepath.Join(s.workdir, path)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read body file %s: %w", f.BodyFile, err)
		}
		raw = string(data)
	}

	if raw == "" {
		return json.Marshal(types.AnalyzeResponse{URL: target, Analysis: &types.Analysis{}})
	}

	escaped, _ := json.Marshal(target)
	raw = strings.ReplaceAll(raw, "{{url}}", strings.Trim(string(escaped), `"`))
	return jsonc.ToJSON([]byte(raw)), nil
}

// findFixture returns the first fixture matching the URL
func (s *Server) findFixture(target string) *Fixture {
	for i := range s.config.Fixtures {
		f := &s.config.Fixtures[i]

		matched := false
		switch f.MatchType {
		case "", "exact":
			matched = f.Match == target
		case "prefix":
			matched = strings.HasPrefix(target, f.Match)
		case "regex":
			if re, err := regexp.Compile(f.Match); err == nil {
				matched = re.MatchString(target)
			}
		}

		if matched {
			return f
		}
	}
	return nil
}

func fixtureName(f *Fixture) string {
	if f.Name != "" {
		return f.Name
	}
	return f.Match
}

// requestLogger logs every request through slog
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.log.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

func (s *Server) record(r *http.Request, target, matched string, status int, start time.Time) {
	if !s.config.Logging {
		return
	}
	s.logRequest(RequestLog{
		Timestamp:      start,
		RequestID:      middleware.GetReqID(r.Context()),
		URL:            target,
		MatchedFixture: matched,
		Status:         status,
		Duration:       time.Since(start),
	})
}

// logRequest adds a request to the log
func (s *Server) logRequest(entry RequestLog) {
	s.logsMutex.Lock()
	defer s.logsMutex.Unlock()

	s.logs = append(s.logs, entry)
	s.logged++

	if len(s.logs) > maxLogs {
		s.logs = s.logs[len(s.logs)-maxLogs:]
	}

	select {
	case s.notifyCh <- struct{}{}:
	default:
	}
}

// NotifyChannel returns the notification channel
func (s *Server) NotifyChannel() <-chan struct{} {
	return s.notifyCh
}

// Watch calls fn for every request recorded after Watch starts, until ctx
// is done. Requests trimmed from the log before fn runs are skipped.
func (s *Server) Watch(ctx context.Context, fn func(RequestLog)) {
	s.logsMutex.RLock()
	seen := s.logged
	s.logsMutex.RUnlock()

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.notifyCh:
		}

		var fresh []RequestLog
		s.logsMutex.RLock()
		n := s.logged - seen
		if n > len(s.logs) {
			n = len(s.logs)
		}
		fresh = append(fresh, s.logs[len(s.logs)-n:]...)
		seen = s.logged
		s.logsMutex.RUnlock()

		for _, entry := range fresh {
			fn(entry)
		}
	}
}

// GetLogs returns all logged requests
func (s *Server) GetLogs() []RequestLog {
	s.logsMutex.RLock()
	defer s.logsMutex.RUnlock()

	logs := make([]RequestLog, len(s.logs))
	copy(logs, s.logs)
	return logs
}

// ClearLogs clears all logged requests
func (s *Server) ClearLogs() {
	s.logsMutex.Lock()
	defer s.logsMutex.Unlock()

	s.logs = make([]RequestLog, 0)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
