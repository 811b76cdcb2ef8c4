// Package web serves the matcher over a JSON HTTP API.
// Binds to localhost by default, so no auth is needed.
package web

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"sync"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/corey/acm/internal/adapters/metrics"
	"github.com/corey/acm/internal/domain/automaton"
	"github.com/corey/acm/internal/ports"
)

// MaxBodyBytes caps the size of a search request body.
const MaxBodyBytes = 8 << 20

// Server serves search, introspection and metrics endpoints over HTTP.
type Server struct {
	matcher  ports.PatternMatcher
	metrics  *metrics.Metrics
	log      *zap.Logger
	listener net.Listener
	httpSrv  *http.Server
	port     int
	started  time.Time
	stopOnce sync.Once
	maxBody  int64

	portFilePath string // .acm/run/http.port
}

// NewServer creates an HTTP server for matcher. The portFilePath is where
// the bound port is written for discovery; empty disables it. A nil
// metrics or logger is allowed.
func NewServer(matcher ports.PatternMatcher, m *metrics.Metrics, log *zap.Logger, portFilePath string) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{
		matcher:      matcher,
		metrics:      m,
		log:          log,
		portFilePath: portFilePath,
		started:      time.Now(),
		maxBody:      MaxBodyBytes,
	}
}

// DefaultPort computes a project-specific port: 19000 + (hash(path) % 1000).
func DefaultPort(projectRoot string) int {
	h := sha256.Sum256([]byte(projectRoot))
	n := uint32(h[0])<<24 | uint32(h[1])<<16 | uint32(h[2])<<8 | uint32(h[3])
	return 19000 + int(n%1000)
}

// Handler builds the request router.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /api/health", s.handleHealth)
	mux.HandleFunc("GET /api/patterns", s.handlePatterns)
	mux.HandleFunc("GET /api/nodes", s.handleNodes)
	mux.HandleFunc("GET /api/graph", s.handleGraph)
	mux.HandleFunc("POST /api/search", s.handleSearch)
	if s.metrics != nil {
		mux.Handle("GET /metrics", s.metrics.Handler())
	}
	return mux
}

// Start begins listening on addr (host:port; port 0 picks a free one).
// Writes the bound port to the port file.
func (s *Server) Start(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	s.listener = ln
	s.port = ln.Addr().(*net.TCPAddr).Port
	s.started = time.Now()

	s.httpSrv = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	if s.portFilePath != "" {
		if err := os.WriteFile(s.portFilePath, []byte(fmt.Sprintf("%d", s.port)), 0644); err != nil {
			s.log.Warn("write port file", zap.String("path", s.portFilePath), zap.Error(err))
		}
	}

	go func() {
		if err := s.httpSrv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error("http server stopped", zap.Error(err))
		}
	}()
	s.log.Info("http server listening", zap.String("addr", ln.Addr().String()))
	return nil
}

// Stop gracefully shuts down the HTTP server. Idempotent.
func (s *Server) Stop() {
	s.stopOnce.Do(func() {
		if s.httpSrv != nil {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := s.httpSrv.Shutdown(ctx); err != nil {
				s.log.Warn("http shutdown", zap.Error(err))
			}
		}
		if s.portFilePath != "" {
			os.Remove(s.portFilePath)
		}
	})
}

// Port returns the bound port number.
func (s *Server) Port() int {
	return s.port
}

// URL returns the API base URL.
func (s *Server) URL() string {
	return fmt.Sprintf("http://localhost:%d", s.port)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, ErrorResult{Error: err.Error()})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResult{
		Status:   "ok",
		Patterns: len(s.matcher.Patterns()),
		Uptime:   time.Since(s.started).Round(time.Second).String(),
	})
}

func (s *Server) handlePatterns(w http.ResponseWriter, r *http.Request) {
	patterns := s.matcher.Patterns()
	writeJSON(w, http.StatusOK, PatternsResult{Patterns: patterns, Count: len(patterns)})
}

func (s *Server) handleNodes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.matcher.Nodes())
}

func (s *Server) handleGraph(w http.ResponseWriter, r *http.Request) {
	g := s.matcher.Graph()
	if r.URL.Query().Get("format") != "dot" {
		writeJSON(w, http.StatusOK, g)
		return
	}

	var buf bytes.Buffer
	if err := automaton.WriteDOT(&buf, g); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "text/vnd.graphviz")
	w.Write(buf.Bytes())
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxBody)

	var req SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.searchFailed()
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, err)
			return
		}
		writeError(w, http.StatusBadRequest, fmt.Errorf("decode request: %w", err))
		return
	}

	start := time.Now()
	report, err := s.matcher.Search(req.Text)
	if err != nil {
		s.searchFailed()
		status := http.StatusInternalServerError
		if errors.Is(err, automaton.ErrNotBuilt) {
			status = http.StatusServiceUnavailable
		}
		writeError(w, status, err)
		return
	}
	elapsed := time.Since(start)

	result := SearchResult{
		Report:  report,
		Total:   report.Total(),
		Matched: report.Matched(),
		Elapsed: elapsed.String(),
	}
	if r.URL.Query().Get("matches") == "1" {
		result.Matches = report.Matches()
	}
	if s.metrics != nil {
		s.metrics.ObserveSearch(utf8.RuneCountInString(req.Text), result.Total, elapsed)
	}
	s.log.Debug("search",
		zap.Int("symbols", utf8.RuneCountInString(req.Text)),
		zap.Int("matches", result.Total),
		zap.Duration("elapsed", elapsed))

	writeJSON(w, http.StatusOK, result)
}

func (s *Server) searchFailed() {
	if s.metrics != nil {
		s.metrics.SearchFailed()
	}
}
