// Package http exposes the check registry over a small HTTP surface: a
// health endpoint, the advertised item list, on-demand check execution,
// Prometheus metrics and a websocket log stream.
package http

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"github.com/c360/agentkit/check"
	"github.com/c360/agentkit/errors"
	"github.com/c360/agentkit/metric"
)

// maxRunBodySize bounds run request bodies.
const maxRunBodySize = 64 << 10 // 64KB

// shutdownTimeout bounds graceful HTTP shutdown.
const shutdownTimeout = 5 * time.Second

// Config holds the gateway listen address and rate limiting knobs.
type Config struct {
	Listen    string  // listen address, e.g. ":9650"
	RateLimit float64 // sustained run requests per second, 0 disables limiting
	RateBurst int     // burst allowance on top of RateLimit
}

// Server serves the gateway endpoints for one registry.
type Server struct {
	config   Config
	registry *check.Registry
	metrics  *metric.MetricsRegistry
	logs     *LogStream
	logger   *check.Logger
	limiter  *rate.Limiter

	httpServer *http.Server
}

// NewServer creates a gateway server. The metrics registry and log stream
// are optional; their endpoints respond 404 when absent.
func NewServer(cfg Config, registry *check.Registry, metrics *metric.MetricsRegistry, logs *LogStream, logger *check.Logger) *Server {
	if logger == nil {
		logger = check.NewLogger(nil)
	}
	s := &Server{
		config:   cfg,
		registry: registry,
		metrics:  metrics,
		logs:     logs,
		logger:   logger,
	}
	if cfg.RateLimit > 0 {
		burst := cfg.RateBurst
		if burst < 1 {
			burst = 1
		}
		s.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}
	return s
}

// Handler builds the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/v1/items", s.handleItems)
	mux.HandleFunc("/v1/run", s.handleRun)
	if s.metrics != nil {
		mux.Handle("/metrics", promhttp.HandlerFor(
			s.metrics.PrometheusRegistry(),
			promhttp.HandlerOpts{},
		))
	}
	if s.logs != nil {
		mux.HandleFunc("/v1/logs", s.logs.HandleLogs)
	}
	return s.withRequestID(mux)
}

// Serve runs the HTTP server until ctx is canceled, then shuts down
// gracefully.
func (s *Server) Serve(ctx context.Context) error {
	s.httpServer = &http.Server{
		Addr:              s.config.Listen,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.httpServer.ListenAndServe()
	}()
	s.logger.Info(fmt.Sprintf("gateway listening on %s", s.config.Listen))

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			return errors.Wrap(err, "Server", "Serve", "graceful shutdown")
		}
		<-errCh
		return nil
	case err := <-errCh:
		if err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			return errors.WrapFatal(err, "Server", "Serve", "HTTP listener")
		}
		return nil
	}
}

// withRequestID propagates or assigns an X-Request-ID header on every
// response.
func (s *Server) withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", requestID)
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	state := s.registry.State()
	status := http.StatusOK
	if state != check.StateReady {
		status = http.StatusServiceUnavailable
	}
	s.writeJSON(w, status, map[string]any{
		"state":     state.String(),
		"providers": s.registry.Modules(),
	})
}

// itemView is the wire shape of one advertised item.
type itemView struct {
	Key       string `json:"key"`
	Flags     int    `json:"flags,omitempty"`
	TestParam string `json:"test_param,omitempty"`
}

func (s *Server) handleItems(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	items := s.registry.ItemList()
	views := make([]itemView, len(items))
	for i, item := range items {
		views[i] = itemView{
			Key:       item.Key(),
			Flags:     item.Flags(),
			TestParam: item.TestParam(),
		}
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"items": views})
}

// runRequest is the wire shape of a check execution request.
type runRequest struct {
	Key    string   `json:"key"`
	Params []string `json:"params"`
}

func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if s.limiter != nil && !s.limiter.Allow() {
		s.writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
		return
	}

	defer r.Body.Close()
	body, err := io.ReadAll(io.LimitReader(r.Body, maxRunBodySize))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "failed to read request body")
		return
	}

	var run runRequest
	if err := json.Unmarshal(body, &run); err != nil {
		s.writeError(w, http.StatusBadRequest, "malformed JSON body")
		return
	}
	if run.Key == "" {
		s.writeError(w, http.StatusBadRequest, "missing item key")
		return
	}

	value, err := s.registry.Route(check.NewRequest(run.Key, run.Params...))
	if err != nil {
		s.logger.Debug(fmt.Sprintf("run %s failed: %v", run.Key, err))
		s.writeError(w, statusForError(err), safeMessage(err))
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"key":   run.Key,
		"value": value,
	})
}

// statusForError maps routing and handler errors onto HTTP status codes.
func statusForError(err error) int {
	switch {
	case stderrors.Is(err, errors.ErrUnknownItem):
		return http.StatusNotFound
	case stderrors.Is(err, errors.ErrNotReady):
		return http.StatusServiceUnavailable
	case stderrors.Is(err, errors.ErrItemTimeout):
		return http.StatusGatewayTimeout
	case errors.IsInvalid(err):
		return http.StatusBadRequest
	case errors.IsTransient(err):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// safeMessage keeps handler internals out of client-facing errors.
func safeMessage(err error) string {
	switch {
	case stderrors.Is(err, errors.ErrUnknownItem):
		return "unknown item key"
	case stderrors.Is(err, errors.ErrNotReady):
		return "registry not ready"
	case stderrors.Is(err, errors.ErrItemTimeout):
		return "item timed out"
	case errors.IsInvalid(err):
		return "invalid request"
	case errors.IsTransient(err):
		return "service temporarily unavailable"
	}
	return "internal error"
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Debug(fmt.Sprintf("response encoding failed: %v", err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]any{
		"error":  message,
		"status": status,
	})
}
