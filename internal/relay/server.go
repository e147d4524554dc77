// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package relay

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/pdiddy/ethereal-canvas/pkg/types"
)

const (
	capturePath    = "/capture"
	getCapturePath = "/get-capture"
	healthPath     = "/health"
)

// captureResponse is the body returned by POST /capture.
type captureResponse struct {
	Message string        `json:"message"`
	Data    types.Capture `json:"data"`
}

// retrieveResponse is the body returned by GET /get-capture when a capture is held.
type retrieveResponse struct {
	CapturedData types.Capture `json:"capturedData"`
}

// captureFields is the POST /capture body. Fields stay raw so that a
// non-string value is defaulted rather than rejected.
type captureFields struct {
	Text  json.RawMessage `json:"text"`
	URL   json.RawMessage `json:"url"`
	Title json.RawMessage `json:"title"`
}

func (f captureFields) request() types.CaptureRequest {
	return types.CaptureRequest{
		Text:  stringOrEmpty(f.Text),
		URL:   stringOrEmpty(f.URL),
		Title: stringOrEmpty(f.Title),
	}
}

// stringOrEmpty returns raw as a string when it is a JSON string, and ""
// for anything else, including a missing field.
func stringOrEmpty(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

type errorResponse struct {
	Message string `json:"message"`
}

// Server exposes a Mailbox over HTTP.
type Server struct {
	mailbox  *Mailbox
	cfg      types.RelayConfig
	logger   *zap.Logger
	limiter  *rate.Limiter
	validate *validator.Validate
	now      func() time.Time
}

// NewServer returns a relay server with an empty mailbox.
func NewServer(cfg types.RelayConfig, logger *zap.Logger) *Server {
	s := &Server{
		mailbox:  &Mailbox{},
		cfg:      cfg,
		logger:   logger,
		validate: validator.New(),
		now:      time.Now,
	}
	if cfg.CaptureRate > 0 {
		burst := cfg.CaptureBurst
		if burst <= 0 {
			burst = 1
		}
		s.limiter = rate.NewLimiter(rate.Limit(cfg.CaptureRate), burst)
	}
	return s
}

// Handler returns the routes of the relay.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Recoverer)
	r.Use(requestLogger(s.logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.With(s.rateLimit).Post(capturePath, s.handleCapture)
	r.Get(getCapturePath, s.handleGetCapture)
	r.Get(healthPath, func(w http.ResponseWriter, _ *http.Request) {
		s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	return r
}

// ListenAndServe serves the relay on cfg.Address until ctx is cancelled,
// then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Address,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("relay listening", zap.String("address", s.cfg.Address))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("relay server: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("relay shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("relay shutdown: %w", err)
	}
	return nil
}

func (s *Server) handleCapture(w http.ResponseWriter, r *http.Request) {
	var fields captureFields
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil && !errors.Is(err, io.EOF) {
		s.respondJSON(w, http.StatusBadRequest, errorResponse{Message: "invalid JSON body: " + err.Error()})
		return
	}
	req := fields.request()

	if err := s.checkLengths(req); err != nil {
		s.respondJSON(w, http.StatusRequestEntityTooLarge, errorResponse{Message: err.Error()})
		return
	}

	stored := s.mailbox.Submit(types.Capture{
		Text:      req.Text,
		URL:       req.URL,
		Title:     req.Title,
		Timestamp: s.now().UnixMilli(),
	})
	s.logger.Info("capture received",
		zap.Int("textLength", len(stored.Text)),
		zap.String("url", stored.URL),
		zap.String("title", stored.Title),
	)
	s.respondJSON(w, http.StatusOK, captureResponse{
		Message: "Node captured successfully",
		Data:    stored,
	})
}

func (s *Server) checkLengths(req types.CaptureRequest) error {
	if s.cfg.MaxFieldLength <= 0 {
		return nil
	}
	tag := fmt.Sprintf("max=%d", s.cfg.MaxFieldLength)
	fields := []struct {
		name  string
		value string
	}{
		{"text", req.Text},
		{"url", req.URL},
		{"title", req.Title},
	}
	for _, f := range fields {
		if err := s.validate.Var(f.value, tag); err != nil {
			return fmt.Errorf("%s exceeds %d characters", f.name, s.cfg.MaxFieldLength)
		}
	}
	return nil
}

func (s *Server) handleGetCapture(w http.ResponseWriter, _ *http.Request) {
	c, ok := s.mailbox.Retrieve()
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	s.logger.Info("capture delivered", zap.Int64("timestamp", c.Timestamp))
	s.respondJSON(w, http.StatusOK, retrieveResponse{CapturedData: c})
}

func (s *Server) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.limiter != nil && !s.limiter.Allow() {
			s.logger.Warn("capture rate limited", zap.String("remoteAddr", r.RemoteAddr))
			s.respondJSON(w, http.StatusTooManyRequests, errorResponse{Message: "too many captures, slow down"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Error("failed to encode response", zap.Error(err))
	}
}

// requestLogger logs one line per request.
func requestLogger(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			logger.Debug("http request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("duration", time.Since(start)),
				zap.String("requestID", chimiddleware.GetReqID(r.Context())),
			)
		})
	}
}
