// Package api exposes the scheduling facade over a small JSON HTTP API.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"grantdesk/internal/scheduling"
)

// HTTPServer serves the scheduling API.
type HTTPServer struct {
	scheduler *scheduling.Service
	apiKey    string
	server    *http.Server
	logger    *zerolog.Logger
}

// NewHTTPServer creates the API server. An empty apiKey disables auth,
// which is only acceptable behind a trusted proxy.
func NewHTTPServer(addr string, scheduler *scheduling.Service, apiKey string, logger *zerolog.Logger) *HTTPServer {
	s := &HTTPServer{
		scheduler: scheduler,
		apiKey:    apiKey,
		logger:    logger,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/slots/available", s.withAuth(s.handleAvailableSlots))
	mux.HandleFunc("/api/v1/interviews", s.withAuth(s.handleScheduleInterview))
	mux.HandleFunc("/api/v1/interviews/auto-assign", s.withAuth(s.handleAutoAssign))
	mux.HandleFunc("/api/v1/interviews/cancel", s.withAuth(s.handleCancel))
	mux.HandleFunc("/api/v1/interviews/reschedule", s.withAuth(s.handleReschedule))
	mux.HandleFunc("/api/v1/interviews/complete", s.withAuth(s.handleComplete))
	mux.HandleFunc("/api/v1/interviews/no-show", s.withAuth(s.handleNoShow))

	s.server = &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
	return s
}

// Start runs the server until ctx is cancelled.
func (s *HTTPServer) Start(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = s.server.Shutdown(ctxShutdown)
	}()

	err := s.server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Handler returns the underlying handler, for tests.
func (s *HTTPServer) Handler() http.Handler {
	return s.server.Handler
}

func (s *HTTPServer) withAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		requestID := uuid.NewString()
		w.Header().Set("X-Request-ID", requestID)

		if s.apiKey != "" && r.Header.Get("x-api-key") != s.apiKey {
			writeError(w, http.StatusUnauthorized, "invalid or missing API key")
			return
		}

		logger := s.logger.With().Str("request_id", requestID).Logger()
		next(w, r.WithContext(logger.WithContext(r.Context())))
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
