// Package server exposes question and feedback sources over the practice
// backend HTTP contract, so the client can run against a self-hosted
// backend.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/abhisek/prepcoach/internal/practice"
	"github.com/abhisek/prepcoach/internal/remote"
)

// Config holds server settings.
type Config struct {
	Addr string

	// GenerateTimeout bounds one question or feedback generation.
	GenerateTimeout time.Duration
}

// DefaultConfig listens where the client looks by default.
func DefaultConfig() Config {
	return Config{
		Addr:            ":5000",
		GenerateTimeout: 60 * time.Second,
	}
}

// Server answers the practice backend contract.
type Server struct {
	questions practice.QuestionSource
	feedback  practice.FeedbackSource
	cfg       Config
	logger    *zap.Logger

	// batches collapses identical concurrent question requests.
	batches singleflight.Group
}

// Option customizes a Server.
type Option func(*Server)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// New creates a Server.
func New(questions practice.QuestionSource, feedback practice.FeedbackSource, cfg Config, opts ...Option) *Server {
	s := &Server{
		questions: questions,
		feedback:  feedback,
		cfg:       cfg,
		logger:    zap.NewNop(),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.Use(s.logRequests)

	r.HandleFunc(remote.PathHealth, s.health).Methods(http.MethodGet)

	r.HandleFunc(remote.PathQuestions, s.generateQuestions).Methods(http.MethodPost)
	r.HandleFunc(remote.PathFeedback, s.generateFeedback).Methods(http.MethodPost)

	return r
}

// ListenAndServe serves until ctx is done, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("backend listening", zap.String("addr", s.cfg.Addr))
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rw, r)
		s.logger.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rw.status),
			zap.Duration("latency", time.Since(start)),
		)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
