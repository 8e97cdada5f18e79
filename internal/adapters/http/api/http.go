// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/okian/bfhl/internal/config"
	"github.com/okian/bfhl/internal/domain/operation"
	"github.com/okian/bfhl/pkg/logger"
	"github.com/okian/bfhl/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// defaultMaxBodyBytes bounds POST /bfhl bodies.
const defaultMaxBodyBytes int64 = 1 << 20

// Executor runs a parsed operation. Implemented by service.Service.
type Executor interface {
	Execute(ctx context.Context, req operation.Request) (any, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	officialEmail string
	maxBodyBytes  int64
	logger        logger.Logger

	healthHandler *HealthHandler
	bfhlHandler   *BFHLHandler
}

// Option configures a Server.
type Option func(*Server)

// WithOfficialEmail sets the identity stamped on every envelope. Empty keeps
// config.DefaultOfficialEmail.
func WithOfficialEmail(email string) Option {
	return func(s *Server) {
		if email != "" {
			s.officialEmail = email
		}
	}
}

// WithMaxBodyBytes bounds the request body accepted by POST /bfhl.
func WithMaxBodyBytes(n int64) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxBodyBytes = n
		}
	}
}

// WithLogger sets the logger used by handlers.
func WithLogger(l logger.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(exec Executor, opts ...Option) *Server {
	s := &Server{
		officialEmail: config.DefaultOfficialEmail,
		maxBodyBytes:  defaultMaxBodyBytes,
		logger:        logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.healthHandler = NewHealthHandler(s)
	s.bfhlHandler = NewBFHLHandler(s, exec)
	return s
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}
	mux.HandleFunc("/health", MetricsMiddleware(s.healthHandler.HandleHealth, "health"))
	mux.HandleFunc("/bfhl", MetricsMiddleware(s.recoverMiddleware(s.bfhlHandler.HandleBFHL), "bfhl"))
	mux.Handle("/metrics", promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{}))
}

// envelope is the body of every API response. Data is set only on success
// and Error only on failure.
type envelope struct {
	IsSuccess     bool   `json:"is_success"`
	OfficialEmail string `json:"official_email"`
	Data          any    `json:"data,omitempty"`
	Error         string `json:"error,omitempty"`
}

func (s *Server) writeSuccess(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusOK, envelope{IsSuccess: true, OfficialEmail: s.officialEmail, Data: data})
}

func (s *Server) writeFailure(w http.ResponseWriter, err error) {
	writeJSON(w, http.StatusBadRequest, envelope{OfficialEmail: s.officialEmail, Error: publicMessage(err)})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
