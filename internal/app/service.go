// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/okian/bfhl/internal/domain/numeric"
	"github.com/okian/bfhl/internal/domain/operation"
	"github.com/okian/bfhl/internal/domain/reply"
	"github.com/okian/bfhl/pkg/logger"
	"github.com/okian/bfhl/pkg/metrics"
)

// Generator produces free text for a prompt. Implemented by genai.Client.
type Generator interface {
	Configured() bool
	Generate(ctx context.Context, prompt string) (string, error)
}

// DefaultMaxFibonacciTerms caps the fibonacci count unless WithMaxFibonacciTerms
// overrides it. Terms are exact, so response size grows with the square of n.
const DefaultMaxFibonacciTerms = 1000

// errNoGenerator is the cause reported when the AI operation has no usable provider.
var errNoGenerator = errors.New("generative-text provider unavailable")

// Service executes parsed operations. It holds no per-request state and is
// safe for concurrent use.
type Service struct {
	generator         Generator
	maxFibonacciTerms int
	logger            logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithGenerator sets the provider used by the AI operation.
func WithGenerator(g Generator) Option {
	return func(s *Service) {
		s.generator = g
	}
}

// WithMaxFibonacciTerms caps the fibonacci count. Zero or negative keeps the default.
func WithMaxFibonacciTerms(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxFibonacciTerms = n
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		maxFibonacciTerms: DefaultMaxFibonacciTerms,
		logger:            logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AIConfigured reports whether the AI operation can reach a provider.
func (s *Service) AIConfigured() bool {
	return s.generator != nil && s.generator.Configured()
}

// Execute runs req and returns the value for the response's data field.
// Every failure wraps operation.ErrInvalidRequest.
func (s *Service) Execute(ctx context.Context, req operation.Request) (any, error) {
	start := time.Now()
	data, err := s.execute(ctx, req)
	elapsedMs := float64(time.Since(start).Microseconds()) / 1000

	kind := req.Kind.String()
	if err != nil {
		metrics.RecordOperation(kind, metrics.OutcomeFailure, elapsedMs)
		s.logger.Debug(ctx, "operation failed", logger.String("operation", kind), logger.Error(err))
		return nil, operation.Invalid("service."+kind, err)
	}
	metrics.RecordOperation(kind, metrics.OutcomeSuccess, elapsedMs)
	s.logger.Debug(ctx, "operation succeeded",
		logger.String("operation", kind),
		logger.Float64("elapsed_ms", elapsedMs),
	)
	return data, nil
}

func (s *Service) execute(ctx context.Context, req operation.Request) (any, error) {
	switch req.Kind {
	case operation.KindFibonacci:
		if req.N > s.maxFibonacciTerms {
			return nil, fmt.Errorf("fibonacci(%d) exceeds limit %d", req.N, s.maxFibonacciTerms)
		}
		return numeric.Fibonacci(req.N)
	case operation.KindPrime:
		return numeric.FilterPrimes(req.Candidates), nil
	case operation.KindLCM, operation.KindHCF:
		return fold(req.Kind, req.Numbers)
	case operation.KindAI:
		return s.answer(ctx, req.Prompt)
	default:
		return nil, fmt.Errorf("unsupported operation kind %d", req.Kind)
	}
}

// fold runs lcm or hcf exactly when every operand is integral and in float64
// otherwise.
func fold(kind operation.Kind, values []float64) (any, error) {
	if exact, ok := numeric.Integers(values); ok {
		if kind == operation.KindLCM {
			return numeric.LCM(exact)
		}
		return numeric.HCF(exact)
	}
	if kind == operation.KindLCM {
		return numeric.LCMFloat(values)
	}
	return numeric.HCFFloat(values)
}

// answer asks the provider and keeps only the cleaned last word.
func (s *Service) answer(ctx context.Context, prompt string) (string, error) {
	if prompt == "" {
		return "", errors.New("empty prompt")
	}
	if !s.AIConfigured() {
		return "", errNoGenerator
	}
	text, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		return "", err
	}
	return reply.LastWord(text), nil
}
