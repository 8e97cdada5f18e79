// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults and Load(ctx) to layer sources on top.
// - External errors are wrapped with this package's sentinel kinds.
package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/okian/bfhl/internal/adapters/genai"
)

// DefaultOfficialEmail is the identity constant stamped on every response.
const DefaultOfficialEmail = "anushka0122.be23@chitkara.edu.in"

// DefaultMaxFibonacciTerms bounds the fibonacci count when nothing overrides it.
const DefaultMaxFibonacciTerms = 1000

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`
	// LogFormat selects the log handler: text or json.
	LogFormat string `koanf:"log_format"`
	// Port is the HTTP listen port.
	Port int `koanf:"port"`
	// OfficialEmail is returned as official_email on every response.
	OfficialEmail string `koanf:"official_email"`

	// GeminiAPIKey enables the AI operation. Empty disables it.
	GeminiAPIKey string `koanf:"gemini_api_key"`
	// GeminiBaseURL and GeminiModel select the generateContent endpoint.
	GeminiBaseURL string `koanf:"gemini_base_url"`
	GeminiModel   string `koanf:"gemini_model"`
	// AITimeout bounds provider calls; zero means no client-side limit.
	AITimeout time.Duration `koanf:"ai_timeout"`

	// MaxFibonacciTerms caps the fibonacci operation and must be positive.
	MaxFibonacciTerms int `koanf:"max_fibonacci_terms"`
	// CORSAllowedOrigins lists origins allowed by the CORS layer.
	CORSAllowedOrigins []string `koanf:"cors_allowed_origins"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:           "info",
		LogFormat:          "text",
		Port:               3001,
		OfficialEmail:      DefaultOfficialEmail,
		GeminiBaseURL:      genai.DefaultBaseURL,
		GeminiModel:        genai.DefaultModel,
		MaxFibonacciTerms:  DefaultMaxFibonacciTerms,
		CORSAllowedOrigins: []string{"*"},
	}
}

// Addr returns the listen address for Port.
func (c *Config) Addr() string {
	return ":" + strconv.Itoa(c.Port)
}

// Validate checks invariants that defaults cannot guarantee once overridden.
func (c *Config) Validate() error {
	switch {
	case c.Port <= 0 || c.Port > 65535:
		return fmt.Errorf("%w: port %d out of range", ErrInvalidConfig, c.Port)
	case strings.TrimSpace(c.OfficialEmail) == "":
		return fmt.Errorf("%w: official_email must not be empty", ErrInvalidConfig)
	case c.AITimeout < 0:
		return fmt.Errorf("%w: ai_timeout must not be negative", ErrInvalidConfig)
	case c.MaxFibonacciTerms <= 0:
		return fmt.Errorf("%w: max_fibonacci_terms must be positive", ErrInvalidConfig)
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		return fmt.Errorf("%w: unknown log_format %q", ErrInvalidConfig, c.LogFormat)
	}
	return nil
}
