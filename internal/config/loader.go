package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/subosito/gotenv"
)

// Environment variables read by Load besides the BFHL_ prefixed keys.
const (
	EnvPrefix     = "BFHL_"
	EnvConfigFile = "BFHL_CONFIG"
	EnvDotEnvFile = "BFHL_ENV_FILE"

	defaultDotEnvFile = ".env"
)

// bareEnvKeys maps unprefixed variables, as used by common PaaS hosts, onto config keys.
var bareEnvKeys = map[string]string{
	"PORT":           "port",
	"GEMINI_API_KEY": "gemini_api_key",
}

// Load builds a Config by layering, from low to high precedence:
//  1. defaults (New())
//  2. dotenv file ($BFHL_ENV_FILE, else ./.env) exported into the environment
//     without overriding variables already set
//  3. YAML file if $BFHL_CONFIG is set
//  4. unprefixed PORT and GEMINI_API_KEY
//  5. BFHL_* env vars, e.g. BFHL_PORT, BFHL_LOG_LEVEL
func Load(_ context.Context) (*Config, error) {
	base := New()
	k := koanf.New(".")

	if err := loadDotEnv(); err != nil {
		return nil, err
	}

	if path := os.Getenv(EnvConfigFile); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrLoadConfig, path, err)
		}
	}

	bare := env.Provider("", ".", func(s string) string {
		return bareEnvKeys[s]
	})
	if err := k.Load(bare, nil); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	// BFHL_MAX_FIBONACCI_TERMS -> max_fibonacci_terms; underscores are kept
	// to match the flat koanf tags on the struct.
	prefixed := env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	})
	if err := k.Load(prefixed, nil); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// loadDotEnv exports the dotenv file. A missing default file is not an error;
// a missing file named explicitly through BFHL_ENV_FILE is.
func loadDotEnv() error {
	path, explicit := os.LookupEnv(EnvDotEnvFile)
	if !explicit || path == "" {
		path, explicit = defaultDotEnvFile, false
	}
	err := gotenv.Load(path)
	switch {
	case err == nil:
		return nil
	case !explicit && errors.Is(err, fs.ErrNotExist):
		return nil
	default:
		return fmt.Errorf("%w: %s: %v", ErrLoadConfig, path, err)
	}
}
