package config_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/okian/bfhl/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()
		clearConfigEnvVars()
		defer clearConfigEnvVars()

		convey.Convey("When loading config with defaults only", func() {
			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Port, convey.ShouldEqual, 3001)
				convey.So(cfg.Addr(), convey.ShouldEqual, ":3001")
				convey.So(cfg.OfficialEmail, convey.ShouldEqual, config.DefaultOfficialEmail)
				convey.So(cfg.GeminiAPIKey, convey.ShouldEqual, "")
				convey.So(cfg.AITimeout, convey.ShouldEqual, time.Duration(0))
				convey.So(cfg.MaxFibonacciTerms, convey.ShouldEqual, 1000)
				convey.So(cfg.CORSAllowedOrigins, convey.ShouldResemble, []string{"*"})
			})
		})

		convey.Convey("When the unprefixed PORT and GEMINI_API_KEY are set", func() {
			_ = os.Setenv("PORT", "8080")
			_ = os.Setenv("GEMINI_API_KEY", "plain-key")

			cfg, err := config.Load(ctx)

			convey.Convey("Then they are picked up", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Port, convey.ShouldEqual, 8080)
				convey.So(cfg.GeminiAPIKey, convey.ShouldEqual, "plain-key")
			})
		})

		convey.Convey("When prefixed env vars are set", func() {
			_ = os.Setenv("PORT", "8080")
			_ = os.Setenv("BFHL_PORT", "9090")
			_ = os.Setenv("BFHL_LOG_LEVEL", "debug")
			_ = os.Setenv("BFHL_AI_TIMEOUT", "2s")
			_ = os.Setenv("BFHL_MAX_FIBONACCI_TERMS", "500")
			_ = os.Setenv("BFHL_CORS_ALLOWED_ORIGINS", "https://a.example,https://b.example")

			cfg, err := config.Load(ctx)

			convey.Convey("Then they override defaults and the unprefixed form", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Port, convey.ShouldEqual, 9090)
				convey.So(cfg.LogLevel, convey.ShouldEqual, "debug")
				convey.So(cfg.AITimeout, convey.ShouldEqual, 2*time.Second)
				convey.So(cfg.MaxFibonacciTerms, convey.ShouldEqual, 500)
				convey.So(cfg.CORSAllowedOrigins, convey.ShouldResemble, []string{"https://a.example", "https://b.example"})
			})
		})

		convey.Convey("When loading config with YAML file", func() {
			tmpFile := createTempFile(t, "config.yaml", `
# comments are fine
port: 4000
log_format: json
official_email: someone@example.com
gemini_model: gemini-test
ai_timeout: 1500ms
`)
			_ = os.Setenv("BFHL_CONFIG", tmpFile)
			_ = os.Setenv("BFHL_GEMINI_MODEL", "gemini-env")

			cfg, err := config.Load(ctx)

			convey.Convey("Then file values apply and env still wins", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Port, convey.ShouldEqual, 4000)
				convey.So(cfg.LogFormat, convey.ShouldEqual, "json")
				convey.So(cfg.OfficialEmail, convey.ShouldEqual, "someone@example.com")
				convey.So(cfg.AITimeout, convey.ShouldEqual, 1500*time.Millisecond)
				convey.So(cfg.GeminiModel, convey.ShouldEqual, "gemini-env")
				convey.So(cfg.LogLevel, convey.ShouldEqual, "info") // From defaults
			})
		})

		convey.Convey("When the YAML file does not exist", func() {
			_ = os.Setenv("BFHL_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))

			cfg, err := config.Load(ctx)

			convey.Convey("Then ErrLoadConfig is returned", func() {
				convey.So(cfg, convey.ShouldBeNil)
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When a dotenv file is provided", func() {
			envFile := createTempFile(t, ".env", "GEMINI_API_KEY=from-dotenv\nPORT=5000\n")
			_ = os.Setenv("BFHL_ENV_FILE", envFile)
			_ = os.Setenv("PORT", "6000")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it fills gaps without overriding the environment", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.GeminiAPIKey, convey.ShouldEqual, "from-dotenv")
				convey.So(cfg.Port, convey.ShouldEqual, 6000)
			})
		})

		convey.Convey("When the named dotenv file does not exist", func() {
			_ = os.Setenv("BFHL_ENV_FILE", filepath.Join(t.TempDir(), "nope.env"))

			_, err := config.Load(ctx)

			convey.Convey("Then ErrLoadConfig is returned", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When a numeric value cannot be parsed", func() {
			_ = os.Setenv("BFHL_PORT", "not_a_number")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When a value fails validation", func() {
			_ = os.Setenv("BFHL_PORT", "70000")

			cfg, err := config.Load(ctx)

			convey.Convey("Then ErrInvalidConfig is returned", func() {
				convey.So(cfg, convey.ShouldBeNil)
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		})
	})
}

// Helper functions.

func clearConfigEnvVars() {
	envVars := []string{
		"BFHL_CONFIG",
		"BFHL_ENV_FILE",
		"BFHL_PORT",
		"BFHL_LOG_LEVEL",
		"BFHL_LOG_FORMAT",
		"BFHL_OFFICIAL_EMAIL",
		"BFHL_GEMINI_API_KEY",
		"BFHL_GEMINI_BASE_URL",
		"BFHL_GEMINI_MODEL",
		"BFHL_AI_TIMEOUT",
		"BFHL_MAX_FIBONACCI_TERMS",
		"BFHL_CORS_ALLOWED_ORIGINS",
		"PORT",
		"GEMINI_API_KEY",
	}
	for _, envVar := range envVars {
		_ = os.Unsetenv(envVar)
	}
}

func createTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}
