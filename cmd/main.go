package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"runtime"
	"time"

	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/okian/bfhl/internal/adapters/genai"
	"github.com/okian/bfhl/internal/adapters/http/api"
	"github.com/okian/bfhl/internal/adapters/http/swagger"
	service "github.com/okian/bfhl/internal/app"
	"github.com/okian/bfhl/internal/config"
	"github.com/okian/bfhl/pkg/logger"
	"github.com/okian/bfhl/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout               = 10 * time.Second
	writeTimeout              = 60 * time.Second // covers the AI round trip
	idleTimeout               = 60 * time.Second
	readHeaderTimeout         = 5 * time.Second
	shutdownTimeout           = 30 * time.Second
	systemMetricsInterval     = 10 * time.Second
	nanosecondsPerMillisecond = 1e6
)

func main() {
	os.Exit(run())
}

func run() int {
	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return 1
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Load configuration (defaults -> .env -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		logger.Get().Error(ctx, "failed to load config", logger.Error(err))
		return 1
	}

	if err := logger.Init(logger.WithFormat(cfg.LogFormat)); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return 1
	}
	defer func() { _ = logger.Sync() }()
	log := logger.Named("main")

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	handler := newHandler(ctx, cfg)

	// Bind before serving so a busy port fails startup instead of a goroutine.
	ln, err := net.Listen("tcp", cfg.Addr())
	if err != nil {
		log.Error(ctx, "failed to listen", logger.String("addr", cfg.Addr()), logger.Error(err))
		return 1
	}

	srv := &http.Server{
		Handler:           handler,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", ln.Addr().String()))
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error(ctx, "HTTP server failed", logger.Error(err))
		}
	}()

	go startSystemMetricsUpdater(ctx)

	wait := gfshutdown.GracefulShutdown(context.Background(), shutdownTimeout, map[string]gfshutdown.Operation{
		"http-server": func(ctx context.Context) error {
			log.Info(ctx, "shutting down server...")
			return srv.Shutdown(ctx)
		},
		"metrics-updater": func(context.Context) error {
			cancel()
			return nil
		},
	})

	code := <-wait
	log.Info(context.Background(), "server stopped", logger.Int("exit_code", code))
	return code
}

// newHandler builds the full HTTP stack for cfg: routes, request IDs, CORS.
func newHandler(ctx context.Context, cfg *config.Config) http.Handler {
	generator := genai.New(cfg.GeminiAPIKey,
		genai.WithBaseURL(cfg.GeminiBaseURL),
		genai.WithModel(cfg.GeminiModel),
		genai.WithTimeout(cfg.AITimeout),
		genai.WithLogger(logger.Named("genai")),
	)
	if !generator.Configured() {
		logger.Named("main").Warn(ctx, "GEMINI_API_KEY is not set; the AI operation will reject requests")
	}

	svc := service.New(
		service.WithGenerator(generator),
		service.WithMaxFibonacciTerms(cfg.MaxFibonacciTerms),
		service.WithLogger(logger.Named("service")),
	)

	mux := http.NewServeMux()
	swagger.Register(ctx, mux)
	api.NewServer(svc,
		api.WithOfficialEmail(cfg.OfficialEmail),
		api.WithLogger(logger.Named("api")),
	).Register(ctx, mux)

	return api.CORS(api.RequestID(mux), cfg.CORSAllowedOrigins)
}

// startSystemMetricsUpdater starts a background goroutine that updates system metrics.
func startSystemMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(systemMetricsInterval)
	defer ticker.Stop()

	updateSystemMetrics()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateSystemMetrics()
		}
	}
}

// updateSystemMetrics updates system-level metrics.
func updateSystemMetrics() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	metrics.UpdateSystemMemoryUsage(m.Alloc)
	metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())

	if m.NumGC > 0 {
		avgPauseMs := float64(m.PauseTotalNs) / float64(m.NumGC) / nanosecondsPerMillisecond
		metrics.RecordSystemGCPauseTime(avgPauseMs)
	}
}
