package loadcheck

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/okian/bfhl/pkg/logger"
)

// File permission constants.
const (
	directoryPermission = 0750
	reportPermission    = 0600
)

// ErrCasesFailed is returned by Run when at least one case did not match.
var ErrCasesFailed = errors.New("load check cases failed")

// Run executes the complete load check and returns the collected statistics.
func Run(ctx context.Context, config *Config) (*Stats, error) {
	stats := &Stats{StartTime: time.Now(), ByKind: map[string]int{}}
	log := logger.Get()

	log.Info(ctx, "starting bfhl load check",
		logger.String("baseURL", config.BaseURL),
		logger.Int("requests", config.NumRequests),
		logger.Int("workers", config.Workers),
		logger.Duration("timeout", config.Timeout),
		logger.Bool("includeAI", config.IncludeAI))

	if config.NumRequests <= 0 || config.Workers <= 0 {
		return stats, fmt.Errorf("requests and workers must be positive")
	}

	// Step 1: Check service health
	if err := checkServiceHealth(ctx, config); err != nil {
		return stats, fmt.Errorf("service health check failed: %w", err)
	}

	// Step 2: Generate cases
	cases, err := generateCases(ctx, config, stats)
	if err != nil {
		return stats, fmt.Errorf("case generation failed: %w", err)
	}
	for _, c := range cases {
		stats.ByKind[c.Kind]++
	}

	// Step 3: Submit and verify
	failures := submitCases(ctx, config, cases, stats)

	// Step 4: Report failures
	if config.OutputFile != "" && len(failures) > 0 {
		if err := saveFailures(ctx, config.OutputFile, failures); err != nil {
			log.Warn(ctx, "failed to save report", logger.Error(err))
		}
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	displayFinalStats(ctx, stats)

	if len(failures) > 0 {
		return stats, fmt.Errorf("%w: %d of %d", ErrCasesFailed, len(failures), stats.Submitted)
	}
	if err := ctx.Err(); err != nil {
		return stats, fmt.Errorf("load check interrupted: %w", err)
	}
	log.Info(ctx, "load check completed successfully")
	return stats, nil
}

// checkServiceHealth verifies the service answers /health with a success envelope.
func checkServiceHealth(ctx context.Context, config *Config) error {
	logger.Get().Info(ctx, "checking service health")

	resp, err := newHTTPClient(config.Timeout).Get(ctx, config.BaseURL+"/health")
	if err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != StatusOK {
		return fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}
	var env Envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("invalid health body: %w", err)
	}
	if !env.IsSuccess {
		return fmt.Errorf("health reported is_success false")
	}

	logger.Get().Info(ctx, "service is healthy", logger.String("official_email", env.OfficialEmail))
	return nil
}

// saveFailures writes failures as an indented JSON array.
func saveFailures(ctx context.Context, filename string, failures []Failure) error {
	if dir := filepath.Dir(filename); dir != "." {
		if err := os.MkdirAll(dir, directoryPermission); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	data, err := json.MarshalIndent(failures, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal failures: %w", err)
	}
	if err := os.WriteFile(filename, data, reportPermission); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	logger.Get().Info(ctx, "failures saved to file", logger.String("filename", filename))
	return nil
}

// displayFinalStats logs the final run statistics.
func displayFinalStats(ctx context.Context, stats *Stats) {
	var passRate, requestsPerSecond float64
	if stats.Submitted > 0 {
		passRate = float64(stats.Passed) / float64(stats.Submitted) * PercentageMultiplier
	}
	if stats.Duration > 0 {
		requestsPerSecond = float64(stats.Submitted) / stats.Duration.Seconds()
	}

	logger.Get().Info(ctx, "final statistics",
		logger.Int("casesGenerated", stats.CasesGenerated),
		logger.Int("submitted", stats.Submitted),
		logger.Int("passed", stats.Passed),
		logger.Int("failed", stats.Failed),
		logger.Any("byKind", stats.ByKind),
		logger.Duration("duration", stats.Duration),
		logger.Float64("passRate", passRate),
		logger.Float64("requestsPerSecond", requestsPerSecond))
}
