package main

import (
	"context"
	"flag"
	"os"
	"runtime"
	"time"

	"github.com/okian/bfhl/internal/loadcheck"
)

// Default configuration constants.
const (
	defaultNumRequests = 2000
	defaultWorkers     = 2 // multiplier for runtime.NumCPU()
	defaultTimeout     = 30 * time.Second
	defaultRunTimeout  = 10 * time.Minute
)

func main() {
	var (
		baseURL     = flag.String("url", "http://localhost:3001", "Base URL of the service")
		numRequests = flag.Int("requests", defaultNumRequests, "Number of requests to generate and submit")
		workers     = flag.Int("workers", runtime.NumCPU()*defaultWorkers, "Number of concurrent workers")
		timeout     = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		includeAI   = flag.Bool("ai", false, "Include AI prompts")
		outputFile  = flag.String("output", "", "JSON report of failed cases")
		logFile     = flag.String("log", "", "Log file (default: loadcheck_TIMESTAMP.log)")
		verbose     = flag.Bool("verbose", false, "Log every failed case")
		help        = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		loadcheck.ShowHelp()
		return
	}

	if err := loadcheck.SetupLogging(*logFile); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultRunTimeout)
	defer cancel()

	config := &loadcheck.Config{
		BaseURL:     *baseURL,
		NumRequests: *numRequests,
		Workers:     *workers,
		Timeout:     *timeout,
		IncludeAI:   *includeAI,
		OutputFile:  *outputFile,
		Verbose:     *verbose,
	}

	if _, err := loadcheck.Run(ctx, config); err != nil {
		os.Stderr.WriteString("Load check failed: " + err.Error() + "\n")
		cancel()
		os.Exit(1)
	}
}
