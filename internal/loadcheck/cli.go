package loadcheck

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/okian/bfhl/pkg/logger"
)

// File permission constants.
const (
	logFilePermission = 0600
)

// SetupLogging sends logs to stdout and to logFile.
// If logFile is empty, a timestamped filename is generated.
func SetupLogging(logFile string) error {
	if logFile == "" {
		logFile = "loadcheck_" + time.Now().Format("20060102_150405") + ".log"
	}

	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermission)
	if err != nil {
		return fmt.Errorf("failed to create log file: %w", err)
	}

	if err := logger.Init(logger.WithOutput(io.MultiWriter(os.Stdout, file))); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	return nil
}

// ShowHelp prints usage information for the load check tool.
func ShowHelp() {
	os.Stdout.WriteString(`BFHL Load Check
===============

Sends generated /bfhl requests concurrently and checks every response
against a locally computed expectation.

Usage:
  go run ./cmd/loadcheck [options]

Options:
  -url string
        Base URL of the service (default "http://localhost:3001")
  -requests int
        Number of requests to generate and submit (default 2000)
  -workers int
        Number of concurrent workers (default CPU cores * 2)
  -timeout duration
        HTTP request timeout (default 30s)
  -ai
        Include AI prompts; the server needs GEMINI_API_KEY
  -output string
        JSON report of failed cases (default: none)
  -log string
        Log file (default: loadcheck_TIMESTAMP.log)
  -verbose
        Log every failed case
  -help
        Show this help message

Examples:
  go run ./cmd/loadcheck -requests 10000 -workers 32
  go run ./cmd/loadcheck -url https://bfhl.example.com -ai -output failures.json
`)
}
