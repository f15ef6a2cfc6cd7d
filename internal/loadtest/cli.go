package loadtest

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/okian/optiwork/pkg/logger"
)

// File permission constants.
const (
	logFilePermission = 0600
)

// SetupLogging sends log output to both stdout and a file.
// If logFile is empty, a timestamped filename is generated.
func SetupLogging(logFile string) (io.Closer, error) {
	if err := logger.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	if logFile == "" {
		timestamp := time.Now().Format("20060102_150405")
		logFile = "loadtest_" + timestamp + ".log"
	}

	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermission)
	if err != nil {
		return nil, fmt.Errorf("failed to create log file: %w", err)
	}

	logger.SetOutput(io.MultiWriter(os.Stdout, file))
	logger.Get().Info(context.Background(), "logging to file", logger.String("logFile", logFile))
	return file, nil
}

// ShowHelp prints usage information for the load test tool.
func ShowHelp() {
	os.Stdout.WriteString(`Optiwork Load Test
==================

Drives concurrent task traffic against a running Optiwork API and checks
that the final task list is consistent.

Usage:
  go run ./cmd/loadtest [options]

Options:
  -url string
        Base URL of the service (default "http://localhost:8000")
  -tasks int
        Number of tasks to create (default 500)
  -workers int
        Number of concurrent workers (default CPU cores * 2)
  -complete int
        Mark every Nth task completed, 0 disables (default 3)
  -delete int
        Delete every Nth task, 0 disables (default 5)
  -reset
        Reset the data afterwards and verify the baseline (default true)
  -timeout duration
        HTTP request timeout (default 10s)
  -output string
        Output file for generated tasks (default: generated_tasks_TIMESTAMP.json)
  -log string
        Log file for test output (default: loadtest_TIMESTAMP.log)
  -verbose
        Enable verbose logging
  -help
        Show this help message

Examples:
  # Test with default settings
  go run ./cmd/loadtest

  # Heavier run against another host, keeping the created data
  go run ./cmd/loadtest -tasks 5000 -workers 32 -reset=false -url http://staging:8000
`)
}
