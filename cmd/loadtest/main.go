package main

import (
	"context"
	"flag"
	"os"
	"runtime"
	"time"

	"github.com/okian/optiwork/internal/loadtest"
)

// Default configuration constants.
const (
	defaultNumTasks      = 500
	defaultWorkers       = 2 // multiplier for runtime.NumCPU()
	defaultCompleteEvery = 3
	defaultDeleteEvery   = 5
	defaultTimeout       = 10 * time.Second
	defaultTestTimeout   = 10 * time.Minute
)

func main() {
	var (
		baseURL       = flag.String("url", "http://localhost:8000", "Base URL of the service")
		numTasks      = flag.Int("tasks", defaultNumTasks, "Number of tasks to create")
		workers       = flag.Int("workers", runtime.NumCPU()*defaultWorkers, "Number of concurrent workers")
		completeEvery = flag.Int("complete", defaultCompleteEvery, "Mark every Nth task completed (0 disables)")
		deleteEvery   = flag.Int("delete", defaultDeleteEvery, "Delete every Nth task (0 disables)")
		reset         = flag.Bool("reset", true, "Reset the data afterwards and verify the baseline")
		timeout       = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		outputFile    = flag.String("output", "", "Output file for generated tasks")
		logFile       = flag.String("log", "", "Log file for test output (default: loadtest_TIMESTAMP.log)")
		verbose       = flag.Bool("verbose", false, "Enable verbose logging")
		help          = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		loadtest.ShowHelp()
		return
	}

	closer, err := loadtest.SetupLogging(*logFile)
	if err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultTestTimeout)

	config := &loadtest.Config{
		BaseURL:       *baseURL,
		NumTasks:      *numTasks,
		Workers:       *workers,
		Timeout:       *timeout,
		CompleteEvery: *completeEvery,
		DeleteEvery:   *deleteEvery,
		Reset:         *reset,
		OutputFile:    *outputFile,
		LogFile:       *logFile,
		Verbose:       *verbose,
	}

	err = loadtest.Run(ctx, config)
	cancel()
	_ = closer.Close()
	if err != nil {
		os.Stderr.WriteString("Test failed: " + err.Error() + "\n")
		os.Exit(1)
	}
}
