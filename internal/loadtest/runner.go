// Package loadtest drives concurrent task traffic against a running API and
// verifies the resulting state.
package loadtest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/okian/optiwork/pkg/logger"
)

// File permission constants.
const (
	directoryPermission = 0750
	outputPermission    = 0600
)

var errInvalidConfig = errors.New("invalid load test config")

// Run executes the complete load test.
func Run(ctx context.Context, config *Config) error {
	if config.NumTasks <= 0 || config.Workers <= 0 {
		return fmt.Errorf("%w: tasks and workers must be positive", errInvalidConfig)
	}

	stats := &Stats{
		StartTime: time.Now(),
	}

	logger.Get().Info(ctx, "starting optiwork load test",
		logger.String("baseURL", config.BaseURL),
		logger.Int("tasks", config.NumTasks),
		logger.Int("workers", config.Workers),
		logger.String("timeout", config.Timeout.String()),
		logger.Int("completeEvery", config.CompleteEvery),
		logger.Int("deleteEvery", config.DeleteEvery),
		logger.Any("reset", config.Reset))

	client := newHTTPClient(config.BaseURL, config.Timeout)

	// Step 1: Check service health and record the baseline
	if err := checkServiceHealth(ctx, client, stats); err != nil {
		return fmt.Errorf("service health check failed: %w", err)
	}

	// Step 2: Generate tasks
	tasks, err := generateTasks(ctx, config, stats)
	if err != nil {
		return fmt.Errorf("task generation failed: %w", err)
	}

	// Step 3: Create tasks concurrently
	results := submitTasks(ctx, config, client, tasks, stats)

	// Step 4: Complete and delete a subset concurrently
	mutateTasks(ctx, config, client, results, stats)

	// Step 5: Verify the final task list
	if err := verifyTasks(ctx, client, results, stats); err != nil {
		return fmt.Errorf("result verification failed: %w", err)
	}

	// Step 6: Reset and verify the baseline
	if config.Reset {
		if err := verifyReset(ctx, client, stats); err != nil {
			return fmt.Errorf("reset verification failed: %w", err)
		}
	}

	// Step 7: Save tasks to file
	if config.OutputFile != "" {
		if err := saveTasksToFile(ctx, config.OutputFile, results); err != nil {
			logger.Get().Warn(ctx, "failed to save tasks to file", logger.Error(err))
		}
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	displayFinalStats(ctx, stats)

	if stats.RequestsFailed > 0 {
		return fmt.Errorf("%d requests failed", stats.RequestsFailed)
	}

	logger.Get().Info(ctx, "test completed successfully")
	return nil
}

func fetchHealth(ctx context.Context, client *HTTPClient) (health, error) {
	var h health
	if err := client.do(ctx, http.MethodGet, "/health", nil, &h, http.StatusOK); err != nil {
		return health{}, err
	}
	return h, nil
}

// checkServiceHealth verifies the service is running.
func checkServiceHealth(ctx context.Context, client *HTTPClient, stats *Stats) error {
	logger.Get().Info(ctx, "checking service health")

	h, err := fetchHealth(ctx, client)
	if err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	if h.Status != "healthy" {
		return fmt.Errorf("service reports status %q", h.Status)
	}
	stats.BaselineTasks = h.DataCounts["tasks"]

	logger.Get().Info(ctx, "service is healthy", logger.Int("tasks", stats.BaselineTasks))
	return nil
}

// saveTasksToFile writes the created tasks with their server ids as JSON.
func saveTasksToFile(ctx context.Context, filename string, tasks []created) error {
	if len(tasks) == 0 {
		return fmt.Errorf("no tasks to save")
	}

	if dir := filepath.Dir(filename); dir != "." {
		if err := os.MkdirAll(dir, directoryPermission); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	type savedTask struct {
		ID string `json:"id"`
		Task
		Completed bool `json:"completed"`
		Deleted   bool `json:"deleted"`
	}
	out := make([]savedTask, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, savedTask{ID: t.ID, Task: t.Task, Completed: t.Completed, Deleted: t.Deleted})
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal tasks: %w", err)
	}
	if err := os.WriteFile(filename, data, outputPermission); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	logger.Get().Info(ctx, "tasks saved to file", logger.String("filename", filename))
	return nil
}

// displayFinalStats logs the final test statistics.
func displayFinalStats(ctx context.Context, stats *Stats) {
	var successRate, requestsPerSecond float64

	requests := stats.TasksGenerated + stats.TasksCompleted + stats.TasksDeleted
	if requests > 0 {
		successRate = float64(requests-stats.RequestsFailed) / float64(requests) * PercentageMultiplier
	}
	if stats.Duration > 0 {
		requestsPerSecond = float64(requests) / stats.Duration.Seconds()
	}

	logger.Get().Info(ctx, "final statistics",
		logger.Int("baselineTasks", stats.BaselineTasks),
		logger.Int("tasksGenerated", stats.TasksGenerated),
		logger.Int("tasksCreated", stats.TasksCreated),
		logger.Int("tasksCompleted", stats.TasksCompleted),
		logger.Int("tasksDeleted", stats.TasksDeleted),
		logger.Int("requestsFailed", stats.RequestsFailed),
		logger.String("duration", stats.Duration.String()),
		logger.Float64("successRate", successRate),
		logger.Float64("requestsPerSecond", requestsPerSecond))
}
