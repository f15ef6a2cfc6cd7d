package loadtest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/optiwork/pkg/logger"
)

// HTTPClient wraps http.Client with a per-request timeout and JSON helpers.
type HTTPClient struct {
	client  *http.Client
	baseURL string
}

// newHTTPClient creates a new HTTP client with timeout.
func newHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		client:  &http.Client{Timeout: timeout},
		baseURL: baseURL,
	}
}

// do sends a request with an optional JSON body and decodes a JSON response
// into out when out is non-nil. Any status other than want is an error.
func (c *HTTPClient) do(ctx context.Context, method, path string, body, out any, want int) error {
	var reader io.Reader = http.NoBody
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != want {
		return fmt.Errorf("%s %s: unexpected status %d: %s", method, path, resp.StatusCode, bytes.TrimSpace(data))
	}
	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("%s %s: decode response: %w", method, path, err)
		}
	}
	return nil
}

// fanOut runs fn for every index in [0, n) on config.Workers goroutines and
// returns how many calls failed.
func fanOut(ctx context.Context, config *Config, n int, label string, fn func(i int) error) int {
	jobs := make(chan int, config.Workers*WorkerChannelMultiplier)
	var (
		wg     sync.WaitGroup
		failed int64
		done   int64
	)

	for w := 0; w < config.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				if err := fn(i); err != nil {
					atomic.AddInt64(&failed, 1)
					if config.Verbose {
						logger.Get().Warn(ctx, label+" failed", logger.Int("index", i), logger.Error(err))
					}
				}
				atomic.AddInt64(&done, 1)
			}
		}()
	}

	go func() {
		defer close(jobs)
		for i := 0; i < n; i++ {
			select {
			case <-ctx.Done():
				return
			case jobs <- i:
			}
		}
	}()

	wg.Wait()
	logger.Get().Info(ctx, label+" completed",
		logger.Int("done", int(atomic.LoadInt64(&done))),
		logger.Int("failed", int(atomic.LoadInt64(&failed))))
	return int(atomic.LoadInt64(&failed))
}

// submitTasks creates every task concurrently and records the assigned ids.
// Entries whose request failed keep an empty ID.
func submitTasks(ctx context.Context, config *Config, client *HTTPClient, tasks []Task, stats *Stats) []created {
	logger.Get().Info(ctx, "submitting tasks", logger.Int("count", len(tasks)), logger.Int("workers", config.Workers))

	results := make([]created, len(tasks))
	failed := fanOut(ctx, config, len(tasks), "task submission", func(i int) error {
		var resp map[string]any
		if err := client.do(ctx, http.MethodPost, "/tasks", tasks[i], &resp, http.StatusOK); err != nil {
			return err
		}
		id, ok := resp["id"].(string)
		if !ok || id == "" {
			return fmt.Errorf("created task has no id")
		}
		results[i] = created{Task: tasks[i], ID: id}
		return nil
	})

	stats.TasksCreated = len(tasks) - failed
	stats.RequestsFailed += failed
	return results
}

// mutateTasks completes and deletes a deterministic subset of the created
// tasks. A task selected for both is completed first, then deleted.
func mutateTasks(ctx context.Context, config *Config, client *HTTPClient, tasks []created, stats *Stats) {
	var completed, deleted int64

	failed := fanOut(ctx, config, len(tasks), "task mutation", func(i int) error {
		t := &tasks[i]
		if t.ID == "" {
			return nil
		}
		n := i + 1
		if config.CompleteEvery > 0 && n%config.CompleteEvery == 0 {
			if err := client.do(ctx, http.MethodPatch, "/tasks/"+t.ID, map[string]string{"status": statusCompleted}, nil, http.StatusOK); err != nil {
				return err
			}
			t.Completed = true
			atomic.AddInt64(&completed, 1)
		}
		if config.DeleteEvery > 0 && n%config.DeleteEvery == 0 {
			if err := client.do(ctx, http.MethodDelete, "/tasks/"+t.ID, nil, nil, http.StatusOK); err != nil {
				return err
			}
			t.Deleted = true
			atomic.AddInt64(&deleted, 1)
		}
		return nil
	})

	stats.TasksCompleted = int(completed)
	stats.TasksDeleted = int(deleted)
	stats.RequestsFailed += failed
}
