package loadtest

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/okian/optiwork/pkg/logger"
)

// errInconsistent marks a final state that does not match what was sent.
var errInconsistent = errors.New("inconsistent task list")

// verifyTasks checks the server's task list against the requests that
// succeeded: every surviving task appears exactly once with the expected
// status, deleted tasks are gone and the total adds up.
func verifyTasks(ctx context.Context, client *HTTPClient, tasks []created, stats *Stats) error {
	logger.Get().Info(ctx, "verifying task list")

	var list []map[string]any
	if err := client.do(ctx, http.MethodGet, "/tasks", nil, &list, http.StatusOK); err != nil {
		return err
	}

	ids := make(map[string]bool, len(list))
	byRef := make(map[string]map[string]any, len(tasks))
	for _, rec := range list {
		id, _ := rec["id"].(string)
		if ids[id] {
			return fmt.Errorf("%w: duplicate id %q", errInconsistent, id)
		}
		ids[id] = true
		if ref, ok := rec["ref"].(string); ok {
			byRef[ref] = rec
		}
	}

	for _, t := range tasks {
		if t.ID == "" {
			continue
		}
		rec, present := byRef[t.Ref]
		if t.Deleted {
			if present {
				return fmt.Errorf("%w: deleted task %s still listed", errInconsistent, t.ID)
			}
			continue
		}
		if !present {
			return fmt.Errorf("%w: task %s missing", errInconsistent, t.ID)
		}
		if err := checkTask(t, rec); err != nil {
			return err
		}
	}

	want := stats.BaselineTasks + stats.TasksCreated - stats.TasksDeleted
	if len(list) != want {
		return fmt.Errorf("%w: %d tasks listed, want %d", errInconsistent, len(list), want)
	}

	logger.Get().Info(ctx, "task list verified", logger.Int("tasks", len(list)))
	return nil
}

func checkTask(t created, rec map[string]any) error {
	if rec["id"] != t.ID {
		return fmt.Errorf("%w: task %s listed with id %v", errInconsistent, t.ID, rec["id"])
	}
	status, _ := rec["status"].(string)
	completedAt, _ := rec["completedAt"].(string)
	switch {
	case t.Completed && (status != statusCompleted || completedAt == ""):
		return fmt.Errorf("%w: task %s should be completed with a timestamp, got status %q completedAt %v",
			errInconsistent, t.ID, status, rec["completedAt"])
	case !t.Completed && status != "pending":
		return fmt.Errorf("%w: task %s should be pending, got %q", errInconsistent, t.ID, status)
	}
	return nil
}

// verifyReset resets the server and checks the task count is back at the
// baseline.
func verifyReset(ctx context.Context, client *HTTPClient, stats *Stats) error {
	logger.Get().Info(ctx, "resetting data")

	if err := client.do(ctx, http.MethodPost, "/reset", nil, nil, http.StatusOK); err != nil {
		return err
	}
	h, err := fetchHealth(ctx, client)
	if err != nil {
		return err
	}
	if got := h.DataCounts["tasks"]; got != stats.BaselineTasks {
		return fmt.Errorf("%w: %d tasks after reset, want %d", errInconsistent, got, stats.BaselineTasks)
	}

	logger.Get().Info(ctx, "reset verified", logger.Int("tasks", stats.BaselineTasks))
	return nil
}
