package loadtest

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/okian/optiwork/pkg/logger"
)

// Values drawn from the fixture data so generated tasks look like the
// seeded ones.
var (
	priorities = []string{"low", "medium", "high"}
	assignees  = []string{"1", "2", "3", "5", "6", "7"}
	managers   = []string{"4", "admin"}
	areas      = []string{"Line A", "Line B", "Assembly", "Warehouse", "Paint Shop"}
	activities = []string{"Machine Setup", "Quality Check", "Inventory Count", "Maintenance", "Safety Audit"}
)

const (
	maxSkillsPerTask = 3
	skillCount       = 8
	dueWithinDays    = 14
)

// randomIndex returns a uniform index in [0, n) using crypto/rand.
func randomIndex(n int) int {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0
	}
	return int(v.Int64())
}

func pick(values []string) string {
	return values[randomIndex(len(values))]
}

// generateTasks builds config.NumTasks task bodies, each with a unique ref.
func generateTasks(ctx context.Context, config *Config, stats *Stats) ([]Task, error) {
	logger.Get().Info(ctx, "generating tasks", logger.Int("numTasks", config.NumTasks))

	tasks := make([]Task, 0, config.NumTasks)
	for i := 0; i < config.NumTasks; i++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("context cancelled during task generation: %w", err)
		}
		tasks = append(tasks, generateSingleTask(i))
	}

	stats.TasksGenerated = len(tasks)
	logger.Get().Info(ctx, "generated tasks successfully", logger.Int("count", len(tasks)))
	return tasks, nil
}

// generateSingleTask creates one task body.
func generateSingleTask(index int) Task {
	activity := pick(activities)
	area := pick(areas)

	skills := make([]string, 0, maxSkillsPerTask)
	seen := make(map[int]bool, maxSkillsPerTask)
	for n := 1 + randomIndex(maxSkillsPerTask); len(skills) < n; {
		s := 1 + randomIndex(skillCount)
		if seen[s] {
			continue
		}
		seen[s] = true
		skills = append(skills, "skill-"+strconv.Itoa(s))
	}

	due := time.Now().UTC().AddDate(0, 0, 1+randomIndex(dueWithinDays))

	return Task{
		Ref:            uuid.NewString(),
		Title:          activity + " - " + area,
		Description:    "Load test task #" + strconv.Itoa(index),
		AssignedTo:     pick(assignees),
		AssignedBy:     pick(managers),
		Priority:       pick(priorities),
		DueDate:        due.Format(time.DateOnly),
		RequiredSkills: skills,
	}
}
