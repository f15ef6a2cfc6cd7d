package loadtest

import "time"

// Config holds configuration for a load test run.
type Config struct {
	BaseURL       string        // Base URL of the service
	NumTasks      int           // Number of tasks to create
	Workers       int           // Number of concurrent workers
	Timeout       time.Duration // HTTP request timeout
	CompleteEvery int           // Mark every Nth created task completed (0 disables)
	DeleteEvery   int           // Delete every Nth created task (0 disables)
	Reset         bool          // POST /reset at the end and verify the baseline
	OutputFile    string        // Output file for the generated tasks
	LogFile       string        // Log file for test output
	Verbose       bool          // Enable verbose logging
}

// Task is the body submitted to POST /tasks. Ref is a client-side marker
// used to find the task again after the server assigns its id.
type Task struct {
	Ref            string   `json:"ref"`
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	AssignedTo     string   `json:"assignedTo"`
	AssignedBy     string   `json:"assignedBy"`
	Priority       string   `json:"priority"`
	DueDate        string   `json:"dueDate"`
	RequiredSkills []string `json:"requiredSkills"`
}

// created pairs a generated task with the id the server assigned.
type created struct {
	Task
	ID        string
	Completed bool
	Deleted   bool
}

// health is the subset of GET /health the runner reads.
type health struct {
	Status     string         `json:"status"`
	DataCounts map[string]int `json:"data_counts"`
}

// Stats holds test statistics.
type Stats struct {
	BaselineTasks  int
	TasksGenerated int
	TasksCreated   int
	TasksCompleted int
	TasksDeleted   int
	RequestsFailed int
	StartTime      time.Time
	EndTime        time.Time
	Duration       time.Duration
}
