// Package repository holds the in-memory snapshot store: one mutable working
// copy per collection, seeded from fixtures and restorable to them.
package repository

import (
	"context"

	"github.com/okian/optiwork/internal/domain/fixtures"
	"github.com/okian/optiwork/internal/domain/model"
)

// Store provides read/write access to the working collections.
//
// Records returned by any method are deep copies; mutating them never
// changes the store.
type Store interface {
	// List returns the working collection c in insertion order.
	List(ctx context.Context, c model.Collection) ([]model.Record, error)

	// Get returns the first record of c whose identifier fields match id.
	// Returns ErrNotFound if none does.
	Get(ctx context.Context, c model.Collection, id string) (model.Record, error)

	// CreateTask appends a new task built from fields with a fresh id,
	// status "pending" and a null completedAt.
	CreateTask(ctx context.Context, fields model.Record) (model.Record, error)

	// UpdateTask shallow-merges changes into the task with the given id.
	// Returns ErrNotFound if the task does not exist.
	UpdateTask(ctx context.Context, id string, changes model.Record) (model.Record, error)

	// DeleteTask removes the task with the given id.
	// Returns ErrNotFound if the task does not exist.
	DeleteTask(ctx context.Context, id string) error

	// Reset replaces every working collection with a fresh copy of the baseline.
	Reset(ctx context.Context)

	// Login finds a user by id, employeeId or email and checks the password.
	// Failures wrap ErrUnauthorized.
	Login(ctx context.Context, username, password string) (model.Record, error)

	// TrainingFor returns the training suggestions for one employee.
	TrainingFor(ctx context.Context, employeeID string) []model.Record

	// Analytics returns the workforce analytics singleton.
	Analytics(ctx context.Context) model.Record

	// Counts returns the current size of every list collection.
	Counts(ctx context.Context) map[model.Collection]int

	// SetBaseline swaps the fixtures used by the next Reset.
	SetBaseline(ctx context.Context, set *fixtures.Set)
}

// Notifier receives a change event after every successful mutation.
// Implementations must not block.
type Notifier interface {
	Notify(ctx context.Context, e model.ChangeEvent)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, e model.ChangeEvent)

// Notify calls f.
func (f NotifierFunc) Notify(ctx context.Context, e model.ChangeEvent) { f(ctx, e) }
