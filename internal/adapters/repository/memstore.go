package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/okian/optiwork/internal/domain/fixtures"
	"github.com/okian/optiwork/internal/domain/model"
	"github.com/okian/optiwork/pkg/metrics"
)

const (
	// timestampLayout is RFC 3339 with millisecond precision.
	timestampLayout = "2006-01-02T15:04:05.000Z07:00"

	// maxIDAttempts bounds retries when a generated id is already taken.
	maxIDAttempts = 16

	statusPending   = "pending"
	statusCompleted = "completed"

	fieldID          = "id"
	fieldStatus      = "status"
	fieldCompletedAt = "completedAt"
	fieldPassword    = "password"
	fieldEmployeeID  = "employeeId"
)

// MemoryStore is the in-memory Store. A single RWMutex guards every
// collection, so concurrent requests never lose updates and Reset swaps all
// collections at once.
type MemoryStore struct {
	mu          sync.RWMutex
	baseline    *fixtures.Set
	collections map[model.Collection][]model.Record
	analytics   model.Record

	newID    func() string
	now      func() time.Time
	notifier Notifier
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates a store whose working collections are deep copies
// of baseline.
func NewMemoryStore(baseline *fixtures.Set, opts ...Option) *MemoryStore {
	s := &MemoryStore{
		baseline: baseline,
		newID:    newTaskID,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.seed()
	return s
}

// newTaskID returns a UUIDv7 string. Version 7 ids embed a millisecond
// timestamp plus a monotonic counter, so they sort after every id issued
// before them.
func newTaskID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// seed replaces the working collections with copies of the baseline.
// Callers must hold the write lock (or own s exclusively).
func (s *MemoryStore) seed() {
	s.collections = make(map[model.Collection][]model.Record, len(model.Collections))
	for _, c := range model.Collections {
		s.collections[c] = s.baseline.Records(c)
		metrics.UpdateCollectionSize(string(c), len(s.collections[c]))
	}
	s.analytics = s.baseline.Analytics()
}

// List returns the working collection c in insertion order.
func (s *MemoryStore) List(_ context.Context, c model.Collection) ([]model.Record, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCollection, c)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return model.CloneAll(s.collections[c]), nil
}

// Get returns the first record of c whose identifier fields match id.
func (s *MemoryStore) Get(_ context.Context, c model.Collection, id string) (model.Record, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCollection, c)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i := s.indexOf(c, id); i >= 0 {
		return s.collections[c][i].Clone(), nil
	}
	metrics.RecordStoreOperation("get", "not_found")
	return nil, fmt.Errorf("%w: %s %q", ErrNotFound, c, id)
}

// indexOf returns the position of the first record of c matching id, or -1.
// Callers must hold the lock.
func (s *MemoryStore) indexOf(c model.Collection, id string) int {
	keys := c.IdentityKeys()
	for i, r := range s.collections[c] {
		if r.Matches(keys, id) {
			return i
		}
	}
	return -1
}

// CreateTask appends a new task built from fields.
func (s *MemoryStore) CreateTask(ctx context.Context, fields model.Record) (model.Record, error) {
	task := fields.Clone()
	if task == nil {
		task = model.Record{}
	}

	s.mu.Lock()
	id, err := s.uniqueTaskID()
	if err != nil {
		s.mu.Unlock()
		metrics.RecordStoreOperation("create_task", "error")
		return nil, err
	}
	task[fieldID] = id
	task[fieldStatus] = statusPending
	task[fieldCompletedAt] = nil
	s.collections[model.Tasks] = append(s.collections[model.Tasks], task)
	out := task.Clone()
	size := len(s.collections[model.Tasks])
	s.mu.Unlock()

	metrics.RecordStoreOperation("create_task", "ok")
	metrics.UpdateCollectionSize(string(model.Tasks), size)
	s.notify(ctx, model.ChangeEvent{Type: model.ChangeCreated, Collection: model.Tasks, ID: id, Record: out.Clone()})
	return out, nil
}

// uniqueTaskID draws ids until one is not in use. Callers must hold the
// write lock.
func (s *MemoryStore) uniqueTaskID() (string, error) {
	for range maxIDAttempts {
		id := s.newID()
		if id != "" && s.indexOf(model.Tasks, id) < 0 {
			return id, nil
		}
	}
	return "", ErrIDCollision
}

// UpdateTask shallow-merges changes into the task with the given id. When the
// update completes the task and completedAt is still unset after the merge,
// completedAt is stamped with the current UTC time; an explicit value in
// changes always wins. The id itself is immutable and ignored in changes.
func (s *MemoryStore) UpdateTask(ctx context.Context, id string, changes model.Record) (model.Record, error) {
	changes = changes.Clone()
	delete(changes, fieldID)

	s.mu.Lock()
	i := s.indexOf(model.Tasks, id)
	if i < 0 {
		s.mu.Unlock()
		metrics.RecordStoreOperation("update_task", "not_found")
		return nil, fmt.Errorf("%w: task %q", ErrNotFound, id)
	}
	task := s.collections[model.Tasks][i]
	task.Merge(changes)
	if status, _ := changes.String(fieldStatus); status == statusCompleted && task.IsUnset(fieldCompletedAt) {
		task[fieldCompletedAt] = s.now().UTC().Format(timestampLayout)
	}
	out := task.Clone()
	s.mu.Unlock()

	metrics.RecordStoreOperation("update_task", "ok")
	s.notify(ctx, model.ChangeEvent{Type: model.ChangeUpdated, Collection: model.Tasks, ID: id, Record: out.Clone()})
	return out, nil
}

// DeleteTask removes the task with the given id. The remaining tasks keep
// their order and ids.
func (s *MemoryStore) DeleteTask(ctx context.Context, id string) error {
	s.mu.Lock()
	i := s.indexOf(model.Tasks, id)
	if i < 0 {
		s.mu.Unlock()
		metrics.RecordStoreOperation("delete_task", "not_found")
		return fmt.Errorf("%w: task %q", ErrNotFound, id)
	}
	tasks := s.collections[model.Tasks]
	next := make([]model.Record, 0, len(tasks)-1)
	next = append(next, tasks[:i]...)
	next = append(next, tasks[i+1:]...)
	s.collections[model.Tasks] = next
	size := len(next)
	s.mu.Unlock()

	metrics.RecordStoreOperation("delete_task", "ok")
	metrics.UpdateCollectionSize(string(model.Tasks), size)
	s.notify(ctx, model.ChangeEvent{Type: model.ChangeDeleted, Collection: model.Tasks, ID: id})
	return nil
}

// Reset replaces every working collection with a fresh copy of the baseline.
func (s *MemoryStore) Reset(ctx context.Context) {
	s.mu.Lock()
	s.seed()
	s.mu.Unlock()

	metrics.RecordStoreOperation("reset", "ok")
	s.notify(ctx, model.ChangeEvent{Type: model.ChangeReset})
}

// SetBaseline swaps the fixtures used by the next Reset. The working
// collections are left as they are.
func (s *MemoryStore) SetBaseline(_ context.Context, set *fixtures.Set) {
	if set == nil {
		return
	}
	s.mu.Lock()
	s.baseline = set
	s.mu.Unlock()
}

// Login finds the first user whose id, employeeId or email equals username
// and compares the stored plaintext password.
func (s *MemoryStore) Login(_ context.Context, username, password string) (model.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := model.LoginKeys()
	for _, u := range s.collections[model.Users] {
		if !u.Matches(keys, username) {
			continue
		}
		if stored, ok := u.String(fieldPassword); !ok || stored != password {
			metrics.RecordStoreOperation("login", "invalid_password")
			return nil, ErrInvalidPassword
		}
		metrics.RecordStoreOperation("login", "ok")
		return u.Clone(), nil
	}
	metrics.RecordStoreOperation("login", "user_not_found")
	return nil, ErrUserNotFound
}

// TrainingFor returns the training suggestions whose employeeId matches.
// The result is empty, never nil, when nothing matches.
func (s *MemoryStore) TrainingFor(_ context.Context, employeeID string) []model.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Record, 0)
	for _, r := range s.collections[model.Training] {
		if id, ok := r.String(fieldEmployeeID); ok && id == employeeID {
			out = append(out, r.Clone())
		}
	}
	return out
}

// Analytics returns the workforce analytics singleton.
func (s *MemoryStore) Analytics(_ context.Context) model.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.analytics.Clone()
}

// Counts returns the current size of every list collection.
func (s *MemoryStore) Counts(_ context.Context) map[model.Collection]int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[model.Collection]int, len(s.collections))
	for c, records := range s.collections {
		out[c] = len(records)
	}
	return out
}

func (s *MemoryStore) notify(ctx context.Context, e model.ChangeEvent) {
	if s.notifier == nil {
		return
	}
	e.At = s.now().UTC()
	s.notifier.Notify(ctx, e)
}
