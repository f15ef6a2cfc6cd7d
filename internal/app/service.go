// Package service owns the runtime components behind the HTTP API: the
// snapshot store, the change queue and dispatcher, the live feed hub and the
// optional fixture watcher.
package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/okian/optiwork/internal/adapters/http/ws"
	eventqueue "github.com/okian/optiwork/internal/adapters/mq/queue"
	"github.com/okian/optiwork/internal/adapters/mq/worker"
	"github.com/okian/optiwork/internal/adapters/repository"
	"github.com/okian/optiwork/internal/domain/fixtures"
	"github.com/okian/optiwork/internal/domain/model"
	"github.com/okian/optiwork/pkg/logger"
	"github.com/okian/optiwork/pkg/metrics"
)

const (
	defaultQueueSize = 1024
	stopTimeout      = 5 * time.Second
)

// Service wires the store to its change feed and manages their lifecycle.
type Service struct {
	mu sync.RWMutex

	// Core components
	store      *repository.MemoryStore
	eventQueue *eventqueue.InMemoryQueue
	dispatcher *worker.InMemoryWorker
	hub        *ws.Hub

	// Configuration
	queueSize     int
	fixturesDir   string
	fixturesWatch bool
	hubOptions    []ws.Option

	// State
	started bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithQueueSize sets the capacity of the change queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithFixturesDir loads the baseline from dir instead of the embedded data.
func WithFixturesDir(dir string) Option {
	return func(s *Service) {
		s.fixturesDir = dir
	}
}

// WithFixturesWatch reloads the baseline whenever a file in the fixtures
// directory changes. It has no effect without WithFixturesDir.
func WithFixturesWatch(enabled bool) Option {
	return func(s *Service) {
		s.fixturesWatch = enabled
	}
}

// WithHubOptions passes options through to the live feed hub.
func WithHubOptions(opts ...ws.Option) Option {
	return func(s *Service) {
		s.hubOptions = append(s.hubOptions, opts...)
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		queueSize: defaultQueueSize,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start loads the baseline and starts the background components. The
// components stop when ctx is cancelled or Stop is called.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting optiwork service...")

	baseline, err := s.loadBaseline()
	if err != nil {
		return fmt.Errorf("load fixtures: %w", err)
	}

	s.eventQueue = eventqueue.NewInMemoryQueue(eventqueue.WithCapacity(s.queueSize))
	store := repository.NewMemoryStore(baseline, repository.WithNotifier(s.eventQueue))
	s.store = store

	// Background callbacks use the captured store, never s.mu: Stop holds
	// the lock while it waits for them.
	hubOpts := append([]ws.Option{ws.WithGreeting(func() any { return greeting(store) })}, s.hubOptions...)
	s.hub = ws.New(hubOpts...)
	s.dispatcher = worker.NewInMemoryWorker(s.eventQueue, s.hub, worker.WithName("dispatcher"))

	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.goRun(func() { s.hub.Run(runCtx) })
	s.goRun(func() { s.dispatcher.Run(runCtx) })

	if s.fixturesWatch && s.fixturesDir != "" {
		s.goRun(func() {
			onChange := func(set *fixtures.Set) { reloadBaseline(store, set) }
			if err := fixtures.Watch(runCtx, s.fixturesDir, s.logger.Named("fixtures"), onChange); err != nil {
				metrics.RecordFixtureReload("error")
				s.logger.Error(runCtx, "fixture watcher stopped", logger.Error(err))
			}
		})
	}

	s.started = true
	s.logger.Info(ctx, "optiwork service started",
		logger.Int("queueSize", s.queueSize),
		logger.String("fixtures", s.fixturesSource()),
		logger.Any("watch", s.fixturesWatch),
	)
	return nil
}

func (s *Service) goRun(fn func()) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		fn()
	}()
}

func (s *Service) loadBaseline() (*fixtures.Set, error) {
	if s.fixturesDir != "" {
		return fixtures.Dir(s.fixturesDir)
	}
	return fixtures.Embedded()
}

func (s *Service) fixturesSource() string {
	if s.fixturesDir != "" {
		return s.fixturesDir
	}
	return "embedded"
}

// reloadBaseline installs a freshly decoded baseline for the next reset.
func reloadBaseline(store *repository.MemoryStore, set *fixtures.Set) {
	store.SetBaseline(context.Background(), set)
	metrics.RecordFixtureReload("ok")
}

// greeting is the payload of the hello message sent to new live feed clients.
func greeting(store *repository.MemoryStore) any {
	counts := store.Counts(context.Background())
	out := make(map[string]int, len(counts))
	for c, n := range counts {
		out[string(c)] = n
	}
	return map[string]any{"counts": out}
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), stopTimeout)
	defer cancel()

	s.logger.Info(ctx, "stopping optiwork service...")

	if s.dispatcher != nil {
		if err := s.dispatcher.Shutdown(ctx); err != nil {
			s.logger.Warn(ctx, "dispatcher shutdown", logger.Error(err))
		}
	}
	s.cancel()
	if s.eventQueue != nil {
		_ = s.eventQueue.Close()
	}
	s.wg.Wait()

	s.started = false
	s.logger.Info(ctx, "optiwork service stopped")
}

// Store returns the snapshot store, or nil before Start.
func (s *Service) Store() repository.Store {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.store == nil {
		return nil
	}
	return s.store
}

// Hub returns the live feed hub, or nil before Start.
func (s *Service) Hub() *ws.Hub {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.hub
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":   s.started,
		"queueSize": s.queueSize,
		"fixtures":  s.fixturesSource(),
	}

	if s.started {
		queueLen := s.eventQueue.Len(ctx)
		stats["queueLength"] = queueLen
		stats["wsClients"] = s.hub.Count()

		counts := s.store.Counts(ctx)
		for _, c := range model.Collections {
			stats[string(c)] = counts[c]
		}

		metrics.UpdateQueueSize(queueLen)
	}

	return stats
}
