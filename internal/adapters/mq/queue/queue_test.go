package queue

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/okian/optiwork/internal/domain/model"
)

func taskEvent(id string) Event {
	return Event{Type: model.ChangeCreated, Collection: model.Tasks, ID: id, At: time.Now()}
}

func TestInMemoryQueue_BasicOperations(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(2))
	ctx := context.Background()

	if l := q.Len(ctx); l != 0 {
		t.Errorf("expected length 0, got %d", l)
	}

	if err := q.Enqueue(ctx, taskEvent("1")); err != nil {
		t.Errorf("expected enqueue to succeed, got %v", err)
	}
	if l := q.Len(ctx); l != 1 {
		t.Errorf("expected length 1, got %d", l)
	}

	event := <-q.Dequeue(ctx)
	if event.ID != "1" || event.Type != model.ChangeCreated {
		t.Errorf("unexpected event %+v", event)
	}
	if l := q.Len(ctx); l != 0 {
		t.Errorf("expected length 0, got %d", l)
	}
}

func TestInMemoryQueue_Capacity(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(2))
	ctx := context.Background()

	for _, id := range []string{"1", "2"} {
		if err := q.Enqueue(ctx, taskEvent(id)); err != nil {
			t.Errorf("expected enqueue to succeed, got %v", err)
		}
	}
	if err := q.Enqueue(ctx, taskEvent("3")); !errors.Is(err, ErrFull) {
		t.Errorf("expected ErrFull, got %v", err)
	}
	if l := q.Len(ctx); l != 2 {
		t.Errorf("expected length 2, got %d", l)
	}
}

func TestInMemoryQueue_DefaultCapacity(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(0), WithCapacity(-3))
	if q.capacity != defaultQueueCapacity {
		t.Errorf("expected default capacity %d, got %d", defaultQueueCapacity, q.capacity)
	}
}

func TestInMemoryQueue_CancelledContext(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(2))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := q.Enqueue(ctx, taskEvent("1")); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}

	// Notify detaches from cancellation; a finished request still publishes.
	q.Notify(ctx, taskEvent("2"))
	if l := q.Len(context.Background()); l != 1 {
		t.Errorf("expected notify to enqueue, length %d", l)
	}
}

func TestInMemoryQueue_PreservesOrder(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(10))
	ctx := context.Background()
	for i := range 5 {
		if err := q.Enqueue(ctx, taskEvent(fmt.Sprint(i))); err != nil {
			t.Fatal(err)
		}
	}
	out := q.Dequeue(ctx)
	for i := range 5 {
		if e := <-out; e.ID != fmt.Sprint(i) {
			t.Fatalf("position %d: expected %d, got %s", i, i, e.ID)
		}
	}
}

func TestInMemoryQueue_ConcurrentAccess(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(100))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	numGoroutines := 10
	numEvents := 100

	var consumed sync.WaitGroup
	consumed.Add(numGoroutines * numEvents)
	out := q.Dequeue(ctx)
	go func() {
		for range out {
			consumed.Done()
		}
	}()

	var producers sync.WaitGroup
	for i := range numGoroutines {
		producers.Add(1)
		go func(id int) {
			defer producers.Done()
			for j := range numEvents {
				for q.Enqueue(ctx, taskEvent(fmt.Sprintf("%d_%d", id, j))) != nil {
					time.Sleep(time.Millisecond)
				}
			}
		}(i)
	}
	producers.Wait()

	done := make(chan struct{})
	go func() {
		consumed.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("consumer did not drain the queue")
	}
	if l := q.Len(ctx); l != 0 {
		t.Errorf("expected final length 0, got %d", l)
	}
}

func TestInMemoryQueue_GracefulShutdown(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(10))
	ctx := context.Background()

	if err := q.Enqueue(ctx, taskEvent("1")); err != nil {
		t.Fatal(err)
	}
	if err := q.Enqueue(ctx, taskEvent("2")); err != nil {
		t.Fatal(err)
	}
	if q.IsClosed() {
		t.Error("expected queue to be open initially")
	}

	if err := q.Close(); err != nil {
		t.Errorf("expected close to succeed, got error: %v", err)
	}
	if !q.IsClosed() {
		t.Error("expected queue to be closed after Close()")
	}
	if err := q.Enqueue(ctx, taskEvent("3")); !errors.Is(err, ErrClosed) {
		t.Errorf("expected ErrClosed, got %v", err)
	}

	// Buffered events drain before the channel closes.
	var got []string
	timeout := time.After(time.Second)
	out := q.Dequeue(ctx)
drain:
	for {
		select {
		case e, ok := <-out:
			if !ok {
				break drain
			}
			got = append(got, e.ID)
		case <-timeout:
			t.Fatal("expected dequeue channel to be closed within timeout")
		}
	}
	if len(got) != 2 {
		t.Errorf("expected 2 drained events, got %v", got)
	}

	if err := q.Close(); err != nil {
		t.Errorf("expected second close to succeed, got error: %v", err)
	}
}
