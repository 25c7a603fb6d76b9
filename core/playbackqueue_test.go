package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestPlaybackQueueRunsActionsInOrderWithoutOverlap(t *testing.T) {
	queue := NewPlaybackQueue(context.Background())
	defer queue.Close()

	var mu sync.Mutex
	var order []int
	var active atomic.Int32

	pendings := make([]*Pending, 0, 3)
	for i := range 3 {
		pendings = append(pendings, queue.Enqueue(func(context.Context) error {
			if active.Add(1) > 1 {
				t.Errorf("expected at most one active action")
			}
			time.Sleep(5 * time.Millisecond)
			mu.Lock()
			order = append(order, i)
			mu.Unlock()
			active.Add(-1)
			return nil
		}))
	}

	for _, pending := range pendings {
		if err := pending.Await(context.Background()); err != nil {
			t.Fatalf("expected action to succeed, got %v", err)
		}
	}

	mu.Lock()
	defer mu.Unlock()
	for i, got := range order {
		if got != i {
			t.Fatalf("expected FIFO order %v, got %v", []int{0, 1, 2}, order)
		}
	}
}

func TestPlaybackQueueFailureRejectsOnlyThatAction(t *testing.T) {
	queue := NewPlaybackQueue(context.Background())
	defer queue.Close()

	failed := queue.Enqueue(func(context.Context) error {
		return fmt.Errorf("synthesis unavailable")
	})
	succeeded := queue.Enqueue(func(context.Context) error { return nil })

	if err := failed.Await(context.Background()); err == nil {
		t.Fatalf("expected first action to fail")
	}
	if err := succeeded.Await(context.Background()); err != nil {
		t.Fatalf("expected second action to run after a failure, got %v", err)
	}
}

func TestPlaybackQueueCloseDrainsThenRejects(t *testing.T) {
	queue := NewPlaybackQueue(context.Background())

	ran := false
	pending := queue.Enqueue(func(context.Context) error {
		ran = true
		return nil
	})
	queue.Close()

	if err := pending.Err(); err != nil {
		t.Fatalf("expected queued action to drain on close, got %v", err)
	}
	if !ran {
		t.Fatalf("expected queued action to run before close returned")
	}

	rejected := queue.Enqueue(func(context.Context) error { return nil })
	<-rejected.Done()
	if !errors.Is(rejected.Err(), ErrQueueClosed) {
		t.Fatalf("expected ErrQueueClosed, got %v", rejected.Err())
	}
}

func TestPendingAwaitHonoursContext(t *testing.T) {
	queue := NewPlaybackQueue(context.Background())
	defer queue.Close()

	release := make(chan struct{})
	queue.Enqueue(func(context.Context) error {
		<-release
		return nil
	})
	stuck := queue.Enqueue(func(context.Context) error { return nil })

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if err := stuck.Await(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
	close(release)
}
