package pipeline

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// PlaybackAction produces audible output when the queue worker reaches it.
type PlaybackAction func(ctx context.Context) error

// Pending tracks a queued action until the worker resolves it.
type Pending struct {
	ID string

	done chan struct{}
	err  error
}

// Done is closed once the action has run (or been rejected).
func (p *Pending) Done() <-chan struct{} { return p.done }

// Err returns the action's failure, if any. Only valid after Done is closed.
func (p *Pending) Err() error { return p.err }

// Await blocks until the action resolves or the context expires.
func (p *Pending) Await(ctx context.Context) error {
	select {
	case <-p.done:
		return p.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// PlaybackQueue serializes audible actions so at most one produces audio at
// a time. A single worker drains the queue in arrival order; a failing
// action rejects only its own Pending and the worker moves on.
type PlaybackQueue struct {
	mu      sync.Mutex
	pending []queuedAction
	closed  bool

	updateSignal chan struct{}
	workerDone   chan struct{}
}

type queuedAction struct {
	action  PlaybackAction
	pending *Pending
}

func NewPlaybackQueue(ctx context.Context) *PlaybackQueue {
	q := &PlaybackQueue{
		updateSignal: make(chan struct{}, 1),
		workerDone:   make(chan struct{}),
	}
	go q.drain(ctx)
	return q
}

// Enqueue appends an action. The returned Pending resolves when the worker
// has run the action, or immediately with ErrQueueClosed.
func (q *PlaybackQueue) Enqueue(action PlaybackAction) *Pending {
	pending := &Pending{ID: uuid.NewString(), done: make(chan struct{})}

	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		pending.err = ErrQueueClosed
		close(pending.done)
		return pending
	}
	q.pending = append(q.pending, queuedAction{action: action, pending: pending})
	q.mu.Unlock()

	q.signalUpdate()
	return pending
}

func (q *PlaybackQueue) drain(ctx context.Context) {
	defer close(q.workerDone)

	for {
		next, ok := q.dequeue()
		if !ok {
			q.mu.Lock()
			finished := q.closed && len(q.pending) == 0
			q.mu.Unlock()
			if finished {
				return
			}

			select {
			case <-q.updateSignal:
				continue
			case <-ctx.Done():
				q.rejectRemaining(ctx.Err())
				return
			}
		}

		err := next.action(ctx)
		if err != nil {
			logger.WarnContext(ctx, "playback action failed",
				"action_id", next.pending.ID, "error", err)
		}
		next.pending.err = err
		close(next.pending.done)
	}
}

func (q *PlaybackQueue) dequeue() (queuedAction, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.pending) == 0 {
		return queuedAction{}, false
	}
	next := q.pending[0]
	q.pending = q.pending[1:]
	return next, true
}

func (q *PlaybackQueue) rejectRemaining(err error) {
	q.mu.Lock()
	remaining := q.pending
	q.pending = nil
	q.mu.Unlock()

	for _, queued := range remaining {
		queued.pending.err = err
		close(queued.pending.done)
	}
}

// Close stops accepting new actions, lets the worker drain what is already
// queued and waits for it to finish.
func (q *PlaybackQueue) Close() {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		<-q.workerDone
		return
	}
	q.closed = true
	q.mu.Unlock()

	q.signalUpdate()
	<-q.workerDone
}

func (q *PlaybackQueue) signalUpdate() {
	select {
	case q.updateSignal <- struct{}{}:
	default:
	}
}
