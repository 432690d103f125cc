// Package queue carries redraw triggers from request handlers to the redraw
// worker. Enqueue never blocks: a full queue is reported as backpressure.
package queue

import (
	"context"
	"fmt"
	"sync"

	"github.com/okian/skillwheel/internal/domain/model"
	"github.com/okian/skillwheel/pkg/metrics"
)

const defaultQueueCapacity = 1024

// Trigger is the payload flowing through the queue.
type Trigger = model.Trigger

// Queue provides non-blocking enqueue and channel-based dequeue semantics.
type Queue interface {
	// Enqueue adds a trigger. Returns false if it was not accepted.
	Enqueue(ctx context.Context, t Trigger) bool

	// TryEnqueue is Enqueue with the reason for a refusal.
	TryEnqueue(ctx context.Context, t Trigger) error

	// Dequeue returns a channel of triggers in arrival order. It is closed
	// once the queue is closed and drained.
	Dequeue(ctx context.Context) <-chan Trigger

	// Len returns the number of pending triggers.
	Len(ctx context.Context) int

	// Close stops accepting triggers.
	Close() error

	// IsClosed reports whether Close was called.
	IsClosed() bool
}

// InMemoryQueue implements Queue with a buffered channel.
type InMemoryQueue struct {
	triggers chan Trigger
	capacity int
	mu       sync.RWMutex
	closed   bool
}

// NewInMemoryQueue creates a bounded in-memory queue.
func NewInMemoryQueue(opts ...Option) *InMemoryQueue {
	q := &InMemoryQueue{capacity: defaultQueueCapacity}
	for _, opt := range opts {
		opt(q)
	}
	q.triggers = make(chan Trigger, q.capacity)

	metrics.UpdateQueueCapacity(q.capacity)
	metrics.UpdateQueueSize(0)
	return q
}

// Enqueue adds a trigger to the queue.
func (q *InMemoryQueue) Enqueue(ctx context.Context, t Trigger) bool { //nolint:gocritic // hugeParam: passed by value into the channel
	return q.TryEnqueue(ctx, t) == nil
}

// TryEnqueue adds a trigger or reports why it could not.
func (q *InMemoryQueue) TryEnqueue(ctx context.Context, t Trigger) error { //nolint:gocritic // hugeParam: passed by value into the channel
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		metrics.RecordQueueRejection("closed")
		return ErrClosed
	}
	if err := ctx.Err(); err != nil {
		metrics.RecordQueueRejection("context_cancelled")
		return fmt.Errorf("enqueue %s trigger: %w", t.Kind, err)
	}

	select {
	case q.triggers <- t:
		metrics.UpdateQueueSize(len(q.triggers))
		return nil
	default:
		metrics.RecordQueueRejection("full")
		return ErrFull
	}
}

// Dequeue returns a channel that receives triggers as they become available.
func (q *InMemoryQueue) Dequeue(ctx context.Context) <-chan Trigger {
	out := make(chan Trigger)
	go func() {
		defer close(out)
		for t := range q.triggers {
			select {
			case out <- t:
				metrics.UpdateQueueSize(len(q.triggers))
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

// Len returns the current number of queued triggers.
func (q *InMemoryQueue) Len(ctx context.Context) int {
	n := len(q.triggers)
	metrics.UpdateQueueSize(n)
	return n
}

// Close stops accepting triggers. Pending ones are still delivered.
func (q *InMemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return nil
	}
	close(q.triggers)
	q.closed = true
	return nil
}

// IsClosed returns true if the queue has been closed.
func (q *InMemoryQueue) IsClosed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}
