package services

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"poll-service/internal/models"
)

var (
	ErrEventQueueFull   = errors.New("vote event queue full")
	ErrEventQueueClosed = errors.New("vote event queue closed")
)

// EventQueue hands vote events to a publisher from a single worker so that
// a slow broker never holds up the vote path. Events that do not fit in the
// buffer are dropped.
type EventQueue struct {
	publisher VotePublisher
	events    chan models.VoteEvent
	timeout   time.Duration

	mu     sync.RWMutex
	closed bool

	cancel context.CancelFunc
	done   chan struct{}
}

// NewEventQueue starts the worker. Each event gets timeout to be accepted by
// the publisher.
func NewEventQueue(publisher VotePublisher, size int, timeout time.Duration) *EventQueue {
	ctx, cancel := context.WithCancel(context.Background())
	q := &EventQueue{
		publisher: publisher,
		events:    make(chan models.VoteEvent, max(size, 1)),
		timeout:   timeout,
		cancel:    cancel,
		done:      make(chan struct{}),
	}
	go q.run(ctx)
	return q
}

// PublishVote enqueues the event without blocking.
func (q *EventQueue) PublishVote(_ context.Context, event models.VoteEvent) error {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		return ErrEventQueueClosed
	}

	select {
	case q.events <- event:
		return nil
	default:
		return ErrEventQueueFull
	}
}

func (q *EventQueue) run(ctx context.Context) {
	defer close(q.done)
	for {
		if ctx.Err() != nil {
			if n := len(q.events); n > 0 {
				slog.Warn("Dropping queued vote events", "count", n)
			}
			return
		}

		select {
		case <-ctx.Done():
		case event, ok := <-q.events:
			if !ok {
				return
			}
			q.send(ctx, event)
		}
	}
}

func (q *EventQueue) send(ctx context.Context, event models.VoteEvent) {
	ctx, cancel := context.WithTimeout(ctx, q.timeout)
	defer cancel()
	if err := q.publisher.PublishVote(ctx, event); err != nil {
		slog.Warn("Failed to publish vote event", "voteID", event.VoteID, "error", err)
	}
}

// Close stops accepting events and waits for the worker to publish what is
// queued. When ctx ends first the rest is dropped.
func (q *EventQueue) Close(ctx context.Context) error {
	q.mu.Lock()
	if !q.closed {
		q.closed = true
		close(q.events)
	}
	q.mu.Unlock()

	select {
	case <-q.done:
		q.cancel()
		return nil
	case <-ctx.Done():
		q.cancel()
		<-q.done
		return ctx.Err()
	}
}
