package audit

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"tonetags/pkg/requestcontext"
)

// ErrQueueFull is returned by Queue.Append when the worker has fallen behind.
var ErrQueueFull = errors.New("audit queue is full")

// Store is any append-only destination for events.
type Store interface {
	Append(ctx context.Context, event Event) error
}

// Publisher captures structured audit events. It is append-only and uses the
// storage layer for persistence so tests can swap sinks easily.
type Publisher struct {
	store Store
}

func NewPublisher(store Store) *Publisher {
	return &Publisher{store: store}
}

// Emit fills in the id, timestamp and request id when missing and appends the event.
func (p *Publisher) Emit(ctx context.Context, event Event) error {
	if event.UserID.IsNil() {
		return fmt.Errorf("audit event %q requires a user id", event.Action)
	}
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = requestcontext.Now(ctx)
	}
	if event.RequestID == "" {
		event.RequestID = requestcontext.RequestID(ctx)
	}
	return p.store.Append(ctx, event)
}

// Queue is a bounded in-process buffer between publishers and a Worker.
type Queue struct {
	events chan Event
}

func NewQueue(size int) *Queue {
	if size <= 0 {
		size = 1
	}
	return &Queue{events: make(chan Event, size)}
}

// Append enqueues without blocking the caller.
func (q *Queue) Append(_ context.Context, event Event) error {
	select {
	case q.events <- event:
		return nil
	default:
		return ErrQueueFull
	}
}

// Events is the receive side handed to a Worker.
func (q *Queue) Events() <-chan Event {
	return q.events
}
