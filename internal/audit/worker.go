package audit

import (
	"context"
	"log/slog"
	"time"
)

// drainTimeout bounds how long Run keeps forwarding queued events after ctx is done.
const drainTimeout = 5 * time.Second

// Worker consumes audit events from a channel and forwards them to a sink.
// Sink failures are logged and the event is dropped. Run returns when the inbox
// is closed, or when ctx is done after forwarding the events already queued.
type Worker struct {
	sink   Store
	inbox  <-chan Event
	logger *slog.Logger
}

func NewWorker(sink Store, inbox <-chan Event, logger *slog.Logger) *Worker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Worker{sink: sink, inbox: inbox, logger: logger}
}

func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			w.drain(ctx)
			return ctx.Err()
		case event, ok := <-w.inbox:
			if !ok {
				return nil
			}
			w.forward(ctx, event)
		}
	}
}

// drain forwards whatever is buffered in the inbox without waiting for more.
func (w *Worker) drain(ctx context.Context) {
	drainCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), drainTimeout)
	defer cancel()
	for {
		select {
		case event, ok := <-w.inbox:
			if !ok {
				return
			}
			w.forward(drainCtx, event)
		default:
			return
		}
	}
}

func (w *Worker) forward(ctx context.Context, event Event) {
	if err := w.sink.Append(ctx, event); err != nil {
		w.logger.ErrorContext(ctx, "failed to forward audit event",
			"action", event.Action,
			"user_id", event.UserID,
			"request_id", event.RequestID,
			"error", err,
		)
	}
}
