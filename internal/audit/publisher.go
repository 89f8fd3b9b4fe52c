package audit

import (
	"context"
	"time"

	"civreg/internal/platform/metrics"
	"civreg/internal/wizard"
)

// Publisher accepts events from request handlers. With a queue it never blocks:
// a full queue drops the event and counts the drop. Without a queue it writes
// straight to the store.
type Publisher struct {
	store   Store
	queue   chan<- Event
	metrics *metrics.Metrics
	clock   func() time.Time
}

// NewPublisher writes synchronously to store.
func NewPublisher(store Store) *Publisher {
	return &Publisher{store: store, clock: time.Now}
}

// NewQueuedPublisher hands events to a Worker through queue.
func NewQueuedPublisher(queue chan<- Event, m *metrics.Metrics) *Publisher {
	return &Publisher{queue: queue, metrics: m, clock: time.Now}
}

// Emit records an event. It reports false when the event was dropped.
func (p *Publisher) Emit(ctx context.Context, event Event) bool {
	if event.Timestamp.IsZero() {
		event.Timestamp = p.clock()
	}
	if p.queue == nil {
		return p.store.Append(ctx, event) == nil
	}
	select {
	case p.queue <- event:
		return true
	default:
		p.metrics.IncrementNotificationsDropped()
		return false
	}
}

// Notifier binds the publisher to one session so wizard controllers can use
// it as their notification sink.
func (p *Publisher) Notifier(sessionID string) wizard.Notifier {
	return wizard.NotifierFunc(func(ctx context.Context, n wizard.Notification) {
		p.Emit(ctx, Event{
			SessionID: sessionID,
			Level:     n.Level,
			Title:     n.Title,
			Message:   n.Message,
		})
	})
}
