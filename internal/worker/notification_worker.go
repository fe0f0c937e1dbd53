package worker

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/spec-kit/fanfund/internal/events"
)

const defaultQueueSize = 128

// Notifier handles one event off the request path.
type Notifier interface {
	EventTypes() []events.EventType
	Handle(ctx context.Context, event events.Event) error
}

// NotificationWorker moves notification delivery off the request goroutine. Events that
// arrive while the queue is full are dropped and logged.
type NotificationWorker struct {
	notifier Notifier
	logger   *zap.Logger
	queue    chan events.Event

	mu      sync.RWMutex
	stopped bool
	wg      sync.WaitGroup
}

// StartNotificationWorker subscribes the notifier to dispatcher and starts draining.
func StartNotificationWorker(ctx context.Context, dispatcher events.Dispatcher, notifier Notifier, logger *zap.Logger) *NotificationWorker {
	if logger == nil {
		logger = zap.NewNop()
	}
	w := &NotificationWorker{
		notifier: notifier,
		logger:   logger,
		queue:    make(chan events.Event, defaultQueueSize),
	}
	if notifier == nil || dispatcher == nil {
		return w
	}
	for _, et := range notifier.EventTypes() {
		dispatcher.Subscribe(et, w.enqueue)
	}

	w.wg.Add(1)
	go w.run(ctx)
	return w
}

func (w *NotificationWorker) enqueue(_ context.Context, event events.Event) error {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.stopped {
		return nil
	}
	select {
	case w.queue <- event:
	default:
		w.logger.Warn("notification queue full; dropping event",
			zap.String("event_type", string(event.Type)),
			zap.String("resource_id", event.ResourceID))
	}
	return nil
}

func (w *NotificationWorker) run(ctx context.Context) {
	defer w.wg.Done()
	for event := range w.queue {
		if err := w.notifier.Handle(ctx, event); err != nil {
			w.logger.Error("notification failed",
				zap.String("event_type", string(event.Type)),
				zap.String("resource_id", event.ResourceID),
				zap.Error(err))
		}
	}
}

// Stop stops accepting events and waits until queued ones are handled.
func (w *NotificationWorker) Stop() {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return
	}
	w.stopped = true
	close(w.queue)
	w.mu.Unlock()
	w.wg.Wait()
}
