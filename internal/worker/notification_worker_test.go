package worker

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spec-kit/fanfund/internal/events"
)

type recordingNotifier struct {
	mu   sync.Mutex
	seen []string
	err  error
}

func (r *recordingNotifier) EventTypes() []events.EventType {
	return []events.EventType{events.EventProjectReviewed, events.EventInvestmentCreated}
}

func (r *recordingNotifier) Handle(_ context.Context, e events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seen = append(r.seen, e.ResourceID)
	return r.err
}

func TestNotificationWorker_DeliversSubscribedEvents(t *testing.T) {
	dispatcher := events.NewInMemoryDispatcher()
	notifier := &recordingNotifier{}
	w := StartNotificationWorker(context.Background(), dispatcher, notifier, nil)

	ctx := context.Background()
	require.NoError(t, dispatcher.Publish(ctx, events.New(events.EventProjectReviewed, "p-1", "a", nil)))
	require.NoError(t, dispatcher.Publish(ctx, events.New(events.EventUnlockReviewed, "u-1", "a", nil)))
	require.NoError(t, dispatcher.Publish(ctx, events.New(events.EventInvestmentCreated, "i-1", "a", nil)))
	w.Stop()

	assert.Equal(t, []string{"p-1", "i-1"}, notifier.seen)
}

func TestNotificationWorker_LogsHandlerErrors(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	dispatcher := events.NewInMemoryDispatcher()
	notifier := &recordingNotifier{err: errors.New("smtp down")}
	w := StartNotificationWorker(context.Background(), dispatcher, notifier, zap.New(core))

	require.NoError(t, dispatcher.Publish(context.Background(), events.New(events.EventProjectReviewed, "p-1", "a", nil)))
	w.Stop()

	assert.Equal(t, 1, logs.FilterMessage("notification failed").Len())
}

func TestNotificationWorker_StopIsIdempotentAndDropsLateEvents(t *testing.T) {
	dispatcher := events.NewInMemoryDispatcher()
	notifier := &recordingNotifier{}
	w := StartNotificationWorker(context.Background(), dispatcher, notifier, nil)
	w.Stop()
	w.Stop()

	require.NoError(t, dispatcher.Publish(context.Background(), events.New(events.EventProjectReviewed, "late", "a", nil)))
	assert.Empty(t, notifier.seen)
}
