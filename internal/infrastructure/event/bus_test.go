package event

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/dukkan/backend/internal/domain/shared"
)

type testEvent struct {
	shared.BaseDomainEvent
}

func newTestEvent(eventType string) *testEvent {
	return &testEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, "sale", uuid.New(), uuid.New()),
	}
}

type recordingHandler struct {
	types    []string
	received []shared.DomainEvent
	err      error
	panics   bool
}

func (h *recordingHandler) Handle(_ context.Context, evt shared.DomainEvent) error {
	if h.panics {
		panic("handler blew up")
	}
	h.received = append(h.received, evt)
	return h.err
}

func (h *recordingHandler) EventTypes() []string { return h.types }

func TestInMemoryEventBus_RoutesByType(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())

	saleHandler := &recordingHandler{types: []string{"sale.completed"}}
	quoteHandler := &recordingHandler{types: []string{"quote.accepted"}}
	bus.Subscribe(saleHandler)
	bus.Subscribe(quoteHandler)

	evt := newTestEvent("sale.completed")
	require.NoError(t, bus.Publish(context.Background(), evt))

	require.Len(t, saleHandler.received, 1)
	assert.Equal(t, evt.EventID(), saleHandler.received[0].EventID())
	assert.Empty(t, quoteHandler.received)
}

func TestInMemoryEventBus_CatchAllReceivesEverything(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())

	audit := &recordingHandler{}
	bus.Subscribe(audit)

	require.NoError(t, bus.Publish(context.Background(),
		newTestEvent("sale.completed"),
		newTestEvent("quote.accepted"),
	))
	assert.Len(t, audit.received, 2)
}

func TestInMemoryEventBus_ExplicitTypesOverrideHandler(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())

	handler := &recordingHandler{types: []string{"sale.completed"}}
	bus.Subscribe(handler, "sale.cancelled")

	require.NoError(t, bus.Publish(context.Background(), newTestEvent("sale.completed")))
	assert.Empty(t, handler.received)

	require.NoError(t, bus.Publish(context.Background(), newTestEvent("sale.cancelled")))
	assert.Len(t, handler.received, 1)
}

func TestInMemoryEventBus_HandlerErrorDoesNotFailPublish(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())

	failing := &recordingHandler{types: []string{"sale.completed"}, err: errors.New("projection down")}
	healthy := &recordingHandler{types: []string{"sale.completed"}}
	bus.Subscribe(failing)
	bus.Subscribe(healthy)

	require.NoError(t, bus.Publish(context.Background(), newTestEvent("sale.completed")))
	assert.Len(t, healthy.received, 1)
}

func TestInMemoryEventBus_HandlerPanicIsContained(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())

	bus.Subscribe(&recordingHandler{types: []string{"sale.completed"}, panics: true})
	healthy := &recordingHandler{types: []string{"sale.completed"}}
	bus.Subscribe(healthy)

	require.NoError(t, bus.Publish(context.Background(), newTestEvent("sale.completed")))
	assert.Len(t, healthy.received, 1)
}

func TestInMemoryEventBus_Unsubscribe(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())

	handler := &recordingHandler{types: []string{"sale.completed"}}
	bus.Subscribe(handler)
	bus.Unsubscribe(handler)

	require.NoError(t, bus.Publish(context.Background(), newTestEvent("sale.completed")))
	assert.Empty(t, handler.received)
}
