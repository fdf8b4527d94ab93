package events

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/vsinha/labstock/pkg/domain/entities"
)

type recordingHandler struct {
	types  map[string]bool
	events []Event
	err    error
}

func (h *recordingHandler) CanHandle(eventType string) bool { return h.types[eventType] }

func (h *recordingHandler) Handle(event Event) error {
	h.events = append(h.events, event)
	return h.err
}

func TestInMemoryEventStore_AppendAndRead(t *testing.T) {
	store := NewInMemoryEventStore(0, nil)
	record := &entities.InventoryRecord{SKU: "ETH-1", QuantityInStock: 7, ReorderThreshold: 2}

	require.NoError(t, store.AppendEvent("ETH-1", NewStockReceivedEvent("ETH-1", 5, record, time.Now())))
	require.NoError(t, store.AppendEvent("ETH-1", NewStockReceivedEvent("ETH-1", 1, record, time.Now())))
	require.NoError(t, store.AppendEvent("inventory", NewInventoryReloadedEvent(3, "file changed")))

	stream, err := store.ReadEvents("ETH-1", 0)
	require.NoError(t, err)
	require.Len(t, stream, 2)
	assert.Equal(t, 1, stream[0].Version())
	assert.Equal(t, 2, stream[1].Version())
	assert.NotEmpty(t, stream[0].ID())
	assert.NotEqual(t, stream[0].ID(), stream[1].ID())

	later, err := store.ReadEvents("ETH-1", 2)
	require.NoError(t, err)
	assert.Len(t, later, 1)

	all, err := store.ReadAllEvents(1)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, InventoryReloadedEvent, all[1].Type())

	none, err := store.ReadEvents("missing", 1)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestInMemoryEventStore_Limit(t *testing.T) {
	store := NewInMemoryEventStore(2, nil)
	for i := 0; i < 5; i++ {
		require.NoError(t, store.AppendEvent("inventory", NewInventoryReloadedEvent(i, "tick")))
	}

	all, err := store.ReadAllEvents(0)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, 4, all[1].Data().(InventoryReloaded).Records)

	stream, err := store.ReadEvents("inventory", 0)
	require.NoError(t, err)
	require.Len(t, stream, 2, "evicted events leave their stream too")
	assert.Equal(t, 4, stream[0].Version())
	assert.Equal(t, 5, stream[1].Version())
}

func TestInMemoryEventStore_LimitAcrossStreams(t *testing.T) {
	store := NewInMemoryEventStore(3, nil)
	record := &entities.InventoryRecord{SKU: "GLV-M", QuantityInStock: 2, ReorderThreshold: 1}

	require.NoError(t, store.AppendEvent("GLV-M", NewStockReceivedEvent("GLV-M", 1, record, time.Now())))
	require.NoError(t, store.AppendEvent("ETH-500", NewStockReceivedEvent("ETH-500", 1, record, time.Now())))
	require.NoError(t, store.AppendEvent("GLV-M", NewStockReceivedEvent("GLV-M", 1, record, time.Now())))
	require.NoError(t, store.AppendEvent("inventory", NewInventoryReloadedEvent(4, "manual")))
	require.NoError(t, store.AppendEvent("inventory", NewInventoryReloadedEvent(4, "manual")))

	tests := []struct {
		stream      string
		fromVersion int
		versions    []int
	}{
		{"GLV-M", 0, []int{2}},
		{"GLV-M", 2, []int{2}},
		{"GLV-M", 3, nil},
		{"ETH-500", 0, nil},
		{"inventory", 2, []int{2}},
	}

	for _, tt := range tests {
		events, err := store.ReadEvents(tt.stream, tt.fromVersion)
		require.NoError(t, err)
		var versions []int
		for _, e := range events {
			versions = append(versions, e.Version())
		}
		assert.Equal(t, tt.versions, versions, "%s from version %d", tt.stream, tt.fromVersion)
	}

	// A new event on a drained stream continues its numbering
	require.NoError(t, store.AppendEvent("ETH-500", NewStockReceivedEvent("ETH-500", 1, record, time.Now())))
	events, err := store.ReadEvents("ETH-500", 0)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, 2, events[0].Version())

	all, err := store.ReadAllEvents(0)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestDescribe(t *testing.T) {
	record := &entities.InventoryRecord{Name: "Gloves", SKU: "GLV-M", QuantityInStock: 6, ReorderThreshold: 1}

	tests := []struct {
		event    Event
		expected string
	}{
		{NewStockReceivedEvent("GLV-M", 5, record, time.Now()), "Received 5 of GLV-M, stock now 6"},
		{NewRecordCreatedEvent("GLV-M", record, time.Now()), "Created GLV-M with 6 in stock"},
		{NewInventoryReloadedEvent(4, "manual"), "Reloaded 4 records (manual)"},
		{NewSaveFailedEvent("GLV-M", errors.New("read-only")), "GLV-M not saved: read-only"},
		{NewEvent("order.planned", "x", nil), "order.planned"},
	}

	for _, tt := range tests {
		if got := Describe(tt.event); got != tt.expected {
			t.Errorf("Expected %q, got %q", tt.expected, got)
		}
	}
}

func TestInMemoryEventStore_SubscribersNotifiedSynchronously(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	store := NewInMemoryEventStore(0, zap.New(core))

	handler := &recordingHandler{types: map[string]bool{SaveFailedEvent: true}, err: errors.New("boom")}
	require.NoError(t, store.Subscribe([]string{SaveFailedEvent}, handler))

	require.NoError(t, store.AppendEvent("ETH-1", NewSaveFailedEvent("ETH-1", errors.New("disk full"))))
	require.NoError(t, store.AppendEvent("inventory", NewInventoryReloadedEvent(1, "manual")))

	require.Len(t, handler.events, 1, "only subscribed types are delivered")
	assert.Equal(t, "disk full", handler.events[0].Data().(SaveFailed).Error)
	assert.Equal(t, 1, logs.FilterMessage("event handler failed").Len())
}

func TestLogHandler(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	handler := NewLogHandler(zap.New(core))

	assert.True(t, handler.CanHandle(StockReceivedEvent))
	assert.False(t, handler.CanHandle("order.planned"))

	record := &entities.InventoryRecord{Name: "Gloves", SKU: "GLV", QuantityInStock: 1, ReorderThreshold: 1}
	require.NoError(t, handler.Handle(NewStockReceivedEvent("GLV", 1, record, time.Now())))
	require.NoError(t, handler.Handle(NewRecordCreatedEvent("GLV", record, time.Now())))
	require.NoError(t, handler.Handle(NewSaveFailedEvent("GLV", errors.New("read-only"))))

	assert.Equal(t, 1, logs.FilterMessage("stock received").Len())
	assert.Equal(t, 1, logs.FilterMessage("inventory record created").Len())

	warnings := logs.FilterMessage("change recorded in memory but not saved").All()
	require.Len(t, warnings, 1)
	assert.Equal(t, zap.WarnLevel, warnings[0].Level)
}
