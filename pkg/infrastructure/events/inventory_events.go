package events

import (
	"fmt"
	"time"

	"github.com/vsinha/labstock/pkg/domain/entities"
)

const (
	StockReceivedEvent     = "stock.received"
	RecordCreatedEvent     = "record.created"
	InventoryReloadedEvent = "inventory.reloaded"
	SaveFailedEvent        = "inventory.save_failed"
)

// AllInventoryEvents lists every event type published by the dashboard
var AllInventoryEvents = []string{
	StockReceivedEvent,
	RecordCreatedEvent,
	InventoryReloadedEvent,
	SaveFailedEvent,
}

type StockReceived struct {
	Identifier   string            `json:"identifier"`
	Quantity     entities.Quantity `json:"quantity"`
	NewStock     entities.Quantity `json:"new_stock"`
	ReceivedDate time.Time         `json:"received_date"`
	NeedsReorder bool              `json:"needs_reorder"`
}

type RecordCreated struct {
	Record       entities.InventoryRecord `json:"record"`
	ReceivedDate time.Time                `json:"received_date"`
}

type InventoryReloaded struct {
	Records int    `json:"records"`
	Reason  string `json:"reason"`
}

type SaveFailed struct {
	Identifier string `json:"identifier"`
	Error      string `json:"error"`
}

func NewStockReceivedEvent(identifier string, qty entities.Quantity, record *entities.InventoryRecord, received time.Time) Event {
	return NewEvent(StockReceivedEvent, identifier, StockReceived{
		Identifier:   identifier,
		Quantity:     qty,
		NewStock:     record.QuantityInStock,
		ReceivedDate: received,
		NeedsReorder: record.NeedsReorder(),
	})
}

func NewRecordCreatedEvent(identifier string, record *entities.InventoryRecord, received time.Time) Event {
	return NewEvent(RecordCreatedEvent, identifier, RecordCreated{
		Record:       *record,
		ReceivedDate: received,
	})
}

func NewInventoryReloadedEvent(records int, reason string) Event {
	return NewEvent(InventoryReloadedEvent, "inventory", InventoryReloaded{
		Records: records,
		Reason:  reason,
	})
}

func NewSaveFailedEvent(identifier string, err error) Event {
	return NewEvent(SaveFailedEvent, identifier, SaveFailed{
		Identifier: identifier,
		Error:      err.Error(),
	})
}

// Describe renders an event as a one-line activity entry
func Describe(event Event) string {
	switch data := event.Data().(type) {
	case StockReceived:
		return fmt.Sprintf("Received %d of %s, stock now %d", data.Quantity, data.Identifier, data.NewStock)
	case RecordCreated:
		return fmt.Sprintf("Created %s with %d in stock", event.StreamID(), data.Record.QuantityInStock)
	case InventoryReloaded:
		return fmt.Sprintf("Reloaded %d records (%s)", data.Records, data.Reason)
	case SaveFailed:
		return fmt.Sprintf("%s not saved: %s", data.Identifier, data.Error)
	default:
		return event.Type()
	}
}
