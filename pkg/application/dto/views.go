package dto

import (
	"time"

	"github.com/vsinha/labstock/pkg/domain/entities"
)

// RecordView is the external rendering of an inventory record, including the
// derived reorder flag
type RecordView struct {
	Category         string            `json:"category"`
	Name             string            `json:"name"`
	ExpirationDate   string            `json:"expiration_date,omitempty"`
	Manufacturer     string            `json:"manufacturer"`
	SKU              string            `json:"sku"`
	QuantityInStock  entities.Quantity `json:"quantity_in_stock"`
	ReorderThreshold entities.Quantity `json:"reorder_threshold"`
	OrderQuantity    entities.Quantity `json:"order_quantity"`
	NeedsReorder     bool              `json:"needs_reorder"`
}

// NewRecordView renders r
func NewRecordView(r entities.InventoryRecord) RecordView {
	return RecordView{
		Category:         r.Category,
		Name:             r.Name,
		ExpirationDate:   r.ExpirationString(),
		Manufacturer:     r.Manufacturer,
		SKU:              r.SKU,
		QuantityInStock:  r.QuantityInStock,
		ReorderThreshold: r.ReorderThreshold,
		OrderQuantity:    r.OrderQuantity,
		NeedsReorder:     r.NeedsReorder(),
	}
}

// NewRecordViews renders records in order
func NewRecordViews(records []entities.InventoryRecord) []RecordView {
	views := make([]RecordView, len(records))
	for i, r := range records {
		views[i] = NewRecordView(r)
	}
	return views
}

// SummaryView is the external rendering of a Summary
type SummaryView struct {
	TotalItems        int    `json:"total_items"`
	LowStockItems     int    `json:"low_stock_items"`
	ExpiringSoonItems int    `json:"expiring_soon_items"`
	HorizonDays       int    `json:"horizon_days"`
	AsOf              string `json:"as_of"`
}

// NewSummaryView renders s
func NewSummaryView(s Summary) SummaryView {
	return SummaryView{
		TotalItems:        s.TotalItems,
		LowStockItems:     s.LowStockItems,
		ExpiringSoonItems: s.ExpiringSoonItems,
		HorizonDays:       s.HorizonDays,
		AsOf:              s.AsOf.Format(entities.DateLayout),
	}
}

// ReceiveView is the external rendering of a ReceiveResult
type ReceiveView struct {
	Outcome      Outcome     `json:"outcome"`
	Identifier   string      `json:"identifier"`
	Quantity     int64       `json:"quantity"`
	ReceivedDate string      `json:"received_date"`
	Message      string      `json:"message"`
	Record       *RecordView `json:"record,omitempty"`
	Persisted    bool        `json:"persisted"`
	Warning      string      `json:"warning,omitempty"`
}

// NewReceiveView renders r
func NewReceiveView(r *ReceiveResult) ReceiveView {
	view := ReceiveView{
		Outcome:      r.Outcome,
		Identifier:   r.Identifier,
		Quantity:     int64(r.Quantity),
		ReceivedDate: r.ReceivedDate.Format(entities.DateLayout),
		Message:      r.Message(),
		Persisted:    r.Persisted,
		Warning:      r.Warning,
	}
	if r.Record != nil {
		record := NewRecordView(*r.Record)
		view.Record = &record
	}
	return view
}

// ActivityView is the external rendering of an Activity
type ActivityView struct {
	Type        string `json:"type"`
	Stream      string `json:"stream"`
	Version     int    `json:"version"`
	At          string `json:"at"`
	Description string `json:"description"`
}

// NewActivityViews renders activity in order
func NewActivityViews(activity []Activity) []ActivityView {
	views := make([]ActivityView, len(activity))
	for i, a := range activity {
		views[i] = ActivityView{
			Type:        a.Type,
			Stream:      a.Stream,
			Version:     a.Version,
			At:          a.At.Format(time.RFC3339),
			Description: a.Description,
		}
	}
	return views
}
