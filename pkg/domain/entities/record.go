package entities

import (
	"fmt"
	"strings"
	"time"
)

// Quantity represents an integer count of stock units
type Quantity int64

// Column labels of the persisted inventory table
const (
	ColumnCategory         = "Item Category"
	ColumnName             = "Item Name"
	ColumnExpirationDate   = "Expiration Date"
	ColumnManufacturer     = "Manufacturer"
	ColumnSKU              = "SKU"
	ColumnQuantityInStock  = "Quantity in Stock"
	ColumnReorderThreshold = "Reorder Threshold"
	ColumnOrderQuantity    = "Order Quantity"
)

// Columns lists the persisted columns in canonical order
var Columns = []string{
	ColumnCategory,
	ColumnName,
	ColumnExpirationDate,
	ColumnManufacturer,
	ColumnSKU,
	ColumnQuantityInStock,
	ColumnReorderThreshold,
	ColumnOrderQuantity,
}

// Column defaults applied when a source omits the column or leaves the cell empty
const (
	DefaultReorderThreshold Quantity = 1
	DefaultOrderQuantity    Quantity = 1
)

// DateLayout is the interchange format for expiration dates
const DateLayout = "2006-01-02"

// InventoryRecord is one stock-keeping entry of the inventory table
type InventoryRecord struct {
	Category         string
	Name             string
	ExpirationDate   time.Time // zero when unknown
	Manufacturer     string
	SKU              string
	QuantityInStock  Quantity
	ReorderThreshold Quantity
	OrderQuantity    Quantity
}

// NewInventoryRecord creates a validated InventoryRecord
func NewInventoryRecord(category, name, manufacturer, sku string, expiration time.Time, inStock, threshold, orderQty Quantity) (*InventoryRecord, error) {
	if strings.TrimSpace(sku) == "" && strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: record needs a SKU or an item name", ErrInvalidInput)
	}
	if inStock < 0 {
		return nil, fmt.Errorf("%w: quantity in stock cannot be negative, got %d", ErrInvalidInput, inStock)
	}
	if threshold < 0 {
		return nil, fmt.Errorf("%w: reorder threshold cannot be negative, got %d", ErrInvalidInput, threshold)
	}
	if orderQty < 0 {
		return nil, fmt.Errorf("%w: order quantity cannot be negative, got %d", ErrInvalidInput, orderQty)
	}

	return &InventoryRecord{
		Category:         category,
		Name:             name,
		ExpirationDate:   TruncateToDate(expiration),
		Manufacturer:     manufacturer,
		SKU:              sku,
		QuantityInStock:  inStock,
		ReorderThreshold: threshold,
		OrderQuantity:    orderQty,
	}, nil
}

// NeedsReorder reports whether stock has fallen to or below the reorder threshold.
// It is derived on every read and never persisted.
func (r InventoryRecord) NeedsReorder() bool {
	return r.QuantityInStock <= r.ReorderThreshold
}

// HasExpiration reports whether the expiration date is known
func (r InventoryRecord) HasExpiration() bool {
	return !r.ExpirationDate.IsZero()
}

// ExpiresWithin reports whether the record expires on or before today+horizon.
// Already expired records count; records with an unknown date never do.
func (r InventoryRecord) ExpiresWithin(today time.Time, horizon time.Duration) bool {
	if !r.HasExpiration() {
		return false
	}
	cutoff := TruncateToDate(today).Add(horizon)
	return !r.ExpirationDate.After(cutoff)
}

// ExpirationString formats the expiration date for persistence, empty when unknown
func (r InventoryRecord) ExpirationString() string {
	if !r.HasExpiration() {
		return ""
	}
	return r.ExpirationDate.Format(DateLayout)
}

// TruncateToDate drops the clock part of t, keeping the calendar date in UTC
func TruncateToDate(t time.Time) time.Time {
	if t.IsZero() {
		return time.Time{}
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
