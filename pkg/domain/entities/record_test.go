package entities

import (
	"errors"
	"testing"
	"time"
)

func TestInventoryRecord_Validation(t *testing.T) {
	expires := time.Date(2026, 5, 1, 15, 30, 0, 0, time.UTC)

	valid, err := NewInventoryRecord("Reagents", "Ethanol 70%", "Acme", "ETH-70", expires, 4, 2, 10)
	if err != nil {
		t.Fatalf("Expected valid record creation to succeed: %v", err)
	}
	if valid.ExpirationDate != time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC) {
		t.Errorf("Expected expiration truncated to date, got %v", valid.ExpirationDate)
	}

	testCases := []struct {
		name        string
		sku         string
		itemName    string
		inStock     Quantity
		threshold   Quantity
		orderQty    Quantity
		expectError string
	}{
		{"no identifier", "", "", 1, 1, 1, "invalid input: record needs a SKU or an item name"},
		{"negative stock", "SKU1", "Gloves", -1, 1, 1, "invalid input: quantity in stock cannot be negative, got -1"},
		{"negative threshold", "SKU1", "Gloves", 1, -2, 1, "invalid input: reorder threshold cannot be negative, got -2"},
		{"negative order quantity", "SKU1", "Gloves", 1, 1, -3, "invalid input: order quantity cannot be negative, got -3"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewInventoryRecord("Cat", tc.itemName, "Maker", tc.sku, time.Time{}, tc.inStock, tc.threshold, tc.orderQty)
			if err == nil {
				t.Fatalf("Expected error for %s, but got none", tc.name)
			}
			if !errors.Is(err, ErrInvalidInput) {
				t.Errorf("Expected ErrInvalidInput, got %v", err)
			}
			if err.Error() != tc.expectError {
				t.Errorf("Expected error '%s', got '%s'", tc.expectError, err.Error())
			}
		})
	}
}

func TestInventoryRecord_NeedsReorder(t *testing.T) {
	tests := []struct {
		name      string
		inStock   Quantity
		threshold Quantity
		expected  bool
	}{
		{"at_threshold", 1, 1, true},
		{"above_threshold", 2, 1, false},
		{"below_threshold", 0, 1, true},
		{"zero_threshold_empty", 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := InventoryRecord{QuantityInStock: tt.inStock, ReorderThreshold: tt.threshold}
			if got := r.NeedsReorder(); got != tt.expected {
				t.Errorf("Expected NeedsReorder=%v for stock %d threshold %d, got %v", tt.expected, tt.inStock, tt.threshold, got)
			}
		})
	}
}

func TestInventoryRecord_ExpiresWithin(t *testing.T) {
	today := time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)
	horizon := 30 * 24 * time.Hour

	tests := []struct {
		name       string
		expiration time.Time
		expected   bool
	}{
		{"ten_days_out", today.AddDate(0, 0, 10), true},
		{"forty_days_out", today.AddDate(0, 0, 40), false},
		{"exactly_on_horizon", today.AddDate(0, 0, 30), true},
		{"already_expired", today.AddDate(0, 0, -3), true},
		{"unknown_date", time.Time{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := InventoryRecord{ExpirationDate: TruncateToDate(tt.expiration)}
			if got := r.ExpiresWithin(today, horizon); got != tt.expected {
				t.Errorf("Expected ExpiresWithin=%v, got %v", tt.expected, got)
			}
		})
	}
}

func TestInventoryRecord_ExpirationString(t *testing.T) {
	r := InventoryRecord{}
	if s := r.ExpirationString(); s != "" {
		t.Errorf("Expected empty string for unknown date, got %q", s)
	}

	r.ExpirationDate = time.Date(2027, 1, 9, 0, 0, 0, 0, time.UTC)
	if s := r.ExpirationString(); s != "2027-01-09" {
		t.Errorf("Expected 2027-01-09, got %q", s)
	}
}
