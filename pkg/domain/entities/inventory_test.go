package entities

import (
	"errors"
	"reflect"
	"testing"
)

func sampleInventory() *Inventory {
	return NewInventory(
		&InventoryRecord{Category: "Reagents", Name: "Ethanol", Manufacturer: "Acme", SKU: "ETH-1", QuantityInStock: 5, ReorderThreshold: 2, OrderQuantity: 10},
		&InventoryRecord{Category: "Consumables", Name: "Gloves M", Manufacturer: "Safeguard", SKU: "GLV-M", QuantityInStock: 1, ReorderThreshold: 1, OrderQuantity: 4},
		&InventoryRecord{Category: "Reagents", Name: "Buffer", Manufacturer: "Acme", SKU: "BUF-7", QuantityInStock: 0, ReorderThreshold: 1, OrderQuantity: 1},
	)
}

func TestInventory_Find(t *testing.T) {
	inv := sampleInventory()

	r, ok := inv.Find(BySKU, "GLV-M")
	if !ok || r.Name != "Gloves M" {
		t.Fatalf("Expected to find GLV-M by SKU, got %v %v", r, ok)
	}

	r, ok = inv.Find(ByName, " Buffer ")
	if !ok || r.SKU != "BUF-7" {
		t.Fatalf("Expected to find Buffer by name, got %v %v", r, ok)
	}

	if _, ok := inv.Find(BySKU, "Buffer"); ok {
		t.Error("Expected name not to match when looking up by SKU")
	}
}

func TestInventory_Append(t *testing.T) {
	inv := sampleInventory()

	err := inv.Append(&InventoryRecord{Name: "Pipette tips", SKU: "PT-200"}, BySKU)
	if err != nil {
		t.Fatalf("Expected append to succeed: %v", err)
	}
	if inv.Len() != 4 {
		t.Errorf("Expected 4 records, got %d", inv.Len())
	}

	err = inv.Append(&InventoryRecord{Name: "Other", SKU: "ETH-1"}, BySKU)
	if !errors.Is(err, ErrDuplicateIdentifier) {
		t.Errorf("Expected ErrDuplicateIdentifier, got %v", err)
	}

	err = inv.Append(&InventoryRecord{Name: "Gloves M", SKU: "NEW"}, ByName)
	if !errors.Is(err, ErrDuplicateIdentifier) {
		t.Errorf("Expected ErrDuplicateIdentifier for name collision, got %v", err)
	}

	err = inv.Append(&InventoryRecord{Name: "No sku"}, BySKU)
	if !errors.Is(err, ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput for empty SKU, got %v", err)
	}
	if inv.Len() != 4 {
		t.Errorf("Expected rejected appends to leave 4 records, got %d", inv.Len())
	}
}

func TestInventory_Clone(t *testing.T) {
	inv := sampleInventory()
	clone := inv.Clone()

	clone.Records[0].QuantityInStock = 99
	if inv.Records[0].QuantityInStock != 5 {
		t.Errorf("Expected original untouched by clone mutation, got %d", inv.Records[0].QuantityInStock)
	}

	var nilInv *Inventory
	if nilInv.Clone().Len() != 0 {
		t.Error("Expected clone of nil inventory to be empty")
	}
}

func TestInventory_DistinctValues(t *testing.T) {
	inv := sampleInventory()

	if got := inv.Categories(); !reflect.DeepEqual(got, []string{"Consumables", "Reagents"}) {
		t.Errorf("Unexpected categories: %v", got)
	}
	if got := inv.Manufacturers(); !reflect.DeepEqual(got, []string{"Acme", "Safeguard"}) {
		t.Errorf("Unexpected manufacturers: %v", got)
	}
}

func TestParseIdentifierField(t *testing.T) {
	tests := []struct {
		input    string
		expected IdentifierField
		wantErr  bool
	}{
		{"", BySKU, false},
		{"SKU", BySKU, false},
		{"name", ByName, false},
		{"Item Name", ByName, false},
		{"barcode", BySKU, true},
	}

	for _, tt := range tests {
		got, err := ParseIdentifierField(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseIdentifierField(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
		}
		if got != tt.expected {
			t.Errorf("ParseIdentifierField(%q) = %v, want %v", tt.input, got, tt.expected)
		}
	}
}
