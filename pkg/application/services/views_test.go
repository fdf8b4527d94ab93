package services

import (
	"testing"
	"time"

	"github.com/vsinha/labstock/pkg/domain/entities"
	testinghelpers "github.com/vsinha/labstock/pkg/infrastructure/testing"
)

func skus(records []*entities.InventoryRecord) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.SKU
	}
	return out
}

func TestFilter(t *testing.T) {
	records := testinghelpers.BuildLabInventory()
	today := testinghelpers.Today

	tests := []struct {
		name     string
		criteria FilterCriteria
		expected []string
	}{
		{"empty criteria", FilterCriteria{}, []string{"ETH-500", "GLV-M", "PIP-10", "AGR-1"}},
		{"category", FilterCriteria{Categories: []string{"Consumables"}}, []string{"GLV-M", "PIP-10"}},
		{"manufacturer any-of", FilterCriteria{Manufacturers: []string{"Sigma", "Safeguard"}}, []string{"ETH-500", "GLV-M", "AGR-1"}},
		{"category and manufacturer", FilterCriteria{Categories: []string{"Reagents"}, Manufacturers: []string{"Eppendorf"}}, []string{}},
		{"window excludes unknown dates", FilterCriteria{ExpiresFrom: today.AddDate(0, 0, -30), ExpiresTo: today.AddDate(0, 0, 60)}, []string{"ETH-500", "GLV-M", "AGR-1"}},
		{"window bounds inclusive", FilterCriteria{ExpiresFrom: today.AddDate(0, 0, 10), ExpiresTo: today.AddDate(0, 0, 40)}, []string{"ETH-500", "GLV-M"}},
		{"open-ended window", FilterCriteria{ExpiresTo: today}, []string{"AGR-1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := skus(Filter(records, tt.criteria))
			if len(got) != len(tt.expected) {
				t.Fatalf("Expected %v, got %v", tt.expected, got)
			}
			for i := range got {
				if got[i] != tt.expected[i] {
					t.Errorf("Expected %v, got %v", tt.expected, got)
					break
				}
			}
		})
	}
}

func TestSummarize(t *testing.T) {
	summary := Summarize(testinghelpers.BuildLabInventory(), testinghelpers.Today, 30*24*time.Hour)

	if summary.TotalItems != 4 {
		t.Errorf("Expected 4 total items, got %d", summary.TotalItems)
	}
	// GLV-M at threshold, PIP-10 below
	if summary.LowStockItems != 2 {
		t.Errorf("Expected 2 low stock items, got %d", summary.LowStockItems)
	}
	// ETH-500 in 10 days, AGR-1 already expired; GLV-M at 40 days and PIP-10 undated are not counted
	if summary.ExpiringSoonItems != 2 {
		t.Errorf("Expected 2 expiring soon items, got %d", summary.ExpiringSoonItems)
	}
	if summary.HorizonDays != 30 {
		t.Errorf("Expected horizon 30 days, got %d", summary.HorizonDays)
	}
}

func TestSummarize_ExpiryHorizonBoundary(t *testing.T) {
	today := time.Date(2025, 6, 1, 9, 30, 0, 0, time.UTC)
	horizon := 30 * 24 * time.Hour

	tests := []struct {
		daysOut  int
		expected int
	}{
		{10, 1},
		{30, 1},
		{31, 0},
		{40, 0},
	}

	for _, tt := range tests {
		records := []*entities.InventoryRecord{{SKU: "X", ExpirationDate: entities.TruncateToDate(today).AddDate(0, 0, tt.daysOut)}}
		got := Summarize(records, today, horizon).ExpiringSoonItems
		if got != tt.expected {
			t.Errorf("%d days out: Expected %d expiring, got %d", tt.daysOut, tt.expected, got)
		}
	}
}

func TestAlerts(t *testing.T) {
	records := []*entities.InventoryRecord{
		{SKU: "AT", QuantityInStock: 1, ReorderThreshold: 1},
		{SKU: "ABOVE", QuantityInStock: 2, ReorderThreshold: 1},
		{SKU: "EMPTY", QuantityInStock: 0, ReorderThreshold: 0},
	}

	got := skus(Alerts(records))
	if len(got) != 2 || got[0] != "AT" || got[1] != "EMPTY" {
		t.Errorf("Expected [AT EMPTY], got %v", got)
	}

	for _, r := range records {
		if r.NeedsReorder() != (r.QuantityInStock <= r.ReorderThreshold) {
			t.Errorf("needs-reorder inconsistent for %s", r.SKU)
		}
	}
}

func TestExpiringSoon(t *testing.T) {
	got := skus(ExpiringSoon(testinghelpers.BuildLabInventory(), testinghelpers.Today, 30*24*time.Hour))
	if len(got) != 2 || got[0] != "ETH-500" || got[1] != "AGR-1" {
		t.Errorf("Expected [ETH-500 AGR-1], got %v", got)
	}
}

func TestOptionsFor(t *testing.T) {
	options := OptionsFor(entities.NewInventory(testinghelpers.BuildLabInventory()...))

	if len(options.Categories) != 2 || options.Categories[0] != "Consumables" {
		t.Errorf("Expected sorted categories [Consumables Reagents], got %v", options.Categories)
	}
	if len(options.Manufacturers) != 3 {
		t.Errorf("Expected 3 manufacturers, got %v", options.Manufacturers)
	}
}
