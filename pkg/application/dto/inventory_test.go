package dto

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/vsinha/labstock/pkg/domain/entities"
)

func TestOutcome_String(t *testing.T) {
	tests := []struct {
		outcome  Outcome
		expected string
		mutated  bool
	}{
		{OutcomeUpdated, "updated", true},
		{OutcomeCreated, "created", true},
		{OutcomeNotFound, "not_found", false},
		{OutcomeNeedsDetails, "needs_details", false},
	}

	for _, tt := range tests {
		if got := tt.outcome.String(); got != tt.expected {
			t.Errorf("Expected %s, got %s", tt.expected, got)
		}
		if got := tt.outcome.Mutated(); got != tt.mutated {
			t.Errorf("%s: Expected mutated %v, got %v", tt.expected, tt.mutated, got)
		}
	}
}

func TestReceiveView_JSON(t *testing.T) {
	record := &entities.InventoryRecord{SKU: "GLV-M", QuantityInStock: 1, ReorderThreshold: 1}
	result := &ReceiveResult{
		Outcome:      OutcomeUpdated,
		Identifier:   "GLV-M",
		Quantity:     1,
		ReceivedDate: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		Record:       record,
		SaveErr:      errors.New("disk full"),
		Warning:      "change recorded in memory but not saved: disk full",
	}

	data, err := json.Marshal(NewReceiveView(result))
	if err != nil {
		t.Fatalf("Failed to marshal view: %v", err)
	}

	body := string(data)
	for _, want := range []string{`"outcome":"updated"`, `"persisted":false`, `"needs_reorder":true`, `"received_date":"2025-06-01"`} {
		if !strings.Contains(body, want) {
			t.Errorf("Expected %s in %s", want, body)
		}
	}
}

func TestReceiveResult_Message(t *testing.T) {
	result := &ReceiveResult{Outcome: OutcomeNotFound, Identifier: "NOPE"}
	if got := result.Message(); got != "Item NOPE not found in inventory" {
		t.Errorf("Unexpected message: %s", got)
	}
}
