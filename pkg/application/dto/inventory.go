package dto

import (
	"fmt"
	"time"

	"github.com/vsinha/labstock/pkg/domain/entities"
)

// Outcome classifies the result of a shipment receipt
type Outcome int

const (
	OutcomeUpdated Outcome = iota
	OutcomeCreated
	OutcomeNotFound
	OutcomeNeedsDetails
)

// String method for Outcome enum
func (o Outcome) String() string {
	switch o {
	case OutcomeUpdated:
		return "updated"
	case OutcomeCreated:
		return "created"
	case OutcomeNotFound:
		return "not_found"
	case OutcomeNeedsDetails:
		return "needs_details"
	default:
		return "unknown"
	}
}

// MarshalText renders the outcome by name in JSON payloads
func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// Mutated reports whether the outcome changed the in-memory table
func (o Outcome) Mutated() bool {
	return o == OutcomeUpdated || o == OutcomeCreated
}

// ReceiveResult contains the outcome of one shipment receipt
type ReceiveResult struct {
	Outcome      Outcome
	Identifier   string
	Quantity     entities.Quantity
	ReceivedDate time.Time
	Record       *entities.InventoryRecord // the updated or created record; nil otherwise
	Persisted    bool                      // the table was durably saved
	Warning      string                    // set when the change is only recorded in memory
	SaveErr      error
}

// Message renders a one-line operator message for the result
func (r *ReceiveResult) Message() string {
	switch r.Outcome {
	case OutcomeUpdated:
		return fmt.Sprintf("Received %d of %s; stock is now %d", r.Quantity, r.Identifier, r.Record.QuantityInStock)
	case OutcomeCreated:
		return fmt.Sprintf("Added new item %s with %d in stock", r.Identifier, r.Quantity)
	case OutcomeNotFound:
		return fmt.Sprintf("Item %s not found in inventory", r.Identifier)
	case OutcomeNeedsDetails:
		return fmt.Sprintf("Item %s not found; enter the new item's details to add it", r.Identifier)
	default:
		return ""
	}
}

// Summary contains the dashboard metrics over a record set
type Summary struct {
	TotalItems        int
	LowStockItems     int
	ExpiringSoonItems int
	HorizonDays       int
	AsOf              time.Time
}

// Options lists the distinct filter values of a table
type Options struct {
	Categories    []string
	Manufacturers []string
}

// Activity is one entry of the session history
type Activity struct {
	Type        string
	Stream      string
	Version     int
	At          time.Time
	Description string
}
