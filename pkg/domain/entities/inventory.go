package entities

import (
	"fmt"
	"sort"
	"strings"
)

// IdentifierField selects which record field identifies a record on receive
type IdentifierField int

const (
	BySKU IdentifierField = iota
	ByName
)

// String method for IdentifierField enum
func (f IdentifierField) String() string {
	switch f {
	case BySKU:
		return "sku"
	case ByName:
		return "name"
	default:
		return "unknown"
	}
}

// ParseIdentifierField parses the configuration spelling of an IdentifierField
func ParseIdentifierField(s string) (IdentifierField, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "sku":
		return BySKU, nil
	case "name", "item name":
		return ByName, nil
	default:
		return BySKU, fmt.Errorf("invalid identifier field: %s (expected: sku or name)", s)
	}
}

// Key returns the identifying value of r under this field
func (f IdentifierField) Key(r *InventoryRecord) string {
	if f == ByName {
		return r.Name
	}
	return r.SKU
}

// Inventory is the in-memory inventory table
type Inventory struct {
	Records []*InventoryRecord
}

// NewInventory creates an inventory holding the given records
func NewInventory(records ...*InventoryRecord) *Inventory {
	inv := &Inventory{Records: make([]*InventoryRecord, 0, len(records))}
	inv.Records = append(inv.Records, records...)
	return inv
}

// Len returns the number of records
func (inv *Inventory) Len() int {
	return len(inv.Records)
}

// Find returns the first record whose identifying field equals id
func (inv *Inventory) Find(field IdentifierField, id string) (*InventoryRecord, bool) {
	id = strings.TrimSpace(id)
	for _, r := range inv.Records {
		if strings.TrimSpace(field.Key(r)) == id {
			return r, true
		}
	}
	return nil, false
}

// Append adds a record, rejecting identifiers already present under field
func (inv *Inventory) Append(r *InventoryRecord, field IdentifierField) error {
	key := strings.TrimSpace(field.Key(r))
	if key == "" {
		return fmt.Errorf("%w: new record has an empty %s", ErrInvalidInput, field)
	}
	if _, exists := inv.Find(field, key); exists {
		return fmt.Errorf("%w: %s %q already exists", ErrDuplicateIdentifier, field, key)
	}
	inv.Records = append(inv.Records, r)
	return nil
}

// Clone returns a deep copy so callers cannot alias each other's records
func (inv *Inventory) Clone() *Inventory {
	if inv == nil {
		return NewInventory()
	}
	out := &Inventory{Records: make([]*InventoryRecord, len(inv.Records))}
	for i, r := range inv.Records {
		copied := *r
		out.Records[i] = &copied
	}
	return out
}

// Categories returns the distinct non-empty categories, sorted
func (inv *Inventory) Categories() []string {
	return inv.distinct(func(r *InventoryRecord) string { return r.Category })
}

// Manufacturers returns the distinct non-empty manufacturers, sorted
func (inv *Inventory) Manufacturers() []string {
	return inv.distinct(func(r *InventoryRecord) string { return r.Manufacturer })
}

func (inv *Inventory) distinct(get func(*InventoryRecord) string) []string {
	seen := make(map[string]struct{})
	values := []string{}
	for _, r := range inv.Records {
		v := get(r)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		values = append(values, v)
	}
	sort.Strings(values)
	return values
}
