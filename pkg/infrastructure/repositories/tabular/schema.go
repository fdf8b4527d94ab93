// Package tabular maps header-labelled rows to inventory records and back.
// It is shared by the file-format codecs so every format applies the same
// column defaults, numeric coercion and date parsing.
package tabular

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vsinha/labstock/pkg/domain/entities"
)

// Defaults holds the values back-filled for missing or empty columns
type Defaults struct {
	ReorderThreshold entities.Quantity
	OrderQuantity    entities.Quantity
}

// StandardDefaults returns the stock column defaults
func StandardDefaults() Defaults {
	return Defaults{
		ReorderThreshold: entities.DefaultReorderThreshold,
		OrderQuantity:    entities.DefaultOrderQuantity,
	}
}

// Excel stores dates as days since 1899-12-30
var excelEpoch = time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)

const maxExcelSerial = 2958465 // 9999-12-31

var maxQuantity = decimal.NewFromInt(math.MaxInt64)

var dateLayouts = []string{
	entities.DateLayout,
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006/01/02",
	"01/02/2006",
	"1/2/2006",
	"01-02-06",
	"1/2/06",
}

// Decode builds an inventory from a header row and data rows.
// Columns are matched by label in any order; unknown columns are ignored.
func Decode(header []string, rows [][]string, defaults Defaults) (*entities.Inventory, error) {
	index := columnIndex(header)
	inv := entities.NewInventory()

	for i, row := range rows {
		if isBlank(row) {
			continue
		}

		record, err := decodeRow(row, index, defaults)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		inv.Records = append(inv.Records, record)
	}

	return inv, nil
}

// Encode renders an inventory as a header row plus data rows.
// Only persisted columns are written; NeedsReorder is derived and never stored.
func Encode(inv *entities.Inventory) ([]string, [][]string) {
	header := append([]string(nil), entities.Columns...)
	rows := make([][]string, 0, inv.Len())
	for _, r := range inv.Records {
		rows = append(rows, []string{
			r.Category,
			r.Name,
			r.ExpirationString(),
			r.Manufacturer,
			r.SKU,
			fmt.Sprintf("%d", r.QuantityInStock),
			fmt.Sprintf("%d", r.ReorderThreshold),
			fmt.Sprintf("%d", r.OrderQuantity),
		})
	}
	return header, rows
}

// ParseQuantity coerces a cell into a non-negative integer quantity.
// Spreadsheet renderings such as "12.0" or "1.2E1" are accepted.
func ParseQuantity(s string, fallback entities.Quantity) (entities.Quantity, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return fallback, nil
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("not a number: %q", s)
	}
	if !d.IsInteger() {
		return 0, fmt.Errorf("not a whole number: %q", s)
	}
	if d.IsNegative() {
		return 0, fmt.Errorf("cannot be negative: %q", s)
	}
	if d.GreaterThan(maxQuantity) {
		return 0, fmt.Errorf("too large: %q", s)
	}
	return entities.Quantity(d.IntPart()), nil
}

// ParseDate parses an expiration cell. ok is false when the value is empty or
// unparseable; callers treat that as an unknown date rather than an error.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return entities.TruncateToDate(t), true
		}
	}

	if d, err := decimal.NewFromString(s); err == nil {
		days := d.Floor()
		if days.IsPositive() && days.LessThanOrEqual(decimal.NewFromInt(maxExcelSerial)) {
			return excelEpoch.AddDate(0, 0, int(days.IntPart())), true
		}
	}

	return time.Time{}, false
}

func decodeRow(row []string, index map[string]int, defaults Defaults) (*entities.InventoryRecord, error) {
	cell := func(column string) string {
		i, ok := index[normalize(column)]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	inStock, err := ParseQuantity(cell(entities.ColumnQuantityInStock), 0)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", entities.ColumnQuantityInStock, err)
	}

	threshold, err := ParseQuantity(cell(entities.ColumnReorderThreshold), defaults.ReorderThreshold)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", entities.ColumnReorderThreshold, err)
	}

	orderQty, err := ParseQuantity(cell(entities.ColumnOrderQuantity), defaults.OrderQuantity)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", entities.ColumnOrderQuantity, err)
	}

	expiration, _ := ParseDate(cell(entities.ColumnExpirationDate))

	return &entities.InventoryRecord{
		Category:         cell(entities.ColumnCategory),
		Name:             cell(entities.ColumnName),
		ExpirationDate:   expiration,
		Manufacturer:     cell(entities.ColumnManufacturer),
		SKU:              cell(entities.ColumnSKU),
		QuantityInStock:  inStock,
		ReorderThreshold: threshold,
		OrderQuantity:    orderQty,
	}, nil
}

func columnIndex(header []string) map[string]int {
	index := make(map[string]int, len(header))
	for i, label := range header {
		key := normalize(label)
		if _, dup := index[key]; !dup {
			index[key] = i
		}
	}
	return index
}

func normalize(label string) string {
	label = strings.TrimPrefix(label, "\ufeff")
	return strings.Join(strings.Fields(strings.ToLower(label)), " ")
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
