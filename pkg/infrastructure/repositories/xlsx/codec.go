package xlsx

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/vsinha/labstock/pkg/domain/entities"
	"github.com/vsinha/labstock/pkg/domain/repositories"
	"github.com/vsinha/labstock/pkg/infrastructure/repositories/tabular"
)

// SheetName is the worksheet written on save
const SheetName = "Inventory"

// Codec reads and writes the inventory table as an Excel workbook.
// The first worksheet holds the table with a header row.
type Codec struct {
	defaults tabular.Defaults
}

// NewCodec creates a new spreadsheet codec applying the given column defaults
func NewCodec(defaults tabular.Defaults) *Codec {
	return &Codec{defaults: defaults}
}

// Verify interface compliance
var _ repositories.TableCodec = (*Codec)(nil)

// Format returns the format name
func (c *Codec) Format() string {
	return "xlsx"
}

// Read loads the inventory from the first worksheet of a workbook
func (c *Codec) Read(filename string) (*entities.Inventory, error) {
	f, err := excelize.OpenFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open inventory workbook %s: %w", filename, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return entities.NewInventory(), nil
	}

	// Raw values keep dates as serial numbers instead of locale renderings
	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read worksheet %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return entities.NewInventory(), nil
	}

	inv, err := tabular.Decode(rows[0], rows[1:], c.defaults)
	if err != nil {
		return nil, fmt.Errorf("inventory workbook %s: %w", filename, err)
	}
	return inv, nil
}

// Write replaces the workbook with the full inventory table
func (c *Codec) Write(filename string, inv *entities.Inventory) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return fmt.Errorf("failed to name worksheet: %w", err)
	}

	header, _ := tabular.Encode(inv)
	if err := setRow(f, 1, toCells(header)); err != nil {
		return err
	}

	for i, r := range inv.Records {
		cells := []interface{}{
			r.Category,
			r.Name,
			r.ExpirationString(),
			r.Manufacturer,
			r.SKU,
			int64(r.QuantityInStock),
			int64(r.ReorderThreshold),
			int64(r.OrderQuantity),
		}
		if err := setRow(f, i+2, cells); err != nil {
			return err
		}
	}

	err := tabular.WriteFileAtomic(filename, func(w io.Writer) error {
		return f.Write(w)
	})
	if err != nil {
		return fmt.Errorf("failed to save inventory workbook %s: %w", filename, err)
	}
	return nil
}

func setRow(f *excelize.File, row int, cells []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(SheetName, cell, &cells); err != nil {
		return fmt.Errorf("failed to write worksheet row %d: %w", row, err)
	}
	return nil
}

func toCells(values []string) []interface{} {
	cells := make([]interface{}, len(values))
	for i, v := range values {
		cells[i] = v
	}
	return cells
}
