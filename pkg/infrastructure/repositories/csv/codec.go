package csv

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/vsinha/labstock/pkg/domain/entities"
	"github.com/vsinha/labstock/pkg/domain/repositories"
	"github.com/vsinha/labstock/pkg/infrastructure/repositories/tabular"
)

// Codec reads and writes the inventory table as delimited text
type Codec struct {
	defaults tabular.Defaults
}

// NewCodec creates a new CSV codec applying the given column defaults
func NewCodec(defaults tabular.Defaults) *Codec {
	return &Codec{defaults: defaults}
}

// Verify interface compliance
var _ repositories.TableCodec = (*Codec)(nil)

// Format returns the format name
func (c *Codec) Format() string {
	return "csv"
}

// Read loads the inventory from a CSV file
func (c *Codec) Read(filename string) (*entities.Inventory, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open inventory file %s: %w", filename, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read inventory CSV: %w", err)
	}

	// An empty file is an empty table
	if len(records) == 0 {
		return entities.NewInventory(), nil
	}

	inv, err := tabular.Decode(records[0], records[1:], c.defaults)
	if err != nil {
		return nil, fmt.Errorf("inventory CSV %s: %w", filename, err)
	}
	return inv, nil
}

// Write replaces the CSV file with the full inventory table
func (c *Codec) Write(filename string, inv *entities.Inventory) error {
	header, rows := tabular.Encode(inv)

	err := tabular.WriteFileAtomic(filename, func(w io.Writer) error {
		writer := csv.NewWriter(w)
		if err := writer.Write(header); err != nil {
			return fmt.Errorf("failed to write CSV header: %w", err)
		}
		if err := writer.WriteAll(rows); err != nil {
			return fmt.Errorf("failed to write CSV rows: %w", err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save inventory CSV %s: %w", filename, err)
	}
	return nil
}
