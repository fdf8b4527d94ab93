package testing

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/vsinha/labstock/pkg/domain/entities"
	"github.com/vsinha/labstock/pkg/infrastructure/repositories/memory"
)

// Today is the fixed clock used by fixtures
var Today = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

// BuildLabInventory builds a small laboratory stock table relative to Today:
//   - ETH-500: plenty of stock, expires in 10 days
//   - GLV-M: at its reorder threshold, expires in 40 days
//   - PIP-10: below threshold, no expiration date
//   - AGR-1: already expired
func BuildLabInventory() []*entities.InventoryRecord {
	return []*entities.InventoryRecord{
		{
			Category:         "Reagents",
			Name:             "Ethanol 500ml",
			ExpirationDate:   Today.AddDate(0, 0, 10),
			Manufacturer:     "Sigma",
			SKU:              "ETH-500",
			QuantityInStock:  12,
			ReorderThreshold: 3,
			OrderQuantity:    6,
		},
		{
			Category:         "Consumables",
			Name:             "Nitrile Gloves M",
			ExpirationDate:   Today.AddDate(0, 0, 40),
			Manufacturer:     "Safeguard",
			SKU:              "GLV-M",
			QuantityInStock:  1,
			ReorderThreshold: 1,
			OrderQuantity:    10,
		},
		{
			Category:         "Consumables",
			Name:             "Pipette Tips 10ul",
			Manufacturer:     "Eppendorf",
			SKU:              "PIP-10",
			QuantityInStock:  0,
			ReorderThreshold: 2,
			OrderQuantity:    5,
		},
		{
			Category:         "Reagents",
			Name:             "Agar Powder",
			ExpirationDate:   Today.AddDate(0, 0, -5),
			Manufacturer:     "Sigma",
			SKU:              "AGR-1",
			QuantityInStock:  4,
			ReorderThreshold: 1,
			OrderQuantity:    1,
		},
	}
}

// BuildLabRepository returns an in-memory repository holding BuildLabInventory
func BuildLabRepository() *memory.InventoryRepository {
	return memory.NewInventoryRepository(BuildLabInventory()...)
}

// LabInventoryCSV renders BuildLabInventory as a CSV document
func LabInventoryCSV() string {
	var b strings.Builder
	b.WriteString(strings.Join(entities.Columns, ",") + "\n")
	for _, r := range BuildLabInventory() {
		b.WriteString(strings.Join([]string{
			r.Category,
			r.Name,
			r.ExpirationString(),
			r.Manufacturer,
			r.SKU,
			itoa(r.QuantityInStock),
			itoa(r.ReorderThreshold),
			itoa(r.OrderQuantity),
		}, ",") + "\n")
	}
	return b.String()
}

// WriteCSVFixture writes LabInventoryCSV to dir and returns its path
func WriteCSVFixture(dir string) (string, error) {
	path := filepath.Join(dir, "Inventory.csv")
	if err := os.WriteFile(path, []byte(LabInventoryCSV()), 0644); err != nil {
		return "", err
	}
	return path, nil
}

func itoa(q entities.Quantity) string {
	return strconv.FormatInt(int64(q), 10)
}
