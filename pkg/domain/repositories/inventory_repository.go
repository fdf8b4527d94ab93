package repositories

import (
	"context"

	"github.com/vsinha/labstock/pkg/domain/entities"
)

// InventoryRepository loads and persists the full inventory table
type InventoryRepository interface {
	Load(ctx context.Context) (*entities.Inventory, error)
	Save(ctx context.Context, inventory *entities.Inventory) error
}

// TableCodec reads and writes an inventory table in one file format
type TableCodec interface {
	Format() string
	Read(path string) (*entities.Inventory, error)
	Write(path string, inventory *entities.Inventory) error
}
