package memory

import (
	"context"
	"sync"

	"github.com/vsinha/labstock/pkg/domain/entities"
	"github.com/vsinha/labstock/pkg/domain/repositories"
)

// InventoryRepository provides in-memory inventory storage. It is the test
// double behind the testing helpers; the commands always use the file repository.
type InventoryRepository struct {
	mutex     sync.Mutex
	inventory *entities.Inventory
	loads     int
	saves     int

	// LoadErr and SaveErr, when set, are returned instead of touching the table
	LoadErr error
	SaveErr error
}

// NewInventoryRepository creates a new in-memory inventory repository
func NewInventoryRepository(records ...*entities.InventoryRecord) *InventoryRepository {
	return &InventoryRepository{
		inventory: entities.NewInventory(records...),
	}
}

// Verify interface compliance
var _ repositories.InventoryRepository = (*InventoryRepository)(nil)

// Load returns a copy of the stored table
func (r *InventoryRepository) Load(ctx context.Context) (*entities.Inventory, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.loads++
	if r.LoadErr != nil {
		return nil, r.LoadErr
	}
	return r.inventory.Clone(), nil
}

// Save replaces the stored table with a copy of inv
func (r *InventoryRepository) Save(ctx context.Context, inv *entities.Inventory) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()

	if r.SaveErr != nil {
		return r.SaveErr
	}
	r.saves++
	r.inventory = inv.Clone()
	return nil
}

// Replace swaps the stored table, simulating an external edit
func (r *InventoryRepository) Replace(records ...*entities.InventoryRecord) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.inventory = entities.NewInventory(records...)
}

// Snapshot returns a copy of the stored table without counting a load
func (r *InventoryRepository) Snapshot() *entities.Inventory {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return r.inventory.Clone()
}

// Loads returns how many times Load was called
func (r *InventoryRepository) Loads() int {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return r.loads
}

// Saves returns how many saves succeeded
func (r *InventoryRepository) Saves() int {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return r.saves
}
