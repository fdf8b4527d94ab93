package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/vsinha/labstock/pkg/domain/entities"
)

func TestInventoryRepository_SaveAndLoad(t *testing.T) {
	repo := NewInventoryRepository(&entities.InventoryRecord{SKU: "ETH-1", QuantityInStock: 4})
	ctx := context.Background()

	inv, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("Failed to load inventory: %v", err)
	}
	if inv.Len() != 1 {
		t.Fatalf("Expected 1 record, got %d", inv.Len())
	}

	// Mutating the loaded copy must not reach the store until saved
	inv.Records[0].QuantityInStock = 9
	if got := repo.Snapshot().Records[0].QuantityInStock; got != 4 {
		t.Errorf("Expected stored quantity 4 before save, got %d", got)
	}

	if err := repo.Save(ctx, inv); err != nil {
		t.Fatalf("Failed to save inventory: %v", err)
	}
	if got := repo.Snapshot().Records[0].QuantityInStock; got != 9 {
		t.Errorf("Expected stored quantity 9 after save, got %d", got)
	}
	if repo.Loads() != 1 || repo.Saves() != 1 {
		t.Errorf("Expected 1 load and 1 save, got %d and %d", repo.Loads(), repo.Saves())
	}
}

func TestInventoryRepository_InjectedErrors(t *testing.T) {
	repo := NewInventoryRepository()
	repo.SaveErr = errors.New("read-only volume")

	if err := repo.Save(context.Background(), entities.NewInventory()); err == nil {
		t.Error("Expected injected save error")
	}
	if repo.Saves() != 0 {
		t.Errorf("Expected failed save not to be counted, got %d", repo.Saves())
	}

	repo.LoadErr = errors.New("corrupt")
	if _, err := repo.Load(context.Background()); err == nil {
		t.Error("Expected injected load error")
	}
}

func TestInventoryRepository_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := NewInventoryRepository().Load(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}
