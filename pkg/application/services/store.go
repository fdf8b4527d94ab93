package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/vsinha/labstock/pkg/domain/entities"
	"github.com/vsinha/labstock/pkg/domain/repositories"
)

// StoreConfig holds configuration for the inventory store
type StoreConfig struct {
	// CacheTTL is how long a loaded snapshot may be served without re-reading storage (0 = no caching)
	CacheTTL time.Duration
	// Clock returns the current time; time.Now when nil
	Clock func() time.Time
}

// Store loads and saves the inventory table, caching the last snapshot.
// The cache is keyed on a version counter that every successful save increments,
// so a load after a completed save always observes it.
type Store struct {
	repo   repositories.InventoryRepository
	config StoreConfig
	logger *zap.Logger

	mutex         sync.Mutex
	version       uint64
	cached        *entities.Inventory
	cachedVersion uint64
	loadedAt      time.Time
}

// NewStore creates a store over repo
func NewStore(repo repositories.InventoryRepository, config StoreConfig, logger *zap.Logger) *Store {
	if config.Clock == nil {
		config.Clock = time.Now
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		repo:   repo,
		config: config,
		logger: logger,
	}
}

// Load returns the inventory table. The result is a private copy the caller may mutate.
func (s *Store) Load(ctx context.Context) (*entities.Inventory, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.cacheValid() {
		s.logger.Debug("serving cached inventory snapshot",
			zap.Uint64("version", s.version),
			zap.Int("records", s.cached.Len()))
		return s.cached.Clone(), nil
	}

	inv, err := s.repo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load inventory: %w", err)
	}

	if s.config.CacheTTL > 0 {
		s.cached = inv.Clone()
		s.cachedVersion = s.version
		s.loadedAt = s.config.Clock()
	}
	return inv, nil
}

// Save persists the full table and advances the version, dropping the cached snapshot
func (s *Store) Save(ctx context.Context, inv *entities.Inventory) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if err := s.repo.Save(ctx, inv); err != nil {
		return fmt.Errorf("failed to save inventory: %w", err)
	}
	s.version++
	s.cached = nil
	return nil
}

// Invalidate drops the cached snapshot so the next Load re-reads storage
func (s *Store) Invalidate() {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.cached = nil
}

// Version returns the number of successful saves made through this store
func (s *Store) Version() uint64 {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.version
}

func (s *Store) cacheValid() bool {
	if s.cached == nil || s.cachedVersion != s.version {
		return false
	}
	return s.config.Clock().Sub(s.loadedAt) < s.config.CacheTTL
}
