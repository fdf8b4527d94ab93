package commands

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/vsinha/labstock/pkg/application/services"
	"github.com/vsinha/labstock/pkg/config"
	"github.com/vsinha/labstock/pkg/domain/entities"
	"github.com/vsinha/labstock/pkg/infrastructure/events"
	"github.com/vsinha/labstock/pkg/infrastructure/repositories/file"
	"github.com/vsinha/labstock/pkg/infrastructure/repositories/tabular"
)

// App wires the services shared by every command
type App struct {
	Config     *config.Config
	Logger     *zap.Logger
	Repository *file.Repository
	Events     *events.InMemoryEventStore
	Store      *services.Store
	Receiver   *services.Receiver
	Dashboard  *services.Dashboard
}

// NewApp builds the service graph from configuration. clock may be nil.
func NewApp(cfg *config.Config, logger *zap.Logger, clock func() time.Time) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if clock == nil {
		clock = time.Now
	}

	ttl, err := cfg.CacheTTL()
	if err != nil {
		return nil, err
	}
	identifier, err := entities.ParseIdentifierField(cfg.Receiving.Identifier)
	if err != nil {
		return nil, fmt.Errorf("receiving.identifier: %w", err)
	}
	policy, err := services.ParseNotFoundPolicy(cfg.Receiving.NotFoundPolicy)
	if err != nil {
		return nil, fmt.Errorf("receiving.not_found_policy: %w", err)
	}

	defaults := tabular.Defaults{
		ReorderThreshold: entities.Quantity(cfg.Defaults.ReorderThreshold),
		OrderQuantity:    entities.Quantity(cfg.Defaults.OrderQuantity),
	}

	locations := make([]file.Location, len(cfg.Storage.Locations))
	for i, loc := range cfg.Storage.Locations {
		locations[i] = file.Location{Path: loc.Path, Format: loc.Format}
	}
	repo, err := file.NewRepository(locations, file.Options{
		Defaults:      defaults,
		ConflictCheck: cfg.Storage.ConflictCheck,
	}, logger.Named("storage"))
	if err != nil {
		return nil, fmt.Errorf("failed to open inventory: %w", err)
	}

	eventStore := events.NewInMemoryEventStore(1000, logger.Named("events"))
	if err := eventStore.Subscribe(events.AllInventoryEvents, events.NewLogHandler(logger.Named("events"))); err != nil {
		return nil, fmt.Errorf("failed to subscribe event log: %w", err)
	}

	store := services.NewStore(repo, services.StoreConfig{CacheTTL: ttl, Clock: clock}, logger.Named("store"))
	receiver := services.NewReceiver(store, eventStore, services.ReceiverConfig{
		Identifier:       identifier,
		NotFoundPolicy:   policy,
		ReorderThreshold: defaults.ReorderThreshold,
		OrderQuantity:    defaults.OrderQuantity,
		Clock:            clock,
	}, logger.Named("receiver"))
	dashboard := services.NewDashboard(store, receiver, eventStore, services.DashboardConfig{
		ExpiryHorizon: cfg.ExpiryHorizon(),
		Clock:         clock,
	}, logger.Named("dashboard"))

	return &App{
		Config:     cfg,
		Logger:     logger,
		Repository: repo,
		Events:     eventStore,
		Store:      store,
		Receiver:   receiver,
		Dashboard:  dashboard,
	}, nil
}

// WatchPaths returns the inventory files to watch for external changes
func (a *App) WatchPaths() []string {
	locations := a.Repository.Locations()
	paths := make([]string, len(locations))
	for i, loc := range locations {
		paths[i] = loc.Path
	}
	return paths
}
