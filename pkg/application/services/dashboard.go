package services

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/vsinha/labstock/pkg/application/dto"
	"github.com/vsinha/labstock/pkg/domain/entities"
	"github.com/vsinha/labstock/pkg/infrastructure/events"
)

// DashboardConfig holds configuration for a dashboard session
type DashboardConfig struct {
	ExpiryHorizon time.Duration
	Clock         func() time.Time
}

// Dashboard is one operator session: the in-memory table plus the views and
// actions over it. It is safe for concurrent use.
type Dashboard struct {
	store    *Store
	receiver *Receiver
	events   events.EventStore
	config   DashboardConfig
	logger   *zap.Logger

	mutex     sync.Mutex
	inventory *entities.Inventory
	dirty     bool // holds a mutation the last save did not persist
}

// NewDashboard creates a session. The table is loaded lazily on first use.
func NewDashboard(store *Store, receiver *Receiver, eventStore events.EventStore, config DashboardConfig, logger *zap.Logger) *Dashboard {
	if config.Clock == nil {
		config.Clock = time.Now
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dashboard{
		store:    store,
		receiver: receiver,
		events:   eventStore,
		config:   config,
		logger:   logger,
	}
}

// Refresh replaces the session table with the store's current one
func (d *Dashboard) Refresh(ctx context.Context) error {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	return d.refresh(ctx)
}

func (d *Dashboard) refresh(ctx context.Context) error {
	inv, err := d.store.Load(ctx)
	if err != nil {
		return err
	}
	d.inventory = inv
	d.dirty = false
	return nil
}

func (d *Dashboard) ensureLoaded(ctx context.Context) error {
	if d.inventory != nil {
		return nil
	}
	return d.refresh(ctx)
}

// View returns copies of the records matching criteria
func (d *Dashboard) View(ctx context.Context, criteria FilterCriteria) ([]entities.InventoryRecord, error) {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	if err := d.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	return copyRecords(Filter(d.inventory.Records, criteria)), nil
}

// Summary computes the metrics over the records matching criteria
func (d *Dashboard) Summary(ctx context.Context, criteria FilterCriteria) (dto.Summary, error) {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	if err := d.ensureLoaded(ctx); err != nil {
		return dto.Summary{}, err
	}
	return Summarize(Filter(d.inventory.Records, criteria), d.config.Clock(), d.config.ExpiryHorizon), nil
}

// Alerts returns copies of the matching records that need reordering
func (d *Dashboard) Alerts(ctx context.Context, criteria FilterCriteria) ([]entities.InventoryRecord, error) {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	if err := d.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	return copyRecords(Alerts(Filter(d.inventory.Records, criteria))), nil
}

// ExpiringSoon returns copies of the matching records that expire within the
// alert horizon, soonest first
func (d *Dashboard) ExpiringSoon(ctx context.Context, criteria FilterCriteria) ([]entities.InventoryRecord, error) {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	if err := d.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	records := copyRecords(ExpiringSoon(Filter(d.inventory.Records, criteria), d.config.Clock(), d.config.ExpiryHorizon))
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].ExpirationDate.Before(records[j].ExpirationDate)
	})
	return records, nil
}

// Options lists the filter values of the session table
func (d *Dashboard) Options(ctx context.Context) (dto.Options, error) {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	if err := d.ensureLoaded(ctx); err != nil {
		return dto.Options{}, err
	}
	return OptionsFor(d.inventory), nil
}

// Receive applies a shipment receipt to the session table
func (d *Dashboard) Receive(ctx context.Context, req ReceiveRequest) (*dto.ReceiveResult, error) {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	if err := d.ensureLoaded(ctx); err != nil {
		return nil, err
	}

	result, err := d.receiver.Receive(ctx, d.inventory, req)
	if err != nil {
		return nil, err
	}
	if result.Outcome.Mutated() {
		d.dirty = !result.Persisted
	}
	if result.Record != nil {
		copied := *result.Record
		result.Record = &copied
	}
	return result, nil
}

// Reload re-reads storage after an external change. It is skipped while the
// session holds an unsaved mutation, which a reload would discard, unless
// discard is set. Discarding is the way out after a save lost to a conflicting
// writer: the fresh load also refreshes the file fingerprints the next save
// is checked against.
func (d *Dashboard) Reload(ctx context.Context, reason string, discard bool) (bool, error) {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	if d.dirty {
		if !discard {
			d.logger.Warn("inventory reload skipped, session has unsaved changes",
				zap.String("reason", reason))
			return false, nil
		}
		d.logger.Warn("discarding unsaved changes on reload",
			zap.String("reason", reason))
		reason += " (unsaved changes discarded)"
	}

	d.store.Invalidate()
	if err := d.refresh(ctx); err != nil {
		return false, err
	}

	if d.events != nil {
		if err := d.events.AppendEvent("inventory", events.NewInventoryReloadedEvent(d.inventory.Len(), reason)); err != nil {
			d.logger.Warn("failed to publish inventory event", zap.Error(err))
		}
	}
	return true, nil
}

// Activity returns the most recent session events, oldest first, at most
// limit of them when limit is positive. A non-empty stream keeps only the
// events of that item identifier.
func (d *Dashboard) Activity(stream string, limit int) ([]dto.Activity, error) {
	if d.events == nil {
		return []dto.Activity{}, nil
	}

	var history []events.Event
	var err error
	if stream != "" {
		history, err = d.events.ReadEvents(stream, 0)
	} else {
		history, err = d.events.ReadAllEvents(0)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read activity: %w", err)
	}
	if limit > 0 && len(history) > limit {
		history = history[len(history)-limit:]
	}

	activity := make([]dto.Activity, len(history))
	for i, e := range history {
		activity[i] = dto.Activity{
			Type:        e.Type(),
			Stream:      e.StreamID(),
			Version:     e.Version(),
			At:          e.Timestamp(),
			Description: events.Describe(e),
		}
	}
	return activity, nil
}

// Dirty reports whether the session holds a change that was not saved
func (d *Dashboard) Dirty() bool {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	return d.dirty
}

// Receiver returns the session's receiver
func (d *Dashboard) Receiver() *Receiver {
	return d.receiver
}

// ExpiryHorizon returns the alert horizon used by Summary
func (d *Dashboard) ExpiryHorizon() time.Duration {
	return d.config.ExpiryHorizon
}

func copyRecords(records []*entities.InventoryRecord) []entities.InventoryRecord {
	out := make([]entities.InventoryRecord, len(records))
	for i, r := range records {
		out[i] = *r
	}
	return out
}
