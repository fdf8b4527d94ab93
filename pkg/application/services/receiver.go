package services

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/vsinha/labstock/pkg/application/dto"
	"github.com/vsinha/labstock/pkg/domain/entities"
	"github.com/vsinha/labstock/pkg/infrastructure/events"
)

// NotFoundPolicy selects what Receive does with an unknown identifier
type NotFoundPolicy int

const (
	RejectUnknown NotFoundPolicy = iota
	CreateUnknown
)

// String method for NotFoundPolicy enum
func (p NotFoundPolicy) String() string {
	switch p {
	case RejectUnknown:
		return "reject"
	case CreateUnknown:
		return "create"
	default:
		return "unknown"
	}
}

// ParseNotFoundPolicy parses the configuration spelling of a NotFoundPolicy
func ParseNotFoundPolicy(s string) (NotFoundPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "reject":
		return RejectUnknown, nil
	case "create":
		return CreateUnknown, nil
	default:
		return RejectUnknown, fmt.Errorf("invalid not-found policy: %s (expected: reject or create)", s)
	}
}

// NewItemDetails carries the fields of a record created by a receipt.
// The identifying field is taken from the request and overrides the one here.
type NewItemDetails struct {
	Category         string
	Name             string
	Manufacturer     string
	SKU              string
	ExpirationDate   time.Time         // zero defaults to the received date
	ReorderThreshold entities.Quantity // zero applies the configured default
	OrderQuantity    entities.Quantity // zero applies the configured default
}

// ReceiveRequest is one shipment receipt
type ReceiveRequest struct {
	Identifier   string
	Quantity     entities.Quantity
	ReceivedDate time.Time       // zero means today
	Details      *NewItemDetails // used only under CreateUnknown
}

// ReceiverConfig holds configuration for the shipment receiver
type ReceiverConfig struct {
	Identifier       entities.IdentifierField
	NotFoundPolicy   NotFoundPolicy
	ReorderThreshold entities.Quantity
	OrderQuantity    entities.Quantity
	Clock            func() time.Time
}

// DefaultReceiverConfig returns SKU lookup with unknown identifiers rejected
func DefaultReceiverConfig() ReceiverConfig {
	return ReceiverConfig{
		Identifier:       entities.BySKU,
		NotFoundPolicy:   RejectUnknown,
		ReorderThreshold: entities.DefaultReorderThreshold,
		OrderQuantity:    entities.DefaultOrderQuantity,
	}
}

// Receiver applies shipment receipts to an inventory table and persists it
type Receiver struct {
	store  *Store
	events events.Publisher
	config ReceiverConfig
	logger *zap.Logger
}

// NewReceiver creates a receiver saving through store. publisher may be nil.
func NewReceiver(store *Store, publisher events.Publisher, config ReceiverConfig, logger *zap.Logger) *Receiver {
	if config.Clock == nil {
		config.Clock = time.Now
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Receiver{
		store:  store,
		events: publisher,
		config: config,
		logger: logger,
	}
}

// Config returns the receiver configuration
func (r *Receiver) Config() ReceiverConfig {
	return r.config
}

// Receive applies req to inv. Validation failures, including a receipt that would
// overflow the stock count, return ErrInvalidInput and leave inv unchanged. Only
// the configured identifying field must be unique; other fields may repeat. A
// failed save is not an error: the mutation stays in inv and the result reports
// Persisted=false with a warning.
func (r *Receiver) Receive(ctx context.Context, inv *entities.Inventory, req ReceiveRequest) (*dto.ReceiveResult, error) {
	identifier := strings.TrimSpace(req.Identifier)
	if identifier == "" {
		return nil, fmt.Errorf("%w: %s is required", entities.ErrInvalidInput, r.config.Identifier)
	}
	if req.Quantity <= 0 {
		return nil, fmt.Errorf("%w: received quantity must be a positive integer, got %d", entities.ErrInvalidInput, req.Quantity)
	}

	received := entities.TruncateToDate(req.ReceivedDate)
	if received.IsZero() {
		received = entities.TruncateToDate(r.config.Clock())
	}

	result := &dto.ReceiveResult{
		Identifier:   identifier,
		Quantity:     req.Quantity,
		ReceivedDate: received,
	}

	record, found := inv.Find(r.config.Identifier, identifier)
	switch {
	case found:
		if req.Quantity > math.MaxInt64-record.QuantityInStock {
			return nil, fmt.Errorf("%w: receiving %d would overflow the stock of %s (%d)",
				entities.ErrInvalidInput, req.Quantity, identifier, record.QuantityInStock)
		}
		record.QuantityInStock += req.Quantity
		result.Outcome = dto.OutcomeUpdated
		result.Record = record

	case r.config.NotFoundPolicy == RejectUnknown:
		r.logger.Info("shipment for unknown item rejected",
			zap.String(r.config.Identifier.String(), identifier))
		result.Outcome = dto.OutcomeNotFound
		return result, nil

	case req.Details == nil:
		result.Outcome = dto.OutcomeNeedsDetails
		return result, nil

	default:
		created, err := r.newRecord(identifier, req.Quantity, received, req.Details)
		if err != nil {
			return nil, err
		}
		if err := inv.Append(created, r.config.Identifier); err != nil {
			return nil, err
		}
		result.Outcome = dto.OutcomeCreated
		result.Record = created
	}

	r.publish(result)
	r.persist(ctx, inv, result)
	return result, nil
}

func (r *Receiver) newRecord(identifier string, qty entities.Quantity, received time.Time, details *NewItemDetails) (*entities.InventoryRecord, error) {
	name, sku := strings.TrimSpace(details.Name), strings.TrimSpace(details.SKU)
	if r.config.Identifier == entities.ByName {
		name = identifier
	} else {
		sku = identifier
	}

	threshold := details.ReorderThreshold
	if threshold == 0 {
		threshold = r.config.ReorderThreshold
	}
	orderQty := details.OrderQuantity
	if orderQty == 0 {
		orderQty = r.config.OrderQuantity
	}
	expiration := details.ExpirationDate
	if expiration.IsZero() {
		expiration = received
	}

	return entities.NewInventoryRecord(
		strings.TrimSpace(details.Category),
		name,
		strings.TrimSpace(details.Manufacturer),
		sku,
		expiration,
		qty,
		threshold,
		orderQty,
	)
}

func (r *Receiver) persist(ctx context.Context, inv *entities.Inventory, result *dto.ReceiveResult) {
	if err := r.store.Save(ctx, inv); err != nil {
		result.Persisted = false
		result.SaveErr = err
		result.Warning = fmt.Sprintf("change recorded in memory but not saved: %v", err)
		r.logger.Warn("shipment recorded in memory but not saved",
			zap.String("identifier", result.Identifier),
			zap.Error(err))
		r.append(result.Identifier, events.NewSaveFailedEvent(result.Identifier, err))
		return
	}
	result.Persisted = true
}

func (r *Receiver) publish(result *dto.ReceiveResult) {
	switch result.Outcome {
	case dto.OutcomeUpdated:
		r.append(result.Identifier, events.NewStockReceivedEvent(result.Identifier, result.Quantity, result.Record, result.ReceivedDate))
	case dto.OutcomeCreated:
		r.append(result.Identifier, events.NewRecordCreatedEvent(result.Identifier, result.Record, result.ReceivedDate))
	}
}

func (r *Receiver) append(streamID string, event events.Event) {
	if r.events == nil {
		return
	}
	if err := r.events.AppendEvent(streamID, event); err != nil {
		r.logger.Warn("failed to publish inventory event",
			zap.String("type", event.Type()),
			zap.Error(err))
	}
}
