package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/vsinha/labstock/pkg/application/services"
	"github.com/vsinha/labstock/pkg/domain/entities"
	"github.com/vsinha/labstock/pkg/interfaces/cli/output"
)

// ErrNotReceived is returned when a receipt left the inventory unchanged
var ErrNotReceived = errors.New("shipment not received")

// ItemFlags holds the details of an item created by a receipt
type ItemFlags struct {
	Category         string
	Name             string
	Manufacturer     string
	SKU              string
	Expires          string
	ReorderThreshold int64
	OrderQuantity    int64
}

// empty reports whether no detail was given
func (f ItemFlags) empty() bool {
	return f == ItemFlags{}
}

// ReceiveConfig holds configuration for the receive command
type ReceiveConfig struct {
	Identifier   string
	Quantity     string
	ReceivedDate string
	Item         ItemFlags
	Format       string
	Out          io.Writer
}

// ReceiveCommand records one shipment receipt
type ReceiveCommand struct {
	config    ReceiveConfig
	dashboard *services.Dashboard
}

// NewReceiveCommand creates a receive command over dashboard
func NewReceiveCommand(config ReceiveConfig, dashboard *services.Dashboard) *ReceiveCommand {
	return &ReceiveCommand{
		config:    config,
		dashboard: dashboard,
	}
}

// Execute runs the receive command
func (c *ReceiveCommand) Execute(ctx context.Context) error {
	req, err := c.request()
	if err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	result, err := c.dashboard.Receive(ctx, req)
	if err != nil {
		return err
	}
	if err := output.ReceiveResult(c.config.Out, result, c.config.Format); err != nil {
		return err
	}

	if !result.Outcome.Mutated() {
		return fmt.Errorf("%w: %s", ErrNotReceived, result.Outcome)
	}
	return nil
}

func (c *ReceiveCommand) request() (services.ReceiveRequest, error) {
	qty, err := strconv.ParseInt(strings.TrimSpace(c.config.Quantity), 10, 64)
	if err != nil {
		return services.ReceiveRequest{}, fmt.Errorf("quantity must be a whole number, got %q", c.config.Quantity)
	}
	received, err := parseDateFlag("date", c.config.ReceivedDate)
	if err != nil {
		return services.ReceiveRequest{}, err
	}

	req := services.ReceiveRequest{
		Identifier:   c.config.Identifier,
		Quantity:     entities.Quantity(qty),
		ReceivedDate: received,
	}

	item := c.config.Item
	if item.empty() {
		return req, nil
	}
	expires, err := parseDateFlag("expires", item.Expires)
	if err != nil {
		return services.ReceiveRequest{}, err
	}
	if item.ReorderThreshold < 0 || item.OrderQuantity < 0 {
		return services.ReceiveRequest{}, fmt.Errorf("--threshold and --order-qty cannot be negative")
	}
	req.Details = &services.NewItemDetails{
		Category:         item.Category,
		Name:             item.Name,
		Manufacturer:     item.Manufacturer,
		SKU:              item.SKU,
		ExpirationDate:   expires,
		ReorderThreshold: entities.Quantity(item.ReorderThreshold),
		OrderQuantity:    entities.Quantity(item.OrderQuantity),
	}
	return req, nil
}
