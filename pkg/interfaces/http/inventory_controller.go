package httpapi

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/vsinha/labstock/pkg/application/dto"
	"github.com/vsinha/labstock/pkg/application/services"
	"github.com/vsinha/labstock/pkg/domain/entities"
	"github.com/vsinha/labstock/pkg/infrastructure/repositories/file"
)

// InventoryController serves the dashboard views and actions
type InventoryController struct {
	dashboard *services.Dashboard
	logger    *zap.Logger
}

// NewInventoryController creates a controller over a dashboard session
func NewInventoryController(dashboard *services.Dashboard, logger *zap.Logger) *InventoryController {
	return &InventoryController{dashboard: dashboard, logger: logger}
}

const defaultEventLimit = 50

// ShipmentRequest is the body of POST /api/shipments
type ShipmentRequest struct {
	Identifier   string              `json:"identifier"`
	Quantity     int64               `json:"quantity"`
	ReceivedDate string              `json:"received_date"`
	Details      *NewItemRequestBody `json:"details"`
}

// NewItemRequestBody carries the fields of an item created by a receipt
type NewItemRequestBody struct {
	Category         string `json:"category"`
	Name             string `json:"name"`
	Manufacturer     string `json:"manufacturer"`
	SKU              string `json:"sku"`
	ExpirationDate   string `json:"expiration_date"`
	ReorderThreshold int64  `json:"reorder_threshold"`
	OrderQuantity    int64  `json:"order_quantity"`
}

// ListInventory returns the filtered inventory
func (ic *InventoryController) ListInventory(c *fiber.Ctx) error {
	criteria, err := parseCriteria(c)
	if err != nil {
		return err
	}
	records, err := ic.dashboard.View(c.UserContext(), criteria)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"items": dto.NewRecordViews(records),
		"count": len(records),
	})
}

// GetSummary returns the dashboard metrics over the filtered inventory
func (ic *InventoryController) GetSummary(c *fiber.Ctx) error {
	criteria, err := parseCriteria(c)
	if err != nil {
		return err
	}
	summary, err := ic.dashboard.Summary(c.UserContext(), criteria)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewSummaryView(summary))
}

// ListAlerts returns the filtered records that need reordering
func (ic *InventoryController) ListAlerts(c *fiber.Ctx) error {
	criteria, err := parseCriteria(c)
	if err != nil {
		return err
	}
	records, err := ic.dashboard.Alerts(c.UserContext(), criteria)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"items": dto.NewRecordViews(records),
		"count": len(records),
	})
}

// ListExpiring returns the filtered records expiring within the alert horizon
func (ic *InventoryController) ListExpiring(c *fiber.Ctx) error {
	criteria, err := parseCriteria(c)
	if err != nil {
		return err
	}
	records, err := ic.dashboard.ExpiringSoon(c.UserContext(), criteria)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"items":        dto.NewRecordViews(records),
		"count":        len(records),
		"horizon_days": int(ic.dashboard.ExpiryHorizon().Hours() / 24),
	})
}

// ListEvents returns the session activity, newest last. ?stream= keeps one
// item's events and ?limit= caps the count.
func (ic *InventoryController) ListEvents(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", defaultEventLimit)
	if limit < 0 {
		return fiber.NewError(fiber.StatusBadRequest, "limit cannot be negative")
	}
	activity, err := ic.dashboard.Activity(strings.TrimSpace(c.Query("stream")), limit)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"events": dto.NewActivityViews(activity),
		"count":  len(activity),
	})
}

// GetOptions returns the values available to the filters
func (ic *InventoryController) GetOptions(c *fiber.Ctx) error {
	options, err := ic.dashboard.Options(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"categories":    options.Categories,
		"manufacturers": options.Manufacturers,
	})
}

// ReceiveShipment records a shipment receipt
func (ic *InventoryController) ReceiveShipment(c *fiber.Ctx) error {
	var body ShipmentRequest
	if err := c.BodyParser(&body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body: "+err.Error())
	}

	req, err := body.toRequest()
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	result, err := ic.dashboard.Receive(c.UserContext(), req)
	switch {
	case errors.Is(err, entities.ErrInvalidInput):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, entities.ErrDuplicateIdentifier):
		return fiber.NewError(fiber.StatusConflict, err.Error())
	case err != nil:
		return err
	}

	return c.Status(receiveStatus(result)).JSON(dto.NewReceiveView(result))
}

// Reload re-reads the inventory file. With ?discard=true unsaved session
// changes are dropped instead of blocking the reload.
func (ic *InventoryController) Reload(c *fiber.Ctx) error {
	reloaded, err := ic.dashboard.Reload(c.UserContext(), "api request", c.QueryBool("discard"))
	if err != nil {
		return err
	}
	status := fiber.StatusOK
	if !reloaded {
		status = fiber.StatusConflict
	}
	return c.Status(status).JSON(fiber.Map{
		"reloaded": reloaded,
		"dirty":    ic.dashboard.Dirty(),
	})
}

func receiveStatus(result *dto.ReceiveResult) int {
	switch result.Outcome {
	case dto.OutcomeNotFound:
		return fiber.StatusNotFound
	case dto.OutcomeNeedsDetails:
		return fiber.StatusUnprocessableEntity
	}
	if errors.Is(result.SaveErr, file.ErrStaleInventory) {
		return fiber.StatusConflict
	}
	if result.Outcome == dto.OutcomeCreated {
		return fiber.StatusCreated
	}
	return fiber.StatusOK
}

func (b ShipmentRequest) toRequest() (services.ReceiveRequest, error) {
	received, err := parseDate("received_date", b.ReceivedDate)
	if err != nil {
		return services.ReceiveRequest{}, err
	}

	req := services.ReceiveRequest{
		Identifier:   b.Identifier,
		Quantity:     entities.Quantity(b.Quantity),
		ReceivedDate: received,
	}
	if b.Details != nil {
		expiration, err := parseDate("details.expiration_date", b.Details.ExpirationDate)
		if err != nil {
			return services.ReceiveRequest{}, err
		}
		req.Details = &services.NewItemDetails{
			Category:         b.Details.Category,
			Name:             b.Details.Name,
			Manufacturer:     b.Details.Manufacturer,
			SKU:              b.Details.SKU,
			ExpirationDate:   expiration,
			ReorderThreshold: entities.Quantity(b.Details.ReorderThreshold),
			OrderQuantity:    entities.Quantity(b.Details.OrderQuantity),
		}
	}
	return req, nil
}

func parseCriteria(c *fiber.Ctx) (services.FilterCriteria, error) {
	from, err := parseDate("expires_from", c.Query("expires_from"))
	if err != nil {
		return services.FilterCriteria{}, fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	to, err := parseDate("expires_to", c.Query("expires_to"))
	if err != nil {
		return services.FilterCriteria{}, fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return services.FilterCriteria{
		Categories:    splitList(c.Query("category")),
		Manufacturers: splitList(c.Query("manufacturer")),
		ExpiresFrom:   from,
		ExpiresTo:     to,
	}, nil
}

func parseDate(field, value string) (time.Time, error) {
	if strings.TrimSpace(value) == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(entities.DateLayout, strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, errors.New(field + " must be a YYYY-MM-DD date")
	}
	return t, nil
}

func splitList(value string) []string {
	var values []string
	for _, v := range strings.Split(value, ",") {
		if v = strings.TrimSpace(v); v != "" {
			values = append(values, v)
		}
	}
	return values
}
