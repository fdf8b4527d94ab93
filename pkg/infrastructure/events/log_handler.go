package events

import (
	"go.uber.org/zap"
)

// LogHandler writes inventory events to the structured log
type LogHandler struct {
	logger *zap.Logger
}

func NewLogHandler(logger *zap.Logger) *LogHandler {
	return &LogHandler{logger: logger}
}

func (h *LogHandler) CanHandle(eventType string) bool {
	for _, t := range AllInventoryEvents {
		if t == eventType {
			return true
		}
	}
	return false
}

func (h *LogHandler) Handle(event Event) error {
	fields := []zap.Field{
		zap.String("event_id", event.ID()),
		zap.String("stream", event.StreamID()),
		zap.Int("version", event.Version()),
	}

	switch data := event.Data().(type) {
	case StockReceived:
		h.logger.Info("stock received", append(fields,
			zap.Int64("quantity", int64(data.Quantity)),
			zap.Int64("new_stock", int64(data.NewStock)),
			zap.Bool("needs_reorder", data.NeedsReorder))...)
	case RecordCreated:
		h.logger.Info("inventory record created", append(fields,
			zap.String("name", data.Record.Name),
			zap.String("sku", data.Record.SKU),
			zap.Int64("quantity", int64(data.Record.QuantityInStock)))...)
	case InventoryReloaded:
		h.logger.Info("inventory reloaded", append(fields,
			zap.Int("records", data.Records),
			zap.String("reason", data.Reason))...)
	case SaveFailed:
		h.logger.Warn("change recorded in memory but not saved", append(fields,
			zap.String("error", data.Error))...)
	default:
		h.logger.Debug("inventory event", append(fields, zap.String("type", event.Type()))...)
	}
	return nil
}
