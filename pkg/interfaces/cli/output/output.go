package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/vsinha/labstock/pkg/application/dto"
	"github.com/vsinha/labstock/pkg/domain/entities"
)

// Formats lists the supported output formats
var Formats = []string{"text", "json", "csv"}

// Records writes records in the given format
func Records(w io.Writer, records []entities.InventoryRecord, format string) error {
	switch format {
	case "text":
		return writeRecordsText(w, records)
	case "json":
		return writeJSON(w, dto.NewRecordViews(records))
	case "csv":
		return writeRecordsCSV(w, records)
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}

// Summary writes the dashboard metrics in the given format
func Summary(w io.Writer, summary dto.Summary, format string) error {
	switch format {
	case "text":
		fmt.Fprintf(w, "📊 Inventory Summary (as of %s)\n", summary.AsOf.Format(entities.DateLayout))
		fmt.Fprintf(w, "==============================\n\n")
		fmt.Fprintf(w, "Total Items:          %d\n", summary.TotalItems)
		fmt.Fprintf(w, "Low Stock Items:      %d\n", summary.LowStockItems)
		fmt.Fprintf(w, "Expiring in %3d days: %d\n", summary.HorizonDays, summary.ExpiringSoonItems)
		return nil
	case "json":
		return writeJSON(w, dto.NewSummaryView(summary))
	case "csv":
		cw := csv.NewWriter(w)
		cw.Write([]string{"total_items", "low_stock_items", "expiring_soon_items", "horizon_days", "as_of"})
		cw.Write([]string{
			strconv.Itoa(summary.TotalItems),
			strconv.Itoa(summary.LowStockItems),
			strconv.Itoa(summary.ExpiringSoonItems),
			strconv.Itoa(summary.HorizonDays),
			summary.AsOf.Format(entities.DateLayout),
		})
		cw.Flush()
		return cw.Error()
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}

// Alerts writes the low stock alerts in the given format
func Alerts(w io.Writer, records []entities.InventoryRecord, format string) error {
	if format != "text" {
		return Records(w, records, format)
	}

	if len(records) == 0 {
		fmt.Fprintln(w, "✅ No items need reordering")
		return nil
	}

	fmt.Fprintf(w, "⚠️  Low Stock Alerts: %d\n", len(records))
	fmt.Fprintf(w, "%-15s %-30s %-8s %-10s %-10s\n", "SKU", "Item Name", "Stock", "Threshold", "Order Qty")
	fmt.Fprintf(w, "%-15s %-30s %-8s %-10s %-10s\n", "---------------", "------------------------------", "--------", "----------", "----------")
	for _, r := range records {
		fmt.Fprintf(w, "%-15s %-30s %-8d %-10d %-10d\n", r.SKU, truncate(r.Name, 30), r.QuantityInStock, r.ReorderThreshold, r.OrderQuantity)
	}
	return nil
}

// ReceiveResult writes the outcome of a shipment receipt
func ReceiveResult(w io.Writer, result *dto.ReceiveResult, format string) error {
	if format == "json" {
		return writeJSON(w, dto.NewReceiveView(result))
	}

	switch result.Outcome {
	case dto.OutcomeUpdated, dto.OutcomeCreated:
		fmt.Fprintf(w, "✅ %s\n", result.Message())
	default:
		fmt.Fprintf(w, "❌ %s\n", result.Message())
	}
	if result.Warning != "" {
		fmt.Fprintf(w, "⚠️  %s\n", result.Warning)
	}
	return nil
}

func writeRecordsText(w io.Writer, records []entities.InventoryRecord) error {
	fmt.Fprintf(w, "📋 Inventory: %d items\n", len(records))
	fmt.Fprintf(w, "%-15s %-30s %-15s %-15s %-12s %-8s %-10s %-10s %-7s\n",
		"SKU", "Item Name", "Category", "Manufacturer", "Expires", "Stock", "Threshold", "Order Qty", "Reorder")
	fmt.Fprintf(w, "%-15s %-30s %-15s %-15s %-12s %-8s %-10s %-10s %-7s\n",
		"---------------", "------------------------------", "---------------", "---------------",
		"------------", "--------", "----------", "----------", "-------")

	for _, r := range records {
		reorder := ""
		if r.NeedsReorder() {
			reorder = "yes"
		}
		expires := r.ExpirationString()
		if expires == "" {
			expires = "-"
		}
		fmt.Fprintf(w, "%-15s %-30s %-15s %-15s %-12s %-8d %-10d %-10d %-7s\n",
			r.SKU,
			truncate(r.Name, 30),
			truncate(r.Category, 15),
			truncate(r.Manufacturer, 15),
			expires,
			r.QuantityInStock,
			r.ReorderThreshold,
			r.OrderQuantity,
			reorder)
	}
	return nil
}

func writeRecordsCSV(w io.Writer, records []entities.InventoryRecord) error {
	cw := csv.NewWriter(w)
	header := append(append([]string{}, entities.Columns...), "Needs Reorder")
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, r := range records {
		row := []string{
			r.Category,
			r.Name,
			r.ExpirationString(),
			r.Manufacturer,
			r.SKU,
			strconv.FormatInt(int64(r.QuantityInStock), 10),
			strconv.FormatInt(int64(r.ReorderThreshold), 10),
			strconv.FormatInt(int64(r.OrderQuantity), 10),
			strconv.FormatBool(r.NeedsReorder()),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func writeJSON(w io.Writer, v interface{}) error {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	_, err = fmt.Fprintln(w, string(jsonData))
	return err
}

func truncate(s string, width int) string {
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	return string(runes[:width-1]) + "…"
}
