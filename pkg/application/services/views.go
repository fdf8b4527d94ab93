package services

import (
	"time"

	"github.com/vsinha/labstock/pkg/application/dto"
	"github.com/vsinha/labstock/pkg/domain/entities"
)

// FilterCriteria selects records for a view. Empty criteria select everything.
type FilterCriteria struct {
	Categories    []string  // any-of
	Manufacturers []string  // any-of
	ExpiresFrom   time.Time // inclusive; zero means unbounded
	ExpiresTo     time.Time // inclusive; zero means unbounded
}

// HasExpirationWindow reports whether either window bound is set
func (c FilterCriteria) HasExpirationWindow() bool {
	return !c.ExpiresFrom.IsZero() || !c.ExpiresTo.IsZero()
}

// Matches reports whether r passes every criterion.
// An expiration window excludes records whose date is unknown.
func (c FilterCriteria) Matches(r *entities.InventoryRecord) bool {
	if len(c.Categories) > 0 && !contains(c.Categories, r.Category) {
		return false
	}
	if len(c.Manufacturers) > 0 && !contains(c.Manufacturers, r.Manufacturer) {
		return false
	}
	if c.HasExpirationWindow() {
		if !r.HasExpiration() {
			return false
		}
		if !c.ExpiresFrom.IsZero() && r.ExpirationDate.Before(entities.TruncateToDate(c.ExpiresFrom)) {
			return false
		}
		if !c.ExpiresTo.IsZero() && r.ExpirationDate.After(entities.TruncateToDate(c.ExpiresTo)) {
			return false
		}
	}
	return true
}

// Filter returns the records matching criteria, in table order
func Filter(records []*entities.InventoryRecord, criteria FilterCriteria) []*entities.InventoryRecord {
	filtered := make([]*entities.InventoryRecord, 0, len(records))
	for _, r := range records {
		if criteria.Matches(r) {
			filtered = append(filtered, r)
		}
	}
	return filtered
}

// Summarize computes the dashboard metrics. Expiring-soon counts records dated on or
// before today+horizon, including ones already expired.
func Summarize(records []*entities.InventoryRecord, today time.Time, horizon time.Duration) dto.Summary {
	summary := dto.Summary{
		TotalItems:  len(records),
		HorizonDays: int(horizon / (24 * time.Hour)),
		AsOf:        entities.TruncateToDate(today),
	}
	for _, r := range records {
		if r.NeedsReorder() {
			summary.LowStockItems++
		}
		if r.ExpiresWithin(today, horizon) {
			summary.ExpiringSoonItems++
		}
	}
	return summary
}

// Alerts returns the records that need reordering
func Alerts(records []*entities.InventoryRecord) []*entities.InventoryRecord {
	alerts := []*entities.InventoryRecord{}
	for _, r := range records {
		if r.NeedsReorder() {
			alerts = append(alerts, r)
		}
	}
	return alerts
}

// ExpiringSoon returns the records counted as expiring within horizon
func ExpiringSoon(records []*entities.InventoryRecord, today time.Time, horizon time.Duration) []*entities.InventoryRecord {
	expiring := []*entities.InventoryRecord{}
	for _, r := range records {
		if r.ExpiresWithin(today, horizon) {
			expiring = append(expiring, r)
		}
	}
	return expiring
}

// OptionsFor lists the filter values present in inv
func OptionsFor(inv *entities.Inventory) dto.Options {
	return dto.Options{
		Categories:    inv.Categories(),
		Manufacturers: inv.Manufacturers(),
	}
}

func contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}
