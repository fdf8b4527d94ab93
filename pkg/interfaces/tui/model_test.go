package tui

import (
	"context"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsinha/labstock/pkg/application/services"
	"github.com/vsinha/labstock/pkg/domain/entities"
	"github.com/vsinha/labstock/pkg/infrastructure/events"
	"github.com/vsinha/labstock/pkg/infrastructure/repositories/memory"
	testinghelpers "github.com/vsinha/labstock/pkg/infrastructure/testing"
)

func newTestModel(t *testing.T, repo *memory.InventoryRepository, policy services.NotFoundPolicy) Model {
	t.Helper()

	clock := func() time.Time { return testinghelpers.Today }
	store := services.NewStore(repo, services.StoreConfig{Clock: clock}, nil)
	config := services.DefaultReceiverConfig()
	config.NotFoundPolicy = policy
	config.Clock = clock
	eventStore := events.NewInMemoryEventStore(0, nil)
	receiver := services.NewReceiver(store, eventStore, config, nil)
	dashboard := services.NewDashboard(store, receiver, eventStore, services.DashboardConfig{
		ExpiryHorizon: 30 * 24 * time.Hour,
		Clock:         clock,
	}, nil)

	m := New(context.Background(), dashboard)
	// A blinking cursor schedules timer commands the synchronous driver below would wait on
	for i := range m.form.inputs {
		m.form.inputs[i].Cursor.SetMode(cursor.CursorStatic)
	}
	return run(t, m, m.Init())
}

// run feeds the message produced by cmd back into the model, following batches
func run(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	if cmd == nil {
		return m
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		for _, c := range batch {
			m = run(t, m, c)
		}
		return m
	}
	switch msg.(type) {
	case loadedMsg, receivedMsg, reloadedMsg:
		next, follow := m.Update(msg)
		return run(t, next.(Model), follow)
	}
	return m
}

func press(t *testing.T, m Model, keys ...string) Model {
	t.Helper()
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "tab":
			msg = tea.KeyMsg{Type: tea.KeyTab}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		next, cmd := m.Update(msg)
		m = run(t, next.(Model), cmd)
	}
	return m
}

func TestModel_Overview(t *testing.T) {
	m := newTestModel(t, testinghelpers.BuildLabRepository(), services.RejectUnknown)

	require.True(t, m.loaded)
	view := m.View()
	assert.Contains(t, view, "Total Items")
	assert.Contains(t, view, "Expiring in 30 Days")
	assert.Contains(t, view, "ETH-500")
	assert.Equal(t, 4, m.summary.TotalItems)
	assert.Equal(t, 2, m.summary.LowStockItems)
	assert.Contains(t, view, "Expiring soon: AGR-1 (2025-05-27), ETH-500 (2025-06-11)")
	assert.NotContains(t, view, "Recent activity", "nothing happened yet")
}

func TestModel_CategoryFilterCycles(t *testing.T) {
	m := newTestModel(t, testinghelpers.BuildLabRepository(), services.RejectUnknown)

	m = press(t, m, "c")
	assert.Contains(t, m.View(), "Category: Consumables")
	assert.Len(t, m.records, 2)

	m = press(t, m, "c", "c")
	assert.Contains(t, m.View(), "Category: All")
	assert.Len(t, m.records, 4)
}

func TestModel_AlertsTab(t *testing.T) {
	m := newTestModel(t, testinghelpers.BuildLabRepository(), services.RejectUnknown)

	m = press(t, m, "2")
	assert.Equal(t, AlertsTab, m.tab)
	assert.Contains(t, m.View(), "2 items at or below their reorder threshold")
}

func TestModel_ReceiveShipment(t *testing.T) {
	repo := testinghelpers.BuildLabRepository()
	m := newTestModel(t, repo, services.RejectUnknown)

	m = press(t, m, "3", "GLV-M", "enter", "5", "enter", "enter")

	assert.Equal(t, statusSuccess, m.statusKind, m.status)
	assert.Contains(t, m.status, "Received 5 of GLV-M; stock is now 6")
	assert.Equal(t, entities.Quantity(6), repo.Snapshot().Records[1].QuantityInStock)
	assert.Equal(t, 1, m.summary.LowStockItems, "views refreshed after the receipt")
	assert.Empty(t, m.form.value(fieldIdentifier), "form cleared")

	require.Len(t, m.activity, 1)
	m = press(t, m, "esc")
	assert.Contains(t, m.View(), "Received 5 of GLV-M, stock now 6")
}

func TestModel_ReceiveUnknownRejected(t *testing.T) {
	m := newTestModel(t, testinghelpers.BuildLabRepository(), services.RejectUnknown)

	m = press(t, m, "3", "NOPE", "enter", "3", "enter", "enter")
	assert.Equal(t, statusError, m.statusKind)
	assert.Contains(t, m.status, "not found")
}

func TestModel_ReceiveInvalidQuantity(t *testing.T) {
	m := newTestModel(t, testinghelpers.BuildLabRepository(), services.RejectUnknown)

	m = press(t, m, "3", "GLV-M", "enter", "lots", "enter", "enter")
	assert.Equal(t, statusError, m.statusKind)
	assert.Contains(t, m.status, "whole number")
}

func TestModel_ReceiveNewItemCollectsDetails(t *testing.T) {
	repo := testinghelpers.BuildLabRepository()
	m := newTestModel(t, repo, services.CreateUnknown)

	m = press(t, m, "3", "PET-90", "enter", "20", "enter", "enter")
	require.True(t, m.form.needsDetails)
	assert.Equal(t, fieldOtherKey, m.form.focus)
	assert.Contains(t, m.View(), "New item details")

	m = press(t, m, "Petri Dish 90mm", "enter", "Consumables", "enter", "Corning", "enter",
		"2027-01-31", "enter", "5", "enter", "40", "enter")

	assert.Equal(t, statusSuccess, m.statusKind, m.status)
	snapshot := repo.Snapshot()
	require.Equal(t, 5, snapshot.Len())
	created := snapshot.Records[4]
	assert.Equal(t, "PET-90", created.SKU)
	assert.Equal(t, "Petri Dish 90mm", created.Name)
	assert.Equal(t, entities.Quantity(20), created.QuantityInStock)
	assert.Equal(t, entities.Quantity(5), created.ReorderThreshold)
	assert.Equal(t, entities.Quantity(40), created.OrderQuantity)
	assert.Equal(t, time.Date(2027, 1, 31, 0, 0, 0, 0, time.UTC), created.ExpirationDate)
	assert.False(t, m.form.needsDetails)
}

func TestModel_ReloadSkippedWhileDirty(t *testing.T) {
	repo := testinghelpers.BuildLabRepository()
	m := newTestModel(t, repo, services.RejectUnknown)

	repo.SaveErr = assert.AnError
	m = press(t, m, "3", "ETH-500", "enter", "1", "enter", "enter")
	require.Equal(t, statusWarning, m.statusKind)

	next, cmd := m.Update(ReloadMsg{Path: "Inventory.xlsx"})
	m = run(t, next.(Model), cmd)
	assert.Equal(t, statusWarning, m.statusKind)
	assert.Contains(t, m.status, "reload skipped")

	// Discarding drops the unsaved receipt and reloads the stored table
	repo.SaveErr = nil
	m = press(t, m, "esc", "R")
	assert.Equal(t, statusInfo, m.statusKind)
	assert.Equal(t, "Inventory reloaded", m.status)
	assert.False(t, m.dashboard.Dirty())
	require.NotEmpty(t, m.records)
	assert.Equal(t, "ETH-500", m.records[0].SKU)
	assert.Equal(t, entities.Quantity(12), m.records[0].QuantityInStock)
}

func TestTab_String(t *testing.T) {
	assert.Equal(t, "Overview", OverviewTab.String())
	assert.Equal(t, "Low Stock Alerts", AlertsTab.String())
	assert.Equal(t, "Receive Shipment", ReceiveTab.String())
}
