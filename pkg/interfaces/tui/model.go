package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vsinha/labstock/pkg/application/dto"
	"github.com/vsinha/labstock/pkg/application/services"
	"github.com/vsinha/labstock/pkg/domain/entities"
)

// Tab identifies a dashboard page
type Tab int

const (
	OverviewTab Tab = iota
	AlertsTab
	ReceiveTab
	tabCount
)

// String method for Tab enum
func (t Tab) String() string {
	switch t {
	case OverviewTab:
		return "Overview"
	case AlertsTab:
		return "Low Stock Alerts"
	case ReceiveTab:
		return "Receive Shipment"
	default:
		return "Unknown"
	}
}

type statusKind int

const (
	statusInfo statusKind = iota
	statusSuccess
	statusWarning
	statusError
)

// activityLines is how many recent events the overview lists
const activityLines = 3

// ReloadMsg reports that an inventory file changed on disk
type ReloadMsg struct {
	Path string
}

type loadedMsg struct {
	records  []entities.InventoryRecord
	alerts   []entities.InventoryRecord
	expiring []entities.InventoryRecord
	summary  dto.Summary
	options  dto.Options
	activity []dto.Activity
	err      error
}

type receivedMsg struct {
	result *dto.ReceiveResult
	err    error
}

type reloadedMsg struct {
	reloaded bool
	err      error
}

// Model is the bubbletea model of the dashboard
type Model struct {
	ctx       context.Context
	dashboard *services.Dashboard
	styles    Styles
	tab       Tab

	options         dto.Options
	categoryIdx     int // 0 selects all categories
	manufacturerIdx int // 0 selects all manufacturers
	summary         dto.Summary
	records         []entities.InventoryRecord
	alerts          []entities.InventoryRecord
	expiring        []entities.InventoryRecord
	activity        []dto.Activity
	inventoryTable  table.Model
	alertsTable     table.Model

	form       receiveForm
	status     string
	statusKind statusKind
	loaded     bool
}

// New creates the dashboard model
func New(ctx context.Context, dashboard *services.Dashboard) Model {
	styles := DefaultStyles()

	inventoryTable := table.New(
		table.WithColumns([]table.Column{
			{Title: "SKU", Width: 12},
			{Title: "Item Name", Width: 26},
			{Title: "Category", Width: 14},
			{Title: "Manufacturer", Width: 14},
			{Title: "Expires", Width: 10},
			{Title: "Stock", Width: 6},
			{Title: "Threshold", Width: 9},
			{Title: "Order Qty", Width: 9},
			{Title: "Reorder", Width: 7},
		}),
		table.WithFocused(true),
		table.WithHeight(15),
		table.WithStyles(styles.Table),
	)
	alertsTable := table.New(
		table.WithColumns([]table.Column{
			{Title: "SKU", Width: 12},
			{Title: "Item Name", Width: 26},
			{Title: "Manufacturer", Width: 14},
			{Title: "Stock", Width: 6},
			{Title: "Threshold", Width: 9},
			{Title: "Order Qty", Width: 9},
		}),
		table.WithFocused(true),
		table.WithHeight(15),
		table.WithStyles(styles.Table),
	)

	return Model{
		ctx:            ctx,
		dashboard:      dashboard,
		styles:         styles,
		inventoryTable: inventoryTable,
		alertsTable:    alertsTable,
		form:           newReceiveForm(dashboard.Receiver().Config().Identifier),
	}
}

// NewProgram creates the bubbletea program for the dashboard
func NewProgram(ctx context.Context, dashboard *services.Dashboard) *tea.Program {
	return tea.NewProgram(New(ctx, dashboard), tea.WithAltScreen(), tea.WithContext(ctx))
}

// Init loads the inventory
func (m Model) Init() tea.Cmd {
	return m.load()
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		if msg.err != nil {
			m.setStatus(statusError, "Failed to load inventory: "+msg.err.Error())
			return m, nil
		}
		m.loaded = true
		m.records, m.alerts, m.summary, m.options = msg.records, msg.alerts, msg.summary, msg.options
		m.expiring, m.activity = msg.expiring, msg.activity
		m.inventoryTable.SetRows(inventoryRows(m.records))
		m.alertsTable.SetRows(alertRows(m.alerts))
		return m, nil

	case receivedMsg:
		return m.handleReceived(msg)

	case ReloadMsg:
		return m, m.reload("file changed: "+msg.Path, false)

	case reloadedMsg:
		switch {
		case msg.err != nil:
			m.setStatus(statusError, "Reload failed: "+msg.err.Error())
			return m, nil
		case !msg.reloaded:
			m.setStatus(statusWarning, "Inventory reload skipped because this session has unsaved changes; press R to discard them and reload")
			return m, nil
		}
		m.setStatus(statusInfo, "Inventory reloaded")
		return m, m.load()

	case tea.WindowSizeMsg:
		height := msg.Height - 12
		if height < 5 {
			height = 5
		}
		m.inventoryTable.SetHeight(height)
		m.alertsTable.SetHeight(height)
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.tab == ReceiveTab {
			return m.updateForm(msg)
		}
		return m.updateBrowse(msg)
	}

	return m, nil
}

func (m Model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "tab", "right":
		cmd := m.setTab((m.tab + 1) % tabCount)
		return m, cmd
	case "shift+tab", "left":
		cmd := m.setTab((m.tab + tabCount - 1) % tabCount)
		return m, cmd
	case "1", "2", "3":
		n, _ := strconv.Atoi(msg.String())
		cmd := m.setTab(Tab(n - 1))
		return m, cmd
	case "c":
		m.categoryIdx = (m.categoryIdx + 1) % (len(m.options.Categories) + 1)
		return m, m.load()
	case "m":
		m.manufacturerIdx = (m.manufacturerIdx + 1) % (len(m.options.Manufacturers) + 1)
		return m, m.load()
	case "r":
		return m, m.reload("manual", false)
	case "R":
		return m, m.reload("manual", true)
	}

	var cmd tea.Cmd
	if m.tab == AlertsTab {
		m.alertsTable, cmd = m.alertsTable.Update(msg)
	} else {
		m.inventoryTable, cmd = m.inventoryTable.Update(msg)
	}
	return m, cmd
}

func (m Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		cmd := m.setTab(OverviewTab)
		return m, cmd
	case "tab", "down":
		cmd := m.form.next()
		return m, cmd
	case "shift+tab", "up":
		cmd := m.form.prev()
		return m, cmd
	case "enter":
		if !m.form.onLastField() {
			cmd := m.form.next()
			return m, cmd
		}
		req, err := m.form.request()
		if err != nil {
			m.setStatus(statusError, err.Error())
			return m, nil
		}
		return m, m.receive(req)
	}
	cmd := m.form.update(msg)
	return m, cmd
}

func (m Model) handleReceived(msg receivedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.setStatus(statusError, msg.err.Error())
		return m, nil
	}

	result := msg.result
	switch result.Outcome {
	case dto.OutcomeNotFound:
		m.setStatus(statusError, result.Message())
		return m, nil
	case dto.OutcomeNeedsDetails:
		m.setStatus(statusInfo, result.Message())
		cmd := m.form.askForDetails()
		return m, cmd
	}

	if result.Warning != "" {
		m.setStatus(statusWarning, result.Message()+". "+result.Warning)
	} else {
		m.setStatus(statusSuccess, result.Message())
	}
	m.form.reset()
	focus := m.form.focusField(fieldIdentifier)
	return m, tea.Batch(focus, m.load())
}

func (m *Model) setTab(tab Tab) tea.Cmd {
	m.tab = tab
	if tab == ReceiveTab {
		return m.form.focusField(m.form.focus)
	}
	m.form.blur()
	return nil
}

func (m *Model) setStatus(kind statusKind, text string) {
	m.statusKind = kind
	m.status = text
}

func (m Model) criteria() services.FilterCriteria {
	var criteria services.FilterCriteria
	if m.categoryIdx > 0 && m.categoryIdx <= len(m.options.Categories) {
		criteria.Categories = []string{m.options.Categories[m.categoryIdx-1]}
	}
	if m.manufacturerIdx > 0 && m.manufacturerIdx <= len(m.options.Manufacturers) {
		criteria.Manufacturers = []string{m.options.Manufacturers[m.manufacturerIdx-1]}
	}
	return criteria
}

func (m Model) load() tea.Cmd {
	ctx, dashboard, criteria := m.ctx, m.dashboard, m.criteria()
	return func() tea.Msg {
		var msg loadedMsg
		if msg.options, msg.err = dashboard.Options(ctx); msg.err != nil {
			return msg
		}
		if msg.records, msg.err = dashboard.View(ctx, criteria); msg.err != nil {
			return msg
		}
		if msg.alerts, msg.err = dashboard.Alerts(ctx, criteria); msg.err != nil {
			return msg
		}
		if msg.expiring, msg.err = dashboard.ExpiringSoon(ctx, criteria); msg.err != nil {
			return msg
		}
		if msg.activity, msg.err = dashboard.Activity("", activityLines); msg.err != nil {
			return msg
		}
		msg.summary, msg.err = dashboard.Summary(ctx, criteria)
		return msg
	}
}

func (m Model) receive(req services.ReceiveRequest) tea.Cmd {
	ctx, dashboard := m.ctx, m.dashboard
	return func() tea.Msg {
		result, err := dashboard.Receive(ctx, req)
		return receivedMsg{result: result, err: err}
	}
}

func (m Model) reload(reason string, discard bool) tea.Cmd {
	ctx, dashboard := m.ctx, m.dashboard
	return func() tea.Msg {
		reloaded, err := dashboard.Reload(ctx, reason, discard)
		return reloadedMsg{reloaded: reloaded, err: err}
	}
}

// View renders the dashboard
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(m.styles.Title.Render("🧪 Lab Inventory Dashboard") + "\n")
	b.WriteString(m.tabsView() + "\n\n")

	switch m.tab {
	case OverviewTab:
		b.WriteString(m.filtersView() + "\n")
		b.WriteString(m.metricsView() + "\n")
		if len(m.expiring) > 0 {
			b.WriteString(m.styles.Warning.Render(m.expiringView()) + "\n")
		}
		b.WriteString(m.inventoryTable.View() + "\n")
		if len(m.activity) > 0 {
			b.WriteString(m.styles.MetricLabel.Render(m.activityView()) + "\n")
		}
	case AlertsTab:
		if len(m.alerts) == 0 && m.loaded {
			b.WriteString(m.styles.Success.Render("No items need reordering") + "\n")
		} else {
			b.WriteString(m.styles.Warning.Render(fmt.Sprintf("%d items at or below their reorder threshold", len(m.alerts))) + "\n")
			b.WriteString(m.alertsTable.View() + "\n")
		}
	case ReceiveTab:
		b.WriteString(m.form.view(m.styles))
	}

	if m.status != "" {
		b.WriteString("\n" + m.statusView() + "\n")
	}
	b.WriteString(m.styles.Help.Render(m.helpView()))
	return b.String()
}

func (m Model) tabsView() string {
	tabs := make([]string, 0, tabCount)
	for t := OverviewTab; t < tabCount; t++ {
		label := fmt.Sprintf("%d %s", int(t)+1, t)
		if t == m.tab {
			tabs = append(tabs, m.styles.ActiveTab.Render(label))
		} else {
			tabs = append(tabs, m.styles.InactiveTab.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) filtersView() string {
	category, manufacturer := "All", "All"
	criteria := m.criteria()
	if len(criteria.Categories) > 0 {
		category = criteria.Categories[0]
	}
	if len(criteria.Manufacturers) > 0 {
		manufacturer = criteria.Manufacturers[0]
	}
	return m.styles.MetricLabel.Render(fmt.Sprintf("Category: %s   Manufacturer: %s", category, manufacturer))
}

func (m Model) metricsView() string {
	metric := func(label string, value int) string {
		return m.styles.Metric.Render(m.styles.MetricLabel.Render(label) + "\n" + strconv.Itoa(value))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top,
		metric("Total Items", m.summary.TotalItems),
		metric("Low Stock Items", m.summary.LowStockItems),
		metric(fmt.Sprintf("Expiring in %d Days", m.summary.HorizonDays), m.summary.ExpiringSoonItems),
	)
}

func (m Model) expiringView() string {
	items := make([]string, len(m.expiring))
	for i, r := range m.expiring {
		items[i] = fmt.Sprintf("%s (%s)", r.SKU, r.ExpirationString())
	}
	return "Expiring soon: " + strings.Join(items, ", ")
}

func (m Model) activityView() string {
	lines := make([]string, 0, len(m.activity)+1)
	lines = append(lines, "Recent activity:")
	for i := len(m.activity) - 1; i >= 0; i-- {
		a := m.activity[i]
		lines = append(lines, fmt.Sprintf("  %s  %s", a.At.Format("15:04:05"), a.Description))
	}
	return strings.Join(lines, "\n")
}

func (m Model) statusView() string {
	switch m.statusKind {
	case statusSuccess:
		return m.styles.Success.Render("✅ " + m.status)
	case statusWarning:
		return m.styles.Warning.Render("⚠️  " + m.status)
	case statusError:
		return m.styles.Error.Render("❌ " + m.status)
	default:
		return m.styles.Info.Render(m.status)
	}
}

func (m Model) helpView() string {
	if m.tab == ReceiveTab {
		return "tab/↓ next field • shift+tab/↑ previous • enter submit • esc back • ctrl+c quit"
	}
	return "1-3/tab switch page • c category • m manufacturer • r reload • R discard unsaved and reload • ↑/↓ scroll • q quit"
}

func inventoryRows(records []entities.InventoryRecord) []table.Row {
	rows := make([]table.Row, 0, len(records))
	for _, r := range records {
		expires := r.ExpirationString()
		if expires == "" {
			expires = "-"
		}
		reorder := ""
		if r.NeedsReorder() {
			reorder = "⚠"
		}
		rows = append(rows, table.Row{
			r.SKU,
			r.Name,
			r.Category,
			r.Manufacturer,
			expires,
			strconv.FormatInt(int64(r.QuantityInStock), 10),
			strconv.FormatInt(int64(r.ReorderThreshold), 10),
			strconv.FormatInt(int64(r.OrderQuantity), 10),
			reorder,
		})
	}
	return rows
}

func alertRows(records []entities.InventoryRecord) []table.Row {
	rows := make([]table.Row, 0, len(records))
	for _, r := range records {
		rows = append(rows, table.Row{
			r.SKU,
			r.Name,
			r.Manufacturer,
			strconv.FormatInt(int64(r.QuantityInStock), 10),
			strconv.FormatInt(int64(r.ReorderThreshold), 10),
			strconv.FormatInt(int64(r.OrderQuantity), 10),
		})
	}
	return rows
}
