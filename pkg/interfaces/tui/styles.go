// Package tui renders the inventory dashboard in the terminal.
package tui

import (
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
)

var (
	Primary     = lipgloss.Color("#2196F3")
	Muted       = lipgloss.Color("#6b7280")
	Success     = lipgloss.Color("#8BC34A")
	Warning     = lipgloss.Color("#FFC107")
	Destructive = lipgloss.Color("#e53935")
	Border      = lipgloss.Color("#3b4252")
)

// Styles holds the lipgloss styles of the dashboard
type Styles struct {
	Title       lipgloss.Style
	ActiveTab   lipgloss.Style
	InactiveTab lipgloss.Style
	Metric      lipgloss.Style
	MetricLabel lipgloss.Style
	Label       lipgloss.Style
	Help        lipgloss.Style
	Success     lipgloss.Style
	Warning     lipgloss.Style
	Error       lipgloss.Style
	Info        lipgloss.Style
	Table       table.Styles
}

// DefaultStyles returns the dashboard styles
func DefaultStyles() Styles {
	tableStyles := table.DefaultStyles()
	tableStyles.Header = tableStyles.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(Border).
		BorderBottom(true).
		Bold(true)
	tableStyles.Selected = tableStyles.Selected.
		Foreground(lipgloss.Color("#ffffff")).
		Background(Primary).
		Bold(false)

	return Styles{
		Title:       lipgloss.NewStyle().Bold(true).Foreground(Primary).MarginBottom(1),
		ActiveTab:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ffffff")).Background(Primary).Padding(0, 2),
		InactiveTab: lipgloss.NewStyle().Foreground(Muted).Padding(0, 2),
		Metric:      lipgloss.NewStyle().Bold(true).Padding(0, 1).Border(lipgloss.RoundedBorder()).BorderForeground(Border),
		MetricLabel: lipgloss.NewStyle().Foreground(Muted),
		Label:       lipgloss.NewStyle().Width(20).Foreground(Muted),
		Help:        lipgloss.NewStyle().Foreground(Muted).MarginTop(1),
		Success:     lipgloss.NewStyle().Foreground(Success),
		Warning:     lipgloss.NewStyle().Foreground(Warning),
		Error:       lipgloss.NewStyle().Foreground(Destructive),
		Info:        lipgloss.NewStyle().Foreground(Primary),
		Table:       tableStyles,
	}
}
