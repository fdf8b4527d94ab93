package commands

import (
	"context"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/vsinha/labstock/pkg/application/services"
	"github.com/vsinha/labstock/pkg/domain/entities"
	"github.com/vsinha/labstock/pkg/interfaces/cli/output"
)

// View selects what a ViewCommand prints
type View int

const (
	ListView View = iota
	SummaryView
	AlertsView
)

// String method for View enum
func (v View) String() string {
	switch v {
	case ListView:
		return "list"
	case SummaryView:
		return "summary"
	case AlertsView:
		return "alerts"
	default:
		return "unknown"
	}
}

// FilterFlags holds the raw filter flags shared by the read-only commands
type FilterFlags struct {
	Categories    []string
	Manufacturers []string
	ExpiresFrom   string
	ExpiresTo     string
}

// Criteria parses the flags into filter criteria
func (f FilterFlags) Criteria() (services.FilterCriteria, error) {
	from, err := parseDateFlag("expires-from", f.ExpiresFrom)
	if err != nil {
		return services.FilterCriteria{}, err
	}
	to, err := parseDateFlag("expires-to", f.ExpiresTo)
	if err != nil {
		return services.FilterCriteria{}, err
	}
	if !from.IsZero() && !to.IsZero() && to.Before(from) {
		return services.FilterCriteria{}, fmt.Errorf("--expires-to %s is before --expires-from %s",
			f.ExpiresTo, f.ExpiresFrom)
	}
	return services.FilterCriteria{
		Categories:    f.Categories,
		Manufacturers: f.Manufacturers,
		ExpiresFrom:   from,
		ExpiresTo:     to,
	}, nil
}

// ViewConfig holds configuration for the read-only commands
type ViewConfig struct {
	View    View
	Filters FilterFlags
	Format  string
	Out     io.Writer
}

// ViewCommand prints one dashboard view
type ViewCommand struct {
	config    ViewConfig
	dashboard *services.Dashboard
}

// NewViewCommand creates a view command over dashboard
func NewViewCommand(config ViewConfig, dashboard *services.Dashboard) *ViewCommand {
	return &ViewCommand{
		config:    config,
		dashboard: dashboard,
	}
}

// Execute runs the view command
func (c *ViewCommand) Execute(ctx context.Context) error {
	if !slices.Contains(output.Formats, c.config.Format) {
		return fmt.Errorf("invalid format %q (expected: %s)", c.config.Format, strings.Join(output.Formats, ", "))
	}

	criteria, err := c.config.Filters.Criteria()
	if err != nil {
		return err
	}

	switch c.config.View {
	case ListView:
		records, err := c.dashboard.View(ctx, criteria)
		if err != nil {
			return fmt.Errorf("failed to load inventory: %w", err)
		}
		return output.Records(c.config.Out, records, c.config.Format)
	case SummaryView:
		summary, err := c.dashboard.Summary(ctx, criteria)
		if err != nil {
			return fmt.Errorf("failed to load inventory: %w", err)
		}
		return output.Summary(c.config.Out, summary, c.config.Format)
	case AlertsView:
		records, err := c.dashboard.Alerts(ctx, criteria)
		if err != nil {
			return fmt.Errorf("failed to load inventory: %w", err)
		}
		return output.Alerts(c.config.Out, records, c.config.Format)
	default:
		return fmt.Errorf("unknown view: %s", c.config.View)
	}
}

func parseDateFlag(name, value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(entities.DateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("--%s must be a YYYY-MM-DD date, got %q", name, value)
	}
	return t, nil
}
