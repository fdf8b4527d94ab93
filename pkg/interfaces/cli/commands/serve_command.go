package commands

import (
	"context"
	"errors"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/vsinha/labstock/pkg/infrastructure/watch"
	httpapi "github.com/vsinha/labstock/pkg/interfaces/http"
	"github.com/vsinha/labstock/pkg/interfaces/tui"
)

// ServeConfig holds configuration for the serve command
type ServeConfig struct {
	Addr      string
	Watch     bool
	AccessLog io.Writer
}

// ServeCommand runs the dashboard HTTP API
type ServeCommand struct {
	config ServeConfig
	app    *App
}

// NewServeCommand creates a serve command
func NewServeCommand(config ServeConfig, app *App) *ServeCommand {
	return &ServeCommand{
		config: config,
		app:    app,
	}
}

// Execute serves until ctx is done. With Watch set, external edits to the
// inventory files reload the session table.
func (c *ServeCommand) Execute(ctx context.Context) error {
	if err := c.app.Dashboard.Refresh(ctx); err != nil {
		return fmt.Errorf("failed to load inventory: %w", err)
	}

	server := httpapi.NewServer(c.app.Dashboard, httpapi.Options{AccessLog: c.config.AccessLog}, c.app.Logger.Named("http"))

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return server.Serve(ctx, c.config.Addr)
	})

	if c.config.Watch {
		watcher, err := watch.New(c.app.WatchPaths(), watch.DefaultDebounce, c.app.Logger.Named("watch"))
		if err != nil {
			return fmt.Errorf("failed to watch inventory: %w", err)
		}
		g.Go(func() error {
			return watcher.Run(ctx, func(path string) {
				if _, err := c.app.Dashboard.Reload(ctx, "changed on disk: "+path, false); err != nil {
					c.app.Logger.Error("inventory reload failed", zap.String("path", path), zap.Error(err))
				}
			})
		})
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// DashboardCommand runs the interactive terminal dashboard
type DashboardCommand struct {
	app *App
}

// NewDashboardCommand creates a dashboard command
func NewDashboardCommand(app *App) *DashboardCommand {
	return &DashboardCommand{app: app}
}

// Execute runs the terminal dashboard until the operator quits or ctx is done
func (c *DashboardCommand) Execute(ctx context.Context) error {
	watcher, err := watch.New(c.app.WatchPaths(), watch.DefaultDebounce, c.app.Logger.Named("watch"))
	if err != nil {
		return fmt.Errorf("failed to watch inventory: %w", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	program := tui.NewProgram(ctx, c.app.Dashboard)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer cancel()
		_, err := program.Run()
		if errors.Is(err, tea.ErrProgramKilled) {
			return nil
		}
		return err
	})
	g.Go(func() error {
		return watcher.Run(ctx, func(path string) {
			program.Send(tui.ReloadMsg{Path: path})
		})
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
