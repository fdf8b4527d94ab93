package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/vsinha/labstock/pkg/config"
)

// InitConfig holds configuration for the config init command
type InitConfig struct {
	Path  string
	Force bool
	Out   io.Writer
}

// InitCommand writes the effective configuration to a file
type InitCommand struct {
	config   InitConfig
	settings *config.Config
}

// NewInitCommand creates a config init command writing settings
func NewInitCommand(config InitConfig, settings *config.Config) *InitCommand {
	return &InitCommand{
		config:   config,
		settings: settings,
	}
}

// Execute writes the file. An existing file is kept unless Force is set.
func (c *InitCommand) Execute(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	_, err := os.Stat(c.config.Path)
	switch {
	case err == nil && !c.config.Force:
		return fmt.Errorf("%s already exists (use --force to overwrite)", c.config.Path)
	case err != nil && !errors.Is(err, os.ErrNotExist):
		return fmt.Errorf("failed to check %s: %w", c.config.Path, err)
	}

	if err := c.settings.Save(c.config.Path); err != nil {
		return err
	}
	fmt.Fprintf(c.config.Out, "Wrote configuration to %s\n", c.config.Path)
	return nil
}
