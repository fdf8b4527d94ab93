package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/vsinha/labstock/pkg/domain/entities"
)

// Config holds all labstock configuration.
type Config struct {
	Storage   StorageConfig   `yaml:"storage"`
	Alerts    AlertsConfig    `yaml:"alerts"`
	Defaults  DefaultsConfig  `yaml:"defaults"`
	Receiving ReceivingConfig `yaml:"receiving"`
	Server    ServerConfig    `yaml:"server"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// StorageConfig configures where the inventory table lives.
type StorageConfig struct {
	// Locations are tried in order on load and used as write fallbacks on save
	Locations     []LocationConfig `yaml:"locations"`
	CacheTTL      string           `yaml:"cache_ttl"` // Go duration, "0" disables caching
	ConflictCheck bool             `yaml:"conflict_check"`
}

// LocationConfig is one persisted copy of the inventory.
type LocationConfig struct {
	Path   string `yaml:"path"`
	Format string `yaml:"format,omitempty"` // xlsx, csv, sqlite; inferred from extension when empty
}

// AlertsConfig configures dashboard alerts.
type AlertsConfig struct {
	ExpiryHorizonDays int `yaml:"expiry_horizon_days"`
}

// DefaultsConfig holds column defaults for records that omit them.
type DefaultsConfig struct {
	ReorderThreshold int64 `yaml:"reorder_threshold"`
	OrderQuantity    int64 `yaml:"order_quantity"`
}

// ReceivingConfig configures the shipment receiver.
type ReceivingConfig struct {
	Identifier     string `yaml:"identifier"`       // sku, name
	NotFoundPolicy string `yaml:"not_found_policy"` // reject, create
}

// ServerConfig configures the HTTP dashboard API.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, console
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Storage: StorageConfig{
			Locations: []LocationConfig{
				{Path: "Inventory.xlsx"},
				{Path: "Inventory.csv"},
			},
			CacheTTL:      "10m",
			ConflictCheck: true,
		},
		Alerts: AlertsConfig{
			ExpiryHorizonDays: 30,
		},
		Defaults: DefaultsConfig{
			ReorderThreshold: int64(entities.DefaultReorderThreshold),
			OrderQuantity:    int64(entities.DefaultOrderQuantity),
		},
		Receiving: ReceivingConfig{
			Identifier:     "sku",
			NotFoundPolicy: "reject",
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load reads configuration from path. A missing file yields the defaults.
// Environment overrides are applied last.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
			// defaults
		case err != nil:
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
			}
		}
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// Save writes the configuration as YAML.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config %s: %w", path, err)
	}
	return nil
}

// applyEnvOverrides applies LABSTOCK_* environment variables.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("LABSTOCK_FILE"); v != "" {
		var locations []LocationConfig
		for _, p := range strings.Split(v, string(os.PathListSeparator)) {
			if p = strings.TrimSpace(p); p != "" {
				locations = append(locations, LocationConfig{Path: p})
			}
		}
		if len(locations) > 0 {
			c.Storage.Locations = locations
		}
	}
	if v := os.Getenv("LABSTOCK_EXPIRY_DAYS"); v != "" {
		if days, err := strconv.Atoi(v); err == nil {
			c.Alerts.ExpiryHorizonDays = days
		}
	}
	if v := os.Getenv("LABSTOCK_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("LABSTOCK_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
}

// Validate checks the configuration for values the services cannot use.
func (c *Config) Validate() error {
	if len(c.Storage.Locations) == 0 {
		return fmt.Errorf("storage.locations must list at least one inventory file")
	}
	for i, loc := range c.Storage.Locations {
		if strings.TrimSpace(loc.Path) == "" {
			return fmt.Errorf("storage.locations[%d].path is empty", i)
		}
	}
	if _, err := c.CacheTTL(); err != nil {
		return err
	}
	if c.Alerts.ExpiryHorizonDays < 0 {
		return fmt.Errorf("alerts.expiry_horizon_days cannot be negative, got %d", c.Alerts.ExpiryHorizonDays)
	}
	if c.Defaults.ReorderThreshold < 0 || c.Defaults.OrderQuantity < 0 {
		return fmt.Errorf("defaults cannot be negative")
	}
	if _, err := entities.ParseIdentifierField(c.Receiving.Identifier); err != nil {
		return fmt.Errorf("receiving.identifier: %w", err)
	}
	switch strings.ToLower(c.Receiving.NotFoundPolicy) {
	case "", "reject", "create":
	default:
		return fmt.Errorf("receiving.not_found_policy: invalid value %q (expected: reject or create)", c.Receiving.NotFoundPolicy)
	}
	return nil
}

// CacheTTL parses the storage cache validity window.
func (c *Config) CacheTTL() (time.Duration, error) {
	if strings.TrimSpace(c.Storage.CacheTTL) == "" || c.Storage.CacheTTL == "0" {
		return 0, nil
	}
	ttl, err := time.ParseDuration(c.Storage.CacheTTL)
	if err != nil {
		return 0, fmt.Errorf("storage.cache_ttl: %w", err)
	}
	if ttl < 0 {
		return 0, fmt.Errorf("storage.cache_ttl cannot be negative, got %s", ttl)
	}
	return ttl, nil
}

// ExpiryHorizon returns the alert horizon as a duration.
func (c *Config) ExpiryHorizon() time.Duration {
	return time.Duration(c.Alerts.ExpiryHorizonDays) * 24 * time.Hour
}
