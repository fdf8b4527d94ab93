package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	require.Len(t, cfg.Storage.Locations, 2)
	assert.Equal(t, "Inventory.xlsx", cfg.Storage.Locations[0].Path)
	assert.Equal(t, "Inventory.csv", cfg.Storage.Locations[1].Path)
	assert.Equal(t, 30, cfg.Alerts.ExpiryHorizonDays)
	assert.Equal(t, int64(1), cfg.Defaults.ReorderThreshold)
	assert.Equal(t, int64(1), cfg.Defaults.OrderQuantity)
	assert.Equal(t, "reject", cfg.Receiving.NotFoundPolicy)
	assert.NoError(t, cfg.Validate())
	assert.Equal(t, 30*24*time.Hour, cfg.ExpiryHorizon())
}

func TestConfig_SaveLoad(t *testing.T) {
	t.Setenv("LABSTOCK_FILE", "")
	t.Setenv("LABSTOCK_EXPIRY_DAYS", "")

	path := filepath.Join(t.TempDir(), "labstock.yaml")

	cfg := DefaultConfig()
	cfg.Storage.Locations = []LocationConfig{{Path: "stock.db", Format: "sqlite"}}
	cfg.Receiving.NotFoundPolicy = "create"
	cfg.Alerts.ExpiryHorizonDays = 14
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg.Storage.Locations, loaded.Storage.Locations)
	assert.Equal(t, "create", loaded.Receiving.NotFoundPolicy)
	assert.Equal(t, 14, loaded.Alerts.ExpiryHorizonDays)
}

func TestConfig_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "labstock.yaml")
	require.NoError(t, os.WriteFile(path, []byte("alerts:\n  expiry_horizon_days: 7\n"), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Alerts.ExpiryHorizonDays)
	assert.Equal(t, "10m", cfg.Storage.CacheTTL)
	assert.True(t, cfg.Storage.ConflictCheck)
}

func TestConfig_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().Storage, cfg.Storage)
}

func TestConfig_MalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "labstock.yaml")
	require.NoError(t, os.WriteFile(path, []byte("storage: [unterminated"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestConfig_EnvOverrides(t *testing.T) {
	t.Setenv("LABSTOCK_FILE", "a.csv"+string(os.PathListSeparator)+"b.db")
	t.Setenv("LABSTOCK_EXPIRY_DAYS", "45")
	t.Setenv("LABSTOCK_ADDR", ":9090")
	t.Setenv("LABSTOCK_LOG_LEVEL", "debug")

	cfg := DefaultConfig()
	cfg.applyEnvOverrides()

	assert.Equal(t, []LocationConfig{{Path: "a.csv"}, {Path: "b.db"}}, cfg.Storage.Locations)
	assert.Equal(t, 45, cfg.Alerts.ExpiryHorizonDays)
	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"no locations", func(c *Config) { c.Storage.Locations = nil }},
		{"empty path", func(c *Config) { c.Storage.Locations = []LocationConfig{{Path: " "}} }},
		{"bad ttl", func(c *Config) { c.Storage.CacheTTL = "soon" }},
		{"negative horizon", func(c *Config) { c.Alerts.ExpiryHorizonDays = -1 }},
		{"negative default", func(c *Config) { c.Defaults.OrderQuantity = -1 }},
		{"bad identifier", func(c *Config) { c.Receiving.Identifier = "barcode" }},
		{"bad policy", func(c *Config) { c.Receiving.NotFoundPolicy = "ignore" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestConfig_CacheTTL(t *testing.T) {
	cfg := DefaultConfig()
	ttl, err := cfg.CacheTTL()
	require.NoError(t, err)
	assert.Equal(t, 10*time.Minute, ttl)

	cfg.Storage.CacheTTL = "0"
	ttl, err = cfg.CacheTTL()
	require.NoError(t, err)
	assert.Zero(t, ttl)
}
