package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/etnz/tcgtracker/date"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "3", cfg.PrimaryCategory)
	assert.Equal(t, "America/Los_Angeles", cfg.Timezone)
	assert.Equal(t, BackendFiles, cfg.Data.Backend)
	assert.Equal(t, "0 15 * * *", cfg.Schedule.DailyCron)
	assert.True(t, cfg.Start().IsZero())
	assert.Equal(t, filepath.Join(".", "transactions.json"), cfg.Path(cfg.Data.Transactions))
}

func TestLoad_JSON(t *testing.T) {
	// the historical config.json is valid YAML.
	path := filepath.Join(t.TempDir(), "config.json")
	content := `{"start_date": "2024-01-01", "primary_category": "3", "data": {"dir": "/srv/tcg", "backend": "sqlite"}}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())
	assert.Equal(t, date.New(2024, 1, 1), cfg.Start())
	assert.Equal(t, BackendSQLite, cfg.Data.Backend)
	assert.Equal(t, "/srv/tcg/prices.db", cfg.Path(cfg.Data.SQLitePath))
	assert.Equal(t, "/abs/x.json", cfg.Path("/abs/x.json"))
}

func TestLoad_Env(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "start_date: \"2024-01-01\"\ntimezone: UTC\nfetch:\n  parallelism: 2\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	t.Setenv("TCG_START_DATE", "2024-03-01")
	t.Setenv("TCG_TIMEZONE", "Europe/Paris")
	t.Setenv("TCG_FETCH_PARALLELISM", "8")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, date.New(2024, 3, 1), cfg.Start())
	assert.Equal(t, "Europe/Paris", cfg.Location().String())
	assert.Equal(t, 8, cfg.Fetch.Parallelism)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"bad start date", func(c *Config) { c.StartDate = "yesterday" }},
		{"bad timezone", func(c *Config) { c.Timezone = "Mars/Olympus" }},
		{"bad cost basis", func(c *Config) { c.CostBasis = "lifo" }},
		{"bad backend", func(c *Config) { c.Data.Backend = "postgres" }},
		{"bad parallelism", func(c *Config) { c.Fetch.Parallelism = -1 }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := &Config{}
			cfg.setDefaults()
			require.NoError(t, cfg.Validate())
			tc.modify(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
