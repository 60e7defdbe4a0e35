package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "INFY.NS", cfg.DataSource.Symbol)
	assert.Equal(t, 250, cfg.DataSource.HistoryBars)
	assert.Equal(t, 0.8, cfg.Model.TrainRatio)
	assert.Equal(t, 0.4, cfg.Model.FallbackProbability)
	assert.Empty(t, cfg.Model.RetrainCron)
	assert.Equal(t, ":8000", cfg.Server.Addr)
	assert.Equal(t, "₹", cfg.Server.Currency)
	assert.Equal(t, int64(10000), cfg.Server.DefaultCapital)
	assert.False(t, cfg.TelegramEnabled())
	assert.NoError(t, cfg.Validate())
}

func TestLoad_FileAndEnvOverrides(t *testing.T) {
	path := writeConfig(t, `
data_source:
  symbol: TCS.NS
  history_bars: 500
model:
  retrain_cron: "0 0 18 * * 1-5"
server:
  addr: ":9000"
  currency: "$"
log:
  format: json
`)
	t.Setenv("ADVISOR_SYMBOL", "RELIANCE.NS")
	t.Setenv("HTTP_ADDR", ":9100")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "RELIANCE.NS", cfg.DataSource.Symbol)
	assert.Equal(t, 500, cfg.DataSource.HistoryBars)
	assert.Equal(t, "0 0 18 * * 1-5", cfg.Model.RetrainCron)
	assert.Equal(t, ":9100", cfg.Server.Addr)
	assert.Equal(t, "$", cfg.Server.Currency)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_InvalidYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "server: [unclosed"))
	assert.ErrorContains(t, err, "parse config")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"short history", func(c *Config) { c.DataSource.HistoryBars = 10 }},
		{"train ratio", func(c *Config) { c.Model.TrainRatio = 1 }},
		{"min rows", func(c *Config) { c.Model.MinRows = 1 }},
		{"fallback", func(c *Config) { c.Model.FallbackProbability = 1.2 }},
		{"capital", func(c *Config) { c.Server.DefaultCapital = -5 }},
		{"telegram half set", func(c *Config) { c.Telegram.BotToken = "token" }},
		{"log format", func(c *Config) { c.Log.Format = "xml" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
			require.NoError(t, err)
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestValidate_HistoryBarsFloor(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	require.Equal(t, 30, cfg.Model.MinRows)
	require.Equal(t, 80, MinHistoryBars(30))

	cfg.DataSource.HistoryBars = 79
	assert.ErrorContains(t, cfg.Validate(), "history_bars must be at least 80")

	cfg.DataSource.HistoryBars = 80
	assert.NoError(t, cfg.Validate())

	cfg.Model.MinRows = 100
	assert.ErrorContains(t, cfg.Validate(), "at least 150")
}

func TestLoad_HistoryBarsEnv(t *testing.T) {
	t.Setenv("HISTORY_BARS", "60")
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 60, cfg.DataSource.HistoryBars)
	assert.Error(t, cfg.Validate())
}
