package config

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"TrendSentinel/internal/strategy"
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

	assert.Equal(t, []string{"APOLLOMICRO.NS", "AVANTEL.NS", "IDEA.NS"}, cfg.Tickers)
	assert.Equal(t, "yahoo", cfg.DataSource.Provider)
	assert.Equal(t, 180, cfg.DataSource.LookbackDays)
	assert.Equal(t, strategy.DefaultParams(), cfg.Params())
	assert.Equal(t, "0 0 22 * * 1-5", cfg.Schedule.ScanCron)
	assert.Equal(t, 6*time.Hour, cfg.Cache.TTL)
	assert.Equal(t, "₹", cfg.Report.Currency)
	assert.NoError(t, cfg.Validate())
	assert.False(t, cfg.TelegramEnabled())
}

func TestLoad_FileValues(t *testing.T) {
	path := writeConfig(t, `
tickers: [" msft", "aapl", "MSFT", ""]
data_source:
  provider: mock
  lookback_days: 90
  fetch_timeout: 5s
signals:
  fast_span: 10
  slow_span: 30
  spike_multiplier: 3.5
cache:
  sqlite_path: data/bars.db
  ttl: 1h
report:
  currency: "$"
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"MSFT", "AAPL"}, cfg.Tickers)
	assert.Equal(t, "mock", cfg.DataSource.Provider)
	assert.Equal(t, 90, cfg.DataSource.LookbackDays)
	assert.Equal(t, 5*time.Second, cfg.DataSource.FetchTimeout)

	p := cfg.Params()
	assert.Equal(t, 10, p.FastSpan)
	assert.Equal(t, 30, p.SlowSpan)
	assert.Equal(t, 200, p.LongSpan)
	assert.Equal(t, 20, p.VolumeWindow)
	assert.Equal(t, 3.5, p.SpikeMultiplier)

	assert.Equal(t, "data/bars.db", cfg.Cache.SQLitePath)
	assert.Equal(t, time.Hour, cfg.Cache.TTL)
	assert.Equal(t, "$", cfg.Report.Currency)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("TICKERS", "infy.ns, tcs.ns")
	t.Setenv("VSTRADER_BASE_URL", "http://bars.local")
	t.Setenv("TELEGRAM_BOT_TOKEN", "tok")
	t.Setenv("TELEGRAM_CHAT_ID", "42")
	t.Setenv("CRON_SCAN", "0 30 18 * * *")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load(writeConfig(t, "tickers: [AAPL]\n"))
	require.NoError(t, err)

	assert.Equal(t, []string{"INFY.NS", "TCS.NS"}, cfg.Tickers)
	assert.Equal(t, "vstrader", cfg.DataSource.Provider)
	assert.Equal(t, "0 30 18 * * *", cfg.Schedule.ScanCron)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.True(t, cfg.TelegramEnabled())
	assert.NoError(t, cfg.Validate())
}

func TestLoad_BadYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "tickers: [unclosed\n"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"unknown provider", func(c *Config) { c.DataSource.Provider = "bloomberg" }},
		{"vstrader without url", func(c *Config) { c.DataSource.Provider = "vstrader"; c.DataSource.BaseURL = "" }},
		{"no tickers", func(c *Config) { c.Tickers = nil }},
		{"negative lookback", func(c *Config) { c.DataSource.LookbackDays = -1 }},
		{"bad multiplier", func(c *Config) { c.Signals.SpikeMultiplier = -2 }},
		{"zero concurrency", func(c *Config) { c.Scanner.Concurrency = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(filepath.Join(t.TempDir(), "none.yaml"))
			require.NoError(t, err)
			tt.mutate(cfg)
			err = cfg.Validate()
			require.Error(t, err)
			// Errors carry a stack trace from the validation site.
			assert.Contains(t, fmt.Sprintf("%+v", err), "config.(*Config).Validate")
		})
	}
}

func TestParseTickers(t *testing.T) {
	assert.Equal(t, []string{"APOLLOMICRO.NS", "AVANTEL.NS", "IDEA.NS"},
		ParseTickers("APOLLOMICRO.NS, avantel.ns ,, IDEA.NS, apollomicro.ns"))
	assert.Nil(t, ParseTickers(" , "))
}
