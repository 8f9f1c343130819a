package config

import (
	"os"
	"strings"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"TrendSentinel/internal/strategy"
)

// Config holds all application configuration.
type Config struct {
	Tickers    []string `yaml:"tickers"`
	DataSource struct {
		Provider     string        `yaml:"provider"` // yahoo, vstrader or mock
		BaseURL      string        `yaml:"base_url"`
		APIKey       string        `yaml:"api_key"`
		LookbackDays int           `yaml:"lookback_days"`
		FetchTimeout time.Duration `yaml:"fetch_timeout"`
	} `yaml:"data_source"`
	Signals struct {
		FastSpan        int     `yaml:"fast_span"`
		SlowSpan        int     `yaml:"slow_span"`
		LongSpan        int     `yaml:"long_span"`
		VolumeWindow    int     `yaml:"volume_window"`
		SpikeMultiplier float64 `yaml:"spike_multiplier"`
	} `yaml:"signals"`
	Schedule struct {
		ScanCron string `yaml:"scan_cron"`
	} `yaml:"schedule"`
	Scanner struct {
		Concurrency int `yaml:"concurrency"`
	} `yaml:"scanner"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Cache struct {
		SQLitePath string        `yaml:"sqlite_path"`
		TTL        time.Duration `yaml:"ttl"`
	} `yaml:"cache"`
	Report struct {
		Currency string `yaml:"currency"`
	} `yaml:"report"`
	Metrics struct {
		Addr string `yaml:"addr"`
	} `yaml:"metrics"`
	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
// A missing file is not an error; defaults and env vars still apply.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, errors.Wrap(err, "read config")
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, errors.Wrap(err, "parse config")
		}
	}

	// Environment variable overrides
	if v := os.Getenv("TICKERS"); v != "" {
		cfg.Tickers = ParseTickers(v)
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("VSTRADER_BASE_URL"); v != "" {
		cfg.DataSource.BaseURL = v
	}
	if v := os.Getenv("VSTRADER_API_KEY"); v != "" {
		cfg.DataSource.APIKey = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("CRON_SCAN"); v != "" {
		cfg.Schedule.ScanCron = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Cache.SQLitePath = v
	}
	if v := os.Getenv("METRICS_ADDR"); v != "" {
		cfg.Metrics.Addr = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}

	cfg.applyDefaults()
	cfg.Tickers = ParseTickers(strings.Join(cfg.Tickers, ","))
	return cfg, nil
}

func (c *Config) applyDefaults() {
	d := strategy.DefaultParams()

	if len(c.Tickers) == 0 {
		c.Tickers = []string{"APOLLOMICRO.NS", "AVANTEL.NS", "IDEA.NS"}
	}
	if c.DataSource.Provider == "" {
		c.DataSource.Provider = "yahoo"
		if c.DataSource.BaseURL != "" {
			c.DataSource.Provider = "vstrader"
		}
	}
	if c.DataSource.LookbackDays == 0 {
		c.DataSource.LookbackDays = 180
	}
	if c.DataSource.FetchTimeout == 0 {
		c.DataSource.FetchTimeout = 30 * time.Second
	}
	if c.Signals.FastSpan == 0 {
		c.Signals.FastSpan = d.FastSpan
	}
	if c.Signals.SlowSpan == 0 {
		c.Signals.SlowSpan = d.SlowSpan
	}
	if c.Signals.LongSpan == 0 {
		c.Signals.LongSpan = d.LongSpan
	}
	if c.Signals.VolumeWindow == 0 {
		c.Signals.VolumeWindow = d.VolumeWindow
	}
	if c.Signals.SpikeMultiplier == 0 {
		c.Signals.SpikeMultiplier = d.SpikeMultiplier
	}
	if c.Schedule.ScanCron == "" {
		c.Schedule.ScanCron = "0 0 22 * * 1-5"
	}
	if c.Scanner.Concurrency == 0 {
		c.Scanner.Concurrency = 4
	}
	if c.Cache.TTL == 0 {
		c.Cache.TTL = 6 * time.Hour
	}
	if c.Report.Currency == "" {
		c.Report.Currency = "₹"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

// Params maps the signals section onto engine parameters.
func (c *Config) Params() strategy.Params {
	return strategy.Params{
		FastSpan:        c.Signals.FastSpan,
		SlowSpan:        c.Signals.SlowSpan,
		LongSpan:        c.Signals.LongSpan,
		VolumeWindow:    c.Signals.VolumeWindow,
		SpikeMultiplier: c.Signals.SpikeMultiplier,
	}
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if len(c.Tickers) == 0 {
		return errors.New("at least one ticker is required")
	}
	switch c.DataSource.Provider {
	case "yahoo", "mock":
	case "vstrader":
		if c.DataSource.BaseURL == "" {
			return errors.New("data_source.base_url is required for vstrader")
		}
	default:
		return errors.Errorf("unknown data_source.provider %q", c.DataSource.Provider)
	}
	if c.DataSource.LookbackDays <= 0 {
		return errors.New("data_source.lookback_days must be positive")
	}
	if c.Scanner.Concurrency <= 0 {
		return errors.New("scanner.concurrency must be positive")
	}
	if err := c.Params().Validate(); err != nil {
		return errors.Wrap(err, "signals")
	}
	return nil
}

// TelegramEnabled reports whether both Telegram credentials are present.
func (c *Config) TelegramEnabled() bool {
	return c.Telegram.BotToken != "" && c.Telegram.ChatID != ""
}

// ParseTickers splits a comma-separated list, trims and upper-cases each
// symbol, and drops blanks and repeats while keeping first-seen order.
func ParseTickers(s string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, part := range strings.Split(s, ",") {
		t := strings.ToUpper(strings.TrimSpace(part))
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}
