package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"StockAdvisor/internal/calculator"
)

// Config holds all application configuration.
type Config struct {
	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"` // console or json
	} `yaml:"log"`
	DataSource struct {
		Symbol      string `yaml:"symbol"`
		HistoryBars int    `yaml:"history_bars"` // daily bars fetched per training run
		BaseURL     string `yaml:"base_url"`
		APIKey      string `yaml:"api_key"`
	} `yaml:"data_source"`
	Model struct {
		TrainRatio          float64 `yaml:"train_ratio"`
		MinRows             int     `yaml:"min_rows"`
		FallbackProbability float64 `yaml:"fallback_probability"`
		RetrainCron         string  `yaml:"retrain_cron"`
	} `yaml:"model"`
	Server struct {
		Addr           string `yaml:"addr"`
		Currency       string `yaml:"currency"`
		DefaultCapital int64  `yaml:"default_capital"`
	} `yaml:"server"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable
// overrides and defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg.applyEnv()
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("ADVISOR_SYMBOL"); v != "" {
		c.DataSource.Symbol = v
	}
	if v := os.Getenv("DATA_SOURCE_BASE_URL"); v != "" {
		c.DataSource.BaseURL = v
	}
	if v := os.Getenv("DATA_SOURCE_API_KEY"); v != "" {
		c.DataSource.APIKey = v
	}
	if v := os.Getenv("HISTORY_BARS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.DataSource.HistoryBars = n
		}
	}
	if v := os.Getenv("RETRAIN_CRON"); v != "" {
		c.Model.RetrainCron = v
	}
	if v := os.Getenv("HTTP_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		c.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		c.Telegram.ChatID = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		c.Database.SQLitePath = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		c.Proxy = v
	}
}

func (c *Config) applyDefaults() {
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "console"
	}
	if c.DataSource.Symbol == "" {
		c.DataSource.Symbol = "INFY.NS"
	}
	if c.DataSource.HistoryBars == 0 {
		c.DataSource.HistoryBars = 250
	}
	if c.Model.TrainRatio == 0 {
		c.Model.TrainRatio = 0.8
	}
	if c.Model.MinRows == 0 {
		c.Model.MinRows = 30
	}
	// Zero is treated as unset; a model that always holds is not useful.
	if c.Model.FallbackProbability == 0 {
		c.Model.FallbackProbability = 0.4
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8000"
	}
	if c.Server.Currency == "" {
		c.Server.Currency = "₹"
	}
	if c.Server.DefaultCapital == 0 {
		c.Server.DefaultCapital = 10000
	}
	if c.Database.SQLitePath == "" {
		c.Database.SQLitePath = "data/advisor.db"
	}
}

// Validate checks that all fields are usable.
func (c *Config) Validate() error {
	if c.Model.TrainRatio <= 0 || c.Model.TrainRatio >= 1 {
		return fmt.Errorf("model.train_ratio must be in (0, 1), got %v", c.Model.TrainRatio)
	}
	if c.Model.MinRows < 2 {
		return fmt.Errorf("model.min_rows must be at least 2, got %d", c.Model.MinRows)
	}
	if floor := MinHistoryBars(c.Model.MinRows); c.DataSource.HistoryBars < floor {
		return fmt.Errorf("data_source.history_bars must be at least %d for model.min_rows %d, got %d",
			floor, c.Model.MinRows, c.DataSource.HistoryBars)
	}
	if c.Model.FallbackProbability < 0 || c.Model.FallbackProbability > 1 {
		return fmt.Errorf("model.fallback_probability must be in [0, 1], got %v", c.Model.FallbackProbability)
	}
	if c.Server.DefaultCapital <= 0 {
		return fmt.Errorf("server.default_capital must be positive")
	}
	if (c.Telegram.BotToken == "") != (c.Telegram.ChatID == "") {
		return fmt.Errorf("telegram.bot_token and telegram.chat_id must be set together")
	}
	switch c.Log.Format {
	case "console", "json":
	default:
		return fmt.Errorf("log.format must be console or json, got %q", c.Log.Format)
	}
	return nil
}

// MinHistoryBars is the shortest history that can train with minRows
// labelled rows after indicator warm-up.
func MinHistoryBars(minRows int) int {
	return calculator.DefaultSettings.MinBars(minRows)
}

// TelegramEnabled reports whether operator notifications are configured.
func (c *Config) TelegramEnabled() bool {
	return c.Telegram.BotToken != "" && c.Telegram.ChatID != ""
}
