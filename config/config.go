package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

type Config struct {
	Origins     []string `yaml:"origins"`
	Destination string   `yaml:"destination"`

	DateFrom         string `yaml:"date_from"` // YYYY-MM-DD
	DateTo           string `yaml:"date_to"`   // YYYY-MM-DD
	NightsMin        int    `yaml:"nights_min"`
	NightsMax        int    `yaml:"nights_max"`
	SampleEveryNDays int    `yaml:"sample_every_n_days"`

	Adults           int     `yaml:"adults"`
	MaxStops         int     `yaml:"max_stops"`
	PriceThresholdPP float64 `yaml:"price_threshold_pp"`
	Currency         string  `yaml:"currency"`
	Seat             string  `yaml:"seat"`

	DelayBetweenSearches int `yaml:"delay_between_searches"` // seconds
	CheckIntervalHours   int `yaml:"check_interval_hours"`
	SearchTimeoutSec     int `yaml:"search_timeout_sec"`
	MaxRetries           int `yaml:"max_retries"`
	Headless             bool `yaml:"headless"`

	HistoryPath   string `yaml:"history_path"`
	DealsPath     string `yaml:"deals_path"`
	LogPath       string `yaml:"log_path"`
	LastAlertPath string `yaml:"last_alert_path"`

	Email    EmailConfig    `yaml:"email"`
	Telegram TelegramConfig `yaml:"telegram"`
	Redis    RedisConfig    `yaml:"redis"`
	Database DatabaseConfig `yaml:"database"`
}

type EmailConfig struct {
	To          string `yaml:"to"`
	From        string `yaml:"from"`
	CC          string `yaml:"cc"`
	AppPassword string `yaml:"app_password"`
	SMTPHost    string `yaml:"smtp_host"`
	SMTPPort    int    `yaml:"smtp_port"`
}

type TelegramConfig struct {
	BotToken string `yaml:"bot_token"`
	ChatID   string `yaml:"chat_id"`
}

// RedisConfig enables the per-query listing cache when Addr is set.
type RedisConfig struct {
	Addr       string `yaml:"addr"`
	Password   string `yaml:"password"`
	DB         int    `yaml:"db"`
	TTLMinutes int    `yaml:"ttl_minutes"`
}

// DatabaseConfig enables the PostgreSQL history sink when Host is set.
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	SSLMode  string `yaml:"sslmode"`
}

func defaults() *Config {
	return &Config{
		NightsMin:            7,
		NightsMax:            14,
		SampleEveryNDays:     5,
		Adults:               2,
		MaxStops:             1,
		Currency:             "EUR",
		Seat:                 "economy",
		DelayBetweenSearches: 4,
		CheckIntervalHours:   12,
		SearchTimeoutSec:     45,
		MaxRetries:           2,
		Headless:             true,
		HistoryPath:          "price_history.jsonl",
		DealsPath:            "deals.txt",
		LogPath:              "monitor.log",
		LastAlertPath:        ".last_alert",
		Email: EmailConfig{
			SMTPHost: "smtp.gmail.com",
			SMTPPort: 587,
		},
		Redis: RedisConfig{
			TTLMinutes: 60,
		},
		Database: DatabaseConfig{
			Port:    5432,
			SSLMode: "disable",
		},
	}
}

// Load reads the YAML config file, layers .env and environment variables on
// top (secrets always win from the environment), and validates the result.
func Load(path string) (*Config, error) {
	// .env is optional; real env vars take precedence over it.
	_ = godotenv.Load()

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read config %s: %w", path, err)
	}

	cfg := defaults()
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("could not parse config %s: %w", path, err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	overrides := []struct {
		env string
		dst *string
	}{
		{"FLIGHT_EMAIL_TO", &cfg.Email.To},
		{"FLIGHT_EMAIL_FROM", &cfg.Email.From},
		{"FLIGHT_EMAIL_CC", &cfg.Email.CC},
		{"FLIGHT_EMAIL_PASSWORD", &cfg.Email.AppPassword},
		{"FLIGHT_TELEGRAM_TOKEN", &cfg.Telegram.BotToken},
		{"FLIGHT_TELEGRAM_CHAT_ID", &cfg.Telegram.ChatID},
		{"REDIS_ADDR", &cfg.Redis.Addr},
		{"DB_HOST", &cfg.Database.Host},
		{"DB_USER", &cfg.Database.User},
		{"DB_PASSWORD", &cfg.Database.Password},
		{"DB_NAME", &cfg.Database.Name},
	}
	for _, o := range overrides {
		if v := os.Getenv(o.env); v != "" {
			*o.dst = v
		}
	}
}

func (c *Config) Validate() error {
	if len(c.Origins) == 0 {
		return fmt.Errorf("config: origins must not be empty")
	}
	if c.Destination == "" {
		return fmt.Errorf("config: destination is required")
	}
	for _, field := range []struct {
		name, val string
	}{{"date_from", c.DateFrom}, {"date_to", c.DateTo}} {
		if _, err := time.Parse("2006-01-02", field.val); err != nil {
			return fmt.Errorf("config: %s must be YYYY-MM-DD: %w", field.name, err)
		}
	}
	if c.NightsMin <= 0 || c.NightsMax < c.NightsMin {
		return fmt.Errorf("config: nights_min/nights_max invalid (%d/%d)", c.NightsMin, c.NightsMax)
	}
	if c.SampleEveryNDays <= 0 {
		return fmt.Errorf("config: sample_every_n_days must be positive")
	}
	if c.Adults < 1 {
		return fmt.Errorf("config: adults must be at least 1")
	}
	if c.MaxStops < 0 {
		return fmt.Errorf("config: max_stops must not be negative")
	}
	if c.PriceThresholdPP <= 0 {
		return fmt.Errorf("config: price_threshold_pp must be positive")
	}
	return nil
}

// SearchTimeout is the per-search budget covering navigation, consent
// handling and extraction.
func (c *Config) SearchTimeout() time.Duration {
	return time.Duration(c.SearchTimeoutSec) * time.Second
}

func (c *Config) SearchDelay() time.Duration {
	return time.Duration(c.DelayBetweenSearches) * time.Second
}
