package config

import (
	"os"
	"path/filepath"
	"testing"
)

const validYAML = `
origins: ["MXP", "LIN"]
destination: "MLE"
date_from: "2027-01-10"
date_to: "2027-02-20"
nights_min: 7
nights_max: 14
adults: 2
price_threshold_pp: 650
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, validYAML))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Currency != "EUR" || cfg.Seat != "economy" {
		t.Errorf("defaults not applied: currency=%q seat=%q", cfg.Currency, cfg.Seat)
	}
	if cfg.SampleEveryNDays != 5 || cfg.CheckIntervalHours != 12 {
		t.Errorf("defaults not applied: step=%d interval=%d", cfg.SampleEveryNDays, cfg.CheckIntervalHours)
	}
	if cfg.MaxStops != 1 {
		t.Errorf("MaxStops default = %d, want 1", cfg.MaxStops)
	}
	if !cfg.Headless {
		t.Error("Headless should default to true")
	}
	if cfg.Email.SMTPHost != "smtp.gmail.com" || cfg.Email.SMTPPort != 587 {
		t.Errorf("smtp defaults = %s:%d", cfg.Email.SMTPHost, cfg.Email.SMTPPort)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("FLIGHT_TELEGRAM_TOKEN", "tok-from-env")
	t.Setenv("FLIGHT_EMAIL_TO", "env@example.test")

	cfg, err := Load(writeConfig(t, validYAML+`
telegram:
  bot_token: "tok-from-yaml"
`))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Telegram.BotToken != "tok-from-env" {
		t.Errorf("BotToken = %q, env must win over yaml", cfg.Telegram.BotToken)
	}
	if cfg.Email.To != "env@example.test" {
		t.Errorf("Email.To = %q", cfg.Email.To)
	}
}

func TestLoadValidation(t *testing.T) {
	bad := []string{
		`destination: "MLE"` + "\ndate_from: \"2027-01-10\"\ndate_to: \"2027-02-20\"\nnights_min: 7\nnights_max: 14\nadults: 2\nprice_threshold_pp: 650\n", // no origins
		validYAML + "\nnights_min: 10\nnights_max: 5\n",
		validYAML + "\nadults: 0\n",
		validYAML + "\ndate_from: \"10/01/2027\"\n",
		validYAML + "\nprice_threshold_pp: 0\n",
	}
	for i, body := range bad {
		if _, err := Load(writeConfig(t, body)); err == nil {
			t.Errorf("case %d: expected a validation error", i)
		}
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected an error for a missing config file")
	}
}
