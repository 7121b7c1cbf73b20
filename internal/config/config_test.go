package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("TV_SCANNER_CONFIG", "")
	t.Setenv("SENDER_EMAIL", "")
	t.Setenv("RECIPIENT_EMAIL", "")
	t.Setenv("APP_PASSWORD", "")

	cfg := Load()

	if len(cfg.Retailers) != 6 {
		t.Fatalf("expected 6 default retailers, got %d", len(cfg.Retailers))
	}
	if cfg.Scanner.SizeInches != 65 {
		t.Fatalf("expected default size 65, got %d", cfg.Scanner.SizeInches)
	}
	if len(cfg.Scanner.Brands) != 2 {
		t.Fatalf("expected default brands Samsung and LG, got %v", cfg.Scanner.Brands)
	}
	if cfg.Storage.Backend != "file" {
		t.Fatalf("expected file backend, got %s", cfg.Storage.Backend)
	}
	if cfg.Notifications.Email.Configured() {
		t.Fatal("email must not be configured without env credentials")
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("SENDER_EMAIL", "sender@example.org")
	t.Setenv("RECIPIENT_EMAIL", "me@example.org")
	t.Setenv("APP_PASSWORD", "hunter2")
	t.Setenv("DATABASE_DSN", "postgres://localhost/prices")

	cfg := Load()

	if !cfg.Notifications.Email.Configured() {
		t.Fatal("email should be configured from env")
	}
	if cfg.Notifications.Email.Recipient != "me@example.org" {
		t.Fatalf("unexpected recipient: %s", cfg.Notifications.Email.Recipient)
	}
	if cfg.Storage.DSN != "postgres://localhost/prices" {
		t.Fatalf("unexpected dsn: %s", cfg.Storage.DSN)
	}
}

func TestLoadMergesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	doc := `
scanner:
  brands: [Sony]
  sizeInches: 55
scheduler:
  interval: 12h
retailers:
  - name: Example
    adapter: listing
    url: https://example.org/tvs
    selectors:
      item: div.card
      title: h2
      price: span.price
`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("TV_SCANNER_CONFIG", path)

	cfg := Load()

	if len(cfg.Scanner.Brands) != 1 || cfg.Scanner.Brands[0] != "Sony" {
		t.Fatalf("unexpected brands: %v", cfg.Scanner.Brands)
	}
	if cfg.Scanner.SizeInches != 55 {
		t.Fatalf("unexpected size: %d", cfg.Scanner.SizeInches)
	}
	if len(cfg.Retailers) != 1 || cfg.Retailers[0].Name != "Example" {
		t.Fatalf("unexpected retailers: %+v", cfg.Retailers)
	}
	if cfg.Retailers[0].Selectors.Item != "div.card" {
		t.Fatalf("unexpected selector: %s", cfg.Retailers[0].Selectors.Item)
	}
	// Untouched sections keep their defaults.
	if cfg.Export.CSVPath != "tv_prices.csv" {
		t.Fatalf("unexpected csv path: %s", cfg.Export.CSVPath)
	}
	if got := cfg.Scheduler.Every(); got != 12*time.Hour {
		t.Fatalf("unexpected interval: %v", got)
	}
}

func TestLoadBadFileFallsBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("{{{"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("TV_SCANNER_CONFIG", path)

	cfg := Load()
	if len(cfg.Retailers) != 6 {
		t.Fatalf("expected fallback to defaults, got %d retailers", len(cfg.Retailers))
	}
}

func TestSchedulerEvery(t *testing.T) {
	if got := (SchedulerConfig{}).Every(); got != 0 {
		t.Fatalf("empty interval should be 0, got %v", got)
	}
	if got := (SchedulerConfig{Interval: "nonsense"}).Every(); got != 0 {
		t.Fatalf("invalid interval should be 0, got %v", got)
	}
	if got := (SchedulerConfig{Interval: "24h"}).Every(); got != 24*time.Hour {
		t.Fatalf("unexpected interval: %v", got)
	}
}
