package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
logging:
  level: debug
health:
  port: 8080
  read_header_timeout: 5s
parser:
  enabled_parsers: [oddsportal]
  interval: 2m
  oddsportal:
    base_url: https://example.com
    match_urls:
      - /football/some-match/
    bet_types: [1, 5]
    concurrency: 3
    request_delay: 250ms
    use_browser: true
  footystats:
    api_key: k
    league_ids: [1625]
storage:
  redis:
    addr: localhost:6379
    ttl: 30m
telegram:
  chat_id: -100123
  drop_threshold_percent: 12.5
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q", cfg.Logging.Level)
	}
	if cfg.Health.Port != 8080 || cfg.Health.ReadHeaderTimeout != 5*time.Second {
		t.Errorf("Health = %+v", cfg.Health)
	}
	if cfg.Parser.Interval != 2*time.Minute {
		t.Errorf("Parser.Interval = %v", cfg.Parser.Interval)
	}

	op := cfg.Parser.OddsPortal
	if op.BaseURL != "https://example.com" || len(op.MatchURLs) != 1 || !op.UseBrowser {
		t.Errorf("OddsPortal = %+v", op)
	}
	if len(op.BetTypes) != 2 || op.BetTypes[1] != 5 {
		t.Errorf("BetTypes = %v", op.BetTypes)
	}
	if op.Concurrency != 3 || op.RequestDelay != 250*time.Millisecond {
		t.Errorf("Concurrency/RequestDelay = %d/%v", op.Concurrency, op.RequestDelay)
	}

	if cfg.Parser.FootyStats.APIKey != "k" || cfg.Parser.FootyStats.LeagueIDs[0] != 1625 {
		t.Errorf("FootyStats = %+v", cfg.Parser.FootyStats)
	}
	if cfg.Storage.Redis.TTL != 30*time.Minute {
		t.Errorf("Redis.TTL = %v", cfg.Storage.Redis.TTL)
	}
	if cfg.Telegram.ChatID != -100123 || cfg.Telegram.DropThresholdPercent != 12.5 {
		t.Errorf("Telegram = %+v", cfg.Telegram)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("missing file should be an error")
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("parser: [not a map"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("malformed yaml should be an error")
	}
}
