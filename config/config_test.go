package config

import (
	"os"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DB_PATH", "")
	t.Setenv("BOT_CURRENCY_NAME", "")
	t.Setenv("BOT_DEFAULT_POINTS", "")
	t.Setenv("SCHEDULER_TICK", "")
	t.Setenv("HTTP_ADDR", "")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.DBPath == "" {
		t.Errorf("expected default db path, got empty")
	}
	if cfg.CurrencyName != "points" {
		t.Errorf("CurrencyName = %q, want points", cfg.CurrencyName)
	}
	if cfg.DefaultPoints != 100 {
		t.Errorf("DefaultPoints = %d, want 100", cfg.DefaultPoints)
	}
	if cfg.SchedulerTick != time.Second {
		t.Errorf("SchedulerTick = %v, want 1s", cfg.SchedulerTick)
	}
	if cfg.HTTPAddr != ":8080" {
		t.Errorf("HTTPAddr = %q, want :8080", cfg.HTTPAddr)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("BOT_DEFAULT_POINTS", "250")
	t.Setenv("SCHEDULER_TICK", "500ms")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.DefaultPoints != 250 {
		t.Errorf("DefaultPoints = %d, want 250", cfg.DefaultPoints)
	}
	if cfg.SchedulerTick != 500*time.Millisecond {
		t.Errorf("SchedulerTick = %v, want 500ms", cfg.SchedulerTick)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Setenv("BOT_DEFAULT_POINTS", "lots")
	if _, err := Load(); err == nil {
		t.Errorf("expected error for non-numeric BOT_DEFAULT_POINTS")
	}
	t.Setenv("BOT_DEFAULT_POINTS", "")
	t.Setenv("SCHEDULER_TICK", "-2s")
	if _, err := Load(); err == nil {
		t.Errorf("expected error for negative SCHEDULER_TICK")
	}
}

func TestValidateChatReady(t *testing.T) {
	t.Setenv("TWITCH_CHANNEL", "chan")
	t.Setenv("TWITCH_BOT_USERNAME", "bot")
	t.Setenv("TWITCH_OAUTH_TOKEN", "oauth:token")
	cfg, _ := Load()
	if err := cfg.ValidateChatReady(); err != nil {
		t.Errorf("expected valid chat config, got %v", err)
	}
	if err := os.Unsetenv("TWITCH_CHANNEL"); err != nil {
		t.Fatalf("failed to unset TWITCH_CHANNEL: %v", err)
	}
	cfg, _ = Load()
	if err := cfg.ValidateChatReady(); err == nil {
		t.Errorf("expected error when missing twitch envs")
	}
}
