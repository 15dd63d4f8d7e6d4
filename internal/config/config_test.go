package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.BindAddr != ":8080" {
		t.Fatalf("BindAddr = %q, want :8080", cfg.BindAddr)
	}
	if cfg.ModelName != "career-guru" {
		t.Fatalf("ModelName = %q, want career-guru", cfg.ModelName)
	}
	if cfg.ChatHistoryLimit != 10 {
		t.Fatalf("ChatHistoryLimit = %d, want 10", cfg.ChatHistoryLimit)
	}
	if cfg.SessionIdleTTL != 0 {
		t.Fatalf("SessionIdleTTL = %v, want 0 (disabled)", cfg.SessionIdleTTL)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("APP_BIND_ADDR", ":9090")
	t.Setenv("CHAT_HISTORY_LIMIT", "20")
	t.Setenv("SESSION_IDLE_TTL", "30m")
	t.Setenv("APP_DEBUG", "true")
	t.Setenv("MODEL_PROVIDER", "mock")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.BindAddr != ":9090" {
		t.Fatalf("BindAddr = %q, want :9090", cfg.BindAddr)
	}
	if cfg.ChatHistoryLimit != 20 {
		t.Fatalf("ChatHistoryLimit = %d, want 20", cfg.ChatHistoryLimit)
	}
	if cfg.SessionIdleTTL != 30*time.Minute {
		t.Fatalf("SessionIdleTTL = %v, want 30m", cfg.SessionIdleTTL)
	}
	if !cfg.Debug {
		t.Fatalf("Debug = false, want true")
	}
	if cfg.ModelProvider != "mock" {
		t.Fatalf("ModelProvider = %q, want mock", cfg.ModelProvider)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	t.Setenv("CHAT_HISTORY_LIMIT", "0")
	if _, err := Load(); err == nil {
		t.Fatalf("CHAT_HISTORY_LIMIT=0 must be rejected")
	}

	t.Setenv("CHAT_HISTORY_LIMIT", "not-a-number")
	if _, err := Load(); err == nil {
		t.Fatalf("non-numeric CHAT_HISTORY_LIMIT must be rejected")
	}

	t.Setenv("CHAT_HISTORY_LIMIT", "10")
	t.Setenv("SESSION_IDLE_TTL", "-5m")
	if _, err := Load(); err == nil {
		t.Fatalf("negative SESSION_IDLE_TTL must be rejected")
	}
}
