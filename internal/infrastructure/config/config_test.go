package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.HTTPPort != "8080" {
		t.Errorf("expected default port 8080, got %s", cfg.HTTPPort)
	}
	if cfg.DatabaseMaxConns != 25 {
		t.Errorf("expected default max conns 25, got %d", cfg.DatabaseMaxConns)
	}
	if cfg.DatabaseTimeout != 30*time.Second {
		t.Errorf("expected default database timeout 30s, got %s", cfg.DatabaseTimeout)
	}
	if cfg.Username != "system" {
		t.Errorf("expected default username system, got %s", cfg.Username)
	}
	if cfg.VerifySchedule != "@hourly" {
		t.Errorf("expected default verify schedule @hourly, got %s", cfg.VerifySchedule)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("VERIFY_SCHEDULE", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.HTTPPort != "9090" {
		t.Errorf("expected port 9090, got %s", cfg.HTTPPort)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("expected debug level, got %s", cfg.LogLevel)
	}
	if cfg.VerifySchedule != "" {
		t.Errorf("expected empty verify schedule, got %s", cfg.VerifySchedule)
	}
}
