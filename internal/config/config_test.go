package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("SCHEDULER_HTTP_PORT", "")
	t.Setenv("SCHEDULER_SQLITE_DSN", "")
	t.Setenv("SCHEDULER_ENV", "")
	t.Setenv("SCHEDULER_SLOT_GRANULARITY", "")
	t.Setenv("SCHEDULER_OVERDUE_SWEEP", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.HTTPPort != 8080 {
		t.Errorf("port = %d, want 8080", cfg.HTTPPort)
	}
	if cfg.Environment != "development" {
		t.Errorf("environment = %q, want development", cfg.Environment)
	}
	if cfg.SlotGranularity != time.Hour {
		t.Errorf("granularity = %v, want 1h", cfg.SlotGranularity)
	}
	if cfg.OverdueSweep != 15*time.Minute {
		t.Errorf("sweep = %v, want 15m", cfg.OverdueSweep)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("SCHEDULER_HTTP_PORT", "9090")
	t.Setenv("SCHEDULER_SQLITE_DSN", "file:test.db")
	t.Setenv("SCHEDULER_ENV", "production")
	t.Setenv("SCHEDULER_SLOT_GRANULARITY", "30m")
	t.Setenv("SCHEDULER_OVERDUE_SWEEP", "5m")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.HTTPPort != 9090 {
		t.Errorf("port = %d, want 9090", cfg.HTTPPort)
	}
	if cfg.SQLiteDSN != "file:test.db" {
		t.Errorf("dsn = %q", cfg.SQLiteDSN)
	}
	if cfg.Environment != "production" {
		t.Errorf("environment = %q", cfg.Environment)
	}
	if cfg.SlotGranularity != 30*time.Minute {
		t.Errorf("granularity = %v, want 30m", cfg.SlotGranularity)
	}
	if cfg.OverdueSweep != 5*time.Minute {
		t.Errorf("sweep = %v, want 5m", cfg.OverdueSweep)
	}
}

func TestLoad_InvalidValuesAreAggregated(t *testing.T) {
	t.Setenv("SCHEDULER_HTTP_PORT", "not-a-port")
	t.Setenv("SCHEDULER_SLOT_GRANULARITY", "-1h")
	t.Setenv("SCHEDULER_OVERDUE_SWEEP", "soon")

	_, err := Load()
	if err == nil {
		t.Fatal("expected an error for invalid values")
	}
	for _, key := range []string{"SCHEDULER_HTTP_PORT", "SCHEDULER_SLOT_GRANULARITY", "SCHEDULER_OVERDUE_SWEEP"} {
		if !strings.Contains(err.Error(), key) {
			t.Errorf("expected %s named in %q", key, err)
		}
	}
}
