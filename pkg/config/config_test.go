package config

import (
	"testing"
)

func TestLoadDefaultsToSQLite(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DB.Driver != DriverSQLite {
		t.Fatalf("expected sqlite default, got %s", cfg.DB.Driver)
	}
	if cfg.DB.DSN == "" {
		t.Fatalf("expected default DSN")
	}
	if !cfg.App.IsDev() {
		t.Fatalf("expected dev default env, got %s", cfg.App.Env)
	}
}

func TestLoadRejectsUnknownDriver(t *testing.T) {
	t.Setenv("ARCADE_DB_DRIVER", "oracle")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for unsupported driver")
	}
}

func TestRedisEnabled(t *testing.T) {
	var r RedisConfig
	if r.Enabled() {
		t.Fatalf("empty redis config should be disabled")
	}
	r.URL = "redis://localhost:6379"
	if !r.Enabled() {
		t.Fatalf("expected enabled with URL set")
	}
}
