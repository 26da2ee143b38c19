package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load defaults: %v", err)
	}

	if cfg.Thresholds != DefaultThresholds() {
		t.Fatalf("unexpected thresholds: %+v", cfg.Thresholds)
	}
	if cfg.Monitor.Interval != 60*time.Second {
		t.Fatalf("expected 60s interval, got %s", cfg.Monitor.Interval)
	}
	if cfg.Store.Timeout != 10*time.Second {
		t.Fatalf("expected 10s timeout, got %s", cfg.Store.Timeout)
	}
	if cfg.Store.URL != DefaultStoreURL {
		t.Fatalf("unexpected store url %q", cfg.Store.URL)
	}
	if len(cfg.Warnings) != 0 {
		t.Fatalf("expected no warnings, got %v", cfg.Warnings)
	}
}

func TestLoadLegacyEnvironmentNames(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("FIREBASE_DATABASE_URL", "https://example-rtdb.firebaseio.com")
	t.Setenv("TEMP_MAX", "30.5")
	t.Setenv("HUMIDITY_MIN", "25")
	t.Setenv("AIR_QUALITY_MAX", "450")
	t.Setenv("CHECK_INTERVAL", "15")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Store.URL != "https://example-rtdb.firebaseio.com" {
		t.Fatalf("unexpected url %q", cfg.Store.URL)
	}
	if cfg.Thresholds.TempMax != 30.5 || cfg.Thresholds.HumidityMin != 25 || cfg.Thresholds.AirQualityMax != 450 {
		t.Fatalf("env thresholds not applied: %+v", cfg.Thresholds)
	}
	if cfg.Thresholds.TempMin != 15 {
		t.Fatalf("unset threshold should keep default, got %v", cfg.Thresholds.TempMin)
	}
	if cfg.Monitor.Interval != 15*time.Second {
		t.Fatalf("bare interval should be seconds, got %s", cfg.Monitor.Interval)
	}
}

func TestLoadPrefixedEnvironmentWins(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("ENVITRACK_THRESHOLDS_TEMP_MAX", "40")
	t.Setenv("TEMP_MAX", "30")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Thresholds.TempMax != 40 {
		t.Fatalf("expected prefixed value 40, got %v", cfg.Thresholds.TempMax)
	}
}

func TestLoadMalformedValuesFallBack(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("TEMP_MAX", "hot")
	t.Setenv("ENVITRACK_MONITOR_INTERVAL", "soon")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("malformed values must not fail: %v", err)
	}
	if cfg.Thresholds.TempMax != 35 {
		t.Fatalf("expected default 35, got %v", cfg.Thresholds.TempMax)
	}
	if cfg.Monitor.Interval != 60*time.Second {
		t.Fatalf("expected default interval, got %s", cfg.Monitor.Interval)
	}
	if len(cfg.Warnings) != 2 {
		t.Fatalf("expected two warnings, got %v", cfg.Warnings)
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	// Registered so the variable is restored after godotenv sets it.
	t.Setenv("HUMIDITY_MAX", "")
	os.Unsetenv("HUMIDITY_MAX")

	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("HUMIDITY_MAX=70\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Thresholds.HumidityMax != 70 {
		t.Fatalf("expected .env value 70, got %v", cfg.Thresholds.HumidityMax)
	}
}

func TestLoadYAMLFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	path := filepath.Join(dir, "envitrack.yaml")
	content := []byte("monitor:\n  interval: 5m\nthresholds:\n  temp_min: 10\nmetrics:\n  listen_addr: \":9090\"\n")
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Monitor.Interval != 5*time.Minute {
		t.Fatalf("expected 5m, got %s", cfg.Monitor.Interval)
	}
	if cfg.Thresholds.TempMin != 10 {
		t.Fatalf("expected temp_min 10, got %v", cfg.Thresholds.TempMin)
	}
	if cfg.Metrics.ListenAddr != ":9090" {
		t.Fatalf("unexpected listen addr %q", cfg.Metrics.ListenAddr)
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	t.Chdir(t.TempDir())
	if _, err := Load("does-not-exist.yaml"); err == nil {
		t.Fatal("explicit missing config file should fail")
	}
}

func TestLoadOutOfRangeValuesFallBack(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("CHECK_INTERVAL", "0")
	t.Setenv("ENVITRACK_STORE_TIMEOUT", "-1s")
	t.Setenv("TEMP_MIN", "40")
	t.Setenv("HUMIDITY_MIN", "90")
	t.Setenv("HUMIDITY_MAX", "20")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("out-of-range values must not fail: %v", err)
	}

	if cfg.Monitor.Interval != 60*time.Second {
		t.Fatalf("expected default interval, got %s", cfg.Monitor.Interval)
	}
	if cfg.Store.Timeout != 10*time.Second {
		t.Fatalf("expected default timeout, got %s", cfg.Store.Timeout)
	}
	if cfg.Thresholds != DefaultThresholds() {
		t.Fatalf("inverted bounds should reset to defaults, got %+v", cfg.Thresholds)
	}
	if len(cfg.Warnings) != 4 {
		t.Fatalf("expected four warnings, got %v", cfg.Warnings)
	}
}

func TestLoadKeepsUnusualStoreURL(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("FIREBASE_DATABASE_URL", "not a url")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("url is not checked at startup: %v", err)
	}
	if cfg.Store.URL != "not a url" {
		t.Fatalf("unexpected url %q", cfg.Store.URL)
	}
}
