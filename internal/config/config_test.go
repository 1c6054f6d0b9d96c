package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("CHRONOS_DEFAULT_TIMEZONE", "")
	t.Setenv("CHRONOS_LOG_LEVEL", "")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load returned unexpected error: %v", err)
	}
	if cfg.Port != DefaultPort {
		t.Errorf("Port = %d, want %d", cfg.Port, DefaultPort)
	}
	if cfg.DefaultTimezone != "" {
		t.Errorf("DefaultTimezone = %q, want empty", cfg.DefaultTimezone)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want info", cfg.LogLevel)
	}
}

func TestLoadFile(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("CHRONOS_DEFAULT_TIMEZONE", "")

	path := filepath.Join(t.TempDir(), "chronos.yaml")
	data := "port: 8080\ndefault_timezone: Europe/London\nlog_level: debug\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned unexpected error: %v", err)
	}
	if cfg.Port != 8080 {
		t.Errorf("Port = %d, want 8080", cfg.Port)
	}
	if cfg.DefaultTimezone != "Europe/London" {
		t.Errorf("DefaultTimezone = %q", cfg.DefaultTimezone)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q", cfg.LogLevel)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chronos.yaml")
	if err := os.WriteFile(path, []byte("port: 8080\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv("PORT", "9999")
	t.Setenv("CHRONOS_DEFAULT_TIMEZONE", "Asia/Tokyo")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned unexpected error: %v", err)
	}
	if cfg.Port != 9999 {
		t.Errorf("Port = %d, want env override 9999", cfg.Port)
	}
	if cfg.DefaultTimezone != "Asia/Tokyo" {
		t.Errorf("DefaultTimezone = %q, want env override", cfg.DefaultTimezone)
	}
}

func TestMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("Load with a missing explicit file should fail")
	}
}

func TestInvalidPort(t *testing.T) {
	t.Setenv("PORT", "notaport")
	if _, err := Load(""); err == nil {
		t.Fatal("Load with non-numeric PORT should fail")
	}

	t.Setenv("PORT", "70000")
	if _, err := Load(""); err == nil {
		t.Fatal("Load with out-of-range PORT should fail")
	}
}
