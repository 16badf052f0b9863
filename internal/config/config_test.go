package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr != ":8080" || cfg.DataDir != "data" || cfg.SessionTTLHours != 24 {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("missing file should not error: %v", err)
	}
	if cfg.Addr != ":8080" {
		t.Errorf("unexpected addr %q", cfg.Addr)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "portal.yaml")
	content := "addr: \":9090\"\ndata_dir: /var/lib/teportal\nsession_ttl_hours: 8\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr != ":9090" || cfg.DataDir != "/var/lib/teportal" || cfg.SessionTTLHours != 8 {
		t.Errorf("unexpected config: %+v", cfg)
	}
}

func TestLoadBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "portal.yaml")
	if err := os.WriteFile(path, []byte("addr: [unclosed"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected parse error")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("TEPORTAL_ADDR", ":7070")
	t.Setenv("TEPORTAL_SESSION_TTL_HOURS", "2")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr != ":7070" || cfg.SessionTTLHours != 2 {
		t.Errorf("env overrides not applied: %+v", cfg)
	}
}

func TestNonPositiveTTLFallsBack(t *testing.T) {
	t.Setenv("TEPORTAL_SESSION_TTL_HOURS", "0")
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.SessionTTLHours != 24 {
		t.Errorf("expected fallback TTL, got %d", cfg.SessionTTLHours)
	}
}
