package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != 8000 || cfg.DiscoveryPort != 8001 {
		t.Errorf("unexpected default ports: %d/%d", cfg.Port, cfg.DiscoveryPort)
	}
	if cfg.Frame.Width != 1280 || cfg.Frame.Height != 720 || cfg.Frame.Quality != 65 {
		t.Errorf("unexpected frame defaults: %+v", cfg.Frame)
	}
}

func TestMissingFileIsOptional(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("missing file must fall back to defaults, got %v", err)
	}
	if cfg.Port != 8000 {
		t.Errorf("port = %d, want default", cfg.Port)
	}
}

func TestFileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "smartdesk.yaml")
	data := "port: 9100\nhost_name: desk-01\nframe:\n  quality: 80\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != 9100 || cfg.HostName != "desk-01" {
		t.Errorf("file overrides not applied: %+v", cfg)
	}
	if cfg.Frame.Quality != 80 {
		t.Errorf("quality = %d, want 80", cfg.Frame.Quality)
	}
	if cfg.DiscoveryPort != 8001 {
		t.Errorf("untouched field lost its default: %d", cfg.DiscoveryPort)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	t.Setenv("SMARTDESK_PORT", "9200")
	t.Setenv("SMARTDESK_HOST_NAME", "env-host")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != 9200 || cfg.HostName != "env-host" {
		t.Errorf("env overrides not applied: %+v", cfg)
	}
}

func TestPortClashRejected(t *testing.T) {
	t.Setenv("SMARTDESK_PORT", "8001")
	if _, err := Load(""); err == nil {
		t.Error("service port equal to discovery port must be rejected")
	}
}
