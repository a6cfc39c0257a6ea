package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.toml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	def := Default()
	if cfg.Server.Port != def.Server.Port {
		t.Errorf("Port = %d, want default %d", cfg.Server.Port, def.Server.Port)
	}
	if cfg.Server.MaxUploadMB != def.Server.MaxUploadMB {
		t.Errorf("MaxUploadMB = %d, want default %d", cfg.Server.MaxUploadMB, def.Server.MaxUploadMB)
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "console" {
		t.Errorf("logging defaults = %s/%s", cfg.Logging.Level, cfg.Logging.Format)
	}
}

func TestLoadOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[server]
port = 8080
max_upload_mb = 4

[storage]
enabled = true
path = "history.db"

[logging]
level = "debug"
format = "json"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Server.MaxUploadMB != 4 {
		t.Errorf("MaxUploadMB = %d, want 4", cfg.Server.MaxUploadMB)
	}
	if got := cfg.Server.MaxUploadBytes(); got != 4*1024*1024 {
		t.Errorf("MaxUploadBytes() = %d", got)
	}
	if !cfg.Storage.Enabled || cfg.Storage.Path != "history.db" {
		t.Errorf("storage = %+v", cfg.Storage)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "json" {
		t.Errorf("logging = %+v", cfg.Logging)
	}
	// Unset fields keep their defaults.
	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("Host = %q, want default", cfg.Server.Host)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad level", "[logging]\nlevel = \"verbose\"\n"},
		{"bad format", "[logging]\nformat = \"xml\"\n"},
		{"bad port", "[server]\nport = -1\n"},
		{"bad upload size", "[server]\nmax_upload_mb = 0\n"},
		{"storage without path", "[storage]\nenabled = true\npath = \"\"\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			if err := os.WriteFile(path, []byte(tt.content), 0o644); err != nil {
				t.Fatal(err)
			}
			if _, err := Load(path); err == nil {
				t.Errorf("Load() accepted invalid config:\n%s", tt.content)
			}
		})
	}
}
