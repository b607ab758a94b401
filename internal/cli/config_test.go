package cli

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigFileMissing(t *testing.T) {
	cfg, err := loadConfigFile(filepath.Join(t.TempDir(), "config.toml"))
	if err != nil {
		t.Fatalf("missing config should not error: %v", err)
	}
	if cfg.Mode != "" || cfg.Seed != 0 || cfg.DiskRadius != 0 || len(cfg.Colors) != 0 {
		t.Errorf("missing config should be zero, got %+v", cfg)
	}
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
mode = "bubbles"
seed = 99
disk_radius = 250.0

[colors]
wallet = "#ff8800"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := loadConfigFile(path)
	if err != nil {
		t.Fatalf("loadConfigFile: %v", err)
	}
	if cfg.Mode != "bubbles" {
		t.Errorf("mode = %q", cfg.Mode)
	}
	if cfg.Seed != 99 {
		t.Errorf("seed = %d", cfg.Seed)
	}
	if cfg.DiskRadius != 250.0 {
		t.Errorf("disk_radius = %v", cfg.DiskRadius)
	}
	if cfg.Colors["wallet"] != "#ff8800" {
		t.Errorf("colors = %v", cfg.Colors)
	}
}

func TestLoadConfigFileMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("mode = ["), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if _, err := loadConfigFile(path); err == nil {
		t.Error("malformed config should error")
	}
}
