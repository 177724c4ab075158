package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pelletier/go-toml/v2"

	"vx/internal/config"
)

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Chdir(t.TempDir())

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}
	if resolved != filepath.Join(tempHome, ".config", "vx", "config.toml") {
		t.Fatalf("unexpected resolved path %q", resolved)
	}

	wantState := filepath.Join(tempHome, ".local", "share", "vx")
	if cfg.Paths.StateDir != wantState {
		t.Fatalf("unexpected state dir: got %q want %q", cfg.Paths.StateDir, wantState)
	}
	if cfg.Journal.Path != filepath.Join(wantState, "history.db") {
		t.Fatalf("unexpected journal path %q", cfg.Journal.Path)
	}
	if cfg.Journal.Enabled {
		t.Fatal("expected journal disabled by default")
	}
	if cfg.Tools.Mkvmerge != "mkvmerge" || cfg.Tools.Mkvextract != "mkvextract" {
		t.Fatalf("unexpected tool defaults: %+v", cfg.Tools)
	}
	if cfg.Extraction.Workers != 1 {
		t.Fatalf("expected 1 worker by default, got %d", cfg.Extraction.Workers)
	}
	if cfg.ToolTimeout() != 0 {
		t.Fatalf("expected no timeout by default, got %s", cfg.ToolTimeout())
	}
}

func TestLoadCustomConfigFile(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	configPath := filepath.Join(t.TempDir(), "vx.toml")
	payload := map[string]any{
		"tools": map[string]any{
			"mkvmerge":        "/opt/mkvtoolnix/mkvmerge",
			"timeout_seconds": 90,
		},
		"extraction": map[string]any{"workers": 4},
		"logging":    map[string]any{"format": "JSON", "level": "Debug"},
		"journal":    map[string]any{"enabled": true, "path": "~/vx/runs.db"},
	}
	data, err := toml.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != configPath {
		t.Fatalf("expected %q to be used, got %q (exists=%v)", configPath, resolved, exists)
	}
	if cfg.Tools.Mkvmerge != "/opt/mkvtoolnix/mkvmerge" {
		t.Fatalf("unexpected mkvmerge: %q", cfg.Tools.Mkvmerge)
	}
	if cfg.Tools.Mkvextract != "mkvextract" {
		t.Fatalf("expected default mkvextract, got %q", cfg.Tools.Mkvextract)
	}
	if cfg.ToolTimeout() != 90*time.Second {
		t.Fatalf("unexpected timeout %s", cfg.ToolTimeout())
	}
	if cfg.Extraction.Workers != 4 {
		t.Fatalf("unexpected workers %d", cfg.Extraction.Workers)
	}
	if cfg.Logging.Format != "json" || cfg.Logging.Level != "debug" {
		t.Fatalf("expected normalized logging, got %+v", cfg.Logging)
	}
	if cfg.Journal.Path != filepath.Join(tempHome, "vx", "runs.db") {
		t.Fatalf("unexpected journal path %q", cfg.Journal.Path)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"workers", "[extraction]\nworkers = 99\n", "extraction.workers"},
		{"format", "[logging]\nformat = \"xml\"\n", "logging.format"},
		{"timeout", "[tools]\ntimeout_seconds = -1\n", "tools.timeout_seconds"},
		{"unknown", "[tools]\nffmpeg = \"ffmpeg\"\n", "parse config"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "vx.toml")
			if err := os.WriteFile(path, []byte(tt.content), 0o644); err != nil {
				t.Fatalf("write config: %v", err)
			}
			_, _, _, err := config.Load(path)
			if err == nil {
				t.Fatalf("expected error for %s", tt.name)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected %q in error, got %v", tt.want, err)
			}
		})
	}
}

func TestCreateSampleIsLoadable(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample returned error: %v", err)
	}
	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("sample config failed to load: %v", err)
	}
	if !exists {
		t.Fatal("expected sample config to exist")
	}
	if cfg.Extraction.Workers != 1 {
		t.Fatalf("unexpected workers from sample: %d", cfg.Extraction.Workers)
	}
}

func TestEnsureStateDir(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.StateDir = filepath.Join(t.TempDir(), "state")
	if err := cfg.EnsureStateDir(); err != nil {
		t.Fatalf("EnsureStateDir returned error: %v", err)
	}
	if info, err := os.Stat(cfg.Paths.StateDir); err != nil || !info.IsDir() {
		t.Fatalf("expected state dir to exist: %v", err)
	}
	if filepath.Dir(cfg.LockPath()) != cfg.Paths.StateDir {
		t.Fatalf("lock path %q outside state dir", cfg.LockPath())
	}
}
