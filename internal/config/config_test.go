package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mitchellh/go-homedir"

	gfferrors "github.com/FocuswithJustin/gffkit/core/errors"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Version != "3" || cfg.Logging.Level != "info" || cfg.Logging.Format != "text" {
		t.Errorf("DefaultConfig() = %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestLoadMissingFileGivesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if *cfg != *DefaultConfig() {
		t.Errorf("Load() = %+v, want defaults", cfg)
	}
}

func TestLoadFillsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("version: \"2.2\"\nlogging:\n  level: debug\n"), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Version != "2.2" || cfg.Logging.Level != "debug" {
		t.Errorf("file values not applied: %+v", cfg)
	}
	if cfg.Logging.Format != "text" || cfg.Store.Path != DefaultConfig().Store.Path {
		t.Errorf("defaults not kept: %+v", cfg)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"bad yaml", "version: [unclosed\n", "failed to parse"},
		{"bad version", "version: \"4\"\n", "unsupported GFF version"},
		{"bad level", "logging:\n  level: loud\n", "unknown log level"},
		{"bad format", "logging:\n  format: xml\n", "unknown log format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(path, []byte(tt.content), 0600); err != nil {
				t.Fatal(err)
			}
			_, err := Load(path)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Load() error = %v, want it to contain %q", err, tt.want)
			}
		})
	}
}

func TestLoadUnsupportedVersionSentinel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("version: gtf\n"), 0600); err != nil {
		t.Fatal(err)
	}
	_, err := Load(path)
	if !errors.Is(err, gfferrors.ErrUnsupported) {
		t.Errorf("Load() error = %v, want ErrUnsupported", err)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "config.yaml")
	cfg := DefaultConfig()
	cfg.Version = "2.5"
	cfg.Logging.Format = "json"
	cfg.Store.Path = "/tmp/annotations.db"

	if err := Save(cfg, path); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("mode = %v, want 0600", info.Mode().Perm())
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if *got != *cfg {
		t.Errorf("Load() = %+v, want %+v", got, cfg)
	}
}

func TestStorePathExpandsHome(t *testing.T) {
	home, err := homedir.Dir()
	if err != nil {
		t.Skip("no home directory")
	}
	cfg := DefaultConfig()
	cfg.Store.Path = "~/x/gff.db"
	got, err := cfg.StorePath()
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join(home, "x", "gff.db"); got != want {
		t.Errorf("StorePath() = %q, want %q", got, want)
	}
}
