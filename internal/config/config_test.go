package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"phototag/internal/config"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if exists {
		t.Fatal("expected exists=false for missing file")
	}
	if resolved != path {
		t.Fatalf("expected resolved path %q, got %q", path, resolved)
	}
	if cfg.Ollama.BaseURL != "http://localhost:11434" {
		t.Fatalf("unexpected default base URL: %q", cfg.Ollama.BaseURL)
	}
	if cfg.Tagging.Mode != "auto" {
		t.Fatalf("unexpected default mode: %q", cfg.Tagging.Mode)
	}
	if !cfg.Destinations.Catalog || !cfg.Destinations.Sidecar {
		t.Fatal("expected both destinations enabled by default")
	}
}

func TestLoadParsesAndNormalizes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[paths]
state_dir = "` + dir + `"
log_dir = ""

[ollama]
base_url = "http://ollama.local:11434/"
model = "  llava:13b  "

[tagging]
mode = "Targeted"
suffix = " _ai "

[[tagging.mappings]]
criterion = " a dog "
tag = " Dog "

[[tagging.mappings]]
criterion = ""
tag = "Dropped"

[processing]
extensions = ["JPG", ".png", ""]
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !exists {
		t.Fatal("expected exists=true")
	}
	if cfg.Ollama.BaseURL != "http://ollama.local:11434" {
		t.Fatalf("expected trailing slash trimmed, got %q", cfg.Ollama.BaseURL)
	}
	if cfg.Ollama.Model != "llava:13b" {
		t.Fatalf("expected trimmed model, got %q", cfg.Ollama.Model)
	}
	if cfg.Tagging.Mode != "targeted" {
		t.Fatalf("expected lowered mode, got %q", cfg.Tagging.Mode)
	}
	if len(cfg.Tagging.Mappings) != 1 || cfg.Tagging.Mappings[0].Tag != "Dog" {
		t.Fatalf("unexpected mappings: %#v", cfg.Tagging.Mappings)
	}
	if len(cfg.Processing.Extensions) != 2 || cfg.Processing.Extensions[0] != ".jpg" {
		t.Fatalf("unexpected extensions: %#v", cfg.Processing.Extensions)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{"bad mode", func(c *config.Config) { c.Tagging.Mode = "wild" }},
		{"targeted without mappings", func(c *config.Config) { c.Tagging.Mode = "targeted" }},
		{"no destinations", func(c *config.Config) {
			c.Destinations.Catalog = false
			c.Destinations.Sidecar = false
		}},
		{"bad log format", func(c *config.Config) { c.Logging.Format = "xml" }},
		{"bad base url", func(c *config.Config) { c.Ollama.BaseURL = "::nope" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.Default()
			cfg.Paths.StateDir = t.TempDir()
			tc.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestCreateSampleRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}
	if _, _, exists, err := config.Load(path); err != nil || !exists {
		t.Fatalf("expected sample config to load, exists=%v err=%v", exists, err)
	}
}
