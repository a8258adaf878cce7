package testsupport

import (
	"path/filepath"
	"testing"

	"phototag/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.StateDir = filepath.Join(base, "state")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Ollama.BaseURL = "http://127.0.0.1:1"
	cfg.Ollama.MaxRetries = 0

	for _, opt := range opts {
		opt(&cfg)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}
	return &cfg
}

// WithDestinations selects which tag destinations the test config enables.
func WithDestinations(catalog, sidecar bool) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Destinations.Catalog = catalog
		cfg.Destinations.Sidecar = sidecar
	}
}

// WithTargetedMode switches the config to targeted mode with one mapping.
func WithTargetedMode(criterion, tag string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Tagging.Mode = "targeted"
		cfg.Tagging.Mappings = []config.Mapping{{Criterion: criterion, Tag: tag}}
	}
}
