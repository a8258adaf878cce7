package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Validate checks configuration values that cannot be repaired by
// normalization. It returns the first problem found.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		return errors.New("paths.state_dir is required")
	}

	if c.Ollama.BaseURL != "" {
		parsed, err := url.Parse(c.Ollama.BaseURL)
		if err != nil || parsed.Scheme == "" || parsed.Host == "" {
			return fmt.Errorf("ollama.base_url %q is not a valid URL", c.Ollama.BaseURL)
		}
	}

	switch c.Tagging.Mode {
	case "auto", "targeted":
	default:
		return fmt.Errorf("tagging.mode %q must be \"auto\" or \"targeted\"", c.Tagging.Mode)
	}
	if c.Tagging.Mode == "targeted" && len(c.Tagging.Mappings) == 0 {
		return errors.New("tagging.mode \"targeted\" requires at least one [[tagging.mappings]] entry")
	}

	if !c.Destinations.Catalog && !c.Destinations.Sidecar {
		return errors.New("at least one destination (catalog or sidecar) must be enabled")
	}

	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format %q must be \"console\" or \"json\"", c.Logging.Format)
	}

	return nil
}
