// Package config loads, normalizes, and validates phototag configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), and reads TOML files. The Config type centralizes every knob
// the CLI and batch worker need: Ollama connection settings, tagging mode and
// prompts, write destinations, and logging output.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical values, and clear validation errors.
package config
