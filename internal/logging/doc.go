// Package logging builds slog loggers for the CLI and batch worker.
//
// It supports a human-oriented console format and a JSON format, exposes
// typed attribute helpers so call sites stay terse, and defines the shared
// field names (component, photo_id, destination, ...) that keep log output
// greppable across packages. Tests use NewNop to silence output.
package logging
