package catalog

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"

	"phototag/internal/logging"
)

// ErrNotFound is returned when a photo ID has no matching catalog row.
var ErrNotFound = errors.New("photo not found in catalog")

// Store manages a connection to one Lightroom catalog.
type Store struct {
	db     *sql.DB
	path   string
	schema Schema
	logger *slog.Logger
}

// Open connects to the catalog at path. A missing file is an error rather
// than an implicit empty database; sql.Open would happily create one and
// every later query would fail confusingly.
func Open(path string, logger *slog.Logger) (*Store, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}

	// The catalog belongs to Lightroom; leave its journal mode alone and
	// only guard against transient locking.
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply pragma: %w", err)
	}

	store := &Store{
		db:     db,
		path:   path,
		logger: logging.NewComponentLogger(logger, "catalog"),
	}
	if err := store.probeSchema(); err != nil {
		_ = db.Close()
		return nil, err
	}

	store.logger.Info("catalog opened",
		logging.String(logging.FieldCatalog, path),
		logging.String("pyramid_table", store.schema.PyramidTable),
		logging.String("standard_table", store.schema.StandardTable))
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the catalog file path.
func (s *Store) Path() string {
	return s.path
}

// Dir returns the directory holding the catalog file.
func (s *Store) Dir() string {
	return filepath.Dir(s.path)
}

// BaseName returns the catalog file name without its extension, used to
// locate the sibling "<name> Smart Previews.lrdata" directory.
func (s *Store) BaseName() string {
	base := filepath.Base(s.path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Schema reports the preview tables detected at open time.
func (s *Store) Schema() Schema {
	return s.schema
}
