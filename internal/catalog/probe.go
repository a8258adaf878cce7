package catalog

import (
	"fmt"

	"phototag/internal/logging"
)

// Preview table names vary across Lightroom Classic versions. Candidates
// are probed in order; the first one present that actually carries a data
// column wins.
var (
	pyramidCandidates = []string{
		"Adobe_previewCachePyramid",
		"Adobe_imageDevelopBeforeSettings",
		"Adobe_variablesTable",
	}
	standardCandidates = []string{
		"Adobe_previewCache",
		"Adobe_libraryImageDevelopHistoryStep",
	}
)

// probeSchema inspects sqlite_master once so every later preview lookup
// queries a table known to exist.
func (s *Store) probeSchema() error {
	tables, err := s.tableNames()
	if err != nil {
		return err
	}

	for _, candidate := range pyramidCandidates {
		if !tables[candidate] {
			continue
		}
		columns, err := s.tableColumns(candidate)
		if err != nil {
			return err
		}
		if columns["data"] {
			s.schema.PyramidTable = candidate
			break
		}
	}

	for _, candidate := range standardCandidates {
		if !tables[candidate] {
			continue
		}
		columns, err := s.tableColumns(candidate)
		if err != nil {
			return err
		}
		if columns["data"] {
			s.schema.StandardTable = candidate
			s.schema.StandardHasDimension = columns["dimension"]
			break
		}
	}

	if s.schema.PyramidTable == "" {
		s.logger.Warn("no smart preview table in catalog")
	}
	if s.schema.StandardTable == "" {
		s.logger.Warn("no standard preview table in catalog")
	}
	return nil
}

func (s *Store) tableNames() (map[string]bool, error) {
	rows, err := s.db.Query("SELECT name FROM sqlite_master WHERE type='table'")
	if err != nil {
		return nil, fmt.Errorf("list catalog tables: %w", err)
	}
	defer rows.Close()

	tables := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan table name: %w", err)
		}
		tables[name] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list catalog tables: %w", err)
	}
	s.logger.Debug("catalog tables enumerated", logging.Int("count", len(tables)))
	return tables, nil
}

func (s *Store) tableColumns(table string) (map[string]bool, error) {
	rows, err := s.db.Query(fmt.Sprintf("PRAGMA table_info(%s)", table))
	if err != nil {
		return nil, fmt.Errorf("inspect table %s: %w", table, err)
	}
	defer rows.Close()

	columns := make(map[string]bool)
	for rows.Next() {
		var (
			cid        int
			name       string
			colType    string
			notNull    int
			defaultVal any
			primaryKey int
		)
		if err := rows.Scan(&cid, &name, &colType, &notNull, &defaultVal, &primaryKey); err != nil {
			return nil, fmt.Errorf("scan column info for %s: %w", table, err)
		}
		columns[name] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("inspect table %s: %w", table, err)
	}
	return columns, nil
}
