package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"phototag/internal/logging"
)

// ListPhotos returns every image in the catalog ordered by ID. The primary
// query resolves full paths through the folder tables of Lightroom Classic
// v12 and later; catalogs that predate those tables fall back to a bare
// listing of IDs and file names.
func (s *Store) ListPhotos(ctx context.Context) ([]Photo, error) {
	const query = `
        SELECT DISTINCT
            ai.id_local,
            rf.absolutePath || alf.pathFromRoot || af.baseName || '.' || af.extension,
            af.baseName || '.' || af.extension,
            COALESCE(ai.fileFormat, '')
        FROM Adobe_images ai
        INNER JOIN AgLibraryFile af ON ai.rootFile = af.id_local
        INNER JOIN AgLibraryFolder alf ON af.folder = alf.id_local
        INNER JOIN AgLibraryRootFolder rf ON alf.rootFolder = rf.id_local
        WHERE ai.id_local IS NOT NULL
        ORDER BY ai.id_local`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		s.logger.Warn("photo listing failed, trying legacy layout", logging.Error(err))
		return s.listPhotosFallback(ctx)
	}
	defer rows.Close()

	var photos []Photo
	for rows.Next() {
		var p Photo
		var fullPath sql.NullString
		if err := rows.Scan(&p.ID, &fullPath, &p.FileName, &p.Format); err != nil {
			return nil, fmt.Errorf("scan photo row: %w", err)
		}
		p.FullPath = fullPath.String
		photos = append(photos, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list photos: %w", err)
	}

	s.logger.Info("photos listed", logging.Int("count", len(photos)))
	return photos, nil
}

// listPhotosFallback handles old catalogs lacking the folder join tables.
// Paths stay empty; such photos can still be tagged from embedded previews.
func (s *Store) listPhotosFallback(ctx context.Context) ([]Photo, error) {
	const query = `
        SELECT DISTINCT ai.id_local, ai.idx_filename
        FROM Adobe_images ai
        WHERE ai.id_local IS NOT NULL
        ORDER BY ai.id_local`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list photos (legacy): %w", err)
	}
	defer rows.Close()

	var photos []Photo
	for rows.Next() {
		var p Photo
		var fileName sql.NullString
		if err := rows.Scan(&p.ID, &fileName); err != nil {
			return nil, fmt.Errorf("scan legacy photo row: %w", err)
		}
		p.FileName = fileName.String
		photos = append(photos, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list photos (legacy): %w", err)
	}

	s.logger.Info("photos listed via legacy layout", logging.Int("count", len(photos)))
	return photos, nil
}

// PhotoPath resolves the full filesystem path of one photo.
func (s *Store) PhotoPath(ctx context.Context, photoID int64) (string, error) {
	const query = `
        SELECT rf.absolutePath, alf.pathFromRoot, af.baseName, af.extension
        FROM Adobe_images ai
        INNER JOIN AgLibraryFile af ON ai.rootFile = af.id_local
        INNER JOIN AgLibraryFolder alf ON af.folder = alf.id_local
        INNER JOIN AgLibraryRootFolder rf ON alf.rootFolder = rf.id_local
        WHERE ai.id_local = ?`

	var absolutePath, pathFromRoot, baseName, extension sql.NullString
	err := s.db.QueryRowContext(ctx, query, photoID).
		Scan(&absolutePath, &pathFromRoot, &baseName, &extension)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("photo %d: %w", photoID, ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("resolve path for photo %d: %w", photoID, err)
	}
	if !absolutePath.Valid || !baseName.Valid || !extension.Valid {
		return "", fmt.Errorf("photo %d: incomplete path in catalog", photoID)
	}

	return filepath.Join(
		absolutePath.String,
		strings.TrimPrefix(pathFromRoot.String, "/"),
		baseName.String+"."+extension.String,
	), nil
}
