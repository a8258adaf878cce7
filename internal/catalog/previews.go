package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// PyramidBlob returns the embedded smart preview blob for a photo, or nil
// when the catalog has no pyramid table or no row for the photo. Absence is
// not an error; callers fall through to the next preview source.
func (s *Store) PyramidBlob(ctx context.Context, photoID int64) ([]byte, error) {
	if s.schema.PyramidTable == "" {
		return nil, nil
	}
	query := fmt.Sprintf(
		"SELECT data FROM %s WHERE image = ? AND data IS NOT NULL LIMIT 1",
		s.schema.PyramidTable)
	return s.blobQuery(ctx, query, photoID)
}

// StandardPreviewBlob returns the embedded standard preview blob for a
// photo, preferring the largest rendition when the table records dimensions.
func (s *Store) StandardPreviewBlob(ctx context.Context, photoID int64) ([]byte, error) {
	if s.schema.StandardTable == "" {
		return nil, nil
	}
	query := fmt.Sprintf(
		"SELECT data FROM %s WHERE image = ? AND data IS NOT NULL",
		s.schema.StandardTable)
	if s.schema.StandardHasDimension {
		query += " ORDER BY dimension DESC"
	}
	query += " LIMIT 1"
	return s.blobQuery(ctx, query, photoID)
}

// ProxyFileUUID returns the AgDNGProxyInfo file UUID naming the photo's
// smart preview DNG inside the .lrdata directory. The relation runs through
// AgLibraryFile.id_global, not the image's own id_global. An empty result
// means the photo has no smart preview on disk.
func (s *Store) ProxyFileUUID(ctx context.Context, photoID int64) (string, error) {
	const query = `
        SELECT dnp.fileUUID
        FROM Adobe_images ai
        INNER JOIN AgLibraryFile alf ON ai.rootFile = alf.id_local
        INNER JOIN AgDNGProxyInfo dnp ON alf.id_global = dnp.fileUUID
        WHERE ai.id_local = ?`

	var fileUUID sql.NullString
	err := s.db.QueryRowContext(ctx, query, photoID).Scan(&fileUUID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		// Very old catalogs lack AgDNGProxyInfo entirely.
		return "", nil
	}
	return fileUUID.String, nil
}

func (s *Store) blobQuery(ctx context.Context, query string, photoID int64) ([]byte, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx, query, photoID).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("fetch preview blob for photo %d: %w", photoID, err)
	}
	return data, nil
}
