package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"phototag/internal/logging"
	"phototag/internal/tags"
)

// Tags returns the keywords attached to a photo, sorted by name.
func (s *Store) Tags(ctx context.Context, photoID int64) ([]string, error) {
	const query = `
        SELECT DISTINCT alk.name
        FROM AgLibraryKeyword alk
        INNER JOIN AgLibraryKeywordImage alki ON alk.id_local = alki.tag
        WHERE alki.image = ?
        ORDER BY alk.name`

	rows, err := s.db.QueryContext(ctx, query, photoID)
	if err != nil {
		return nil, fmt.Errorf("fetch tags for photo %d: %w", photoID, err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var name sql.NullString
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan tag row: %w", err)
		}
		if name.String != "" {
			out = append(out, name.String)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("fetch tags for photo %d: %w", photoID, err)
	}
	return out, nil
}

// AddTags attaches newTags to a photo without disturbing existing keywords.
// Keywords are matched case-insensitively and created on demand with the
// fields Lightroom requires: a fresh upper-case UUID for id_global, the
// lower-cased name in lc_name, and a root-level genealogy. The whole
// operation is one transaction; re-running it is a no-op. Returns the
// number of associations actually added.
func (s *Store) AddTags(ctx context.Context, photoID int64, newTags []string) (int, error) {
	if len(newTags) == 0 {
		return 0, nil
	}

	existing, err := s.Tags(ctx, photoID)
	if err != nil {
		return 0, err
	}
	existingFolded := make(map[string]bool, len(existing))
	for _, tag := range existing {
		existingFolded[tags.Fold(tag)] = true
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tag transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	added := 0
	for _, tag := range newTags {
		if tag == "" || existingFolded[tags.Fold(tag)] {
			continue
		}

		keywordID, err := findOrCreateKeyword(ctx, tx, tag)
		if err != nil {
			return 0, err
		}

		var one int
		err = tx.QueryRowContext(ctx,
			"SELECT 1 FROM AgLibraryKeywordImage WHERE image = ? AND tag = ?",
			photoID, keywordID).Scan(&one)
		if err == nil {
			continue
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return 0, fmt.Errorf("check tag association: %w", err)
		}

		if _, err := tx.ExecContext(ctx,
			"INSERT INTO AgLibraryKeywordImage (image, tag) VALUES (?, ?)",
			photoID, keywordID); err != nil {
			return 0, fmt.Errorf("associate tag %q with photo %d: %w", tag, photoID, err)
		}
		existingFolded[tags.Fold(tag)] = true
		added++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit tag transaction: %w", err)
	}

	s.logger.Debug("catalog tags added",
		logging.Int64(logging.FieldPhotoID, photoID),
		logging.Int(logging.FieldTagCount, added))
	return added, nil
}

// findOrCreateKeyword resolves a keyword row by folded name, inserting one
// when absent. New IDs continue the catalog's own id_local sequence.
func findOrCreateKeyword(ctx context.Context, tx *sql.Tx, tag string) (int64, error) {
	var keywordID int64
	err := tx.QueryRowContext(ctx,
		"SELECT id_local FROM AgLibraryKeyword WHERE lc_name = ?",
		tags.Fold(tag)).Scan(&keywordID)
	if err == nil {
		return keywordID, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("look up keyword %q: %w", tag, err)
	}

	var maxID sql.NullInt64
	if err := tx.QueryRowContext(ctx,
		"SELECT MAX(id_local) FROM AgLibraryKeyword").Scan(&maxID); err != nil {
		return 0, fmt.Errorf("next keyword id: %w", err)
	}
	keywordID = maxID.Int64 + 1

	idGlobal := strings.ToUpper(uuid.NewString())
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO AgLibraryKeyword (id_local, id_global, name, lc_name, dateCreated, genealogy)
         VALUES (?, ?, ?, ?, datetime('now'), ?)`,
		keywordID, idGlobal, tag, tags.Fold(tag), "/"+tag); err != nil {
		return 0, fmt.Errorf("create keyword %q: %w", tag, err)
	}
	return keywordID, nil
}
