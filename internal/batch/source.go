package batch

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"phototag/internal/catalog"
)

// Source kinds.
const (
	SourceCatalog = "catalog"
	SourceFolder  = "folder"
)

// Source names where a run's photos come from. Path is the catalog file or
// the folder root.
type Source struct {
	Kind string `json:"kind"`
	Path string `json:"path"`
}

// Item is one photo to process. CatalogID is zero for folder items, which
// exist only on disk.
type Item struct {
	CatalogID int64
	Path      string
	FileName  string
}

// CatalogItems snapshots the catalog's photo list. The snapshot is ordered
// by catalog ID, which keeps the pause cursor meaningful across runs as
// long as no photos are removed.
func CatalogItems(ctx context.Context, store *catalog.Store) ([]Item, error) {
	photos, err := store.ListPhotos(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]Item, 0, len(photos))
	for _, photo := range photos {
		items = append(items, Item{
			CatalogID: photo.ID,
			Path:      photo.FullPath,
			FileName:  photo.FileName,
		})
	}
	return items, nil
}

// FolderItems walks root for image files matching the configured
// extensions, sorted by path for a stable cursor. Unreadable subdirectories
// fail the walk; a partial listing would silently skip photos.
func FolderItems(root string, extensions []string) ([]Item, error) {
	allowed := make(map[string]bool, len(extensions))
	for _, ext := range extensions {
		allowed[strings.ToLower(ext)] = true
	}

	var items []Item
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if !allowed[strings.ToLower(filepath.Ext(path))] {
			return nil
		}
		items = append(items, Item{Path: path, FileName: d.Name()})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk folder %s: %w", root, err)
	}

	sort.Slice(items, func(i, j int) bool { return items[i].Path < items[j].Path })
	return items, nil
}
