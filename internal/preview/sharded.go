package preview

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"phototag/internal/imaging"
	"phototag/internal/logging"
)

// smartPreviewFile looks for the photo's smart preview DNG inside the
// catalog's .lrdata directory. Files are named after the AgDNGProxyInfo
// file UUID and sharded by its leading characters; layouts changed across
// Lightroom versions, so every known pattern is tried in order.
func (r *Resolver) smartPreviewFile(ctx context.Context, photoID int64) (*Asset, error) {
	fileUUID, err := r.store.ProxyFileUUID(ctx, photoID)
	if err != nil {
		return nil, fmt.Errorf("proxy lookup: %w", err)
	}
	if fileUUID == "" {
		return nil, nil
	}

	lrdataDir := r.smartPreviewsDir()
	if lrdataDir == "" {
		return nil, nil
	}

	for _, candidate := range shardedCandidates(lrdataDir, fileUUID) {
		img, _, err := imaging.LoadFile(candidate)
		if err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				r.logger.Debug("smart preview file not decodable",
					logging.Int64(logging.FieldPhotoID, photoID),
					logging.String("path", candidate),
					logging.Error(err))
			}
			continue
		}
		return &Asset{Image: img, Source: SourceSmartFile, Path: candidate}, nil
	}
	return nil, nil
}

// smartPreviewsDir finds the .lrdata directory next to the catalog. The
// catalog-prefixed name is standard; a bare name shows up on catalogs that
// were renamed after the preview cache was built.
func (r *Resolver) smartPreviewsDir() string {
	candidates := []string{
		filepath.Join(r.store.Dir(), r.store.BaseName()+" Smart Previews.lrdata"),
		filepath.Join(r.store.Dir(), "Smart Previews.lrdata"),
	}
	for _, candidate := range candidates {
		if info, err := os.Stat(candidate); err == nil && info.IsDir() {
			return candidate
		}
	}
	return ""
}

// shardedCandidates lists the possible locations of a smart preview DNG,
// newest layout first: {c}/{cccc}/{UUID}.dng with the catalog's original
// casing, then lower and upper case variants, then the legacy single-level
// and flat layouts.
func shardedCandidates(lrdataDir, fileUUID string) []string {
	if len(fileUUID) < 4 {
		return []string{filepath.Join(lrdataDir, fileUUID+".dng")}
	}
	first := fileUUID[:1]
	prefix := fileUUID[:4]
	return []string{
		filepath.Join(lrdataDir, first, prefix, fileUUID+".dng"),
		filepath.Join(lrdataDir, strings.ToLower(first), strings.ToLower(prefix), fileUUID+".dng"),
		filepath.Join(lrdataDir, strings.ToUpper(first), strings.ToUpper(prefix), strings.ToUpper(fileUUID)+".dng"),
		filepath.Join(lrdataDir, first, fileUUID+".dng"),
		filepath.Join(lrdataDir, fileUUID+".dng"),
	}
}
