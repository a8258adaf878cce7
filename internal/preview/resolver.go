package preview

import (
	"context"
	"fmt"
	"image"
	"log/slog"

	"phototag/internal/catalog"
	"phototag/internal/imaging"
	"phototag/internal/logging"
)

// Source identifies where a resolved preview came from.
type Source string

const (
	SourceEmbeddedSmart Source = "embedded_smart"
	SourceSmartFile     Source = "smart_file"
	SourceStandard      Source = "standard"
)

// Asset is one resolved preview image. Path is set only for file-backed
// sources.
type Asset struct {
	Image  image.Image
	Source Source
	Path   string
}

// Resolver locates previews for photos in one catalog.
type Resolver struct {
	store  *catalog.Store
	logger *slog.Logger
}

// NewResolver constructs a resolver bound to an open catalog store.
func NewResolver(store *catalog.Store, logger *slog.Logger) *Resolver {
	return &Resolver{
		store:  store,
		logger: logging.NewComponentLogger(logger, "preview"),
	}
}

// Resolve returns the highest-priority decodable preview for a photo, or
// nil when no source yields one. Only infrastructure failures (catalog
// query errors) surface as errors; missing or undecodable candidates do
// not.
func (r *Resolver) Resolve(ctx context.Context, photoID int64) (*Asset, error) {
	if blob, err := r.store.PyramidBlob(ctx, photoID); err != nil {
		return nil, fmt.Errorf("pyramid lookup: %w", err)
	} else if img := r.decodeBlob(photoID, blob, SourceEmbeddedSmart); img != nil {
		return &Asset{Image: img, Source: SourceEmbeddedSmart}, nil
	}

	if asset, err := r.smartPreviewFile(ctx, photoID); err != nil {
		return nil, err
	} else if asset != nil {
		return asset, nil
	}

	if blob, err := r.store.StandardPreviewBlob(ctx, photoID); err != nil {
		return nil, fmt.Errorf("standard preview lookup: %w", err)
	} else if img := r.decodeBlob(photoID, blob, SourceStandard); img != nil {
		return &Asset{Image: img, Source: SourceStandard}, nil
	}

	r.logger.Debug("no preview available", logging.Int64(logging.FieldPhotoID, photoID))
	return nil, nil
}

func (r *Resolver) decodeBlob(photoID int64, blob []byte, source Source) image.Image {
	if len(blob) == 0 {
		return nil
	}
	img, _, err := imaging.DecodeBytes(blob)
	if err != nil {
		r.logger.Debug("preview blob not decodable",
			logging.Int64(logging.FieldPhotoID, photoID),
			logging.String("source", string(source)),
			logging.Error(err))
		return nil
	}
	return img
}
