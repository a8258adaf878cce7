package tagger

import (
	"context"
	"image"
)

// Generator produces tags from photo renditions.
type Generator interface {
	// GenerateTags describes the image freely and returns a cleaned tag
	// list. An empty list with a nil error means the model produced no
	// usable tags.
	GenerateTags(ctx context.Context, img image.Image) ([]string, error)

	// Detect answers whether the image clearly shows the given criterion,
	// for targeted mode's yes/no mappings.
	Detect(ctx context.Context, img image.Image, criterion string) (bool, error)
}
