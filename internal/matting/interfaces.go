package matting

import (
	"context"
	"image"
)

// BackgroundRemover separates the foreground subject from the background,
// producing an image with an alpha channel. The segmentation model behind it
// is opaque; implementations only move pixels in and out.
type BackgroundRemover interface {
	Remove(ctx context.Context, img image.Image) (image.Image, error)
}
