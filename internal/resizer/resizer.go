package resizer

import (
	"image"

	"github.com/disintegration/imaging"
	"github.com/nfnt/resize"
)

// Resizer scales images to the fixed square avatar resolution using Lanczos
// resampling.
type Resizer struct{}

// New creates a resizer.
func New() *Resizer {
	return &Resizer{}
}

// Resize scales the image to targetSide x targetSide. An image that already
// has the target size is copied verbatim, so repeated calls are idempotent
// down to the pixel.
func (r *Resizer) Resize(img image.Image, targetSide int) *image.NRGBA {
	bounds := img.Bounds()
	if bounds.Dx() == targetSide && bounds.Dy() == targetSide {
		return imaging.Clone(img)
	}

	resized := resize.Resize(uint(targetSide), uint(targetSide), img, resize.Lanczos3)
	return imaging.Clone(resized)
}
