package enhancer

import (
	"image"

	"github.com/disintegration/imaging"
)

// SmoothAlpha softens the alpha channel with a small Gaussian blur and
// recomposes it under the original color channels, removing the hard cutout
// edge left by background removal. Color data is untouched.
func SmoothAlpha(img *image.NRGBA, radius float64) *image.NRGBA {
	if radius <= 0 {
		return img
	}

	bounds := img.Bounds()
	alpha := image.NewGray(bounds)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			alpha.Pix[alpha.PixOffset(x, y)] = img.Pix[img.PixOffset(x, y)+3]
		}
	}

	// imaging returns NRGBA with the gray value replicated per channel
	blurred := imaging.Blur(alpha, radius)

	out := imaging.Clone(img)
	outBounds := out.Bounds()
	for y := outBounds.Min.Y; y < outBounds.Max.Y; y++ {
		for x := outBounds.Min.X; x < outBounds.Max.X; x++ {
			out.Pix[out.PixOffset(x, y)+3] = blurred.Pix[blurred.PixOffset(x-outBounds.Min.X, y-outBounds.Min.Y)]
		}
	}
	return out
}
