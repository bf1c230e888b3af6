package enhancer

import (
	"image"

	"github.com/disintegration/imaging"
)

// unsharpMask sharpens by amplifying the difference between the image and a
// Gaussian-blurred copy. Differences below the threshold are left untouched
// so flat skin areas do not pick up noise. Alpha is passed through unchanged.
func unsharpMask(img *image.NRGBA, radius float64, percent, threshold int) *image.NRGBA {
	if radius <= 0 || percent <= 0 {
		return img
	}

	blurred := imaging.Blur(img, radius)
	out := imaging.Clone(img)

	bounds := out.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			oi := out.PixOffset(x, y)
			bi := blurred.PixOffset(x, y)
			for c := 0; c < 3; c++ {
				orig := int(out.Pix[oi+c])
				diff := orig - int(blurred.Pix[bi+c])
				if diff >= threshold || diff <= -threshold {
					out.Pix[oi+c] = clampUint8(orig + diff*percent/100)
				}
			}
		}
	}
	return out
}

func clampUint8(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
