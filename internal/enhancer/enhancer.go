package enhancer

import (
	"image"

	"github.com/disintegration/imaging"

	"go-avatar-processor/internal/logger"
)

// Options holds the fixed adjustment constants applied to every avatar.
// Values are tuned for portraits and are not derived from image statistics,
// so identical input always produces identical output.
type Options struct {
	SharpenRadius    float64
	SharpenPercent   int
	SharpenThreshold int
	ContrastPct      float64
	SaturationPct    float64
	BrightnessPct    float64
}

// DefaultOptions returns the portrait enhancement constants.
func DefaultOptions() Options {
	return Options{
		SharpenRadius:    0.8,
		SharpenPercent:   110,
		SharpenThreshold: 3,
		ContrastPct:      8,
		SaturationPct:    3,
		BrightnessPct:    2,
	}
}

// Enhancer applies the quality adjustment sequence: unsharp mask, contrast,
// color, brightness, in that order.
type Enhancer struct {
	opts Options
}

// New creates an enhancer with the given options.
func New(opts Options) *Enhancer {
	return &Enhancer{opts: opts}
}

// NewDefault creates an enhancer with the default portrait constants.
func NewDefault() *Enhancer {
	return New(DefaultOptions())
}

type adjustment struct {
	name string
	fn   func(*image.NRGBA) *image.NRGBA
}

// Enhance runs the adjustment sequence. A failing step is skipped and the
// image as of the prior step carries forward; enhancement never aborts.
func (e *Enhancer) Enhance(img *image.NRGBA) *image.NRGBA {
	steps := []adjustment{
		{"sharpen", func(im *image.NRGBA) *image.NRGBA {
			return unsharpMask(im, e.opts.SharpenRadius, e.opts.SharpenPercent, e.opts.SharpenThreshold)
		}},
		{"contrast", func(im *image.NRGBA) *image.NRGBA {
			return imaging.AdjustContrast(im, e.opts.ContrastPct)
		}},
		{"color", func(im *image.NRGBA) *image.NRGBA {
			return imaging.AdjustSaturation(im, e.opts.SaturationPct)
		}},
		{"brightness", func(im *image.NRGBA) *image.NRGBA {
			return imaging.AdjustBrightness(im, e.opts.BrightnessPct)
		}},
	}

	for _, step := range steps {
		img = applyStep(step.name, img, step.fn)
	}
	return img
}

// applyStep runs one adjustment, keeping the previous image when the step
// panics or produces nothing.
func applyStep(name string, img *image.NRGBA, fn func(*image.NRGBA) *image.NRGBA) (out *image.NRGBA) {
	defer func() {
		if r := recover(); r != nil {
			logger.WithStage(name).WithField("panic", r).Warn("Enhancement step failed, keeping previous image")
			out = img
		}
	}()

	if result := fn(img); result != nil {
		return result
	}
	return img
}
