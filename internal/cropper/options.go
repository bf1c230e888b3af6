package cropper

// Options provides the tuning constants for crop planning. The defaults are
// fixed portrait heuristics, not derived from image statistics.
type Options struct {
	// PaddingFactor is the extra context added around the face, as a
	// fraction of the face size. 1.2 means the crop side is 2.2x the face.
	PaddingFactor float64

	// UpwardBias shifts the crop center up by this fraction of the face box
	// height to include more hair and forehead. Never shifts downward.
	UpwardBias float64

	// MinCropFraction rejects face crops whose clamped side falls below this
	// fraction of the smaller image dimension.
	MinCropFraction float64

	// TopBandFraction is where the fallback square starts on portrait
	// images, as a fraction of the image height.
	TopBandFraction float64
}

// DefaultOptions returns the tuned crop heuristics.
func DefaultOptions() Options {
	return Options{
		PaddingFactor:   1.2,
		UpwardBias:      0.1,
		MinCropFraction: 0.3,
		TopBandFraction: 0.1,
	}
}
