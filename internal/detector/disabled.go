package detector

import "image"

// DisabledDetector is the fallback used when the detection capability could
// not initialize. Every call reports no faces, so the pipeline always takes
// the geometric crop path.
type DisabledDetector struct{}

// NewDisabledDetector creates a detector that never finds faces.
func NewDisabledDetector() *DisabledDetector {
	return &DisabledDetector{}
}

// Detect always returns no faces.
func (d *DisabledDetector) Detect(img image.Image) []image.Rectangle {
	return nil
}

// Close is a no-op.
func (d *DisabledDetector) Close() error {
	return nil
}
