package detector

import "image"

// FaceDetector locates faces in an image. Implementations must be safe for
// concurrent use: the underlying model is the only resource shared between
// in-flight pipeline runs.
type FaceDetector interface {
	// Detect returns zero or more face bounding boxes in source-image pixel
	// coordinates. An empty result is not an error.
	Detect(img image.Image) []image.Rectangle

	// Lifecycle management
	Close() error
}
