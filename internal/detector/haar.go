package detector

import (
	"image"
	"image/draw"
	"sync"

	"gocv.io/x/gocv"

	apperrors "go-avatar-processor/internal/errors"
	"go-avatar-processor/internal/logger"
)

// passParams holds the cascade parameters for one detection sweep.
type passParams struct {
	scaleFactor  float64
	minNeighbors int
	minSize      image.Point
	// maxSizeFraction caps box size as a fraction of the smaller image
	// dimension; zero means no cap.
	maxSizeFraction float64
}

// The first pass favors sensitivity; the relaxed pass only runs when the
// first one finds nothing.
var (
	sensitivePass = passParams{scaleFactor: 1.05, minNeighbors: 3, minSize: image.Pt(20, 20), maxSizeFraction: 0.8}
	relaxedPass   = passParams{scaleFactor: 1.1, minNeighbors: 2, minSize: image.Pt(15, 15)}
)

// HaarDetector wraps an OpenCV cascade classifier. The classifier is not
// reentrant, so calls are serialized with a mutex.
type HaarDetector struct {
	mu  sync.Mutex
	cls gocv.CascadeClassifier
}

// NewHaarDetector loads the cascade model from the given path. A load failure
// is reported once here as detection_unavailable; callers are expected to
// degrade to geometric cropping rather than fail per request.
func NewHaarDetector(modelPath string) (*HaarDetector, error) {
	if modelPath == "" {
		return nil, apperrors.NewDetectionUnavailableError("face cascade path not configured", nil)
	}
	cls := gocv.NewCascadeClassifier()
	if !cls.Load(modelPath) {
		cls.Close()
		return nil, apperrors.NewDetectionUnavailableError("failed to load face cascade model: "+modelPath, nil)
	}
	return &HaarDetector{cls: cls}, nil
}

// Detect runs the two-pass cascade sweep over a grayscale derivation of the
// image. Returns an empty slice when both passes find nothing.
func (d *HaarDetector) Detect(img image.Image) []image.Rectangle {
	gray := toGray(img)
	mat, err := gocv.ImageGrayToMatGray(gray)
	if err != nil {
		logger.WithError(err).Warn("Failed to convert image for face detection")
		return nil
	}
	defer mat.Close()

	faces := d.runPass(mat, gray.Bounds(), sensitivePass)
	if len(faces) == 0 {
		faces = d.runPass(mat, gray.Bounds(), relaxedPass)
	}
	return faces
}

func (d *HaarDetector) runPass(mat gocv.Mat, bounds image.Rectangle, p passParams) []image.Rectangle {
	maxSize := image.Point{}
	if p.maxSizeFraction > 0 {
		side := bounds.Dx()
		if bounds.Dy() < side {
			side = bounds.Dy()
		}
		capped := int(float64(side) * p.maxSizeFraction)
		maxSize = image.Pt(capped, capped)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	return d.cls.DetectMultiScaleWithParams(mat, p.scaleFactor, p.minNeighbors, 0, p.minSize, maxSize)
}

// Close releases the underlying classifier.
func (d *HaarDetector) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.cls.Close()
}

func toGray(img image.Image) *image.Gray {
	bounds := img.Bounds()
	gray := image.NewGray(bounds)
	draw.Draw(gray, bounds, img, bounds.Min, draw.Src)
	return gray
}
