package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"time"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"

	"go-avatar-processor/internal/cropper"
	"go-avatar-processor/internal/detector"
	"go-avatar-processor/internal/enhancer"
	apperrors "go-avatar-processor/internal/errors"
	"go-avatar-processor/internal/loader"
	"go-avatar-processor/internal/logger"
	"go-avatar-processor/internal/matting"
	"go-avatar-processor/internal/observer"
	"go-avatar-processor/internal/resizer"
	"go-avatar-processor/pkg/models"
)

// Stage names in transition order. The pipeline is a linear state machine:
// once a stage completes the next transition is unconditional; stage-internal
// soft failures only change the metadata flags.
const (
	StageLoaded              = "loaded"
	StageCropped             = "cropped"
	StageEnhanced            = "enhanced"
	StageBackgroundProcessed = "background_processed"
	StageResized             = "resized"
	StageFinalized           = "finalized"
)

// Options configures one pipeline instance.
type Options struct {
	OutputSize        int
	AutoCrop          bool
	BackgroundRemoval bool
	AlphaBlurRadius   float64
}

// DefaultOptions returns the standard avatar pipeline configuration.
func DefaultOptions() Options {
	return Options{
		OutputSize:        512,
		AutoCrop:          true,
		BackgroundRemoval: true,
		AlphaBlurRadius:   0.5,
	}
}

// Pipeline converts a raw upload into a square, background-stripped,
// enhanced PNG avatar plus a metadata record of what actually happened.
type Pipeline struct {
	detector detector.FaceDetector
	remover  matting.BackgroundRemover
	planner  *cropper.Planner
	enhancer *enhancer.Enhancer
	resizer  *resizer.Resizer
	events   observer.Subject
	opts     Options
}

// New creates a pipeline. The detector may be a DisabledDetector when face
// detection failed to initialize; the remover may be nil when background
// removal is turned off or unconfigured.
func New(faceDetector detector.FaceDetector, remover matting.BackgroundRemover, events observer.Subject, opts Options) *Pipeline {
	if opts.OutputSize <= 0 {
		opts.OutputSize = DefaultOptions().OutputSize
	}
	return &Pipeline{
		detector: faceDetector,
		remover:  remover,
		planner:  cropper.NewPlanner(cropper.DefaultOptions()),
		enhancer: enhancer.NewDefault(),
		resizer:  resizer.New(),
		events:   events,
		opts:     opts,
	}
}

// Process runs one full pipeline invocation. Only a decode failure aborts;
// every downstream stage degrades gracefully and is reflected honestly in
// the returned metadata.
func (p *Pipeline) Process(ctx context.Context, upload models.RawUpload) (*models.Result, error) {
	start := time.Now()
	p.notify(ctx, observer.PipelineEvent{
		EventType: observer.ProcessingStarted,
		Timestamp: start,
		Filename:  upload.Filename,
	})

	decoded, err := loader.Load(upload.Data)
	if err != nil {
		p.notifyFailed(ctx, upload.Filename, start, err)
		return nil, err
	}

	meta := models.ProcessingMetadata{
		OriginalSize: models.Dimensions{Width: decoded.Width(), Height: decoded.Height()},
	}
	img := decoded.Image
	p.notifyStage(ctx, upload.Filename, StageLoaded, start)

	// Face detection and smart cropping
	img = p.cropStage(img, &meta)
	p.notifyStage(ctx, upload.Filename, StageCropped, start)

	// Quality enhancement on the still-opaque image. Enhancement runs before
	// matting; reordering would change output determinism.
	img, meta.Enhanced = attempt(StageEnhanced, img, func(im *image.NRGBA) (*image.NRGBA, error) {
		return p.enhancer.Enhance(im), nil
	})
	p.notifyStage(ctx, upload.Filename, StageEnhanced, start)

	// Background removal. A capability failure is soft: the opaque image
	// carries forward, already in an alpha-bearing mode.
	if p.opts.BackgroundRemoval && p.remover != nil {
		img, meta.BackgroundRemoved = attempt(StageBackgroundProcessed, img, func(im *image.NRGBA) (*image.NRGBA, error) {
			cut, err := p.remover.Remove(ctx, im)
			if err != nil {
				return nil, err
			}
			return imaging.Clone(cut), nil
		})
	}
	p.notifyStage(ctx, upload.Filename, StageBackgroundProcessed, start)

	// Resize to the target square
	img = p.resizer.Resize(img, p.opts.OutputSize)
	meta.FinalSize = models.Dimensions{Width: p.opts.OutputSize, Height: p.opts.OutputSize}
	p.notifyStage(ctx, upload.Filename, StageResized, start)

	// Soften the cutout edge
	img, _ = attempt("smooth_alpha", img, func(im *image.NRGBA) (*image.NRGBA, error) {
		return enhancer.SmoothAlpha(im, p.opts.AlphaBlurRadius), nil
	})

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		wrapped := apperrors.NewInternalError("failed to encode avatar", err)
		p.notifyFailed(ctx, upload.Filename, start, wrapped)
		return nil, wrapped
	}

	id := uuid.NewString()
	result := &models.Result{
		ID:                id,
		OriginalFilename:  upload.Filename,
		OutputFilename:    fmt.Sprintf("avatar_%s.png", id),
		Metadata:          meta,
		OriginalBytes:     len(upload.Data),
		ProcessedBytes:    buf.Len(),
		ProcessingTimeSec: time.Since(start).Seconds(),
		Timestamp:         start,
		PNG:               buf.Bytes(),
	}

	p.notify(ctx, observer.PipelineEvent{
		EventType:      observer.ProcessingCompleted,
		Timestamp:      time.Now(),
		Filename:       upload.Filename,
		Stage:          StageFinalized,
		ProcessingTime: time.Since(start),
		Success:        true,
		Metadata: map[string]interface{}{
			"face_detected":      meta.FaceDetected,
			"background_removed": meta.BackgroundRemoved,
			"output_size":        p.opts.OutputSize,
		},
	})
	return result, nil
}

// cropStage plans and applies the square crop. When planning or cropping
// fails the original frame carries forward uncropped.
func (p *Pipeline) cropStage(img *image.NRGBA, meta *models.ProcessingMetadata) *image.NRGBA {
	bounds := img.Bounds()

	var faces []image.Rectangle
	if p.opts.AutoCrop && p.detector != nil {
		faces = p.detector.Detect(img)
	}

	var faceFound bool
	out, ok := attempt(StageCropped, img, func(im *image.NRGBA) (*image.NRGBA, error) {
		rect, found := p.planner.Plan(bounds.Dx(), bounds.Dy(), faces)
		if rect.Empty() {
			return nil, fmt.Errorf("crop planning produced an empty rectangle")
		}
		faceFound = found
		return imaging.Crop(im, rect), nil
	})
	meta.Cropped = ok
	// The face flag only counts once the crop has actually landed.
	if ok {
		meta.FaceDetected = faceFound
	}
	return out
}

// attempt runs a stage function against the current image and falls back to
// the input on error or panic. This is the shared soft-failure path for all
// non-fatal stages.
func attempt(stage string, img *image.NRGBA, fn func(*image.NRGBA) (*image.NRGBA, error)) (out *image.NRGBA, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			logger.WithStage(stage).WithField("panic", r).Warn("Stage failed, continuing with previous image")
			out, ok = img, false
		}
	}()

	result, err := fn(img)
	if err != nil {
		logger.WithStage(stage).WithError(err).Warn("Stage failed, continuing with previous image")
		return img, false
	}
	if result == nil {
		return img, false
	}
	return result, true
}

func (p *Pipeline) notify(ctx context.Context, event observer.PipelineEvent) {
	if p.events != nil {
		p.events.NotifyObservers(ctx, event)
	}
}

func (p *Pipeline) notifyStage(ctx context.Context, filename, stage string, start time.Time) {
	p.notify(ctx, observer.PipelineEvent{
		EventType:      observer.StageCompleted,
		Timestamp:      time.Now(),
		Filename:       filename,
		Stage:          stage,
		ProcessingTime: time.Since(start),
		Success:        true,
	})
}

func (p *Pipeline) notifyFailed(ctx context.Context, filename string, start time.Time, err error) {
	p.notify(ctx, observer.PipelineEvent{
		EventType:      observer.ProcessingFailed,
		Timestamp:      time.Now(),
		Filename:       filename,
		ProcessingTime: time.Since(start),
		Success:        false,
		ErrorMessage:   err.Error(),
	})
}
