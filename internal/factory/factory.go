package factory

import (
	"fmt"
	"strings"

	"go-avatar-processor/internal/config"
	"go-avatar-processor/internal/detector"
	"go-avatar-processor/internal/matting"
	"go-avatar-processor/internal/storage"
)

// DetectorType represents different face detection backends
type DetectorType string

const (
	// HaarDetector uses an OpenCV cascade classifier
	HaarDetector DetectorType = "haar"
	// DisabledDetector never reports faces
	DisabledDetector DetectorType = "disabled"
)

// RemoverType represents different background removal backends
type RemoverType string

const (
	// HTTPRemover delegates matting to a remote endpoint
	HTTPRemover RemoverType = "http"
	// NoRemover disables background removal
	NoRemover RemoverType = "none"
)

// SourceType represents different input byte sources
type SourceType string

const (
	// FileSource reads from the local filesystem
	FileSource SourceType = "file"
	// HTTPSource downloads over HTTP
	HTTPSource SourceType = "http"
	// AzureSource downloads from Azure blob storage
	AzureSource SourceType = "azure"
)

// ComponentFactory creates the swappable pipeline collaborators.
type ComponentFactory struct {
	cfg *config.Config
}

// NewComponentFactory creates a new component factory
func NewComponentFactory(cfg *config.Config) *ComponentFactory {
	return &ComponentFactory{cfg: cfg}
}

// CreateDetector creates a face detector of the specified type
func (f *ComponentFactory) CreateDetector(detectorType DetectorType) (detector.FaceDetector, error) {
	switch detectorType {
	case HaarDetector:
		return detector.NewHaarDetector(f.cfg.FaceCascadePath)
	case DisabledDetector:
		return detector.NewDisabledDetector(), nil
	default:
		return nil, fmt.Errorf("unsupported detector type: %s", detectorType)
	}
}

// CreateRemover creates a background remover of the specified type. NoRemover
// yields nil, which the pipeline treats as removal being turned off.
func (f *ComponentFactory) CreateRemover(removerType RemoverType) (matting.BackgroundRemover, error) {
	switch removerType {
	case HTTPRemover:
		if f.cfg.MattingEndpoint == "" {
			return nil, fmt.Errorf("matting endpoint not configured")
		}
		return matting.NewHTTPRemover(f.cfg.MattingEndpoint, f.cfg.MattingTimeout), nil
	case NoRemover:
		return nil, nil
	default:
		return nil, fmt.Errorf("unsupported remover type: %s", removerType)
	}
}

// CreateSource creates an input byte source of the specified type
func (f *ComponentFactory) CreateSource(sourceType SourceType) (storage.ByteSource, error) {
	switch sourceType {
	case FileSource:
		return storage.NewFileSource(), nil
	case HTTPSource:
		return storage.NewHTTPSource(), nil
	case AzureSource:
		if f.cfg.AzureAccountName == "" || f.cfg.AzureAccountKey == "" {
			return nil, fmt.Errorf("azure storage credentials not configured")
		}
		return storage.NewAzureSource(f.cfg.AzureAccountName, f.cfg.AzureAccountKey)
	default:
		return nil, fmt.Errorf("unsupported source type: %s", sourceType)
	}
}

// SourceTypeForRef infers the source type from an input reference.
func SourceTypeForRef(ref string) SourceType {
	switch {
	case strings.HasPrefix(ref, "http://"), strings.HasPrefix(ref, "https://"):
		return HTTPSource
	case strings.HasPrefix(ref, "azure://"):
		return AzureSource
	default:
		return FileSource
	}
}
