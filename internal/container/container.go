package container

import (
	"fmt"

	"go-avatar-processor/internal/config"
	"go-avatar-processor/internal/detector"
	"go-avatar-processor/internal/factory"
	"go-avatar-processor/internal/logger"
	"go-avatar-processor/internal/matting"
	"go-avatar-processor/internal/observer"
	"go-avatar-processor/internal/pipeline"
	"go-avatar-processor/internal/service"
	"go-avatar-processor/internal/storage"
	"go-avatar-processor/pkg/validation"
)

// Container holds all application dependencies
type Container struct {
	config        *config.Config
	factory       *factory.ComponentFactory
	faceDetector  detector.FaceDetector
	remover       matting.BackgroundRemover
	events        observer.Subject
	avatarService service.AvatarService
	pool          *service.WorkerPool
}

// NewContainer creates a new dependency injection container
func NewContainer() (*Container, error) {
	// Load configuration
	cfg, err := config.LoadFromEnv()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	componentFactory := factory.NewComponentFactory(cfg)

	// A detector init failure is reported once here; requests degrade to the
	// geometric crop path instead of failing individually.
	faceDetector, err := componentFactory.CreateDetector(factory.HaarDetector)
	if err != nil {
		logger.WithError(err).Warn("Face detection unavailable, falling back to geometric crops")
		faceDetector = detector.NewDisabledDetector()
	}

	var remover matting.BackgroundRemover
	if cfg.BackgroundRemoval {
		remover, err = componentFactory.CreateRemover(factory.HTTPRemover)
		if err != nil {
			logger.WithError(err).Warn("Background removal unavailable, avatars keep their background")
			remover = nil
		}
	}

	events := observer.NewEventPublisher()
	events.Subscribe(observer.NewLoggingObserver(logger.Logger))
	events.Subscribe(observer.NewMetricsObserver())

	pipe := pipeline.New(faceDetector, remover, events, pipeline.Options{
		OutputSize:        cfg.OutputSize,
		AutoCrop:          cfg.AutoCrop,
		BackgroundRemoval: remover != nil,
		AlphaBlurRadius:   pipeline.DefaultOptions().AlphaBlurRadius,
	})

	validator := validation.NewUploadValidator(cfg.MaxUploadSize, cfg.AllowedExtensions)
	pool := service.NewWorkerPool(cfg.MaxWorkers)
	avatarService := service.NewAvatarService(validator, pipe, pool, cfg.ProcessTimeout)

	return &Container{
		config:        cfg,
		factory:       componentFactory,
		faceDetector:  faceDetector,
		remover:       remover,
		events:        events,
		avatarService: avatarService,
		pool:          pool,
	}, nil
}

// Service returns the avatar service
func (c *Container) Service() service.AvatarService {
	return c.avatarService
}

// Config returns the configuration
func (c *Container) Config() *config.Config {
	return c.config
}

// SourceForRef returns a byte source able to fetch the given input reference.
func (c *Container) SourceForRef(ref string) (storage.ByteSource, error) {
	return c.factory.CreateSource(factory.SourceTypeForRef(ref))
}

// Close releases the detector and stops the worker pool.
func (c *Container) Close() error {
	c.pool.Close()
	return c.faceDetector.Close()
}
