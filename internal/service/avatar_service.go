package service

import (
	"context"
	"strings"
	"sync"
	"time"

	apperrors "go-avatar-processor/internal/errors"
	"go-avatar-processor/internal/logger"
	"go-avatar-processor/internal/pipeline"
	"go-avatar-processor/pkg/models"
	"go-avatar-processor/pkg/validation"
)

// AvatarService validates uploads and runs them through the avatar pipeline.
type AvatarService interface {
	// CreateAvatar processes a single upload.
	CreateAvatar(ctx context.Context, upload models.RawUpload) (*models.Result, error)

	// CreateAvatars processes a batch, one independent pipeline invocation
	// per worker. Results keep the input order.
	CreateAvatars(ctx context.Context, uploads []models.RawUpload) []BatchItem

	// ValidateUpload checks an upload without processing it.
	ValidateUpload(upload models.RawUpload) validation.ValidationResult
}

// BatchItem pairs one batch input with its outcome.
type BatchItem struct {
	Filename string
	Result   *models.Result
	Err      error
}

type avatarService struct {
	validator *validation.UploadValidator
	pipe      *pipeline.Pipeline
	pool      *WorkerPool
	timeout   time.Duration
}

// NewAvatarService creates the avatar service. A positive timeout bounds each
// invocation; the pipeline itself carries no internal deadlines.
func NewAvatarService(validator *validation.UploadValidator, pipe *pipeline.Pipeline, pool *WorkerPool, timeout time.Duration) AvatarService {
	if pool != nil {
		pool.Start()
	}
	return &avatarService{
		validator: validator,
		pipe:      pipe,
		pool:      pool,
		timeout:   timeout,
	}
}

func (s *avatarService) ValidateUpload(upload models.RawUpload) validation.ValidationResult {
	return s.validator.Validate(upload)
}

func (s *avatarService) CreateAvatar(ctx context.Context, upload models.RawUpload) (*models.Result, error) {
	if check := s.validator.Validate(upload); !check.Valid {
		logger.WithUpload(upload.Filename).WithField("errors", check.Errors).Warn("Upload rejected by validation")
		return nil, apperrors.NewValidationError(strings.Join(check.Errors, "; "), nil)
	}
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	return s.pipe.Process(ctx, upload)
}

func (s *avatarService) CreateAvatars(ctx context.Context, uploads []models.RawUpload) []BatchItem {
	items := make([]BatchItem, len(uploads))
	var wg sync.WaitGroup

	for i, upload := range uploads {
		i, upload := i, upload
		wg.Add(1)
		job := func() {
			defer wg.Done()
			result, err := s.CreateAvatar(ctx, upload)
			items[i] = BatchItem{Filename: upload.Filename, Result: result, Err: err}
		}
		if s.pool != nil {
			s.pool.Submit(job)
		} else {
			job()
		}
	}

	wg.Wait()
	return items
}
