package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go-avatar-processor/pkg/models"
)

// FileSource reads upload bytes from the local filesystem.
type FileSource struct{}

// NewFileSource creates a local file source.
func NewFileSource() *FileSource {
	return &FileSource{}
}

// Fetch reads the file at the given path.
func (s *FileSource) Fetch(ctx context.Context, ref string) (*models.RawUpload, error) {
	data, err := os.ReadFile(ref)
	if err != nil {
		return nil, fmt.Errorf("failed to read input file: %w", err)
	}
	return &models.RawUpload{
		Data:          data,
		Filename:      filepath.Base(ref),
		ContentLength: int64(len(data)),
	}, nil
}
