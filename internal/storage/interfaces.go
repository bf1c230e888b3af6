package storage

import (
	"context"

	"go-avatar-processor/pkg/models"
)

// ByteSource fetches raw upload bytes from some location. Sources only
// acquire input; they never decode and never persist results.
type ByteSource interface {
	Fetch(ctx context.Context, ref string) (*models.RawUpload, error)
}
