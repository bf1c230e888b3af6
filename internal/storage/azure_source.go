package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"

	"go-avatar-processor/pkg/models"
)

// AzureSource downloads upload bytes from Azure blob storage. References use
// the form azure://<container>/<blob path>.
type AzureSource struct {
	client *azblob.Client
}

// NewAzureSource creates an Azure blob source with shared key credentials.
func NewAzureSource(accountName, accountKey string) (*AzureSource, error) {
	credential, err := azblob.NewSharedKeyCredential(accountName, accountKey)
	if err != nil {
		return nil, err
	}

	client, err := azblob.NewClientWithSharedKeyCredential(
		fmt.Sprintf("https://%s.blob.core.windows.net", accountName),
		credential,
		nil,
	)
	if err != nil {
		return nil, err
	}

	return &AzureSource{client: client}, nil
}

// Fetch downloads the referenced blob.
func (s *AzureSource) Fetch(ctx context.Context, ref string) (*models.RawUpload, error) {
	parsed, err := url.Parse(ref)
	if err != nil {
		return nil, fmt.Errorf("invalid blob reference: %w", err)
	}
	container := parsed.Host
	blobName := strings.TrimPrefix(parsed.Path, "/")
	if container == "" || blobName == "" {
		return nil, fmt.Errorf("blob reference must look like azure://container/blob (got %q)", ref)
	}

	downloadResponse, err := s.client.DownloadStream(ctx, container, blobName, nil)
	if err != nil {
		return nil, fmt.Errorf("download failed: %w", err)
	}

	retryReader := downloadResponse.Body
	defer retryReader.Close()

	data, err := io.ReadAll(retryReader)
	if err != nil {
		return nil, fmt.Errorf("failed to read blob: %w", err)
	}

	return &models.RawUpload{
		Data:          data,
		Filename:      path.Base(blobName),
		ContentLength: int64(len(data)),
	}, nil
}
