package storage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"time"

	"go-avatar-processor/pkg/models"
)

// HTTPSource downloads upload bytes from a URL.
type HTTPSource struct {
	client *http.Client
}

// NewHTTPSource creates an HTTP source tuned for single image downloads.
func NewHTTPSource() *HTTPSource {
	transport := &http.Transport{
		// Connection pooling sized for one-off image fetches
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 2,
		IdleConnTimeout:     30 * time.Second,

		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: 10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,

		MaxResponseHeaderBytes: 4096,
	}

	return &HTTPSource{
		client: &http.Client{
			Transport: transport,
			Timeout:   30 * time.Second,

			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("too many redirects (limit: 3)")
				}
				return nil
			},
		},
	}
}

// Fetch downloads the image bytes. Server errors are retried up to three
// times; client errors fail immediately.
func (s *HTTPSource) Fetch(ctx context.Context, ref string) (*models.RawUpload, error) {
	parsed, err := url.Parse(ref)
	if err != nil {
		return nil, fmt.Errorf("invalid URL: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(time.Duration(attempt) * time.Second):
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, ref, nil)
		if err != nil {
			return nil, fmt.Errorf("invalid URL: %w", err)
		}
		req.Header.Set("Accept", "image/jpeg, image/png, image/webp, */*")
		req.Header.Set("User-Agent", "Go-Avatar-Processor/1.0")

		resp, err := s.client.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		data, retryable, err := readBody(resp)
		if err == nil {
			return &models.RawUpload{
				Data:          data,
				Filename:      path.Base(parsed.Path),
				ContentLength: resp.ContentLength,
			}, nil
		}
		lastErr = err
		if !retryable {
			break
		}
	}
	return nil, fmt.Errorf("failed to fetch image after retries: %w", lastErr)
}

func readBody(resp *http.Response) ([]byte, bool, error) {
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, true, fmt.Errorf("failed to read response body: %w", err)
		}
		return data, false, nil
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		return nil, false, fmt.Errorf("client error: status code %d", resp.StatusCode)
	default:
		return nil, true, fmt.Errorf("server error: status code %d", resp.StatusCode)
	}
}
