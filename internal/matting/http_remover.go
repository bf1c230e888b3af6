package matting

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"net/http"
	"time"
)

// HTTPRemover sends the image to a rembg-compatible matting endpoint and
// decodes the returned cutout. The endpoint receives a PNG body and responds
// with a PNG carrying the subject alpha.
type HTTPRemover struct {
	client   *http.Client
	endpoint string
}

// NewHTTPRemover creates a matting client for the given endpoint.
func NewHTTPRemover(endpoint string, timeout time.Duration) *HTTPRemover {
	// Transport tuned for one-shot image round trips
	transport := &http.Transport{
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 2,
		IdleConnTimeout:     30 * time.Second,

		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: timeout,
		ExpectContinueTimeout: 1 * time.Second,
	}

	return &HTTPRemover{
		endpoint: endpoint,
		client: &http.Client{
			Transport: transport,
			Timeout:   timeout,
		},
	}
}

// Remove posts the image to the matting endpoint. Server errors are retried
// up to three times; client errors are not.
func (r *HTTPRemover) Remove(ctx context.Context, img image.Image) (image.Image, error) {
	var payload bytes.Buffer
	if err := png.Encode(&payload, img); err != nil {
		return nil, fmt.Errorf("failed to encode matting payload: %w", err)
	}
	body := payload.Bytes()

	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(time.Duration(attempt) * time.Second):
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint, bytes.NewReader(body))
		if err != nil {
			return nil, fmt.Errorf("invalid matting endpoint: %w", err)
		}
		req.Header.Set("Content-Type", "image/png")
		req.Header.Set("Accept", "image/png")

		resp, err := r.client.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		result, retryable, err := decodeResponse(resp)
		if err == nil {
			return result, nil
		}
		lastErr = err
		if !retryable {
			break
		}
	}
	return nil, fmt.Errorf("background removal failed after retries: %w", lastErr)
}

func decodeResponse(resp *http.Response) (image.Image, bool, error) {
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		result, _, err := image.Decode(resp.Body)
		if err != nil {
			return nil, false, fmt.Errorf("failed to decode matting response: %w", err)
		}
		return result, false, nil
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		return nil, false, fmt.Errorf("matting client error: status code %d", resp.StatusCode)
	default:
		return nil, true, fmt.Errorf("matting server error: status code %d", resp.StatusCode)
	}
}
