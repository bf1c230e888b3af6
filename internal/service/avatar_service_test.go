package service

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"go-avatar-processor/internal/detector"
	apperrors "go-avatar-processor/internal/errors"
	"go-avatar-processor/internal/pipeline"
	"go-avatar-processor/pkg/models"
	"go-avatar-processor/pkg/validation"
)

func testService(t *testing.T, pool *WorkerPool) AvatarService {
	t.Helper()
	validator := validation.NewUploadValidator(10*1024*1024, []string{"jpg", "jpeg", "png", "webp"})
	pipe := pipeline.New(detector.NewDisabledDetector(), nil, nil, pipeline.Options{
		OutputSize:      64,
		AutoCrop:        true,
		AlphaBlurRadius: 0.5,
	})
	return NewAvatarService(validator, pipe, pool, time.Minute)
}

func pngUpload(t *testing.T, filename string, width, height int) models.RawUpload {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("Failed to encode test image: %v", err)
	}
	return models.RawUpload{Data: buf.Bytes(), Filename: filename, ContentLength: int64(buf.Len())}
}

func TestCreateAvatar_Success(t *testing.T) {
	svc := testService(t, nil)

	result, err := svc.CreateAvatar(context.Background(), pngUpload(t, "me.png", 200, 300))
	if err != nil {
		t.Fatalf("Expected avatar, got %v", err)
	}
	if result.Metadata.FinalSize.Width != 64 {
		t.Errorf("Expected 64px avatar, got %d", result.Metadata.FinalSize.Width)
	}
	if len(result.PNG) == 0 {
		t.Error("Expected PNG bytes in result")
	}
}

func TestCreateAvatar_RejectsInvalidUpload(t *testing.T) {
	svc := testService(t, nil)

	upload := models.RawUpload{Data: []byte("plain text"), Filename: "notes.txt"}
	result, err := svc.CreateAvatar(context.Background(), upload)

	if err == nil {
		t.Fatal("Expected validation error")
	}
	if result != nil {
		t.Error("Expected nil result for rejected upload")
	}
	if !apperrors.IsType(err, apperrors.ErrorTypeValidation) {
		t.Errorf("Expected validation error type, got %v", err)
	}
}

func TestCreateAvatars_PreservesOrder(t *testing.T) {
	pool := NewWorkerPool(4)
	defer pool.Close()
	svc := testService(t, pool)

	uploads := []models.RawUpload{
		pngUpload(t, "first.png", 150, 150),
		{Data: []byte("broken"), Filename: "second.png"},
		pngUpload(t, "third.png", 300, 200),
	}

	items := svc.CreateAvatars(context.Background(), uploads)

	if len(items) != 3 {
		t.Fatalf("Expected 3 items, got %d", len(items))
	}
	wantNames := []string{"first.png", "second.png", "third.png"}
	for i, item := range items {
		if item.Filename != wantNames[i] {
			t.Errorf("Expected item %d to be %s, got %s", i, wantNames[i], item.Filename)
		}
	}
	if items[0].Err != nil {
		t.Errorf("Expected first item to succeed, got %v", items[0].Err)
	}
	if items[1].Err == nil {
		t.Error("Expected second item to fail")
	}
	if items[2].Err != nil {
		t.Errorf("Expected third item to succeed, got %v", items[2].Err)
	}
}

func TestCreateAvatars_WithoutPoolRunsInline(t *testing.T) {
	svc := testService(t, nil)

	items := svc.CreateAvatars(context.Background(), []models.RawUpload{
		pngUpload(t, "one.png", 120, 120),
		pngUpload(t, "two.png", 120, 120),
	})

	if len(items) != 2 {
		t.Fatalf("Expected 2 items, got %d", len(items))
	}
	for _, item := range items {
		if item.Err != nil {
			t.Errorf("Expected %s to succeed, got %v", item.Filename, item.Err)
		}
	}
}

func TestCreateAvatars_EmptyBatch(t *testing.T) {
	svc := testService(t, nil)

	items := svc.CreateAvatars(context.Background(), nil)
	if len(items) != 0 {
		t.Errorf("Expected empty result for empty batch, got %d items", len(items))
	}
}

func TestValidateUpload(t *testing.T) {
	svc := testService(t, nil)

	check := svc.ValidateUpload(pngUpload(t, "me.png", 200, 200))
	if !check.Valid {
		t.Errorf("Expected valid upload, got errors: %v", check.Errors)
	}

	check = svc.ValidateUpload(models.RawUpload{Filename: "empty.png"})
	if check.Valid {
		t.Error("Expected empty upload to be invalid")
	}
}

func TestWorkerPool_RunsSubmittedJobs(t *testing.T) {
	pool := NewWorkerPool(2)
	pool.Start()
	defer pool.Close()

	var counter int64
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		pool.Submit(func() {
			defer wg.Done()
			atomic.AddInt64(&counter, 1)
		})
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Timed out waiting for jobs")
	}
	if got := atomic.LoadInt64(&counter); got != 10 {
		t.Errorf("Expected 10 jobs to run, got %d", got)
	}
}

func TestWorkerPool_DefaultsWorkerCount(t *testing.T) {
	pool := NewWorkerPool(0)
	defer pool.Close()

	if pool.workers <= 0 {
		t.Errorf("Expected positive worker count, got %d", pool.workers)
	}
}
