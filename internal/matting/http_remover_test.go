package matting

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func cutoutPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 50, 50))
	for y := 0; y < 50; y++ {
		for x := 0; x < 50; x++ {
			a := uint8(255)
			if x < 10 {
				a = 0
			}
			img.SetNRGBA(x, y, color.NRGBA{R: 200, G: 180, B: 160, A: a})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("Failed to encode cutout: %v", err)
	}
	return buf.Bytes()
}

func inputImage() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 50, 50))
	for i := 3; i < len(img.Pix); i += 4 {
		img.Pix[i] = 255
	}
	return img
}

func TestRemove_DecodesCutout(t *testing.T) {
	var gotContentType string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		w.Header().Set("Content-Type", "image/png")
		w.Write(cutoutPNG(t))
	}))
	defer server.Close()

	remover := NewHTTPRemover(server.URL, 5*time.Second)
	out, err := remover.Remove(context.Background(), inputImage())
	if err != nil {
		t.Fatalf("Expected cutout, got %v", err)
	}

	if gotContentType != "image/png" {
		t.Errorf("Expected PNG payload, got content type %s", gotContentType)
	}
	if out.Bounds().Dx() != 50 || out.Bounds().Dy() != 50 {
		t.Errorf("Expected 50x50 cutout, got %v", out.Bounds())
	}
	if opaque, ok := out.(interface{ Opaque() bool }); ok && opaque.Opaque() {
		t.Error("Expected cutout to carry transparency")
	}
}

func TestRemove_RetriesServerErrors(t *testing.T) {
	var calls int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt64(&calls, 1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write(cutoutPNG(t))
	}))
	defer server.Close()

	remover := NewHTTPRemover(server.URL, 5*time.Second)
	if _, err := remover.Remove(context.Background(), inputImage()); err != nil {
		t.Fatalf("Expected retry to succeed, got %v", err)
	}
	if atomic.LoadInt64(&calls) != 2 {
		t.Errorf("Expected 2 requests, got %d", calls)
	}
}

func TestRemove_ClientErrorFailsFast(t *testing.T) {
	var calls int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&calls, 1)
		w.WriteHeader(http.StatusUnprocessableEntity)
	}))
	defer server.Close()

	remover := NewHTTPRemover(server.URL, 5*time.Second)
	if _, err := remover.Remove(context.Background(), inputImage()); err == nil {
		t.Fatal("Expected error for client error response")
	}
	if atomic.LoadInt64(&calls) != 1 {
		t.Errorf("Expected a single request, got %d", calls)
	}
}

func TestRemove_UndecodableResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("this is not a png"))
	}))
	defer server.Close()

	remover := NewHTTPRemover(server.URL, 5*time.Second)
	if _, err := remover.Remove(context.Background(), inputImage()); err == nil {
		t.Fatal("Expected error for undecodable response body")
	}
}
