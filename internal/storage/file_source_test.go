package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestFileSource_Fetch(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "portrait.png")
	content := []byte{0x89, 0x50, 0x4E, 0x47, 0x01, 0x02, 0x03}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("Failed to write test file: %v", err)
	}

	source := NewFileSource()
	upload, err := source.Fetch(context.Background(), path)
	if err != nil {
		t.Fatalf("Expected fetch to succeed, got %v", err)
	}

	if upload.Filename != "portrait.png" {
		t.Errorf("Expected base filename, got %s", upload.Filename)
	}
	if len(upload.Data) != len(content) {
		t.Errorf("Expected %d bytes, got %d", len(content), len(upload.Data))
	}
	if upload.ContentLength != int64(len(content)) {
		t.Errorf("Expected content length %d, got %d", len(content), upload.ContentLength)
	}
}

func TestFileSource_MissingFile(t *testing.T) {
	source := NewFileSource()

	upload, err := source.Fetch(context.Background(), filepath.Join(t.TempDir(), "missing.png"))
	if err == nil {
		t.Fatal("Expected error for missing file")
	}
	if upload != nil {
		t.Error("Expected nil upload on failure")
	}
}
