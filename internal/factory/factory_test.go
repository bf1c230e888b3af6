package factory

import (
	"testing"
	"time"

	"go-avatar-processor/internal/config"
)

func testConfig() *config.Config {
	return &config.Config{
		OutputSize:        512,
		BackgroundRemoval: true,
		AutoCrop:          true,
		MaxUploadSize:     10 * 1024 * 1024,
		AllowedExtensions: []string{"jpg", "png"},
		FaceCascadePath:   "models/haarcascade_frontalface_default.xml",
		MattingTimeout:    30 * time.Second,
		ProcessTimeout:    60 * time.Second,
	}
}

func TestCreateDetector_Disabled(t *testing.T) {
	f := NewComponentFactory(testConfig())

	det, err := f.CreateDetector(DisabledDetector)
	if err != nil {
		t.Fatalf("Expected disabled detector, got %v", err)
	}
	if faces := det.Detect(nil); faces != nil {
		t.Errorf("Expected no faces from disabled detector, got %v", faces)
	}
}

func TestCreateDetector_Unsupported(t *testing.T) {
	f := NewComponentFactory(testConfig())

	if _, err := f.CreateDetector("neural"); err == nil {
		t.Error("Expected error for unsupported detector type")
	}
}

func TestCreateRemover(t *testing.T) {
	cfg := testConfig()
	cfg.MattingEndpoint = "http://localhost:7000/remove"
	f := NewComponentFactory(cfg)

	remover, err := f.CreateRemover(HTTPRemover)
	if err != nil {
		t.Fatalf("Expected HTTP remover, got %v", err)
	}
	if remover == nil {
		t.Error("Expected a remover instance")
	}
}

func TestCreateRemover_MissingEndpoint(t *testing.T) {
	f := NewComponentFactory(testConfig())

	if _, err := f.CreateRemover(HTTPRemover); err == nil {
		t.Error("Expected error without a matting endpoint")
	}
}

func TestCreateRemover_None(t *testing.T) {
	f := NewComponentFactory(testConfig())

	remover, err := f.CreateRemover(NoRemover)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if remover != nil {
		t.Error("Expected nil remover for the none type")
	}
}

func TestCreateSource(t *testing.T) {
	f := NewComponentFactory(testConfig())

	for _, sourceType := range []SourceType{FileSource, HTTPSource} {
		if _, err := f.CreateSource(sourceType); err != nil {
			t.Errorf("Expected %s source, got %v", sourceType, err)
		}
	}

	if _, err := f.CreateSource(AzureSource); err == nil {
		t.Error("Expected error without azure credentials")
	}
	if _, err := f.CreateSource("ftp"); err == nil {
		t.Error("Expected error for unsupported source type")
	}
}

func TestSourceTypeForRef(t *testing.T) {
	testCases := []struct {
		ref  string
		want SourceType
	}{
		{"http://example.com/a.png", HTTPSource},
		{"https://example.com/a.png", HTTPSource},
		{"azure://avatars/input/a.png", AzureSource},
		{"/tmp/a.png", FileSource},
		{"relative/a.png", FileSource},
	}

	for _, tc := range testCases {
		if got := SourceTypeForRef(tc.ref); got != tc.want {
			t.Errorf("SourceTypeForRef(%q) = %s, want %s", tc.ref, got, tc.want)
		}
	}
}
