package validation

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"path"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	_ "golang.org/x/image/webp"

	"go-avatar-processor/pkg/models"
)

// mimeByExtension maps the allowed upload extensions to the content type the
// bytes must actually sniff as.
var mimeByExtension = map[string]string{
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"png":  "image/png",
	"webp": "image/webp",
}

// ValidationResult collects everything learned about an upload before it is
// allowed into the pipeline.
type ValidationResult struct {
	Valid    bool                   `json:"valid"`
	Errors   []string               `json:"errors,omitempty"`
	Warnings []string               `json:"warnings,omitempty"`
	Info     map[string]interface{} `json:"info,omitempty"`
}

// UploadValidator gates pipeline entry: size and extension limits plus
// content sniffing, so a renamed executable never reaches the decoder.
type UploadValidator struct {
	maxSize           int64
	allowedExtensions []string
}

// NewUploadValidator creates a validator with the configured limits.
func NewUploadValidator(maxSize int64, allowedExtensions []string) *UploadValidator {
	return &UploadValidator{
		maxSize:           maxSize,
		allowedExtensions: allowedExtensions,
	}
}

// Validate checks an upload against the configured limits. Errors make the
// upload unacceptable; warnings are advisory only.
func (v *UploadValidator) Validate(upload models.RawUpload) ValidationResult {
	result := ValidationResult{
		Info: map[string]interface{}{},
	}

	if len(upload.Data) == 0 {
		result.Errors = append(result.Errors, "upload is empty")
		return result
	}

	size := int64(len(upload.Data))
	result.Info["file_size"] = size
	if size > v.maxSize {
		result.Errors = append(result.Errors,
			fmt.Sprintf("file too large: %d bytes (max: %d)", size, v.maxSize))
		return result
	}
	if upload.ContentLength > 0 && upload.ContentLength != size {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("declared content length %d does not match received %d bytes", upload.ContentLength, size))
	}

	ext := strings.ToLower(strings.TrimPrefix(path.Ext(upload.Filename), "."))
	if !v.extensionAllowed(ext) {
		result.Errors = append(result.Errors,
			fmt.Sprintf("extension %q not allowed (allowed: %s)", ext, strings.Join(v.allowedExtensions, ", ")))
		return result
	}

	sniffed := mimetype.Detect(upload.Data)
	result.Info["content_type"] = sniffed.String()
	if !v.mimeAllowed(sniffed.String()) {
		result.Errors = append(result.Errors,
			fmt.Sprintf("content type %s is not an accepted image format", sniffed.String()))
		return result
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(upload.Data))
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("invalid image file: %v", err))
		return result
	}
	result.Info["format"] = format
	result.Info["width"] = cfg.Width
	result.Info["height"] = cfg.Height

	if cfg.Width < 100 || cfg.Height < 100 {
		result.Warnings = append(result.Warnings, "image is quite small, quality may be affected")
	}
	if cfg.Height > 0 {
		aspectRatio := float64(cfg.Width) / float64(cfg.Height)
		if aspectRatio > 2 || aspectRatio < 0.5 {
			result.Warnings = append(result.Warnings, "unusual aspect ratio detected")
		}
	}

	result.Valid = true
	return result
}

func (v *UploadValidator) extensionAllowed(ext string) bool {
	for _, allowed := range v.allowedExtensions {
		if ext == allowed {
			return true
		}
	}
	return false
}

func (v *UploadValidator) mimeAllowed(mime string) bool {
	for _, allowed := range v.allowedExtensions {
		if mimeByExtension[allowed] == mime {
			return true
		}
	}
	return false
}
