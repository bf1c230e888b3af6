package loader

import (
	"bytes"
	"image"
	_ "image/jpeg"
	_ "image/png"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"

	apperrors "go-avatar-processor/internal/errors"
)

// Decoded is the in-memory pixel image handed to the pipeline. Pixels are
// normalized to NRGBA; HasAlpha records whether the source carried its own
// alpha channel (otherwise the image is treated as plain RGB).
type Decoded struct {
	Image    *image.NRGBA
	HasAlpha bool
	Format   string
}

// Width returns the image width in pixels.
func (d *Decoded) Width() int { return d.Image.Bounds().Dx() }

// Height returns the image height in pixels.
func (d *Decoded) Height() int { return d.Image.Bounds().Dy() }

// Load decodes and validates a raw byte stream. The stream is verified with a
// header-only decode first, then fully re-decoded from a fresh reader, since a
// verified reader cannot be reused for pixel decoding. Fails with an
// invalid_image error for anything that is not a decodable image.
func Load(data []byte) (*Decoded, error) {
	if len(data) == 0 {
		return nil, apperrors.NewInvalidImageError("empty image data", nil)
	}

	// Integrity check on the header before committing to a full decode
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, apperrors.NewInvalidImageError("unrecognized image format", err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, apperrors.NewInvalidImageError("image has invalid dimensions", nil)
	}

	// Full decode from a fresh reader
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, apperrors.NewInvalidImageError("corrupt image data", err)
	}

	bounds := img.Bounds()
	if bounds.Dx() <= 0 || bounds.Dy() <= 0 {
		return nil, apperrors.NewInvalidImageError("decoded image is empty", nil)
	}

	return &Decoded{
		Image:    imaging.Clone(img),
		HasAlpha: hasAlphaChannel(img),
		Format:   format,
	}, nil
}

// hasAlphaChannel reports whether the decoded image carries transparency of
// its own. Opaque sources are treated as RGB regardless of their pixel layout.
func hasAlphaChannel(img image.Image) bool {
	type opaquer interface{ Opaque() bool }
	if o, ok := img.(opaquer); ok {
		return !o.Opaque()
	}
	return false
}
