package vipsimage

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"media-preview/internal/logging"
	"media-preview/internal/media"
	"media-preview/internal/metrics"

	"github.com/davidbyttow/govips/v2/vips"
	"github.com/disintegration/imaging"

	// Extra codecs for the fallback path
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Decoder loads files with libvips, falling back to the Go image codecs
// when libvips rejects the data.
type Decoder struct{}

var _ media.Decoder = Decoder{}

// Load decodes path without applying EXIF orientation.
func (Decoder) Load(path string, mode media.DecodeMode) (media.Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	format := media.DetectFormat(data)

	params := vips.NewImportParams()
	params.AutoRotate.Set(false)
	if mode == media.DecodeUnlimited {
		// govips has no switch for the loader's unlimited flag. This only
		// tolerates damaged data; very large HEIF images can still hit the
		// libvips pixel limit and fail to load.
		params.FailOnError.Set(false)
	}

	ref, err := vips.LoadImageFromBuffer(data, params)
	if err == nil {
		metrics.DecodeTotal.WithLabelValues(format, "vips").Inc()
		logging.Debug("Loaded %s with vips (%s, %dx%d, %s)", filepath.Base(path), format, ref.Width(), ref.Height(), mode)
		return &Image{ref: ref}, nil
	}

	logging.Debug("vips could not load %s (%v), trying fallback decoder", filepath.Base(path), err)
	ref, fbErr := loadFallback(data)
	if fbErr != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	metrics.DecodeTotal.WithLabelValues(format, "fallback").Inc()
	return &Image{ref: ref}, nil
}

func loadFallback(data []byte) (*vips.ImageRef, error) {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, err
	}
	return vips.NewImageFromBuffer(buf.Bytes())
}
