package vipsimage

import (
	"bytes"
	"fmt"
	"os"
	"slices"

	"media-preview/internal/media"

	"github.com/davidbyttow/govips/v2/vips"
)

// xmpFields are the names libvips stores XMP under, by loader.
var xmpFields = []string{"xmp-data", "xmp"}

// Image wraps a govips ImageRef.
type Image struct {
	ref *vips.ImageRef
}

var _ media.Image = (*Image)(nil)

func (i *Image) Width() int  { return i.ref.Width() }
func (i *Image) Height() int { return i.ref.Height() }
func (i *Image) Bands() int  { return i.ref.Bands() }

// Metadata returns the XMP blob libvips attached under field. Other fields
// are not exposed.
func (i *Image) Metadata(field string) ([]byte, bool) {
	if !slices.Contains(xmpFields, field) {
		return nil, false
	}
	if !slices.Contains(i.ref.ImageFields(), field) {
		return nil, false
	}
	// Some writers NUL-terminate the packet
	blob := bytes.TrimRight(i.ref.GetBlob(field), "\x00")
	return blob, len(blob) > 0
}

func (i *Image) AutoRotate() error {
	return i.ref.AutoRotate()
}

func (i *Image) Resize(hscale, vscale float64) error {
	return i.ref.ResizeWithVScale(hscale, vscale, vips.KernelLanczos3)
}

func (i *Image) ToSRGB() error {
	return i.ref.ToColorSpace(vips.InterpretationSRGB)
}

// SaveJXL encodes a copy of the image so the working handle keeps its
// metadata for later steps.
func (i *Image) SaveJXL(path string, quality, effort int) (int, error) {
	out, err := i.ref.Copy()
	if err != nil {
		return 0, fmt.Errorf("copy failed: %w", err)
	}
	defer out.Close()

	if err := out.RemoveMetadata(); err != nil {
		return 0, fmt.Errorf("strip failed: %w", err)
	}

	buf, _, err := out.ExportJxl(&vips.JxlExportParams{
		Quality:  quality,
		Effort:   effort,
		Distance: jxlDistance(quality),
	})
	if err != nil {
		return 0, fmt.Errorf("jxl export failed: %w", err)
	}
	if err := os.WriteFile(path, buf, 0o644); err != nil {
		return 0, err
	}
	return len(buf), nil
}

// jxlDistance converts a JPEG-style quality to the butteraugli distance
// libjxl expects, using the same curve as cjxl.
func jxlDistance(quality int) float64 {
	q := float64(quality)
	if q >= 30 {
		return 0.1 + (100-q)*0.09
	}
	return 53.0/3000.0*q*q - 23.0/20.0*q + 25.0
}

// Pixels returns the interleaved 8-bit samples, one byte per band.
func (i *Image) Pixels() ([]byte, error) {
	if i.ref.BandFormat() != vips.BandFormatUchar {
		if err := i.ref.Cast(vips.BandFormatUchar); err != nil {
			return nil, fmt.Errorf("cast failed: %w", err)
		}
	}
	buf, err := i.ref.ToBytes()
	if err != nil {
		return nil, err
	}
	if want := i.ref.Width() * i.ref.Height() * i.ref.Bands(); len(buf) != want {
		return nil, fmt.Errorf("got %d bytes of pixel data, want %d", len(buf), want)
	}
	return buf, nil
}

func (i *Image) Close() {
	if i.ref != nil {
		i.ref.Close()
		i.ref = nil
	}
}
