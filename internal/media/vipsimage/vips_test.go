package vipsimage

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"math"
	"os"
	"path/filepath"
	"testing"

	"media-preview/internal/media"
	"media-preview/internal/pano"

	"github.com/davidbyttow/govips/v2/vips"
)

func TestMain(m *testing.M) {
	InitVips(DefaultConfig())
	code := m.Run()
	ShutdownVips()
	os.Exit(code)
}

func TestJXLDistance(t *testing.T) {
	tests := []struct {
		quality int
		want    float64
	}{
		{100, 0.1},
		{75, 2.35},
		{60, 3.7},
		{30, 6.4},
		{20, 53.0/3000.0*400 - 23.0 + 25},
		{0, 25},
	}

	for _, tt := range tests {
		if got := jxlDistance(tt.quality); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("jxlDistance(%d) = %v, want %v", tt.quality, got, tt.want)
		}
	}
}

const xmpSignature = "http://ns.adobe.com/xap/1.0/\x00"

// exifOrientation6 is a minimal little-endian EXIF block holding only
// Orientation = 6 (rotate 90 CW).
var exifOrientation6 = []byte{
	'E', 'x', 'i', 'f', 0, 0,
	'I', 'I', 0x2A, 0x00, 0x08, 0x00, 0x00, 0x00,
	0x01, 0x00,
	0x12, 0x01, 0x03, 0x00, 0x01, 0x00, 0x00, 0x00, 0x06, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00,
}

// app1 builds a JPEG APP1 marker segment.
func app1(payload []byte) []byte {
	n := len(payload) + 2
	return append([]byte{0xFF, 0xE1, byte(n >> 8), byte(n)}, payload...)
}

func xmpSegment(packet string) []byte {
	return app1([]byte(xmpSignature + packet))
}

// writeJPEG encodes a gradient and splices segments in directly after SOI.
func writeJPEG(t *testing.T, width, height int, segments ...[]byte) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 100, A: 255})
		}
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}); err != nil {
		t.Fatalf("Failed to encode test image: %v", err)
	}
	encoded := buf.Bytes()

	out := append([]byte{}, encoded[:2]...)
	for _, seg := range segments {
		out = append(out, seg...)
	}
	out = append(out, encoded[2:]...)

	path := filepath.Join(t.TempDir(), "test.jpg")
	if err := os.WriteFile(path, out, 0o644); err != nil {
		t.Fatalf("Failed to write test file: %v", err)
	}
	return path
}

func requireJXL(t *testing.T) {
	t.Helper()
	if !IsVipsAvailable() {
		t.Skip("libvips not available")
	}
	if !vips.IsTypeSupported(vips.ImageTypeJXL) {
		t.Skip("libvips built without JPEG XL support")
	}
}

func TestDecoderLoad(t *testing.T) {
	if !IsVipsAvailable() {
		t.Skip("libvips not available")
	}

	path := writeJPEG(t, 320, 160)
	img, err := Decoder{}.Load(path, media.DecodeBounded)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	defer img.Close()

	if img.Width() != 320 || img.Height() != 160 {
		t.Errorf("dimensions = %dx%d, want 320x160", img.Width(), img.Height())
	}
	if _, ok := img.Metadata("xmp-data"); ok {
		t.Error("Metadata(xmp-data) found a packet in a plain JPEG")
	}

	if err := media.ResizeFixed(img, 8, 8); err != nil {
		t.Fatalf("ResizeFixed() error = %v", err)
	}
	if err := img.ToSRGB(); err != nil {
		t.Fatalf("ToSRGB() error = %v", err)
	}
	pix, err := img.Pixels()
	if err != nil {
		t.Fatalf("Pixels() error = %v", err)
	}
	if img.Bands() != 3 {
		t.Errorf("Bands() = %d, want 3", img.Bands())
	}
	if want := 8 * 8 * img.Bands(); len(pix) != want {
		t.Errorf("Pixels() returned %d samples, want %d", len(pix), want)
	}
}

const bareRDF = `<?xpacket begin="" id="W5M0MpCehiHzreSzNTczkc9d"?>
<rdf:RDF xmlns:rdf="http://www.w3.org/1999/02/22-rdf-syntax-ns#">
 <rdf:Description rdf:about="" xmlns:GPano="http://ns.google.com/photos/1.0/panorama/"
   GPano:ProjectionType="equirectangular"/>
</rdf:RDF>
<?xpacket end="w"?>`

func TestMetadataReturnsXMPBlob(t *testing.T) {
	if !IsVipsAvailable() {
		t.Skip("libvips not available")
	}

	path := writeJPEG(t, 200, 100, xmpSegment(bareRDF))
	img, err := Decoder{}.Load(path, media.DecodeBounded)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	defer img.Close()

	blob, ok := img.Metadata("xmp-data")
	if !ok {
		t.Fatal("Metadata(xmp-data) found no packet")
	}
	if proj, err := pano.ProjectionType(blob); err != nil || proj != pano.Equirectangular {
		t.Errorf("ProjectionType() = %q, %v; want %q", proj, err, pano.Equirectangular)
	}
	if !pano.IsSpherical(img) {
		t.Error("IsSpherical() = false for a 2:1 image with GPano XMP")
	}
	if _, ok := img.Metadata("exif-data"); ok {
		t.Error("Metadata(exif-data) exposed a non-XMP field")
	}
}

func TestAutoRotateAppliesOrientation(t *testing.T) {
	if !IsVipsAvailable() {
		t.Skip("libvips not available")
	}

	path := writeJPEG(t, 64, 32, app1(exifOrientation6))
	loaded, err := Decoder{}.Load(path, media.DecodeBounded)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	defer loaded.Close()

	img := loaded.(*Image)
	if img.ref.GetOrientation() != 6 {
		t.Skip("libvips built without EXIF support")
	}
	if img.Width() != 64 || img.Height() != 32 {
		t.Fatalf("Load() applied orientation: %dx%d", img.Width(), img.Height())
	}

	if err := img.AutoRotate(); err != nil {
		t.Fatalf("AutoRotate() error = %v", err)
	}
	if img.Width() != 32 || img.Height() != 64 {
		t.Errorf("after AutoRotate() = %dx%d, want 32x64", img.Width(), img.Height())
	}
}

func TestSaveJXLStripsMetadata(t *testing.T) {
	requireJXL(t)

	path := writeJPEG(t, 64, 32, xmpSegment(bareRDF))
	img, err := Decoder{}.Load(path, media.DecodeBounded)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	defer img.Close()

	out := filepath.Join(t.TempDir(), "out.o.jxl")
	n, err := img.SaveJXL(out, 75, 4)
	if err != nil {
		t.Fatalf("SaveJXL() error = %v", err)
	}
	info, err := os.Stat(out)
	if err != nil {
		t.Fatalf("SaveJXL() wrote nothing: %v", err)
	}
	if n <= 0 || info.Size() != int64(n) {
		t.Errorf("SaveJXL() = %d bytes, file has %d", n, info.Size())
	}

	if _, ok := img.Metadata("xmp-data"); !ok {
		t.Error("SaveJXL() stripped metadata from the working image")
	}

	saved, err := Decoder{}.Load(out, media.DecodeBounded)
	if err != nil {
		t.Fatalf("Load(saved) error = %v", err)
	}
	defer saved.Close()
	if saved.Width() != 64 || saved.Height() != 32 {
		t.Errorf("saved dimensions = %dx%d, want 64x32", saved.Width(), saved.Height())
	}
	if _, ok := saved.Metadata("xmp-data"); ok {
		t.Error("saved derivative still carries XMP")
	}
}

func TestDecoderLoadMissingFile(t *testing.T) {
	_, err := Decoder{}.Load(filepath.Join(t.TempDir(), "missing.jpg"), media.DecodeBounded)
	if err == nil {
		t.Error("Load() expected error for missing file")
	}
}

func TestDecoderLoadGarbage(t *testing.T) {
	if !IsVipsAvailable() {
		t.Skip("libvips not available")
	}

	path := filepath.Join(t.TempDir(), "junk.jpg")
	if err := os.WriteFile(path, []byte("not an image"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := (Decoder{}).Load(path, media.DecodeUnlimited); err == nil {
		t.Error("Load() expected error for undecodable data")
	}
}

func TestInitVipsIdempotent(t *testing.T) {
	InitVips(DefaultConfig())
	if !IsVipsAvailable() {
		t.Error("IsVipsAvailable() = false after InitVips")
	}
}
