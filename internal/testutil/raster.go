package testutil

import (
	"errors"
	"image"
	"image/color"
	"math"
	"os"
	"sync"

	"github.com/disintegration/imaging"
)

// SaveCall records one SaveJXL invocation.
type SaveCall struct {
	Path    string
	Width   int
	Height  int
	Quality int
	Effort  int
}

// Raster is an image.NRGBA-backed implementation of media.Image.
// SaveJXL writes a PNG so tests can check that the file exists.
type Raster struct {
	mu sync.Mutex

	img   *image.NRGBA
	bands int

	// Meta is returned by Metadata.
	Meta map[string][]byte
	// RotateOnAuto makes AutoRotate turn the image 90 degrees, as EXIF
	// orientation 6 would.
	RotateOnAuto bool
	// SaveErr, when set, fails every SaveJXL.
	SaveErr error

	AutoRotated bool
	SRGB        bool
	Closed      bool
	Saves       []SaveCall
}

// NewRaster returns a width x height raster filled with c.
func NewRaster(width, height int, c color.Color) *Raster {
	return &Raster{
		img:   imaging.New(width, height, c),
		bands: 3,
		Meta:  map[string][]byte{},
	}
}

// NewGradient returns a raster whose red channel rises left to right and
// green channel rises top to bottom.
func NewGradient(width, height int) *Raster {
	r := NewRaster(width, height, color.Black)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r.img.SetNRGBA(x, y, color.NRGBA{
				R: uint8(x * 255 / max(width-1, 1)),
				G: uint8(y * 255 / max(height-1, 1)),
				B: 128,
				A: 255,
			})
		}
	}
	return r
}

func (r *Raster) Width() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.img.Bounds().Dx()
}

func (r *Raster) Height() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.img.Bounds().Dy()
}

func (r *Raster) Bands() int {
	return r.bands
}

func (r *Raster) Metadata(field string) ([]byte, bool) {
	v, ok := r.Meta[field]
	return v, ok
}

func (r *Raster) AutoRotate() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.AutoRotated = true
	if r.RotateOnAuto {
		r.img = imaging.Rotate270(r.img)
	}
	return nil
}

func (r *Raster) Resize(hscale, vscale float64) error {
	if hscale <= 0 || vscale <= 0 {
		return errors.New("scale must be positive")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	b := r.img.Bounds()
	w := max(int(math.Round(float64(b.Dx())*hscale)), 1)
	h := max(int(math.Round(float64(b.Dy())*vscale)), 1)
	r.img = imaging.Resize(r.img, w, h, imaging.Lanczos)
	return nil
}

func (r *Raster) ToSRGB() error {
	r.SRGB = true
	if r.bands < 3 {
		r.bands = 3
	}
	return nil
}

func (r *Raster) SaveJXL(path string, quality, effort int) (int, error) {
	if r.SaveErr != nil {
		return 0, r.SaveErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	f, err := os.Create(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	if err := imaging.Encode(f, r.img, imaging.PNG); err != nil {
		return 0, err
	}
	info, err := f.Stat()
	if err != nil {
		return 0, err
	}

	b := r.img.Bounds()
	r.Saves = append(r.Saves, SaveCall{Path: path, Width: b.Dx(), Height: b.Dy(), Quality: quality, Effort: effort})
	return int(info.Size()), nil
}

// Pixels returns interleaved samples with Bands() channels per pixel.
func (r *Raster) Pixels() ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	b := r.img.Bounds()
	out := make([]byte, 0, b.Dx()*b.Dy()*r.bands)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := r.img.NRGBAAt(x, y)
			switch r.bands {
			case 1:
				out = append(out, c.R)
			case 2:
				out = append(out, c.R, c.A)
			case 3:
				out = append(out, c.R, c.G, c.B)
			default:
				out = append(out, c.R, c.G, c.B, c.A)
			}
		}
	}
	return out, nil
}

func (r *Raster) Close() {
	r.Closed = true
}
