package media

// DecodeMode selects the decoder's safety limits.
type DecodeMode int

const (
	// DecodeBounded applies the image library's default limits.
	DecodeBounded DecodeMode = iota
	// DecodeUnlimited tolerates very large pixel counts (HEIF/HEIC sources).
	DecodeUnlimited
)

// String returns the mode name used in logs.
func (m DecodeMode) String() string {
	if m == DecodeUnlimited {
		return "unlimited"
	}
	return "bounded"
}

// Image is an owned, decoded pixel buffer. Transforms modify the handle in
// place; callers re-read Width and Height after each one.
type Image interface {
	Width() int
	Height() int
	Bands() int

	// Metadata returns the raw metadata block stored under the image
	// library's field name (for example "xmp-data").
	Metadata(field string) ([]byte, bool)

	// AutoRotate applies the embedded EXIF orientation.
	AutoRotate() error

	// Resize scales by hscale horizontally and vscale vertically.
	Resize(hscale, vscale float64) error

	// ToSRGB converts the pixels to the sRGB colourspace.
	ToSRGB() error

	// SaveJXL writes a lossy JPEG XL file without metadata and returns
	// the number of bytes written.
	SaveJXL(path string, quality, effort int) (int, error)

	// Pixels returns the raw interleaved 8-bit samples, row-major.
	Pixels() ([]byte, error)

	Close()
}

// Decoder opens source files as Images.
type Decoder interface {
	Load(path string, mode DecodeMode) (Image, error)
}
