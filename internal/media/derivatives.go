package media

import (
	"fmt"
	"math"
	"time"

	"media-preview/internal/fingerprint"
	"media-preview/internal/logging"
	"media-preview/internal/metrics"
)

// Tier is one derivative: an optional bounding box and encoder settings.
// A zero MaxWidth or MaxHeight leaves the image at its current size.
type Tier struct {
	Suffix    string
	MaxWidth  int
	MaxHeight int
	Quality   int
	Effort    int
}

// DefaultTiers are written to <prefix>.o.jxl, <prefix>.h.jxl and <prefix>.s.jxl.
var DefaultTiers = []Tier{
	{Suffix: "o", Quality: 75, Effort: 4},
	{Suffix: "h", MaxWidth: 2048, MaxHeight: 2048, Quality: 60, Effort: 5},
	{Suffix: "s", MaxWidth: 400, MaxHeight: 200, Quality: 20, Effort: 5},
}

// Path returns the output file for the tier under prefix.
func (t Tier) Path(prefix string) string {
	return fmt.Sprintf("%s.%s.jxl", prefix, t.Suffix)
}

// FitScale returns the uniform factor that fits width x height inside
// maxW x maxH.
func FitScale(width, height, maxW, maxH int) float64 {
	return math.Min(float64(maxW)/float64(width), float64(maxH)/float64(height))
}

// ResizeToFit shrinks img uniformly to fit inside maxW x maxH. Images that
// already fit are left untouched. It reports whether a resize happened.
func ResizeToFit(img Image, maxW, maxH int) (bool, error) {
	scale := FitScale(img.Width(), img.Height(), maxW, maxH)
	if scale >= 1 {
		return false, nil
	}
	if err := img.Resize(scale, scale); err != nil {
		return false, fmt.Errorf("resize to fit %dx%d failed: %w", maxW, maxH, err)
	}
	return true, nil
}

// ResizeFixed scales img to width x height with independent horizontal and
// vertical factors. The aspect ratio is not preserved.
func ResizeFixed(img Image, width, height int) error {
	hscale := float64(width) / float64(img.Width())
	vscale := float64(height) / float64(img.Height())
	if err := img.Resize(hscale, vscale); err != nil {
		return fmt.Errorf("fixed resize to %dx%d failed: %w", width, height, err)
	}
	return nil
}

// Generator writes derivative tiers.
type Generator struct {
	Tiers []Tier
	Log   *logging.JobLogger
}

// NewGenerator returns a Generator for DefaultTiers.
func NewGenerator(log *logging.JobLogger) *Generator {
	return &Generator{Tiers: DefaultTiers, Log: log}
}

// Generate encodes every tier of img under prefix, then reduces img to a
// gridSize x gridSize sRGB grid and returns its pixels. img is consumed:
// on return it holds the grid, not the source.
func (g *Generator) Generate(img Image, prefix string, gridSize int) (fingerprint.Grid, error) {
	start := time.Now()
	for _, tier := range g.Tiers {
		if tier.MaxWidth > 0 && tier.MaxHeight > 0 {
			if _, err := ResizeToFit(img, tier.MaxWidth, tier.MaxHeight); err != nil {
				return fingerprint.Grid{}, fmt.Errorf("tier %s: %w", tier.Suffix, err)
			}
		}

		path := tier.Path(prefix)
		n, err := img.SaveJXL(path, tier.Quality, tier.Effort)
		if err != nil {
			return fingerprint.Grid{}, fmt.Errorf("tier %s: encode %s failed: %w", tier.Suffix, path, err)
		}
		metrics.DerivativeBytes.WithLabelValues(tier.Suffix).Observe(float64(n))
		if g.Log != nil {
			g.Log.Debug("Wrote %s (%dx%d, Q%d, %d bytes)", path, img.Width(), img.Height(), tier.Quality, n)
		}
	}
	metrics.StageDuration.WithLabelValues("derivatives").Observe(time.Since(start).Seconds())

	start = time.Now()
	defer func() {
		metrics.StageDuration.WithLabelValues("fingerprint").Observe(time.Since(start).Seconds())
	}()

	if err := ResizeFixed(img, gridSize, gridSize); err != nil {
		return fingerprint.Grid{}, err
	}
	if err := img.ToSRGB(); err != nil {
		return fingerprint.Grid{}, fmt.Errorf("srgb conversion failed: %w", err)
	}
	pix, err := img.Pixels()
	if err != nil {
		return fingerprint.Grid{}, fmt.Errorf("reading grid pixels failed: %w", err)
	}

	return fingerprint.Grid{
		Width:  img.Width(),
		Height: img.Height(),
		Bands:  img.Bands(),
		Pix:    pix,
	}, nil
}
