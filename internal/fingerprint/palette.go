package fingerprint

import "encoding/base64"

// PaletteGridSize is the edge length sampled by Palette.
const PaletteGridSize = 8

var (
	redLevels   = [...]int32{0, 51, 102, 153, 204, 255}
	greenLevels = [...]int32{0, 36, 73, 109, 146, 182, 219, 255}
	blueLevels  = [...]int32{0, 64, 128, 192, 255}
)

// paletteColors is red-major, then green, then blue.
var paletteColors = buildPalette()

func buildPalette() [][3]int32 {
	colors := make([][3]int32, 0, len(redLevels)*len(greenLevels)*len(blueLevels))
	for _, r := range redLevels {
		for _, g := range greenLevels {
			for _, b := range blueLevels {
				colors = append(colors, [3]int32{r, g, b})
			}
		}
	}
	return colors
}

// PaletteSize returns the number of reference colors.
func PaletteSize() int {
	return len(paletteColors)
}

// PaletteColor returns the reference color at index i.
func PaletteColor(i int) (r, g, b uint8) {
	c := paletteColors[i]
	return uint8(c[0]), uint8(c[1]), uint8(c[2])
}

// Nearest returns the index of the palette entry closest to (r, g, b) by
// squared Euclidean distance, and that distance. The lowest index wins ties.
func Nearest(r, g, b uint8) (index int, distance int32) {
	best, bestDist := 0, int32(-1)
	for i, c := range paletteColors {
		dr := c[0] - int32(r)
		dg := c[1] - int32(g)
		db := c[2] - int32(b)
		d := dr*dr + dg*dg + db*db
		if bestDist < 0 || d < bestDist {
			best, bestDist = i, d
		}
	}
	return best, bestDist
}

// Palette encodes an 8x8 grid as base64 palette indices.
type Palette struct{}

// Name implements Encoder.
func (Palette) Name() string { return "palette" }

// GridSize implements Encoder.
func (Palette) GridSize() int { return PaletteGridSize }

// Encode implements Encoder.
func (Palette) Encode(g Grid) (string, error) {
	if err := g.check(PaletteGridSize); err != nil {
		return "", err
	}

	indices := make([]byte, 0, PaletteGridSize*PaletteGridSize)
	for y := 0; y < PaletteGridSize; y++ {
		for x := 0; x < PaletteGridSize; x++ {
			idx, _ := Nearest(g.RGB(x, y))
			indices = append(indices, byte(idx))
		}
	}
	return base64.StdEncoding.EncodeToString(indices), nil
}
