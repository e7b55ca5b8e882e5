package fingerprint

import (
	"errors"
	"fmt"
)

// ErrGridTooSmall is returned when a grid has fewer cells than an encoder samples.
var ErrGridTooSmall = errors.New("fingerprint grid too small")

// Grid is a row-major buffer of interleaved 8-bit samples.
type Grid struct {
	Width  int
	Height int
	Bands  int
	Pix    []byte
}

// RGB returns the red, green and blue samples of the cell at (x, y).
// Single and dual band grids are treated as grey.
func (g Grid) RGB(x, y int) (r, gr, b uint8) {
	i := (y*g.Width + x) * g.Bands
	if g.Bands < 3 {
		v := g.Pix[i]
		return v, v, v
	}
	return g.Pix[i], g.Pix[i+1], g.Pix[i+2]
}

// check verifies the grid holds at least n x n cells.
func (g Grid) check(n int) error {
	if g.Width < n || g.Height < n {
		return fmt.Errorf("%w: got %dx%d, need %dx%d", ErrGridTooSmall, g.Width, g.Height, n, n)
	}
	if g.Bands < 1 {
		return fmt.Errorf("fingerprint grid has %d bands", g.Bands)
	}
	if len(g.Pix) < g.Width*g.Height*g.Bands {
		return fmt.Errorf("fingerprint grid buffer is %d bytes, want %d", len(g.Pix), g.Width*g.Height*g.Bands)
	}
	return nil
}
