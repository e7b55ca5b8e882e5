package fingerprint

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownAlgorithm is returned by ByName for unsupported names.
var ErrUnknownAlgorithm = errors.New("unknown fingerprint algorithm")

// Encoder produces a color token from a grid of GridSize x GridSize cells.
type Encoder interface {
	// Name identifies the algorithm in configuration and logs.
	Name() string
	// GridSize is the edge length of the grid the encoder samples.
	GridSize() int
	// Encode returns the token for g.
	Encode(g Grid) (string, error)
}

// DefaultAlgorithm is used when no algorithm is configured.
const DefaultAlgorithm = "palette"

// ByName returns the encoder registered under name.
// An empty name selects DefaultAlgorithm.
func ByName(name string) (Encoder, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", DefaultAlgorithm:
		return Palette{}, nil
	case "glyph":
		return Glyph{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, name)
	}
}
