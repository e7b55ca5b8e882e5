package fingerprint

// GlyphGridSize is the edge length sampled by Glyph.
const GlyphGridSize = 4

const glyphAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-_"

// Glyph encodes a 4x4 grid as two alphabet characters per cell.
type Glyph struct{}

// Name implements Encoder.
func (Glyph) Name() string { return "glyph" }

// GridSize implements Encoder.
func (Glyph) GridSize() int { return GlyphGridSize }

// Pack quantizes a pixel to 4 bits per channel: red in bits 11-8, green in
// bits 7-4, blue in bits 3-0. Consumers depend on this exact layout.
func Pack(r, g, b uint8) uint16 {
	return (uint16(r)&0xF0)<<4 | uint16(g)&0xF0 | (uint16(b)&0xF0)>>4
}

// Encode implements Encoder.
func (Glyph) Encode(g Grid) (string, error) {
	if err := g.check(GlyphGridSize); err != nil {
		return "", err
	}

	out := make([]byte, 0, GlyphGridSize*GlyphGridSize*2)
	for y := 0; y < GlyphGridSize; y++ {
		for x := 0; x < GlyphGridSize; x++ {
			v := Pack(g.RGB(x, y))
			out = append(out, glyphAlphabet[v>>6], glyphAlphabet[v&63])
		}
	}
	return string(out), nil
}
