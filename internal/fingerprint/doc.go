// Package fingerprint turns a tiny downsampled pixel grid into a short,
// deterministic color token used to seed blur-up placeholders.
//
// Two encoders are provided:
//
//   - Palette samples an 8x8 grid, maps every cell to the nearest entry of a
//     fixed 240-color palette and base64-encodes the 64 indices.
//   - Glyph samples a 4x4 grid, quantizes every cell to 4 bits per channel and
//     spells each 12-bit value as two characters of a URL-safe alphabet.
//
// Both are pure functions of the grid's pixel values.
package fingerprint
