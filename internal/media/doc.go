// Package media produces the resized JPEG XL derivatives of a working image
// and the tiny pixel grid the fingerprint is computed from.
//
// The image library is reached through the Image interface, a handle over
// the decode, resize, colourspace and encode capabilities. The libvips
// implementation lives in media/vipsimage; this package holds the policy:
//
//   - ResizeToFit: uniform shrink that never enlarges
//   - ResizeFixed: independent horizontal and vertical scale for tiny grids
//   - Generator: writes every Tier in order, then reduces the image to the
//     fingerprint grid
//
// Each step transforms the single handle the caller owns. Nothing else may
// hold a reference to it while the generator runs.
package media
