// Package vipsimage implements media.Image and media.Decoder on libvips
// through govips.
//
// InitVips must be called once before any Load and ShutdownVips once at
// exit. Sources libvips cannot open are decoded with the Go image codecs
// and handed to libvips as PNG.
package vipsimage
