// Package testutil provides in-memory stand-ins for the image library and
// the external tool runner so pipeline logic can be tested without libvips,
// ffmpeg or kubi installed.
package testutil
