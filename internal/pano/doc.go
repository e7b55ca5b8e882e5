// Package pano detects equirectangular 360° photos and projects them to
// cubemaps with the external kubi tool.
package pano
