// Package transcoder wraps FFmpeg and FFprobe for the time-based media the
// preview pipeline accepts.
//
// It supports:
//   - Duration probing (best effort, 0 on any failure)
//   - Average frame rate probing of the first video stream
//   - Still frame extraction at 10% of the duration
//   - Waveform rendering for audio (640x120, peak and RMS layers over black)
//   - Low bitrate AV1/Opus and Opus-only preview transcodes to Matroska
//
// FFmpeg and FFprobe must be installed; their paths are configurable.
package transcoder
