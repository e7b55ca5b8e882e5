package mediatypes

import (
	"path/filepath"
	"strings"
)

// Kind is the broad category of a source file.
type Kind string

const (
	// KindImage is decoded directly by the image library.
	KindImage Kind = "image"
	// KindVideo yields a still frame and a video preview.
	KindVideo Kind = "video"
	// KindAudio yields a waveform image and an audio preview.
	KindAudio Kind = "audio"
)

// VideoExtensions lists extensions handled as video.
var VideoExtensions = map[string]bool{
	".3gp":  true,
	".flv":  true,
	".mov":  true,
	".qt":   true,
	".m2ts": true,
	".mts":  true,
	".divx": true,
	".vob":  true,
	".webm": true,
	".mkv":  true,
	".mka":  true,
	".wmv":  true,
	".avi":  true,
	".mp4":  true,
	".mpg":  true,
	".mpeg": true,
	".ps":   true,
	".ts":   true,
	".rm":   true,
	".ogv":  true,
	".dv":   true,
}

// AudioExtensions lists extensions handled as audio.
// ".mka" is listed here as well but VideoExtensions takes priority.
var AudioExtensions = map[string]bool{
	".mp3":  true,
	".wav":  true,
	".opus": true,
	".aac":  true,
	".ogg":  true,
	".wma":  true,
	".m4a":  true,
	".flac": true,
	".alac": true,
	".mka":  true,
}

// heifExtensions need the unlimited decode mode.
var heifExtensions = map[string]bool{
	".heif": true,
	".heic": true,
}

// Ext returns the lowercased extension of path including the leading dot.
func Ext(path string) string {
	return strings.ToLower(filepath.Ext(path))
}

// Classify returns the Kind for path based on its extension.
func Classify(path string) Kind {
	ext := Ext(path)
	if VideoExtensions[ext] {
		return KindVideo
	}
	if AudioExtensions[ext] {
		return KindAudio
	}
	return KindImage
}

// IsHEIF reports whether path has a HEIF/HEIC extension.
func IsHEIF(path string) bool {
	return heifExtensions[Ext(path)]
}

// IsTimeBased reports whether the kind carries a duration.
func (k Kind) IsTimeBased() bool {
	return k == KindVideo || k == KindAudio
}
