package media

import (
	"github.com/h2non/filetype"
)

// DetectFormat names the container format from its magic bytes, for
// example "jpg", "heif" or "png". Unrecognised data returns "unknown".
func DetectFormat(head []byte) string {
	kind, err := filetype.Match(head)
	if err != nil || kind == filetype.Unknown {
		return "unknown"
	}
	return kind.Extension
}
