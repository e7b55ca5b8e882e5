// Package mediatypes classifies source files into the media kinds the preview
// pipeline knows how to handle.
//
// Classification is a pure function of the lowercased file extension:
//
//	switch mediatypes.Classify(path) {
//	case mediatypes.KindVideo:
//	    // extract a still frame, transcode a preview
//	case mediatypes.KindAudio:
//	    // render a waveform, transcode a preview
//	default:
//	    // decode directly as an image
//	}
//
// Extensions that appear in both the video and audio lists (".mka") resolve
// to KindVideo. Anything unrecognized is treated as an image; unsupported
// files surface as decode failures later, never here.
//
// The package has no dependencies beyond the standard library so every other
// package can import it without cycles.
package mediatypes
