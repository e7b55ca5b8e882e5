package pano

import (
	"bytes"
	"encoding/xml"
	"errors"
	"io"
	"unicode/utf8"

	"media-preview/internal/logging"
	"media-preview/internal/media"
)

const (
	rdfNamespace   = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
	gpanoNamespace = "http://ns.google.com/photos/1.0/panorama/"

	// Equirectangular is the GPano:ProjectionType of 360° photos.
	Equirectangular = "equirectangular"
)

// XMPFields are the metadata fields checked for an XMP packet, in order.
var XMPFields = []string{"xmp-data", "xmp"}

// IsSpherical reports whether img is an equirectangular panorama: exactly
// twice as wide as it is tall, with XMP declaring the projection on the
// first rdf:Description. Any failure reading or parsing metadata is false.
func IsSpherical(img media.Image) (spherical bool) {
	defer func() {
		if r := recover(); r != nil {
			logging.Debug("Spherical check aborted: %v", r)
			spherical = false
		}
	}()

	if img.Width() != 2*img.Height() {
		return false
	}

	var packet []byte
	for _, field := range XMPFields {
		if data, ok := img.Metadata(field); ok {
			packet = data
			break
		}
	}
	if len(packet) == 0 {
		return false
	}

	proj, err := ProjectionType(packet)
	if err != nil {
		logging.Debug("Ignoring unreadable XMP: %v", err)
		return false
	}
	return proj == Equirectangular
}

// ProjectionType returns the GPano:ProjectionType attribute of the first
// rdf:Description below the document root. The whole packet must be
// well-formed UTF-8 XML.
func ProjectionType(packet []byte) (string, error) {
	if !utf8.Valid(packet) {
		return "", errors.New("xmp packet is not valid UTF-8")
	}

	dec := xml.NewDecoder(bytes.NewReader(packet))
	var (
		depth int
		found bool
		proj  string
	)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			depth++
			if found || depth == 1 {
				continue
			}
			if t.Name.Space == rdfNamespace && t.Name.Local == "Description" {
				found = true
				for _, attr := range t.Attr {
					if attr.Name.Space == gpanoNamespace && attr.Name.Local == "ProjectionType" {
						proj = attr.Value
					}
				}
			}
		case xml.EndElement:
			depth--
		}
	}
	if depth != 0 {
		return "", errors.New("xmp packet is truncated")
	}
	return proj, nil
}
