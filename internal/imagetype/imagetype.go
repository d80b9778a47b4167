// Package imagetype decides whether an upload is one of the accepted raster
// image kinds. Both the client-declared filename extension and the magic
// structure of the bytes themselves must agree; a renamed file whose content
// does not sniff as an accepted kind is rejected before anything touches disk.
package imagetype

import (
	"errors"
	"net/http"
	"path/filepath"
	"strings"
)

// Kind is one of the accepted image media types.
type Kind int

const (
	PNG Kind = iota
	JPEG
	GIF
)

var (
	ErrExtensionRejected   = errors.New("invalid file extension, only png, jpg, jpeg and gif are allowed")
	ErrContentTypeRejected = errors.New("file content is not an accepted image type")
)

var allowedExtensions = map[string]bool{
	"png":  true,
	"jpg":  true,
	"jpeg": true,
	"gif":  true,
}

var kindByMIME = map[string]Kind{
	"image/png":  PNG,
	"image/jpeg": JPEG,
	"image/gif":  GIF,
}

// kindByFormat maps the format names reported by image.Decode.
var kindByFormat = map[string]Kind{
	"png":  PNG,
	"jpeg": JPEG,
	"gif":  GIF,
}

func (k Kind) String() string {
	switch k {
	case PNG:
		return "png"
	case JPEG:
		return "jpeg"
	case GIF:
		return "gif"
	default:
		return "unknown"
	}
}

// MIME returns the media type for the kind.
func (k Kind) MIME() string {
	switch k {
	case PNG:
		return "image/png"
	case JPEG:
		return "image/jpeg"
	case GIF:
		return "image/gif"
	default:
		return "application/octet-stream"
	}
}

// Sniff checks the declared filename's extension and the content-derived media
// type of data. Both checks must pass; each failure carries its own sentinel
// so callers can report precisely which one rejected the upload. The returned
// Kind is derived from the content, never from the filename.
func Sniff(filename string, data []byte) (Kind, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	if !allowedExtensions[ext] {
		return 0, ErrExtensionRejected
	}

	// DetectContentType inspects at most the first 512 bytes and never fails;
	// an empty buffer sniffs as text/plain and falls through to rejection.
	kind, ok := kindByMIME[mediaType(http.DetectContentType(data))]
	if !ok {
		return 0, ErrContentTypeRejected
	}
	return kind, nil
}

// FromFormat maps a format name reported by image.Decode to a Kind.
func FromFormat(format string) (Kind, bool) {
	k, ok := kindByFormat[format]
	return k, ok
}

// mediaType strips any parameters, e.g. "text/plain; charset=utf-8".
func mediaType(contentType string) string {
	if i := strings.IndexByte(contentType, ';'); i >= 0 {
		contentType = contentType[:i]
	}
	return strings.TrimSpace(contentType)
}
