// Package imageproc validates staged uploads and performs the resize and
// re-encode that produces the output artifact.
package imageproc

import "errors"

var (
	// ErrInvalidImage is the single client-facing failure for anything that
	// passed type sniffing but does not decode as a well-formed image.
	ErrInvalidImage = errors.New("uploaded file is not a valid image")

	// ErrDegenerateSize is returned when halving a dimension would produce a
	// zero-area output, e.g. a 1 pixel wide or tall source.
	ErrDegenerateSize = errors.New("image is too small to resize")
)
