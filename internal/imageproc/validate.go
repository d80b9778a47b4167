package imageproc

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"imageoptimizer/internal/imagetype"
)

// Validate runs a full structural decode of the staged file and confirms the
// decoded format matches the kind the sniffer reported. It reads from disk
// rather than the in-memory buffer so it exercises the same path the
// transcoder uses and streams large files instead of holding a second copy.
// All decode problems collapse into ErrInvalidImage; the underlying codec
// error is not surfaced to the client.
func Validate(path string, want imagetype.Kind) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening staged file: %w", err)
	}
	defer f.Close()

	_, format, err := image.Decode(f)
	if err != nil {
		return ErrInvalidImage
	}

	kind, ok := imagetype.FromFormat(format)
	if !ok || kind != want {
		return ErrInvalidImage
	}
	return nil
}
