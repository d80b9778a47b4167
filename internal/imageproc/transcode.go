package imageproc

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"os"

	"github.com/disintegration/imaging"
	"github.com/gen2brain/jpegli"
	"github.com/rs/zerolog"
)

// DefaultQuality is used when the client does not supply a quality value.
const DefaultQuality = 50

// Transcoder halves an image's dimensions and re-encodes it as JPEG at a
// requested quality. Output is always JPEG regardless of input kind; PNG
// transparency is flattened and only the first frame of a GIF survives.
type Transcoder struct {
	useJpegli bool
	logger    zerolog.Logger
}

// Result is the transcoded artifact before it is named and persisted.
type Result struct {
	Data   []byte
	Width  int
	Height int
}

func NewTranscoder(useJpegli bool, logger zerolog.Logger) *Transcoder {
	return &Transcoder{useJpegli: useJpegli, logger: logger}
}

// ClampQuality forces quality into the closed range [0, 100].
func ClampQuality(quality int) int {
	if quality < 0 {
		return 0
	}
	if quality > 100 {
		return 100
	}
	return quality
}

// Process decodes the staged file, scales both dimensions to 50% (floored)
// and encodes the result as JPEG. Failures here are server-side: the file
// already passed validation, so a decode or encode error is ours, not the
// client's. The encode is deterministic; the same file at the same quality
// yields byte-identical output.
func (t *Transcoder) Process(path string, quality int) (*Result, error) {
	quality = ClampQuality(quality)

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening staged file: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decoding staged file: %w", err)
	}

	bounds := img.Bounds()
	newWidth := bounds.Dx() / 2
	newHeight := bounds.Dy() / 2
	if newWidth == 0 || newHeight == 0 {
		return nil, fmt.Errorf("%w: %dx%d halves to %dx%d",
			ErrDegenerateSize, bounds.Dx(), bounds.Dy(), newWidth, newHeight)
	}

	resized := imaging.Resize(img, newWidth, newHeight, imaging.Lanczos)

	data, err := t.encode(resized, quality)
	if err != nil {
		return nil, fmt.Errorf("encoding jpeg: %w", err)
	}

	t.logger.Debug().
		Int("width", newWidth).
		Int("height", newHeight).
		Int("quality", quality).
		Int("bytes", len(data)).
		Msg("transcoded image")

	return &Result{Data: data, Width: newWidth, Height: newHeight}, nil
}

func (t *Transcoder) encode(img image.Image, quality int) ([]byte, error) {
	var buf bytes.Buffer

	if t.useJpegli {
		err := jpegli.Encode(&buf, img, &jpegli.EncodingOptions{Quality: quality})
		if err == nil {
			return buf.Bytes(), nil
		}
		// Fall back to the standard encoder rather than failing the request.
		t.logger.Warn().Err(err).Msg("jpegli encode failed, falling back to image/jpeg")
		buf.Reset()
	}

	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
