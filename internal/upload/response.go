package upload

import (
	"errors"
	"math"
)

// ErrZeroOriginalSize guards the size-reduction division. A zero-length
// original should have been rejected long before this point, so hitting it is
// a server-side inconsistency, not a client error.
var ErrZeroOriginalSize = errors.New("original size is zero")

// Result is the success payload returned to the uploader.
type Result struct {
	Message              string  `json:"message"`
	ProcessedImage       string  `json:"processed_image"`
	OriginalSize         int64   `json:"original_size"`
	ProcessedSize        int64   `json:"processed_size"`
	SizeReductionPercent float64 `json:"size_reduction_percent"`
}

// ErrorResponse is the error payload.
type ErrorResponse struct {
	Error string `json:"error"`
}

// BuildResult computes the size report for a persisted artifact. The
// percentage is signed: positive when the artifact shrank, negative when it
// grew, rounded to two decimal places.
func BuildResult(name string, originalSize, processedSize int64) (*Result, error) {
	if originalSize == 0 {
		return nil, ErrZeroOriginalSize
	}

	reduction := float64(originalSize-processedSize) / float64(originalSize) * 100

	return &Result{
		Message:              "Image uploaded and processed successfully!",
		ProcessedImage:       name,
		OriginalSize:         originalSize,
		ProcessedSize:        processedSize,
		SizeReductionPercent: math.Round(reduction*100) / 100,
	}, nil
}
