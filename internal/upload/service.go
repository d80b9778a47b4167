// Package upload runs the validation-and-transcode pipeline between raw
// uploaded bytes and a persisted, described artifact.
package upload

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"imageoptimizer/internal/imageproc"
	"imageoptimizer/internal/imagetype"
	"imageoptimizer/internal/staging"
	"imageoptimizer/internal/store"
)

type Service struct {
	staging    *staging.Dir
	transcoder *imageproc.Transcoder
	store      *store.Store
	logger     zerolog.Logger
}

func NewService(staging *staging.Dir, transcoder *imageproc.Transcoder, store *store.Store, logger zerolog.Logger) *Service {
	return &Service{
		staging:    staging,
		transcoder: transcoder,
		store:      store,
		logger:     logger,
	}
}

// Process runs one upload through the whole pipeline: sniff, stage, validate,
// transcode, persist, report. The first failing stage short-circuits; the
// staged copy is removed on every path out, success or not.
func (s *Service) Process(ctx context.Context, originalName string, data []byte, quality int) (*Result, error) {
	kind, err := imagetype.Sniff(originalName, data)
	if err != nil {
		return nil, err
	}

	staged, err := s.staging.Acquire(originalName, data)
	if err != nil {
		return nil, fmt.Errorf("staging upload: %w", err)
	}
	defer staged.Release()

	if err := imageproc.Validate(staged.Path(), kind); err != nil {
		return nil, err
	}

	transcoded, err := s.transcoder.Process(staged.Path(), quality)
	if err != nil {
		return nil, err
	}

	name, size, err := s.store.Save(originalName, transcoded.Data)
	if err != nil {
		return nil, fmt.Errorf("persisting artifact: %w", err)
	}

	result, err := BuildResult(name, int64(len(data)), size)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("kind", kind.String()).
		Str("artifact", name).
		Int("quality", imageproc.ClampQuality(quality)).
		Int64("original_size", result.OriginalSize).
		Int64("processed_size", result.ProcessedSize).
		Float64("reduction_percent", result.SizeReductionPercent).
		Msg("processed upload")

	return result, nil
}
