package converter

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	apperrors "voice-transcriber/internal/app/errors"
	"voice-transcriber/internal/app/model"
	"voice-transcriber/internal/app/orchestrator"
)

// Options controls a single conversion.
type Options struct {
	TranscriptionKey string
	SummarizationKey string
	MaxWords         int
	// SkipSummary stops after transcription. Both keys are still required,
	// since a session is only configured as a pair.
	SkipSummary bool
}

// Result is the outcome of a conversion.
type Result struct {
	Snapshot          orchestrator.Snapshot
	Advisory          string
	TranscriptionTime time.Duration
	SummaryTime       time.Duration
}

// Converter runs the upload, transcribe and summarize steps of one session
// for a local audio file.
type Converter struct {
	factory  *orchestrator.Factory
	progress *ProgressManager
	logger   *zap.Logger
}

func NewConverter(factory *orchestrator.Factory, progress ProgressConfig, logger *zap.Logger) *Converter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Converter{
		factory:  factory,
		progress: NewProgressManager(progress),
		logger:   logger,
	}
}

// Close stops the progress display.
func (c *Converter) Close() {
	c.progress.Shutdown()
}

// ConvertFile transcribes the audio file at path and, unless disabled,
// summarizes the result. A failed summary still returns the transcribed
// snapshot alongside the error.
func (c *Converter) ConvertFile(ctx context.Context, path string, opts Options) (*Result, error) {
	if !model.IsSupportedFormat(path) {
		return nil, apperrors.Wrapf(apperrors.ErrUnsupportedInput, "%s: supported formats are %v", filepath.Base(path), model.SupportedExtensions)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	steps := 3
	if opts.SkipSummary {
		steps = 2
	}
	bar := c.progress.CreateBar(steps, FormatProgressDescription("Processing", filepath.Base(path)))
	defer c.progress.Wait()
	defer bar.Complete()

	orch := c.factory.New(filepath.Base(path))
	if err := orch.Configure(opts.TranscriptionKey, opts.SummarizationKey); err != nil {
		return nil, err
	}
	if opts.MaxWords != 0 {
		if err := orch.SetMaxWords(opts.MaxWords); err != nil {
			return nil, err
		}
	}

	result := &Result{}
	result.Advisory = orch.Upload(model.NewAudioAsset(filepath.Base(path), data))
	bar.Increment()

	result.TranscriptionTime, err = orch.Transcribe(ctx)
	if err != nil {
		return nil, err
	}
	bar.Increment()
	c.logger.Info("transcribed file", zap.String("file", path), zap.Duration("elapsed", result.TranscriptionTime))

	if !opts.SkipSummary {
		result.SummaryTime, err = orch.Summarize(ctx)
		if err != nil {
			result.Snapshot = orch.Snapshot()
			return result, err
		}
		bar.Increment()
		c.logger.Info("summarized file", zap.String("file", path), zap.Duration("elapsed", result.SummaryTime))
	}

	result.Snapshot = orch.Snapshot()
	return result, nil
}
