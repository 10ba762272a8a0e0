package api

import (
	"context"

	"voice-transcriber/internal/app/model"
)

// Transcriber converts one audio payload to plain text in a single remote call.
type Transcriber interface {
	Transcribe(ctx context.Context, audio model.AudioAsset, credential string) (string, error)
}

// Summarizer condenses text to roughly maxWords words in a single remote call.
type Summarizer interface {
	Summarize(ctx context.Context, text string, maxWords int, credential string) (string, error)
}
