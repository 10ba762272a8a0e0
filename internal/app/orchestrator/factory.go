package orchestrator

import (
	"go.uber.org/zap"
	"voice-transcriber/internal/app/api"
)

// Factory builds one orchestrator per session, sharing the remote clients.
type Factory struct {
	transcriber api.Transcriber
	summarizer  api.Summarizer
	metrics     Metrics
	logger      *zap.Logger
	maxWords    int
}

// FactoryConfig carries session defaults.
type FactoryConfig struct {
	DefaultMaxWords int
}

func NewFactory(transcriber api.Transcriber, summarizer api.Summarizer, metrics Metrics, logger *zap.Logger, cfg FactoryConfig) *Factory {
	if metrics == nil {
		metrics = NopMetrics{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Factory{
		transcriber: transcriber,
		summarizer:  summarizer,
		metrics:     metrics,
		logger:      logger,
		maxWords:    cfg.DefaultMaxWords,
	}
}

// New returns a fresh orchestrator for sessionID.
func (f *Factory) New(sessionID string) *Orchestrator {
	return New(f.transcriber, f.summarizer,
		WithSessionID(sessionID),
		WithLogger(f.logger),
		WithMetrics(f.metrics),
		WithMaxWords(f.maxWords),
	)
}
