package app

import (
	"fmt"
	"net/http"
	"time"

	"github.com/google/wire"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
	"voice-transcriber/internal/api/v1/services"
	"voice-transcriber/internal/app/api"
	"voice-transcriber/internal/app/api/gemini"
	"voice-transcriber/internal/app/api/openai/chat"
	"voice-transcriber/internal/app/api/openai/whisper"
	"voice-transcriber/internal/app/orchestrator"
	"voice-transcriber/internal/config"
)

// ClientSet builds the remote clients and the session factory.
var ClientSet = wire.NewSet(
	provideTranscriber,
	provideSummarizer,
	provideFactory,
)

func provideTranscriber(cfg *config.Config, logger *zap.Logger) api.Transcriber {
	return whisper.NewRemoteTranscriber(whisper.Config{
		BaseURL:    cfg.Transcription.BaseURL,
		Model:      cfg.Transcription.Model,
		StagingDir: cfg.Transcription.StagingDir,
		HTTPClient: httpClient(cfg.Transcription.Timeout),
	}, logger.Named("whisper"))
}

func provideSummarizer(cfg *config.Config) (api.Summarizer, error) {
	client := httpClient(cfg.Summarization.Timeout)
	switch cfg.Summarization.Backend {
	case config.BackendGemini:
		return gemini.NewSummarizer(gemini.Config{
			Model:      cfg.Summarization.Model,
			BaseURL:    cfg.Summarization.BaseURL,
			HTTPClient: client,
		}), nil
	case config.BackendOpenAI:
		return chat.NewSummarizer(chat.Config{
			BaseURL:    cfg.Summarization.BaseURL,
			Model:      cfg.Summarization.Model,
			HTTPClient: client,
		}), nil
	default:
		return nil, fmt.Errorf("unknown summarization backend %q", cfg.Summarization.Backend)
	}
}

// httpClient returns nil for a zero timeout so the SDK keeps its own
// transport defaults.
func httpClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		return nil
	}
	return &http.Client{Timeout: timeout}
}

func provideFactory(t api.Transcriber, s api.Summarizer, m orchestrator.Metrics, logger *zap.Logger, cfg *config.Config) *orchestrator.Factory {
	return orchestrator.NewFactory(t, s, m, logger.Named("orchestrator"), orchestrator.FactoryConfig{
		DefaultMaxWords: cfg.Session.DefaultMaxWords,
	})
}

func provideRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

func providePrometheusMetrics(reg *prometheus.Registry) orchestrator.Metrics {
	return orchestrator.NewPrometheusMetrics(reg)
}

func provideNopMetrics() orchestrator.Metrics {
	return orchestrator.NopMetrics{}
}

func provideSessionService(factory *orchestrator.Factory, cfg *config.Config, logger *zap.Logger) services.SessionService {
	sc := services.SessionConfig{IdleTTL: cfg.Session.IdleTTL}
	if cfg.Session.PreloadCredentials {
		keys := config.GetAPIKeys()
		sc.PreloadTranscriptionKey = keys.Groq
		sc.PreloadSummarizationKey = keys.Gemini
	}
	return services.NewSessionService(factory, sc, logger.Named("sessions"))
}
