//go:build wireinject
// +build wireinject

package app

import (
	"github.com/google/wire"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"voice-transcriber/internal/api/server"
	"voice-transcriber/internal/app/converter"
	"voice-transcriber/internal/config"
)

// InitializeServer assembles the HTTP server with Prometheus metrics.
func InitializeServer(cfg *config.Config, logger *zap.Logger) (*server.Server, error) {
	wire.Build(
		ClientSet,
		provideRegistry,
		wire.Bind(new(prometheus.Gatherer), new(*prometheus.Registry)),
		providePrometheusMetrics,
		provideSessionService,
		server.NewServer,
	)
	return &server.Server{}, nil
}

// InitializeConverter assembles the one-shot CLI pipeline.
func InitializeConverter(cfg *config.Config, logger *zap.Logger, progress converter.ProgressConfig) (*converter.Converter, error) {
	wire.Build(
		ClientSet,
		provideNopMetrics,
		converter.NewConverter,
	)
	return &converter.Converter{}, nil
}
