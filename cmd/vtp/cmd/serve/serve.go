package serve

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"voice-transcriber/cmd/vtp/cmd/global"
	"voice-transcriber/internal/app"
)

const shutdownTimeout = 10 * time.Second

var addr string

func init() {
	Cmd.Flags().StringVarP(&addr, "addr", "a", "", "listen address, overrides server.addr (example: :8080)")
}

// Cmd represents the serve command
var Cmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API and browser page",
	Long: `Start the HTTP API and browser page

- Sessions live in memory and are dropped after the configured idle time
- /metrics exposes Prometheus metrics, /health a liveness probe`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := global.LoadConfig()
		if err != nil {
			return err
		}
		if addr != "" {
			cfg.Server.Addr = addr
		}

		logger, err := global.NewLogger(cfg)
		if err != nil {
			return fmt.Errorf("failed to create logger: %w", err)
		}
		defer func() { _ = logger.Sync() }()

		srv, err := app.InitializeServer(cfg, logger)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if err := srv.Start(); err != nil {
			return fmt.Errorf("failed to start server: %w", err)
		}
		logger.Info("serving",
			zap.String("addr", cfg.Server.Addr),
			zap.String("summarization_backend", cfg.Summarization.Backend),
			zap.Bool("preload_credentials", cfg.Session.PreloadCredentials),
		)

		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	},
}
