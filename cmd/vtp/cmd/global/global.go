// Package global holds the flags shared by every vtp command.
package global

import (
	"go.uber.org/zap"
	"voice-transcriber/internal/app/common"
	"voice-transcriber/internal/config"
)

var (
	ConfigPath string
	Verbose    bool
)

// LoadConfig reads the file named by --config, falling back to the default
// location and then to built-in defaults.
func LoadConfig() (*config.Config, error) {
	if ConfigPath != "" {
		return config.Load(ConfigPath)
	}
	return config.LoadOrDefault(config.DefaultConfigPath())
}

// NewLogger builds the logger for cfg; --verbose forces debug level.
func NewLogger(cfg *config.Config) (*zap.Logger, error) {
	level := cfg.Log.Level
	if Verbose {
		level = "debug"
	}
	return common.NewLogger(cfg.Log.Development, level)
}
