package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ValidateTimeout validates timeout duration
func ValidateTimeout(timeout time.Duration, name string) error {
	if timeout <= 0 {
		return fmt.Errorf("%s timeout must be positive", name)
	}
	if timeout > 30*time.Minute {
		return fmt.Errorf("%s timeout too large (max 30 minutes)", name)
	}
	return nil
}

// ValidateOptionalTimeout is ValidateTimeout with zero meaning no timeout.
func ValidateOptionalTimeout(timeout time.Duration, name string) error {
	if timeout == 0 {
		return nil
	}
	return ValidateTimeout(timeout, name)
}

// ValidateRange checks that value lies within [lo, hi].
func ValidateRange(value, lo, hi int, name string) error {
	if value < lo || value > hi {
		return fmt.Errorf("%s must be between %d and %d, got %d", name, lo, hi, value)
	}
	return nil
}

// ValidateURL validates URL format
func ValidateURL(url string, name string) error {
	if url == "" {
		return fmt.Errorf("%s URL is required", name)
	}
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		return fmt.Errorf("%s URL must start with http:// or https://", name)
	}
	return nil
}

// ValidateLogLevel accepts the level names zap understands.
func ValidateLogLevel(level string) error {
	switch strings.ToLower(level) {
	case "debug", "info", "warn", "error", "dpanic", "panic", "fatal":
		return nil
	}
	return fmt.Errorf("invalid log level '%s'", level)
}

func ensureParentDir(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	return nil
}
