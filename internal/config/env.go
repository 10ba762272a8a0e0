package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

// Environment variable names read at startup.
const (
	EnvGroqAPIKey   = "GROQ_API_KEY"
	EnvGeminiAPIKey = "GEMINI_API_KEY"
	EnvConfigPath   = "VTP_CONFIG"
)

// APIKeys holds the service keys found in the environment.
type APIKeys struct {
	Groq   string
	Gemini string
}

// Complete reports whether both keys are present.
func (k APIKeys) Complete() bool {
	return k.Groq != "" && k.Gemini != ""
}

// envPaths lists the .env locations tried in order; the first one found wins.
var envPaths = []string{
	".env",
	".env.local",
	"../.env",
	"../../.env",
}

// LoadEnv loads the first .env file found. A missing file is not an error,
// since variables may be set by the environment itself. It returns the path
// that was loaded, or "" when none was found.
func LoadEnv() (string, error) {
	for _, envPath := range envPaths {
		if _, err := os.Stat(envPath); err != nil {
			continue
		}
		if err := godotenv.Load(envPath); err != nil {
			return "", fmt.Errorf("error loading %s file: %w", envPath, err)
		}
		return envPath, nil
	}
	return "", nil
}

// GetAPIKeys reads the service keys from the environment. Keys are trimmed;
// their format is left for the services to judge.
func GetAPIKeys() APIKeys {
	return APIKeys{
		Groq:   strings.TrimSpace(os.Getenv(EnvGroqAPIKey)),
		Gemini: strings.TrimSpace(os.Getenv(EnvGeminiAPIKey)),
	}
}

// DefaultConfigPath returns the config path from VTP_CONFIG, falling back to
// ~/.voice-transcriber/config.yaml.
func DefaultConfigPath() string {
	if path := os.Getenv(EnvConfigPath); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.yaml"
	}
	return filepath.Join(home, ".voice-transcriber", "config.yaml")
}
