package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Summarization backends.
const (
	BackendGemini = "gemini"
	BackendOpenAI = "openai"
)

// Config is the application configuration loaded from YAML.
type Config struct {
	Server        ServerConfig        `yaml:"server"`
	Transcription TranscriptionConfig `yaml:"transcription"`
	Summarization SummarizationConfig `yaml:"summarization"`
	Session       SessionConfig       `yaml:"session"`
	Log           LogConfig           `yaml:"log"`
}

type ServerConfig struct {
	Addr         string        `yaml:"addr"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	CORSOrigins  []string      `yaml:"cors_origins,omitempty"`
}

type TranscriptionConfig struct {
	BaseURL    string        `yaml:"base_url"`
	Model      string        `yaml:"model"`
	StagingDir string        `yaml:"staging_dir,omitempty"`
	Timeout    time.Duration `yaml:"timeout,omitempty"`
}

type SummarizationConfig struct {
	Backend string        `yaml:"backend"`
	Model   string        `yaml:"model,omitempty"`
	BaseURL string        `yaml:"base_url,omitempty"`
	Timeout time.Duration `yaml:"timeout,omitempty"`
}

type SessionConfig struct {
	DefaultMaxWords    int           `yaml:"default_max_words"`
	IdleTTL            time.Duration `yaml:"idle_ttl"`
	MaxUploadMB        int           `yaml:"max_upload_mb"`
	PreloadCredentials bool          `yaml:"preload_credentials"`
}

type LogConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	c := &Config{}
	c.setDefaults()
	return c
}

// Load reads the YAML file at path, expands ${VAR} references, fills in
// defaults and validates the result.
func Load(path string) (*Config, error) {
	path = os.ExpandEnv(path)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found: %s", path)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// LoadOrDefault behaves like Load but falls back to Default when the file
// does not exist.
func LoadOrDefault(path string) (*Config, error) {
	if _, err := os.Stat(os.ExpandEnv(path)); os.IsNotExist(err) {
		return Default(), nil
	}
	return Load(path)
}

// Parse decodes YAML configuration data.
func Parse(data []byte) (*Config, error) {
	var c Config
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), &c); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	c.setDefaults()

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &c, nil
}

// Save writes c as YAML to path, creating the directory if needed.
func Save(c *Config, path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config to YAML: %w", err)
	}
	if err := ensureParentDir(path); err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

func (c *Config) setDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 30 * time.Second
	}
	// Remote calls are synchronous within the request.
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 5 * time.Minute
	}

	if c.Transcription.BaseURL == "" {
		c.Transcription.BaseURL = "https://api.groq.com/openai/v1"
	}
	if c.Transcription.Model == "" {
		c.Transcription.Model = "whisper-large-v3"
	}

	if c.Summarization.Backend == "" {
		c.Summarization.Backend = BackendGemini
	}

	if c.Session.DefaultMaxWords == 0 {
		c.Session.DefaultMaxWords = 150
	}
	if c.Session.IdleTTL == 0 {
		c.Session.IdleTTL = time.Hour
	}
	if c.Session.MaxUploadMB == 0 {
		c.Session.MaxUploadMB = 100
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

// Validate checks the configuration for values the application cannot use.
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("server addr is required")
	}
	if err := ValidateTimeout(c.Server.WriteTimeout, "server write"); err != nil {
		return err
	}
	if err := ValidateURL(c.Transcription.BaseURL, "transcription"); err != nil {
		return err
	}
	if err := ValidateOptionalTimeout(c.Transcription.Timeout, "transcription"); err != nil {
		return err
	}

	switch c.Summarization.Backend {
	case BackendGemini:
	case BackendOpenAI:
		if c.Summarization.BaseURL == "" {
			return fmt.Errorf("summarization base_url is required for the %s backend", BackendOpenAI)
		}
	default:
		return fmt.Errorf("invalid summarization backend '%s'", c.Summarization.Backend)
	}
	if c.Summarization.BaseURL != "" {
		if err := ValidateURL(c.Summarization.BaseURL, "summarization"); err != nil {
			return err
		}
	}
	if err := ValidateOptionalTimeout(c.Summarization.Timeout, "summarization"); err != nil {
		return err
	}

	if err := ValidateRange(c.Session.DefaultMaxWords, 50, 500, "session default_max_words"); err != nil {
		return err
	}
	if c.Session.IdleTTL < 0 {
		return fmt.Errorf("session idle_ttl cannot be negative")
	}
	if err := ValidateRange(c.Session.MaxUploadMB, 1, 1024, "session max_upload_mb"); err != nil {
		return err
	}

	return ValidateLogLevel(c.Log.Level)
}
