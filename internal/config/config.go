// Package config holds process configuration: inference server
// address, model selection, and logging. Values resolve in order
// defaults -> config file -> environment, with CLI flags applied last
// by the cli layer.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// EnvBaseURL selects the inference server's network address.
const EnvBaseURL = "OLLAMA_BASE_URL"

// DefaultModel is the model identifier used when nothing else is
// configured.
const DefaultModel = "gemma3:12b"

type Config struct {
	Ollama OllamaConfig `yaml:"ollama"`
	Log    LogConfig    `yaml:"log"`
}

type OllamaConfig struct {
	BaseURL        string  `yaml:"baseUrl"`        // default "http://localhost:11434"
	Model          string  `yaml:"model"`          // default DefaultModel
	MaxTokens      int     `yaml:"maxTokens"`      // per chat turn, default 500
	ProbeMaxTokens int     `yaml:"probeMaxTokens"` // connectivity probe, default 50
	Temperature    float64 `yaml:"temperature"`    // default 0.7
	TimeoutSeconds int     `yaml:"timeoutSeconds"` // per request, default 60
}

type LogConfig struct {
	Level  string `yaml:"level"`  // default "info"
	Format string `yaml:"format"` // default "console"
}

// DefaultConfig returns a Config populated with all default values.
func DefaultConfig() *Config {
	return &Config{
		Ollama: OllamaConfig{
			BaseURL:        "http://localhost:11434",
			Model:          DefaultModel,
			MaxTokens:      500,
			ProbeMaxTokens: 50,
			Temperature:    0.7,
			TimeoutSeconds: 60,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load builds the effective configuration. If path is empty the default
// config file location is tried; a missing file is not an error. The
// OLLAMA_BASE_URL environment variable overrides the file value.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	explicit := path != ""
	if path == "" {
		path = DefaultConfigPath()
	}

	raw, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	case os.IsNotExist(err) && !explicit:
		// No config file is fine; defaults apply.
	default:
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}

	if base := os.Getenv(EnvBaseURL); base != "" {
		cfg.Ollama.BaseURL = base
	}

	return cfg, nil
}

// DefaultConfigPath resolves the default config file location,
// ~/.taskchat/config.yaml, falling back to /tmp when the home
// directory cannot be determined.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join("/tmp", "taskchat", "config.yaml")
	}
	return filepath.Join(home, ".taskchat", "config.yaml")
}
