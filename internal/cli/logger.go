package cli

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/skarzhevskyy/taskchat/internal/config"
	"github.com/skarzhevskyy/taskchat/pkg/ollama"
)

// buildLogger creates the process logger from the Log config section.
func buildLogger(cfg *config.Config) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.Log.Level, err)
	}

	zapCfg := zap.NewDevelopmentConfig()
	if cfg.Log.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}
	return logger, nil
}

// newClient creates the completion client from the Ollama config
// section.
func newClient(cfg *config.Config, logger *zap.Logger) *ollama.Client {
	return ollama.New(cfg.Ollama.BaseURL, cfg.Ollama.Model,
		ollama.WithTemperature(cfg.Ollama.Temperature),
		ollama.WithTimeout(time.Duration(cfg.Ollama.TimeoutSeconds)*time.Second),
		ollama.WithLogger(logger),
	)
}
