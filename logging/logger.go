package logging

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger returns a zap logger for structured production logging.
// Unrecognized or empty levels fall back to info.
func NewLogger(level string) (*zap.Logger, error) {
	parsed, err := zapcore.ParseLevel(strings.TrimSpace(level))
	if err != nil {
		parsed = zapcore.InfoLevel
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(parsed)
	return cfg.Build()
}
