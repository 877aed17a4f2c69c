// Package logging builds the application's zap logger from config.
package logging

import (
	"os"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/km-arc/go-container/framework/config"
)

// New builds a logger writing to stderr.
//
//	logger, err := logging.New(cfg.Log)
func New(cfg config.LogConfig) (*zap.Logger, error) {
	return NewWithOutput(cfg, zapcore.Lock(os.Stderr))
}

// NewWithOutput builds a logger writing to ws. Format "console" uses the
// development encoder; anything else is JSON.
func NewWithOutput(cfg config.LogConfig, ws zapcore.WriteSyncer) (*zap.Logger, error) {
	level := zap.NewAtomicLevel()
	if cfg.Level != "" {
		if err := level.UnmarshalText([]byte(strings.ToLower(cfg.Level))); err != nil {
			return nil, errors.Wrapf(err, "logging: invalid level %q", cfg.Level)
		}
	}

	var enc zapcore.Encoder
	switch strings.ToLower(cfg.Format) {
	case "console":
		enc = zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
	case "", "json":
		enc = zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	default:
		return nil, errors.Errorf("logging: unknown format %q", cfg.Format)
	}

	return zap.New(zapcore.NewCore(enc, ws, level)), nil
}
