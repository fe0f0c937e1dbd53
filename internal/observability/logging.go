package observability

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/spec-kit/fanfund/internal/config"
)

// NewLogger creates a structured zap.Logger configured via env settings.
func NewLogger(cfg config.LoggerConfig) (*zap.Logger, error) {
	return buildLogger(cfg.Level, zapcore.InfoLevel, []string{"stdout"})
}

// NewCLILogger builds the client logger. Output goes to stderr so command output on
// stdout stays machine readable; verbose forces debug level.
func NewCLILogger(cfg config.LoggerConfig, verbose bool) (*zap.Logger, error) {
	if verbose {
		return buildLogger("debug", zapcore.DebugLevel, []string{"stderr"})
	}
	return buildLogger(cfg.Level, zapcore.WarnLevel, []string{"stderr"})
}

func buildLogger(levelName string, fallback zapcore.Level, outputs []string) (*zap.Logger, error) {
	level := fallback
	if err := level.Set(strings.ToLower(levelName)); err != nil {
		level = fallback
	}

	zapCfg := zap.Config{
		Level:       zap.NewAtomicLevelAt(level),
		Development: true,
		Encoding:    "json",
		EncoderConfig: zapcore.EncoderConfig{
			MessageKey: "message",
			LevelKey:   "level",
			TimeKey:    "ts",
			EncodeLevel: func(l zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
				enc.AppendString(l.String())
			},
			EncodeTime: zapcore.ISO8601TimeEncoder,
		},
		OutputPaths:      outputs,
		ErrorOutputPaths: []string{"stderr"},
	}

	logger, err := zapCfg.Build()
	if err != nil {
		return nil, err
	}
	return logger, nil
}
