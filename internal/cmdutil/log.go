// internal/cmdutil/log.go
package cmdutil

import (
	"fmt"
	"io"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Log formats.
const (
	LogConsole = "console"
	LogJSON    = "json"
)

// LogConfig selects the encoder and minimum level.
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // console or json
}

// NewLogger builds a zap logger writing to dst. Logs always go to stderr
// in the app so stdout stays free for distances.
func NewLogger(dst io.Writer, cfg LogConfig) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	if cfg.Level != "" {
		l, err := zapcore.ParseLevel(cfg.Level)
		if err != nil {
			return nil, fmt.Errorf("invalid log level: %w", err)
		}
		level = l
	}

	encCfg := zapcore.EncoderConfig{
		TimeKey:        "timestamp",
		LevelKey:       "level",
		NameKey:        "logger",
		MessageKey:     "message",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
	}

	var enc zapcore.Encoder
	switch cfg.Format {
	case "", LogConsole:
		encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		enc = zapcore.NewConsoleEncoder(encCfg)
	case LogJSON:
		enc = zapcore.NewJSONEncoder(encCfg)
	default:
		return nil, fmt.Errorf("invalid log format %q (want %s or %s)", cfg.Format, LogConsole, LogJSON)
	}

	core := zapcore.NewCore(enc, zapcore.Lock(zapcore.AddSync(dst)), zap.NewAtomicLevelAt(level))
	return zap.New(core), nil
}

// Warnf logs a formatted warning. A nil logger drops it.
func Warnf(log *zap.Logger, format string, a ...any) {
	if log == nil {
		return
	}
	log.Warn(fmt.Sprintf(format, a...))
}
