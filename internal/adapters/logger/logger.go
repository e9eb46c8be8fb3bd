// Package logger implements the logging adapter on top of zap.
package logger

import (
	"os"

	"github.com/mayer2014/appserver/internal/core/ports"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var _ ports.Logger = (*Logger)(nil)

// Logger implements ports.Logger using zap. The level is atomic so it can be
// raised once the settings file has been loaded.
type Logger struct {
	zl    *zap.Logger
	level zap.AtomicLevel
}

// New creates a Logger writing console output to stderr at info level.
func New() *Logger {
	level := zap.NewAtomicLevelAt(zapcore.InfoLevel)
	return &Logger{
		zl:    build("console", level),
		level: level,
	}
}

// Configure applies the log/level and log/format settings. Unknown values
// keep the current level and the console format.
func (l *Logger) Configure(levelName, format string) {
	if parsed, err := zapcore.ParseLevel(levelName); err == nil {
		l.level.SetLevel(parsed)
	}
	if format == "json" {
		l.zl = build(format, l.level)
	}
}

func build(format string, level zap.AtomicLevel) *zap.Logger {
	cfg := zap.NewProductionEncoderConfig()
	cfg.TimeKey = "time"
	cfg.LevelKey = "level"
	cfg.MessageKey = "message"
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder

	var encoder zapcore.Encoder
	if format == "json" {
		encoder = zapcore.NewJSONEncoder(cfg)
	} else {
		cfg.EncodeLevel = zapcore.CapitalLevelEncoder
		encoder = zapcore.NewConsoleEncoder(cfg)
	}

	core := zapcore.NewCore(encoder, zapcore.Lock(os.Stderr), level)
	return zap.New(core)
}

// Debug logs a message at debug level.
func (l *Logger) Debug(msg string) {
	l.zl.Debug(msg)
}

// Info logs an informational message.
func (l *Logger) Info(msg string) {
	l.zl.Info(msg)
}

// Warn logs a warning message.
func (l *Logger) Warn(msg string) {
	l.zl.Warn(msg)
}

// Error logs an error.
func (l *Logger) Error(err error) {
	l.zl.Error("operation failed", zap.Error(err))
}
