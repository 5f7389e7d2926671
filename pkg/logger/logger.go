
package logger

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Field is a structured key/value attached to a log entry.
type Field = zap.Field

type Config struct {
	Level    string `mapstructure:"level"`
	Encoding string `mapstructure:"encoding"`
}

type Logger struct {
	z *zap.Logger
	s *zap.SugaredLogger
}

// New returns an info-level console logger.
func New() *Logger {
	l, err := NewWithConfig(Config{})
	if err != nil {
		return wrap(zap.NewExample())
	}
	return l
}

func NewWithConfig(cfg Config) (*Logger, error) {
	zc := zap.NewProductionConfig()
	zc.Encoding = "console"
	if strings.EqualFold(cfg.Encoding, "json") {
		zc.Encoding = "json"
	}
	zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zc.EncoderConfig.EncodeCaller = zapcore.ShortCallerEncoder
	zc.Level = zap.NewAtomicLevelAt(parseLevel(cfg.Level))
	zc.Sampling = nil
	zc.OutputPaths = []string{"stderr"}

	z, err := zc.Build(zap.AddCallerSkip(1))
	if err != nil {
		return nil, fmt.Errorf("build zap logger: %w", err)
	}
	return wrap(z), nil
}

// NewNop discards everything; used by tests.
func NewNop() *Logger { return wrap(zap.NewNop()) }

func wrap(z *zap.Logger) *Logger { return &Logger{z: z, s: z.Sugar()} }

func parseLevel(level string) zapcore.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

func (l *Logger) Debug(msg string, fields ...Field) { l.z.Debug(msg, fields...) }
func (l *Logger) Info(msg string, fields ...Field)  { l.z.Info(msg, fields...) }
func (l *Logger) Warn(msg string, fields ...Field)  { l.z.Warn(msg, fields...) }
func (l *Logger) Error(msg string, fields ...Field) { l.z.Error(msg, fields...) }

func (l *Logger) Infof(format string, args ...any) {
	l.s.Infof(format, args...)
}
func (l *Logger) Errorf(format string, args ...any) {
	l.s.Errorf(format, args...)
}

// With returns a child logger carrying fields on every entry.
func (l *Logger) With(fields ...Field) *Logger {
	return wrap(l.z.With(fields...))
}

func (l *Logger) Sync() error {
	return l.z.Sync()
}
