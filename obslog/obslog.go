// Package obslog is railsched's structured-logging ambient stack: a
// small Logger interface wrapping *zap.Logger, so the rest of the
// module depends on an interface rather than on zap directly.
package obslog

import "go.uber.org/zap"

// Logger is the structured-logging contract the rest of railsched
// depends on.
type Logger interface {
	Debug(msg string, fields ...zap.Field)
	Info(msg string, fields ...zap.Field)
	Warn(msg string, fields ...zap.Field)
	Error(msg string, fields ...zap.Field)

	// With returns a Logger with fields permanently attached to every
	// subsequent entry.
	With(fields ...zap.Field) Logger

	// Zap exposes the underlying *zap.Logger, for packages (like
	// objective) that already take one directly.
	Zap() *zap.Logger
}

type zapLogger struct {
	log *zap.Logger
}

// New wraps an existing *zap.Logger.
func New(log *zap.Logger) Logger {
	return &zapLogger{log: log}
}

// NewProduction builds a Logger with zap's JSON production config,
// failing only if zap itself cannot build (stderr unavailable, bad
// encoder config), effectively never in practice.
func NewProduction() (Logger, error) {
	log, err := zap.NewProduction()
	if err != nil {
		return nil, err
	}
	return New(log), nil
}

// NewDevelopment builds a Logger with zap's human-readable console
// config, used by cmd/railsched outside of --json mode.
func NewDevelopment() (Logger, error) {
	log, err := zap.NewDevelopment()
	if err != nil {
		return nil, err
	}
	return New(log), nil
}

func (l *zapLogger) Debug(msg string, fields ...zap.Field) { l.log.Debug(msg, fields...) }
func (l *zapLogger) Info(msg string, fields ...zap.Field)  { l.log.Info(msg, fields...) }
func (l *zapLogger) Warn(msg string, fields ...zap.Field)  { l.log.Warn(msg, fields...) }
func (l *zapLogger) Error(msg string, fields ...zap.Field) { l.log.Error(msg, fields...) }

func (l *zapLogger) With(fields ...zap.Field) Logger {
	return &zapLogger{log: l.log.With(fields...)}
}

func (l *zapLogger) Zap() *zap.Logger { return l.log }
