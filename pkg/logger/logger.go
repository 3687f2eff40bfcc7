package logger

import (
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

var (
	globalLogger = zap.NewNop()
	globalMu     sync.RWMutex
)

// SetupLogger builds a logger for the given environment and installs it
// as the package-level logger.
func SetupLogger(env string, level string) *zap.Logger {
	var cfg zap.Config

	switch env {
	case envLocal, envDev:
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	default:
		cfg = zap.NewProductionConfig()
		cfg.EncoderConfig.TimeKey = "time"
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}

	if lvl, err := zapcore.ParseLevel(level); err == nil {
		cfg.Level = zap.NewAtomicLevelAt(lvl)
	}

	l, err := cfg.Build()
	if err != nil {
		l = zap.NewExample()
	}

	SetLogger(l)

	return l
}

// SetLogger replaces the package-level logger.
func SetLogger(l *zap.Logger) {
	globalMu.Lock()
	globalLogger = l
	globalMu.Unlock()
}

func Logger() *zap.Logger {
	globalMu.RLock()
	defer globalMu.RUnlock()

	return globalLogger
}

func Debug(msg string, fields ...zap.Field) {
	Logger().Debug(msg, fields...)
}

func Info(msg string, fields ...zap.Field) {
	Logger().Info(msg, fields...)
}

func Warn(msg string, fields ...zap.Field) {
	Logger().Warn(msg, fields...)
}

func Error(msg string, fields ...zap.Field) {
	Logger().Error(msg, fields...)
}

// Sync flushes buffered entries; errors from stdout/stderr sync are ignored.
func Sync() {
	_ = Logger().Sync()
}
