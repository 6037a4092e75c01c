// Package logging sets up slog for the service: console plus weekly rotating files
package logging

import (
	"log/slog"
	"os"
	"sync"
)

type LoggingService struct {
	Logger  *slog.Logger
	rotator *RotatingLogger
}

var (
	DefaultLoggingService *LoggingService
	mu                    sync.RWMutex
	fallback              = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
)

// InitLogger installs the global logger and makes it the slog default
func InitLogger(opts Options) error {
	logger, rotator, err := Setup(opts)

	mu.Lock()
	previous := DefaultLoggingService
	DefaultLoggingService = &LoggingService{Logger: logger, rotator: rotator}
	mu.Unlock()

	if previous != nil && previous.rotator != nil {
		_ = previous.rotator.Close()
	}
	slog.SetDefault(logger)
	return err
}

// Close flushes and closes the rotating file of the global logger
func Close() error {
	mu.Lock()
	defer mu.Unlock()

	if DefaultLoggingService == nil || DefaultLoggingService.rotator == nil {
		return nil
	}
	err := DefaultLoggingService.rotator.Close()
	DefaultLoggingService.rotator = nil
	return err
}

// Logger returns the global logger, or a stderr logger before InitLogger
func Logger() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()

	if DefaultLoggingService == nil || DefaultLoggingService.Logger == nil {
		return fallback
	}
	return DefaultLoggingService.Logger
}

func Info(msg string, args ...any) {
	Logger().Info(msg, args...)
}

func Error(msg string, args ...any) {
	Logger().Error(msg, args...)
}

func Warn(msg string, args ...any) {
	Logger().Warn(msg, args...)
}

func Debug(msg string, args ...any) {
	Logger().Debug(msg, args...)
}
