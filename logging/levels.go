package logging

import (
	"log/slog"
	"strings"

	"github.com/giygas/drug-interactions-api/config"
)

// parseLogLevel maps a LOG_LEVEL string to a slog level, defaulting to info
func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// GetConsoleLogLevel picks the console level for an environment.
// Tests stay quiet unless verbose, whatever LOG_LEVEL says. Elsewhere an explicit
// LOG_LEVEL wins over the environment default.
func GetConsoleLogLevel(env config.Environment, logLevelStr string, verbose bool) slog.Level {
	if env == config.EnvTest {
		if verbose {
			return slog.LevelInfo
		}
		return slog.LevelError
	}

	if strings.TrimSpace(logLevelStr) != "" {
		return parseLogLevel(logLevelStr)
	}

	switch env {
	case config.EnvProduction, config.EnvStaging:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}

// GetFileLogLevel returns the level of the rotating file handler.
// Files always keep debug records.
func GetFileLogLevel() slog.Level {
	return slog.LevelDebug
}
