// Package platform holds process-level wiring shared by the entrypoints.
package platform

import (
	"log/slog"
	"os"
	"strings"
)

// NewLogger builds the JSON logger both entrypoints use. Level comes from
// GREENSCORE_LOG_LEVEL (debug, info, warn, error), defaulting to info.
func NewLogger() *slog.Logger {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: levelFromEnv(),
	}))
	slog.SetDefault(logger)
	return logger
}

func levelFromEnv() slog.Level {
	switch strings.ToLower(os.Getenv("GREENSCORE_LOG_LEVEL")) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// LogFatal logs the error and exits. Only for entrypoint setup failures;
// the pipeline itself never aborts.
func LogFatal(logger *slog.Logger, msg string, err error) {
	logger.Error(msg, "error", err)
	os.Exit(1)
}

// GetEnv reads an environment variable with a default.
func GetEnv(key, defaultVal string) string {
	if val, exists := os.LookupEnv(key); exists {
		return val
	}
	return defaultVal
}
