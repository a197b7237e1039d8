package slogobs

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
)

// Environment variables read by [New] when no explicit option is given.
const (
	EnvLogLevel  = "TOOLLOOP_LOG_LEVEL"
	EnvLogFormat = "TOOLLOOP_LOG_FORMAT"
)

// LevelTrace sits below DEBUG and is filtered out unless explicitly enabled.
const LevelTrace = slog.LevelDebug - 4

// Format represents the output format for logs.
type Format string

const (
	// FormatText is slog's key=value text format (default).
	FormatText Format = "text"

	// FormatJSON is one JSON object per line, for log aggregation.
	FormatJSON Format = "json"
)

// ParseFormat parses a format string. Unknown values yield [FormatText].
func ParseFormat(s string) Format {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return FormatJSON
	default:
		return FormatText
	}
}

// String returns the string representation of the Format.
func (f Format) String() string {
	return string(f)
}

// ParseLogLevel parses TRACE, DEBUG, INFO, WARN, WARNING or ERROR
// (case-insensitive). Unknown values yield INFO and an error.
func ParseLogLevel(level string) (slog.Level, error) {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "TRACE":
		return LevelTrace, nil
	case "DEBUG":
		return slog.LevelDebug, nil
	case "INFO", "":
		return slog.LevelInfo, nil
	case "WARN", "WARNING":
		return slog.LevelWarn, nil
	case "ERROR":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", level)
	}
}

// GetFormatFromEnv returns the format configured in TOOLLOOP_LOG_FORMAT.
func GetFormatFromEnv() Format {
	return ParseFormat(os.Getenv(EnvLogFormat))
}

// GetLogLevelFromEnv returns the level configured in TOOLLOOP_LOG_LEVEL,
// defaulting to INFO. Unknown values print a warning to stderr.
func GetLogLevelFromEnv() slog.Level {
	level, err := ParseLogLevel(os.Getenv(EnvLogLevel))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v, using INFO\n", err)
	}
	return level
}
