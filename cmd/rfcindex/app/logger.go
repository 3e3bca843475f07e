package app

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"github.com/agentstation/rfcindex/pkg/logging"
)

// NewLogger creates a configured logger based on the application configuration.
// Log level precedence (highest to lowest):
//  1. --log-level flag
//  2. -v/--verbose flag (debug)
//  3. -q/--quiet flag (warn)
//  4. LOG_LEVEL environment variable or config file
//  5. Default (info)
func NewLogger(config *Config) zerolog.Logger {
	level := determineLogLevel(config, os.Stderr)
	return logging.NewLoggerFromConfig(&logging.Config{
		Level:     level,
		Format:    config.LogFormat,
		Output:    config.LogOutput,
		NoColor:   config.NoColor,
		AddCaller: level == "debug" || level == "trace",
	})
}

// determineLogLevel applies the precedence rules, writing warnings about
// invalid or conflicting settings to warn.
func determineLogLevel(config *Config, warn io.Writer) string {
	if config.LogLevelFlag != "" {
		return validLevel(config.LogLevelFlag, warn)
	}

	switch {
	case config.Verbose && config.Quiet:
		_, _ = fmt.Fprintln(warn, "Warning: both --verbose and --quiet specified, using --quiet")
		return "warn"
	case config.Verbose:
		return "debug"
	case config.Quiet:
		return "warn"
	}

	if config.LogLevel != "" {
		return validLevel(config.LogLevel, warn)
	}
	return "info"
}

// validLevel returns level lowercased, or info when it is not a known level.
func validLevel(level string, warn io.Writer) string {
	normalized := strings.ToLower(strings.TrimSpace(level))
	switch normalized {
	case "trace", "debug", "info", "warn", "error":
		return normalized
	}
	_, _ = fmt.Fprintf(warn, "Warning: invalid log level %q, using \"info\"\n", level)
	return "info"
}
