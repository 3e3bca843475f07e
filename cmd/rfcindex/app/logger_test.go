package app

import (
	"bytes"
	"strings"
	"testing"
)

// TestDetermineLogLevel tests the log level precedence logic.
func TestDetermineLogLevel(t *testing.T) {
	tests := []struct {
		name     string
		config   *Config
		expected string
		warning  string
	}{
		{"default", &Config{}, "info", ""},
		{"verbose", &Config{Verbose: true}, "debug", ""},
		{"quiet", &Config{Quiet: true}, "warn", ""},
		{"flag overrides verbose", &Config{LogLevelFlag: "error", Verbose: true}, "error", ""},
		{"flag overrides quiet", &Config{LogLevelFlag: "trace", Quiet: true}, "trace", ""},
		{"verbose and quiet prefers quiet", &Config{Verbose: true, Quiet: true}, "warn", "both --verbose and --quiet"},
		{"environment level", &Config{LogLevel: "debug"}, "debug", ""},
		{"verbose overrides environment", &Config{LogLevel: "error", Verbose: true}, "debug", ""},
		{"flag overrides environment", &Config{LogLevel: "error", LogLevelFlag: "warn"}, "warn", ""},
		{"level is case insensitive", &Config{LogLevelFlag: "DEBUG"}, "debug", ""},
		{"invalid flag falls back to info", &Config{LogLevelFlag: "loud"}, "info", `invalid log level "loud"`},
		{"invalid environment falls back to info", &Config{LogLevel: "loud"}, "info", `invalid log level "loud"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var warn bytes.Buffer
			got := determineLogLevel(tt.config, &warn)
			if got != tt.expected {
				t.Errorf("determineLogLevel() = %q, want %q", got, tt.expected)
			}
			if tt.warning == "" && warn.Len() > 0 {
				t.Errorf("unexpected warning: %s", warn.String())
			}
			if tt.warning != "" && !strings.Contains(warn.String(), tt.warning) {
				t.Errorf("warning %q does not contain %q", warn.String(), tt.warning)
			}
		})
	}
}

// TestNewLoggerLevel verifies the resolved level reaches the logger.
func TestNewLoggerLevel(t *testing.T) {
	logger := NewLogger(&Config{Quiet: true, LogFormat: "json", LogOutput: "discard"})
	if got := logger.GetLevel().String(); got != "warn" {
		t.Errorf("logger level = %q, want warn", got)
	}
}
