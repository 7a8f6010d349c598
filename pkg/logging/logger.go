package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"
)

// Prefix marks every non-JSON log line.
const Prefix = "🎲 "

// Options describes how a logger is built.
type Options struct {
	Name   string
	Level  string // "debug", "info", ... or "json:<level>"
	Output io.Writer
}

// NewLogger creates a new hclog logger with standard settings
func NewLogger(name string, level string, output io.Writer) hclog.Logger {
	return New(Options{Name: name, Level: level, Output: output})
}

// New creates a logger from opts. A "json" or "json:<level>" level, or
// FIXTUREGEN_JSON_LOG=1, selects JSON output; otherwise lines carry Prefix.
func New(opts Options) hclog.Logger {
	output := opts.Output
	if output == nil {
		output = os.Stderr
	}

	level, jsonFormat := ParseLevel(opts.Level)
	if os.Getenv("FIXTUREGEN_JSON_LOG") == "1" {
		jsonFormat = true
	}

	// Add prefix for non-JSON output
	if !jsonFormat {
		output = NewPrefixWriter(Prefix, output)
	}

	return hclog.New(&hclog.LoggerOptions{
		Name:       opts.Name,
		Level:      hclog.LevelFromString(level),
		JSONFormat: jsonFormat,
		Output:     output,
		TimeFormat: "2006-01-02T15:04:05Z", // UTC ISO format
		TimeFn: func() time.Time {
			return time.Now().UTC()
		},
	})
}

// ParseLevel splits an optional "json:" prefix from a level string.
func ParseLevel(raw string) (level string, jsonFormat bool) {
	level = strings.ToLower(strings.TrimSpace(raw))
	if strings.HasPrefix(level, "json") {
		jsonFormat = true
		_, rest, found := strings.Cut(level, ":")
		if !found || rest == "" {
			rest = "info"
		}
		level = rest
	}
	if level == "" {
		level = "info"
	}
	return level, jsonFormat
}

// ResolveLevel picks the log level: CLI flag, then FIXTUREGEN_LOG_LEVEL, then "info".
// The second result names where the level came from.
func ResolveLevel(cliLevel string) (string, string) {
	if cliLevel != "" {
		return cliLevel, "CLI --log-level"
	}
	if envLevel := os.Getenv("FIXTUREGEN_LOG_LEVEL"); envLevel != "" {
		return envLevel, "FIXTUREGEN_LOG_LEVEL"
	}
	return "info", "default"
}

// OpenOutput returns the file named by FIXTUREGEN_LOG_PATH opened for append, or
// fallback when it is unset or cannot be opened.
func OpenOutput(fallback io.Writer) io.Writer {
	if logPath := os.Getenv("FIXTUREGEN_LOG_PATH"); logPath != "" {
		if file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644); err == nil {
			return file
		}
	}
	return fallback
}
