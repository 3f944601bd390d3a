// ABOUTME: Structured application logger built on charmbracelet/log
// ABOUTME: Parses level names and tags log lines with a component

// Package logger provides structured logging functionality
package logger

import (
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
)

// Logger wraps log.Logger for application-wide logging
type Logger struct {
	*log.Logger
}

// Config holds logger configuration
type Config struct {
	Level  string // debug, info, warn, error
	Format string // text, json, logfmt
}

// Levels lists the accepted level names.
var Levels = []string{"debug", "info", "warn", "error"}

// Formats lists the accepted format names.
var Formats = []string{"text", "json", "logfmt"}

// ValidLevel reports whether s names a known level.
func ValidLevel(s string) bool {
	return contains(Levels, strings.ToLower(s))
}

// ValidFormat reports whether s names a known format.
func ValidFormat(s string) bool {
	return contains(Formats, strings.ToLower(s))
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// New creates a new structured logger writing to stderr, keeping stdout for command output
func New(cfg Config) *Logger {
	return NewWithWriter(os.Stderr, cfg)
}

// NewWithWriter creates a new structured logger writing to w
func NewWithWriter(w io.Writer, cfg Config) *Logger {
	level, err := log.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil {
		level = log.InfoLevel
	}

	var formatter log.Formatter
	switch strings.ToLower(cfg.Format) {
	case "json":
		formatter = log.JSONFormatter
	case "logfmt":
		formatter = log.LogfmtFormatter
	default:
		formatter = log.TextFormatter
	}

	return &Logger{
		Logger: log.NewWithOptions(w, log.Options{
			Level:           level,
			Formatter:       formatter,
			ReportTimestamp: true,
		}),
	}
}

// WithComponent returns a logger with a component attribute
func (l *Logger) WithComponent(component string) *Logger {
	return &Logger{
		Logger: l.With("component", component),
	}
}

// Default returns a default logger for quick usage
func Default() *Logger {
	return New(Config{
		Level:  "info",
		Format: "text",
	})
}

// Discard returns a logger that drops everything
func Discard() *Logger {
	return NewWithWriter(io.Discard, Config{Level: "error"})
}
