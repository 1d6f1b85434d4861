// Package logger builds the structured logger shared by every component.
//
// The terminal belongs to the UI, so log output goes to a file opened through
// tea.LogToFile, or nowhere when no file is configured.
package logger

import (
	"io"
	"log/slog"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

const prefix = "jiyu"

var logLevels = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

// New returns a logger writing to logPath at the given level, and a function closing the file.
func New(logPath, level string) (*slog.Logger, func() error, error) {
	if logPath == "" {
		return Discard(), func() error { return nil }, nil
	}

	f, err := tea.LogToFile(logPath, prefix)
	if err != nil {
		return nil, nil, err
	}

	return NewWithWriter(f, level), f.Close, nil
}

// NewWithWriter returns a text logger writing to w.
func NewWithWriter(w io.Writer, level string) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level:     LogLevel(level),
		AddSource: LogLevel(level) == slog.LevelDebug,
	}))
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// LogLevel maps a level name to its slog.Level, defaulting to info.
func LogLevel(level string) slog.Level {
	l, ok := logLevels[strings.ToLower(strings.TrimSpace(level))]
	if !ok {
		return slog.LevelInfo
	}
	return l
}
