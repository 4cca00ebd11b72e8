// Package output provides styled terminal output and a debug logfile for arbor.
package output

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/natefinch/lumberjack.v2"
)

// consoleHandler is a slog handler that writes bare messages, without
// timestamps or level prefixes, the way a CLI talks to its user.
type consoleHandler struct {
	writer    io.Writer
	debugMode bool
}

func (h *consoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	if level == slog.LevelDebug {
		return h.debugMode
	}
	return true
}

func (h *consoleHandler) Handle(_ context.Context, record slog.Record) error {
	_, err := fmt.Fprintln(h.writer, record.Message)
	return err
}

func (h *consoleHandler) WithAttrs(_ []slog.Attr) slog.Handler {
	return h
}

func (h *consoleHandler) WithGroup(_ string) slog.Handler {
	return h
}

// Splog writes user-facing output to the terminal and everything, including
// debug messages, to a rotating logfile.
type Splog struct {
	console *slog.Logger
	file    *slog.Logger
	errOut  io.Writer
}

// NewSplog creates a Splog writing to stdout/stderr and the default logfile
func NewSplog() *Splog {
	return NewSplogWithOptions(os.Stdout, os.Stderr, os.Getenv("ARBOR_DEBUG") != "")
}

// NewSplogWithOptions creates a Splog with explicit writers, for tests
func NewSplogWithOptions(out, errOut io.Writer, debug bool) *Splog {
	s := &Splog{
		console: slog.New(&consoleHandler{writer: out, debugMode: debug}),
		errOut:  errOut,
	}
	if path := logFilePath(); path != "" {
		rotated := &lumberjack.Logger{
			Filename:   path,
			MaxSize:    1, // MB
			MaxBackups: 2,
			MaxAge:     30, // days
		}
		s.file = slog.New(slog.NewTextHandler(rotated, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
	return s
}

// logFilePath returns the logfile location, ARBOR_LOG_FILE overriding the
// default of ~/.arbor/logs/arbor.log. An empty string disables the logfile.
func logFilePath() string {
	if custom := os.Getenv("ARBOR_LOG_FILE"); custom != "" {
		return custom
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(homeDir, ".arbor", "logs", "arbor.log")
}

// Info writes an info message
func (s *Splog) Info(format string, args ...interface{}) {
	s.console.Info(fmt.Sprintf(format, args...))
	if s.file != nil {
		s.file.Info(fmt.Sprintf(format, args...))
	}
}

// Warn writes a warning message
func (s *Splog) Warn(format string, args ...interface{}) {
	s.console.Warn(WarnStyle.Render("⚠") + " " + fmt.Sprintf(format, args...))
	if s.file != nil {
		s.file.Warn(fmt.Sprintf(format, args...))
	}
}

// Debug writes a debug message, shown on the console only when ARBOR_DEBUG is set
func (s *Splog) Debug(format string, args ...interface{}) {
	s.console.Debug(fmt.Sprintf(format, args...))
	if s.file != nil {
		s.file.Debug(fmt.Sprintf(format, args...))
	}
}

// Tip writes a tip message
func (s *Splog) Tip(format string, args ...interface{}) {
	s.console.Info(TipStyle.Render("tip:") + " " + fmt.Sprintf(format, args...))
}

// Error writes an error with a styled header line to the error stream
func (s *Splog) Error(err error) {
	fmt.Fprintln(s.errOut, ErrorHeaderStyle.Render("Error"))
	fmt.Fprintf(s.errOut, "  %v\n", err)
	if s.file != nil {
		s.file.Error(err.Error())
	}
}
