// Package telemetry builds the application logger.
package telemetry

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	clog "github.com/charmbracelet/log"
)

type Options struct {
	// Path receives JSON lines when set. Otherwise text goes to Fallback.
	Path     string
	Level    string
	Fallback io.Writer
	Fields   []any
}

// Logger pairs the charm logger with the file it writes to.
type Logger struct {
	*clog.Logger
	closer io.Closer
}

// NewLogger opens the log sink. With a path the file is appended to in JSON
// form at the configured level. Without one, only warnings and errors reach
// Fallback (stderr by default) so the TUI keeps the terminal.
func NewLogger(opts Options) (*Logger, error) {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(opts.Path) == "" {
		w := opts.Fallback
		if w == nil {
			w = os.Stderr
		}
		l := clog.NewWithOptions(w, clog.Options{
			Prefix: "stargazer",
			Level:  max(level, clog.WarnLevel),
		})
		return &Logger{Logger: l.With(opts.Fields...)}, nil
	}

	if err := os.MkdirAll(filepath.Dir(opts.Path), 0o755); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(opts.Path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, err
	}
	l := clog.NewWithOptions(f, clog.Options{
		Level:           level,
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339Nano,
		Formatter:       clog.JSONFormatter,
	})
	return &Logger{Logger: l.With(opts.Fields...), closer: f}, nil
}

// Discard returns a logger that drops everything.
func Discard() *Logger {
	return &Logger{Logger: clog.New(io.Discard)}
}

func ParseLevel(s string) (clog.Level, error) {
	if strings.TrimSpace(s) == "" {
		return clog.InfoLevel, nil
	}
	return clog.ParseLevel(strings.ToLower(strings.TrimSpace(s)))
}

func (l *Logger) Close() error {
	if l == nil || l.closer == nil {
		return nil
	}
	return l.closer.Close()
}
