package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	slogmulti "github.com/samber/slog-multi"
)

// DefaultFile is the log file name used when file logging is enabled without a path.
const DefaultFile = "turing_simulator.log"

// Options configures New.
type Options struct {
	// Writer receives text logs. Defaults to os.Stderr (to separate from Stdout output).
	Writer io.Writer

	// File, when set, additionally receives JSON logs.
	File io.Writer
}

// New creates a configured application logger.
// It writes text to Stderr and, when a file is given, fans out JSON records to it.
// It standardizes common keys (e.g., "error" -> "err").
func New(level slog.Level, opts Options) *slog.Logger {
	w := opts.Writer
	if w == nil {
		w = os.Stderr
	}
	handlerOpts := &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: replaceAttr,
	}

	handlers := []slog.Handler{slog.NewTextHandler(w, handlerOpts)}
	if opts.File != nil {
		handlers = append(handlers, slog.NewJSONHandler(opts.File, handlerOpts))
	}
	if len(handlers) == 1 {
		return slog.New(handlers[0])
	}
	return slog.New(slogmulti.Fanout(handlers...))
}

// OpenFile opens (or creates) a log file in append mode.
func OpenFile(path string) (*os.File, error) {
	if path == "" {
		path = DefaultFile
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return f, nil
}

// ParseLevel maps a level name (debug, info, warn, error) to a slog.Level.
func ParseLevel(name string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(name)); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q: %w", name, err)
	}
	return level, nil
}

// NewNop returns a no-op logger.
func NewNop() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// Standardize 'error' key to 'err'
func replaceAttr(groups []string, a slog.Attr) slog.Attr {
	if a.Key == "error" {
		a.Key = "err"
	}
	return a
}
