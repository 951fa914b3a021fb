package logging

import (
	"io"
	"log/slog"
	"os"

	"github.com/mattn/go-isatty"
)

// LevelTrace sits below slog.LevelDebug for per-frame output.
const LevelTrace = slog.Level(-8)

// Level maps a 0..5 verbosity onto a slog level. Zero silences everything
// but the returned bool is false so callers can discard output entirely.
func Level(verbosity int) (slog.Level, bool) {
	switch {
	case verbosity <= 0:
		return slog.LevelError, false
	case verbosity == 1:
		return slog.LevelError, true
	case verbosity == 2:
		return slog.LevelWarn, true
	case verbosity == 3:
		return slog.LevelInfo, true
	case verbosity == 4:
		return slog.LevelDebug, true
	default:
		return LevelTrace, true
	}
}

// New returns a logger writing to w: human readable text on a terminal,
// JSON lines otherwise.
func New(w io.Writer, verbosity int) *slog.Logger {
	level, enabled := Level(verbosity)
	if !enabled {
		w = io.Discard
	}
	opts := &slog.HandlerOptions{Level: level}
	if isTerminal(w) {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
