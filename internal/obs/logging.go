// Package obs sets up structured logging.
package obs

import (
	"io"
	"log/slog"
	"os"
)

// NewLogger returns a text logger writing to w. Debug lowers the level from
// warn to debug; one-shot commands otherwise print only what the user asked for.
func NewLogger(w io.Writer, debug bool) *slog.Logger {
	level := slog.LevelWarn
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// OpenLogFile opens path for appending. The returned close func is never nil.
// An empty path yields a logger that discards everything.
func OpenLogFile(path string, debug bool) (*slog.Logger, func() error, error) {
	if path == "" || !debug {
		return NewLogger(io.Discard, false), func() error { return nil }, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, func() error { return nil }, err
	}
	return NewLogger(f, true), f.Close, nil
}
