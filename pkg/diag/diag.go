// Package diag builds the process-wide diagnostics sink. It is configured
// once at startup with injectable destinations and handed to components as
// a *slog.Logger; components accept nil to mean silent. There is no
// package-level mutable logger state.
package diag

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Options controls the sink destinations.
type Options struct {
	// Level is the minimum record level; zero value is Info.
	Level slog.Level
	// Dir enables a rotating file sink in the given directory when
	// non-empty.
	Dir string
	// Writers are additional destinations (tests inject buffers here).
	// When empty and Dir is empty, records go to stderr.
	Writers []io.Writer
}

// Rotation settings for the file sink.
const (
	maxSizeMB  = 10
	maxBackups = 5
)

// New builds the logger. The returned close function flushes and closes the
// file sink; it is a no-op when no file sink was configured.
func New(opts Options) (*slog.Logger, func() error) {
	writers := append([]io.Writer(nil), opts.Writers...)
	closer := func() error { return nil }

	if opts.Dir != "" {
		lj := &lumberjack.Logger{
			Filename:   filepath.Join(opts.Dir, "biograph.log"),
			MaxSize:    maxSizeMB,
			MaxBackups: maxBackups,
			Compress:   true,
		}
		writers = append(writers, lj)
		closer = lj.Close
	}
	if len(writers) == 0 {
		writers = append(writers, os.Stderr)
	}

	handler := slog.NewTextHandler(io.MultiWriter(writers...), &slog.HandlerOptions{
		Level: opts.Level,
	})
	return slog.New(handler), closer
}
