// Package logging configures the process-wide slog logger.
package logging

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Options controls where logs go.
type Options struct {
	Level int
	// File, when set, receives a rotated copy of every record.
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// New builds a JSON logger writing to out and, if configured, to a rotating
// file. The returned closer releases the file.
func New(out io.Writer, opts Options) (*slog.Logger, io.Closer, error) {
	var closer io.Closer = nopCloser{}
	w := out

	if opts.File != "" {
		if err := os.MkdirAll(filepath.Dir(opts.File), 0o755); err != nil {
			return nil, nil, err
		}
		rotator := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    orDefault(opts.MaxSizeMB, 50),
			MaxBackups: orDefault(opts.MaxBackups, 5),
			MaxAge:     orDefault(opts.MaxAgeDays, 28),
			Compress:   true,
		}
		w = io.MultiWriter(out, rotator)
		closer = rotator
	}

	logger := slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.Level(opts.Level)}))
	return logger, closer, nil
}

// Setup installs the logger as the slog default.
func Setup(opts Options) (io.Closer, error) {
	logger, closer, err := New(os.Stdout, opts)
	if err != nil {
		return nil, err
	}
	slog.SetDefault(logger)
	return closer, nil
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
