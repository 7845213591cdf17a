// Package logging builds the process logger: zerolog writing to a rotating file.
package logging

import (
	"errors"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	// Name is attached to every log line
	Name = "youtube_info_updater"

	// DefaultMaxSizeMB caps the active log file at 10MiB (lumberjack counts megabytes as 1024*1024 bytes)
	DefaultMaxSizeMB = 10
	// DefaultMaxBackups keeps two rotated files next to the active one
	DefaultMaxBackups = 2
)

// Options configures the logger
type Options struct {
	File       string
	Level      string
	Debug      bool
	Console    bool
	MaxSizeMB  int
	MaxBackups int

	// ConsoleOut overrides where console output goes, stderr when nil
	ConsoleOut io.Writer
}

// New creates the logger. The returned closer releases the log file.
func New(opts Options) (zerolog.Logger, io.Closer, error) {
	if opts.File == "" {
		return zerolog.Nop(), nil, errors.New("log file path is required")
	}
	if opts.MaxSizeMB <= 0 {
		opts.MaxSizeMB = DefaultMaxSizeMB
	}
	if opts.MaxBackups <= 0 {
		opts.MaxBackups = DefaultMaxBackups
	}

	file := &lumberjack.Logger{
		Filename:   opts.File,
		MaxSize:    opts.MaxSizeMB,
		MaxBackups: opts.MaxBackups,
	}

	writers := []io.Writer{file}
	if opts.Console {
		out := opts.ConsoleOut
		if out == nil {
			out = os.Stderr
		}
		writers = append(writers, zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: time.RFC3339,
		})
	}

	logger := zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(ParseLevel(opts.Level, opts.Debug)).
		With().
		Timestamp().
		Str("name", Name).
		Logger()

	return logger, file, nil
}

// ParseLevel resolves the configured level, falling back to info.
// debug forces the debug level.
func ParseLevel(level string, debug bool) zerolog.Level {
	if debug {
		return zerolog.DebugLevel
	}

	if level == "" {
		return zerolog.InfoLevel
	}
	parsed, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || parsed == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return parsed
}
