// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package logging builds the zerolog loggers used across notate.
//
// The TUI owns the terminal, so it logs to the rotating log file only; the
// command line subcommands may add a console writer on stderr.
package logging

import (
	"errors"
	"io"
	stdlog "log"
	"os"
	"path/filepath"
	"strings"

	"github.com/jeranaias/notate/internal/config"
	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options holds the resolved logger settings.
type Options struct {
	Level      zerolog.Level
	Format     Format
	Console    bool
	FilePath   string
	MaxSizeMB  int
	MaxBackups int
}

// Builder provides a fluent interface for building loggers.
type Builder struct {
	opts    Options
	console io.Writer
}

// NewBuilder creates a builder with info level and no outputs.
func NewBuilder() *Builder {
	return &Builder{
		opts: Options{
			Level:      zerolog.InfoLevel,
			Format:     FormatConsole,
			MaxSizeMB:  10,
			MaxBackups: 3,
		},
		console: os.Stderr,
	}
}

// WithConfig applies the [log] section of the configuration.
func (b *Builder) WithConfig(cfg config.LogConfig) *Builder {
	b.opts.Level = ParseLevel(cfg.Level)
	b.opts.Format = ParseFormat(cfg.Format)
	b.opts.FilePath = config.ExpandPath(cfg.File)
	if cfg.MaxSizeMB > 0 {
		b.opts.MaxSizeMB = cfg.MaxSizeMB
	}
	if cfg.MaxBackups >= 0 {
		b.opts.MaxBackups = cfg.MaxBackups
	}
	return b
}

// WithLevel overrides the level, e.g. from a command line flag.
func (b *Builder) WithLevel(level string) *Builder {
	if level != "" {
		b.opts.Level = ParseLevel(level)
	}
	return b
}

// WithConsole enables or disables the console writer.
func (b *Builder) WithConsole(enabled bool) *Builder {
	b.opts.Console = enabled
	return b
}

// WithConsoleWriter sets where console output goes (stderr by default).
func (b *Builder) WithConsoleWriter(w io.Writer) *Builder {
	b.console = w
	return b
}

// Build creates the logger. The returned closer releases the log file and
// must be called on shutdown. Without any output a disabled logger is
// returned.
func (b *Builder) Build() (zerolog.Logger, io.Closer, error) {
	var writers []io.Writer
	var closer io.Closer = nopCloser{}

	if b.opts.Console && b.console != nil {
		writers = append(writers, strategyFor(b.opts.Format, false).CreateWriter(b.console))
	}

	if b.opts.FilePath != "" {
		if err := os.MkdirAll(filepath.Dir(b.opts.FilePath), 0755); err != nil {
			return zerolog.Nop(), closer, err
		}
		file := &lumberjack.Logger{
			Filename:   b.opts.FilePath,
			MaxSize:    b.opts.MaxSizeMB,
			MaxBackups: b.opts.MaxBackups,
			LocalTime:  true,
		}
		closer = file
		// Files never get color codes
		writers = append(writers, strategyFor(b.opts.Format, true).CreateWriter(file))
	}

	if len(writers) == 0 {
		return zerolog.Nop(), closer, nil
	}

	logger := zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(b.opts.Level).
		With().
		Timestamp().
		Logger()

	// Route the standard library logger through zerolog so nothing writes
	// to the terminal behind the TUI's back.
	stdlog.SetOutput(logger)
	stdlog.SetFlags(0)

	return logger, closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// =============================================================================
// PARSERS
// =============================================================================

// ParseLevel parses a level name, falling back to info.
func ParseLevel(s string) zerolog.Level {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "warning" {
		s = "warn"
	}
	level, err := zerolog.ParseLevel(s)
	if err != nil || s == "" {
		return zerolog.InfoLevel
	}
	return level
}

// ErrUnknownFormat is reported by ParseFormatStrict.
var ErrUnknownFormat = errors.New("unknown log format")
