// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package logging

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Format is a log output format.
type Format int

const (
	// FormatConsole is human-readable, colored on terminals
	FormatConsole Format = iota
	// FormatJSON is one JSON object per line
	FormatJSON
	// FormatText is human-readable without color
	FormatText
)

// String returns the string representation of a format.
func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatText:
		return "text"
	default:
		return "console"
	}
}

// ParseFormat parses a format name, falling back to console.
func ParseFormat(s string) Format {
	f, err := ParseFormatStrict(s)
	if err != nil {
		return FormatConsole
	}
	return f
}

// ParseFormatStrict parses a format name and reports unknown names.
func ParseFormatStrict(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "console", "":
		return FormatConsole, nil
	case "json":
		return FormatJSON, nil
	case "text":
		return FormatText, nil
	default:
		return FormatConsole, fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// WriterStrategy wraps an output in a formatting writer.
type WriterStrategy interface {
	CreateWriter(output io.Writer) io.Writer
}

// JSONWriterStrategy writes zerolog's native JSON.
type JSONWriterStrategy struct{}

// CreateWriter returns output unchanged.
func (JSONWriterStrategy) CreateWriter(output io.Writer) io.Writer {
	return output
}

// ConsoleWriterStrategy writes human-readable lines.
type ConsoleWriterStrategy struct {
	NoColor bool
}

// CreateWriter creates a console writer.
func (s ConsoleWriterStrategy) CreateWriter(output io.Writer) io.Writer {
	return zerolog.ConsoleWriter{
		Out:        output,
		TimeFormat: time.RFC3339,
		NoColor:    s.NoColor,
	}
}

// strategyFor picks the strategy of a format. Text is console without color;
// file outputs never use color.
func strategyFor(f Format, file bool) WriterStrategy {
	switch f {
	case FormatJSON:
		return JSONWriterStrategy{}
	case FormatText:
		return ConsoleWriterStrategy{NoColor: true}
	default:
		return ConsoleWriterStrategy{NoColor: file}
	}
}
