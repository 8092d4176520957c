// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package annotation

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/jeranaias/notate/internal/util"
)

var (
	// ErrBinaryFile is returned when loading a file that is not text
	ErrBinaryFile = errors.New("binary file")
	// ErrFileTooLarge is returned when a file exceeds the configured size limit
	ErrFileTooLarge = errors.New("file too large")
)

// Document is a text file opened for annotation.
type Document struct {
	Path            string
	Marker          string
	Lines           []string // Lines without line endings
	TrailingNewline bool     // Whether the file ends with a line ending
	CRLF            bool     // Whether lines end with "\r\n"
}

// LoadOptions tune Load.
type LoadOptions struct {
	Markers map[string]string // Marker overrides, see MarkerFor
	MaxSize int64             // Maximum file size in bytes, 0 for no limit
}

// Load reads the document at path.
func Load(path string, opts LoadOptions) (*Document, error) {
	if opts.MaxSize > 0 {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("failed to stat %s: %w", path, err)
		}
		if info.Size() > opts.MaxSize {
			return nil, fmt.Errorf("%s: %w (%d bytes)", path, ErrFileTooLarge, info.Size())
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if bytes.IndexByte(data, 0) >= 0 || !utf8.Valid(data) {
		return nil, fmt.Errorf("%s: %w", path, ErrBinaryFile)
	}

	doc := Parse(string(data))
	doc.Path = path
	doc.Marker = MarkerFor(path, opts.Markers)
	return doc, nil
}

// Parse splits content into a Document without a path or marker.
func Parse(content string) *Document {
	doc := &Document{}
	if content == "" {
		return doc
	}

	doc.CRLF = strings.Contains(content, "\r\n")
	doc.TrailingNewline = strings.HasSuffix(content, "\n")

	body := strings.TrimSuffix(content, "\n")
	if doc.CRLF {
		body = strings.TrimSuffix(body, "\r")
	}
	doc.Lines = strings.Split(body, "\n")
	if doc.CRLF {
		for i, line := range doc.Lines {
			doc.Lines[i] = strings.TrimSuffix(line, "\r")
		}
	}
	return doc
}

// Content renders the document back to file content.
func (d *Document) Content() string {
	if len(d.Lines) == 0 {
		return ""
	}
	eol := "\n"
	if d.CRLF {
		eol = "\r\n"
	}
	content := strings.Join(d.Lines, eol)
	if d.TrailingNewline {
		content += eol
	}
	return content
}

// Stripped returns the lines with every annotation removed, ready to be
// diffed against the baseline.
func (d *Document) Stripped() []string {
	return StripAll(d.Lines, d.Marker)
}

// Annotations returns the annotations of the document in line order.
func (d *Document) Annotations() []Annotation {
	return Extract(d.Lines, d.Marker)
}

// Annotate sets the annotation of the 1-based line.
func (d *Document) Annotate(line int, text string) error {
	lines, err := Add(d.Lines, line, text, d.Marker)
	if err != nil {
		return fmt.Errorf("annotate %s:%d: %w", d.Path, line, err)
	}
	d.Lines = lines
	return nil
}

// Unannotate removes the annotation of the 1-based line and reports whether
// there was one.
func (d *Document) Unannotate(line int) bool {
	lines, ok := Remove(d.Lines, line, d.Marker)
	if ok {
		d.Lines = lines
	}
	return ok
}

// StripAnnotations removes every annotation and returns how many there were.
func (d *Document) StripAnnotations() int {
	n := len(d.Annotations())
	if n > 0 {
		d.Lines = d.Stripped()
	}
	return n
}

// Save writes the document back to its path atomically.
func (d *Document) Save() error {
	if d.Path == "" {
		return errors.New("document has no path")
	}
	if err := util.RewriteFile(d.Path, []byte(d.Content())); err != nil {
		return fmt.Errorf("failed to save %s: %w", d.Path, err)
	}
	return nil
}
