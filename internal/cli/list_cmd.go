// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/jeranaias/notate/internal/annotation"
	"github.com/jeranaias/notate/internal/filetree"
)

type listCommand struct {
	cli *CLI

	Raw bool `long:"raw" description:"Print the markdown source instead of rendering it"`

	Args struct {
		Path string `positional-arg-name:"PATH" description:"File or directory (default: current directory)"`
	} `positional-args:"yes"`
}

// fileAnnotations are the annotations of one file.
type fileAnnotations struct {
	Path        string
	Annotations []annotation.Annotation
}

func (cmd *listCommand) Execute([]string) error {
	c := cmd.cli

	root := cmd.Args.Path
	if root == "" {
		root = "."
	}
	found, err := c.collectAnnotations(root)
	if err != nil {
		return err
	}

	md := annotationsMarkdown(found)
	if cmd.Raw {
		fmt.Fprint(c.stdout, md)
		return nil
	}

	out, err := renderMarkdown(md)
	if err != nil {
		c.log.Warn().Err(err).Msg("markdown rendering failed")
		out = md
	}
	fmt.Fprint(c.stdout, out)
	return nil
}

// collectAnnotations loads every file below root and keeps those with
// annotations. Binary and oversized files are skipped.
func (c *CLI) collectAnnotations(root string) ([]fileAnnotations, error) {
	if err := exists(root); err != nil {
		return nil, err
	}

	base := root
	var files []string
	if info, err := os.Stat(root); err == nil && !info.IsDir() {
		base = filepath.Dir(root)
		files = []string{root}
	} else {
		tree, err := filetree.Build(root, filetree.Options{Ignore: c.cfg.Files.IgnorePatterns})
		if err != nil {
			return nil, err
		}
		base = tree.Path
		for _, n := range tree.Files() {
			files = append(files, n.Path)
		}
	}

	opts := annotation.LoadOptions{
		Markers: c.cfg.Annotations.Markers,
		MaxSize: c.cfg.Files.MaxFileSize,
	}

	var found []fileAnnotations
	for _, path := range files {
		doc, err := annotation.Load(path, opts)
		if errors.Is(err, annotation.ErrBinaryFile) || errors.Is(err, annotation.ErrFileTooLarge) {
			c.log.Debug().Str("path", path).Err(err).Msg("skipped")
			continue
		}
		if err != nil {
			return nil, err
		}

		if anns := doc.Annotations(); len(anns) > 0 {
			rel := path
			if r, err := filepath.Rel(base, path); err == nil {
				rel = r
			}
			found = append(found, fileAnnotations{Path: filepath.ToSlash(rel), Annotations: anns})
		}
	}
	return found, nil
}

// annotationsMarkdown renders the annotations as one table per file.
func annotationsMarkdown(files []fileAnnotations) string {
	var sb strings.Builder
	sb.WriteString("# Annotations\n\n")

	if len(files) == 0 {
		sb.WriteString("_No annotations found._\n")
		return sb.String()
	}

	total := 0
	for _, f := range files {
		total += len(f.Annotations)
	}
	fmt.Fprintf(&sb, "%d annotation(s) in %d file(s).\n", total, len(files))

	for _, f := range files {
		fmt.Fprintf(&sb, "\n## %s\n\n", f.Path)
		sb.WriteString("| Line | Annotation |\n")
		sb.WriteString("| ---: | --- |\n")
		for _, a := range f.Annotations {
			fmt.Fprintf(&sb, "| %d | %s |\n", a.Line, escapeCell(a.Text))
		}
	}
	return sb.String()
}

// escapeCell keeps text from breaking a markdown table row.
func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

// renderMarkdown renders md for the terminal, or as plain text when colors
// are off.
func renderMarkdown(md string) (string, error) {
	style := glamour.WithStandardStyle("notty")
	if ColorsEnabled() {
		style = glamour.WithAutoStyle()
	}

	r, err := glamour.NewTermRenderer(
		style,
		glamour.WithWordWrap(GetTerminalWidth()),
	)
	if err != nil {
		return "", err
	}
	return r.Render(md)
}
