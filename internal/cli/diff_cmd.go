// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/jeranaias/notate/internal/annotation"
	"github.com/jeranaias/notate/internal/diff"
	"github.com/jeranaias/notate/internal/ui/components"
	"github.com/jeranaias/notate/internal/ui/styles"
	"github.com/jeranaias/notate/internal/vcs"
)

// gitTimeout bounds git invocations made by commands.
const gitTimeout = 10 * time.Second

type diffCommand struct {
	cli *CLI

	Unified bool `short:"u" long:"unified" description:"Unified output instead of side by side"`
	Patch   bool `long:"patch" description:"Print a patch for git apply (annotations removed, whitespace kept)"`
	Context *int `long:"context" description:"Context lines for unified output (default from config)" value-name:"N"`
	NoColor bool `long:"no-color" description:"Disable colors and syntax highlighting"`
	Width   int  `long:"width" description:"Output width (default: terminal width)" value-name:"COLS"`

	Args struct {
		File string `positional-arg-name:"FILE" required:"yes"`
	} `positional-args:"yes"`
}

// fileDiff is a loaded file with its baseline and their alignment.
type fileDiff struct {
	doc      *annotation.Document
	rel      string
	baseline string
	tracked  bool
	result   diff.Result
}

func (cmd *diffCommand) Execute([]string) error {
	c := cmd.cli

	fd, err := c.loadDiff(cmd.Args.File)
	if err != nil {
		return err
	}

	contextLines := c.cfg.Diff.ContextLines
	if cmd.Context != nil {
		if *cmd.Context < 0 {
			return NewValidationError("context", fmt.Sprint(*cmd.Context), "must not be negative")
		}
		contextLines = *cmd.Context
	}

	if !fd.tracked && !cmd.Patch {
		fmt.Fprintln(c.stderr, DimStyle.Render(fd.rel+" is not tracked at HEAD; every line shows as added"))
	}

	switch {
	case cmd.Patch:
		fmt.Fprint(c.stdout, diff.Patch(fd.rel, fd.baseline, strippedContent(fd.doc)))
	case cmd.Unified:
		fmt.Fprint(c.stdout, diff.FormatUnified(fd.rel, fd.result, contextLines))
	default:
		fmt.Fprintln(c.stdout, cmd.render(fd))
	}
	return nil
}

// render draws the side-by-side view at the output width.
func (cmd *diffCommand) render(fd *fileDiff) string {
	c := cmd.cli

	profile := GetColorProfile()
	if cmd.NoColor {
		profile = termenv.Ascii
		lipgloss.SetColorProfile(termenv.Ascii)
	}
	width := cmd.Width
	if width <= 0 {
		width = GetTerminalWidth()
	}

	viewer := components.NewDiffViewer(styles.NewTheme(c.cfg.UI.Theme))
	viewer.SetTabWidth(c.cfg.UI.TabWidth)
	viewer.SetLineNumbers(c.cfg.UI.LineNumbers)
	viewer.SetShowWhitespace(c.cfg.Diff.ShowWhitespace)
	viewer.SetHighlighter(components.NewHighlighter(fd.rel, c.cfg.UI.SyntaxStyle, profile))
	// Room for every row: a modified line takes two in unified layouts.
	viewer.SetSize(width, 2*len(fd.result.Lines)+2)
	viewer.SetDiff(fd.rel, fd.result, fd.doc.Lines)
	return viewer.View()
}

// loadDiff reads path and aligns it with its HEAD version.
func (c *CLI) loadDiff(path string) (*fileDiff, error) {
	if err := exists(path); err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	doc, err := annotation.Load(abs, annotation.LoadOptions{
		Markers: c.cfg.Annotations.Markers,
		MaxSize: c.cfg.Files.MaxFileSize,
	})
	if err != nil {
		return nil, err
	}

	git := vcs.NewGit(filepath.Dir(abs), c.log)
	ctx, cancel := context.WithTimeout(context.Background(), gitTimeout)
	defer cancel()

	baseline, tracked, err := vcs.ResolveBaseline(ctx, git, abs)
	if err != nil {
		return nil, NewCommandError("diff", "baseline", err)
	}

	rel := filepath.ToSlash(path)
	if root, err := git.Root(ctx, filepath.Dir(abs)); err == nil {
		if r, err := filepath.Rel(root, abs); err == nil {
			rel = filepath.ToSlash(r)
		}
	}

	c.log.Debug().Str("path", rel).Bool("tracked", tracked).Msg("diffing")
	return &fileDiff{
		doc:      doc,
		rel:      rel,
		baseline: baseline,
		tracked:  tracked,
		result:   diff.Align(doc.Stripped(), baseline),
	}, nil
}

// strippedContent renders doc without annotations, keeping its line endings.
func strippedContent(doc *annotation.Document) string {
	stripped := *doc
	stripped.Lines = doc.Stripped()
	return stripped.Content()
}
