// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"strings"

	"github.com/jeranaias/notate/internal/annotation"
)

// =============================================================================
// ANNOTATE / UNANNOTATE
// =============================================================================

type annotateCommand struct {
	cli *CLI

	Args struct {
		File string   `positional-arg-name:"FILE" required:"yes"`
		Line int      `positional-arg-name:"LINE" required:"yes"`
		Text []string `positional-arg-name:"TEXT" required:"1"`
	} `positional-args:"yes"`
}

func (cmd *annotateCommand) Execute([]string) error {
	c := cmd.cli

	doc, err := c.loadDocument(cmd.Args.File)
	if err != nil {
		return err
	}

	text := strings.Join(cmd.Args.Text, " ")
	if err := doc.Annotate(cmd.Args.Line, text); err != nil {
		return NewCommandError("annotate", fmt.Sprintf("line %d", cmd.Args.Line), err)
	}
	if err := doc.Save(); err != nil {
		return NewCommandError("annotate", "write", err)
	}

	c.log.Info().Str("path", doc.Path).Int("line", cmd.Args.Line).Msg("annotated")
	fmt.Fprintf(c.stdout, "%s %s:%d\n", SuccessStyle.Render("Annotated"), cmd.Args.File, cmd.Args.Line)
	return nil
}

type unannotateCommand struct {
	cli *CLI

	Args struct {
		File string `positional-arg-name:"FILE" required:"yes"`
		Line int    `positional-arg-name:"LINE" required:"yes"`
	} `positional-args:"yes"`
}

func (cmd *unannotateCommand) Execute([]string) error {
	c := cmd.cli

	doc, err := c.loadDocument(cmd.Args.File)
	if err != nil {
		return err
	}
	if cmd.Args.Line < 1 || cmd.Args.Line > len(doc.Lines) {
		return NewCommandError("unannotate", fmt.Sprintf("line %d", cmd.Args.Line), annotation.ErrLineOutOfRange)
	}
	if !doc.Unannotate(cmd.Args.Line) {
		return NewNotFoundError("annotation", fmt.Sprintf("%s:%d", cmd.Args.File, cmd.Args.Line))
	}
	if err := doc.Save(); err != nil {
		return NewCommandError("unannotate", "write", err)
	}

	c.log.Info().Str("path", doc.Path).Int("line", cmd.Args.Line).Msg("annotation removed")
	fmt.Fprintf(c.stdout, "%s %s:%d\n", SuccessStyle.Render("Removed"), cmd.Args.File, cmd.Args.Line)
	return nil
}

// =============================================================================
// STRIP
// =============================================================================

type stripCommand struct {
	cli *CLI

	Write bool `short:"w" long:"write" description:"Rewrite the file instead of printing it"`

	Args struct {
		File string `positional-arg-name:"FILE" required:"yes"`
	} `positional-args:"yes"`
}

func (cmd *stripCommand) Execute([]string) error {
	c := cmd.cli

	doc, err := c.loadDocument(cmd.Args.File)
	if err != nil {
		return err
	}

	if !cmd.Write {
		fmt.Fprint(c.stdout, strippedContent(doc))
		return nil
	}

	n := doc.StripAnnotations()
	if n > 0 {
		if err := doc.Save(); err != nil {
			return NewCommandError("strip", "write", err)
		}
	}
	c.log.Info().Str("path", doc.Path).Int("removed", n).Msg("annotations stripped")
	fmt.Fprintf(c.stdout, "%s %d annotation(s) from %s\n", SuccessStyle.Render("Removed"), n, cmd.Args.File)
	return nil
}

// loadDocument opens path with the configured markers and size limit.
func (c *CLI) loadDocument(path string) (*annotation.Document, error) {
	if err := exists(path); err != nil {
		return nil, err
	}
	return annotation.Load(path, annotation.LoadOptions{
		Markers: c.cfg.Annotations.Markers,
		MaxSize: c.cfg.Files.MaxFileSize,
	})
}
