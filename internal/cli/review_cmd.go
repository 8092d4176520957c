// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/jeranaias/notate/internal/annotation"
	"github.com/jeranaias/notate/internal/config"
	"github.com/jeranaias/notate/internal/review"
)

// storeTimeout bounds database work done by review commands.
const storeTimeout = 10 * time.Second

// reviewCommand groups the verdict subcommands.
type reviewCommand struct{}

func (c *CLI) addReviewCommands() {
	group := c.addCommand("review", "Record and query review verdicts",
		"Approve or reject files and list the recorded verdicts.", &reviewCommand{})

	add := func(name, short, long string, data any) {
		if _, err := group.AddCommand(name, short, long, data); err != nil {
			panic(err)
		}
	}
	add("mark", "Approve or reject a file", "Record a verdict for the current contents of FILE.", &reviewMarkCommand{cli: c})
	add("list", "List verdicts", "List every recorded verdict and whether the file changed since.", &reviewListCommand{cli: c})
	add("clear", "Forget a verdict", "Remove the recorded verdict of FILE.", &reviewClearCommand{cli: c})
}

// openStore opens the configured review database.
func (c *CLI) openStore() (*review.Store, error) {
	path := config.ExpandPath(c.cfg.Review.Database)
	store, err := review.Open(path)
	if err != nil {
		return nil, NewCommandError("review", "open "+path, err)
	}
	return store, nil
}

// =============================================================================
// MARK
// =============================================================================

type reviewMarkCommand struct {
	cli *CLI

	Verdict string `long:"verdict" required:"yes" description:"approved or rejected" value-name:"VERDICT"`
	Note    string `long:"note" description:"Free-form note stored with the verdict"`

	Args struct {
		File string `positional-arg-name:"FILE" required:"yes"`
	} `positional-args:"yes"`
}

func (cmd *reviewMarkCommand) Execute([]string) error {
	c := cmd.cli

	verdict, err := review.ParseVerdict(cmd.Verdict)
	if err != nil {
		return err
	}

	doc, err := c.loadDocument(cmd.Args.File)
	if err != nil {
		return err
	}
	abs, err := filepath.Abs(doc.Path)
	if err != nil {
		return err
	}

	store, err := c.openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()

	err = store.Mark(ctx, review.Entry{
		Path:        abs,
		ContentHash: review.HashLines(doc.Stripped()),
		Verdict:     verdict,
		Note:        cmd.Note,
	})
	if err != nil {
		return NewCommandError("review mark", cmd.Args.File, err)
	}

	c.log.Info().Str("path", abs).Stringer("verdict", verdict).Msg("verdict recorded")
	fmt.Fprintf(c.stdout, "%s %s\n", RenderVerdict(verdict), cmd.Args.File)
	return nil
}

// =============================================================================
// LIST
// =============================================================================

type reviewListCommand struct {
	cli *CLI
}

func (cmd *reviewListCommand) Execute([]string) error {
	c := cmd.cli

	store, err := c.openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()

	entries, err := store.List(ctx)
	if err != nil {
		return NewCommandError("review list", "query", err)
	}
	if len(entries) == 0 {
		fmt.Fprintln(c.stdout, DimStyle.Render("No verdicts recorded."))
		return nil
	}

	opts := annotation.LoadOptions{
		Markers: c.cfg.Annotations.Markers,
		MaxSize: c.cfg.Files.MaxFileSize,
	}

	tw := tabwriter.NewWriter(c.stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "PATH\tVERDICT\tSTATE\tREVIEWED")
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
			displayPath(e.Path), e.Verdict, entryState(e, opts), e.ReviewedAt.Local().Format("2006-01-02 15:04"))
	}
	return tw.Flush()
}

// entryState compares e with the file on disk.
func entryState(e review.Entry, opts annotation.LoadOptions) string {
	doc, err := annotation.Load(e.Path, opts)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return "missing"
	case err != nil:
		return "unreadable"
	case e.Stale(review.HashLines(doc.Stripped())):
		return "changed"
	default:
		return "current"
	}
}

// displayPath shortens path relative to the working directory when it lies
// below it.
func displayPath(path string) string {
	wd, err := os.Getwd()
	if err != nil {
		return path
	}
	rel, err := filepath.Rel(wd, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return path
	}
	return filepath.ToSlash(rel)
}

// =============================================================================
// CLEAR
// =============================================================================

type reviewClearCommand struct {
	cli *CLI

	Args struct {
		File string `positional-arg-name:"FILE" required:"yes"`
	} `positional-args:"yes"`
}

func (cmd *reviewClearCommand) Execute([]string) error {
	c := cmd.cli

	abs, err := filepath.Abs(cmd.Args.File)
	if err != nil {
		return err
	}

	store, err := c.openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()

	removed, err := store.Clear(ctx, abs)
	if err != nil {
		return NewCommandError("review clear", cmd.Args.File, err)
	}
	if !removed {
		return NewNotFoundError("verdict", cmd.Args.File)
	}

	fmt.Fprintf(c.stdout, "%s %s\n", SuccessStyle.Render("Cleared"), cmd.Args.File)
	return nil
}
