// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jeranaias/notate/internal/config"
	"github.com/jeranaias/notate/internal/review"
	"github.com/jeranaias/notate/internal/ui/app"
	"github.com/jeranaias/notate/internal/vcs"
)

type tuiCommand struct {
	cli *CLI

	NoWatch bool `long:"no-watch" description:"Do not reload files when they change on disk"`

	Args struct {
		Path string `positional-arg-name:"PATH" description:"Directory or file to open"`
	} `positional-args:"yes"`
}

func (tuiCommand) interactive() {}

func (cmd *tuiCommand) Execute([]string) error {
	c := cmd.cli

	path := cmd.Args.Path
	if path == "" {
		path = "."
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	info, err := os.Stat(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return NewNotFoundError("path", path)
		}
		return err
	}

	opts := app.Options{
		Root:   abs,
		Config: c.cfg,
		Watch:  c.cfg.Files.Watch && !cmd.NoWatch,
		Logger: c.log,
	}
	if !info.IsDir() {
		opts.Root = filepath.Dir(abs)
		opts.File = abs
	}

	git := vcs.NewGit(opts.Root, c.log)
	opts.Provider = git
	opts.Status = git

	store, err := review.Open(config.ExpandPath(c.cfg.Review.Database))
	if err != nil {
		// Reviewing still works, verdicts are just not kept.
		c.log.Warn().Err(err).Msg("review store unavailable")
		fmt.Fprintf(c.stderr, "%s review store unavailable: %v\n", WarningStyle.Render("[WARN]"), err)
	} else {
		defer store.Close()
		opts.Store = store
	}

	if c.requireTTY {
		if err := RequiresTTY("start the reviewer"); err != nil {
			return err
		}
	}

	c.log.Info().Str("root", opts.Root).Str("file", opts.File).Msg("starting reviewer")
	return c.runProgram(app.New(opts))
}
