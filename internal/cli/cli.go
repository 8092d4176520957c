// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jessevdk/go-flags"
	"github.com/rs/zerolog"

	"github.com/jeranaias/notate/internal/config"
	"github.com/jeranaias/notate/internal/logging"
)

// Version information (can be overridden at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// GlobalOptions are accepted by every command.
type GlobalOptions struct {
	Config   string `short:"c" long:"config" description:"Configuration file (TOML or JSON)" value-name:"FILE"`
	Verbose  bool   `short:"v" long:"verbose" description:"Log debug output to stderr"`
	LogLevel string `long:"log-level" description:"Log level" choice:"debug" choice:"info" choice:"warn" choice:"error"`
}

// CLI holds the parser and the state shared by commands.
type CLI struct {
	Global GlobalOptions

	parser *flags.Parser
	stdout io.Writer
	stderr io.Writer

	cfg       *config.Config
	log       zerolog.Logger
	logCloser io.Closer

	// runProgram runs the TUI; replaced in tests.
	runProgram func(m tea.Model) error
	requireTTY bool
}

// configFree is implemented by commands that must work with a broken or
// missing configuration.
type configFree interface {
	configFree()
}

// interactive is implemented by commands that own the terminal.
type interactive interface {
	interactive()
}

// New creates a CLI writing to stdout and stderr.
func New(stdout, stderr io.Writer) *CLI {
	c := &CLI{
		stdout:     stdout,
		stderr:     stderr,
		log:        zerolog.Nop(),
		runProgram: runProgram,
		requireTTY: true,
	}

	p := flags.NewNamedParser("notate", flags.HelpFlag|flags.PassDoubleDash)
	p.ShortDescription = "Annotate source files and review them against git HEAD"
	p.LongDescription = `notate keeps review notes as marked comments on the lines they concern and
shows every file side by side with its committed version. Without a command
the interactive reviewer starts in PATH (default: the current directory).`
	p.SubcommandsOptional = true
	p.CommandHandler = c.handle

	if _, err := p.AddGroup("Global Options", "", &c.Global); err != nil {
		panic(err)
	}
	c.parser = p

	c.addCommand("tui", "Start the interactive reviewer", "Browse PATH, annotate lines and approve or reject files.", &tuiCommand{cli: c})
	c.addCommand("diff", "Show a file against HEAD", "Print the side-by-side or unified diff of FILE, or a patch for git apply.", &diffCommand{cli: c})
	c.addCommand("annotate", "Annotate a line", "Add or replace the annotation on LINE of FILE.", &annotateCommand{cli: c})
	c.addCommand("unannotate", "Remove an annotation", "Remove the annotation on LINE of FILE.", &unannotateCommand{cli: c})
	c.addCommand("strip", "Print a file without annotations", "Print FILE with every annotation removed, or rewrite it in place with --write.", &stripCommand{cli: c})
	c.addCommand("list", "List annotations", "List the annotations of every file below PATH as markdown.", &listCommand{cli: c})
	c.addReviewCommands()
	c.addConfigCommands()
	c.addCommand("version", "Show version information", "Show version, commit and build information.", &versionCommand{cli: c})

	return c
}

func (c *CLI) addCommand(name, short, long string, data any) *flags.Command {
	cmd, err := c.parser.AddCommand(name, short, long, data)
	if err != nil {
		panic(err)
	}
	return cmd
}

// Run parses args, runs the chosen command and returns the exit code.
func Run(args []string, stdout, stderr io.Writer) int {
	return New(stdout, stderr).Run(args)
}

// Run executes args, reports any error on stderr and returns the exit code.
// Help output goes to stdout and counts as success.
func (c *CLI) Run(args []string) int {
	err := c.Execute(args)

	var flagsErr *flags.Error
	if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
		fmt.Fprintln(c.stdout, flagsErr.Message)
		return ExitSuccess
	}
	if err != nil {
		DisplayError(c.stderr, err)
	}
	return ExitCode(err)
}

// Execute parses args and runs the chosen command. Without a command the
// TUI starts on the first remaining argument.
func (c *CLI) Execute(args []string) error {
	rest, err := c.parser.ParseArgs(args)
	if err != nil {
		return err
	}
	if c.parser.Active != nil {
		return nil
	}

	if len(rest) > 1 {
		return NewValidationErrorWithExample("arguments", fmt.Sprint(rest), "at most one path expected", "notate src/")
	}
	cmd := &tuiCommand{cli: c}
	if len(rest) == 1 {
		cmd.Args.Path = rest[0]
	}
	return c.handle(cmd, nil)
}

// handle prepares configuration and logging, then executes command.
func (c *CLI) handle(command flags.Commander, args []string) error {
	if command == nil {
		return nil
	}
	if err := c.setup(command); err != nil {
		return err
	}
	defer c.teardown()

	return command.Execute(args)
}

func (c *CLI) setup(command flags.Commander) error {
	cfg, err := config.Load(c.Global.Config, ".")
	if err != nil {
		if _, ok := command.(configFree); !ok {
			return &ConfigError{Err: err}
		}
		cfg = config.Default()
	}
	c.cfg = cfg
	config.SetGlobal(cfg)

	_, isTUI := command.(interactive)
	builder := logging.NewBuilder().
		WithConfig(cfg.Log).
		WithConsole(c.Global.Verbose && !isTUI).
		WithConsoleWriter(c.stderr)
	if c.Global.Verbose {
		builder.WithLevel("debug")
	}
	builder.WithLevel(c.Global.LogLevel)

	log, closer, err := builder.Build()
	if err != nil {
		// A broken log file never stops a command.
		fmt.Fprintf(c.stderr, "%s logging disabled: %v\n", WarningStyle.Render("[WARN]"), err)
		log, closer = zerolog.Nop(), nil
	}
	c.log = log
	c.logCloser = closer
	c.log.Debug().Str("version", Version).Str("command", fmt.Sprintf("%T", command)).Msg("starting")
	return nil
}

func (c *CLI) teardown() {
	if c.logCloser != nil {
		c.logCloser.Close()
		c.logCloser = nil
	}
}

// runProgram runs m full screen until it quits.
func runProgram(m tea.Model) error {
	final, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	if closer, ok := final.(io.Closer); ok {
		closer.Close()
	}
	return err
}

// =============================================================================
// VERSION
// =============================================================================

type versionCommand struct {
	cli *CLI
}

func (versionCommand) configFree() {}

func (cmd *versionCommand) Execute([]string) error {
	fmt.Fprintf(cmd.cli.stdout, "notate version %s\n", Version)
	fmt.Fprintf(cmd.cli.stdout, "  commit:  %s\n", GitCommit)
	fmt.Fprintf(cmd.cli.stdout, "  built:   %s\n", BuildDate)
	fmt.Fprintf(cmd.cli.stdout, "  go:      %s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
	return nil
}

// exists reports whether path can be stat'ed, wrapping the error otherwise.
func exists(path string) error {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return NewNotFoundError("file", path)
		}
		return err
	}
	return nil
}
