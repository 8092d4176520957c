// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/jeranaias/notate/internal/config"
)

// configCommand groups the configuration subcommands.
type configCommand struct{}

func (c *CLI) addConfigCommands() {
	group := c.addCommand("config", "Show or change settings",
		"Inspect the effective configuration or edit the user config file.", &configCommand{})

	add := func(name, short, long string, data any) {
		if _, err := group.AddCommand(name, short, long, data); err != nil {
			panic(err)
		}
	}
	add("show", "Print the effective configuration", "Print the merged configuration as TOML.", &configShowCommand{cli: c})
	add("path", "Print the config file path", "Print the path of the user config file.", &configPathCommand{cli: c})
	add("init", "Write the default config file", "Write the default configuration to the user config path.", &configInitCommand{cli: c})
	add("get", "Print a setting", "Print the value of KEY, or every key when KEY is omitted.", &configGetCommand{cli: c})
	add("set", "Change a setting", "Set KEY to VALUE in the user config file.", &configSetCommand{cli: c})
}

type configShowCommand struct {
	cli *CLI
}

func (cmd *configShowCommand) Execute([]string) error {
	fmt.Fprint(cmd.cli.stdout, cmd.cli.cfg.String())
	return nil
}

type configPathCommand struct {
	cli *CLI
}

func (configPathCommand) configFree() {}

func (cmd *configPathCommand) Execute([]string) error {
	path, err := config.ConfigPathTOML()
	if err != nil {
		return &ConfigError{Err: err}
	}
	fmt.Fprintln(cmd.cli.stdout, path)
	return nil
}

type configInitCommand struct {
	cli *CLI

	Force bool `short:"f" long:"force" description:"Overwrite an existing config file"`
}

func (configInitCommand) configFree() {}

func (cmd *configInitCommand) Execute([]string) error {
	c := cmd.cli

	path, err := config.Init(cmd.Force)
	if errors.Is(err, fs.ErrExist) {
		return &ConfigError{Err: fmt.Errorf("%s already exists (use --force to overwrite)", path)}
	}
	if err != nil {
		return &ConfigError{Err: err}
	}

	c.log.Info().Str("path", path).Msg("config written")
	fmt.Fprintf(c.stdout, "%s %s\n", SuccessStyle.Render("Wrote"), path)
	return nil
}

type configGetCommand struct {
	cli *CLI

	Args struct {
		Key string `positional-arg-name:"KEY"`
	} `positional-args:"yes"`
}

func (cmd *configGetCommand) Execute([]string) error {
	c := cmd.cli

	if cmd.Args.Key == "" {
		for _, key := range config.GetAllKeys() {
			value, err := c.cfg.Get(key)
			if err != nil {
				return &ConfigError{Err: err}
			}
			fmt.Fprintf(c.stdout, "%s = %v\n", LabelStyle.Render(key), value)
		}
		return nil
	}

	value, err := c.cfg.Get(cmd.Args.Key)
	if err != nil {
		return NewValidationErrorWithExample("key", cmd.Args.Key, err.Error(), "notate config get ui.theme")
	}
	fmt.Fprintf(c.stdout, "%v\n", value)
	return nil
}

type configSetCommand struct {
	cli *CLI

	Args struct {
		Key   string `positional-arg-name:"KEY" required:"yes"`
		Value string `positional-arg-name:"VALUE" required:"yes"`
	} `positional-args:"yes"`
}

func (configSetCommand) configFree() {}

// Execute edits the user file rather than the merged configuration so that
// project and environment settings are not written back.
func (cmd *configSetCommand) Execute([]string) error {
	c := cmd.cli

	path := c.Global.Config
	if path == "" {
		p, err := config.ConfigPathTOML()
		if err != nil {
			return &ConfigError{Err: err}
		}
		path = p
	}

	cfg := config.Default()
	if _, err := os.Stat(path); err == nil {
		if err := config.LoadTOML(cfg, path); err != nil {
			return &ConfigError{Err: err}
		}
	}

	if err := cfg.Set(cmd.Args.Key, cmd.Args.Value); err != nil {
		return NewValidationErrorWithExample("key", cmd.Args.Key, err.Error(), "notate config set ui.theme light")
	}
	if err := cfg.Validate(); err != nil {
		return NewValidationError(cmd.Args.Key, cmd.Args.Value, err.Error())
	}
	if err := config.SaveTOML(cfg, path); err != nil {
		return &ConfigError{Err: err}
	}

	c.log.Info().Str("key", cmd.Args.Key).Str("path", path).Msg("config updated")
	fmt.Fprintf(c.stdout, "%s %s = %s\n", SuccessStyle.Render("Set"), cmd.Args.Key, cmd.Args.Value)
	return nil
}
