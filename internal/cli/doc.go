// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package cli implements the notate command line.

Commands are go-flags command structs. Run parses the arguments, loads the
configuration and logger once for whichever command was chosen, then executes
it. Without a command the TUI starts.

	notate [tui] [PATH]
	notate diff FILE [-u] [--patch] [--context N] [--no-color]
	notate annotate FILE LINE TEXT...
	notate unannotate FILE LINE
	notate strip FILE [--write]
	notate list [PATH] [--raw]
	notate review mark|list|clear
	notate config show|path|init|get|set
	notate version

Errors returned by commands map to exit codes through ExitCode.
*/
package cli
