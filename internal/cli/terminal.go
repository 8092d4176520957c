// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"os"
	"sync"

	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// =============================================================================
// TTY DETECTION
// =============================================================================

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// IsTTY reports whether stdin is a terminal.
func IsTTY() bool { return isTerminal(os.Stdin) }

// IsStdoutTTY reports whether stdout is a terminal.
func IsStdoutTTY() bool { return isTerminal(os.Stdout) }

// RequiresTTY fails unless both stdin and stdout are terminals, which the
// full-screen reviewer needs.
func RequiresTTY(operation string) error {
	if IsTTY() && IsStdoutTTY() {
		return nil
	}
	return &TTYRequiredError{Operation: operation}
}

// TTYRequiredError is returned when an operation needs a terminal.
type TTYRequiredError struct {
	Operation string
}

func (e *TTYRequiredError) Error() string {
	if e.Operation == "" {
		return "not a terminal"
	}
	return "not a terminal; cannot " + e.Operation
}

// =============================================================================
// WIDTH
// =============================================================================

const (
	// DefaultTerminalWidth is used when stdout is not a terminal
	DefaultTerminalWidth = 80

	// MinTerminalWidth is the narrowest width output is laid out for
	MinTerminalWidth = 40
)

// GetTerminalWidth returns the width of stdout, clamped to
// MinTerminalWidth, or DefaultTerminalWidth when it is not a terminal.
func GetTerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	switch {
	case err != nil, width <= 0:
		return DefaultTerminalWidth
	case width < MinTerminalWidth:
		return MinTerminalWidth
	default:
		return width
	}
}

// =============================================================================
// COLOR
// =============================================================================

var colorsEnabled = sync.OnceValue(func() bool {
	return colorDecision(os.Getenv, IsStdoutTTY())
})

// colorDecision applies NO_COLOR (https://no-color.org/), then FORCE_COLOR,
// then falls back to whether stdout is a terminal.
func colorDecision(getenv func(string) string, tty bool) bool {
	if getenv("NO_COLOR") != "" {
		return false
	}
	if getenv("FORCE_COLOR") != "" {
		return true
	}
	return tty
}

// ColorsEnabled reports whether output may carry ANSI colors. The decision
// is made once per process.
func ColorsEnabled() bool {
	return colorsEnabled()
}

// GetColorProfile returns the termenv profile for stdout, Ascii when colors
// are disabled.
func GetColorProfile() termenv.Profile {
	if !ColorsEnabled() {
		return termenv.Ascii
	}
	return termenv.ColorProfile()
}
