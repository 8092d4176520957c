// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jeranaias/notate/internal/config"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]zerolog.Level{
		"debug":   zerolog.DebugLevel,
		"INFO":    zerolog.InfoLevel,
		"warn":    zerolog.WarnLevel,
		"warning": zerolog.WarnLevel,
		"error":   zerolog.ErrorLevel,
		"":        zerolog.InfoLevel,
		"loud":    zerolog.InfoLevel,
	}

	for input, want := range tests {
		assert.Equal(t, want, ParseLevel(input), "input %q", input)
	}
}

func TestParseFormat(t *testing.T) {
	assert.Equal(t, FormatJSON, ParseFormat("JSON"))
	assert.Equal(t, FormatText, ParseFormat("text"))
	assert.Equal(t, FormatConsole, ParseFormat("bogus"))

	_, err := ParseFormatStrict("bogus")
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestBuild_NoOutputs(t *testing.T) {
	logger, closer, err := NewBuilder().Build()
	require.NoError(t, err)
	defer closer.Close()

	assert.Equal(t, zerolog.Disabled, logger.GetLevel())
}

func TestBuild_ConsoleJSON(t *testing.T) {
	var buf bytes.Buffer
	logger, closer, err := NewBuilder().
		WithConfig(config.LogConfig{Level: "debug", Format: "json"}).
		WithConsole(true).
		WithConsoleWriter(&buf).
		Build()
	require.NoError(t, err)
	defer closer.Close()

	logger.Debug().Str("path", "main.go").Msg("loaded")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "debug", entry["level"])
	assert.Equal(t, "main.go", entry["path"])
	assert.Equal(t, "loaded", entry["message"])
}

func TestBuild_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	logger, closer, err := NewBuilder().
		WithConfig(config.LogConfig{Level: "warn", Format: "text"}).
		WithConsole(true).
		WithConsoleWriter(&buf).
		Build()
	require.NoError(t, err)
	defer closer.Close()

	logger.Info().Msg("hidden")
	logger.Warn().Msg("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestBuild_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "notate.log")
	logger, closer, err := NewBuilder().
		WithConfig(config.LogConfig{Level: "info", Format: "console", File: path, MaxSizeMB: 1}).
		Build()
	require.NoError(t, err)

	logger.Info().Msg("to file")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "to file")
	assert.False(t, strings.Contains(string(data), "\x1b["), "file output must not be colored")
}

func TestWithLevel(t *testing.T) {
	var buf bytes.Buffer
	logger, closer, err := NewBuilder().
		WithConfig(config.LogConfig{Level: "error", Format: "json"}).
		WithLevel("debug").
		WithConsole(true).
		WithConsoleWriter(&buf).
		Build()
	require.NoError(t, err)
	defer closer.Close()

	logger.Debug().Msg("verbose")
	assert.Contains(t, buf.String(), "verbose")
}
