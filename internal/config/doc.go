// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for notate.
//
// Supports both TOML and JSON configuration formats, with sensible defaults,
// environment variable overrides, and validation.
//
// # Configuration Precedence
//
// Configuration is loaded from (in order of precedence):
//   - Environment variables (NOTATE_*)
//   - .notate.toml in the project directory
//   - ~/.notate/config.toml, or ~/.notate/config.json
//   - Built-in defaults
//
// # Usage
//
//	cfg, err := config.Load("", ".")
//	if err != nil {
//	    return err
//	}
//	ctx := cfg.Diff.ContextLines
package config
