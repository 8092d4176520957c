// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"testing"
)

// isolate points the config directory at an empty temp dir and clears the
// environment overrides.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("NOTATE_HOME", dir)
	for _, key := range []string{"NOTATE_THEME", "NOTATE_LOG_LEVEL", "NOTATE_CONTEXT_LINES", "NOTATE_REVIEW_DB"} {
		t.Setenv(key, "")
	}
	return dir
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write %s: %v", path, err)
	}
}

// TestConfig_ConcurrentAccess tests that Global() and SetGlobal() can be
// safely called concurrently without race conditions.
// Run with: go test -race -v ./internal/config/
func TestConfig_ConcurrentAccess(t *testing.T) {
	isolate(t)
	ResetGlobalForTesting()
	defer ResetGlobalForTesting()

	var wg sync.WaitGroup

	// 50 writers using SetGlobal, 50 readers using Global
	for i := 0; i < 50; i++ {
		wg.Add(2)

		go func() {
			defer wg.Done()
			c := Default()
			c.Version = "test"
			SetGlobal(c)
		}()

		go func() {
			defer wg.Done()
			if Global() == nil {
				t.Error("Global() returned nil")
			}
		}()
	}

	wg.Wait()
}

// TestConfig_ConcurrentReload tests concurrent ReloadGlobal and Global calls.
func TestConfig_ConcurrentReload(t *testing.T) {
	isolate(t)
	ResetGlobalForTesting()
	defer ResetGlobalForTesting()

	_ = Global()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = ReloadGlobal()
		}()
	}
	for i := 0; i < 80; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if Global() == nil {
				t.Error("Global() returned nil")
			}
		}()
	}

	wg.Wait()
}

// TestConfig_SetGlobalOverwrites tests that SetGlobal properly overwrites
// the existing global config.
func TestConfig_SetGlobalOverwrites(t *testing.T) {
	isolate(t)
	ResetGlobalForTesting()
	defer ResetGlobalForTesting()

	_ = Global()

	custom := Default()
	custom.Version = "custom-version"
	SetGlobal(custom)

	if result := Global(); result.Version != "custom-version" {
		t.Errorf("Expected version 'custom-version', got '%s'", result.Version)
	}
}

// TestConfig_Default tests that Default() returns a valid config with defaults.
func TestConfig_Default(t *testing.T) {
	cfg := Default()

	if cfg.Diff.ContextLines != 3 {
		t.Errorf("Expected 3 context lines, got %d", cfg.Diff.ContextLines)
	}
	if cfg.UI.TabWidth != 4 {
		t.Errorf("Expected tab width 4, got %d", cfg.UI.TabWidth)
	}
	if cfg.Files.WatchDebounceMS != 300 {
		t.Errorf("Expected 300ms debounce, got %d", cfg.Files.WatchDebounceMS)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default config should be valid: %v", err)
	}
}

// TestConfig_Validate tests configuration validation.
func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		field   string
		wantErr bool
	}{
		{"valid default config", func(c *Config) {}, "", false},
		{"zero context lines", func(c *Config) { c.Diff.ContextLines = 0 }, "", false},
		{"negative context lines", func(c *Config) { c.Diff.ContextLines = -1 }, "diff.context_lines", true},
		{"invalid theme", func(c *Config) { c.UI.Theme = "neon" }, "ui.theme", true},
		{"light theme", func(c *Config) { c.UI.Theme = "LIGHT" }, "", false},
		{"tab width zero", func(c *Config) { c.UI.TabWidth = 0 }, "ui.tab_width", true},
		{"tree too narrow", func(c *Config) { c.UI.TreeWidth = 5 }, "ui.tree_width", true},
		{"negative max size", func(c *Config) { c.Files.MaxFileSize = -1 }, "files.max_file_size", true},
		{"bad glob", func(c *Config) { c.Files.IgnorePatterns = []string{"[a-"} }, "files.ignore_patterns", true},
		{"blank marker", func(c *Config) { c.Annotations.Markers = map[string]string{"go": " "} }, "annotations.markers.go", true},
		{"bad log level", func(c *Config) { c.Log.Level = "loud" }, "log.level", true},
		{"bad log format", func(c *Config) { c.Log.Format = "xml" }, "log.format", true},
		{"empty database", func(c *Config) { c.Review.Database = "" }, "review.database", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Default()
			tt.mutate(c)

			err := c.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr {
				return
			}

			var errs ValidateErrors
			if !errors.As(err, &errs) {
				t.Fatalf("Expected ValidateErrors, got %T", err)
			}
			if errs[0].Field != tt.field {
				t.Errorf("Expected field %s, got %s", tt.field, errs[0].Field)
			}
		})
	}
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := Load("", t.TempDir())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.UI.SyntaxStyle != "catppuccin-mocha" {
		t.Errorf("Expected default syntax style, got '%s'", cfg.UI.SyntaxStyle)
	}
}

func TestLoad_UserAndProject(t *testing.T) {
	home := isolate(t)
	writeFile(t, filepath.Join(home, "config.toml"), `
[ui]
theme = "light"
tab_width = 8

[annotations.markers]
tpl = "##"
`)

	project := t.TempDir()
	writeFile(t, filepath.Join(project, ProjectFileName), `
[ui]
tab_width = 2

[diff]
context_lines = 5
`)

	cfg, err := Load("", project)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.UI.Theme != "light" {
		t.Errorf("Expected user theme 'light', got '%s'", cfg.UI.Theme)
	}
	if cfg.UI.TabWidth != 2 {
		t.Errorf("Expected project tab width 2, got %d", cfg.UI.TabWidth)
	}
	if cfg.Diff.ContextLines != 5 {
		t.Errorf("Expected 5 context lines, got %d", cfg.Diff.ContextLines)
	}
	if cfg.UI.TreeWidth != 32 {
		t.Errorf("Unset keys should keep defaults, got tree width %d", cfg.UI.TreeWidth)
	}
	if cfg.Annotations.Markers["tpl"] != "##" {
		t.Errorf("Expected marker override, got %v", cfg.Annotations.Markers)
	}
}

func TestLoad_JSONFallback(t *testing.T) {
	home := isolate(t)
	writeFile(t, filepath.Join(home, "config.json"), `{"diff": {"context_lines": 7}}`)

	cfg, err := Load("", "")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Diff.ContextLines != 7 {
		t.Errorf("Expected 7 context lines, got %d", cfg.Diff.ContextLines)
	}
}

func TestLoad_ExplicitPath(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "custom.toml")
	writeFile(t, path, "[log]\nlevel = \"debug\"\n")

	cfg, err := Load(path, "")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Expected level 'debug', got '%s'", cfg.Log.Level)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml"), ""); err == nil {
		t.Error("Load() with a missing explicit path should fail")
	}
}

func TestLoad_UnknownKey(t *testing.T) {
	home := isolate(t)
	writeFile(t, filepath.Join(home, "config.toml"), "[ui]\ncolour = \"red\"\n")

	_, err := Load("", "")
	var errs ValidateErrors
	if !errors.As(err, &errs) {
		t.Fatalf("Expected ValidateErrors, got %v", err)
	}
	if errs[0].Field != "ui.colour" {
		t.Errorf("Expected field ui.colour, got %s", errs[0].Field)
	}
}

func TestLoad_InvalidValue(t *testing.T) {
	home := isolate(t)
	writeFile(t, filepath.Join(home, "config.toml"), "[ui]\ntheme = \"neon\"\n")

	if _, err := Load("", ""); err == nil {
		t.Error("Load() should reject an invalid theme")
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	isolate(t)
	t.Setenv("NOTATE_THEME", "dark")
	t.Setenv("NOTATE_LOG_LEVEL", "error")
	t.Setenv("NOTATE_LOG_FILE", "")
	t.Setenv("NOTATE_CONTEXT_LINES", "9")
	t.Setenv("NOTATE_REVIEW_DB", "/tmp/r.db")

	cfg, err := Load("", "")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.UI.Theme != "dark" || cfg.Log.Level != "error" || cfg.Diff.ContextLines != 9 || cfg.Review.Database != "/tmp/r.db" {
		t.Errorf("Environment overrides not applied: %+v", cfg)
	}
	if cfg.Log.File != "" {
		t.Errorf("NOTATE_LOG_FILE set to empty should disable the log file, got '%s'", cfg.Log.File)
	}
}

func TestInit(t *testing.T) {
	home := isolate(t)

	path, err := Init(false)
	if err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	if path != filepath.Join(home, "config.toml") {
		t.Errorf("Unexpected path %s", path)
	}

	if _, err := Init(false); !errors.Is(err, fs.ErrExist) {
		t.Errorf("Second Init() should report fs.ErrExist, got %v", err)
	}

	cfg, err := Load("", "")
	if err != nil {
		t.Fatalf("Load() of the written config failed: %v", err)
	}
	if cfg.UI.TabWidth != 4 {
		t.Errorf("Round-tripped config lost defaults: %+v", cfg.UI)
	}
}

// TestConfig_GetSet tests Get and Set methods with dot notation.
func TestConfig_GetSet(t *testing.T) {
	cfg := Default()

	val, err := cfg.Get("ui.syntax_style")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if val != "catppuccin-mocha" {
		t.Errorf("Get('ui.syntax_style') = %v", val)
	}

	if err := cfg.Set("ui.tab_width", "8"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if cfg.UI.TabWidth != 8 {
		t.Errorf("TabWidth after Set = %d, want 8", cfg.UI.TabWidth)
	}

	if err := cfg.Set("files.watch_debounce_ms", "50"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if cfg.Files.WatchDebounceMS != 50 {
		t.Errorf("WatchDebounceMS after Set = %d, want 50", cfg.Files.WatchDebounceMS)
	}

	if err := cfg.Set("files.ignore_patterns", ".git, tmp"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if len(cfg.Files.IgnorePatterns) != 2 || cfg.Files.IgnorePatterns[1] != "tmp" {
		t.Errorf("IgnorePatterns after Set = %v", cfg.Files.IgnorePatterns)
	}

	if err := cfg.Set("ui.line_numbers", "maybe"); err == nil {
		t.Error("Set() with an invalid bool should fail")
	}
	if _, err := cfg.Get("invalid.key"); err == nil {
		t.Error("Get() with invalid key should return error")
	}
	if _, err := cfg.Get("ui.theme.name"); err == nil {
		t.Error("Get() through a non-struct should return error")
	}
}

func TestGetAllKeys_Resolve(t *testing.T) {
	cfg := Default()
	for _, key := range GetAllKeys() {
		if _, err := cfg.Get(key); err != nil {
			t.Errorf("Key %s does not resolve: %v", key, err)
		}
	}
}

// TestConfig_Clone tests that Clone creates an independent copy.
func TestConfig_Clone(t *testing.T) {
	original := Default()
	original.Annotations.Markers["go"] = "//"

	clone := original.Clone()
	clone.Files.IgnorePatterns[0] = "changed"
	clone.Annotations.Markers["go"] = "#"

	if original.Files.IgnorePatterns[0] == "changed" {
		t.Error("Clone shares IgnorePatterns")
	}
	if original.Annotations.Markers["go"] != "//" {
		t.Error("Clone shares Markers")
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}

	if got := ExpandPath("~/.notate/x.db"); got != filepath.Join(home, ".notate", "x.db") {
		t.Errorf("ExpandPath = %s", got)
	}
	if got := ExpandPath("/abs/path"); got != "/abs/path" {
		t.Errorf("ExpandPath changed an absolute path: %s", got)
	}
}
