// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/jeranaias/notate/internal/util"
)

// ProjectFileName is the per-project config file looked up in the working
// directory. Its settings win over the user config.
const ProjectFileName = ".notate.toml"

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete notate configuration.
type Config struct {
	Version string `toml:"version" json:"version"`

	Diff        DiffConfig        `toml:"diff" json:"diff"`
	UI          UIConfig          `toml:"ui" json:"ui"`
	Files       FilesConfig       `toml:"files" json:"files"`
	Annotations AnnotationsConfig `toml:"annotations" json:"annotations"`
	Log         LogConfig         `toml:"log" json:"log"`
	Review      ReviewConfig      `toml:"review" json:"review"`
}

// DiffConfig contains diff presentation settings.
type DiffConfig struct {
	// ContextLines is the number of unchanged lines shown around each hunk
	ContextLines int `toml:"context_lines" json:"context_lines"`
	// ShowWhitespace renders tabs and trailing spaces visibly
	ShowWhitespace bool `toml:"show_whitespace" json:"show_whitespace"`
}

// UIConfig contains UI configuration.
type UIConfig struct {
	// Theme is the UI theme: "dark", "light", "auto"
	Theme string `toml:"theme" json:"theme"`
	// SyntaxStyle is the chroma style used for syntax highlighting
	SyntaxStyle string `toml:"syntax_style" json:"syntax_style"`
	// TabWidth is the number of columns a tab expands to
	TabWidth int `toml:"tab_width" json:"tab_width"`
	// LineNumbers shows line numbers in file and diff views
	LineNumbers bool `toml:"line_numbers" json:"line_numbers"`
	// TreeWidth is the width of the file tree pane in columns
	TreeWidth int `toml:"tree_width" json:"tree_width"`
}

// FilesConfig controls which files are shown and watched.
type FilesConfig struct {
	// IgnorePatterns are base names or globs hidden from the tree
	IgnorePatterns []string `toml:"ignore_patterns" json:"ignore_patterns"`
	// MaxFileSize is the largest file opened, in bytes (0 = unlimited)
	MaxFileSize int64 `toml:"max_file_size" json:"max_file_size"`
	// Watch reloads files when they change on disk
	Watch bool `toml:"watch" json:"watch"`
	// WatchDebounceMS batches file events over this many milliseconds
	WatchDebounceMS int `toml:"watch_debounce_ms" json:"watch_debounce_ms"`
}

// AnnotationsConfig contains annotation settings.
type AnnotationsConfig struct {
	// Markers maps file extensions or names to comment markers
	Markers map[string]string `toml:"markers" json:"markers"`
}

// LogConfig contains logging configuration.
type LogConfig struct {
	// Level is the minimum level: "debug", "info", "warn", "error"
	Level string `toml:"level" json:"level"`
	// Format is the console format: "console", "json", "text"
	Format string `toml:"format" json:"format"`
	// File is the log file path; empty disables file logging
	File string `toml:"file" json:"file"`
	// MaxSizeMB is the size at which the log file is rotated
	MaxSizeMB int `toml:"max_size_mb" json:"max_size_mb"`
	// MaxBackups is the number of rotated files kept
	MaxBackups int `toml:"max_backups" json:"max_backups"`
}

// ReviewConfig contains review store settings.
type ReviewConfig struct {
	// Database is the sqlite file holding review verdicts
	Database string `toml:"database" json:"database"`
}

// =============================================================================
// DEFAULT CONFIGURATION
// =============================================================================

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Version: "1",

		Diff: DiffConfig{
			ContextLines:   3,
			ShowWhitespace: false,
		},

		UI: UIConfig{
			Theme:       "auto",
			SyntaxStyle: "catppuccin-mocha",
			TabWidth:    4,
			LineNumbers: true,
			TreeWidth:   32,
		},

		Files: FilesConfig{
			IgnorePatterns: []string{
				".git", ".hg", ".svn", "node_modules", "vendor",
				"__pycache__", ".venv", "dist", "build", "*.exe", "*.so", "*.o",
			},
			MaxFileSize:     2 << 20, // 2 MiB
			Watch:           true,
			WatchDebounceMS: 300,
		},

		Annotations: AnnotationsConfig{
			Markers: map[string]string{},
		},

		Log: LogConfig{
			Level:      "info",
			Format:     "console",
			File:       "~/.notate/notate.log",
			MaxSizeMB:  10,
			MaxBackups: 3,
		},

		Review: ReviewConfig{
			Database: "~/.notate/review.db",
		},
	}
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the notate configuration directory path.
// NOTATE_HOME overrides the default of ~/.notate.
func ConfigDir() (string, error) {
	if dir := os.Getenv("NOTATE_HOME"); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".notate"), nil
}

// ConfigPathTOML returns the path to the TOML config file.
func ConfigPathTOML() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// ConfigPathJSON returns the path to the JSON config file.
func ConfigPathJSON() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// ExpandPath expands a leading "~" to the user's home directory.
func ExpandPath(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") && !strings.HasPrefix(path, `~\`) {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load loads the configuration.
//
// If path is set, only that file is read. Otherwise the user config is read
// from the config directory (TOML first, then JSON). In both cases the
// project file in projectDir, if any, is applied on top, followed by
// environment overrides. Missing files are not an error.
func Load(path, projectDir string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := loadFile(cfg, path); err != nil {
			return nil, err
		}
	} else if err := loadUserFile(cfg); err != nil {
		return nil, err
	}

	if projectDir != "" {
		projectPath := filepath.Join(projectDir, ProjectFileName)
		if _, err := os.Stat(projectPath); err == nil {
			if err := LoadTOML(cfg, projectPath); err != nil {
				return nil, fmt.Errorf("failed to load project config: %w", err)
			}
		}
	}

	cfg.ApplyEnvOverrides()
	fillDefaults(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// loadUserFile applies the first user config file found.
func loadUserFile(cfg *Config) error {
	tomlPath, err := ConfigPathTOML()
	if err != nil {
		return err
	}
	if _, statErr := os.Stat(tomlPath); statErr == nil {
		return LoadTOML(cfg, tomlPath)
	}

	jsonPath, err := ConfigPathJSON()
	if err != nil {
		return err
	}
	if _, statErr := os.Stat(jsonPath); statErr == nil {
		return LoadJSON(cfg, jsonPath)
	}
	return nil
}

// loadFile applies path, choosing the format by extension.
func loadFile(cfg *Config, path string) error {
	if strings.HasSuffix(path, ".json") {
		return LoadJSON(cfg, path)
	}
	return LoadTOML(cfg, path)
}

// LoadTOML decodes a TOML file over cfg. Keys absent from the file keep their
// current values; unknown keys are reported as validation errors.
func LoadTOML(cfg *Config, path string) error {
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return fmt.Errorf("failed to decode TOML file %s: %w", path, err)
	}

	var errs ValidateErrors
	for _, key := range md.Undecoded() {
		errs = append(errs, ValidationError{Field: key.String(), Message: "unknown setting"})
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s: %w", path, errs)
	}
	return nil
}

// LoadJSON decodes a JSON file over cfg.
func LoadJSON(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read JSON file: %w", err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to decode JSON file %s: %w", path, err)
	}
	return nil
}

// fillDefaults fills in values a config file left empty and that have no
// meaningful zero value.
func fillDefaults(cfg *Config) {
	defaults := Default()

	if cfg.Version == "" {
		cfg.Version = defaults.Version
	}

	// UI
	if cfg.UI.Theme == "" {
		cfg.UI.Theme = defaults.UI.Theme
	}
	if cfg.UI.SyntaxStyle == "" {
		cfg.UI.SyntaxStyle = defaults.UI.SyntaxStyle
	}
	if cfg.UI.TabWidth == 0 {
		cfg.UI.TabWidth = defaults.UI.TabWidth
	}
	if cfg.UI.TreeWidth == 0 {
		cfg.UI.TreeWidth = defaults.UI.TreeWidth
	}

	// Files
	if cfg.Files.IgnorePatterns == nil {
		cfg.Files.IgnorePatterns = defaults.Files.IgnorePatterns
	}

	// Annotations
	if cfg.Annotations.Markers == nil {
		cfg.Annotations.Markers = map[string]string{}
	}

	// Log
	if cfg.Log.Level == "" {
		cfg.Log.Level = defaults.Log.Level
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = defaults.Log.Format
	}
	if cfg.Log.MaxSizeMB == 0 {
		cfg.Log.MaxSizeMB = defaults.Log.MaxSizeMB
	}

	// Review
	if cfg.Review.Database == "" {
		cfg.Review.Database = defaults.Review.Database
	}
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// SaveTOML writes the configuration to a TOML file atomically.
func SaveTOML(cfg *Config, path string) error {
	var buf bytes.Buffer

	fmt.Fprintln(&buf, "# notate configuration file")
	fmt.Fprintln(&buf, "# Project settings can be placed in "+ProjectFileName)
	fmt.Fprintln(&buf, "")

	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := util.AtomicWriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Init writes the default configuration to the user config path unless a
// config file already exists there. It returns the path written.
func Init(force bool) (string, error) {
	path, err := ConfigPathTOML()
	if err != nil {
		return "", err
	}
	if !force {
		if _, err := os.Stat(path); err == nil {
			return path, fs.ErrExist
		}
	}
	return path, SaveTOML(Default(), path)
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors is a collection of validation errors.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// Validate validates the configuration and returns any errors.
func (c *Config) Validate() error {
	var errs ValidateErrors
	add := func(field, format string, args ...any) {
		errs = append(errs, ValidationError{Field: field, Message: fmt.Sprintf(format, args...)})
	}

	// Diff
	if c.Diff.ContextLines < 0 || c.Diff.ContextLines > 100 {
		add("diff.context_lines", "must be between 0 and 100, got %d", c.Diff.ContextLines)
	}

	// UI
	switch strings.ToLower(c.UI.Theme) {
	case "dark", "light", "auto":
	default:
		add("ui.theme", "invalid theme '%s', must be one of: dark, light, auto", c.UI.Theme)
	}
	if c.UI.TabWidth < 1 || c.UI.TabWidth > 16 {
		add("ui.tab_width", "must be between 1 and 16, got %d", c.UI.TabWidth)
	}
	if c.UI.TreeWidth < 10 || c.UI.TreeWidth > 120 {
		add("ui.tree_width", "must be between 10 and 120, got %d", c.UI.TreeWidth)
	}

	// Files
	if c.Files.MaxFileSize < 0 {
		add("files.max_file_size", "must not be negative")
	}
	if c.Files.WatchDebounceMS < 0 || c.Files.WatchDebounceMS > 10000 {
		add("files.watch_debounce_ms", "must be between 0 and 10000, got %d", c.Files.WatchDebounceMS)
	}
	for _, pattern := range c.Files.IgnorePatterns {
		if _, err := filepath.Match(pattern, ""); err != nil {
			add("files.ignore_patterns", "invalid pattern '%s': %v", pattern, err)
		}
	}

	// Annotations
	keys := make([]string, 0, len(c.Annotations.Markers))
	for key := range c.Annotations.Markers {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		marker := c.Annotations.Markers[key]
		if marker == "" || strings.ContainsAny(marker, " \t\r\n") {
			add("annotations.markers."+key, "marker must be non-empty without whitespace, got '%s'", marker)
		}
	}

	// Log
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		add("log.level", "invalid level '%s', must be one of: debug, info, warn, error", c.Log.Level)
	}
	switch strings.ToLower(c.Log.Format) {
	case "console", "json", "text":
	default:
		add("log.format", "invalid format '%s', must be one of: console, json, text", c.Log.Format)
	}
	if c.Log.MaxSizeMB < 1 {
		add("log.max_size_mb", "must be at least 1, got %d", c.Log.MaxSizeMB)
	}
	if c.Log.MaxBackups < 0 {
		add("log.max_backups", "must not be negative")
	}

	// Review
	if c.Review.Database == "" {
		add("review.database", "must not be empty")
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies environment variable overrides to the config.
//
// Supported environment variables:
//   - NOTATE_THEME: overrides ui.theme
//   - NOTATE_LOG_LEVEL: overrides log.level
//   - NOTATE_LOG_FILE: overrides log.file
//   - NOTATE_CONTEXT_LINES: overrides diff.context_lines
//   - NOTATE_REVIEW_DB: overrides review.database
func (c *Config) ApplyEnvOverrides() {
	if theme := os.Getenv("NOTATE_THEME"); theme != "" {
		c.UI.Theme = theme
	}
	if level := os.Getenv("NOTATE_LOG_LEVEL"); level != "" {
		c.Log.Level = level
	}
	if file, ok := os.LookupEnv("NOTATE_LOG_FILE"); ok {
		c.Log.File = file
	}
	if lines := os.Getenv("NOTATE_CONTEXT_LINES"); lines != "" {
		if n, err := strconv.Atoi(lines); err == nil {
			c.Diff.ContextLines = n
		}
	}
	if db := os.Getenv("NOTATE_REVIEW_DB"); db != "" {
		c.Review.Database = db
	}
}

// =============================================================================
// GET/SET HELPERS (DOT NOTATION)
// =============================================================================

// Get retrieves a configuration value using dot notation (e.g., "ui.tab_width").
func (c *Config) Get(key string) (any, error) {
	field, err := c.lookup(key)
	if err != nil {
		return nil, err
	}
	return field.Interface(), nil
}

// Set sets a configuration value using dot notation (e.g., "ui.tab_width").
// String values are converted to the field's type.
func (c *Config) Set(key string, value any) error {
	field, err := c.lookup(key)
	if err != nil {
		return err
	}
	if !field.CanSet() {
		return fmt.Errorf("cannot set field: %s", key)
	}
	return setFieldValue(field, value)
}

// lookup resolves a dotted key to a struct field.
func (c *Config) lookup(key string) (reflect.Value, error) {
	if key == "" {
		return reflect.Value{}, errors.New("empty key")
	}
	parts := strings.Split(key, ".")

	v := reflect.ValueOf(c).Elem()
	for i, part := range parts {
		fieldName := normalizeFieldName(part)
		field := v.FieldByNameFunc(func(name string) bool {
			return strings.EqualFold(name, fieldName)
		})
		if !field.IsValid() {
			return reflect.Value{}, fmt.Errorf("unknown field: %s", strings.Join(parts[:i+1], "."))
		}
		if i == len(parts)-1 {
			return field, nil
		}
		if field.Kind() != reflect.Struct {
			return reflect.Value{}, fmt.Errorf("field '%s' is not a struct", strings.Join(parts[:i+1], "."))
		}
		v = field
	}

	return reflect.Value{}, fmt.Errorf("invalid key: %s", key)
}

// normalizeFieldName converts a snake_case or kebab-case name to its Go field equivalent.
func normalizeFieldName(name string) string {
	parts := strings.FieldsFunc(name, func(r rune) bool {
		return r == '_' || r == '-'
	})

	var result strings.Builder
	for _, part := range parts {
		if len(part) > 0 {
			result.WriteString(strings.ToUpper(string(part[0])))
			result.WriteString(strings.ToLower(part[1:]))
		}
	}
	return result.String()
}

// setFieldValue sets a reflect.Value from a value with type conversion.
func setFieldValue(field reflect.Value, value any) error {
	if strVal, ok := value.(string); ok {
		switch field.Kind() {
		case reflect.String:
			field.SetString(strVal)
			return nil
		case reflect.Int, reflect.Int64:
			intVal, err := strconv.ParseInt(strVal, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid integer value: %w", err)
			}
			field.SetInt(intVal)
			return nil
		case reflect.Bool:
			boolVal, err := strconv.ParseBool(strVal)
			if err != nil {
				return fmt.Errorf("invalid boolean value: %w", err)
			}
			field.SetBool(boolVal)
			return nil
		case reflect.Slice:
			if field.Type().Elem().Kind() == reflect.String {
				var items []string
				for _, item := range strings.Split(strVal, ",") {
					if item = strings.TrimSpace(item); item != "" {
						items = append(items, item)
					}
				}
				field.Set(reflect.ValueOf(items))
				return nil
			}
		}
	}

	val := reflect.ValueOf(value)
	if val.Type().AssignableTo(field.Type()) {
		field.Set(val)
		return nil
	}
	if val.Type().ConvertibleTo(field.Type()) {
		field.Set(val.Convert(field.Type()))
		return nil
	}

	return fmt.Errorf("cannot assign %T to %s", value, field.Type())
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// GetAllKeys returns all configuration keys in dot notation.
func GetAllKeys() []string {
	return []string{
		"version",
		"diff.context_lines",
		"diff.show_whitespace",
		"ui.theme",
		"ui.syntax_style",
		"ui.tab_width",
		"ui.line_numbers",
		"ui.tree_width",
		"files.ignore_patterns",
		"files.max_file_size",
		"files.watch",
		"files.watch_debounce_ms",
		"annotations.markers",
		"log.level",
		"log.format",
		"log.file",
		"log.max_size_mb",
		"log.max_backups",
		"review.database",
	}
}

// Clone creates a deep copy of the configuration.
func (c *Config) Clone() *Config {
	clone := *c

	if c.Files.IgnorePatterns != nil {
		clone.Files.IgnorePatterns = append([]string(nil), c.Files.IgnorePatterns...)
	}
	if c.Annotations.Markers != nil {
		clone.Annotations.Markers = make(map[string]string, len(c.Annotations.Markers))
		for k, v := range c.Annotations.Markers {
			clone.Annotations.Markers[k] = v
		}
	}

	return &clone
}

// String returns the configuration as TOML.
func (c *Config) String() string {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return fmt.Sprintf("config: %v", err)
	}
	return buf.String()
}

// =============================================================================
// SINGLETON PATTERN (THREAD-SAFE)
// =============================================================================

var (
	globalConfig     *Config
	globalConfigOnce sync.Once
	globalConfigMu   sync.RWMutex
)

// Global returns the global configuration instance.
// Loads configuration on first access. Thread-safe.
func Global() *Config {
	globalConfigOnce.Do(func() {
		cfg, err := Load("", ".")
		if err != nil {
			// Don't fail - use defaults
			fmt.Fprintf(os.Stderr, "Warning: %v (using defaults)\n", err)
			cfg = Default()
		}
		globalConfigMu.Lock()
		if globalConfig == nil {
			globalConfig = cfg
		}
		globalConfigMu.Unlock()
	})

	globalConfigMu.RLock()
	defer globalConfigMu.RUnlock()
	return globalConfig
}

// ReloadGlobal reloads the global configuration from disk. Thread-safe.
func ReloadGlobal() error {
	cfg, err := Load("", ".")
	if err != nil {
		return err
	}
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = cfg
	return nil
}

// SetGlobal sets the global configuration instance. Thread-safe.
func SetGlobal(cfg *Config) {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = cfg
}

// ResetGlobalForTesting resets the global config state for testing.
func ResetGlobalForTesting() {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = nil
	globalConfigOnce = sync.Once{}
}
