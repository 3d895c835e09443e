// Package config handles configuration loading and validation for cr-helper.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"

	"github.com/0xd219b/cr-helper/internal/core/diff"
)

// Supported key binding schemes.
const (
	KeyBindingsDefault = "default"
	KeyBindingsVim     = "vim"
)

// Config holds the application configuration.
type Config struct {
	Review  ReviewConfig `yaml:"review"`
	Export  ExportConfig `yaml:"export"`
	Diff    DiffConfig   `yaml:"diff"`
	UI      UIConfig     `yaml:"ui"`
	GitPath string       `yaml:"git_path"`
	DataDir string       `yaml:"-"` // set by caller, not from config file
}

// ReviewConfig holds review-session settings.
type ReviewConfig struct {
	// Checks are the reviewer-facing tag categories offered in the TUI.
	Checks []string `yaml:"checks"`
	// MinCommentLength and MaxCommentLength bound comment content
	// length after trimming.
	MinCommentLength int `yaml:"min_comment_length"`
	MaxCommentLength int `yaml:"max_comment_length"`
	// AutoSaveInterval is the minimum seconds between automatic saves.
	AutoSaveInterval int `yaml:"auto_save_interval"`
}

// ExportConfig holds report export settings.
type ExportConfig struct {
	DefaultFormat      string `yaml:"default_format"`
	IncludeCodeContext bool   `yaml:"include_code_context"`
	ContextLines       int    `yaml:"context_lines"`
	IncludeStats       bool   `yaml:"include_stats"`
	IncludeSuggestions bool   `yaml:"include_suggestions"`
}

// DiffConfig holds diff acquisition and rendering settings.
type DiffConfig struct {
	// IncludePatterns and ExcludePatterns are doublestar globs matched
	// against file paths in the diff. Exclude wins over include.
	IncludePatterns []string         `yaml:"include_patterns"`
	ExcludePatterns []string         `yaml:"exclude_patterns"`
	// MaxFileSize caps lazy-loaded untracked file content, in bytes.
	// Larger files render as binary.
	MaxFileSize int64            `yaml:"max_file_size"`
	Delta       diff.DeltaConfig `yaml:"delta"`
}

// UIConfig holds terminal UI settings.
type UIConfig struct {
	ShowFileTree bool   `yaml:"show_file_tree"`
	Theme        string `yaml:"theme"`
	KeyBindings  string `yaml:"key_bindings"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Review: ReviewConfig{
			Checks:           []string{"security", "error-handling", "performance", "best-practices"},
			MinCommentLength: 1,
			MaxCommentLength: 2000,
			AutoSaveInterval: 30,
		},
		Export: ExportConfig{
			DefaultFormat:      "markdown-enhanced",
			IncludeCodeContext: true,
			ContextLines:       2,
			IncludeStats:       true,
			IncludeSuggestions: true,
		},
		Diff: DiffConfig{
			IncludePatterns: []string{"*"},
			ExcludePatterns: []string{"*.lock", "target/**", "node_modules/**", ".git/**"},
			MaxFileSize:     diff.DefaultMaxFileSize,
			Delta:           diff.DefaultDeltaConfig(),
		},
		UI: UIConfig{
			ShowFileTree: true,
			Theme:        "default",
			KeyBindings:  KeyBindingsDefault,
		},
		GitPath: "git",
	}
}

// Load reads configuration from the given path and sets the data directory.
// If configPath is empty or doesn't exist, returns defaults with the provided
// dataDir.
func Load(configPath, dataDir string) (*Config, error) {
	cfg := DefaultConfig()
	cfg.DataDir = dataDir

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			data, err := os.ReadFile(configPath)
			if err != nil {
				return nil, fmt.Errorf("read config file: %w", err)
			}

			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}

			// Re-set dataDir since Unmarshal may have cleared it
			cfg.DataDir = dataDir
		}
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets default values for any unset configuration options.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()
	if c.Review.MinCommentLength == 0 {
		c.Review.MinCommentLength = defaults.Review.MinCommentLength
	}
	if c.Review.MaxCommentLength == 0 {
		c.Review.MaxCommentLength = defaults.Review.MaxCommentLength
	}
	if c.Review.AutoSaveInterval == 0 {
		c.Review.AutoSaveInterval = defaults.Review.AutoSaveInterval
	}
	if c.Export.DefaultFormat == "" {
		c.Export.DefaultFormat = defaults.Export.DefaultFormat
	}
	if c.Export.ContextLines == 0 {
		c.Export.ContextLines = defaults.Export.ContextLines
	}
	if len(c.Diff.IncludePatterns) == 0 {
		c.Diff.IncludePatterns = defaults.Diff.IncludePatterns
	}
	if c.Diff.MaxFileSize == 0 {
		c.Diff.MaxFileSize = defaults.Diff.MaxFileSize
	}
	if c.UI.Theme == "" {
		c.UI.Theme = defaults.UI.Theme
	}
	if c.UI.KeyBindings == "" {
		c.UI.KeyBindings = defaults.UI.KeyBindings
	}
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.GitPath == "" {
		return fmt.Errorf("git_path cannot be empty")
	}

	if c.DataDir == "" {
		return fmt.Errorf("data directory cannot be empty")
	}

	if c.Review.MinCommentLength < 1 {
		return fmt.Errorf("review.min_comment_length must be at least 1")
	}

	if c.Review.MaxCommentLength < c.Review.MinCommentLength {
		return fmt.Errorf("review.max_comment_length must be at least review.min_comment_length")
	}

	if c.Review.AutoSaveInterval < 1 {
		return fmt.Errorf("review.auto_save_interval must be at least 1")
	}

	if c.Export.ContextLines < 0 {
		return fmt.Errorf("export.context_lines cannot be negative")
	}

	if c.Diff.MaxFileSize < 1 {
		return fmt.Errorf("diff.max_file_size must be at least 1 byte")
	}

	switch c.UI.KeyBindings {
	case KeyBindingsDefault, KeyBindingsVim:
	default:
		return fmt.Errorf("ui.key_bindings must be %q or %q", KeyBindingsDefault, KeyBindingsVim)
	}

	for _, p := range c.Diff.IncludePatterns {
		if !doublestar.ValidatePattern(p) {
			return fmt.Errorf("diff.include_patterns: invalid pattern %q", p)
		}
	}
	for _, p := range c.Diff.ExcludePatterns {
		if !doublestar.ValidatePattern(p) {
			return fmt.Errorf("diff.exclude_patterns: invalid pattern %q", p)
		}
	}

	return nil
}

// IncludesFile reports whether a diff file path passes the include and
// exclude patterns. Exclude patterns win.
func (c *Config) IncludesFile(path string) bool {
	for _, p := range c.Diff.ExcludePatterns {
		if ok, _ := doublestar.Match(p, path); ok {
			return false
		}
	}
	for _, p := range c.Diff.IncludePatterns {
		if ok, _ := doublestar.Match(p, path); ok {
			return true
		}
		// A bare "*" include means everything, matching paths in
		// subdirectories too.
		if p == "*" {
			return true
		}
	}
	return false
}

// ExportsDir returns the default directory for exported reports.
func (c *Config) ExportsDir() string {
	return filepath.Join(c.DataDir, "exports")
}
