package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/robert-at-pretension-io/paint-lint/internal/validator"
)

const (
	// FileName is the default configuration file name.
	FileName = "paint_lint.json"

	defaultCacheDir = ".paint_lint_cache"
)

// Config is the top-level configuration for paint-lint
type Config struct {
	// Files is a list of glob patterns for stylesheets to lint, relative to the root
	Files []string `json:"files,omitempty" toml:"files,omitempty"`

	// Exclude is a list of glob patterns removed from Files
	Exclude []string `json:"exclude,omitempty" toml:"exclude,omitempty"`

	// Lint contains linting rule configuration
	Lint LintConfig `json:"lint" toml:"lint"`

	// RuleOptions tunes the individual paint rules
	RuleOptions RuleOptions `json:"ruleOptions" toml:"ruleOptions"`

	// Analysis contains analysis options
	Analysis AnalysisConfig `json:"analysis" toml:"analysis"`

	// Source is the file the configuration was loaded from, empty for defaults
	Source string `json:"-" toml:"-"`
}

// LintConfig contains linting configuration
type LintConfig struct {
	// Rules maps rule names to severity: "off", "info", "warning", "error"
	Rules map[string]string `json:"rules,omitempty" toml:"rules,omitempty"`

	// IgnorePatterns is a list of file patterns to skip linting entirely
	IgnorePatterns []string `json:"ignorePatterns,omitempty" toml:"ignorePatterns,omitempty"`

	// IgnoreRegions enables // paint-lint:disable and :enable comment support.
	// Absent means enabled.
	IgnoreRegions *bool `json:"ignoreRegions,omitempty" toml:"ignoreRegions"`
}

// RuleOptions holds per-rule settings, keyed by rule name in the file.
type RuleOptions struct {
	Color ColorOptions `json:"paint-color" toml:"paint-color"`
	Units UnitOptions  `json:"paint-units" toml:"paint-units"`
}

// ColorOptions configures the paint-color rule.
type ColorOptions struct {
	// AllowedFunctions lists calls whose arguments may hold raw colors.
	// Absent means the built-in list; an empty list allows no call.
	AllowedFunctions []string `json:"allowedFunctions,omitempty" toml:"allowedFunctions,omitempty"`
}

// UnitOptions configures the paint-units rule.
type UnitOptions struct {
	// AllowedFunctions lists calls whose arguments may hold raw pixel lengths.
	AllowedFunctions []string `json:"allowedFunctions,omitempty" toml:"allowedFunctions,omitempty"`

	// MinPixels is the smallest reported length; 0 or less selects the default
	MinPixels int `json:"minPixels,omitempty" toml:"minPixels,omitempty"`
}

// CacheConfig controls the findings cache
type CacheConfig struct {
	// Enabled turns on cache usage
	Enabled *bool `json:"enabled,omitempty" toml:"enabled"`

	// Dir is the cache directory (relative to project root if not absolute)
	Dir string `json:"dir,omitempty" toml:"dir,omitempty"`
}

// AnalysisConfig contains analysis options
type AnalysisConfig struct {
	// MaxParallelFiles limits concurrent file processing (0 = auto)
	MaxParallelFiles int `json:"maxParallelFiles,omitempty" toml:"maxParallelFiles,omitempty"`

	// Cache controls the findings cache
	Cache CacheConfig `json:"cache" toml:"cache"`
}

var defaultFiles = []string{"*.scss", "**/*.scss", "*.css", "**/*.css"}

// DefaultConfig returns a sensible default configuration
func DefaultConfig() *Config {
	return &Config{
		Files:   append([]string(nil), defaultFiles...),
		Exclude: []string{"node_modules/**"},
		Lint: LintConfig{
			Rules: map[string]string{
				"paint-color": "warning",
				"paint-units": "warning",
			},
			IgnorePatterns: []string{},
			IgnoreRegions:  boolPtr(true),
		},
		RuleOptions: RuleOptions{
			Color: ColorOptions{
				AllowedFunctions: []string{"map-get", "map-has-key", "map-remove", "color"},
			},
			Units: UnitOptions{
				AllowedFunctions: []string{"map-get", "map-has-key", "map-remove", "rem", "em", "px"},
				MinPixels:        10,
			},
		},
		Analysis: AnalysisConfig{
			MaxParallelFiles: 0, // auto
			Cache: CacheConfig{
				Enabled: boolPtr(true),
				Dir:     defaultCacheDir,
			},
		},
	}
}

func boolPtr(v bool) *bool {
	return &v
}

// Load finds and loads the configuration file
// Search order:
//  1. ./paint_lint.json, ./.paint_lint.json, ./paint_lint.toml (current working directory)
//  2. the same names under <rootPath> (if it is a directory other than cwd)
//  3. ~/.config/paint_lint/config.json
//
// Returns DefaultConfig if no config file is found
func Load(rootPath string) (*Config, error) {
	cwd, _ := os.Getwd()

	names := []string{FileName, ".paint_lint.json", "paint_lint.toml"}
	var searchPaths []string
	for _, name := range names {
		searchPaths = append(searchPaths, filepath.Join(cwd, name))
	}

	if info, err := os.Stat(rootPath); err == nil && info.IsDir() {
		absRoot, _ := filepath.Abs(rootPath)
		if absRoot != cwd {
			for _, name := range names {
				searchPaths = append(searchPaths, filepath.Join(rootPath, name))
			}
		}
	}

	if home, err := os.UserHomeDir(); err == nil {
		searchPaths = append(searchPaths, filepath.Join(home, ".config", "paint_lint", "config.json"))
	}

	for _, path := range searchPaths {
		if _, err := os.Stat(path); err == nil {
			return LoadFile(path)
		}
	}

	return DefaultConfig(), nil
}

// LoadFile loads configuration from a specific file. Files ending in .toml
// are read as TOML, everything else as JSON. The document is checked against
// the #Config schema before it is decoded.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg, err := Parse(data, isTOML(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	cfg.Source = path
	return cfg, nil
}

// Parse decodes and validates a configuration document.
func Parse(data []byte, asTOML bool) (*Config, error) {
	raw := make(map[string]interface{})
	if asTOML {
		if err := toml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	} else if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	v, err := validator.New()
	if err != nil {
		return nil, err
	}
	if err := v.Validate(raw); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	// TOML and JSON share keys, so one typed decode covers both.
	normalized, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("normalizing config: %w", err)
	}
	var cfg Config
	if err := json.Unmarshal(normalized, &cfg); err != nil {
		return nil, fmt.Errorf("decoding config file: %w", err)
	}

	cfg.applyDefaults()
	return &cfg, nil
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}

// applyDefaults fills in missing configuration with defaults
func (c *Config) applyDefaults() {
	if len(c.Files) == 0 {
		c.Files = append([]string(nil), defaultFiles...)
	}

	if c.Lint.Rules == nil {
		c.Lint.Rules = make(map[string]string)
	}
	if c.Lint.IgnoreRegions == nil {
		c.Lint.IgnoreRegions = boolPtr(true)
	}

	if c.Analysis.Cache.Dir == "" {
		c.Analysis.Cache.Dir = defaultCacheDir
	}
	if c.Analysis.Cache.Enabled == nil {
		c.Analysis.Cache.Enabled = boolPtr(true)
	}
}

// Save writes the configuration to a file, as TOML when path ends in .toml
func (c *Config) Save(path string) error {
	var data []byte
	if isTOML(path) {
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(c); err != nil {
			return fmt.Errorf("marshaling config: %w", err)
		}
		data = buf.Bytes()
	} else {
		var err error
		data, err = json.MarshalIndent(c, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling config: %w", err)
		}
		data = append(data, '\n')
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// GetRuleSeverity returns the severity for a rule, or the default if not configured
func (c *Config) GetRuleSeverity(rule string, defaultSeverity string) string {
	if severity, ok := c.Lint.Rules[rule]; ok {
		return severity
	}
	return defaultSeverity
}

// IsRuleEnabled returns true if the rule is not set to "off"
func (c *Config) IsRuleEnabled(rule string) bool {
	if severity, ok := c.Lint.Rules[rule]; ok {
		return severity != "off"
	}
	return true // enabled by default
}

// RegionsEnabled reports whether inline disable/enable comments are honoured
func (c *Config) RegionsEnabled() bool {
	return c.Lint.IgnoreRegions == nil || *c.Lint.IgnoreRegions
}

// CacheEnabled reports whether the findings cache is switched on
func (c *Config) CacheEnabled() bool {
	return c.Analysis.Cache.Enabled == nil || *c.Analysis.Cache.Enabled
}

// CacheDir returns the cache directory resolved against rootPath
func (c *Config) CacheDir(rootPath string) string {
	dir := c.Analysis.Cache.Dir
	if dir == "" {
		dir = defaultCacheDir
	}
	if filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(rootPath, dir)
}

// ShouldIgnoreFile checks if a file should be skipped entirely
func (c *Config) ShouldIgnoreFile(filePath string) bool {
	for _, pattern := range c.Lint.IgnorePatterns {
		if matched, _ := filepath.Match(pattern, filePath); matched {
			return true
		}
		if matched, _ := filepath.Match(pattern, filepath.Base(filePath)); matched {
			return true
		}
	}
	return false
}
