// Package config loads build configuration from YAML, TOML or JSON files.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/gnana997/twgen/pkg/theme"
)

// Config is the build configuration.
type Config struct {
	// Content lists glob patterns of files to scan for class names.
	Content []string `yaml:"content" toml:"content" json:"content"`

	// Exclude lists glob patterns removed from the content set.
	Exclude []string `yaml:"exclude" toml:"exclude" json:"exclude"`

	DarkMode string   `yaml:"darkMode" toml:"darkMode" json:"darkMode"`
	Safelist []string `yaml:"safelist" toml:"safelist" json:"safelist"`

	// Theme holds whole-category replacements; Theme["extend"] holds
	// per-token extensions.
	Theme map[string]any `yaml:"theme" toml:"theme" json:"theme"`

	Plugins []PluginRef `yaml:"plugins" toml:"plugins" json:"plugins"`

	// Preflight enables the base reset. Defaults to true.
	Preflight *bool `yaml:"preflight" toml:"preflight" json:"preflight"`

	Output  string        `yaml:"output" toml:"output" json:"output"`
	Scanner ScannerConfig `yaml:"scanner" toml:"scanner" json:"scanner"`
	Watch   WatchConfig   `yaml:"watch" toml:"watch" json:"watch"`
}

// ScannerConfig tunes content scanning.
type ScannerConfig struct {
	// Precise enables syntax-aware extraction for JS/TS sources. Defaults to true.
	Precise   *bool `yaml:"precise" toml:"precise" json:"precise"`
	Workers   int   `yaml:"workers" toml:"workers" json:"workers"`
	CacheSize int   `yaml:"cacheSize" toml:"cacheSize" json:"cacheSize"`
}

// WatchConfig tunes watch mode.
type WatchConfig struct {
	DebounceMs int `yaml:"debounceMs" toml:"debounceMs" json:"debounceMs"`
}

// PluginRef names a built-in plugin. In YAML and JSON it may be written as
// a bare string.
type PluginRef struct {
	Name    string         `yaml:"name" toml:"name" json:"name"`
	Options map[string]any `yaml:"options" toml:"options" json:"options"`
}

// UnmarshalYAML accepts "name" or {name: ..., options: ...}.
func (p *PluginRef) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		p.Name = value.Value
		return nil
	}
	type plain PluginRef
	return value.Decode((*plain)(p))
}

// UnmarshalJSON accepts "name" or {"name": ..., "options": ...}.
func (p *PluginRef) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		p.Name = name
		return nil
	}
	type plain PluginRef
	return json.Unmarshal(data, (*plain)(p))
}

const (
	DefaultDebounceMs = 200
	DefaultCacheSize  = 2048
)

// FileNames are the config files discovered in a project root, in order.
var FileNames = []string{"twgen.yaml", "twgen.yml", "twgen.toml", "twgen.json"}

// Default returns the configuration used when no file is found.
func Default() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

func (c *Config) applyDefaults() {
	if c.Preflight == nil {
		t := true
		c.Preflight = &t
	}
	if c.Scanner.Precise == nil {
		t := true
		c.Scanner.Precise = &t
	}
	if c.Scanner.CacheSize == 0 {
		c.Scanner.CacheSize = DefaultCacheSize
	}
	if c.Watch.DebounceMs == 0 {
		c.Watch.DebounceMs = DefaultDebounceMs
	}
	if c.DarkMode == "" {
		c.DarkMode = string(theme.DarkModeMedia)
	}
	for i, p := range c.Content {
		c.Content[i] = NormalizePattern(p)
	}
	for i, p := range c.Exclude {
		c.Exclude[i] = NormalizePattern(p)
	}
}

// NormalizePattern strips a leading "./" and converts to forward slashes.
func NormalizePattern(p string) string {
	p = filepath.ToSlash(strings.TrimSpace(p))
	for strings.HasPrefix(p, "./") {
		p = p[2:]
	}
	return p
}

// Load reads the file at path, choosing the decoder by extension.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg, err := Parse(data, filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes data; ext is ".yaml", ".yml", ".toml" or ".json".
func Parse(data []byte, ext string) (*Config, error) {
	var cfg Config
	var err error
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &cfg)
	case ".toml":
		err = toml.Unmarshal(data, &cfg)
	case ".json":
		err = json.Unmarshal(data, &cfg)
	default:
		return nil, fmt.Errorf("unsupported config format %q", ext)
	}
	if err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Discover returns the first config file present in root, or "" when none is.
func Discover(root string) string {
	for _, name := range FileNames {
		p := filepath.Join(root, name)
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p
		}
	}
	return ""
}

// Resolve applies the fallback chain:
//  1. Explicit --config flag value
//  2. twgen.{yaml,yml,toml,json} in root
//  3. Default()
//
// It returns the config and the path it was loaded from ("" for defaults).
func Resolve(flagValue, root string) (*Config, string, error) {
	if flagValue != "" {
		cfg, err := Load(flagValue)
		return cfg, flagValue, err
	}
	if p := Discover(root); p != "" {
		cfg, err := Load(p)
		return cfg, p, err
	}
	return Default(), "", nil
}

// Validate reports every problem found, joined into one error.
func (c *Config) Validate() error {
	var errs []error

	for i, p := range c.Content {
		if p == "" {
			errs = append(errs, fmt.Errorf("content[%d]: pattern is empty", i))
		} else if !doublestar.ValidatePattern(p) {
			errs = append(errs, fmt.Errorf("content[%d]: invalid pattern: %s", i, p))
		}
	}
	for i, p := range c.Exclude {
		if !doublestar.ValidatePattern(p) {
			errs = append(errs, fmt.Errorf("exclude[%d]: invalid pattern: %s", i, p))
		}
	}
	if _, err := theme.ParseDarkMode(c.DarkMode); err != nil {
		errs = append(errs, err)
	}
	for k, v := range c.Theme {
		if k == "extend" {
			if _, ok := v.(map[string]any); !ok {
				errs = append(errs, fmt.Errorf("theme.extend: expected a map, got %T", v))
			}
			continue
		}
		if _, ok := theme.ParseCategory(k); !ok {
			errs = append(errs, fmt.Errorf("theme.%s: unknown category", k))
		}
	}
	for i, p := range c.Plugins {
		if strings.TrimSpace(p.Name) == "" {
			errs = append(errs, fmt.Errorf("plugins[%d]: name is required", i))
		}
	}
	if c.Scanner.Workers < 0 {
		errs = append(errs, fmt.Errorf("scanner.workers: must not be negative"))
	}
	if c.Scanner.CacheSize < 0 {
		errs = append(errs, fmt.Errorf("scanner.cacheSize: must not be negative"))
	}
	if c.Watch.DebounceMs < 0 {
		errs = append(errs, fmt.Errorf("watch.debounceMs: must not be negative"))
	}

	return errors.Join(errs...)
}

// ThemeOverrides returns the whole-category replacements.
func (c *Config) ThemeOverrides() theme.PartialTheme {
	out := theme.PartialTheme{Categories: make(map[string]any)}
	for k, v := range c.Theme {
		if k != "extend" {
			out.Categories[k] = v
		}
	}
	return out
}

// ThemeExtension returns the per-token extensions and dark mode strategy.
func (c *Config) ThemeExtension() theme.PartialTheme {
	out := theme.PartialTheme{DarkMode: theme.DarkMode(c.DarkMode)}
	if ext, ok := c.Theme["extend"].(map[string]any); ok {
		out.Categories = ext
	}
	return out
}

// PreflightEnabled reports whether the base reset is emitted.
func (c *Config) PreflightEnabled() bool {
	return c.Preflight == nil || *c.Preflight
}

// PreciseScan reports whether syntax-aware extraction is enabled.
func (c *Config) PreciseScan() bool {
	return c.Scanner.Precise == nil || *c.Scanner.Precise
}
