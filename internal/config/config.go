package config

import (
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alnah/go-fencecache/internal/fileutil"
	"github.com/alnah/go-fencecache/internal/highlight"
	"github.com/alnah/go-fencecache/internal/rendercache"
	"github.com/alnah/go-fencecache/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrInvalidConfig   = errors.New("invalid config")
)

// AppDirName is the directory searched under the user config directory.
const AppDirName = "go-fencecache"

// Limits.
const (
	MaxWorkers     = 32 // matches the library's worker cap
	MaxAliasLength = 64
)

// DefaultRenderTimeout bounds a single block render.
const DefaultRenderTimeout = 10 * time.Second

// Config holds all configuration for document rewriting.
type Config struct {
	Cache     CacheConfig       `yaml:"cache"`
	Render    RenderConfig      `yaml:"render"`
	Highlight HighlightConfig   `yaml:"highlight"`
	Aliases   map[string]string `yaml:"aliases"` // merged over the built-in table
}

// CacheConfig defines render cache persistence.
type CacheConfig struct {
	Dir           string            `yaml:"dir"`           // Empty = user cache dir
	Backend       string            `yaml:"backend"`       // "file", "bolt", "memory" (default: "file")
	FlushInterval yamlutil.Duration `yaml:"flushInterval"` // 0 = flush on exit only
}

// RenderConfig defines render scheduling.
type RenderConfig struct {
	Workers int               `yaml:"workers"` // 0 = auto
	Timeout yamlutil.Duration `yaml:"timeout"` // per block, 0 = none
}

// HighlightConfig defines the built-in highlighter's output.
type HighlightConfig struct {
	Style         string                    `yaml:"style"`
	Classes       bool                      `yaml:"classes"`
	LineNumbers   bool                      `yaml:"lineNumbers"`
	TabWidth      int                       `yaml:"tabWidth"`
	WrapLongLines bool                      `yaml:"wrapLongLines"`
	CopyButton    bool                      `yaml:"copyButton"`
	LanguageBadge bool                      `yaml:"languageBadge"`
	Overrides     map[string]OverrideConfig `yaml:"overrides"` // replaces the built-in overrides when set
}

// OverrideConfig adjusts rendering for one language.
type OverrideConfig struct {
	LineNumbers *bool  `yaml:"lineNumbers"`
	Frame       string `yaml:"frame"` // "code", "terminal", "none"
}

// DefaultConfig returns the stock configuration: file-backed cache in the
// user cache directory, 10s render timeout, github-styled highlighting.
func DefaultConfig() *Config {
	hl := highlight.DefaultOptions()
	return &Config{
		Cache: CacheConfig{
			Backend: string(rendercache.BackendFile),
		},
		Render: RenderConfig{
			Timeout: yamlutil.Duration(DefaultRenderTimeout),
		},
		Highlight: HighlightConfig{
			Style:         hl.Style,
			Classes:       hl.Classes,
			LineNumbers:   hl.LineNumbers,
			TabWidth:      hl.TabWidth,
			WrapLongLines: hl.WrapLongLines,
			CopyButton:    hl.CopyButton,
			LanguageBadge: hl.LanguageBadge,
			Overrides:     overridesToConfig(hl.Overrides),
		},
	}
}

// Validate checks enums, ranges and the highlight style.
// Called automatically by LoadConfig, but available for consumers
// who construct Config manually.
func (c *Config) Validate() error {
	if _, err := rendercache.ParseBackend(c.Cache.Backend); err != nil {
		return fmt.Errorf("%w: cache.backend: %v", ErrInvalidConfig, err)
	}
	if c.Cache.FlushInterval < 0 {
		return fmt.Errorf("%w: cache.flushInterval: must not be negative, got %v", ErrInvalidConfig, c.Cache.FlushInterval.Std())
	}

	if c.Render.Workers < 0 || c.Render.Workers > MaxWorkers {
		return fmt.Errorf("%w: render.workers: must be between 0 and %d, got %d", ErrInvalidConfig, MaxWorkers, c.Render.Workers)
	}
	if c.Render.Timeout < 0 {
		return fmt.Errorf("%w: render.timeout: must not be negative, got %v", ErrInvalidConfig, c.Render.Timeout.Std())
	}

	if err := c.HighlightOptions().Validate(); err != nil {
		return fmt.Errorf("%w: highlight: %w", ErrInvalidConfig, err)
	}

	for alias, lang := range c.Aliases {
		if strings.TrimSpace(alias) == "" || strings.TrimSpace(lang) == "" {
			return fmt.Errorf("%w: aliases: empty entry %q: %q", ErrInvalidConfig, alias, lang)
		}
		if len(alias) > MaxAliasLength || len(lang) > MaxAliasLength {
			return fmt.Errorf("%w: aliases: %q exceeds %d chars", ErrInvalidConfig, alias, MaxAliasLength)
		}
	}

	return nil
}

// HighlightOptions converts the highlight section for the renderer.
func (c *Config) HighlightOptions() highlight.Options {
	h := c.Highlight
	opts := highlight.Options{
		Style:         h.Style,
		Classes:       h.Classes,
		LineNumbers:   h.LineNumbers,
		TabWidth:      h.TabWidth,
		WrapLongLines: h.WrapLongLines,
		CopyButton:    h.CopyButton,
		LanguageBadge: h.LanguageBadge,
	}
	if len(h.Overrides) > 0 {
		opts.Overrides = make(map[string]highlight.Override, len(h.Overrides))
		for lang, ov := range h.Overrides {
			opts.Overrides[strings.ToLower(lang)] = highlight.Override{LineNumbers: ov.LineNumbers, Frame: ov.Frame}
		}
	}
	return opts
}

// CacheOptions converts the cache section. An empty dir selects the default
// per-user cache directory.
func (c *Config) CacheOptions(logger *slog.Logger) rendercache.Options {
	dir := c.Cache.Dir
	if dir == "" {
		dir = rendercache.DefaultDir()
	}
	backend, _ := rendercache.ParseBackend(c.Cache.Backend)
	return rendercache.Options{
		Dir:           dir,
		Backend:       backend,
		FlushInterval: c.Cache.FlushInterval.Std(),
		Logger:        logger,
	}
}

func overridesToConfig(in map[string]highlight.Override) map[string]OverrideConfig {
	out := make(map[string]OverrideConfig, len(in))
	for lang, ov := range in {
		out[lang] = OverrideConfig{LineNumbers: ov.LineNumbers, Frame: ov.Frame}
	}
	return out
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Keys missing from the file keep their DefaultConfig values.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if fileutil.IsFilePath(nameOrPath) {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	defaultOverrides := maps.Clone(cfg.Highlight.Overrides)
	cfg.Highlight.Overrides = nil

	if err := yamlutil.UnmarshalStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}
	if cfg.Highlight.Overrides == nil {
		cfg.Highlight.Overrides = defaultOverrides
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// resolveConfigPath searches for a config file by name in standard locations.
// Tries extensions in order: .yaml, .yml
// Tries locations in order: current directory, <user config dir>/go-fencecache/
func resolveConfigPath(name string) (string, error) {
	extensions := []string{".yaml", ".yml"}
	triedPaths := make([]string, 0, len(extensions)*2)

	for _, ext := range extensions {
		localPath := name + ext
		if fileutil.FileExists(localPath) {
			return localPath, nil
		}
		triedPaths = append(triedPaths, localPath)
	}

	userConfigDir, err := os.UserConfigDir()
	if err == nil {
		for _, ext := range extensions {
			userPath := filepath.Join(userConfigDir, AppDirName, name+ext)
			if fileutil.FileExists(userPath) {
				return userPath, nil
			}
			triedPaths = append(triedPaths, userPath)
		}
	}

	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(triedPaths, ", "))
}
