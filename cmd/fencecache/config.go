package main

import (
	"github.com/alnah/go-fencecache/internal/config"
	"github.com/alnah/go-fencecache/internal/yamlutil"
)

// resolveConfig loads the config named by --config, falling back to
// FENCECACHE_CONFIG and then to defaults. Environment values fill what the
// file left at defaults. The result is not yet validated.
func resolveConfig(flagConfig string, env *envConfig) (*config.Config, error) {
	name := flagConfig
	if name == "" {
		name = env.ConfigPath
	}

	cfg := config.DefaultConfig()
	if name != "" {
		loaded, err := config.LoadConfig(name)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	applyEnvConfig(env, cfg)
	return cfg, nil
}

// mergeFlags applies explicitly set flags over cfg.
func mergeFlags(f *renderFlags, cfg *config.Config) {
	mergeHighlightFlags(&f.highlight, f.changed, cfg)

	if f.changed["cache-dir"] {
		cfg.Cache.Dir = f.cache.dir
	}
	if f.changed["backend"] {
		cfg.Cache.Backend = f.cache.backend
	}
	if f.changed["flush-interval"] {
		cfg.Cache.FlushInterval = yamlutil.Duration(f.cache.flushInterval)
	}
	if f.changed["workers"] {
		cfg.Render.Workers = f.workers
	}
	if f.changed["timeout"] {
		cfg.Render.Timeout = yamlutil.Duration(f.timeout)
	}
}

// mergeHighlightFlags applies highlighter flags shared by render and css.
func mergeHighlightFlags(f *highlightFlags, changed map[string]bool, cfg *config.Config) {
	if changed["style"] {
		cfg.Highlight.Style = f.style
	}
	if changed["classes"] {
		cfg.Highlight.Classes = f.classes
	}
	if f.noLineNumbers {
		cfg.Highlight.LineNumbers = false
		for lang, ov := range cfg.Highlight.Overrides {
			ov.LineNumbers = nil
			cfg.Highlight.Overrides[lang] = ov
		}
	}
}
