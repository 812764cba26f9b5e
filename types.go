package fencecache

import (
	"context"
	"log/slog"
	"maps"
	"strings"
	"time"
)

// RenderFunc turns one fenced block into markup. language is already folded
// through the alias table. It may be called concurrently.
type RenderFunc func(ctx context.Context, code, language, meta string) (string, error)

// Result is the outcome of Rewrite.
type Result struct {
	Document  string        // rewritten text
	Blocks    int           // fenced blocks located
	Rendered  int           // blocks replaced by markup
	CacheHits int           // replaced blocks served from the cache
	Failures  []*BlockError // blocks left as raw text, in document order
}

// Option configures a Rewriter.
type Option func(*rewriterConfig)

type rewriterConfig struct {
	cache        *Cache
	themeContext string
	timeout      time.Duration
	workers      int
	aliases      map[string]string
	logger       *slog.Logger
}

// WithCache shares c between rewriters and runs. The caller owns c and
// closes it. Without this option each Rewriter gets a private in-memory cache.
func WithCache(c *Cache) Option {
	return func(cfg *rewriterConfig) {
		cfg.cache = c
	}
}

// WithThemeContext sets the visual signature mixed into every cache key.
// Renderers whose output depends on a theme must pass a value that changes
// with it.
func WithThemeContext(theme string) Option {
	return func(cfg *rewriterConfig) {
		cfg.themeContext = theme
	}
}

// WithTimeout bounds each render call. Zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(cfg *rewriterConfig) {
		cfg.timeout = d
	}
}

// WithWorkers caps concurrent renders. Zero or less selects ResolveWorkers(0).
func WithWorkers(n int) Option {
	return func(cfg *rewriterConfig) {
		cfg.workers = n
	}
}

// WithAliases adds language aliases on top of the built-in table.
// Keys and values are matched case-insensitively.
func WithAliases(aliases map[string]string) Option {
	return func(cfg *rewriterConfig) {
		if cfg.aliases == nil {
			cfg.aliases = maps.Clone(defaultAliases)
		}
		for k, v := range aliases {
			cfg.aliases[strings.ToLower(strings.TrimSpace(k))] = strings.ToLower(strings.TrimSpace(v))
		}
	}
}

// WithLogger sets the logger for render failures and cache activity.
func WithLogger(l *slog.Logger) Option {
	return func(cfg *rewriterConfig) {
		cfg.logger = l
	}
}
