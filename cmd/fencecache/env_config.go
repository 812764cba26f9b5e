package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/alnah/go-fencecache/internal/config"
	"github.com/alnah/go-fencecache/internal/yamlutil"
)

// envPrefix namespaces every recognized variable.
const envPrefix = "FENCECACHE_"

// envConfig holds configuration from environment variables.
// Provides CI/CD-friendly overrides without requiring YAML files.
type envConfig struct {
	ConfigPath string        // FENCECACHE_CONFIG: config file path
	CacheDir   string        // FENCECACHE_CACHE_DIR: cache directory
	Backend    string        // FENCECACHE_BACKEND: file, bolt, memory
	Style      string        // FENCECACHE_STYLE: chroma style name
	Timeout    time.Duration // FENCECACHE_TIMEOUT: per-block render timeout
	Workers    int           // FENCECACHE_WORKERS: concurrent renders
}

// knownEnvVars lists valid FENCECACHE_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	"FENCECACHE_CONFIG":    true,
	"FENCECACHE_CACHE_DIR": true,
	"FENCECACHE_BACKEND":   true,
	"FENCECACHE_STYLE":     true,
	"FENCECACHE_TIMEOUT":   true,
	"FENCECACHE_WORKERS":   true,
}

// loadEnvConfig reads configuration from environment variables.
// Malformed or non-positive numbers are ignored.
func loadEnvConfig(getenv func(string) string) *envConfig {
	cfg := &envConfig{
		ConfigPath: getenv("FENCECACHE_CONFIG"),
		CacheDir:   getenv("FENCECACHE_CACHE_DIR"),
		Backend:    getenv("FENCECACHE_BACKEND"),
		Style:      getenv("FENCECACHE_STYLE"),
	}

	if timeout := getenv("FENCECACHE_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil && d > 0 {
			cfg.Timeout = d
		}
	}

	if workers := getenv("FENCECACHE_WORKERS"); workers != "" {
		if w, err := strconv.Atoi(workers); err == nil && w > 0 {
			cfg.Workers = w
		}
	}

	return cfg
}

// warnUnknownEnvVars prints a warning for each unrecognized FENCECACHE_*
// variable. Helps catch typos like FENCECACHE_WORKER.
func warnUnknownEnvVars(w io.Writer, environ []string) {
	for _, env := range environ {
		if strings.HasPrefix(env, envPrefix) {
			name := strings.SplitN(env, "=", 2)[0]
			if !knownEnvVars[name] {
				fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
			}
		}
	}
}

// applyEnvConfig applies environment variable values to cfg.
// A value is only applied where cfg still holds its default, so a config
// file wins over the environment. This ensures:
// CLI flags > config file > env vars > defaults
// (CLI flags are applied later via mergeFlags)
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	def := config.DefaultConfig()

	if env.CacheDir != "" && cfg.Cache.Dir == def.Cache.Dir {
		cfg.Cache.Dir = env.CacheDir
	}
	if env.Backend != "" && cfg.Cache.Backend == def.Cache.Backend {
		cfg.Cache.Backend = env.Backend
	}
	if env.Style != "" && cfg.Highlight.Style == def.Highlight.Style {
		cfg.Highlight.Style = env.Style
	}
	if env.Timeout > 0 && cfg.Render.Timeout == def.Render.Timeout {
		cfg.Render.Timeout = yamlutil.Duration(env.Timeout)
	}
	if env.Workers > 0 && cfg.Render.Workers == def.Render.Workers {
		cfg.Render.Workers = env.Workers
	}
}
