package main

import (
	"errors"
	"fmt"

	fencecache "github.com/alnah/go-fencecache"
)

// ErrCacheUnavailable reports a cache command whose store could not be opened.
var ErrCacheUnavailable = errors.New("cache store unavailable")

// runCache handles "cache stats" and "cache clear".
func runCache(args []string, env *Environment) error {
	f, positional, err := parseCacheFlags(args, env.Stderr)
	if err != nil {
		return err
	}
	if len(positional) != 1 {
		printCacheUsage(env.Stderr)
		return fmt.Errorf("%w: expected stats or clear", ErrUsage)
	}
	action := positional[0]
	if action != "stats" && action != "clear" {
		return fmt.Errorf("%w: unknown cache action %q", ErrUsage, action)
	}

	logger := newLogger(env.Stderr, f.common.quiet, f.common.verbose)

	cfg, err := resolveConfig(f.common.config, loadEnvConfig(env.Getenv))
	if err != nil {
		return err
	}
	if f.cache.dir != "" {
		cfg.Cache.Dir = f.cache.dir
	}
	if f.cache.backend != "" {
		cfg.Cache.Backend = f.cache.backend
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	// Opening degrades to memory on failure; acting on that would report
	// on a cache nothing reads.
	opts := cfg.CacheOptions(logger)
	cache := fencecache.OpenCache(opts)
	if opts.Backend != fencecache.BackendMemory && !cache.Persistent() {
		_ = cache.Close()
		if opts.Dir == "" {
			return fmt.Errorf("%w: no cache directory", ErrCacheUnavailable)
		}
		return fmt.Errorf("%w: %s cache in %s", ErrCacheUnavailable, opts.Backend, opts.Dir)
	}
	defer func() {
		if err := cache.Close(); err != nil {
			logger.Warn("cache not persisted", "error", err)
		}
	}()

	switch action {
	case "clear":
		before := cache.Len()
		if err := cache.Clear(); err != nil {
			return err
		}
		if !f.common.quiet {
			fmt.Fprintf(env.Stdout, "Cleared %d entries\n", before)
		}
	default:
		st := cache.Stats()
		store := st.Store
		if store == "" {
			store = "(memory)"
		}
		fmt.Fprintf(env.Stdout, "Store:   %s\n", store)
		fmt.Fprintf(env.Stdout, "Entries: %d\n", st.Entries)
	}
	return nil
}
