package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"

	fencecache "github.com/alnah/go-fencecache"
	"github.com/alnah/go-fencecache/internal/config"
	"github.com/alnah/go-fencecache/internal/hints"
)

// stdinPath selects standard input as the document.
const stdinPath = "-"

// runRender rewrites one file, a directory tree, or standard input.
func runRender(ctx context.Context, args []string, env *Environment) error {
	f, positional, err := parseRenderFlags(args, env.Stderr)
	if err != nil {
		return err
	}
	if len(positional) == 0 {
		printRenderUsage(env.Stderr)
		return ErrNoInput
	}
	if len(positional) > 1 {
		return fmt.Errorf("%w: expected one input, got %d", ErrUsage, len(positional))
	}
	input := positional[0]

	logger := newLogger(env.Stderr, f.common.quiet, f.common.verbose)
	warnUnknownEnvVars(env.Stderr, env.Environ())

	cfg, err := resolveConfig(f.common.config, loadEnvConfig(env.Getenv))
	if err != nil {
		return err
	}
	mergeFlags(f, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	h, err := fencecache.NewHighlighter(cfg.HighlightOptions())
	if err != nil {
		return err
	}

	cache := openCache(cfg, f.cache.disabled, logger, env)
	// Flushed on every exit path, interrupted runs included.
	defer func() {
		if err := cache.Close(); err != nil {
			logger.Warn("cache not persisted", "error", err)
		}
	}()

	rw, err := fencecache.NewHighlightRewriter(h,
		fencecache.WithCache(cache),
		fencecache.WithTimeout(cfg.Render.Timeout.Std()),
		fencecache.WithWorkers(cfg.Render.Workers),
		fencecache.WithAliases(cfg.Aliases),
		fencecache.WithLogger(logger),
	)
	if err != nil {
		return err
	}

	var pages *pageBuilder
	if f.out.html {
		pages, err = newPageBuilderFor(h, cfg, f.out.assetPath)
		if err != nil {
			return err
		}
	}

	if input == stdinPath {
		return renderStdin(ctx, rw, pages, f.strict, env)
	}

	files, err := discoverFiles(input, f.out.output, f.exclude)
	if err != nil {
		return err
	}
	logger.Debug("documents discovered", "count", len(files), "workers", rw.Workers())

	results := renderBatch(ctx, rw, pages, files)
	summary := printResults(results, f.common.quiet, f.common.verbose, env)

	if f.common.verbose {
		st := cache.Stats()
		logger.Debug("cache", "entries", st.Entries, "hits", st.Hits, "misses", st.Misses, "store", st.Store)
	}

	if ctx.Err() != nil {
		return ctx.Err()
	}
	if summary.Failed > 0 {
		return fmt.Errorf("%w: %d of %d", ErrDocumentsFailed, summary.Failed, len(results))
	}
	if f.strict && summary.BlockFailures > 0 {
		return fmt.Errorf("%w: %d", ErrBlocksFailed, summary.BlockFailures)
	}
	return nil
}

// renderStdin rewrites standard input to standard output. With --html the
// page replaces the document on stdout.
func renderStdin(ctx context.Context, rw DocumentRewriter, pages *pageBuilder, strict bool, env *Environment) error {
	content, err := io.ReadAll(env.Stdin)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrReadInput, err)
	}

	res, err := rw.Rewrite(ctx, string(content))
	if err != nil {
		return err
	}

	out := res.Document
	if pages != nil {
		out, err = pages.build(ctx, res.Document, "", "")
		if err != nil {
			return err
		}
	}
	if _, err := io.WriteString(env.Stdout, out); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteOutput, err)
	}

	if strict && len(res.Failures) > 0 {
		return fmt.Errorf("%w: %d", ErrBlocksFailed, len(res.Failures))
	}
	return nil
}

// openCache opens the configured persistent cache, or a throwaway one when
// disabled is set. The library already logs why a store could not be
// opened; a locked bolt file additionally gets a hint.
func openCache(cfg *config.Config, disabled bool, logger *slog.Logger, env *Environment) *fencecache.Cache {
	if disabled {
		return fencecache.NewMemoryCache()
	}

	opts := cfg.CacheOptions(logger)
	cache := fencecache.OpenCache(opts)
	if opts.Backend == fencecache.BackendBolt && opts.Dir != "" && !cache.Persistent() {
		fmt.Fprintf(env.Stderr, "warning: bolt cache in %s not opened, results will not persist%s\n", opts.Dir, hints.ForStoreLocked())
	}
	return cache
}

// newPageBuilderFor builds pages styled to match h. In classes mode the
// chroma stylesheet joins the bundle; inline mode needs none.
func newPageBuilderFor(h *fencecache.Highlighter, cfg *config.Config, assetPath string) (*pageBuilder, error) {
	var css bytes.Buffer
	if cfg.Highlight.Classes {
		if err := h.WriteCSS(&css); err != nil {
			return nil, err
		}
	}
	return newPageBuilder(assetPath, css.String(), cfg.Highlight.Style)
}
