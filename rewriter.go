package fencecache

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/alnah/go-fencecache/internal/fence"
)

// Rewriter replaces fenced code blocks with rendered markup.
// It is safe for concurrent use; concurrent rewrites share the cache and
// coalesce identical in-flight renders.
type Rewriter struct {
	render       RenderFunc
	cache        *Cache
	themeContext string
	timeout      time.Duration
	workers      int
	aliases      map[string]string
	log          *slog.Logger

	flight singleflight.Group
}

// NewRewriter creates a Rewriter around render.
func NewRewriter(render RenderFunc, opts ...Option) (*Rewriter, error) {
	if render == nil {
		return nil, ErrNilRenderer
	}

	var cfg rewriterConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.timeout < 0 {
		return nil, fmt.Errorf("%w: negative timeout %v", ErrInvalidOption, cfg.timeout)
	}
	if cfg.cache == nil {
		cfg.cache = NewMemoryCache()
	}
	if cfg.aliases == nil {
		cfg.aliases = maps.Clone(defaultAliases)
	}
	if cfg.logger == nil {
		cfg.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Rewriter{
		render:       render,
		cache:        cfg.cache,
		themeContext: cfg.themeContext,
		timeout:      cfg.timeout,
		workers:      ResolveWorkers(cfg.workers),
		aliases:      cfg.aliases,
		log:          cfg.logger,
	}, nil
}

// Cache returns the cache the rewriter reads and fills.
func (r *Rewriter) Cache() *Cache {
	return r.cache
}

// Workers returns the render concurrency limit.
func (r *Rewriter) Workers() int {
	return r.workers
}

// Normalize folds lang through the rewriter's alias table.
func (r *Rewriter) Normalize(lang string) string {
	return normalizeLanguage(r.aliases, lang)
}

// Rewrite replaces every fenced block in doc with its rendered markup.
//
// Blocks are resolved concurrently, then spliced in a single pass. A block
// whose render fails keeps its raw text and is reported in Result.Failures.
// The only error Rewrite returns is the context's.
func (r *Rewriter) Rewrite(ctx context.Context, doc string) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	blocks := fence.Locate(doc)
	res := &Result{Document: doc, Blocks: len(blocks)}
	if len(blocks) == 0 {
		return res, nil
	}

	resolved, err := r.resolve(ctx, blocks)
	if err != nil {
		return nil, err
	}

	for i, rs := range resolved {
		if rs.err == nil {
			res.Rendered++
			if rs.hit {
				res.CacheHits++
			}
			continue
		}

		be := &BlockError{
			Index:    i,
			Line:     blocks[i].Line,
			Language: rs.language,
			Meta:     blocks[i].Meta,
			Err:      rs.err,
		}
		res.Failures = append(res.Failures, be)
		r.log.Warn("render failed, keeping raw block",
			"block", i+1, "line", be.Line, "language", be.Language, "meta", be.Meta, "error", be.Err)
	}

	res.Document = splice(doc, blocks, resolved)

	r.log.Debug("document rewritten",
		"blocks", res.Blocks, "rendered", res.Rendered, "cache_hits", res.CacheHits, "failures", len(res.Failures))
	return res, nil
}
