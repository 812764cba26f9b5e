// Package fencecache replaces fenced code blocks in Markdown-like documents
// with rendered markup, memoizing every render in a content-addressed cache
// that survives across runs.
//
// # Quick Start
//
// Open a cache, build a highlighter, rewrite, and close the cache when done:
//
//	cache := fencecache.OpenCache(fencecache.CacheOptions{
//	    Dir: fencecache.DefaultCacheDir(),
//	})
//	defer cache.Close()
//
//	hl, err := fencecache.NewHighlighter(fencecache.DefaultHighlightOptions())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	rw, err := fencecache.NewHighlightRewriter(hl, fencecache.WithCache(cache))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	result, err := rw.Rewrite(ctx, doc)
//	if err != nil {
//	    log.Fatal(err) // only when ctx is canceled
//	}
//	fmt.Print(result.Document)
//
// # Custom Renderers
//
// Any function with the RenderFunc signature can render blocks. Pass a theme
// context that changes whenever its output would:
//
//	rw, err := fencecache.NewRewriter(myRender,
//	    fencecache.WithThemeContext("dracula"),
//	    fencecache.WithTimeout(5*time.Second),
//	)
//
// # Pipeline
//
//  1. Locate fenced blocks (``` or ~~~, three or more, closed by the same run).
//  2. Fold each language through the alias table (js becomes javascript).
//  3. Key each block by its code, language, theme context and meta.
//  4. Resolve blocks concurrently: cache hit, or render and insert.
//  5. Splice markup back, last block first. Blocks whose render failed keep
//     their raw text and are listed in Result.Failures.
//
// # Caching
//
// Entries are immutable and never evicted. The file backend rewrites one
// msgpack snapshot atomically on every flush; the bolt backend writes only
// new entries. A missing, corrupt or foreign-version snapshot starts an empty
// cache, and an unusable cache directory falls back to memory.
package fencecache
