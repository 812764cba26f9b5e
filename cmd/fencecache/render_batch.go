package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	fencecache "github.com/alnah/go-fencecache"
	"github.com/alnah/go-fencecache/internal/fileutil"
	"github.com/alnah/go-fencecache/internal/hints"
)

// Sentinel errors for batch operations.
var (
	ErrReadInput       = errors.New("failed to read input")
	ErrWriteOutput     = errors.New("failed to write output")
	ErrDocumentsFailed = errors.New("documents failed")
	ErrBlocksFailed    = errors.New("blocks failed to render")
)

// DocumentRewriter is the part of the library the batch depends on.
type DocumentRewriter interface {
	Rewrite(ctx context.Context, doc string) (*fencecache.Result, error)
	Workers() int
}

// Compile-time interface implementation check.
var _ DocumentRewriter = (*fencecache.Rewriter)(nil)

// RenderResult holds the outcome of a single document.
type RenderResult struct {
	InputPath  string
	OutputPath string
	HTMLPath   string // empty unless --html
	Blocks     int
	Rendered   int
	CacheHits  int
	Failures   []*fencecache.BlockError
	Err        error
	Duration   time.Duration
}

// renderBatch rewrites files concurrently. Each document fans its own blocks
// out to the rewriter's workers; the batch bounds how many documents are in
// flight at once.
func renderBatch(ctx context.Context, rw DocumentRewriter, pages *pageBuilder, files []FileToRender) []RenderResult {
	if len(files) == 0 {
		return nil
	}

	concurrency := rw.Workers()
	if concurrency > len(files) {
		concurrency = len(files)
	}

	results := make([]RenderResult, len(files))
	var wg sync.WaitGroup
	jobs := make(chan int, len(files))

	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			for idx := range jobs {
				if ctx.Err() != nil {
					results[idx] = RenderResult{
						InputPath: files[idx].InputPath,
						Err:       ctx.Err(),
					}
					continue
				}
				results[idx] = renderFile(ctx, rw, pages, files[idx])
			}
		}()
	}

	for i := range files {
		jobs <- i
	}
	close(jobs)

	wg.Wait()
	return results
}

// renderFile processes a single file and returns the result.
func renderFile(ctx context.Context, rw DocumentRewriter, pages *pageBuilder, f FileToRender) RenderResult {
	start := time.Now()
	result := RenderResult{
		InputPath:  f.InputPath,
		OutputPath: f.OutputPath,
	}
	fail := func(err error) RenderResult {
		result.Err = err
		result.Duration = time.Since(start)
		return result
	}

	content, err := os.ReadFile(f.InputPath) // #nosec G304 -- discovered path
	if err != nil {
		return fail(fmt.Errorf("%w: %v", ErrReadInput, err))
	}

	res, err := rw.Rewrite(ctx, string(content))
	if err != nil {
		return fail(err)
	}
	result.Blocks = res.Blocks
	result.Rendered = res.Rendered
	result.CacheHits = res.CacheHits
	result.Failures = res.Failures

	if err := writeOutput(f.OutputPath, []byte(res.Document)); err != nil {
		return fail(err)
	}

	if pages != nil {
		htmlPath := htmlOutputPath(f.OutputPath)
		page, err := pages.build(ctx, res.Document, f.InputPath, htmlPath)
		if err != nil {
			return fail(err)
		}
		if err := writeOutput(htmlPath, []byte(page)); err != nil {
			return fail(err)
		}
		result.HTMLPath = htmlPath
	}

	result.Duration = time.Since(start)
	return result
}

// writeOutput creates the parent directory and replaces path atomically.
func writeOutput(path string, data []byte) error {
	if err := fileutil.EnsureDir(filepath.Dir(path)); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteOutput, err)
	}
	if err := fileutil.WriteFileAtomic(path, data, fileutil.FilePermissions); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteOutput, err)
	}
	return nil
}

// failureHint suggests a longer timeout when a block timed out.
func failureHint(failures []*fencecache.BlockError) string {
	for _, f := range failures {
		if errors.Is(f, fencecache.ErrRenderTimeout) {
			return hints.ForTimeout()
		}
	}
	return ""
}

// ResultSummary holds document and block tallies for a batch.
type ResultSummary struct {
	Succeeded     int
	Failed        int
	Blocks        int
	Rendered      int
	CacheHits     int
	BlockFailures int
}

// countResults tallies a batch.
func countResults(results []RenderResult) ResultSummary {
	var summary ResultSummary
	for _, r := range results {
		if r.Err != nil {
			summary.Failed++
			continue
		}
		summary.Succeeded++
		summary.Blocks += r.Blocks
		summary.Rendered += r.Rendered
		summary.CacheHits += r.CacheHits
		summary.BlockFailures += len(r.Failures)
	}
	return summary
}

// printResults outputs per-document lines and a summary, and returns the
// tallies.
func printResults(results []RenderResult, quiet, verbose bool, env *Environment) ResultSummary {
	summary := countResults(results)

	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(env.Stderr, "FAILED %s: %v\n", r.InputPath, r.Err)
			continue
		}

		if quiet {
			continue
		}

		if verbose {
			fmt.Fprintf(env.Stdout, "%s -> %s (%d blocks, %d cached, %v)\n",
				r.InputPath, r.OutputPath, r.Blocks, r.CacheHits, r.Duration.Round(time.Millisecond))
		} else {
			fmt.Fprintf(env.Stdout, "Created %s\n", r.OutputPath)
		}
		if r.HTMLPath != "" {
			fmt.Fprintf(env.Stdout, "Created %s\n", r.HTMLPath)
		}
		if n := len(r.Failures); n > 0 {
			fmt.Fprintf(env.Stderr, "warning: %s: %d of %d blocks left raw%s\n", r.InputPath, n, r.Blocks, failureHint(r.Failures))
		}
	}

	if !quiet && len(results) > 1 {
		fmt.Fprintf(env.Stdout, "\n%d succeeded, %d failed (%d blocks, %d cached, %d left raw)\n",
			summary.Succeeded, summary.Failed, summary.Blocks, summary.CacheHits, summary.BlockFailures)
	}

	return summary
}
