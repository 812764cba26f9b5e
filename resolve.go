package fencecache

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/alnah/go-fencecache/internal/fence"
	"github.com/alnah/go-fencecache/internal/rendercache"
)

// resolution is the markup for one block, or why there is none.
type resolution struct {
	markup   string
	language string
	hit      bool
	err      error
}

// resolve computes markup for every block, at most r.workers renders at a
// time. It fails only when ctx is done.
func (r *Rewriter) resolve(ctx context.Context, blocks []fence.Block) ([]resolution, error) {
	out := make([]resolution, len(blocks))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)

	for i, b := range blocks {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			out[i] = r.resolveBlock(gctx, b)
			return nil
		})
	}

	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Rewriter) resolveBlock(ctx context.Context, b fence.Block) resolution {
	lang := r.Normalize(b.Language)
	key := rendercache.Fingerprint(b.Code, lang, rendercache.ThemeContext(r.themeContext, b.Meta))

	if markup, ok := r.cache.Lookup(key); ok {
		return resolution{markup: markup, language: lang, hit: true}
	}

	// The shared render is detached from any one caller's cancellation, so
	// a document that gives up does not fail the others waiting on the key.
	// Each caller still stops waiting when its own ctx is done.
	flightCtx := context.WithoutCancel(ctx)
	ch := r.flight.DoChan(key, func() (any, error) {
		// Another flight for this key may have finished since the lookup above.
		if markup, ok := r.cache.Lookup(key); ok {
			return markup, nil
		}

		markup, err := r.renderBlock(flightCtx, b.Code, lang, b.Meta)
		if err != nil {
			return "", err
		}
		r.cache.Insert(key, markup)
		return markup, nil
	})

	select {
	case <-ctx.Done():
		return resolution{language: lang, err: ctx.Err()}
	case res := <-ch:
		if res.Err != nil {
			return resolution{language: lang, err: res.Err}
		}
		return resolution{markup: res.Val.(string), language: lang}
	}
}

// renderBlock calls the render function under the per-render timeout.
// The render runs in its own goroutine so a renderer that ignores ctx cannot
// hold the block past its deadline. Panics become ErrRenderPanic.
// Callers pass a context without cancellation; ctx only carries values and
// the deadline set here.
func (r *Rewriter) renderBlock(ctx context.Context, code, lang, meta string) (string, error) {
	parent := ctx
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	type result struct {
		markup string
		err    error
	}

	done := make(chan result, 1)

	go func() {
		defer func() {
			if rec := recover(); rec != nil {
				done <- result{err: fmt.Errorf("%w: %v", ErrRenderPanic, rec)}
			}
		}()
		markup, err := r.render(ctx, code, lang, meta)
		done <- result{markup: markup, err: err}
	}()

	select {
	case <-ctx.Done():
		if parent.Err() == nil && errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return "", fmt.Errorf("%w after %v", ErrRenderTimeout, r.timeout)
		}
		return "", ctx.Err()
	case res := <-done:
		if res.err != nil {
			if errors.Is(res.err, ErrRenderPanic) {
				return "", res.err
			}
			return "", fmt.Errorf("%w: %w", ErrRenderFailed, res.err)
		}
		return res.markup, nil
	}
}
