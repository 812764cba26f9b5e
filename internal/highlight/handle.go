package highlight

import (
	"context"
	"io"
	"sync"
	"sync/atomic"
)

// Handle builds its Engine on first use. Concurrent first callers wait for
// the same construction and share its result, error included.
type Handle struct {
	opts      Options
	signature string

	once   sync.Once
	engine *Engine
	err    error
	ready  atomic.Bool
}

// NewHandle returns a Handle for opts without building the engine.
func NewHandle(opts Options) *Handle {
	return &Handle{opts: opts, signature: opts.Signature()}
}

// Engine returns the shared engine, building it on the first call.
func (h *Handle) Engine() (*Engine, error) {
	h.once.Do(func() {
		h.engine, h.err = New(h.opts)
		h.ready.Store(true)
	})
	return h.engine, h.err
}

// Initialized reports whether the engine has been built.
func (h *Handle) Initialized() bool {
	return h.ready.Load()
}

// Signature identifies the rendering setup. It does not build the engine,
// so cache keys can be computed before the first render.
func (h *Handle) Signature() string {
	return h.signature
}

// Render highlights one block. It checks ctx before doing any work; chroma
// itself is not interruptible.
func (h *Handle) Render(ctx context.Context, code, language, meta string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	e, err := h.Engine()
	if err != nil {
		return "", err
	}
	return e.Render(code, language, meta)
}

// WriteCSS writes the chroma stylesheet, building the engine if needed.
func (h *Handle) WriteCSS(w io.Writer) error {
	e, err := h.Engine()
	if err != nil {
		return err
	}
	return e.WriteCSS(w)
}
