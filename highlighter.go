package fencecache

import (
	"context"
	"io"

	"github.com/alnah/go-fencecache/internal/highlight"
)

// HighlightOptions configures the built-in chroma renderer.
type HighlightOptions = highlight.Options

// HighlightOverride adjusts rendering for one language.
type HighlightOverride = highlight.Override

// Frame kinds accepted in HighlightOverride.Frame and the frame= meta key.
const (
	FrameCode     = highlight.FrameCode
	FrameTerminal = highlight.FrameTerminal
	FrameNone     = highlight.FrameNone
)

// DefaultHighlightOptions returns the stock rendering setup.
func DefaultHighlightOptions() HighlightOptions {
	return highlight.DefaultOptions()
}

// Highlighter is the built-in RenderFunc provider. The chroma engine behind
// it is built on the first render, once, and shared by concurrent callers.
type Highlighter struct {
	handle *highlight.Handle
}

// NewHighlighter validates opts. The engine itself is built lazily.
func NewHighlighter(opts HighlightOptions) (*Highlighter, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return &Highlighter{handle: highlight.NewHandle(opts)}, nil
}

// Render implements RenderFunc.
func (h *Highlighter) Render(ctx context.Context, code, language, meta string) (string, error) {
	return h.handle.Render(ctx, code, language, meta)
}

// ThemeContext identifies the rendering setup for cache keys. It does not
// build the engine, so fully cached documents never pay for it.
func (h *Highlighter) ThemeContext() string {
	return h.handle.Signature()
}

// WriteCSS writes the chroma stylesheet needed when Classes is set.
func (h *Highlighter) WriteCSS(w io.Writer) error {
	return h.handle.WriteCSS(w)
}

// NewHighlightRewriter returns a Rewriter rendering with h and keyed by its
// theme context. opts may override anything but the renderer.
func NewHighlightRewriter(h *Highlighter, opts ...Option) (*Rewriter, error) {
	if h == nil {
		return nil, ErrNilRenderer
	}
	all := append([]Option{WithThemeContext(h.ThemeContext())}, opts...)
	return NewRewriter(h.Render, all...)
}
