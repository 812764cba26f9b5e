package fencecache

import (
	"errors"
	"fmt"
)

// Sentinel errors for library operations.
var (
	ErrNilRenderer   = errors.New("render function cannot be nil")
	ErrInvalidOption = errors.New("invalid rewriter option")

	// Per-block failures, reported through BlockError.
	ErrRenderFailed  = errors.New("render failed")
	ErrRenderTimeout = errors.New("render timed out")
	ErrRenderPanic   = errors.New("render panicked")
)

// BlockError records why one fenced block was left unrendered.
type BlockError struct {
	Index    int    // position among the located blocks, 0-based
	Line     int    // 1-based line of the opening fence
	Language string // canonical language after alias folding
	Meta     string
	Err      error
}

func (e *BlockError) Error() string {
	if e.Language == "" {
		return fmt.Sprintf("block %d (line %d): %v", e.Index+1, e.Line, e.Err)
	}
	return fmt.Sprintf("block %d (line %d, %s): %v", e.Index+1, e.Line, e.Language, e.Err)
}

func (e *BlockError) Unwrap() error {
	return e.Err
}
