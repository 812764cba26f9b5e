package highlight

import (
	"context"
	"errors"
	"sync"
	"testing"
)

// ---------------------------------------------------------------------------
// TestHandle - Lazy shared engine
// ---------------------------------------------------------------------------

func TestHandle_Lazy(t *testing.T) {
	t.Parallel()

	h := NewHandle(DefaultOptions())
	if h.Initialized() {
		t.Fatal("engine built before first use")
	}
	if h.Signature() != DefaultOptions().Signature() {
		t.Errorf("Signature() = %q, want %q", h.Signature(), DefaultOptions().Signature())
	}
	if h.Initialized() {
		t.Fatal("Signature() should not build the engine")
	}

	if _, err := h.Render(context.Background(), "x\n", "go", ""); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if !h.Initialized() {
		t.Error("engine not built after Render()")
	}
}

func TestHandle_ConcurrentInit(t *testing.T) {
	t.Parallel()

	h := NewHandle(DefaultOptions())

	const n = 32
	engines := make([]*Engine, n)
	var wg sync.WaitGroup
	for i := range n {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			e, err := h.Engine()
			if err != nil {
				t.Errorf("Engine() error = %v", err)
				return
			}
			engines[i] = e
		}(i)
	}
	wg.Wait()

	for i, e := range engines {
		if e != engines[0] {
			t.Fatalf("goroutine %d got a different engine instance", i)
		}
	}
}

func TestHandle_InitError(t *testing.T) {
	t.Parallel()

	opts := DefaultOptions()
	opts.Style = "no-such-style"
	h := NewHandle(opts)

	for range 2 {
		if _, err := h.Render(context.Background(), "x", "go", ""); !errors.Is(err, ErrUnknownStyle) {
			t.Errorf("Render() error = %v, want %v", err, ErrUnknownStyle)
		}
	}
}

func TestHandle_CanceledContext(t *testing.T) {
	t.Parallel()

	h := NewHandle(DefaultOptions())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := h.Render(ctx, "x", "go", ""); !errors.Is(err, context.Canceled) {
		t.Errorf("Render() error = %v, want %v", err, context.Canceled)
	}
	if h.Initialized() {
		t.Error("canceled Render() should not build the engine")
	}
}
