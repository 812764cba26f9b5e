package rendercache

// Notes:
// - Write failures are simulated with failingStore rather than filesystem
//   permissions, which do not apply when tests run as root.
// - DefaultDir depends on the platform cache directory; we only check that it
//   ends with DirName.

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/vmihailenco/msgpack/v5"
)

// ---------------------------------------------------------------------------
// Test Infrastructure - Fake store
// ---------------------------------------------------------------------------

type failingStore struct {
	mu     sync.Mutex
	writes int
	closed bool
}

func (s *failingStore) Load() (map[string]string, error) { return map[string]string{}, nil }

func (s *failingStore) Write(Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writes++
	return fmt.Errorf("%w: disk full", ErrCacheWrite)
}

func (s *failingStore) Reset() error { return nil }

func (s *failingStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func (s *failingStore) Location() string { return "failing" }

// ---------------------------------------------------------------------------
// TestCache_LookupInsert - In-memory semantics
// ---------------------------------------------------------------------------

func TestCache_LookupInsert(t *testing.T) {
	t.Parallel()

	c := NewMemory()
	key := Fingerprint("x", "go", "")

	if _, ok := c.Lookup(key); ok {
		t.Fatal("Lookup on empty cache should miss")
	}

	c.Insert(key, "<pre>x</pre>")
	got, ok := c.Lookup(key)
	if !ok || got != "<pre>x</pre>" {
		t.Errorf("Lookup() = %q, %v; want %q, true", got, ok, "<pre>x</pre>")
	}

	c.Insert(key, "<pre>x</pre>")
	if c.Len() != 1 {
		t.Errorf("Len() = %d after idempotent insert, want 1", c.Len())
	}

	c.Insert(key, "<pre>y</pre>")
	if got, _ := c.Lookup(key); got != "<pre>y</pre>" {
		t.Errorf("Lookup() = %q after overwrite, want %q", got, "<pre>y</pre>")
	}

	stats := c.Stats()
	if stats.Hits != 2 || stats.Misses != 1 {
		t.Errorf("Stats() hits=%d misses=%d, want 2 and 1", stats.Hits, stats.Misses)
	}
	if stats.Pending != 0 {
		t.Errorf("memory-only cache Pending = %d, want 0", stats.Pending)
	}
	if stats.Store != "" {
		t.Errorf("memory-only cache Store = %q, want empty", stats.Store)
	}
}

func TestCache_Concurrent(t *testing.T) {
	t.Parallel()

	c := NewMemory()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				key := Fingerprint(fmt.Sprint(j), "go", "")
				c.Insert(key, fmt.Sprint(j))
				if v, ok := c.Lookup(key); !ok || v != fmt.Sprint(j) {
					t.Errorf("goroutine %d: Lookup(%d) = %q, %v", i, j, v, ok)
				}
			}
		}(i)
	}
	wg.Wait()

	if c.Len() != 100 {
		t.Errorf("Len() = %d, want 100", c.Len())
	}
}

// ---------------------------------------------------------------------------
// TestOpen_Persistence - Round trips across "processes"
// ---------------------------------------------------------------------------

func TestOpen_Persistence(t *testing.T) {
	t.Parallel()

	for _, backend := range []Backend{BackendFile, BackendBolt} {
		t.Run(string(backend), func(t *testing.T) {
			t.Parallel()

			dir := filepath.Join(t.TempDir(), "nested", "cache")
			key := Fingerprint("fmt.Println()", "go", "style=github")

			first := Open(Options{Dir: dir, Backend: backend})
			if !first.Persistent() {
				t.Fatal("cache should be persistent")
			}
			first.Insert(key, "<pre>go</pre>")
			if err := first.Close(); err != nil {
				t.Fatalf("Close() error = %v", err)
			}

			if !fileExists(backend.Path(dir)) {
				t.Fatalf("store file %s not written", backend.Path(dir))
			}

			second := Open(Options{Dir: dir, Backend: backend})
			defer second.Close()

			got, ok := second.Lookup(key)
			if !ok || got != "<pre>go</pre>" {
				t.Errorf("Lookup() after reopen = %q, %v; want %q, true", got, ok, "<pre>go</pre>")
			}
		})
	}
}

func TestOpen_MissingSnapshotIsEmpty(t *testing.T) {
	t.Parallel()

	c := Open(Options{Dir: t.TempDir()})
	defer c.Close()

	if c.Len() != 0 {
		t.Errorf("Len() = %d, want 0", c.Len())
	}
	if !c.Persistent() {
		t.Error("cache should be persistent")
	}
}

func TestOpen_CorruptSnapshotStartsCold(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data []byte
	}{
		{name: "garbage", data: []byte("{not msgpack at all")},
		{name: "empty file", data: []byte{}},
		{name: "truncated", data: []byte{0x82, 0xa7}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()
			path := BackendFile.Path(dir)
			if err := os.WriteFile(path, tt.data, 0o600); err != nil {
				t.Fatalf("seeding snapshot: %v", err)
			}

			c := Open(Options{Dir: dir})
			if c.Len() != 0 {
				t.Errorf("Len() = %d, want 0", c.Len())
			}

			// The next flush heals the file.
			c.Insert("k", "v")
			if err := c.Close(); err != nil {
				t.Fatalf("Close() error = %v", err)
			}

			entries, err := NewFileStore(path).Load()
			if err != nil {
				t.Fatalf("Load() after heal error = %v", err)
			}
			if entries["k"] != "v" {
				t.Errorf("entries = %v, want k=v", entries)
			}
		})
	}
}

func TestFileStore_VersionMismatch(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := BackendFile.Path(dir)
	data, err := msgpack.Marshal(&snapshotFile{
		Version: FormatVersion + 1,
		Entries: map[string]string{"k": "v"},
	})
	if err != nil {
		t.Fatalf("encoding snapshot: %v", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("seeding snapshot: %v", err)
	}

	if _, err := NewFileStore(path).Load(); !errors.Is(err, ErrSnapshotVersion) {
		t.Errorf("Load() error = %v, want %v", err, ErrSnapshotVersion)
	}

	c := Open(Options{Dir: dir})
	defer c.Close()
	if _, ok := c.Lookup("k"); ok {
		t.Error("entries from another format version should be discarded")
	}
}

func TestFileStore_RoundTrip(t *testing.T) {
	t.Parallel()

	store := NewFileStore(filepath.Join(t.TempDir(), SnapshotFileName))
	want := map[string]string{"a": "<pre>1</pre>", "b": "<pre>2</pre>"}
	if err := store.Write(Snapshot{All: want}); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	got, err := store.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Load() mismatch (-want +got):\n%s", diff)
	}

	if err := store.Reset(); err != nil {
		t.Fatalf("Reset() error = %v", err)
	}
	if err := store.Reset(); err != nil {
		t.Errorf("Reset() on missing file error = %v", err)
	}
}

func TestOpen_DirectoryUnavailable(t *testing.T) {
	t.Parallel()

	file := filepath.Join(t.TempDir(), "not-a-dir")
	if err := os.WriteFile(file, []byte("x"), 0o600); err != nil {
		t.Fatalf("seeding file: %v", err)
	}

	c := Open(Options{Dir: filepath.Join(file, "cache")})
	if c.Persistent() {
		t.Error("cache should degrade to memory-only")
	}

	c.Insert("k", "v")
	if v, ok := c.Lookup("k"); !ok || v != "v" {
		t.Errorf("memory-only cache Lookup() = %q, %v", v, ok)
	}
	if err := c.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}

func TestOpen_MemoryBackend(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	c := Open(Options{Dir: dir, Backend: BackendMemory})
	c.Insert("k", "v")
	if err := c.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir() error = %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("memory backend wrote %d files", len(entries))
	}
}

// ---------------------------------------------------------------------------
// TestCache_Flush - Write failures and periodic flushing
// ---------------------------------------------------------------------------

func TestCache_FlushFailureDegrades(t *testing.T) {
	t.Parallel()

	store := &failingStore{}
	c := newCache(nil)
	c.store = store

	c.Insert("k", "v")
	err := c.Flush()
	if !errors.Is(err, ErrCacheWrite) {
		t.Fatalf("Flush() error = %v, want %v", err, ErrCacheWrite)
	}
	if c.Persistent() {
		t.Error("cache should be memory-only after write failure")
	}
	if !store.closed {
		t.Error("failing store should be closed")
	}

	// Still usable, and further flushes are no-ops.
	c.Insert("k2", "v2")
	if err := c.Flush(); err != nil {
		t.Errorf("Flush() after degrade error = %v", err)
	}
	if store.writes != 1 {
		t.Errorf("store writes = %d, want 1", store.writes)
	}
	if v, ok := c.Lookup("k2"); !ok || v != "v2" {
		t.Errorf("Lookup() = %q, %v after degrade", v, ok)
	}
}

func TestCache_FlushClearsPending(t *testing.T) {
	t.Parallel()

	c := Open(Options{Dir: t.TempDir()})
	defer c.Close()

	c.Insert("a", "1")
	c.Insert("b", "2")
	if got := c.Stats().Pending; got != 2 {
		t.Fatalf("Pending = %d, want 2", got)
	}
	if err := c.Flush(); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}
	if got := c.Stats().Pending; got != 0 {
		t.Errorf("Pending after flush = %d, want 0", got)
	}
}

func TestCache_PeriodicFlush(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	c := Open(Options{Dir: dir, FlushInterval: 10 * time.Millisecond})
	defer c.Close()

	c.Insert("k", "v")

	path := BackendFile.Path(dir)
	deadline := time.Now().Add(5 * time.Second)
	for !fileExists(path) {
		if time.Now().After(deadline) {
			t.Fatal("periodic flush did not write the snapshot")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestCache_Clear(t *testing.T) {
	t.Parallel()

	for _, backend := range []Backend{BackendFile, BackendBolt} {
		t.Run(string(backend), func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()
			c := Open(Options{Dir: dir, Backend: backend})
			c.Insert("k", "v")
			if err := c.Flush(); err != nil {
				t.Fatalf("Flush() error = %v", err)
			}
			if err := c.Clear(); err != nil {
				t.Fatalf("Clear() error = %v", err)
			}
			if c.Len() != 0 {
				t.Errorf("Len() after Clear = %d, want 0", c.Len())
			}
			if err := c.Close(); err != nil {
				t.Fatalf("Close() error = %v", err)
			}

			reopened := Open(Options{Dir: dir, Backend: backend})
			defer reopened.Close()
			if reopened.Len() != 0 {
				t.Errorf("Len() after reopen = %d, want 0", reopened.Len())
			}
		})
	}
}

func TestCache_CloseIdempotent(t *testing.T) {
	t.Parallel()

	c := Open(Options{Dir: t.TempDir(), FlushInterval: time.Hour})
	if err := c.Close(); err != nil {
		t.Fatalf("first Close() error = %v", err)
	}
	if err := c.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
}

func TestDefaultDir(t *testing.T) {
	t.Parallel()

	if got := filepath.Base(DefaultDir()); got != DirName {
		t.Errorf("DefaultDir() base = %q, want %q", got, DirName)
	}
}

// ---------------------------------------------------------------------------
// TestParseBackend - Backend names
// ---------------------------------------------------------------------------

func TestParseBackend(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input   string
		want    Backend
		wantErr error
	}{
		{input: "", want: BackendFile},
		{input: "file", want: BackendFile},
		{input: "BOLT", want: BackendBolt},
		{input: " memory ", want: BackendMemory},
		{input: "redis", wantErr: ErrUnknownBackend},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			got, err := ParseBackend(tt.input)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("ParseBackend(%q) error = %v, want %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseBackend(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
