package rendercache

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/alnah/go-fencecache/internal/fileutil"
)

// DirName is the directory created under the user cache directory.
const DirName = "go-fencecache"

// Options configures Open.
type Options struct {
	Dir           string        // cache directory; empty keeps the cache in memory
	Backend       Backend       // empty selects BackendFile
	FlushInterval time.Duration // 0 disables periodic flushing
	Logger        *slog.Logger  // nil discards logs
}

// Stats is a point-in-time view of cache usage.
type Stats struct {
	Entries int    // entries held in memory
	Pending int    // entries not yet flushed
	Hits    int64  // successful lookups since open
	Misses  int64  // failed lookups since open
	Store   string // persistence location, empty when memory-only
}

// Cache is a concurrency-safe content-addressed store of rendered markup.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]string
	added   map[string]string
	store   Store

	flushMu sync.Mutex
	log     *slog.Logger

	hits   atomic.Int64
	misses atomic.Int64

	stop      chan struct{}
	done      chan struct{}
	closeOnce sync.Once
	closeErr  error
}

// DefaultDir returns the default cache directory: the user cache directory
// joined with DirName, or a relative ".cache" directory when the platform
// reports none.
func DefaultDir() string {
	base, err := os.UserCacheDir()
	if err != nil || base == "" {
		return filepath.Join(".cache", DirName)
	}
	return filepath.Join(base, DirName)
}

// NewMemory returns an empty cache that is never persisted.
func NewMemory() *Cache {
	return newCache(nil)
}

func newCache(log *slog.Logger) *Cache {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Cache{
		entries: make(map[string]string),
		added:   make(map[string]string),
		log:     log,
	}
}

// Open loads the cache persisted in opts.Dir.
// It never fails: load problems start an empty cache and storage problems
// keep the cache in memory only. Both are logged.
func Open(opts Options) *Cache {
	c := newCache(opts.Logger)

	backend := opts.Backend
	if backend == "" {
		backend = BackendFile
	}
	if opts.Dir == "" || backend == BackendMemory {
		c.log.Debug("render cache is memory-only", "backend", backend)
		return c
	}

	if err := fileutil.EnsureDir(opts.Dir); err != nil {
		c.log.Warn("cache directory unavailable, using memory-only cache", "dir", opts.Dir, "error", err)
		return c
	}

	store, err := OpenStore(backend, opts.Dir)
	if err != nil {
		c.log.Warn("cache store unavailable, using memory-only cache", "dir", opts.Dir, "backend", backend, "error", err)
		return c
	}
	c.store = store

	entries, err := store.Load()
	if err != nil {
		c.log.Warn("cache load failed, starting cold", "path", store.Location(), "error", err)
		entries = nil
	}
	for k, v := range entries {
		c.entries[k] = v
	}
	c.log.Debug("render cache opened", "path", store.Location(), "entries", len(c.entries))

	if opts.FlushInterval > 0 {
		c.startFlusher(opts.FlushInterval)
	}
	return c
}

// Lookup returns the markup stored under key.
func (c *Cache) Lookup(key string) (string, bool) {
	c.mu.RLock()
	markup, ok := c.entries[key]
	c.mu.RUnlock()

	if ok {
		c.hits.Add(1)
	} else {
		c.misses.Add(1)
	}
	return markup, ok
}

// Insert stores markup under key. Re-inserting an identical value is a no-op;
// a different value replaces the old one.
func (c *Cache) Insert(key, markup string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if old, ok := c.entries[key]; ok && old == markup {
		return
	}
	c.entries[key] = markup
	if c.store != nil {
		c.added[key] = markup
	}
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Persistent reports whether the cache still has a backing store.
func (c *Cache) Persistent() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.store != nil
}

// Stats returns usage counters.
func (c *Cache) Stats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	s := Stats{
		Entries: len(c.entries),
		Pending: len(c.added),
		Hits:    c.hits.Load(),
		Misses:  c.misses.Load(),
	}
	if c.store != nil {
		s.Store = c.store.Location()
	}
	return s
}

// Flush persists pending entries. A write failure drops the store, leaving
// the cache memory-only for the rest of the process, and is returned wrapped
// in ErrCacheWrite.
func (c *Cache) Flush() error {
	c.flushMu.Lock()
	defer c.flushMu.Unlock()

	c.mu.RLock()
	store := c.store
	if store == nil || len(c.added) == 0 {
		c.mu.RUnlock()
		return nil
	}
	snap := Snapshot{
		All:   maps.Clone(c.entries),
		Added: maps.Clone(c.added),
	}
	c.mu.RUnlock()

	if err := store.Write(snap); err != nil {
		c.degrade(store, err)
		if errors.Is(err, ErrCacheWrite) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrCacheWrite, err)
	}

	c.mu.Lock()
	for k, v := range snap.Added {
		if c.added[k] == v {
			delete(c.added, k)
		}
	}
	c.mu.Unlock()

	c.log.Debug("render cache flushed", "path", store.Location(), "written", len(snap.Added), "entries", len(snap.All))
	return nil
}

// degrade detaches a failing store.
func (c *Cache) degrade(store Store, cause error) {
	c.mu.Lock()
	if c.store == store {
		c.store = nil
		c.added = make(map[string]string)
	}
	c.mu.Unlock()

	c.log.Warn("cache write failed, continuing with memory-only cache", "path", store.Location(), "error", cause)
	if err := store.Close(); err != nil {
		c.log.Debug("closing failed cache store", "error", err)
	}
}

// Clear removes every entry from memory and from the store.
func (c *Cache) Clear() error {
	c.flushMu.Lock()
	defer c.flushMu.Unlock()

	c.mu.Lock()
	c.entries = make(map[string]string)
	c.added = make(map[string]string)
	store := c.store
	c.mu.Unlock()

	if store == nil {
		return nil
	}
	return store.Reset()
}

// Close stops periodic flushing, flushes pending entries and releases the
// store. It is safe to call more than once.
func (c *Cache) Close() error {
	c.closeOnce.Do(func() {
		if c.stop != nil {
			close(c.stop)
			<-c.done
		}

		flushErr := c.Flush()

		c.mu.Lock()
		store := c.store
		c.store = nil
		c.mu.Unlock()

		var closeErr error
		if store != nil {
			closeErr = store.Close()
		}
		c.closeErr = errors.Join(flushErr, closeErr)
	})
	return c.closeErr
}

func (c *Cache) startFlusher(interval time.Duration) {
	c.stop = make(chan struct{})
	c.done = make(chan struct{})

	go func() {
		defer close(c.done)

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-c.stop:
				return
			case <-ticker.C:
				if err := c.Flush(); err != nil {
					c.log.Warn("periodic cache flush failed", "error", err)
				}
			}
		}
	}()
}
