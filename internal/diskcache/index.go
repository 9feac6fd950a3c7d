// Package diskcache implements the in-memory LRU index of on-disk tile
// files: it tracks {coord, file_path, size_bytes, last_access_time} per
// tile and selects eviction victims when a write would exceed the
// configured byte budget.
//
// The index is the sole authority during a run; rebuilding it from disk
// on start (to reconcile orphan files left by a prior crash) is not
// implemented — see DESIGN.md.
//
// Grounded on github.com/hashicorp/golang-lru/v2's Cache (precedent:
// rotblauer-catd's s2/cell_indexer.go), used here as the membership/
// recency structure; eviction selection itself additionally consults
// each Entry's explicit LastAccessTime so the budget invariant holds
// regardless of the library's internal iteration order.
package diskcache

import (
	"sort"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/go-slippy/slippy/internal/tilecoord"
)

// Entry describes one on-disk tile file tracked by the index.
type Entry struct {
	Coord          tilecoord.Coord
	FilePath       string
	SizeBytes      int64
	LastAccessTime int64 // ms, per now_ms()
}

// Clock supplies the current wall-clock time in milliseconds, injected
// so touch-entry bookkeeping is testable without a real clock.
type Clock interface {
	NowMs() int64
}

// ClockFunc adapts a plain function to Clock.
type ClockFunc func() int64

func (f ClockFunc) NowMs() int64 { return f() }

// Index is the disk cache's in-memory LRU index. It is mutated under a
// mutex since fetch tasks call AddEntry/SelectEvictions from the
// worker pool, off the main thread.
type Index struct {
	mu            sync.Mutex
	cache         *lru.Cache[tilecoord.Coord, *Entry]
	MaxSizeBytes  int64
	clock         Clock
	totalSize     int64
}

// DefaultMaxSizeBytes is disk_max_bytes's documented default, 100 MiB.
const DefaultMaxSizeBytes int64 = 100 * 1024 * 1024

// New constructs an empty Index with the given byte budget and clock.
// capacity bounds the number of distinct tracked entries (not bytes);
// it is set generously since SelectEvictions, not the library's own
// overflow eviction, is what enforces the byte budget.
func New(maxSizeBytes int64, clock Clock) *Index {
	c, err := lru.New[tilecoord.Coord, *Entry](1 << 20)
	if err != nil {
		// Only returns an error for a non-positive size, which the
		// constant above never produces.
		panic(err)
	}
	return &Index{cache: c, MaxSizeBytes: maxSizeBytes, clock: clock}
}

// TouchEntry updates coord's LastAccessTime to now and bumps its
// recency in the underlying LRU.
func (idx *Index) TouchEntry(coord tilecoord.Coord) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	e, ok := idx.cache.Get(coord)
	if !ok {
		return
	}
	e.LastAccessTime = idx.clock.NowMs()
}

// SelectEvictions returns the minimum prefix of the LRU-sorted (oldest
// LastAccessTime first) entries whose cumulative size, once removed,
// leaves room for newSize within MaxSizeBytes. It does not mutate the
// index; callers apply the result via RemoveEntries.
func (idx *Index) SelectEvictions(newSize int64) []Entry {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	return idx.selectEvictionsLocked(newSize)
}

func (idx *Index) selectEvictionsLocked(newSize int64) []Entry {
	need := idx.totalSize + newSize - idx.MaxSizeBytes
	if need <= 0 {
		return nil
	}

	entries := make([]*Entry, 0, idx.cache.Len())
	for _, k := range idx.cache.Keys() {
		if e, ok := idx.cache.Peek(k); ok {
			entries = append(entries, e)
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].LastAccessTime != entries[j].LastAccessTime {
			return entries[i].LastAccessTime < entries[j].LastAccessTime
		}
		return tilecoord.Less(entries[i].Coord, entries[j].Coord)
	})

	var freed int64
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if freed >= need {
			break
		}
		freed += e.SizeBytes
		out = append(out, *e)
	}
	return out
}

// AddEntry atomically selects and removes evictions (if needed to fit
// e within MaxSizeBytes) and adds e, returning the evicted entries so
// the caller can fire-and-forget delete their files.
func (idx *Index) AddEntry(e Entry) (evicted []Entry) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	evicted = idx.selectEvictionsLocked(e.SizeBytes)
	for _, ev := range evicted {
		if _, ok := idx.cache.Peek(ev.Coord); ok {
			idx.cache.Remove(ev.Coord)
			idx.totalSize -= ev.SizeBytes
		}
	}

	cp := e
	if old, ok := idx.cache.Peek(e.Coord); ok {
		idx.totalSize -= old.SizeBytes
		idx.cache.Remove(e.Coord)
	}
	idx.cache.Add(e.Coord, &cp)
	idx.totalSize += e.SizeBytes
	return evicted
}

// RemoveEntries erases the given coords, if present.
func (idx *Index) RemoveEntries(coords []tilecoord.Coord) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	for _, c := range coords {
		if e, ok := idx.cache.Peek(c); ok {
			idx.totalSize -= e.SizeBytes
			idx.cache.Remove(c)
		}
	}
}

// Get returns a copy of coord's entry, if present.
func (idx *Index) Get(coord tilecoord.Coord) (Entry, bool) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	e, ok := idx.cache.Peek(coord)
	if !ok {
		return Entry{}, false
	}
	return *e, true
}

// TotalSize returns the current sum of tracked SizeBytes.
func (idx *Index) TotalSize() int64 {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	return idx.totalSize
}

// Len returns the number of tracked entries.
func (idx *Index) Len() int {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	return idx.cache.Len()
}
