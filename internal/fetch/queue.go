package fetch

import (
	"sync"

	"github.com/go-slippy/slippy/internal/tilecoord"
	"github.com/go-slippy/slippy/internal/tilestate"
)

// Result is what a fetch or decode task pushes onto the shared result
// queue: a coord paired with either a decoded texture and its raw
// bytes, or an error, plus whether this attempt was a retry.
type Result struct {
	Coord    tilecoord.Coord
	Texture  tilestate.Texture
	Bytes    []byte
	Err      error
	WasRetry bool
}

// Queue is the MPSC result queue: any number of worker goroutines push
// concurrently, only the main-thread orchestrator drains it, once per
// frame, via the swap-with-empty pattern so producers never block on
// the drain.
type Queue struct {
	mu      sync.Mutex
	pending []Result
}

func NewQueue() *Queue {
	return &Queue{}
}

// Push enqueues one result. Safe to call from any goroutine.
func (q *Queue) Push(r Result) {
	q.mu.Lock()
	q.pending = append(q.pending, r)
	q.mu.Unlock()
}

// DrainAll atomically swaps out the pending slice and returns it,
// leaving the queue empty for the next frame's producers.
func (q *Queue) DrainAll() []Result {
	q.mu.Lock()
	out := q.pending
	q.pending = nil
	q.mu.Unlock()
	return out
}
