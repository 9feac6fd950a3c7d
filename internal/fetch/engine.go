// Package fetch implements the asynchronous fetch engine: fetch-tile
// and decode-tile tasks, a bounded worker pool and the shared MPSC
// result queue.
//
// Grounded on tiles/worker/pool.go for the dispatcher/worker-slot
// shape (generalized from its ad hoc chan struct{} slot counting to
// golang.org/x/sync/semaphore's weighted semaphore, and from its
// fire-and-forget Submit into a caller that awaits task completion
// only via the result queue, never a return value) and
// maps/osmtileprovider.go for the disk-then-HTTP fetch shape and
// request header construction.
package fetch

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/go-slippy/slippy/internal/diskcache"
	"github.com/go-slippy/slippy/internal/provider"
	"github.com/go-slippy/slippy/internal/tilecoord"
	"github.com/go-slippy/slippy/internal/tilestate"
)

// Decoder turns encoded tile bytes into a GPU-resident Texture. The
// concrete implementation (internal/render.Decoder) lives with the
// rendering backend so this package stays renderer-agnostic.
type Decoder interface {
	Decode(data []byte) (tilestate.Texture, error)
}

// Engine owns the shared collaborators a fetch or decode task needs:
// the bounded concurrency gate, an HTTP client, the disk store/index,
// the URL provider, the decoder and the result queue.
type Engine struct {
	Sem        *semaphore.Weighted
	HTTPClient *http.Client
	Store      *diskcache.Store
	Index      *diskcache.Index
	Provider   provider.URLProvider
	Decoder    Decoder
	Queue      *Queue
	Logger     *slog.Logger
	Clock      diskcache.Clock
}

// MaxConcurrentFetches is the worker pool's width.
const MaxConcurrentFetches = 6

// New builds an Engine with a fresh semaphore of width
// MaxConcurrentFetches and an *http.Client with a 15-second timeout.
func New(store *diskcache.Store, index *diskcache.Index, p provider.URLProvider, dec Decoder, clock diskcache.Clock, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		Sem:        semaphore.NewWeighted(MaxConcurrentFetches),
		HTTPClient: &http.Client{Timeout: 15 * time.Second},
		Store:      store,
		Index:      index,
		Provider:   p,
		Decoder:    dec,
		Queue:      NewQueue(),
		Logger:     logger,
		Clock:      clock,
	}
}

// SpawnFetch runs the fetch-tile task in its own goroutine, acquiring
// a worker slot first (blocking the goroutine, never the caller).
// ctx's cancellation is checked at every step; a result is pushed to
// e.Queue exactly once unless cancellation preempted the task
// entirely.
func (e *Engine) SpawnFetch(ctx context.Context, coord tilecoord.Coord, wasRetry bool) {
	go func() {
		if err := e.Sem.Acquire(ctx, 1); err != nil {
			return // context cancelled while queued for a slot.
		}
		defer e.Sem.Release(1)
		e.runFetch(ctx, coord, wasRetry)
	}()
}

func (e *Engine) runFetch(ctx context.Context, coord tilecoord.Coord, wasRetry bool) {
	if ctx.Err() != nil {
		return // step 1: cancelled before starting.
	}

	data, fromDisk, err := e.readOrDownload(ctx, coord)
	if ctx.Err() != nil {
		return // step 4: drop bytes without emitting.
	}
	if err != nil {
		e.Queue.Push(Result{Coord: coord, Err: err, WasRetry: wasRetry})
		return
	}

	if !fromDisk {
		e.writeToDiskIfAbsent(coord, data)
	}

	e.decodeAndPush(ctx, coord, data, wasRetry)
}

// readOrDownload implements steps 2-3: disk cache first (touching its
// entry on a hit), falling through to the network on a miss or a read
// error.
func (e *Engine) readOrDownload(ctx context.Context, coord tilecoord.Coord) (data []byte, fromDisk bool, err error) {
	if e.Store.Exists(coord) {
		if b, rerr := e.Store.Read(coord); rerr == nil {
			e.Index.TouchEntry(coord)
			return b, true, nil
		}
		e.Logger.Warn("fetch: disk read failed, falling back to network", "coord", coord.Key())
	}

	b, err := e.httpGet(ctx, coord)
	if err != nil {
		return nil, false, err
	}
	return b, false, nil
}

// httpGet is maps/osmtileprovider.go's request-construction shape
// generalized to a configurable provider.URLProvider.
func (e *Engine) httpGet(ctx context.Context, coord tilecoord.Coord) ([]byte, error) {
	url := e.Provider.URLFor(coord)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch: building request for %s: %w", coord.Key(), err)
	}
	req.Header.Set("User-Agent", "slippy/1.0 (+https://github.com/go-slippy/slippy)")
	req.Header.Set("Accept", "image/png,image/*;q=0.8,*/*;q=0.5")

	resp, err := e.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch: requesting %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch: %s returned status %d", url, resp.StatusCode)
	}

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, resp.Body); err != nil {
		return nil, fmt.Errorf("fetch: reading body of %s: %w", url, err)
	}
	return buf.Bytes(), nil
}

// writeToDiskIfAbsent implements step 5: write unless the file already
// exists; after a successful write, atomically select and remove
// evictions from the index and add the new entry, then fire-and-forget
// delete the evicted files. Evictions are not selected before the
// write, so the directory can briefly hold one file beyond the budget.
// A failed write leaves the index unchanged.
func (e *Engine) writeToDiskIfAbsent(coord tilecoord.Coord, data []byte) {
	if e.Store.Exists(coord) {
		return
	}

	n, err := e.Store.Write(coord, data)
	if err != nil {
		e.Logger.Warn("fetch: disk write failed", "coord", coord.Key(), "error", err)
		return
	}

	evicted := e.Index.AddEntry(diskcache.Entry{
		Coord: coord, FilePath: e.Store.Path(coord), SizeBytes: n,
		LastAccessTime: e.Clock.NowMs(),
	})

	for _, ev := range evicted {
		go func(c tilecoord.Coord) {
			if err := e.Store.Delete(c); err != nil {
				e.Logger.Warn("fetch: evicted-file delete failed", "coord", c.Key(), "error", err)
			}
		}(ev.Coord)
	}
}

// decodeAndPush implements steps 6-8, shared with SpawnDecode.
func (e *Engine) decodeAndPush(ctx context.Context, coord tilecoord.Coord, data []byte, wasRetry bool) {
	tex, err := e.Decoder.Decode(data)
	if err != nil {
		e.Queue.Push(Result{Coord: coord, Err: err, WasRetry: wasRetry})
		return
	}

	if ctx.Err() != nil {
		// step 7: cancelled after decode, destroy before returning.
		tex.Release()
		return
	}

	e.Queue.Push(Result{Coord: coord, Texture: tex, Bytes: data, WasRetry: wasRetry})
}

// SpawnDecode runs only the decode leg of the fetch task, for
// re-decoding a Cached tile's bytes that reentered view.
func (e *Engine) SpawnDecode(ctx context.Context, coord tilecoord.Coord, data []byte) {
	go func() {
		if err := e.Sem.Acquire(ctx, 1); err != nil {
			return
		}
		defer e.Sem.Release(1)
		if ctx.Err() != nil {
			return
		}
		e.decodeAndPush(ctx, coord, data, false)
	}()
}
