package provider

import (
	"context"

	"github.com/go-slippy/slippy/internal/tilecoord"
)

// BytesFetcher fetches a tile's raw encoded bytes (PNG). Local
// satisfies it through LocalFetcher; internal/fetch's Engine does not
// implement it, so Combined composes BytesFetcher values only.
type BytesFetcher interface {
	FetchBytes(ctx context.Context, coord tilecoord.Coord) ([]byte, error)
}

// LocalFetcher adapts Local to BytesFetcher.
type LocalFetcher struct{ Local Local }

func (f LocalFetcher) FetchBytes(_ context.Context, coord tilecoord.Coord) ([]byte, error) {
	return f.Local.Render(coord)
}

// Combined tries Primary first and falls back to Fallback on error. It
// does not itself cache or retry in the background — the tile cache's
// own parent/ancestor fallback (internal/render) is the real
// missing-tile story; Combined exists only as an optional offline/dev
// composition (e.g. network primary with a Local fallback for
// disconnected test runs).
type Combined struct {
	Primary  BytesFetcher
	Fallback BytesFetcher
}

func (c Combined) FetchBytes(ctx context.Context, coord tilecoord.Coord) ([]byte, error) {
	bytes, err := c.Primary.FetchBytes(ctx, coord)
	if err == nil {
		return bytes, nil
	}
	return c.Fallback.FetchBytes(ctx, coord)
}
