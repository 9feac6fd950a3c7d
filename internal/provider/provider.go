// Package provider supplies tile URL providers: the default CartoDB
// dark_all basemap, a generic {s}/{z}/{x}/{y} template provider, a
// local placeholder (debug/offline) provider, and a primary/fallback
// combinator.
package provider

import "github.com/go-slippy/slippy/internal/tilecoord"

// URLProvider builds the request URL for a tile. It is the
// configuration surface for the fetch engine's network leg; providers
// that are not URL-based (e.g. Local) are used through BytesFetcher
// (see LocalFetcher) instead.
type URLProvider interface {
	URLFor(coord tilecoord.Coord) string
	// Name is a short identifier for the provider. Nothing in the
	// repository calls it: the on-disk tileset directory comes from
	// config.Config.TilesetName.
	Name() string
}
