package provider

import (
	"fmt"

	"github.com/go-slippy/slippy/internal/tilecoord"
)

// CartoDB is the default provider: the dark_all basemap at
// basemaps.cartocdn.com. The exact same URL shape (without the
// subdomain rotation) shows up verbatim in
// aapoleppanen-overhead_flights_monitor's tile loaders, independently
// confirming this is the pack's canonical default tileset.
type CartoDB struct {
	// Subdomains used for cache coherence via (x+y) mod len(Subdomains).
	Subdomains []string
	// Style is the basemap style path segment, e.g. "dark_all".
	Style string
	// Retina selects the @2x asset.
	Retina bool
}

// DefaultCartoDB returns the dark_all, retina, {a,b,c,d}-subdomain
// configuration used as the default provider.
func DefaultCartoDB() CartoDB {
	return CartoDB{
		Subdomains: []string{"a", "b", "c", "d"},
		Style:      "dark_all",
		Retina:     true,
	}
}

func (p CartoDB) Name() string {
	return "cartodb-" + p.Style
}

// URLFor builds the tile URL, selecting a subdomain by
// (x+y) mod len(Subdomains) for cache coherence (repeated requests for
// the same tile hit the same CDN edge).
func (p CartoDB) URLFor(coord tilecoord.Coord) string {
	sub := p.Subdomains[(coord.X+coord.Y)%len(p.Subdomains)]
	suffix := ".png"
	if p.Retina {
		suffix = "@2x.png"
	}
	return fmt.Sprintf("https://%s.basemaps.cartocdn.com/%s/%d/%d/%d%s",
		sub, p.Style, coord.Z, coord.X, coord.Y, suffix)
}
