package provider

import (
	"fmt"
	"strings"

	"github.com/go-slippy/slippy/internal/tilecoord"
)

// Template is a generic {s}/{z}/{x}/{y}-style provider, grounded on
// maps/osmtileprovider.go's GetTileURL (there hardcoded to the OSM
// tile.openstreetmap.org host; generalized here into a reusable
// template string so any XYZ tile server can be configured).
type Template struct {
	// URL contains the literal placeholders {s}, {z}, {x}, {y}.
	URL        string
	Subdomains []string
	// TilesetName is what Name returns ("template" when empty).
	TilesetName string
}

func (t Template) Name() string {
	if t.TilesetName != "" {
		return t.TilesetName
	}
	return "template"
}

func (t Template) URLFor(coord tilecoord.Coord) string {
	url := t.URL
	if len(t.Subdomains) > 0 {
		sub := t.Subdomains[(coord.X+coord.Y)%len(t.Subdomains)]
		url = strings.ReplaceAll(url, "{s}", sub)
	}
	url = strings.ReplaceAll(url, "{z}", fmt.Sprintf("%d", coord.Z))
	url = strings.ReplaceAll(url, "{x}", fmt.Sprintf("%d", coord.X))
	url = strings.ReplaceAll(url, "{y}", fmt.Sprintf("%d", coord.Y))
	return url
}

// OSM returns a Template configured for the standard OpenStreetMap tile
// server, grounded directly on maps/osmtileprovider.go's URL.
func OSM() Template {
	return Template{
		URL:         "https://tile.openstreetmap.org/{z}/{x}/{y}.png",
		TilesetName: "osm",
	}
}
