package provider

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/go-slippy/slippy/internal/tilecoord"
	"github.com/stretchr/testify/require"
)

func TestCartoDBURLGeneration(t *testing.T) {
	p := DefaultCartoDB()
	coord := tilecoord.Coord{X: 1234, Y: 5678, Z: 12}
	url := p.URLFor(coord)
	require.Equal(t, "https://a.basemaps.cartocdn.com/dark_all/12/1234/5678@2x.png", url)
}

func TestCartoDBSubdomainRotation(t *testing.T) {
	p := DefaultCartoDB()
	seen := map[string]bool{}
	for x := 0; x < 8; x++ {
		url := p.URLFor(tilecoord.Coord{X: x, Y: 0, Z: 5})
		for _, s := range p.Subdomains {
			if strings.Contains(url, s+".basemaps") {
				seen[s] = true
			}
		}
	}
	require.Greater(t, len(seen), 1, "expected more than one subdomain to be used across tiles")
}

func TestTemplateSubstitution(t *testing.T) {
	tpl := OSM()
	url := tpl.URLFor(tilecoord.Coord{X: 1, Y: 2, Z: 3})
	require.Equal(t, "https://tile.openstreetmap.org/3/1/2.png", url)
}

func TestLocalRendersValidPNG(t *testing.T) {
	l := NewLocal()
	bytes, err := l.Render(tilecoord.Coord{X: 1, Y: 2, Z: 3})
	require.NoError(t, err)
	require.True(t, len(bytes) > 8)
	// PNG magic bytes.
	require.Equal(t, []byte{0x89, 'P', 'N', 'G'}, bytes[:4])
}

type constFetcher struct {
	bytes []byte
	err   error
}

func (f constFetcher) FetchBytes(context.Context, tilecoord.Coord) ([]byte, error) {
	return f.bytes, f.err
}

func TestCombinedFallsBackOnPrimaryError(t *testing.T) {
	c := Combined{
		Primary:  constFetcher{err: errors.New("network down")},
		Fallback: constFetcher{bytes: []byte("fallback")},
	}
	got, err := c.FetchBytes(context.Background(), tilecoord.Coord{})
	require.NoError(t, err)
	require.Equal(t, []byte("fallback"), got)
}

func TestCombinedUsesPrimaryWhenHealthy(t *testing.T) {
	c := Combined{
		Primary:  constFetcher{bytes: []byte("primary")},
		Fallback: constFetcher{bytes: []byte("fallback")},
	}
	got, err := c.FetchBytes(context.Background(), tilecoord.Coord{})
	require.NoError(t, err)
	require.Equal(t, []byte("primary"), got)
}
