// Package tilecoord implements the integer tile-coordinate algebra:
// the (x, y, z) addressing scheme and the parent/child relations
// between zoom levels.
package tilecoord

import "strconv"

// MaxZoom is the highest supported zoom level.
const MaxZoom = 19

// Coord is an integer tile address. Z is the zoom level; X and Y are
// tile indices in [0, 2^Z). Coord is comparable and usable as a map
// key directly.
type Coord struct {
	X, Y, Z int
}

// N returns 2^z, the number of tiles per axis at zoom z.
func N(z int) int {
	return 1 << uint(z)
}

// Wrap folds x into [0, n) the way a cyclic longitude axis requires.
// Using the modulo-add-modulo form keeps this correct for negative x,
// which Go's % operator alone does not guarantee.
func Wrap(x, n int) int {
	return ((x % n) + n) % n
}

// Normalize wraps Z's X coordinate modulo 2^Z and clamps Y to
// [0, 2^Z-1]; Z itself is left untouched (callers are expected to have
// already clamped zoom to the valid range).
func (c Coord) Normalize() Coord {
	n := N(c.Z)
	y := c.Y
	if y < 0 {
		y = 0
	} else if y >= n {
		y = n - 1
	}
	return Coord{X: Wrap(c.X, n), Y: y, Z: c.Z}
}

// Valid reports whether c addresses a real tile: z in [0,MaxZoom] and
// x, y within [0, 2^z).
func (c Coord) Valid() bool {
	if c.Z < 0 || c.Z > MaxZoom {
		return false
	}
	n := N(c.Z)
	return c.X >= 0 && c.X < n && c.Y >= 0 && c.Y < n
}

// Parent returns the tile at z-1 containing c, and false if c is
// already at zoom 0.
func (c Coord) Parent() (Coord, bool) {
	if c.Z <= 0 {
		return Coord{}, false
	}
	return Coord{X: c.X >> 1, Y: c.Y >> 1, Z: c.Z - 1}, true
}

// Children returns the four tiles at z+1 covering c, and false if c is
// already at MaxZoom.
func (c Coord) Children() ([4]Coord, bool) {
	if c.Z >= MaxZoom {
		return [4]Coord{}, false
	}
	x2, y2, z2 := c.X*2, c.Y*2, c.Z+1
	return [4]Coord{
		{X: x2, Y: y2, Z: z2},
		{X: x2 + 1, Y: y2, Z: z2},
		{X: x2, Y: y2 + 1, Z: z2},
		{X: x2 + 1, Y: y2 + 1, Z: z2},
	}, true
}

// Ancestor walks up levels generations from c, stopping early (and
// returning false) if it would go above zoom 0.
func (c Coord) Ancestor(levels int) (Coord, bool) {
	cur := c
	for i := 0; i < levels; i++ {
		p, ok := cur.Parent()
		if !ok {
			return Coord{}, false
		}
		cur = p
	}
	return cur, true
}

// IsAncestorOf reports whether c is a strict ancestor of other at
// depth exactly `depth` (the tile covering `other` after `depth`
// Parent steps).
func (c Coord) IsAncestorOf(other Coord, depth int) bool {
	if depth <= 0 || other.Z-c.Z != depth {
		return false
	}
	a, ok := other.Ancestor(depth)
	if !ok {
		return false
	}
	return a == c
}

// Less orders coords by (Z, Y, X) — not essential to correctness, but
// gives callers (tests, deterministic iteration) a total order.
func Less(a, b Coord) bool {
	if a.Z != b.Z {
		return a.Z < b.Z
	}
	if a.Y != b.Y {
		return a.Y < b.Y
	}
	return a.X < b.X
}

// Key returns a unique, human-readable string key for a tile, used by
// the disk cache layout and by debug logging.
func (c Coord) Key() string {
	return strconv.Itoa(c.Z) + "/" + strconv.Itoa(c.X) + "/" + strconv.Itoa(c.Y)
}
