package tilecoord

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParentChildInverse(t *testing.T) {
	coords := []Coord{
		{X: 0, Y: 0, Z: 0},
		{X: 1234, Y: 5678, Z: 12},
		{X: 3, Y: 1, Z: 2},
		{X: 0, Y: 0, Z: MaxZoom - 1},
	}
	for _, c := range coords {
		if c.Z >= MaxZoom {
			continue
		}
		children, ok := c.Children()
		if !ok {
			t.Fatalf("Children(%v) returned !ok unexpectedly", c)
		}
		for _, ch := range children {
			parent, ok := ch.Parent()
			if !ok {
				t.Fatalf("Parent(%v) returned !ok unexpectedly", ch)
			}
			if diff := cmp.Diff(c, parent); diff != "" {
				t.Errorf("parent(child(%v)) mismatch (-want +got):\n%s", c, diff)
			}
		}
	}
}

func TestParentAtZoomZero(t *testing.T) {
	c := Coord{X: 0, Y: 0, Z: 0}
	if _, ok := c.Parent(); ok {
		t.Fatalf("Parent() at z=0 should return !ok")
	}
}

func TestChildrenAtMaxZoom(t *testing.T) {
	c := Coord{X: 0, Y: 0, Z: MaxZoom}
	if _, ok := c.Children(); ok {
		t.Fatalf("Children() at MaxZoom should return !ok")
	}
}

func TestWrap(t *testing.T) {
	cases := []struct {
		x, n, want int
	}{
		{5, 8, 5},
		{-1, 8, 7},
		{8, 8, 0},
		{-9, 8, 7},
		{0, 1, 0},
	}
	for _, c := range cases {
		if got := Wrap(c.x, c.n); got != c.want {
			t.Errorf("Wrap(%d,%d) = %d, want %d", c.x, c.n, got, c.want)
		}
	}
}

func TestNormalizeWrapsXClampsY(t *testing.T) {
	c := Coord{X: -1, Y: -3, Z: 2}.Normalize()
	want := Coord{X: 3, Y: 0, Z: 2}
	if diff := cmp.Diff(want, c); diff != "" {
		t.Errorf("Normalize mismatch (-want +got):\n%s", diff)
	}

	c2 := Coord{X: 10, Y: 99, Z: 2}.Normalize()
	want2 := Coord{X: 2, Y: 3, Z: 2}
	if diff := cmp.Diff(want2, c2); diff != "" {
		t.Errorf("Normalize mismatch (-want +got):\n%s", diff)
	}
}

func TestAncestorAndIsAncestorOf(t *testing.T) {
	c := Coord{X: 1234, Y: 5678, Z: 12}
	anc, ok := c.Ancestor(3)
	if !ok {
		t.Fatal("Ancestor(3) !ok")
	}
	if anc.Z != 9 {
		t.Fatalf("Ancestor z = %d, want 9", anc.Z)
	}
	if !anc.IsAncestorOf(c, 3) {
		t.Fatalf("expected %v to be ancestor of %v at depth 3", anc, c)
	}
	if anc.IsAncestorOf(c, 2) {
		t.Fatalf("did not expect %v to be ancestor of %v at depth 2", anc, c)
	}
}

func TestValid(t *testing.T) {
	if !(Coord{X: 0, Y: 0, Z: 0}).Valid() {
		t.Error("(0,0,0) should be valid")
	}
	if (Coord{X: 4, Y: 0, Z: 2}).Valid() {
		t.Error("(4,0,2) should be invalid: x out of range for z=2")
	}
	if (Coord{X: 0, Y: 0, Z: MaxZoom + 1}).Valid() {
		t.Error("z beyond MaxZoom should be invalid")
	}
}

func TestKey(t *testing.T) {
	c := Coord{X: 1234, Y: 5678, Z: 12}
	if got, want := c.Key(), "12/1234/5678"; got != want {
		t.Errorf("Key() = %q, want %q", got, want)
	}
}
