package gridmath

import (
	"math/rand"
	"testing"
)

func TestBoundsWidthHeightInclusive(t *testing.T) {
	b := NewBoundsFromExtents(Vec{0, 0}, Vec{3, 1})
	if got := b.Width(); got != 4 {
		t.Errorf("Width = %d, want 4", got)
	}
	if got := b.Height(); got != 2 {
		t.Errorf("Height = %d, want 2", got)
	}
	if got := b.Area(); got != 8 {
		t.Errorf("Area = %d, want 8", got)
	}
}

func TestBoundsContainsIsInclusiveOnBothCorners(t *testing.T) {
	b := NewBoundsFromExtents(Vec{-2, -2}, Vec{2, 2})
	if !b.Contains(b.Min) || !b.Contains(b.Max) {
		t.Fatalf("expected both corners contained")
	}
	if b.Contains(Vec{3, 0}) || b.Contains(Vec{0, -3}) {
		t.Fatalf("expected points just outside to be excluded")
	}
}

func TestBoundsIndexRoundTrip(t *testing.T) {
	b := NewBoundsFromExtents(Vec{-4, -1}, Vec{5, 6})
	for p := range b.All() {
		idx := b.GetIndex(p)
		if got := b.AtIndex(idx); got != p {
			t.Fatalf("AtIndex(GetIndex(%v)) = %v", p, got)
		}
	}
}

func TestBoundsAllVisitsEveryCellOnce(t *testing.T) {
	b := NewBoundsFromExtents(Vec{0, 0}, Vec{2, 2})
	seen := map[Vec]bool{}
	count := 0
	for p := range b.All() {
		seen[p] = true
		count++
	}
	if count != int(b.Area()) {
		t.Fatalf("visited %d cells, want %d", count, b.Area())
	}
	if len(seen) != count {
		t.Fatalf("duplicate cells visited")
	}
}

func TestBoundsAllEmptyForDegenerate(t *testing.T) {
	b := Bounds{Min: Vec{5, 5}, Max: Vec{2, 2}}
	for range b.All() {
		t.Fatalf("expected no cells from a degenerate rectangle")
	}
}

func TestBoundsSlideVisitsEveryCellBottomToTop(t *testing.T) {
	b := NewBoundsFromExtents(Vec{0, 0}, Vec{4, 3})
	rng := rand.New(rand.NewSource(1))
	var rows []int32
	seen := map[Vec]bool{}
	for p := range b.Slide(rng) {
		if len(rows) == 0 || rows[len(rows)-1] != p.Y {
			rows = append(rows, p.Y)
		}
		seen[p] = true
	}
	if len(seen) != int(b.Area()) {
		t.Fatalf("slide visited %d cells, want %d", len(seen), b.Area())
	}
	for i, y := range rows {
		if y != b.Min.Y+int32(i) {
			t.Fatalf("rows out of bottom-to-top order: %v", rows)
		}
	}
}

func TestBoundsIntersectAndUnion(t *testing.T) {
	a := NewBoundsFromExtents(Vec{0, 0}, Vec{4, 4})
	b := NewBoundsFromExtents(Vec{2, 2}, Vec{6, 6})
	got, ok := a.Intersect(b)
	if !ok || got != (Bounds{Vec{2, 2}, Vec{4, 4}}) {
		t.Fatalf("Intersect = %v, %v", got, ok)
	}
	union := a.Union(b)
	if union != (Bounds{Vec{0, 0}, Vec{6, 6}}) {
		t.Fatalf("Union = %v", union)
	}

	c := NewBoundsFromExtents(Vec{10, 10}, Vec{12, 12})
	if _, ok := a.Intersect(c); ok {
		t.Fatalf("expected no intersection with disjoint rectangle")
	}
}

func TestBoundsClipLineFullyInside(t *testing.T) {
	b := NewBoundsFromExtents(Vec{0, 0}, Vec{10, 10})
	a, c, ok := b.ClipLine(Vec{1, 1}, Vec{9, 9})
	if !ok || a != (Vec{1, 1}) || c != (Vec{9, 9}) {
		t.Fatalf("ClipLine fully inside = %v %v %v", a, c, ok)
	}
}

func TestBoundsClipLineFullyOutside(t *testing.T) {
	b := NewBoundsFromExtents(Vec{0, 0}, Vec{10, 10})
	_, _, ok := b.ClipLine(Vec{-5, 20}, Vec{-1, 30})
	if ok {
		t.Fatalf("expected no clip result for a line entirely outside bounds")
	}
}

func TestBoundsClipLineCrossing(t *testing.T) {
	b := NewBoundsFromExtents(Vec{0, 0}, Vec{10, 10})
	a, c, ok := b.ClipLine(Vec{-5, 5}, Vec{15, 5})
	if !ok {
		t.Fatalf("expected a clipped segment")
	}
	if a.X != 0 || c.X != 10 || a.Y != 5 || c.Y != 5 {
		t.Fatalf("ClipLine crossing = %v %v", a, c)
	}
}

func TestBoundsClipLineTangentToEdge(t *testing.T) {
	b := NewBoundsFromExtents(Vec{0, 0}, Vec{10, 10})
	a, c, ok := b.ClipLine(Vec{-2, 0}, Vec{12, 0})
	if !ok || a.Y != 0 || c.Y != 0 {
		t.Fatalf("ClipLine tangent = %v %v %v", a, c, ok)
	}
}
