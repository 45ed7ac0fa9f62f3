package gridmath

import (
	"iter"
	"math/rand"
)

// Bounds is an inclusive axis-aligned integer rectangle: every point with
// Min.X <= p.X <= Max.X and Min.Y <= p.Y <= Max.Y is contained.
type Bounds struct {
	Min, Max Vec
}

// NewBounds builds bounds centered on center with the given half-extent on
// each axis (so the resulting rectangle spans 2*halfExtent+1 cells per axis).
func NewBounds(center, halfExtent Vec) Bounds {
	return Bounds{Min: center.Sub(halfExtent), Max: center.Add(halfExtent)}
}

// NewBoundsFromCorner builds bounds whose bottom-left corner is bottomLeft
// and which spans size cells along each axis.
func NewBoundsFromCorner(bottomLeft, size Vec) Bounds {
	return Bounds{
		Min: bottomLeft,
		Max: Vec{bottomLeft.X + size.X - 1, bottomLeft.Y + size.Y - 1},
	}
}

// NewBoundsFromExtents builds bounds directly from its two corners.
func NewBoundsFromExtents(min, max Vec) Bounds {
	return Bounds{Min: min, Max: max}
}

func (b Bounds) BottomLeft() Vec { return b.Min }
func (b Bounds) TopRight() Vec   { return b.Max }
func (b Bounds) TopLeft() Vec    { return Vec{b.Min.X, b.Max.Y} }
func (b Bounds) BottomRight() Vec { return Vec{b.Max.X, b.Min.Y} }

// Width returns the number of cells spanned on the X axis.
func (b Bounds) Width() int32 { return b.Max.X - b.Min.X + 1 }

// Height returns the number of cells spanned on the Y axis.
func (b Bounds) Height() int32 { return b.Max.Y - b.Min.Y + 1 }

// Area returns Width * Height.
func (b Bounds) Area() int64 { return int64(b.Width()) * int64(b.Height()) }

// Center returns the midpoint of the bounds, each component truncated
// toward zero.
func (b Bounds) Center() Vec { return b.Min.Add(b.Max).Div(2) }

// HalfExtent returns (Max-Min)/2.
func (b Bounds) HalfExtent() Vec { return b.Max.Sub(b.Min).Div(2) }

// Contains reports whether p falls within the inclusive rectangle.
func (b Bounds) Contains(p Vec) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X && p.Y >= b.Min.Y && p.Y <= b.Max.Y
}

// IsBoundary reports whether p lies on the rectangle's perimeter.
func (b Bounds) IsBoundary(p Vec) bool {
	return b.Contains(p) && (p.X == b.Min.X || p.X == b.Max.X || p.Y == b.Min.Y || p.Y == b.Max.Y)
}

// Overlaps reports whether the two rectangles share any cell.
func (b Bounds) Overlaps(o Bounds) bool {
	return b.Min.X <= o.Max.X && b.Max.X >= o.Min.X && b.Min.Y <= o.Max.Y && b.Max.Y >= o.Min.Y
}

// Intersect returns the overlapping rectangle and true, or the zero value and
// false if the two rectangles don't overlap.
func (b Bounds) Intersect(o Bounds) (Bounds, bool) {
	if !b.Overlaps(o) {
		return Bounds{}, false
	}
	return Bounds{
		Min: Vec{max32(b.Min.X, o.Min.X), max32(b.Min.Y, o.Min.Y)},
		Max: Vec{min32(b.Max.X, o.Max.X), min32(b.Max.Y, o.Max.Y)},
	}, true
}

// Union returns the smallest rectangle containing both b and o.
func (b Bounds) Union(o Bounds) Bounds {
	return Bounds{
		Min: Vec{min32(b.Min.X, o.Min.X), min32(b.Min.Y, o.Min.Y)},
		Max: Vec{max32(b.Max.X, o.Max.X), max32(b.Max.Y, o.Max.Y)},
	}
}

// OptionUnion unions two optional bounds: either argument may be absent
// (ok=false); the result is absent only if both are.
func OptionUnion(a Bounds, aOK bool, b Bounds, bOK bool) (Bounds, bool) {
	switch {
	case !aOK && !bOK:
		return Bounds{}, false
	case aOK && bOK:
		return a.Union(b), true
	case aOK:
		return a, true
	default:
		return b, true
	}
}

// Inflate grows the rectangle by radius cells on every side.
func (b Bounds) Inflate(radius int32) Bounds {
	return Bounds{
		Min: Vec{b.Min.X - radius, b.Min.Y - radius},
		Max: Vec{b.Max.X + radius, b.Max.Y + radius},
	}
}

// GetIndex converts a point known to be inside b into a row-major index.
func (b Bounds) GetIndex(p Vec) int {
	return int(p.Y-b.Min.Y)*int(b.Width()) + int(p.X-b.Min.X)
}

// AtIndex is the inverse of GetIndex.
func (b Bounds) AtIndex(index int) Vec {
	w := int(b.Width())
	return Vec{
		X: b.Min.X + int32(index%w),
		Y: b.Min.Y + int32(index/w),
	}
}

// All iterates every cell in the rectangle in row-major order, bottom row
// first, left to right within each row.
func (b Bounds) All() iter.Seq[Vec] {
	return func(yield func(Vec) bool) {
		if b.Width() <= 0 || b.Height() <= 0 {
			return
		}
		for y := b.Min.Y; y <= b.Max.Y; y++ {
			for x := b.Min.X; x <= b.Max.X; x++ {
				if !yield(Vec{x, y}) {
					return
				}
			}
		}
	}
}

// Slide iterates the rectangle bottom row to top row; within each row it
// flips a fair coin to walk left-to-right or right-to-left, which keeps
// granular-material simulation from drifting in a fixed scan direction.
// rng is owned by the caller so that parallel region updates never contend
// on a shared generator.
func (b Bounds) Slide(rng *rand.Rand) iter.Seq[Vec] {
	return func(yield func(Vec) bool) {
		if b.Width() <= 0 || b.Height() <= 0 {
			return
		}
		for y := b.Min.Y; y <= b.Max.Y; y++ {
			reversed := rng.Float64() < 0.5
			if reversed {
				for x := b.Max.X; x >= b.Min.X; x-- {
					if !yield(Vec{x, y}) {
						return
					}
				}
			} else {
				for x := b.Min.X; x <= b.Max.X; x++ {
					if !yield(Vec{x, y}) {
						return
					}
				}
			}
		}
	}
}

// outCode bits for Cohen-Sutherland clipping.
const (
	codeLeft   = 1
	codeRight  = 2
	codeBottom = 4
	codeTop    = 8
)

func (b Bounds) outCode(p Vec) int {
	code := 0
	switch {
	case p.X < b.Min.X:
		code |= codeLeft
	case p.X > b.Max.X:
		code |= codeRight
	}
	switch {
	case p.Y < b.Min.Y:
		code |= codeBottom
	case p.Y > b.Max.Y:
		code |= codeTop
	}
	return code
}

// ClipLine clips the segment a-c against the rectangle using
// Cohen-Sutherland. Edge intersections are computed in float64 and rounded
// to the nearest cell. It returns the clipped endpoints and true, or
// the zero value and false if the segment lies entirely outside the
// rectangle.
func (b Bounds) ClipLine(a, c Vec) (Vec, Vec, bool) {
	codeA := b.outCode(a)
	codeC := b.outCode(c)
	ax, ay := float64(a.X), float64(a.Y)
	cx, cy := float64(c.X), float64(c.Y)

	for {
		if codeA == 0 && codeC == 0 {
			return Vec{int32(round(ax)), int32(round(ay))}, Vec{int32(round(cx)), int32(round(cy))}, true
		}
		if codeA&codeC != 0 {
			return Vec{}, Vec{}, false
		}

		outside := codeA
		if outside == 0 {
			outside = codeC
		}

		var x, y float64
		switch {
		case outside&codeTop != 0:
			x = ax + (cx-ax)*(float64(b.Max.Y)-ay)/(cy-ay)
			y = float64(b.Max.Y)
		case outside&codeBottom != 0:
			x = ax + (cx-ax)*(float64(b.Min.Y)-ay)/(cy-ay)
			y = float64(b.Min.Y)
		case outside&codeRight != 0:
			y = ay + (cy-ay)*(float64(b.Max.X)-ax)/(cx-ax)
			x = float64(b.Max.X)
		case outside&codeLeft != 0:
			y = ay + (cy-ay)*(float64(b.Min.X)-ax)/(cx-ax)
			x = float64(b.Min.X)
		}

		if outside == codeA {
			ax, ay = x, y
			codeA = b.outCode(Vec{int32(round(ax)), int32(round(ay))})
		} else {
			cx, cy = x, y
			codeC = b.outCode(Vec{int32(round(cx)), int32(round(cy))})
		}
	}
}

func round(f float64) float64 {
	if f < 0 {
		return float64(int64(f - 0.5))
	}
	return float64(int64(f + 0.5))
}

func min32(a, b int32) int32 {
	if a < b {
		return a
	}
	return b
}

func max32(a, b int32) int32 {
	if a > b {
		return a
	}
	return b
}
