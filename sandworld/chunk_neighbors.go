package sandworld

import (
	"sandcore/gridmath"
	"sandcore/particle"
)

// slotForDelta maps a chunk-position delta in {-1,0,1}^2 (excluding {0,0})
// to the neighbor slot it occupies.
func slotForDelta(delta gridmath.Vec) (neighborSlot, bool) {
	switch {
	case delta.Y == -1 && delta.X == -1:
		return slotBottomLeft, true
	case delta.Y == -1 && delta.X == 0:
		return slotBottomCenter, true
	case delta.Y == -1 && delta.X == 1:
		return slotBottomRight, true
	case delta.Y == 0 && delta.X == -1:
		return slotMidLeft, true
	case delta.Y == 0 && delta.X == 1:
		return slotMidRight, true
	case delta.Y == 1 && delta.X == -1:
		return slotTopLeft, true
	case delta.Y == 1 && delta.X == 0:
		return slotTopCenter, true
	case delta.Y == 1 && delta.X == 1:
		return slotTopRight, true
	default:
		return 0, false
	}
}

// opposite returns the slot on the other side of the same link: if c's
// slotTopRight points at n, n's slotBottomLeft points back at c.
func (s neighborSlot) opposite() neighborSlot {
	switch s {
	case slotTopLeft:
		return slotBottomRight
	case slotTopCenter:
		return slotBottomCenter
	case slotTopRight:
		return slotBottomLeft
	case slotMidLeft:
		return slotMidRight
	case slotMidRight:
		return slotMidLeft
	case slotBottomLeft:
		return slotTopRight
	case slotBottomCenter:
		return slotTopCenter
	case slotBottomRight:
		return slotTopLeft
	default:
		return s
	}
}

// checkAddNeighbor links c and other if their positions are adjacent,
// setting the matching slot on both sides, then marks both perimeters
// dirty so the boundary re-simulates after the topology change.
func (c *Chunk) checkAddNeighbor(other *Chunk) {
	if !c.Position.IsAdjacent(other.Position) {
		return
	}
	delta := other.Position.Sub(c.Position)
	slot, ok := slotForDelta(delta)
	if !ok {
		return
	}
	c.neighbors[slot] = other
	other.neighbors[slot.opposite()] = c

	c.markSelfDirty()
	other.markSelfDirty()
}

// checkRemoveNeighbor clears the slot pointing at removedPosition, if any.
func (c *Chunk) checkRemoveNeighbor(removedPosition gridmath.Vec) {
	if !c.Position.IsAdjacent(removedPosition) {
		return
	}
	delta := removedPosition.Sub(c.Position)
	slot, ok := slotForDelta(delta)
	if !ok {
		return
	}
	c.neighbors[slot] = nil
}

// neighborInDirection returns the neighbor in the given direction, where
// dir's sign on each axis (not magnitude) selects the slot.
func (c *Chunk) neighborInDirection(dir gridmath.Vec) *Chunk {
	slot, ok := slotForDelta(gridmath.Vec{X: sign(dir.X), Y: sign(dir.Y)})
	if !ok {
		return nil
	}
	return c.neighbors[slot]
}

func sign(v int32) int32 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}

// oobDirection returns the sign of each axis' overflow for a local
// coordinate outside [0, ChunkSize).
func oobDirection(x, y int32) gridmath.Vec {
	return gridmath.Vec{
		X: oobAxis(x),
		Y: oobAxis(y),
	}
}

func oobAxis(v int32) int32 {
	switch {
	case v < 0:
		return -1
	case v >= ChunkSize:
		return 1
	default:
		return 0
	}
}

// chunkPosToLocalChunkPos translates (fromX, fromY), local coordinates in
// fromChunk, into c's local coordinate space.
func (c *Chunk) chunkPosToLocalChunkPos(fromChunk *Chunk, fromX, fromY int32) gridmath.Vec {
	diff := fromChunk.Position.Sub(c.Position).Mul(ChunkSize)
	return gridmath.Vec{X: fromX, Y: fromY}.Add(diff)
}

// getTestParticle reads the particle at a possibly out-of-range local
// coordinate, following the neighbor graph when needed. It returns false
// if the coordinate is out of range and no neighbor covers it.
func (c *Chunk) getTestParticle(x, y int32) (particle.Particle, bool) {
	if contains(x, y) {
		return c.GetParticle(x, y), true
	}
	dir := oobDirection(x, y)
	n := c.neighborInDirection(dir)
	if n == nil {
		return particle.Particle{}, false
	}
	nx := gridmath.Mod(x, ChunkSize)
	ny := gridmath.Mod(y, ChunkSize)
	return n.GetParticle(nx, ny), true
}

// getLocalType returns the particle type at a possibly out-of-range local
// coordinate, defaulting to Air when nothing is there to ask.
func (c *Chunk) getLocalType(x, y int32) particle.Type {
	if contains(x, y) {
		return c.GetParticle(x, y).Type
	}
	n := c.neighborInDirection(oobDirection(x, y))
	if n == nil {
		return particle.Air
	}
	dir := oobDirection(x, y)
	return n.GetParticle(x-dir.X*ChunkSize, y-dir.Y*ChunkSize).Type
}

// countNeighborsOfType counts how many of the 8 cells around (x, y) —
// which may span into neighboring chunks — are of type search.
func (c *Chunk) countNeighborsOfType(x, y int32, search particle.Type) int {
	count := 0
	deltas := [8]gridmath.Vec{
		{X: 1, Y: 1}, {X: 0, Y: 1}, {X: -1, Y: 1},
		{X: 1, Y: 0}, {X: -1, Y: 0},
		{X: 1, Y: -1}, {X: 0, Y: -1}, {X: -1, Y: -1},
	}
	for _, d := range deltas {
		if c.getLocalType(x+d.X, y+d.Y) == search {
			count++
		}
	}
	return count
}
