// Package sandworld implements the chunked, checkerboard-parallel
// falling-sand simulation: chunks of cells, regions of chunks, and the
// world that schedules, streams, and compresses them.
package sandworld

import (
	"math/rand"
	"sync"

	"sandcore/gridmath"
	"sandcore/particle"
)

// ChunkSize is N, the side length of a chunk in cells.
const ChunkSize = 64

// LocalBounds is the inclusive [0, ChunkSize) square every chunk-local
// coordinate lives in.
var LocalBounds = gridmath.NewBoundsFromCorner(gridmath.Vec{X: 0, Y: 0}, gridmath.Vec{X: ChunkSize, Y: ChunkSize})

// neighborSlot indexes Chunk.neighbors; order matches the compass rose used
// throughout sandworld for delta-to-slot lookups.
type neighborSlot int

const (
	slotTopLeft neighborSlot = iota
	slotTopCenter
	slotTopRight
	slotMidLeft
	slotMidRight
	slotBottomLeft
	slotBottomCenter
	slotBottomRight
	neighborSlotCount
)

// Chunk is a fixed N*N array of particles plus the dirty-rectangle
// bookkeeping and neighbor graph the update cycle depends on. A Chunk is
// owned by its Region for the duration of an update phase. Moves, erosion
// and particle adds that cross a chunk edge write into the neighbor's
// cells and dirty rectangle; only the dirty rectangle is guarded by mu.
type Chunk struct {
	Position gridmath.Vec

	mu    sync.RWMutex
	dirty *gridmath.Bounds

	updateThisFrame  *gridmath.Bounds
	updatedLastFrame *gridmath.Bounds

	particles [ChunkSize * ChunkSize]particle.Particle
	neighbors [neighborSlotCount]*Chunk
}

// NewChunk builds an empty (all-Air) chunk at the given chunk coordinates.
func NewChunk(position gridmath.Vec) *Chunk {
	return &Chunk{Position: position}
}

// GenerateChunk fills a new chunk by sampling gen at every cell's world
// position.
func GenerateChunk(position gridmath.Vec, gen WorldGenerator) *Chunk {
	c := NewChunk(position)
	for y := int32(0); y < ChunkSize; y++ {
		for x := int32(0); x < ChunkSize; x++ {
			worldPos := gridmath.Vec{
				X: x + ChunkSize*position.X,
				Y: y + ChunkSize*position.Y,
			}
			c.particles[indexInChunk(x, y)] = gen.GetParticle(worldPos)
		}
	}
	c.markSelfDirty()
	return c
}

func indexInChunk(x, y int32) int {
	return int(y)*ChunkSize + int(x)
}

func contains(x, y int32) bool {
	return x >= 0 && y >= 0 && x < ChunkSize && y < ChunkSize
}

// GetParticle reads the cell at local coordinates (x, y). Out-of-range
// coordinates log and return Air, per the engine's no-fatal-errors policy.
func (c *Chunk) GetParticle(x, y int32) particle.Particle {
	if !contains(x, y) {
		logOutOfRange("Chunk.GetParticle", x, y)
		return particle.New(particle.Air)
	}
	return c.particles[indexInChunk(x, y)]
}

func (c *Chunk) getParticleRef(x, y int32) *particle.Particle {
	return &c.particles[indexInChunk(x, y)]
}

// SetParticle writes val into (x, y), marks the cell dirty, and marks it
// already-moved this frame so it isn't processed again this pass.
func (c *Chunk) SetParticle(x, y int32, val particle.Particle) {
	if !contains(x, y) {
		logOutOfRange("Chunk.SetParticle", x, y)
		return
	}
	val.SetUpdatedThisFrame(true)
	c.particles[indexInChunk(x, y)] = val
	c.markDirty(x, y)
}

// AddParticle writes val at (x, y) only if the existing cell is Air.
func (c *Chunk) AddParticle(x, y int32, val particle.Particle) {
	c.ReplaceParticleFiltered(x, y, val, particle.Air)
}

// ReplaceParticleFiltered writes val at (x, y) only if the existing cell's
// type equals replaceType.
func (c *Chunk) ReplaceParticleFiltered(x, y int32, val particle.Particle, replaceType particle.Type) {
	if !contains(x, y) {
		logOutOfRange("Chunk.ReplaceParticleFiltered", x, y)
		return
	}
	if c.particles[indexInChunk(x, y)].Type == replaceType {
		c.particles[indexInChunk(x, y)] = val
		c.markDirty(x, y)
	}
}

// markDirty expands dirty to include a 4-cell square around (x, y),
// clipped to the chunk, and — if (x, y) is itself within the chunk —
// forwards the same mark to every neighbor in its local coordinates so
// adjacent chunks wake up for the next frame.
func (c *Chunk) markDirty(x, y int32) {
	halo, ok := gridmath.NewBounds(gridmath.Vec{X: x, Y: y}, gridmath.Vec{X: 4, Y: 4}).Intersect(LocalBounds)

	c.mu.Lock()
	if ok {
		merged, hasMerged := gridmath.OptionUnion(halo, true, derefBounds(c.dirty), c.dirty != nil)
		if hasMerged {
			clipped, clipOK := merged.Intersect(LocalBounds)
			if clipOK {
				c.dirty = &clipped
			}
		}
	}
	c.mu.Unlock()

	if !contains(x, y) {
		return
	}
	for i, n := range c.neighbors {
		if n == nil {
			continue
		}
		local := n.chunkPosToLocalChunkPos(c, x, y)
		n.markDirty(local.X, local.Y)
		_ = i
	}
}

// markSelfDirty expands dirty to the whole chunk plus a 2-cell halo,
// clipped to the chunk; used after chunk creation and after the neighbor
// graph changes shape.
func (c *Chunk) markSelfDirty() {
	whole := LocalBounds.Inflate(2)
	c.mu.Lock()
	merged, ok := gridmath.OptionUnion(whole, true, derefBounds(c.dirty), c.dirty != nil)
	if ok {
		clipped, clipOK := merged.Intersect(LocalBounds)
		if clipOK {
			c.dirty = &clipped
		}
	}
	c.mu.Unlock()
}

// Dirty returns a copy of the chunk's current dirty rectangle and whether
// one is set.
func (c *Chunk) Dirty() (gridmath.Bounds, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.dirty == nil {
		return gridmath.Bounds{}, false
	}
	return *c.dirty, true
}

// HasPendingWork reports whether the chunk has anything to do next frame
// (a dirty rectangle, an in-progress update, or leftover state from last
// frame that still needs its already-moved flags cleared).
func (c *Chunk) HasPendingWork() bool {
	c.mu.RLock()
	dirty := c.dirty != nil
	c.mu.RUnlock()
	return dirty || c.updateThisFrame != nil || c.updatedLastFrame != nil
}

func derefBounds(b *gridmath.Bounds) gridmath.Bounds {
	if b == nil {
		return gridmath.Bounds{}
	}
	return *b
}

// CommitUpdates rotates dirty into updateThisFrame and clears the
// already-moved bit on every cell in the (update_this_frame ∪
// updated_last_frame) union, in slide order.
func (c *Chunk) CommitUpdates(rng *rand.Rand) {
	c.mu.Lock()
	c.updateThisFrame = c.dirty
	c.dirty = nil
	c.mu.Unlock()

	toUpdate, ok := gridmath.OptionUnion(derefBounds(c.updateThisFrame), c.updateThisFrame != nil, derefBounds(c.updatedLastFrame), c.updatedLastFrame != nil)
	if !ok {
		return
	}
	for p := range toUpdate.Slide(rng) {
		c.getParticleRef(p.X, p.Y).SetUpdatedThisFrame(false)
	}
}
