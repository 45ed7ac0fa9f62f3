package sandworld

import (
	"context"
	"math/rand"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"sandcore/gridmath"
	"sandcore/internal/profiling"
)

// RegionSize is R, the side length of a region in chunks.
const RegionSize = 16

// Region owns an R*R grid of chunks and tracks the scheduling state the
// world's priority queue reads: how long it's gone unserviced and how much
// work its last update actually did.
type Region struct {
	Position gridmath.Vec

	chunks [RegionSize * RegionSize]*Chunk

	addedChunks   []gridmath.Vec
	updatedChunks []gridmath.Vec

	Staleness        int32
	LastChunkUpdates int32
}

// NewRegion allocates an R*R block of empty chunks at position (in region
// coordinates) and links every pair of adjacent chunks within it.
func NewRegion(position gridmath.Vec) *Region {
	r := &Region{Position: position}
	for y := int32(0); y < RegionSize; y++ {
		for x := int32(0); x < RegionSize; x++ {
			chunkPos := gridmath.Vec{X: x, Y: y}.Add(position.Mul(RegionSize))
			r.addChunk(chunkPos, NewChunk(chunkPos))
		}
	}
	return r
}

func (r *Region) addChunk(chunkPos gridmath.Vec, c *Chunk) {
	for _, existing := range r.chunks {
		if existing != nil {
			existing.checkAddNeighbor(c)
		}
	}
	r.chunks[r.chunkPosToIndex(chunkPos)] = c
	r.addedChunks = append(r.addedChunks, chunkPos)
}

// GenerateChunks replaces every chunk in the region with one generated by
// gen, preserving the neighbor links already established at construction.
func (r *Region) GenerateChunks(gen WorldGenerator) {
	for i, c := range r.chunks {
		if c == nil {
			continue
		}
		generated := GenerateChunk(c.Position, gen)
		generated.neighbors = c.neighbors
		for slot, n := range generated.neighbors {
			if n != nil {
				n.neighbors[neighborSlot(slot).opposite()] = generated
			}
		}
		r.chunks[i] = generated
	}
}

func (r *Region) chunkPosToIndex(chunkPos gridmath.Vec) int {
	local := chunkPos.Sub(r.Position.Mul(RegionSize))
	return int(local.X) + int(local.Y)*RegionSize
}

// ContainsChunk reports whether chunkPos falls within this region's R*R
// block.
func (r *Region) ContainsChunk(chunkPos gridmath.Vec) bool {
	local := chunkPos.Sub(r.Position.Mul(RegionSize))
	return local.X >= 0 && local.X < RegionSize && local.Y >= 0 && local.Y < RegionSize
}

// GetChunk returns the chunk at chunkPos, or nil if it falls outside this
// region.
func (r *Region) GetChunk(chunkPos gridmath.Vec) *Chunk {
	if !r.ContainsChunk(chunkPos) {
		return nil
	}
	return r.chunks[r.chunkPosToIndex(chunkPos)]
}

// AllChunks returns every chunk owned by this region, for cross-region
// neighbor linking at load time.
func (r *Region) AllChunks() []*Chunk {
	out := make([]*Chunk, 0, len(r.chunks))
	for _, c := range r.chunks {
		if c != nil {
			out = append(out, c)
		}
	}
	return out
}

// DrainAddedChunks returns and clears the set of chunk positions added
// since the last call.
func (r *Region) DrainAddedChunks() []gridmath.Vec {
	out := r.addedChunks
	r.addedChunks = nil
	return out
}

// DrainUpdatedChunks returns and clears the set of chunk positions that
// changed since the last call.
func (r *Region) DrainUpdatedChunks() []gridmath.Vec {
	out := r.updatedChunks
	r.updatedChunks = nil
	return out
}

// UpdatePriority is (staleness+1)^2 * (last_chunk_updates+1): regions that
// have waited longer, or that did substantial work last time they ran, sort
// to the front of the scheduler's queue.
func (r *Region) UpdatePriority() int64 {
	s := int64(r.Staleness) + 1
	u := int64(r.LastChunkUpdates) + 1
	return s * s * u
}

// CommitAndCollectUpdated first records, sequentially, which chunks have
// pending work (a dirty rectangle or leftover state from last frame), then
// commits every chunk's updates in parallel. The order matters: the
// updated-chunk list must be captured before CommitUpdates clears the state
// it reads. It also resets LastChunkUpdates, which the frame's UpdatePhase
// calls then add to.
func (r *Region) CommitAndCollectUpdated(rng *rand.Rand) {
	defer profiling.Track("sandworld.Region.CommitAndCollectUpdated")()
	for _, c := range r.chunks {
		if c == nil {
			continue
		}
		if c.HasPendingWork() {
			r.updatedChunks = append(r.updatedChunks, c.Position)
		}
	}
	r.LastChunkUpdates = 0

	var g errgroup.Group
	for _, c := range r.chunks {
		if c == nil {
			continue
		}
		c := c
		seed := rng.Int63()
		g.Go(func() error {
			c.CommitUpdates(rand.New(rand.NewSource(seed)))
			return nil
		})
	}
	_ = g.Wait()
}

// UpdatePhase runs one checkerboard phase over this region's chunks,
// updating every chunk whose position matches the phase's parity class and
// that has pending work. It returns how many chunks it actually updated and
// adds that count to LastChunkUpdates.
func (r *Region) UpdatePhase(ctx context.Context, phase int32, rng *rand.Rand) int64 {
	defer profiling.Track("sandworld.Region.UpdatePhase")()
	xMod := phase % 2
	yMod := (phase / 2) % 2

	var updated int64
	g, _ := errgroup.WithContext(ctx)
	for _, c := range r.chunks {
		if c == nil {
			continue
		}
		if gridmath.Mod(c.Position.X, 2) != xMod || gridmath.Mod(c.Position.Y, 2) != yMod {
			continue
		}
		if c.updateThisFrame == nil && c.updatedLastFrame == nil {
			continue
		}
		c := c
		seed := rng.Int63()
		g.Go(func() error {
			c.Update(rand.New(rand.NewSource(seed)))
			atomic.AddInt64(&updated, 1)
			return nil
		})
	}
	_ = g.Wait()
	r.LastChunkUpdates += int32(updated)
	return updated
}

// CheckAddNeighbor links every chunk in r against other's chunks across a
// region boundary; only chunks on the touching edge are ever adjacent.
func (r *Region) CheckAddNeighbor(other *Region) {
	for _, a := range r.chunks {
		if a == nil {
			continue
		}
		for _, b := range other.chunks {
			if b == nil {
				continue
			}
			a.checkAddNeighbor(b)
		}
	}
}

// CheckRemoveNeighbor unlinks every chunk in r that bordered a chunk in the
// region at removedPosition.
func (r *Region) CheckRemoveNeighbor(removedPosition gridmath.Vec, removedChunks []gridmath.Vec) {
	for _, a := range r.chunks {
		if a == nil {
			continue
		}
		for _, pos := range removedChunks {
			a.checkRemoveNeighbor(pos)
		}
	}
	_ = removedPosition
}
