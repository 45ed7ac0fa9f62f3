package sandworld

import (
	"sandcore/gridmath"
	"sandcore/particle"
)

// compressionKind tags which encoding a compressedChunk uses.
type compressionKind uint8

const (
	// kindMonotype means every cell in the chunk is the same particle.
	kindMonotype compressionKind = iota
	// kindRunLength means the chunk uses a palette of at most 16 distinct
	// particle kinds, run-length encoded.
	kindRunLength
	// kindUncompressed is the always-available fallback: every particle
	// stored verbatim.
	kindUncompressed
)

// maxPaletteSize is the largest distinct-particle-kind count a chunk may
// have and still qualify for run-length encoding.
const maxPaletteSize = 16

// paletteRun pairs a particle with the contiguous run length (in
// row-major order) it occupies.
type paletteRun struct {
	particle particle.Particle
	length   uint16
}

// compressedChunk is one chunk's data at rest, encoded by whichever of the
// three schemes fits best. Compression can never fail: if a chunk doesn't
// qualify for Monotype or RunLength, it always falls back to
// Uncompressed.
type compressedChunk struct {
	which       compressionKind
	monotype    particle.Particle
	paletteRuns []paletteRun
	raw         [ChunkSize * ChunkSize]particle.Particle
}

// compressChunk encodes c's current particle grid: Monotype when every cell
// holds the same particle, RunLength when at most maxPaletteSize distinct
// types appear, Uncompressed otherwise.
func compressChunk(c *Chunk) *compressedChunk {
	first := c.particles[0]
	allSame := true
	for _, p := range c.particles {
		if p.Type != first.Type || p.Data() != first.Data() {
			allSame = false
			break
		}
	}
	if allSame {
		return &compressedChunk{which: kindMonotype, monotype: first}
	}

	seen := make(map[particle.Type]struct{}, maxPaletteSize)
	var runsOut []paletteRun
	var cur particle.Particle
	var curLen uint16
	for i, p := range c.particles {
		if i == 0 {
			cur = p
			curLen = 1
			seen[p.Type] = struct{}{}
			continue
		}
		if p.Type == cur.Type && p.Data() == cur.Data() {
			curLen++
			continue
		}
		runsOut = append(runsOut, paletteRun{particle: cur, length: curLen})
		cur = p
		curLen = 1
		if _, ok := seen[p.Type]; !ok {
			if len(seen) >= maxPaletteSize {
				return &compressedChunk{which: kindUncompressed, raw: c.particles}
			}
			seen[p.Type] = struct{}{}
		}
	}
	runsOut = append(runsOut, paletteRun{particle: cur, length: curLen})

	return &compressedChunk{which: kindRunLength, paletteRuns: runsOut}
}

// decompress rebuilds a full particle grid from the stored encoding.
func (cc *compressedChunk) decompress() [ChunkSize * ChunkSize]particle.Particle {
	var out [ChunkSize * ChunkSize]particle.Particle
	switch cc.which {
	case kindMonotype:
		for i := range out {
			out[i] = cc.monotype
		}
	case kindRunLength:
		idx := 0
		for _, run := range cc.paletteRuns {
			for n := uint16(0); n < run.length && idx < len(out); n++ {
				out[idx] = run.particle
				idx++
			}
		}
	case kindUncompressed:
		out = cc.raw
	}
	return out
}

// CompressedRegion is an at-rest encoding of every chunk in a region,
// kept around after a region is unloaded so it can be restored without
// regenerating from the world generator. There is no original_source
// equivalent for this: the captured sandworld.rs predates compression, so
// this is built directly from the CompressedRegion description.
type CompressedRegion struct {
	Position gridmath.Vec
	chunks   map[gridmath.Vec]*compressedChunk
}

// compressRegion encodes every chunk owned by r.
func compressRegion(r *Region) *CompressedRegion {
	cr := &CompressedRegion{Position: r.Position, chunks: make(map[gridmath.Vec]*compressedChunk)}
	for _, c := range r.chunks {
		if c == nil {
			continue
		}
		cr.chunks[c.Position] = compressChunk(c)
	}
	return cr
}

// decompressRegion rebuilds a live Region from its compressed form,
// re-establishing the neighbor links among its own chunks. Cross-region
// links are the caller's responsibility, same as NewRegion.
func decompressRegion(cr *CompressedRegion) *Region {
	r := &Region{Position: cr.Position}
	built := make(map[gridmath.Vec]*Chunk, len(cr.chunks))
	for pos, enc := range cr.chunks {
		c := NewChunk(pos)
		c.particles = enc.decompress()
		c.markSelfDirty()
		built[pos] = c
	}
	for pos, c := range built {
		r.chunks[r.chunkPosToIndex(pos)] = c
		for _, other := range built {
			if other != c {
				c.checkAddNeighbor(other)
			}
		}
	}
	return r
}
