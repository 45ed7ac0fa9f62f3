package sandworld

import (
	"testing"

	"sandcore/gridmath"
	"sandcore/particle"
)

func TestCompressChunkDetectsMonotype(t *testing.T) {
	c := NewChunk(gridmath.Vec{})
	for y := int32(0); y < ChunkSize; y++ {
		for x := int32(0); x < ChunkSize; x++ {
			c.particles[indexInChunk(x, y)] = particle.New(particle.Air)
		}
	}
	cc := compressChunk(c)
	if cc.which != kindMonotype {
		t.Fatalf("expected an all-Air chunk to compress as Monotype, got %v", cc.which)
	}
}

func TestCompressChunkUsesRunLengthUnderPaletteLimit(t *testing.T) {
	c := NewChunk(gridmath.Vec{})
	for x := int32(0); x < ChunkSize; x++ {
		c.SetParticle(x, 0, particle.New(particle.Stone))
	}
	cc := compressChunk(c)
	if cc.which != kindRunLength {
		t.Fatalf("expected a two-material chunk to compress as RunLength, got %v", cc.which)
	}
}

func TestCompressChunkStaysRunLengthAtExactlyThePaletteCap(t *testing.T) {
	// The engine only defines maxPaletteSize (16) distinct particle types in
	// total, so a chunk using every one of them sits exactly at the cap and
	// must still qualify for RunLength rather than spilling to Uncompressed.
	c := NewChunk(gridmath.Vec{})
	types := []particle.Type{
		particle.Air, particle.Sand, particle.Water, particle.Stone, particle.Gravel,
		particle.Steam, particle.Lava, particle.MoltenGlass, particle.Glass, particle.Ice,
		particle.Source, particle.LaserBeam, particle.LaserEmitter, particle.Boundary,
		particle.RegionBoundary, particle.Dirty,
	}
	for i, ty := range types {
		c.particles[i] = particle.New(ty)
	}
	cc := compressChunk(c)
	if cc.which != kindRunLength {
		t.Fatalf("expected a chunk using exactly %d distinct types (the palette cap) to compress as RunLength, got %v", maxPaletteSize, cc.which)
	}
}

func TestDecompressRoundTripsMonotype(t *testing.T) {
	c := NewChunk(gridmath.Vec{})
	for i := range c.particles {
		c.particles[i] = particle.New(particle.Water)
	}
	cc := compressChunk(c)
	decoded := cc.decompress()
	for i, p := range decoded {
		if p.Type != particle.Water {
			t.Fatalf("cell %d decoded as %v, want Water", i, p.Type)
		}
	}
}

func TestDecompressRoundTripsRunLength(t *testing.T) {
	c := NewChunk(gridmath.Vec{})
	c.SetParticle(3, 3, particle.New(particle.Sand))
	c.SetParticle(4, 3, particle.New(particle.Gravel))
	cc := compressChunk(c)
	decoded := cc.decompress()
	if decoded[indexInChunk(3, 3)].Type != particle.Sand {
		t.Fatalf("expected decoded Sand cell preserved")
	}
	if decoded[indexInChunk(4, 3)].Type != particle.Gravel {
		t.Fatalf("expected decoded Gravel cell preserved")
	}
	if decoded[indexInChunk(0, 0)].Type != particle.Air {
		t.Fatalf("expected untouched cells to decode back to Air")
	}
}

func TestCompressRegionAndDecompressRegionRoundTrip(t *testing.T) {
	r := NewRegion(gridmath.Vec{X: 1, Y: 1})
	target := r.GetChunk(gridmath.Vec{X: RegionSize, Y: RegionSize})
	target.SetParticle(10, 10, particle.New(particle.Lava))

	cr := compressRegion(r)
	restored := decompressRegion(cr)

	restoredChunk := restored.GetChunk(gridmath.Vec{X: RegionSize, Y: RegionSize})
	if restoredChunk == nil {
		t.Fatalf("expected the restored region to contain the same chunk position")
	}
	if got := restoredChunk.GetParticle(10, 10).Type; got != particle.Lava {
		t.Fatalf("restored particle = %v, want Lava", got)
	}
	if restored.Position != r.Position {
		t.Fatalf("restored region position = %v, want %v", restored.Position, r.Position)
	}
}

func TestCompressRegionPreservesNeighborLinksAfterDecompress(t *testing.T) {
	r := NewRegion(gridmath.Vec{})
	cr := compressRegion(r)
	restored := decompressRegion(cr)

	a := restored.GetChunk(gridmath.Vec{X: 0, Y: 0})
	b := restored.GetChunk(gridmath.Vec{X: 1, Y: 0})
	if a.neighborInDirection(gridmath.Vec{X: 1, Y: 0}) != b {
		t.Fatalf("expected decompressed region to re-link its own internal chunk neighbors")
	}
}
