package sandworld

import (
	"testing"

	"sandcore/gridmath"
	"sandcore/particle"
)

func TestCastRayHitsFirstMatchingParticle(t *testing.T) {
	c := NewChunk(gridmath.Vec{})
	c.SetParticle(20, 10, particle.New(particle.Stone))
	c.SetParticle(30, 10, particle.New(particle.Stone))

	hit, ok := c.CastRay(particle.NewSet(particle.Stone), gridmath.NewLine(gridmath.Vec{X: 0, Y: 10}, gridmath.Vec{X: 40, Y: 10}))
	if !ok {
		t.Fatalf("expected ray to hit Stone")
	}
	if hit.WorldPos.X != 20 || hit.WorldPos.Y != 10 {
		t.Fatalf("hit at %v, want the first Stone along the ray at (20,10)", hit.WorldPos)
	}
	if hit.Particle.Type != particle.Stone {
		t.Fatalf("hit particle type = %v, want Stone", hit.Particle.Type)
	}
}

func TestCastRayMissesWhenMaskExcludesEverything(t *testing.T) {
	c := NewChunk(gridmath.Vec{})
	c.SetParticle(20, 10, particle.New(particle.Stone))

	_, ok := c.CastRay(particle.NewSet(particle.Water), gridmath.NewLine(gridmath.Vec{X: 0, Y: 10}, gridmath.Vec{X: 40, Y: 10}))
	if ok {
		t.Fatalf("expected ray to miss when the mask doesn't include Stone")
	}
}

func TestCastRayClipsSegmentOutsideChunk(t *testing.T) {
	c := NewChunk(gridmath.Vec{})
	c.SetParticle(0, 0, particle.New(particle.Stone))

	hit, ok := c.CastRay(particle.NewSet(particle.Stone), gridmath.NewLine(gridmath.Vec{X: -50, Y: 0}, gridmath.Vec{X: 50, Y: 0}))
	if !ok {
		t.Fatalf("expected a ray starting outside the chunk to still be clipped in and hit")
	}
	if hit.WorldPos.X != 0 || hit.WorldPos.Y != 0 {
		t.Fatalf("hit at %v, want (0,0)", hit.WorldPos)
	}
}

func TestCastRayEntirelyOutsideChunkMisses(t *testing.T) {
	c := NewChunk(gridmath.Vec{})
	_, ok := c.CastRay(particle.Solids, gridmath.NewLine(gridmath.Vec{X: 1000, Y: 1000}, gridmath.Vec{X: 2000, Y: 1000}))
	if ok {
		t.Fatalf("expected a ray entirely outside the chunk's bounds to miss")
	}
}
