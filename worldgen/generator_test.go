package worldgen

import (
	"testing"

	"sandcore/gridmath"
	"sandcore/particle"
)

func TestNewGeneratorIsDeterministicForSameSeed(t *testing.T) {
	a := NewGenerator(42)
	b := NewGenerator(42)
	for x := int32(-50); x < 50; x += 7 {
		for y := int32(-50); y < 50; y += 7 {
			pos := gridmath.Vec{X: x, Y: y}
			if got, want := a.GetParticle(pos), b.GetParticle(pos); got.Type != want.Type {
				t.Fatalf("same seed produced different terrain at %v: %v vs %v", pos, got.Type, want.Type)
			}
		}
	}
}

func TestNewGeneratorDiffersAcrossSeeds(t *testing.T) {
	a := NewGenerator(1)
	b := NewGenerator(2)
	differs := false
	for x := int32(-200); x < 200; x++ {
		if a.GetParticle(gridmath.Vec{X: x, Y: 0}).Type != b.GetParticle(gridmath.Vec{X: x, Y: 0}).Type {
			differs = true
			break
		}
	}
	if !differs {
		t.Fatalf("expected different seeds to produce at least some different terrain along a wide sample")
	}
}

func TestGeneratorDeepUndergroundIsStoneOrCaveFill(t *testing.T) {
	g := NewGenerator(7)
	// Deep underground, far below any possible surface height, cells are
	// Stone or cave fill (Water or Air), never the Sand band.
	for x := int32(0); x < 20; x++ {
		p := g.GetParticle(gridmath.Vec{X: x, Y: g.GroundLevel - 1000})
		if p.Type != particle.Stone && p.Type != particle.Water && p.Type != particle.Air {
			t.Fatalf("unexpected particle type %v deep underground", p.Type)
		}
	}
}

func TestFlatGeneratorSplitsAtGroundLevel(t *testing.T) {
	g := NewFlatGenerator(10)
	if got := g.GetParticle(gridmath.Vec{X: 0, Y: 10}).Type; got != particle.Stone {
		t.Fatalf("at ground level want Stone, got %v", got)
	}
	if got := g.GetParticle(gridmath.Vec{X: 0, Y: 11}).Type; got != particle.Air {
		t.Fatalf("above ground level want Air, got %v", got)
	}
	if got := g.GetParticle(gridmath.Vec{X: 0, Y: -500}).Type; got != particle.Stone {
		t.Fatalf("deep below ground level want Stone, got %v", got)
	}
}
