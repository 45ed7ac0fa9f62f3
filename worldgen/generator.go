// Package worldgen provides a demo/test implementation of
// sandworld.WorldGenerator: the host-supplied capability that fills newly
// loaded chunks with content. The simulation core never depends on this
// package — only the demo binary and tests that want a non-trivial world
// do.
package worldgen

import (
	opensimplex "github.com/ojrac/opensimplex-go"

	"sandcore/gridmath"
	"sandcore/particle"
)

// Generator samples layered OpenSimplex noise to place Stone terrain
// under a Sand beach band, with Water pooling in low spots, replacing the
// teacher's hand-rolled valueNoise2D/octaveNoise2D with a real noise
// library (ungenerated regions would otherwise show banding artifacts a
// deterministic hash-based lattice keeps avoiding only by accident).
type Generator struct {
	noise opensimplex.Noise

	Scale      float64
	Octaves    int
	Lacunarity float64
	Gain       float64

	GroundLevel int32
	SandBand    int32
	WaterLevel  int32
}

// NewGenerator builds a Generator seeded deterministically from seed, with
// reasonable defaults for a falling-sand demo world.
func NewGenerator(seed int64) *Generator {
	return &Generator{
		noise:       opensimplex.New(seed),
		Scale:       0.01,
		Octaves:     4,
		Lacunarity:  2.0,
		Gain:        0.5,
		GroundLevel: 0,
		SandBand:    6,
		WaterLevel:  -4,
	}
}

func (g *Generator) heightAt(x int32) float64 {
	amp := 1.0
	freq := g.Scale
	sum := 0.0
	norm := 0.0
	for o := 0; o < g.Octaves; o++ {
		sum += amp * g.noise.Eval2(float64(x)*freq, float64(o)*37.0)
		norm += amp
		amp *= g.Gain
		freq *= g.Lacunarity
	}
	if norm == 0 {
		return 0
	}
	return sum / norm
}

func (g *Generator) caveAt(x, y int32) float64 {
	return g.noise.Eval2(float64(x)*g.Scale*2.5+1000, float64(y)*g.Scale*2.5+1000)
}

// GetParticle implements sandworld.WorldGenerator: surface height comes
// from 1D multi-octave noise, caves carve the Stone below it, the band just
// above the surface is Sand, and open cells (air above the Sand band and
// carved caves) at or below WaterLevel are Water.
func (g *Generator) GetParticle(pos gridmath.Vec) particle.Particle {
	surface := g.GroundLevel + int32(g.heightAt(pos.X)*40)

	switch {
	case pos.Y > surface+g.SandBand:
		if pos.Y <= g.WaterLevel {
			return particle.New(particle.Water)
		}
		return particle.New(particle.Air)
	case pos.Y > surface:
		return particle.New(particle.Sand)
	default:
		if g.caveAt(pos.X, pos.Y) > 0.55 {
			if pos.Y <= g.WaterLevel {
				return particle.New(particle.Water)
			}
			return particle.New(particle.Air)
		}
		return particle.New(particle.Stone)
	}
}
