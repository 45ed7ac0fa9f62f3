package worldgen

import (
	"sandcore/gridmath"
	"sandcore/particle"
)

// FlatGenerator fills everything at or below groundLevel with Stone and
// everything above with Air — deterministic and noise-free, useful for
// tests that need predictable terrain rather than the full Generator's
// layered noise. Mirrors the teacher's NewFlatGenerator used for the same
// purpose in chunk-provider tests.
type FlatGenerator struct {
	GroundLevel int32
}

// NewFlatGenerator builds a FlatGenerator with the given ground height.
func NewFlatGenerator(groundLevel int32) *FlatGenerator {
	return &FlatGenerator{GroundLevel: groundLevel}
}

// GetParticle implements sandworld.WorldGenerator.
func (g *FlatGenerator) GetParticle(pos gridmath.Vec) particle.Particle {
	if pos.Y <= g.GroundLevel {
		return particle.New(particle.Stone)
	}
	return particle.New(particle.Air)
}
