package sandworld

import (
	"sandcore/gridmath"
	"sandcore/particle"
)

// RayHit describes the first particle a cast ray struck.
type RayHit struct {
	WorldPos gridmath.Vec
	Particle particle.Particle
}

// CastRay walks line, clipped to this chunk's local bounds, and returns the
// first cell whose type is a member of mask. line is given in this chunk's
// local coordinate space; the caller is responsible for picking the chunk
// the ray starts in and for continuing the cast into the next chunk along
// the ray's direction if nothing is found here.
//
// There is no original_source equivalent for this: the captured sandworld.rs
// predates ray casting, so this is built directly from the clip-then-walk
// algorithm described for world-level ray casting.
func (c *Chunk) CastRay(mask particle.Set, line gridmath.Line) (RayHit, bool) {
	a, b, ok := LocalBounds.ClipLine(line.A, line.B)
	if !ok {
		return RayHit{}, false
	}
	for p := range gridmath.NewLine(a, b).Along() {
		if !contains(p.X, p.Y) {
			continue
		}
		part := c.GetParticle(p.X, p.Y)
		if mask.Contains(part.Type) {
			return RayHit{WorldPos: p, Particle: part}, true
		}
	}
	return RayHit{}, false
}
