package sandworld

import (
	"math/rand"

	"sandcore/gridmath"
	"sandcore/particle"
)

// erosion probabilities, frozen per original_source/sandworld/src/chunk.rs's
// try_erode (see DESIGN.md's Open Question resolutions).
const (
	erodeSandSwapChance      = 0.10
	erodeGravelToSandChance  = 0.002
	erodeGravelSwapChance    = 0.001
	erodeStoneToGravelChance = 0.002
)

// neighborDeltas is the fixed 8-direction order used for Particle's
// Neighbors array and for temperature/lonely-break sampling: top-left,
// top-center, top-right, mid-left, mid-right, bottom-left, bottom-center,
// bottom-right.
var neighborDeltas = [8]gridmath.Vec{
	{X: -1, Y: 1}, {X: 0, Y: 1}, {X: 1, Y: 1},
	{X: -1, Y: 0}, {X: 1, Y: 0},
	{X: -1, Y: -1}, {X: 0, Y: -1}, {X: 1, Y: -1},
}

func (c *Chunk) neighborTypes8(x, y int32) particle.Neighbors {
	var n particle.Neighbors
	for i, d := range neighborDeltas {
		n[i] = c.getLocalType(x+d.X, y+d.Y)
	}
	return n
}

// getPartCanMove implements the target-acceptance test for the requesting
// type testType: the target must exist, and either be Air, be legally
// replaceable by testType, or (if already updated this frame) be one the
// requester may displace under the priority_movement rule — downward
// motion only, never conditioned on the replacement table (see DESIGN.md's
// Open Question resolutions).
func (c *Chunk) getPartCanMove(x, y int32, priorityMovement bool, testType particle.Type) bool {
	p, ok := c.getTestParticle(x, y)
	if !ok {
		return false
	}
	if p.UpdatedThisFrame() {
		return priorityMovement
	}
	if p.Type == particle.Air {
		return true
	}
	return particle.CanReplace(testType, p.Type)
}

// testVec walks from (baseX, baseY) toward (baseX+vx, baseY+vy) one grid
// step at a time when the vector's Chebyshev magnitude exceeds 1, so a
// long displacement is only legal if every intermediate cell also accepts
// the particle.
func (c *Chunk) testVec(baseX, baseY, vx, vy int32, testType particle.Type) bool {
	if abs32(vx) > 1 || abs32(vy) > 1 {
		stepX := sign(vx)
		stepY := sign(vy)
		testX := baseX + stepX
		testY := baseY + stepY
		if !c.getPartCanMove(testX, testY, stepY < 0, testType) {
			return false
		}
		return c.testVec(testX, testY, vx-stepX, vy-stepY, testType)
	}
	testX := baseX + vx
	testY := baseY + vy
	return c.getPartCanMove(testX, testY, vy < 0, testType)
}

func abs32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}

// applyMove swaps the particle at (x, y) with the one at (x+vec.X,
// y+vec.Y), following the neighbor graph across chunk boundaries. It
// reports whether the move happened; a move fails only when the target
// falls outside the chunk and there is no neighbor to carry it into.
func (c *Chunk) applyMove(x, y int32, moving particle.Particle, vec gridmath.Vec) bool {
	targetX, targetY := x+vec.X, y+vec.Y
	if contains(targetX, targetY) {
		other := c.GetParticle(targetX, targetY)
		c.SetParticle(x, y, other)
		c.SetParticle(targetX, targetY, moving)
		return true
	}
	dir := oobDirection(targetX, targetY)
	n := c.neighborInDirection(dir)
	if n == nil {
		return false
	}
	nx := gridmath.Mod(targetX, ChunkSize)
	ny := gridmath.Mod(targetY, ChunkSize)
	other := n.GetParticle(nx, ny)
	c.SetParticle(x, y, other)
	n.SetParticle(nx, ny, moving)
	return true
}

// tryErode applies the per-type erosion rule at (x, y), recursing into a
// neighbor chunk if the coordinate falls outside this one. vel is the
// velocity of the particle that triggered erosion by moving past this cell.
func (c *Chunk) tryErode(rng *rand.Rand, x, y int32, vel gridmath.Vec) {
	if !contains(x, y) {
		dir := oobDirection(x, y)
		n := c.neighborInDirection(dir)
		if n == nil {
			return
		}
		n.tryErode(rng, x-dir.X*ChunkSize, y-dir.Y*ChunkSize, vel)
		return
	}

	part := c.GetParticle(x, y)
	if part.UpdatedThisFrame() {
		return
	}

	switch part.Type {
	case particle.Sand:
		nx, ny := x+vel.X, y+vel.Y
		if contains(nx, ny) && rng.Float64() < erodeSandSwapChance {
			other := c.GetParticle(nx, ny)
			c.SetParticle(x, y, other)
			c.SetParticle(nx, ny, part)
		}
	case particle.Gravel:
		if rng.Float64() < erodeGravelToSandChance {
			c.SetParticle(x, y, particle.NewAlreadyUpdated(particle.Sand))
		} else {
			nx, ny := x+vel.X, y+vel.Y
			if contains(nx, ny) && rng.Float64() < erodeGravelSwapChance {
				other := c.GetParticle(nx, ny)
				c.SetParticle(x, y, other)
				c.SetParticle(nx, ny, part)
			}
		}
	case particle.Stone:
		if rng.Float64() < erodeStoneToGravelChance {
			c.SetParticle(x, y, particle.NewAlreadyUpdated(particle.Gravel))
		}
	}
}

func (c *Chunk) addParticleAt(pos gridmath.Vec, val particle.Particle) {
	if contains(pos.X, pos.Y) {
		c.AddParticle(pos.X, pos.Y, val)
		return
	}
	dir := oobDirection(pos.X, pos.Y)
	n := c.neighborInDirection(dir)
	if n == nil {
		return
	}
	n.AddParticle(gridmath.Mod(pos.X, ChunkSize), gridmath.Mod(pos.Y, ChunkSize), val)
}

// applyCustomCommands applies the immediate-effect commands (Add, Remove,
// Mutate) a custom rule returned, and reports any Move/MoveOrDestroy
// override for the caller to use instead of the type's table move
// preferences.
func (c *Chunk) applyCustomCommands(cmds []particle.Command, x, y int32) (overridePath []gridmath.Vec, moveOrDestroy, hasOverride bool) {
	for _, cmd := range cmds {
		switch cmd.Kind {
		case particle.CmdAdd:
			c.addParticleAt(cmd.Pos, particle.NewWithData(cmd.Type, cmd.Data))
		case particle.CmdRemove:
			c.SetParticle(x, y, particle.New(particle.Air))
		case particle.CmdMutate:
			c.SetParticle(x, y, particle.NewWithData(cmd.Type, cmd.Data))
		case particle.CmdMove:
			overridePath = cmd.Path
			hasOverride = true
		case particle.CmdMoveOrDestroy:
			overridePath = cmd.Path
			moveOrDestroy = true
			hasOverride = true
		}
	}
	return
}

// localTemperature sums heat_for_type over the eight neighbors, treating
// an Air neighbor as half of the cell's own heat — Air insulates rather
// than actively cooling, so a hot particle surrounded by empty space
// doesn't lose heat as fast as it would next to something cold.
func (c *Chunk) localTemperature(x, y int32, ownType particle.Type) int32 {
	ownHeat := particle.HeatFor(ownType)
	var total int32
	for _, d := range neighborDeltas {
		t := c.getLocalType(x+d.X, y+d.Y)
		if t == particle.Air {
			total += ownHeat / 2
		} else {
			total += particle.HeatFor(t)
		}
	}
	return total
}

func (c *Chunk) hasSolidNeighbor(x, y int32) bool {
	for _, d := range neighborDeltas {
		if particle.IsSolid(c.getLocalType(x+d.X, y+d.Y)) {
			return true
		}
	}
	return false
}

// viscosityWeight returns how many extra times a passing candidate is
// entered into the random draw: visc * sameTypeNeighbors, capped at 8, or
// 0 when visc is not positive or sameTypeNeighbors exceeds visc.
// resolveTableMove gives every passing candidate of a tier the same
// weight, so the weight does not change which direction is picked.
func viscosityWeight(visc, sameTypeNeighbors int32) int {
	if visc <= 0 || sameTypeNeighbors > visc {
		return 0
	}
	weight := int(visc * sameTypeNeighbors)
	if weight > 8 {
		weight = 8
	}
	return weight
}

// Update runs one chunk-local simulation tick over the
// (update_this_frame ∪ updated_last_frame) union, in slide order, for
// every cell whose already-moved bit is clear. It must only be called for
// a chunk whose parity phase is active and from its region's single
// owning goroutine for that phase.
func (c *Chunk) Update(rng *rand.Rand) {
	c.mu.RLock()
	toUpdate, ok := gridmath.OptionUnion(derefBounds(c.updateThisFrame), c.updateThisFrame != nil, derefBounds(c.updatedLastFrame), c.updatedLastFrame != nil)
	c.mu.RUnlock()
	if !ok {
		c.updatedLastFrame = c.updateThisFrame
		return
	}

	for p := range toUpdate.Slide(rng) {
		x, y := p.X, p.Y
		curPart := c.GetParticle(x, y)
		if curPart.UpdatedThisFrame() {
			continue
		}

		var overridePath []gridmath.Vec
		var moveOrDestroy, hasOverride bool
		if rule := particle.CustomUpdateFor(curPart.Type); rule != nil {
			cmds := rule(gridmath.Vec{X: x, Y: y}, curPart, c.neighborTypes8(x, y))
			overridePath, moveOrDestroy, hasOverride = c.applyCustomCommands(cmds, x, y)
			curPart = c.GetParticle(x, y)
			if curPart.UpdatedThisFrame() {
				continue
			}
		}

		localTemp := c.localTemperature(x, y, curPart.Type)
		if newType, changed := particle.TryStateChange(curPart.Type, localTemp, rng); changed {
			if particle.IsLonely(newType) && !c.hasSolidNeighbor(x, y) {
				newType = particle.LonelyBreakType(newType)
			}
			curPart = particle.New(newType)
			c.SetParticle(x, y, curPart)
		}

		if hasOverride {
			c.resolveOverrideMove(x, y, curPart, overridePath, moveOrDestroy)
			continue
		}

		c.resolveTableMove(rng, x, y, curPart)
	}

	c.updatedLastFrame = c.updateThisFrame
}

// resolveOverrideMove walks a custom rule's explicit path one step at a
// time, stopping (and optionally destroying the particle) at the first
// step whose target does not accept it (see testVec) or can't be reached.
func (c *Chunk) resolveOverrideMove(x, y int32, curPart particle.Particle, path []gridmath.Vec, destroyIfBlocked bool) {
	for _, step := range path {
		if !c.testVec(x, y, step.X, step.Y, curPart.Type) || !c.applyMove(x, y, curPart, step) {
			if destroyIfBlocked {
				c.SetParticle(x, y, particle.New(particle.Air))
			}
			return
		}
		x += step.X
		y += step.Y
	}
}

func (c *Chunk) resolveTableMove(rng *rand.Rand, x, y int32, curPart particle.Particle) {
	tiers := particle.MovePreferences(curPart.Type)
	if len(tiers) == 0 {
		return
	}

	visc := particle.ViscosityFor(curPart.Type, c.localTemperature(x, y, curPart.Type))
	sameType := c.countNeighborsOfType(x, y, curPart.Type)
	weight := viscosityWeight(visc, int32(sameType))

	var candidates []gridmath.Vec
	for _, tier := range tiers {
		for _, vec := range tier {
			if c.testVec(x, y, vec.X, vec.Y, curPart.Type) {
				candidates = append(candidates, vec)
				for i := 0; i < weight; i++ {
					candidates = append(candidates, vec)
				}
			}
		}
		if len(candidates) > 0 {
			break
		}
	}
	if len(candidates) == 0 {
		return
	}

	chosen := candidates[rng.Intn(len(candidates))]

	if curPart.Type == particle.Water && chosen.ManhattanLength() > 1 {
		c.tryErode(rng, x, y-1, chosen)
		c.tryErode(rng, x, y+1, chosen)
		c.tryErode(rng, x-1, y, chosen)
		c.tryErode(rng, x+1, y, chosen)
	}

	c.applyMove(x, y, curPart, chosen)
}
