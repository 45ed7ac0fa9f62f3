package sandworld

import (
	"math/rand"
	"testing"

	"sandcore/gridmath"
	"sandcore/particle"
)

func TestTestVecRejectsBlockedPath(t *testing.T) {
	c := NewChunk(gridmath.Vec{})
	c.SetParticle(5, 5, particle.New(particle.Sand))
	// Written directly so the Stone is not marked as moved this frame,
	// which would let downward priority movement displace it.
	c.particles[indexInChunk(5, 3)] = particle.New(particle.Stone)

	if c.testVec(5, 5, 0, -2, particle.Sand) {
		t.Fatalf("expected path blocked by Stone two cells below to reject")
	}
}

func TestTestVecAcceptsOpenPath(t *testing.T) {
	c := NewChunk(gridmath.Vec{})
	c.SetParticle(5, 5, particle.New(particle.Sand))

	if !c.testVec(5, 5, 0, -2, particle.Sand) {
		t.Fatalf("expected clear path through Air to accept")
	}
}

func TestGetPartCanMoveAllowsDownwardDisplaceOfUpdatedParticle(t *testing.T) {
	c := NewChunk(gridmath.Vec{})
	moved := particle.New(particle.Sand)
	moved.SetUpdatedThisFrame(true)
	c.SetParticle(5, 4, moved)

	if c.getPartCanMove(5, 4, true, particle.Sand) != true {
		t.Fatalf("expected priority (downward) movement to permit displacing an already-updated cell")
	}
	if c.getPartCanMove(5, 4, false, particle.Sand) != false {
		t.Fatalf("expected non-downward movement to refuse displacing an already-updated cell")
	}
}

func TestApplyMoveSwapsAcrossChunkBoundary(t *testing.T) {
	a := NewChunk(gridmath.Vec{X: 0, Y: 0})
	b := NewChunk(gridmath.Vec{X: 1, Y: 0})
	a.checkAddNeighbor(b)

	moving := particle.New(particle.Sand)
	a.SetParticle(ChunkSize-1, 10, moving)
	b.SetParticle(0, 10, particle.New(particle.Water))

	ok := a.applyMove(ChunkSize-1, 10, moving, gridmath.Vec{X: 1, Y: 0})
	if !ok {
		t.Fatalf("expected cross-chunk move to succeed")
	}
	if got := a.GetParticle(ChunkSize-1, 10).Type; got != particle.Water {
		t.Fatalf("origin cell = %v, want Water swapped in", got)
	}
	if got := b.GetParticle(0, 10).Type; got != particle.Sand {
		t.Fatalf("target cell = %v, want Sand moved in", got)
	}
}

func TestApplyMoveFailsWithoutNeighbor(t *testing.T) {
	c := NewChunk(gridmath.Vec{})
	moving := particle.New(particle.Sand)
	c.SetParticle(ChunkSize-1, 10, moving)

	if c.applyMove(ChunkSize-1, 10, moving, gridmath.Vec{X: 1, Y: 0}) {
		t.Fatalf("expected move off the edge with no neighbor to fail")
	}
}

func TestResolveOverrideMoveWalksFullPath(t *testing.T) {
	c := NewChunk(gridmath.Vec{})
	moving := particle.New(particle.LaserBeam)
	c.SetParticle(10, 10, moving)

	path := []gridmath.Vec{{X: 1, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 0}}
	c.resolveOverrideMove(10, 10, moving, path, false)

	if got := c.GetParticle(10, 10).Type; got != particle.Air {
		t.Fatalf("origin = %v, want Air after particle moved away", got)
	}
	if got := c.GetParticle(13, 10).Type; got != particle.LaserBeam {
		t.Fatalf("expected particle to have walked all three path steps to (13,10), got type %v at that cell", got)
	}
}

func TestResolveOverrideMoveStopsAtFirstBlockedStepAndDestroys(t *testing.T) {
	c := NewChunk(gridmath.Vec{})
	moving := particle.New(particle.LaserBeam)
	c.SetParticle(10, 10, moving)
	c.SetParticle(11, 10, particle.New(particle.Stone))

	path := []gridmath.Vec{{X: 1, Y: 0}, {X: 1, Y: 0}}
	c.resolveOverrideMove(10, 10, moving, path, true)

	if got := c.GetParticle(10, 10).Type; got != particle.Air {
		t.Fatalf("expected destroyIfBlocked to clear the origin cell, got %v", got)
	}
	if got := c.GetParticle(12, 10).Type; got != particle.Air {
		t.Fatalf("expected the blocked second step to never be reached, got %v at (12,10)", got)
	}
}

func TestTryErodeSandSwapsWithinProbability(t *testing.T) {
	c := NewChunk(gridmath.Vec{})
	c.SetParticle(10, 10, particle.New(particle.Sand))
	c.SetParticle(11, 10, particle.New(particle.Air))

	rng := rand.New(rand.NewSource(1))
	swapped := false
	for i := 0; i < 2000; i++ {
		// Written directly: tryErode skips cells marked as moved this frame.
		c.particles[indexInChunk(10, 10)] = particle.New(particle.Sand)
		c.SetParticle(11, 10, particle.New(particle.Air))
		c.tryErode(rng, 10, 10, gridmath.Vec{X: 1, Y: 0})
		if c.GetParticle(11, 10).Type == particle.Sand {
			swapped = true
			break
		}
	}
	if !swapped {
		t.Fatalf("expected Sand erosion to swap at least once in 2000 trials at a 10%% rate")
	}
}

func TestTryErodeStoneEventuallyDowngradesToGravel(t *testing.T) {
	c := NewChunk(gridmath.Vec{})
	rng := rand.New(rand.NewSource(42))
	downgraded := false
	for i := 0; i < 5000; i++ {
		// Written directly: tryErode skips cells marked as moved this frame.
		c.particles[indexInChunk(10, 10)] = particle.New(particle.Stone)
		c.tryErode(rng, 10, 10, gridmath.Vec{X: 0, Y: -1})
		if c.GetParticle(10, 10).Type == particle.Gravel {
			downgraded = true
			break
		}
	}
	if !downgraded {
		t.Fatalf("expected Stone erosion to downgrade to Gravel at least once in 5000 trials at a 0.2%% rate")
	}
}

func TestTryErodeSkipsAlreadyUpdatedParticle(t *testing.T) {
	c := NewChunk(gridmath.Vec{})
	c.SetParticle(10, 10, particle.NewAlreadyUpdated(particle.Stone))

	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 1000; i++ {
		c.tryErode(rng, 10, 10, gridmath.Vec{X: 0, Y: -1})
	}
	if got := c.GetParticle(10, 10).Type; got != particle.Stone {
		t.Fatalf("expected an already-updated particle to never erode this frame, got %v", got)
	}
}

func TestLocalTemperatureTreatsAirAsHalfOwnHeat(t *testing.T) {
	c := NewChunk(gridmath.Vec{})
	c.SetParticle(10, 10, particle.New(particle.Lava))

	allAirTemp := c.localTemperature(10, 10, particle.Lava)

	// Surround with a cold solid instead of air and confirm the reading drops.
	for _, d := range neighborDeltas {
		c.SetParticle(10+d.X, 10+d.Y, particle.New(particle.Ice))
	}
	coldSurroundedTemp := c.localTemperature(10, 10, particle.Lava)

	if allAirTemp <= coldSurroundedTemp {
		t.Fatalf("air-insulated temperature (%d) should exceed cold-surrounded temperature (%d)", allAirTemp, coldSurroundedTemp)
	}
}

func TestHasSolidNeighborIgnoresAirAndDetectsStone(t *testing.T) {
	c := NewChunk(gridmath.Vec{})
	c.SetParticle(10, 10, particle.New(particle.Sand))
	if c.hasSolidNeighbor(10, 10) {
		t.Fatalf("expected no solid neighbor among default Air cells")
	}
	c.SetParticle(11, 10, particle.New(particle.Stone))
	if !c.hasSolidNeighbor(10, 10) {
		t.Fatalf("expected Stone neighbor to count as solid")
	}
}

func TestViscosityWeightCapsAtEight(t *testing.T) {
	if got := viscosityWeight(10, 8); got != 8 {
		t.Fatalf("viscosityWeight(10, 8) = %d, want capped at 8", got)
	}
	if got := viscosityWeight(0, 5); got != 0 {
		t.Fatalf("viscosityWeight(0, 5) = %d, want 0 for non-viscous types", got)
	}
	if got := viscosityWeight(2, 10); got != 0 {
		t.Fatalf("viscosityWeight(2, 10) = %d, want 0 when same-type neighbor count exceeds viscosity", got)
	}
}

func TestApplyCustomCommandsAppliesAddAndMutate(t *testing.T) {
	c := NewChunk(gridmath.Vec{})
	c.SetParticle(10, 10, particle.New(particle.Source))

	cmds := []particle.Command{
		{Kind: particle.CmdAdd, Pos: gridmath.Vec{X: 11, Y: 10}, Type: particle.Water},
		{Kind: particle.CmdMutate, Type: particle.Source, Data: 7},
	}
	path, moveOrDestroy, hasOverride := c.applyCustomCommands(cmds, 10, 10)

	if hasOverride || moveOrDestroy || path != nil {
		t.Fatalf("expected no movement override from Add/Mutate commands")
	}
	if got := c.GetParticle(11, 10).Type; got != particle.Water {
		t.Fatalf("expected CmdAdd to place Water, got %v", got)
	}
	if got := c.GetParticle(10, 10).Data(); got != 7 {
		t.Fatalf("expected CmdMutate to set data to 7, got %d", got)
	}
}

func TestApplyCustomCommandsReportsMoveOverride(t *testing.T) {
	c := NewChunk(gridmath.Vec{})
	path := []gridmath.Vec{{X: 1, Y: 0}}
	cmds := []particle.Command{{Kind: particle.CmdMoveOrDestroy, Path: path}}

	gotPath, moveOrDestroy, hasOverride := c.applyCustomCommands(cmds, 5, 5)
	if !hasOverride || !moveOrDestroy {
		t.Fatalf("expected CmdMoveOrDestroy to report an override with destroy semantics")
	}
	if len(gotPath) != 1 || gotPath[0] != path[0] {
		t.Fatalf("expected override path to be forwarded unchanged, got %v", gotPath)
	}
}

func TestUpdateMovesSandDownwardThroughAir(t *testing.T) {
	c := NewChunk(gridmath.Vec{})
	c.SetParticle(10, 10, particle.New(particle.Sand))
	c.markSelfDirty()
	rng := rand.New(rand.NewSource(7))
	c.CommitUpdates(rng)
	c.Update(rng)

	if got := c.GetParticle(10, 10).Type; got == particle.Sand {
		t.Fatalf("expected Sand to have fallen out of its starting cell")
	}
	if c.GetParticle(10, 9).Type != particle.Sand && c.GetParticle(10, 8).Type != particle.Sand {
		t.Fatalf("expected Sand to land one or two cells below its start (its two move-preference tier-1 candidates)")
	}
}

func TestUpdateLeavesRestingSandOnStoneInPlace(t *testing.T) {
	c := NewChunk(gridmath.Vec{})
	// A wide, two-row stone platform blocks every tier of Sand's move
	// preferences (straight down, one/two-cell diagonals), not just the
	// cell directly underneath.
	for x := int32(5); x <= 15; x++ {
		c.SetParticle(x, 9, particle.New(particle.Stone))
		c.SetParticle(x, 8, particle.New(particle.Stone))
	}
	c.SetParticle(10, 10, particle.New(particle.Sand))
	c.markSelfDirty()
	rng := rand.New(rand.NewSource(3))
	c.CommitUpdates(rng)
	c.Update(rng)

	if got := c.GetParticle(10, 10).Type; got != particle.Sand {
		t.Fatalf("expected Sand resting on Stone to stay put, got %v", got)
	}
}
