package sandworld

import (
	"context"
	"math/rand"
	"sync"

	"sandcore/gridmath"
	"sandcore/internal/profiling"
	"sandcore/particle"
)

// WorldGenerator is the host-supplied capability that fills newly loaded
// chunks with content: given a world-space cell coordinate, it returns the
// particle that belongs there.
type WorldGenerator interface {
	GetParticle(pos gridmath.Vec) particle.Particle
}

// DefaultTargetChunkUpdates bounds how much chunk-update work a single
// World.Update call takes on, estimated from each region's last reported
// LastChunkUpdates before any work actually runs this frame.
const DefaultTargetChunkUpdates = 128

// UpdateStats summarizes one World.Update call.
type UpdateStats struct {
	ChunkUpdates  int64
	RegionUpdates int64
	LoadedRegions int
}

// World owns every loaded region, the generator used to fill new ones, and
// the async loading pipeline that streams regions in without blocking
// Update.
type World struct {
	generator WorldGenerator
	loader    *regionLoader

	mu      sync.RWMutex
	regions map[gridmath.Vec]*Region

	compressed map[gridmath.Vec]*CompressedRegion

	addedChunksMu sync.Mutex
	addedChunks   []gridmath.Vec
	updatedChunks []gridmath.Vec
	removedChunks []gridmath.Vec

	rng *rand.Rand
}

// NewWorld creates an empty world backed by generator.
func NewWorld(generator WorldGenerator) *World {
	return &World{
		generator:  generator,
		loader:     newRegionLoader(generator),
		regions:    make(map[gridmath.Vec]*Region),
		compressed: make(map[gridmath.Vec]*CompressedRegion),
		rng:        rand.New(rand.NewSource(1)),
	}
}

func regionPosForChunkPos(chunkPos gridmath.Vec) gridmath.Vec {
	return gridmath.Vec{
		X: gridmath.FloorDiv(chunkPos.X, RegionSize),
		Y: gridmath.FloorDiv(chunkPos.Y, RegionSize),
	}
}

func chunkPosForWorldPos(pos gridmath.Vec) gridmath.Vec {
	return gridmath.Vec{
		X: gridmath.FloorDiv(pos.X, ChunkSize),
		Y: gridmath.FloorDiv(pos.Y, ChunkSize),
	}
}

func chunkLocalForWorldPos(pos gridmath.Vec) gridmath.Vec {
	return gridmath.Vec{
		X: gridmath.Mod(pos.X, ChunkSize),
		Y: gridmath.Mod(pos.Y, ChunkSize),
	}
}

func regionPosForWorldPos(pos gridmath.Vec) gridmath.Vec {
	return regionPosForChunkPos(chunkPosForWorldPos(pos))
}

// addRegionIfNeeded synchronously creates and links a region at pos if one
// isn't already loaded. Synchronous creation (vs. the async loader) is used
// for regions a caller writes into directly, since the write can't wait on
// a background job.
func (w *World) addRegionIfNeeded(pos gridmath.Vec) *Region {
	w.mu.Lock()
	defer w.mu.Unlock()
	if r, ok := w.regions[pos]; ok {
		return r
	}
	r := NewRegion(pos)
	r.GenerateChunks(w.generator)
	w.linkRegionLocked(pos, r)
	w.regions[pos] = r
	w.recordAdded(r.DrainAddedChunks())
	return r
}

// EvictRegion removes a region from the loaded set, keeping a compressed
// copy so a later LoadCompressedRegion call restores it without
// regenerating from the world generator.
func (w *World) EvictRegion(pos gridmath.Vec) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	r, ok := w.regions[pos]
	if !ok {
		return false
	}
	removed := make([]gridmath.Vec, 0, len(r.chunks))
	for _, c := range r.chunks {
		if c != nil {
			removed = append(removed, c.Position)
		}
	}
	w.compressed[pos] = compressRegion(r)
	delete(w.regions, pos)

	for _, n := range w.regions {
		n.CheckRemoveNeighbor(pos, removed)
	}

	w.addedChunksMu.Lock()
	w.removedChunks = append(w.removedChunks, removed...)
	w.addedChunksMu.Unlock()
	return true
}

// LoadCompressedRegion restores a previously evicted region from its
// compressed form, re-linking it with any currently loaded neighbors.
func (w *World) LoadCompressedRegion(pos gridmath.Vec) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	cr, ok := w.compressed[pos]
	if !ok {
		return false
	}
	r := decompressRegion(cr)
	delete(w.compressed, pos)
	w.linkRegionLocked(pos, r)
	w.regions[pos] = r
	w.recordAdded(r.DrainAddedChunks())
	return true
}

func (w *World) linkRegionLocked(pos gridmath.Vec, r *Region) {
	deltas := []gridmath.Vec{
		{X: -1, Y: -1}, {X: 0, Y: -1}, {X: 1, Y: -1},
		{X: -1, Y: 0}, {X: 1, Y: 0},
		{X: -1, Y: 1}, {X: 0, Y: 1}, {X: 1, Y: 1},
	}
	for _, d := range deltas {
		if n, ok := w.regions[pos.Add(d)]; ok {
			r.CheckAddNeighbor(n)
		}
	}
}

func (w *World) recordAdded(positions []gridmath.Vec) {
	if len(positions) == 0 {
		return
	}
	w.addedChunksMu.Lock()
	w.addedChunks = append(w.addedChunks, positions...)
	w.addedChunksMu.Unlock()
}

func (w *World) recordUpdated(positions []gridmath.Vec) {
	if len(positions) == 0 {
		return
	}
	w.addedChunksMu.Lock()
	w.updatedChunks = append(w.updatedChunks, positions...)
	w.addedChunksMu.Unlock()
}

func (w *World) getChunk(chunkPos gridmath.Vec) *Chunk {
	w.mu.RLock()
	defer w.mu.RUnlock()
	r, ok := w.regions[regionPosForChunkPos(chunkPos)]
	if !ok {
		return nil
	}
	return r.GetChunk(chunkPos)
}

// GetParticle reads the particle at a world-space coordinate. A cell in an
// unloaded region reads back as Boundary, per the engine's no-fatal-errors
// policy.
func (w *World) GetParticle(pos gridmath.Vec) particle.Particle {
	c := w.getChunk(chunkPosForWorldPos(pos))
	if c == nil {
		return particle.New(particle.Boundary)
	}
	local := chunkLocalForWorldPos(pos)
	return c.GetParticle(local.X, local.Y)
}

// ReplaceParticle writes newVal at pos unconditionally, loading the
// region synchronously first if needed.
func (w *World) ReplaceParticle(pos gridmath.Vec, newVal particle.Particle) {
	chunkPos := chunkPosForWorldPos(pos)
	r := w.addRegionIfNeeded(regionPosForChunkPos(chunkPos))
	c := r.GetChunk(chunkPos)
	if c == nil {
		return
	}
	local := chunkLocalForWorldPos(pos)
	c.SetParticle(local.X, local.Y, newVal)
}

// AddParticle writes newVal at pos only if the existing cell is Air.
func (w *World) AddParticle(pos gridmath.Vec, newVal particle.Particle) {
	w.ReplaceParticleFiltered(pos, newVal, particle.Air)
}

// ReplaceParticleFiltered writes newVal at pos only if the existing cell's
// type equals replaceType.
func (w *World) ReplaceParticleFiltered(pos gridmath.Vec, newVal particle.Particle, replaceType particle.Type) {
	chunkPos := chunkPosForWorldPos(pos)
	r := w.addRegionIfNeeded(regionPosForChunkPos(chunkPos))
	c := r.GetChunk(chunkPos)
	if c == nil {
		return
	}
	local := chunkLocalForWorldPos(pos)
	c.ReplaceParticleFiltered(local.X, local.Y, newVal, replaceType)
}

// PlaceCircle fills every cell within radius of center with newVal,
// subject to replace's semantics (true overwrites anything, false only
// fills Air).
func (w *World) PlaceCircle(center gridmath.Vec, radius int32, newVal particle.Particle, replace bool) {
	for y := center.Y - radius; y <= center.Y+radius; y++ {
		for x := center.X - radius; x <= center.X+radius; x++ {
			p := gridmath.Vec{X: x, Y: y}
			if p.SqDistance(center) > int64(radius)*int64(radius) {
				continue
			}
			if replace {
				w.ReplaceParticle(p, newVal)
			} else {
				w.AddParticle(p, newVal)
			}
		}
	}
}

// ClearCircle sets every cell within radius of center to Air.
func (w *World) ClearCircle(center gridmath.Vec, radius int32) {
	w.PlaceCircle(center, radius, particle.New(particle.Air), true)
}

// CastRay walks along line from its start to its end until it strikes a
// particle whose type is in mask, crossing chunk and region boundaries as
// needed. Cells in chunks that are not loaded are skipped.
func (w *World) CastRay(mask particle.Set, line gridmath.Line) (RayHit, bool) {
	for p := range line.Along() {
		c := w.getChunk(chunkPosForWorldPos(p))
		if c == nil {
			continue
		}
		local := chunkLocalForWorldPos(p)
		part := c.GetParticle(local.X, local.Y)
		if mask.Contains(part.Type) {
			return RayHit{WorldPos: p, Particle: part}, true
		}
	}
	return RayHit{}, false
}

// DrainAddedChunks returns and clears the set of chunk positions added
// since the last call.
func (w *World) DrainAddedChunks() []gridmath.Vec {
	w.addedChunksMu.Lock()
	defer w.addedChunksMu.Unlock()
	out := w.addedChunks
	w.addedChunks = nil
	return out
}

// DrainUpdatedChunks returns and clears the set of chunk positions that
// changed since the last call.
func (w *World) DrainUpdatedChunks() []gridmath.Vec {
	w.addedChunksMu.Lock()
	defer w.addedChunksMu.Unlock()
	out := w.updatedChunks
	w.updatedChunks = nil
	return out
}

// DrainRemovedChunks returns and clears the set of chunk positions
// unloaded since the last call.
func (w *World) DrainRemovedChunks() []gridmath.Vec {
	w.addedChunksMu.Lock()
	defer w.addedChunksMu.Unlock()
	out := w.removedChunks
	w.removedChunks = nil
	return out
}

// ingestLoadedRegion ingests the single oldest completed async-load job,
// if any, linking it into the loaded set.
func (w *World) ingestLoadedRegion() {
	r, pos, ok := w.loader.PopReady()
	if !ok {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, exists := w.regions[pos]; exists {
		return
	}
	w.linkRegionLocked(pos, r)
	w.regions[pos] = r
	w.recordAdded(r.DrainAddedChunks())
}

// Update advances the simulation by one frame: it makes sure the visible
// area is loaded (requesting async generation for anything missing),
// ingests at most one completed load job, schedules a priority-ordered
// subset of loaded regions up to chunkBudget estimated chunk updates, and
// runs four checkerboard phases over exactly that subset.
func (w *World) Update(ctx context.Context, visible gridmath.Bounds, chunkBudget int64) UpdateStats {
	defer profiling.Track("sandworld.World.Update")()

	if chunkBudget <= 0 {
		chunkBudget = DefaultTargetChunkUpdates
	}

	visibleRegions, hasVisible := gridmath.NewBoundsFromExtents(
		regionPosForWorldPos(visible.BottomLeft()),
		regionPosForWorldPos(visible.TopRight()).Add(gridmath.Vec{X: 1, Y: 1}),
	), true

	for p := range visibleRegions.All() {
		w.mu.RLock()
		_, loaded := w.regions[p]
		w.mu.RUnlock()
		if !loaded {
			w.loader.Request(p)
		}
	}
	w.ingestLoadedRegion()

	w.mu.RLock()
	snapshot := make(map[gridmath.Vec]*Region, len(w.regions))
	for k, v := range w.regions {
		snapshot[k] = v
	}
	w.mu.RUnlock()

	sched := newScheduler(visibleRegions, hasVisible, chunkBudget)
	toUpdate, toSkip := sched.Select(snapshot)

	var wg sync.WaitGroup
	wg.Add(len(toUpdate))
	for _, r := range toUpdate {
		r := r
		rng := rand.New(rand.NewSource(w.rng.Int63()))
		go func() {
			defer wg.Done()
			r.CommitAndCollectUpdated(rng)
			r.Staleness = 0
			w.recordUpdated(r.DrainUpdatedChunks())
		}()
	}
	wg.Wait()

	for _, r := range toSkip {
		r.Staleness++
	}

	shift := w.rng.Int31n(4)
	var chunkUpdates int64
	for i := int32(0); i < 4; i++ {
		phase := i + shift
		var phaseWG sync.WaitGroup
		phaseWG.Add(len(toUpdate))
		var mu sync.Mutex
		for _, r := range toUpdate {
			r := r
			rng := rand.New(rand.NewSource(w.rng.Int63()))
			go func() {
				defer phaseWG.Done()
				n := r.UpdatePhase(ctx, phase, rng)
				mu.Lock()
				chunkUpdates += n
				mu.Unlock()
			}()
		}
		phaseWG.Wait()
	}

	return UpdateStats{
		ChunkUpdates:  chunkUpdates,
		RegionUpdates: int64(len(toUpdate)),
		LoadedRegions: len(snapshot),
	}
}
