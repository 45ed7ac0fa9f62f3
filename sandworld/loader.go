package sandworld

import (
	"runtime"
	"sync"

	"github.com/google/uuid"

	"sandcore/gridmath"
	"sandcore/internal/profiling"
)

// LoadingRegion is a region generation job in flight, tagged with a random
// job ID. A re-request for a position that is still loading is folded into
// the existing job by position (regionLoader's pending map), not by ID.
type LoadingRegion struct {
	ID       uuid.UUID
	Position gridmath.Vec

	mu     sync.Mutex
	ready  bool
	region *Region
}

func (l *LoadingRegion) finish(r *Region) {
	l.mu.Lock()
	l.region = r
	l.ready = true
	l.mu.Unlock()
}

// Ready reports whether generation has finished.
func (l *LoadingRegion) Ready() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.ready
}

// regionLoader runs region generation on a worker pool and exposes
// completed jobs through a FIFO so the world only ever ingests the oldest
// outstanding job per update — newer jobs keep generating in the
// background rather than racing to be consumed first.
type regionLoader struct {
	gen WorldGenerator

	jobs chan *LoadingRegion

	mu      sync.Mutex
	fifo    []*LoadingRegion
	pending map[gridmath.Vec]*LoadingRegion
}

func newRegionLoader(gen WorldGenerator) *regionLoader {
	l := &regionLoader{
		gen:     gen,
		jobs:    make(chan *LoadingRegion, 256),
		pending: make(map[gridmath.Vec]*LoadingRegion),
	}
	workers := max(runtime.NumCPU(), 1)
	for i := 0; i < workers; i++ {
		go l.worker()
	}
	return l
}

func (l *regionLoader) worker() {
	for job := range l.jobs {
		func() {
			defer profiling.Track("sandworld.regionLoader.generate")()
			region := NewRegion(job.Position)
			region.GenerateChunks(l.gen)
			job.finish(region)
		}()
	}
}

// Request starts generating a region at pos if one isn't already pending,
// and returns its job.
func (l *regionLoader) Request(pos gridmath.Vec) *LoadingRegion {
	l.mu.Lock()
	defer l.mu.Unlock()
	if job, ok := l.pending[pos]; ok {
		return job
	}
	job := &LoadingRegion{ID: uuid.New(), Position: pos}
	l.pending[pos] = job
	l.fifo = append(l.fifo, job)
	l.jobs <- job
	return job
}

// PopReady removes and returns the oldest outstanding job if it has
// finished; it does not look further into the FIFO even if a newer job is
// already done, so completion is consumed in request order.
func (l *regionLoader) PopReady() (*Region, gridmath.Vec, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.fifo) == 0 {
		return nil, gridmath.Vec{}, false
	}
	front := l.fifo[0]
	if !front.Ready() {
		return nil, gridmath.Vec{}, false
	}
	l.fifo = l.fifo[1:]
	delete(l.pending, front.Position)
	return front.region, front.Position, true
}
