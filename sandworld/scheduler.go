package sandworld

import (
	"container/heap"

	"sandcore/gridmath"
	"sandcore/internal/config"
)

// VisibleBoost is added to a region's update priority when any part of it
// overlaps the caller's visible area, so on-screen regions are serviced
// before off-screen backlog even when their staleness score is lower.
const VisibleBoost = 65536

// schedEntry is one region's standing in the priority queue.
type schedEntry struct {
	position gridmath.Vec
	priority int64
	index    int
}

// regionHeap is a max-heap of schedEntry ordered by priority.
type regionHeap []*schedEntry

func (h regionHeap) Len() int            { return len(h) }
func (h regionHeap) Less(i, j int) bool  { return h[i].priority > h[j].priority }
func (h regionHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i]; h[i].index = i; h[j].index = j }
func (h *regionHeap) Push(x interface{}) {
	e := x.(*schedEntry)
	e.index = len(*h)
	*h = append(*h, e)
}
func (h *regionHeap) Pop() interface{} {
	old := *h
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return e
}

// scheduler picks which loaded regions get to update this frame, ordered
// by UpdatePriority, with regions inside the visible (region-coordinate)
// bounds boosted to the front. It stops admitting regions once the running
// total of their last frame's chunk update counts reaches
// targetChunkUpdates, per the estimate-don't-measure budget described in
// the update cycle, or once config.GetMaxRegionsPerFrame regions have been
// admitted.
type scheduler struct {
	visibleRegions     gridmath.Bounds
	hasVisible         bool
	targetChunkUpdates int64
}

func newScheduler(visibleRegions gridmath.Bounds, hasVisible bool, targetChunkUpdates int64) *scheduler {
	return &scheduler{visibleRegions: visibleRegions, hasVisible: hasVisible, targetChunkUpdates: targetChunkUpdates}
}

// Select partitions regions into those to update this frame and those to
// skip, ordered by priority (highest first) within the update set.
func (s *scheduler) Select(regions map[gridmath.Vec]*Region) (toUpdate, toSkip []*Region) {
	h := &regionHeap{}
	heap.Init(h)
	byPos := make(map[gridmath.Vec]*Region, len(regions))
	for pos, r := range regions {
		byPos[pos] = r
		priority := r.UpdatePriority()
		if s.hasVisible && s.visibleRegions.Contains(pos) {
			priority += VisibleBoost
		}
		heap.Push(h, &schedEntry{position: pos, priority: priority})
	}

	maxRegions := config.GetMaxRegionsPerFrame()
	var estimated int64
	for h.Len() > 0 {
		e := heap.Pop(h).(*schedEntry)
		r := byPos[e.position]
		if estimated < s.targetChunkUpdates && len(toUpdate) < maxRegions {
			estimated += int64(r.LastChunkUpdates)
			toUpdate = append(toUpdate, r)
		} else {
			toSkip = append(toSkip, r)
		}
	}
	return toUpdate, toSkip
}
