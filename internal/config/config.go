// Package config holds the simulation's tunable runtime settings, mirroring
// the teacher's RWMutex-guarded global-settings pattern but repurposed from
// render settings to simulation scheduling and tuning.
package config

import (
	"os"
	"sync"

	"gopkg.in/yaml.v3"
)

// Settings holds the simulation's tunables. cmd/sandsim passes the target
// chunk updates to World.Update and the sandworld scheduler reads the
// per-frame region cap; the staleness threshold and phase count are stored
// and loaded but not read by sandworld.
type Settings struct {
	mu sync.RWMutex

	targetChunkUpdates int
	stalenessThreshold int
	maxRegionsPerFrame int
	phaseCount         int
}

var global = &Settings{
	targetChunkUpdates: 128,
	stalenessThreshold: 8,
	maxRegionsPerFrame: 16,
	phaseCount:         4,
}

// GetTargetChunkUpdates returns the estimated chunk-update budget
// World.Update aims for each frame.
func GetTargetChunkUpdates() int {
	global.mu.RLock()
	defer global.mu.RUnlock()
	return global.targetChunkUpdates
}

// SetTargetChunkUpdates sets the per-frame chunk-update budget, clamped to
// a sane range.
func SetTargetChunkUpdates(n int) {
	global.mu.Lock()
	defer global.mu.Unlock()
	if n < 1 {
		n = 1
	}
	if n > 1_000_000 {
		n = 1_000_000
	}
	global.targetChunkUpdates = n
}

// GetStalenessThreshold returns the configured staleness threshold, in
// consecutive skipped frames. sandworld does not read this setting:
// World.Update neither compresses nor prioritizes regions by it.
func GetStalenessThreshold() int {
	global.mu.RLock()
	defer global.mu.RUnlock()
	return global.stalenessThreshold
}

// SetStalenessThreshold sets the staleness tolerance.
func SetStalenessThreshold(n int) {
	global.mu.Lock()
	defer global.mu.Unlock()
	if n < 0 {
		n = 0
	}
	global.stalenessThreshold = n
}

// GetMaxRegionsPerFrame returns the hard cap on how many regions may be
// admitted to a single update cycle, independent of the chunk-update
// budget.
func GetMaxRegionsPerFrame() int {
	global.mu.RLock()
	defer global.mu.RUnlock()
	return global.maxRegionsPerFrame
}

// SetMaxRegionsPerFrame sets the per-frame region cap.
func SetMaxRegionsPerFrame(n int) {
	global.mu.Lock()
	defer global.mu.Unlock()
	if n < 1 {
		n = 1
	}
	global.maxRegionsPerFrame = n
}

// GetPhaseCount returns the configured checkerboard phase count.
// World.Update always runs four phases (one per 2x2 parity class) and does
// not read this setting.
func GetPhaseCount() int {
	global.mu.RLock()
	defer global.mu.RUnlock()
	return global.phaseCount
}

// SetPhaseCount sets the phase count.
func SetPhaseCount(n int) {
	global.mu.Lock()
	defer global.mu.Unlock()
	if n < 1 {
		n = 1
	}
	global.phaseCount = n
}

// fileSettings is the shape of an optional sandcore.yaml override file.
type fileSettings struct {
	TargetChunkUpdates *int `yaml:"target_chunk_updates"`
	StalenessThreshold *int `yaml:"staleness_threshold"`
	MaxRegionsPerFrame *int `yaml:"max_regions_per_frame"`
	PhaseCount         *int `yaml:"phase_count"`
}

// LoadFile applies overrides from a YAML file at path on top of the
// current defaults. A missing file is not an error — it just means the
// defaults stand.
func LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}

	var fs fileSettings
	if err := yaml.Unmarshal(data, &fs); err != nil {
		return err
	}

	if fs.TargetChunkUpdates != nil {
		SetTargetChunkUpdates(*fs.TargetChunkUpdates)
	}
	if fs.StalenessThreshold != nil {
		SetStalenessThreshold(*fs.StalenessThreshold)
	}
	if fs.MaxRegionsPerFrame != nil {
		SetMaxRegionsPerFrame(*fs.MaxRegionsPerFrame)
	}
	if fs.PhaseCount != nil {
		SetPhaseCount(*fs.PhaseCount)
	}
	return nil
}
