package particle

import "sandcore/gridmath"

// CommandKind distinguishes the variants of Command.
type CommandKind int

const (
	// CmdAdd places a new particle of Type at Pos with the given data.
	CmdAdd CommandKind = iota
	// CmdMove displaces the acting particle by Path, in order, stopping at
	// the first step it can't complete.
	CmdMove
	// CmdMoveOrDestroy is CmdMove, but the particle is removed instead of
	// staying put if the path is fully blocked.
	CmdMoveOrDestroy
	// CmdRemove deletes the acting particle.
	CmdRemove
	// CmdMutate rewrites the acting particle's type and data in place.
	CmdMutate
)

// Command is one instruction a custom update rule emits for the engine to
// apply against a chunk. Only the fields relevant to Kind are populated.
type Command struct {
	Kind CommandKind
	Pos  gridmath.Vec
	Type Type
	Data uint8
	Path []gridmath.Vec
}

// Neighbors is the 8 particle types surrounding a cell, in a fixed order:
// top-left, top-center, top-right, mid-left, mid-right, bottom-left,
// bottom-center, bottom-right. Matches the chunk neighbor-slot ordering.
type Neighbors [8]Type

// UpdateFunc is a custom per-particle update rule: given the particle's
// position, its current value, and its neighborhood, it returns the
// commands the engine should apply.
type UpdateFunc func(pos gridmath.Vec, p Particle, neighbors Neighbors) []Command

// CustomUpdateFor returns the custom update rule for a type, or nil if the
// type follows only the generic movement/erosion/state-change pipeline.
func CustomUpdateFor(t Type) UpdateFunc {
	switch t {
	case Source:
		return sourceUpdate
	case LaserBeam:
		return laserBeamUpdate
	case LaserEmitter:
		return laserEmitterUpdate
	default:
		return nil
	}
}

// sourceUpdate implements a feed block: on its first tick it samples its
// neighborhood for a material to emit, then on every later tick emits that
// material into its four orthogonal neighbors.
func sourceUpdate(pos gridmath.Vec, p Particle, neighbors Neighbors) []Command {
	data := p.Data()
	if data == 0 {
		var newVal uint8
		for _, n := range neighbors {
			newVal = feedCodeForType(n)
			if newVal != 0 {
				break
			}
		}
		return []Command{{Kind: CmdMutate, Type: p.Type, Data: newVal}}
	}

	emit := typeForFeedCode(data)
	return []Command{
		{Kind: CmdAdd, Pos: gridmath.Vec{X: pos.X - 1, Y: pos.Y}, Type: emit},
		{Kind: CmdAdd, Pos: gridmath.Vec{X: pos.X + 1, Y: pos.Y}, Type: emit},
		{Kind: CmdAdd, Pos: gridmath.Vec{X: pos.X, Y: pos.Y - 1}, Type: emit},
		{Kind: CmdAdd, Pos: gridmath.Vec{X: pos.X, Y: pos.Y + 1}, Type: emit},
	}
}

func feedCodeForType(t Type) uint8 {
	switch t {
	case Water:
		return 1
	case Lava:
		return 2
	case Sand:
		return 3
	case Gravel:
		return 4
	case Steam:
		return 5
	default:
		return 0
	}
}

func typeForFeedCode(code uint8) Type {
	switch code {
	case 1:
		return Water
	case 2:
		return Lava
	case 3:
		return Sand
	case 4:
		return Gravel
	case 5:
		return Steam
	default:
		return Air
	}
}

// directionForCode maps a laser's stored travel direction (1=east, 2=south,
// 3=west, default=north; +Y points up) to a unit displacement.
func directionForCode(code uint8) gridmath.Vec {
	switch code {
	case 1:
		return gridmath.Vec{X: 1, Y: 0}
	case 2:
		return gridmath.Vec{X: 0, Y: -1}
	case 3:
		return gridmath.Vec{X: -1, Y: 0}
	default:
		return gridmath.Vec{X: 0, Y: 1}
	}
}

func laserBeamUpdate(_ gridmath.Vec, p Particle, _ Neighbors) []Command {
	movement := directionForCode(p.Data())
	return []Command{{Kind: CmdMoveOrDestroy, Path: []gridmath.Vec{movement}}}
}

func laserEmitterUpdate(pos gridmath.Vec, p Particle, _ Neighbors) []Command {
	dir := p.Data()
	movement := directionForCode(dir)
	return []Command{{
		Kind: CmdAdd,
		Pos:  pos.Add(movement),
		Type: LaserBeam,
		Data: dir,
	}}
}
