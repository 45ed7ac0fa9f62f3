package particle

import (
	"image/color"
	"math/rand"

	"sandcore/gridmath"
)

// MovePreferences returns the ordered tiers of candidate displacement
// vectors a particle of type t will try to move along, most preferred
// tier first. Within a tier the engine tests every candidate and picks one
// of those that pass at random, going on to the next tier only when none
// pass (see sandworld's movement resolution); an empty result means the
// type never moves on its own.
func MovePreferences(t Type) [][]gridmath.Vec {
	switch t {
	case Sand:
		return [][]gridmath.Vec{
			{{0, -1}, {0, -2}},
			{{-1, -1}, {1, -1}, {2, -1}, {-2, -1}},
		}
	case Gravel:
		return [][]gridmath.Vec{
			{{0, -4}, {0, -2}, {0, -3}},
			{{0, -1}},
			{{1, -1}, {-1, -1}},
		}
	case Water:
		return [][]gridmath.Vec{
			{{1, -2}, {-1, -2}, {0, -2}, {1, -1}, {-1, -1}, {0, -1}},
			{{1, 0}, {-1, 0}, {2, -1}, {-2, -1}, {2, 0}, {-2, 0}, {3, -1}, {-3, -1}},
			{{3, 0}, {-3, 0}, {5, -1}, {-5, -1}, {5, 0}, {-5, 0}, {5, -1}, {-5, -1}},
		}
	case Steam:
		return [][]gridmath.Vec{
			{{1, 2}, {-1, 2}, {0, 2}, {1, 1}, {-1, 1}, {0, 1}},
			{{1, 0}, {-1, 0}, {2, 0}, {-2, 0}, {2, 1}, {-2, 1}},
			{{1, -1}, {-1, -1}},
		}
	case Lava, MoltenGlass:
		return [][]gridmath.Vec{
			{{1, -2}, {-1, -2}, {0, -2}, {0, -1}},
			{{1, -1}, {-1, -1}, {1, 0}, {-1, 0}, {2, -1}, {-2, -1}, {2, 0}, {-2, 0}, {3, -1}, {-3, -1}},
		}
	default:
		return nil
	}
}

// CanReplace reports whether a particle of type t may move into a cell
// held by a particle of type victim; the two then swap places.
func CanReplace(t, victim Type) bool {
	switch t {
	case Sand:
		return victim == Water || victim == Lava
	case Gravel:
		return victim == Water || victim == Steam || victim == Lava
	case Steam:
		return victim == Water || victim == Lava
	case Lava:
		return victim == Water || victim == Steam
	case MoltenGlass:
		return victim == Water || victim == Steam || victim == Lava
	case LaserBeam:
		return victim == Water || victim == Steam
	default:
		return false
	}
}

// ColorFor returns the display color associated with a particle type.
func ColorFor(t Type) color.RGBA {
	switch t {
	case Sand:
		return color.RGBA{0xdc, 0xcd, 0x79, 0xff}
	case Water:
		return color.RGBA{0x6d, 0x95, 0xc9, 0xff}
	case Gravel:
		return color.RGBA{0xa9, 0xa3, 0xb5, 0xff}
	case Stone:
		return color.RGBA{0x6b, 0x6f, 0x75, 0xff}
	case Steam:
		return color.RGBA{0xe6, 0xec, 0xf0, 0xff}
	case Lava:
		return color.RGBA{0xef, 0x70, 0x15, 0xff}
	case MoltenGlass:
		return color.RGBA{0xf0, 0x95, 0x16, 0xff}
	case Glass:
		return color.RGBA{0x31, 0x60, 0x5e, 0xff}
	case Ice:
		return color.RGBA{0xbf, 0xdb, 0xff, 0xff}
	case Air:
		return color.RGBA{0x1e, 0x1e, 0x1e, 0xff}
	case Source:
		return color.RGBA{0xf7, 0xdf, 0x00, 0xff}
	case LaserBeam:
		return color.RGBA{0xff, 0x11, 0x11, 0xff}
	case LaserEmitter:
		return color.RGBA{0xff, 0xee, 0xee, 0xff}
	case Dirty:
		return color.RGBA{0xff, 0x00, 0xff, 0xff}
	case RegionBoundary:
		return color.RGBA{0xff, 0xff, 0x00, 0xff}
	default:
		return color.RGBA{0x00, 0x00, 0x00, 0xff}
	}
}

// HeatFor returns the baseline temperature contribution of a particle type.
func HeatFor(t Type) int32 {
	switch t {
	case Ice:
		return -8
	case Water:
		return -3
	case Lava, MoltenGlass:
		return 128
	case Glass:
		return 1
	case Steam:
		return 16
	case LaserBeam:
		return 1024
	case LaserEmitter:
		return 2048
	default:
		return 0
	}
}

// ViscosityFor returns the movement resistance of a particle type at the
// given local temperature. Lava and molten glass thin out as they heat up.
func ViscosityFor(t Type, temp int32) int32 {
	switch t {
	case Water:
		return 2
	case Lava:
		return gridmath.RemapClamped(temp, 196, 320, 3, 1)
	case MoltenGlass:
		return gridmath.RemapClamped(temp, 196, 400, 4, 1)
	case Steam:
		return -1
	default:
		return 0
	}
}

// StateChange describes the optional melt and freeze transitions of a
// particle type: the temperature threshold at which the transition becomes
// possible, the type it turns into, and the base per-tick chance once the
// threshold is crossed.
type StateChange struct {
	MeltTemp   int32
	MeltType   Type
	MeltChance float64
	HasMelt    bool

	FreezeTemp   int32
	FreezeType   Type
	FreezeChance float64
	HasFreeze    bool
}

// StateChangeFor returns the melt/freeze transition rule for a type.
func StateChangeFor(t Type) StateChange {
	switch t {
	case Ice:
		return StateChange{HasMelt: true, MeltTemp: -28, MeltType: Water, MeltChance: 0.5}
	case Water:
		return StateChange{
			HasMelt: true, MeltTemp: 100, MeltType: Steam, MeltChance: 0.15,
			HasFreeze: true, FreezeTemp: -40, FreezeType: Ice, FreezeChance: 0.15,
		}
	case Steam:
		return StateChange{HasFreeze: true, FreezeTemp: 150, FreezeType: Water, FreezeChance: 0.25}
	case Stone:
		return StateChange{HasMelt: true, MeltTemp: 700, MeltType: Lava, MeltChance: 0.15}
	case Gravel:
		return StateChange{HasMelt: true, MeltTemp: 680, MeltType: Lava, MeltChance: 0.2}
	case Sand:
		return StateChange{HasMelt: true, MeltTemp: 650, MeltType: MoltenGlass, MeltChance: 0.2}
	case Lava:
		return StateChange{HasFreeze: true, FreezeTemp: 516, FreezeType: Stone, FreezeChance: 0.25}
	case MoltenGlass:
		return StateChange{HasFreeze: true, FreezeTemp: 500, FreezeType: Glass, FreezeChance: 0.25}
	case Glass:
		return StateChange{HasMelt: true, MeltTemp: 480, MeltType: MoltenGlass, MeltChance: 0.1}
	default:
		return StateChange{}
	}
}

// IsLonely reports whether a type breaks apart when it has no solid (Stone
// or Glass) neighbor holding it together.
func IsLonely(t Type) bool {
	return t == Stone || t == Glass
}

// LonelyBreakType returns what a lonely particle of type t crumbles into.
func LonelyBreakType(t Type) Type {
	switch t {
	case Stone:
		return Gravel
	case Glass:
		return Sand
	default:
		return Sand
	}
}

// TryStateChange evaluates a type's melt/freeze rule against the local
// temperature and returns the resulting type and true if the transition
// fires this tick.
func TryStateChange(t Type, localTemp int32, rng *rand.Rand) (Type, bool) {
	sc := StateChangeFor(t)
	if sc.HasMelt && localTemp >= sc.MeltTemp {
		chance := scaledChance(sc.MeltChance, localTemp-sc.MeltTemp, sc.MeltTemp)
		if rng.Float64() < chance {
			return sc.MeltType, true
		}
	}
	if sc.HasFreeze && localTemp <= sc.FreezeTemp {
		chance := scaledChance(sc.FreezeChance, sc.FreezeTemp-localTemp, sc.FreezeTemp)
		if rng.Float64() < chance {
			return sc.FreezeType, true
		}
	}
	return Air, false
}

// scaledChance mirrors the original's base_chance * (delta / |threshold|),
// clamped to [0, 1]: the further past the melt/freeze threshold the local
// temperature is, the more likely the transition fires this tick.
func scaledChance(baseChance float64, delta, threshold int32) float64 {
	denom := threshold
	if denom < 0 {
		denom = -denom
	}
	if denom == 0 {
		return clamp01(baseChance)
	}
	return clamp01(baseChance * (float64(delta) / float64(denom)))
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
