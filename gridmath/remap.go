package gridmath

// Remap linearly maps val from the range [fromLow, fromHigh] onto
// [toLow, toHigh], using truncating integer arithmetic throughout.
func Remap(val, fromLow, fromHigh, toLow, toHigh int32) int32 {
	return ((val-fromLow)*(toHigh-toLow))/(fromHigh-fromLow) + toLow
}

// RemapClamped is Remap with val first clamped to [fromLow, fromHigh], so
// the result always lands in [toLow, toHigh].
func RemapClamped(val, fromLow, fromHigh, toLow, toHigh int32) int32 {
	return Remap(clamp32(val, fromLow, fromHigh), fromLow, fromHigh, toLow, toHigh)
}

func clamp32(v, lo, hi int32) int32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
