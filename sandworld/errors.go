package sandworld

import "sandcore/logging"

// logOutOfRange records a programmer error: an access outside a chunk's
// [0, ChunkSize) local coordinate space. The caller still gets a usable
// zero value (Air); per the engine's error-handling design there are no
// fatal errors in the simulation core.
func logOutOfRange(op string, x, y int32) {
	logging.Warnf("%s: local coordinate (%d, %d) out of range [0, %d)", op, x, y, ChunkSize)
}
