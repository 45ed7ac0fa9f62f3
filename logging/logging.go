// Package logging is a thin wrapper over the standard log package, giving
// the simulation core one place to route programmer-error diagnostics
// (out-of-range cell access, neighbor-link inconsistencies) without ever
// turning them into returned errors.
package logging

import "log"

// Warnf logs a non-fatal diagnostic. The core never fails on these; they
// exist so a release build can be traced back to a caller bug without
// panicking mid-simulation.
func Warnf(format string, args ...any) {
	log.Printf("[sandcore] "+format, args...)
}
