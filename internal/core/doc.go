// Package core provides the ambient primitives shared by every GANDALF
// subsystem: the simulation context (dimension, RNG, wall-clock deadline),
// the error taxonomy from the error-handling design, and a chunked
// parallel-for helper used by the embarrassingly-parallel phases.
//
// # Thread Safety
//
// Context is read-only after construction and safe for concurrent use.
// Nothing in this package retains package-level mutable state.
package core
