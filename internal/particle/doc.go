// Package particle is the dense, struct-of-fields particle store for
// gas and star/system records (spec.md section 3 and component A).
// Indices are stable across a run except at explicit compaction
// points; nothing else in GANDALF holds a particle by pointer.
package particle
