// Package metrics implements the diagnostic observers spec.md §8's
// testable properties are checked against: energy and momentum drift,
// boundary-violation rate, and sink accretion rate. Each observer is a
// small stateful accumulator with Observe/Value/Reset, the same shape
// as the teacher's metrics.Energy/Stability/ControlEffort.
package metrics
