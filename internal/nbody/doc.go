// Package nbody implements the 4th-order Hermite predictor-evaluator-
// corrector integrator used to advance stars and bound subsystems
// (spec.md component F). Scratch buffers are struct fields sized once
// and reused across steps, the same ensureScratch-by-length idiom the
// teacher's RK4/Verlet integrators use for their state-vector scratch.
package nbody
