// Package sph implements the smoothed-particle-hydrodynamics engine:
// the coupled density/smoothing-length solve, pressure and artificial-
// viscosity force accumulation, and the tree-walked self-gravity term
// (spec.md component E). Engine holds no per-call state; everything it
// needs beyond a particle.GasStore and a tree.KDTree is passed in or
// fixed at construction.
package sph
