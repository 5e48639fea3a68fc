// Package kernel provides the pure-function SPH smoothing kernels and
// equation-of-state evaluators named in spec.md component B. Every
// type here is a value constructed once from the run's parameters;
// none carries hidden mutable state.
package kernel
