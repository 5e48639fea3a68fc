// Package compute provides the pluggable execution backend behind
// GANDALF's embarrassingly-parallel phases: density/h solve, hydro
// forces, gravity tree walk, and N-body force evaluation.
//
// The package automatically selects the best available backend:
//
//   - CUDA: GPU-accelerated gravity force evaluation (build tag "cuda")
//   - CPU: goroutine pool, the default
//
// # GPU acceleration
//
// Gravity evaluation for large N-body systems can use the GPU when
// built with the cuda tag:
//
//	backend := compute.GetBackend()
//	accel := backend.GravityForces(positions, masses, d, g, softening)
//
// Build with CUDA support:
//
//	go build -tags cuda ./...
//
// AutoSelectBackend, which runs at package init, picks the cuda backend
// when the binary was built with the cuda tag and a device is present,
// and the CPU backend otherwise. SetBackend replaces the choice.
package compute
