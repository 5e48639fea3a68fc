// Package driver wires together the particle stores, tree, SPH engine,
// ghost manager, N-body integrator, NN tree and sink manager into the
// ten-stage block-timestep loop spec.md 4.I describes. MainLoop is the
// generalisation of sim.Simulator.Run's step loop (ctx cancellation
// check, per-step validation, metrics observe/value) to that ten-stage
// flow.
package driver
