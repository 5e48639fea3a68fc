// Package ic builds the initial particle.GasStore/particle.StarStore
// pairs for the six named scenarios config.Presets covers, the
// initial-condition-constructor idiom models.NewDoublePendulum and its
// siblings use (a plain New<Scenario> function returning a ready-to-run
// value from a handful of physical parameters) generalized from a
// single state vector to the two particle stores GANDALF integrates.
package ic
