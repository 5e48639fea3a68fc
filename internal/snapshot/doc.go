// Package snapshot reads and writes the ASCII particle-dump format
// spec.md §6 names: fixed header lines (time, dimensionality, gas and
// star counts) followed by one row per gas particle and one row per
// star/system particle, grounded on storage.Store's CSV-with-header
// round-trip idiom, adapted to a fixed column layout instead of a
// dynamically sized x0..xn header since GANDALF's particle record
// shape is fixed rather than an arbitrary state vector.
package snapshot
