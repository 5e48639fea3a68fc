// Package sink implements sink-particle seeding and accretion (spec.md
// component H): density-maximum detection at tree-build steps, and a
// gather-neighbour accretion pass that reuses internal/tree's
// neighbour-search machinery rather than duplicating it.
package sink
