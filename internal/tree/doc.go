// Package tree implements the KD-tree spatial index over particles
// (spec.md component C): top-down median-split construction, bottom-up
// moment stocking, gather/gather+ghost neighbour queries, and the
// Barnes-Hut gravity interaction-list classification. Particle order
// is stored as a permutation (internal/tree's Order slice) rather than
// by physically moving particle records, so the particle store itself
// never needs to know about the tree.
package tree
