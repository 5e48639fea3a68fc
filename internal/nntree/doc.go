// Package nntree builds the nearest-neighbour binary tree used to
// detect bound subsystems and binaries among free stars (spec.md
// component G): agglomerative mutual-nearest-neighbour pairing into a
// 2N-1-node hierarchy, then a pass that promotes sufficiently bound
// subtrees into system particles. Nodes are held in a dense slice and
// referenced by stable int index, the same arena-plus-stable-index
// convention internal/particle and internal/tree use.
package nntree
