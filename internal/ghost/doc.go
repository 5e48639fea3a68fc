// Package ghost creates and refreshes the periodic/mirror/wall boundary
// images a simulation domain needs so that SPH neighbour searches and
// density sums near a boundary see a continuous fluid (spec.md
// component D). Ghosts are regenerated in full at every tree-rebuild
// step: CreateGhosts clears the previous set and walks the real
// particles axis by axis, each pass rescanning the ghosts the previous
// pass produced so that corner/edge images appear.
package ghost
