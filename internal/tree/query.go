package tree

import "github.com/san-kum/gandalf/internal/core"

// boxOverlapsSphere reports whether the cell's AABB intersects a sphere
// of radius r centred on centre, over the first d axes.
func boxOverlapsSphere(c *Cell, centre [3]float64, r float64, d int) bool {
	distSq := 0.0
	for k := 0; k < d; k++ {
		v := centre[k]
		if v < c.BoxMin[k] {
			distSq += (c.BoxMin[k] - v) * (c.BoxMin[k] - v)
		} else if v > c.BoxMax[k] {
			distSq += (v - c.BoxMax[k]) * (v - c.BoxMax[k])
		}
	}
	return distSq <= r*r
}

// ComputeGatherNeighbourList fills out with the indices of every
// particle in src within radius r of centre, walking the tree with the
// cnext-pruned traversal (spec.md 4.C). It returns core.ErrCapacityExceeded
// (via a Diagnostic) without truncating silently if out is too small.
func (t *KDTree) ComputeGatherNeighbourList(src Source, centre [3]float64, r float64, out []int) (int, error) {
	if t.Root < 0 {
		return 0, nil
	}
	n := 0
	c := t.Root
	for c < len(t.Cells) {
		cell := &t.Cells[c]
		if !boxOverlapsSphere(cell, centre, r, t.Params.Dim) {
			c = cell.CNext
			continue
		}
		if cell.IsLeaf() {
			for pos := cell.IFirst; pos <= cell.ILast; pos++ {
				i := t.Order[pos]
				p := src.Pos(i)
				distSq := 0.0
				for k := 0; k < t.Params.Dim; k++ {
					dx := p[k] - centre[k]
					distSq += dx * dx
				}
				if distSq <= r*r {
					if n >= len(out) {
						return n, core.NewDiagnosticValue(core.ErrCapacityExceeded, "tree.ComputeGatherNeighbourList", float64(len(out)))
					}
					out[n] = i
					n++
				}
			}
			c = cell.CNext
			continue
		}
		c = cell.C1
	}
	return n, nil
}

// ComputeNeighbourAndGhostList is ComputeGatherNeighbourList with the
// radius given as hMax*kernelRange; callers pass their own h as hMax.
// It returns only particles the tree indexes, so ghosts are found only
// when the n passed to BuildTree covers their indices; MainLoop builds
// the tree over the real particles alone.
func (t *KDTree) ComputeNeighbourAndGhostList(src Source, centre [3]float64, hMax float64, kernelRange float64, out []int) (int, error) {
	return t.ComputeGatherNeighbourList(src, centre, hMax*kernelRange, out)
}
