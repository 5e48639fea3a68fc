package tree

import (
	"math"

	"github.com/san-kum/gandalf/internal/particle"
)

// StockTree refreshes every cell's mass, centre of mass, velocity,
// max smoothing length and critical opening radius without changing
// the tree's structure (spec.md 4.C's StockTree operation). Because
// construction numbers cells in preorder, every child has a strictly
// larger index than its parent, so a single reverse pass over Cells is
// a valid bottom-up (postorder-equivalent) stock.
func StockTree(t *KDTree, src Source, accel func(i int) particle.Vec) {
	if t.Root < 0 {
		return
	}
	for i := len(t.Cells) - 1; i >= 0; i-- {
		stockCell(t, src, i, accel)
	}
}

func stockCell(t *KDTree, src Source, idx int, accel func(i int) particle.Vec) {
	c := &t.Cells[idx]

	var mass float64
	var com, comv particle.Vec
	var hmax float64

	if c.IsLeaf() {
		for pos := c.IFirst; pos <= c.ILast; pos++ {
			i := t.Order[pos]
			m := src.Mass(i)
			r := src.Pos(i)
			v := src.Vel(i)
			mass += m
			for k := 0; k < t.Params.Dim; k++ {
				com[k] += m * r[k]
				comv[k] += m * v[k]
			}
			if h := src.H(i); h > hmax {
				hmax = h
			}
		}
	} else {
		c1, c2 := &t.Cells[c.C1], &t.Cells[c.C2]
		mass = c1.Mass + c2.Mass
		for k := 0; k < t.Params.Dim; k++ {
			com[k] = c1.Mass*c1.COM[k] + c2.Mass*c2.COM[k]
			comv[k] = c1.Mass*c1.COMV[k] + c2.Mass*c2.COMV[k]
		}
		if c1.HMax > c2.HMax {
			hmax = c1.HMax
		} else {
			hmax = c2.HMax
		}
	}

	if mass > 0 {
		for k := 0; k < t.Params.Dim; k++ {
			com[k] /= mass
			comv[k] /= mass
		}
	}

	c.Mass, c.COM, c.COMV, c.HMax = mass, com, comv, hmax

	cellSize := 0.0
	for k := 0; k < t.Params.Dim; k++ {
		span := c.BoxMax[k] - c.BoxMin[k]
		if span > cellSize {
			cellSize = span
		}
	}

	switch t.Params.MAC {
	case MACGadget:
		a := 0.0
		if accel != nil {
			av := accel(idx)
			for k := 0; k < t.Params.Dim; k++ {
				a += av[k] * av[k]
			}
			a = math.Sqrt(a)
		}
		if a <= 0 {
			a = 1.0
		}
		c.RCrit = math.Pow(a*cellSize*cellSize*cellSize*cellSize/t.Params.MacError, 0.25)
	default: // MACGeometric
		theta := t.Params.ThetaMax
		if theta <= 0 {
			theta = 0.5
		}
		c.RCrit = cellSize / theta
	}

	if t.QuadrupoleEnabled {
		stockQuadrupole(t, src, idx)
	}
}

// stockQuadrupole computes the cell's traceless quadrupole moment
// tensor (packed upper-triangular Qxx,Qxy,Qxz,Qyy,Qyz,Qzz) about its
// own COM. A leaf sums directly over its member particles; an internal
// cell combines its two children's already-stocked tensors via the
// parallel-axis shift to the parent's COM, so a Barnes-Hut walk that
// accepts an internal cell (the common case away from the leaves)
// still has a populated Quad to correct against, not just the
// monopole.
func stockQuadrupole(t *KDTree, src Source, idx int) {
	c := &t.Cells[idx]
	var q [6]float64

	addTerm := func(m, dx, dy, dz float64) {
		rSq := dx*dx + dy*dy + dz*dz
		q[0] += m * (3*dx*dx - rSq)
		q[1] += m * 3 * dx * dy
		q[2] += m * 3 * dx * dz
		q[3] += m * (3*dy*dy - rSq)
		q[4] += m * 3 * dy * dz
		q[5] += m * (3*dz*dz - rSq)
	}

	if c.IsLeaf() {
		for pos := c.IFirst; pos <= c.ILast; pos++ {
			i := t.Order[pos]
			r := src.Pos(i)
			addTerm(src.Mass(i), r[0]-c.COM[0], r[1]-c.COM[1], r[2]-c.COM[2])
		}
	} else {
		for _, child := range [2]*Cell{&t.Cells[c.C1], &t.Cells[c.C2]} {
			sx := child.COM[0] - c.COM[0]
			sy := child.COM[1] - c.COM[1]
			sz := child.COM[2] - c.COM[2]
			for k := range q {
				q[k] += child.Quad[k]
			}
			addTerm(child.Mass, sx, sy, sz)
		}
	}
	c.Quad = q
}
