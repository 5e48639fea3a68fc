package tree

import "github.com/san-kum/gandalf/internal/particle"

// BuildTree rebuilds the tree over [0,n) particle indices from src
// (spec.md 4.C's BuildTree operation). Construction recurses top-down,
// splitting each cell on the longest axis of its bounding box at the
// (approximate) median via quickselect, so the expected cost is
// O(N log N) amortised.
func BuildTree(src Source, n int, p Params) *KDTree {
	t := &KDTree{Params: p, Order: make([]int, n), Cells: make([]Cell, 0, 2*n/p.Nleafmax+1)}
	for i := range t.Order {
		t.Order[i] = i
	}
	if n == 0 {
		t.Root = -1
		return t
	}
	t.Root = t.build(src, 0, n)
	return t
}

func (t *KDTree) build(src Source, lo, hi int) int {
	idx := len(t.Cells)
	t.Cells = append(t.Cells, Cell{IFirst: lo, ILast: hi - 1, C1: -1, C2: -1})

	boxMin, boxMax := boundingBox(src, t.Order[lo:hi])
	t.Cells[idx].BoxMin = boxMin
	t.Cells[idx].BoxMax = boxMax

	if hi-lo <= t.Params.Nleafmax {
		t.Cells[idx].CNext = idx + 1
		return idx
	}

	axis := longestAxis(boxMin, boxMax, t.Params.Dim)
	mid := (lo + hi) / 2
	quickSelectByAxis(src, t.Order, lo, hi, mid, axis)

	t.Cells[idx].Axis = axis
	c1 := t.build(src, lo, mid)
	c2 := t.build(src, mid, hi)
	t.Cells[idx].C1 = c1
	t.Cells[idx].C2 = c2
	t.Cells[idx].CNext = len(t.Cells) // one past the whole subtree, per the preorder cnext convention
	return idx
}

func boundingBox(src Source, order []int) (lo, hi particle.Vec) {
	lo = particle.Vec{1e300, 1e300, 1e300}
	hi = particle.Vec{-1e300, -1e300, -1e300}
	for _, i := range order {
		r := src.Pos(i)
		for k := 0; k < 3; k++ {
			if r[k] < lo[k] {
				lo[k] = r[k]
			}
			if r[k] > hi[k] {
				hi[k] = r[k]
			}
		}
	}
	return
}

func longestAxis(boxMin, boxMax particle.Vec, d int) int {
	best := 0
	bestSpan := -1.0
	for k := 0; k < d; k++ {
		span := boxMax[k] - boxMin[k]
		if span > bestSpan {
			bestSpan = span
			best = k
		}
	}
	return best
}

// quickSelectByAxis partitions order[lo:hi] in place (Hoare-style
// quickselect) so that order[mid] holds the element whose axis
// coordinate is the median, with every smaller coordinate to its left
// and every larger coordinate to its right.
func quickSelectByAxis(src Source, order []int, lo, hi, mid, axis int) {
	key := func(i int) float64 { return src.Pos(order[i])[axis] }

	for hi-lo > 1 {
		pivot := key((lo + hi) / 2)
		i, j := lo, hi-1
		for i <= j {
			for key(i) < pivot {
				i++
			}
			for key(j) > pivot {
				j--
			}
			if i <= j {
				order[i], order[j] = order[j], order[i]
				i++
				j--
			}
		}
		if mid <= j {
			hi = j + 1
		} else if mid >= i {
			lo = i
		} else {
			return
		}
	}
}
