package tree

// InteractionLists splits the cells/particles relevant to a gravity
// source location into a direct-summation particle list and an
// accepted-multipole cell list (spec.md 4.C's Barnes-Hut classification).
type InteractionLists struct {
	Direct    []int // particle indices needing direct summation
	Multipole []int // cell indices whose monopole (+quadrupole) is accepted
}

// ComputeGravityInteractionList walks the tree from centre, classifying
// each encountered cell as accepted-multipole (when the MAC test
// passes), opened into its children, or - at a leaf that fails the MAC
// test - expanded into direct particle-particle terms.
func (t *KDTree) ComputeGravityInteractionList(centre [3]float64, lists *InteractionLists) {
	lists.Direct = lists.Direct[:0]
	lists.Multipole = lists.Multipole[:0]
	if t.Root < 0 {
		return
	}
	c := t.Root
	for c < len(t.Cells) {
		cell := &t.Cells[c]

		distSq := 0.0
		for k := 0; k < t.Params.Dim; k++ {
			dx := cell.COM[k] - centre[k]
			distSq += dx * dx
		}

		if distSq >= cell.RCrit*cell.RCrit {
			lists.Multipole = append(lists.Multipole, c)
			c = cell.CNext
			continue
		}

		if cell.IsLeaf() {
			for pos := cell.IFirst; pos <= cell.ILast; pos++ {
				lists.Direct = append(lists.Direct, t.Order[pos])
			}
			c = cell.CNext
			continue
		}

		c = cell.C1
	}
}
