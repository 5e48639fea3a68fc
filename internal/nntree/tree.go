package nntree

import (
	"math"

	"github.com/san-kum/gandalf/internal/particle"
)

// Node is one binary-tree node: either a leaf wrapping a particle.StarStore
// index, or an internal node joining two children (spec.md 4.G).
type Node struct {
	Left, Right int // child node indices, -1 for a leaf
	StarIndex   int // valid only when this is a leaf (Left<0 && Right<0)
	Parent      int

	COM   particle.Vec
	COMV  particle.Vec
	Mass  float64
	R, V  particle.Vec // alias of COM/COMV, kept for readability at call sites

	GPEInternal float64 // accumulated internal gravitational PE, set by BuildSubSystems
	NComp       int
}

func (n *Node) IsLeaf() bool { return n.Left < 0 && n.Right < 0 }

// Tree is the agglomerative mutual-nearest-neighbour hierarchy over a
// fixed set of free stars: exactly 2*len(members)-1 nodes once built.
type Tree struct {
	Nodes []Node
	Root  int
	Dim   int
}

// Build constructs the tree over the given star indices by repeated
// mutual-nearest-neighbour pairing: each round finds every node whose
// nearest neighbour's nearest neighbour is itself and merges those
// pairs, scanning the O(n^2) distance matrix over the currently-free
// node set each round (spec.md 4.G).
func Build(store *particle.StarStore, members []int, dim int) *Tree {
	t := &Tree{Dim: dim}
	free := make([]int, len(members))
	for i, idx := range members {
		n := Node{Left: -1, Right: -1, StarIndex: idx, Parent: -1}
		st := store.Get(idx)
		n.COM, n.COMV, n.Mass = st.R, st.V, st.Mass
		n.R, n.V = n.COM, n.COMV
		n.NComp = 1
		t.Nodes = append(t.Nodes, n)
		free[i] = i
	}

	for len(free) > 1 {
		nn := nearestNeighbours(t, free, dim)
		merged := make(map[int]bool)
		var nextFree []int

		for _, a := range free {
			if merged[a] {
				continue
			}
			b := nn[a]
			if b < 0 || merged[b] || nn[b] != a {
				continue // not a mutual pair this round
			}
			idx := t.merge(a, b)
			merged[a], merged[b] = true, true
			nextFree = append(nextFree, idx)
		}
		for _, a := range free {
			if !merged[a] {
				nextFree = append(nextFree, a)
			}
		}
		if len(nextFree) == len(free) {
			// no mutual pair found this round (degenerate/coincident
			// configuration); force-merge the single closest pair to
			// guarantee termination.
			a, b := closestPair(t, free, dim)
			if a < 0 {
				break
			}
			idx := t.merge(a, b)
			nextFree = nextFree[:0]
			for _, f := range free {
				if f != a && f != b {
					nextFree = append(nextFree, f)
				}
			}
			nextFree = append(nextFree, idx)
		}
		free = nextFree
	}

	if len(free) == 1 {
		t.Root = free[0]
	} else if len(t.Nodes) > 0 {
		t.Root = len(t.Nodes) - 1
	} else {
		t.Root = -1
	}
	return t
}

func nearestNeighbours(t *Tree, free []int, dim int) map[int]int {
	nn := make(map[int]int, len(free))
	for _, a := range free {
		best, bestD := -1, math.Inf(1)
		for _, b := range free {
			if a == b {
				continue
			}
			d := nodeDistSq(t, a, b, dim)
			if d < bestD {
				bestD, best = d, b
			}
		}
		nn[a] = best
	}
	return nn
}

func closestPair(t *Tree, free []int, dim int) (int, int) {
	bestA, bestB, bestD := -1, -1, math.Inf(1)
	for _, a := range free {
		for _, b := range free {
			if a >= b {
				continue
			}
			d := nodeDistSq(t, a, b, dim)
			if d < bestD {
				bestD, bestA, bestB = d, a, b
			}
		}
	}
	return bestA, bestB
}

func nodeDistSq(t *Tree, a, b, dim int) float64 {
	na, nb := &t.Nodes[a], &t.Nodes[b]
	s := 0.0
	for k := 0; k < dim; k++ {
		dx := na.COM[k] - nb.COM[k]
		s += dx * dx
	}
	return s
}

// merge creates a new internal node joining nodes a and b and appends
// it to the arena, returning its index.
func (t *Tree) merge(a, b int) int {
	na, nb := &t.Nodes[a], &t.Nodes[b]
	idx := len(t.Nodes)

	var com, comv particle.Vec
	mass := na.Mass + nb.Mass
	for k := 0; k < t.Dim; k++ {
		com[k] = (na.Mass*na.COM[k] + nb.Mass*nb.COM[k]) / mass
		comv[k] = (na.Mass*na.COMV[k] + nb.Mass*nb.COMV[k]) / mass
	}

	n := Node{
		Left: a, Right: b, StarIndex: -1, Parent: -1,
		COM: com, COMV: comv, Mass: mass,
		NComp: na.NComp + nb.NComp,
	}
	n.R, n.V = n.COM, n.COMV
	t.Nodes = append(t.Nodes, n)
	t.Nodes[a].Parent = idx
	t.Nodes[b].Parent = idx
	return idx
}
