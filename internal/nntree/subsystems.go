package nntree

import (
	"math"

	"github.com/san-kum/gandalf/internal/particle"
)

// BinaryRecord is emitted whenever a promoted node has exactly two
// leaf components: the semi-major axis and specific orbital energy of
// the pair (spec.md 4.G).
type BinaryRecord struct {
	NodeIndex int
	StarA     int     // StarStore index of the first component
	StarB     int     // StarStore index of the second component
	Semimajor float64
	Energy    float64 // per unit reduced mass, negative for a bound orbit
}

// BuildSubSystems walks the tree in construction order (leaves first,
// since merge always appends after its children), accumulating each
// node's internal gravitational potential energy by direct summation
// over its two children's masses and separation, and promotes any node
// whose internal PE dominates its total PE closely enough - and whose
// component count is within Ncompmax - into a system particle in dst,
// replacing its two children with a single NBodyRef{RefSystem,...}
// (spec.md 4.G). Binary records are emitted for every promoted node
// with exactly two leaf components.
func BuildSubSystems(t *Tree, store *particle.StarStore, dst *particle.StarStore, gravity, gpeFrac float64, ncompMax int) []BinaryRecord {
	var records []BinaryRecord
	promoted := make(map[int]int) // node index -> StarStore index in dst

	for i := range t.Nodes {
		n := &t.Nodes[i]
		if n.IsLeaf() {
			continue
		}

		left, right := &t.Nodes[n.Left], &t.Nodes[n.Right]
		sep := nodeSeparation(left, right, t.Dim)
		if sep <= 0 {
			continue
		}

		pairPE := -gravity * left.Mass * right.Mass / sep
		n.GPEInternal = left.GPEInternal + right.GPEInternal + pairPE

		totalPE := n.GPEInternal
		if totalPE == 0 {
			continue
		}

		if math.Abs(pairPE/totalPE) < gpeFrac || n.NComp > ncompMax {
			continue
		}

		children := collectRefs(t, store, n.Left, promoted)
		children = append(children, collectRefs(t, store, n.Right, promoted)...)

		sys := particle.Star{
			R: n.COM, V: n.COMV, Mass: n.Mass,
			Children: children, NComp: n.NComp,
		}
		sys.DtInternal = math.Sqrt(sep * sep * sep / (gravity * n.Mass))
		idx := dst.Append(sys)
		dst.Get(idx).NodeID = i
		promoted[i] = idx

		if n.NComp == 2 && left.IsLeaf() && right.IsLeaf() {
			var dvSq float64
			for k := 0; k < t.Dim; k++ {
				dv := left.COMV[k] - right.COMV[k]
				dvSq += dv * dv
			}
			records = append(records, BinaryRecord{
				NodeIndex: i,
				StarA:     left.StarIndex,
				StarB:     right.StarIndex,
				Semimajor: semimajorAxis(store, left.StarIndex, right.StarIndex, gravity, t.Dim),
				Energy:    0.5*dvSq - gravity*n.Mass/sep,
			})
		}
	}
	return records
}

// collectRefs returns the NBodyRef for node idx: RefSystem if it (or an
// ancestor promotion already covers it) was promoted, RefStar if it is
// a leaf, or - for an internal node that did not itself qualify for
// promotion - the concatenation of both children's refs.
func collectRefs(t *Tree, store *particle.StarStore, idx int, promoted map[int]int) []particle.NBodyRef {
	if sysIdx, ok := promoted[idx]; ok {
		return []particle.NBodyRef{{Kind: particle.RefSystem, Index: sysIdx}}
	}
	n := &t.Nodes[idx]
	if n.IsLeaf() {
		return []particle.NBodyRef{{Kind: particle.RefStar, Index: n.StarIndex}}
	}
	refs := collectRefs(t, store, n.Left, promoted)
	return append(refs, collectRefs(t, store, n.Right, promoted)...)
}

func nodeSeparation(a, b *Node, dim int) float64 {
	s := 0.0
	for k := 0; k < dim; k++ {
		dx := a.COM[k] - b.COM[k]
		s += dx * dx
	}
	return math.Sqrt(s)
}

func semimajorAxis(store *particle.StarStore, i, j int, gravity float64, dim int) float64 {
	a, b := store.Get(i), store.Get(j)
	var rSq, vRelSq float64
	for k := 0; k < dim; k++ {
		dr := a.R[k] - b.R[k]
		dv := a.V[k] - b.V[k]
		rSq += dr * dr
		vRelSq += dv * dv
	}
	r := math.Sqrt(rSq)
	mu := gravity * (a.Mass + b.Mass)
	inv2a := 2.0/r - vRelSq/mu
	if inv2a <= 0 {
		return math.Inf(1) // unbound
	}
	return 1.0 / inv2a
}

// Perturbers collects every leaf star in sister subtrees along the path
// from node idx up to the tree root - the set of bodies close enough
// in the hierarchy to meaningfully perturb the subsystem rooted at idx
// but not already counted among its own members (spec.md 4.F/4.G).
func Perturbers(t *Tree, idx int) []particle.NBodyRef {
	var refs []particle.NBodyRef
	node := idx
	for node != t.Root && t.Nodes[node].Parent >= 0 {
		parent := t.Nodes[node].Parent
		sibling := t.Nodes[parent].Left
		if sibling == node {
			sibling = t.Nodes[parent].Right
		}
		refs = append(refs, leafRefs(t, sibling)...)
		node = parent
	}
	return refs
}

func leafRefs(t *Tree, idx int) []particle.NBodyRef {
	n := &t.Nodes[idx]
	if n.IsLeaf() {
		return []particle.NBodyRef{{Kind: particle.RefStar, Index: n.StarIndex}}
	}
	refs := leafRefs(t, n.Left)
	return append(refs, leafRefs(t, n.Right)...)
}
