package tree

import "github.com/san-kum/gandalf/internal/particle"

// Source is the minimal read-only view of a particle store the tree
// needs. *particle.GasStore satisfies it; tests can supply a fake.
type Source interface {
	Len() int
	Pos(i int) particle.Vec
	Vel(i int) particle.Vec
	Mass(i int) float64
	H(i int) float64
}

// MAC selects the multipole-acceptance criterion used when stocking
// each cell's critical opening radius (spec.md 4.C).
type MAC int

const (
	MACGeometric MAC = iota
	MACGadget
)

// Params configures tree construction and stocking.
type Params struct {
	Dim      int
	Nleafmax int
	ThetaMax float64 // geometric-MAC opening angle
	MacError float64 // gadget-MAC acceptable relative force error
	MAC      MAC
}

func DefaultParams(dim int) Params {
	return Params{
		Dim:      dim,
		Nleafmax: 8,
		ThetaMax: 0.5,
		MacError: 0.01,
		MAC:      MACGeometric,
	}
}

// Cell is one KD-tree node: spec.md section 3's KD-cell record.
type Cell struct {
	IFirst, ILast int // inclusive span into Order
	C1, C2        int // child cell indices, -1 for a leaf
	CNext         int // index of the next cell after this subtree in the traversal
	Axis          int

	BoxMin, BoxMax particle.Vec

	Mass  float64
	COM   particle.Vec
	COMV  particle.Vec
	HMax  float64
	RCrit float64

	// Quad holds the upper-triangular quadrupole moment components
	// (Qxx,Qxy,Qxz,Qyy,Qyz,Qzz); only populated when QuadrupoleEnabled.
	Quad [6]float64
}

func (c *Cell) IsLeaf() bool { return c.C1 < 0 }

// KDTree is the spatial index over the first n particles of a Source,
// n as passed to BuildTree.
type KDTree struct {
	Params            Params
	Order             []int // permutation of particle indices; leaves own contiguous spans
	Cells             []Cell
	Root              int
	QuadrupoleEnabled bool
}
