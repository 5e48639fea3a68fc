package ghost

import "github.com/san-kum/gandalf/internal/particle"

// Kind names the boundary condition applied at one face of the domain
// box along one axis (spec.md 4.D).
type Kind int

const (
	Open     Kind = iota // no ghosts generated at this face
	Periodic             // wrap to the opposite face
	Mirror                // reflect position and velocity
	Wall                  // reflect position and reverse the normal velocity component
)

// AxisBoundary names the condition at each end of one axis.
type AxisBoundary struct {
	Lo, Hi Kind
}

// Box is the rectangular domain a Manager generates ghosts against.
type Box struct {
	Min, Max particle.Vec
}

func (b Box) Size(axis int) float64 { return b.Max[axis] - b.Min[axis] }

// Manager owns the boundary configuration and MaxGhosts, the cap on the
// store's total size (real particles plus ghosts) beyond which ghost
// creation signals overflow.
type Manager struct {
	Box             Box
	Boundary        [3]AxisBoundary
	KernelRangeMult float64 // ghosts created within KernelRangeMult*h of a face
	MaxGhosts       int
}

func NewManager(dim int, box Box, boundary [3]AxisBoundary, kernelRangeMult float64, maxGhosts int) *Manager {
	return &Manager{Box: box, Boundary: boundary, KernelRangeMult: kernelRangeMult, MaxGhosts: maxGhosts}
}
