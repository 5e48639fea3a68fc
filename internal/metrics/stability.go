package metrics

import "github.com/san-kum/gandalf/internal/particle"

// BoundaryViolation tracks the fraction of Observe calls at which no
// active gas particle was found outside the configured domain box (1.0
// while every call has been clean) -
// useful for catching a ghost/boundary-condition regression long
// before it shows up as an energy-conservation failure.
type BoundaryViolation struct {
	name       string
	boxMin     particle.Vec
	boxMax     particle.Vec
	dim        int
	violations int
	samples    int
}

func NewBoundaryViolation(boxMin, boxMax particle.Vec, dim int) *BoundaryViolation {
	return &BoundaryViolation{name: "boundary_violation", boxMin: boxMin, boxMax: boxMax, dim: dim}
}

func (b *BoundaryViolation) Name() string { return b.name }

func (b *BoundaryViolation) Observe(gas *particle.GasStore) {
	b.samples++
	violated := false
	gas.ForEachActive(func(i int, g *particle.Gas) {
		if violated {
			return
		}
		for k := 0; k < b.dim; k++ {
			if g.R[k] < b.boxMin[k] || g.R[k] > b.boxMax[k] {
				violated = true
				return
			}
		}
	})
	if violated {
		b.violations++
	}
}

func (b *BoundaryViolation) Value() float64 {
	if b.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(b.violations)/float64(b.samples)
}

func (b *BoundaryViolation) Reset() {
	b.violations, b.samples = 0, 0
}
