// Package radiation provides radiative-feedback collaborators (spec.md
// 4.J): a no-op default and a coarse ionisation-front estimator, the
// same narrow-interface-plus-variants idiom as internal/control.
package radiation

import (
	"github.com/san-kum/gandalf/internal/particle"
)

// Field updates gas temperature/ionisation state in place ahead of the
// next EOS evaluation.
type Field interface {
	UpdateRadiationField(gas []particle.Gas, sources []particle.Vec)
}

// NoRadiation leaves every particle's thermal state untouched.
type NoRadiation struct{}

func (NoRadiation) UpdateRadiationField(gas []particle.Gas, sources []particle.Vec) {}

// IonisationFront applies a coarse Strömgren-radius estimate around
// each source: particles within the front are flagged ionised (their
// temperature floor raised via U), particles outside are left alone.
type IonisationFront struct {
	Dim        int
	StromgrenR float64
	IonisedU   float64
}

func (f IonisationFront) UpdateRadiationField(gas []particle.Gas, sources []particle.Vec) {
	for i := range gas {
		g := &gas[i]
		if g.Type != particle.TypeGas {
			continue
		}
		for _, src := range sources {
			if f.withinFront(g.R, src) && g.U < f.IonisedU {
				g.U = f.IonisedU
			}
		}
	}
}

func (f IonisationFront) withinFront(r, src particle.Vec) bool {
	distSq := 0.0
	for k := 0; k < f.Dim; k++ {
		dx := r[k] - src[k]
		distSq += dx * dx
	}
	return distSq <= f.StromgrenR*f.StromgrenR
}

func New(kind string, dim int, stromgrenR, ionisedU float64) Field {
	switch kind {
	case "ionisation_front":
		return IonisationFront{Dim: dim, StromgrenR: stromgrenR, IonisedU: ionisedU}
	default:
		return NoRadiation{}
	}
}
