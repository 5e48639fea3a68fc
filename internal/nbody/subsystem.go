package nbody

import (
	"math"

	"github.com/san-kum/gandalf/internal/particle"
)

// SubsystemIntegrator advances a bound subsystem (a promoted system
// particle's Children) on its own internal clock, treating everything
// in Perturbers as a fixed external tidal field for the duration of
// one internal step (spec.md 4.F/4.G interaction). The caller passes
// the internal step to Advance; nntree.BuildSubSystems seeds each system
// star's DtInternal from its pair separation.
type SubsystemIntegrator struct {
	Inner      *Hermite4
	Members    *particle.StarStore // dense store over just this subsystem's members
	Perturbers []particle.Star     // snapshot of perturbing bodies, held fixed this internal step
}

// CrossingTime estimates a subsystem's internal dynamical time from its
// total mass and a characteristic separation, used to seed DtInternal
// before the NN tree has accumulated enough binary statistics to do
// better (spec.md 4.G).
func CrossingTime(members *particle.StarStore, gravity float64) float64 {
	n := members.Count()
	if n < 2 {
		return math.Inf(1)
	}

	var totalMass float64
	var rMaxSq float64
	members.ForEachActive(func(i int, st *particle.Star) {
		totalMass += st.Mass
	})

	members.ForEachActive(func(i int, a *particle.Star) {
		members.ForEachActive(func(j int, b *particle.Star) {
			if i == j {
				return
			}
			var d2 float64
			for k := 0; k < members.Dim; k++ {
				dx := a.R[k] - b.R[k]
				d2 += dx * dx
			}
			if d2 > rMaxSq {
				rMaxSq = d2
			}
		})
	})

	if totalMass <= 0 || rMaxSq <= 0 {
		return math.Inf(1)
	}
	rMax := math.Sqrt(rMaxSq)
	return math.Sqrt(rMax * rMax * rMax / (gravity * totalMass))
}

// Advance runs one full Predict/Evaluate(+perturbers)/Correct cycle,
// repeated Npec times, over the subsystem's members.
func (s *SubsystemIntegrator) Advance(dt float64) {
	for iter := 0; iter < s.Inner.Npec; iter++ {
		s.Inner.Predict(s.Members, dt)
		s.Inner.Evaluate(s.Members)
		s.addPerturberTerms()
		s.Inner.Correct(s.Members, dt)
	}
}

// addPerturberTerms folds the (fixed, external) perturber accelerations
// into the scratch a1/adot1 buffers Evaluate just computed, before
// Correct consumes them - perturbers never themselves move during one
// subsystem internal step.
func (s *SubsystemIntegrator) addPerturberTerms() {
	if len(s.Perturbers) == 0 {
		return
	}
	d := s.Members.Dim
	n := s.Members.Count()
	for i := 0; i < n; i++ {
		ri, vi := s.Inner.predR[i], s.Inner.predV[i]
		for _, p := range s.Perturbers {
			var dr, dv particle.Vec
			distSq := 1e-6
			for k := 0; k < d; k++ {
				dr[k] = p.R[k] - ri[k]
				dv[k] = p.V[k] - vi[k]
				distSq += dr[k] * dr[k]
			}
			invDist := 1.0 / math.Sqrt(distSq)
			invDist3 := invDist * invDist * invDist
			invDist5 := invDist3 * invDist * invDist

			var rdotv float64
			for k := 0; k < d; k++ {
				rdotv += dr[k] * dv[k]
			}

			for k := 0; k < d; k++ {
				s.Inner.a1[i][k] += s.Inner.Gravity * p.Mass * dr[k] * invDist3
				s.Inner.adot1[i][k] += s.Inner.Gravity * p.Mass * (dv[k]*invDist3 - 3*rdotv*dr[k]*invDist5)
			}
		}
	}
}
