package metrics

import (
	"math"

	"github.com/san-kum/gandalf/internal/particle"
)

// EnergyDrift tracks the maximum relative deviation of total energy
// (gas kinetic + thermal, plus star/system kinetic and half of each
// star's GPE; gas self-gravity is not included) from its value at the
// first Observe call - the
// integration-accuracy testable property spec.md §8 names.
type EnergyDrift struct {
	name          string
	initialEnergy float64
	currentEnergy float64
	maxDrift      float64
	samples       int
}

func NewEnergyDrift() *EnergyDrift {
	return &EnergyDrift{name: "energy_drift"}
}

func (e *EnergyDrift) Name() string { return e.name }

func (e *EnergyDrift) Observe(gas *particle.GasStore, stars *particle.StarStore, dim int) {
	energy := totalEnergy(gas, stars, dim)

	if e.samples == 0 {
		e.initialEnergy = energy
	}
	e.currentEnergy = energy
	e.samples++

	if e.initialEnergy != 0 {
		drift := math.Abs(energy-e.initialEnergy) / math.Abs(e.initialEnergy)
		e.maxDrift = math.Max(e.maxDrift, drift)
	}
}

func (e *EnergyDrift) Value() float64 { return e.maxDrift }

func (e *EnergyDrift) Reset() {
	e.initialEnergy, e.currentEnergy, e.maxDrift = 0, 0, 0
	e.samples = 0
}

func totalEnergy(gas *particle.GasStore, stars *particle.StarStore, dim int) float64 {
	var total float64
	if gas != nil {
		gas.ForEachActive(func(i int, g *particle.Gas) {
			var vSq float64
			for k := 0; k < dim; k++ {
				vSq += g.V[k] * g.V[k]
			}
			total += 0.5*g.Mass*vSq + g.Mass*g.U
		})
	}
	if stars != nil {
		stars.ForEachActive(func(i int, s *particle.Star) {
			var vSq float64
			for k := 0; k < dim; k++ {
				vSq += s.V[k] * s.V[k]
			}
			total += 0.5*s.Mass*vSq + 0.5*s.GPE
		})
	}
	return total
}

// MomentumDrift tracks the maximum magnitude of the change in the total
// linear momentum vector, relative to the initial momentum's magnitude
// (absolute when that is near zero) - a symmetry that any correctly
// implemented force pairing (hydro and gravity alike) should conserve
// exactly up to floating-point error.
type MomentumDrift struct {
	name     string
	initialP particle.Vec
	maxDrift float64
	samples  int
}

func NewMomentumDrift() *MomentumDrift {
	return &MomentumDrift{name: "momentum_drift"}
}

func (m *MomentumDrift) Name() string { return m.name }

func (m *MomentumDrift) Observe(gas *particle.GasStore, stars *particle.StarStore, dim int) {
	var p particle.Vec
	if gas != nil {
		gas.ForEachActive(func(i int, g *particle.Gas) {
			for k := 0; k < dim; k++ {
				p[k] += g.Mass * g.V[k]
			}
		})
	}
	if stars != nil {
		stars.ForEachActive(func(i int, s *particle.Star) {
			for k := 0; k < dim; k++ {
				p[k] += s.Mass * s.V[k]
			}
		})
	}

	if m.samples == 0 {
		m.initialP = p
	}
	m.samples++

	var diffSq, initSq float64
	for k := 0; k < dim; k++ {
		d := p[k] - m.initialP[k]
		diffSq += d * d
		initSq += m.initialP[k] * m.initialP[k]
	}
	if initSq > 1e-12 {
		drift := math.Sqrt(diffSq / initSq)
		m.maxDrift = math.Max(m.maxDrift, drift)
	} else {
		m.maxDrift = math.Max(m.maxDrift, math.Sqrt(diffSq))
	}
}

func (m *MomentumDrift) Value() float64 { return m.maxDrift }

func (m *MomentumDrift) Reset() {
	m.initialP = particle.Vec{}
	m.maxDrift = 0
	m.samples = 0
}
