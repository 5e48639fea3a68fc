package sink

import (
	"math"

	"github.com/san-kum/gandalf/internal/particle"
	"github.com/san-kum/gandalf/internal/tree"
)

// Sink is one accreting point mass (spec.md 4.H).
type Sink struct {
	R, V         particle.Vec
	Mass         float64
	RSink        float64
	AccretedMass float64
	GasOrigin    int // GasStore index this sink was seeded from
}

// Manager owns the live sink population and the parameters governing
// seeding and accretion.
type Manager struct {
	Dim             int
	Gravity         float64
	RhoCrit         float64 // minimum density to qualify as a seed
	RCreate         float64 // radius searched for a denser neighbour when testing for a local maximum
	RSink           float64 // accretion radius for new sinks
	SmoothAccretion bool
	SmoothAccreteDt float64 // e-folding timescale when SmoothAccretion is set

	Sinks []Sink
}

// ScanForSeeds runs at tree-build steps only, testing every active gas
// particle above RhoCrit for local-density-maximum status (no neighbour
// within RCreate has a higher density) and gravitational boundedness
// (neighbourhood kinetic + thermal energy does not exceed the
// neighbourhood's self-gravity), creating a new Sink wherever both
// criteria hold (spec.md 4.H).
func (m *Manager) ScanForSeeds(store *particle.GasStore, tr *tree.KDTree) []int {
	var created []int
	scratch := make([]int, 4096)

	for i := 0; i < store.Count(); i++ {
		g := store.Get(i)
		if !g.Active || g.Type != particle.TypeGas || g.Rho < m.RhoCrit {
			continue
		}

		centre := [3]float64{g.R[0], g.R[1], g.R[2]}
		n, err := tr.ComputeGatherNeighbourList(store, centre, m.RCreate, scratch)
		if err != nil {
			n = len(scratch)
		}

		if !m.isLocalDensityMaximum(store, g, scratch[:n]) {
			continue
		}
		if !m.isEnergeticallyBound(store, g, scratch[:n]) {
			continue
		}

		m.Sinks = append(m.Sinks, Sink{
			R: g.R, V: g.V, Mass: g.Mass, RSink: m.RSink, GasOrigin: i,
		})
		created = append(created, len(m.Sinks)-1)
	}
	return created
}

func (m *Manager) isLocalDensityMaximum(store *particle.GasStore, g *particle.Gas, neighbours []int) bool {
	for _, j := range neighbours {
		other := store.Get(j)
		if other.Rho > g.Rho {
			return false
		}
	}
	return true
}

// isEnergeticallyBound tests whether the neighbourhood's kinetic plus
// thermal energy is smaller in magnitude than its gravitational binding
// energy - the simplified form of spec.md 4.H's energetic seeding test.
func (m *Manager) isEnergeticallyBound(store *particle.GasStore, g *particle.Gas, neighbours []int) bool {
	var kinetic, thermal, potential, totalMass float64
	for _, j := range neighbours {
		other := store.Get(j)
		var vSq float64
		for k := 0; k < m.Dim; k++ {
			dv := other.V[k] - g.V[k]
			vSq += dv * dv
		}
		kinetic += 0.5 * other.Mass * vSq
		thermal += other.Mass * other.U
		totalMass += other.Mass
	}
	n := len(neighbours)
	if n < 2 || totalMass <= 0 {
		return false
	}
	rTypical := g.H
	potential = m.Gravity * totalMass * totalMass / rTypical
	return kinetic+thermal < potential
}

// Accrete gathers every gas particle within each sink's RSink, and -
// subject to SmoothAccretion pacing if enabled - transfers its mass and
// momentum onto the sink, conserving total momentum, then marks the gas
// particle TypeSinkAccreted so the next compaction removes it (spec.md
// 4.H). The same ComputeGatherNeighbourList machinery internal/tree
// already provides is reused rather than re-implemented here.
func (m *Manager) Accrete(store *particle.GasStore, tr *tree.KDTree, dt float64) {
	scratch := make([]int, 4096)
	for s := range m.Sinks {
		sink := &m.Sinks[s]
		centre := [3]float64{sink.R[0], sink.R[1], sink.R[2]}
		n, err := tr.ComputeGatherNeighbourList(store, centre, sink.RSink, scratch)
		if err != nil {
			n = len(scratch)
		}

		frac := 1.0
		if m.SmoothAccretion && m.SmoothAccreteDt > 0 {
			frac = 1.0 - math.Exp(-dt/m.SmoothAccreteDt)
		}

		for _, j := range scratch[:n] {
			g := store.Get(j)
			if !g.Active || g.Type != particle.TypeGas {
				continue
			}

			dm := g.Mass * frac
			newSinkMass := sink.Mass + dm
			for k := 0; k < m.Dim; k++ {
				sink.V[k] = (sink.Mass*sink.V[k] + dm*g.V[k]) / newSinkMass
				sink.R[k] = (sink.Mass*sink.R[k] + dm*g.R[k]) / newSinkMass
			}
			sink.Mass = newSinkMass
			sink.AccretedMass += dm

			if frac >= 1.0 {
				g.Type = particle.TypeSinkAccreted
				g.Active = false
			} else {
				g.Mass -= dm
			}
		}
	}
}

