package driver

import (
	"math"

	"github.com/san-kum/gandalf/internal/ghost"
	"github.com/san-kum/gandalf/internal/nntree"
	"github.com/san-kum/gandalf/internal/particle"
	"github.com/san-kum/gandalf/internal/tree"
)

// Advance runs one global minimum-timestep tick through the ten-stage
// flow spec.md 4.I names: timestep computation, advance, (rebuild? ->
// ghosts), density, forces, level fixed-point iteration, the N-body
// PEC loop, end-timestep commit, sink creation/accretion, and
// snapshot-boundary compaction. It returns false once tend or
// tmax_wallclock has been reached, the same dual stop condition
// sim.Simulator.Run checks via ctx.Done(), generalized here to a
// wall-clock deadline.
func (m *MainLoop) Advance() (bool, error) {
	if m.Ctx.WallClockExceeded() {
		return false, nil
	}
	if m.T >= m.Cfg.Time.Tmax {
		return false, nil
	}

	// 1. timestep computation / resync.
	if m.Levels.N == 0 {
		m.Levels.Resync(m.Gas, m.Stars, m.gasTimestep, m.starTimestep)
		// DtMax must agree across every domain before levels are
		// derived from it, so the reduction runs even with a single
		// SingleDomain partitioner (spec.md §5's phase-aligned,
		// blocking collective requirement).
		m.Levels.DtMax = m.Domain.AllreduceMin(m.Levels.DtMax)
		m.Levels.DtMin = m.Levels.DtMax / pow2(m.Levels.LevelStep)
	}
	dt := m.Levels.DtMin

	// 2. advance.
	m.predictGas(dt)
	m.NBody.Predict(m.Stars, dt)

	// 3. rebuild? -> ghosts. The tree indexes the real particles only
	// (n = Gas.Count()); the ghosts created after it are not in it.
	rebuilt := m.Step%m.Cfg.Time.NTreeBuildStep == 0
	if rebuilt {
		treeParams := tree.Params{Dim: m.Cfg.Ndim, Nleafmax: m.Cfg.Tree.Nleafmax, ThetaMax: m.Cfg.Tree.ThetaMax, MacError: m.Cfg.Tree.MacError}
		if m.Cfg.Tree.MAC == "gadget" {
			treeParams.MAC = tree.MACGadget
		}
		m.Domain.Decompose(m.Gas)
		if err := m.Domain.ExchangeGhosts(m.Gas); err != nil {
			return false, err
		}
		m.Tree = tree.BuildTree(m.Gas, m.Gas.Count(), treeParams)
		m.Tree.QuadrupoleEnabled = m.Cfg.Tree.Quadrupole
		m.SPH.Tree = m.Tree
		if err := m.Ghosts.CreateGhosts(m.Gas, m.Cfg.Ndim); err != nil {
			return false, err
		}
	}
	if rebuilt || m.Step%m.Cfg.Time.NTreeStockStep == 0 {
		tree.StockTree(m.Tree, m.Gas, nil)
	}

	// 4. density.
	scratch := make([]int, m.SPH.MaxNeighbours)
	for i := 0; i < m.Gas.Count(); i++ {
		g := m.Gas.Get(i)
		if !g.Active || g.Type != particle.TypeGas {
			continue
		}
		if err := m.SPH.SolveDensityAndH(m.Gas, scratch, i); err != nil {
			m.Ctx.Emit(err)
			continue
		}
		g.P = m.SPH.EOS.Pressure(g.Rho, g.U)
		g.Cs = m.SPH.EOS.SoundSpeed(g.Rho, g.U)
	}

	// 5. forces.
	m.SPH.HydroForces(m.Gas)
	m.SPH.GravityForces(m.Gas)
	ghost.CopyAccelerationFromGhosts(m.Gas)
	m.applyExternalAndRadiation()

	// 6. level fixed-point iteration: re-evaluate neighbour-level caps
	// until no particle needs to move more than level_diff_max below
	// its neighbours (spec.md 4.I); bounded to avoid a runaway loop on
	// a pathological configuration.
	for iter := 0; iter < 8; iter++ {
		if m.fixNeighbourLevels() == 0 {
			break
		}
	}

	// 7. N-body PEC loop.
	for iter := 0; iter < m.NBody.Npec; iter++ {
		m.NBody.Evaluate(m.Stars)
		m.NBody.Correct(m.Stars, dt)
	}

	// 8. end-timestep commit.
	m.commitGas(dt)
	m.commitStars()
	m.T += dt
	m.Levels.N++
	if m.Levels.N >= m.Levels.NResync {
		m.Levels.N = 0
	}

	// 9. sink creation/accretion.
	if m.Cfg.Sink.Enabled && m.Step%m.Cfg.Time.NTreeBuildStep == 0 {
		m.Sinks.ScanForSeeds(m.Gas, m.Tree)
		m.Sinks.Accrete(m.Gas, m.Tree, dt)
		var totalSinkMass float64
		for _, s := range m.Sinks.Sinks {
			totalSinkMass += s.Mass
		}
		m.SinkAccretion.Observe(totalSinkMass)
	}

	m.Energy.Observe(m.Gas, m.Stars, m.Cfg.Ndim)
	m.Momentum.Observe(m.Gas, m.Stars, m.Cfg.Ndim)
	m.Boundary.Observe(m.Gas)

	// 10. snapshot-boundary compaction.
	if m.T >= m.NextSnapshot {
		if _, err := m.Write(); err != nil {
			m.Ctx.Emit(err)
		}
		m.Gas.CompactDead()
		m.NextSnapshot += m.Cfg.Snapshot.DtSnap
	}

	m.Step++
	return m.T < m.Cfg.Time.Tmax, nil
}

// Run drives Advance until it reports completion or an error.
func (m *MainLoop) Run() error {
	for {
		more, err := m.Advance()
		if err != nil {
			return err
		}
		if !more {
			return nil
		}
	}
}

func pow2(n int) float64 {
	if n < 0 {
		return 1
	}
	return float64(uint64(1) << uint(n))
}

func (m *MainLoop) gasTimestep(i int) float64 {
	g := m.Gas.Get(i)
	var aMag float64
	for k := 0; k < m.Cfg.Ndim; k++ {
		aMag += g.A[k] * g.A[k]
	}
	aMag = math.Sqrt(aMag)

	dtCourant := math.Inf(1)
	if g.Cs > 0 {
		dtCourant = m.Cfg.Time.CourantMulti * g.H / g.Cs
	}
	dtAccel := math.Inf(1)
	if aMag > 0 {
		dtAccel = m.Cfg.Time.AccelMulti * math.Sqrt(g.H/aMag)
	}
	return math.Min(dtCourant, dtAccel)
}

func (m *MainLoop) starTimestep(i int) float64 {
	return m.NBody.Timestep(m.Stars.Get(i))
}

func (m *MainLoop) predictGas(dt float64) {
	m.Gas.ForEachActive(func(i int, g *particle.Gas) {
		if !m.Levels.Active(g.NStep, g.NLast) {
			return
		}
		g.R0, g.V0, g.A0 = g.R, g.V, g.A
		for k := 0; k < m.Cfg.Ndim; k++ {
			g.R[k] += g.V[k]*dt + 0.5*g.A[k]*dt*dt
			g.V[k] += g.A[k] * dt
		}
	})
}

func (m *MainLoop) commitGas(dt float64) {
	m.Gas.ForEachActive(func(i int, g *particle.Gas) {
		if !m.Levels.Active(g.NStep, g.NLast) {
			return
		}
		g.U += g.DUDt * dt
		if g.U < 0 {
			g.U = 0
		}
		g.NLast = m.Levels.N
		l, nstep := m.Levels.AssignLevel(m.gasTimestep(i))
		g.Level = HoldLevel(l, g.Level, m.Levels.N, g.NStep)
		g.NStep = nstep
	})
}

func (m *MainLoop) commitStars() {
	m.Stars.ForEachActive(func(i int, st *particle.Star) {
		st.NLast = m.Levels.N
		l, nstep := m.Levels.AssignLevel(m.starTimestep(i))
		st.Level = HoldLevel(l, st.Level, m.Levels.N, st.NStep)
		st.NStep = nstep
	})
}

// fixNeighbourLevels caps every active gas particle's level at
// level_diff_max above the minimum level among its current force
// neighbours, returning the number of particles it had to lower -
// spec.md 4.I's fixed-point iteration over level_neib.
func (m *MainLoop) fixNeighbourLevels() int {
	changed := 0
	scratch := make([]int, m.SPH.MaxNeighbours)
	m.Gas.ForEachActive(func(i int, g *particle.Gas) {
		n, err := m.Tree.ComputeGatherNeighbourList(m.Gas, [3]float64{g.R[0], g.R[1], g.R[2]}, g.H*m.SPH.Kernel.Range(), scratch)
		if err != nil {
			n = len(scratch)
		}
		minNeibLevel := g.Level
		for _, j := range scratch[:n] {
			if other := m.Gas.Get(j); other.Level < minNeibLevel {
				minNeibLevel = other.Level
			}
		}
		g.LevelNeib = minNeibLevel
		if g.Level > minNeibLevel+m.Levels.LevelDiffMax {
			g.Level = minNeibLevel + m.Levels.LevelDiffMax
			changed++
		}
	})
	return changed
}

func (m *MainLoop) applyExternalAndRadiation() {
	m.Gas.ForEachActive(func(i int, g *particle.Gas) {
		a, _ := m.External.AddExternalPotential(g.R, g.V, m.Cfg.Ndim)
		for k := 0; k < m.Cfg.Ndim; k++ {
			g.A[k] += a[k]
		}
	})
	m.Stars.ForEachActive(func(i int, st *particle.Star) {
		a, _ := m.External.AddExternalPotential(st.R, st.V, m.Cfg.Ndim)
		for k := 0; k < m.Cfg.Ndim; k++ {
			st.A[k] += a[k]
		}
	})
	m.Radiation.UpdateRadiationField(m.Gas.Slice(), nil)
}

// BuildSystems runs the NN system tree over every free (non-system)
// star, promoting qualifying subtrees into StarStore system records
// (spec.md 4.G). Advance does not call it; a caller runs it when it
// wants the system records refreshed.
func (m *MainLoop) BuildSystems() []nntree.BinaryRecord {
	members := make([]int, 0, m.Stars.Count())
	m.Stars.ForEachActive(func(i int, st *particle.Star) {
		if !st.IsSystem() {
			members = append(members, i)
		}
	})
	if len(members) < 2 {
		return nil
	}
	nt := nntree.Build(m.Stars, members, m.Cfg.Ndim)
	return nntree.BuildSubSystems(nt, m.Stars, m.Stars, 1.0, m.Cfg.Nbody.GpeFrac, m.Cfg.Nbody.NcompMax)
}
