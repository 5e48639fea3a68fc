package driver

import (
	"fmt"

	"github.com/san-kum/gandalf/internal/compute"
	"github.com/san-kum/gandalf/internal/config"
	"github.com/san-kum/gandalf/internal/core"
	"github.com/san-kum/gandalf/internal/domain"
	"github.com/san-kum/gandalf/internal/ghost"
	"github.com/san-kum/gandalf/internal/kernel"
	"github.com/san-kum/gandalf/internal/metrics"
	"github.com/san-kum/gandalf/internal/nbody"
	"github.com/san-kum/gandalf/internal/particle"
	"github.com/san-kum/gandalf/internal/potential"
	"github.com/san-kum/gandalf/internal/radiation"
	"github.com/san-kum/gandalf/internal/sink"
	"github.com/san-kum/gandalf/internal/snapshot"
	"github.com/san-kum/gandalf/internal/sph"
	"github.com/san-kum/gandalf/internal/tree"
)

// MainLoop owns every collaborator the block-timestep driver steps
// each tick and the block-level bookkeeping spec.md 4.I describes. It
// is the generalisation of sim.Simulator - one struct holding every
// collaborator the step loop needs - to GANDALF's richer component
// set.
type MainLoop struct {
	Ctx *core.Context
	Cfg *config.Config

	Gas   *particle.GasStore
	Stars *particle.StarStore

	Tree   *tree.KDTree
	Ghosts *ghost.Manager
	SPH    *sph.Engine
	NBody  *nbody.Hermite4
	Sinks  *sink.Manager

	External  potential.External
	Radiation radiation.Field
	Domain    domain.Partitioner

	Energy        *metrics.EnergyDrift
	Momentum      *metrics.MomentumDrift
	Boundary      *metrics.BoundaryViolation
	SinkAccretion *metrics.SinkAccretionRate

	Levels *Levels

	T            float64
	Step         int // count of full MainLoop.Advance calls (ntreebuildstep/ntreestockstep cadence)
	NextSnapshot float64
	SnapshotPath string
}

// New builds a MainLoop from a fully-populated config and the initial
// particle stores; the caller (cmd/gandalf or a scenario test) is
// responsible for seeding Gas/Stars before calling New.
func New(ctx *core.Context, cfg *config.Config, gas *particle.GasStore, stars *particle.StarStore) *MainLoop {
	backend := compute.GetBackend()

	k := buildKernel(cfg.SPH.Kernel)
	eos := buildEOS(cfg.SPH)

	treeParams := tree.Params{
		Dim: cfg.Ndim, Nleafmax: cfg.Tree.Nleafmax,
		ThetaMax: cfg.Tree.ThetaMax, MacError: cfg.Tree.MacError,
	}
	if cfg.Tree.MAC == "gadget" {
		treeParams.MAC = tree.MACGadget
	}

	gm := ghost.NewManager(cfg.Ndim,
		ghost.Box{Min: particle.Vec(cfg.Boundary.BoxMin), Max: particle.Vec(cfg.Boundary.BoxMax)},
		[3]ghost.AxisBoundary{
			boundaryOf(cfg.Boundary.XLo, cfg.Boundary.XHi),
			boundaryOf(cfg.Boundary.YLo, cfg.Boundary.YHi),
			boundaryOf(cfg.Boundary.ZLo, cfg.Boundary.ZHi),
		},
		cfg.Boundary.KernelRangeMult, cfg.Boundary.MaxGhosts)

	engine := &sph.Engine{
		Kernel: k, EOS: eos, Backend: backend,
		Dim: cfg.Ndim, Eta: cfg.SPH.Eta,
		AlphaVisc: cfg.SPH.AlphaVisc, BetaVisc: cfg.SPH.BetaVisc,
		MaxHIterations: cfg.SPH.MaxHIterations, HTolerance: cfg.SPH.HTolerance,
		MaxNeighbours: 512, Gravity: 1.0,
	}

	hermite := nbody.NewHermite4(cfg.Ndim, 1.0, cfg.Nbody.Npec, cfg.Nbody.Eta)

	sinks := &sink.Manager{
		Dim: cfg.Ndim, Gravity: 1.0,
		RhoCrit: cfg.Sink.RhoCrit, RCreate: cfg.Sink.RCreate, RSink: cfg.Sink.RSink,
		SmoothAccretion: cfg.Sink.SmoothAccretion, SmoothAccreteDt: cfg.Sink.SmoothAccreteDt,
	}

	ml := &MainLoop{
		Ctx: ctx, Cfg: cfg,
		Gas: gas, Stars: stars,
		Ghosts: gm, SPH: engine, NBody: hermite, Sinks: sinks,
		External:  potential.New("none", 0, 1, 1, 0, particle.Vec{}, 2),
		Radiation: radiation.New("none", cfg.Ndim, 0, 0),
		Domain:    domain.SingleDomain{},
		Energy:    metrics.NewEnergyDrift(),
		Momentum:  metrics.NewMomentumDrift(),
		Boundary:  metrics.NewBoundaryViolation(particle.Vec(cfg.Boundary.BoxMin), particle.Vec(cfg.Boundary.BoxMax), cfg.Ndim),
		SinkAccretion: metrics.NewSinkAccretionRate(),
		Levels:    NewLevels(cfg.Time.LevelsMax),
		NextSnapshot: cfg.Snapshot.DtSnap,
		SnapshotPath: cfg.Snapshot.Dir,
	}
	ml.Tree = tree.BuildTree(gas, gas.Count(), treeParams)
	ml.Tree.QuadrupoleEnabled = cfg.Tree.Quadrupole
	tree.StockTree(ml.Tree, gas, nil)
	ml.SPH.Tree = ml.Tree
	return ml
}

func boundaryOf(lo, hi string) ghost.AxisBoundary {
	kindOf := func(s string) ghost.Kind {
		switch s {
		case "periodic":
			return ghost.Periodic
		case "mirror":
			return ghost.Mirror
		case "wall":
			return ghost.Wall
		default:
			return ghost.Open
		}
	}
	return ghost.AxisBoundary{Lo: kindOf(lo), Hi: kindOf(hi)}
}

func buildKernel(name string) kernel.Kernel {
	if name == "quintic" {
		return kernel.Quintic{}
	}
	return kernel.CubicSpline{}
}

func buildEOS(p config.SPHParams) kernel.EOS {
	switch p.EOS {
	case "isothermal":
		return kernel.Isothermal{Cs0: p.Cs0}
	case "barotropic":
		return kernel.Barotropic{Cs0: p.Cs0, RhoCrit: p.RhoCrit, Gamma: p.Gamma}
	default:
		return kernel.Adiabatic{Gamma: p.Gamma, MuBar: 1.0}
	}
}

// snapshotName builds the run's per-dump filename, matching run_id's
// role in storage.Store's naming.
func (m *MainLoop) snapshotName() string {
	return fmt.Sprintf("%s/%s_%06d.dat", m.SnapshotPath, m.Cfg.Snapshot.Prefix, m.Step)
}

// Write persists the current state to the configured snapshot
// directory, returning the path written.
func (m *MainLoop) Write() (string, error) {
	path := m.snapshotName()
	return path, snapshot.Write(path, m.Gas, m.Stars, m.Cfg.Ndim, m.T)
}
