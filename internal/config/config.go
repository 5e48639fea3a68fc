package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultNdim      = 3
	DefaultEta       = 1.2
	DefaultAlphaVisc = 1.0
	DefaultBetaVisc  = 2.0
	DefaultThetaMax  = 0.5
	DefaultNleafmax  = 8
	DefaultNpec      = 2
	DefaultCourant   = 0.3
	DefaultTmax      = 10.0
)

// Config mirrors the recognised-parameter set spec.md §6 lists,
// grouped the way the teacher groups int/float/string parameter blocks
// (IntParams/FloatParams/StringParams) but expanded into named fields
// since GANDALF's parameter surface is fixed rather than dynamically
// keyed.
type Config struct {
	Ndim   int    `yaml:"ndim"`
	Seed   int64  `yaml:"seed"`
	ICType string `yaml:"ic"`

	SPH      SPHParams      `yaml:"sph"`
	Tree     TreeParams     `yaml:"tree"`
	Nbody    NbodyParams    `yaml:"nbody"`
	Sink     SinkParams     `yaml:"sink"`
	Boundary BoundaryParams `yaml:"boundary"`
	Time     TimeParams     `yaml:"time"`

	Snapshot SnapshotParams `yaml:"snapshot"`
}

type SPHParams struct {
	Kernel         string  `yaml:"kernel"`           // "cubic_spline" | "quintic"
	EOS            string  `yaml:"gas_eos"`          // "isothermal" | "adiabatic" | "barotropic" | "ionising"
	Eta            float64 `yaml:"h_fac"`
	AlphaVisc      float64 `yaml:"alpha_visc"`
	BetaVisc       float64 `yaml:"beta_visc"`
	Gamma          float64 `yaml:"gamma"`
	Cs0            float64 `yaml:"isotemp"`
	RhoCrit        float64 `yaml:"rho_bary"`
	MaxHIterations int     `yaml:"h_max_iterations"`
	HTolerance     float64 `yaml:"h_tolerance"`
}

type TreeParams struct {
	Nleafmax   int     `yaml:"nleafmax"`
	ThetaMax   float64 `yaml:"thetamax"`
	MacError   float64 `yaml:"macerror"`
	MAC        string  `yaml:"macerr_method"` // "geometric" | "gadget"
	Quadrupole bool    `yaml:"quadrupole"`
}

type NbodyParams struct {
	Integrator string  `yaml:"nbody_integrator"`   // "hermite4"
	Npec       int     `yaml:"npec"`
	Eta        float64 `yaml:"nbody_timestep_eta"`
	GpeFrac    float64 `yaml:"gpefrac"`
	NcompMax   int     `yaml:"ncompmax"`
}

type SinkParams struct {
	Enabled         bool    `yaml:"sink_particles"`
	RhoCrit         float64 `yaml:"rho_sink"`
	RCreate         float64 `yaml:"r_create"`
	RSink           float64 `yaml:"r_sink"`
	SmoothAccretion bool    `yaml:"smooth_accretion"`
	SmoothAccreteDt float64 `yaml:"smooth_accrete_dt"`
}

type BoundaryParams struct {
	BoxMin          [3]float64 `yaml:"box_min"`
	BoxMax          [3]float64 `yaml:"box_max"`
	XLo, XHi        string     `yaml:"boundary_x"`  // "open" | "periodic" | "mirror" | "wall"
	YLo, YHi        string     `yaml:"boundary_y"`
	ZLo, ZHi        string     `yaml:"boundary_z"`
	KernelRangeMult float64    `yaml:"ghost_range"`
	MaxGhosts       int        `yaml:"max_ghosts"`
}

type TimeParams struct {
	CourantMulti   float64 `yaml:"courant_mult"`
	AccelMulti     float64 `yaml:"accel_mult"`
	Tmax           float64 `yaml:"tend"`
	TmaxWallclock  float64 `yaml:"tmax_wallclock"` // seconds, <=0 disables the check
	LevelsMax      int     `yaml:"level_max"`
	NTreeBuildStep int     `yaml:"ntreebuildstep"` // ticks between full tree rebuilds
	NTreeStockStep int     `yaml:"ntreestockstep"` // ticks between moment-only restocks; independent of NTreeBuildStep
}

type SnapshotParams struct {
	Dir    string  `yaml:"dir"`
	Prefix string  `yaml:"run_id"`
	DtSnap float64 `yaml:"dt_snap"`
}

func DefaultConfig() *Config {
	return &Config{
		Ndim:   DefaultNdim,
		Seed:   1,
		ICType: "sod_shocktube",
		SPH: SPHParams{
			Kernel: "cubic_spline", EOS: "adiabatic",
			Eta: DefaultEta, AlphaVisc: DefaultAlphaVisc, BetaVisc: DefaultBetaVisc,
			Gamma: 5.0 / 3.0, Cs0: 1.0,
			MaxHIterations: 50, HTolerance: 1e-3,
		},
		Tree:  TreeParams{Nleafmax: DefaultNleafmax, ThetaMax: DefaultThetaMax, MacError: 0.01, MAC: "geometric"},
		Nbody: NbodyParams{Integrator: "hermite4", Npec: DefaultNpec, Eta: 0.01, GpeFrac: 0.5, NcompMax: 10},
		Sink:  SinkParams{RhoCrit: 1e4, RCreate: 0.1, RSink: 0.1},
		Boundary: BoundaryParams{
			BoxMin: [3]float64{0, 0, 0}, BoxMax: [3]float64{1, 1, 1},
			XLo: "open", XHi: "open", YLo: "open", YHi: "open", ZLo: "open", ZHi: "open",
			KernelRangeMult: 3.0, MaxGhosts: 1 << 20,
		},
		Time:     TimeParams{CourantMulti: DefaultCourant, AccelMulti: 0.3, Tmax: DefaultTmax, LevelsMax: 30, NTreeBuildStep: 8, NTreeStockStep: 1},
		Snapshot: SnapshotParams{Dir: ".", Prefix: "run", DtSnap: 1.0},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
