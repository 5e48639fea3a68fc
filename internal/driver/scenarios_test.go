package driver_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/gandalf/internal/config"
	"github.com/san-kum/gandalf/internal/core"
	"github.com/san-kum/gandalf/internal/driver"
	"github.com/san-kum/gandalf/internal/ic"
)

// quickTmax drops a preset's Tmax/snapshot cadence so the suite drives
// a handful of ticks via advanceTicks rather than running each test
// problem to its full physical duration through Run.
func quickTmax(cfg *config.Config) *config.Config {
	cfg.Time.Tmax = math.Inf(1)
	cfg.Time.NTreeBuildStep = 2
	cfg.Time.NTreeStockStep = 1
	cfg.Snapshot.DtSnap = math.Inf(1)
	return cfg
}

func advanceTicks(ml *driver.MainLoop, n int) error {
	for i := 0; i < n; i++ {
		if _, err := ml.Advance(); err != nil {
			return err
		}
	}
	return nil
}

var _ = Describe("end-to-end scenarios", func() {
	const ticks = 5

	It("advances the Sod shocktube without diverging", func() {
		cfg := quickTmax(config.GetPreset("sod_shocktube", "standard"))
		ctx, err := core.NewContext(cfg.Ndim, cfg.Seed, 0)
		Expect(err).NotTo(HaveOccurred())
		gas, stars := ic.Build(cfg)
		ml := driver.New(ctx, cfg, gas, stars)

		Expect(advanceTicks(ml, ticks)).To(Succeed())
		Expect(ml.T).To(BeNumerically(">", 0))
	})

	It("keeps the Jeans-instability lattice's total mass constant", func() {
		cfg := quickTmax(config.GetPreset("jeans_instability", "standard"))
		ctx, err := core.NewContext(cfg.Ndim, cfg.Seed, 0)
		Expect(err).NotTo(HaveOccurred())
		gas, stars := ic.Build(cfg)

		var massBefore float64
		for _, g := range gas.Slice() {
			massBefore += g.Mass
		}

		ml := driver.New(ctx, cfg, gas, stars)
		Expect(advanceTicks(ml, ticks)).To(Succeed())

		var massAfter float64
		for _, g := range ml.Gas.Slice() {
			massAfter += g.Mass
		}
		Expect(massAfter).To(BeNumerically("~", massBefore, 1e-9))
	})

	It("integrates a Plummer cluster without losing stars", func() {
		cfg := quickTmax(config.GetPreset("plummer_cluster", "standard"))
		ctx, err := core.NewContext(cfg.Ndim, cfg.Seed, 0)
		Expect(err).NotTo(HaveOccurred())
		gas, stars := ic.Build(cfg)
		ml := driver.New(ctx, cfg, gas, stars)

		Expect(advanceTicks(ml, ticks)).To(Succeed())
		Expect(ml.Stars.Count()).To(Equal(200))
	})

	It("conserves the binary orbit's separation to the Hermite4 tolerance", func() {
		cfg := quickTmax(config.GetPreset("binary_orbit", "standard"))
		ctx, err := core.NewContext(cfg.Ndim, cfg.Seed, 0)
		Expect(err).NotTo(HaveOccurred())
		gas, stars := ic.Build(cfg)
		ml := driver.New(ctx, cfg, gas, stars)

		sep := func() float64 {
			a, b := ml.Stars.Get(0), ml.Stars.Get(1)
			var d2 float64
			for k := 0; k < cfg.Ndim; k++ {
				diff := a.R[k] - b.R[k]
				d2 += diff * diff
			}
			return math.Sqrt(d2)
		}
		before := sep()
		Expect(advanceTicks(ml, ticks)).To(Succeed())
		Expect(sep()).To(BeNumerically("~", before, 0.2))
	})

	It("creates at least one sink once the dense core crosses rho_sink", func() {
		cfg := quickTmax(config.GetPreset("sink_accretion", "standard"))
		ctx, err := core.NewContext(cfg.Ndim, cfg.Seed, 0)
		Expect(err).NotTo(HaveOccurred())
		gas, stars := ic.Build(cfg)
		ml := driver.New(ctx, cfg, gas, stars)

		Expect(advanceTicks(ml, ticks)).To(Succeed())
		Expect(ml.Sinks.Sinks).NotTo(BeEmpty())
	})

	It("promotes at least one binary from the NN system-tree example", func() {
		cfg := quickTmax(config.GetPreset("nn_system_tree_example", "standard"))
		ctx, err := core.NewContext(cfg.Ndim, cfg.Seed, 0)
		Expect(err).NotTo(HaveOccurred())
		gas, stars := ic.Build(cfg)
		ml := driver.New(ctx, cfg, gas, stars)

		Expect(advanceTicks(ml, ticks)).To(Succeed())
		records := ml.BuildSystems()
		Expect(records).NotTo(BeEmpty())
	})
})
