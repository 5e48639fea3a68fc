package driver

import (
	"math"

	"github.com/san-kum/gandalf/internal/particle"
)

// Levels tracks the block-timestep hierarchy's global bookkeeping
// (spec.md 4.I): the tick counter n, the resync period, and the global
// minimum increment timestep every particle's own dt is an integer
// multiple of.
type Levels struct {
	LevelMax     int
	LevelMaxCap  int // configured ceiling; LevelMax narrows to the live dt spread but never exceeds this
	LevelStep    int // resolution of the hierarchy; nstep_i = 2^(LevelStep-L_i)
	LevelDiffMax int

	N       int     // ticks since the last resync
	NResync int
	DtMax   float64 // coarsest (level-0) timestep, set at resync
	DtMin   float64 // finest increment, DtMax / 2^LevelStep
}

func NewLevels(levelMax int) *Levels {
	if levelMax < 1 {
		levelMax = 1
	}
	return &Levels{LevelMax: levelMax, LevelMaxCap: levelMax, LevelStep: levelMax, LevelDiffMax: 1}
}

// AssignLevel clamps a particle's preferred timestep dtPref into a
// level in [0,LevelMax-1] against the current DtMax (spec.md 4.I's
// level-assignment formula), returning the level and its integer step
// count.
func (lv *Levels) AssignLevel(dtPref float64) (level, nstep int) {
	if dtPref <= 0 || math.IsInf(dtPref, 1) {
		return 0, 1 << uint(lv.LevelStep)
	}
	ratio := lv.DtMax / dtPref
	l := 0
	if ratio > 1 {
		l = int(math.Ceil(math.Log2(ratio)))
	}
	if l < 0 {
		l = 0
	}
	if l > lv.LevelMax-1 {
		l = lv.LevelMax - 1
	}
	nstep = 1 << uint(lv.LevelStep-l)
	return l, nstep
}

// HoldLevel applies the end-of-step hysteresis rule: a particle may
// only step up (to a numerically lower level / larger timestep) by one
// level per phase-aligned boundary, preventing oscillation between
// adjacent levels across a shared tree-walk (spec.md 4.I).
func HoldLevel(proposed, last, n, nstep int) int {
	if proposed < last {
		if n%(2*nstep) == 0 && last > 1 {
			return last - 1
		}
		return last
	}
	if proposed > last {
		return proposed
	}
	return last
}

// Resync re-measures every active particle's preferred timestep,
// recomputes DtMax/DtMin from the global minimum, and reassigns every
// particle's level from scratch (spec.md 4.I's resync operation).
func (lv *Levels) Resync(gas *particle.GasStore, stars *particle.StarStore, gasDt, starDt func(i int) float64) {
	minDt, maxDt := math.Inf(1), 0.0
	measure := func(d float64) {
		if d < minDt {
			minDt = d
		}
		if d > maxDt {
			maxDt = d
		}
	}
	gas.ForEachActive(func(i int, g *particle.Gas) { measure(gasDt(i)) })
	stars.ForEachActive(func(i int, s *particle.Star) { measure(starDt(i)) })
	if math.IsInf(minDt, 1) {
		// no live gas or stars to measure: fall back to a nominal
		// unit timestep so DtMax/DtMin stay finite - the
		// "level_min_sph = level_max" collapse under
		// sph_single_timestep, since every particle then clamps to
		// LevelMax-1 regardless of the fallback's exact value.
		minDt, maxDt = 1.0, 1.0
	}

	// Global level churn (spec.md 4.I): the hierarchy depth needed to
	// span the live dt spread can grow or shrink between resyncs as
	// the simulation evolves (collapse narrows it, dispersal widens
	// it). When it does, every particle's n/nstep/nlast is rescaled by
	// the same power of two before levels are reassigned below, so a
	// particle that isn't touched by this resync's reassignment still
	// carries a phase-consistent nstep/nlast under the new LevelStep.
	newLevelMax := lv.LevelMax
	if maxDt > 0 && minDt > 0 {
		spread := int(math.Ceil(math.Log2(maxDt / minDt)))
		if spread < 1 {
			spread = 1
		}
		if spread > lv.LevelMaxCap {
			spread = lv.LevelMaxCap
		}
		newLevelMax = spread
	}
	if newLevelMax != lv.LevelMax {
		lv.Rescale(gas, stars, newLevelMax-lv.LevelMax)
		lv.LevelMax = newLevelMax
		lv.LevelStep = newLevelMax
	}

	lv.DtMax = minDt * math.Pow(2, float64(lv.LevelMax))
	lv.DtMin = lv.DtMax / math.Pow(2, float64(lv.LevelStep))

	gas.ForEachActive(func(i int, g *particle.Gas) {
		l, nstep := lv.AssignLevel(gasDt(i))
		g.Level, g.NStep, g.NLast = l, nstep, 0
		g.Dt = float64(nstep) * lv.DtMin
	})
	stars.ForEachActive(func(i int, s *particle.Star) {
		l, nstep := lv.AssignLevel(starDt(i))
		s.Level, s.NStep, s.NLast = l, nstep, 0
		s.Dt = float64(nstep) * lv.DtMin
	})

	lv.N = 0
	lv.NResync = 1 << uint(lv.LevelStep)
}

// Rescale applies the global-level-churn rule: when LevelMax changes
// at a resync boundary, every particle's n/nstep/nlast must be
// rescaled by the same power of two so phase alignment against the new
// hierarchy depth is preserved (spec.md 4.I).
func (lv *Levels) Rescale(gas *particle.GasStore, stars *particle.StarStore, delta int) {
	if delta == 0 {
		return
	}
	scale := func(x int) int {
		if delta > 0 {
			return x << uint(delta)
		}
		return x >> uint(-delta)
	}
	lv.N = scale(lv.N)
	gas.ForEachActive(func(i int, g *particle.Gas) {
		g.NStep, g.NLast = scale(g.NStep), scale(g.NLast)
	})
	stars.ForEachActive(func(i int, s *particle.Star) {
		s.NStep, s.NLast = scale(s.NStep), scale(s.NLast)
	})
}

// Active reports whether a particle at the given nstep/nlast is due to
// step at the current tick n.
func (lv *Levels) Active(nstep, nlast int) bool {
	return (lv.N-nlast)%nstep == 0
}
