package sph

import (
	"math"

	"github.com/san-kum/gandalf/internal/compute"
	"github.com/san-kum/gandalf/internal/core"
	"github.com/san-kum/gandalf/internal/kernel"
	"github.com/san-kum/gandalf/internal/particle"
	"github.com/san-kum/gandalf/internal/tree"
)

// Engine couples a kernel, an equation of state and a spatial index
// into the density/force machinery spec.md 4.E names. It holds no
// per-call state of its own.
type Engine struct {
	Kernel  kernel.Kernel
	EOS     kernel.EOS
	Tree    *tree.KDTree
	Backend compute.Backend

	Dim            int
	Eta            float64 // h = Eta * (m/rho)^(1/d), the smoothing-length/density coupling constant
	AlphaVisc      float64
	BetaVisc       float64
	MaxHIterations int
	HTolerance     float64
	MaxNeighbours  int
	Softening      float64
	Gravity        float64
}

// SolveDensityAndH solves the coupled h/rho system for particle i by
// Newton-Raphson, falling back to bisection brackets when a Newton step
// leaves them, for at most MaxHIterations iterations (spec.md 4.E). The
// neighbour search radius follows the current h; there is no separate
// widened retry. It returns core.ErrConvergenceFailure once the
// iterations are used up, and returns a neighbour-list capacity error
// as soon as it occurs.
func (e *Engine) SolveDensityAndH(store *particle.GasStore, neighbourScratch []int, i int) error {
	g := store.Get(i)
	h := g.H
	if h <= 0 {
		h = e.Eta * math.Pow(g.Mass, 1.0/float64(e.Dim))
	}

	kernRange := e.Kernel.Range()
	target := g.Mass * math.Pow(e.Eta, float64(e.Dim))

	hLo, hHi := 0.0, 0.0
	haveBracket := false

	for iter := 0; iter < e.MaxHIterations; iter++ {
		n, err := e.Tree.ComputeNeighbourAndGhostList(store, [3]float64{g.R[0], g.R[1], g.R[2]}, h, kernRange, neighbourScratch)
		if err != nil {
			return err
		}

		rho, drhoDh := e.densityAndDeriv(store, g.R, h, neighbourScratch[:n])
		f := rho*math.Pow(h, float64(e.Dim)) - target
		if math.Abs(f) < e.HTolerance*target {
			g.H = h
			g.Rho = rho
			g.Omega = e.computeOmega(rho, drhoDh, h)
			return nil
		}

		if f > 0 {
			hHi, haveBracket = h, true
		} else {
			hLo, haveBracket = h, true
		}

		df := drhoDh*math.Pow(h, float64(e.Dim)) + float64(e.Dim)*rho*math.Pow(h, float64(e.Dim-1))
		var next float64
		if df != 0 {
			next = h - f/df
		}
		if haveBracket && hLo > 0 && hHi > 0 && (next <= hLo || next >= hHi || df == 0) {
			next = 0.5 * (hLo + hHi)
		} else if next <= 0 {
			next = h * 1.5
		}
		h = next
	}

	return core.NewDiagnosticValue(core.ErrConvergenceFailure, "sph.Engine.SolveDensityAndH", h)
}

func (e *Engine) densityAndDeriv(store *particle.GasStore, r particle.Vec, h float64, neighbours []int) (rho, drhoDh float64) {
	for _, j := range neighbours {
		pj := store.Get(j)
		dist := distance(r, pj.R, e.Dim)
		rho += pj.Mass * e.Kernel.W(dist, h, e.Dim)
		drhoDh += pj.Mass * e.Kernel.DWDH(dist, h, e.Dim)
	}
	return
}

func (e *Engine) computeOmega(rho, drhoDh, h float64) float64 {
	return 1.0 - (h/(float64(e.Dim)*rho))*drhoDh
}

func distance(a, b particle.Vec, d int) float64 {
	s := 0.0
	for k := 0; k < d; k++ {
		dx := a[k] - b[k]
		s += dx * dx
	}
	return math.Sqrt(s)
}

// HydroForces accumulates the symmetrised pressure gradient and
// Monaghan artificial-viscosity terms into every active particle's A
// and DUDt fields (spec.md 4.E). Forces are computed pairwise over each
// particle's gather+ghost neighbour list and are not symmetrised across
// the pair in a single pass - each particle's own loop already visits
// every neighbour, including ghosts, so double counting is avoided by
// construction. Each ParallelForParticles worker gets its own neighbour
// scratch buffer, allocated inside the closure rather than shared by
// the caller, since the number of concurrently running workers is an
// internal CPUBackend/CUDABackend decision the caller has no way to
// size a scratch pool against.
func (e *Engine) HydroForces(store *particle.GasStore) {
	n := store.Count()
	e.Backend.ParallelForParticles(n, func(lo, hi int) {
		scratch := make([]int, e.MaxNeighbours)
		for i := lo; i < hi; i++ {
			gi := store.Get(i)
			if !gi.Active || gi.Type != particle.TypeGas {
				continue
			}
			e.hydroForceOne(store, i, gi, scratch)
		}
	})
}

func (e *Engine) hydroForceOne(store *particle.GasStore, i int, gi *particle.Gas, scratch []int) {
	kernRange := e.Kernel.Range()
	cnt, err := e.Tree.ComputeNeighbourAndGhostList(store, [3]float64{gi.R[0], gi.R[1], gi.R[2]}, gi.H, kernRange, scratch)
	if err != nil {
		cnt = len(scratch)
	}

	var accel particle.Vec
	var dudt float64

	for _, j := range scratch[:cnt] {
		if j == i {
			continue
		}
		gj := store.Get(j)
		r := distance(gi.R, gj.R, e.Dim)
		if r <= 0 {
			continue
		}

		dwi := e.Kernel.DWDR(r, gi.H, e.Dim)
		dwj := e.Kernel.DWDR(r, gj.H, e.Dim)

		pTerm := gi.P/(gi.Omega*gi.Rho*gi.Rho)*dwi + gj.P/(gj.Omega*gj.Rho*gj.Rho)*dwj

		visc := e.artificialViscosity(gi, gj, r)

		var dr, dv particle.Vec
		var vDotR float64
		for k := 0; k < e.Dim; k++ {
			dr[k] = gi.R[k] - gj.R[k]
			dv[k] = gi.V[k] - gj.V[k]
			vDotR += dv[k] * dr[k]
		}

		coeff := -gj.Mass * (pTerm + visc) / r
		for k := 0; k < e.Dim; k++ {
			accel[k] += coeff * dr[k]
		}
		dudt += 0.5 * gj.Mass * (pTerm + visc) * vDotR / r
	}

	gi.A = accel
	gi.DUDt = dudt
}

func (e *Engine) artificialViscosity(gi, gj *particle.Gas, r float64) float64 {
	var dr, dv particle.Vec
	var vDotR float64
	for k := 0; k < e.Dim; k++ {
		dr[k] = gi.R[k] - gj.R[k]
		dv[k] = gi.V[k] - gj.V[k]
		vDotR += dv[k] * dr[k]
	}
	if vDotR >= 0 {
		return 0 // approaching pairs only
	}

	hMean := 0.5 * (gi.H + gj.H)
	csMean := 0.5 * (gi.Cs + gj.Cs)
	rhoMean := 0.5 * (gi.Rho + gj.Rho)

	mu := hMean * vDotR / (r*r + 0.01*hMean*hMean)
	return (-e.AlphaVisc*csMean*mu + e.BetaVisc*mu*mu) / rhoMean
}

// GravityForces walks the tree's Barnes-Hut interaction list for each
// active particle, summing the monopole multipole and direct terms,
// softened at separations below h (spec.md 4.E).
func (e *Engine) GravityForces(store *particle.GasStore) {
	n := store.Count()
	e.Backend.ParallelForParticles(n, func(lo, hi int) {
		var lists tree.InteractionLists
		for i := lo; i < hi; i++ {
			gi := store.Get(i)
			if !gi.Active {
				continue
			}
			e.Tree.ComputeGravityInteractionList([3]float64{gi.R[0], gi.R[1], gi.R[2]}, &lists)

			var accel particle.Vec
			for _, j := range lists.Direct {
				if j == i {
					continue
				}
				gj := store.Get(j)
				accel = addSoftenedTerm(accel, gi.R, gj.R, gj.Mass, gi.H, e.Dim, e.Gravity)
			}
			for _, c := range lists.Multipole {
				cell := &e.Tree.Cells[c]
				accel = addSoftenedTerm(accel, gi.R, cell.COM, cell.Mass, gi.H, e.Dim, e.Gravity)
				if e.Tree.QuadrupoleEnabled {
					accel = addQuadrupoleTerm(accel, gi.R, cell, e.Gravity)
				}
			}
			for k := 0; k < e.Dim; k++ {
				gi.A[k] += accel[k]
			}
		}
	})
}

func addSoftenedTerm(accel, ri, rj particle.Vec, mass, h float64, d int, g float64) particle.Vec {
	var dr particle.Vec
	distSq := h * h * 0.01
	for k := 0; k < d; k++ {
		dr[k] = rj[k] - ri[k]
		distSq += dr[k] * dr[k]
	}
	invDist3 := 1.0 / (distSq * math.Sqrt(distSq))
	for k := 0; k < d; k++ {
		accel[k] += g * mass * dr[k] * invDist3
	}
	return accel
}

// addQuadrupoleTerm adds the quadrupole correction to a cell's monopole
// acceleration contribution, derived from the traceless moment tensor
// cell.Quad (spec.md 4.C's multipole-moment stocking): for a field
// point displaced from the cell's COM by dr = COM-ri, the l=2 term of
// the potential's gradient gives
//
//	a_quad = G * [ (5/2)(dr·Q·dr) dr / r^7 - Q·dr / r^5 ]
//
// Unsoftened (it only fires for accepted far-field cells, never the
// near-field direct-sum terms addSoftenedTerm handles).
func addQuadrupoleTerm(accel, ri particle.Vec, cell *tree.Cell, g float64) particle.Vec {
	dx := cell.COM[0] - ri[0]
	dy := cell.COM[1] - ri[1]
	dz := cell.COM[2] - ri[2]
	rSq := dx*dx + dy*dy + dz*dz
	if rSq <= 0 {
		return accel
	}
	q := cell.Quad
	qDx := q[0]*dx + q[1]*dy + q[2]*dz
	qDy := q[1]*dx + q[3]*dy + q[4]*dz
	qDz := q[2]*dx + q[4]*dy + q[5]*dz
	s := dx*qDx + dy*qDy + dz*qDz

	invR := 1.0 / math.Sqrt(rSq)
	invR5 := invR * invR * invR * invR * invR
	invR7 := invR5 * invR * invR
	coeff := 2.5 * s * invR7

	accel[0] += g * (coeff*dx - qDx*invR5)
	accel[1] += g * (coeff*dy - qDy*invR5)
	accel[2] += g * (coeff*dz - qDz*invR5)
	return accel
}
