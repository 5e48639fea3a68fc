package nbody

import (
	"math"

	"github.com/san-kum/gandalf/internal/particle"
)

// Hermite4 advances a particle.StarStore with the 4th-order Hermite
// predictor-evaluator-corrector scheme (spec.md 4.F). Scratch buffers
// are struct fields, grown on demand by ensureScratch and reused
// across steps, exactly as integrators/rk4.go and integrators/verlet.go
// do for their flat state-vector scratch - generalized here to
// per-particle predicted-state records instead of a []float64.
type Hermite4 struct {
	Dim     int
	Gravity float64
	Npec    int     // predictor-evaluator-corrector iteration count
	Eta     float64 // Aarseth timestep safety factor

	predR, predV []particle.Vec
	a1, adot1    []particle.Vec
}

func NewHermite4(dim int, gravity float64, npec int, eta float64) *Hermite4 {
	return &Hermite4{Dim: dim, Gravity: gravity, Npec: npec, Eta: eta}
}

func (h *Hermite4) ensureScratch(n int) {
	if len(h.predR) != n {
		h.predR = make([]particle.Vec, n)
		h.predV = make([]particle.Vec, n)
		h.a1 = make([]particle.Vec, n)
		h.adot1 = make([]particle.Vec, n)
	}
}

// Predict advances every active star's position and velocity to t+dt
// using its current acceleration and jerk (spec.md 4.F), leaving the
// result in the integrator's scratch buffers for Evaluate.
func (h *Hermite4) Predict(store *particle.StarStore, dt float64) {
	n := store.Count()
	h.ensureScratch(n)
	dt2 := dt * dt

	store.ForEachActive(func(i int, st *particle.Star) {
		for k := 0; k < h.Dim; k++ {
			h.predR[i][k] = st.R[k] + st.V[k]*dt + 0.5*st.A[k]*dt2 + (1.0/6.0)*st.ADot[k]*dt2*dt
			h.predV[i][k] = st.V[k] + st.A[k]*dt + 0.5*st.ADot[k]*dt2
		}
	})
}

// Evaluate computes acceleration and jerk at the predicted state by
// direct pairwise summation over every active star (spec.md 4.F);
// SubsystemIntegrator adds its perturbers' contribution to a1/adot1
// after Evaluate returns.
func (h *Hermite4) Evaluate(store *particle.StarStore) {
	n := store.Count()
	h.ensureScratch(n)

	active := make([]int, 0, n)
	store.ForEachActive(func(i int, st *particle.Star) { active = append(active, i) })

	for _, i := range active {
		var a, adot particle.Vec
		ri, vi := h.predR[i], h.predV[i]
		for _, j := range active {
			if j == i {
				continue
			}
			mj := store.Get(j).Mass
			rj, vj := h.predR[j], h.predV[j]

			var dr, dv particle.Vec
			distSq := store.Get(i).H * store.Get(i).H * 1e-4
			for k := 0; k < h.Dim; k++ {
				dr[k] = rj[k] - ri[k]
				dv[k] = vj[k] - vi[k]
				distSq += dr[k] * dr[k]
			}
			invDist := 1.0 / math.Sqrt(distSq)
			invDist3 := invDist * invDist * invDist
			invDist5 := invDist3 * invDist * invDist

			var rdotv float64
			for k := 0; k < h.Dim; k++ {
				rdotv += dr[k] * dv[k]
			}

			for k := 0; k < h.Dim; k++ {
				a[k] += h.Gravity * mj * dr[k] * invDist3
				adot[k] += h.Gravity * mj * (dv[k]*invDist3 - 3*rdotv*dr[k]*invDist5)
			}
		}
		h.a1[i] = a
		h.adot1[i] = adot
	}
}

// Correct applies the Hermite corrector using the predicted (a0,adot0)
// stored on each star and the (a1,adot1) Evaluate computed at the
// predicted state, then writes the corrected r,v,a,adot back onto the
// star record (spec.md 4.F). Call Predict/Evaluate/Correct in a loop
// Npec times for the full predictor-evaluator-corrector cycle.
func (h *Hermite4) Correct(store *particle.StarStore, dt float64) {
	dt2 := dt * dt
	dt3 := dt2 * dt

	store.ForEachActive(func(i int, st *particle.Star) {
		var a2, a3 particle.Vec
		for k := 0; k < h.Dim; k++ {
			a0, adot0 := st.A[k], st.ADot[k]
			a1, adot1 := h.a1[i][k], h.adot1[i][k]

			a2[k] = (-6*(a0-a1) - dt*(4*adot0+2*adot1)) / dt2
			a3[k] = (12*(a0-a1) + 6*dt*(adot0+adot1)) / dt3
		}

		for k := 0; k < h.Dim; k++ {
			st.R[k] = h.predR[i][k] + (dt2*dt2/24.0)*a2[k] + (dt2*dt3/120.0)*a3[k]
			st.V[k] = h.predV[i][k] + (dt3/6.0)*a2[k] + (dt2*dt2/24.0)*a3[k]
			st.A[k] = h.a1[i][k]
			st.ADot[k] = h.adot1[i][k]
			st.ADDot[k] = a2[k]
			st.A3Dot[k] = a3[k]
		}
	})
}

// Timestep computes Aarseth's generalized individual timestep from the
// star's current acceleration and its first three derivatives
// (spec.md 4.F's timestep criterion).
func (h *Hermite4) Timestep(st *particle.Star) float64 {
	var aSq, adotSq, addotSq, a3dotSq float64
	for k := 0; k < h.Dim; k++ {
		aSq += st.A[k] * st.A[k]
		adotSq += st.ADot[k] * st.ADot[k]
		addotSq += st.ADDot[k] * st.ADDot[k]
		a3dotSq += st.A3Dot[k] * st.A3Dot[k]
	}
	a, adot := math.Sqrt(aSq), math.Sqrt(adotSq)
	addot, a3dot := math.Sqrt(addotSq), math.Sqrt(a3dotSq)

	num := a*addot + adot*adot
	den := adot*a3dot + addot*addot
	if den <= 0 || num <= 0 {
		return math.Inf(1)
	}
	return h.Eta * math.Sqrt(num/den)
}
