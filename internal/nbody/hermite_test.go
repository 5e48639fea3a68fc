package nbody

import (
	"math"
	"testing"

	"github.com/san-kum/gandalf/internal/particle"
)

func twoBodyStore(dim int) *particle.StarStore {
	s := particle.NewStarStore(dim, 2)
	s.Append(particle.Star{R: particle.Vec{-0.5, 0, 0}, V: particle.Vec{0, -0.5, 0}, Mass: 1, H: 1e-3})
	s.Append(particle.Star{R: particle.Vec{0.5, 0, 0}, V: particle.Vec{0, 0.5, 0}, Mass: 1, H: 1e-3})
	return s
}

func TestHermite4ConservesEnergyRoughlyOverOneOrbit(t *testing.T) {
	dim := 3
	store := twoBodyStore(dim)
	h := NewHermite4(dim, 1.0, 2, 0.01)

	h.ensureScratch(store.Count())
	// Prime A/ADot by evaluating directly at the initial state.
	h.predR[0], h.predV[0] = store.Get(0).R, store.Get(0).V
	h.predR[1], h.predV[1] = store.Get(1).R, store.Get(1).V
	h.Evaluate(store)
	store.Get(0).A, store.Get(0).ADot = h.a1[0], h.adot1[0]
	store.Get(1).A, store.Get(1).ADot = h.a1[1], h.adot1[1]

	// the pair has specific energy -0.75, so a = 2/3 and the period is
	// about 2.42; 2500 steps of 0.001 cover one full orbit.
	dt := 0.001
	energy0 := twoBodyEnergy(store, 1.0, dim)

	for step := 0; step < 2500; step++ {
		h.Predict(store, dt)
		h.Evaluate(store)
		h.Correct(store, dt)
	}

	energy1 := twoBodyEnergy(store, 1.0, dim)
	drift := math.Abs((energy1 - energy0) / energy0)
	if drift > 0.05 {
		t.Fatalf("relative energy drift = %v, want < 0.05 over one orbit", drift)
	}
}

func twoBodyEnergy(store *particle.StarStore, g float64, dim int) float64 {
	a, b := store.Get(0), store.Get(1)
	var vSq0, vSq1, rSq float64
	for k := 0; k < dim; k++ {
		vSq0 += a.V[k] * a.V[k]
		vSq1 += b.V[k] * b.V[k]
		dx := a.R[k] - b.R[k]
		rSq += dx * dx
	}
	kinetic := 0.5*a.Mass*vSq0 + 0.5*b.Mass*vSq1
	potential := -g * a.Mass * b.Mass / math.Sqrt(rSq)
	return kinetic + potential
}

func TestTimestepFiniteForMovingPair(t *testing.T) {
	dim := 3
	store := twoBodyStore(dim)
	h := NewHermite4(dim, 1.0, 2, 0.01)
	h.ensureScratch(store.Count())
	h.predR[0], h.predV[0] = store.Get(0).R, store.Get(0).V
	h.predR[1], h.predV[1] = store.Get(1).R, store.Get(1).V
	h.Evaluate(store)
	store.Get(0).A, store.Get(0).ADot = h.a1[0], h.adot1[0]
	store.Get(1).A, store.Get(1).ADot = h.a1[1], h.adot1[1]
	store.Get(0).ADDot = particle.Vec{1e-3, 1e-3, 0}
	store.Get(1).ADDot = particle.Vec{1e-3, 1e-3, 0}
	store.Get(0).A3Dot = particle.Vec{1e-3, 1e-3, 0}
	store.Get(1).A3Dot = particle.Vec{1e-3, 1e-3, 0}

	dt := h.Timestep(store.Get(0))
	if math.IsInf(dt, 1) || dt <= 0 {
		t.Fatalf("Timestep = %v, want a finite positive value", dt)
	}
}

func TestCrossingTimeFiniteForBoundPair(t *testing.T) {
	dim := 3
	store := twoBodyStore(dim)
	ct := CrossingTime(store, 1.0)
	if math.IsInf(ct, 1) || ct <= 0 {
		t.Fatalf("CrossingTime = %v, want finite positive", ct)
	}
}
