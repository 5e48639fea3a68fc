package kernel

import (
	"math"
	"testing"
)

func TestCubicSplineVanishesAtRange(t *testing.T) {
	k := CubicSpline{}
	h := 1.0
	if w := k.W(2.0*h, h, 3); w != 0 {
		t.Errorf("expected zero kernel at kernrange, got %g", w)
	}
	if w := k.W(0, h, 3); w <= 0 {
		t.Errorf("expected positive kernel at r=0, got %g", w)
	}
}

func TestCubicSplineDWDRNumeric(t *testing.T) {
	k := CubicSpline{}
	h := 1.0
	r := 0.7
	eps := 1e-6

	analytic := k.DWDR(r, h, 3)
	numeric := (k.W(r+eps, h, 3) - k.W(r-eps, h, 3)) / (2 * eps)

	if math.Abs(analytic-numeric) > 1e-4 {
		t.Errorf("DWDR mismatch: analytic=%g numeric=%g", analytic, numeric)
	}
}

func TestCubicSplineDWDHNumeric(t *testing.T) {
	k := CubicSpline{}
	r := 0.5
	h := 1.0
	eps := 1e-6

	analytic := k.DWDH(r, h, 3)
	numeric := (k.W(r, h+eps, 3) - k.W(r, h-eps, 3)) / (2 * eps)

	if math.Abs(analytic-numeric) > 1e-3 {
		t.Errorf("DWDH mismatch: analytic=%g numeric=%g", analytic, numeric)
	}
}

func TestQuinticRangeIsThree(t *testing.T) {
	k := Quintic{}
	if k.Range() != 3.0 {
		t.Errorf("expected kernrange 3, got %g", k.Range())
	}
	if w := k.W(2.9, 1.0, 3); w <= 0 {
		t.Errorf("expected nonzero kernel just inside range, got %g", w)
	}
	if w := k.W(3.1, 1.0, 3); w != 0 {
		t.Errorf("expected zero kernel beyond range, got %g", w)
	}
}

func TestIsothermalEOS(t *testing.T) {
	e := Isothermal{Cs0: 2.0}
	if cs := e.SoundSpeed(1.0, 0); cs != 2.0 {
		t.Errorf("expected cs=2.0, got %g", cs)
	}
	if p := e.Pressure(1.0, 0); p != 4.0 {
		t.Errorf("expected P=4.0, got %g", p)
	}
}

func TestAdiabaticEOS(t *testing.T) {
	e := Adiabatic{Gamma: 1.4}
	p := e.Pressure(1.0, 1.0)
	if math.Abs(p-0.4) > 1e-12 {
		t.Errorf("expected P=0.4, got %g", p)
	}
	cs := e.SoundSpeed(1.0, 1.0)
	if cs <= 0 {
		t.Errorf("expected positive sound speed, got %g", cs)
	}
}
