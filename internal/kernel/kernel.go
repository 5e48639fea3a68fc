package kernel

import "math"

// Kernel evaluates W(s,h), its radial derivative, and its smoothing
// length derivative, for s=|r|/h over [0,kernrange] (spec.md 4.B).
// kernrange is the ratio, in units of h, beyond which the kernel
// support vanishes (2 for the cubic spline, 3 for the quintic).
type Kernel interface {
	// W returns the kernel value at separation r with smoothing
	// length h in d dimensions.
	W(r, h float64, d int) float64

	// DWDR returns dW/dr at separation r, smoothing length h.
	DWDR(r, h float64, d int) float64

	// DWDH returns dW/dh at separation r, smoothing length h, needed
	// by the density/h Newton solve's d(rho)/dh term.
	DWDH(r, h float64, d int) float64

	Range() float64
}

// sigmaCubic holds the M4 cubic-spline normalisation constant per
// dimension, hard-coded the way the teacher hard-codes poly6/spiky's
// normalisation in physics/sph.go.
var sigmaCubic = [4]float64{0, 2.0 / 3.0, 10.0 / (7.0 * math.Pi), 1.0 / math.Pi}

// CubicSpline is the standard M4 SPH kernel, kernrange=2.
type CubicSpline struct{}

func (CubicSpline) Range() float64 { return 2.0 }

func cubicF(s float64) float64 {
	switch {
	case s < 1.0:
		return 1.0 - 1.5*s*s + 0.75*s*s*s
	case s < 2.0:
		t := 2.0 - s
		return 0.25 * t * t * t
	default:
		return 0
	}
}

func cubicFPrime(s float64) float64 {
	switch {
	case s < 1.0:
		return -3.0*s + 2.25*s*s
	case s < 2.0:
		t := 2.0 - s
		return -0.75 * t * t
	default:
		return 0
	}
}

func (CubicSpline) W(r, h float64, d int) float64 {
	s := r / h
	return sigmaCubic[d] / math.Pow(h, float64(d)) * cubicF(s)
}

func (CubicSpline) DWDR(r, h float64, d int) float64 {
	s := r / h
	dWds := sigmaCubic[d] / math.Pow(h, float64(d)) * cubicFPrime(s)
	return dWds / h
}

func (k CubicSpline) DWDH(r, h float64, d int) float64 {
	s := r / h
	hd := math.Pow(h, float64(d))
	w := sigmaCubic[d] / hd * cubicF(s)
	dWds := sigmaCubic[d] / hd * cubicFPrime(s)
	return -(float64(d)*w + s*dWds) / h
}

// sigmaQuintic holds the quintic-spline normalisation constant per
// dimension, kernrange=3.
var sigmaQuintic = [4]float64{0, 1.0 / 120.0, 7.0 / (478.0 * math.Pi), 1.0 / (120.0 * math.Pi)}

type Quintic struct{}

func (Quintic) Range() float64 { return 3.0 }

func quinticF(s float64) float64 {
	p := func(x float64) float64 { return x * x * x * x * x }
	switch {
	case s < 1.0:
		return p(3-s) - 6*p(2-s) + 15*p(1-s)
	case s < 2.0:
		return p(3-s) - 6*p(2-s)
	case s < 3.0:
		return p(3 - s)
	default:
		return 0
	}
}

func quinticFPrime(s float64) float64 {
	p4 := func(x float64) float64 { return x * x * x * x }
	switch {
	case s < 1.0:
		return -5*p4(3-s) + 30*p4(2-s) - 75*p4(1-s)
	case s < 2.0:
		return -5*p4(3-s) + 30*p4(2-s)
	case s < 3.0:
		return -5 * p4(3-s)
	default:
		return 0
	}
}

func (Quintic) W(r, h float64, d int) float64 {
	s := r / h
	return sigmaQuintic[d] / math.Pow(h, float64(d)) * quinticF(s)
}

func (Quintic) DWDR(r, h float64, d int) float64 {
	s := r / h
	dWds := sigmaQuintic[d] / math.Pow(h, float64(d)) * quinticFPrime(s)
	return dWds / h
}

func (k Quintic) DWDH(r, h float64, d int) float64 {
	s := r / h
	hd := math.Pow(h, float64(d))
	w := sigmaQuintic[d] / hd * quinticF(s)
	dWds := sigmaQuintic[d] / hd * quinticFPrime(s)
	return -(float64(d)*w + s*dWds) / h
}
