package ic

import (
	"math"
	"math/rand"

	"github.com/san-kum/gandalf/internal/config"
	"github.com/san-kum/gandalf/internal/particle"
)

// SodShocktube lays Ngas equal-mass particles along the x-axis in two
// uniform slabs (4x the particle number density on the left of a
// density/pressure jump at the box midpoint), the 1D hydrodynamic
// Riemann test spec.md §8 names.
func SodShocktube(cfg *config.Config) (*particle.GasStore, *particle.StarStore) {
	const n = 400
	gas := particle.NewGasStore(cfg.Ndim, n)
	mid := 0.5 * (cfg.Boundary.BoxMin[0] + cfg.Boundary.BoxMax[0])
	lo, hi := cfg.Boundary.BoxMin[0], cfg.Boundary.BoxMax[0]

	nLeft := n * 4 / 5 // 4x the particle count per unit length on the left, matching the 4x density ratio
	spacingLeft := (mid - lo) / float64(nLeft)
	spacingRight := (hi - mid) / float64(n-nLeft)

	for i := 0; i < nLeft; i++ {
		x := lo + (float64(i)+0.5)*spacingLeft
		gas.Append(particle.Gas{
			R: particle.Vec{x, 0, 0}, Mass: spacingLeft, H: 2 * spacingLeft,
			U: 2.5, Type: particle.TypeGas,
		})
	}
	for i := 0; i < n-nLeft; i++ {
		x := mid + (float64(i)+0.5)*spacingRight
		gas.Append(particle.Gas{
			R: particle.Vec{x, 0, 0}, Mass: spacingLeft, H: 2 * spacingRight,
			U: 2.0, Type: particle.TypeGas,
		})
	}
	return gas, particle.NewStarStore(cfg.Ndim, 0)
}

// JeansInstability seeds a uniform-density cubic lattice with a single
// sinusoidal velocity perturbation along x, the classic test of
// self-gravitating collapse above (or stable oscillation below) the
// Jeans length.
func JeansInstability(cfg *config.Config) (*particle.GasStore, *particle.StarStore) {
	const per = 10
	n := per * per * per
	gas := particle.NewGasStore(cfg.Ndim, n)

	lo, hi := cfg.Boundary.BoxMin[0], cfg.Boundary.BoxMax[0]
	l := hi - lo
	spacing := l / float64(per)
	mass := 1.0 / float64(n)
	amp := 0.01 * spacing / 1.0 // small perturbation

	for ix := 0; ix < per; ix++ {
		for iy := 0; iy < per; iy++ {
			for iz := 0; iz < per; iz++ {
				x := lo + (float64(ix)+0.5)*spacing
				y := lo + (float64(iy)+0.5)*spacing
				z := lo + (float64(iz)+0.5)*spacing
				vx := amp * math.Sin(2*math.Pi*(x-lo)/l)
				gas.Append(particle.Gas{
					R: particle.Vec{x, y, z}, V: particle.Vec{vx, 0, 0},
					Mass: mass, H: 2.5 * spacing, U: 1.0, Type: particle.TypeGas,
				})
			}
		}
	}
	return gas, particle.NewStarStore(cfg.Ndim, 0)
}

// PlummerCluster samples Nstars positions and velocities from a
// Plummer sphere by inverse-transform sampling, the standard initial
// condition for a bound, self-gravitating star cluster, grounded on
// the same rand.NewSource(seed)-driven radial sampling
// physics.NBody.DefaultState uses for its bulge/halo populations.
func PlummerCluster(cfg *config.Config) (*particle.GasStore, *particle.StarStore) {
	const n = 200
	const scale = 1.0
	const totalMass = 1.0

	stars := particle.NewStarStore(cfg.Ndim, n)
	rnd := rand.New(rand.NewSource(cfg.Seed))
	massEach := totalMass / float64(n)

	for i := 0; i < n; i++ {
		// Plummer CDF inversion: r = a / sqrt(X^(-2/3) - 1).
		x := rnd.Float64()*0.999 + 0.0005
		r := scale / math.Sqrt(math.Pow(x, -2.0/3.0)-1.0)

		theta := math.Acos(1 - 2*rnd.Float64())
		phi := rnd.Float64() * 2 * math.Pi
		pos := particle.Vec{
			r * math.Sin(theta) * math.Cos(phi),
			r * math.Sin(theta) * math.Sin(phi),
			r * math.Cos(theta),
		}

		// escape velocity at r, then sample speed below it via
		// rejection on the Plummer distribution function's envelope.
		vEsc := math.Sqrt(2.0) * math.Pow(1+r*r/(scale*scale), -0.25)
		var speed float64
		for {
			q := rnd.Float64()
			g := q * q * math.Pow(1-q*q, 3.5)
			if rnd.Float64()*0.1 < g {
				speed = q * vEsc
				break
			}
		}
		vTheta := math.Acos(1 - 2*rnd.Float64())
		vPhi := rnd.Float64() * 2 * math.Pi
		vel := particle.Vec{
			speed * math.Sin(vTheta) * math.Cos(vPhi),
			speed * math.Sin(vTheta) * math.Sin(vPhi),
			speed * math.Cos(vTheta),
		}

		stars.Append(particle.Star{R: pos, V: vel, Mass: massEach, H: 0.05 * scale})
	}
	return particle.NewGasStore(cfg.Ndim, 0), stars
}

// BinaryOrbit places two stars on a circular orbit at the given
// separation, set up via vis-viva in the centre-of-mass frame.
func BinaryOrbit(cfg *config.Config) (*particle.GasStore, *particle.StarStore) {
	const m1, m2 = 1.0, 1.0
	const sep = 1.0
	const gravity = 1.0

	stars := particle.NewStarStore(cfg.Ndim, 2)
	mu := gravity * (m1 + m2)
	vCirc := math.Sqrt(mu / sep)

	r1 := sep * m2 / (m1 + m2)
	r2 := sep * m1 / (m1 + m2)
	v1 := vCirc * m2 / (m1 + m2)
	v2 := vCirc * m1 / (m1 + m2)

	stars.Append(particle.Star{R: particle.Vec{-r1, 0, 0}, V: particle.Vec{0, -v1, 0}, Mass: m1, H: 0.01})
	stars.Append(particle.Star{R: particle.Vec{r2, 0, 0}, V: particle.Vec{0, v2, 0}, Mass: m2, H: 0.01})
	return particle.NewGasStore(cfg.Ndim, 0), stars
}

// SinkAccretion seeds a dense, centrally-concentrated gas core inside
// a sparser ambient medium, built to cross rho_sink early and exercise
// sink.Manager's seeding and accretion paths.
func SinkAccretion(cfg *config.Config) (*particle.GasStore, *particle.StarStore) {
	const nCore, nAmbient = 300, 100
	gas := particle.NewGasStore(cfg.Ndim, nCore+nAmbient)
	rnd := rand.New(rand.NewSource(cfg.Seed))

	coreRadius := 0.03 // dense enough that the core's mean density clears rho_sink on its own
	coreMass := 1.0 / float64(nCore)
	for i := 0; i < nCore; i++ {
		r := coreRadius * math.Pow(rnd.Float64(), 1.0/3.0)
		theta := math.Acos(1 - 2*rnd.Float64())
		phi := rnd.Float64() * 2 * math.Pi
		pos := particle.Vec{
			r * math.Sin(theta) * math.Cos(phi),
			r * math.Sin(theta) * math.Sin(phi),
			r * math.Cos(theta),
		}
		gas.Append(particle.Gas{R: pos, Mass: coreMass, H: 0.02, U: 0.1, Type: particle.TypeGas})
	}

	ambientMass := 0.2 / float64(nAmbient)
	for i := 0; i < nAmbient; i++ {
		r := 0.3 + 0.7*rnd.Float64()
		theta := math.Acos(1 - 2*rnd.Float64())
		phi := rnd.Float64() * 2 * math.Pi
		pos := particle.Vec{
			r * math.Sin(theta) * math.Cos(phi),
			r * math.Sin(theta) * math.Sin(phi),
			r * math.Cos(theta),
		}
		gas.Append(particle.Gas{R: pos, Mass: ambientMass, H: 0.1, U: 1.0, Type: particle.TypeGas})
	}
	return gas, particle.NewStarStore(cfg.Ndim, 0)
}

// NNSystemTreeExample lays out three well-separated close pairs plus
// one single star, a deliberately clustered-but-sparse configuration
// exercising nntree.Build's mutual-nearest-neighbour agglomeration and
// BuildSubSystems' binary promotion on more than one pair at once.
func NNSystemTreeExample(cfg *config.Config) (*particle.GasStore, *particle.StarStore) {
	stars := particle.NewStarStore(cfg.Ndim, 8)
	pairs := []struct{ cx, cy, cz, sep, mass float64 }{
		{0, 0, 0, 0.05, 1.0},
		{5, 0, 0, 0.05, 1.0},
		{0, 5, 0, 0.05, 1.0},
	}
	for _, p := range pairs {
		vCirc := math.Sqrt(2 * p.mass / p.sep)
		stars.Append(particle.Star{R: particle.Vec{p.cx - p.sep/2, p.cy, p.cz}, V: particle.Vec{0, -vCirc / 2, 0}, Mass: p.mass, H: 0.01})
		stars.Append(particle.Star{R: particle.Vec{p.cx + p.sep/2, p.cy, p.cz}, V: particle.Vec{0, vCirc / 2, 0}, Mass: p.mass, H: 0.01})
	}
	stars.Append(particle.Star{R: particle.Vec{2.5, 2.5, 5}, V: particle.Vec{}, Mass: 1.0, H: 0.01})
	return particle.NewGasStore(cfg.Ndim, 0), stars
}

// Build dispatches to the scenario builder named by cfg.ICType,
// matching config.GetPreset's scenario-name keys.
func Build(cfg *config.Config) (*particle.GasStore, *particle.StarStore) {
	switch cfg.ICType {
	case "jeans_instability":
		return JeansInstability(cfg)
	case "plummer_cluster":
		return PlummerCluster(cfg)
	case "binary_orbit":
		return BinaryOrbit(cfg)
	case "sink_accretion":
		return SinkAccretion(cfg)
	case "nn_system_tree_example":
		return NNSystemTreeExample(cfg)
	default:
		return SodShocktube(cfg)
	}
}
