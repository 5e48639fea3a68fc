package kernel

import "math"

// EOS evaluates pressure, sound speed and temperature from density and
// internal energy (spec.md 4.B). Implementations are pure value types
// built once at setup from config, per the Non-goals: no re-derivation
// of EOS polynomial families beyond these.
type EOS interface {
	Pressure(rho, u float64) float64
	SoundSpeed(rho, u float64) float64
	Temperature(rho, u float64) float64
}

// Isothermal holds the gas at a fixed sound speed regardless of u.
type Isothermal struct {
	Cs0 float64
}

func (e Isothermal) Pressure(rho, u float64) float64    { return e.Cs0 * e.Cs0 * rho }
func (e Isothermal) SoundSpeed(rho, u float64) float64  { return e.Cs0 }
func (e Isothermal) Temperature(rho, u float64) float64 { return 0 }

// Adiabatic is the gamma-law EOS (gas_eos=energy_eqn).
type Adiabatic struct {
	Gamma float64
	MuBar float64 // mean molecular weight, for Temperature()
}

func (e Adiabatic) Pressure(rho, u float64) float64 {
	return (e.Gamma - 1.0) * rho * u
}

func (e Adiabatic) SoundSpeed(rho, u float64) float64 {
	if rho <= 0 {
		return 0
	}
	return math.Sqrt(e.Gamma * e.Pressure(rho, u) / rho)
}

func (e Adiabatic) Temperature(rho, u float64) float64 {
	return (e.Gamma - 1.0) * u * e.MuBar
}

// Barotropic follows a two-segment power law in density
// (gas_eos=barotropic2): isothermal below rho_crit, polytropic above.
type Barotropic struct {
	Cs0     float64
	RhoCrit float64
	Gamma   float64
}

func (e Barotropic) Pressure(rho, u float64) float64 {
	cs2 := e.Cs0 * e.Cs0
	if rho <= e.RhoCrit {
		return cs2 * rho
	}
	return cs2 * e.RhoCrit * math.Pow(rho/e.RhoCrit, e.Gamma)
}

func (e Barotropic) SoundSpeed(rho, u float64) float64 {
	if rho <= 0 {
		return e.Cs0
	}
	if rho <= e.RhoCrit {
		return e.Cs0
	}
	return e.Cs0 * math.Sqrt(e.Gamma*math.Pow(rho/e.RhoCrit, e.Gamma-1.0))
}

func (e Barotropic) Temperature(rho, u float64) float64 {
	return e.Pressure(rho, u) / math.Max(rho, 1e-300)
}

// Ionising adds a temperature floor/ceiling switch on top of an
// adiabatic base (gas_eos variants coupled with radiation=ionisation).
type Ionising struct {
	Base    Adiabatic
	TempMin float64
	TempMax float64
}

func (e Ionising) Pressure(rho, u float64) float64 { return e.Base.Pressure(rho, u) }

func (e Ionising) SoundSpeed(rho, u float64) float64 { return e.Base.SoundSpeed(rho, u) }

func (e Ionising) Temperature(rho, u float64) float64 {
	t := e.Base.Temperature(rho, u)
	if t < e.TempMin {
		return e.TempMin
	}
	if t > e.TempMax {
		return e.TempMax
	}
	return t
}
