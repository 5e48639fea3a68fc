package metrics

import (
	"math"
	"testing"

	"github.com/san-kum/gandalf/internal/particle"
)

func TestEnergyDriftZeroWhenUnchanging(t *testing.T) {
	gas := particle.NewGasStore(3, 2)
	gas.Append(particle.Gas{V: particle.Vec{1, 0, 0}, Mass: 1, U: 0.5, Type: particle.TypeGas})

	m := NewEnergyDrift()
	m.Observe(gas, nil, 3)
	m.Observe(gas, nil, 3)
	m.Observe(gas, nil, 3)

	if m.Value() != 0 {
		t.Errorf("expected zero drift for an unchanging system, got %v", m.Value())
	}
}

func TestEnergyDriftDetectsChange(t *testing.T) {
	gas := particle.NewGasStore(3, 2)
	gas.Append(particle.Gas{V: particle.Vec{1, 0, 0}, Mass: 1, U: 0.5, Type: particle.TypeGas})

	m := NewEnergyDrift()
	m.Observe(gas, nil, 3)

	gas.Get(0).V = particle.Vec{2, 0, 0}
	m.Observe(gas, nil, 3)

	if m.Value() <= 0 {
		t.Errorf("expected positive drift after velocity change, got %v", m.Value())
	}
}

func TestMomentumDriftZeroForBalancedPair(t *testing.T) {
	gas := particle.NewGasStore(3, 2)
	gas.Append(particle.Gas{V: particle.Vec{1, 0, 0}, Mass: 1, Type: particle.TypeGas})
	gas.Append(particle.Gas{V: particle.Vec{-1, 0, 0}, Mass: 1, Type: particle.TypeGas})

	m := NewMomentumDrift()
	m.Observe(gas, nil, 3)
	m.Observe(gas, nil, 3)

	if math.Abs(m.Value()) > 1e-9 {
		t.Errorf("expected ~zero momentum drift, got %v", m.Value())
	}
}

func TestBoundaryViolationDetectsEscapedParticle(t *testing.T) {
	gas := particle.NewGasStore(3, 2)
	gas.Append(particle.Gas{R: particle.Vec{0.5, 0.5, 0.5}, Mass: 1, Type: particle.TypeGas})

	boxMin := particle.Vec{0, 0, 0}
	boxMax := particle.Vec{1, 1, 1}
	m := NewBoundaryViolation(boxMin, boxMax, 3)

	m.Observe(gas)
	if m.Value() != 1.0 {
		t.Fatalf("expected Value()==1.0 with no violation, got %v", m.Value())
	}

	gas.Get(0).R = particle.Vec{5, 5, 5}
	m.Observe(gas)
	if m.Value() != 0.5 {
		t.Fatalf("expected Value()==0.5 after one violating sample, got %v", m.Value())
	}
}

func TestSinkAccretionRateAveragesGrowth(t *testing.T) {
	m := NewSinkAccretionRate()
	m.Observe(0)
	m.Observe(1)
	m.Observe(3)

	if m.Value() != 1.5 {
		t.Fatalf("expected average growth 1.5, got %v", m.Value())
	}
}
