package sink

import (
	"testing"

	"github.com/san-kum/gandalf/internal/particle"
	"github.com/san-kum/gandalf/internal/tree"
)

func buildTestTree(store *particle.GasStore, dim int) *tree.KDTree {
	p := tree.DefaultParams(dim)
	tr := tree.BuildTree(store, store.Count(), p)
	tree.StockTree(tr, store, nil)
	return tr
}

func TestScanForSeedsFindsDenseCore(t *testing.T) {
	dim := 3
	store := particle.NewGasStore(dim, 16)
	// a dense clump at the origin, surrounded by a sparse halo.
	store.Append(particle.Gas{R: particle.Vec{0, 0, 0}, Mass: 10, Rho: 100, H: 0.1, U: 0.01, Type: particle.TypeGas})
	store.Append(particle.Gas{R: particle.Vec{0.05, 0, 0}, Mass: 10, Rho: 90, H: 0.1, U: 0.01, Type: particle.TypeGas})
	store.Append(particle.Gas{R: particle.Vec{5, 0, 0}, Mass: 1, Rho: 0.1, H: 0.1, U: 0.01, Type: particle.TypeGas})

	tr := buildTestTree(store, dim)
	m := &Manager{Dim: dim, Gravity: 1.0, RhoCrit: 1.0, RCreate: 0.2, RSink: 0.3}

	created := m.ScanForSeeds(store, tr)
	if len(created) == 0 {
		t.Fatal("expected at least one sink seed in the dense clump")
	}
	for _, idx := range created {
		if m.Sinks[idx].Mass <= 0 {
			t.Fatalf("sink %d has non-positive mass %v", idx, m.Sinks[idx].Mass)
		}
	}
}

func TestAccreteConservesMomentum(t *testing.T) {
	dim := 3
	store := particle.NewGasStore(dim, 4)
	store.Append(particle.Gas{R: particle.Vec{0, 0, 0}, V: particle.Vec{1, 0, 0}, Mass: 1, H: 0.1, Type: particle.TypeGas})
	store.Append(particle.Gas{R: particle.Vec{0.01, 0, 0}, V: particle.Vec{-1, 0, 0}, Mass: 1, H: 0.1, Type: particle.TypeGas})

	tr := buildTestTree(store, dim)
	m := &Manager{Dim: dim, Gravity: 1.0, RhoCrit: 0, RCreate: 1, RSink: 1}
	m.Sinks = []Sink{{R: particle.Vec{0, 0, 0}, V: particle.Vec{0, 0, 0}, Mass: 5, RSink: 1}}

	totalPBefore := 5.0*0 + 1*1 + 1*(-1)
	m.Accrete(store, tr, 1.0)

	sink := m.Sinks[0]
	totalPAfter := sink.Mass * sink.V[0]
	if diff := totalPAfter - totalPBefore; diff > 1e-9 || diff < -1e-9 {
		t.Fatalf("momentum not conserved: before=%v after=%v", totalPBefore, totalPAfter)
	}

	for i := 0; i < store.Count(); i++ {
		g := store.Get(i)
		if g.Type != particle.TypeSinkAccreted {
			t.Fatalf("gas particle %d not marked accreted: %+v", i, g.Type)
		}
	}
}
