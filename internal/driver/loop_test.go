package driver

import (
	"testing"
	"time"

	"github.com/san-kum/gandalf/internal/config"
	"github.com/san-kum/gandalf/internal/core"
	"github.com/san-kum/gandalf/internal/particle"
)

func uniformGasGrid(dim, per int, spacing float64) *particle.GasStore {
	n := per * per * per
	s := particle.NewGasStore(dim, n)
	for i := 0; i < n; i++ {
		ix := i % per
		iy := (i / per) % per
		iz := i / (per * per)
		r := particle.Vec{float64(ix) * spacing, float64(iy) * spacing, float64(iz) * spacing}
		s.Append(particle.Gas{R: r, Mass: 1.0, H: spacing * 1.5, U: 1.0, Type: particle.TypeGas})
	}
	return s
}

func smallConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Ndim = 3
	cfg.Boundary.BoxMin = [3]float64{-1, -1, -1}
	cfg.Boundary.BoxMax = [3]float64{3, 3, 3}
	cfg.Time.LevelsMax = 1
	cfg.Time.Tmax = 10.0
	cfg.Time.NTreeBuildStep = 1
	cfg.Time.NTreeStockStep = 1
	cfg.Snapshot.DtSnap = 1e9 // keep the smoke test from touching disk
	return cfg
}

func TestAdvanceRunsOneTickWithoutError(t *testing.T) {
	cfg := smallConfig()
	ctx, err := core.NewContext(cfg.Ndim, 1, 0)
	if err != nil {
		t.Fatalf("NewContext: %v", err)
	}

	gas := uniformGasGrid(3, 3, 0.3)
	stars := particle.NewStarStore(3, 2)

	ml := New(ctx, cfg, gas, stars)

	more, err := ml.Advance()
	if err != nil {
		t.Fatalf("Advance: %v", err)
	}
	if ml.T <= 0 {
		t.Fatalf("expected T to advance past zero, got %v", ml.T)
	}
	if !more && ml.T < cfg.Time.Tmax {
		t.Fatalf("Advance reported done before reaching Tmax")
	}
}

func TestAdvanceStopsAtWallClock(t *testing.T) {
	cfg := smallConfig()
	ctx, err := core.NewContext(cfg.Ndim, 1, time.Nanosecond)
	if err != nil {
		t.Fatalf("NewContext: %v", err)
	}
	time.Sleep(time.Millisecond)

	gas := uniformGasGrid(3, 2, 0.3)
	stars := particle.NewStarStore(3, 0)
	ml := New(ctx, cfg, gas, stars)

	more, err := ml.Advance()
	if err != nil {
		t.Fatalf("Advance: %v", err)
	}
	if more {
		t.Fatal("expected Advance to stop once tmax_wallclock elapsed")
	}
	if ml.T != 0 {
		t.Fatalf("expected no progress after wallclock exceeded, got T=%v", ml.T)
	}
}

func TestBuildSystemsNoStarsReturnsNil(t *testing.T) {
	cfg := smallConfig()
	ctx, _ := core.NewContext(cfg.Ndim, 1, 0)
	gas := uniformGasGrid(3, 2, 0.3)
	stars := particle.NewStarStore(3, 0)
	ml := New(ctx, cfg, gas, stars)

	if recs := ml.BuildSystems(); recs != nil {
		t.Fatalf("expected nil binary records with no stars, got %v", recs)
	}
}
