package ghost

import (
	"testing"

	"github.com/san-kum/gandalf/internal/particle"
)

func newTestStore() *particle.GasStore {
	s := particle.NewGasStore(2, 16)
	s.Append(particle.Gas{R: particle.Vec{0.05, 0.05, 0}, Mass: 1, H: 0.1})
	return s
}

func TestCreateGhostsPeriodicCorner(t *testing.T) {
	s := newTestStore()
	box := Box{Min: particle.Vec{0, 0, 0}, Max: particle.Vec{1, 1, 0}}
	boundary := [3]AxisBoundary{
		{Lo: Periodic, Hi: Periodic},
		{Lo: Periodic, Hi: Periodic},
	}
	m := NewManager(2, box, boundary, 3.0, 1000)

	if err := m.CreateGhosts(s, 2); err != nil {
		t.Fatalf("CreateGhosts: %v", err)
	}

	// particle sits near the (0,0) corner: x-pass should create one
	// ghost at x+1, then the y-pass must rescan it to also create the
	// diagonal corner image at (x+1, y+1).
	if s.Total() < 4 {
		t.Fatalf("Total() = %d, want at least 4 (real + x-ghost + y-ghost + corner-ghost)", s.Total())
	}

	foundCorner := false
	for i := s.Count(); i < s.Total(); i++ {
		g := s.Get(i)
		if g.R[0] > 0.9 && g.R[1] > 0.9 {
			foundCorner = true
		}
	}
	if !foundCorner {
		t.Fatal("no diagonal corner ghost was created")
	}
}

func TestCreateGhostsMirrorReflectsVelocity(t *testing.T) {
	s := particle.NewGasStore(1, 16)
	s.Append(particle.Gas{R: particle.Vec{0.02, 0, 0}, V: particle.Vec{1, 0, 0}, Mass: 1, H: 0.1})
	box := Box{Min: particle.Vec{0, 0, 0}, Max: particle.Vec{1, 0, 0}}
	boundary := [3]AxisBoundary{{Lo: Mirror, Hi: Open}}
	m := NewManager(1, box, boundary, 3.0, 1000)

	if err := m.CreateGhosts(s, 1); err != nil {
		t.Fatalf("CreateGhosts: %v", err)
	}
	if s.Total() != 2 {
		t.Fatalf("Total() = %d, want 2", s.Total())
	}
	gh := s.Get(1)
	if gh.V[0] != -1 {
		t.Fatalf("mirror ghost V[0] = %v, want -1", gh.V[0])
	}
	if gh.R[0] >= 0 {
		t.Fatalf("mirror ghost R[0] = %v, want < 0", gh.R[0])
	}
}

func TestCreateGhostsClearsPreviousSet(t *testing.T) {
	s := newTestStore()
	box := Box{Min: particle.Vec{0, 0, 0}, Max: particle.Vec{1, 1, 0}}
	boundary := [3]AxisBoundary{{Lo: Periodic, Hi: Periodic}, {Lo: Periodic, Hi: Periodic}}
	m := NewManager(2, box, boundary, 3.0, 1000)

	if err := m.CreateGhosts(s, 2); err != nil {
		t.Fatalf("CreateGhosts: %v", err)
	}
	first := s.Total()
	if err := m.CreateGhosts(s, 2); err != nil {
		t.Fatalf("CreateGhosts: %v", err)
	}
	if s.Total() != first {
		t.Fatalf("second CreateGhosts produced %d total, want %d (ghosts must not accumulate)", s.Total(), first)
	}
}

func TestCreateGhostsCapacityExceeded(t *testing.T) {
	s := newTestStore()
	box := Box{Min: particle.Vec{0, 0, 0}, Max: particle.Vec{1, 1, 0}}
	boundary := [3]AxisBoundary{{Lo: Periodic, Hi: Periodic}, {Lo: Periodic, Hi: Periodic}}
	m := NewManager(2, box, boundary, 3.0, 2) // real particle already counts as 1 of 2

	err := m.CreateGhosts(s, 2)
	if err == nil {
		t.Fatal("expected capacity error, got nil")
	}
}
