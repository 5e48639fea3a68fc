package particle

import "testing"

func TestGasStoreAppendAndGet(t *testing.T) {
	s := NewGasStore(2, 4)
	idx := s.Append(Gas{R: Vec{1, 2, 0}, Mass: 1.0})

	if idx != 0 {
		t.Fatalf("expected index 0, got %d", idx)
	}
	if s.Count() != 1 {
		t.Fatalf("expected count 1, got %d", s.Count())
	}
	g := s.Get(0)
	if !g.Active {
		t.Error("appended particle should be active")
	}
	if g.R[0] != 1 || g.R[1] != 2 {
		t.Errorf("position mismatch: %+v", g.R)
	}
}

func TestGasStoreGhostLifecycle(t *testing.T) {
	s := NewGasStore(2, 4)
	real := s.Append(Gas{R: Vec{0, 0, 0}, V: Vec{1, 0, 0}, Mass: 1.0})

	ghostIdx := s.AppendGhost(real, Vec{10, 0, 0}, Vec{1, 0, 0})
	if s.Total() != 2 {
		t.Fatalf("expected total 2, got %d", s.Total())
	}
	if s.Count() != 1 {
		t.Fatalf("ghost must not count as real, got %d", s.Count())
	}
	ghost := s.Get(ghostIdx)
	if ghost.IOrig != real {
		t.Errorf("expected IOrig %d, got %d", real, ghost.IOrig)
	}
	if ghost.Type != TypeGhost {
		t.Errorf("expected TypeGhost, got %v", ghost.Type)
	}

	s.ClearGhosts()
	if s.Total() != 1 {
		t.Fatalf("ClearGhosts should drop ghosts, total=%d", s.Total())
	}
}

func TestGasStoreCompactDead(t *testing.T) {
	s := NewGasStore(2, 4)
	s.Append(Gas{Mass: 1})
	s.Append(Gas{Mass: 1, Type: TypeDead})
	s.Append(Gas{Mass: 1})

	remap := s.CompactDead()

	if s.Count() != 2 {
		t.Fatalf("expected 2 survivors, got %d", s.Count())
	}
	if remap[1] != -1 {
		t.Errorf("dead particle should remap to -1, got %d", remap[1])
	}
	if remap[0] == -1 || remap[2] == -1 {
		t.Errorf("survivors should not remap to -1: %v", remap)
	}
}
