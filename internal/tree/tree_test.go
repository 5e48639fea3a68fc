package tree

import (
	"math/rand"
	"testing"

	"github.com/san-kum/gandalf/internal/particle"
)

type fakeSource struct {
	pos  []particle.Vec
	vel  []particle.Vec
	mass []float64
	h    []float64
}

func (f *fakeSource) Len() int               { return len(f.pos) }
func (f *fakeSource) Pos(i int) particle.Vec { return f.pos[i] }
func (f *fakeSource) Vel(i int) particle.Vec { return f.vel[i] }
func (f *fakeSource) Mass(i int) float64     { return f.mass[i] }
func (f *fakeSource) H(i int) float64        { return f.h[i] }

func randomSource(n int, dim int, seed int64) *fakeSource {
	rng := rand.New(rand.NewSource(seed))
	f := &fakeSource{pos: make([]particle.Vec, n), vel: make([]particle.Vec, n), mass: make([]float64, n), h: make([]float64, n)}
	for i := 0; i < n; i++ {
		var v particle.Vec
		for k := 0; k < dim; k++ {
			v[k] = rng.Float64()*2 - 1
		}
		f.pos[i] = v
		f.mass[i] = 1.0
		f.h[i] = 0.1
	}
	return f
}

func TestBuildTreeVisitsEveryParticleExactlyOnce(t *testing.T) {
	src := randomSource(500, 3, 1)
	p := DefaultParams(3)
	tr := BuildTree(src, 500, p)

	seen := make([]int, 500)
	for c := range tr.Cells {
		if tr.Cells[c].IsLeaf() {
			for pos := tr.Cells[c].IFirst; pos <= tr.Cells[c].ILast; pos++ {
				seen[tr.Order[pos]]++
			}
		}
	}
	for i, count := range seen {
		if count != 1 {
			t.Fatalf("particle %d visited %d times, want 1", i, count)
		}
	}
}

func TestCNextTraversalVisitsEachCellOnce(t *testing.T) {
	src := randomSource(300, 2, 2)
	p := DefaultParams(2)
	tr := BuildTree(src, 300, p)

	// CNext skips a cell's whole subtree, so a walk that opens every
	// cell descends into C1 at internal cells and follows CNext at
	// leaves, the same stepping the neighbour and gravity walks use.
	visited := make([]bool, len(tr.Cells))
	c := tr.Root
	steps := 0
	for c < len(tr.Cells) {
		if visited[c] {
			t.Fatalf("cell %d visited twice by cnext walk", c)
		}
		visited[c] = true
		if tr.Cells[c].IsLeaf() {
			c = tr.Cells[c].CNext
		} else {
			c = tr.Cells[c].C1
		}
		steps++
		if steps > 10*len(tr.Cells) {
			t.Fatal("cnext walk looped")
		}
	}
	for i, v := range visited {
		if !v {
			t.Fatalf("cell %d never visited by cnext walk", i)
		}
	}
}

func TestStockTreeMassConservation(t *testing.T) {
	src := randomSource(400, 3, 3)
	p := DefaultParams(3)
	tr := BuildTree(src, 400, p)
	StockTree(tr, src, nil)

	want := 400.0
	got := tr.Cells[tr.Root].Mass
	if got < want-1e-9 || got > want+1e-9 {
		t.Fatalf("root mass = %v, want %v", got, want)
	}
}

func TestStockTreeCOMWithinBoundingBox(t *testing.T) {
	src := randomSource(200, 2, 4)
	p := DefaultParams(2)
	tr := BuildTree(src, 200, p)
	StockTree(tr, src, nil)

	for c := range tr.Cells {
		cell := &tr.Cells[c]
		for k := 0; k < 2; k++ {
			if cell.COM[k] < cell.BoxMin[k]-1e-9 || cell.COM[k] > cell.BoxMax[k]+1e-9 {
				t.Fatalf("cell %d COM[%d]=%v outside box [%v,%v]", c, k, cell.COM[k], cell.BoxMin[k], cell.BoxMax[k])
			}
		}
	}
}

func TestComputeGatherNeighbourListMatchesBruteForce(t *testing.T) {
	src := randomSource(300, 3, 5)
	p := DefaultParams(3)
	tr := BuildTree(src, 300, p)
	StockTree(tr, src, nil)

	centre := [3]float64{0, 0, 0}
	r := 0.3

	out := make([]int, 300)
	n, err := tr.ComputeGatherNeighbourList(src, centre, r, out)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := 0
	for i := 0; i < 300; i++ {
		p := src.Pos(i)
		d2 := p[0]*p[0] + p[1]*p[1] + p[2]*p[2]
		if d2 <= r*r {
			want++
		}
	}
	if n != want {
		t.Fatalf("gather found %d neighbours, brute force found %d", n, want)
	}
}

func TestComputeGravityInteractionListCoversAllMass(t *testing.T) {
	src := randomSource(250, 3, 6)
	p := DefaultParams(3)
	tr := BuildTree(src, 250, p)
	StockTree(tr, src, nil)

	var lists InteractionLists
	tr.ComputeGravityInteractionList([3]float64{2, 2, 2}, &lists)

	mass := 0.0
	for _, i := range lists.Direct {
		mass += src.Mass(i)
	}
	for _, c := range lists.Multipole {
		mass += tr.Cells[c].Mass
	}
	if mass < 249.999 || mass > 250.001 {
		t.Fatalf("interaction list mass = %v, want 250", mass)
	}
}
