package compute

import (
	"math"
	"runtime"
	"sync"
)

type CPUBackend struct {
	workers int
}

func NewCPUBackend() *CPUBackend {
	return &CPUBackend{
		workers: runtime.NumCPU(),
	}
}

func (c *CPUBackend) Name() string    { return "cpu" }
func (c *CPUBackend) Available() bool { return true }
func (c *CPUBackend) Cleanup()        {}

// ParallelForParticles is the chunk-then-merge fork-join used by every
// embarrassingly-parallel phase in spec.md section 5. Each worker owns
// a disjoint [lo,hi) range of particle indices, so callers may write
// directly into the particle's own record from fn without locking.
func (c *CPUBackend) ParallelForParticles(n int, fn func(lo, hi int)) {
	const minChunk = 64
	workers := c.workers
	if n <= minChunk || workers <= 1 {
		fn(0, n)
		return
	}
	if n/minChunk < workers {
		workers = n / minChunk
	}
	if workers < 1 {
		workers = 1
	}

	chunkSize := (n + workers - 1) / workers

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		lo := w * chunkSize
		hi := lo + chunkSize
		if hi > n {
			hi = n
		}
		if lo >= hi {
			continue
		}
		wg.Add(1)
		go func(lo, hi int) {
			defer wg.Done()
			fn(lo, hi)
		}(lo, hi)
	}
	wg.Wait()
}

func (c *CPUBackend) GravityForces(positions []float64, masses []float64, d int, g, softening float64) []float64 {
	n := len(masses)
	accel := make([]float64, n*d)

	if n < 16 {
		c.gravitySerial(positions, masses, d, g, softening, accel)
		return accel
	}

	c.gravityParallel(positions, masses, d, g, softening, accel)
	return accel
}

func (c *CPUBackend) gravitySerial(pos []float64, masses []float64, d int, g, eps float64, accel []float64) {
	n := len(masses)
	eps2 := eps * eps
	var r [3]float64

	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			r2 := eps2
			for k := 0; k < d; k++ {
				r[k] = pos[j*d+k] - pos[i*d+k]
				r2 += r[k] * r[k]
			}

			rInv := 1.0 / math.Sqrt(r2)
			r3Inv := rInv * rInv * rInv

			fij := g * masses[j] * r3Inv
			fji := g * masses[i] * r3Inv
			for k := 0; k < d; k++ {
				accel[i*d+k] += fij * r[k]
				accel[j*d+k] -= fji * r[k]
			}
		}
	}
}

func (c *CPUBackend) gravityParallel(pos []float64, masses []float64, d int, g, eps float64, accel []float64) {
	n := len(masses)
	eps2 := eps * eps

	local := make([][]float64, c.workers)
	for w := range local {
		local[w] = make([]float64, n*d)
	}

	var wg sync.WaitGroup
	chunkSize := (n + c.workers - 1) / c.workers

	for w := 0; w < c.workers; w++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()

			start := worker * chunkSize
			end := start + chunkSize
			if end > n {
				end = n
			}

			la := local[worker]
			var r [3]float64

			for i := start; i < end; i++ {
				for j := 0; j < n; j++ {
					if i == j {
						continue
					}
					r2 := eps2
					for k := 0; k < d; k++ {
						r[k] = pos[j*d+k] - pos[i*d+k]
						r2 += r[k] * r[k]
					}

					rInv := 1.0 / math.Sqrt(r2)
					r3Inv := rInv * rInv * rInv
					f := g * masses[j] * r3Inv
					for k := 0; k < d; k++ {
						la[i*d+k] += f * r[k]
					}
				}
			}
		}(w)
	}

	wg.Wait()

	for w := 0; w < c.workers; w++ {
		for i := 0; i < n*d; i++ {
			accel[i] += local[w][i]
		}
	}
}
