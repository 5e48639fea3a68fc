//go:build !cuda

package compute

type CUDABackend struct{}

func NewCUDABackend() *CUDABackend {
	return &CUDABackend{}
}

func (c *CUDABackend) Name() string    { return "cuda (not available)" }
func (c *CUDABackend) Available() bool { return false }
func (c *CUDABackend) Cleanup()        {}

func (c *CUDABackend) ParallelForParticles(n int, fn func(lo, hi int)) {
	NewCPUBackend().ParallelForParticles(n, fn)
}

func (c *CUDABackend) GravityForces(positions []float64, masses []float64, d int, g, softening float64) []float64 {
	return NewCPUBackend().GravityForces(positions, masses, d, g, softening)
}
