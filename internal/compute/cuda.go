//go:build cuda

package compute

/*
#cgo CFLAGS: -I/opt/cuda/include
#cgo LDFLAGS: -L/opt/cuda/lib64 -L${SRCDIR} -lcudart -lkernels -lstdc++
#include <stdlib.h>

extern int cuda_device_count();
extern const char* cuda_device_name_get();
extern void gravity_gpu(float* positions, float* masses, float* accel, int n, int d, float g, float softening);
*/
import "C"
import "unsafe"

// CUDABackend offloads direct-summation gravity to a GPU kernel. It is
// never selected by AutoSelectBackend unless built with -tags cuda and
// a device is actually present; every other phase still runs on the
// CPU backend.
type CUDABackend struct {
	available  bool
	deviceName string
}

func NewCUDABackend() *CUDABackend {
	count := int(C.cuda_device_count())
	name := ""
	if count > 0 {
		name = C.GoString(C.cuda_device_name_get())
	}
	return &CUDABackend{
		available:  count > 0,
		deviceName: name,
	}
}

func (c *CUDABackend) Name() string {
	if c.available {
		return "cuda (" + c.deviceName + ")"
	}
	return "cuda (not available)"
}

func (c *CUDABackend) Available() bool { return c.available }
func (c *CUDABackend) Cleanup()        {}

func (c *CUDABackend) ParallelForParticles(n int, fn func(lo, hi int)) {
	NewCPUBackend().ParallelForParticles(n, fn)
}

func (c *CUDABackend) GravityForces(positions []float64, masses []float64, d int, g, softening float64) []float64 {
	if !c.available {
		return NewCPUBackend().GravityForces(positions, masses, d, g, softening)
	}

	n := len(masses)
	accel := make([]float64, n*d)

	posF := make([]float32, len(positions))
	massF := make([]float32, n)
	accF := make([]float32, n*d)

	for i := range positions {
		posF[i] = float32(positions[i])
	}
	for i := range masses {
		massF[i] = float32(masses[i])
	}

	C.gravity_gpu(
		(*C.float)(unsafe.Pointer(&posF[0])),
		(*C.float)(unsafe.Pointer(&massF[0])),
		(*C.float)(unsafe.Pointer(&accF[0])),
		C.int(n),
		C.int(d),
		C.float(g),
		C.float(softening),
	)

	for i := range accel {
		accel[i] = float64(accF[i])
	}

	return accel
}
