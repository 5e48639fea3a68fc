package core

import (
	"log"
	"math/rand"
	"os"
	"time"
)

// Context is the explicit, passed-in replacement for process-wide
// mutable state (DESIGN NOTES: "pass an explicit context object with
// logger, metrics and error channel into every subsystem"). It carries
// the runtime dimension d, since GANDALF supports d in {1,2,3} at
// runtime rather than via a compile-time switch.
type Context struct {
	Dim       int
	Logger    *log.Logger
	Rand      *rand.Rand
	VerifyAll bool
	Errors    chan error

	start   time.Time
	wallMax time.Duration
}

// NewContext builds a Context for the given dimension and RNG seed.
// dim must be 1, 2, or 3.
func NewContext(dim int, seed int64, wallMax time.Duration) (*Context, error) {
	if dim < 1 || dim > 3 {
		return nil, NewDiagnosticValue(ErrDimensionalityMismatch, "core.NewContext", float64(dim))
	}
	return &Context{
		Dim:     dim,
		Logger:  log.New(os.Stderr, "gandalf: ", log.LstdFlags),
		Rand:    rand.New(rand.NewSource(seed)),
		Errors:  make(chan error, 16),
		start:   time.Now(),
		wallMax: wallMax,
	}, nil
}

// WallClockExceeded reports whether tmax_wallclock has been exceeded;
// checked at the top of every MainLoop iteration.
func (c *Context) WallClockExceeded() bool {
	if c.wallMax <= 0 {
		return false
	}
	return time.Since(c.start) >= c.wallMax
}

// Emit reports a diagnostic on the single error channel without
// necessarily aborting the run (used for warnings, e.g. snapshot-write
// failures).
func (c *Context) Emit(err error) {
	c.Logger.Println(err)
	select {
	case c.Errors <- err:
	default:
	}
}
