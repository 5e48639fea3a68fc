package core

import (
	"errors"
	"strconv"
)

// Domain errors for the GANDALF physics core, one sentinel per error
// kind named by the error-handling design.
var (
	// ErrParameterInvalid indicates a rejected parameter value at setup.
	ErrParameterInvalid = errors.New("gandalf: parameter invalid")

	// ErrDimensionalityMismatch indicates a vector/array sized for the
	// wrong dimension d.
	ErrDimensionalityMismatch = errors.New("gandalf: dimensionality mismatch")

	// ErrCapacityExceeded indicates a preallocated buffer (ghosts,
	// neighbours, cells) could not be grown past its configured cap.
	ErrCapacityExceeded = errors.New("gandalf: capacity exceeded")

	// ErrConvergenceFailure indicates the density/h solve failed to
	// converge within its iteration cap.
	ErrConvergenceFailure = errors.New("gandalf: convergence failure")

	// ErrTimestepUnderflow indicates a computed timestep fell below the
	// configured floor.
	ErrTimestepUnderflow = errors.New("gandalf: timestep underflow")

	// ErrIOFormat indicates a malformed snapshot.
	ErrIOFormat = errors.New("gandalf: io format error")

	// ErrTreeInvariantViolated indicates a verify_all tree-structure
	// check failed; always a programmer error.
	ErrTreeInvariantViolated = errors.New("gandalf: tree invariant violated")
)

// Diagnostic wraps a domain error with the single-line context the
// error-handling design asks for: category, location tag, and the
// violating numeric value when one is available.
type Diagnostic struct {
	Location string
	Value    float64
	HasValue bool
	Wrapped  error
}

// NewDiagnostic builds a Diagnostic without an attached numeric value.
func NewDiagnostic(wrapped error, location string) *Diagnostic {
	return &Diagnostic{Location: location, Wrapped: wrapped}
}

// NewDiagnosticValue builds a Diagnostic carrying the violating numeric.
func NewDiagnosticValue(wrapped error, location string, value float64) *Diagnostic {
	return &Diagnostic{Location: location, Value: value, HasValue: true, Wrapped: wrapped}
}

func (d *Diagnostic) Error() string {
	if d.HasValue {
		return d.Location + ": " + d.Wrapped.Error() + " (value=" + strconv.FormatFloat(d.Value, 'g', -1, 64) + ")"
	}
	return d.Location + ": " + d.Wrapped.Error()
}

func (d *Diagnostic) Unwrap() error {
	return d.Wrapped
}
