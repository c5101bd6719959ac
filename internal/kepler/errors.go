package kepler

import (
	"errors"
	"fmt"

	"github.com/san-kum/kepler/internal/vec"
)

// Domain errors for orbital-element operations.
var (
	// ErrDegenerateOrbit indicates zero separation between the two bodies.
	ErrDegenerateOrbit = errors.New("kepler: degenerate orbit (zero separation)")

	// ErrShapeMismatch indicates paired inputs with different batch sizes.
	ErrShapeMismatch = vec.ErrShapeMismatch

	// ErrNoConvergence indicates Kepler's equation could not be solved.
	ErrNoConvergence = errors.New("kepler: root finder did not converge")

	// ErrUnbound indicates an eccentricity outside the elliptic range [0, 1).
	ErrUnbound = errors.New("kepler: eccentricity outside [0, 1)")

	// ErrParameterBounds indicates a parameter value is outside valid range.
	ErrParameterBounds = errors.New("kepler: parameter out of valid bounds")
)

// ConvergenceError carries the state of a failed Kepler solve.
type ConvergenceError struct {
	Row        int
	Mean       float64 // radians
	Ecc        float64
	Last       float64 // last iterate, radians
	Iterations int
}

func (e *ConvergenceError) Error() string {
	return fmt.Sprintf("%v: row %d (M=%g rad, e=%g) after %d iterations, last E=%g",
		ErrNoConvergence, e.Row, e.Mean, e.Ecc, e.Iterations, e.Last)
}

func (e *ConvergenceError) Unwrap() error {
	return ErrNoConvergence
}

// RowError wraps an error with the batch row that produced it.
type RowError struct {
	Row     int
	Wrapped error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("row %d: %v", e.Row, e.Wrapped)
}

func (e *RowError) Unwrap() error {
	return e.Wrapped
}
