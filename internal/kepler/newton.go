package kepler

import (
	"fmt"
	"math"
)

const (
	// keplerTol bounds the last Newton step relative to 1+|E|. Convergence
	// is quadratic, so the returned root is at machine precision.
	keplerTol = 1e-12

	// keplerMaxIter caps the iteration.
	keplerMaxIter = 100
)

// SolveKepler solves M = E - e·sin(E) for the eccentric anomaly E with
// Newton's method seeded at E₀ = M. Angles are in radians.
//
// The root always lies in [M-e, M+e]; a Newton step that leaves the
// shrinking bracket is replaced by bisection, which keeps e close to 1 from
// cycling. Eccentricities outside [0, 1) are rejected with ErrUnbound, and a
// solve that does not settle within the iteration cap returns a
// *ConvergenceError rather than the last iterate.
func SolveKepler(M, e float64) (float64, error) {
	if !(e >= 0 && e < 1) {
		return math.NaN(), fmt.Errorf("%w: e=%g", ErrUnbound, e)
	}

	lo, hi := M-e, M+e
	E := M
	for i := 0; i < keplerMaxIter; i++ {
		f := E - e*math.Sin(E) - M
		switch {
		case f > 0:
			hi = math.Min(hi, E)
		case f < 0:
			lo = math.Max(lo, E)
		case f == 0:
			return E, nil
		}

		fp := 1 - e*math.Cos(E)
		next := E - f/fp
		if !(next >= lo && next <= hi) {
			next = 0.5 * (lo + hi)
		}

		dE := E - next
		E = next
		if math.Abs(dE) <= keplerTol*(1+math.Abs(E)) {
			return E, nil
		}
	}

	return math.NaN(), &ConvergenceError{Mean: M, Ecc: e, Last: E, Iterations: keplerMaxIter}
}
