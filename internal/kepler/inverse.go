package kepler

import (
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/kepler/internal/units"
	"github.com/san-kum/kepler/internal/vec"
	"gonum.org/v1/gonum/spatial/r3"
)

// ToCartesian converts elements to the position (AU) and velocity (km/s)
// of the relative orbit in the reduced-mass frame. Ecc, Semi, Inc, Node,
// ArgPeri and MeanAnom are read; masses are in solar masses.
func ToCartesian(el []Elements, m1, m2 []float64) (r, v vec.Batch, err error) {
	return toCartesian(el, m1, m2, units.Default, 1)
}

// ToCartesianSim is ToCartesian with velocities in simulation units.
func ToCartesianSim(el []Elements, m1, m2 []float64) (r, v vec.Batch, err error) {
	c := units.Default
	return toCartesian(el, m1, m2, c, 1/c.VelUnit)
}

func toCartesian(el []Elements, m1, m2 []float64, c units.Constants, velScale float64) (vec.Batch, vec.Batch, error) {
	n := len(el)
	if n == 0 {
		return nil, nil, fmt.Errorf("%w: empty batch", ErrShapeMismatch)
	}
	m1, err := vec.Broadcast(m1, n)
	if err != nil {
		return nil, nil, fmt.Errorf("m1: %w", err)
	}
	m2, err = vec.Broadcast(m2, n)
	if err != nil {
		return nil, nil, fmt.Errorf("m2: %w", err)
	}

	r := make(vec.Batch, n)
	v := make(vec.Batch, n)
	errs := make([]error, n)

	// cm/s per (sqrt(cgs μ)/sqrt(AU)), then km/s
	conv := velScale / (math.Sqrt(c.AUCM) * c.KmsToCGS())

	vec.ParallelFor(n, minChunk, func(start, end int) {
		for i := start; i < end; i++ {
			ri, vi, err := rowToCartesian(el[i], m1[i], m2[i], c)
			if err != nil {
				var ce *ConvergenceError
				if errors.As(err, &ce) {
					ce.Row = i
				} else {
					err = &RowError{Row: i, Wrapped: err}
				}
				errs[i] = err
				continue
			}
			r[i] = ri
			v[i] = r3.Scale(conv, vi)
		}
	})

	if err := errors.Join(errs...); err != nil {
		return nil, nil, err
	}
	return r, v, nil
}

func rowToCartesian(el Elements, m1, m2 float64, c units.Constants) (r3.Vec, r3.Vec, error) {
	a, e := el.Semi, el.Ecc
	if !(a > 0) {
		return r3.Vec{}, r3.Vec{}, fmt.Errorf("%w: semimajor axis %g", ErrParameterBounds, a)
	}
	if !(m1+m2 > 0) {
		return r3.Vec{}, r3.Vec{}, fmt.Errorf("%w: total mass %g", ErrParameterBounds, m1+m2)
	}

	E, err := SolveKepler(c.Rad(el.MeanAnom), e)
	if err != nil {
		return r3.Vec{}, r3.Vec{}, err
	}

	P, Q := perifocal(c.Rad(el.Inc), c.Rad(el.Node), c.Rad(el.ArgPeri))

	mu := c.BigG * (m1 + m2) * c.Msol
	sinE, cosE := math.Sincos(E)
	b := a * math.Sqrt(1.0-e*e)

	r := r3.Add(r3.Scale(a*(cosE-e), P), r3.Scale(b*sinE, Q))

	tmp := math.Sqrt(mu) / (math.Pow(a, 1.5) * (1.0 - e*cosE))
	v := r3.Add(r3.Scale(-a*sinE*tmp, P), r3.Scale(b*cosE*tmp, Q))

	return r, v, nil
}

// perifocal returns the unit vectors P (towards periapsis) and Q (90° ahead
// in the orbital plane) for the given angles in radians.
func perifocal(i, omega, w float64) (P, Q r3.Vec) {
	sinI, cosI := math.Sincos(i)
	sinO, cosO := math.Sincos(omega)
	sinW, cosW := math.Sincos(w)

	P = r3.Vec{
		X: cosW*cosO - sinW*cosI*sinO,
		Y: cosW*sinO + sinW*cosI*cosO,
		Z: sinW * sinI,
	}
	Q = r3.Vec{
		X: -sinW*cosO - cosW*cosI*sinO,
		Y: -sinW*sinO + cosW*cosI*cosO,
		Z: sinI * cosW,
	}
	return P, Q
}

// ReduceToPhysical splits a reduced-mass frame orbit into two bodies about
// the origin: x1 = (μ/m1)r and x2 = -(μ/m2)r with μ = m1m2/(m1+m2), and the
// same for velocities. With m1 >= m2 the layout is x2----origin--x1 and the
// centre of mass stays at the origin. Units pass through unchanged.
func ReduceToPhysical(r, v vec.Batch, m1, m2 []float64) (x1, x2, v1, v2 vec.Batch, err error) {
	n := len(r)
	if len(v) != n {
		return nil, nil, nil, nil, fmt.Errorf("%w: r=%d v=%d", ErrShapeMismatch, n, len(v))
	}
	if m1, err = vec.Broadcast(m1, n); err != nil {
		return nil, nil, nil, nil, fmt.Errorf("m1: %w", err)
	}
	if m2, err = vec.Broadcast(m2, n); err != nil {
		return nil, nil, nil, nil, fmt.Errorf("m2: %w", err)
	}

	f1 := make([]float64, n)
	f2 := make([]float64, n)
	for i := 0; i < n; i++ {
		if !(m1[i] > 0 && m2[i] > 0) {
			return nil, nil, nil, nil, &RowError{Row: i,
				Wrapped: fmt.Errorf("%w: masses %g, %g", ErrParameterBounds, m1[i], m2[i])}
		}
		mu := m1[i] * m2[i] / (m1[i] + m2[i])
		f1[i] = mu / m1[i]
		f2[i] = -mu / m2[i]
	}

	return r.ScaleRows(f1), r.ScaleRows(f2), v.ScaleRows(f1), v.ScaleRows(f2), nil
}

// InitializeBinary computes the physical-frame positions (AU) and
// velocities (km/s) of two mutually orbiting stars from their elements.
func InitializeBinary(el []Elements, m1, m2 []float64) (Pair, error) {
	r, v, err := ToCartesian(el, m1, m2)
	if err != nil {
		return Pair{}, err
	}
	return physicalPair(r, v, m1, m2)
}

// InitializeBinarySim is InitializeBinary with velocities in simulation
// units, ready for FromSim or for writing an IC snapshot.
func InitializeBinarySim(el []Elements, m1, m2 []float64) (Pair, error) {
	r, v, err := ToCartesianSim(el, m1, m2)
	if err != nil {
		return Pair{}, err
	}
	return physicalPair(r, v, m1, m2)
}

func physicalPair(r, v vec.Batch, m1, m2 []float64) (Pair, error) {
	x1, x2, v1, v2, err := ReduceToPhysical(r, v, m1, m2)
	if err != nil {
		return Pair{}, err
	}
	return Pair{X1: x1, X2: x2, V1: v1, V2: v2, M1: m1, M2: m2}, nil
}
