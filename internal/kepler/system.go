package kepler

import (
	"fmt"
	"math"

	"github.com/san-kum/kepler/internal/units"
	"github.com/san-kum/kepler/internal/vec"
	"gonum.org/v1/gonum/spatial/r3"
)

// minChunk is the smallest number of rows handed to a worker.
const minChunk = 256

var (
	xHat = r3.Vec{X: 1}
	yHat = r3.Vec{Y: 1}
	zHat = r3.Vec{Z: 1}
)

// Pair is the Cartesian state of N two-body systems. Masses of length one
// are broadcast over the batch. For a massless particle orbiting a central
// mass, pass zero vectors for X2 and V2.
type Pair struct {
	X1, X2 vec.Batch
	V1, V2 vec.Batch
	M1, M2 []float64
}

// Len returns the number of systems in the pair.
func (p Pair) Len() int { return len(p.X1) }

// System is a validated batch of relative two-body states in CGS.
// It is immutable and safe for concurrent use.
type System struct {
	c units.Constants
	n int

	r    vec.Batch // relative position, cm
	v    vec.Batch // relative velocity, cm/s
	h    vec.Batch // specific angular momentum
	m1   []float64 // g
	m2   []float64 // g
	mu   []float64 // G(m1+m2)
	magR []float64
	magH []float64
	eps  []float64 // specific orbital energy
}

// FromSim builds a System from simulation units: positions in AU, velocities
// in simulation velocity units and masses in solar masses.
func FromSim(p Pair) (*System, error) {
	c := units.Default
	return newSystem(p, c, c.AUCM, c.SimVelToCGS(), c.Msol)
}

// FromCGS builds a System from positions in cm, velocities in cm/s and
// masses in grams.
func FromCGS(p Pair) (*System, error) {
	return newSystem(p, units.Default, 1, 1, 1)
}

func newSystem(p Pair, c units.Constants, lenScale, velScale, massScale float64) (*System, error) {
	n := len(p.X1)
	if n == 0 {
		return nil, fmt.Errorf("%w: empty batch", ErrShapeMismatch)
	}
	if len(p.X2) != n || len(p.V1) != n || len(p.V2) != n {
		return nil, fmt.Errorf("%w: x1=%d x2=%d v1=%d v2=%d",
			ErrShapeMismatch, n, len(p.X2), len(p.V1), len(p.V2))
	}
	m1, err := vec.Broadcast(p.M1, n)
	if err != nil {
		return nil, fmt.Errorf("m1: %w", err)
	}
	m2, err := vec.Broadcast(p.M2, n)
	if err != nil {
		return nil, fmt.Errorf("m2: %w", err)
	}

	s := &System{
		c:    c,
		n:    n,
		r:    make(vec.Batch, n),
		v:    make(vec.Batch, n),
		h:    make(vec.Batch, n),
		m1:   make([]float64, n),
		m2:   make([]float64, n),
		mu:   make([]float64, n),
		magR: make([]float64, n),
		magH: make([]float64, n),
		eps:  make([]float64, n),
	}

	for i := 0; i < n; i++ {
		if p.X1[i] == p.X2[i] {
			return nil, &RowError{Row: i, Wrapped: ErrDegenerateOrbit}
		}
	}

	s.each(func(i int) {
		s.r[i] = r3.Scale(lenScale, r3.Sub(p.X1[i], p.X2[i]))
		s.v[i] = r3.Scale(velScale, r3.Sub(p.V1[i], p.V2[i]))
		s.m1[i] = m1[i] * massScale
		s.m2[i] = m2[i] * massScale
		s.mu[i] = c.BigG * (s.m1[i] + s.m2[i])

		s.magR[i] = r3.Norm(s.r[i])
		magV := r3.Norm(s.v[i])
		s.eps[i] = magV*magV/2.0 - s.mu[i]/s.magR[i]

		s.h[i] = r3.Cross(s.r[i], s.v[i])
		s.magH[i] = r3.Norm(s.h[i])
	})

	return s, nil
}

// Len returns the number of systems in the batch.
func (s *System) Len() int { return s.n }

func (s *System) each(fn func(i int)) {
	vec.ParallelFor(s.n, minChunk, func(start, end int) {
		for i := start; i < end; i++ {
			fn(i)
		}
	})
}

func (s *System) collect(fn func(i int) float64) []float64 {
	out := make([]float64, s.n)
	s.each(func(i int) { out[i] = fn(i) })
	return out
}

// guardNorm replaces a near-zero magnitude by 1 so it can be divided by.
// Every angle whose reference vector may vanish goes through it.
func guardNorm(mag, small float64) float64 {
	if mag < small {
		return 1.0
	}
	return mag
}

// acos clamps roundoff outside [-1, 1] before taking the arc cosine.
func acos(x float64) float64 {
	switch {
	case x > 1:
		x = 1
	case x < -1:
		x = -1
	}
	return math.Acos(x)
}
