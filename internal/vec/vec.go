// Package vec provides batches of 3-vectors for row-wise orbital computations.
//
// A [Batch] of length one is how a single system is represented, so callers
// never need to probe shapes at runtime. [LenAx] is kept for raw nested-slice
// input, where a bare 3-vector, a (1,3) batch and an (N,3) batch must all be
// told apart.
package vec

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/spatial/r3"
)

var (
	// ErrShape indicates input that is not a 3-vector or a batch of them.
	ErrShape = errors.New("vec: input is not a 3-vector or an (N,3) batch")

	// ErrShapeMismatch indicates paired batches of different lengths.
	ErrShapeMismatch = errors.New("vec: input batches must be same shape")
)

// Batch is N independent 3-vectors.
type Batch []r3.Vec

// Of builds a batch of one.
func Of(x, y, z float64) Batch { return Batch{{X: x, Y: y, Z: z}} }

// Repeat returns n copies of v.
func Repeat(v r3.Vec, n int) Batch {
	b := make(Batch, n)
	for i := range b {
		b[i] = v
	}
	return b
}

// LenAx classifies a raw array shape. A bare 3-vector and a (1,3) batch
// both yield count 1 on axis 0; an (N,3) batch yields count N on axis 1.
func LenAx(shape []int) (length, ax int, err error) {
	switch {
	case len(shape) == 1 && shape[0] == 3:
		return 1, 0, nil
	case len(shape) == 2 && shape[1] == 3 && shape[0] == 1:
		return 1, 0, nil
	case len(shape) == 2 && shape[1] == 3 && shape[0] > 1:
		return shape[0], 1, nil
	}
	return 0, 0, fmt.Errorf("%w: shape %v", ErrShape, shape)
}

// FromFlat converts a bare 3-vector.
func FromFlat(a []float64) (Batch, error) {
	if _, _, err := LenAx([]int{len(a)}); err != nil {
		return nil, err
	}
	return Of(a[0], a[1], a[2]), nil
}

// FromRows converts an (N,3) nested slice.
func FromRows(rows [][]float64) (Batch, error) {
	for i, r := range rows {
		if len(r) != 3 {
			return nil, fmt.Errorf("%w: row %d has %d components", ErrShape, i, len(r))
		}
	}
	if _, _, err := LenAx([]int{len(rows), 3}); err != nil {
		return nil, err
	}
	b := make(Batch, len(rows))
	for i, r := range rows {
		b[i] = r3.Vec{X: r[0], Y: r[1], Z: r[2]}
	}
	return b, nil
}

// Rows returns b as an (N,3) nested slice.
func (b Batch) Rows() [][]float64 {
	rows := make([][]float64, len(b))
	for i, v := range b {
		rows[i] = []float64{v.X, v.Y, v.Z}
	}
	return rows
}

// Dot computes the row-wise dot product of two equal-length batches.
func Dot(a, b Batch) ([]float64, error) {
	if len(a) != len(b) {
		return nil, fmt.Errorf("%w: %d vs %d", ErrShapeMismatch, len(a), len(b))
	}
	out := make([]float64, len(a))
	for i := range a {
		out[i] = floats.Dot([]float64{a[i].X, a[i].Y, a[i].Z}, []float64{b[i].X, b[i].Y, b[i].Z})
	}
	return out, nil
}

// Norms returns the Euclidean length of every row.
func (b Batch) Norms() []float64 {
	out := make([]float64, len(b))
	for i, v := range b {
		out[i] = r3.Norm(v)
	}
	return out
}

// Sub returns a-b row-wise. Lengths must already agree.
func Sub(a, b Batch) Batch {
	out := make(Batch, len(a))
	for i := range a {
		out[i] = r3.Sub(a[i], b[i])
	}
	return out
}

// Cross returns a×b row-wise. Lengths must already agree.
func Cross(a, b Batch) Batch {
	out := make(Batch, len(a))
	for i := range a {
		out[i] = r3.Cross(a[i], b[i])
	}
	return out
}

// Scale multiplies every row by f.
func (b Batch) Scale(f float64) Batch {
	out := make(Batch, len(b))
	for i, v := range b {
		out[i] = r3.Scale(f, v)
	}
	return out
}

// ScaleRows multiplies row i by f[i].
func (b Batch) ScaleRows(f []float64) Batch {
	out := make(Batch, len(b))
	for i, v := range b {
		out[i] = r3.Scale(f[i], v)
	}
	return out
}

// Broadcast stretches a length-1 slice to n rows. Any other length must
// equal n.
func Broadcast(s []float64, n int) ([]float64, error) {
	switch len(s) {
	case n:
		return s, nil
	case 1:
		out := make([]float64, n)
		for i := range out {
			out[i] = s[0]
		}
		return out, nil
	}
	return nil, fmt.Errorf("%w: %d values for %d rows", ErrShapeMismatch, len(s), n)
}
