package vec

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestLenAx(t *testing.T) {
	tests := []struct {
		name   string
		shape  []int
		length int
		ax     int
	}{
		{"bare vector", []int{3}, 1, 0},
		{"batch of one", []int{1, 3}, 1, 0},
		{"batch", []int{5, 3}, 5, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			length, ax, err := LenAx(tt.shape)
			require.NoError(t, err)
			assert.Equal(t, tt.length, length, "length")
			assert.Equal(t, tt.ax, ax, "axis")
		})
	}

	for _, bad := range [][]int{{2}, {4, 2}, {0, 3}, {1, 1, 3}} {
		_, _, err := LenAx(bad)
		assert.ErrorIs(t, err, ErrShape, "shape %v", bad)
	}
}

func TestFromRowsAndFlat(t *testing.T) {
	b, err := FromFlat([]float64{1, 2, 3})
	require.NoError(t, err)
	assert.Equal(t, Of(1, 2, 3), b)

	b, err = FromRows([][]float64{{1, 0, 0}, {0, 1, 0}})
	require.NoError(t, err)
	assert.Len(t, b, 2)
	assert.Equal(t, [][]float64{{1, 0, 0}, {0, 1, 0}}, b.Rows())

	_, err = FromRows([][]float64{{1, 0}})
	assert.ErrorIs(t, err, ErrShape)

	_, err = FromFlat([]float64{1, 2})
	assert.ErrorIs(t, err, ErrShape)
}

func TestDot(t *testing.T) {
	a := Batch{{X: 1, Y: 2, Z: 3}, {X: 1, Y: 0, Z: 0}}
	b := Batch{{X: 4, Y: 5, Z: 6}, {X: 0, Y: 1, Z: 0}}

	got, err := Dot(a, b)
	require.NoError(t, err)
	assert.Equal(t, []float64{32, 0}, got)

	_, err = Dot(a, b[:1])
	assert.ErrorIs(t, err, ErrShapeMismatch)
}

func TestCrossAndNorms(t *testing.T) {
	x := Of(1, 0, 0)
	y := Of(0, 1, 0)
	assert.Equal(t, Of(0, 0, 1), Cross(x, y))
	assert.InDelta(t, 5.0, Of(3, 4, 0).Norms()[0], 1e-12)
	assert.Equal(t, Of(3, 0, 0), Sub(Of(3, 1, 0), y))
	assert.Equal(t, Batch{{X: 2}, {Y: 6}}, Batch{{X: 1}, {Y: 2}}.ScaleRows([]float64{2, 3}))
}

func TestBroadcast(t *testing.T) {
	got, err := Broadcast([]float64{2}, 3)
	require.NoError(t, err)
	assert.Equal(t, []float64{2, 2, 2}, got)

	_, err = Broadcast([]float64{1, 2}, 3)
	assert.ErrorIs(t, err, ErrShapeMismatch)
}

func TestRepeat(t *testing.T) {
	b := Repeat(r3.Vec{Z: 1}, 4)
	assert.Len(t, b, 4)
	assert.Equal(t, r3.Vec{Z: 1}, b[3])
}

func TestParallelFor(t *testing.T) {
	for _, n := range []int{0, 1, 7, 1000} {
		seen := make([]int32, n)
		var calls int32
		ParallelFor(n, 16, func(start, end int) {
			atomic.AddInt32(&calls, 1)
			for i := start; i < end; i++ {
				atomic.AddInt32(&seen[i], 1)
			}
		})
		for i, c := range seen {
			if c != 1 {
				t.Fatalf("n=%d: row %d visited %d times", n, i, c)
			}
		}
		assert.GreaterOrEqual(t, calls, int32(1))
	}
}
