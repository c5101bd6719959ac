package catalog

import (
	"fmt"
	"math"

	"github.com/san-kum/kepler/internal/kepler"
	"github.com/san-kum/kepler/internal/vec"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/spatial/r3"
	"gonum.org/v1/gonum/stat"
)

// Floats returns the value at path for every record as a float64.
func (c *Catalog) Floats(path string) ([]float64, error) {
	out := make([]float64, len(c.records))
	for i, v := range c.Query(path) {
		f, ok := toFloat(v)
		if !ok {
			return nil, fmt.Errorf("%w: %s = %v (record %d)", ErrNotNumeric, path, v, i)
		}
		out[i] = f
	}
	return out, nil
}

func toFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case uint64:
		return float64(x), true
	}
	return 0, false
}

// Summary describes the distribution of one numeric attribute.
type Summary struct {
	N    int
	Mean float64
	Std  float64
	Min  float64
	Max  float64
}

// Stats summarises the numeric attribute at path. Std is the unbiased
// sample standard deviation and is NaN for a single record.
func (c *Catalog) Stats(path string) (Summary, error) {
	vals, err := c.Floats(path)
	if err != nil {
		return Summary{}, err
	}
	if len(vals) == 0 {
		return Summary{}, fmt.Errorf("%w: %s", ErrEmpty, path)
	}

	mean, std := stat.MeanStdDev(vals, nil)
	if len(vals) == 1 {
		std = math.NaN()
	}
	return Summary{
		N:    len(vals),
		Mean: mean,
		Std:  std,
		Min:  floats.Min(vals),
		Max:  floats.Max(vals),
	}, nil
}

// Pairs assembles the physical.binsys state of every record that carries
// positions and velocities into a kepler.Pair in simulation units. It also
// returns the index of the record behind each row.
func (c *Catalog) Pairs() (kepler.Pair, []int, error) {
	var (
		p   kepler.Pair
		idx []int
	)
	for i, rec := range c.records {
		bs, ok := rec.Get("physical.binsys").(map[string]any)
		if !ok {
			continue
		}
		if _, ok := bs["x1"]; !ok {
			continue
		}

		var vecs [4]r3.Vec
		for j, key := range []string{"x1", "x2", "v1", "v2"} {
			v, err := toVec(bs[key])
			if err != nil {
				return kepler.Pair{}, nil, fmt.Errorf("record %d: binsys.%s: %w", i, key, err)
			}
			vecs[j] = v
		}
		m1, ok1 := toFloat(bs["m1"])
		m2, ok2 := toFloat(bs["m2"])
		if !ok1 || !ok2 {
			return kepler.Pair{}, nil, fmt.Errorf("record %d: binsys masses: %w", i, ErrNotNumeric)
		}

		p.X1 = append(p.X1, vecs[0])
		p.X2 = append(p.X2, vecs[1])
		p.V1 = append(p.V1, vecs[2])
		p.V2 = append(p.V2, vecs[3])
		p.M1 = append(p.M1, m1)
		p.M2 = append(p.M2, m2)
		idx = append(idx, i)
	}
	if len(idx) == 0 {
		return kepler.Pair{}, nil, fmt.Errorf("%w: physical.binsys", ErrEmpty)
	}
	return p, idx, nil
}

func toVec(v any) (r3.Vec, error) {
	list, ok := v.([]any)
	if !ok {
		return r3.Vec{}, fmt.Errorf("%w: %v", vec.ErrShape, v)
	}
	row := make([]float64, len(list))
	for i, x := range list {
		f, ok := toFloat(x)
		if !ok {
			return r3.Vec{}, fmt.Errorf("%w: %v", ErrNotNumeric, x)
		}
		row[i] = f
	}
	b, err := vec.FromRows([][]float64{row})
	if err != nil {
		return r3.Vec{}, err
	}
	return b[0], nil
}
