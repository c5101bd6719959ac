package kepler

import (
	"fmt"
	"math"

	"github.com/san-kum/kepler/internal/units"
	"github.com/san-kum/kepler/internal/vec"
	"gonum.org/v1/gonum/spatial/r3"
)

// CriticalRadius returns the inner edge of the stable circumbinary (P-type)
// region and its symmetric uncertainty, both in the units of a, from the
// Holman & Wiegert (1999) fit. The fit assumes comparable masses; it is not
// meaningful for m1 >> m2 or m2 >> m1.
func CriticalRadius(a, e, m1, m2 float64) (ac, pmac float64) {
	mu := m2 / (m1 + m2)

	ac = 1.60 + 5.10*e - 2.22*e*e + 4.12*mu - 4.27*e*mu - 5.09*mu*mu + 4.61*e*e*mu*mu
	pmac = 0.04 + 0.05*e - 0.11*e*e + 0.09*mu - 0.17*e*mu - 0.11*mu*mu + 0.36*e*e*mu*mu

	return ac * a, pmac * a
}

// RocheLobe returns the Eggleton (1983) Roche lobe radius around m1 for the
// mass ratio q = m1/m2, in the units of a.
func RocheLobe(q, a float64) float64 {
	q23 := math.Pow(q, 2.0/3.0)
	num := 0.49 * q23
	denom := 0.6*q23 + math.Log(1.0+math.Cbrt(q))
	return num / denom * a
}

// AccretionEDot returns de/dt in 1/s for a binary accreting mdot (Msol/yr),
// assuming the separation and speed stay nearly constant while it accretes.
// The rate divides by e, so circular binaries return ErrParameterBounds.
func AccretionEDot(b *Binary, mdot float64) (float64, error) {
	c := units.Default
	a := b.A * c.AUCM
	e := b.E
	if e < c.Small {
		return 0, fmt.Errorf("%w: de/dt undefined for e=%g", ErrParameterBounds, e)
	}
	M := (b.M1 + b.M2) * c.Msol
	mu := c.BigG * M
	Mdot := mdot * c.Msol / c.YearSec

	r := a * (1.0 + e)
	eps := -mu / (2.0 * a)
	v := math.Sqrt((mu / a) * ((1.0 - e) / (1.0 + e)))
	h := r * v
	hdot := Mdot * r * v / M

	edot := 2.0 * eps * h * hdot / (mu * mu)
	return edot / math.Sqrt(1.0+(2.0*eps*h*h)/(mu*mu)), nil
}

// COM returns the centre of mass of each row. Any unit system works as long
// as it is consistent; it is a diagnostic, the solvers never call it.
func COM(m1, m2 []float64, x1, x2 vec.Batch) (vec.Batch, error) {
	n := len(x1)
	if len(x2) != n {
		return nil, fmt.Errorf("%w: x1=%d x2=%d", ErrShapeMismatch, n, len(x2))
	}
	m1, err := vec.Broadcast(m1, n)
	if err != nil {
		return nil, fmt.Errorf("m1: %w", err)
	}
	m2, err = vec.Broadcast(m2, n)
	if err != nil {
		return nil, fmt.Errorf("m2: %w", err)
	}

	out := make(vec.Batch, n)
	for i := range out {
		sum := r3.Add(r3.Scale(m1[i], x1[i]), r3.Scale(m2[i], x2[i]))
		out[i] = r3.Scale(1.0/(m1[i]+m2[i]), sum)
	}
	return out, nil
}

// PToA converts an orbital period (days) into a semimajor axis (AU) for a
// total mass M (Msol) using Kepler's third law.
func PToA(period, M float64) float64 {
	c := units.Default
	conv := (c.DaySec * c.DaySec * c.Msol) / (c.AUCM * c.AUCM * c.AUCM)
	a := conv * period * period * c.BigG * M / (4.0 * math.Pi * math.Pi)
	return math.Cbrt(a)
}

// AToP converts a semimajor axis (AU) into a period (days).
func AToP(a, M float64) float64 {
	c := units.Default
	conv := (c.AUCM * c.AUCM * c.AUCM) / (c.DaySec * c.DaySec * c.Msol)
	P := 4.0 * conv * math.Pi * math.Pi * a * a * a / (c.BigG * M)
	return math.Sqrt(P)
}

// TrueToMean converts a true anomaly (degrees) into a mean anomaly (degrees).
func TrueToMean(nu, e float64) float64 {
	c := units.Default
	rad := math.Mod(c.Rad(nu), twoPi)
	if rad < 0 {
		rad += twoPi
	}
	E := trueToEccentric(rad, e)
	return c.Deg(E - e*math.Sin(E))
}

// MeanToTrue converts a mean anomaly (degrees) into a true anomaly in
// [0, 360) degrees.
func MeanToTrue(M, e float64) (float64, error) {
	c := units.Default
	E, err := SolveKepler(c.Rad(M), e)
	if err != nil {
		return math.NaN(), err
	}
	sinH, cosH := math.Sincos(E / 2)
	nu := 2 * math.Atan2(math.Sqrt(1+e)*sinH, math.Sqrt(1-e)*cosH)
	nu = math.Mod(nu, twoPi)
	if nu < 0 {
		nu += twoPi
	}
	return c.Deg(nu), nil
}
