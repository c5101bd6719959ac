package kepler

import (
	"fmt"
	"math"

	"github.com/san-kum/kepler/internal/units"
)

// CalcPositions places both stars of a binary at perihelion on the x axis
// with the centre of mass at the origin. M is the total mass (Msol), a the
// semimajor axis (AU) and p the fraction of M in the primary. The primary
// lands on +x, the secondary on -x.
func CalcPositions(M, a, e, p float64) (x1, x2 float64, err error) {
	if err := checkBinary(M, a, e); err != nil {
		return 0, 0, err
	}
	if !(p > 0 && p < 1) {
		return 0, 0, fmt.Errorf("%w: mass fraction %g not in (0, 1)", ErrParameterBounds, p)
	}

	m1 := p * M
	m2 := M - m1

	a1 := (m2 / M) * a
	a2 := (m1 / M) * a

	x1 = a1 * (1 - e*e) / (1 + e)
	x2 = -a2 * (1 - e*e) / (1 + e)
	return x1, x2, nil
}

// CalcV returns the perihelion speeds (km/s) of a binary rotating
// counter-clockwise: v1 > 0 along +y for the primary, v2 < 0 for the
// secondary.
func CalcV(m1, m2, a, e float64) (v1, v2 float64, err error) {
	if !(m1 > 0 && m2 > 0) {
		return 0, 0, fmt.Errorf("%w: masses %g, %g", ErrParameterBounds, m1, m2)
	}
	M := m1 + m2
	if err := checkBinary(M, a, e); err != nil {
		return 0, 0, err
	}

	c := units.Default
	econv := c.Msol / (c.AUCM * c.KmsToCGS() * c.KmsToCGS())

	eps := (1 + e) / (1 - e)
	mu := (m1 * m2) / M
	vp := math.Sqrt(econv * (c.BigG * M * eps) / a)

	v1 = (mu / m1) * vp
	v2 = (-mu / m2) * vp
	return v1, v2, nil
}

// CalcVSim is CalcV in simulation velocity units.
func CalcVSim(m1, m2, a, e float64) (v1, v2 float64, err error) {
	v1, v2, err = CalcV(m1, m2, a, e)
	if err != nil {
		return 0, 0, err
	}
	c := units.Default
	return v1 / c.VelUnit, v2 / c.VelUnit, nil
}

func checkBinary(M, a, e float64) error {
	if !(M > 0) {
		return fmt.Errorf("%w: total mass %g", ErrParameterBounds, M)
	}
	if !(a > 0) {
		return fmt.Errorf("%w: semimajor axis %g", ErrParameterBounds, a)
	}
	if !(e >= 0 && e < 1) {
		return fmt.Errorf("%w: e=%g", ErrUnbound, e)
	}
	return nil
}
