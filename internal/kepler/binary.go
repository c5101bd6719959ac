package kepler

import (
	"fmt"
	"math"

	"github.com/san-kum/kepler/internal/units"
	"github.com/san-kum/kepler/internal/vec"
)

// Binary is a two-star system described by its elements at one epoch.
// Angles are in degrees, A in AU and masses in solar masses.
type Binary struct {
	E     float64 `yaml:"e" json:"e"`
	A     float64 `yaml:"a" json:"a"`
	I     float64 `yaml:"i" json:"i"`
	Omega float64 `yaml:"omega" json:"omega"`
	W     float64 `yaml:"w" json:"w"`
	Nu    float64 `yaml:"nu" json:"nu"`
	M1    float64 `yaml:"m1" json:"m1"`
	M2    float64 `yaml:"m2" json:"m2"`
}

// NewBinary builds a Binary from x = [e, a, i, Ω, w, ν] and the two masses.
func NewBinary(x [6]float64, m1, m2 float64) (*Binary, error) {
	b := &Binary{E: x[0], A: x[1], I: x[2], Omega: x[3], W: x[4], Nu: x[5], M1: m1, M2: m2}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return b, nil
}

// Validate checks that the binary is a bound, massive orbit.
func (b *Binary) Validate() error {
	if !(b.E >= 0 && b.E < 1) {
		return fmt.Errorf("%w: e=%g", ErrUnbound, b.E)
	}
	if !(b.A > 0) {
		return fmt.Errorf("%w: semimajor axis %g", ErrParameterBounds, b.A)
	}
	if !(b.M1 > 0 && b.M2 > 0) {
		return fmt.Errorf("%w: masses %g, %g", ErrParameterBounds, b.M1, b.M2)
	}
	return nil
}

// BinariesFromPair measures the elements of every row of a state pair given
// in simulation units.
func BinariesFromPair(p Pair) ([]*Binary, error) {
	s, err := FromSim(p)
	if err != nil {
		return nil, err
	}
	m1, _ := vec.Broadcast(p.M1, s.n)
	m2, _ := vec.Broadcast(p.M2, s.n)

	els := s.Elements()
	out := make([]*Binary, len(els))
	for i, el := range els {
		out[i] = &Binary{
			E: el.Ecc, A: el.Semi, I: el.Inc, Omega: el.Node, W: el.ArgPeri, Nu: el.TrueAnom,
			M1: m1[i], M2: m2[i],
		}
	}
	return out, nil
}

// Elements returns the binary's elements with the eccentric and mean
// anomalies filled in from ν.
func (b *Binary) Elements() Elements {
	c := units.Default
	nu := math.Mod(c.Rad(b.Nu), twoPi)
	if nu < 0 {
		nu += twoPi
	}
	E := trueToEccentric(nu, b.E)
	M := E - b.E*math.Sin(E)
	return Elements{
		Ecc: b.E, Semi: b.A, Inc: b.I, Node: b.Omega, ArgPeri: b.W,
		TrueAnom: b.Nu, EccAnom: c.Deg(E), MeanAnom: c.Deg(M),
	}
}

// State returns the physical-frame positions (AU) and velocities
// (simulation units) of both stars.
func (b *Binary) State() (Pair, error) {
	if err := b.Validate(); err != nil {
		return Pair{}, err
	}
	return InitializeBinarySim([]Elements{b.Elements()}, []float64{b.M1}, []float64{b.M2})
}

// Period returns the orbital period in days.
func (b *Binary) Period() float64 { return AToP(b.A, b.M1+b.M2) }

// RocheLobe returns the Roche lobe radius around the primary in AU.
func (b *Binary) RocheLobe() float64 { return RocheLobe(b.M1/b.M2, b.A) }

// CriticalRadius returns the circumbinary stability limit and its error in AU.
func (b *Binary) CriticalRadius() (float64, float64) {
	return CriticalRadius(b.A, b.E, b.M1, b.M2)
}

// EDot returns de/dt in 1/s while accreting mdot Msol/yr.
func (b *Binary) EDot(mdot float64) (float64, error) { return AccretionEDot(b, mdot) }

func (b *Binary) String() string {
	return fmt.Sprintf("e=%.6g a=%.6g AU i=%.6g Ω=%.6g w=%.6g ν=%.6g m1=%.6g m2=%.6g",
		b.E, b.A, b.I, b.Omega, b.W, b.Nu, b.M1, b.M2)
}
