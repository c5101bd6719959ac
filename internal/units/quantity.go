package units

import (
	"errors"
	"fmt"
)

// Unit names a physical unit a Quantity can carry.
type Unit string

const (
	AU      Unit = "au"
	CM      Unit = "cm"
	KPC     Unit = "kpc"
	Msol    Unit = "Msol"
	Gram    Unit = "g"
	KmPerS  Unit = "km s**-1"
	CMPerS  Unit = "cm s**-1"
	SimVel  Unit = "29.785598165 km s**-1"
	Day     Unit = "d"
	Year    Unit = "yr"
	Second  Unit = "s"
	None    Unit = ""
	Degrees Unit = "deg"
	Radians Unit = "rad"
)

// ErrIncompatibleUnits is returned when a conversion crosses dimensions.
var ErrIncompatibleUnits = errors.New("units: incompatible units")

type dimension int

const (
	dimNone dimension = iota
	dimLength
	dimMass
	dimVelocity
	dimTime
	dimAngle
)

// scale returns the dimension of u and the factor taking one u to the CGS
// (or radian) base of that dimension.
func (c Constants) scale(u Unit) (dimension, float64, bool) {
	switch u {
	case AU:
		return dimLength, c.AUCM, true
	case CM:
		return dimLength, 1, true
	case KPC:
		return dimLength, c.AUCM / c.PosUnit, true
	case Msol:
		return dimMass, c.Msol, true
	case Gram:
		return dimMass, 1, true
	case KmPerS:
		return dimVelocity, kmToCM, true
	case CMPerS:
		return dimVelocity, 1, true
	case SimVel:
		return dimVelocity, c.SimVelToCGS(), true
	case Day:
		return dimTime, c.DaySec, true
	case Year:
		return dimTime, c.YearSec, true
	case Second:
		return dimTime, 1, true
	case Degrees:
		return dimAngle, 1 / c.Rad2Deg, true
	case Radians:
		return dimAngle, 1, true
	case None:
		return dimNone, 1, true
	}
	return dimNone, 0, false
}

// Quantity is a numeric value tagged with the unit it is expressed in.
type Quantity struct {
	Value float64
	Unit  Unit
}

// Q is shorthand for constructing a Quantity.
func Q(v float64, u Unit) Quantity { return Quantity{Value: v, Unit: u} }

func (q Quantity) String() string {
	if q.Unit == None {
		return fmt.Sprintf("%g", q.Value)
	}
	return fmt.Sprintf("%g %s", q.Value, q.Unit)
}

// In converts q to unit u using the default constants.
func (q Quantity) In(u Unit) (float64, error) {
	return Default.Convert(q, u)
}

// Convert strips the unit from q and expresses its value in u.
func (c Constants) Convert(q Quantity, u Unit) (float64, error) {
	from, fs, ok := c.scale(q.Unit)
	if !ok {
		return 0, fmt.Errorf("%w: unknown unit %q", ErrIncompatibleUnits, q.Unit)
	}
	to, ts, ok := c.scale(u)
	if !ok {
		return 0, fmt.Errorf("%w: unknown unit %q", ErrIncompatibleUnits, u)
	}
	if from != to {
		return 0, fmt.Errorf("%w: %q to %q", ErrIncompatibleUnits, q.Unit, u)
	}
	if q.Unit == u {
		return q.Value, nil
	}
	return q.Value * fs / ts, nil
}

// ParseUnit accepts the unit spellings used in settings files.
func ParseUnit(s string) (Unit, error) {
	switch s {
	case "au", "AU":
		return AU, nil
	case "cm":
		return CM, nil
	case "kpc":
		return KPC, nil
	case "Msol", "msol":
		return Msol, nil
	case "g":
		return Gram, nil
	case "km s**-1", "km/s":
		return KmPerS, nil
	case "cm s**-1", "cm/s":
		return CMPerS, nil
	case "sim", string(SimVel):
		return SimVel, nil
	case "d", "day", "days":
		return Day, nil
	case "yr", "year":
		return Year, nil
	case "s":
		return Second, nil
	case "deg", "degrees":
		return Degrees, nil
	case "rad":
		return Radians, nil
	case "":
		return None, nil
	}
	return None, fmt.Errorf("%w: unknown unit %q", ErrIncompatibleUnits, s)
}
