// Package units holds the physical constants and unit conversions shared by
// the orbital-elements engine.
//
// Two unit systems are in play:
//
//   - simulation units: lengths in AU, masses in solar masses and velocities
//     in multiples of [Constants.VelUnit] km/s (the ICgen convention, where
//     one velocity unit is 29.785598165 km/s when m_unit = Msol and r_unit = 1 AU)
//   - CGS: centimetres, grams, seconds
//
// Every engine computation happens in CGS. Public outputs are reported in AU
// for lengths and degrees for angles.
package units

import "math"

// Constants is the immutable set of physical constants used by the engine.
// The values must not be changed: downstream snapshots were generated with them.
type Constants struct {
	Msol    float64 // g per solar mass
	BigG    float64 // gravitational constant, cgs
	YearSec float64 // seconds per year
	DaySec  float64 // seconds per day
	AUCM    float64 // cm per AU
	Rad2Deg float64
	Small   float64 // anything below this is zero enough
	VelUnit float64 // km/s per simulation velocity unit
	PosUnit float64 // kpc per AU
}

// Default holds the constants every package in this module uses.
var Default = Constants{
	Msol:    1.98855e33,
	BigG:    6.67259e-8,
	YearSec: 3.15569e7,
	DaySec:  86400,
	AUCM:    1.49597571e13,
	Rad2Deg: 180.0 / math.Pi,
	Small:   1.0e-10,
	VelUnit: 29.785598165,
	PosUnit: 4.84813680873e-9,
}

const (
	kmToCM = 1000 * 100
)

// SimVelToCGS is the factor taking a simulation velocity to cm/s.
func (c Constants) SimVelToCGS() float64 { return kmToCM * c.VelUnit }

// KmsToCGS is the factor taking km/s to cm/s.
func (c Constants) KmsToCGS() float64 { return kmToCM }

// Deg converts radians to degrees.
func (c Constants) Deg(rad float64) float64 { return rad * c.Rad2Deg }

// Rad converts degrees to radians.
func (c Constants) Rad(deg float64) float64 { return deg / c.Rad2Deg }
