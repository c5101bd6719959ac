package kepler

import (
	"math"

	"github.com/san-kum/kepler/internal/vec"
	"gonum.org/v1/gonum/spatial/r3"
)

const twoPi = 2.0 * math.Pi

// Elements is one set of classical orbital elements. Lengths are in AU and
// angles in degrees.
type Elements struct {
	Ecc      float64 // e
	Semi     float64 // a, AU
	Inc      float64 // i
	Node     float64 // Ω, longitude of the ascending node
	ArgPeri  float64 // w, argument of periapsis
	TrueAnom float64 // ν
	EccAnom  float64 // E
	MeanAnom float64 // M
}

// Ecc returns the eccentricity e = sqrt(1 + 2εh²/μ²). Input that drives the
// bracket negative beyond roundoff yields NaN.
func (s *System) Ecc() []float64 { return s.collect(s.ecc) }

func (s *System) ecc(i int) float64 {
	term := 1 + 2*s.eps[i]*s.magH[i]*s.magH[i]/(s.mu[i]*s.mu[i])
	if term < 0 && term > -s.c.Small {
		return 0
	}
	return math.Sqrt(term)
}

// Semi returns the semimajor axis a = -μ/(2ε) in AU. It diverges towards
// the parabolic limit and is negative for unbound states.
func (s *System) Semi() []float64 {
	return s.collect(func(i int) float64 { return s.semiCGS(i) / s.c.AUCM })
}

func (s *System) semiCGS(i int) float64 {
	return -s.mu[i] / (2.0 * s.eps[i])
}

// Inc returns the inclination in degrees.
func (s *System) Inc() []float64 {
	return s.collect(func(i int) float64 { return s.c.Deg(s.inc(i)) })
}

func (s *System) inc(i int) float64 {
	return acos(math.Abs(s.h[i].Z) / s.magH[i])
}

func (s *System) planar(i int) bool {
	return s.c.Deg(s.inc(i)) < s.c.Small
}

func (s *System) circular(i int) bool {
	return r3.Norm(s.eccVec(i)) < s.c.Small
}

// node returns n = ẑ × h and its guarded magnitude.
func (s *System) node(i int) (r3.Vec, float64) {
	n := r3.Cross(zHat, s.h[i])
	return n, guardNorm(r3.Norm(n), s.c.Small)
}

// LongAscNode returns the longitude of the ascending node in degrees. It is
// NaN for radial states, which have no orbital plane.
func (s *System) LongAscNode() []float64 {
	return s.collect(func(i int) float64 { return s.c.Deg(s.longAscNode(i)) })
}

func (s *System) longAscNode(i int) float64 {
	if s.magH[i] == 0 {
		return math.NaN()
	}
	if s.planar(i) || s.circular(i) {
		return 0
	}
	n, magN := s.node(i)
	omega := acos(r3.Dot(xHat, n) / magN)
	if r3.Dot(n, yHat) < 0 {
		omega = twoPi - omega
	}
	return omega
}

// EccVector returns the dimensionless eccentricity vector
// e_vec = (v×h)/μ - r/|r| for every row.
func (s *System) EccVector() vec.Batch {
	out := make(vec.Batch, s.n)
	s.each(func(i int) { out[i] = s.eccVec(i) })
	return out
}

func (s *System) eccVec(i int) r3.Vec {
	return r3.Sub(
		r3.Scale(1/s.mu[i], r3.Cross(s.v[i], s.h[i])),
		r3.Scale(1/s.magR[i], s.r[i]),
	)
}

// ArgPeri returns the argument of periapsis in degrees, NaN for radial states.
func (s *System) ArgPeri() []float64 {
	return s.collect(func(i int) float64 { return s.c.Deg(s.argPeri(i)) })
}

func (s *System) argPeri(i int) float64 {
	if s.magH[i] == 0 {
		return math.NaN()
	}
	if s.planar(i) || s.circular(i) {
		return 0
	}
	n, magN := s.node(i)
	e := s.eccVec(i)
	magE := guardNorm(r3.Norm(e), s.c.Small)

	w := acos(r3.Dot(n, e) / (magN * magE))
	if r3.Dot(e, zHat) < 0 {
		w = twoPi - w
	}
	return w
}

// TrueAnomaly returns the true anomaly in degrees.
func (s *System) TrueAnomaly() []float64 {
	return s.collect(func(i int) float64 { return s.c.Deg(s.trueAnomaly(i)) })
}

func (s *System) trueAnomaly(i int) float64 {
	if s.circular(i) {
		return s.argLatitude(i)
	}
	e := s.eccVec(i)
	nu := acos(r3.Dot(e, s.r[i]) / (r3.Norm(e) * s.magR[i]))
	if r3.Dot(s.r[i], s.v[i]) < 0 {
		nu = twoPi - nu
	}
	return nu
}

// argLatitude is the angle from the ascending node (x̂ for planar orbits)
// to r, measured in the sense of h.
func (s *System) argLatitude(i int) float64 {
	ref := xHat
	if !s.planar(i) {
		n, magN := s.node(i)
		ref = r3.Scale(1/magN, n)
	}
	hHat := r3.Scale(1/s.magH[i], s.h[i])
	u := math.Atan2(r3.Dot(r3.Cross(ref, s.r[i]), hHat), r3.Dot(ref, s.r[i]))
	if u < 0 {
		u += twoPi
	}
	return u
}

// EccentricAnomaly returns the eccentric anomaly in degrees.
func (s *System) EccentricAnomaly() []float64 {
	return s.collect(func(i int) float64 { return s.c.Deg(s.eccAnomaly(i)) })
}

func (s *System) eccAnomaly(i int) float64 {
	nu := s.trueAnomaly(i)
	if s.circular(i) {
		return nu
	}
	return trueToEccentric(nu, s.ecc(i))
}

func trueToEccentric(nu, e float64) float64 {
	cosNu := math.Cos(nu)
	E := acos((e + cosNu) / (1.0 + e*cosNu))
	if nu > math.Pi && nu < twoPi {
		E = twoPi - E
	}
	return E
}

// MeanAnomaly returns the mean anomaly M = E - e·sin(E) in degrees.
func (s *System) MeanAnomaly() []float64 {
	return s.collect(func(i int) float64 { return s.c.Deg(s.meanAnomaly(i)) })
}

func (s *System) meanAnomaly(i int) float64 {
	E := s.eccAnomaly(i)
	return E - s.ecc(i)*math.Sin(E)
}

// Elements computes every element for every row.
func (s *System) Elements() []Elements {
	out := make([]Elements, s.n)
	s.each(func(i int) {
		e := s.ecc(i)
		E := s.eccAnomaly(i)
		out[i] = Elements{
			Ecc:      e,
			Semi:     s.semiCGS(i) / s.c.AUCM,
			Inc:      s.c.Deg(s.inc(i)),
			Node:     s.c.Deg(s.longAscNode(i)),
			ArgPeri:  s.c.Deg(s.argPeri(i)),
			TrueAnom: s.c.Deg(s.trueAnomaly(i)),
			EccAnom:  s.c.Deg(E),
			MeanAnom: s.c.Deg(E - e*math.Sin(E)),
		}
	})
	return out
}

// CircularFrequency returns ω = L/r² in 1/day, with L = sqrt(μ a (1-e²)).
func (s *System) CircularFrequency() []float64 {
	return s.collect(func(i int) float64 {
		e := s.ecc(i)
		L := math.Sqrt(s.mu[i] * s.semiCGS(i) * (1 - e*e))
		return L * s.c.DaySec / (s.magR[i] * s.magR[i])
	})
}
