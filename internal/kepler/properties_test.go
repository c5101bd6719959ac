package kepler_test

import (
	"math"
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/kepler/internal/kepler"
)

func angleDiff(a, b float64) float64 {
	d := math.Mod(math.Abs(a-b), 360)
	return math.Min(d, 360-d)
}

type sample struct {
	el     kepler.Elements
	m1, m2 float64
}

func randomSamples(rng *rand.Rand, n int, eMin, eMax, iMin, iMax float64) []sample {
	out := make([]sample, n)
	for k := range out {
		m1 := 0.1 + 1.9*rng.Float64()
		out[k] = sample{
			el: kepler.Elements{
				Ecc:      eMin + (eMax-eMin)*rng.Float64(),
				Semi:     math.Pow(10, -2+4*rng.Float64()),
				Inc:      iMin + (iMax-iMin)*rng.Float64(),
				Node:     360 * rng.Float64(),
				ArgPeri:  360 * rng.Float64(),
				MeanAnom: 360 * rng.Float64(),
			},
			m1: m1,
			m2: 0.05 + (m1-0.05)*rng.Float64(),
		}
	}
	return out
}

func split(samples []sample) ([]kepler.Elements, []float64, []float64) {
	el := make([]kepler.Elements, len(samples))
	m1 := make([]float64, len(samples))
	m2 := make([]float64, len(samples))
	for i, s := range samples {
		el[i], m1[i], m2[i] = s.el, s.m1, s.m2
	}
	return el, m1, m2
}

var _ = Describe("orbital elements", func() {
	var rng *rand.Rand

	BeforeEach(func() {
		rng = rand.New(rand.NewSource(42))
	})

	Describe("round trip", func() {
		DescribeTable("recovers every element from the state vectors it produced",
			func(eMin, eMax, eTol float64) {
				el, m1, m2 := split(randomSamples(rng, 500, eMin, eMax, 5, 85))

				pair, err := kepler.InitializeBinarySim(el, m1, m2)
				Expect(err).NotTo(HaveOccurred())

				sys, err := kepler.FromSim(pair)
				Expect(err).NotTo(HaveOccurred())
				got := sys.Elements()
				Expect(got).To(HaveLen(len(el)))

				for i, want := range el {
					g := got[i]
					nu, err := kepler.MeanToTrue(want.MeanAnom, want.Ecc)
					Expect(err).NotTo(HaveOccurred())

					Expect(g.Ecc).To(BeNumerically("~", want.Ecc, eTol), "e row %d", i)
					Expect(g.Semi).To(BeNumerically("~", want.Semi, 1e-6*want.Semi), "a row %d", i)
					Expect(angleDiff(g.Inc, want.Inc)).To(BeNumerically("<", 1e-6*360), "i row %d", i)
					Expect(angleDiff(g.Node, want.Node)).To(BeNumerically("<", 1e-6*360), "Ω row %d", i)
					Expect(angleDiff(g.ArgPeri, want.ArgPeri)).To(BeNumerically("<", 1e-6*360), "w row %d", i)
					Expect(angleDiff(g.TrueAnom, nu)).To(BeNumerically("<", 1e-6*360), "ν row %d", i)
					Expect(angleDiff(g.MeanAnom, want.MeanAnom)).To(BeNumerically("<", 1e-6*360), "M row %d", i)
				}
			},
			Entry("nearly circular", 1e-5, 0.05, 1e-9),
			Entry("eccentric", 0.05, 0.9, 1e-7),
		)

		It("keeps the three anomalies on Kepler's equation", func() {
			el, m1, m2 := split(randomSamples(rng, 200, 0.05, 0.9, 5, 85))
			pair, err := kepler.InitializeBinarySim(el, m1, m2)
			Expect(err).NotTo(HaveOccurred())
			sys, err := kepler.FromSim(pair)
			Expect(err).NotTo(HaveOccurred())

			for _, g := range sys.Elements() {
				E := g.EccAnom * math.Pi / 180
				M := (E - g.Ecc*math.Sin(E)) * 180 / math.Pi
				Expect(angleDiff(M, g.MeanAnom)).To(BeNumerically("<", 1e-9))
				Expect(angleDiff(kepler.TrueToMean(g.TrueAnom, g.Ecc), g.MeanAnom)).To(BeNumerically("<", 1e-5))
			}
		})
	})

	Describe("centre of mass", func() {
		It("stays at the origin after the physical-frame split", func() {
			el, m1, m2 := split(randomSamples(rng, 200, 0, 0.9, 0, 90))
			pair, err := kepler.InitializeBinary(el, m1, m2)
			Expect(err).NotTo(HaveOccurred())

			com, err := kepler.COM(pair.M1, pair.M2, pair.X1, pair.X2)
			Expect(err).NotTo(HaveOccurred())
			for i, c := range com {
				scale := el[i].Semi * 1e-14
				Expect(math.Abs(c.X)).To(BeNumerically("<", scale))
				Expect(math.Abs(c.Y)).To(BeNumerically("<", scale))
				Expect(math.Abs(c.Z)).To(BeNumerically("<", scale))

				// antiparallel
				dot := pair.X1[i].X*pair.X2[i].X + pair.X1[i].Y*pair.X2[i].Y + pair.X1[i].Z*pair.X2[i].Z
				Expect(dot).To(BeNumerically("<=", 0))
			}
		})
	})

	Describe("conventions", func() {
		It("reports Ω = w = 0 for circular orbits", func() {
			samples := randomSamples(rng, 200, 0, 0, 0, 85)
			el, m1, m2 := split(samples)
			pair, err := kepler.InitializeBinarySim(el, m1, m2)
			Expect(err).NotTo(HaveOccurred())
			sys, err := kepler.FromSim(pair)
			Expect(err).NotTo(HaveOccurred())

			Expect(sys.LongAscNode()).To(HaveEach(BeZero()))
			Expect(sys.ArgPeri()).To(HaveEach(BeZero()))
			Expect(sys.Ecc()).To(HaveEach(BeNumerically("<", 1e-6)))
		})

		It("reports Ω = 0 for planar orbits", func() {
			el, m1, m2 := split(randomSamples(rng, 200, 0.05, 0.9, 0, 0))
			pair, err := kepler.InitializeBinarySim(el, m1, m2)
			Expect(err).NotTo(HaveOccurred())
			sys, err := kepler.FromSim(pair)
			Expect(err).NotTo(HaveOccurred())

			Expect(sys.Inc()).To(HaveEach(BeZero()))
			Expect(sys.LongAscNode()).To(HaveEach(BeZero()))
		})
	})

	Describe("perihelion initialiser", func() {
		It("matches the general path at M = 0", func() {
			for k := 0; k < 100; k++ {
				M := 0.2 + 3*rng.Float64()
				a := math.Pow(10, -1+3*rng.Float64())
				e := 0.9 * rng.Float64()
				p := 0.5 + 0.45*rng.Float64()
				m1, m2 := p*M, M-p*M

				x1, x2, err := kepler.CalcPositions(M, a, e, p)
				Expect(err).NotTo(HaveOccurred())
				v1, v2, err := kepler.CalcVSim(m1, m2, a, e)
				Expect(err).NotTo(HaveOccurred())

				pair, err := kepler.InitializeBinarySim(
					[]kepler.Elements{{Ecc: e, Semi: a}}, []float64{m1}, []float64{m2})
				Expect(err).NotTo(HaveOccurred())

				Expect(pair.X1[0].X).To(BeNumerically("~", x1, 1e-6*math.Abs(x1)))
				Expect(pair.X2[0].X).To(BeNumerically("~", x2, 1e-6*math.Abs(x2)))
				Expect(pair.V1[0].Y).To(BeNumerically("~", v1, 1e-6*math.Abs(v1)))
				Expect(pair.V2[0].Y).To(BeNumerically("~", v2, 1e-6*math.Abs(v2)))
			}
		})

		It("splits an equal-mass circular binary symmetrically", func() {
			x1, x2, err := kepler.CalcPositions(1, 1, 0, 0.5)
			Expect(err).NotTo(HaveOccurred())
			Expect(x1).To(BeNumerically("~", 0.5, 1e-12))
			Expect(x2).To(BeNumerically("~", -0.5, 1e-12))

			v1, v2, err := kepler.CalcV(0.5, 0.5, 1, 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(v1).To(BeNumerically(">", 0))
			Expect(v2).To(BeNumerically("<", 0))
			Expect(v1).To(BeNumerically("~", -v2, 1e-12))
		})
	})

	Describe("batches", func() {
		It("gives the same answer row by row as for the whole batch", func() {
			el, m1, m2 := split(randomSamples(rng, 600, 0, 0.9, 0, 90))
			pair, err := kepler.InitializeBinarySim(el, m1, m2)
			Expect(err).NotTo(HaveOccurred())

			sys, err := kepler.FromSim(pair)
			Expect(err).NotTo(HaveOccurred())
			all := sys.Elements()

			for i := 0; i < len(el); i += 37 {
				row := kepler.Pair{
					X1: pair.X1[i : i+1], X2: pair.X2[i : i+1],
					V1: pair.V1[i : i+1], V2: pair.V2[i : i+1],
					M1: pair.M1[i : i+1], M2: pair.M2[i : i+1],
				}
				one, err := kepler.FromSim(row)
				Expect(err).NotTo(HaveOccurred())
				Expect(one.Elements()[0]).To(Equal(all[i]))
				Expect(one.CircularFrequency()[0]).To(Equal(sys.CircularFrequency()[i]))
			}
		})
	})

	It("puts the Roche lobe of an equal-mass binary near 0.38 a", func() {
		Expect(kepler.RocheLobe(1, 1)).To(BeNumerically("~", 0.38, 0.005))
	})

	It("fails loudly on unsolvable input", func() {
		_, err := kepler.SolveKepler(math.NaN(), 0.3)
		Expect(err).To(MatchError(kepler.ErrNoConvergence))

		_, _, err = kepler.ToCartesian([]kepler.Elements{{Ecc: 1, Semi: 1}}, []float64{1}, []float64{1})
		Expect(err).To(MatchError(kepler.ErrUnbound))
	})
})
