// Package kepler converts between Cartesian state vectors and classical
// Keplerian orbital elements for two-body systems.
//
// The package is organised in layers:
//
//   - [System]: forward solvers (state vectors to elements), built once from
//     a [Pair] through [FromSim] or [FromCGS]
//   - [ToCartesian], [ReduceToPhysical], [InitializeBinary]: inverse solvers
//     (elements to state vectors)
//   - [CalcPositions], [CalcV]: closed-form perihelion initialiser
//   - [CriticalRadius], [RocheLobe], [AccretionEDot], [COM]: derived quantities
//
// Every operation works on batches. A single binary is a batch of one; rows
// never share state, so batches are evaluated with [vec.ParallelFor].
//
// # Units
//
// Forward solvers compute in CGS and report lengths in AU and angles in
// degrees. Inverse solvers take AU, degrees and solar masses and report
// velocities in km/s, or in simulation velocity units for the *Sim variants.
//
// # Conventions
//
// Inclination uses |h_z| so orbits are always reported counter-clockwise
// with 0 <= i <= 90. Planar orbits (i below [units.Constants].Small degrees)
// and circular orbits (|e_vec| below Small) have Ω = w = 0. The true anomaly
// of a circular orbit is the argument of latitude.
//
// # Example
//
//	el := []kepler.Elements{{Ecc: 0.1, Semi: 1, MeanAnom: 45}}
//	pair, _ := kepler.InitializeBinarySim(el, []float64{0.5}, []float64{0.5})
//	sys, _ := kepler.FromSim(pair)
//	fmt.Println(sys.Elements())
package kepler
