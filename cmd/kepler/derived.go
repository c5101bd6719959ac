package main

import (
	"fmt"
	"strconv"

	"github.com/san-kum/kepler/internal/kepler"
	"github.com/san-kum/kepler/internal/units"
	"github.com/san-kum/kepler/internal/viz"
	"github.com/spf13/cobra"
)

var (
	totalMass float64
	fraction  float64
	ratio     float64
	period    float64
	trueAnom  float64
	mdot      float64
)

func perihelionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "perihelion",
		Short: "place a coplanar binary at periapsis on the x axis",
		RunE: func(cmd *cobra.Command, args []string) error {
			p1, p2, err := kepler.CalcPositions(totalMass, semi, ecc, fraction)
			if err != nil {
				return err
			}
			mp, ms := fraction*totalMass, (1-fraction)*totalMass
			k1, k2, err := kepler.CalcV(mp, ms, semi, ecc)
			if err != nil {
				return err
			}
			s1, s2, err := kepler.CalcVSim(mp, ms, semi, ecc)
			if err != nil {
				return err
			}
			fmt.Print(viz.Panel("periapsis", []viz.KV{
				{Label: "x1, x2", Value: fmtF(p1) + ", " + fmtF(p2) + " AU"},
				{Label: "v1, v2", Value: fmtF(k1) + ", " + fmtF(k2) + " km/s"},
				{Label: "v1, v2 (sim)", Value: fmtF(s1) + ", " + fmtF(s2)},
			}))
			return nil
		},
	}
	cmd.Flags().Float64Var(&totalMass, "mass", 1, "total mass (Msol)")
	cmd.Flags().Float64Var(&semi, "a", 1, "semimajor axis (AU)")
	cmd.Flags().Float64Var(&ecc, "e", 0, "eccentricity")
	cmd.Flags().Float64Var(&fraction, "p", 0.5, "mass fraction of the primary, in [0.5, 1)")
	return cmd
}

func stabilityCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stability",
		Short: "inner edge of the stable circumbinary region",
		RunE: func(cmd *cobra.Command, args []string) error {
			b := &kepler.Binary{E: ecc, A: semi, M1: m1, M2: m2}
			if err := b.Validate(); err != nil {
				return err
			}
			ac, pm := b.CriticalRadius()
			items := []viz.KV{
				{Label: "critical radius", Value: fmt.Sprintf("%s ± %s AU", fmtF(ac), fmtF(pm))},
			}
			if cmd.Flags().Changed("mdot") {
				edot, err := b.EDot(mdot)
				if err != nil {
					return err
				}
				items = append(items, viz.KV{Label: "de/dt", Value: fmtF(edot) + " 1/s"})
			}
			fmt.Print(viz.Panel("stability", items))
			return nil
		},
	}
	cmd.Flags().Float64Var(&semi, "a", 1, "semimajor axis (AU)")
	cmd.Flags().Float64Var(&ecc, "e", 0, "eccentricity")
	cmd.Flags().Float64Var(&m1, "m1", 1, "primary mass (Msol)")
	cmd.Flags().Float64Var(&m2, "m2", 1, "secondary mass (Msol)")
	cmd.Flags().Float64Var(&mdot, "mdot", 0, "accretion rate (Msol/yr), reports de/dt")
	return cmd
}

func rocheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "roche",
		Short: "Eggleton Roche lobe radius",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !(ratio > 0) || !(semi > 0) {
				return fmt.Errorf("%w: q=%g a=%g", kepler.ErrParameterBounds, ratio, semi)
			}
			fmt.Print(viz.Panel("roche lobe", []viz.KV{
				{Label: "r_L", Value: fmtF(kepler.RocheLobe(ratio, semi)) + " AU"},
			}))
			return nil
		},
	}
	cmd.Flags().Float64Var(&ratio, "q", 1, "mass ratio m1/m2")
	cmd.Flags().Float64Var(&semi, "a", 1, "separation (AU)")
	return cmd
}

func periodCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "period",
		Short: "orbital period from the semimajor axis",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !(semi > 0) || !(totalMass > 0) {
				return fmt.Errorf("%w: a=%g M=%g", kepler.ErrParameterBounds, semi, totalMass)
			}
			fmt.Print(viz.Panel("period", []viz.KV{
				{Label: "P", Value: fmtF(kepler.AToP(semi, totalMass)) + " d"},
			}))
			return nil
		},
	}
	cmd.Flags().Float64Var(&semi, "a", 1, "semimajor axis (AU)")
	cmd.Flags().Float64Var(&totalMass, "mass", 1, "total mass (Msol)")
	return cmd
}

func semiCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "semi",
		Short: "semimajor axis from the orbital period",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !(period > 0) || !(totalMass > 0) {
				return fmt.Errorf("%w: P=%g M=%g", kepler.ErrParameterBounds, period, totalMass)
			}
			fmt.Print(viz.Panel("semimajor axis", []viz.KV{
				{Label: "a", Value: fmtF(kepler.PToA(period, totalMass)) + " AU"},
			}))
			return nil
		},
	}
	cmd.Flags().Float64Var(&period, "period", 365.25, "orbital period (days)")
	cmd.Flags().Float64Var(&totalMass, "mass", 1, "total mass (Msol)")
	return cmd
}

func anomalyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "anomaly",
		Short: "convert between true and mean anomaly",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !(ecc >= 0 && ecc < 1) {
				return fmt.Errorf("%w: e=%g", kepler.ErrUnbound, ecc)
			}
			if cmd.Flags().Changed("nu") {
				fmt.Print(viz.Panel("anomaly", []viz.KV{
					{Label: "M", Value: fmtF(kepler.TrueToMean(trueAnom, ecc)) + "°"},
				}))
				return nil
			}
			nu, err := kepler.MeanToTrue(meanAnom, ecc)
			if err != nil {
				return err
			}
			fmt.Print(viz.Panel("anomaly", []viz.KV{{Label: "ν", Value: fmtF(nu) + "°"}}))
			return nil
		},
	}
	cmd.Flags().Float64Var(&ecc, "e", 0, "eccentricity")
	cmd.Flags().Float64Var(&trueAnom, "nu", 0, "true anomaly (deg), converted to mean")
	cmd.Flags().Float64Var(&meanAnom, "M", 0, "mean anomaly (deg), converted to true")
	cmd.MarkFlagsMutuallyExclusive("nu", "M")
	return cmd
}

func convertCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "convert [value] [from] [to]",
		Short: "convert a quantity between units",
		Example: `  kepler convert 1 au cm
  kepler convert 1 sim km/s`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return err
			}
			from, err := units.ParseUnit(args[1])
			if err != nil {
				return err
			}
			to, err := units.ParseUnit(args[2])
			if err != nil {
				return err
			}
			q := units.Q(v, from)
			out, err := q.In(to)
			if err != nil {
				return err
			}
			fmt.Printf("%s = %s\n", q, units.Q(out, to))
			return nil
		},
	}
}
