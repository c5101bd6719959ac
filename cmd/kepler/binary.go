package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/san-kum/kepler/internal/config"
	"github.com/san-kum/kepler/internal/kepler"
	"github.com/san-kum/kepler/internal/storage"
	"github.com/san-kum/kepler/internal/vec"
	"github.com/san-kum/kepler/internal/viz"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	preset   string
	starMode string
	ecc      float64
	semi     float64
	inc      float64
	node     float64
	argPeri  float64
	meanAnom float64
	m1       float64
	m2       float64

	x1, x2, v1, v2 []float64
	runID          string
	cgs            bool
	asJSON         bool
)

func initCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init [name]",
		Short: "generate binary initial conditions",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runInit,
	}
	cmd.Flags().StringVar(&preset, "preset", "", "start from a preset binary")
	cmd.Flags().StringVar(&starMode, "star-mode", config.DefaultStarMode, "ptype (circumbinary) or stype (circumstellar)")
	addElementFlags(cmd)
	return cmd
}

func addElementFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&ecc, "e", 0, "eccentricity")
	cmd.Flags().Float64Var(&semi, "a", config.DefaultSemi, "semimajor axis (AU)")
	cmd.Flags().Float64Var(&inc, "i", 0, "inclination (deg)")
	cmd.Flags().Float64Var(&node, "omega", 0, "longitude of the ascending node (deg)")
	cmd.Flags().Float64Var(&argPeri, "w", 0, "argument of periapsis (deg)")
	cmd.Flags().Float64Var(&meanAnom, "M", 0, "mean anomaly (deg)")
	cmd.Flags().Float64Var(&m1, "m1", config.DefaultMass, "primary mass (Msol)")
	cmd.Flags().Float64Var(&m2, "m2", config.DefaultMass, "secondary mass (Msol)")
}

// resolveBinary applies the preset, then the config file, then any flag the
// user set explicitly.
func resolveBinary(cmd *cobra.Command) (*config.Config, error) {
	c := *cfg
	if preset != "" {
		p := config.GetPreset(preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.PresetNames())
		}
		c.Name, c.StarMode, c.Binary = p.Name, p.StarMode, p.Binary
	}

	flags := cmd.Flags()
	set := func(name string, dst *float64, val float64) {
		if flags.Changed(name) {
			*dst = val
		}
	}
	set("e", &c.Binary.Ecc, ecc)
	set("a", &c.Binary.Semi, semi)
	set("i", &c.Binary.Inc, inc)
	set("omega", &c.Binary.Node, node)
	set("w", &c.Binary.ArgPeri, argPeri)
	set("M", &c.Binary.MeanAnom, meanAnom)
	set("m1", &c.Binary.M1, m1)
	set("m2", &c.Binary.M2, m2)
	if flags.Changed("star-mode") {
		c.StarMode = starMode
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func runInit(cmd *cobra.Command, args []string) error {
	c, err := resolveBinary(cmd)
	if err != nil {
		return err
	}
	name := c.Name
	if len(args) > 0 {
		name = args[0]
	}

	b, err := c.Binary.Binary()
	if err != nil {
		return err
	}

	st := storage.New(c.OutDir)
	if err := st.Init(); err != nil {
		return err
	}
	id, err := st.Save(name, c.StarMode, b)
	if err != nil {
		return err
	}
	log.Info().Str("run", id).Str("dir", c.OutDir).Msg("wrote initial conditions")

	pair, err := st.LoadStars(id)
	if err != nil {
		return err
	}

	fmt.Print(viz.Panel("binary "+id, binaryItems(b)))
	fmt.Println()
	return printState(pair)
}

func binaryItems(b *kepler.Binary) []viz.KV {
	ac, pm := b.CriticalRadius()
	return []viz.KV{
		{Label: "e", Value: fmtF(b.E)},
		{Label: "a", Value: fmtF(b.A) + " AU"},
		{Label: "i", Value: fmtF(b.I) + "°"},
		{Label: "Ω", Value: fmtF(b.Omega) + "°"},
		{Label: "w", Value: fmtF(b.W) + "°"},
		{Label: "ν", Value: fmtF(b.Nu) + "°"},
		{Label: "m1, m2", Value: fmtF(b.M1) + ", " + fmtF(b.M2) + " Msol"},
		{Label: "period", Value: fmtF(b.Period()) + " d"},
		{Label: "roche lobe", Value: fmtF(b.RocheLobe()) + " AU"},
		{Label: "critical radius", Value: fmt.Sprintf("%s ± %s AU", fmtF(ac), fmtF(pm))},
	}
}

func printState(p kepler.Pair) error {
	rows := [][]string{
		append([]string{"1", fmtF(p.M1[0])}, vecCells(p.X1[0].X, p.X1[0].Y, p.X1[0].Z, p.V1[0].X, p.V1[0].Y, p.V1[0].Z)...),
		append([]string{"2", fmtF(p.M2[0])}, vecCells(p.X2[0].X, p.X2[0].Y, p.X2[0].Z, p.V2[0].X, p.V2[0].Y, p.V2[0].Z)...),
	}
	return viz.Table(os.Stdout, []string{"STAR", "M", "X", "Y", "Z", "VX", "VY", "VZ"}, rows)
}

func vecCells(vals ...float64) []string {
	out := make([]string, len(vals))
	for i, v := range vals {
		out[i] = fmtF(v)
	}
	return out
}

func fmtF(v float64) string { return strconv.FormatFloat(v, 'g', 8, 64) }

func listCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "list generated initial conditions",
		RunE:  listRuns,
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the runs as JSON")
	return cmd
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(cfg.OutDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if asJSON {
		return storage.WriteJSON(os.Stdout, runs)
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	rows := make([][]string, 0, len(runs))
	for _, run := range runs {
		bs := run.Physical.Binsys
		rows = append(rows, []string{
			run.ID,
			run.Created.Format("2006-01-02 15:04:05"),
			run.Physical.StarMode,
			fmtF(bs.E),
			fmtF(bs.A),
			fmtF(bs.M1),
			fmtF(bs.M2),
			fmtF(bs.Period),
		})
	}
	return viz.Table(os.Stdout, []string{"ID", "CREATED", "MODE", "E", "A", "M1", "M2", "PERIOD"}, rows)
}

func showCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show [run_id]",
		Short: "print the settings of a run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := storage.New(cfg.OutDir).Load(args[0])
			if err != nil {
				return err
			}
			enc := yaml.NewEncoder(os.Stdout)
			enc.SetIndent(2)
			defer enc.Close()
			return enc.Encode(settings)
		},
	}
}

func elementsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "elements",
		Short: "compute orbital elements from positions and velocities",
		Long: `Compute the Keplerian elements of a binary from the Cartesian state of
both stars. By default positions are in AU, velocities in simulation units
and masses in Msol; --cgs switches to cm, cm/s and grams. --run reads the
state of a generated run instead.`,
		RunE: runElements,
	}
	cmd.Flags().Float64SliceVar(&x1, "x1", []float64{0, 0, 0}, "primary position")
	cmd.Flags().Float64SliceVar(&x2, "x2", []float64{0, 0, 0}, "secondary position")
	cmd.Flags().Float64SliceVar(&v1, "v1", []float64{0, 0, 0}, "primary velocity")
	cmd.Flags().Float64SliceVar(&v2, "v2", []float64{0, 0, 0}, "secondary velocity")
	cmd.Flags().Float64Var(&m1, "m1", config.DefaultMass, "primary mass")
	cmd.Flags().Float64Var(&m2, "m2", config.DefaultMass, "secondary mass")
	cmd.Flags().BoolVar(&cgs, "cgs", false, "inputs are in cm, cm/s and g")
	cmd.Flags().StringVar(&runID, "run", "", "read the state of a generated run")
	return cmd
}

func runElements(cmd *cobra.Command, args []string) error {
	var (
		pair kepler.Pair
		err  error
	)
	if runID != "" {
		pair, err = storage.New(cfg.OutDir).LoadStars(runID)
	} else {
		pair, err = pairFromFlags()
	}
	if err != nil {
		return err
	}

	from := kepler.FromSim
	if cgs && runID == "" {
		from = kepler.FromCGS
	}
	sys, err := from(pair)
	if err != nil {
		return err
	}

	el := sys.Elements()[0]
	freq := sys.CircularFrequency()[0]
	items := []viz.KV{
		{Label: "e", Value: fmtF(el.Ecc)},
		{Label: "a", Value: fmtF(el.Semi) + " AU"},
		{Label: "i", Value: fmtF(el.Inc) + "°"},
		{Label: "Ω", Value: fmtF(el.Node) + "°"},
		{Label: "w", Value: fmtF(el.ArgPeri) + "°"},
		{Label: "ν", Value: fmtF(el.TrueAnom) + "°"},
		{Label: "E", Value: fmtF(el.EccAnom) + "°"},
		{Label: "M", Value: fmtF(el.MeanAnom) + "°"},
		{Label: "ω", Value: fmtF(freq) + " 1/d"},
	}
	fmt.Print(viz.Panel("elements", items))
	return nil
}

func pairFromFlags() (kepler.Pair, error) {
	rows, err := vec.FromRows([][]float64{x1, x2, v1, v2})
	if err != nil {
		return kepler.Pair{}, err
	}
	return kepler.Pair{
		X1: vec.Batch{rows[0]}, X2: vec.Batch{rows[1]},
		V1: vec.Batch{rows[2]}, V2: vec.Batch{rows[3]},
		M1: []float64{m1}, M2: []float64{m2},
	}, nil
}

func presetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "list available binary presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			rows := make([][]string, 0, len(config.Presets))
			for _, name := range config.PresetNames() {
				b := config.Presets[name].Binary
				rows = append(rows, []string{
					name, config.Presets[name].StarMode,
					fmtF(b.Ecc), fmtF(b.Semi), fmtF(b.Inc), fmtF(b.M1), fmtF(b.M2),
				})
			}
			return viz.Table(os.Stdout, []string{"NAME", "MODE", "E", "A", "I", "M1", "M2"}, rows)
		},
	}
}
