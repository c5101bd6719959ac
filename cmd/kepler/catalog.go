package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/san-kum/kepler/internal/catalog"
	"github.com/san-kum/kepler/internal/kepler"
	"github.com/san-kum/kepler/internal/viz"
	"github.com/spf13/cobra"
)

var (
	filter  string
	options map[string]string
	bins    int
)

func catalogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "search directories of initial conditions",
	}
	cmd.PersistentFlags().StringVar(&filter, "filter", "", "settings file pattern (default from config, "+catalog.DefaultFilter+")")
	cmd.PersistentFlags().StringToStringVarP(&options, "option", "o", nil, "scan options, e.g. -o exact_dirs=true")

	scanCmd := &cobra.Command{
		Use:   "scan [dirs...]",
		Short: "list every initial condition found",
		RunE:  catalogScan,
	}

	queryCmd := &cobra.Command{
		Use:   "query [path] [dirs...]",
		Short: "print a dotted attribute for every record",
		Args:  cobra.MinimumNArgs(1),
		RunE:  catalogQuery,
	}

	statsCmd := &cobra.Command{
		Use:   "stats [path] [dirs...]",
		Short: "summarise a numeric attribute",
		Args:  cobra.MinimumNArgs(1),
		RunE:  catalogStats,
	}
	statsCmd.Flags().IntVar(&bins, "bins", 0, "also draw a histogram with this many bins")

	measureCmd := &cobra.Command{
		Use:   "measure [dirs...]",
		Short: "recompute elements from the stored stellar states",
		RunE:  catalogMeasure,
	}

	cmd.AddCommand(scanCmd, queryCmd, statsCmd, measureCmd)
	return cmd
}

func openCatalog(cmd *cobra.Command, dirs []string) (*catalog.Catalog, error) {
	opts, err := catalog.ParseOptions(options)
	if err != nil {
		return nil, err
	}
	if !cmd.Flags().Changed("option") {
		opts.ExactDirs = cfg.Catalog.ExactDirs
	}
	opts.Logger = &log

	f := filter
	if f == "" {
		f = cfg.Catalog.Filter
	}
	if len(dirs) == 0 {
		dirs = cfg.Catalog.Dirs
	}
	return catalog.Open(f, opts, dirs...)
}

func catalogScan(cmd *cobra.Command, args []string) error {
	cat, err := openCatalog(cmd, args)
	if err != nil {
		return err
	}

	rows := make([][]string, 0, cat.Len())
	for i := 0; i < cat.Len(); i++ {
		rec := cat.Record(i)
		rows = append(rows, []string{
			cell(rec.Get("dir")),
			filepath.Base(cell(rec.Get("ic_name"))),
			cell(rec.Get("physical.star_mode")),
			cell(rec.Get("physical.binsys.e")),
			cell(rec.Get("physical.binsys.a")),
		})
	}
	if err := viz.Table(os.Stdout, []string{"DIR", "IC", "MODE", "E", "A"}, rows); err != nil {
		return err
	}
	fmt.Println(viz.Subtle.Render(fmt.Sprintf("%d records", cat.Len())))
	return nil
}

func catalogQuery(cmd *cobra.Command, args []string) error {
	cat, err := openCatalog(cmd, args[1:])
	if err != nil {
		return err
	}

	vals := cat.Query(args[0])
	rows := make([][]string, len(vals))
	for i, v := range vals {
		rows[i] = []string{cell(cat.Record(i).Get("ic_name")), cell(v)}
	}
	return viz.Table(os.Stdout, []string{"IC", args[0]}, rows)
}

func catalogStats(cmd *cobra.Command, args []string) error {
	cat, err := openCatalog(cmd, args[1:])
	if err != nil {
		return err
	}

	s, err := cat.Stats(args[0])
	if err != nil {
		return err
	}
	fmt.Print(viz.Panel(args[0], []viz.KV{
		{Label: "n", Value: strconv.Itoa(s.N)},
		{Label: "mean", Value: fmtF(s.Mean)},
		{Label: "std", Value: fmtF(s.Std)},
		{Label: "min", Value: fmtF(s.Min)},
		{Label: "max", Value: fmtF(s.Max)},
	}))

	if bins > 0 {
		vals, err := cat.Floats(args[0])
		if err != nil {
			return err
		}
		fmt.Println()
		fmt.Print(viz.RenderHistogram(viz.Histogram(vals, bins), 30))
	}
	return nil
}

func catalogMeasure(cmd *cobra.Command, args []string) error {
	cat, err := openCatalog(cmd, args)
	if err != nil {
		return err
	}

	pair, idx, err := cat.Pairs()
	if err != nil {
		return err
	}
	sys, err := kepler.FromSim(pair)
	if err != nil {
		return err
	}

	els := sys.Elements()
	rows := make([][]string, len(els))
	for row, el := range els {
		rows[row] = []string{
			filepath.Base(cell(cat.Record(idx[row]).Get("ic_name"))),
			fmtF(el.Ecc), fmtF(el.Semi), fmtF(el.Inc),
			fmtF(el.Node), fmtF(el.ArgPeri), fmtF(el.TrueAnom),
		}
	}
	return viz.Table(os.Stdout, []string{"IC", "E", "A", "I", "Ω", "W", "ν"}, rows)
}

func cell(v any) string {
	switch x := v.(type) {
	case nil:
		return "-"
	case float64:
		return fmtF(x)
	case string:
		return x
	default:
		return fmt.Sprint(x)
	}
}
