package cmd

import (
	"github.com/spf13/cobra"
	"gonum.org/v1/plot/vg"

	"github.com/signalnine/solvercmp/internal/config"
	"github.com/signalnine/solvercmp/internal/report"
	"github.com/signalnine/solvercmp/internal/scatter"
)

var (
	flagPlot         bool
	flagPlotDir      string
	flagThreshold    int
	flagFormat       string
	flagNumInstances int
)

func newCompareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Report solved counts, times and a portfolio simulation across runs",
		Args:  cobra.NoArgs,
		RunE:  runCompare,
	}
	cmd.Flags().BoolVarP(&flagPlot, "plot", "p", false, "write SAT/UNSAT/ALL scatter plots (exactly two runs)")
	cmd.Flags().StringVar(&flagPlotDir, "plot-dir", ".", "directory for plot images")
	cmd.Flags().IntVarP(&flagThreshold, "threshold", "t", config.DefaultThreshold, "easy-instance threshold in seconds")
	cmd.Flags().StringVar(&flagFormat, "format", report.FormatTSV, "output format (tsv, table, markdown, json)")
	cmd.Flags().IntVarP(&flagNumInstances, "num-instances", "n", 0, "override the instance count used for totals")
	return cmd
}

func applyCompareFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("plot") {
		cfg.Plot.Enabled = flagPlot
	}
	if flags.Changed("plot-dir") {
		cfg.Plot.Dir = flagPlotDir
	}
	if flags.Changed("threshold") {
		cfg.Threshold = flagThreshold
	}
	if flags.Changed("format") {
		cfg.Format = flagFormat
	}
	if flags.Changed("num-instances") {
		cfg.NumInstances = flagNumInstances
	}
}

func runCompare(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	log := newLogger(cmd.ErrOrStderr())

	table, err := loadTable(cfg, log)
	if err != nil {
		return err
	}
	stats, err := report.Aggregate(table, report.Options{
		Threshold:    cfg.Threshold,
		NumInstances: cfg.NumInstances,
	})
	if err != nil {
		return err
	}
	if err := report.Write(stats, cfg.Format, cmd.OutOrStdout()); err != nil {
		return err
	}

	if !cfg.Plot.Enabled {
		return nil
	}
	if n := len(table.Runs()); n != 2 {
		log.Info("skipping plots", "runs", n)
		return nil
	}
	_, err = scatter.WriteAll(table, scatter.Options{
		Dir:       cfg.Plot.Dir,
		Benchmark: cfg.Benchmarks[0],
		Annotate:  cfg.Preprocessing,
		Size:      vg.Length(cfg.Plot.SizeInches) * vg.Inch,
	}, log)
	return err
}
