package cmd

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/inconshreveable/log15"
	"github.com/inconshreveable/log15/term"
	"github.com/spf13/cobra"

	"github.com/signalnine/solvercmp/internal/config"
	"github.com/signalnine/solvercmp/internal/loader"
	"github.com/signalnine/solvercmp/internal/reconcile"
)

var (
	cfgFile               string
	flagVerbose           bool
	flagRunDir            string
	flagTimeout           int
	flagPreprocessTimeout int
	flagBenchmarks        []string
	flagPreprocessing     bool
	flagInclude           []string
	flagExclude           []string
)

func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "solvercmp",
		Short: "Compare solver benchmark runs over a shared instance set",
	}
	pf := root.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "solvercmp.yaml", "config file path (optional)")
	pf.BoolVarP(&flagVerbose, "verbose", "v", false, "log skipped and missing results")
	pf.StringVarP(&flagRunDir, "run", "r", "", "run directory holding benchmark_set_* index files")
	pf.IntVar(&flagTimeout, "timeout", config.DefaultTimeout, "per-instance timeout in seconds")
	pf.IntVar(&flagPreprocessTimeout, "preprocess-timeout", 0, "preprocessing time bound in seconds (default: timeout)")
	pf.StringSliceVar(&flagBenchmarks, "benchmark", []string{loader.AllBenchmarks}, "benchmark name substrings to keep (acas,mnist,boeing)")
	pf.BoolVar(&flagPreprocessing, "preprocessing", false, "subtract .preprocess sidecar times for runs named *preprocess*")
	pf.StringSliceVar(&flagInclude, "sub", nil, "only runs whose index name contains one of these substrings")
	pf.StringSliceVar(&flagExclude, "exc", nil, "skip runs whose index name contains one of these substrings")

	root.AddCommand(newCompareCmd())
	root.AddCommand(newListCmd())
	root.AddCommand(newValidateCmd())
	root.AddCommand(newSummarizeCmd())
	return root
}

func newLogger(w io.Writer) log15.Logger {
	log := log15.New()
	lvl := log15.LvlInfo
	if flagVerbose {
		lvl = log15.LvlDebug
	}
	format := log15.LogfmtFormat()
	if f, ok := w.(*os.File); ok && term.IsTty(f.Fd()) {
		format = log15.TerminalFormat()
	}
	log.SetHandler(log15.LvlFilterHandler(lvl, log15.StreamHandler(w, format)))
	return log
}

// loadConfig reads the config file when one is present and applies every
// flag the user set on top of it.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.Default()
	flags := cmd.Flags()
	if _, err := os.Stat(cfgFile); flags.Changed("config") || !errors.Is(err, fs.ErrNotExist) {
		loaded, err := config.Load(cfgFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if flags.Changed("run") {
		cfg.RunDir = flagRunDir
	}
	if flags.Changed("timeout") {
		cfg.Timeout = flagTimeout
	}
	if flags.Changed("preprocess-timeout") {
		cfg.PreprocessTimeout = flagPreprocessTimeout
	}
	if flags.Changed("benchmark") {
		cfg.Benchmarks = flagBenchmarks
	}
	if flags.Changed("preprocessing") {
		cfg.Preprocessing = flagPreprocessing
	}
	if flags.Changed("sub") {
		cfg.Include = flagInclude
	}
	if flags.Changed("exc") {
		cfg.Exclude = flagExclude
	}
	applyCompareFlags(cmd, cfg)

	if cfg.RunDir == "" {
		return nil, fmt.Errorf("no run directory given (use --run or run_dir in %s)", cfgFile)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadTable loads every selected run and reconciles them.
func loadTable(cfg *config.Config, log log15.Logger) (*reconcile.Table, error) {
	runs, err := loader.LoadAll(cfg.RunDir, cfg.RunFilter(), cfg.LoaderOptions(), log)
	if err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		return nil, fmt.Errorf("no runs selected in %s", cfg.RunDir)
	}
	return reconcile.Reconcile(runs, cfg.Timeout, log)
}
