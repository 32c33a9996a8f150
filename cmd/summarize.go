package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/signalnine/solvercmp/internal/loader"
	"github.com/signalnine/solvercmp/internal/result"
)

var flagOutDir string

func newSummarizeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "summarize",
		Short: "Write one <instance> <outcome> <seconds> file per run",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			log := newLogger(cmd.ErrOrStderr())
			runs, err := loader.LoadAll(cfg.RunDir, cfg.RunFilter(), cfg.LoaderOptions(), log)
			if err != nil {
				return err
			}
			for _, run := range runs {
				path, err := result.WriteSummary(flagOutDir, run.Label, run.OrderedEntries())
				if err != nil {
					return fmt.Errorf("run %s: %w", run.Label, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %d entries -> %s\n", run.Label, len(run.Entries), path)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&flagOutDir, "out", "o", "summaries", "output directory")
	return cmd
}
