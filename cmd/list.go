package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/signalnine/solvercmp/internal/loader"
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the runs selected by --sub and --exc",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			paths, err := loader.Discover(cfg.RunDir, cfg.RunFilter())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Runs in %s:\n", cfg.RunDir)
			for _, p := range paths {
				fmt.Fprintf(out, "  - %s (%s)\n", loader.Label(p), p)
			}
			return nil
		},
	}
}
