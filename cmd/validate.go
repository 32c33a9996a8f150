package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check that runs agree on every solved instance",
		Long:  "Load and reconcile the selected runs without reporting statistics. Exits non-zero when two runs disagree on an instance's outcome or a preprocessing time exceeds its bound.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			table, err := loadTable(cfg, newLogger(cmd.ErrOrStderr()))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d runs, %d solved instances, outcomes consistent\n",
				len(table.Runs()), len(table.Records()))
			return nil
		},
	}
}
