package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"masksync/internal/reconcile"
)

func newRunCmd() *cobra.Command {
	var (
		dryRun   bool
		grantees []string
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run one reconciliation cycle",
		Long:  "Fetches warehouse state, computes the expected masking policy attachments, and applies the corrections needed to converge.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, _, _, cleanup, err := setup()
			if err != nil {
				return err
			}
			defer cleanup()

			res, err := a.Reconciler.Run(cmd.Context(), reconcile.Options{
				DryRun:   dryRun,
				Grantees: grantees,
			})
			if err != nil {
				return err
			}
			printResult(cmd, res)
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "compute drift without applying corrections")
	cmd.Flags().StringSliceVar(&grantees, "grantee", nil, "restrict corrections to the given principals (repeatable)")
	return cmd
}

func printResult(cmd *cobra.Command, res *reconcile.Result) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Run %s\n", res.RunID)
	fmt.Fprintf(out, "  expected attachments: %d\n", res.Expected)
	fmt.Fprintf(out, "  actual attachments:   %d\n", res.Actual)
	fmt.Fprintf(out, "  missing: %d  extra: %d  mismatched: %d\n",
		len(res.Drift.Missing), len(res.Drift.Extra), len(res.Drift.Mismatched))
	if res.Applied {
		fmt.Fprintf(out, "  applied %d corrections in %s\n", res.Drift.Corrections(), res.Took)
	} else {
		fmt.Fprintf(out, "  dry run, no corrections applied\n")
	}
}
