package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"masksync/internal/reconcile"
)

func newPlanCmd() *cobra.Command {
	var grantees []string

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Show the corrections a run would apply, without applying them",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, _, _, cleanup, err := setup()
			if err != nil {
				return err
			}
			defer cleanup()

			res, err := a.Reconciler.Run(cmd.Context(), reconcile.Options{
				DryRun:   true,
				Grantees: grantees,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if res.Drift.Empty() {
				fmt.Fprintln(out, "No drift. Warehouse matches configuration.")
				return nil
			}
			for _, a := range res.Drift.Missing {
				fmt.Fprintf(out, "+ attach %s to %s on %s (priority %d)\n",
					a.PolicyName, a.Grantee, a.Column.String(), a.Priority)
			}
			for _, a := range res.Drift.Extra {
				fmt.Fprintf(out, "- detach %s from %s on %s\n",
					a.PolicyName, a.Grantee, a.Column.String())
			}
			for _, m := range res.Drift.Mismatched {
				fmt.Fprintf(out, "~ replace %s with %s for %s on %s\n",
					m.Actual.PolicyName, m.Expected.PolicyName, m.Expected.Grantee, m.Expected.Column.String())
			}
			fmt.Fprintf(out, "\nPlan: %d to attach, %d to detach, %d to replace\n",
				len(res.Drift.Missing), len(res.Drift.Extra), len(res.Drift.Mismatched))
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&grantees, "grantee", nil, "preview drift for the given principals only (repeatable)")
	return cmd
}
