package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newRefreshCmd(a *app) *cobra.Command {
	var count int

	cmd := &cobra.Command{
		Use:   "refresh",
		Short: "Run pipeline refreshes and print the KPI deltas",
		Long: `Run the simulated pipeline refresh in-process and print how each KPI moved.

Example:
  ecomdash refresh --count 3`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if count < 1 {
				return fmt.Errorf("invalid count: %d (must be at least 1)", count)
			}

			live := a.newLiveStore()
			defer live.Close()

			out := cmd.OutOrStdout()
			prev := live.Snapshot()
			fmt.Fprintf(out, "Start: %s events, %s users, %s transactions, %s conversion\n",
				a.locale.Integer(prev.EventCount), a.locale.Integer(prev.UserCount),
				a.locale.Integer(prev.TransactionCount), a.locale.Percent(prev.ConversionRatePercent, 2))

			for i := 1; i <= count; i++ {
				op, _ := live.Refresh()
				snap, err := op.Wait(cmd.Context())
				if err != nil {
					return fmt.Errorf("refresh %d failed: %w", i, err)
				}

				fmt.Fprintf(out, "#%d: events %s (+%s), users %s (+%s), transactions %s (+%s), conversion %s\n",
					i,
					a.locale.Integer(snap.EventCount), a.locale.Integer(snap.EventCount-prev.EventCount),
					a.locale.Integer(snap.UserCount), a.locale.Integer(snap.UserCount-prev.UserCount),
					a.locale.Integer(snap.TransactionCount), a.locale.Integer(snap.TransactionCount-prev.TransactionCount),
					a.locale.Percent(snap.ConversionRatePercent, 2))
				prev = snap
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&count, "count", "n", 1, "number of refreshes to run")
	return cmd
}
