package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newABTestCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "abtest",
		Short: "Run the A/B test simulation",
		Long: `Run the A/B test simulation and print both groups, the verdict and
the recommendation.

Example:
  ecomdash abtest`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			runner := a.newRunner()
			defer runner.Close()

			out := cmd.OutOrStdout()
			op, _ := runner.Start()
			fmt.Fprintf(out, "Running A/B test (run %s)...\n\n", runner.Status().RunID)

			res, err := op.Wait(cmd.Context())
			if err != nil {
				return fmt.Errorf("A/B test failed: %w", err)
			}

			l := a.locale
			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "\tGROUP A (CONTROL)\tGROUP B (VARIANT)")
			fmt.Fprintf(w, "Users\t%s\t%s\n", l.Integer(res.GroupA.UserCount), l.Integer(res.GroupB.UserCount))
			fmt.Fprintf(w, "Conversions\t%s\t%s\n", l.Integer(res.GroupA.ConversionCount), l.Integer(res.GroupB.ConversionCount))
			fmt.Fprintf(w, "Conversion rate\t%s\t%s\n", l.Percent(res.GroupA.ConversionRatePercent, 2), l.Percent(res.GroupB.ConversionRatePercent, 2))
			fmt.Fprintf(w, "Average order\t%s\t%s\n", l.Currency(res.GroupA.AverageOrderValue), l.Currency(res.GroupB.AverageOrderValue))
			fmt.Fprintf(w, "Total revenue\t%s\t%s\n", l.Currency(res.GroupA.TotalRevenue), l.Currency(res.GroupB.TotalRevenue))
			w.Flush()

			verdict := l.Verdict(res)
			fmt.Fprintln(out)
			if res.IsSignificant {
				good.Fprintln(out, verdict.Headline)
			} else {
				bad.Fprintln(out, verdict.Headline)
			}
			fmt.Fprintln(out, verdict.Detail)
			fmt.Fprintln(out)
			fmt.Fprintf(out, "Recommendation: %s\n", verdict.Recommendation)
			return nil
		},
	}
}
