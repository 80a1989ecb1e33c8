package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/manifoldco/promptui"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/ecomdash/ecomdash/internal/analytics"
	"github.com/ecomdash/ecomdash/internal/format"
	"github.com/ecomdash/ecomdash/internal/metrics"
	"github.com/ecomdash/ecomdash/internal/store"
)

var sections = []string{"overview", "funnel", "products", "categories", "activity", "pipeline", "all"}

// barWidth is the width of the longest activity bar, in characters.
const barWidth = 40

var (
	heading = color.New(color.FgCyan, color.Bold)
	good    = color.New(color.FgGreen)
	bad     = color.New(color.FgRed)
	info    = color.New(color.FgBlue)
)

func newViewCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "view [section]",
		Short: "Render the dashboard in the terminal",
		Long: `Render one dashboard section in the terminal.

Sections: ` + strings.Join(sections, ", ") + `

Without a section you are asked to pick one when running in a terminal,
otherwise the overview is shown.

Example:
  ecomdash view funnel`,
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: sections,
		RunE: func(cmd *cobra.Command, args []string) error {
			section := "overview"
			if len(args) == 1 {
				section = args[0]
			} else if isInteractive(cmd.InOrStdin()) {
				picked, err := promptSection()
				if err != nil {
					if errors.Is(err, promptui.ErrInterrupt) {
						return nil
					}
					return err
				}
				section = picked
			}
			if !slices.Contains(sections, section) {
				return fmt.Errorf("unknown section %q (want one of %s)", section, strings.Join(sections, ", "))
			}

			return a.withStore(func(s *store.SQLiteStore) error {
				live := a.newLiveStore()
				defer live.Close()

				v := &viewer{
					out:     cmd.OutOrStdout(),
					l:       a.locale,
					reports: analytics.NewService(s),
					snap:    live.Snapshot(),
				}
				return v.render(cmd.Context(), section)
			})
		},
	}
}

func isInteractive(in io.Reader) bool {
	f, ok := in.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func promptSection() (string, error) {
	prompt := promptui.Select{
		Label: "Select section",
		Items: sections,
		Size:  len(sections),
	}

	_, section, err := prompt.Run()
	return section, err
}

type viewer struct {
	out     io.Writer
	l       *format.Locale
	reports *analytics.Service
	snap    metrics.Snapshot
}

func (v *viewer) render(ctx context.Context, section string) error {
	if section == "all" {
		for _, s := range sections[:len(sections)-1] {
			if err := v.render(ctx, s); err != nil {
				return err
			}
			fmt.Fprintln(v.out)
		}
		return nil
	}

	switch section {
	case "overview":
		v.overview()
		return nil
	case "funnel":
		rep, err := v.reports.Funnel(ctx)
		if err != nil {
			return err
		}
		v.funnel(rep)
	case "products":
		rep, err := v.reports.Products(ctx, analytics.DefaultProductLimit)
		if err != nil {
			return err
		}
		v.products(rep)
	case "categories":
		rep, err := v.reports.Categories(ctx)
		if err != nil {
			return err
		}
		v.categories(rep)
	case "activity":
		rep, err := v.reports.Activity(ctx)
		if err != nil {
			return err
		}
		v.activity(rep)
	case "pipeline":
		rep, err := v.reports.Pipeline(ctx)
		if err != nil {
			return err
		}
		v.pipeline(rep)
	}
	return nil
}

func (v *viewer) overview() {
	heading.Fprintln(v.out, "E-COMMERCE DASHBOARD")
	fmt.Fprintf(v.out, "Last updated: %s\n\n", v.l.Timestamp(v.snap.UpdatedAt))

	w := tabwriter.NewWriter(v.out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Events processed\t%s\n", v.l.Integer(v.snap.EventCount))
	fmt.Fprintf(w, "Unique users\t%s\n", v.l.Integer(v.snap.UserCount))
	fmt.Fprintf(w, "Transactions\t%s\n", v.l.Integer(v.snap.TransactionCount))
	fmt.Fprintf(w, "Conversion rate\t%s\n", v.l.Percent(v.snap.ConversionRatePercent, 2))
	w.Flush()
}

func (v *viewer) funnel(rep analytics.FunnelReport) {
	heading.Fprintln(v.out, "CONVERSION FUNNEL")

	w := tabwriter.NewWriter(v.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STAGE\tVALUE\tDROP-OFF")
	for _, st := range rep.Stages {
		dropoff := "-"
		if st.DropoffPercent != nil {
			dropoff = v.l.Percent(*st.DropoffPercent, 1)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", st.Name, v.l.Integer(st.Value), dropoff)
	}
	w.Flush()

	fmt.Fprintln(v.out)
	fmt.Fprintf(v.out, "View to cart:       %s\n", v.l.Percent(rep.ViewToCartPercent, 2))
	fmt.Fprintf(v.out, "Cart to purchase:   %s\n", v.l.Percent(rep.CartToPurchasePercent, 2))
	fmt.Fprintf(v.out, "Overall conversion: %s\n", v.l.Percent(rep.OverallPercent, 2))
}

func (v *viewer) products(rep analytics.ProductReport) {
	heading.Fprintf(v.out, "TOP %d PRODUCTS\n", len(rep.Products))

	w := tabwriter.NewWriter(v.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "RANK\tPRODUCT\tSALES\tSHARE\tTREND")
	for _, p := range rep.Products {
		trend := info.Sprint("stable")
		if p.Trend == analytics.TrendUp {
			trend = good.Sprint("up")
		}
		fmt.Fprintf(w, "#%d\t%s\t%s\t%s\t%s\n", p.Rank, p.ID, v.l.Integer(p.Sales), v.l.Percent(p.SharePercent, 1), trend)
	}
	w.Flush()
}

func (v *viewer) categories(rep analytics.CategoryReport) {
	heading.Fprintln(v.out, "TOP CATEGORIES")

	w := tabwriter.NewWriter(v.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "CATEGORY\tVALUE\tSHARE")
	for _, c := range rep.Categories {
		fmt.Fprintf(w, "%s\t%s\t%s\n", c.Name, v.l.Integer(c.Value), v.l.Percent(c.SharePercent, 0))
	}
	w.Flush()
}

func (v *viewer) activity(rep analytics.ActivityReport) {
	heading.Fprintln(v.out, "ACTIVITY BY HOUR")
	w := tabwriter.NewWriter(v.out, 0, 0, 1, ' ', 0)
	for _, h := range rep.Hourly {
		fmt.Fprintf(w, "%s\t%s\t%s\n", h.Label, bar(h.Events, rep.PeakHour.Events), v.l.Integer(h.Events))
	}
	w.Flush()

	fmt.Fprintln(v.out)
	heading.Fprintln(v.out, "ACTIVITY BY WEEKDAY")
	w = tabwriter.NewWriter(v.out, 0, 0, 1, ' ', 0)
	for _, d := range rep.Daily {
		fmt.Fprintf(w, "%s\t%s\t%s\n", d.Name, bar(d.Events, rep.BusiestDay.Events), v.l.Integer(d.Events))
	}
	w.Flush()

	fmt.Fprintln(v.out)
	fmt.Fprintf(v.out, "Peak hour:     %s (%s events)\n", rep.PeakHour.Label, v.l.Integer(rep.PeakHour.Events))
	fmt.Fprintf(v.out, "Busiest day:   %s (%s events)\n", rep.BusiestDay.Name, v.l.Integer(rep.BusiestDay.Events))
	fmt.Fprintf(v.out, "Daily average: %s events\n", v.l.Integer(rep.DailyAverage))
}

func bar(value, peak int64) string {
	if peak <= 0 {
		return ""
	}
	return strings.Repeat("#", int(value*barWidth/peak))
}

func (v *viewer) pipeline(rep analytics.PipelineReport) {
	heading.Fprintln(v.out, "PIPELINE STATUS")

	w := tabwriter.NewWriter(v.out, 0, 0, 2, ' ', 0)
	for _, st := range rep.Stages {
		status := good.Sprint(st.Status)
		if st.Status == store.PipelineRunning {
			status = info.Sprint(st.Status)
		}
		fmt.Fprintf(w, "%s\t%s\n", st.Name, status)
	}
	w.Flush()
}
