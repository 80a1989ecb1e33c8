package cli

import (
	"fmt"
	"log/slog"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ecomdash/ecomdash/internal/config"
	"github.com/ecomdash/ecomdash/internal/format"
	"github.com/ecomdash/ecomdash/internal/logging"
)

// app carries the state shared by every command once the root command's
// PersistentPreRunE has run.
type app struct {
	cfg    *config.Config
	log    *slog.Logger
	locale *format.Locale

	dbPath    string
	localeTag string
	noColor   bool
}

func newRootCmd() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:   "ecomdash",
		Short: "ecomdash - e-commerce analytics dashboard with a simulated pipeline",
		Long: `ecomdash serves an e-commerce analytics dashboard backed by a simulated
data pipeline: KPI refreshes, a conversion funnel, best sellers, activity
charts and an A/B test simulation.

Running without a subcommand starts the server (same as 'ecomdash serve').`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.serve(cmd, "")
		},
	}

	// Global flags override the ECOMDASH_* environment
	cmd.PersistentFlags().StringVar(&a.dbPath, "db", "", "dataset database path (default $ECOMDASH_DB_PATH or in-memory)")
	cmd.PersistentFlags().StringVar(&a.localeTag, "locale", "", "display locale, e.g. fr-FR or en-US (default $ECOMDASH_LOCALE)")
	cmd.PersistentFlags().BoolVar(&a.noColor, "no-color", false, "disable colored output")

	cmd.AddCommand(
		newServeCmd(a),
		newViewCmd(a),
		newRefreshCmd(a),
		newABTestCmd(a),
		newExportCmd(a),
		newTokenCmd(a),
	)
	return cmd
}

func Execute() error {
	return newRootCmd().Execute()
}

func (a *app) load(cmd *cobra.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("db") {
		cfg.DBPath = a.dbPath
	}
	if cmd.Flags().Changed("locale") {
		cfg.Locale = a.localeTag
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	locale, err := format.New(cfg.Locale)
	if err != nil {
		return fmt.Errorf("invalid locale: %w", err)
	}
	if a.noColor {
		color.NoColor = true
	}

	a.cfg = cfg
	a.locale = locale
	a.log = logging.New(cfg)
	return nil
}
