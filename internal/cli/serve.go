package cli

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ecomdash/ecomdash/internal/server"
	"github.com/ecomdash/ecomdash/internal/store"
)

func newServeCmd(a *app) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Long: `Start the ecomdash HTTP server.

The server provides:
  - Dashboard page and JSON API, protected by an access token
  - Prometheus metrics at /metrics
  - Health check endpoint

Example:
  ecomdash serve --addr :8080`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.serve(cmd, addr)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "address to listen on (default $ECOMDASH_ADDR or :8080)")
	return cmd
}

func (a *app) serve(cmd *cobra.Command, addr string) error {
	if addr != "" {
		a.cfg.Addr = addr
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return a.withStore(func(s *store.SQLiteStore) error {
		srv, err := server.New(s, a.newLiveStore(), a.newRunner(), server.Options{
			Addr:            a.cfg.Addr,
			TokenFile:       a.cfg.TokenFile,
			Locale:          a.locale,
			Logger:          a.log,
			ReadTimeout:     a.cfg.ReadTimeout,
			WriteTimeout:    a.cfg.WriteTimeout,
			ActionRateLimit: a.cfg.ActionRateLimit,
			Production:      a.cfg.IsProduction(),
		})
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		base := baseURL(a.cfg.Addr)
		fmt.Fprintln(out)
		fmt.Fprintf(out, "ecomdash running on %s\n", base)
		fmt.Fprintf(out, "Dashboard: %s/dashboard?token=%s\n", base, srv.Token())
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Press Ctrl+C to stop")

		return srv.Run(ctx)
	})
}

// baseURL turns a listen address into a URL a browser on this host can open.
func baseURL(addr string) string {
	if strings.HasPrefix(addr, ":") {
		return "http://localhost" + addr
	}
	return "http://" + addr
}
