package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

func newTokenCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "token",
		Short: "Show dashboard URL with access token",
		Long: `Show the dashboard URL with the access token of the running server.

Use this when you've scrolled past the startup message or need to
share the dashboard link.

Example:
  ecomdash token`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(a.cfg.TokenFile)
			if err != nil {
				if errors.Is(err, fs.ErrNotExist) {
					return fmt.Errorf("no server running. Start with: ecomdash serve")
				}
				return fmt.Errorf("failed to read token file: %w", err)
			}

			token := strings.TrimSpace(string(data))
			if token == "" {
				return fmt.Errorf("token file is empty. Restart the server with: ecomdash serve")
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Dashboard: %s/dashboard?token=%s\n", baseURL(a.cfg.Addr), token)
			fmt.Fprintln(out)
			fmt.Fprintln(out, "Tip: Bookmark this URL or run 'ecomdash token' anytime.")
			return nil
		},
	}
}
