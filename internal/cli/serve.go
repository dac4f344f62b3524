package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/imran31415/forcefield/internal/server"
	"github.com/imran31415/forcefield/pkg/errors"
)

// serveCommand creates the serve command for the HTTP layout service.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP layout service",
		Long: `Run the HTTP layout service.

The server keeps per-session layout state so viewers can compute a base
layout once and focus nodes incrementally. Session lifetime, graph caps,
and parameter presets come from the configuration file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides configuration)")

	return cmd
}

// runServe blocks until the context is cancelled or the server fails.
func (c *CLI) runServe(ctx context.Context, addr string) error {
	cfg := *c.Config
	if addr != "" {
		if err := errors.ValidateListenAddr(addr); err != nil {
			return err
		}
		cfg.Server.Addr = addr
	}

	printInfo("Serving on %s", StyleLink.Render("http://"+cfg.Server.Addr))
	printDetail("Press ctrl+c to stop")

	return server.New(&cfg, c.Logger).ListenAndServe(ctx)
}
