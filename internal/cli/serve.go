package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/ifcqto/internal/server"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Run the HTTP API.

Models are uploaded as element-graph documents and kept in memory. The
document store and the message stream are taken from the configuration;
the server starts without them and reports them as disconnected.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), addr, noCache)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default: server.addr, \":8000\")")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the takeoff cache")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr string, noCache bool) error {
	cfg, err := c.config()
	if err != nil {
		return err
	}
	if addr == "" {
		addr = cfg.Server.Addr
	}

	runner, err := c.newRunner(ctx, cfg, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	st := c.openStore(ctx, cfg)
	defer st.Close()
	pub := c.openPublisher(ctx, cfg)
	defer pub.Close()

	srv := server.New(server.Config{
		Runner:         runner,
		Store:          st,
		Publisher:      pub,
		Takeoff:        (&takeoffFlags{}).options(cfg),
		CORSOrigins:    cfg.Server.CORSOrigins,
		MaxUploadBytes: cfg.Server.MaxUploadMB << 20,
		Logger:         c.Logger,
	})

	printInfo("Serving on %s", addr)
	return srv.ListenAndServe(ctx, addr)
}
