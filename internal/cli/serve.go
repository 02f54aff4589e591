package cli

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/pathloom/internal/api"
	"github.com/matzehuels/pathloom/pkg/suggest"
)

// serveCommand creates the "serve" command.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the dispatch API over HTTP",
		Long: `Serve the provider registry and dispatcher over HTTP.

Outcomes are streamed to clients of /v1/events as server-sent events.`,
		Example: `  pathloom serve
  pathloom serve --addr :9090`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			a, err := c.openApp(ctx, false)
			if err != nil {
				return err
			}
			defer a.Close(ctx)

			if addr == "" {
				addr = a.cfg.Server.Addr
			}

			events := api.NewHub(logger)
			go events.Run(ctx)

			d := a.dispatcher(suggest.Fanout{events, deliveryLogger(logger)})
			defer d.Close()

			printInfo("Serving %d providers on %s", a.registry.Len(), StyleLink.Render("http://"+addr))
			printKeyValue("Cache", a.cfg.Cache.Backend)
			printKeyValue("Concurrency", strconv.Itoa(a.cfg.Dispatch.MaxConcurrent))
			printKeyValue("Timeout", a.cfg.Dispatch.ProviderTimeout.String())
			return api.New(d, events, logger).ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	return cmd
}
