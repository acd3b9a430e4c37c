package commands

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/studentcatalog/catalog-web/internal/config"
	"github.com/studentcatalog/catalog-web/internal/server"
)

func serveCmd() *cobra.Command {
	var port, endpoint string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the catalog web server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return err
			}
			if port != "" {
				cfg.Server.Port = port
			}
			if endpoint != "" {
				cfg.GraphQL.URL = endpoint
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return server.Serve(ctx, cfg)
		},
	}
	cmd.Flags().StringVar(&port, "port", "", "listen port (overrides SERVER_PORT)")
	cmd.Flags().StringVar(&endpoint, "endpoint", "", "GraphQL endpoint (overrides GRAPHQL_URL)")
	return cmd
}
