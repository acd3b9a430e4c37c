package commands

import (
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/studentcatalog/catalog-web/internal/config"
	"github.com/studentcatalog/catalog-web/internal/controller"
	"github.com/studentcatalog/catalog-web/internal/diagnostics"
	"github.com/studentcatalog/catalog-web/internal/graphql"
	"github.com/studentcatalog/catalog-web/internal/notify"
	"github.com/studentcatalog/catalog-web/internal/render"
	"github.com/studentcatalog/catalog-web/internal/view"
)

func snapshotCmd() *cobra.Command {
	var endpoint, container string
	var timeout time.Duration
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Load a fresh catalog page and print its HTML",
		Long: "snapshot runs the page's initial loads against the GraphQL endpoint " +
			"and prints the rendered page, or one container with --container.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if endpoint == "" {
				cfg, err := config.LoadConfig()
				if err != nil {
					return err
				}
				endpoint = cfg.GraphQL.URL
			}

			page := view.NewPage()
			n := notify.New(page)
			defer n.Stop()
			client := graphql.NewClient(endpoint, &http.Client{Timeout: timeout})
			cat := controller.New(client.Bind(n), page, n, diagnostics.LogSink{})
			loadErr := cat.Bootstrap(cmd.Context())

			out := cmd.OutOrStdout()
			if container != "" {
				fmt.Fprintln(out, page.HTML(container))
			} else {
				html, err := render.Page(page, time.Now())
				if err != nil {
					return err
				}
				fmt.Fprintln(out, html)
			}
			if st := page.Status(time.Now()); st.Visible {
				fmt.Fprintln(cmd.ErrOrStderr(), st.Message)
			}
			return loadErr
		},
	}
	cmd.Flags().StringVar(&endpoint, "endpoint", "", "GraphQL endpoint (default from GRAPHQL_URL)")
	cmd.Flags().StringVar(&container, "container", "", "print only this container, e.g. studentsList")
	cmd.Flags().DurationVar(&timeout, "timeout", 10*time.Second, "per-request timeout")
	return cmd
}
