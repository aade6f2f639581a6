package main

import (
	"github.com/aretw0/roomread/internal/cli"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: `Starts roomread as an HTTP server exposing the catalog, content lookups and
runner sessions as a JSON API. Requests under /api must carry the identity
header set by the upstream identity provider.

Prometheus metrics are served on /metrics and the API description on /openapi.yaml.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := setup(cmd)
		if err != nil {
			return err
		}
		defer env.Close()

		ctx := cli.NewSignalContext(cmd.Context())
		defer ctx.Cancel()
		return cli.Serve(ctx, env)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", ":8080", "Address to listen on")
}
