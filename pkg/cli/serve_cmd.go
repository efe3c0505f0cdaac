package cli

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"fedcat/internal/app"
)

func newServeCmd(opts *options) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGTERM, syscall.SIGINT)
			defer cancel()
			cmd.SetContext(ctx)

			return opts.withApp(cmd, func(ctx context.Context, a *app.App) error {
				a.VerifyIntegrations(ctx)
				listen := addr
				if listen == "" {
					listen = a.ListenAddr()
				}
				return a.ListenAndServe(ctx, listen)
			})
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (env LISTEN_ADDR)")
	return cmd
}
