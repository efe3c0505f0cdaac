package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"fedcat/internal/app"
	"fedcat/internal/domain"
)

func newIntegrationsCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "integrations",
		Aliases: []string{"integration", "int"},
		Short:   "Manage integrations",
	}
	cmd.AddCommand(newIntegrationsListCmd(opts))
	cmd.AddCommand(newIntegrationsAddCmd(opts))
	cmd.AddCommand(newIntegrationsRemoveCmd(opts))
	cmd.AddCommand(newIntegrationsCheckCmd(opts))
	return cmd
}

func newIntegrationsListCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List integrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.withApp(cmd, func(ctx context.Context, a *app.App) error {
				items, _, err := a.Catalog.ListIntegrations(ctx, domain.AllPages)
				if err != nil {
					return err
				}
				if getOutputFormat(cmd) == "json" {
					out := make([]map[string]any, len(items))
					for i, in := range items {
						out[i] = integrationJSON(in)
					}
					return printJSON(stdout(cmd), out)
				}
				rows := make([][]string, len(items))
				for i, in := range items {
					rows[i] = []string{in.Name, in.Engine, in.Comment, formatValue(in.CreatedAt)}
				}
				printTable(stdout(cmd), []string{"name", "engine", "comment", "created_at"}, rows)
				return nil
			})
		},
	}
}

func newIntegrationsAddCmd(opts *options) *cobra.Command {
	var req domain.CreateIntegrationRequest
	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Register an integration",
		Example: `  fedcat integrations add shop --engine sqlite --dsn ./shop.db
  fedcat integrations add warehouse --engine postgres --dsn postgres://user@db/warehouse`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req.Name = args[0]
			return opts.withApp(cmd, func(ctx context.Context, a *app.App) error {
				in, err := a.Catalog.AddIntegration(ctx, req)
				if err != nil {
					return err
				}
				if getOutputFormat(cmd) == "json" {
					return printJSON(stdout(cmd), integrationJSON(*in))
				}
				fmt.Fprintf(stdout(cmd), "Integration %q added (%s)\n", in.Name, in.Engine)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&req.Engine, "engine", "", "Engine: sqlite, duckdb, postgres, mssql, files")
	cmd.Flags().StringVar(&req.DSN, "dsn", "", "File path, directory or connection string")
	cmd.Flags().StringVar(&req.Comment, "comment", "", "Free-form comment")
	_ = cmd.MarkFlagRequired("engine")
	_ = cmd.MarkFlagRequired("dsn")
	return cmd
}

func newIntegrationsRemoveCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:     "remove <name>",
		Aliases: []string{"rm"},
		Short:   "Remove an integration",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withApp(cmd, func(ctx context.Context, a *app.App) error {
				if err := a.Catalog.RemoveIntegration(ctx, args[0]); err != nil {
					return err
				}
				if getOutputFormat(cmd) == "json" {
					return printJSON(stdout(cmd), map[string]string{"removed": args[0]})
				}
				fmt.Fprintf(stdout(cmd), "Integration %q removed\n", args[0])
				return nil
			})
		},
	}
}

func newIntegrationsCheckCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Ping every integration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.withApp(cmd, func(ctx context.Context, a *app.App) error {
				statuses, err := a.Catalog.CheckIntegrations(ctx)
				if err != nil {
					return err
				}
				if getOutputFormat(cmd) == "json" {
					if statuses == nil {
						statuses = []domain.IntegrationStatus{}
					}
					return printJSON(stdout(cmd), statuses)
				}
				rows := make([][]string, len(statuses))
				for i, st := range statuses {
					state := "ok"
					if !st.OK {
						state = "error"
					}
					rows[i] = []string{st.Name, st.Engine, state, st.Error}
				}
				printTable(stdout(cmd), []string{"name", "engine", "status", "error"}, rows)
				return nil
			})
		},
	}
}

// integrationJSON omits the DSN, which may carry credentials.
func integrationJSON(in domain.Integration) map[string]any {
	return map[string]any{
		"id":         in.ID,
		"name":       in.Name,
		"engine":     in.Engine,
		"comment":    in.Comment,
		"created_at": in.CreatedAt,
	}
}
