package cli

import (
	"context"
	"strconv"

	"github.com/spf13/cobra"

	"fedcat/internal/app"
	"fedcat/internal/infoschema"
)

func newQueryCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "query <sql>",
		Short: "Run a SELECT against information_schema",
		Example: `  fedcat query "SELECT * FROM information_schema.tables WHERE table_schema = 'files'"
  fedcat query -o json "SELECT * FROM information_schema.columns"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withApp(cmd, func(ctx context.Context, a *app.App) error {
				rs, err := a.InfoSchema.Execute(ctx, args[0])
				if err != nil {
					return err
				}
				if getOutputFormat(cmd) == "json" {
					return printJSON(stdout(cmd), rs)
				}
				printTable(stdout(cmd), rs.Columns, formatRows(rs.Rows))
				return nil
			})
		},
	}
}

// newTablesCmd lists the virtual tables without opening the control plane.
func newTablesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tables",
		Short: "List the information_schema virtual tables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			info := infoschema.New(nil, infoschema.Options{}).Info()
			if getOutputFormat(cmd) == "json" {
				return printJSON(stdout(cmd), info)
			}
			rows := make([][]string, len(info))
			for i, t := range info {
				rows[i] = []string{t.Name, strconv.Itoa(len(t.Columns)), t.Kind}
			}
			printTable(stdout(cmd), []string{"name", "columns", "kind"}, rows)
			return nil
		},
	}
}
