package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"fedcat/internal/app"
	"fedcat/internal/domain"
)

func newProjectsCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "projects",
		Aliases: []string{"project"},
		Short:   "Manage projects and their objects",
	}
	cmd.AddCommand(newProjectsListCmd(opts))
	cmd.AddCommand(newProjectsCreateCmd(opts))
	cmd.AddCommand(newProjectsDropCmd(opts))
	cmd.AddCommand(newProjectsAddObjectCmd(opts))
	return cmd
}

func newProjectsListCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List projects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.withApp(cmd, func(ctx context.Context, a *app.App) error {
				items, _, err := a.Catalog.ListProjects(ctx, domain.AllPages)
				if err != nil {
					return err
				}
				if getOutputFormat(cmd) == "json" {
					out := make([]map[string]any, len(items))
					for i, p := range items {
						out[i] = map[string]any{"id": p.ID, "name": p.Name, "comment": p.Comment, "created_at": p.CreatedAt}
					}
					return printJSON(stdout(cmd), out)
				}
				rows := make([][]string, len(items))
				for i, p := range items {
					rows[i] = []string{p.Name, p.Comment, formatValue(p.CreatedAt)}
				}
				printTable(stdout(cmd), []string{"name", "comment", "created_at"}, rows)
				return nil
			})
		},
	}
}

func newProjectsCreateCmd(opts *options) *cobra.Command {
	var comment string
	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withApp(cmd, func(ctx context.Context, a *app.App) error {
				p, err := a.Catalog.CreateProject(ctx, args[0], comment)
				if err != nil {
					return err
				}
				if getOutputFormat(cmd) == "json" {
					return printJSON(stdout(cmd), map[string]any{"id": p.ID, "name": p.Name, "comment": p.Comment})
				}
				fmt.Fprintf(stdout(cmd), "Project %q created\n", p.Name)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&comment, "comment", "", "Free-form comment")
	return cmd
}

func newProjectsDropCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "drop <name>",
		Short: "Drop a project and its objects",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withApp(cmd, func(ctx context.Context, a *app.App) error {
				if err := a.Catalog.DropProject(ctx, args[0]); err != nil {
					return err
				}
				if getOutputFormat(cmd) == "json" {
					return printJSON(stdout(cmd), map[string]string{"dropped": args[0]})
				}
				fmt.Fprintf(stdout(cmd), "Project %q dropped\n", args[0])
				return nil
			})
		},
	}
}

func newProjectsAddObjectCmd(opts *options) *cobra.Command {
	var (
		objType string
		comment string
		columns []string
	)
	cmd := &cobra.Command{
		Use:   "add-object <project> <name>",
		Short: "Add a model, view or other object to a project",
		Example: `  fedcat projects add-object mindsdb churn --type MODEL --column customer_id:integer --column score:double
  fedcat projects add-object mindsdb recent_orders --type VIEW`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cols, err := parseColumns(columns)
			if err != nil {
				return err
			}
			req := domain.CreateProjectObjectRequest{
				Name:    args[1],
				Type:    domain.TableType(strings.ToUpper(objType)),
				Columns: cols,
				Comment: comment,
			}
			return opts.withApp(cmd, func(ctx context.Context, a *app.App) error {
				o, err := a.Catalog.AddProjectObject(ctx, args[0], req)
				if err != nil {
					return err
				}
				if getOutputFormat(cmd) == "json" {
					return printJSON(stdout(cmd), map[string]any{
						"id": o.ID, "project": o.Project, "name": o.Name, "type": o.Type, "columns": o.Columns,
					})
				}
				fmt.Fprintf(stdout(cmd), "%s %s.%s added\n", o.Type, o.Project, o.Name)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&objType, "type", string(domain.TableTypeModel), "Object type: MODEL, VIEW, KNOWLEDGE BASE, AGENT, JOB, BASE TABLE")
	cmd.Flags().StringVar(&comment, "comment", "", "Free-form comment")
	cmd.Flags().StringArrayVar(&columns, "column", nil, "Column as name or name:type (repeatable)")
	return cmd
}

// parseColumns turns name[:type] flags into column descriptors.
func parseColumns(args []string) ([]domain.ColumnDescriptor, error) {
	cols := make([]domain.ColumnDescriptor, 0, len(args))
	for _, arg := range args {
		name, typ, _ := strings.Cut(arg, ":")
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, domain.ErrValidation("invalid column %q: name is required", arg)
		}
		cols = append(cols, domain.ColumnDescriptor{Name: name, Type: strings.TrimSpace(typ)})
	}
	return cols, nil
}
