// Package cli implements the fedcat command: information_schema queries and
// catalog management against a local control-plane database.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"fedcat/internal/app"
	"fedcat/internal/config"
)

var (
	version = "dev"
	commit  = "none"
)

// Execute runs the CLI.
func Execute() int {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		output, _ := rootCmd.PersistentFlags().GetString("output")
		if output == "json" {
			_ = printJSON(os.Stdout, map[string]any{
				"error": err.Error(),
				"code":  errorCode(err),
			})
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		return 1
	}
	return 0
}

// options holds the persistent flags. Flags override environment variables,
// which override the .env file.
type options struct {
	output         string
	envFile        string
	metaDB         string
	filesDir       string
	defaultProject string
	seed           string
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:           "fedcat",
		Short:         "Federated catalog CLI",
		Long:          "Query information_schema across integrations, files and projects, and manage the catalog.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return validateOutputFormat(opts.output)
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&opts.output, "output", "o", "table", "Output format (table, json)")
	pf.StringVar(&opts.envFile, "env-file", ".env", "Optional .env file")
	pf.StringVar(&opts.metaDB, "meta-db", "", "Control-plane SQLite file (env META_DB_PATH)")
	pf.StringVar(&opts.filesDir, "files-dir", "", "Directory exposed as the files schema (env FILES_DIR)")
	pf.StringVar(&opts.defaultProject, "default-project", "", "Project in the default COLUMNS scope (env DEFAULT_PROJECT)")
	pf.StringVar(&opts.seed, "seed", "", "YAML file of integrations and projects to register (env SEED_FILE)")

	rootCmd.AddCommand(newQueryCmd(opts))
	rootCmd.AddCommand(newTablesCmd())
	rootCmd.AddCommand(newIntegrationsCmd(opts))
	rootCmd.AddCommand(newProjectsCmd(opts))
	rootCmd.AddCommand(newServeCmd(opts))
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

// loadConfig resolves configuration from the .env file, the environment and
// the persistent flags.
func (o *options) loadConfig() (*config.Config, error) {
	if o.envFile != "" {
		if err := config.LoadDotEnv(o.envFile); err != nil {
			return nil, err
		}
	}
	cfg, err := config.LoadFromEnv()
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if o.metaDB != "" {
		cfg.MetaDBPath = o.metaDB
	}
	if o.filesDir != "" {
		cfg.FilesDir = o.filesDir
	}
	if o.defaultProject != "" {
		cfg.DefaultProject = o.defaultProject
	}
	if o.seed != "" {
		cfg.SeedFile = o.seed
	}
	return cfg, nil
}

// withApp opens the application for the duration of fn.
func (o *options) withApp(cmd *cobra.Command, fn func(ctx context.Context, a *app.App) error) error {
	cfg, err := o.loadConfig()
	if err != nil {
		return err
	}
	logger := cfg.NewLogger()
	for _, w := range cfg.Warnings {
		logger.Debug("config warning", "warning", w)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	a, err := app.Open(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close() //nolint:errcheck
	return fn(ctx, a)
}

func stdout(cmd *cobra.Command) io.Writer { return cmd.OutOrStdout() }
