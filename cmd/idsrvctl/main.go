package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/containerd/errdefs"
	"github.com/railzwaylabs/idsrvctl/internal/config"
	"github.com/railzwaylabs/idsrvctl/internal/document"
	"github.com/railzwaylabs/idsrvctl/internal/migration"
	"github.com/railzwaylabs/idsrvctl/internal/observability"
	"github.com/railzwaylabs/idsrvctl/pkg/db"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/fx"
)

const (
	startTimeout = 2 * time.Minute
	stopTimeout  = 30 * time.Second
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCode(err))
	}
}

type globalOptions struct {
	configPath string
	output     string
	driver     string
	dsn        string
	schema     string
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}
	root := &cobra.Command{
		Use:           "idsrvctl",
		Short:         "Manage identity server clients and scopes",
		Version:       readVersionFromEnv(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return fmt.Errorf("%w: %v", errdefs.ErrInvalidArgument, err)
	})

	flags := root.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "config file (json, yaml or toml)")
	flags.StringVarP(&opts.output, "output", "o", "yaml", "output format: json or yaml")
	flags.StringVar(&opts.driver, "db-driver", "", "database driver: sqlite, postgres or mysql")
	flags.StringVar(&opts.dsn, "dsn", "", "database connection string")
	flags.StringVar(&opts.schema, "schema", "", "database schema (postgres)")

	root.AddCommand(
		newMigrateCmd(opts),
		newClientCmd(opts),
		newScopeCmd(opts),
	)
	return root
}

func newMigrateCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or upgrade the client and scope tables",
		Args:  checkArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := opts.start(cmd, migration.Module)
			if err != nil {
				return fmt.Errorf("migrate failed: %w", err)
			}
			return stop(app)
		},
	}
}

func (o *globalOptions) viper(cmd *cobra.Command) (*viper.Viper, error) {
	v, err := config.NewViper(o.configPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errdefs.ErrInvalidArgument, err)
	}

	flags := cmd.Flags()
	for key, name := range map[string]string{
		"database.driver": "db-driver",
		"database.dsn":    "dsn",
		"database.schema": "schema",
	} {
		if f := flags.Lookup(name); f != nil && f.Changed {
			v.Set(key, f.Value.String())
		}
	}
	return v, nil
}

func (o *globalOptions) outputFormat() (document.Format, error) {
	format, err := document.ParseFormat(o.output)
	if err != nil {
		return "", err
	}
	if format == document.TOML {
		return "", fmt.Errorf("%w: toml output", document.ErrUnsupportedFormat)
	}
	return format, nil
}

// start builds and starts the application for a single command. Extra
// options add the command's modules and fx.Populate targets.
func (o *globalOptions) start(cmd *cobra.Command, options ...fx.Option) (*fx.App, error) {
	v, err := o.viper(cmd)
	if err != nil {
		return nil, err
	}

	app := fx.New(
		fx.Supply(v),
		config.Module,
		observability.Module,
		observability.WithLogger,
		fx.Provide(registerSnowflake),
		db.Module,
		fx.Options(options...),
	)
	if err := app.Err(); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), startTimeout)
	defer cancel()
	if err := app.Start(ctx); err != nil {
		return nil, err
	}
	return app, nil
}

func stop(app *fx.App) error {
	ctx, cancel := context.WithTimeout(context.Background(), stopTimeout)
	defer cancel()
	return app.Stop(ctx)
}

func (o *globalOptions) print(cmd *cobra.Command, v any) error {
	format, err := o.outputFormat()
	if err != nil {
		return err
	}
	return document.Encode(cmd.OutOrStdout(), format, v)
}

func registerSnowflake() (*snowflake.Node, error) {
	return snowflake.NewNode(1)
}

func readVersionFromEnv() string {
	if v := strings.TrimSpace(os.Getenv("APP_VERSION")); v != "" {
		return v
	}
	return "dev"
}

// checkArgs marks positional argument errors as invalid arguments.
func checkArgs(validate cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := validate(cmd, args); err != nil {
			return fmt.Errorf("%w: %v", errdefs.ErrInvalidArgument, err)
		}
		return nil
	}
}

// exitCode maps an error class to the process exit status.
func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errdefs.IsInvalidArgument(err):
		return 2
	case errdefs.IsNotFound(err):
		return 3
	case errdefs.IsAlreadyExists(err), errdefs.IsConflict(err), errdefs.IsFailedPrecondition(err):
		return 4
	case errdefs.IsUnavailable(err):
		return 5
	}
	return 1
}
