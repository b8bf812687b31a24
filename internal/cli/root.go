package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"taskmaster/internal/config"
	"taskmaster/internal/logging"
	"taskmaster/internal/util"
)

// Version is overridden at build time with -ldflags "-X taskmaster/internal/cli.Version=...".
var Version = "1.0.0"

type rootOptions struct {
	configFile string
	envFile    string
	addr       string
	dbDriver   string
	dbDSN      string
	staticDir  string
	logLevel   string
	strict     bool
}

// NewRootCommand builds the todo command tree. Running it without a
// subcommand starts the HTTP server.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "todo",
		Short:         "Task Master to-do list server",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, opts)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.configFile, "config", util.EnvOrDefault("TODO_CONFIG", ""), "Path to YAML config file")
	flags.StringVar(&opts.envFile, "env-file", ".env", "Dotenv file to load before reading the environment")
	flags.StringVar(&opts.addr, "addr", "", "HTTP listen address")
	flags.StringVar(&opts.dbDriver, "db-driver", "", "Database driver (sqlite3 or postgres)")
	flags.StringVar(&opts.dbDSN, "db", "", "Database DSN or sqlite file path")
	flags.StringVar(&opts.staticDir, "static", "", "Directory with a built frontend replacing the embedded UI")
	flags.StringVar(&opts.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	flags.BoolVar(&opts.strict, "strict-transitions", false, "Reject status changes the task state machine forbids")

	cmd.AddCommand(newServeCommand(opts))
	cmd.AddCommand(newMigrateCommand(opts))
	cmd.AddCommand(newVersionCommand())
	return cmd
}

// loadConfig resolves configuration: defaults, YAML file, dotenv, environment,
// then any flag set explicitly on the command line.
func loadConfig(cmd *cobra.Command, opts *rootOptions) (*config.Config, error) {
	if err := config.LoadEnvFile(opts.envFile); err != nil {
		return nil, err
	}
	cfg, err := config.Load(opts.configFile)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("addr") {
		cfg.Server.Addr = opts.addr
	}
	if flags.Changed("db-driver") {
		cfg.Database.Driver = opts.dbDriver
	}
	if flags.Changed("db") {
		cfg.Database.DSN = opts.dbDSN
	}
	if flags.Changed("static") {
		cfg.Server.StaticDir = opts.staticDir
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = opts.logLevel
	}
	if flags.Changed("strict-transitions") {
		cfg.Tasks.StrictTransitions = opts.strict
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func newLogger(cmd *cobra.Command, cfg *config.Config) (*slog.Logger, error) {
	return logging.New(cmd.OutOrStdout(), cfg.Log.Level, cfg.Log.Format)
}
