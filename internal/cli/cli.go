// filepath: internal/cli/cli.go
package cli

import (
	"fmt"
	"os"

	"github.com/Astar201/DataBasePeople/internal/config"
	"github.com/Astar201/DataBasePeople/internal/logging"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type GlobalOptions struct {
	CfgFilePath string
	LogLevel    string
	DBPath      string

	Logger *logrus.Logger
	Conf   *config.Config
}

func NewRootCMD() *cobra.Command {

	globalOptions := &GlobalOptions{}

	rootCMD := &cobra.Command{
		Use:   "peopledb",
		Short: "People record manager",
		Long:  "A single-operator record-management tool backed by a local SQLite database.",
		// Load config and logging before any command runs.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return globalOptions.initialize()
		},
	}

	// register global flags
	globalOptions.registerFlags(rootCMD)

	// add subcommands
	rootCMD.AddCommand(NewRunCommand(globalOptions))
	rootCMD.AddCommand(NewMigrateCommand(globalOptions))

	return rootCMD
}

func (options *GlobalOptions) registerFlags(cmd *cobra.Command) {
	// flags that can be used for each command
	cmd.PersistentFlags().StringVar(&options.CfgFilePath, "config_path", "config.toml", "Path to the base configuration file. (Env: PDB_CONFIG_PATH)")
	cmd.PersistentFlags().StringVar(&options.LogLevel, "log-level", "", "Logging level (debug, info, warn, error). (Env: PDB_LOG_LEVEL)")
	cmd.PersistentFlags().StringVar(&options.DBPath, "db-path", "", "Path to the SQLite database file. (Env: PDB_DB_PATH)")
}

// initialize resolves the configuration with flag > env > file > default
// precedence and builds the logger.
func (options *GlobalOptions) initialize() error {
	if envPath := os.Getenv("PDB_CONFIG_PATH"); envPath != "" && options.CfgFilePath == "config.toml" {
		options.CfgFilePath = envPath
	}

	cfg, err := config.LoadConfig(options.CfgFilePath)
	if err != nil {
		if os.IsNotExist(err) {
			// No config file; rely on defaults, env vars and flags.
			cfg = config.Default()
		} else {
			return fmt.Errorf("failed to load configuration from %s: %w", options.CfgFilePath, err)
		}
	}

	// Environment variables
	if v := os.Getenv("PDB_DB_PATH"); v != "" {
		cfg.Database.Path = v
	}
	if v := os.Getenv("PDB_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}

	// CLI flags take precedence
	if options.DBPath != "" {
		cfg.Database.Path = options.DBPath
	}
	if options.LogLevel != "" {
		cfg.Logging.Level = options.LogLevel
	}

	if err := cfg.ParseAndValidate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	options.Conf = cfg
	options.Logger = logging.NewLogger(cfg.Logging.Level, cfg.Logging.File)
	return nil
}

// Execute runs the root command based on os.Args. Called by main.main().
func Execute() {
	rootCmd := NewRootCMD()
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
