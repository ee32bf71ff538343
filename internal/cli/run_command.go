// filepath: internal/cli/run_command.go
package cli

import (
	"fmt"
	"os"

	"github.com/Astar201/DataBasePeople/internal/audit"
	"github.com/Astar201/DataBasePeople/internal/config"
	"github.com/Astar201/DataBasePeople/internal/repository"
	"github.com/Astar201/DataBasePeople/internal/services"
	"github.com/Astar201/DataBasePeople/internal/services/auth"

	"github.com/spf13/cobra"
)

type RunOptions struct {
	Password     string
	ResetPW      bool
	ResetPWSet   bool // true when the flag or env var was given explicitly
	AuditEnabled bool
}

func NewRunCommand(globalOptions *GlobalOptions) *cobra.Command {
	runOptions := &RunOptions{}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Open the store and start the interactive console",
		RunE: func(cmd *cobra.Command, args []string) error {
			runOptions.applyEnvVars(cmd)
			return run(globalOptions, runOptions)
		},
	}

	runOptions.registerFlags(runCmd)
	return runCmd
}

func (options *RunOptions) registerFlags(cmd *cobra.Command) {
	// flags for the run command only
	cmd.Flags().StringVar(&options.Password, "password", "", "Default password for the 'admin' account. (Env: PDB_PASSWORD)")
	cmd.Flags().BoolVar(&options.ResetPW, "reset_pw", true, "Reset the admin password to the default on startup. (Env: PDB_RESET_PW=false to disable)")
	cmd.Flags().BoolVar(&options.AuditEnabled, "audit-enabled", false, "Write audit lines for every mutating operation. (Env: PDB_AUDIT_ENABLED=true)")
}

// In case a variable was not defined in the cli arguments, we check for
// env variables.
func (options *RunOptions) applyEnvVars(cmd *cobra.Command) {
	if options.Password == "" {
		options.Password = os.Getenv("PDB_PASSWORD")
	}
	options.ResetPWSet = cmd.Flags().Changed("reset_pw")
	if !options.ResetPWSet {
		if v := os.Getenv("PDB_RESET_PW"); v != "" {
			options.ResetPW = v == "true"
			options.ResetPWSet = true
		}
	}
	if !options.AuditEnabled {
		options.AuditEnabled = os.Getenv("PDB_AUDIT_ENABLED") == "true"
	}
}

// applyToConfig overlays explicitly given run options onto the loaded
// configuration. Options the operator left untouched keep the config
// file's values; the cobra flag default must never shadow the file.
func (options *RunOptions) applyToConfig(cfg *config.Config) {
	if options.Password != "" {
		cfg.Admin.DefaultPassword = options.Password
	}
	if options.ResetPWSet {
		cfg.Admin.ResetOnStartup = options.ResetPW
	}
	if options.AuditEnabled {
		cfg.Logging.AuditEnabled = true
	}
}

// run performs the startup protocol: open the store, migrate the schema
// forward, seed or reset the bootstrap admin, then hand control to the
// console loop. Any storage failure here is fatal.
func run(globalOptions *GlobalOptions, runOptions *RunOptions) error {
	cfg := globalOptions.Conf
	log := globalOptions.Logger

	runOptions.applyToConfig(cfg)

	repo, err := repository.NewRepository(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer repo.Close()

	if err := repo.Migrate(); err != nil {
		log.Errorf("Schema migration failed: %v", err)
		return err
	}
	if err := repo.ValidateSchema(); err != nil {
		return err
	}

	auditor := audit.NewLoggerAuditor(cfg.Logging.AuditEnabled, log)
	accessControl := auth.NewAccessControl(repo, log)
	accountService := services.NewAccountService(repo, log, auditor)
	recordService := services.NewRecordService(repo, log, auditor)

	if err := accountService.InitializeAdminAccount(cfg); err != nil {
		return fmt.Errorf("failed to handle admin account: %w", err)
	}

	version, err := repo.SchemaVersion()
	if err != nil {
		return err
	}
	log.Infof("Store ready at %s (schema version %d)", cfg.Database.Path, version)

	console := NewConsole(accessControl, accountService, recordService, os.Stdin, os.Stdout)
	return console.Run()
}
