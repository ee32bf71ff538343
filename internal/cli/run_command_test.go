// filepath: internal/cli/run_command_test.go
package cli

import (
	"testing"

	"github.com/Astar201/DataBasePeople/internal/config"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRunOptionsCmd() (*RunOptions, *cobra.Command) {
	options := &RunOptions{}
	cmd := &cobra.Command{Use: "run"}
	options.registerFlags(cmd)
	return options, cmd
}

func TestRunOptionsResetPWPrecedence(t *testing.T) {
	// A config file that disables the startup reset.
	fileCfg := func() *config.Config {
		cfg := config.Default()
		cfg.Admin.ResetOnStartup = false
		return cfg
	}

	t.Run("Untouched flag keeps the file value", func(t *testing.T) {
		options, cmd := newRunOptionsCmd()
		options.applyEnvVars(cmd)

		cfg := fileCfg()
		options.applyToConfig(cfg)
		assert.False(t, cfg.Admin.ResetOnStartup,
			"the flag default must not shadow reset_on_startup = false from the file")
	})

	t.Run("Explicit flag wins over the file", func(t *testing.T) {
		options, cmd := newRunOptionsCmd()
		require.NoError(t, cmd.Flags().Set("reset_pw", "true"))
		options.applyEnvVars(cmd)

		cfg := fileCfg()
		options.applyToConfig(cfg)
		assert.True(t, cfg.Admin.ResetOnStartup)
	})

	t.Run("Env var wins over the file", func(t *testing.T) {
		t.Setenv("PDB_RESET_PW", "false")
		options, cmd := newRunOptionsCmd()
		options.applyEnvVars(cmd)

		cfg := config.Default() // file leaves the default (true) in place
		options.applyToConfig(cfg)
		assert.False(t, cfg.Admin.ResetOnStartup)
	})

	t.Run("Explicit flag wins over the env var", func(t *testing.T) {
		t.Setenv("PDB_RESET_PW", "true")
		options, cmd := newRunOptionsCmd()
		require.NoError(t, cmd.Flags().Set("reset_pw", "false"))
		options.applyEnvVars(cmd)

		cfg := config.Default()
		options.applyToConfig(cfg)
		assert.False(t, cfg.Admin.ResetOnStartup)
	})
}

func TestRunOptionsApplyToConfig(t *testing.T) {
	options, cmd := newRunOptionsCmd()
	options.Password = "override"
	options.AuditEnabled = true
	options.applyEnvVars(cmd)

	cfg := config.Default()
	options.applyToConfig(cfg)

	assert.Equal(t, "override", cfg.Admin.DefaultPassword)
	assert.True(t, cfg.Logging.AuditEnabled)
	assert.True(t, cfg.Admin.ResetOnStartup, "default stays when nothing was given")
}
