// filepath: internal/cli/cli_test.go
package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestInitializePrecedence(t *testing.T) {
	cfgPath := writeConfigFile(t, "[database]\npath = \"from-file.db\"\n\n[logging]\nlevel = \"warn\"\n")

	t.Run("File over default", func(t *testing.T) {
		options := &GlobalOptions{CfgFilePath: cfgPath}
		require.NoError(t, options.initialize())
		assert.Equal(t, "from-file.db", options.Conf.Database.Path)
		assert.Equal(t, "warn", options.Conf.Logging.Level)
	})

	t.Run("Env over file", func(t *testing.T) {
		t.Setenv("PDB_DB_PATH", "from-env.db")
		options := &GlobalOptions{CfgFilePath: cfgPath}
		require.NoError(t, options.initialize())
		assert.Equal(t, "from-env.db", options.Conf.Database.Path)
	})

	t.Run("Flag over env and file", func(t *testing.T) {
		t.Setenv("PDB_DB_PATH", "from-env.db")
		options := &GlobalOptions{CfgFilePath: cfgPath, DBPath: "from-flag.db", LogLevel: "debug"}
		require.NoError(t, options.initialize())
		assert.Equal(t, "from-flag.db", options.Conf.Database.Path)
		assert.Equal(t, "debug", options.Conf.Logging.Level)
	})
}

func TestInitializeWithoutConfigFile(t *testing.T) {
	options := &GlobalOptions{CfgFilePath: filepath.Join(t.TempDir(), "missing.toml")}
	require.NoError(t, options.initialize())

	// Defaults apply when the file does not exist.
	assert.Equal(t, "people.db", options.Conf.Database.Path)
	assert.Equal(t, "info", options.Conf.Logging.Level)
	assert.True(t, options.Conf.Admin.ResetOnStartup)
	assert.NotNil(t, options.Logger)
}

func TestInitializeRejectsBadConfig(t *testing.T) {
	cfgPath := writeConfigFile(t, "[logging]\nlevel = \"shout\"\n")
	options := &GlobalOptions{CfgFilePath: cfgPath}
	assert.Error(t, options.initialize())
}
