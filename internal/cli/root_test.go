package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "mapsql", cmd.Use)
	assert.Contains(t, cmd.Long, "SQL SELECT")
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	commands := []string{"compile", "validate", "test", "history"}

	for _, cmdName := range commands {
		t.Run(cmdName, func(t *testing.T) {
			subCmd, _, err := cmd.Find([]string{cmdName})
			require.NoError(t, err, "Command %s should exist", cmdName)
			require.NotNil(t, subCmd)
			assert.Equal(t, cmdName, subCmd.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	verboseFlag := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verboseFlag)
	assert.Equal(t, "v", verboseFlag.Shorthand)
	assert.Equal(t, "false", verboseFlag.DefValue)

	formatFlag := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, formatFlag)
	assert.Equal(t, "text", formatFlag.DefValue)

	for _, name := range []string{"config", "strict", "journal"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(name), "missing --%s", name)
	}
}

func TestCompileCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	compileCmd, _, err := cmd.Find([]string{"compile"})
	require.NoError(t, err)

	outputFlag := compileCmd.Flags().Lookup("output")
	require.NotNil(t, outputFlag)
	assert.Equal(t, "o", outputFlag.Shorthand)

	recordFlag := compileCmd.Flags().Lookup("record")
	require.NotNil(t, recordFlag)
	assert.Equal(t, "false", recordFlag.DefValue)
}

func TestHistoryCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	historyCmd, _, err := cmd.Find([]string{"history"})
	require.NoError(t, err)

	limitFlag := historyCmd.Flags().Lookup("limit")
	require.NotNil(t, limitFlag)
	assert.Equal(t, "20", limitFlag.DefValue)
	assert.NotNil(t, historyCmd.Flags().Lookup("spec"))
}

func TestRoot_ConfigFileSetsFormat(t *testing.T) {
	cfg := writeMapping(t, "mapsql.yaml", "format: json\n")

	out, err := execute(NewRootCommand(), "--config", cfg, "compile", filepath.Join(mappingsDir, "orders.yaml"))
	require.NoError(t, err)

	var resp struct {
		Status string        `json:"status"`
		Data   CompileResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, ordersSQL, resp.Data.SQL)
}

func TestRoot_FlagOverridesConfigFile(t *testing.T) {
	cfg := writeMapping(t, "mapsql.yaml", "format: json\n")

	out, err := execute(NewRootCommand(), "--config", cfg, "--format", "text", "compile", filepath.Join(mappingsDir, "orders.yaml"))
	require.NoError(t, err)
	assert.Equal(t, ordersSQL+"\n", out)
}

func TestRoot_StrictFromEnvironment(t *testing.T) {
	t.Setenv("MAPSQL_STRICT", "true")
	path := writeMapping(t, "dup.yaml", duplicateAliasYAML)

	out, err := execute(NewRootCommand(), "compile", path)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "Error [E303]")
}

func TestRoot_RecordFromConfigFile(t *testing.T) {
	dir := t.TempDir()
	journal := filepath.Join(dir, "journal.db")
	cfg := filepath.Join(dir, "mapsql.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("record: true\njournal: "+journal+"\n"), 0644))

	_, err := execute(NewRootCommand(), "--config", cfg, "compile", filepath.Join(mappingsDir, "orders.yaml"))
	require.NoError(t, err)

	_, err = os.Stat(journal)
	assert.NoError(t, err, "journal should be created by --record from config")
}

func TestRoot_InvalidFormat(t *testing.T) {
	_, err := execute(NewRootCommand(), "--format", "xml", "compile", filepath.Join(mappingsDir, "orders.yaml"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "invalid format")
}

func TestRoot_MissingConfigFile(t *testing.T) {
	_, err := execute(NewRootCommand(), "--config", filepath.Join(t.TempDir(), "nope.yaml"), "compile", filepath.Join(mappingsDir, "orders.yaml"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
