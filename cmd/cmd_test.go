package cmd

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// resetFlags puts every flag of the command tree back to its default so
// each invocation starts from a clean state.
func resetFlags(t *testing.T, cmd *cobra.Command) {
	t.Helper()

	reset := func(f *pflag.Flag) {
		require.NoError(t, f.Value.Set(f.DefValue))
		f.Changed = false
	}
	cmd.PersistentFlags().VisitAll(reset)
	cmd.Flags().VisitAll(reset)

	for _, sub := range cmd.Commands() {
		resetFlags(t, sub)
	}
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	resetFlags(t, rootCmd)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append([]string{"--env-file", ""}, args...))

	err := rootCmd.Execute()
	return out.String(), err
}

func TestAddAndList(t *testing.T) {
	clientsPath := filepath.Join(t.TempDir(), "clientes.txt")

	out, err := execute(t, "--clients", clientsPath, "add", "Acme", "Industries")
	require.NoError(t, err)
	assert.Contains(t, out, `Client "Acme Industries" added.`)

	_, err = execute(t, "--clients", clientsPath, "add", "Acme Industries")
	assert.ErrorContains(t, err, "already exists")

	_, err = execute(t, "--clients", clientsPath, "add", "Globex")
	require.NoError(t, err)

	out, err = execute(t, "--clients", clientsPath, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Total clients: 2")
	assert.Contains(t, out, "1. Acme Industries")
	assert.Contains(t, out, "2. Globex")
	assert.Equal(t, clientsPath, cfg.ClientsPath)
}

func TestRun_AuthenticationFailure(t *testing.T) {
	dir := t.TempDir()
	clientsPath := filepath.Join(dir, "clientes.txt")

	_, err := execute(t, "--clients", clientsPath, "add", "Acme")
	require.NoError(t, err)

	output := filepath.Join(dir, "report.xlsx")
	_, err = execute(t,
		"--clients", clientsPath,
		"--credentials", filepath.Join(dir, "missing_secret.json"),
		"--token", filepath.Join(dir, "token.json"),
		"--output", output,
		"run", "--date", "01/05/2024")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "An error occurred while running")
	assert.NoFileExists(t, output)
}

func TestRun_InvalidDate(t *testing.T) {
	_, err := execute(t, "--clients", filepath.Join(t.TempDir(), "clientes.txt"), "run", "--date", "2024-05-01")
	assert.ErrorContains(t, err, "expected dd/mm/yyyy")
}

func TestHistory_Disabled(t *testing.T) {
	_, err := execute(t, "--history", "", "history")
	assert.ErrorIs(t, err, errHistoryDisabled)
}

func TestHistory_Empty(t *testing.T) {
	historyPath := filepath.Join(t.TempDir(), "history.db")

	out, err := execute(t, "--history", historyPath, "history")
	require.NoError(t, err)
	assert.Contains(t, out, "Runs recorded: 0")

	out, err = execute(t, "--history", historyPath, "history", "Acme")
	require.NoError(t, err)
	assert.Contains(t, out, `No archives recorded for "Acme"`)

	_, err = execute(t, "--history", historyPath, "clear", "--force")
	require.NoError(t, err)
}

func TestInvalidTimezone(t *testing.T) {
	_, err := execute(t, "--timezone", "Nowhere/City", "list")
	assert.ErrorContains(t, err, "invalid time zone")
}

func TestFlagsDoNotLeakBetweenRuns(t *testing.T) {
	historyPath := filepath.Join(t.TempDir(), "history.db")

	_, err := execute(t, "--history", historyPath, "history", "--limit", "5")
	require.NoError(t, err)
	assert.Equal(t, historyPath, cfg.HistoryPath)

	_, err = execute(t, "history")
	assert.ErrorIs(t, err, errHistoryDisabled)
	assert.Equal(t, 20, historyLimit)
	assert.False(t, clearForce)
	assert.Empty(t, runDate)
}
