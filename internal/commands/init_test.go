package commands_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moisesuailab/finance-app/internal/commands"
	"github.com/moisesuailab/finance-app/internal/config"
)

// runFinance executes the CLI in-process and returns its stdout.
func runFinance(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := commands.NewRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func initDataDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	_, err := runFinance(t, "init", dir)
	require.NoError(t, err)
	return dir
}

func TestInit_CreatesStructure(t *testing.T) {
	dir := t.TempDir()
	out, err := runFinance(t, "init", dir, "--currency", "€")
	require.NoError(t, err)
	assert.Contains(t, out, "Initialized finance ledger")

	for _, d := range []string{"import", filepath.Join("import", "processed"), "exports"} {
		info, err := os.Stat(filepath.Join(dir, d))
		require.NoError(t, err, "directory %s should exist", d)
		assert.True(t, info.IsDir())
	}

	cfg, err := config.Load(filepath.Join(dir, config.FileName))
	require.NoError(t, err)
	assert.Equal(t, "€", cfg.Currency)
	assert.Equal(t, "finance.db", cfg.Database)

	_, err = os.Stat(filepath.Join(dir, cfg.Database))
	require.NoError(t, err, "database should be created")
}

func TestInit_SeedsDefaultCategories(t *testing.T) {
	dir := initDataDir(t)

	out, err := runFinance(t, "category", "list", "--data", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Salary")
	assert.Contains(t, out, "Food")
}

func TestInit_RefusesExistingConfig(t *testing.T) {
	dir := initDataDir(t)

	_, err := runFinance(t, "init", dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestAccountLifecycle(t *testing.T) {
	dir := initDataDir(t)

	out, err := runFinance(t, "account", "add", "Wallet", "--initial", "1000", "--data", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Created account 1: Wallet")

	out, err = runFinance(t, "account", "list", "--data", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Wallet")
	assert.Contains(t, out, "1000.00")
	assert.Contains(t, out, "Available: $1000.00")
}

func TestTransactionFlow(t *testing.T) {
	dir := initDataDir(t)

	_, err := runFinance(t, "account", "add", "Wallet", "--initial", "1000", "--data", dir)
	require.NoError(t, err)

	// Category ids are seeded; find Food's id from the listing.
	out, err := runFinance(t, "category", "list", "--data", dir)
	require.NoError(t, err)
	foodID := ""
	for _, line := range strings.Split(out, "\n") {
		if strings.Contains(line, "Food") {
			foodID = strings.Fields(line)[0]
			break
		}
	}
	require.NotEmpty(t, foodID)

	out, err = runFinance(t, "tx", "add", "Groceries",
		"--account", "1", "--category", foodID, "--amount", "200",
		"--date", "2025-06-01", "--data", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Recorded transaction")

	out, err = runFinance(t, "account", "list", "--data", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "800.00")

	out, err = runFinance(t, "tx", "list", "--data", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Groceries")
	assert.Contains(t, out, "completed")
}

func TestTransferFlow(t *testing.T) {
	dir := initDataDir(t)

	_, err := runFinance(t, "account", "add", "Wallet", "--initial", "1000", "--data", dir)
	require.NoError(t, err)
	_, err = runFinance(t, "account", "add", "Savings", "--data", dir)
	require.NoError(t, err)

	_, err = runFinance(t, "transfer", "--from", "1", "--to", "2",
		"--amount", "150", "--date", "2025-06-01", "--data", dir)
	require.NoError(t, err)

	out, err := runFinance(t, "account", "list", "--data", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "850.00")
	assert.Contains(t, out, "150.00")
}

func TestExportFlow(t *testing.T) {
	dir := initDataDir(t)

	_, err := runFinance(t, "account", "add", "Wallet", "--initial", "100", "--data", dir)
	require.NoError(t, err)

	outPath := filepath.Join(dir, "exports", "all.csv")
	out, err := runFinance(t, "export", "--out", outPath, "--data", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Exported")

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "date,description,category,account")
}

func TestMaterializeCommand(t *testing.T) {
	dir := initDataDir(t)

	out, err := runFinance(t, "materialize", "--data", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Materialized 0 pending transactions")
}
