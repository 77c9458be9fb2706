package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/aclindsa/ofxgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wapinheiro/money/internal/common"
	"github.com/wapinheiro/money/internal/model"
	"github.com/wapinheiro/money/internal/storage"
)

type testEnv struct {
	configPath string
	dbPath     string
}

func newTestEnv(t *testing.T, extra string) testEnv {
	t.Helper()
	dir := t.TempDir()
	env := testEnv{
		configPath: filepath.Join(dir, "config.yaml"),
		dbPath:     filepath.Join(dir, "money.db"),
	}
	content := fmt.Sprintf("database:\n  path: %s\nlogging:\n  level: error\n  file: %s\n%s",
		env.dbPath, filepath.Join(dir, "money.log"), extra)
	require.NoError(t, os.WriteFile(env.configPath, []byte(content), 0600))
	return env
}

func (e testEnv) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	return e.runWithInput(t, "", args...)
}

// runWithInput runs the command with input as stdin.
func (e testEnv) runWithInput(t *testing.T, input string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetIn(strings.NewReader(input))
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append([]string{"--config", e.configPath}, args...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRootCmd_RegistersCommands(t *testing.T) {
	root := newRootCmd()

	for _, path := range [][]string{
		{"capture"},
		{"seed"},
		{"merchants", "list"},
		{"merchants", "add"},
		{"categories", "add"},
		{"categories", "rename"},
		{"categories", "delete"},
		{"accounts", "list"},
		{"tags", "add"},
		{"tags", "delete"},
		{"export", "ofx"},
		{"migrate"},
		{"version"},
	} {
		found, _, err := root.Find(path)
		require.NoError(t, err, strings.Join(path, " "))
		assert.Equal(t, path[len(path)-1], found.Name())
	}
}

func TestVersionCmd(t *testing.T) {
	env := newTestEnv(t, "")
	out, err := env.run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "money dev")
}

func TestSeedThenListMerchants(t *testing.T) {
	env := newTestEnv(t, "")

	out, err := env.run(t, "seed", "--no-progress")
	require.NoError(t, err)
	assert.Contains(t, out, "Seeded")

	out, err = env.run(t, "merchants", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Starbucks")
	assert.Contains(t, out, "Dining")
	assert.Contains(t, out, "5812")

	out, err = env.run(t, "accounts", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "MACU")
	assert.Contains(t, out, "Mountain America")
}

func TestSeed_FromFile(t *testing.T) {
	env := newTestEnv(t, "")
	file := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(file, []byte("categories:\n  - name: Pets\n    type: expense\n"), 0600))

	_, err := env.run(t, "seed", "--no-progress", "--file", file)
	require.NoError(t, err)

	out, err := env.run(t, "categories", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Pets")
	assert.NotContains(t, out, "Groceries")
}

func TestListEmpty(t *testing.T) {
	env := newTestEnv(t, "")
	out, err := env.run(t, "accounts", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No accounts found")
}

func TestAddCategory(t *testing.T) {
	env := newTestEnv(t, "")

	out, err := env.run(t, "categories", "add", "Travel")
	require.NoError(t, err)
	assert.Contains(t, out, `category "Travel" ready`)

	out, err = env.run(t, "categories", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Travel")
}

func TestRenameMerchant(t *testing.T) {
	env := newTestEnv(t, "")

	_, err := env.run(t, "merchants", "add", "Starbux")
	require.NoError(t, err)
	_, err = env.run(t, "merchants", "add", "Costco")
	require.NoError(t, err)

	out, err := env.run(t, "merchants", "rename", "starbux", "Starbucks")
	require.NoError(t, err)
	assert.Contains(t, out, `Renamed merchant "starbux" to "Starbucks"`)

	out, err = env.run(t, "merchants", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Starbucks")
	assert.NotContains(t, out, "Starbux")

	_, err = env.run(t, "merchants", "rename", "Starbucks", "COSTCO")
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrDuplicateEntry)

	_, err = env.run(t, "merchants", "rename", "Nope", "Other")
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrNotFound)

	_, err = env.run(t, "merchants", "rename", "Starbucks")
	assert.Error(t, err, "rename takes two names")
}

func TestDeleteCategory(t *testing.T) {
	env := newTestEnv(t, "")

	_, err := env.run(t, "categories", "add", "Travel")
	require.NoError(t, err)

	t.Run("declined", func(t *testing.T) {
		out, err := env.runWithInput(t, "n\n", "categories", "delete", "Travel")
		require.NoError(t, err)
		assert.Contains(t, out, `Are you sure you want to delete category "Travel"?`)
		assert.Contains(t, out, "Deletion cancelled.")

		out, err = env.run(t, "categories", "list")
		require.NoError(t, err)
		assert.Contains(t, out, "Travel")
	})

	t.Run("no answer", func(t *testing.T) {
		out, err := env.run(t, "categories", "delete", "Travel")
		require.NoError(t, err)
		assert.Contains(t, out, "Deletion cancelled.")
	})

	t.Run("confirmed", func(t *testing.T) {
		out, err := env.runWithInput(t, "yes\n", "categories", "delete", "travel")
		require.NoError(t, err)
		assert.Contains(t, out, `Deleted category "travel"`)

		out, err = env.run(t, "categories", "list")
		require.NoError(t, err)
		assert.Contains(t, out, "No categories found")
	})

	t.Run("unknown", func(t *testing.T) {
		_, err := env.run(t, "categories", "delete", "Travel", "--force")
		require.Error(t, err)
		assert.ErrorIs(t, err, common.ErrNotFound)
	})
}

func TestDeleteTag_Force(t *testing.T) {
	env := newTestEnv(t, "")

	_, err := env.run(t, "tags", "add", "Vegas")
	require.NoError(t, err)

	out, err := env.run(t, "tags", "delete", "Vegas", "--force")
	require.NoError(t, err)
	assert.NotContains(t, out, "Are you sure")
	assert.Contains(t, out, `Deleted tag "Vegas"`)

	out, err = env.run(t, "tags", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No tags found")
}

func TestAddTemporaryTag(t *testing.T) {
	env := newTestEnv(t, "")

	out, err := env.run(t, "tags", "add", "Vegas", "--start", "2024-06-01", "--end", "2024-06-08")
	require.NoError(t, err)
	assert.Contains(t, out, "temporary")

	out, err = env.run(t, "tags", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Vegas")
	assert.Contains(t, out, "2024-06-01")
	assert.Contains(t, out, "2024-06-08")
}

func TestAddTag_Errors(t *testing.T) {
	env := newTestEnv(t, "")

	_, err := env.run(t, "tags", "add", "Vegas", "--start", "06/01/2024", "--end", "2024-06-08")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--start must be YYYY-MM-DD")

	_, err = env.run(t, "tags", "add", "Vegas", "--start", "2024-06-01")
	require.Error(t, err)
	assert.ErrorIs(t, err, storage.ErrInvalidTag)

	_, err = env.run(t, "tags", "add", "Vegas", "--start", "2024-06-08", "--end", "2024-06-01")
	require.Error(t, err)
	assert.ErrorIs(t, err, storage.ErrInvalidDateRange)
}

func TestExportOFX(t *testing.T) {
	env := newTestEnv(t, "")
	ctx := context.Background()

	store, err := storage.NewSQLiteStorage(env.dbPath)
	require.NoError(t, err)
	require.NoError(t, store.Migrate(ctx))
	require.NoError(t, store.AddTransaction(ctx, &model.Transaction{
		Date:     time.Date(2024, 6, 1, 9, 0, 0, 0, time.Local),
		Amount:   450,
		Merchant: "Starbucks",
		Category: "Dining",
		Account:  "MACU",
	}))
	require.NoError(t, store.Close())

	outPath := filepath.Join(t.TempDir(), "money.ofx")
	_, err = env.run(t, "export", "ofx", "--out", outPath)
	require.NoError(t, err)

	f, err := os.Open(outPath)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	resp, err := ofxgo.ParseResponse(f)
	require.NoError(t, err)
	require.Len(t, resp.Bank, 1)
	stmt, ok := resp.Bank[0].(*ofxgo.StatementResponse)
	require.True(t, ok)
	require.NotNil(t, stmt.BankTranList)
	require.Len(t, stmt.BankTranList.Transactions, 1)
	assert.Equal(t, "Starbucks", string(stmt.BankTranList.Transactions[0].Name))

	out, err := env.run(t, "export", "ofx", "--out", "-")
	require.NoError(t, err)
	assert.Contains(t, out, "Starbucks")
}

func TestExportOFX_BadSince(t *testing.T) {
	env := newTestEnv(t, "")
	_, err := env.run(t, "export", "ofx", "--out", "-", "--since", "yesterday")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--since must be YYYY-MM-DD")
}

func TestMigrate(t *testing.T) {
	env := newTestEnv(t, "")

	out, err := env.run(t, "migrate", "--status")
	require.NoError(t, err)
	assert.Contains(t, out, "Current version: 0")

	out, err = env.run(t, "migrate")
	require.NoError(t, err)
	assert.Contains(t, out, fmt.Sprintf("schema version %d", storage.ExpectedSchemaVersion))

	out, err = env.run(t, "migrate", "--status")
	require.NoError(t, err)
	assert.Contains(t, out, fmt.Sprintf("Current version: %d", storage.ExpectedSchemaVersion))
}

func TestInvalidConfig(t *testing.T) {
	env := newTestEnv(t, "wheel:\n  decay: 2\n")
	_, err := env.run(t, "version")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
}
