package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestImportCommand(t *testing.T) {
	dataDir := t.TempDir()
	src := filepath.Join(t.TempDir(), "go concurrency.pdf")
	require.NoError(t, os.WriteFile(src, []byte("%PDF-1.4 body"), 0o644))

	out, _, err := runCLI(t, "--data-dir", dataDir, "import", src)
	require.NoError(t, err)
	assert.Contains(t, out, "imported")
	assert.Contains(t, out, "go concurrency")
	assert.Contains(t, out, "1 imported, 0 duplicates, 0 failed")

	// Second import of the same content is a duplicate, not a new document.
	out, _, err = runCLI(t, "--data-dir", dataDir, "import", src)
	require.NoError(t, err)
	assert.Contains(t, out, "0 imported, 1 duplicates, 0 failed")
}

func TestImportCommand_JSON(t *testing.T) {
	dataDir := t.TempDir()
	src := filepath.Join(t.TempDir(), "paper.pdf")
	require.NoError(t, os.WriteFile(src, []byte("paper bytes"), 0o644))

	out, _, err := runCLI(t, "--data-dir", dataDir, "--format", "json", "import", src)
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Nil(t, resp.Error)
}

func TestImportCommand_PartialFailure(t *testing.T) {
	dataDir := t.TempDir()
	dir := t.TempDir()
	good := filepath.Join(dir, "good.pdf")
	require.NoError(t, os.WriteFile(good, []byte("good"), 0o644))
	missing := filepath.Join(dir, "missing.pdf")

	out, _, err := runCLI(t, "--data-dir", dataDir, "import", good, missing)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "1 imported, 0 duplicates, 1 failed")
}

func TestListAndDeleteCommands(t *testing.T) {
	dataDir := t.TempDir()
	src := filepath.Join(t.TempDir(), "to delete.pdf")
	require.NoError(t, os.WriteFile(src, []byte("delete me"), 0o644))
	_, _, err := runCLI(t, "--data-dir", dataDir, "import", src)
	require.NoError(t, err)

	out, _, err := runCLI(t, "--data-dir", dataDir, "--format", "json", "list")
	require.NoError(t, err)
	var resp struct {
		Data []struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.Len(t, resp.Data, 1)

	out, _, err = runCLI(t, "--data-dir", dataDir, "delete", resp.Data[0].ID)
	require.NoError(t, err)
	assert.Contains(t, out, "deleted")

	// Deleting again is a NOT_FOUND command error (exit 2).
	_, errOut, err := runCLI(t, "--data-dir", dataDir, "delete", resp.Data[0].ID)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, errOut, "NOT_FOUND")
}

func TestCollectionsCommands(t *testing.T) {
	dataDir := t.TempDir()

	out, _, err := runCLI(t, "--data-dir", dataDir, "collections", "create", "Research")
	require.NoError(t, err)
	assert.Contains(t, out, "Research")

	_, errOut, err := runCLI(t, "--data-dir", dataDir, "collections", "create", "research")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, errOut, "DUPLICATE_NAME")

	out, _, err = runCLI(t, "--data-dir", dataDir, "collections", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Research")
}

func TestStatsCommand_Empty(t *testing.T) {
	out, _, err := runCLI(t, "--data-dir", t.TempDir(), "stats")
	require.NoError(t, err)
	assert.Contains(t, out, "goals: 10 pages/day, 50 pages/week")
	assert.Contains(t, out, "no reading activity yet")
}
