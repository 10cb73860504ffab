package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sheetsync/internal/config"
	"sheetsync/internal/models"
	"sheetsync/internal/syncer"
)

// writeCSVConfig writes a config that reads the sheets testdata CSV and
// keeps all output under a temp dir.
func writeCSVConfig(t *testing.T) (configPath, dataDir string) {
	t.Helper()

	csvPath, err := filepath.Abs("../../internal/sheets/testdata/songs.csv")
	require.NoError(t, err)

	root := t.TempDir()
	dataDir = filepath.Join(root, "data")

	content := fmt.Sprintf(`source:
  kind: csv
  csv_file: %q
output:
  data_dir: %q
  manifest_path: %q
state:
  backend: sqlite
  path: %q
logging:
  level: error
`, csvPath, dataDir, filepath.Join(root, "songManifest.ts"), filepath.Join(root, "state.db"))

	configPath = filepath.Join(root, "sheetsync.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0644))

	return configPath, dataDir
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := newRootCmd()

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(t.Context())

	return out.String(), err
}

func TestSyncCommand(t *testing.T) {
	configPath, dataDir := writeCSVConfig(t)

	out, err := execute(t, "sync", "--config", configPath)
	require.NoError(t, err)
	assert.Contains(t, out, "first-sync")
	assert.FileExists(t, filepath.Join(dataDir, "senbonzakura.json"))

	out, err = execute(t, "sync", "-c", configPath)
	require.NoError(t, err)
	assert.Contains(t, out, "unchanged")

	out, err = execute(t, "sync", "-c", configPath, "--force")
	require.NoError(t, err)
	assert.Contains(t, out, "forced")

	out, err = execute(t, "state", "-c", configPath)
	require.NoError(t, err)
	assert.Contains(t, out, "| Total songs | 3")
	assert.Contains(t, out, "| Forced      | true")
}

func TestSyncCommand_DryRun(t *testing.T) {
	configPath, dataDir := writeCSVConfig(t)

	out, err := execute(t, "sync", "-c", configPath, "--dry-run")
	require.NoError(t, err)
	assert.Contains(t, out, "(dry run)")
	assert.NoDirExists(t, dataDir)

	out, err = execute(t, "state", "-c", configPath)
	require.NoError(t, err)
	assert.Contains(t, out, "No sync state recorded (sqlite backend).")
}

func TestValidateCommand(t *testing.T) {
	configPath, dataDir := writeCSVConfig(t)

	out, err := execute(t, "validate", "-c", configPath, "--rejected")
	require.NoError(t, err)

	assert.Contains(t, out, "5 rows, 3 accepted, 2 rejected, 2 songs")
	assert.Contains(t, out, "world-is-mine.json")
	assert.Contains(t, out, "Rejected:")
	assert.Contains(t, out, `no valid PDF files found for "No Sheets Yet"`)
	assert.NoDirExists(t, dataDir)
}

func TestSyncCommand_BadConfig(t *testing.T) {
	_, err := execute(t, "sync", "-c", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestResolveConfigPath(t *testing.T) {
	t.Chdir(t.TempDir())

	path, err := resolveConfigPath("")
	require.NoError(t, err)
	assert.Empty(t, path)

	path, err = resolveConfigPath("custom.yaml")
	require.NoError(t, err)
	assert.Equal(t, "custom.yaml", path)

	require.NoError(t, os.MkdirAll("configs", 0755))
	require.NoError(t, os.WriteFile("configs/sheetsync.yaml", []byte("{}"), 0644))

	path, err = resolveConfigPath("")
	require.NoError(t, err)
	assert.Equal(t, "configs/sheetsync.yaml", path)
}

func TestPrintSummary(t *testing.T) {
	var buf bytes.Buffer
	printSummary(&buf, &syncer.Result{
		RunID:       "run-1",
		Decision:    syncer.DecisionUnchanged,
		Fingerprint: strings.Repeat("a", 64),
		RowsRead:    4,
		Accepted:    2,
		Rejections:  map[string]int{syncer.ReasonNotAccepted: 2},
	})

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "📊 Sync summary\n\n"))
	assert.Contains(t, out, "| unchanged ")
	assert.Contains(t, out, "| Rejected: not_accepted | 2 ")
	assert.Contains(t, out, "| aaaaaaaaaaaa |")
	assert.NotContains(t, out, "Files")
}

func TestPrintState_JSON(t *testing.T) {
	var buf bytes.Buffer
	err := printState(&buf, "file", &models.SyncState{
		LastSync:  time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		SongsHash: "abc",
	}, true)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), `"songsHash": "abc"`)
}

func TestSyncCommand_InvalidLogLevel(t *testing.T) {
	configPath, dataDir := writeCSVConfig(t)

	_, err := execute(t, "sync", "-c", configPath, "--log-level", "verbose")
	require.ErrorIs(t, err, config.ErrInvalidLogLevel)
	assert.NoDirExists(t, dataDir)
}

func TestValidateCommand_NoSongs(t *testing.T) {
	root := t.TempDir()
	csvPath := filepath.Join(root, "songs.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte("Song Name,Status,Vocals\nMelt,In Progress,\n"), 0644))

	configPath := filepath.Join(root, "sheetsync.yaml")
	content := fmt.Sprintf(`source:
  kind: csv
  csv_file: %q
state:
  path: %q
logging:
  level: error
`, csvPath, filepath.Join(root, "state.json"))
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0644))

	out, err := execute(t, "validate", "-c", configPath)
	require.NoError(t, err)
	assert.Contains(t, out, "1 rows, 0 accepted, 1 rejected, 0 songs")
	assert.Contains(t, out, "No songs would be published.")
}

func TestConfigInitCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "configs", "sheetsync.yaml")

	out, err := execute(t, "config", "init", "-c", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote "+path)

	cfg, err := config.LoadConfigWithEnv(path, func(string) (string, bool) { return "", false })
	require.ErrorIs(t, err, config.ErrMissingSheetID, "defaults need a sheet ID before they validate")
	assert.Nil(t, cfg)

	_, err = execute(t, "config", "init", "-c", path)
	require.Error(t, err, "existing file should be kept")

	_, err = execute(t, "config", "init", "-c", path, "--force")
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "backend: file")
	assert.Contains(t, string(data), "data_dir: frontend/src/data")
}
