package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/SlpAus/water-wars-backend/internal/platform/datekey"
	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeConfig 在临时目录中写入一个指向独立SQLite文件的配置
func writeConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	cfg := fmt.Sprintf(`database:
  driver: sqlite
  sqlite:
    path: %s
backup:
  dir: %s
game:
  timezone: UTC
scheduler:
  enabled: false
log:
  verbose: false
`, filepath.Join(dir, "cli.db"), filepath.Join(dir, "backups"))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(cfg), 0644))
	return dir
}

func writeImport(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, "entries.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	cmd := NewRootCommand()
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	for _, name := range []string{"migrate", "resolve", "recompute", "import", "stats", "backup"} {
		t.Run(name, func(t *testing.T) {
			sub, _, err := cmd.Find([]string{name})
			require.NoError(t, err)
			assert.Equal(t, name, sub.Name())
		})
	}

	formatFlag := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, formatFlag)
	assert.Equal(t, "text", formatFlag.DefValue)
}

func TestInvalidFormat(t *testing.T) {
	dir := writeConfig(t)
	_, err := run(t, "--config", dir, "--format", "xml", "migrate")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
}

func TestMigrate(t *testing.T) {
	dir := writeConfig(t)
	out, err := run(t, "--config", dir, "migrate")
	require.NoError(t, err)
	assert.Equal(t, "migrated sqlite database\n", out)
	assert.FileExists(t, filepath.Join(dir, "cli.db"))
}

func TestImportResolveStats(t *testing.T) {
	dir := writeConfig(t)
	today := datekey.FromTime(time.Now().UTC())
	path := writeImport(t, dir, fmt.Sprintf(`entries:
  - player: safari
    amount: 16
    date: "%[1]s"
  - player: Safari
    amount: 12
    date: "%[1]s"
  - player: brielle
    amount: 20
    date: "%[1]s"
`, today))

	out, err := run(t, "--config", dir, "import", path)
	require.NoError(t, err)
	assert.Equal(t, "imported 3 entries\n", out)

	out, err = run(t, "--config", dir, "resolve", "--date", today.String())
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("%s: safari won with 28 oz\n", today), out)

	out, err = run(t, "--config", dir, "--format", "json", "stats", "--days", "1")
	require.NoError(t, err)
	var resp struct {
		Status string                    `json:"status"`
		Data   map[string]map[string]int `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, map[string]int{"total": 28, "wins": 1}, resp.Data["safari"])
	assert.Equal(t, map[string]int{"total": 20, "wins": 0}, resp.Data["brielle"])
}

func TestImport_InvalidFileWritesNothing(t *testing.T) {
	dir := writeConfig(t)
	path := writeImport(t, dir, `entries:
  - player: safari
    amount: 16
    date: "2026-10-14"
  - player: mallory
    amount: 12
    date: "2026-10-14"
`)

	_, err := run(t, "--config", dir, "import", path)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, err.Error(), "entry 2")

	out, err := run(t, "--config", dir, "resolve", "--date", "2026-10-14")
	require.NoError(t, err)
	assert.Equal(t, "2026-10-14: no entries\n", out)
}

func TestImport_MissingFile(t *testing.T) {
	dir := writeConfig(t)
	_, err := run(t, "--config", dir, "import", filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestResolve_BadDate(t *testing.T) {
	dir := writeConfig(t)
	_, err := run(t, "--config", dir, "resolve", "--date", "10/14/2026")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestRecompute_Golden(t *testing.T) {
	dir := writeConfig(t)
	path := writeImport(t, dir, `entries:
  - {player: safari, amount: 30, date: "2026-10-10"}
  - {player: brielle, amount: 24, date: "2026-10-10"}
  - {player: brielle, amount: 20, date: "2026-10-12"}
  - {player: safari, amount: 20, date: "2026-10-13"}
  - {player: brielle, amount: 20, date: "2026-10-13"}
`)
	_, err := run(t, "--config", dir, "import", path)
	require.NoError(t, err)

	out, err := run(t, "--config", dir, "recompute", "--from", "2026-10-10", "--to", "2026-10-14")
	require.NoError(t, err)

	g := goldie.New(t)
	g.Assert(t, "recompute_text", []byte(out))
}

func TestRecompute_Validation(t *testing.T) {
	dir := writeConfig(t)

	_, err := run(t, "--config", dir, "recompute", "--from", "2026-10-10")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "required flag")

	_, err = run(t, "--config", dir, "recompute", "--from", "2026-10-14", "--to", "2026-10-10")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestGetExitCode(t *testing.T) {
	assert.Equal(t, ExitSuccess, GetExitCode(nil))
	assert.Equal(t, ExitFailure, GetExitCode(errors.New("boom")))
	wrapped := fmt.Errorf("outer: %w", WrapExitError(ExitCommandError, "bad flag", nil))
	assert.Equal(t, ExitCommandError, GetExitCode(wrapped))
}

func TestBackup(t *testing.T) {
	dir := writeConfig(t)
	out, err := run(t, "--config", dir, "--format", "json", "backup")
	require.NoError(t, err)

	var resp struct {
		Data map[string]string `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.FileExists(t, resp.Data["file"])
	assert.Equal(t, filepath.Join(dir, "backups"), filepath.Dir(resp.Data["file"]))
}
