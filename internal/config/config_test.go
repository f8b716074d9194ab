package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/egobogo/boardsync/internal/config"
	"github.com/egobogo/boardsync/internal/config/filesys"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestLoadTrello(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, config.TrelloFile, `
app_key: key
token: tok
board_id: board
default_list: inbox
completed_lists:
  - done1
  - done2
`)
	cfg, err := config.LoadTrello(filesys.NewFilesysConfigProvider(), dir)
	require.NoError(t, err)
	assert.Equal(t, "key", cfg.AppKey)
	assert.Equal(t, "inbox", cfg.DefaultList)
	assert.Equal(t, []string{"done1", "done2"}, cfg.CompletedLists)
}

func TestLoadTrelloEnvOverride(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, config.TrelloFile, "board_id: board\n")
	t.Setenv("TRELLO_APP_KEY", "env-key")
	t.Setenv("TRELLO_TOKEN", "env-token")

	cfg, err := config.LoadTrello(filesys.NewFilesysConfigProvider(), dir)
	require.NoError(t, err)
	assert.Equal(t, "env-key", cfg.AppKey)
	assert.Equal(t, "env-token", cfg.Token)
}

func TestLoadMissingField(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, config.KanbanFlowFile, "token: abc\n")
	t.Setenv("KANBANFLOW_TOKEN", "")

	_, err := config.LoadKanbanFlow(filesys.NewFilesysConfigProvider(), dir)
	require.Error(t, err)
	assert.ErrorIs(t, err, config.ErrMissingField)
	assert.Contains(t, err.Error(), "default_drop_lane")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := config.LoadLeanKit(filesys.NewFilesysConfigProvider(), t.TempDir())
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadLeanKit(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, config.LeanKitFile, `
account: acme
email: a@b.c
password: pw
board_id: "101"
completed_lanes: [Done]
card_types:
  bug: "7"
`)
	cfg, err := config.LoadLeanKit(filesys.NewFilesysConfigProvider(), dir)
	require.NoError(t, err)
	assert.Equal(t, "101", cfg.BoardID)
	assert.Equal(t, "7", cfg.CardTypes["bug"])
}

func TestLoadEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, config.LoadEnv(filepath.Join(dir, "absent.env")))

	path := filepath.Join(dir, ".env")
	writeFile(t, dir, ".env", "BOARDSYNC_TEST_VALUE=present\n")
	t.Setenv("BOARDSYNC_TEST_VALUE", "")
	os.Unsetenv("BOARDSYNC_TEST_VALUE")
	require.NoError(t, config.LoadEnv(path))
	assert.Equal(t, "present", os.Getenv("BOARDSYNC_TEST_VALUE"))
}
