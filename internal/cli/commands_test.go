package cli

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	bc "github.com/egobogo/boardsync/internal/board"
)

type memAdapter struct {
	completed []string
	known     map[string]bool
	added     []bc.Card
	cleared   bool
}

func (m *memAdapter) FindCompletedCardIDs(context.Context) ([]string, error) { return m.completed, nil }
func (m *memAdapter) CardExists(id string) bool                              { return m.known[id] }
func (m *memAdapter) AddCards(_ context.Context, cards []bc.Card) (bc.AddResult, error) {
	var res bc.AddResult
	for _, c := range cards {
		m.added = append(m.added, c)
		res.Created = append(res.Created, bc.CreatedCard{ID: "new-" + c.Identifier, Identifier: c.Identifier})
	}
	return res, nil
}

type clearableAdapter struct{ *memAdapter }

func (c clearableAdapter) ClearBoard(context.Context) error {
	c.cleared = true
	return nil
}

var memBoards = map[string]*memAdapter{}

func init() {
	bc.Register("mem-src", func(context.Context, bc.Env) (bc.Adapter, error) { return memBoards["mem-src"], nil })
	bc.Register("mem-dst", func(context.Context, bc.Env) (bc.Adapter, error) {
		return clearableAdapter{memBoards["mem-dst"]}, nil
	})
}

func setupBoards() (src, dst *memAdapter) {
	src = &memAdapter{completed: []string{"A", "", "B"}, known: map[string]bool{}}
	dst = &memAdapter{known: map[string]bool{"B": true}}
	memBoards["mem-src"] = src
	memBoards["mem-dst"] = dst
	return src, dst
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	base := []string{"--config-dir", t.TempDir(), "--env-file", filepath.Join(t.TempDir(), "none.env")}
	cmd.SetArgs(append(args, base...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestSyncCommand(t *testing.T) {
	_, dst := setupBoards()

	out, err := run(t, "sync", "--from", "mem-src", "--to", "mem-dst")
	require.NoError(t, err)
	assert.Contains(t, out, "created A as new-A")
	assert.Contains(t, out, "3 completed, 2 skipped, 1 created")
	assert.Equal(t, []bc.Card{{Name: "A", Identifier: "A"}}, dst.added)
}

func TestSyncCommandDryRun(t *testing.T) {
	_, dst := setupBoards()

	out, err := run(t, "sync", "--from", "mem-src", "--to", "mem-dst", "--dry-run")
	require.NoError(t, err)
	assert.Contains(t, out, "would create A (A)")
	assert.Empty(t, dst.added)
}

func TestSyncCommandSameBoard(t *testing.T) {
	setupBoards()
	_, err := run(t, "sync", "--from", "mem-src", "--to", "mem-src")
	require.Error(t, err)
}

func TestSyncCommandUnknownBoard(t *testing.T) {
	setupBoards()
	_, err := run(t, "sync", "--from", "mem-src", "--to", "asana")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not registered")
}

func TestCompletedCommand(t *testing.T) {
	setupBoards()
	out, err := run(t, "completed", "mem-src")
	require.NoError(t, err)
	assert.Equal(t, "A\n-\nB\n", out)
}

func TestClearCommand(t *testing.T) {
	_, dst := setupBoards()
	_, err := run(t, "clear", "mem-dst")
	require.NoError(t, err)
	assert.True(t, dst.cleared)

	_, err = run(t, "clear", "mem-src")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot clear")
}

func TestTrelloMissingConfig(t *testing.T) {
	t.Setenv("TRELLO_APP_KEY", "")
	_, err := run(t, "completed", "trello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open config file")
}
