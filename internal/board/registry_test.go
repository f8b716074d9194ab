package board

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAdapter struct{ ids []string }

func (s *stubAdapter) FindCompletedCardIDs(context.Context) ([]string, error) { return s.ids, nil }
func (s *stubAdapter) CardExists(id string) bool                              { return false }
func (s *stubAdapter) AddCards(context.Context, []Card) (AddResult, error)    { return AddResult{}, nil }

func TestRegisterAndOpen(t *testing.T) {
	reset()
	defer reset()

	want := &stubAdapter{ids: []string{"X1"}}
	Register("stub", func(ctx context.Context, env Env) (Adapter, error) { return want, nil })

	got, err := Open(context.Background(), "stub", Env{})
	require.NoError(t, err)
	assert.Same(t, want, got)
	assert.Equal(t, []string{"stub"}, Names())
}

func TestOpenUnregistered(t *testing.T) {
	reset()
	defer reset()

	_, err := Open(context.Background(), "nope", Env{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"nope" not registered`)
}

func TestRegisterTwicePanics(t *testing.T) {
	reset()
	defer reset()

	f := func(ctx context.Context, env Env) (Adapter, error) { return nil, nil }
	Register("dup", f)
	assert.Panics(t, func() { Register("dup", f) })
}

func TestAPIError(t *testing.T) {
	err := &APIError{Service: "kanbanflow", StatusCode: 429, Body: "slow down"}
	assert.Equal(t, "kanbanflow API request failed with status 429: slow down", err.Error())
}
