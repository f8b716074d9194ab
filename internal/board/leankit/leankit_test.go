package leankit

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	bc "github.com/egobogo/boardsync/internal/board"
	"github.com/egobogo/boardsync/internal/config"
)

// fakeLeanKit serves a single board over the LeanKit REST paths.
type fakeLeanKit struct {
	mu      sync.Mutex
	board   BoardInfo
	cards   []Card
	tasks   map[string][]Card
	created []CreateCardRequest
	pages   int
}

func newFakeLeanKit() *fakeLeanKit {
	return &fakeLeanKit{
		board: BoardInfo{
			ID:    "101",
			Title: "Team",
			Lanes: []Lane{
				{ID: "l-todo", Name: "To Do", LaneType: LaneTypeReady},
				{ID: "l-doing", Name: "Doing", LaneType: LaneTypeInProcess},
				{ID: "l-done", Name: "Done", LaneType: LaneTypeCompleted},
				{ID: "l-archive", Name: "Archive", LaneType: LaneTypeCompleted},
			},
			CardTypes: []CardType{
				{ID: "t-bug", Name: "Defect"},
				{ID: "t-feature", Name: "Feature"},
			},
		},
		cards: []Card{
			{ID: "1", Title: "Login broken", CustomID: CustomID{"X1"}, Lane: Lane{ID: "l-done"}, Type: CardType{Name: "Defect"}, Description: "500 on submit"},
			{ID: "2", Title: "No id", Lane: Lane{ID: "l-done"}},
			{ID: "3", Title: "In flight", CustomID: CustomID{"X3"}, Lane: Lane{ID: "l-doing"},
				TaskBoardStats: &TaskBoardStats{TotalCount: 2, CompletedCount: 1}},
			{ID: "4", Title: "Old", CustomID: CustomID{"X4"}, Lane: Lane{ID: "l-archive"}},
		},
		tasks: map[string][]Card{
			"3": {
				{ID: "3a", Title: "subtask done", CustomID: CustomID{"T1"}, Lane: Lane{LaneType: LaneTypeCompleted}},
				{ID: "3b", Title: "subtask open", CustomID: CustomID{"T2"}, Lane: Lane{LaneType: LaneTypeReady}},
			},
		},
	}
}

func (f *fakeLeanKit) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()
	auth := func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			user, pass, ok := r.BasicAuth()
			if !ok || user != "me@example.com" || pass != "secret" {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			next(w, r)
		}
	}
	mux.HandleFunc("GET /io/board/{id}", auth(func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("id") != f.board.ID {
			http.NotFound(w, r)
			return
		}
		_ = json.NewEncoder(w).Encode(f.board)
	}))
	mux.HandleFunc("GET /io/card", auth(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.pages++
		offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
		// two cards per page to exercise pagination
		end := offset + 2
		if end > len(f.cards) {
			end = len(f.cards)
		}
		_ = json.NewEncoder(w).Encode(cardList{
			PageMeta: PageMeta{TotalRecords: len(f.cards), Offset: offset, Limit: 2},
			Cards:    f.cards[offset:end],
		})
	}))
	mux.HandleFunc("GET /io/card/{id}/tasks", auth(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(cardList{Cards: f.tasks[r.PathValue("id")]})
	}))
	mux.HandleFunc("POST /io/card", auth(func(w http.ResponseWriter, r *http.Request) {
		var req CreateCardRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode create request: %v", err)
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		f.mu.Lock()
		f.created = append(f.created, req)
		id := "new-" + strconv.Itoa(len(f.created))
		f.mu.Unlock()
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(Card{ID: id, Title: req.Title, Lane: Lane{ID: req.LaneID}})
	}))
	return mux
}

func newTestAdapter(t *testing.T, f *fakeLeanKit, mutate func(*config.LeanKitConfig)) *LeanKit {
	t.Helper()
	srv := httptest.NewServer(f.handler(t))
	t.Cleanup(srv.Close)

	cfg := &config.LeanKitConfig{
		Email:           "me@example.com",
		Password:        "secret",
		BoardID:         "101",
		CompletedLanes:  []string{"Done", "l-archive"},
		DefaultDropLane: "To Do",
		CardTypes:       map[string]string{"bug": "Defect"},
		BaseURL:         srv.URL,
	}
	if mutate != nil {
		mutate(cfg)
	}
	lk, err := New(context.Background(), cfg)
	require.NoError(t, err)
	return lk
}

func TestNewLoadsAllPages(t *testing.T) {
	f := newFakeLeanKit()
	lk := newTestAdapter(t, f, nil)
	assert.Equal(t, 2, f.pages)
	assert.Equal(t, "Team", lk.Board().Info.Title)
}

func TestNewBadCredentials(t *testing.T) {
	f := newFakeLeanKit()
	srv := httptest.NewServer(f.handler(t))
	defer srv.Close()

	_, err := New(context.Background(), &config.LeanKitConfig{
		Email: "me@example.com", Password: "wrong", BoardID: "101", BaseURL: srv.URL,
	})
	require.Error(t, err)
	var apiErr *bc.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
}

func TestFindCompletedCardIDs(t *testing.T) {
	lk := newTestAdapter(t, newFakeLeanKit(), nil)

	ids, err := lk.FindCompletedCardIDs(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"X1", "X4", "T1"}, ids)
}

func TestFindCompletedCardIDsUnknownLane(t *testing.T) {
	lk := newTestAdapter(t, newFakeLeanKit(), func(c *config.LeanKitConfig) {
		c.CompletedLanes = []string{"Nowhere"}
	})
	_, err := lk.FindCompletedCardIDs(context.Background())
	assert.ErrorIs(t, err, bc.ErrUnknownLane)
}

func TestCardExists(t *testing.T) {
	lk := newTestAdapter(t, newFakeLeanKit(), nil)
	assert.True(t, lk.CardExists("X1"))
	assert.True(t, lk.CardExists("X3"))
	assert.False(t, lk.CardExists("T1"), "task board cards are not board cards")
	assert.False(t, lk.CardExists("missing"))
}

func TestAddCards(t *testing.T) {
	f := newFakeLeanKit()
	lk := newTestAdapter(t, f, nil)

	res, err := lk.AddCards(context.Background(), []bc.Card{
		{Name: "Crash", Identifier: "K-1", Type: "bug", Note: "stack trace"},
		{Name: "Idea", Identifier: "K-2", Type: "unknown"},
	})
	require.NoError(t, err)
	require.Len(t, res.Created, 2)
	assert.Equal(t, bc.CreatedCard{ID: "new-1", Identifier: "K-1"}, res.Created[0])

	require.Len(t, f.created, 2)
	assert.Equal(t, CreateCardRequest{
		BoardID: "101", LaneID: "l-todo", Title: "Crash", TypeID: "t-bug", CustomID: "K-1", Description: "stack trace",
	}, f.created[0])
	assert.Empty(t, f.created[1].TypeID)

	assert.True(t, lk.CardExists("K-2"))
}

func TestLookupCard(t *testing.T) {
	lk := newTestAdapter(t, newFakeLeanKit(), nil)
	card, ok := lk.LookupCard("X1")
	require.True(t, ok)
	assert.Equal(t, bc.Card{Name: "Login broken", Identifier: "X1", Type: "Defect", Note: "500 on submit"}, card)

	_, ok = lk.LookupCard("nope")
	assert.False(t, ok)
}

func TestLookupCompletedTaskboardCard(t *testing.T) {
	lk := newTestAdapter(t, newFakeLeanKit(), nil)

	_, ok := lk.LookupCard("T1")
	assert.False(t, ok, "task board cards are unknown before the completed scan")

	_, err := lk.FindCompletedCardIDs(context.Background())
	require.NoError(t, err)

	card, ok := lk.LookupCard("T1")
	require.True(t, ok)
	assert.Equal(t, "subtask done", card.Name)
	assert.Equal(t, "T1", card.Identifier)
	assert.False(t, lk.CardExists("T1"))
}
