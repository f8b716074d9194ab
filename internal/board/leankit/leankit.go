package leankit

import (
	"context"
	"log/slog"

	bc "github.com/egobogo/boardsync/internal/board"
	"github.com/egobogo/boardsync/internal/config"
	"github.com/egobogo/boardsync/internal/logging"
)

func init() {
	bc.Register("leankit", func(ctx context.Context, env bc.Env) (bc.Adapter, error) {
		cfg, err := config.LoadLeanKit(env.Provider, env.ConfigDir)
		if err != nil {
			return nil, err
		}
		return New(ctx, cfg, WithLogger(env.Logger))
	})
}

var _ bc.CardLookup = (*LeanKit)(nil)

// LeanKit adapts a LeanKit board to bc.Adapter.
type LeanKit struct {
	cfg   *config.LeanKitConfig
	board *Board
	log   *slog.Logger
	opts  []ClientOption
}

// Option configures a LeanKit adapter.
type Option func(*LeanKit)

func WithLogger(l *slog.Logger) Option {
	return func(lk *LeanKit) {
		if l != nil {
			lk.log = l
		}
	}
}

func WithClientOptions(opts ...ClientOption) Option {
	return func(lk *LeanKit) { lk.opts = append(lk.opts, opts...) }
}

// New connects with the configured credentials and loads the board.
func New(ctx context.Context, cfg *config.LeanKitConfig, opts ...Option) (*LeanKit, error) {
	lk := &LeanKit{cfg: cfg, log: logging.Discard()}
	for _, opt := range opts {
		opt(lk)
	}
	lk.log = lk.log.With("board", "leankit", "board_id", cfg.BoardID)

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = AccountURL(cfg.Account)
	}
	client := NewClient(baseURL, cfg.Email, cfg.Password, lk.opts...)

	lk.log.Debug("Connecting to Leankit board")
	board, err := LoadBoard(ctx, client, cfg.BoardID, cfg.DefaultDropLane, cfg.CardTypes, lk.log)
	if err != nil {
		return nil, err
	}
	lk.board = board
	return lk, nil
}

// Board returns the underlying board snapshot.
func (lk *LeanKit) Board() *Board { return lk.board }

// FindCompletedCardIDs returns ids in the completed lanes followed by completed task board cards.
func (lk *LeanKit) FindCompletedCardIDs(ctx context.Context) ([]string, error) {
	ids, err := lk.board.CardsWithExternalIDs(lk.cfg.CompletedLanes)
	if err != nil {
		return nil, err
	}
	lk.log.Debug("Found cards in completed lanes", "count", len(ids))

	taskboard, err := lk.FindCompletedCardsInTaskboards(ctx)
	if err != nil {
		return nil, err
	}
	ids = append(ids, taskboard...)
	lk.log.Debug("Completed cards with external ids", "ids", ids)
	return ids, nil
}

// FindCompletedCardsInTaskboards returns the ids of completed task board cards.
func (lk *LeanKit) FindCompletedCardsInTaskboards(ctx context.Context) ([]string, error) {
	cards, err := lk.board.DoneTaskboardCards(ctx)
	if err != nil {
		return nil, err
	}
	lk.log.Debug("Found completed cards in taskboards", "count", len(cards))
	return cards, nil
}

func (lk *LeanKit) CardExists(identifier string) bool {
	return lk.board.HasExternalID(identifier)
}

func (lk *LeanKit) AddCards(ctx context.Context, cards []bc.Card) (bc.AddResult, error) {
	return lk.board.AddCards(ctx, cards)
}

// LookupCard returns the board card carrying identifier.
func (lk *LeanKit) LookupCard(identifier string) (bc.Card, bool) {
	c, ok := lk.board.Card(identifier)
	if !ok {
		return bc.Card{}, false
	}
	return bc.Card{
		Name:       c.Title,
		Identifier: identifier,
		Type:       c.Type.Name,
		Note:       c.Description,
	}, true
}
