package kanbanflow

import (
	"context"
	"log/slog"

	bc "github.com/egobogo/boardsync/internal/board"
	"github.com/egobogo/boardsync/internal/config"
	"github.com/egobogo/boardsync/internal/logging"
)

func init() {
	bc.Register("kanbanflow", func(ctx context.Context, env bc.Env) (bc.Adapter, error) {
		cfg, err := config.LoadKanbanFlow(env.Provider, env.ConfigDir)
		if err != nil {
			return nil, err
		}
		return New(ctx, cfg, WithLogger(env.Logger))
	})
}

var _ bc.CardLookup = (*KanbanFlow)(nil)

// KanbanFlow adapts a KanbanFlow board to bc.Adapter.
type KanbanFlow struct {
	kb  *Board
	log *slog.Logger

	clientOpts []ClientOption
}

type Option func(*KanbanFlow)

func WithLogger(l *slog.Logger) Option {
	return func(k *KanbanFlow) {
		if l != nil {
			k.log = l
		}
	}
}

func WithClientOptions(opts ...ClientOption) Option {
	return func(k *KanbanFlow) { k.clientOpts = append(k.clientOpts, opts...) }
}

// New builds the board object and loads its tasks.
func New(ctx context.Context, cfg *config.KanbanFlowConfig, opts ...Option) (*KanbanFlow, error) {
	k := &KanbanFlow{log: logging.Discard()}
	for _, opt := range opts {
		opt(k)
	}
	k.log = k.log.With("board", "kanbanflow")

	clientOpts := k.clientOpts
	if cfg.RequestsPerSecond > 0 {
		clientOpts = append([]ClientOption{WithRateLimit(cfg.RequestsPerSecond)}, clientOpts...)
	}
	client := NewClient(cfg.BaseURL, cfg.Token, clientOpts...)
	k.kb = NewBoard(client, cfg.DefaultDropLane, cfg.CardTypes, cfg.CompletedLanes, k.log)
	if err := k.kb.Refresh(ctx); err != nil {
		return nil, err
	}
	return k, nil
}

// Board returns the underlying board object.
func (k *KanbanFlow) Board() *Board { return k.kb }

// FindCompletedCardIDs returns the completed task ids as of the last refresh.
func (k *KanbanFlow) FindCompletedCardIDs(ctx context.Context) ([]string, error) {
	return k.kb.CompletedTasks(), nil
}

func (k *KanbanFlow) CardExists(identifier string) bool {
	return k.kb.HasTask(identifier)
}

func (k *KanbanFlow) AddCards(ctx context.Context, cards []bc.Card) (bc.AddResult, error) {
	added, err := k.kb.CreateTasks(ctx, cards)
	k.log.Debug("Made API requests in this session", "requests", k.kb.APIRequests())
	return added, err
}

// LookupCard returns the task carrying identifier as a card.
func (k *KanbanFlow) LookupCard(identifier string) (bc.Card, bool) {
	t, ok := k.kb.Task(identifier)
	if !ok {
		return bc.Card{}, false
	}
	card := bc.Card{Name: t.Name, Identifier: identifier, Note: t.Description}
	card.Type = k.kb.typeForColor(t.Color)
	return card, true
}
