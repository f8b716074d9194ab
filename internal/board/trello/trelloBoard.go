package trelloClient

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	bc "github.com/egobogo/boardsync/internal/board"
	"github.com/egobogo/boardsync/internal/config"
	"github.com/egobogo/boardsync/internal/logging"
)

// CommentPrefix marks the comment that stores a card's external identifier.
const CommentPrefix = "external_id="

func init() {
	bc.Register("trello", func(ctx context.Context, env bc.Env) (bc.Adapter, error) {
		cfg, err := config.LoadTrello(env.Provider, env.ConfigDir)
		if err != nil {
			return nil, err
		}
		return New(ctx, cfg, WithLogger(env.Logger))
	})
}

var (
	_ bc.Adapter    = (*TrelloBoard)(nil)
	_ bc.CardLookup = (*TrelloBoard)(nil)
	_ bc.Clearer    = (*TrelloBoard)(nil)
)

// TrelloBoard adapts a Trello board to bc.Adapter.
type TrelloBoard struct {
	cfg    *config.TrelloConfig
	remote remote
	log    *slog.Logger

	labels               map[string]remoteLabel
	cardsWithExternalIDs []string
	cards                map[string]bc.Card
}

// Option configures a TrelloBoard.
type Option func(*TrelloBoard)

// WithLogger sets the logger. A nil logger is ignored.
func WithLogger(l *slog.Logger) Option {
	return func(tb *TrelloBoard) {
		if l != nil {
			tb.log = l
		}
	}
}

func withRemote(r remote) Option {
	return func(tb *TrelloBoard) { tb.remote = r }
}

// New connects to the configured board and classifies its cards.
func New(ctx context.Context, cfg *config.TrelloConfig, opts ...Option) (*TrelloBoard, error) {
	tb := &TrelloBoard{
		cfg:    cfg,
		log:    logging.Discard(),
		labels: map[string]remoteLabel{},
		cards:  map[string]bc.Card{},
	}
	for _, opt := range opts {
		opt(tb)
	}
	if tb.remote == nil {
		tb.remote = NewTrelloClient(cfg.AppKey, cfg.Token, cfg.BoardID)
	}
	tb.log = tb.log.With("board", "trello", "board_id", cfg.BoardID)
	tb.log.Debug("Connecting to Trello board")

	if err := tb.ClassifyBoard(ctx); err != nil {
		return nil, err
	}
	return tb, nil
}

// ClassifyBoard records the external identifier of every open card, in board order.
// Cards without an identifier comment are recorded as bc.NoExternalID.
func (tb *TrelloBoard) ClassifyBoard(ctx context.Context) error {
	cards, err := tb.remote.BoardCards(ctx)
	if err != nil {
		return err
	}
	tb.log.Debug("Classifying Trello board", "cards", len(cards))

	labels, err := tb.remote.BoardLabels(ctx)
	if err != nil {
		return err
	}
	tb.labels = make(map[string]remoteLabel, len(labels))
	for _, l := range labels {
		tb.labels[l.Name] = l
	}

	var open []remoteCard
	for _, c := range cards {
		if c.Closed {
			tb.log.Debug("Ignoring closed card", "name", c.Name, "id", c.ID)
			continue
		}
		tb.log.Debug("Looking for external id", "name", c.Name)
		open = append(open, c)
	}

	ids, err := tb.externalIDs(ctx, open)
	if err != nil {
		return err
	}
	tb.cardsWithExternalIDs = ids
	tb.cards = make(map[string]bc.Card, len(ids))
	for i, id := range ids {
		if id == bc.NoExternalID {
			continue
		}
		tb.cards[id] = toCard(open[i], id)
	}
	return nil
}

func toCard(c remoteCard, id string) bc.Card {
	card := bc.Card{Name: c.Name, Identifier: id, Note: c.Desc}
	if len(c.Labels) > 0 {
		card.Type = c.Labels[0]
	}
	return card
}

// externalIDs fetches comments for each card and returns identifiers index-aligned with cards.
func (tb *TrelloBoard) externalIDs(ctx context.Context, cards []remoteCard) ([]string, error) {
	ids := make([]string, len(cards))
	g, gctx := errgroup.WithContext(ctx)
	limit := tb.cfg.CommentConcurrency
	if limit < 1 {
		limit = 1
	}
	g.SetLimit(limit)
	for i, c := range cards {
		g.Go(func() error {
			comments, err := tb.remote.Comments(gctx, c.ID)
			if err != nil {
				return err
			}
			ids[i] = ExternalID(comments)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return ids, nil
}

// ExternalID extracts the identifier from the comments of a card.
// Comments arrive newest first, so the last match is the oldest identifier comment.
func ExternalID(comments []string) string {
	id := bc.NoExternalID
	for _, text := range comments {
		if strings.Contains(text, CommentPrefix) {
			id = strings.TrimSpace(strings.ReplaceAll(text, CommentPrefix, ""))
		}
	}
	return id
}

// CardsWithExternalIDs returns the classified identifiers in board order.
func (tb *TrelloBoard) CardsWithExternalIDs() []string {
	out := make([]string, len(tb.cardsWithExternalIDs))
	copy(out, tb.cardsWithExternalIDs)
	return out
}

func (tb *TrelloBoard) CardExists(identifier string) bool {
	for _, id := range tb.cardsWithExternalIDs {
		if id == identifier {
			return true
		}
	}
	return false
}

// LookupCard returns the classified card carrying identifier.
func (tb *TrelloBoard) LookupCard(identifier string) (bc.Card, bool) {
	c, ok := tb.cards[identifier]
	return c, ok
}

// AddCards creates each card on the default list with its identifier comment.
// A card whose type has no matching label is created without one.
func (tb *TrelloBoard) AddCards(ctx context.Context, cards []bc.Card) (bc.AddResult, error) {
	var result bc.AddResult
	if tb.cfg.DefaultList == "" {
		return result, fmt.Errorf("trello default_list: %w", bc.ErrUnknownList)
	}
	list, err := tb.remote.GetList(ctx, tb.cfg.DefaultList)
	if err != nil {
		return result, err
	}
	tb.log.Debug("Adding cards to lane", "count", len(cards), "list", list.Name, "list_id", list.ID)

	for _, card := range cards {
		id, err := tb.remote.CreateCard(ctx, list.ID, card.Name)
		if err != nil {
			return result, err
		}
		if card.Note != "" {
			if err := tb.remote.SetDescription(ctx, id, card.Note); err != nil {
				return result, err
			}
		}
		if err := tb.remote.AddComment(ctx, id, CommentPrefix+card.Identifier); err != nil {
			return result, err
		}

		if label, ok := tb.labels[card.Type]; ok {
			if err := tb.remote.AddLabel(ctx, id, label.ID); err != nil {
				return result, err
			}
			tb.log.Debug("Creating card with details", "name", card.Name, "identifier", card.Identifier, "type", card.Type)
		} else {
			tb.log.Debug("Can't find card type configured in Trello", "type", card.Type)
			tb.log.Debug("Creating card with details", "name", card.Name, "identifier", card.Identifier, "type", "default")
		}

		result.Created = append(result.Created, bc.CreatedCard{ID: id, Identifier: card.Identifier})
		tb.cardsWithExternalIDs = append(tb.cardsWithExternalIDs, card.Identifier)
		tb.cards[card.Identifier] = card
	}
	return result, nil
}

// FindCompletedCardIDs returns the identifiers of cards in the completed lists.
// Cards without an identifier appear as bc.NoExternalID. Duplicates are kept.
func (tb *TrelloBoard) FindCompletedCardIDs(ctx context.Context) ([]string, error) {
	tb.log.Debug("Looking for cards in completed lanes", "lists", tb.cfg.CompletedLists)
	var ids []string
	for _, listID := range tb.cfg.CompletedLists {
		cards, err := tb.remote.ListCards(ctx, listID)
		if err != nil {
			return nil, err
		}
		listIDs, err := tb.externalIDs(ctx, cards)
		if err != nil {
			return nil, err
		}
		ids = append(ids, listIDs...)
	}
	tb.log.Debug("Found completed cards on the board", "count", len(ids))
	tb.log.Debug("External ids", "ids", ids)
	return ids, nil
}

// ClearBoard deletes every card on the board. Used to reset test boards.
func (tb *TrelloBoard) ClearBoard(ctx context.Context) error {
	cards, err := tb.remote.BoardCards(ctx)
	if err != nil {
		return err
	}
	for _, c := range cards {
		tb.log.Debug("Deleting card", "name", c.Name, "id", c.ID)
		if err := tb.remote.DeleteCard(ctx, c.ID); err != nil {
			return err
		}
	}
	tb.cardsWithExternalIDs = nil
	tb.cards = map[string]bc.Card{}
	return nil
}
